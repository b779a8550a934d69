package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cli, err := initializeCLI()
	if err != nil {
		log.Fatalf("failed to wire assistant: %v", err)
	}

	if err := cli.Run(ctx); err != nil {
		log.Fatalf("assistant stopped with error: %v", err)
	}
}
