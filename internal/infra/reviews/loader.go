// Package reviews loads the static hotel review corpus used for ranking.
package reviews

import (
	"context"
	"fmt"
	"strings"

	"github.com/yanqian/stay-assistant/internal/domain/assistant"
)

const objectScheme = "s3://"

// Loader routes a corpus location to the file or object-storage source.
type Loader struct {
	files   FileLoader
	objects *ObjectLoader
}

// NewLoader builds a router; objects may be nil when object storage is not configured.
func NewLoader(objects *ObjectLoader) *Loader {
	return &Loader{objects: objects}
}

// Load implements assistant.ReviewLoader.
func (l *Loader) Load(ctx context.Context, location string) (assistant.ReviewCorpus, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return assistant.ReviewCorpus{}, fmt.Errorf("review corpus location is empty")
	}
	if strings.HasPrefix(location, objectScheme) {
		if l.objects == nil {
			return assistant.ReviewCorpus{}, fmt.Errorf("review corpus %q needs object storage, which is not configured", location)
		}
		return l.objects.Load(ctx, location)
	}
	return l.files.Load(ctx, location)
}

var _ assistant.ReviewLoader = (*Loader)(nil)
