package reviews

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yanqian/stay-assistant/internal/domain/assistant"
)

type rawCorpus map[string]map[string][]assistant.ReviewEntry

// FileLoader reads a corpus from the local filesystem.
type FileLoader struct{}

// Load parses the file at path; YAML is chosen by .yaml/.yml extension, JSON otherwise.
func (FileLoader) Load(_ context.Context, path string) (assistant.ReviewCorpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return assistant.ReviewCorpus{}, fmt.Errorf("read review corpus: %w", err)
	}
	return Decode(path, data)
}

// Decode parses corpus bytes using the format implied by name.
func Decode(name string, data []byte) (assistant.ReviewCorpus, error) {
	var raw rawCorpus
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return assistant.ReviewCorpus{}, fmt.Errorf("parse yaml review corpus %s: %w", name, err)
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return assistant.ReviewCorpus{}, fmt.Errorf("parse json review corpus %s: %w", name, err)
		}
	}
	return assistant.NewReviewCorpus(raw), nil
}
