package reviews

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const jsonCorpus = `{
  "Singapore": {
    "Raffles Hotel": [
      {"date": "2025-01-05", "comment": "Impeccable service"},
      {"date": "2025-01-09", "comment": "Quiet rooms"}
    ]
  }
}`

const yamlCorpus = `
Singapore:
  Hotel Jen:
    - date: "2025-02-01"
      comment: Close to the metro
`

type stubGetter struct {
	body   string
	err    error
	bucket string
	key    string
}

func (s *stubGetter) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	s.bucket, s.key = bucket, key
	if s.err != nil {
		return nil, s.err
	}
	return io.NopCloser(strings.NewReader(s.body)), nil
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoaderReadsJSONFile(t *testing.T) {
	corpus, err := NewLoader(nil).Load(context.Background(), writeFile(t, "reviews.json", jsonCorpus))
	require.NoError(t, err)

	reviews := corpus.Reviews("singapore", "RAFFLES HOTEL")
	require.Len(t, reviews, 2)
	require.Equal(t, "2025-01-05", reviews[0].Date)
	require.Equal(t, "Quiet rooms", reviews[1].Comment)
}

func TestLoaderReadsYAMLFile(t *testing.T) {
	corpus, err := NewLoader(nil).Load(context.Background(), writeFile(t, "reviews.yml", yamlCorpus))
	require.NoError(t, err)
	require.Len(t, corpus.Reviews("Singapore", "Hotel Jen"), 1)
}

func TestLoaderReportsBadInput(t *testing.T) {
	_, err := NewLoader(nil).Load(context.Background(), writeFile(t, "reviews.json", "{not json"))
	require.Error(t, err)

	_, err = NewLoader(nil).Load(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	_, err = NewLoader(nil).Load(context.Background(), "  ")
	require.Error(t, err)

	_, err = NewLoader(nil).Load(context.Background(), "s3://corpus/reviews.json")
	require.Error(t, err)
}

func TestLoaderReadsObjectStorage(t *testing.T) {
	getter := &stubGetter{body: yamlCorpus}
	objects := NewObjectLoader(getter, slog.New(slog.NewTextHandler(io.Discard, nil)))

	corpus, err := NewLoader(objects).Load(context.Background(), "s3://travel-data/reviews/sg.yaml")
	require.NoError(t, err)
	require.Equal(t, "travel-data", getter.bucket)
	require.Equal(t, "reviews/sg.yaml", getter.key)
	require.Equal(t, 1, corpus.Len())

	getter.err = errors.New("NoSuchKey")
	_, err = objects.Load(context.Background(), "s3://travel-data/reviews/sg.yaml")
	require.ErrorContains(t, err, "NoSuchKey")
}

func TestParseObjectURL(t *testing.T) {
	bucket, key, err := ParseObjectURL("s3://bucket/a/b.json")
	require.NoError(t, err)
	require.Equal(t, "bucket", bucket)
	require.Equal(t, "a/b.json", key)

	for _, bad := range []string{"bucket/a.json", "s3://bucket", "s3:///a.json"} {
		_, _, err := ParseObjectURL(bad)
		require.Error(t, err, bad)
	}
}
