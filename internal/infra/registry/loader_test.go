package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"toolhub/internal/domain"
)

const sampleIndex = `{
  "version": "1.0",
  "lastUpdated": "2025-02-03",
  "tools": [
    {
      "id": "text-cleaner",
      "type": "public",
      "title": "Text Cleaner",
      "description": "Clean and normalize text instantly.",
      "category": "Text",
      "tags": ["Text", "clean", "clean", " format "],
      "icon": "🧹",
      "color": "#4facfe",
      "runtime": "offline",
      "status": "live",
      "version": "1.0.0",
      "file": "text-cleaner.html",
      "author": "Toolhub Team",
      "featured": true,
      "createdAt": "2025-02-03",
      "updatedAt": "2025-02-03"
    },
    {
      "id": "image-resizer",
      "title": "Image Resizer",
      "description": "Resize images in the browser.",
      "category": "Image",
      "tags": ["image"],
      "icon": "🖼️",
      "color": "#f093fb",
      "runtime": "offline",
      "file": "image-resizer.html",
      "author": "Toolhub Team"
    }
  ]
}`

func writeContentRoot(t *testing.T, index string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "meta.json"), []byte(index), 0o644))
	return root
}

func TestLoaderSuccess(t *testing.T) {
	root := writeContentRoot(t, sampleIndex)

	loader := NewLoader(zap.NewNop())
	index, err := loader.Load(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, index.Tools, 2)
	require.Equal(t, "1.0", index.Version)

	expect := domain.PublicTool{
		BaseTool: domain.BaseTool{
			ID:          "text-cleaner",
			Title:       "Text Cleaner",
			Description: "Clean and normalize text instantly.",
			Category:    domain.CategoryText,
			Tags:        []string{"clean", "format", "text"},
			Icon:        "🧹",
			Color:       "#4facfe",
			Runtime:     domain.RuntimeOffline,
			Status:      domain.StatusLive,
			Version:     "1.0.0",
			CreatedAt:   "2025-02-03",
			UpdatedAt:   "2025-02-03",
		},
		Type:     domain.ToolTypePublic,
		File:     "text-cleaner.html",
		Author:   "Toolhub Team",
		Featured: true,
	}
	if diff := cmp.Diff(expect, index.Tools[0]); diff != "" {
		t.Fatalf("tool mismatch (-want +got):\n%s", diff)
	}

	// Defaults applied where the entry is silent.
	require.Equal(t, domain.StatusLive, index.Tools[1].Status)
	require.Equal(t, domain.DefaultToolVersion, index.Tools[1].Version)
	require.Equal(t, domain.ToolTypePublic, index.Tools[1].Type)
}

func TestLoaderYAMLIndex(t *testing.T) {
	root := t.TempDir()
	yamlIndex := `
version: "1.0"
tools:
  - id: word-counter
    title: Word Counter
    description: Count words and characters.
    category: Text
    runtime: offline
    file: word-counter.html
    author: Toolhub Team
`
	require.NoError(t, os.WriteFile(filepath.Join(root, "meta.yaml"), []byte(yamlIndex), 0o644))

	index, err := NewLoader(zap.NewNop()).Load(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, index.Tools, 1)
	require.Equal(t, "word-counter", index.Tools[0].ID)
}

func TestLoaderRejectsInvalidEntries(t *testing.T) {
	cases := map[string]string{
		"missing id":       `{"tools":[{"title":"x","category":"Text","runtime":"offline","file":"x.html"}]}`,
		"bad category":     `{"tools":[{"id":"x","category":"Audio","runtime":"offline","file":"x.html"}]}`,
		"bad runtime":      `{"tools":[{"id":"x","category":"Text","runtime":"native","file":"x.html"}]}`,
		"bad status":       `{"tools":[{"id":"x","category":"Text","runtime":"offline","status":"gone","file":"x.html"}]}`,
		"bad version":      `{"tools":[{"id":"x","category":"Text","runtime":"offline","version":"one","file":"x.html"}]}`,
		"missing file":     `{"tools":[{"id":"x","category":"Text","runtime":"offline"}]}`,
		"traversal file":   `{"tools":[{"id":"x","category":"Text","runtime":"offline","file":"../secrets.html"}]}`,
		"non-public type":  `{"tools":[{"id":"x","type":"user","category":"Text","runtime":"offline","file":"x.html"}]}`,
		"duplicate id":     `{"tools":[{"id":"x","category":"Text","runtime":"offline","file":"a.html"},{"id":"x","category":"Text","runtime":"offline","file":"b.html"}]}`,
		"unknown category": `{"categories":[{"id":"audio","name":"Audio"}]}`,
	}

	for name, index := range cases {
		t.Run(name, func(t *testing.T) {
			root := writeContentRoot(t, index)
			_, err := NewLoader(zap.NewNop()).Load(context.Background(), root)
			require.Error(t, err)
		})
	}
}

func TestLoaderMissingIndex(t *testing.T) {
	_, err := NewLoader(zap.NewNop()).Load(context.Background(), t.TempDir())
	require.Error(t, err)
}
