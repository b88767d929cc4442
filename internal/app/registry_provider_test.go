package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"toolhub/internal/domain"
)

const providerIndex = `{
  "version": "1.0",
  "tools": [
    {
      "id": "text-cleaner",
      "title": "Text Cleaner",
      "category": "Text",
      "runtime": "offline",
      "file": "text-cleaner.html",
      "author": "Toolhub Team"
    }
  ]
}`

func writeIndex(t *testing.T, root, index string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, "meta.json"), []byte(index), 0o644))
}

func TestProviderSnapshot(t *testing.T) {
	root := t.TempDir()
	writeIndex(t, root, providerIndex)

	provider, err := NewRegistryProvider(context.Background(), root, zap.NewNop(), nil)
	require.NoError(t, err)

	state := provider.Snapshot()
	require.Equal(t, uint64(1), state.Revision)
	require.Len(t, state.Index.Tools, 1)

	_, ok := provider.Store().GetByID("text-cleaner")
	require.True(t, ok)
}

func TestProviderManualReload(t *testing.T) {
	root := t.TempDir()
	writeIndex(t, root, providerIndex)

	provider, err := NewRegistryProvider(context.Background(), root, zap.NewNop(), nil)
	require.NoError(t, err)

	updates := provider.Watch(context.Background())

	second := `{
  "version": "1.1",
  "tools": [
    {
      "id": "text-cleaner",
      "title": "Text Cleaner",
      "category": "Text",
      "runtime": "offline",
      "file": "text-cleaner.html",
      "author": "Toolhub Team"
    },
    {
      "id": "word-counter",
      "title": "Word Counter",
      "category": "Text",
      "runtime": "offline",
      "file": "word-counter.html",
      "author": "Toolhub Team"
    }
  ]
}`
	writeIndex(t, root, second)
	require.NoError(t, provider.Reload(context.Background()))

	state := provider.Snapshot()
	require.Equal(t, uint64(2), state.Revision)
	require.Len(t, state.Index.Tools, 2)

	update := <-updates
	require.Equal(t, UpdateSourceManual, update.Source)
	require.Equal(t, uint64(2), update.State.Revision)

	_, ok := provider.Store().GetByID("word-counter")
	require.True(t, ok)
}

func TestVersionChanges(t *testing.T) {
	prev := domain.RegistryIndex{Tools: []domain.PublicTool{
		{BaseTool: domain.BaseTool{ID: "text-cleaner", Version: "1.0.0"}},
		{BaseTool: domain.BaseTool{ID: "word-counter", Version: "2.1.0"}},
	}}
	next := domain.RegistryIndex{Tools: []domain.PublicTool{
		{BaseTool: domain.BaseTool{ID: "text-cleaner", Version: "1.1.0"}},
		{BaseTool: domain.BaseTool{ID: "word-counter", Version: "2.1.0"}},
		{BaseTool: domain.BaseTool{ID: "json-viewer", Version: "1.0.0"}},
	}}

	// Only moved versions are reported; new ids are not changes.
	require.Equal(t,
		[]string{"text-cleaner 1.0.0 -> 1.1.0"},
		versionChanges(prev, next))
	require.Empty(t, versionChanges(prev, prev))
}

func TestProviderReloadKeepsStateOnError(t *testing.T) {
	root := t.TempDir()
	writeIndex(t, root, providerIndex)

	provider, err := NewRegistryProvider(context.Background(), root, zap.NewNop(), nil)
	require.NoError(t, err)

	writeIndex(t, root, `{"tools":[{"id":""}]}`)
	require.Error(t, provider.Reload(context.Background()))

	state := provider.Snapshot()
	require.Equal(t, uint64(1), state.Revision)
	require.Len(t, state.Index.Tools, 1)
}

func TestIsIndexPath(t *testing.T) {
	require.True(t, isIndexPath("/srv/content/meta.json"))
	require.True(t, isIndexPath("/srv/content/meta.yaml"))
	require.False(t, isIndexPath("/srv/content/text-cleaner.html"))
}
