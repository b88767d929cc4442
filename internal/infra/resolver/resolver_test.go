package resolver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"toolhub/internal/domain"
	"toolhub/internal/infra/registry"
	"toolhub/internal/infra/storage"
	"toolhub/internal/infra/userstore"
)

func publicTool(id string, category domain.ToolCategory, tags ...string) domain.PublicTool {
	return domain.PublicTool{
		BaseTool: domain.BaseTool{
			ID:          id,
			Title:       id,
			Description: "shipped " + id,
			Category:    category,
			Tags:        tags,
			Runtime:     domain.RuntimeOffline,
			Status:      domain.StatusLive,
			Version:     "1.0.0",
		},
		Type: domain.ToolTypePublic,
		File: id + ".html",
	}
}

func userTool(id string, category domain.ToolCategory, tags ...string) domain.UserTool {
	return domain.UserTool{
		BaseTool: domain.BaseTool{
			ID:          id,
			Title:       id,
			Description: "authored " + id,
			Category:    category,
			Tags:        tags,
			Runtime:     domain.RuntimeOffline,
			Status:      domain.StatusDraft,
			Version:     "1.0.0",
		},
		Type:        domain.ToolTypeUser,
		HTMLContent: "<html>" + id + "</html>",
		UserID:      "local",
	}
}

func newTestResolver(t *testing.T, shipped []domain.PublicTool, payloads map[string]string) (*Resolver, *userstore.Store) {
	t.Helper()
	root := t.TempDir()
	for file, html := range payloads {
		require.NoError(t, os.WriteFile(filepath.Join(root, file), []byte(html), 0o644))
	}
	reg := registry.NewStore(root, domain.RegistryIndex{Tools: shipped}, zap.NewNop(), nil)
	users := userstore.New(storage.NewMemoryPort(), zap.NewNop())
	return New(reg, users, zap.NewNop(), nil), users
}

func TestResolvePrecedence(t *testing.T) {
	shipped := []domain.PublicTool{publicTool("csv-to-json", domain.CategoryFile, "csv")}
	r, users := newTestResolver(t, shipped, nil)

	// A user tool colliding with a shipped id is shadowed but stays in
	// the user store.
	require.NoError(t, users.Upsert(userTool("csv-to-json", domain.CategoryFile, "csv")))
	require.NoError(t, users.Upsert(userTool("my-notes", domain.CategoryProductivity, "notes")))

	tool, err := r.Resolve("csv-to-json")
	require.NoError(t, err)
	require.Equal(t, domain.ToolTypePublic, tool.ToolType())
	require.Len(t, users.ListAll(), 2)

	tool, err = r.Resolve("my-notes")
	require.NoError(t, err)
	require.Equal(t, domain.ToolTypeUser, tool.ToolType())

	_, err = r.Resolve("missing")
	require.ErrorIs(t, err, domain.ErrToolNotFound)
}

func TestLoadHTMLDispatch(t *testing.T) {
	shipped := []domain.PublicTool{publicTool("text-cleaner", domain.CategoryText, "text")}
	r, users := newTestResolver(t, shipped, map[string]string{"text-cleaner.html": "<html>clean</html>"})
	require.NoError(t, users.Upsert(userTool("my-notes", domain.CategoryProductivity)))

	tool, err := r.Resolve("text-cleaner")
	require.NoError(t, err)
	html, err := r.LoadHTML(context.Background(), tool)
	require.NoError(t, err)
	require.Equal(t, "<html>clean</html>", html)

	tool, err = r.Resolve("my-notes")
	require.NoError(t, err)
	html, err = r.LoadHTML(context.Background(), tool)
	require.NoError(t, err)
	require.Equal(t, "<html>my-notes</html>", html)
}

func TestAllMergesRegistryFirst(t *testing.T) {
	shipped := []domain.PublicTool{publicTool("a", domain.CategoryText)}
	r, users := newTestResolver(t, shipped, nil)
	require.NoError(t, users.Upsert(userTool("b", domain.CategoryText)))

	all := r.All()
	require.Len(t, all, 2)
	require.Equal(t, "a", all[0].Base().ID)
	require.Equal(t, "b", all[1].Base().ID)
}

func TestSearch(t *testing.T) {
	r, _ := newTestResolver(t, nil, nil)
	pool := []domain.Tool{
		publicTool("csv-to-json", domain.CategoryFile, "csv", "json"),
		publicTool("text-cleaner", domain.CategoryText, "text"),
		userTool("csv-notes", domain.CategoryProductivity, "notes"),
	}

	out := r.Search(pool, "CSV")
	require.Len(t, out, 2)
	require.Equal(t, "csv-to-json", out[0].Base().ID)
	require.Equal(t, "csv-notes", out[1].Base().ID)

	// Empty query matches every tool.
	require.Len(t, r.Search(pool, ""), 3)

	require.Empty(t, r.Search(pool, "video"))
}

func TestRelatedTo(t *testing.T) {
	r, _ := newTestResolver(t, nil, nil)
	anchor := publicTool("csv-to-json", domain.CategoryFile, "csv", "json")
	pool := []domain.Tool{
		anchor,
		publicTool("file-merger", domain.CategoryFile, "merge"),
		publicTool("json-pretty", domain.CategoryText, "json"),
		publicTool("video-trim", domain.CategoryVideo, "video"),
		publicTool("file-split", domain.CategoryFile, "split"),
	}

	related := r.RelatedTo(anchor, pool, 0)
	require.Len(t, related, 3)
	// Pool order preserved, anchor excluded, no relevance ranking.
	require.Equal(t, "file-merger", related[0].Base().ID)
	require.Equal(t, "json-pretty", related[1].Base().ID)
	require.Equal(t, "file-split", related[2].Base().ID)

	related = r.RelatedTo(anchor, pool, 1)
	require.Len(t, related, 1)
}
