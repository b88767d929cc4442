package userstore

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"toolhub/internal/domain"
	"toolhub/internal/infra/storage"
)

func userTool(id, title string) domain.UserTool {
	return domain.UserTool{
		BaseTool: domain.BaseTool{
			ID:       id,
			Title:    title,
			Category: domain.CategoryText,
			Tags:     []string{"csv"},
			Runtime:  domain.RuntimeOffline,
			Status:   domain.StatusDraft,
			Version:  "1.0.0",
		},
		Type:        domain.ToolTypeUser,
		HTMLContent: "<html>" + title + "</html>",
		UserID:      "local",
	}
}

func TestListAllEmptyAndCorrupt(t *testing.T) {
	port := storage.NewMemoryPort()
	store := New(port, zap.NewNop())

	require.Empty(t, store.ListAll())

	require.NoError(t, port.Write(domain.UserToolsKey, []byte("{not json")))
	require.Empty(t, store.ListAll())
}

func TestUpsertInsertsExactRecord(t *testing.T) {
	store := New(storage.NewMemoryPort(), zap.NewNop())
	tool := userTool("u-1", "CSV Helper")

	require.NoError(t, store.Upsert(tool))

	tools := store.ListAll()
	require.Len(t, tools, 1)
	if diff := cmp.Diff(tool, tools[0]); diff != "" {
		t.Fatalf("record drift (-want +got):\n%s", diff)
	}
}

func TestUpsertReplacesInFull(t *testing.T) {
	store := New(storage.NewMemoryPort(), zap.NewNop())
	original := userTool("u-1", "CSV Helper")
	original.ShareID = "share-1"
	require.NoError(t, store.Upsert(original))

	// Replacement drops ShareID entirely: no field-level merge.
	replacement := userTool("u-1", "CSV Helper v2")
	require.NoError(t, store.Upsert(replacement))

	tools := store.ListAll()
	require.Len(t, tools, 1)
	require.Equal(t, "CSV Helper v2", tools[0].Title)
	require.Empty(t, tools[0].ShareID)

	// Idempotent: same value twice still yields one record.
	require.NoError(t, store.Upsert(replacement))
	again := store.ListAll()
	require.Len(t, again, 1)
	if diff := cmp.Diff(tools[0], again[0]); diff != "" {
		t.Fatalf("repeat upsert drift (-want +got):\n%s", diff)
	}
}

func TestDelete(t *testing.T) {
	store := New(storage.NewMemoryPort(), zap.NewNop())
	require.NoError(t, store.Upsert(userTool("u-1", "A")))
	require.NoError(t, store.Upsert(userTool("u-2", "B")))

	require.NoError(t, store.Delete("u-1"))
	tools := store.ListAll()
	require.Len(t, tools, 1)
	require.Equal(t, "u-2", tools[0].ID)

	// Deleting an absent id leaves the collection unchanged.
	require.NoError(t, store.Delete("u-404"))
	require.Len(t, store.ListAll(), 1)
}

func TestGetByID(t *testing.T) {
	store := New(storage.NewMemoryPort(), zap.NewNop())
	require.NoError(t, store.Upsert(userTool("u-1", "A")))

	tool, ok := store.GetByID("u-1")
	require.True(t, ok)
	require.Equal(t, "A", tool.Title)

	_, ok = store.GetByID("u-2")
	require.False(t, ok)
}

func TestPersistsAcrossStoreInstances(t *testing.T) {
	port := storage.NewMemoryPort()
	first := New(port, zap.NewNop())
	require.NoError(t, first.Upsert(userTool("u-1", "A")))

	second := New(port, zap.NewNop())
	tools := second.ListAll()
	require.Len(t, tools, 1)
	require.Equal(t, domain.ToolTypeUser, tools[0].Type)
}
