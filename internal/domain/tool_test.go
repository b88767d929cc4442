package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	category, ok := ParseCategory("text")
	require.True(t, ok)
	require.Equal(t, CategoryText, category)

	category, ok = ParseCategory(" Productivity ")
	require.True(t, ok)
	require.Equal(t, CategoryProductivity, category)

	_, ok = ParseCategory("audio")
	require.False(t, ok)
}

func TestCategoryMeta(t *testing.T) {
	for _, category := range ToolCategories {
		meta, ok := CategoryMetaFor(category)
		require.True(t, ok)
		require.NotEmpty(t, meta.ID)
		require.NotEmpty(t, meta.Color)
		require.Equal(t, meta.Color, CategoryColor(category))
		require.Equal(t, meta.Icon, CategoryIcon(category))
	}
	require.Empty(t, CategoryColor(ToolCategory("audio")))
}

func TestValidVersion(t *testing.T) {
	require.True(t, ValidVersion("1.0.0"))
	require.True(t, ValidVersion("0.2.11"))
	require.False(t, ValidVersion(""))
	require.False(t, ValidVersion("v1.0.0"))
	require.False(t, ValidVersion("1.0"))
	require.False(t, ValidVersion("not-a-version"))
}

func TestCompareVersions(t *testing.T) {
	require.Equal(t, 0, CompareVersions("1.0.0", "1.0.0"))
	require.Equal(t, -1, CompareVersions("1.0.0", "1.2.0"))
	require.Equal(t, 1, CompareVersions("2.0.0", "1.9.9"))
}

func TestToolTypeDispatch(t *testing.T) {
	public := PublicTool{
		BaseTool: BaseTool{ID: "text-cleaner", Title: "Text Cleaner"},
		Type:     ToolTypePublic,
		File:     "text-cleaner.html",
	}
	user := UserTool{
		BaseTool:    BaseTool{ID: "my-tool", Title: "My Tool"},
		Type:        ToolTypeUser,
		HTMLContent: "<html></html>",
	}

	var tool Tool = public
	require.Equal(t, ToolTypePublic, tool.ToolType())
	require.Equal(t, "text-cleaner", tool.Base().ID)

	tool = user
	require.Equal(t, ToolTypeUser, tool.ToolType())
	require.Equal(t, "my-tool", tool.Base().ID)
}

func TestUserToolJSONShape(t *testing.T) {
	user := UserTool{
		BaseTool: BaseTool{
			ID:       "u-1",
			Title:    "CSV Helper",
			Category: CategoryFile,
			Tags:     []string{"csv"},
			Runtime:  RuntimeOffline,
			Status:   StatusDraft,
			Version:  "1.0.0",
		},
		Type:        ToolTypeUser,
		HTMLContent: "<html></html>",
		UserID:      "local",
		IsPublic:    false,
	}

	data, err := json.Marshal(user)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, "user", decoded["type"])
	require.Equal(t, "<html></html>", decoded["htmlContent"])
	require.Equal(t, "local", decoded["userId"])
	require.NotContains(t, decoded, "shareId")
	require.NotContains(t, decoded, "parentId")
}
