package export

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"toolhub/internal/domain"
)

func TestFilename(t *testing.T) {
	tool := domain.PublicTool{
		BaseTool: domain.BaseTool{ID: "text-cleaner", Version: "1.2.0"},
		Type:     domain.ToolTypePublic,
	}
	require.Equal(t, "text-cleaner-1.2.0.html", Filename(tool))

	// Missing version falls back to the default.
	unversioned := domain.UserTool{
		BaseTool: domain.BaseTool{ID: "my-tool"},
		Type:     domain.ToolTypeUser,
	}
	require.Equal(t, "my-tool-1.0.0.html", Filename(unversioned))
}

func TestDraftFilename(t *testing.T) {
	now := time.UnixMilli(1738584000000)
	require.Equal(t, "custom-tool-1738584000000.html", DraftFilename(now))
}

func TestWriterRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writer := NewWriter(dir, zap.NewNop())

	path, err := writer.Write("a-1.0.0.html", "<html>a</html>")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "<html>a</html>", string(data))
}
