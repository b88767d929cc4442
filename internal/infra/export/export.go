// Package export turns tool payloads into downloadable HTML artifacts.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"toolhub/internal/domain"
)

// Filename names a registry or user tool export.
func Filename(tool domain.Tool) string {
	base := tool.Base()
	version := strings.TrimSpace(base.Version)
	if version == "" {
		version = domain.DefaultToolVersion
	}
	return fmt.Sprintf("%s-%s.html", base.ID, version)
}

// DraftFilename names an ad-hoc draft export.
func DraftFilename(now time.Time) string {
	return fmt.Sprintf("custom-tool-%d.html", now.UnixMilli())
}

// Writer places artifacts in an output directory.
type Writer struct {
	logger *zap.Logger
	outDir string
}

func NewWriter(outDir string, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{
		logger: logger.Named("export"),
		outDir: outDir,
	}
}

// Write stores the payload under filename and returns the full path.
func (w *Writer) Write(filename, html string) (string, error) {
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return "", fmt.Errorf("ensure export dir: %w", err)
	}
	path := filepath.Join(w.outDir, filename)
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	w.logger.Info("artifact exported", zap.String("path", path))
	return path, nil
}
