package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"toolhub/internal/domain"
)

// Store serves the shipped catalog. It is read-only: the index and the
// payload files change only when the content root is redeployed.
type Store struct {
	logger      *zap.Logger
	contentRoot string
	index       domain.RegistryIndex
	byID        map[string]domain.PublicTool
	metrics     domain.Metrics
}

func NewStore(contentRoot string, index domain.RegistryIndex, logger *zap.Logger, metrics domain.Metrics) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = domain.NopMetrics()
	}
	byID := make(map[string]domain.PublicTool, len(index.Tools))
	for _, tool := range index.Tools {
		byID[tool.ID] = tool
	}
	return &Store{
		logger:      logger.Named("registry"),
		contentRoot: contentRoot,
		index:       index,
		byID:        byID,
		metrics:     metrics,
	}
}

// Index returns the loaded index metadata.
func (s *Store) Index() domain.RegistryIndex { return s.index }

// List returns the full shipped catalog. Order follows the index file.
func (s *Store) List() []domain.PublicTool {
	out := make([]domain.PublicTool, len(s.index.Tools))
	copy(out, s.index.Tools)
	return out
}

// GetByID looks up one shipped tool.
func (s *Store) GetByID(id string) (domain.PublicTool, bool) {
	tool, ok := s.byID[id]
	return tool, ok
}

// Featured returns the shipped tools flagged as featured.
func (s *Store) Featured() []domain.PublicTool {
	var out []domain.PublicTool
	for _, tool := range s.index.Tools {
		if tool.Featured {
			out = append(out, tool)
		}
	}
	return out
}

// LoadPayload reads the HTML payload referenced by a shipped tool.
// Paths are confined to the content root.
func (s *Store) LoadPayload(ctx context.Context, tool domain.PublicTool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	start := time.Now()
	path, err := s.payloadPath(tool.File)
	if err != nil {
		s.metrics.ObservePayloadLoad(time.Since(start), err)
		return "", domain.E(domain.CodeInvalidArgument, "registry.LoadPayload", err.Error(), err)
	}
	data, err := os.ReadFile(path)
	s.metrics.ObservePayloadLoad(time.Since(start), err)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn("payload file missing",
				zap.String("tool", tool.ID),
				zap.String("file", tool.File))
			return "", domain.E(domain.CodePayloadNotFound, "registry.LoadPayload",
				fmt.Sprintf("payload %s for tool %s", tool.File, tool.ID), domain.ErrPayloadNotFound)
		}
		return "", domain.E(domain.CodeInternal, "registry.LoadPayload", "", err)
	}
	return string(data), nil
}

func (s *Store) payloadPath(file string) (string, error) {
	if err := validatePayloadPath(file); err != nil {
		return "", err
	}
	return filepath.Join(s.contentRoot, filepath.FromSlash(file)), nil
}

func validatePayloadPath(file string) error {
	if file == "" {
		return fmt.Errorf("payload path is empty")
	}
	if filepath.IsAbs(file) || strings.HasPrefix(file, "/") {
		return fmt.Errorf("%w: %s", domain.ErrPathEscape, file)
	}
	clean := filepath.ToSlash(filepath.Clean(filepath.FromSlash(file)))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("%w: %s", domain.ErrPathEscape, file)
	}
	return nil
}
