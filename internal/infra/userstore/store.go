// Package userstore persists user-authored tools as one JSON collection
// behind the storage port.
package userstore

import (
	"encoding/json"

	"go.uber.org/zap"

	"toolhub/internal/domain"
	"toolhub/internal/infra/storage"
)

// Store owns the user-tool collection. Every mutation is a synchronous
// whole-collection read-modify-write; last writer wins under the
// single-client assumption.
type Store struct {
	logger *zap.Logger
	port   storage.Port
}

func New(port storage.Port, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		logger: logger.Named("userstore"),
		port:   port,
	}
}

// ListAll returns every persisted user tool. Missing or corrupt data
// yields an empty slice, never an error.
func (s *Store) ListAll() []domain.UserTool {
	blob, err := s.port.Read(domain.UserToolsKey)
	if err != nil {
		s.logger.Warn("user tools read failed", zap.Error(err))
		return []domain.UserTool{}
	}
	if len(blob) == 0 {
		return []domain.UserTool{}
	}
	var tools []domain.UserTool
	if err := json.Unmarshal(blob, &tools); err != nil {
		s.logger.Warn("user tools collection corrupt, starting empty", zap.Error(err))
		return []domain.UserTool{}
	}
	for i := range tools {
		tools[i].Type = domain.ToolTypeUser
	}
	return tools
}

// GetByID finds one user tool.
func (s *Store) GetByID(id string) (domain.UserTool, bool) {
	for _, tool := range s.ListAll() {
		if tool.ID == id {
			return tool, true
		}
	}
	return domain.UserTool{}, false
}

// Upsert replaces the record with a matching id in full, or appends.
func (s *Store) Upsert(tool domain.UserTool) error {
	tool.Type = domain.ToolTypeUser
	tools := s.ListAll()
	replaced := false
	for i := range tools {
		if tools[i].ID == tool.ID {
			tools[i] = tool
			replaced = true
			break
		}
	}
	if !replaced {
		tools = append(tools, tool)
	}
	return s.write(tools)
}

// Delete removes the matching record; absent ids are a no-op.
func (s *Store) Delete(id string) error {
	tools := s.ListAll()
	filtered := tools[:0]
	for _, tool := range tools {
		if tool.ID != id {
			filtered = append(filtered, tool)
		}
	}
	return s.write(filtered)
}

func (s *Store) write(tools []domain.UserTool) error {
	blob, err := json.Marshal(tools)
	if err != nil {
		return domain.E(domain.CodeInternal, "userstore.write", "", err)
	}
	if err := s.port.Write(domain.UserToolsKey, blob); err != nil {
		return domain.E(domain.CodeInternal, "userstore.write", "", err)
	}
	return nil
}
