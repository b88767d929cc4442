// Package registry provides read-only access to the shipped tool
// catalog: an index file plus HTML payload files under a content root.
package registry

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"toolhub/internal/domain"
)

// Loader reads and validates the registry index file.
type Loader struct {
	logger *zap.Logger
}

func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger.Named("registry_loader")}
}

type rawIndex struct {
	Version     string        `mapstructure:"version"`
	LastUpdated string        `mapstructure:"lastUpdated"`
	Tools       []rawTool     `mapstructure:"tools"`
	Categories  []rawCategory `mapstructure:"categories"`
}

type rawTool struct {
	ID          string   `mapstructure:"id"`
	Type        string   `mapstructure:"type"`
	Title       string   `mapstructure:"title"`
	Description string   `mapstructure:"description"`
	Category    string   `mapstructure:"category"`
	Tags        []string `mapstructure:"tags"`
	Icon        string   `mapstructure:"icon"`
	Color       string   `mapstructure:"color"`
	Runtime     string   `mapstructure:"runtime"`
	Status      string   `mapstructure:"status"`
	Version     string   `mapstructure:"version"`
	File        string   `mapstructure:"file"`
	Author      string   `mapstructure:"author"`
	AuthorURL   string   `mapstructure:"authorUrl"`
	Featured    bool     `mapstructure:"featured"`
	Downloads   int      `mapstructure:"downloads"`
	Rating      float64  `mapstructure:"rating"`
	CreatedAt   string   `mapstructure:"createdAt"`
	UpdatedAt   string   `mapstructure:"updatedAt"`
}

type rawCategory struct {
	ID          string `mapstructure:"id"`
	Name        string `mapstructure:"name"`
	Icon        string `mapstructure:"icon"`
	Color       string `mapstructure:"color"`
	Description string `mapstructure:"description"`
}

// Load reads the index from the content root. meta.json is preferred,
// meta.yaml accepted as an alternative.
func (l *Loader) Load(ctx context.Context, contentRoot string) (domain.RegistryIndex, error) {
	if err := ctx.Err(); err != nil {
		return domain.RegistryIndex{}, err
	}
	if strings.TrimSpace(contentRoot) == "" {
		return domain.RegistryIndex{}, fmt.Errorf("content root is required")
	}

	path, configType, err := resolveIndexPath(contentRoot)
	if err != nil {
		return domain.RegistryIndex{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.RegistryIndex{}, fmt.Errorf("read registry index: %w", err)
	}

	v := viper.New()
	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return domain.RegistryIndex{}, fmt.Errorf("parse registry index: %w", err)
	}

	var raw rawIndex
	if err := v.Unmarshal(&raw); err != nil {
		return domain.RegistryIndex{}, fmt.Errorf("decode registry index: %w", err)
	}

	index, err := buildIndex(raw)
	if err != nil {
		return domain.RegistryIndex{}, err
	}

	l.logger.Debug("registry index loaded",
		zap.String("path", path),
		zap.Int("tools", len(index.Tools)))
	return index, nil
}

func resolveIndexPath(contentRoot string) (string, string, error) {
	jsonPath := filepath.Join(contentRoot, domain.DefaultIndexFileName)
	if _, err := os.Stat(jsonPath); err == nil {
		return jsonPath, "json", nil
	}
	yamlPath := filepath.Join(contentRoot, domain.DefaultIndexFileAlt)
	if _, err := os.Stat(yamlPath); err == nil {
		return yamlPath, "yaml", nil
	}
	return "", "", fmt.Errorf("registry index not found under %s", contentRoot)
}

func buildIndex(raw rawIndex) (domain.RegistryIndex, error) {
	index := domain.RegistryIndex{
		Version:     strings.TrimSpace(raw.Version),
		LastUpdated: strings.TrimSpace(raw.LastUpdated),
	}

	seen := make(map[string]struct{}, len(raw.Tools))
	for _, entry := range raw.Tools {
		tool, err := buildTool(entry)
		if err != nil {
			return domain.RegistryIndex{}, err
		}
		if _, dup := seen[tool.ID]; dup {
			return domain.RegistryIndex{}, fmt.Errorf("duplicate tool id %q", tool.ID)
		}
		seen[tool.ID] = struct{}{}
		index.Tools = append(index.Tools, tool)
	}

	for _, entry := range raw.Categories {
		name, ok := domain.ParseCategory(entry.Name)
		if !ok {
			return domain.RegistryIndex{}, fmt.Errorf("unknown category %q in index", entry.Name)
		}
		index.Categories = append(index.Categories, domain.CategoryMeta{
			ID:          strings.TrimSpace(entry.ID),
			Name:        name,
			Icon:        entry.Icon,
			Color:       entry.Color,
			Description: strings.TrimSpace(entry.Description),
		})
	}

	return index, nil
}

func buildTool(raw rawTool) (domain.PublicTool, error) {
	id := strings.TrimSpace(raw.ID)
	if id == "" {
		return domain.PublicTool{}, fmt.Errorf("tool id is required")
	}
	if raw.Type != "" && raw.Type != string(domain.ToolTypePublic) {
		return domain.PublicTool{}, fmt.Errorf("tool %s: registry entries must have type public", id)
	}

	category, ok := domain.ParseCategory(raw.Category)
	if !ok {
		return domain.PublicTool{}, fmt.Errorf("tool %s: unknown category %q", id, raw.Category)
	}

	runtime := domain.ToolRuntime(strings.TrimSpace(raw.Runtime))
	if !runtime.Valid() {
		return domain.PublicTool{}, fmt.Errorf("tool %s: invalid runtime %q", id, raw.Runtime)
	}

	status := domain.ToolStatus(strings.TrimSpace(raw.Status))
	if status == "" {
		status = domain.StatusLive
	}
	if !status.Valid() {
		return domain.PublicTool{}, fmt.Errorf("tool %s: invalid status %q", id, raw.Status)
	}

	version := strings.TrimSpace(raw.Version)
	if version == "" {
		version = domain.DefaultToolVersion
	}
	if !domain.ValidVersion(version) {
		return domain.PublicTool{}, fmt.Errorf("tool %s: invalid version %q", id, raw.Version)
	}

	file := strings.TrimSpace(raw.File)
	if file == "" {
		return domain.PublicTool{}, fmt.Errorf("tool %s: payload file is required", id)
	}
	if err := validatePayloadPath(file); err != nil {
		return domain.PublicTool{}, fmt.Errorf("tool %s: %w", id, err)
	}

	tags := normalizeTags(raw.Tags)

	return domain.PublicTool{
		BaseTool: domain.BaseTool{
			ID:          id,
			Title:       strings.TrimSpace(raw.Title),
			Description: strings.TrimSpace(raw.Description),
			Category:    category,
			Tags:        tags,
			Icon:        raw.Icon,
			Color:       raw.Color,
			Runtime:     runtime,
			Status:      status,
			Version:     version,
			CreatedAt:   strings.TrimSpace(raw.CreatedAt),
			UpdatedAt:   strings.TrimSpace(raw.UpdatedAt),
		},
		Type:      domain.ToolTypePublic,
		File:      file,
		Author:    strings.TrimSpace(raw.Author),
		AuthorURL: strings.TrimSpace(raw.AuthorURL),
		Featured:  raw.Featured,
		Downloads: raw.Downloads,
		Rating:    raw.Rating,
	}, nil
}

func normalizeTags(tags []string) []string {
	set := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		trimmed := strings.ToLower(strings.TrimSpace(tag))
		if trimmed == "" {
			continue
		}
		set[trimmed] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for tag := range set {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
