package domain

import (
	"strings"

	"golang.org/x/mod/semver"
)

// ToolCategory classifies a tool for filtering and icon/color lookup.
type ToolCategory string

const (
	CategoryImage        ToolCategory = "Image"
	CategoryVideo        ToolCategory = "Video"
	CategoryFile         ToolCategory = "File"
	CategoryText         ToolCategory = "Text"
	CategoryProductivity ToolCategory = "Productivity"
)

// ToolCategories lists every valid category in display order.
var ToolCategories = []ToolCategory{
	CategoryImage,
	CategoryVideo,
	CategoryFile,
	CategoryText,
	CategoryProductivity,
}

func (c ToolCategory) Valid() bool {
	switch c {
	case CategoryImage, CategoryVideo, CategoryFile, CategoryText, CategoryProductivity:
		return true
	default:
		return false
	}
}

// ParseCategory matches a category name case-insensitively.
func ParseCategory(value string) (ToolCategory, bool) {
	trimmed := strings.TrimSpace(value)
	for _, c := range ToolCategories {
		if strings.EqualFold(string(c), trimmed) {
			return c, true
		}
	}
	return "", false
}

// CategoryMeta carries display metadata for one category.
type CategoryMeta struct {
	ID          string       `json:"id"`
	Name        ToolCategory `json:"name"`
	Icon        string       `json:"icon"`
	Color       string       `json:"color"`
	Description string       `json:"description"`
}

var categoryMeta = map[ToolCategory]CategoryMeta{
	CategoryImage:        {ID: "image", Name: CategoryImage, Icon: "🖼️", Color: "#f093fb", Description: "Image conversion, compression and editing"},
	CategoryVideo:        {ID: "video", Name: CategoryVideo, Icon: "🎬", Color: "#fa709a", Description: "Video processing and conversion"},
	CategoryFile:         {ID: "file", Name: CategoryFile, Icon: "📁", Color: "#30cfd0", Description: "File conversion and management"},
	CategoryText:         {ID: "text", Name: CategoryText, Icon: "📝", Color: "#4facfe", Description: "Text processing and formatting"},
	CategoryProductivity: {ID: "productivity", Name: CategoryProductivity, Icon: "⚡", Color: "#a8edea", Description: "Everyday productivity helpers"},
}

// CategoryMetaFor returns display metadata for a category.
func CategoryMetaFor(c ToolCategory) (CategoryMeta, bool) {
	meta, ok := categoryMeta[c]
	return meta, ok
}

func CategoryColor(c ToolCategory) string {
	if meta, ok := categoryMeta[c]; ok {
		return meta.Color
	}
	return ""
}

func CategoryIcon(c ToolCategory) string {
	if meta, ok := categoryMeta[c]; ok {
		return meta.Icon
	}
	return ""
}

// ToolRuntime indicates whether a tool needs network access to run.
type ToolRuntime string

const (
	RuntimeOnline  ToolRuntime = "online"
	RuntimeOffline ToolRuntime = "offline"
)

func (r ToolRuntime) Valid() bool {
	return r == RuntimeOnline || r == RuntimeOffline
}

// ToolStatus governs UI affordances only; no transitions are enforced.
type ToolStatus string

const (
	StatusLive       ToolStatus = "live"
	StatusDraft      ToolStatus = "draft"
	StatusDeprecated ToolStatus = "deprecated"
)

func (s ToolStatus) Valid() bool {
	switch s {
	case StatusLive, StatusDraft, StatusDeprecated:
		return true
	default:
		return false
	}
}

// ToolType discriminates the two tool variants. Consumers dispatch on
// this tag exhaustively, never by probing for fields.
type ToolType string

const (
	ToolTypePublic ToolType = "public"
	ToolTypeUser   ToolType = "user"
)

// BaseTool holds the fields shared by both tool variants.
type BaseTool struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Category    ToolCategory `json:"category"`
	Tags        []string     `json:"tags"`
	Icon        string       `json:"icon"`
	Color       string       `json:"color"`
	Runtime     ToolRuntime  `json:"runtime"`
	Status      ToolStatus   `json:"status"`
	Version     string       `json:"version"`
	CreatedAt   string       `json:"createdAt"`
	UpdatedAt   string       `json:"updatedAt"`
}

// PublicTool is shipped with the registry and never mutated at runtime.
// File references an HTML payload under the registry content root.
type PublicTool struct {
	BaseTool
	Type      ToolType `json:"type"`
	File      string   `json:"file"`
	Author    string   `json:"author"`
	AuthorURL string   `json:"authorUrl,omitempty"`
	Featured  bool     `json:"featured,omitempty"`
	Downloads int      `json:"downloads,omitempty"`
	Rating    float64  `json:"rating,omitempty"`
}

// UserTool is authored through a session and persisted client-locally.
// The payload lives inline in HTMLContent.
type UserTool struct {
	BaseTool
	Type        ToolType `json:"type"`
	HTMLContent string   `json:"htmlContent"`
	UserID      string   `json:"userId"`
	IsPublic    bool     `json:"isPublic"`
	ShareID     string   `json:"shareId,omitempty"`
	ParentID    string   `json:"parentId,omitempty"`
	UsageCount  int      `json:"usageCount,omitempty"`
}

// Tool is the union of the two variants.
type Tool interface {
	Base() BaseTool
	ToolType() ToolType
}

func (t PublicTool) Base() BaseTool     { return t.BaseTool }
func (t PublicTool) ToolType() ToolType { return ToolTypePublic }

func (t UserTool) Base() BaseTool     { return t.BaseTool }
func (t UserTool) ToolType() ToolType { return ToolTypeUser }

// ValidVersion reports whether a bare "X.Y.Z" string is a well formed
// semantic version.
func ValidVersion(version string) bool {
	trimmed := strings.TrimSpace(version)
	if trimmed == "" || strings.HasPrefix(trimmed, "v") {
		return false
	}
	return semver.IsValid("v" + trimmed)
}

// CompareVersions orders two bare semantic versions like semver.Compare.
func CompareVersions(a, b string) int {
	return semver.Compare("v"+strings.TrimSpace(a), "v"+strings.TrimSpace(b))
}

// RegistryIndex is the decoded registry metadata file.
type RegistryIndex struct {
	Version     string         `json:"version"`
	LastUpdated string         `json:"lastUpdated"`
	Tools       []PublicTool   `json:"tools"`
	Categories  []CategoryMeta `json:"categories,omitempty"`
}
