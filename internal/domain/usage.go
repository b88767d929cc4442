package domain

import "time"

// UsageStat tracks best-effort view/download counters for one tool.
// ToolID is a weak reference; dangling entries are tolerated and
// deleting a tool does not cascade here.
type UsageStat struct {
	ToolID    string    `json:"toolId"`
	Views     int       `json:"views"`
	Downloads int       `json:"downloads"`
	LastUsed  time.Time `json:"lastUsed"`
}
