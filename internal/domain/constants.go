package domain

const (
	DefaultIndexFileName    = "meta.json"
	DefaultIndexFileAlt     = "meta.yaml"
	DefaultThinkingMillis   = 1500
	DefaultGeneratingMillis = 2000
	DefaultAdjustMillis     = 1500
	DefaultRelatedLimit     = 3
	DefaultToolVersion      = "1.0.0"

	// Fixed namespace keys for the client-local collections.
	UserToolsKey = "user_tools"
	ToolStatsKey = "tool_stats"
)
