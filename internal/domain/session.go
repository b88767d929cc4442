package domain

import "time"

// SessionMode tracks which authoring surface is active. A session
// enters workbench at most once and never leaves it.
type SessionMode string

const (
	ModeDialog    SessionMode = "dialog"
	ModeWorkbench SessionMode = "workbench"
)

// GenerationPhase is the authoring state machine position.
type GenerationPhase string

const (
	PhaseIdle       GenerationPhase = "idle"
	PhaseThinking   GenerationPhase = "thinking"
	PhaseGenerating GenerationPhase = "generating"
	PhaseCompleted  GenerationPhase = "completed"
)

// Role identifies the author of a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one transcript entry. The transcript is append-only.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionState is a point-in-time copy of an authoring session.
type SessionState struct {
	Mode       SessionMode     `json:"mode"`
	Phase      GenerationPhase `json:"phase"`
	Transcript []Message       `json:"transcript"`
	DraftHTML  string          `json:"draftHtml"`
	Err        error           `json:"-"`
}
