// Package session implements the authoring workflow state machine:
// describe, generate, adjust, export.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"toolhub/internal/domain"
	"toolhub/internal/infra/export"
	"toolhub/internal/infra/generate"
	"toolhub/internal/infra/userstore"
)

// Config carries the phase delays. Zero values fall back to defaults.
type Config struct {
	ThinkingDelay   time.Duration
	GeneratingDelay time.Duration
	AdjustDelay     time.Duration
}

func (c Config) withDefaults() Config {
	if c.ThinkingDelay <= 0 {
		c.ThinkingDelay = domain.DefaultThinkingMillis * time.Millisecond
	}
	if c.GeneratingDelay <= 0 {
		c.GeneratingDelay = domain.DefaultGeneratingMillis * time.Millisecond
	}
	if c.AdjustDelay <= 0 {
		c.AdjustDelay = domain.DefaultAdjustMillis * time.Millisecond
	}
	return c
}

// Session drives one authoring workflow. All transitions happen behind
// one mutex; the delays are cancellable timers owned by the session, so
// teardown can never race a stale write.
type Session struct {
	logger  *zap.Logger
	gen     generate.Generator
	clock   Clock
	cfg     Config
	metrics domain.Metrics

	mu         sync.Mutex
	mode       domain.SessionMode
	phase      domain.GenerationPhase
	transcript []domain.Message
	draft      string
	err        error
	prompt     string

	pending Timer
	round   uint64
	done    chan struct{}
	closed  bool
}

func New(gen generate.Generator, clock Clock, cfg Config, logger *zap.Logger, metrics domain.Metrics) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = SystemClock()
	}
	if metrics == nil {
		metrics = domain.NopMetrics()
	}
	return &Session{
		logger:  logger.Named("session"),
		gen:     gen,
		clock:   clock,
		cfg:     cfg.withDefaults(),
		metrics: metrics,
		mode:    domain.ModeDialog,
		phase:   domain.PhaseIdle,
	}
}

// Start begins the workflow with the initial prompt. Blank input and a
// session with a round in flight or settled are no-ops, reported as
// false. A workbench session left idle by a failed first generation
// accepts Start again, beginning a fresh round.
func (s *Session) Start(prompt string) bool {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	restartable := s.mode == domain.ModeWorkbench && s.phase == domain.PhaseIdle
	if s.closed || (s.mode != domain.ModeDialog && !restartable) {
		return false
	}

	s.appendMessageLocked(domain.RoleUser, prompt)
	s.mode = domain.ModeWorkbench
	s.phase = domain.PhaseThinking
	s.prompt = trimmed
	s.err = nil
	s.round++
	s.done = make(chan struct{})

	round := s.round
	s.pending = s.clock.AfterFunc(s.cfg.ThinkingDelay, func() {
		s.enterGenerating(round)
	})
	s.logger.Debug("session started", zap.String("prompt", trimmed))
	return true
}

// Adjust requests a refinement of the completed draft. Blank input and
// any phase other than completed are no-ops, reported as false.
func (s *Session) Adjust(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.phase != domain.PhaseCompleted {
		return false
	}

	s.appendMessageLocked(domain.RoleUser, text)
	s.phase = domain.PhaseGenerating
	s.err = nil
	s.round++
	s.done = make(chan struct{})

	round := s.round
	s.pending = s.clock.AfterFunc(s.cfg.AdjustDelay, func() {
		s.finishRound(round, trimmed)
	})
	return true
}

func (s *Session) enterGenerating(round uint64) {
	s.mu.Lock()
	if s.closed || round != s.round {
		s.mu.Unlock()
		return
	}
	s.phase = domain.PhaseGenerating
	s.pending = s.clock.AfterFunc(s.cfg.GeneratingDelay, func() {
		s.finishRound(round, "")
	})
	s.mu.Unlock()
}

// finishRound invokes the generator and settles the round. adjustment
// is empty for the initial generation.
func (s *Session) finishRound(round uint64, adjustment string) {
	s.mu.Lock()
	if s.closed || round != s.round {
		s.mu.Unlock()
		return
	}
	req := generate.Request{
		Prompt:     s.prompt,
		PriorDraft: s.draft,
		Adjustment: adjustment,
	}
	s.mu.Unlock()

	start := s.clock.Now()
	html, err := s.gen.Generate(context.Background(), req)
	s.metrics.ObserveGeneration(s.clock.Now().Sub(start), err)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || round != s.round {
		return
	}

	if err != nil {
		s.err = domain.E(domain.CodeInternal, "session.generate", err.Error(), domain.ErrGenerationFailed)
		if s.draft == "" {
			// First generation failed: nothing to show, back to idle.
			s.phase = domain.PhaseIdle
		} else {
			// Adjustment failed: keep the prior draft.
			s.phase = domain.PhaseCompleted
		}
		s.logger.Warn("generation failed", zap.Error(err))
		s.settleLocked()
		return
	}

	s.draft = html
	if adjustment == "" {
		s.appendMessageLocked(domain.RoleAssistant, fmt.Sprintf(
			"Generated a tool from your request: %q. Preview it on the right and describe any changes below.",
			truncate(s.prompt, 30)))
	} else {
		s.appendMessageLocked(domain.RoleAssistant,
			"Adjusted the draft per your feedback. Check the preview.")
	}
	s.phase = domain.PhaseCompleted
	s.settleLocked()
}

func (s *Session) settleLocked() {
	s.pending = nil
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
}

// AwaitCompleted blocks until the in-flight round settles or the
// context expires, then reports the round's error, if any.
func (s *Session) AwaitCompleted(ctx context.Context) error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-done:
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Snapshot returns a copy of the current session state.
func (s *Session) Snapshot() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	transcript := make([]domain.Message, len(s.transcript))
	copy(transcript, s.transcript)
	return domain.SessionState{
		Mode:       s.mode,
		Phase:      s.phase,
		Transcript: transcript,
		DraftHTML:  s.draft,
		Err:        s.err,
	}
}

// Finalize produces the export artifact for the current draft.
func (s *Session) Finalize() (filename, html string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == "" {
		return "", "", domain.E(domain.CodeFailedPrecond, "session.Finalize", "", domain.ErrDraftEmpty)
	}
	return export.DraftFilename(s.clock.Now()), s.draft, nil
}

// SaveOptions customizes the persisted tool record.
type SaveOptions struct {
	Title       string
	Description string
	Category    domain.ToolCategory
	Tags        []string
	UserID      string
}

// SaveAsTool persists the draft as a reusable user tool with a freshly
// assigned identifier.
func (s *Session) SaveAsTool(store *userstore.Store, opts SaveOptions) (domain.UserTool, error) {
	s.mu.Lock()
	if s.draft == "" {
		s.mu.Unlock()
		return domain.UserTool{}, domain.E(domain.CodeFailedPrecond, "session.SaveAsTool", "", domain.ErrDraftEmpty)
	}
	draft := s.draft
	prompt := s.prompt
	now := s.clock.Now().UTC().Format(time.RFC3339)
	s.mu.Unlock()

	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = truncate(prompt, 40)
	}
	category := opts.Category
	if !category.Valid() {
		category = domain.CategoryProductivity
	}
	userID := opts.UserID
	if userID == "" {
		userID = "local"
	}

	tool := domain.UserTool{
		BaseTool: domain.BaseTool{
			ID:          uuid.New().String(),
			Title:       title,
			Description: strings.TrimSpace(opts.Description),
			Category:    category,
			Tags:        opts.Tags,
			Icon:        domain.CategoryIcon(category),
			Color:       domain.CategoryColor(category),
			Runtime:     domain.RuntimeOffline,
			Status:      domain.StatusDraft,
			Version:     domain.DefaultToolVersion,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		Type:        domain.ToolTypeUser,
		HTMLContent: draft,
		UserID:      userID,
	}
	if err := store.Upsert(tool); err != nil {
		return domain.UserTool{}, err
	}
	s.logger.Info("draft saved as tool", zap.String("id", tool.ID), zap.String("title", title))
	return tool, nil
}

// Close tears the session down, cancelling any pending transition.
// Waiters are released with ErrSessionClosed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	if s.done != nil {
		s.err = domain.ErrSessionClosed
		close(s.done)
		s.done = nil
	}
}

func (s *Session) appendMessageLocked(role domain.Role, content string) {
	s.transcript = append(s.transcript, domain.Message{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Timestamp: s.clock.Now(),
	})
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
