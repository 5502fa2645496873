// Package usecases - session.go is the conversational state machine.
package usecases

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/pondworks/waldenbot/internal/domain/entities"
	"github.com/pondworks/waldenbot/internal/domain/ports"
)

// SessionState is the session controller's lifecycle state.
//
//	Ready -> AwaitingInput <-> Generating -> AwaitingInput -> Closed
//
// Initializing and Failed live at process level: a session is only created
// once the index build has succeeded, and an index build failure means no
// session ever starts. A recoverable per-turn failure passes through
// Generating and lands back in AwaitingInput with a fallback reply.
type SessionState int

const (
	StateReady SessionState = iota
	StateAwaitingInput
	StateGenerating
	StateClosed
)

// String returns the state name for logs.
func (s SessionState) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateAwaitingInput:
		return "awaiting_input"
	case StateGenerating:
		return "generating"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// ExitMatchMode selects how user input is matched against exit keywords.
type ExitMatchMode int

const (
	// ExitMatchExact matches when the trimmed, lowercased input equals a
	// keyword (terminal surface).
	ExitMatchExact ExitMatchMode = iota
	// ExitMatchSubstring matches when the lowercased input contains a
	// keyword anywhere (web surface).
	ExitMatchSubstring
)

// defaultExitKeywords end the conversation in either matching mode.
var defaultExitKeywords = []string{"exit", "goodbye", "farewell"}

// ErrSessionClosed is returned for turns submitted after the session closed.
var ErrSessionClosed = errors.New("session closed")

// SessionConfig holds the user-adjustable conversation settings. Bounds are
// clamped at the boundary rather than propagated as errors.
type SessionConfig struct {
	Temperature  float64 // [0,1]
	MaxTokens    int     // response length, [MinResponseTokens,MaxResponseTokens]
	TopP         float64 // (0,1]; 0 leaves it unset
	ContextLimit int     // retrieved chunks consumed per turn
	ExitMode     ExitMatchMode
	ExitKeywords []string
}

// Slider bounds for the user-adjustable settings.
const (
	MinResponseTokens = 50
	MaxResponseTokens = 300
)

// Clamp forces the adjustable settings into their defined bounds and fills
// unset values with defaults.
func (c *SessionConfig) Clamp() {
	if c.Temperature < 0 {
		c.Temperature = 0
	}
	if c.Temperature > 1 {
		c.Temperature = 1
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 180
	}
	if c.MaxTokens < MinResponseTokens {
		c.MaxTokens = MinResponseTokens
	}
	if c.MaxTokens > MaxResponseTokens {
		c.MaxTokens = MaxResponseTokens
	}
	if c.TopP < 0 || c.TopP > 1 {
		c.TopP = 0
	}
	if c.ContextLimit <= 0 {
		c.ContextLimit = 3
	}
	if len(c.ExitKeywords) == 0 {
		c.ExitKeywords = defaultExitKeywords
	}
}

// TurnResult is the outcome of one conversational turn.
type TurnResult struct {
	Reply    string
	Closed   bool  // session accepted no further turns after this reply
	Fallback bool  // reply is the in-persona fallback for a recoverable failure
	Err      error // underlying failure detail, logged separately from persona text
}

// Session is the conversational controller: it accepts user turns, drives
// retrieve -> compose -> generate, manages exit conditions, and recovers from
// per-turn failures. One turn is fully processed before the next is accepted.
type Session struct {
	retriever *RetrieveUseCase
	completer ports.CompletionService
	persona   entities.Persona

	mu      sync.Mutex
	cfg     SessionConfig
	state   SessionState
	history []entities.ChatMessage
}

// NewSession creates a session in the Ready state. The caller must only do
// this after the index build succeeded.
func NewSession(
	retriever *RetrieveUseCase,
	completer ports.CompletionService,
	persona entities.Persona,
	cfg SessionConfig,
) *Session {
	cfg.Clamp()
	return &Session{
		retriever: retriever,
		completer: completer,
		persona:   persona,
		cfg:       cfg,
		state:     StateReady,
	}
}

// Greeting appends and returns the persona's opening message, moving the
// session from Ready to AwaitingInput.
func (s *Session) Greeting() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateReady {
		s.state = StateAwaitingInput
	}
	s.appendLocked("assistant", s.persona.Greeting)
	return s.persona.Greeting
}

// Step processes one user turn. Exit keywords close the session with exactly
// one farewell. Any retrieval or generation failure produces the in-persona
// fallback and leaves the session open; the triggering input is not retried.
func (s *Session) Step(ctx context.Context, input string) TurnResult {
	s.mu.Lock()

	if s.state == StateClosed {
		s.mu.Unlock()
		return TurnResult{Closed: true, Err: ErrSessionClosed}
	}
	if s.state != StateReady && s.state != StateAwaitingInput {
		s.mu.Unlock()
		return TurnResult{Err: ErrSessionClosed}
	}

	if s.isExit(input) {
		s.appendLocked("user", input)
		s.appendLocked("assistant", s.persona.Farewell)
		s.state = StateClosed
		s.mu.Unlock()
		return TurnResult{Reply: s.persona.Farewell, Closed: true}
	}

	s.state = StateGenerating
	cfg := s.cfg
	s.mu.Unlock()

	// The lock is released across the blocking retrieve and generate calls so
	// config reads and updates stay responsive; the Generating state keeps
	// the turn loop serialized.
	reply, err := s.generate(ctx, input, cfg)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		// Interrupted while generating; the late reply is dropped.
		return TurnResult{Closed: true, Err: ErrSessionClosed}
	}
	if err != nil {
		s.appendLocked("user", input)
		s.appendLocked("assistant", s.persona.Fallback)
		s.state = StateAwaitingInput
		return TurnResult{Reply: s.persona.Fallback, Fallback: true, Err: err}
	}

	s.appendLocked("user", input)
	s.appendLocked("assistant", reply)
	s.state = StateAwaitingInput
	return TurnResult{Reply: reply}
}

// generate runs retrieve -> compose -> complete for one turn, using the
// settings snapshot taken when the turn started.
func (s *Session) generate(ctx context.Context, input string, cfg SessionConfig) (string, error) {
	results, err := s.retriever.Retrieve(ctx, input, cfg.ContextLimit)
	if err != nil {
		return "", err
	}

	contextChunks := make([]string, 0, len(results))
	for i, r := range results {
		if i >= cfg.ContextLimit {
			break
		}
		contextChunks = append(contextChunks, r.Chunk.Content)
	}

	prompt := ComposePrompt(s.persona, contextChunks, input)
	return s.completer.Complete(ctx, prompt, entities.GenerationParams{
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		TopP:        cfg.TopP,
	})
}

// Interrupt closes the session with the distinct abort farewell, bypassing
// the exit-keyword farewell. Safe to call in any state; later calls and
// turns are no-ops.
func (s *Session) Interrupt() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return ""
	}
	s.appendLocked("assistant", s.persona.InterruptFarewell)
	s.state = StateClosed
	return s.persona.InterruptFarewell
}

// isExit reports whether input matches an exit keyword in the configured mode.
func (s *Session) isExit(input string) bool {
	lowered := strings.ToLower(strings.TrimSpace(input))
	for _, kw := range s.cfg.ExitKeywords {
		switch s.cfg.ExitMode {
		case ExitMatchSubstring:
			if strings.Contains(lowered, kw) {
				return true
			}
		default:
			if lowered == kw {
				return true
			}
		}
	}
	return false
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// History returns a copy of the conversation so far, in order.
func (s *Session) History() []entities.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entities.ChatMessage, len(s.history))
	copy(out, s.history)
	return out
}

// Persona returns the session's persona.
func (s *Session) Persona() entities.Persona { return s.persona }

// UpdateConfig applies new adjustable settings, clamped to bounds. The index
// and exit configuration are not affected.
func (s *Session) UpdateConfig(temperature float64, maxTokens int) SessionConfig {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg.Temperature = temperature
	s.cfg.MaxTokens = maxTokens
	s.cfg.Clamp()
	return s.cfg
}

// Config returns the current session configuration.
func (s *Session) Config() SessionConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

func (s *Session) appendLocked(role, content string) {
	s.history = append(s.history, entities.ChatMessage{Role: role, Content: content})
}
