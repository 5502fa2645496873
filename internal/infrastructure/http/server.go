// Package http provides the HTTP server infrastructure.
// Clean Architecture: Framework/driver layer - outermost circle.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pondworks/waldenbot/internal/domain/entities"
	"github.com/pondworks/waldenbot/internal/domain/ports"
	"github.com/pondworks/waldenbot/internal/domain/usecases"
)

// Server is the web front end: a chat page plus a small JSON API. Each
// browser session gets its own conversation history and settings; the index
// is shared and read-only behind the retriever.
type Server struct {
	retriever *usecases.RetrieveUseCase
	completer ports.CompletionService
	persona   entities.Persona
	defaults  usecases.SessionConfig
	logger    *zap.Logger
	addr      string

	mu       sync.RWMutex
	sessions map[string]*usecases.Session

	server *http.Server
}

// NewServer creates a new web server. The defaults config is cloned into
// every new session; its exit mode should be substring matching for this
// surface.
func NewServer(
	retriever *usecases.RetrieveUseCase,
	completer ports.CompletionService,
	persona entities.Persona,
	defaults usecases.SessionConfig,
	addr string,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		retriever: retriever,
		completer: completer,
		persona:   persona,
		defaults:  defaults,
		logger:    logger,
		addr:      addr,
		sessions:  make(map[string]*usecases.Session),
	}
}

// Start runs the HTTP server until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(300 * time.Second)) // generation can be slow

	r.Get("/", s.handleIndex)
	r.Post("/api/session", s.handleNewSession)
	r.Post("/api/chat", s.handleChat)
	r.Post("/api/config", s.handleConfig)
	r.Get("/health", s.handleHealth)

	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 300 * time.Second,
	}

	s.logger.Info("web front end starting", zap.String("addr", s.addr))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.server.Shutdown(shutdownCtx)
	}()

	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// session looks up a session by ID.
func (s *Server) session(id string) (*usecases.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// handleNewSession creates a session and returns its ID and greeting.
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	sess := usecases.NewSession(s.retriever, s.completer, s.persona, s.defaults)
	id := uuid.NewString()

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	greeting := sess.Greeting()
	s.logger.Info("session created", zap.String("session_id", id))

	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": id,
		"greeting":   greeting,
		"persona":    s.persona.Name,
	})
}

// chatRequest is one user turn from the page.
type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// chatResponse carries the persona reply. Detail holds the raw failure text
// for recoverable errors, kept apart from the in-character reply.
type chatResponse struct {
	Reply    string `json:"reply"`
	Closed   bool   `json:"closed"`
	Fallback bool   `json:"fallback,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

// handleChat processes one conversational turn.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		http.Error(w, "session_id and message required", http.StatusBadRequest)
		return
	}

	sess, ok := s.session(req.SessionID)
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}

	result := sess.Step(r.Context(), req.Message)
	if result.Closed {
		// A closed session accepts no further turns; drop it so long-running
		// servers do not accumulate dead conversations.
		s.mu.Lock()
		delete(s.sessions, req.SessionID)
		s.mu.Unlock()
	}
	resp := chatResponse{
		Reply:    result.Reply,
		Closed:   result.Closed,
		Fallback: result.Fallback,
	}
	if result.Err != nil {
		if errors.Is(result.Err, usecases.ErrSessionClosed) {
			http.Error(w, "session closed", http.StatusGone)
			return
		}
		s.logger.Warn("turn failed",
			zap.String("session_id", req.SessionID),
			zap.Error(result.Err),
		)
		resp.Detail = result.Err.Error()
	}

	writeJSON(w, http.StatusOK, resp)
}

// configRequest updates the session's adjustable settings.
type configRequest struct {
	SessionID      string  `json:"session_id"`
	Temperature    float64 `json:"temperature"`
	ResponseTokens int     `json:"response_tokens"`
}

// handleConfig applies slider updates, clamped to their bounds.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	var req configRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	sess, ok := s.session(req.SessionID)
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}

	applied := sess.UpdateConfig(req.Temperature, req.ResponseTokens)
	writeJSON(w, http.StatusOK, map[string]any{
		"temperature":     applied.Temperature,
		"response_tokens": applied.MaxTokens,
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	active := len(s.sessions)
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": active})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// handleIndex renders the chat page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Thoreau Companion</title>
    <style>
        body { margin: 0; font-family: Georgia, serif; background: #f4f1e8; color: #2c3a2f; display: flex; height: 100vh; }
        #sidebar { width: 240px; padding: 1.5rem; background: #e7e2d3; border-right: 1px solid #cbc4ae; }
        #sidebar h2 { font-size: 1rem; margin-top: 0; }
        #sidebar label { display: block; font-size: 0.85rem; margin-top: 1.2rem; }
        #sidebar input[type=range] { width: 100%; }
        #sidebar .value { font-size: 0.8rem; color: #6a7562; }
        #main { flex: 1; display: flex; flex-direction: column; }
        header { padding: 1rem 1.5rem; border-bottom: 1px solid #cbc4ae; }
        header h1 { margin: 0; font-size: 1.3rem; }
        header p { margin: 0.2rem 0 0; font-size: 0.85rem; color: #6a7562; }
        #messages { flex: 1; overflow-y: auto; padding: 1.5rem; }
        .message { max-width: 70%; margin-bottom: 1rem; padding: 0.7rem 1rem; border-radius: 8px; white-space: pre-wrap; }
        .message.user { margin-left: auto; background: #d7e0cd; }
        .message.assistant { background: #fffdf6; border: 1px solid #e0d9c4; }
        .message .detail { display: block; margin-top: 0.5rem; font-size: 0.75rem; color: #9a8f73; font-family: monospace; }
        form { display: flex; padding: 1rem 1.5rem; border-top: 1px solid #cbc4ae; gap: 0.5rem; }
        input[type=text] { flex: 1; padding: 0.6rem; font-size: 1rem; border: 1px solid #cbc4ae; border-radius: 6px; background: #fffdf6; }
        button { padding: 0.6rem 1.2rem; border: none; border-radius: 6px; background: #4a5d43; color: #fff; cursor: pointer; }
        button:disabled { background: #9aa591; }
    </style>
</head>
<body>
    <div id="sidebar">
        <h2>Walden Pond Settings</h2>
        <label>Conversation Temperature
            <input type="range" id="temperature" min="0" max="1" step="0.05" value="0.3">
            <span class="value" id="temperature-value">0.3</span>
        </label>
        <label>Response Length
            <input type="range" id="length" min="50" max="300" step="10" value="150">
            <span class="value" id="length-value">150</span>
        </label>
        <p class="value">Type 'goodbye' to end the conversation.</p>
    </div>
    <div id="main">
        <header>
            <h1>Thoreau Companion</h1>
            <p>A digital embodiment of Henry David Thoreau's wisdom</p>
        </header>
        <div id="messages"></div>
        <form id="chat-form">
            <input type="text" id="input" placeholder="Share your thoughts..." autocomplete="off" required>
            <button type="submit" id="send">Send</button>
        </form>
    </div>

    <script>
        let sessionId = null;
        const messages = document.getElementById('messages');
        const form = document.getElementById('chat-form');
        const input = document.getElementById('input');
        const send = document.getElementById('send');

        function addMessage(role, text, detail) {
            const div = document.createElement('div');
            div.className = 'message ' + role;
            div.textContent = text;
            if (detail) {
                const d = document.createElement('span');
                d.className = 'detail';
                d.textContent = '[system: ' + detail + ']';
                div.appendChild(d);
            }
            messages.appendChild(div);
            messages.scrollTop = messages.scrollHeight;
        }

        async function start() {
            const resp = await fetch('/api/session', { method: 'POST' });
            const data = await resp.json();
            sessionId = data.session_id;
            addMessage('assistant', data.greeting);
        }

        form.addEventListener('submit', async (e) => {
            e.preventDefault();
            const text = input.value.trim();
            if (!text || !sessionId) return;
            addMessage('user', text);
            input.value = '';
            send.disabled = true;
            try {
                const resp = await fetch('/api/chat', {
                    method: 'POST',
                    headers: { 'Content-Type': 'application/json' },
                    body: JSON.stringify({ session_id: sessionId, message: text }),
                });
                if (!resp.ok) throw new Error(await resp.text());
                const data = await resp.json();
                addMessage('assistant', data.reply, data.detail);
                if (data.closed) {
                    input.disabled = true;
                    return;
                }
            } catch (err) {
                addMessage('assistant', 'The wires between us have tangled.', String(err));
            } finally {
                if (!input.disabled) send.disabled = false;
                input.focus();
            }
        });

        async function pushConfig() {
            if (!sessionId) return;
            await fetch('/api/config', {
                method: 'POST',
                headers: { 'Content-Type': 'application/json' },
                body: JSON.stringify({
                    session_id: sessionId,
                    temperature: parseFloat(document.getElementById('temperature').value),
                    response_tokens: parseInt(document.getElementById('length').value, 10),
                }),
            });
        }

        for (const id of ['temperature', 'length']) {
            const slider = document.getElementById(id);
            slider.addEventListener('input', () => {
                document.getElementById(id + '-value').textContent = slider.value;
            });
            slider.addEventListener('change', pushConfig);
        }

        start();
    </script>
</body>
</html>`
