// Package server exposes the conversation loop over HTTP for browser
// clients. Each request carries its own history, so the server holds no
// per-session state beyond the shared memory database.
package server

import (
	"encoding/json"
	"net/http"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"pkt.systems/pslog"

	"pscopilot/chat"
	"pscopilot/config"
	"pscopilot/provider"
	"pscopilot/storage"
	"pscopilot/tools"
)

// maxHistoryTurns bounds how much history is echoed back to the client and
// resent to the backend on the next request.
const maxHistoryTurns = 30

// Config holds the completion backend settings for the server.
type Config struct {
	Provider string
	BaseURL  string
	Model    string
	APIKey   string
}

// Server answers chat requests. Memory tools are bound per request to the
// caller's userId over the shared store.
type Server struct {
	cfg   Config
	store *storage.MemoryStore

	// newCompleter is swappable in tests.
	newCompleter func(schemas []mcptypes.Tool) (chat.Completer, error)
}

// NewServer creates a chat server over the given memory store.
func NewServer(cfg Config, store *storage.MemoryStore) *Server {
	s := &Server{cfg: cfg, store: store}
	s.newCompleter = func(schemas []mcptypes.Tool) (chat.Completer, error) {
		return provider.New(config.Config{
			Provider: cfg.Provider,
			BaseURL:  cfg.BaseURL,
			Model:    cfg.Model,
		}, cfg.APIKey, chat.ServerSystemInstruction, schemas)
	}
	return s
}

// Handler returns the HTTP handler with request logging attached.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleChat)
	return withRequestLogging(mux)
}

type chatRequest struct {
	Message string      `json:"message"`
	History []chat.Turn `json:"history,omitempty"`
	UserID  string      `json:"userId"`
}

type chatResponse struct {
	Response string      `json:"response"`
	History  []chat.Turn `json:"history"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON body"})
		return
	}
	if req.Message == "" || req.UserID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing message or userId"})
		return
	}

	registry := tools.NewRegistry()
	tools.RegisterWeb(registry)
	tools.RegisterMemory(registry, s.store, req.UserID)

	completer, err := s.newCompleter(registry.Schemas())
	if err != nil {
		pslog.Ctx(r.Context()).Error("completer init failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	transcript := chat.NewTranscript(chat.WelcomeText)
	if len(req.History) > 0 {
		transcript.Restore(req.History)
	}

	before := transcript.Len()
	orch := chat.NewOrchestrator(transcript, completer, registry)
	orch.Submit(r.Context(), chat.Submission{Text: req.Message})

	turns := transcript.Turns()
	// A "clear" message resets the transcript below the restored history
	// length, so the marker can point past the end.
	if before > len(turns) {
		before = len(turns)
	}
	added := turns[before:]

	for _, t := range added {
		if t.IsError {
			pslog.Ctx(r.Context()).Error("chat turn failed", "user", req.UserID, "error", t.Text)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: t.Text})
			return
		}
	}

	transcript.TrimOldest(maxHistoryTurns)

	w.Header().Set("Access-Control-Allow-Origin", "*")
	writeJSON(w, http.StatusOK, chatResponse{
		Response: composeResponse(added),
		History:  transcript.Turns(),
	})
}

// composeResponse flattens the turns produced by one submission into the
// single response string browser clients render. A tool run contributes its
// display output followed by the analysis text.
func composeResponse(turns []chat.Turn) string {
	var modelText, output, analysis string
	for _, t := range turns {
		switch t.Kind {
		case chat.KindModelText:
			if t.Analysis {
				analysis = t.Text
			} else {
				modelText = t.Text
			}
		case chat.KindFunctionCall:
			output = t.Output
		}
	}
	if output != "" {
		return output + "\n\n" + analysis
	}
	return modelText
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
