package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/PabloGalante/verba/internal/app/chat"
	"github.com/PabloGalante/verba/internal/domain"
)

type Server struct {
	svc *chat.Service
}

// NewServer builds the HTTP surface. An empty apiKey disables
// authentication (local dev); otherwise every /api route requires the
// shared secret in X-API-Key.
func NewServer(svc *chat.Service, apiKey string) http.Handler {
	s := &Server{svc: svc}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestContext)
	r.Use(requestLogger)
	r.Use(chimw.Recoverer)

	// Open CORS: the web front-end is served from a separate origin.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-API-Key"},
		MaxAge:         300,
	}))

	r.Get("/healthz", handleHealthz)

	r.Route("/api", func(r chi.Router) {
		r.Use(requireAPIKey(apiKey))

		r.Route("/conversations", func(r chi.Router) {
			r.Get("/", s.handleListConversations)
			r.Post("/", s.handleCreateConversation)
			r.Delete("/{id}", s.handleDeleteConversation)
			r.Get("/{id}/messages", s.handleListMessages)
			r.Post("/{id}/messages/stream", s.handleStreamMessage)
		})
	})

	return r
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type createConversationRequest struct {
	Title string `json:"title,omitempty"`
}

type conversationResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type messageResponse struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

// ─────────────────────────────────────────────
// Handlers
// ─────────────────────────────────────────────

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	convs, err := s.svc.ListConversations(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toConversationsResponse(convs))
}

func (s *Server) handleCreateConversation(w http.ResponseWriter, r *http.Request) {
	var req createConversationRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
	}

	conv, err := s.svc.CreateConversation(r.Context(), req.Title)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toConversationResponse(conv))
}

func (s *Server) handleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	id := domain.ConversationID(chi.URLParam(r, "id"))

	if err := s.svc.DeleteConversation(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrConversationNotFound) {
			notFound(w, err.Error())
			return
		}
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	id := domain.ConversationID(chi.URLParam(r, "id"))

	msgs, err := s.svc.ListMessages(r.Context(), id)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMessagesResponse(msgs))
}

// handleStreamMessage relays the orchestrator's event sequence as
// Server-Sent Events. Headers are committed before the first store write
// can fail, so every failure — NotFound included — travels in-band as an
// error event on the already-open stream. The stream always closes.
func (s *Server) handleStreamMessage(w http.ResponseWriter, r *http.Request) {
	id := domain.ConversationID(chi.URLParam(r, "id"))

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		badRequest(w, "content is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		internalError(w, errors.New("streaming unsupported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	writeEvent := func(ev domain.StreamEvent) error {
		data, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	if err := s.svc.SendAndStream(r.Context(), id, req.Content, writeEvent); err != nil {
		_ = writeEvent(domain.ErrorEvent(err.Error()))
	}
}

// ─────────────────────────────────────────────
// Response mapping
// ─────────────────────────────────────────────

func toConversationResponse(c *domain.Conversation) conversationResponse {
	return conversationResponse{
		ID:        string(c.ID),
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toConversationsResponse(convs []*domain.Conversation) []conversationResponse {
	out := make([]conversationResponse, 0, len(convs))
	for _, c := range convs {
		out = append(out, toConversationResponse(c))
	}
	return out
}

func toMessageResponse(m *domain.Message) messageResponse {
	return messageResponse{
		ID:             string(m.ID),
		ConversationID: string(m.ConversationID),
		Role:           string(m.Role),
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
	}
}

func toMessagesResponse(msgs []*domain.Message) []messageResponse {
	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageResponse(m))
	}
	return out
}

// ─────────────────────────────────────────────
// HTTP helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func notFound(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"error": msg,
	})
}

func internalError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}
