package chat

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/folio/internal/chat"
	"github.com/MrJamesThe3rd/folio/internal/http/render"
)

type Handler struct {
	adapter  *chat.Adapter
	sessions *chat.Registry
}

func NewHandler(adapter *chat.Adapter, sessions *chat.Registry) *Handler {
	return &Handler{adapter: adapter, sessions: sessions}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/suggestions", h.suggestions)
	r.Post("/sessions", h.createSession)
	r.Get("/sessions/{id}", h.history)
	r.Post("/sessions/{id}/messages", h.ask)
	r.Delete("/sessions/{id}", h.clear)
}

type sessionResponse struct {
	ID        uuid.UUID      `json:"id"`
	Ready     bool           `json:"ready"`
	CreatedAt time.Time      `json:"created_at"`
	Messages  []chat.Message `json:"messages"`
}

func (h *Handler) toSessionResponse(s *chat.Session) sessionResponse {
	return sessionResponse{
		ID:        s.ID,
		Ready:     h.adapter.Ready(),
		CreatedAt: s.CreatedAt,
		Messages:  s.Messages(),
	}
}

func (h *Handler) suggestions(w http.ResponseWriter, _ *http.Request) {
	render.JSON(w, http.StatusOK, chat.SuggestedQuestions())
}

func (h *Handler) createSession(w http.ResponseWriter, _ *http.Request) {
	render.JSON(w, http.StatusCreated, h.toSessionResponse(h.sessions.Create()))
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*chat.Session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return nil, false
	}

	s, err := h.sessions.Get(id)
	if err != nil {
		render.Error(w, r, err)
		return nil, false
	}

	return s, true
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	render.JSON(w, http.StatusOK, h.toSessionResponse(s))
}

type askRequest struct {
	Question string `json:"question"`
}

func (h *Handler) ask(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.adapter.Ask(r.Context(), s, req.Question)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, res)
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.sessions.Clear(id); err != nil {
		render.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
