package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rinhq/rin/internal/message"
	"github.com/rinhq/rin/internal/relay"
)

// chatHandler holds the handlers backed by the relay service.
type chatHandler struct {
	service *relay.Service
	logger  *slog.Logger
}

// historyResponse wraps the rows so an empty history serializes as
// {"messages":[]} rather than {"messages":null}.
type historyResponse struct {
	Messages []message.Message `json:"messages"`
}

// history handles GET /api/history?uid=...
func (h *chatHandler) history(w http.ResponseWriter, r *http.Request) {
	uid := r.URL.Query().Get("uid")
	if uid == "" {
		writeError(w, http.StatusBadRequest, "uid required")
		return
	}

	messages, err := h.service.History(r.Context(), uid)
	if err != nil {
		h.serviceError(w, "history", err)
		return
	}
	if messages == nil {
		messages = []message.Message{}
	}

	writeJSON(w, http.StatusOK, historyResponse{Messages: messages})
}

type clearRequest struct {
	UID string `json:"uid"`
}

// clear handles POST /api/clear.
func (h *chatHandler) clear(w http.ResponseWriter, r *http.Request) {
	var req clearRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "uid required")
		return
	}
	if req.UID == "" {
		writeError(w, http.StatusBadRequest, "uid required")
		return
	}

	if err := h.service.Clear(r.Context(), req.UID); err != nil {
		h.serviceError(w, "clear", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type chatRequest struct {
	Text string `json:"text"`
	UID  string `json:"uid"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// chat handles POST /api/chat.
func (h *chatHandler) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "text and uid required")
		return
	}
	if req.Text == "" || req.UID == "" {
		writeError(w, http.StatusBadRequest, "text and uid required")
		return
	}

	reply, err := h.service.Chat(r.Context(), req.UID, req.Text)
	if err != nil {
		h.serviceError(w, "chat", err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

// serviceError maps a relay failure to a response. Invalid input is a 400;
// everything else — store failures and upstream completion failures alike —
// is a flat 500 carrying the underlying message.
func (h *chatHandler) serviceError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, relay.ErrInvalidRequest) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.Error("request failed", "op", op, "error", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}
