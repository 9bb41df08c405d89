package handlers

import (
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/prospecto/internal/interfaces"
	"github.com/ternarybob/prospecto/internal/models"
)

// ChatHandler handles chat-related HTTP requests
type ChatHandler struct {
	chatService interfaces.ChatService
	logger      arbor.ILogger
}

func NewChatHandler(chatService interfaces.ChatService, logger arbor.ILogger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

type chatRequest struct {
	Question string               `json:"question" validate:"required"`
	History  []models.ChatMessage `json:"history"`
}

// AskHandler handles POST /api/chat requests. The response carries the quick
// answer; clients watch the websocket or poll GET /api/chat/{id} for the
// detailed replacement.
func (h *ChatHandler) AskHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req chatRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	h.logger.Info().
		Int("question_length", len(req.Question)).
		Int("history_length", len(req.History)).
		Msg("Processing chat request")

	msg, err := h.chatService.Ask(r.Context(), req.Question, req.History)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": msg,
	})
}

// GetHandler handles GET /api/chat/{id} requests
func (h *ChatHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/chat/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, models.NewErrorDescriptor("Invalid Request", "A chat message id is required.", false))
		return
	}

	msg, ok := h.chatService.Get(id)
	if !ok {
		writeError(w, models.NewErrorDescriptor("Resource Not Found", "No chat message with that id.", false))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": msg,
	})
}
