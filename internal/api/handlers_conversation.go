package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type createConversationRequest struct {
	ClerkID     string `json:"clerkId" validate:"required"`
	CharacterID string `json:"characterId" validate:"required"`
	Title       string `json:"title"`
}

func (h *Handler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	var req createConversationRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !h.authorized(w, r, req.ClerkID) {
		return
	}

	conv, err := h.chats.CreateConversation(r.Context(), req.ClerkID, req.CharacterID, req.Title)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	body := map[string]any{"success": true, "conversation": conv}
	if len(conv.Messages) > 0 {
		body["firstMessage"] = conv.Messages[0]
	}
	writeJSON(w, http.StatusCreated, body)
}

func (h *Handler) ListConversations(w http.ResponseWriter, r *http.Request) {
	clerkID := chi.URLParam(r, "clerkId")
	if !h.authorized(w, r, clerkID) {
		return
	}
	characterID := r.URL.Query().Get("characterId")

	conversations, err := h.chats.ListConversations(r.Context(), clerkID, characterID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"conversations": conversations,
		"count":         len(conversations),
	})
}

func (h *Handler) GetConversation(w http.ResponseWriter, r *http.Request) {
	clerkID := chi.URLParam(r, "clerkId")
	if !h.authorized(w, r, clerkID) {
		return
	}
	conversationID := chi.URLParam(r, "conversationId")

	conv, character, err := h.chats.GetConversation(r.Context(), clerkID, conversationID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"conversation": conv,
		"character":    character,
	})
}

type updateTitleRequest struct {
	ClerkID string `json:"clerkId" validate:"required"`
	Title   string `json:"title" validate:"required"`
}

func (h *Handler) UpdateConversationTitle(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationId")
	var req updateTitleRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !h.authorized(w, r, req.ClerkID) {
		return
	}

	if err := h.chats.UpdateTitle(r.Context(), req.ClerkID, conversationID, req.Title); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"conversationId": conversationID,
		"title":          req.Title,
	})
}

func (h *Handler) ClearConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationId")
	var req clerkIDRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !h.authorized(w, r, req.ClerkID) {
		return
	}

	if err := h.chats.ClearMessages(r.Context(), req.ClerkID, conversationID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"conversationId": conversationID,
	})
}

func (h *Handler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationId")
	var req clerkIDRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !h.authorized(w, r, req.ClerkID) {
		return
	}

	if err := h.chats.DeleteConversation(r.Context(), req.ClerkID, conversationID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":               true,
		"deletedConversationId": conversationID,
	})
}

type sendMessageRequest struct {
	ClerkID string `json:"clerkId" validate:"required"`
	Message string `json:"message" validate:"required"`
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationId")
	var req sendMessageRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !h.authorized(w, r, req.ClerkID) {
		return
	}

	reply, err := h.chats.SendMessage(r.Context(), req.ClerkID, conversationID, req.Message)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": reply})
}

func (h *Handler) RegenerateMessage(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationId")
	var req clerkIDRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !h.authorized(w, r, req.ClerkID) {
		return
	}

	reply, err := h.chats.Regenerate(r.Context(), req.ClerkID, conversationID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": reply})
}

type editMessageRequest struct {
	ClerkID string `json:"clerkId" validate:"required"`
	Content string `json:"content" validate:"required"`
}

func (h *Handler) EditMessage(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationId")
	messageID := chi.URLParam(r, "messageId")
	var req editMessageRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !h.authorized(w, r, req.ClerkID) {
		return
	}

	edited, err := h.chats.EditMessage(r.Context(), req.ClerkID, conversationID, messageID, req.Content)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": edited})
}

func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationId")
	messageID := chi.URLParam(r, "messageId")
	var req clerkIDRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !h.authorized(w, r, req.ClerkID) {
		return
	}

	if err := h.chats.DeleteMessage(r.Context(), req.ClerkID, conversationID, messageID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":          true,
		"deletedMessageId": messageID,
	})
}

func (h *Handler) PinMessage(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationId")
	messageID := chi.URLParam(r, "messageId")
	var req clerkIDRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !h.authorized(w, r, req.ClerkID) {
		return
	}

	count, err := h.chats.PinMessage(r.Context(), req.ClerkID, conversationID, messageID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"messageId":   messageID,
		"pinnedCount": count,
		"message":     "Message pinned successfully",
	})
}

func (h *Handler) UnpinMessage(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationId")
	messageID := chi.URLParam(r, "messageId")
	var req clerkIDRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !h.authorized(w, r, req.ClerkID) {
		return
	}

	count, err := h.chats.UnpinMessage(r.Context(), req.ClerkID, conversationID, messageID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"messageId":   messageID,
		"pinnedCount": count,
		"message":     "Message unpinned successfully",
	})
}

func (h *Handler) GetPinnedMessages(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationId")
	clerkID := r.URL.Query().Get("clerkId")
	if clerkID == "" {
		writeValidationError(w, "Clerk ID is required")
		return
	}
	if !h.authorized(w, r, clerkID) {
		return
	}

	pinned, err := h.chats.PinnedMessages(r.Context(), clerkID, conversationID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"pinnedMessages": pinned,
		"count":          len(pinned),
	})
}
