package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/companionhq/companion-backend/internal/core"
	"github.com/companionhq/companion-backend/internal/store"
)

type characterRequest struct {
	ClerkID          string   `json:"clerkId" validate:"required"`
	Name             string   `json:"name"`
	Age              *int     `json:"age"`
	Description      string   `json:"description"`
	Interests        []string `json:"interests"`
	AvatarURL        string   `json:"avatarUrl"`
	FirstMessageType string   `json:"firstMessageType"`
	FirstMessageText string   `json:"firstMessageText"`
}

func (r characterRequest) toInput() core.CharacterInput {
	in := core.CharacterInput{
		Name:        r.Name,
		Age:         r.Age,
		Description: r.Description,
		Interests:   r.Interests,
		AvatarURL:   r.AvatarURL,
	}
	if r.FirstMessageType != "" {
		text := ""
		if r.FirstMessageType == store.FirstMessageFixed {
			text = r.FirstMessageText
		}
		in.FirstMessage = &store.FirstMessage{Type: r.FirstMessageType, Text: text}
	}
	return in
}

func (h *Handler) CreateCharacter(w http.ResponseWriter, r *http.Request) {
	var req characterRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !h.authorized(w, r, req.ClerkID) {
		return
	}

	character, err := h.characters.Create(r.Context(), req.ClerkID, req.toInput())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success":   true,
		"character": character,
		"message":   "Character created successfully",
	})
}

func (h *Handler) GetCharacter(w http.ResponseWriter, r *http.Request) {
	characterID := chi.URLParam(r, "characterId")
	clerkID := r.URL.Query().Get("clerkId")

	character, err := h.characters.Get(r.Context(), characterID, clerkID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "character": character})
}

func (h *Handler) ListCharacters(w http.ResponseWriter, r *http.Request) {
	clerkID := chi.URLParam(r, "clerkId")
	if !h.authorized(w, r, clerkID) {
		return
	}
	characters, err := h.characters.List(r.Context(), clerkID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"characters": characters,
		"count":      len(characters),
	})
}

func (h *Handler) UpdateCharacter(w http.ResponseWriter, r *http.Request) {
	characterID := chi.URLParam(r, "characterId")
	var req characterRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !h.authorized(w, r, req.ClerkID) {
		return
	}
	if req.Name == "" {
		writeValidationError(w, "Character name is required")
		return
	}

	character, err := h.characters.Update(r.Context(), characterID, req.ClerkID, req.toInput())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"character": character,
		"message":   "Character updated successfully",
	})
}

type clerkIDRequest struct {
	ClerkID string `json:"clerkId" validate:"required"`
}

func (h *Handler) DeleteCharacter(w http.ResponseWriter, r *http.Request) {
	characterID := chi.URLParam(r, "characterId")
	var req clerkIDRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !h.authorized(w, r, req.ClerkID) {
		return
	}

	deletedConversations, err := h.characters.Delete(r.Context(), characterID, req.ClerkID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":                   true,
		"deletedCharacterId":        characterID,
		"deletedConversationsCount": deletedConversations,
		"message":                   "Character and associated conversations deleted successfully",
	})
}

type uploadImageRequest struct {
	ClerkID   string `json:"clerkId" validate:"required"`
	ImageData string `json:"imageData" validate:"required"`
}

func (h *Handler) UploadCharacterImage(w http.ResponseWriter, r *http.Request) {
	characterID := chi.URLParam(r, "characterId")
	var req uploadImageRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !h.authorized(w, r, req.ClerkID) {
		return
	}

	character, err := h.characters.UploadImage(r.Context(), characterID, req.ClerkID, req.ImageData)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"character": character,
		"message":   "Character image uploaded successfully",
	})
}

type updateEmotionsRequest struct {
	ClerkID  string         `json:"clerkId" validate:"required"`
	Emotions map[string]int `json:"emotions" validate:"required"`
}

func (h *Handler) UpdateCharacterEmotions(w http.ResponseWriter, r *http.Request) {
	characterID := chi.URLParam(r, "characterId")
	var req updateEmotionsRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !h.authorized(w, r, req.ClerkID) {
		return
	}

	character, err := h.characters.UpdateEmotions(r.Context(), characterID, req.ClerkID, req.Emotions)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"character": character,
		"message":   "Character emotions updated successfully",
	})
}

type emotionalExpressionRequest struct {
	ClerkID      string `json:"clerkId" validate:"required"`
	Enabled      bool   `json:"enabled"`
	Intensity    string `json:"intensity" validate:"required"`
	ShowThoughts bool   `json:"showThoughts"`
}

func (h *Handler) UpdateEmotionalExpression(w http.ResponseWriter, r *http.Request) {
	characterID := chi.URLParam(r, "characterId")
	var req emotionalExpressionRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !h.authorized(w, r, req.ClerkID) {
		return
	}

	character, err := h.characters.UpdateEmotionalExpression(r.Context(), characterID, req.ClerkID, store.EmotionalExpression{
		Enabled:      req.Enabled,
		Intensity:    req.Intensity,
		ShowThoughts: req.ShowThoughts,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"character": character,
		"message":   "Emotional expression settings updated successfully",
	})
}
