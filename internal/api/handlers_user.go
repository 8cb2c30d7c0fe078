package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/companionhq/companion-backend/internal/auth"
	"github.com/companionhq/companion-backend/internal/core"
	"github.com/companionhq/companion-backend/internal/store"
	"github.com/companionhq/companion-backend/internal/tts"
)

// Handler carries the service dependencies shared by every endpoint.
type Handler struct {
	users      *core.UserService
	characters *core.CharacterService
	chats      *core.ChatService
	creative   *core.CreativeService
	speech     tts.Synthesizer
	validate   *validator.Validate
	logger     *zap.Logger
}

func NewHandler(
	users *core.UserService,
	characters *core.CharacterService,
	chats *core.ChatService,
	creative *core.CreativeService,
	speech tts.Synthesizer,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		users:      users,
		characters: characters,
		chats:      chats,
		creative:   creative,
		speech:     speech,
		validate:   validator.New(),
		logger:     logger,
	}
}

// decode unmarshals the request body into req and runs its validation tags.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeValidationError(w, "Invalid request body: "+err.Error())
		return false
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, validationMessage(err))
		return false
	}
	return true
}

// authorized rejects the request when a verified token subject contradicts
// the claimed clerk id.
func (h *Handler) authorized(w http.ResponseWriter, r *http.Request, clerkID string) bool {
	if !auth.Authorize(r.Context(), clerkID) {
		writeJSON(w, http.StatusForbidden, errorBody{Error: "Access denied"})
		return false
	}
	return true
}

func validationMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "Invalid request body"
	}
	field := ve[0]
	switch field.Tag() {
	case "required":
		return field.Field() + " is required"
	case "max":
		return field.Field() + " exceeds the maximum length"
	default:
		return field.Field() + " is invalid"
	}
}

type verifyUserRequest struct {
	ClerkID     string `json:"clerkId" validate:"required"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

func (h *Handler) VerifyUser(w http.ResponseWriter, r *http.Request) {
	var req verifyUserRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !h.authorized(w, r, req.ClerkID) {
		return
	}

	user, existed, err := h.users.Verify(r.Context(), req.ClerkID, req.Email, req.DisplayName)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if existed {
		writeJSON(w, http.StatusOK, map[string]any{"exists": true, "user": user})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"exists":  false,
		"user":    user,
		"message": "User created successfully",
	})
}

type updateUserRequest struct {
	DisplayName     *string                `json:"displayName"`
	Email           *string                `json:"email"`
	Description     *string                `json:"description"`
	Age             *int                   `json:"age"`
	Location        *string                `json:"location"`
	Language        *string                `json:"language"`
	Timezone        *string                `json:"timezone"`
	Interests       []string               `json:"interests"`
	CustomVariables []store.CustomVariable `json:"customVariables"`
	ProfileImageURL *string                `json:"profileImageUrl"`
	AvatarURL       *string                `json:"avatarUrl"`
	IsOnboarded     *bool                  `json:"isOnboarded"`
	Preferences     *store.Preferences     `json:"preferences"`
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	clerkID := chi.URLParam(r, "clerkId")
	if !h.authorized(w, r, clerkID) {
		return
	}
	var req updateUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), clerkID, core.ProfileInput{
		DisplayName:     req.DisplayName,
		Email:           req.Email,
		Description:     req.Description,
		Age:             req.Age,
		Location:        req.Location,
		Language:        req.Language,
		Timezone:        req.Timezone,
		Interests:       req.Interests,
		CustomVariables: req.CustomVariables,
		ProfileImageURL: req.ProfileImageURL,
		AvatarURL:       req.AvatarURL,
		IsOnboarded:     req.IsOnboarded,
		Preferences:     req.Preferences,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    user,
		"message": "User updated successfully",
	})
}

func (h *Handler) GetUserLimits(w http.ResponseWriter, r *http.Request) {
	clerkID := chi.URLParam(r, "clerkId")
	if !h.authorized(w, r, clerkID) {
		return
	}
	limits, err := h.users.Limits(r.Context(), clerkID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "limits": limits})
}
