package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/companionhq/companion-backend/internal/auth"
)

func NewRouter(h *Handler, logger *zap.Logger, jwtSecret string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(auth.Middleware(jwtSecret))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/verify-user", h.VerifyUser)
		r.Put("/users/{clerkId}", h.UpdateUser)
		r.Get("/users/{clerkId}/limits", h.GetUserLimits)

		r.Post("/character", h.CreateCharacter)
		r.Get("/character/{characterId}", h.GetCharacter)
		r.Put("/character/{characterId}", h.UpdateCharacter)
		r.Delete("/character/{characterId}", h.DeleteCharacter)
		r.Post("/character/{characterId}/image", h.UploadCharacterImage)
		r.Put("/character/{characterId}/emotions", h.UpdateCharacterEmotions)
		r.Put("/character/{characterId}/emotional-expression", h.UpdateEmotionalExpression)
		r.Get("/characters/{clerkId}", h.ListCharacters)

		r.Post("/conversations", h.CreateConversation)
		r.Get("/conversations/{clerkId}", h.ListConversations)
		r.Get("/conversations/{clerkId}/{conversationId}", h.GetConversation)
		r.Put("/conversations/{conversationId}", h.UpdateConversationTitle)
		r.Delete("/conversations/{conversationId}", h.DeleteConversation)
		r.Post("/conversations/{conversationId}/clear", h.ClearConversation)
		r.Post("/conversations/{conversationId}/messages", h.SendMessage)
		r.Post("/conversations/{conversationId}/regenerate", h.RegenerateMessage)
		r.Put("/conversations/{conversationId}/messages/{messageId}", h.EditMessage)
		r.Delete("/conversations/{conversationId}/messages/{messageId}", h.DeleteMessage)
		r.Post("/conversations/{conversationId}/messages/{messageId}/pin", h.PinMessage)
		r.Post("/conversations/{conversationId}/messages/{messageId}/unpin", h.UnpinMessage)
		r.Get("/conversations/{conversationId}/pinned", h.GetPinnedMessages)

		r.Get("/sentences", h.AnalyzeSentences)
		r.Get("/tts", h.Speak)
		r.Get("/random-character", h.RandomCharacter)
	})

	return r
}
