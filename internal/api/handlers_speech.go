package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/companionhq/companion-backend/internal/tts"
)

func (h *Handler) AnalyzeSentences(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")
	if text == "" {
		writeValidationError(w, "Text parameter is required")
		return
	}

	sentences, err := h.creative.AnalyzeSentences(r.Context(), text)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sentences)
}

// Speak streams synthesized audio back as a WAV attachment.
func (h *Handler) Speak(w http.ResponseWriter, r *http.Request) {
	voice := r.URL.Query().Get("voice")
	text := r.URL.Query().Get("text")
	tone := r.URL.Query().Get("tone")

	if voice == "" || text == "" {
		writeValidationError(w, "Voice and text parameters are required")
		return
	}
	if !tts.ValidVoice(voice) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":           "Invalid voice parameter",
			"availableVoices": tts.VoiceNames(),
		})
		return
	}
	if h.speech == nil {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Speech synthesis is not configured"})
		return
	}

	audio, err := h.speech.Synthesize(r.Context(), voice, text, tone)
	if err != nil {
		h.logger.Error("speech synthesis failed", zap.String("voice", voice), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Error:   "Failed to process TTS request",
			Details: err.Error(),
		})
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("tts_%s_%d.wav", voice, time.Now().UnixMilli())))
	w.Header().Set("Content-Length", strconv.Itoa(len(audio)))
	_, _ = w.Write(audio)
}

func (h *Handler) RandomCharacter(w http.ResponseWriter, r *http.Request) {
	character, err := h.creative.GenerateRandomCharacter(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, character)
}
