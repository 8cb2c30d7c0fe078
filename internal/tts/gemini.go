package tts

import (
	"context"
	"fmt"

	gen "google.golang.org/genai"
)

// ModelSpeech is the Gemini model used for speech synthesis.
const ModelSpeech = "gemini-2.5-flash-preview-tts"

// Synthesizer renders text as WAV audio in the given voice. tone is an
// optional delivery hint ("cheerfully", "in a whisper").
type Synthesizer interface {
	Synthesize(ctx context.Context, voice, text, tone string) ([]byte, error)
}

// GeminiSynthesizer implements Synthesizer against the Gemini speech model.
type GeminiSynthesizer struct {
	client *gen.Client
}

func NewGeminiSynthesizer(ctx context.Context, apiKey string) (*GeminiSynthesizer, error) {
	client, err := gen.NewClient(ctx, &gen.ClientConfig{
		APIKey:  apiKey,
		Backend: gen.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("init speech client: %w", err)
	}
	return &GeminiSynthesizer{client: client}, nil
}

func (s *GeminiSynthesizer) Synthesize(ctx context.Context, voice, text, tone string) ([]byte, error) {
	if !ValidVoice(voice) {
		return nil, fmt.Errorf("unknown voice %q", voice)
	}

	prompt := fmt.Sprintf("'''%s'''", text)
	if tone != "" {
		prompt = fmt.Sprintf("Say %s: '''%s'''", tone, text)
	}

	resp, err := s.client.Models.GenerateContent(ctx, ModelSpeech, gen.Text(prompt), &gen.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &gen.SpeechConfig{
			VoiceConfig: &gen.VoiceConfig{
				PrebuiltVoiceConfig: &gen.PrebuiltVoiceConfig{VoiceName: voice},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("generate speech: %w", err)
	}

	pcm := inlineAudio(resp)
	if len(pcm) == 0 {
		return nil, fmt.Errorf("speech model returned no audio")
	}
	return EnsureWAV(pcm)
}

func inlineAudio(resp *gen.GenerateContentResponse) []byte {
	if resp == nil {
		return nil
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data
			}
		}
	}
	return nil
}
