package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const (
	// ModelChat handles send, greetings, and structured output.
	ModelChat = "gemini-1.5-flash"
	// ModelThought handles regeneration and internal-thought generation.
	ModelThought = "learnlm-2.0-flash-experimental"
)

// Generator is the slice of the generative API the services consume; tests
// substitute a stub.
type Generator interface {
	// ChatCompletion sends the final (user) turn of history against the
	// preceding turns and returns the reply text.
	ChatCompletion(ctx context.Context, model string, history []*genai.Content) (string, error)
	// GenerateText runs a single freeform prompt.
	GenerateText(ctx context.Context, model, prompt string) (string, error)
	// GenerateJSON runs a schema-constrained prompt and decodes the JSON
	// reply into out.
	GenerateJSON(ctx context.Context, model, prompt string, schema *genai.Schema, out any) error
}

type LLMService struct {
	client *genai.Client
	logger *zap.Logger
}

func NewLLMService(ctx context.Context, apiKey string, logger *zap.Logger) (*LLMService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &LLMService{client: client, logger: logger}, nil
}

func (s *LLMService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			s.logger.Warn("error closing GenAI client", zap.Error(err))
		}
	}
}

func (s *LLMService) ChatCompletion(ctx context.Context, model string, history []*genai.Content) (string, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("prompt history is empty for chat completion")
	}
	last := history[len(history)-1]
	if last.Role != "user" {
		return "", fmt.Errorf("last message in history is not from 'user', cannot proceed with chat completion")
	}

	m := s.client.GenerativeModel(model)
	session := m.StartChat()
	session.History = history[:len(history)-1]

	resp, err := session.SendMessage(ctx, last.Parts...)
	if err != nil {
		return "", fmt.Errorf("gemini chat SendMessage failed: %w", err)
	}

	text := collectText(resp)
	if text == "" {
		s.logger.Warn("gemini response was empty or had no text parts", zap.String("model", model))
		return "I'm sorry, I couldn't generate a response at this time. Please try again.", nil
	}
	return text, nil
}

func (s *LLMService) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	m := s.client.GenerativeModel(model)
	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation request failed: %w", err)
	}
	text := collectText(resp)
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}
	return text, nil
}

func (s *LLMService) GenerateJSON(ctx context.Context, model, prompt string, schema *genai.Schema, out any) error {
	m := s.client.GenerativeModel(model)
	m.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return fmt.Errorf("gemini structured generation request failed: %w", err)
	}
	text := collectText(resp)
	if text == "" {
		return fmt.Errorf("gemini returned an empty structured response")
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("failed to decode structured response: %w", err)
	}
	return nil
}

func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(b.String())
}
