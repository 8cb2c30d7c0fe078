package core

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/generative-ai-go/genai"

	"github.com/companionhq/companion-backend/internal/apperr"
)

// MaxSentenceTextLength bounds the text accepted for tone analysis.
const MaxSentenceTextLength = 3000

// TonedSentence is one sentence of analyzed text with its emotional tone.
type TonedSentence struct {
	Tone string `json:"tone"`
	Text string `json:"text"`
}

// RandomCharacter is a generated character sketch for pre-filling the
// creation form.
type RandomCharacter struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Age         int      `json:"age"`
	Interests   []string `json:"interests"`
	Greeting    string   `json:"greeting"`
	Gender      string   `json:"gender"`
	AvatarURL   string   `json:"avatarUrl"`
}

// CreativeService wraps the structured-output generation endpoints that do
// not belong to any conversation.
type CreativeService struct {
	gen Generator
}

func NewCreativeService(gen Generator) *CreativeService {
	return &CreativeService{gen: gen}
}

var sentenceSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"tone": {Type: genai.TypeString, Description: "The emotional tone of the sentence"},
			"text": {Type: genai.TypeString, Description: "The sentence text"},
		},
		Required: []string{"tone", "text"},
	},
}

// AnalyzeSentences breaks text into sentences and labels each with an
// emotional tone.
func (s *CreativeService) AnalyzeSentences(ctx context.Context, text string) ([]TonedSentence, error) {
	if text == "" {
		return nil, apperr.Validation("Text parameter is required")
	}
	if len(text) > MaxSentenceTextLength {
		return nil, apperr.Validation("Text must be %d characters or less", MaxSentenceTextLength)
	}

	prompt := fmt.Sprintf(`Break the following text into sentences and assign an appropriate emotional tone to each sentence.
The tone should reflect the emotional content or intent of the sentence (e.g., happy, sad, neutral, excited, informative, etc.).
Return only the JSON result.

Text to process: %q`, text)

	var sentences []TonedSentence
	if err := s.gen.GenerateJSON(ctx, ModelChat, prompt, sentenceSchema, &sentences); err != nil {
		return nil, apperr.Upstream(err, "Failed to process sentence analysis request")
	}
	return sentences, nil
}

var randomCharacterSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"name":        {Type: genai.TypeString, Description: "The character's name"},
		"description": {Type: genai.TypeString, Description: "A detailed description of the character under 1000 characters"},
		"age":         {Type: genai.TypeString, Description: "The character's age as a number"},
		"interests": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString, Description: "An interest or hobby of the character under 200 characters"},
			Description: "A list of 10 interests or hobbies",
		},
		"greeting": {Type: genai.TypeString, Description: "A custom greeting message from the character under 200 characters"},
		"gender":   {Type: genai.TypeString, Description: "The gender of the character (male or female) for avatar purposes"},
	},
	Required: []string{"name", "description", "age", "interests", "greeting", "gender"},
}

const randomCharacterPrompt = `Generate a random fictional character with the following details:
1. A unique and interesting name
2. A detailed description under 1000 characters
3. An age (between 18-100)
4. 10 diverse interests/hobbies, each under 200 characters
5. A custom greeting message that the character would use to start a conversation (under 200 characters)
6. A gender (male or female) for the character avatar

Be creative and make the character feel unique and well-developed. The description should give insight into their personality, background, and notable traits.
The greeting should reflect the character's personality and be engaging to start a conversation.
Return ONLY the JSON output without any additional text or explanations.`

// GenerateRandomCharacter produces a character sketch with a gender-matched
// placeholder avatar.
func (s *CreativeService) GenerateRandomCharacter(ctx context.Context) (*RandomCharacter, error) {
	// Some model revisions return structured numbers as strings, so age is
	// requested as a string and parsed here.
	var raw struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Age         string   `json:"age"`
		Interests   []string `json:"interests"`
		Greeting    string   `json:"greeting"`
		Gender      string   `json:"gender"`
	}
	if err := s.gen.GenerateJSON(ctx, ModelChat, randomCharacterPrompt, randomCharacterSchema, &raw); err != nil {
		return nil, apperr.Upstream(err, "Failed to generate random character")
	}

	age, err := strconv.Atoi(strings.TrimSpace(raw.Age))
	if err != nil {
		return nil, apperr.Upstream(err, "Failed to generate random character")
	}

	gender := strings.TrimSpace(strings.ToLower(raw.Gender))
	if gender != "female" {
		gender = "male"
	}

	return &RandomCharacter{
		Name:        raw.Name,
		Description: raw.Description,
		Age:         age,
		Interests:   raw.Interests,
		Greeting:    raw.Greeting,
		Gender:      gender,
		AvatarURL:   "https://avatar.iran.liara.run/public?gender=" + gender,
	}, nil
}
