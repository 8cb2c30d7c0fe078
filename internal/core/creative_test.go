package core

import (
	"context"
	"strings"
	"testing"

	"github.com/companionhq/companion-backend/internal/apperr"
)

func TestAnalyzeSentences(t *testing.T) {
	gen := &stubGenerator{jsonText: `[{"tone":"happy","text":"What a day!"},{"tone":"neutral","text":"It rained."}]`}
	svc := NewCreativeService(gen)

	sentences, err := svc.AnalyzeSentences(context.Background(), "What a day! It rained.")
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if len(sentences) != 2 || sentences[0].Tone != "happy" || sentences[1].Text != "It rained." {
		t.Errorf("unexpected result %+v", sentences)
	}
	if gen.lastModel != ModelChat {
		t.Errorf("structured calls use the chat model, got %q", gen.lastModel)
	}
}

func TestAnalyzeSentencesValidation(t *testing.T) {
	svc := NewCreativeService(&stubGenerator{})
	ctx := context.Background()

	if _, err := svc.AnalyzeSentences(ctx, ""); !apperr.IsCode(err, apperr.CodeValidation) {
		t.Errorf("empty text should be a validation error, got %v", err)
	}
	if _, err := svc.AnalyzeSentences(ctx, strings.Repeat("a", MaxSentenceTextLength+1)); !apperr.IsCode(err, apperr.CodeValidation) {
		t.Errorf("oversized text should be a validation error, got %v", err)
	}
}

func TestGenerateRandomCharacter(t *testing.T) {
	gen := &stubGenerator{jsonText: `{
		"name": "Mira",
		"description": "A wandering cartographer.",
		"age": "34",
		"interests": ["maps"],
		"greeting": "Ever been lost on purpose?",
		"gender": " Female "
	}`}
	svc := NewCreativeService(gen)

	ch, err := svc.GenerateRandomCharacter(context.Background())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if ch.Age != 34 {
		t.Errorf("age string should parse to int, got %d", ch.Age)
	}
	if ch.Gender != "female" {
		t.Errorf("gender should normalize, got %q", ch.Gender)
	}
	if ch.AvatarURL != "https://avatar.iran.liara.run/public?gender=female" {
		t.Errorf("unexpected avatar url %q", ch.AvatarURL)
	}
}

func TestGenerateRandomCharacterGenderDefaultsMale(t *testing.T) {
	gen := &stubGenerator{jsonText: `{"name":"K","description":"d","age":"20","interests":[],"greeting":"hi","gender":"nonbinary"}`}
	ch, err := NewCreativeService(gen).GenerateRandomCharacter(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if ch.Gender != "male" {
		t.Errorf("unrecognized gender should default to male, got %q", ch.Gender)
	}
}
