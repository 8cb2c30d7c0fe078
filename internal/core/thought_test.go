package core

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/companionhq/companion-backend/internal/store"
)

func newEnhancer(gen Generator) *ThoughtEnhancer {
	return NewThoughtEnhancer(gen, zap.NewNop())
}

func TestEnhanceSkipsWhenDisabled(t *testing.T) {
	gen := &stubGenerator{textReply: "should not be used"}
	ch := testCharacter()
	ch.EmotionalExpression.Enabled = false

	got := newEnhancer(gen).Enhance(context.Background(), ch, "I love this.", "I love you")
	if got != "I love this." {
		t.Errorf("reply changed despite expression disabled: %q", got)
	}
	if gen.textCalls != 0 {
		t.Error("generator should not be called when expression is disabled")
	}
}

func TestEnhanceSkipsWhenReplyHasThoughts(t *testing.T) {
	gen := &stubGenerator{textReply: "extra"}
	reply := "Hello. *I feel warm inside* Nice to see you."

	got := newEnhancer(gen).Enhance(context.Background(), testCharacter(), reply, "I love you")
	if got != reply {
		t.Errorf("reply with existing thoughts must pass through, got %q", got)
	}
	if gen.textCalls != 0 {
		t.Error("generator should not be called for an already-marked reply")
	}
}

func TestEnhanceSkipsNonEmotionalMoment(t *testing.T) {
	gen := &stubGenerator{textReply: "unused"}
	got := newEnhancer(gen).Enhance(context.Background(), testCharacter(),
		"The weather report says rain tomorrow.", "what's the forecast")
	if got != "The weather report says rain tomorrow." {
		t.Errorf("neutral exchange should pass through, got %q", got)
	}
	if gen.textCalls != 0 {
		t.Error("generator should not be called without an emotional trigger")
	}
}

func TestEnhanceSplicesAfterSecondSentence(t *testing.T) {
	gen := &stubGenerator{textReply: "my heart races"}
	ch := testCharacter()
	ch.Personality.Emotions.Happiness = 90 // dominant axis always triggers

	got := newEnhancer(gen).Enhance(context.Background(), ch,
		"Hi there. Good to see you. What brings you here?", "hello")
	want := "Hi there. Good to see you. *my heart races* What brings you here?"
	if got != want {
		t.Errorf("splice mismatch:\n got %q\nwant %q", got, want)
	}
	if gen.lastModel != ModelThought {
		t.Errorf("thoughts must use the thought model, got %q", gen.lastModel)
	}
}

func TestEnhanceAppendsForSingleSentence(t *testing.T) {
	gen := &stubGenerator{textReply: "I hope they stay"}
	got := newEnhancer(gen).Enhance(context.Background(), testCharacter(),
		"Welcome back", "I missed you, my love")
	want := "Welcome back *I hope they stay*"
	if got != want {
		t.Errorf("append mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestEnhanceKeywordTrigger(t *testing.T) {
	gen := &stubGenerator{textReply: "oh"}
	got := newEnhancer(gen).Enhance(context.Background(), testCharacter(),
		"That is kind of you", "I really like you")
	if gen.textCalls != 1 {
		t.Fatalf("keyword in user message should trigger, calls=%d", gen.textCalls)
	}
	if got == "That is kind of you" {
		t.Error("reply should have been enhanced")
	}
}

func TestEnhanceSubtleIntensityNarrowsKeywords(t *testing.T) {
	gen := &stubGenerator{textReply: "hm"}
	ch := testCharacter()
	ch.EmotionalExpression.Intensity = store.IntensitySubtle

	// "hug" is a base keyword but not in the subtle set.
	got := newEnhancer(gen).Enhance(context.Background(), ch, "Sure.", "can I have a hug")
	if got != "Sure." || gen.textCalls != 0 {
		t.Errorf("subtle intensity should ignore non-subtle keywords, got %q calls=%d", got, gen.textCalls)
	}

	got = newEnhancer(gen).Enhance(context.Background(), ch, "Sure.", "I love this song")
	if gen.textCalls != 1 {
		t.Errorf("subtle keyword should still trigger, calls=%d", gen.textCalls)
	}
	_ = got
}

func TestEnhanceSurvivesGeneratorFailure(t *testing.T) {
	gen := &stubGenerator{textErr: errors.New("model unavailable")}
	reply := "It means a lot to me."
	got := newEnhancer(gen).Enhance(context.Background(), testCharacter(), reply, "I love you")
	if got != reply {
		t.Errorf("failed thought generation must return the reply unchanged, got %q", got)
	}
}

func TestSplitSentences(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"One sentence", 1},
		{"First. Second.", 2},
		{"A! B? C.", 3},
		{"Decimal 3.14 stays whole.", 1},
		{"", 0},
	}
	for _, tc := range cases {
		if got := splitSentences(tc.in); len(got) != tc.want {
			t.Errorf("splitSentences(%q) = %v, want %d parts", tc.in, got, tc.want)
		}
	}
}
