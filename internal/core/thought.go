package core

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/companionhq/companion-backend/internal/store"
)

// baseEmotionalKeywords flag a message as emotionally loaded regardless of
// the character's current state.
var baseEmotionalKeywords = []string{
	"love", "like you", "feelings", "romantic", "attracted", "kiss", "hug", "touch",
	"emotion", "feel", "heart", "blush", "nervous", "excited", "intimate", "close",
	"relationship", "date", "together", "miss you", "thinking of you", "care for you",
}

// axisKeywords add sensitivity for each dominant axis.
var axisKeywords = map[string][]string{
	"happiness":  {"happy", "joy", "delighted", "pleased", "content"},
	"anger":      {"angry", "upset", "annoyed", "irritated", "frustrated"},
	"sadness":    {"sad", "unhappy", "disappointed", "depressed", "melancholy"},
	"excitement": {"excited", "thrilled", "eager", "enthusiastic", "energetic"},
	"curiosity":  {"curious", "interested", "intrigued", "fascinated", "wondering"},
}

var expressiveKeywords = []string{
	"happy", "sad", "angry", "surprised", "scared", "confused",
	"worried", "proud", "grateful", "curious", "interested", "hope",
}

// subtleKeywords is the restricted set used at the "subtle" intensity tier.
var subtleKeywords = []string{"love", "romantic", "kiss", "intimate", "feelings", "heart"}

// ThoughtEnhancer optionally splices a bracketed internal thought into a
// generated reply. It degrades to the original reply on any failure; it must
// never fail the surrounding send or regenerate operation.
type ThoughtEnhancer struct {
	gen    Generator
	logger *zap.Logger
}

func NewThoughtEnhancer(gen Generator, logger *zap.Logger) *ThoughtEnhancer {
	return &ThoughtEnhancer{gen: gen, logger: logger}
}

func (t *ThoughtEnhancer) Enhance(ctx context.Context, ch *store.Character, reply, userMessage string) string {
	if !ch.EmotionalExpression.Enabled {
		return reply
	}
	// Two or more asterisks means the reply already carries thoughts.
	if strings.Count(reply, "*") >= 2 {
		return reply
	}

	intensity := ch.EmotionalExpression.Intensity
	if intensity == "" {
		intensity = store.IntensityModerate
	}

	dominant := DominantEmotions(ch.Personality.Emotions)
	keywords := emotionalKeywords(dominant, intensity)

	if !isEmotionalMoment(userMessage, reply, keywords, dominant) {
		return reply
	}

	thought, err := t.gen.GenerateText(ctx, ModelThought, thoughtPrompt(ch, reply, userMessage, dominant, intensity))
	if err != nil {
		t.logger.Warn("thought generation failed, returning reply unmodified",
			zap.String("character_id", ch.ID), zap.Error(err))
		return reply
	}
	return spliceThought(reply, strings.TrimSpace(thought))
}

func emotionalKeywords(dominant []DominantEmotion, intensity string) []string {
	keywords := append([]string(nil), baseEmotionalKeywords...)
	for _, d := range dominant {
		keywords = append(keywords, axisKeywords[d.Name]...)
	}
	switch intensity {
	case store.IntensityExpressive:
		keywords = append(keywords, expressiveKeywords...)
	case store.IntensitySubtle:
		keywords = append([]string(nil), subtleKeywords...)
	}
	return keywords
}

func isEmotionalMoment(userMessage, reply string, keywords []string, dominant []DominantEmotion) bool {
	if len(dominant) > 0 {
		return true
	}
	user := strings.ToLower(userMessage)
	text := strings.ToLower(reply)
	for _, keyword := range keywords {
		if strings.Contains(user, keyword) || strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

func thoughtPrompt(ch *store.Character, reply, userMessage string, dominant []DominantEmotion, intensity string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "The AI character %s has responded to a user with this message:\n%q\n\n", ch.Name, reply)
	fmt.Fprintf(&b, "The user's message was:\n%q\n\n", userMessage)
	fmt.Fprintf(&b, "This appears to be an emotional moment. Generate ONLY internal thoughts that %s might have\n", ch.Name)
	b.WriteString("but not say directly. These thoughts should reflect true feelings, hesitations, desires, or emotional reactions.\n\n")

	if len(dominant) > 0 {
		names := make([]string, len(dominant))
		for i, d := range dominant {
			names[i] = d.Name
		}
		fmt.Fprintf(&b, "The character is currently feeling strong %s.\n\n", strings.Join(names, " and "))
	}

	e := ch.Personality.Emotions
	b.WriteString("Character's emotional state:\n")
	fmt.Fprintf(&b, "- Happiness: %d/100\n", e.Happiness)
	fmt.Fprintf(&b, "- Anger: %d/100\n", e.Anger)
	fmt.Fprintf(&b, "- Sadness: %d/100\n", e.Sadness)
	fmt.Fprintf(&b, "- Excitement: %d/100\n", e.Excitement)
	fmt.Fprintf(&b, "- Curiosity: %d/100\n\n", e.Curiosity)

	fmt.Fprintf(&b, "The emotional expression intensity is set to %q (options: subtle, moderate, expressive).\n", intensity)
	switch intensity {
	case store.IntensitySubtle:
		b.WriteString("Keep thoughts very brief and restrained.\n")
	case store.IntensityExpressive:
		b.WriteString("Make thoughts more detailed and emotionally vivid.\n")
	}
	b.WriteString("\nKeep it appropriate. Return ONLY the thoughts without any explanation or formatting.")

	return b.String()
}

// spliceThought inserts *thought* after the second sentence boundary, or
// appends it when the reply is a single sentence.
func spliceThought(reply, thought string) string {
	sentences := splitSentences(reply)
	if len(sentences) <= 1 {
		return fmt.Sprintf("%s *%s*", reply, thought)
	}
	sentences[1] = fmt.Sprintf("%s *%s*", sentences[1], thought)
	return strings.Join(sentences, " ")
}

// splitSentences cuts text on ". ", "! ", "? " boundaries, keeping the
// punctuation and dropping the separating whitespace.
func splitSentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); {
		c := text[i]
		if c == '.' || c == '!' || c == '?' {
			j := i + 1
			for j < len(text) && (text[j] == ' ' || text[j] == '\t' || text[j] == '\n' || text[j] == '\r') {
				j++
			}
			if j > i+1 {
				out = append(out, text[start:i+1])
				start = j
				i = j
				continue
			}
		}
		i++
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}
