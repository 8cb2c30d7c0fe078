package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/generative-ai-go/genai"

	"github.com/companionhq/companion-backend/internal/store"
)

const (
	// historyWindow bounds how many stored messages are replayed per turn.
	historyWindow = 20
	// dominantThreshold is the axis value at which an emotion is surfaced
	// explicitly in prompts.
	dominantThreshold = 70

	pinnedBlockOpen  = "IMPORTANT CONTEXT (pinned messages):"
	pinnedBlockClose = "END OF PINNED MESSAGES. Continue the conversation naturally without explicitly referencing these pinned messages."
)

type DominantEmotion struct {
	Name  string
	Value int
}

// DominantEmotions returns the axes at or above the dominant threshold,
// strongest first. Axis order breaks ties so output is deterministic.
func DominantEmotions(e store.Emotions) []DominantEmotion {
	var dominant []DominantEmotion
	for _, name := range store.EmotionAxes {
		if value, _ := e.Axis(name); value >= dominantThreshold {
			dominant = append(dominant, DominantEmotion{Name: name, Value: value})
		}
	}
	sort.SliceStable(dominant, func(i, j int) bool {
		return dominant[i].Value > dominant[j].Value
	})
	return dominant
}

func emotionDescriptor(dominant []DominantEmotion) string {
	if len(dominant) == 0 {
		return ""
	}
	names := make([]string, len(dominant))
	for i, d := range dominant {
		names[i] = d.Name
	}
	return fmt.Sprintf("You are currently feeling strong %s. This should significantly influence your response tone and content.",
		strings.Join(names, " and "))
}

// PersonaPrompt renders the character's system-level persona turn: identity,
// interests, the full emotion vector, tone guidance, and the dominant-emotion
// descriptor when one applies.
func PersonaPrompt(ch *store.Character) string {
	var b strings.Builder

	description := ch.Description
	if description == "" {
		description = "A helpful AI assistant"
	}
	fmt.Fprintf(&b, "You are %s, an AI character with the following description:\n%s\n", ch.Name, description)

	if len(ch.Interests) > 0 {
		fmt.Fprintf(&b, "\nYour interests include: %s\n", strings.Join(ch.Interests, ", "))
	}
	if ch.Age != nil {
		fmt.Fprintf(&b, "\nYou are %d years old.\n", *ch.Age)
	}

	e := ch.Personality.Emotions
	b.WriteString("\nYour emotional state:\n")
	fmt.Fprintf(&b, "- Happiness: %d/100\n", e.Happiness)
	fmt.Fprintf(&b, "- Anger: %d/100\n", e.Anger)
	fmt.Fprintf(&b, "- Sadness: %d/100\n", e.Sadness)
	fmt.Fprintf(&b, "- Excitement: %d/100\n", e.Excitement)
	fmt.Fprintf(&b, "- Curiosity: %d/100\n", e.Curiosity)

	if descriptor := emotionDescriptor(DominantEmotions(e)); descriptor != "" {
		b.WriteString("\n" + descriptor + "\n")
	}

	b.WriteString(`
Adjust your responses to reflect these emotional states. Higher values mean stronger emotions.

For example:
- With high happiness: Be more cheerful, optimistic, and use positive language
- With high anger: Be more curt, direct, or show irritation subtly
- With high sadness: Use more melancholic tone, express concern or disappointment
- With high excitement: Be more energetic, use exclamations, show enthusiasm
- With high curiosity: Ask more questions, show interest in learning more

Respond to the user's message in character.

IMPORTANT: When expressing emotions, especially during romantic, intimate, or emotionally charged moments, include your internal thoughts in *asterisks* like this: *I'm feeling nervous about this*. These thoughts should reflect your true feelings, hesitations, desires, or emotional reactions that you might not directly say out loud.`)

	return b.String()
}

// GreetingPrompt asks the model for a character-specific opener, used by the
// "random" first-message policy.
func GreetingPrompt(ch *store.Character) string {
	var b strings.Builder

	description := ch.Description
	if description == "" {
		description = "A helpful AI assistant"
	}
	fmt.Fprintf(&b, "You are %s, an AI character with the following description:\n%s\n", ch.Name, description)

	if len(ch.Interests) > 0 {
		fmt.Fprintf(&b, "\nYour interests include: %s\n", strings.Join(ch.Interests, ", "))
	}
	if ch.Age != nil {
		fmt.Fprintf(&b, "\nYou are %d years old.\n", *ch.Age)
	}

	e := ch.Personality.Emotions
	b.WriteString("\nYour emotional state:\n")
	fmt.Fprintf(&b, "- Happiness: %d/100\n", e.Happiness)
	fmt.Fprintf(&b, "- Anger: %d/100\n", e.Anger)
	fmt.Fprintf(&b, "- Sadness: %d/100\n", e.Sadness)
	fmt.Fprintf(&b, "- Excitement: %d/100\n", e.Excitement)
	fmt.Fprintf(&b, "- Curiosity: %d/100\n", e.Curiosity)

	if descriptor := emotionDescriptor(DominantEmotions(e)); descriptor != "" {
		b.WriteString("\n" + descriptor + "\n")
	}

	b.WriteString(`
Generate a brief, friendly opening message to start a conversation with a new user.
Your message should reflect your character's personality and interests.
Keep it under 100 words and make it engaging to encourage the user to respond.
Do not use generic greetings like "Hello, how can I help you?" - make it personal to your character.

IMPORTANT: When expressing emotions, especially during emotional moments, include your internal thoughts in *asterisks* like this: *I'm feeling excited to meet someone new*. These thoughts should reflect your true feelings that you might not directly say out loud.`)

	return b.String()
}

// mapRole translates stored roles to the generative API's role set. The
// second return is false for roles that must never reach the transcript.
func mapRole(role string) (string, bool) {
	switch role {
	case store.RoleUser:
		return "user", true
	case store.RoleAssistant:
		return "model", true
	default:
		return "", false
	}
}

func textContent(role, text string) *genai.Content {
	return &genai.Content{Role: role, Parts: []genai.Part{genai.Text(text)}}
}

// BuildChatHistory assembles the ordered turn list for one model call:
// persona turn, optional pinned block, the last 20 messages oldest first,
// and the new user input when present. Pure with respect to its inputs.
func BuildChatHistory(ch *store.Character, messages []store.Message, pinnedIDs []string, newInput string) []*genai.Content {
	history := []*genai.Content{textContent("model", PersonaPrompt(ch))}

	if len(pinnedIDs) > 0 {
		pinned := make(map[string]bool, len(pinnedIDs))
		for _, id := range pinnedIDs {
			pinned[id] = true
		}

		var block []*genai.Content
		for _, msg := range messages {
			if !pinned[msg.ID] {
				continue
			}
			role, ok := mapRole(msg.Role)
			if !ok {
				continue
			}
			speaker := "User"
			if msg.Role == store.RoleAssistant {
				speaker = ch.Name
			}
			block = append(block, textContent(role, fmt.Sprintf("%s: %s", speaker, msg.Content)))
		}
		if len(block) > 0 {
			history = append(history, textContent("model", pinnedBlockOpen))
			history = append(history, block...)
			history = append(history, textContent("model", pinnedBlockClose))
		}
	}

	recent := messages
	if len(recent) > historyWindow {
		recent = recent[len(recent)-historyWindow:]
	}
	for _, msg := range recent {
		role, ok := mapRole(msg.Role)
		if !ok {
			continue
		}
		history = append(history, textContent(role, msg.Content))
	}

	if newInput != "" {
		history = append(history, textContent("user", newInput))
	}
	return history
}
