package core

import (
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"

	"github.com/companionhq/companion-backend/internal/store"
)

func testCharacter() *store.Character {
	return &store.Character{
		ID:      "char_1",
		ClerkID: "clerk_1",
		Name:    "Luna",
		Personality: store.Personality{
			Voice:       "Zephyr",
			SpeechStyle: "Conversational",
			Emotions:    store.DefaultEmotions(),
		},
		EmotionalExpression: store.EmotionalExpression{
			Enabled:      true,
			Intensity:    store.IntensityModerate,
			ShowThoughts: true,
		},
		FirstMessage: store.FirstMessage{Type: store.FirstMessageNone},
	}
}

func contentText(c *genai.Content) string {
	var b strings.Builder
	for _, p := range c.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}

func TestDominantEmotions(t *testing.T) {
	e := store.Emotions{Happiness: 70, Anger: 0, Sadness: 90, Excitement: 69, Curiosity: 70}
	dominant := DominantEmotions(e)
	if len(dominant) != 3 {
		t.Fatalf("expected 3 dominant emotions, got %d: %v", len(dominant), dominant)
	}
	if dominant[0].Name != "sadness" {
		t.Errorf("expected sadness first, got %s", dominant[0].Name)
	}
	// Ties keep axis declaration order.
	if dominant[1].Name != "happiness" || dominant[2].Name != "curiosity" {
		t.Errorf("unexpected tie order: %v", dominant)
	}
}

func TestDominantEmotionsNoneAboveThreshold(t *testing.T) {
	if d := DominantEmotions(store.DefaultEmotions()); len(d) != 0 {
		t.Fatalf("default emotions should have no dominant axes, got %v", d)
	}
}

func TestPersonaPromptDefaults(t *testing.T) {
	ch := testCharacter()
	prompt := PersonaPrompt(ch)

	if !strings.Contains(prompt, "You are Luna") {
		t.Error("prompt missing character name")
	}
	if !strings.Contains(prompt, "A helpful AI assistant") {
		t.Error("empty description should fall back to the default")
	}
	if !strings.Contains(prompt, "- Happiness: 50/100") {
		t.Error("prompt missing emotion state line")
	}
	if strings.Contains(prompt, "currently feeling strong") {
		t.Error("no dominant emotion expected at default values")
	}
	if !strings.Contains(prompt, "*asterisks*") {
		t.Error("prompt missing thought formatting instruction")
	}
}

func TestPersonaPromptDominantDescriptor(t *testing.T) {
	ch := testCharacter()
	ch.Personality.Emotions.Anger = 85
	ch.Personality.Emotions.Sadness = 70

	prompt := PersonaPrompt(ch)
	if !strings.Contains(prompt, "You are currently feeling strong anger and sadness.") {
		t.Errorf("missing dominant descriptor in prompt:\n%s", prompt)
	}
}

func TestPersonaPromptOptionalFields(t *testing.T) {
	ch := testCharacter()
	age := 27
	ch.Age = &age
	ch.Interests = []string{"astronomy", "poetry"}
	ch.Description = "A stargazer."

	prompt := PersonaPrompt(ch)
	if !strings.Contains(prompt, "You are 27 years old.") {
		t.Error("missing age line")
	}
	if !strings.Contains(prompt, "Your interests include: astronomy, poetry") {
		t.Error("missing interests line")
	}
	if !strings.Contains(prompt, "A stargazer.") {
		t.Error("missing description")
	}
}

func TestGreetingPromptMentionsOpener(t *testing.T) {
	prompt := GreetingPrompt(testCharacter())
	if !strings.Contains(prompt, "Generate a brief, friendly opening message") {
		t.Error("greeting prompt missing opener instruction")
	}
	if !strings.Contains(prompt, "Keep it under 100 words") {
		t.Error("greeting prompt missing length bound")
	}
}

func TestBuildChatHistoryBasic(t *testing.T) {
	ch := testCharacter()
	messages := []store.Message{
		{ID: "m1", Role: store.RoleUser, Content: "hi"},
		{ID: "m2", Role: store.RoleAssistant, Content: "hello"},
	}

	history := BuildChatHistory(ch, messages, nil, "how are you")
	if len(history) != 4 {
		t.Fatalf("expected 4 turns, got %d", len(history))
	}
	if history[0].Role != "model" || !strings.Contains(contentText(history[0]), "You are Luna") {
		t.Error("first turn should be the persona")
	}
	if history[1].Role != "user" || contentText(history[1]) != "hi" {
		t.Errorf("unexpected second turn: %s %q", history[1].Role, contentText(history[1]))
	}
	if history[2].Role != "model" {
		t.Errorf("assistant role should map to model, got %s", history[2].Role)
	}
	last := history[len(history)-1]
	if last.Role != "user" || contentText(last) != "how are you" {
		t.Error("final turn should be the new user input")
	}
}

func TestBuildChatHistoryWindow(t *testing.T) {
	ch := testCharacter()
	var messages []store.Message
	for i := 0; i < 30; i++ {
		messages = append(messages, store.Message{
			ID: NewMessageID(), Role: store.RoleUser, Content: "msg",
		})
	}

	history := BuildChatHistory(ch, messages, nil, "latest")
	// persona + 20 windowed + new input
	if len(history) != 22 {
		t.Fatalf("expected 22 turns, got %d", len(history))
	}
}

func TestBuildChatHistoryPinnedBlock(t *testing.T) {
	ch := testCharacter()
	messages := []store.Message{
		{ID: "m1", Role: store.RoleUser, Content: "my dog is called Rex"},
		{ID: "m2", Role: store.RoleAssistant, Content: "noted"},
	}

	history := BuildChatHistory(ch, messages, []string{"m1"}, "hi")

	var texts []string
	for _, c := range history {
		texts = append(texts, contentText(c))
	}
	joined := strings.Join(texts, "\n")
	if !strings.Contains(joined, pinnedBlockOpen) || !strings.Contains(joined, pinnedBlockClose) {
		t.Fatal("pinned block markers missing")
	}
	if !strings.Contains(joined, "User: my dog is called Rex") {
		t.Error("pinned user message should carry a speaker prefix")
	}

	openIdx, closeIdx, pinIdx := -1, -1, -1
	for i, text := range texts {
		switch {
		case text == pinnedBlockOpen:
			openIdx = i
		case text == pinnedBlockClose:
			closeIdx = i
		case strings.HasPrefix(text, "User: my dog"):
			pinIdx = i
		}
	}
	if !(openIdx < pinIdx && pinIdx < closeIdx) {
		t.Errorf("pinned block out of order: open=%d pin=%d close=%d", openIdx, pinIdx, closeIdx)
	}
}

func TestBuildChatHistoryStalePinsOmitBlock(t *testing.T) {
	ch := testCharacter()
	messages := []store.Message{
		{ID: "m1", Role: store.RoleUser, Content: "hi"},
	}

	history := BuildChatHistory(ch, messages, []string{"gone"}, "hello")
	for _, c := range history {
		if contentText(c) == pinnedBlockOpen {
			t.Fatal("pinned block should be omitted when no pinned message survives")
		}
	}
}

func TestBuildChatHistoryNoNewInput(t *testing.T) {
	ch := testCharacter()
	messages := []store.Message{
		{ID: "m1", Role: store.RoleUser, Content: "hi"},
	}
	history := BuildChatHistory(ch, messages, nil, "")
	last := history[len(history)-1]
	if contentText(last) != "hi" {
		t.Error("empty new input should not append a trailing turn")
	}
}
