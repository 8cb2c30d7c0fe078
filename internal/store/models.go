package store

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

const (
	FirstMessageNone   = "none"
	FirstMessageFixed  = "fixed"
	FirstMessageRandom = "random"
)

const (
	IntensitySubtle     = "subtle"
	IntensityModerate   = "moderate"
	IntensityExpressive = "expressive"
)

// Emotions is the five-axis emotion vector. All axes are always present;
// values are integers in [0,100].
type Emotions struct {
	Happiness  int `json:"happiness"`
	Anger      int `json:"anger"`
	Sadness    int `json:"sadness"`
	Excitement int `json:"excitement"`
	Curiosity  int `json:"curiosity"`
}

func DefaultEmotions() Emotions {
	return Emotions{Happiness: 50, Anger: 0, Sadness: 0, Excitement: 50, Curiosity: 50}
}

// EmotionAxes lists the valid axis names in their canonical order.
var EmotionAxes = []string{"happiness", "anger", "sadness", "excitement", "curiosity"}

func (e Emotions) Axis(name string) (int, bool) {
	switch name {
	case "happiness":
		return e.Happiness, true
	case "anger":
		return e.Anger, true
	case "sadness":
		return e.Sadness, true
	case "excitement":
		return e.Excitement, true
	case "curiosity":
		return e.Curiosity, true
	}
	return 0, false
}

func (e *Emotions) SetAxis(name string, value int) bool {
	switch name {
	case "happiness":
		e.Happiness = value
	case "anger":
		e.Anger = value
	case "sadness":
		e.Sadness = value
	case "excitement":
		e.Excitement = value
	case "curiosity":
		e.Curiosity = value
	default:
		return false
	}
	return true
}

type CustomVariable struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type PrivacyPreferences struct {
	ShowAge       bool `json:"showAge"`
	ShowLocation  bool `json:"showLocation"`
	ShowInterests bool `json:"showInterests"`
}

type AccessibilityPreferences struct {
	FontSize      string `json:"fontSize"`
	ContrastMode  string `json:"contrastMode"`
	ReducedMotion bool   `json:"reducedMotion"`
}

type Preferences struct {
	Theme         string                   `json:"theme"`
	Notifications bool                     `json:"notifications"`
	Privacy       PrivacyPreferences       `json:"privacy"`
	Accessibility AccessibilityPreferences `json:"accessibility"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		Theme:         "system",
		Notifications: true,
		Privacy:       PrivacyPreferences{ShowInterests: true},
		Accessibility: AccessibilityPreferences{FontSize: "medium", ContrastMode: "normal"},
	}
}

type User struct {
	ID              string           `json:"id"`
	ClerkID         string           `json:"clerkId"`
	DisplayName     string           `json:"displayName"`
	Email           string           `json:"email"`
	Description     string           `json:"description"`
	Age             *int             `json:"age"`
	Location        string           `json:"location"`
	Language        string           `json:"language"`
	Timezone        string           `json:"timezone"`
	Interests       []string         `json:"interests"`
	CustomVariables []CustomVariable `json:"customVariables"`
	ProfileImageURL string           `json:"profileImageUrl"`
	AvatarURL       string           `json:"avatarUrl"`
	IsOnboarded     bool             `json:"isOnboarded"`
	IsActive        bool             `json:"isActive"`
	LastActive      time.Time        `json:"lastActive"`
	Preferences     Preferences      `json:"preferences"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

type Personality struct {
	Traits      []string `json:"traits"`
	Voice       string   `json:"voice"`
	SpeechStyle string   `json:"speechStyle"`
	Emotions    Emotions `json:"emotions"`
}

type EmotionalExpression struct {
	Enabled      bool   `json:"enabled"`
	Intensity    string `json:"intensity"`
	ShowThoughts bool   `json:"showThoughts"`
}

type FirstMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type Character struct {
	ID                  string              `json:"id"`
	ClerkID             string              `json:"clerkId"`
	Name                string              `json:"name"`
	Age                 *int                `json:"age"`
	Description         string              `json:"description"`
	Interests           []string            `json:"interests"`
	AvatarURL           string              `json:"avatarUrl"`
	IsActive            bool                `json:"isActive"`
	Personality         Personality         `json:"personality"`
	EmotionalExpression EmotionalExpression `json:"emotionalExpression"`
	FirstMessage        FirstMessage        `json:"firstMessage"`
	CustomAttributes    []CustomVariable    `json:"customAttributes"`
	ConversationCount   int                 `json:"conversationCount"`
	LastInteraction     *time.Time          `json:"lastInteraction"`
	CreatedAt           time.Time           `json:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt"`
}

// Message is embedded in its conversation document; it has no collection of
// its own. IDs are app-generated strings, not store ids.
type Message struct {
	ID        string     `json:"id"`
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	Timestamp time.Time  `json:"timestamp"`
	Edited    bool       `json:"edited,omitempty"`
	EditedAt  *time.Time `json:"editedAt,omitempty"`
}

type Conversation struct {
	ID             string    `json:"id"`
	ClerkID        string    `json:"clerkId"`
	CharacterID    string    `json:"characterId"`
	Title          string    `json:"title"`
	Messages       []Message `json:"messages"`
	PinnedMessages []string  `json:"pinnedMessages"`
	MessageCount   int       `json:"messageCount"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
