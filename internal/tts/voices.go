// Package tts turns text into spoken audio using Gemini's speech models.
package tts

import "sort"

// Voices maps each supported prebuilt voice to its style label. The set
// mirrors the voices the speech model ships with.
var Voices = map[string]string{
	"Zephyr":        "Bright",
	"Puck":          "Upbeat",
	"Charon":        "Informative",
	"Kore":          "Firm",
	"Fenrir":        "Excitable",
	"Leda":          "Youthful",
	"Orus":          "Firm",
	"Aoede":         "Breezy",
	"Callirrhoe":    "Easy-going",
	"Autonoe":       "Bright",
	"Enceladus":     "Breathy",
	"Iapetus":       "Clear",
	"Umbriel":       "Easy-going",
	"Algieba":       "Smooth",
	"Despina":       "Smooth",
	"Erinome":       "Clear",
	"Algenib":       "Gravelly",
	"Rasalgethi":    "Informative",
	"Laomedeia":     "Upbeat",
	"Achernar":      "Soft",
	"Alnilam":       "Firm",
	"Schedar":       "Even",
	"Gacrux":        "Mature",
	"Pulcherrima":   "Forward",
	"Achird":        "Friendly",
	"Zubenelgenubi": "Casual",
	"Vindemiatrix":  "Gentle",
	"Sadachbia":     "Lively",
	"Sadaltager":    "Knowledgeable",
	"Sulafat":       "Warm",
}

// ValidVoice reports whether name is in the supported voice set.
func ValidVoice(name string) bool {
	_, ok := Voices[name]
	return ok
}

// VoiceNames returns the supported voice names in sorted order.
func VoiceNames() []string {
	names := make([]string, 0, len(Voices))
	for name := range Voices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
