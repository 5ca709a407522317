package domain

import "strings"

// Language identifies the target language of a generated letter.
type Language string

// Supported languages
const (
	LanguageEnglish Language = "en"
	LanguageTamil   Language = "ta"
)

// Name returns the human-readable language name used in prompts.
func (l Language) Name() string {
	if l == LanguageTamil {
		return "Tamil"
	}
	return "English"
}

// ObjectionTone selects the register of the generated letter.
type ObjectionTone string

// Available tones, matching the labels shown to users.
const (
	ToneFirm     ObjectionTone = "Firm & Formal"
	TonePolite   ObjectionTone = "Polite & Concerned"
	TonePolicy   ObjectionTone = "Policy-Focused"
	ToneCommuter ObjectionTone = "Daily Commuter Perspective"
)

// GenerationMode determines whether the letter is drafted from selected
// concerns or optimized from the user's own text.
type GenerationMode string

// Possible generation modes
const (
	ModeAuto   GenerationMode = "auto"
	ModeManual GenerationMode = "manual"
)

// Provider identifies which path produced a letter.
type Provider string

// Letter provenance values
const (
	ProviderGemini     Provider = "gemini"
	ProviderOpenRouter Provider = "openrouter"
	ProviderFallback   Provider = "fallback"
)

// ObjectionRequest is the structured input a user submits to draft a formal
// objection letter against Rule 288-A.
type ObjectionRequest struct {
	Name       string         `json:"name"`
	Location   string         `json:"location"`
	Tone       ObjectionTone  `json:"tone"`
	Concerns   []string       `json:"concerns"`
	Language   Language       `json:"language"`
	Mode       GenerationMode `json:"mode"`
	CustomText string         `json:"custom_text,omitempty"`
}

// Validate checks the request invariants. In auto mode at least one concern
// must be selected; in manual mode the custom text must be non-empty after
// trimming. Validation happens before any network call is made.
func (r *ObjectionRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}

	if strings.TrimSpace(r.Location) == "" {
		return ErrEmptyLocation
	}

	if !isValidTone(r.Tone) {
		return ErrInvalidTone
	}

	if r.Language != LanguageEnglish && r.Language != LanguageTamil {
		return ErrInvalidLanguage
	}

	switch r.Mode {
	case ModeAuto:
		if len(r.Concerns) == 0 {
			return ErrNoConcerns
		}
	case ModeManual:
		if strings.TrimSpace(r.CustomText) == "" {
			return ErrEmptyCustomText
		}
	default:
		return ErrInvalidMode
	}

	return nil
}

func isValidTone(t ObjectionTone) bool {
	switch t {
	case ToneFirm, TonePolite, TonePolicy, ToneCommuter:
		return true
	}
	return false
}

// GeneratedLetter is the final letter returned to the caller. It is produced
// by exactly one of LLM generation or template fallback, created fresh per
// request and never persisted.
type GeneratedLetter struct {
	Subject     string   `json:"subject"`
	Body        string   `json:"body"`
	IsOptimized bool     `json:"is_optimized"`
	Provider    Provider `json:"provider"`
}
