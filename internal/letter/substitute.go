package letter

import (
	"fmt"
	"regexp"
)

// Models sometimes return the literal placeholder tokens from their
// instructions instead of the caller's details. Matching is case-insensitive.
var (
	namePlaceholder     = regexp.MustCompile(`(?i)\[your name\]`)
	locationPlaceholder = regexp.MustCompile(`(?i)\[your location\]`)
)

// ReplacePlaceholders substitutes literal [Your Name] and [Your Location]
// tokens in body with the given values. Applying it to an already substituted
// body is a no-op.
func ReplacePlaceholders(body, name, location string) string {
	body = namePlaceholder.ReplaceAllLiteralString(body, name)
	return locationPlaceholder.ReplaceAllLiteralString(body, location)
}

// ManualBody wraps the user's own objection text in a fixed salutation and
// signature block. Used by the fallback path in manual mode, where the user's
// raw text is preserved verbatim.
func ManualBody(customText, name, location string) string {
	return fmt.Sprintf("Dear Sir/Madam,\n\n%s\n\nSincerely,\n%s\n%s", customText, name, location)
}
