package generation

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractLetterJSON pulls the first JSON object out of a raw model response
// and parses it into LetterContent. Models frequently wrap their JSON in
// prose or markdown fences, so the object is located by brace matching
// rather than parsing the response as a whole. Both subject and body must be
// present and non-empty.
func ExtractLetterJSON(raw string) (*LetterContent, error) {
	obj, ok := firstJSONObject(raw)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object in response", ErrParsing)
	}

	var content LetterContent
	if err := json.Unmarshal([]byte(obj), &content); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsing, err)
	}

	if strings.TrimSpace(content.Subject) == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrParsing)
	}

	if strings.TrimSpace(content.Body) == "" {
		return nil, fmt.Errorf("%w: missing body", ErrParsing)
	}

	return &content, nil
}

// firstJSONObject returns the first balanced {...} substring of s. Braces
// inside JSON string literals do not count toward the balance.
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}
