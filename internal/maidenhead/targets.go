package maidenhead

import (
	"strings"
	"unicode"
)

// Targets is a deduplicated target list split by the six-character policy.
type Targets struct {
	Valid   []string `json:"valid"`
	Invalid []string `json:"invalid"`
}

// ParseTargets reads one locator per line. Whitespace inside a line is
// removed, tokens are uppercased and only the first occurrence is kept.
func ParseTargets(text string) Targets {
	var out Targets
	seen := make(map[string]struct{})

	for _, line := range strings.Split(text, "\n") {
		token := strings.ToUpper(strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, line))
		if token == "" {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}

		if ValidTargetLocator6(token) {
			out.Valid = append(out.Valid, token)
		} else {
			out.Invalid = append(out.Invalid, token)
		}
	}
	return out
}
