package naming

import (
	"strings"
	"unicode"
)

// Words splits s into words at separators (space, underscore, hyphen,
// dot, slash) and at case changes. An uppercase run followed by a
// lowercase letter ends one letter early, so "APIClient" is
// ["API", "Client"].
func Words(s string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case unicode.IsSpace(r) || r == '_' || r == '-' || r == '.' || r == '/':
			flush()
			continue
		case unicode.IsUpper(r) && len(cur) > 0:
			prev := cur[len(cur)-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if !unicode.IsUpper(prev) || nextLower {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

// ToKebabCase converts a string to kebab-case.
// Example: "showPetById" -> "show-pet-by-id"
func ToKebabCase(s string) string {
	return join(s, "-")
}

func join(s, sep string) string {
	words := Words(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, sep)
}
