package sanitizer

import (
	"strings"
	"unicode"
)

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// SanitizeName collapses whitespace in a customer name; case is preserved
// because names appear verbatim in confirmation emails.
func SanitizeName(name string) string {
	return TrimAndNormalize(name)
}

// SanitizeNotes collapses whitespace in free-form booking notes.
func SanitizeNotes(notes string) string {
	return TrimAndNormalize(notes)
}

// SanitizeEmail lowercases and trims an email address for use as a
// storage key.
func SanitizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SanitizeServiceTag normalizes an extra-service tag to a lowercase
// underscore-joined token (e.g. "Cafe Manha " -> "cafe_manha").
func SanitizeServiceTag(tag string) string {
	p := Pipeline{
		TrimAndNormalize,
		strings.ToLower,
		func(s string) string { return strings.ReplaceAll(s, " ", "_") },
	}
	return p.Apply(tag)
}

// SanitizeServiceTags applies SanitizeServiceTag to each element, dropping
// empties and duplicates while keeping order.
func SanitizeServiceTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		cleaned := SanitizeServiceTag(tag)
		if cleaned == "" {
			continue
		}
		if _, dup := seen[cleaned]; dup {
			continue
		}
		seen[cleaned] = struct{}{}
		out = append(out, cleaned)
	}
	return out
}
