package models

import (
	"strings"
	"unicode"
)

// PlaceholderValues are form defaults that carry no information.
var PlaceholderValues = []string{
	"not specified",
	"not provided",
	"n/a",
	"none",
	"unknown",
}

// IsAbsent reports whether a free-text field should be treated as missing.
func IsAbsent(s string) bool {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return true
	}
	for _, p := range PlaceholderValues {
		if v == p {
			return true
		}
	}
	return false
}

// IsAbsentList reports whether a list holds no present element.
func IsAbsentList(items []string) bool {
	return len(PresentItems(items)) == 0
}

// PresentItems returns the list without absent entries.
func PresentItems(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if !IsAbsent(item) {
			out = append(out, strings.TrimSpace(item))
		}
	}
	return out
}

// Normalize lower-cases and trims a value for keyword matching.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ContainsAny reports whether text contains one of the keywords, case-insensitively.
// It returns the first keyword hit.
func ContainsAny(text string, keywords []string) (string, bool) {
	t := Normalize(text)
	if t == "" {
		return "", false
	}
	for _, k := range keywords {
		if strings.Contains(t, k) {
			return k, true
		}
	}
	return "", false
}

// MatchingItems returns the present items that contain any of the keywords.
func MatchingItems(items []string, keywords []string) []string {
	var out []string
	for _, item := range PresentItems(items) {
		if _, ok := ContainsAny(item, keywords); ok {
			out = append(out, item)
		}
	}
	return out
}

// Words splits text into lower-case runs of letters and digits.
func Words(text string) []string {
	return strings.FieldsFunc(Normalize(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// PhraseAt reports whether phrase occurs in words starting at index i.
func PhraseAt(words, phrase []string, i int) bool {
	if len(phrase) == 0 || i < 0 || i+len(phrase) > len(words) {
		return false
	}
	for j, w := range phrase {
		if words[i+j] != w {
			return false
		}
	}
	return true
}

// HasPhrase reports whether phrase occurs in words as a contiguous run.
func HasPhrase(words, phrase []string) bool {
	for i := range words {
		if PhraseAt(words, phrase, i) {
			return true
		}
	}
	return false
}

// ContainsWord is ContainsAny restricted to whole words, so "uk" matches
// "London, UK" but not "Ukraine".
func ContainsWord(text string, keywords []string) (string, bool) {
	words := Words(text)
	for _, k := range keywords {
		if HasPhrase(words, Words(k)) {
			return k, true
		}
	}
	return "", false
}
