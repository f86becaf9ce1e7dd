package textnorm

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// urlRe matches bare http(s) URL literals that leak out of markup.
	urlRe = regexp.MustCompile(`https?://[A-Za-z0-9._~:/?#\[\]@!$&'()*+,;=%-]+`)

	// boilerplateRe matches markup prolog fragments that survive text
	// extraction: doctype declarations, XML prologs, encoding declarations
	// and namespace tokens.
	boilerplateRe = regexp.MustCompile(`(?i)<!doctype[^>]*>?|<\?xml[^?>]*(\?>)?|encoding=["'][^"']*["']?|xmlns(:[a-zA-Z0-9]+)?=["'][^"']*["']?`)
)

// noiseTokens are normalized results that carry no content.
var noiseTokens = map[string]struct{}{
	"":             {},
	"html":         {},
	"xml":          {},
	"content-type": {},
}

// Normalize strips URL literals and markup boilerplate from extracted text,
// collapses whitespace runs to single spaces and trims the ends. Known noise
// tokens reduce to the empty string. Always returns a string, possibly empty.
func Normalize(raw string) string {
	s := urlRe.ReplaceAllString(raw, "")
	s = boilerplateRe.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")
	if _, ok := noiseTokens[strings.ToLower(s)]; ok {
		return ""
	}
	return s
}

// codePrefixes mark fragments of scripting or styling that slipped through
// markup extraction.
var codePrefixes = []string{"{", "var ", "/*", "function("}

// IsProse reports whether normalized text looks like narrative content.
// Stray numerals (page numbers, footnote markers) and code-like fragments
// are rejected.
func IsProse(text string) bool {
	if utf8.RuneCountInString(text) < 3 {
		return false
	}
	if stripped := strings.ReplaceAll(text, ".", ""); stripped != "" && allDigits(stripped) {
		return false
	}
	for _, p := range codePrefixes {
		if strings.HasPrefix(text, p) {
			return false
		}
	}
	return true
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
