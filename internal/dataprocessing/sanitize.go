package dataprocessing

import (
	"strings"
	"unicode"
)

// missingMarkers are the cell spellings read as "no value"
var missingMarkers = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// IsMissing reports whether a raw cell denotes a missing value
func IsMissing(cell string) bool {
	_, ok := missingMarkers[cell]
	return ok
}

// SanitizeIdentity cleans a channel name or title: markup spans such as
// "<script>" are removed, characters outside the identity alphabet are
// dropped and surrounding whitespace is trimmed.
//
//	"Mr. X!! <script>" -> "Mr. X!!"
func SanitizeIdentity(s string) string {
	s = stripMarkup(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if allowedIdentityRune(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// allowedIdentityRune is the identity alphabet: ASCII letters and digits,
// whitespace and . , ! ? & ' -
func allowedIdentityRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case unicode.IsSpace(r):
		return true
	}
	return strings.ContainsRune(".,!?&'-", r)
}

// stripMarkup removes every "<...>" span. An unterminated '<' is left for
// the alphabet filter to drop.
func stripMarkup(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for {
		open := strings.IndexByte(s, '<')
		if open < 0 {
			break
		}
		end := strings.IndexByte(s[open:], '>')
		if end < 0 {
			break
		}
		b.WriteString(s[:open])
		s = s[open+end+1:]
	}
	b.WriteString(s)
	return b.String()
}

// IsSanitizedIdentity reports whether s is already in sanitized form
func IsSanitizedIdentity(s string) bool {
	if s != strings.TrimSpace(s) {
		return false
	}
	for _, r := range s {
		if !allowedIdentityRune(r) {
			return false
		}
	}
	return true
}
