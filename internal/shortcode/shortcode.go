// Package shortcode generates human-shareable trip identifiers like
// "paris-a3x7k2": a slug of the destination plus a random 6-character suffix.
// Uniqueness is best-effort; callers detecting a collision simply call New
// again.
package shortcode

import (
	"crypto/rand"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	suffixLen   = 6
	suffixChars = "abcdefghijklmnopqrstuvwxyz0123456789"
	maxSlugLen  = 20
)

// New builds a short code from the destination name.
func New(destination string) string {
	s := Slug(destination)
	if s == "" {
		s = "trip"
	}
	return s + "-" + randomSuffix()
}

// Slug lowercases the destination, strips diacritics (so "Đà Nẵng" becomes
// "da-nang"), replaces whitespace with hyphens, and drops everything else.
func Slug(destination string) string {
	decomposed := norm.NFD.String(strings.ToLower(destination))
	var b strings.Builder
	for _, r := range decomposed {
		switch {
		case unicode.Is(unicode.Mn, r):
			// combining mark left over from decomposition
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == 'đ':
			b.WriteByte('d')
		case unicode.IsSpace(r), r == '-':
			b.WriteByte('-')
		}
	}
	s := b.String()
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLen {
		s = strings.Trim(s[:maxSlugLen], "-")
	}
	return s
}

func randomSuffix() string {
	buf := make([]byte, suffixLen)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the platform is broken; fall back to
		// a fixed suffix rather than crash trip creation.
		return "000000"
	}
	for i, b := range buf {
		buf[i] = suffixChars[int(b)%len(suffixChars)]
	}
	return string(buf)
}
