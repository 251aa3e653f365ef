// Package slug builds the URL-safe figure IDs used as document keys.
package slug

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Make converts a figure name to a slug.
// Examples: "Yuna Seo" → "yuna-seo", "Chloé Park" → "chloe-park".
func Make(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("name cannot be empty")
	}

	// Normalize unicode (e.g., accented characters)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	normalized, _, err := transform.String(t, name)
	if err != nil {
		return "", fmt.Errorf("normalizing name %q: %w", name, err)
	}

	s := strings.ToLower(normalized)
	s = nonAlnum.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if s == "" {
		return "", fmt.Errorf("name %q contains no alphanumeric characters", name)
	}

	return s, nil
}
