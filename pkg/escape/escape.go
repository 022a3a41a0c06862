// Package escape registers named escape schemes and applies them to
// strings character by character.
package escape

import (
	"fmt"
	"html"
	"net/url"
	"sort"
	"strings"
)

// escapeFunc escapes a single character. The full escaped string is the
// concatenation of each character's escape.
type escapeFunc func(r rune) string

type registration struct {
	apply       escapeFunc
	description string
}

// schemes is the registry of escape schemes. Fixed at init; read-only
// afterward.
var schemes = map[string]registration{
	"url": {
		apply:       escapeURL,
		description: "Percent encoding for URLs, every character escaped.",
	},
	"html": {
		apply:       escapeHTML,
		description: "HTML entities, named where one exists.",
	},
	"cu": {
		apply:       escapeCodePoint,
		description: "Unicode code point notation, U+XXXX.",
	},
	"co": {
		apply:       escapeCodeOnly,
		description: "Bare hexadecimal code points.",
	},
	"json": {
		apply:       escapeJSON,
		description: "JSON string escapes, UTF-16 code units.",
	},
}

// Schemes returns the registered scheme names, sorted.
func Schemes() []string {
	names := make([]string, 0, len(schemes))
	for name := range schemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Description returns the human-readable description of a scheme.
func Description(name string) (string, error) {
	reg, ok := schemes[name]
	if !ok {
		return "", fmt.Errorf("unknown escape scheme: %s", name)
	}
	return reg.description, nil
}

// Escape applies a registered scheme to every character of s.
func Escape(name, s string) (string, error) {
	reg, ok := schemes[name]
	if !ok {
		return "", fmt.Errorf("unknown escape scheme: %s", name)
	}
	var b strings.Builder
	for _, r := range s {
		b.WriteString(reg.apply(r))
	}
	return b.String(), nil
}

// escapeURL percent-encodes every UTF-8 byte of the character,
// including unreserved ones.
func escapeURL(r rune) string {
	var b strings.Builder
	for _, octet := range []byte(string(r)) {
		fmt.Fprintf(&b, "%%%02X", octet)
	}
	return b.String()
}

// escapeHTML uses the named entity when the standard table has one and
// a decimal numeric reference otherwise.
func escapeHTML(r rune) string {
	if named := html.EscapeString(string(r)); named != string(r) {
		return named
	}
	return fmt.Sprintf("&#%d;", r)
}

func escapeCodePoint(r rune) string {
	return fmt.Sprintf("U+%04X ", r)
}

func escapeCodeOnly(r rune) string {
	return fmt.Sprintf("%04X ", r)
}

// escapeJSON emits \uXXXX escapes, splitting supplementary characters
// into surrogate pairs.
func escapeJSON(r rune) string {
	if r <= 0xFFFF {
		return fmt.Sprintf("\\u%04x", r)
	}
	r -= 0x10000
	hi := 0xD800 + (r >> 10)
	lo := 0xDC00 + (r & 0x3FF)
	return fmt.Sprintf("\\u%04x\\u%04x", hi, lo)
}

// Unescape reverses URL percent encoding. Only the url scheme is
// reversible; the others discard byte boundaries.
func Unescape(name, s string) (string, error) {
	if name != "url" {
		return "", fmt.Errorf("escape scheme is not reversible: %s", name)
	}
	out, err := url.PathUnescape(s)
	if err != nil {
		return "", fmt.Errorf("unescape as url: %w", err)
	}
	return out, nil
}
