// Package charinfo is the query facade for a single Unicode code point.
// It dispatches arbitrary property queries through the property cache and
// formats code points for display.
package charinfo

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pji/charex/pkg/unidata"
)

// Character wraps one code point together with the property cache that
// answers queries about it.
type Character struct {
	r  rune
	db *unidata.Cache
}

// New creates a facade for one code point.
func New(db *unidata.Cache, r rune) Character {
	return Character{r: r, db: db}
}

// Parse interprets a user-supplied character reference: a single
// literal character, "U+XXXX", "0xXXXX", or bare hex digits.
func Parse(db *unidata.Cache, s string) (Character, error) {
	if r, size := utf8.DecodeRuneInString(s); size == len(s) && r != utf8.RuneError {
		return New(db, r), nil
	}
	hex := s
	switch {
	case strings.HasPrefix(s, "U+"), strings.HasPrefix(s, "u+"):
		hex = s[2:]
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		hex = s[2:]
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || rune(n) >= unidata.MaxCodePoint {
		return Character{}, fmt.Errorf("not a character or code point: %q", s)
	}
	return New(db, rune(n)), nil
}

// Rune returns the wrapped code point.
func (c Character) Rune() rune {
	return c.r
}

// String returns the character itself.
func (c Character) String() string {
	return string(c.r)
}

// CodePoint formats the code point as "U+XXXX", zero padded to at least
// four digits.
func (c Character) CodePoint() string {
	return fmt.Sprintf("U+%04X", c.r)
}

// Value returns a property value for the character, normalized to its
// canonical short alias.
func (c Character) Value(prop string) (string, error) {
	return c.db.Value(c.r, prop)
}

// LongValue returns a property value in its long form, as stored in the
// source data.
func (c Character) LongValue(prop string) (string, error) {
	return c.db.LongValue(c.r, prop)
}

// Values returns a multi-value property as its ordered sub-values.
func (c Character) Values(prop string) ([]string, error) {
	return c.db.Values(c.r, prop)
}

// Name returns the character's name, falling back to the Unicode 1 name
// for code points whose name field is a "<...>" label (controls,
// surrogates, private use).
func (c Character) Name() (string, error) {
	rec, err := c.db.Record(c.r)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(rec.Name, "<") && rec.Unicode1Name != "" {
		return rec.Unicode1Name, nil
	}
	return rec.Name, nil
}

// Record returns the full UnicodeData record for the character.
func (c Character) Record() (unidata.UCDRecord, error) {
	return c.db.Record(c.r)
}

// Summary returns the one-line display form used by listings: the
// character (or its escaped form for controls), its code point, and its
// name.
func (c Character) Summary() string {
	display := string(c.r)
	if c.r < 0x20 || (c.r >= 0x7F && c.r < 0xA0) {
		display = fmt.Sprintf("%q", c.r)
	}
	name, err := c.Name()
	if err != nil {
		name = "<undefined>"
	}
	return fmt.Sprintf("%s %s %s", c.CodePoint(), display, name)
}

// Details resolves the listed properties for the character, preserving
// order. Unknown properties resolve to their error message so one bad
// name does not hide the rest of the report.
func (c Character) Details(props []string) []Detail {
	details := make([]Detail, 0, len(props))
	for _, prop := range props {
		value, err := c.Value(prop)
		if err != nil {
			value = fmt.Sprintf("(%v)", err)
		}
		details = append(details, Detail{
			Property: prop,
			Long:     c.db.AliasProperty(prop),
			Value:    value,
		})
	}
	return details
}

// Detail is one resolved property for display.
type Detail struct {
	Property string
	Long     string
	Value    string
}
