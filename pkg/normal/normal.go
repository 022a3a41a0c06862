// Package normal registers the supported Unicode normalization forms and
// builds or loads the reverse-normalization maps the denormalization
// engine consumes. Forward normalization itself is delegated to
// golang.org/x/text.
package normal

import (
	"fmt"
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Form names a registered normalization form.
type Form string

const (
	Casefold Form = "casefold"
	NFC      Form = "nfc"
	NFD      Form = "nfd"
	NFKC     Form = "nfkc"
	NFKD     Form = "nfkd"
)

// normalizeFunc maps a string to its normalized form.
type normalizeFunc func(string) string

type registration struct {
	apply       normalizeFunc
	description string
}

// forms is the registry of normalization forms. Fixed at init; read-only
// afterward.
var forms = map[Form]registration{
	Casefold: {
		apply:       func(s string) string { return cases.Fold().String(s) },
		description: "Remove all case distinctions from the string.",
	},
	NFC: {
		apply:       norm.NFC.String,
		description: "Normalization form canonical composition.",
	},
	NFD: {
		apply:       norm.NFD.String,
		description: "Normalization form canonical decomposition.",
	},
	NFKC: {
		apply:       norm.NFKC.String,
		description: "Normalization form compatibility composition.",
	},
	NFKD: {
		apply:       norm.NFKD.String,
		description: "Normalization form compatibility decomposition.",
	},
}

// Forms returns the names of the registered normalization forms, sorted.
func Forms() []Form {
	names := make([]Form, 0, len(forms))
	for form := range forms {
		names = append(names, form)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Description returns the human-readable description of a form.
func Description(form Form) (string, error) {
	reg, ok := forms[form]
	if !ok {
		return "", fmt.Errorf("unknown normalization form: %s", form)
	}
	return reg.description, nil
}

// Normalize applies a registered normalization form to base.
func Normalize(form Form, base string) (string, error) {
	reg, ok := forms[form]
	if !ok {
		return "", fmt.Errorf("unknown normalization form: %s", form)
	}
	return reg.apply(base), nil
}
