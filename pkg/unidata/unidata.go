// Package unidata resolves per-character Unicode properties from the raw
// Unicode Character Database (UCD). Property data is read lazily from zip
// archives described by an embedded manifest, parsed into one of a small
// set of in-memory shapes, and memoized for the life of the process.
package unidata

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"golang.org/x/text/cases"
)

// MaxCodePoint is the exclusive upper bound of the Unicode code space.
const MaxCodePoint rune = 0x110000

// Kind identifies the storage layout of a property source file and selects
// the loader used to read it.
type Kind string

const (
	// KindUnicodeData is the fixed 15-field layout of UnicodeData.txt.
	KindUnicodeData Kind = "unicode_data"

	// KindPropList is a file of boolean properties, one membership record
	// per line, holding many properties (PropList.txt, emoji-data.txt).
	KindPropList Kind = "prop_list"

	// KindSimpleList is a bare list of code points for a single boolean
	// property (CompositionExclusions.txt).
	KindSimpleList Kind = "simple_list"

	// KindSingleValue maps each code point to one value, with a declared
	// default for unlisted code points (Jamo.txt, Scripts.txt).
	KindSingleValue Kind = "single_value"

	// KindValueRange is a list of code point ranges with one value per
	// range (Blocks.txt, DerivedAge.txt).
	KindValueRange Kind = "value_range"

	// KindDerivedNormal is the sectioned layout of
	// DerivedNormalizationProps.txt, mixing single-value and membership
	// sub-tables.
	KindDerivedNormal Kind = "derived_normal"
)

// Reserved manifest keys for the alias source files. They carry an empty
// kind because they are loaded through dedicated accessors, never through
// the kind dispatch.
const (
	keyPropertyAliases = "propertyaliases"
	keyValueAliases    = "propertyvaluealiases"
)

// PathInfo describes how to locate and load one property source file.
type PathInfo struct {
	// Archive is the zip file holding the source, relative to the data
	// directory.
	Archive string `json:"archive"`

	// Path is the member path inside the archive.
	Path string `json:"path"`

	// Kind selects the loader for the file.
	Kind Kind `json:"kind"`

	// Delim is the field delimiter, ";" or "\t".
	Delim string `json:"delim"`
}

// ValueRange is one interval of a gap-free range list. Stop is exclusive.
type ValueRange struct {
	Start rune
	Stop  rune
	Value string
}

func (vr ValueRange) String() string {
	return fmt.Sprintf("ValueRange(0x%04x, 0x%04x, %q)", vr.Start, vr.Stop, vr.Value)
}

// UCDRecord is one row of UnicodeData.txt, keyed by code point. Field
// values are kept as the raw strings from the file.
type UCDRecord struct {
	Code             rune
	Name             string // na
	Category         string // gc
	CombiningClass   string // ccc
	BidiClass        string // bc
	Decomposition    string // dt
	Decimal          string
	Digit            string
	Numeric          string // nv
	BidiMirrored     string // bidi_m
	Unicode1Name     string // na1
	ISOComment       string // isc
	UppercaseMapping string // suc
	LowercaseMapping string // slc
	TitlecaseMapping string // stc
}

// PropertyAlias is one record from PropertyAliases.txt.
type PropertyAlias struct {
	Alias string
	Name  string
	Other []string
}

// ValueAlias is one record from PropertyValueAliases.txt.
type ValueAlias struct {
	Property string
	Alias    string
	Name     string
	Other    []string
}

// defaultMap is a code point to value map with a fallback for unlisted
// code points.
type defaultMap struct {
	values  map[rune]string
	missing string
}

func newDefaultMap(missing string) *defaultMap {
	return &defaultMap{values: make(map[rune]string), missing: missing}
}

func (m *defaultMap) get(r rune) string {
	if v, ok := m.values[r]; ok {
		return v
	}
	return m.missing
}

//go:embed data/sources.json
var rawManifest []byte

// Manifest maps property short names to their source descriptors.
type Manifest map[string]PathInfo

// DefaultManifest decodes the manifest embedded in the package. The result
// is a fresh copy each call; callers may mutate it freely.
func DefaultManifest() (Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(rawManifest, &m); err != nil {
		return nil, fmt.Errorf("failed to decode embedded manifest: %w", err)
	}
	return m, nil
}

// fold case-folds a string for case-insensitive alias and key lookups.
func fold(s string) string {
	return cases.Fold().String(s)
}
