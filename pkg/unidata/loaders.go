package unidata

import (
	"fmt"
	"strings"
)

// rangePrefixes names the algorithmic First/Last ranges of UnicodeData.txt
// by their starting code point. Ranges not listed here keep their raw
// "<..., First>" label (surrogates, private use).
var rangePrefixes = map[rune]string{
	0x3400:  "CJK UNIFIED IDEOGRAPH-",
	0x4E00:  "CJK UNIFIED IDEOGRAPH-",
	0xAC00:  "HANGUL SYLLABLE ",
	0xF900:  "CJK UNIFIED IDEOGRAPH-",
	0xFA70:  "CJK UNIFIED IDEOGRAPH-",
	0x17000: "TANGUT IDEOGRAPH-",
	0x18B00: "KHITAN SMALL SCRIPT CHARACTER-",
	0x18D00: "TANGUT IDEOGRAPH-",
	0x1B170: "NUSHU CHARACTER-",
	0x20000: "CJK UNIFIED IDEOGRAPH-",
	0x2A700: "CJK UNIFIED IDEOGRAPH-",
	0x2B740: "CJK UNIFIED IDEOGRAPH-",
	0x2B820: "CJK UNIFIED IDEOGRAPH-",
	0x2CEB0: "CJK UNIFIED IDEOGRAPH-",
	0x2F800: "CJK UNIFIED IDEOGRAPH-",
	0x30000: "CJK UNIFIED IDEOGRAPH-",
}

// loadSimpleList reads a bare list of code points into a membership set.
func loadSimpleList(lines []string, delim, path string) (map[rune]bool, error) {
	set := make(map[rune]bool)
	err := forEachRecord(lines, delim, func(_ int, code rune, _ []string) error {
		set[code] = true
		return nil
	})
	if err != nil {
		return nil, annotate(err, path)
	}
	return set, nil
}

// loadPropList reads a file of boolean properties into per-property
// membership sets. Property names are passed through aliasProp and
// case-folded, so lookups by short alias find them.
func loadPropList(lines []string, delim, path string, aliasProp func(string) string) (map[string]map[rune]bool, error) {
	sets := make(map[string]map[rune]bool)
	err := forEachRecord(lines, delim, func(lineNo int, code rune, fields []string) error {
		if len(fields) < 2 {
			return &ParseError{Path: path, Line: lineNo, Msg: "property list record needs 2 fields"}
		}
		prop := fold(aliasProp(fields[1]))
		if sets[prop] == nil {
			sets[prop] = make(map[rune]bool)
		}
		sets[prop][code] = true
		return nil
	})
	if err != nil {
		return nil, annotate(err, path)
	}
	return sets, nil
}

// loadSingleValue reads a code point to value map. Unlisted code points
// fall back to the file's declared @missing default.
func loadSingleValue(lines []string, delim, path string) (*defaultMap, error) {
	values := newDefaultMap(missingValue(lines))
	err := forEachRecord(lines, delim, func(lineNo int, code rune, fields []string) error {
		if len(fields) < 2 {
			return &ParseError{Path: path, Line: lineNo, Msg: "single value record needs 2 fields"}
		}
		values.values[code] = fields[1]
		return nil
	})
	if err != nil {
		return nil, annotate(err, path)
	}
	return values, nil
}

// loadValueRange reads a range-per-record file into a sorted, gap-free
// list of value ranges covering the full code space. Gaps between listed
// ranges, before the first, and after the last are filled with the file's
// @missing default.
func loadValueRange(lines []string, delim, path string) ([]ValueRange, error) {
	missing := missingValue(lines)
	var ranges []ValueRange
	last := rune(0)
	err := forEachRawRecord(lines, delim, func(lineNo int, fields []string) error {
		if len(fields) < 2 {
			return &ParseError{Path: path, Line: lineNo, Msg: "range record needs 2 fields"}
		}
		start, stop, ok := parseRange(fields[0])
		if !ok {
			return &ParseError{Path: path, Line: lineNo, Msg: fmt.Sprintf("bad range %q", fields[0])}
		}
		if start < last {
			return &ParseError{Path: path, Line: lineNo, Msg: fmt.Sprintf("range %q out of order", fields[0])}
		}
		if start > last {
			ranges = append(ranges, ValueRange{Start: last, Stop: start, Value: missing})
		}
		ranges = append(ranges, ValueRange{Start: start, Stop: stop + 1, Value: fields[1]})
		last = stop + 1
		return nil
	})
	if err != nil {
		return nil, annotate(err, path)
	}
	if last < MaxCodePoint {
		ranges = append(ranges, ValueRange{Start: last, Stop: MaxCodePoint, Value: missing})
	}
	return ranges, nil
}

// loadUnicodeData reads UnicodeData.txt into a record map. Paired
// <..., First>/<..., Last> rows are expanded into one synthesized record
// per code point, with names derived from the range prefix table and, for
// Hangul syllables, from hangulName.
func loadUnicodeData(lines []string, delim, path string, hangulName func(rune) string) (map[rune]UCDRecord, error) {
	records := make(map[rune]UCDRecord, 0x24000)
	var firstFields []string
	var firstCode rune
	err := forEachRawRecord(lines, delim, func(lineNo int, fields []string) error {
		if len(fields) != 15 {
			return &ParseError{Path: path, Line: lineNo, Msg: fmt.Sprintf("expected 15 fields, got %d", len(fields))}
		}
		code, ok := parseCodePoint(fields[0])
		if !ok {
			return &ParseError{Path: path, Line: lineNo, Msg: fmt.Sprintf("bad code point %q", fields[0])}
		}
		name := fields[1]
		switch {
		case strings.HasSuffix(name, "First>"):
			firstFields = fields
			firstCode = code
		case strings.HasSuffix(name, "Last>"):
			if firstFields == nil {
				return &ParseError{Path: path, Line: lineNo, Msg: "Last row without matching First"}
			}
			prefix := rangePrefixes[firstCode]
			for n := firstCode; n <= code; n++ {
				synthesized := firstFields[1]
				switch {
				case prefix == "":
				case strings.HasPrefix(prefix, "HANGUL"):
					synthesized = prefix + hangulName(n)
				default:
					synthesized = fmt.Sprintf("%s%04X", prefix, n)
				}
				records[n] = recordFromFields(n, synthesized, firstFields)
			}
			firstFields = nil
		default:
			records[code] = recordFromFields(code, name, fields)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// loadDerivedNormal reads the sectioned DerivedNormalizationProps.txt
// layout. Each section describes one property; two-field records build a
// membership sub-table, three-field records a single-value sub-table with
// the section's own @missing default.
func loadDerivedNormal(lines []string, delim, path string, aliasProp func(string) string) (map[string]*defaultMap, map[string]map[rune]bool, error) {
	singles := make(map[string]*defaultMap)
	simples := make(map[string]map[rune]bool)
	for _, section := range splitSections(lines) {
		missing := missingValue(section)
		err := forEachRecord(section, delim, func(lineNo int, code rune, fields []string) error {
			if len(fields) < 2 {
				return &ParseError{Path: path, Line: lineNo, Msg: "derived record needs 2 fields"}
			}
			prop := fold(aliasProp(fields[1]))
			if len(fields) == 2 {
				if simples[prop] == nil {
					simples[prop] = make(map[rune]bool)
				}
				simples[prop][code] = true
				return nil
			}
			if singles[prop] == nil {
				singles[prop] = newDefaultMap(missing)
			}
			singles[prop].values[code] = fields[2]
			return nil
		})
		if err != nil {
			return nil, nil, annotate(err, path)
		}
	}
	return singles, simples, nil
}

// splitSections splits a derived-normal file into per-property sections on
// the "Property:" header comments.
func splitSections(lines []string) [][]string {
	var sections [][]string
	var current []string
	for _, line := range lines {
		if strings.Contains(line, "Property:") {
			sections = append(sections, current)
			current = nil
		}
		current = append(current, line)
	}
	return append(sections, current)
}

// loadPropertyAliases reads PropertyAliases.txt keyed by the case-folded
// long name.
func loadPropertyAliases(lines []string, delim, path string) (map[string]PropertyAlias, error) {
	aliases := make(map[string]PropertyAlias)
	err := forEachRawRecord(lines, delim, func(lineNo int, fields []string) error {
		if len(fields) < 2 {
			return &ParseError{Path: path, Line: lineNo, Msg: "property alias record needs 2 fields"}
		}
		aliases[fold(fields[1])] = PropertyAlias{
			Alias: fields[0],
			Name:  fields[1],
			Other: fields[2:],
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return aliases, nil
}

// loadValueAliases reads PropertyValueAliases.txt keyed by case-folded
// property, then case-folded long value name.
func loadValueAliases(lines []string, delim, path string) (map[string]map[string]ValueAlias, error) {
	aliases := make(map[string]map[string]ValueAlias)
	err := forEachRawRecord(lines, delim, func(lineNo int, fields []string) error {
		if len(fields) < 3 {
			return &ParseError{Path: path, Line: lineNo, Msg: "value alias record needs 3 fields"}
		}
		prop := fold(fields[0])
		if aliases[prop] == nil {
			aliases[prop] = make(map[string]ValueAlias)
		}
		aliases[prop][fold(fields[2])] = ValueAlias{
			Property: fields[0],
			Alias:    fields[1],
			Name:     fields[2],
			Other:    fields[3:],
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return aliases, nil
}

// recordFromFields builds a UCDRecord from a 15-field UnicodeData row,
// substituting the given name.
func recordFromFields(code rune, name string, fields []string) UCDRecord {
	return UCDRecord{
		Code:             code,
		Name:             name,
		Category:         fields[2],
		CombiningClass:   fields[3],
		BidiClass:        fields[4],
		Decomposition:    fields[5],
		Decimal:          fields[6],
		Digit:            fields[7],
		Numeric:          fields[8],
		BidiMirrored:     fields[9],
		Unicode1Name:     fields[10],
		ISOComment:       fields[11],
		UppercaseMapping: fields[12],
		LowercaseMapping: fields[13],
		TitlecaseMapping: fields[14],
	}
}

// annotate fills in the file path on parse errors bubbled up from the
// record callbacks.
func annotate(err error, path string) error {
	if pe, ok := err.(*ParseError); ok && pe.Path == "" {
		pe.Path = path
	}
	return err
}
