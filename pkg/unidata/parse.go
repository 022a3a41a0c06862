package unidata

import (
	"strconv"
	"strings"
)

// missingPrefix marks a default-value declaration in a UCD file.
const missingPrefix = "# @missing: "

// missingValue extracts the declared default ("missing") value from a set
// of raw lines. The declaration is itself a delimited record whose last
// field is the default; when several declarations are present the first
// wins, and when none is present the default is the empty string.
func missingValue(lines []string) string {
	for _, line := range lines {
		if !strings.HasPrefix(line, missingPrefix) {
			continue
		}
		fields := splitFields(line[len(missingPrefix):], ";")
		if len(fields) < 2 {
			continue
		}
		return fields[len(fields)-1]
	}
	return ""
}

// stripComment removes a trailing #-comment from a line. Returns the empty
// string for comment-only and blank lines.
func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimRight(line, " \t")
}

// splitFields splits one data line on the delimiter, trimming whitespace
// from each field.
func splitFields(line, delim string) []string {
	parts := strings.Split(line, delim)
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}

// parseCodePoint parses a hex code point field.
func parseCodePoint(field string) (rune, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(field), 16, 32)
	if err != nil || rune(n) >= MaxCodePoint {
		return 0, false
	}
	return rune(n), true
}

// parseRange parses a "start..stop" field into an inclusive code point
// range. A bare code point parses as a one-element range.
func parseRange(field string) (start, stop rune, ok bool) {
	first, rest, found := strings.Cut(field, "..")
	start, ok = parseCodePoint(first)
	if !ok {
		return 0, 0, false
	}
	stop = start
	if found {
		stop, ok = parseCodePoint(rest)
		if !ok || stop < start {
			return 0, 0, false
		}
	}
	return start, stop, true
}

// forEachRecord streams the data records of a file to fn, one code point
// at a time. Comment and blank lines are skipped, fields are split on
// delim, and a "start..stop" first field is expanded into one call per
// code point in the inclusive range without materializing the expansion.
// The line number passed to fn is 1-based. fn returning an error stops the
// scan.
func forEachRecord(lines []string, delim string, fn func(lineNo int, code rune, fields []string) error) error {
	for i, raw := range lines {
		line := stripComment(raw)
		if line == "" {
			continue
		}
		fields := splitFields(line, delim)
		start, stop, ok := parseRange(fields[0])
		if !ok {
			return &ParseError{Line: i + 1, Msg: "bad code point field " + strconv.Quote(fields[0])}
		}
		for code := start; code <= stop; code++ {
			if err := fn(i+1, code, fields); err != nil {
				return err
			}
		}
	}
	return nil
}

// forEachRawRecord streams records without code point parsing or range
// expansion. Used for files whose first field is not a code point
// (PropertyAliases.txt) or whose ranges must stay intact (range lists,
// UnicodeData First/Last rows).
func forEachRawRecord(lines []string, delim string, fn func(lineNo int, fields []string) error) error {
	for i, raw := range lines {
		line := stripComment(raw)
		if line == "" {
			continue
		}
		if err := fn(i+1, splitFields(line, delim)); err != nil {
			return err
		}
	}
	return nil
}
