package unidata

import "fmt"

// ParseError reports a malformed record in a property source file. It is
// fatal for the property being loaded but must not corrupt other cached
// properties.
type ParseError struct {
	Path string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
}

// UnknownPropertyError reports a property name absent from the source
// registry.
type UnknownPropertyError struct {
	Name string
}

func (e *UnknownPropertyError) Error() string {
	return fmt.Sprintf("unknown property: %s", e.Name)
}

// UndefinedCharacterError reports a code point with no record in the UCD
// record map for this Unicode version. Absence is meaningful and is never
// silently defaulted.
type UndefinedCharacterError struct {
	Code rune
}

func (e *UndefinedCharacterError) Error() string {
	return fmt.Sprintf("undefined character: U+%04X", e.Code)
}

// PropertyCycleError reports derived property values that reference each
// other without terminating.
type PropertyCycleError struct {
	Property string
	Chain    []string
}

func (e *PropertyCycleError) Error() string {
	return fmt.Sprintf("derived value cycle resolving property %s (chain %v)", e.Property, e.Chain)
}
