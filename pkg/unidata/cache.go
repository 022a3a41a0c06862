package unidata

import (
	"regexp"
	"sort"
	"strings"
	"sync"
)

// maxDerivedDepth bounds recursion through derived (self-referential)
// property values. The real property graph is shallow and acyclic; the cap
// exists so malformed data fails with PropertyCycleError instead of
// recursing without bound.
const maxDerivedDepth = 8

// derivedValuePattern matches a value that is itself a property reference,
// e.g. the "<script>" fallback used by Script_Extensions.
var derivedValuePattern = regexp.MustCompile(`^<([0-9A-Za-z_]+)>$`)

// Config configures a Cache.
type Config struct {
	// DataDir is the directory holding the source zip archives.
	DataDir string

	// Manifest overrides the embedded property source manifest. Mostly
	// useful in tests; nil means the embedded manifest.
	Manifest Manifest
}

// Cache owns every loaded property table for the life of the process.
// Each property is loaded from its source archive on first access and
// memoized; the tables are never invalidated, since the underlying UCD
// version is fixed per build. Safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	dataDir  string
	manifest Manifest

	propertyAliases map[string]PropertyAlias
	valueAliases    map[string]map[string]ValueAlias

	simpleLists   map[string]map[rune]bool
	propLists     map[string]map[rune]bool
	singleValues  map[string]*defaultMap
	valueRanges   map[string][]ValueRange
	unicodeData   map[rune]UCDRecord
	derivedSingle map[string]*defaultMap
	derivedSimple map[string]map[rune]bool

	loadedPaths map[string]bool
}

// New creates a property cache reading archives from cfg.DataDir. No data
// is read until the first property access.
func New(cfg Config) (*Cache, error) {
	manifest := cfg.Manifest
	if manifest == nil {
		var err error
		manifest, err = DefaultManifest()
		if err != nil {
			return nil, err
		}
	}
	return &Cache{
		dataDir:      cfg.DataDir,
		manifest:     manifest,
		simpleLists:  make(map[string]map[rune]bool),
		propLists:    make(map[string]map[rune]bool),
		singleValues: make(map[string]*defaultMap),
		valueRanges:  make(map[string][]ValueRange),
		loadedPaths:  make(map[string]bool),
	}, nil
}

// Properties returns the sorted property names known to the source
// registry.
func (c *Cache) Properties() []string {
	names := make([]string, 0, len(c.manifest))
	for name := range c.manifest {
		if name == keyPropertyAliases || name == keyValueAliases {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Value returns the value of a property for a code point, normalized to
// the canonical short alias. The property name may be given as a short
// alias or a long name, case-insensitively.
func (c *Cache) Value(code rune, prop string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key, value, err := c.resolve(code, prop)
	if err != nil {
		return "", err
	}
	return c.aliasValue(key, value), nil
}

// LongValue is Value without the final short-alias normalization: it
// returns the long form exactly as stored in the source data.
func (c *Cache) LongValue(code rune, prop string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, value, err := c.resolve(code, prop)
	return value, err
}

// Values returns a multi-value property as its ordered sub-values.
// Sub-values are space-separated in the source data (Script_Extensions);
// single-valued properties come back as a one-element slice.
func (c *Cache) Values(code rune, prop string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key, value, err := c.resolve(code, prop)
	if err != nil {
		return nil, err
	}
	parts := strings.Fields(value)
	if len(parts) == 0 {
		return []string{c.aliasValue(key, value)}, nil
	}
	for i, part := range parts {
		parts[i] = c.aliasValue(key, part)
	}
	return parts, nil
}

// Record returns the full UnicodeData record for a code point.
func (c *Cache) Record(code rune) (UCDRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureUnicodeData(); err != nil {
		return UCDRecord{}, err
	}
	rec, ok := c.unicodeData[code]
	if !ok {
		return UCDRecord{}, &UndefinedCharacterError{Code: code}
	}
	return rec, nil
}

// Ranges returns the gap-free range list for a value-range property.
func (c *Cache) Ranges(prop string) ([]ValueRange, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := fold(c.aliasProperty(prop))
	info, ok := c.manifest[key]
	if !ok || info.Kind != KindValueRange {
		return nil, &UnknownPropertyError{Name: prop}
	}
	return c.ranges(key)
}

// AliasProperty returns the registered short alias for a property name,
// or the name unchanged when no alias is registered. It never fails.
func (c *Cache) AliasProperty(name string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aliasProperty(name)
}

// AliasValue returns the registered short alias for a property value
// given its long name, or the long name unchanged when no alias is
// registered. It never fails.
func (c *Cache) AliasValue(prop, long string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aliasValue(prop, long)
}

// resolve answers a property query: alias resolution, kind dispatch, and
// derived-value recursion. Returns the canonical registry key alongside
// the long-form value. Lock must be held.
func (c *Cache) resolve(code rune, prop string) (key, value string, err error) {
	key = fold(c.aliasProperty(prop))
	info, ok := c.manifest[key]
	if !ok || info.Kind == "" {
		return "", "", &UnknownPropertyError{Name: prop}
	}
	value, err = c.rawValue(code, key, info)
	if err != nil {
		return "", "", err
	}

	// A value of the form "<name>" where name is a registered property
	// denotes derivation from that property for the same code point.
	chain := []string{key}
	for depth := 0; ; depth++ {
		m := derivedValuePattern.FindStringSubmatch(value)
		if m == nil {
			return key, value, nil
		}
		derivedKey := fold(c.aliasProperty(m[1]))
		derivedInfo, ok := c.manifest[derivedKey]
		if !ok || derivedInfo.Kind == "" {
			// Not a property reference; keep the literal placeholder.
			return key, value, nil
		}
		if depth >= maxDerivedDepth {
			return "", "", &PropertyCycleError{Property: prop, Chain: chain}
		}
		chain = append(chain, derivedKey)
		value, err = c.rawValue(code, derivedKey, derivedInfo)
		if err != nil {
			return "", "", err
		}
	}
}

// rawValue dispatches one property lookup by storage kind. Lock must be
// held.
func (c *Cache) rawValue(code rune, key string, info PathInfo) (string, error) {
	switch info.Kind {
	case KindSimpleList:
		set, err := c.simpleList(key, info)
		if err != nil {
			return "", err
		}
		return yesNo(set[code]), nil

	case KindPropList:
		if err := c.loadPropListFile(info); err != nil {
			return "", err
		}
		return yesNo(c.propLists[key][code]), nil

	case KindSingleValue:
		values, err := c.singleValue(key)
		if err != nil {
			return "", err
		}
		return values.get(code), nil

	case KindValueRange:
		ranges, err := c.ranges(key)
		if err != nil {
			return "", err
		}
		return RangeValue(ranges, code), nil

	case KindUnicodeData:
		if err := c.ensureUnicodeData(); err != nil {
			return "", err
		}
		rec, ok := c.unicodeData[code]
		if !ok {
			return "", &UndefinedCharacterError{Code: code}
		}
		return recordField(rec, key)

	case KindDerivedNormal:
		if err := c.loadDerivedFile(info); err != nil {
			return "", err
		}
		if values, ok := c.derivedSingle[key]; ok {
			return values.get(code), nil
		}
		return yesNo(c.derivedSimple[key][code]), nil

	default:
		return "", &UnknownPropertyError{Name: key}
	}
}

// RangeValue finds the value of the range containing code by binary
// search over a sorted, gap-free range list.
func RangeValue(ranges []ValueRange, code rune) string {
	lo, hi := 0, len(ranges)
	for lo < hi {
		mid := (lo + hi) / 2
		if ranges[mid].Stop <= code {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo >= len(ranges) {
		return ""
	}
	return ranges[lo].Value
}

// FindRangeGap returns the index of the first range breaking coverage of
// [0, MaxCodePoint), or -1 when the list is contiguous and complete.
func FindRangeGap(ranges []ValueRange) int {
	last := rune(0)
	for i, vr := range ranges {
		if vr.Start != last {
			return i
		}
		last = vr.Stop
	}
	if last != MaxCodePoint {
		return len(ranges)
	}
	return -1
}

// Loading helpers. All assume the lock is held and memoize their result
// so each source file is read at most once per process.

func (c *Cache) simpleList(key string, info PathInfo) (map[rune]bool, error) {
	if set, ok := c.simpleLists[key]; ok {
		return set, nil
	}
	lines, err := ReadArchiveLines(c.dataDir, info)
	if err != nil {
		return nil, err
	}
	set, err := loadSimpleList(lines, info.Delim, info.Path)
	if err != nil {
		return nil, err
	}
	c.simpleLists[key] = set
	return set, nil
}

func (c *Cache) loadPropListFile(info PathInfo) error {
	if c.loadedPaths[info.Path] {
		return nil
	}
	lines, err := ReadArchiveLines(c.dataDir, info)
	if err != nil {
		return err
	}
	sets, err := loadPropList(lines, info.Delim, info.Path, c.aliasProperty)
	if err != nil {
		return err
	}
	for prop, set := range sets {
		c.propLists[prop] = set
	}
	c.loadedPaths[info.Path] = true
	return nil
}

func (c *Cache) singleValue(key string) (*defaultMap, error) {
	if values, ok := c.singleValues[key]; ok {
		return values, nil
	}
	info, ok := c.manifest[key]
	if !ok {
		return nil, &UnknownPropertyError{Name: key}
	}
	lines, err := ReadArchiveLines(c.dataDir, info)
	if err != nil {
		return nil, err
	}
	values, err := loadSingleValue(lines, info.Delim, info.Path)
	if err != nil {
		return nil, err
	}
	c.singleValues[key] = values
	return values, nil
}

func (c *Cache) ranges(key string) ([]ValueRange, error) {
	if ranges, ok := c.valueRanges[key]; ok {
		return ranges, nil
	}
	info, ok := c.manifest[key]
	if !ok {
		return nil, &UnknownPropertyError{Name: key}
	}
	lines, err := ReadArchiveLines(c.dataDir, info)
	if err != nil {
		return nil, err
	}
	ranges, err := loadValueRange(lines, info.Delim, info.Path)
	if err != nil {
		return nil, err
	}
	c.valueRanges[key] = ranges
	return ranges, nil
}

func (c *Cache) ensureUnicodeData() error {
	if c.unicodeData != nil {
		return nil
	}
	info, ok := c.manifest["na"]
	if !ok || info.Kind != KindUnicodeData {
		return &UnknownPropertyError{Name: "na"}
	}
	lines, err := ReadArchiveLines(c.dataDir, info)
	if err != nil {
		return err
	}
	records, err := loadUnicodeData(lines, info.Delim, info.Path, func(s rune) string {
		name, err := c.hangulName(s)
		if err != nil {
			return ""
		}
		return name
	})
	if err != nil {
		return err
	}
	c.unicodeData = records
	return nil
}

func (c *Cache) loadDerivedFile(info PathInfo) error {
	if c.loadedPaths[info.Path] {
		return nil
	}
	lines, err := ReadArchiveLines(c.dataDir, info)
	if err != nil {
		return err
	}
	singles, simples, err := loadDerivedNormal(lines, info.Delim, info.Path, c.aliasProperty)
	if err != nil {
		return err
	}
	if c.derivedSingle == nil {
		c.derivedSingle = make(map[string]*defaultMap)
		c.derivedSimple = make(map[string]map[rune]bool)
	}
	for prop, values := range singles {
		c.derivedSingle[prop] = values
	}
	for prop, set := range simples {
		c.derivedSimple[prop] = set
	}
	c.loadedPaths[info.Path] = true
	return nil
}

func (c *Cache) ensureAliases() {
	if c.propertyAliases != nil {
		return
	}
	c.propertyAliases = make(map[string]PropertyAlias)
	if info, ok := c.manifest[keyPropertyAliases]; ok {
		if lines, err := ReadArchiveLines(c.dataDir, info); err == nil {
			if aliases, err := loadPropertyAliases(lines, info.Delim, info.Path); err == nil {
				c.propertyAliases = aliases
			}
		}
	}
}

func (c *Cache) ensureValueAliases() {
	if c.valueAliases != nil {
		return
	}
	c.valueAliases = make(map[string]map[string]ValueAlias)
	if info, ok := c.manifest[keyValueAliases]; ok {
		if lines, err := ReadArchiveLines(c.dataDir, info); err == nil {
			if aliases, err := loadValueAliases(lines, info.Delim, info.Path); err == nil {
				c.valueAliases = aliases
			}
		}
	}
}

func (c *Cache) aliasProperty(name string) string {
	c.ensureAliases()
	if pa, ok := c.propertyAliases[fold(name)]; ok {
		return pa.Alias
	}
	return name
}

func (c *Cache) aliasValue(prop, long string) string {
	c.ensureValueAliases()
	if va, ok := c.valueAliases[fold(prop)][fold(long)]; ok {
		return va.Alias
	}
	return long
}

// recordField selects a UnicodeData field by property short alias.
func recordField(rec UCDRecord, key string) (string, error) {
	switch key {
	case "na":
		return rec.Name, nil
	case "gc":
		return rec.Category, nil
	case "ccc":
		return rec.CombiningClass, nil
	case "bc":
		return rec.BidiClass, nil
	case "dt":
		return rec.Decomposition, nil
	case "decimal":
		return rec.Decimal, nil
	case "digit":
		return rec.Digit, nil
	case "nv":
		return rec.Numeric, nil
	case "bidi_m":
		return rec.BidiMirrored, nil
	case "na1":
		return rec.Unicode1Name, nil
	case "isc":
		return rec.ISOComment, nil
	case "suc":
		return rec.UppercaseMapping, nil
	case "slc":
		return rec.LowercaseMapping, nil
	case "stc":
		return rec.TitlecaseMapping, nil
	default:
		return "", &UnknownPropertyError{Name: key}
	}
}

func yesNo(member bool) string {
	if member {
		return "Y"
	}
	return "N"
}
