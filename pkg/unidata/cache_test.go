package unidata

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// writeArchive writes a zip archive of text members for fixture data.
func writeArchive(t *testing.T, dir, name string, members map[string]string) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("failed to create archive: %v", err)
	}
	defer f.Close()
	zw := zip.NewWriter(f)
	for member, content := range members {
		w, err := zw.Create(member)
		if err != nil {
			t.Fatalf("failed to create member %s: %v", member, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write member %s: %v", member, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close archive: %v", err)
	}
}

var testMembers = map[string]string{
	"UnicodeData.txt": `0041;LATIN CAPITAL LETTER A;Lu;0;L;;;;;N;;;;0061;
0061;LATIN SMALL LETTER A;Ll;0;L;;;;;N;;;0041;;0041
AC00;<Hangul Syllable, First>;Lo;0;L;;;;;N;;;;;
D7A3;<Hangul Syllable, Last>;Lo;0;L;;;;;N;;;;;
`,
	"PropList.txt": `# @missing: 0000..10FFFF; N
0009..000D    ; White_Space # Cc   [5] <control-0009>..<control-000D>
0020          ; White_Space # Zs       SPACE
002D          ; Dash # Pd       HYPHEN-MINUS
`,
	"Scripts.txt": `# @missing: 0000..10FFFF; Unknown
0041..005A    ; Latin # L&  [26] LATIN CAPITAL LETTER A..
0391..03A1    ; Greek
`,
	"ScriptExtensions.txt": `# @missing: 0000..10FFFF; <script>
3006          ; Bopo Hang Hani # Lo       IDEOGRAPHIC CLOSING MARK
`,
	"Jamo.txt": `# @missing: 0000..10FFFF; <none>
1100; G    # HANGUL CHOSEONG KIYEOK
1111; P    # HANGUL CHOSEONG PHIEUPH
1161; A    # HANGUL JUNGSEONG A
1171; WI   # HANGUL JUNGSEONG WI
11B6; LH   # HANGUL JONGSEONG RIEUL-HIEUH
`,
	"Blocks.txt": `# @missing: 0000..10FFFF; No_Block
0000..007F; Basic Latin
0100..017F; Latin Extended-A
`,
	"CompositionExclusions.txt": `0958    #  DEVANAGARI LETTER QA
0959
`,
	"DerivedNormalizationProps.txt": `# Derived Property: NFD_Quick_Check
#   Property: NFD_QC
# @missing: 0000..10FFFF; Yes
00C0..00C5    ; NFD_QC; N # L&   [6] LATIN CAPITAL LETTER A WITH GRAVE..
#   Property: Full_Composition_Exclusion
0340..0341    ; Comp_Ex # Mn   [2] COMBINING GRAVE TONE MARK..
`,
	"Cyclic.txt": `# @missing: 0000..10FFFF; <cyclic>
`,
	"PropertyAliases.txt": `WSpace                   ; White_Space              ; space
Dash                     ; Dash
sc                       ; Script
scx                      ; Script_Extensions
blk                      ; Block
na                       ; Name
gc                       ; General_Category
`,
	"PropertyValueAliases.txt": `sc ; Latn                             ; Latin
sc ; Grek                             ; Greek
sc ; Zzzz                             ; Unknown
scx; Latn                             ; Latin
gc ; Lu                               ; Uppercase_Letter
NFD_QC; Y                             ; Yes
`,
}

func testManifest() Manifest {
	ucd := func(path string, kind Kind) PathInfo {
		return PathInfo{Archive: "UCD.zip", Path: path, Kind: kind, Delim: ";"}
	}
	return Manifest{
		"na":      ucd("UnicodeData.txt", KindUnicodeData),
		"gc":      ucd("UnicodeData.txt", KindUnicodeData),
		"slc":     ucd("UnicodeData.txt", KindUnicodeData),
		"wspace":  ucd("PropList.txt", KindPropList),
		"dash":    ucd("PropList.txt", KindPropList),
		"sc":      ucd("Scripts.txt", KindSingleValue),
		"scx":     ucd("ScriptExtensions.txt", KindSingleValue),
		"jsn":     ucd("Jamo.txt", KindSingleValue),
		"blk":     ucd("Blocks.txt", KindValueRange),
		"ce":      ucd("CompositionExclusions.txt", KindSimpleList),
		"nfd_qc":  ucd("DerivedNormalizationProps.txt", KindDerivedNormal),
		"comp_ex": ucd("DerivedNormalizationProps.txt", KindDerivedNormal),
		"cyclic":  ucd("Cyclic.txt", KindSingleValue),

		keyPropertyAliases: ucd("PropertyAliases.txt", ""),
		keyValueAliases:    ucd("PropertyValueAliases.txt", ""),
	}
}

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	dir := t.TempDir()
	writeArchive(t, dir, "UCD.zip", testMembers)
	c, err := New(Config{DataDir: dir, Manifest: testManifest()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestCacheValue(t *testing.T) {
	c := newTestCache(t)

	tests := []struct {
		name string
		code rune
		prop string
		want string
	}{
		{"short alias", 0x0041, "sc", "Latn"},
		{"long name", 0x0041, "Script", "Latn"},
		{"case insensitive", 0x0041, "SCRIPT", "Latn"},
		{"missing default aliased", 0x0020, "sc", "Zzzz"},
		{"unicode data field", 0x0041, "gc", "Lu"},
		{"lowercase mapping", 0x0041, "slc", "0061"},
		{"prop list member", 0x0020, "White_Space", "Y"},
		{"prop list non-member", 0x0041, "wspace", "N"},
		{"second prop same file", 0x002D, "dash", "Y"},
		{"simple list member", 0x0958, "ce", "Y"},
		{"simple list non-member", 0x0041, "ce", "N"},
		{"range", 0x0041, "blk", "Basic Latin"},
		{"range gap fill", 0x20000, "blk", "No_Block"},
		{"derived single", 0x00C1, "nfd_qc", "N"},
		{"derived single default", 0x0041, "NFD_QC", "Y"},
		{"derived membership", 0x0340, "comp_ex", "Y"},
		{"derived non-member", 0x0041, "comp_ex", "N"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Value(tt.code, tt.prop)
			if err != nil {
				t.Fatalf("Value(%U, %q): %v", tt.code, tt.prop, err)
			}
			if got != tt.want {
				t.Errorf("Value(%U, %q) = %q, want %q", tt.code, tt.prop, got, tt.want)
			}
		})
	}
}

func TestCacheLongValue(t *testing.T) {
	c := newTestCache(t)
	got, err := c.LongValue(0x0041, "sc")
	if err != nil {
		t.Fatalf("LongValue: %v", err)
	}
	if got != "Latin" {
		t.Errorf("LongValue = %q, want Latin", got)
	}
}

func TestCacheValuesDerived(t *testing.T) {
	c := newTestCache(t)

	t.Run("placeholder follows script", func(t *testing.T) {
		got, err := c.Values(0x0041, "scx")
		if err != nil {
			t.Fatalf("Values: %v", err)
		}
		if !reflect.DeepEqual(got, []string{"Latn"}) {
			t.Errorf("Values = %v, want [Latn]", got)
		}
	})

	t.Run("multi value split", func(t *testing.T) {
		got, err := c.Values(0x3006, "scx")
		if err != nil {
			t.Fatalf("Values: %v", err)
		}
		if !reflect.DeepEqual(got, []string{"Bopo", "Hang", "Hani"}) {
			t.Errorf("Values = %v, want [Bopo Hang Hani]", got)
		}
	})
}

func TestCacheRecord(t *testing.T) {
	c := newTestCache(t)

	rec, err := c.Record(0x0041)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if rec.Name != "LATIN CAPITAL LETTER A" || rec.Category != "Lu" {
		t.Errorf("Record = %+v", rec)
	}

	_, err = c.Record(0xE000)
	var uce *UndefinedCharacterError
	if !errors.As(err, &uce) {
		t.Fatalf("err = %v, want *UndefinedCharacterError", err)
	}
	if uce.Code != 0xE000 {
		t.Errorf("Code = %U, want U+E000", uce.Code)
	}
}

func TestCacheHangulNames(t *testing.T) {
	c := newTestCache(t)

	tests := []struct {
		code rune
		want string
	}{
		{0xAC00, "GA"},
		{0xD4DB, "PWILH"},
	}
	for _, tt := range tests {
		got, err := c.HangulName(tt.code)
		if err != nil {
			t.Fatalf("HangulName(%U): %v", tt.code, err)
		}
		if got != tt.want {
			t.Errorf("HangulName(%U) = %q, want %q", tt.code, got, tt.want)
		}
	}

	rec, err := c.Record(0xD4DB)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if rec.Name != "HANGUL SYLLABLE PWILH" {
		t.Errorf("Name = %q, want HANGUL SYLLABLE PWILH", rec.Name)
	}
}

func TestCacheRanges(t *testing.T) {
	c := newTestCache(t)
	ranges, err := c.Ranges("blk")
	if err != nil {
		t.Fatalf("Ranges: %v", err)
	}
	if gap := FindRangeGap(ranges); gap != -1 {
		t.Errorf("FindRangeGap = %d, want -1", gap)
	}
	if got := RangeValue(ranges, 0x0150); got != "Latin Extended-A" {
		t.Errorf("RangeValue = %q, want Latin Extended-A", got)
	}

	_, err = c.Ranges("sc")
	var upe *UnknownPropertyError
	if !errors.As(err, &upe) {
		t.Errorf("Ranges on non-range property: err = %v, want *UnknownPropertyError", err)
	}
}

func TestCacheUnknownProperty(t *testing.T) {
	c := newTestCache(t)
	_, err := c.Value(0x0041, "no_such_property")
	var upe *UnknownPropertyError
	if !errors.As(err, &upe) {
		t.Fatalf("err = %v, want *UnknownPropertyError", err)
	}
	if upe.Name != "no_such_property" {
		t.Errorf("Name = %q", upe.Name)
	}
}

func TestCacheDerivedCycle(t *testing.T) {
	c := newTestCache(t)
	_, err := c.Value(0x0041, "cyclic")
	var pce *PropertyCycleError
	if !errors.As(err, &pce) {
		t.Fatalf("err = %v, want *PropertyCycleError", err)
	}
}

func TestCacheProperties(t *testing.T) {
	c := newTestCache(t)
	props := c.Properties()
	if !sortedStrings(props) {
		t.Errorf("Properties not sorted: %v", props)
	}
	for _, p := range props {
		if p == keyPropertyAliases || p == keyValueAliases {
			t.Errorf("reserved key %q listed as property", p)
		}
	}
}

func sortedStrings(ss []string) bool {
	for i := 1; i < len(ss); i++ {
		if ss[i-1] > ss[i] {
			return false
		}
	}
	return true
}

func TestCacheAliasFallback(t *testing.T) {
	c := newTestCache(t)
	if got := c.AliasProperty("NoSuchProperty"); got != "NoSuchProperty" {
		t.Errorf("AliasProperty = %q", got)
	}
	if got := c.AliasValue("sc", "NoSuchScript"); got != "NoSuchScript" {
		t.Errorf("AliasValue = %q", got)
	}
	if got := c.AliasProperty("White_Space"); got != "WSpace" {
		t.Errorf("AliasProperty = %q, want WSpace", got)
	}
}

func TestDecomposeHangul(t *testing.T) {
	l, v, tr := DecomposeHangul(0xD4DB)
	if l != 0x1111 || v != 0x1171 || tr != 0x11B6 {
		t.Errorf("DecomposeHangul(U+D4DB) = %U %U %U", l, v, tr)
	}
	if !IsHangulSyllable(0xAC00) || IsHangulSyllable(0x0041) {
		t.Error("IsHangulSyllable misclassifies")
	}
}

func TestReadArchiveMissing(t *testing.T) {
	dir := t.TempDir()
	_, err := ReadArchiveLines(dir, PathInfo{Archive: "UCD.zip", Path: "UnicodeData.txt"})
	if err == nil {
		t.Fatal("expected error for missing archive")
	}

	writeArchive(t, dir, "UCD.zip", map[string]string{"other.txt": "x"})
	_, err = ReadArchiveLines(dir, PathInfo{Archive: "UCD.zip", Path: "UnicodeData.txt"})
	if err == nil {
		t.Fatal("expected error for missing member")
	}
}

func TestDefaultManifest(t *testing.T) {
	m, err := DefaultManifest()
	if err != nil {
		t.Fatalf("DefaultManifest: %v", err)
	}
	for _, key := range []string{"na", "gc", "sc", "scx", "blk", "age", "jsn", keyPropertyAliases} {
		if _, ok := m[key]; !ok {
			t.Errorf("manifest missing %q", key)
		}
	}
	for key, info := range m {
		if key == keyPropertyAliases || key == keyValueAliases {
			if info.Kind != "" {
				t.Errorf("%s: Kind = %q, want empty", key, info.Kind)
			}
			continue
		}
		switch info.Kind {
		case KindUnicodeData, KindPropList, KindSimpleList, KindSingleValue, KindValueRange, KindDerivedNormal:
		default:
			t.Errorf("%s: unknown kind %q", key, info.Kind)
		}
	}
}
