package normal

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pji/charex/pkg/unidata"
)

// ReverseMapArchive is the zip archive holding the precomputed reverse
// maps, one rev_<form>.json member per form.
const ReverseMapArchive = "Denormal.zip"

// ReverseMap maps a normalized cluster to the ordered source clusters
// that normalize to it. A cluster is one or more code points treated as
// an atomic unit; multi-code-point clusters are never split.
type ReverseMap map[string][]string

// BuildReverseMap inverts a normalization form over the full code point
// space: every code point whose normalization differs from itself is
// recorded under its normalized form. Candidate order is ascending code
// point. Surrogates are skipped; they cannot appear in UTF-8 input.
func BuildReverseMap(form Form) (ReverseMap, error) {
	reg, ok := forms[form]
	if !ok {
		return nil, fmt.Errorf("unknown normalization form: %s", form)
	}
	rev := make(ReverseMap)
	for r := rune(0); r < unidata.MaxCodePoint; r++ {
		if r >= 0xD800 && r <= 0xDFFF {
			continue
		}
		base := string(r)
		normalized := reg.apply(base)
		if normalized == "" || normalized == base {
			continue
		}
		rev[normalized] = append(rev[normalized], base)
	}
	return rev, nil
}

// LoadReverseMap reads the precomputed rev_<form>.json member from the
// reverse-map archive under dataDir.
func LoadReverseMap(dataDir string, form Form) (ReverseMap, error) {
	if _, ok := forms[form]; !ok {
		return nil, fmt.Errorf("unknown normalization form: %s", form)
	}
	data, err := unidata.ReadArchiveMember(dataDir, ReverseMapArchive, ReverseMapMember(form))
	if err != nil {
		return nil, err
	}
	var rev ReverseMap
	if err := json.Unmarshal(data, &rev); err != nil {
		return nil, fmt.Errorf("failed to decode reverse map for %s: %w", form, err)
	}
	return rev, nil
}

// ReverseMapMember returns the archive member name for a form's reverse
// map.
func ReverseMapMember(form Form) string {
	return fmt.Sprintf("rev_%s.json", form)
}

// WriteReverseMapArchive rebuilds the reverse maps for every registered
// form and writes them as a fresh reverse-map archive under dataDir. The
// archive is written to a temporary file and renamed into place so
// readers never see a partial archive.
func WriteReverseMapArchive(dataDir string) error {
	tmp, err := os.CreateTemp(dataDir, "denormal-*.zip")
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	defer os.Remove(tmp.Name())

	zw := zip.NewWriter(tmp)
	for _, form := range Forms() {
		rev, err := BuildReverseMap(form)
		if err != nil {
			zw.Close()
			tmp.Close()
			return err
		}
		data, err := json.Marshal(rev)
		if err != nil {
			zw.Close()
			tmp.Close()
			return fmt.Errorf("failed to encode reverse map for %s: %w", form, err)
		}
		w, err := zw.Create(ReverseMapMember(form))
		if err != nil {
			zw.Close()
			tmp.Close()
			return fmt.Errorf("failed to add archive member for %s: %w", form, err)
		}
		if _, err := w.Write(data); err != nil {
			zw.Close()
			tmp.Close()
			return fmt.Errorf("failed to write archive member for %s: %w", form, err)
		}
	}
	if err := zw.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close archive: %w", err)
	}
	return os.Rename(tmp.Name(), filepath.Join(dataDir, ReverseMapArchive))
}
