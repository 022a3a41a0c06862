package normal

import (
	"archive/zip"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadReverseMap(t *testing.T) {
	dir := t.TempDir()
	rev := ReverseMap{"<": {"﹤", "＜"}}
	writeReverseArchive(t, dir, map[Form]ReverseMap{NFKC: rev})

	got, err := LoadReverseMap(dir, NFKC)
	if err != nil {
		t.Fatalf("LoadReverseMap: %v", err)
	}
	if !reflect.DeepEqual(got, rev) {
		t.Errorf("LoadReverseMap = %v, want %v", got, rev)
	}

	if _, err := LoadReverseMap(dir, NFD); err == nil {
		t.Error("expected error for missing member")
	}
	if _, err := LoadReverseMap(dir, Form("nfz")); err == nil {
		t.Error("expected error for unknown form")
	}
}

func TestWriteReverseMapArchive(t *testing.T) {
	if testing.Short() {
		t.Skip("builds every reverse map")
	}
	dir := t.TempDir()
	if err := WriteReverseMapArchive(dir); err != nil {
		t.Fatalf("WriteReverseMapArchive: %v", err)
	}

	for _, form := range Forms() {
		rev, err := LoadReverseMap(dir, form)
		if err != nil {
			t.Fatalf("LoadReverseMap(%s): %v", form, err)
		}
		if len(rev) == 0 {
			t.Errorf("reverse map for %s is empty", form)
		}
	}

	rev, err := LoadReverseMap(dir, NFKC)
	if err != nil {
		t.Fatal(err)
	}
	if len(rev["<"]) == 0 {
		t.Errorf("no candidates for %q in loaded nfkc map", "<")
	}
}

func writeReverseArchive(t *testing.T, dir string, maps map[Form]ReverseMap) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, ReverseMapArchive))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	zw := zip.NewWriter(f)
	for form, rev := range maps {
		w, err := zw.Create(ReverseMapMember(form))
		if err != nil {
			t.Fatal(err)
		}
		data, err := json.Marshal(rev)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
}
