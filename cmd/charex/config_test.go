package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	t.Run("explicit file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		content := `data_dir: /var/lib/charex
default_form: nfkc
properties:
  - na
  - sc
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if cfg.DataDir != "/var/lib/charex" {
			t.Errorf("DataDir = %q", cfg.DataDir)
		}
		if cfg.DefaultForm != "nfkc" {
			t.Errorf("DefaultForm = %q", cfg.DefaultForm)
		}
		if !reflect.DeepEqual(cfg.Properties, []string{"na", "sc"}) {
			t.Errorf("Properties = %v", cfg.Properties)
		}
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		if err := os.WriteFile(path, []byte("default_form: nfd\n"), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if cfg.DefaultForm != "nfd" {
			t.Errorf("DefaultForm = %q", cfg.DefaultForm)
		}
		if cfg.DataDir == "" {
			t.Error("DataDir not defaulted")
		}
		if len(cfg.Properties) == 0 {
			t.Error("Properties not defaulted")
		}
	})

	t.Run("unknown form rejected", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		if err := os.WriteFile(path, []byte("default_form: nfz\n"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Error("expected error for unknown form")
		}
	})

	t.Run("malformed yaml rejected", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		if err := os.WriteFile(path, []byte("data_dir: [\n"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Error("expected error for malformed yaml")
		}
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
