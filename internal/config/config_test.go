package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadAppliesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
data_root = "` + dir + `"

[labels]
id_column_names = ["code"]
age_column_names = ["alter", "age"]
sex_column_names = ["geschlecht", "sex"]
sex_convention = "1=m,2=f"

[output]
release = "_CAT12.8"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != path {
		t.Fatalf("resolved path = %s", resolved)
	}
	if cfg.Output.Release != "_CAT12.8" {
		t.Fatalf("release = %s", cfg.Output.Release)
	}
	if cfg.Labels.SexConvention != "1=m,2=f" {
		t.Fatalf("sex convention = %s", cfg.Labels.SexConvention)
	}
	// Untouched sections keep defaults.
	if cfg.FakeLabels.Seed != defaultFakeSeed {
		t.Fatalf("fake seed = %d", cfg.FakeLabels.Seed)
	}
}

func TestLoadRejectsPartialNamedColumns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[labels]
id_column_names = ["code"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := Load(path); err == nil || !strings.Contains(err.Error(), "set together") {
		t.Fatalf("expected partial named columns error, got %v", err)
	}
}

func TestLoadMissingExplicitConfigFails(t *testing.T) {
	if _, _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestDataPathsResolution(t *testing.T) {
	cfg := Default()
	cfg.Paths.DataRoot = "/data/study"

	paths, err := cfg.DataPaths()
	if err != nil {
		t.Fatal(err)
	}
	if paths.PatientsRoot != "/data/study/T1_CAT12" {
		t.Fatalf("patients = %s", paths.PatientsRoot)
	}
	if paths.ControlsRoot != "/data/study/T1_CAT12_Kontrollen" {
		t.Fatalf("controls = %s", paths.ControlsRoot)
	}
	if paths.OutputRoot != "/data/study/for_brainage" {
		t.Fatalf("output = %s", paths.OutputRoot)
	}
}

func TestDataPathsRequiresRoot(t *testing.T) {
	cfg := Default()
	if _, err := cfg.DataPaths(); err == nil {
		t.Fatal("expected error without data root")
	}

	// Fully absolute layout works without a root.
	cfg.Paths.PatientsDir = "/abs/patients"
	cfg.Paths.ControlsDir = "/abs/controls"
	cfg.Paths.OutputDir = "/abs/out"
	paths, err := cfg.DataPaths()
	if err != nil {
		t.Fatal(err)
	}
	if paths.OutputRoot != "/abs/out" {
		t.Fatalf("output = %s", paths.OutputRoot)
	}
}

func TestValidateFallbackDelimiter(t *testing.T) {
	cfg := Default()
	cfg.Labels.FallbackDelimiter = ";;"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for multi-character delimiter")
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := WriteSample(path); err != nil {
		t.Fatal(err)
	}
	if err := WriteSample(path); err == nil {
		t.Fatal("expected overwrite refusal")
	}
}
