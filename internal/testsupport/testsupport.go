// Package testsupport holds shared helpers for building fake study trees
// and configurations in tests.
package testsupport

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"brainprep/internal/config"
)

// NewConfig produces a config seeded with unique temp directories per test.
// The returned paths point at the created patients/controls roots.
func NewConfig(t testing.TB) (*config.Config, config.DataPaths) {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataRoot = base
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	paths, err := cfg.DataPaths()
	if err != nil {
		t.Fatalf("resolve data paths: %v", err)
	}
	for _, dir := range []string{paths.PatientsRoot, paths.ControlsRoot} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	return &cfg, paths
}

// WriteSubject creates a subject directory with mwp1/mwp2 segmentations
// under root. Gzipped toggles whether the white matter file is compressed.
func WriteSubject(t testing.TB, root, sid string, gzipped bool) {
	t.Helper()

	mri := filepath.Join(root, sid, "mri")
	if err := os.MkdirAll(mri, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", mri, err)
	}
	gray := filepath.Join(mri, "mwp1"+sid+"_T1.nii")
	if err := os.WriteFile(gray, []byte("gm:"+sid), 0o644); err != nil {
		t.Fatalf("write %s: %v", gray, err)
	}

	content := []byte("wm:" + sid)
	if gzipped {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(content); err != nil {
			t.Fatalf("gzip %s: %v", sid, err)
		}
		if err := zw.Close(); err != nil {
			t.Fatalf("gzip close %s: %v", sid, err)
		}
		white := filepath.Join(mri, "mwp2"+sid+"_T1.nii.gz")
		if err := os.WriteFile(white, buf.Bytes(), 0o644); err != nil {
			t.Fatalf("write %s: %v", white, err)
		}
		return
	}
	white := filepath.Join(mri, "mwp2"+sid+"_T1.nii")
	if err := os.WriteFile(white, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", white, err)
	}
}

// WriteLabelSource writes a label file and returns its path.
func WriteLabelSource(t testing.TB, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
