package scan

import (
	"os"
	"path/filepath"
	"testing"

	"brainprep/internal/logging"
)

func mkdirs(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.MkdirAll(filepath.Join(root, name), 0o755); err != nil {
			t.Fatal(err)
		}
	}
}

func TestScanFiltersAndSortsPerRoot(t *testing.T) {
	patients := t.TempDir()
	controls := t.TempDir()
	mkdirs(t, patients, "D02", "D01", "notes", "FD03")
	mkdirs(t, controls, "K11a", "K01")
	if err := os.WriteFile(filepath.Join(patients, "D99"), []byte("file, not dir"), 0o644); err != nil {
		t.Fatal(err)
	}

	dirs, err := Scan(logging.NewNop(), patients, controls)
	if err != nil {
		t.Fatal(err)
	}

	got := make([]string, 0, len(dirs))
	for _, d := range dirs {
		got = append(got, d.ID.String())
	}
	want := []string{"D01", "D02", "FD03", "K01", "K11a"}
	if len(got) != len(want) {
		t.Fatalf("scanned %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("scanned %v, want %v", got, want)
		}
	}
}

func TestScanMissingRootIsNotAnError(t *testing.T) {
	existing := t.TempDir()
	mkdirs(t, existing, "K01")

	dirs, err := Scan(nil, filepath.Join(existing, "does-not-exist"), existing)
	if err != nil {
		t.Fatal(err)
	}
	if len(dirs) != 1 || dirs[0].ID.String() != "K01" {
		t.Fatalf("unexpected scan result: %+v", dirs)
	}
}
