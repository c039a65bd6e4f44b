package segcopy

import (
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"brainprep/internal/subject"
)

func writeSubject(t *testing.T, root, sid string, gray, white []byte, gzipWhite bool) string {
	t.Helper()
	mri := filepath.Join(root, sid, "mri")
	if err := os.MkdirAll(mri, 0o755); err != nil {
		t.Fatal(err)
	}
	if gray != nil {
		if err := os.WriteFile(filepath.Join(mri, "mwp1"+sid+"_T1.nii"), gray, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if white != nil {
		if gzipWhite {
			var buf bytes.Buffer
			zw := gzip.NewWriter(&buf)
			if _, err := zw.Write(white); err != nil {
				t.Fatal(err)
			}
			if err := zw.Close(); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(filepath.Join(mri, "mwp2"+sid+"_T1.nii.gz"), buf.Bytes(), 0o644); err != nil {
				t.Fatal(err)
			}
		} else {
			if err := os.WriteFile(filepath.Join(mri, "mwp2"+sid+"_T1.nii"), white, 0o644); err != nil {
				t.Fatal(err)
			}
		}
	}
	return filepath.Join(root, sid)
}

func TestCopyPlacesBothSegmentations(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	dir := writeSubject(t, src, "D01", []byte("gm"), []byte("wm"), true)
	id, _ := subject.Parse("D01")

	result, err := Copy(id, dir, out, "_CAT12.9")
	if err != nil {
		t.Fatal(err)
	}

	wantGray := filepath.Join(out, "D", "rp1_CAT12.9", "rp1_D01_T1.nii")
	if result.Gray != wantGray {
		t.Fatalf("gray = %s, want %s", result.Gray, wantGray)
	}
	gray, err := os.ReadFile(result.Gray)
	if err != nil {
		t.Fatal(err)
	}
	if string(gray) != "gm" {
		t.Fatalf("gray content %q", gray)
	}
	// The gzipped white matter file must land decompressed.
	white, err := os.ReadFile(filepath.Join(out, "D", "rp2_CAT12.9", "rp2_D01_T1.nii"))
	if err != nil {
		t.Fatal(err)
	}
	if string(white) != "wm" {
		t.Fatalf("white content %q", white)
	}
}

func TestCopyPrefersUncompressedSource(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	dir := writeSubject(t, src, "K01", []byte("plain"), []byte("plain"), false)
	// Add a gzipped sibling with different content; the .nii must win.
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte("gzipped")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "mri", "mwp1K01_T1.nii.gz"), buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	id, _ := subject.Parse("K01")
	result, err := Copy(id, dir, out, "_CAT12.9")
	if err != nil {
		t.Fatal(err)
	}
	gray, err := os.ReadFile(result.Gray)
	if err != nil {
		t.Fatal(err)
	}
	if string(gray) != "plain" {
		t.Fatalf("gray content %q, want the uncompressed source", gray)
	}
}

func TestCopyMissingMriDir(t *testing.T) {
	src := t.TempDir()
	if err := os.MkdirAll(filepath.Join(src, "D01"), 0o755); err != nil {
		t.Fatal(err)
	}
	id, _ := subject.Parse("D01")

	_, err := Copy(id, filepath.Join(src, "D01"), t.TempDir(), "_CAT12.9")
	if !errors.Is(err, ErrMissingImagingFile) {
		t.Fatalf("expected ErrMissingImagingFile, got %v", err)
	}
}

func TestCopyMissingSegmentation(t *testing.T) {
	src := t.TempDir()
	dir := writeSubject(t, src, "D01", []byte("gm"), nil, false)
	id, _ := subject.Parse("D01")

	_, err := Copy(id, dir, t.TempDir(), "_CAT12.9")
	if !errors.Is(err, ErrMissingImagingFile) {
		t.Fatalf("expected ErrMissingImagingFile, got %v", err)
	}
}
