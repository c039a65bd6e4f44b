package fileutil

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.nii")
	dst := filepath.Join(dir, "dst.nii")

	content := []byte("voxels")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CopyFile(src, dst); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}
}

func TestCopyGunzipped(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.nii.gz")
	dst := filepath.Join(dir, "dst.nii")

	var compressed bytes.Buffer
	writer := gzip.NewWriter(&compressed)
	if _, err := writer.Write([]byte("voxels")); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src, compressed.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CopyGunzipped(src, dst); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "voxels" {
		t.Fatalf("content mismatch: got %q", got)
	}
}

func TestCopyGunzippedRejectsPlainFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.nii.gz")
	if err := os.WriteFile(src, []byte("not gzip"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CopyGunzipped(src, filepath.Join(dir, "dst.nii")); err == nil {
		t.Fatal("expected gzip header error")
	}
}
