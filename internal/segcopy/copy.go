// Package segcopy places a subject's gray and white matter segmentations
// into the group-partitioned output layout consumed by the brain-age tool:
//
//	<outputRoot>/<Group>/rp1<release>/rp1_<ID>_T1.nii
//	<outputRoot>/<Group>/rp2<release>/rp2_<ID>_T1.nii
//
// Sources are mwp1/mwp2 files under <subjectDir>/mri, uncompressed preferred
// over gzipped. Image content is opaque here; only names and existence
// matter.
package segcopy

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"brainprep/internal/fileutil"
	"brainprep/internal/subject"
)

// ErrMissingImagingFile marks a subject whose mri directory or segmentation
// files are absent. Non-fatal: the subject is dropped from its group's
// output and the run continues.
var ErrMissingImagingFile = errors.New("missing imaging file")

const (
	grayPrefix  = "mwp1"
	whitePrefix = "mwp2"
)

// Result names the two files written for one subject.
type Result struct {
	Gray  string
	White string
}

// Copy resolves and copies both segmentations for one subject.
func Copy(id subject.ID, subjectDir, outputRoot, release string) (Result, error) {
	mriDir := filepath.Join(subjectDir, "mri")
	info, err := os.Stat(mriDir)
	if err != nil || !info.IsDir() {
		return Result{}, fmt.Errorf("%w: no mri directory for %s under %s", ErrMissingImagingFile, id, subjectDir)
	}

	graySrc, err := findSegmentation(mriDir, grayPrefix, id)
	if err != nil {
		return Result{}, err
	}
	whiteSrc, err := findSegmentation(mriDir, whitePrefix, id)
	if err != nil {
		return Result{}, err
	}

	grayDir := filepath.Join(outputRoot, id.Group, "rp1"+release)
	whiteDir := filepath.Join(outputRoot, id.Group, "rp2"+release)
	for _, dir := range []string{grayDir, whiteDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Result{}, fmt.Errorf("create output dir: %w", err)
		}
	}

	result := Result{
		Gray:  filepath.Join(grayDir, fmt.Sprintf("rp1_%s_T1.nii", id)),
		White: filepath.Join(whiteDir, fmt.Sprintf("rp2_%s_T1.nii", id)),
	}
	if err := copyAsNii(graySrc, result.Gray); err != nil {
		return Result{}, fmt.Errorf("copy %s: %w", graySrc, err)
	}
	if err := copyAsNii(whiteSrc, result.White); err != nil {
		return Result{}, fmt.Errorf("copy %s: %w", whiteSrc, err)
	}
	return result, nil
}

// findSegmentation picks the subject's segmentation with the given prefix,
// preferring the uncompressed .nii over .nii.gz when both exist.
func findSegmentation(mriDir, prefix string, id subject.ID) (string, error) {
	base := fmt.Sprintf("%s%s_T1.nii", prefix, id)
	plain := filepath.Join(mriDir, base)
	if fileExists(plain) {
		return plain, nil
	}
	gzipped := plain + ".gz"
	if fileExists(gzipped) {
		return gzipped, nil
	}
	return "", fmt.Errorf("%w: %s[.gz] not found in %s", ErrMissingImagingFile, base, mriDir)
}

// copyAsNii writes dst as an uncompressed NIfTI regardless of whether the
// source was gzipped.
func copyAsNii(src, dst string) error {
	if strings.HasSuffix(src, ".gz") {
		return fileutil.CopyGunzipped(src, dst)
	}
	return fileutil.CopyFile(src, dst)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
