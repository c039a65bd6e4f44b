package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"brainprep/internal/manifest"
	"brainprep/internal/testsupport"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(content)
}

func TestRunEndToEnd(t *testing.T) {
	cfg, paths := testsupport.NewConfig(t)
	testsupport.WriteSubject(t, paths.PatientsRoot, "D01", false)
	testsupport.WriteSubject(t, paths.PatientsRoot, "D02", true)
	testsupport.WriteSubject(t, paths.ControlsRoot, "K01", false)
	// On disk but unlabeled.
	testsupport.WriteSubject(t, paths.ControlsRoot, "K99", false)

	csv := testsupport.WriteLabelSource(t, t.TempDir(), "labels.csv",
		"Code;Alter;Geschlecht (1=m, 2=f)\n"+
			"D01;76,5;1\n"+
			"D02;81;2\n"+
			"K01;70;2\n"+
			"K42;66;1\n") // labeled but not on disk
	cfg.Labels.IDColumnNames = []string{"code"}
	cfg.Labels.AgeColumnNames = []string{"alter", "age"}
	cfg.Labels.SexColumnNames = []string{"geschlecht", "sex"}
	cfg.Labels.SexConvention = "1=m,2=f"

	summary, err := Run(context.Background(), Options{Config: cfg, LabelSource: csv})
	if err != nil {
		t.Fatal(err)
	}

	if summary.Resolved != 3 {
		t.Fatalf("resolved = %d, want 3", summary.Resolved)
	}
	if len(summary.LabelOnly) != 1 || summary.LabelOnly[0] != "K42" {
		t.Fatalf("labelOnly = %v", summary.LabelOnly)
	}
	if len(summary.DiskOnly) != 1 || summary.DiskOnly[0] != "K99" {
		t.Fatalf("diskOnly = %v", summary.DiskOnly)
	}

	// Copied layout, with the gzipped source decompressed.
	if got := readFile(t, filepath.Join(paths.OutputRoot, "D", "rp1_CAT12.9", "rp1_D01_T1.nii")); got != "gm:D01" {
		t.Fatalf("rp1_D01 = %q", got)
	}
	if got := readFile(t, filepath.Join(paths.OutputRoot, "D", "rp2_CAT12.9", "rp2_D02_T1.nii")); got != "wm:D02" {
		t.Fatalf("rp2_D02 = %q", got)
	}

	// Label ordering matches sorted IDs, decimal comma rounded.
	labelsDir := filepath.Join(paths.OutputRoot, "labels")
	if got := readFile(t, filepath.Join(labelsDir, "subjects_D.txt")); got != "D01\nD02\n" {
		t.Fatalf("subjects_D = %q", got)
	}
	if got := readFile(t, filepath.Join(labelsDir, "age_D.txt")); got != "77\n81\n" {
		t.Fatalf("age_D = %q", got)
	}
	if got := readFile(t, filepath.Join(labelsDir, "male_D.txt")); got != "1\n0\n" {
		t.Fatalf("male_D = %q", got)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	cfg, paths := testsupport.NewConfig(t)
	testsupport.WriteSubject(t, paths.PatientsRoot, "D01", false)
	csv := testsupport.WriteLabelSource(t, t.TempDir(), "labels.csv", "D01,70,m\n")
	cfg.Labels.IDColumn, cfg.Labels.AgeColumn, cfg.Labels.SexColumn = 1, 2, 3

	opts := Options{Config: cfg, LabelSource: csv}
	if _, err := Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	first := readFile(t, filepath.Join(paths.OutputRoot, "labels", "subjects_D.txt"))

	if _, err := Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	second := readFile(t, filepath.Join(paths.OutputRoot, "labels", "subjects_D.txt"))
	if first != second {
		t.Fatalf("re-run differs: %q vs %q", first, second)
	}
}

func TestRunDropsSubjectWithMissingImaging(t *testing.T) {
	cfg, paths := testsupport.NewConfig(t)
	testsupport.WriteSubject(t, paths.PatientsRoot, "D01", false)
	// D02 has a directory but no mri content.
	if err := os.MkdirAll(filepath.Join(paths.PatientsRoot, "D02"), 0o755); err != nil {
		t.Fatal(err)
	}
	csv := testsupport.WriteLabelSource(t, t.TempDir(), "labels.csv", "D01,70,m\nD02,71,f\n")
	cfg.Labels.IDColumn, cfg.Labels.AgeColumn, cfg.Labels.SexColumn = 1, 2, 3

	summary, err := Run(context.Background(), Options{Config: cfg, LabelSource: csv})
	if err != nil {
		t.Fatal(err)
	}

	if summary.Resolved != 1 {
		t.Fatalf("resolved = %d, want 1", summary.Resolved)
	}
	if len(summary.CopyErrors) != 1 || summary.CopyErrors[0].Subject != "D02" {
		t.Fatalf("copy errors = %+v", summary.CopyErrors)
	}
	// D02 must not leak into the label files.
	if got := readFile(t, filepath.Join(paths.OutputRoot, "labels", "subjects_D.txt")); got != "D01\n" {
		t.Fatalf("subjects_D = %q", got)
	}
}

func TestRunZeroResolvedExitsAbnormally(t *testing.T) {
	cfg, paths := testsupport.NewConfig(t)
	testsupport.WriteSubject(t, paths.PatientsRoot, "D01", false)
	csv := testsupport.WriteLabelSource(t, t.TempDir(), "labels.csv", "K77,70,m\n")
	cfg.Labels.IDColumn, cfg.Labels.AgeColumn, cfg.Labels.SexColumn = 1, 2, 3

	summary, err := Run(context.Background(), Options{Config: cfg, LabelSource: csv})
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if summary == nil || summary.Resolved != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	_ = paths
}

func TestRunMissingLabelSourceIsConfigurationError(t *testing.T) {
	cfg, _ := testsupport.NewConfig(t)

	_, err := Run(context.Background(), Options{Config: cfg})
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestRunRecordsManifest(t *testing.T) {
	cfg, paths := testsupport.NewConfig(t)
	testsupport.WriteSubject(t, paths.PatientsRoot, "D01", false)
	csv := testsupport.WriteLabelSource(t, t.TempDir(), "labels.csv", "D01,70,m\nK42,66,f\n")
	cfg.Labels.IDColumn, cfg.Labels.AgeColumn, cfg.Labels.SexColumn = 1, 2, 3

	store, err := manifest.Open(paths.OutputRoot)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	summary, err := Run(context.Background(), Options{Config: cfg, LabelSource: csv, Store: store})
	if err != nil {
		t.Fatal(err)
	}
	if summary.RunID == "" {
		t.Fatal("expected a run ID")
	}

	run, err := store.LatestRun(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if run == nil || run.ID != summary.RunID || run.Resolved != 1 || run.LabelOnly != 1 {
		t.Fatalf("run = %+v", run)
	}

	outcomes, err := store.RunSubjects(context.Background(), run.ID, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("outcomes = %+v", outcomes)
	}
}
