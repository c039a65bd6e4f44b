package reconcile

import (
	"testing"

	"brainprep/internal/labels"
	"brainprep/internal/scan"
	"brainprep/internal/subject"
)

func dir(t *testing.T, token, path string) scan.Directory {
	t.Helper()
	id, err := subject.Parse(token)
	if err != nil {
		t.Fatal(err)
	}
	return scan.Directory{ID: id, Path: path}
}

func record(t *testing.T, token string, age int, sex labels.Sex) labels.Record {
	t.Helper()
	id, err := subject.Parse(token)
	if err != nil {
		t.Fatal(err)
	}
	return labels.Record{ID: id, Age: age, Sex: sex}
}

func TestReconcilePartitionsAndReportsMismatches(t *testing.T) {
	records := map[string]labels.Record{
		"D01": record(t, "D01", 77, labels.SexMale),
		"K01": record(t, "K01", 70, labels.SexFemale),
		"K02": record(t, "K02", 65, labels.SexMale),
	}
	dirs := []scan.Directory{
		dir(t, "D01", "/data/patients/D01"),
		dir(t, "D02", "/data/patients/D02"),
		dir(t, "K01", "/data/controls/K01"),
	}

	partition, diags := Reconcile(records, dirs, nil)

	if got := partition.Groups(); len(got) != 2 || got[0] != "D" || got[1] != "K" {
		t.Fatalf("groups = %v", got)
	}
	if partition.Total() != 2 {
		t.Fatalf("total = %d, want 2", partition.Total())
	}
	if len(diags.LabelOnly) != 1 || diags.LabelOnly[0] != "K02" {
		t.Fatalf("labelOnly = %v, want [K02]", diags.LabelOnly)
	}
	if len(diags.DiskOnly) != 1 || diags.DiskOnly[0] != "D02" {
		t.Fatalf("diskOnly = %v, want [D02]", diags.DiskOnly)
	}
}

func TestReconcileOrdersGroupsLexicographically(t *testing.T) {
	records := map[string]labels.Record{
		"D10": record(t, "D10", 80, labels.SexMale),
		"D02": record(t, "D02", 75, labels.SexFemale),
		"D01": record(t, "D01", 70, labels.SexMale),
	}
	dirs := []scan.Directory{
		dir(t, "D10", "/p/D10"),
		dir(t, "D01", "/p/D01"),
		dir(t, "D02", "/p/D02"),
	}

	partition, _ := Reconcile(records, dirs, nil)

	subjects := partition.Subjects("D")
	want := []string{"D01", "D02", "D10"}
	for i, s := range subjects {
		if s.ID.String() != want[i] {
			t.Fatalf("order %v, want %v", subjects, want)
		}
	}
}

func TestReconcileFirstRootWinsOnDuplicateDirs(t *testing.T) {
	records := map[string]labels.Record{
		"K01": record(t, "K01", 70, labels.SexFemale),
	}
	dirs := []scan.Directory{
		dir(t, "K01", "/patients/K01"),
		dir(t, "K01", "/controls/K01"),
	}

	partition, diags := Reconcile(records, dirs, nil)

	if got := partition.Subjects("K"); len(got) != 1 || got[0].Dir != "/patients/K01" {
		t.Fatalf("subjects = %+v, want the patients path", got)
	}
	if len(diags.DuplicateDirs) != 1 || diags.DuplicateDirs[0] != "K01" {
		t.Fatalf("duplicates = %v", diags.DuplicateDirs)
	}
}

func TestDropCollapsesEmptyGroup(t *testing.T) {
	records := map[string]labels.Record{
		"FD01": record(t, "FD01", 77, labels.SexMale),
		"D01":  record(t, "D01", 70, labels.SexFemale),
	}
	dirs := []scan.Directory{
		dir(t, "FD01", "/p/FD01"),
		dir(t, "D01", "/p/D01"),
	}

	partition, _ := Reconcile(records, dirs, nil)
	id, _ := subject.Parse("FD01")
	partition.Drop(id)

	if got := partition.Groups(); len(got) != 1 || got[0] != "D" {
		t.Fatalf("groups after drop = %v, want [D]", got)
	}
}
