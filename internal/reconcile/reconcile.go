// Package reconcile intersects the parsed label records with the discovered
// subject directories and partitions the resolved subjects by group code.
// Mismatches between the two sets are diagnostics, never errors: a run keeps
// going with whatever resolves.
package reconcile

import (
	"log/slog"
	"sort"

	"brainprep/internal/labels"
	"brainprep/internal/logging"
	"brainprep/internal/scan"
	"brainprep/internal/subject"
)

// Subject is one fully resolved study participant: labeled and present on
// disk.
type Subject struct {
	ID  subject.ID
	Age int
	Sex labels.Sex
	Dir string
}

// Partition maps group codes to their resolved subjects, each group sorted
// lexicographically by subject ID. That ordering is the only join key the
// downstream tool has: line i of every label file and the i-th sorted copied
// file must describe the same subject.
type Partition struct {
	groups map[string][]Subject
}

// Groups returns the non-empty group codes in sorted order.
func (p Partition) Groups() []string {
	codes := make([]string, 0, len(p.groups))
	for code := range p.groups {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Subjects returns the resolved subjects of one group in ID order.
func (p Partition) Subjects(group string) []Subject {
	return p.groups[group]
}

// Total counts resolved subjects across all groups.
func (p Partition) Total() int {
	total := 0
	for _, subjects := range p.groups {
		total += len(subjects)
	}
	return total
}

// Diagnostics lists the identifiers that did not resolve, sorted.
type Diagnostics struct {
	// LabelOnly subjects have a label record but no directory on disk.
	LabelOnly []string
	// DiskOnly directories carry a valid subject name but no label record.
	DiskOnly []string
	// DuplicateDirs were seen under more than one root; the first
	// occurrence (patients before controls) won.
	DuplicateDirs []string
}

// Reconcile computes the resolved partition and its diagnostics.
func Reconcile(records map[string]labels.Record, dirs []scan.Directory, logger *slog.Logger) (Partition, Diagnostics) {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.With(logging.String(logging.FieldComponent, "reconcile"))

	var diags Diagnostics

	byID := make(map[string]scan.Directory, len(dirs))
	for _, dir := range dirs {
		key := dir.ID.String()
		if first, ok := byID[key]; ok {
			diags.DuplicateDirs = append(diags.DuplicateDirs, key)
			logger.Warn("subject directory appears under multiple roots",
				logging.Subject(key),
				logging.String("kept", first.Path),
				logging.String("ignored", dir.Path),
			)
			continue
		}
		byID[key] = dir
	}

	groups := make(map[string][]Subject)
	for key, record := range records {
		dir, ok := byID[key]
		if !ok {
			diags.LabelOnly = append(diags.LabelOnly, key)
			continue
		}
		groups[record.ID.Group] = append(groups[record.ID.Group], Subject{
			ID:  record.ID,
			Age: record.Age,
			Sex: record.Sex,
			Dir: dir.Path,
		})
	}
	for key := range byID {
		if _, ok := records[key]; !ok {
			diags.DiskOnly = append(diags.DiskOnly, key)
		}
	}

	for code := range groups {
		sort.Slice(groups[code], func(i, j int) bool {
			return groups[code][i].ID.String() < groups[code][j].ID.String()
		})
	}
	sort.Strings(diags.LabelOnly)
	sort.Strings(diags.DiskOnly)
	sort.Strings(diags.DuplicateDirs)

	return Partition{groups: groups}, diags
}

// Drop removes one subject from its group, collapsing the group when it
// empties. The copy step uses it when a subject's imaging files turn out to
// be missing, so the label files never mention a subject that has no copied
// image.
func (p *Partition) Drop(id subject.ID) {
	key := id.String()
	subjects := p.groups[id.Group]
	for i, s := range subjects {
		if s.ID.String() == key {
			p.groups[id.Group] = append(subjects[:i], subjects[i+1:]...)
			break
		}
	}
	if len(p.groups[id.Group]) == 0 {
		delete(p.groups, id.Group)
	}
}
