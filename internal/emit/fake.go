package emit

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"brainprep/internal/logging"
)

// FakeLabelsSubdir is where synthetic label files live under the output
// root, kept apart from real labels.
const FakeLabelsSubdir = "fake_labels"

// FakeOptions configures synthetic label generation.
type FakeOptions struct {
	Seed    uint64
	MeanAge float64
	StdAge  float64
	MinAge  int
	MaxAge  int
}

var rp1NamePattern = regexp.MustCompile(`^rp1_(.+?)_T1\.nii$`)

// WriteFakeLabels generates per-group label files for output that has copied
// segmentations but no real label source. Ages draw from a seeded normal
// distribution clipped to [MinAge, MaxAge]; sex flags are uniform 0/1. The
// ordering follows the lexicographically sorted rp1_*.nii files of each
// group, same as real labels, and a fixed seed reproduces identical files.
func WriteFakeLabels(outputRoot string, opts FakeOptions, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.With(logging.String(logging.FieldComponent, "emit"))

	groups, err := outputGroups(outputRoot)
	if err != nil {
		return err
	}

	labelsDir := filepath.Join(outputRoot, FakeLabelsSubdir)
	if err := os.MkdirAll(labelsDir, 0o755); err != nil {
		return fmt.Errorf("create fake labels dir: %w", err)
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	for _, group := range groups {
		ids, err := copiedSubjects(filepath.Join(outputRoot, group))
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			continue
		}

		ages := make([]string, len(ids))
		males := make([]string, len(ids))
		for i := range ids {
			age := math.Round(rng.NormFloat64()*opts.StdAge + opts.MeanAge)
			age = math.Min(math.Max(age, float64(opts.MinAge)), float64(opts.MaxAge))
			ages[i] = strconv.Itoa(int(age))
			males[i] = strconv.Itoa(rng.IntN(2))
		}

		if err := writeLines(labelsDir, "subjects_"+group+".txt", ids); err != nil {
			return err
		}
		if err := writeLines(labelsDir, "age_"+group+".txt", ages); err != nil {
			return err
		}
		if err := writeLines(labelsDir, "male_"+group+".txt", males); err != nil {
			return err
		}
		logger.Info("wrote synthetic group labels",
			logging.Group(group),
			logging.Int("subjects", len(ids)),
		)
	}
	return nil
}

// outputGroups lists the all-letter group directories under the output root.
func outputGroups(outputRoot string) ([]string, error) {
	entries, err := os.ReadDir(outputRoot)
	if err != nil {
		return nil, fmt.Errorf("read output root: %w", err)
	}
	var groups []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || name == LabelsSubdir || name == FakeLabelsSubdir {
			continue
		}
		if isAlpha(name) {
			groups = append(groups, name)
		}
	}
	sort.Strings(groups)
	return groups, nil
}

// copiedSubjects derives subject IDs from the sorted rp1_*.nii files of one
// group directory. Returns nil when the group has no rp1 release directory.
func copiedSubjects(groupDir string) ([]string, error) {
	entries, err := os.ReadDir(groupDir)
	if err != nil {
		return nil, fmt.Errorf("read group dir: %w", err)
	}
	rp1Dir := ""
	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), "rp1") {
			rp1Dir = filepath.Join(groupDir, entry.Name())
			break
		}
	}
	if rp1Dir == "" {
		return nil, nil
	}

	files, err := os.ReadDir(rp1Dir)
	if err != nil {
		return nil, fmt.Errorf("read rp1 dir: %w", err)
	}
	var ids []string
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		if m := rp1NamePattern.FindStringSubmatch(file.Name()); m != nil {
			ids = append(ids, m[1])
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}
