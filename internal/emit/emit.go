// Package emit writes the per-group label files the brain-age tool reads:
// subjects_<G>.txt, age_<G>.txt, and male_<G>.txt, one value per line. Line
// order equals the group's lexicographic subject order, which also matches
// the sorted copied filenames; the downstream tool joins on line position
// alone.
package emit

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"brainprep/internal/logging"
	"brainprep/internal/reconcile"
)

// LabelsSubdir is where label files live under the output root.
const LabelsSubdir = "labels"

// WriteLabels writes the three label files for every non-empty group.
// Groups with no resolved subjects get no files at all. Re-running with
// identical inputs reproduces byte-identical output.
func WriteLabels(partition reconcile.Partition, outputRoot string, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.With(logging.String(logging.FieldComponent, "emit"))

	labelsDir := filepath.Join(outputRoot, LabelsSubdir)
	if err := os.MkdirAll(labelsDir, 0o755); err != nil {
		return fmt.Errorf("create labels dir: %w", err)
	}

	for _, group := range partition.Groups() {
		subjects := partition.Subjects(group)
		ids := make([]string, len(subjects))
		ages := make([]string, len(subjects))
		males := make([]string, len(subjects))
		for i, s := range subjects {
			ids[i] = s.ID.String()
			ages[i] = strconv.Itoa(s.Age)
			males[i] = strconv.Itoa(s.Sex.Flag())
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
		logger.Info("wrote group labels",
			logging.Group(group),
			logging.Int("subjects", len(subjects)),
		)
	}
	return nil
}

func writeLines(dir, name string, lines []string) error {
	path := filepath.Join(dir, name)
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
