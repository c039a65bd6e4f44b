// Package scan discovers subject imaging directories under the configured
// cohort roots. Only the directory name is validated here; the presence of
// mri/ and the segmentation files is checked later by the copy step.
package scan

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"brainprep/internal/logging"
	"brainprep/internal/subject"
)

// Directory is one candidate subject directory.
type Directory struct {
	ID   subject.ID
	Path string
}

// Scan lists the immediate subdirectories of each root whose name satisfies
// the subject ID grammar. Roots are processed in caller order and each root's
// contribution is sorted lexicographically by name. A root that does not
// exist contributes nothing; cohorts are optional.
func Scan(logger *slog.Logger, roots ...string) ([]Directory, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	var dirs []Directory
	for _, root := range roots {
		found, err := scanRoot(root)
		if err != nil {
			return nil, err
		}
		logger.Debug("scanned cohort root",
			logging.String("root", root),
			logging.Int("subjects", len(found)),
		)
		dirs = append(dirs, found...)
	}
	return dirs, nil
}

func scanRoot(root string) ([]Directory, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan root %s: %w", root, err)
	}

	var dirs []Directory
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		id, err := subject.Parse(entry.Name())
		if err != nil {
			// Unrelated entries (logs, caches, loose files) are expected.
			continue
		}
		dirs = append(dirs, Directory{ID: id, Path: filepath.Join(root, entry.Name())})
	}

	sort.Slice(dirs, func(i, j int) bool {
		return dirs[i].ID.String() < dirs[j].ID.String()
	})
	return dirs, nil
}
