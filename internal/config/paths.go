package config

import (
	"errors"
	"path/filepath"
	"strings"
)

// DataPaths is the resolved directory layout of one run.
type DataPaths struct {
	PatientsRoot string
	ControlsRoot string
	OutputRoot   string
}

// DataPaths resolves the cohort and output directories. Relative cohort
// directories attach to the data root; the output defaults to
// <data_root>/for_brainage. Requires a data root unless every path involved
// is absolute.
func (c *Config) DataPaths() (DataPaths, error) {
	root := strings.TrimSpace(c.Paths.DataRoot)

	resolve := func(dir string) (string, error) {
		if filepath.IsAbs(dir) {
			return dir, nil
		}
		if root == "" {
			return "", errors.New("paths.data_root is required (set it in the config or pass --root)")
		}
		return filepath.Join(root, dir), nil
	}

	patients, err := resolve(c.Paths.PatientsDir)
	if err != nil {
		return DataPaths{}, err
	}
	controls, err := resolve(c.Paths.ControlsDir)
	if err != nil {
		return DataPaths{}, err
	}

	output := strings.TrimSpace(c.Paths.OutputDir)
	if output == "" {
		output, err = resolve(defaultOutputSubdir)
		if err != nil {
			return DataPaths{}, err
		}
	}

	return DataPaths{PatientsRoot: patients, ControlsRoot: controls, OutputRoot: output}, nil
}
