package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	var err error
	if c.Paths.DataRoot, err = expandPath(c.Paths.DataRoot); err != nil {
		return fmt.Errorf("paths.data_root: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Labels.Source, err = expandPath(c.Labels.Source); err != nil {
		return fmt.Errorf("labels.source: %w", err)
	}

	if strings.TrimSpace(c.Paths.PatientsDir) == "" {
		c.Paths.PatientsDir = defaultPatientsDir
	}
	if strings.TrimSpace(c.Paths.ControlsDir) == "" {
		c.Paths.ControlsDir = defaultControlsDir
	}
	c.Labels.SexConvention = strings.TrimSpace(c.Labels.SexConvention)
	c.Labels.Header = strings.ToLower(strings.TrimSpace(c.Labels.Header))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}
