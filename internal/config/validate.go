package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. Fields that depend on a data
// root being set (cohort paths, output dir) are checked later by DataPaths,
// so config management commands work without a study on disk.
func (c *Config) Validate() error {
	if err := c.validateLabels(); err != nil {
		return err
	}
	if err := c.validateFakeLabels(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateLabels() error {
	l := c.Labels
	named := len(l.IDColumnNames) > 0 || len(l.AgeColumnNames) > 0 || len(l.SexColumnNames) > 0
	if named {
		if len(l.IDColumnNames) == 0 || len(l.AgeColumnNames) == 0 || len(l.SexColumnNames) == 0 {
			return errors.New("labels: id_column_names, age_column_names, and sex_column_names must be set together")
		}
	} else {
		for name, index := range map[string]int{
			"labels.id_column":  l.IDColumn,
			"labels.age_column": l.AgeColumn,
			"labels.sex_column": l.SexColumn,
		} {
			if index < 1 {
				return fmt.Errorf("%s must be a 1-based column index", name)
			}
		}
	}

	if l.MinAge < 0 || l.MaxAge <= l.MinAge {
		return errors.New("labels: min_age must be >= 0 and below max_age")
	}
	if len([]rune(l.FallbackDelimiter)) != 1 {
		return fmt.Errorf("labels.fallback_delimiter must be a single character, got %q", l.FallbackDelimiter)
	}
	return nil
}

func (c *Config) validateFakeLabels() error {
	f := c.FakeLabels
	if f.StdAge < 0 {
		return errors.New("fake_labels.std_age must not be negative")
	}
	if f.MinAge >= f.MaxAge {
		return errors.New("fake_labels: min_age must be below max_age")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
