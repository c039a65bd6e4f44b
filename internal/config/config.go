package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the directory layout of one study.
type Paths struct {
	// DataRoot holds the cohort directories and, by default, the output.
	DataRoot string `toml:"data_root"`
	// PatientsDir and ControlsDir are resolved against DataRoot when
	// relative. Either cohort may be absent on disk.
	PatientsDir string `toml:"patients_dir"`
	ControlsDir string `toml:"controls_dir"`
	// OutputDir defaults to <data_root>/for_brainage.
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
}

// Labels configures the tabular label source.
type Labels struct {
	// Source is the label file path; usually supplied per run via --csv.
	Source string `toml:"source"`

	// Named column selection: case-insensitive substrings matched against
	// header cells. All three must be set together; mixing named and
	// positional selection is rejected at parse time.
	IDColumnNames  []string `toml:"id_column_names"`
	AgeColumnNames []string `toml:"age_column_names"`
	SexColumnNames []string `toml:"sex_column_names"`

	// Positional column selection, 1-based.
	IDColumn  int `toml:"id_column"`
	AgeColumn int `toml:"age_column"`
	SexColumn int `toml:"sex_column"`

	// SexConvention is "0=f,1=m" or "1=m,2=f". The numeric sex coding is a
	// property of the source and cannot be inferred from the data.
	SexConvention string `toml:"sex_convention"`
	// Header is "auto", "present", or "absent".
	Header string `toml:"header"`
	// FallbackDelimiter is used when inference over the source prefix is
	// inconclusive.
	FallbackDelimiter string `toml:"fallback_delimiter"`

	MinAge int `toml:"min_age"`
	MaxAge int `toml:"max_age"`
}

// Output configures the produced layout.
type Output struct {
	// Release is the tag appended to the rp1/rp2 directory names,
	// e.g. "_CAT12.9".
	Release string `toml:"release"`
	// Manifest records runs and per-subject outcomes in a SQLite file under
	// the output root.
	Manifest bool `toml:"manifest"`
}

// FakeLabels configures synthetic label generation.
type FakeLabels struct {
	Seed    uint64  `toml:"seed"`
	MeanAge float64 `toml:"mean_age"`
	StdAge  float64 `toml:"std_age"`
	MinAge  int     `toml:"min_age"`
	MaxAge  int     `toml:"max_age"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for brainprep.
type Config struct {
	Paths      Paths      `toml:"paths"`
	Labels     Labels     `toml:"labels"`
	Output     Output     `toml:"output"`
	FakeLabels FakeLabels `toml:"fake_labels"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/brainprep/config.toml")
}

// Load locates, parses, and validates a configuration file. Path fields come
// back expanded and normalized. A missing config file is not an error; the
// defaults apply.
func Load(path string) (*Config, string, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return &cfg, resolvedPath, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if strings.TrimSpace(path) != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		info, err := os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, fmt.Errorf("config file %s does not exist", expanded)
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		if info.IsDir() {
			return "", false, fmt.Errorf("config path %s is a directory", expanded)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(defaultPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaultPath, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	return defaultPath, true, nil
}

// WriteSample writes the embedded sample configuration to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file %s already exists", expanded)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(expanded, []byte(sampleConfig), 0o644)
}

// Render returns the effective configuration as TOML.
func (c *Config) Render() (string, error) {
	out, err := toml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("render config: %w", err)
	}
	return string(out), nil
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
