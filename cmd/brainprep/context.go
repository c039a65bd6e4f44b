package main

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"brainprep/internal/config"
	"brainprep/internal/logging"
)

type commandContext struct {
	configFlag *string
	rootFlag   *string
	outputFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag, rootFlag, outputFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		rootFlag:   rootFlag,
		outputFlag: outputFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := c.applyOverrides(cfg); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

// applyOverrides folds the persistent --root and --output flags into the
// loaded configuration. The flags always win over the config file.
func (c *commandContext) applyOverrides(cfg *config.Config) error {
	if c.rootFlag != nil && strings.TrimSpace(*c.rootFlag) != "" {
		abs, err := filepath.Abs(strings.TrimSpace(*c.rootFlag))
		if err != nil {
			return err
		}
		cfg.Paths.DataRoot = abs
	}
	if c.outputFlag != nil && strings.TrimSpace(*c.outputFlag) != "" {
		abs, err := filepath.Abs(strings.TrimSpace(*c.outputFlag))
		if err != nil {
			return err
		}
		cfg.Paths.OutputDir = abs
	}
	return nil
}

func (c *commandContext) logger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	outputs := []string{"stderr"}
	if dir := strings.TrimSpace(cfg.Paths.LogDir); dir != "" {
		outputs = append(outputs, filepath.Join(dir, "brainprep.log"))
	}
	return logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: outputs,
	})
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
