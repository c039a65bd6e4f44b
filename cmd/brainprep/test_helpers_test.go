package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"brainprep/internal/testsupport"
)

type cliTestEnv struct {
	baseDir      string
	configPath   string
	patientsRoot string
	controlsRoot string
	outputRoot   string
	labelPath    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	patients := filepath.Join(base, "T1_CAT12")
	controls := filepath.Join(base, "T1_CAT12_Kontrollen")
	for _, dir := range []string{patients, controls} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	testsupport.WriteSubject(t, patients, "P001", false)
	testsupport.WriteSubject(t, patients, "P002", true)
	testsupport.WriteSubject(t, controls, "K001", false)

	labelPath := testsupport.WriteLabelSource(t, base, "labels.csv",
		"id;name;age;sex\n"+
			"P001;alpha;63,2;m\n"+
			"P002;beta;71;w\n"+
			"K001;gamma;58;f\n")

	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(
		"[paths]\ndata_root = %q\nlog_dir = %q\n\n[labels]\nsource = %q\n\n[logging]\nlevel = %q\n",
		base,
		filepath.Join(base, "logs"),
		labelPath,
		"error",
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{
		baseDir:      base,
		configPath:   configPath,
		patientsRoot: patients,
		controlsRoot: controls,
		outputRoot:   filepath.Join(base, "for_brainage"),
		labelPath:    labelPath,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
