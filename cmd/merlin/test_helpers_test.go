package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"merlin/internal/caption"
	"merlin/internal/config"
	"merlin/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	configPath := filepath.Join(homeDir, ".config", "merlin", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
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

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nwork_dir = %q\n\n[tools]\nffmpeg = %q\nffprobe = %q\nwhisper = %q\n\n[whisper]\ntick_interval_ms = %d\n\n[logging]\nlevel = \"error\"\n",
		cfg.Paths.WorkDir,
		cfg.Tools.FFmpeg,
		cfg.Tools.FFprobe,
		cfg.Tools.Whisper,
		cfg.Whisper.TickIntervalMS,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func writeTranscript(t *testing.T, path string) {
	t.Helper()
	transcript := caption.Transcript{Words: []caption.Word{
		{Text: "one", Start: 0.0, End: 0.4, Confidence: 1},
		{Text: "two", Start: 0.5, End: 0.9, Confidence: 1},
		{Text: "three", Start: 1.0, End: 1.4, Confidence: 1},
		{Text: "{four}", Start: 1.5, End: 1.9, Confidence: 1},
		{Text: "five", Start: 2.0, End: 2.4, Confidence: 1},
		{Text: "six", Start: 2.5, End: 3.0, Confidence: 1},
	}}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir transcript dir: %v", err)
	}
	if err := transcript.WriteFile(path); err != nil {
		t.Fatalf("write transcript: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
