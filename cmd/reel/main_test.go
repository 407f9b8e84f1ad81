package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reel/internal/config"
	"reel/internal/history"
	"reel/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.OutputDir = filepath.Join(base, "out")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.HistoryDB = filepath.Join(base, "history.db")
	cfgVal.UI.StartDir = base

	cfg := &cfgVal
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()

	content := fmt.Sprintf(`[paths]
output_dir = %q
log_dir = %q
history_db = %q

[ui]
start_dir = %q
`, cfg.Paths.OutputDir, cfg.Paths.LogDir, cfg.Paths.HistoryDB, cfg.UI.StartDir)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootRequiresTerminal(t *testing.T) {
	if stdoutIsTerminal() {
		t.Skip("stdout is a terminal")
	}
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "terminal") {
		t.Fatalf("expected terminal requirement error, got %v", err)
	}
}

func TestConvertCommandNativeRun(t *testing.T) {
	env := setupCLITestEnv(t)
	source := testsupport.WriteVideoFile(t, env.baseDir, "clip.mkv", 4096)

	stdout, _, err := runCLI(t, env.configPath, "convert", source,
		"--to", "mp4", "--resolution", "720p", "--backend", "native")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	for _, want := range []string{"Converting clip.mkv to MP4", "Analyzing", "Completed"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("stdout missing %q:\n%s", want, stdout)
		}
	}

	outputPath := filepath.Join(env.cfg.Paths.OutputDir, "clip.mp4")
	if _, err := os.Stat(outputPath); err != nil {
		t.Fatalf("output file: %v", err)
	}

	store, err := history.Open(env.cfg)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer store.Close()
	records, err := store.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("history records = %d, want 1", len(records))
	}
	rec := records[0]
	if rec.Status != history.StatusCompleted {
		t.Fatalf("status = %s, want completed", rec.Status)
	}
	if rec.Backend != "native" {
		t.Fatalf("backend = %q, want native", rec.Backend)
	}
	if rec.OutputSize <= 0 {
		t.Fatalf("output size = %d, want > 0", rec.OutputSize)
	}
	if !strings.Contains(rec.Settings, "720p") {
		t.Fatalf("settings = %q, want 720p noted", rec.Settings)
	}
}

func TestConvertCommandRejectsUnknownFormat(t *testing.T) {
	env := setupCLITestEnv(t)
	source := testsupport.WriteVideoFile(t, env.baseDir, "clip.mkv", 512)

	_, _, err := runCLI(t, env.configPath, "convert", source, "--to", "flac")
	if err == nil || !strings.Contains(err.Error(), "unsupported format") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestConvertCommandRejectsUnknownBackend(t *testing.T) {
	env := setupCLITestEnv(t)
	source := testsupport.WriteVideoFile(t, env.baseDir, "clip.mkv", 512)

	_, _, err := runCLI(t, env.configPath, "convert", source, "--backend", "turbo")
	if err == nil || !strings.Contains(err.Error(), "unknown backend") {
		t.Fatalf("expected unknown backend error, got %v", err)
	}
}

func TestConvertCommandMissingSource(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env.configPath, "convert", filepath.Join(env.baseDir, "absent.mkv"))
	if err == nil {
		t.Fatalf("expected an error for a missing source")
	}
}
