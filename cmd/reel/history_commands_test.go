package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"reel/internal/history"
)

func seedHistoryRecord(t *testing.T, env *cliTestEnv) {
	t.Helper()

	store, err := history.Open(env.cfg)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer store.Close()

	now := time.Now().UTC()
	rec := &history.Record{
		JobID:      "job-test",
		SourcePath: "/videos/holiday.mkv",
		OutputPath: "/videos/out/holiday.mp4",
		Format:     "mp4",
		Settings:   "1080p / Auto / Original",
		Backend:    "simulated",
		Status:     history.StatusCompleted,
		SourceSize: 1 << 20,
		OutputSize: 1 << 19,
		StartedAt:  now.Add(-time.Minute),
		FinishedAt: now,
	}
	if err := store.Add(context.Background(), rec); err != nil {
		t.Fatalf("add record: %v", err)
	}
}

func TestHistoryListEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, err := runCLI(t, env.configPath, "history", "list")
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	if !strings.Contains(stdout, "No conversions recorded yet.") {
		t.Fatalf("unexpected output:\n%s", stdout)
	}
}

func TestHistoryListShowsRecords(t *testing.T) {
	env := setupCLITestEnv(t)
	seedHistoryRecord(t, env)

	stdout, _, err := runCLI(t, env.configPath, "history", "list")
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	for _, want := range []string{"holiday.mkv", "mp4", "simulated", "completed"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("stdout missing %q:\n%s", want, stdout)
		}
	}
}

func TestHistoryClearRemovesRecords(t *testing.T) {
	env := setupCLITestEnv(t)
	seedHistoryRecord(t, env)

	stdout, _, err := runCLI(t, env.configPath, "history", "clear")
	if err != nil {
		t.Fatalf("history clear: %v", err)
	}
	if !strings.Contains(stdout, "Removed 1 history record(s)") {
		t.Fatalf("unexpected output:\n%s", stdout)
	}

	stdout, _, err = runCLI(t, env.configPath, "history", "list")
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	if !strings.Contains(stdout, "No conversions recorded yet.") {
		t.Fatalf("clear left records behind:\n%s", stdout)
	}
}
