package main

import (
	"strings"
	"testing"
)

func TestBackendsCommandForcedSimulated(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, err := runCLI(t, env.configPath, "--simulate", "backends")
	if err != nil {
		t.Fatalf("backends: %v", err)
	}

	for _, want := range []string{
		"Simulated",
		"always available",
		"selected",
		"skipped: simulated mode forced",
		"Output directory",
	} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("stdout missing %q:\n%s", want, stdout)
		}
	}
}

func TestBackendsCommandListsAllKinds(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, err := runCLI(t, env.configPath, "backends")
	if err != nil {
		t.Fatalf("backends: %v", err)
	}
	for _, want := range []string{"Native", "FFmpeg", "Simulated"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("stdout missing %q:\n%s", want, stdout)
		}
	}
}
