package main

import (
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunHelp - Command help
// ---------------------------------------------------------------------------

func TestRunHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no command", nil, "Commands:"},
		{"render", []string{"render"}, "Usage: leet2tex render <slug>..."},
		{"media", []string{"media"}, "-o, --output <path>       Output .zip file (required)"},
		{"serve", []string{"serve"}, "POST /api/content/process-content"},
		{"doctor", []string{"doctor"}, "Usage: leet2tex doctor"},
		{"version", []string{"version"}, "Usage: leet2tex version"},
		{"help", []string{"help"}, "Usage: leet2tex help [command]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, _ := testEnv(t)
			if err := runHelp(tt.args, env); err != nil {
				t.Fatalf("runHelp(%v) error = %v", tt.args, err)
			}
			if !strings.Contains(stdout.String(), tt.want) {
				t.Errorf("help should contain %q, got:\n%s", tt.want, stdout.String())
			}
		})
	}
}

func TestRunHelp_UnknownCommand(t *testing.T) {
	t.Parallel()

	env, stdout, stderr := testEnv(t)
	err := runHelp([]string{"compile"}, env)

	if !errors.Is(err, ErrUsage) {
		t.Errorf("runHelp() error = %v, want ErrUsage", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout should be empty, got %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "Commands:") {
		t.Errorf("stderr should contain usage, got %q", stderr.String())
	}
}

// ---------------------------------------------------------------------------
// TestHelp_EnvironmentListsKnownVariables - Help stays in sync with env vars
// ---------------------------------------------------------------------------

func TestHelp_EnvironmentListsKnownVariables(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	printEnvironment(&b)

	for name := range knownEnvVars {
		if name == "LEET2TEX_CONTAINER" {
			continue // doctor override, not a setting
		}
		if !strings.Contains(b.String(), name) {
			t.Errorf("environment help is missing %s", name)
		}
	}
}
