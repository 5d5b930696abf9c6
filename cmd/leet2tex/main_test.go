package main

// Notes:
// - runMain: commands run against an in-memory source and an identity
//   converter; nothing touches the network or pandoc.
// - serve is covered with an already-canceled context, which makes the
//   server shut down right after it starts listening.
// - Tests read LEET2TEX_* from the process environment; they assume none
//   are set on the host.

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunMain - Command dispatch and output
// ---------------------------------------------------------------------------

func TestRunMain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		args         []string
		wantCode     int
		wantInStdout []string
		wantInStderr []string
	}{
		{
			name:         "no args shows usage",
			args:         []string{"leet2tex"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"Usage: leet2tex"},
		},
		{
			name:         "version",
			args:         []string{"leet2tex", "version"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"leet2tex dev"},
		},
		{
			name:         "help",
			args:         []string{"leet2tex", "help"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"Usage: leet2tex", "Commands:"},
		},
		{
			name:         "help render",
			args:         []string{"leet2tex", "help", "render"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"Usage: leet2tex render"},
		},
		{
			name:         "render --help",
			args:         []string{"leet2tex", "render", "--help"},
			wantCode:     ExitSuccess,
			wantInStderr: []string{"Usage: leet2tex render"},
		},
		{
			name:         "unknown command",
			args:         []string{"leet2tex", "compile"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"unknown command: compile"},
		},
		{
			name:         "render to stdout",
			args:         []string{"leet2tex", "render", "two-sum"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{`\subsection{Two Sum}`, "{images/two-sum/1.png}"},
		},
		{
			name:         "render without slugs",
			args:         []string{"leet2tex", "render"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"error: at least one question slug is required"},
		},
		{
			name:         "render invalid slug",
			args:         []string{"leet2tex", "render", "Two Sum"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"invalid question slug"},
		},
		{
			name:         "render invalid timeout",
			args:         []string{"leet2tex", "render", "two-sum", "--timeout", "soon"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"leetcode.timeout"},
		},
		{
			name:         "render unknown flag",
			args:         []string{"leet2tex", "render", "two-sum", "--pdf"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"invalid usage"},
		},
		{
			name:         "media without output",
			args:         []string{"leet2tex", "media", "two-sum"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"output path is required"},
		},
		{
			name:         "missing config file",
			args:         []string{"leet2tex", "render", "two-sum", "-c", "./nope.yaml"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"config file not found", "hint:"},
		},
		{
			name:         "serve rejects arguments",
			args:         []string{"leet2tex", "serve", "extra"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"serve takes no arguments"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv(t)
			code := runMain(context.Background(), tt.args, env)

			if code != tt.wantCode {
				t.Errorf("runMain(%v) = %d, want %d\nstderr: %s", tt.args, code, tt.wantCode, stderr.String())
			}
			for _, want := range tt.wantInStdout {
				if !strings.Contains(stdout.String(), want) {
					t.Errorf("stdout should contain %q, got %q", want, stdout.String())
				}
			}
			for _, want := range tt.wantInStderr {
				if !strings.Contains(stderr.String(), want) {
					t.Errorf("stderr should contain %q, got %q", want, stderr.String())
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_Files - Output written to disk
// ---------------------------------------------------------------------------

func TestRunMain_Files(t *testing.T) {
	t.Parallel()

	t.Run("render to file", func(t *testing.T) {
		t.Parallel()

		env, stdout, stderr := testEnv(t)
		out := filepath.Join(t.TempDir(), "problems.tex")

		code := runMain(context.Background(), []string{"leet2tex", "render", "two-sum", "-o", out}, env)
		if code != ExitSuccess {
			t.Fatalf("runMain() = %d, stderr: %s", code, stderr.String())
		}

		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("reading output: %v", err)
		}
		if !strings.HasPrefix(string(data), `\subsection{Two Sum}`) {
			t.Errorf("output = %q", data)
		}
		if stdout.Len() != 0 {
			t.Errorf("stdout should be empty, got %q", stdout.String())
		}
		if !strings.Contains(stderr.String(), "Rendered 1 problem(s)") {
			t.Errorf("stderr should contain summary, got %q", stderr.String())
		}
	})

	t.Run("quiet suppresses summary", func(t *testing.T) {
		t.Parallel()

		env, _, stderr := testEnv(t)
		out := filepath.Join(t.TempDir(), "problems.tex")

		code := runMain(context.Background(), []string{"leet2tex", "render", "two-sum", "-o", out, "-q"}, env)
		if code != ExitSuccess {
			t.Fatalf("runMain() = %d, stderr: %s", code, stderr.String())
		}
		if stderr.Len() != 0 {
			t.Errorf("stderr should be empty, got %q", stderr.String())
		}
	})

	t.Run("missing output directory", func(t *testing.T) {
		t.Parallel()

		env, _, stderr := testEnv(t)
		out := filepath.Join(t.TempDir(), "nope", "problems.tex")

		code := runMain(context.Background(), []string{"leet2tex", "render", "two-sum", "-o", out}, env)
		if code != ExitIO {
			t.Errorf("runMain() = %d, want %d", code, ExitIO)
		}
		if !strings.Contains(stderr.String(), "hint:") {
			t.Errorf("stderr should contain a hint, got %q", stderr.String())
		}
	})

	t.Run("media archive", func(t *testing.T) {
		t.Parallel()

		env, _, stderr := testEnv(t)
		out := filepath.Join(t.TempDir(), "figures.zip")

		code := runMain(context.Background(), []string{"leet2tex", "media", "two-sum", "missing", "-o", out}, env)
		if code != ExitSuccess {
			t.Fatalf("runMain() = %d, stderr: %s", code, stderr.String())
		}

		zr, err := zip.OpenReader(out)
		if err != nil {
			t.Fatalf("zip.OpenReader() error = %v", err)
		}
		defer zr.Close()

		var names []string
		for _, f := range zr.File {
			names = append(names, f.Name)
		}
		if len(names) != 1 || names[0] != "images/two-sum/1.png" {
			t.Errorf("entries = %v, want [images/two-sum/1.png]", names)
		}
	})

	t.Run("media to stdout", func(t *testing.T) {
		t.Parallel()

		env, stdout, stderr := testEnv(t)

		code := runMain(context.Background(), []string{"leet2tex", "media", "two-sum", "-o", "-"}, env)
		if code != ExitSuccess {
			t.Fatalf("runMain() = %d, stderr: %s", code, stderr.String())
		}
		if !bytes.HasPrefix(stdout.Bytes(), []byte("PK")) {
			t.Errorf("stdout is not a ZIP archive: %q", stdout.Bytes())
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunMain_Converter - Backend resolution
// ---------------------------------------------------------------------------

func TestRunMain_Converter(t *testing.T) {
	t.Parallel()

	t.Run("pandoc missing", func(t *testing.T) {
		t.Parallel()

		env, _, stderr := testEnv(t)
		env.Converter = nil

		code := runMain(context.Background(), []string{"leet2tex", "render", "two-sum"}, env)
		if code != ExitConverter {
			t.Errorf("runMain() = %d, want %d", code, ExitConverter)
		}
		if !strings.Contains(stderr.String(), "--converter goldmark") {
			t.Errorf("stderr should suggest goldmark, got %q", stderr.String())
		}
	})

	t.Run("goldmark backend", func(t *testing.T) {
		t.Parallel()

		env, stdout, stderr := testEnv(t)
		env.Converter = nil

		code := runMain(context.Background(), []string{"leet2tex", "render", "two-sum", "--converter", "goldmark"}, env)
		if code != ExitSuccess {
			t.Fatalf("runMain() = %d, stderr: %s", code, stderr.String())
		}
		if !strings.Contains(stdout.String(), "Find two numbers.") {
			t.Errorf("stdout = %q", stdout.String())
		}
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv(t)

		code := runMain(context.Background(), []string{"leet2tex", "render", "two-sum", "--converter", "latexml"}, env)
		if code != ExitUsage {
			t.Errorf("runMain() = %d, want %d", code, ExitUsage)
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunServe - Shutdown on cancellation
// ---------------------------------------------------------------------------

func TestRunServe_CanceledContext(t *testing.T) {
	t.Parallel()

	env, _, stderr := testEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	code := runMain(ctx, []string{"leet2tex", "serve", "--addr", "127.0.0.1:0", "-q"}, env)
	if code != ExitSuccess {
		t.Errorf("runMain() = %d, want %d\nstderr: %s", code, ExitSuccess, stderr.String())
	}
}
