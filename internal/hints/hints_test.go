package hints

// Notes:
// - ForConverterNotFound and ForCredentials tests cannot use t.Parallel()
//   because they:
//   1. Use t.Setenv() which modifies process environment
//   2. Modify the package-level IsInContainer variable
// These are acceptable gaps: we test observable behavior through environment manipulation.

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestForConverterNotFound
// ---------------------------------------------------------------------------

func TestForConverterNotFound_OnHost(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()
	IsInContainer = func() bool { return false }

	hint := ForConverterNotFound()

	if !strings.Contains(hint, "install pandoc") {
		t.Errorf("expected install suggestion, got %q", hint)
	}
	if !strings.Contains(hint, "--converter goldmark") {
		t.Errorf("expected goldmark suggestion, got %q", hint)
	}
}

func TestForConverterNotFound_InContainer(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()
	IsInContainer = func() bool { return true }

	hint := ForConverterNotFound()

	if strings.Contains(hint, "install pandoc") {
		t.Errorf("install suggestion in container: %q", hint)
	}
	if !strings.Contains(hint, "--converter goldmark") {
		t.Errorf("expected goldmark suggestion, got %q", hint)
	}
}

// ---------------------------------------------------------------------------
// TestForCredentials
// ---------------------------------------------------------------------------

func TestForCredentials(t *testing.T) {
	tests := []struct {
		name      string
		session   string
		csrf      string
		contains  []string
		wantEmpty bool
	}{
		{
			name:     "nothing set",
			contains: []string{"LEET2TEX_SESSION", "LEET2TEX_CSRF_TOKEN"},
		},
		{
			name:     "session set",
			session:  "s",
			contains: []string{"LEET2TEX_CSRF_TOKEN"},
		},
		{
			name:      "both set",
			session:   "s",
			csrf:      "c",
			wantEmpty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LEET2TEX_SESSION", tt.session)
			t.Setenv("LEET2TEX_CSRF_TOKEN", tt.csrf)

			hint := ForCredentials()
			if tt.wantEmpty {
				if hint != "" {
					t.Errorf("expected no hint, got %q", hint)
				}
				return
			}
			for _, want := range tt.contains {
				if !strings.Contains(hint, want) {
					t.Errorf("hint %q missing %q", hint, want)
				}
			}
			if tt.session != "" && strings.Contains(hint, "LEET2TEX_SESSION") {
				t.Errorf("suggested a variable that is set: %q", hint)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestForTimeout / TestForConfigNotFound / TestForOutputDirectory
// ---------------------------------------------------------------------------

func TestForTimeout(t *testing.T) {
	t.Parallel()

	hint := ForTimeout()
	if !strings.HasPrefix(hint, "\n  hint: ") || !strings.Contains(hint, "--timeout") {
		t.Errorf("ForTimeout() = %q", hint)
	}
}

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		paths    []string
		contains string
		excludes string
	}{
		{
			name:     "suggests user config path",
			paths:    []string{"work.yaml", "/home/u/.config/go-leet2tex/work.yaml"},
			contains: "or create /home/u/.config/go-leet2tex/work.yaml",
		},
		{
			name:     "flag only without user path",
			paths:    []string{"work.yaml"},
			contains: "--config",
			excludes: "or create",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hint := ForConfigNotFound(tt.paths)
			if !strings.Contains(hint, tt.contains) {
				t.Errorf("hint %q missing %q", hint, tt.contains)
			}
			if tt.excludes != "" && strings.Contains(hint, tt.excludes) {
				t.Errorf("hint %q contains %q", hint, tt.excludes)
			}
		})
	}
}

func TestForOutputDirectory(t *testing.T) {
	t.Parallel()

	if hint := ForOutputDirectory(); !strings.Contains(hint, "writable") {
		t.Errorf("ForOutputDirectory() = %q", hint)
	}
}

// ---------------------------------------------------------------------------
// TestFormat_Consistency
// ---------------------------------------------------------------------------

func TestFormat_Consistency(t *testing.T) {
	t.Parallel()

	if format("") != "" {
		t.Error("format(\"\") should be empty")
	}
	if formatHints(nil) != "" {
		t.Error("formatHints(nil) should be empty")
	}
	if got := formatHints([]string{"a", "b"}); got != "\n  hint: a; b" {
		t.Errorf("formatHints() = %q", got)
	}
}
