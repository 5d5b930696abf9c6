package config

// Notes:
// - Tests in this file do not call t.Parallel(): name resolution changes the
//   working directory and HOME/XDG_CONFIG_HOME.
// - Language validation goes through the chroma lexer registry; the cases
//   below use LeetCode's own langSlug values.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// TestDefaultConfig
// ---------------------------------------------------------------------------

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LeetCode.Language != DefaultLanguage {
		t.Errorf("LeetCode.Language = %q, want %q", cfg.LeetCode.Language, DefaultLanguage)
	}
	if cfg.Converter.Backend != BackendPandoc {
		t.Errorf("Converter.Backend = %q, want %q", cfg.Converter.Backend, BackendPandoc)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, DefaultAddr)
	}
	if cfg.LeetCode.Session != "" || cfg.LeetCode.CSRFToken != "" {
		t.Error("default config carries credentials")
	}
	if got := cfg.LeetCodeTimeout(); got != 30*time.Second {
		t.Errorf("LeetCodeTimeout() = %v, want 30s", got)
	}
	if got := cfg.ConverterTimeout(); got != 30*time.Second {
		t.Errorf("ConverterTimeout() = %v, want 30s", got)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestConfig_Validate
// ---------------------------------------------------------------------------

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{
			name:   "defaults valid",
			mutate: func(c *Config) {},
		},
		{
			name:   "goldmark backend",
			mutate: func(c *Config) { c.Converter.Backend = BackendGoldmark },
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Converter.Backend = "latexml" },
			wantErr: ErrInvalidValue,
		},
		{
			name:   "python3 language",
			mutate: func(c *Config) { c.LeetCode.Language = "python3" },
		},
		{
			name:   "golang language",
			mutate: func(c *Config) { c.LeetCode.Language = "golang" },
		},
		{
			name:    "unknown language",
			mutate:  func(c *Config) { c.LeetCode.Language = "klingon-script" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "language too long",
			mutate:  func(c *Config) { c.LeetCode.Language = strings.Repeat("j", MaxLanguageLength+1) },
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "graphql URL not http",
			mutate:  func(c *Config) { c.LeetCode.GraphQLURL = "ftp://leetcode.com/graphql" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "images URL too long",
			mutate:  func(c *Config) { c.LeetCode.ImagesURL = "https://" + strings.Repeat("a", MaxURLLength) },
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "bad duration",
			mutate:  func(c *Config) { c.LeetCode.Timeout = "soon" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "negative converter timeout",
			mutate:  func(c *Config) { c.Converter.Timeout = "-1s" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "unknown log mode",
			mutate:  func(c *Config) { c.Log.Mode = "loud" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "session too long",
			mutate:  func(c *Config) { c.LeetCode.Session = strings.Repeat("s", MaxCredentialLength+1) },
			wantErr: ErrFieldTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestLoadConfig
// ---------------------------------------------------------------------------

func TestLoadConfig(t *testing.T) {
	t.Run("empty name returns ErrEmptyConfigName", func(t *testing.T) {
		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("valid file path loads on top of defaults", func(t *testing.T) {
		configPath := writeConfig(t, t.TempDir(), "test.yaml", `leetcode:
  session: "sess"
  csrfToken: "csrf"
  language: "cpp"
converter:
  backend: goldmark
`)

		cfg, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.LeetCode.Session != "sess" || cfg.LeetCode.CSRFToken != "csrf" {
			t.Errorf("credentials = %q/%q", cfg.LeetCode.Session, cfg.LeetCode.CSRFToken)
		}
		if cfg.LeetCode.Language != "cpp" {
			t.Errorf("Language = %q, want cpp", cfg.LeetCode.Language)
		}
		if cfg.Converter.Backend != BackendGoldmark {
			t.Errorf("Backend = %q, want goldmark", cfg.Converter.Backend)
		}
		if cfg.Server.Addr != DefaultAddr {
			t.Errorf("Server.Addr = %q, default not kept", cfg.Server.Addr)
		}
	})

	t.Run("nonexistent file path returns ErrConfigNotFound", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/path/config.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid YAML returns ErrConfigParse", func(t *testing.T) {
		configPath := writeConfig(t, t.TempDir(), "invalid.yaml", "leetcode: [unclosed")

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("unknown field returns ErrConfigParse in strict mode", func(t *testing.T) {
		configPath := writeConfig(t, t.TempDir(), "unknown.yaml", "leetcode:\n  sesion: typo\n")

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("empty file returns ErrConfigParse", func(t *testing.T) {
		configPath := writeConfig(t, t.TempDir(), "empty.yaml", "")

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid value fails validation", func(t *testing.T) {
		configPath := writeConfig(t, t.TempDir(), "bad.yaml", "converter:\n  backend: word\n")

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("error = %v, want ErrInvalidValue", err)
		}
	})

	t.Run("config name resolves yaml in current directory", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "myconfig.yaml", "server:\n  addr: \":9090\"\n")
		t.Chdir(dir)

		cfg, err := LoadConfig("myconfig")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Server.Addr != ":9090" {
			t.Errorf("Server.Addr = %q, want :9090", cfg.Server.Addr)
		}
	})

	t.Run("config name resolves yml in user config directory", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
		t.Setenv("AppData", filepath.Join(home, "AppData"))
		t.Chdir(t.TempDir())

		userDir, err := os.UserConfigDir()
		if err != nil {
			t.Skipf("no user config dir: %v", err)
		}
		dir := filepath.Join(userDir, userConfigDirName)
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("setup: %v", err)
		}
		writeConfig(t, dir, "work.yml", "log:\n  mode: prod\n")

		cfg, err := LoadConfig("work")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Log.Mode != "prod" {
			t.Errorf("Log.Mode = %q, want prod", cfg.Log.Mode)
		}
	})

	t.Run("unknown name lists searched paths", func(t *testing.T) {
		t.Chdir(t.TempDir())

		_, err := LoadConfig("nothing-here")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("error = %v, want ErrConfigNotFound", err)
		}
		if !strings.Contains(err.Error(), "nothing-here.yaml") {
			t.Errorf("error does not list tried paths: %v", err)
		}
	})
}

func TestUnmarshalStrict_SizeLimit(t *testing.T) {
	data := []byte("log:\n  mode: " + strings.Repeat("x", MaxInputSize) + "\n")

	var cfg Config
	if err := unmarshalStrict(data, &cfg); !errors.Is(err, errInputTooLarge) {
		t.Errorf("unmarshalStrict() = %v, want errInputTooLarge", err)
	}
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}
