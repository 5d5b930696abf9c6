package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/alnah/go-leet2tex/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxURLLength        = 2048
	MaxCredentialLength = 4096 // session cookies are long JWTs
	MaxLanguageLength   = 32
	MaxPathLength       = 4096
	MaxAddrLength       = 256
)

// Converter backends.
const (
	BackendPandoc   = "pandoc"
	BackendGoldmark = "goldmark"
)

// Defaults applied by DefaultConfig.
const (
	DefaultLanguage = "java"
	DefaultTimeout  = "30s"
	DefaultAddr     = ":8080"
	DefaultLogMode  = "dev"
)

// userConfigDirName is the directory below os.UserConfigDir searched for
// named configs.
const userConfigDirName = "go-leet2tex"

// Config holds all configuration for rendering and serving.
type Config struct {
	LeetCode  LeetCodeConfig  `yaml:"leetcode"`
	Converter ConverterConfig `yaml:"converter"`
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
}

// LeetCodeConfig defines the content source.
type LeetCodeConfig struct {
	GraphQLURL   string `yaml:"graphqlURL"`   // Empty = https://leetcode.com/graphql
	DocumentsURL string `yaml:"documentsURL"` // Slide-deck JSON base
	ImagesURL    string `yaml:"imagesURL"`    // Figure image base
	Session      string `yaml:"session"`      // LEETCODE_SESSION cookie
	CSRFToken    string `yaml:"csrfToken"`
	Language     string `yaml:"language"` // Playground language kept in listings
	Timeout      string `yaml:"timeout"`  // Per-request, Go duration syntax
}

// ConverterConfig defines the Markdown/HTML to LaTeX backend.
type ConverterConfig struct {
	Backend    string `yaml:"backend"`    // "pandoc" (default) or "goldmark"
	PandocPath string `yaml:"pandocPath"` // Empty = pandoc on PATH
	Timeout    string `yaml:"timeout"`
}

// ServerConfig defines the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig defines log output.
type LogConfig struct {
	Mode string `yaml:"mode"` // "dev" or "prod"
}

// DefaultConfig returns a configuration that talks to leetcode.com through
// pandoc, without credentials.
func DefaultConfig() *Config {
	return &Config{
		LeetCode: LeetCodeConfig{
			Language: DefaultLanguage,
			Timeout:  DefaultTimeout,
		},
		Converter: ConverterConfig{
			Backend: BackendPandoc,
			Timeout: DefaultTimeout,
		},
		Server: ServerConfig{Addr: DefaultAddr},
		Log:    LogConfig{Mode: DefaultLogMode},
	}
}

// Validate checks lengths, enumerations and durations.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	for _, f := range []struct {
		name, value string
	}{
		{"leetcode.graphqlURL", c.LeetCode.GraphQLURL},
		{"leetcode.documentsURL", c.LeetCode.DocumentsURL},
		{"leetcode.imagesURL", c.LeetCode.ImagesURL},
	} {
		if err := validateURL(f.name, f.value); err != nil {
			return err
		}
	}

	if err := validateFieldLength("leetcode.session", c.LeetCode.Session, MaxCredentialLength); err != nil {
		return err
	}
	if err := validateFieldLength("leetcode.csrfToken", c.LeetCode.CSRFToken, MaxCredentialLength); err != nil {
		return err
	}
	if err := ValidateLanguage(c.LeetCode.Language); err != nil {
		return err
	}
	if err := validateDuration("leetcode.timeout", c.LeetCode.Timeout); err != nil {
		return err
	}

	if c.Converter.Backend != "" {
		switch c.Converter.Backend {
		case BackendPandoc, BackendGoldmark:
			// valid
		default:
			return fmt.Errorf("%w: converter.backend %q (must be %s or %s)", ErrInvalidValue, c.Converter.Backend, BackendPandoc, BackendGoldmark)
		}
	}
	if err := validateFieldLength("converter.pandocPath", c.Converter.PandocPath, MaxPathLength); err != nil {
		return err
	}
	if err := validateDuration("converter.timeout", c.Converter.Timeout); err != nil {
		return err
	}

	if err := validateFieldLength("server.addr", c.Server.Addr, MaxAddrLength); err != nil {
		return err
	}

	if c.Log.Mode != "" {
		switch strings.ToLower(c.Log.Mode) {
		case "dev", "prod":
			// valid
		default:
			return fmt.Errorf("%w: log.mode %q (must be dev or prod)", ErrInvalidValue, c.Log.Mode)
		}
	}

	return nil
}

// ValidateLanguage accepts an empty value or a playground language slug the
// chroma lexer registry knows (java, python3, cpp, golang, ...).
func ValidateLanguage(lang string) error {
	if lang == "" {
		return nil
	}
	if err := validateFieldLength("leetcode.language", lang, MaxLanguageLength); err != nil {
		return err
	}
	if lexers.Get(lang) == nil {
		return fmt.Errorf("%w: leetcode.language %q is not a known programming language", ErrInvalidValue, lang)
	}
	return nil
}

// LeetCodeTimeout returns the parsed request timeout, or zero when unset.
func (c *Config) LeetCodeTimeout() time.Duration {
	d, _ := time.ParseDuration(c.LeetCode.Timeout)
	return d
}

// ConverterTimeout returns the parsed converter timeout, or zero when unset.
func (c *Config) ConverterTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Converter.Timeout)
	return d
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

func validateURL(fieldName, value string) error {
	if value == "" {
		return nil
	}
	if err := validateFieldLength(fieldName, value, MaxURLLength); err != nil {
		return err
	}
	if !fileutil.IsURL(value) {
		return fmt.Errorf("%w: %s must be an http(s) URL, got %q", ErrInvalidValue, fieldName, value)
	}
	return nil
}

func validateDuration(fieldName, value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%w: %s %q: %v", ErrInvalidValue, fieldName, value, err)
	}
	if d <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidValue, fieldName, value)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name on top of
// DefaultConfig. If nameOrPath contains a path separator, it's treated as a
// file path. Otherwise, it's treated as a config name and searched in
// standard locations. Returns error if the file is not found (no silent
// fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := unmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-leet2tex/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, userConfigDirName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
