package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alnah/go-leet2tex/internal/config"
)

// envPrefix namespaces every environment variable the CLI reads.
const envPrefix = "LEET2TEX_"

// envConfig holds configuration from environment variables.
// Credentials belong here rather than in a committed config file.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string // LEET2TEX_CONFIG: config file name or path
	Session    string // LEET2TEX_SESSION: LEETCODE_SESSION cookie
	CSRFToken  string // LEET2TEX_CSRF_TOKEN: csrftoken cookie

	// Tier 2 - Pipeline
	Converter string // LEET2TEX_CONVERTER: pandoc or goldmark
	Language  string // LEET2TEX_LANGUAGE: playground language
	Timeout   string // LEET2TEX_TIMEOUT: request and conversion timeout

	// Tier 3 - Server
	Addr    string // LEET2TEX_ADDR: listen address
	LogMode string // LEET2TEX_LOG_MODE: dev or prod
}

// knownEnvVars lists valid LEET2TEX_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"LEET2TEX_CONFIG":     true,
	"LEET2TEX_SESSION":    true,
	"LEET2TEX_CSRF_TOKEN": true,
	"LEET2TEX_CONVERTER":  true,
	"LEET2TEX_LANGUAGE":   true,
	"LEET2TEX_TIMEOUT":    true,
	"LEET2TEX_ADDR":       true,
	"LEET2TEX_LOG_MODE":   true,
	"LEET2TEX_CONTAINER":  true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	return &envConfig{
		ConfigPath: os.Getenv("LEET2TEX_CONFIG"),
		Session:    os.Getenv("LEET2TEX_SESSION"),
		CSRFToken:  os.Getenv("LEET2TEX_CSRF_TOKEN"),
		Converter:  os.Getenv("LEET2TEX_CONVERTER"),
		Language:   os.Getenv("LEET2TEX_LANGUAGE"),
		Timeout:    os.Getenv("LEET2TEX_TIMEOUT"),
		Addr:       os.Getenv("LEET2TEX_ADDR"),
		LogMode:    os.Getenv("LEET2TEX_LOG_MODE"),
	}
}

// warnUnknownEnvVars writes a warning for every unrecognized LEET2TEX_*
// variable, e.g. LEET2TEX_CSRF instead of LEET2TEX_CSRF_TOKEN.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig overrides config file values with every variable that is
// set. CLI flags are applied afterwards and win over both.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Session != "" {
		cfg.LeetCode.Session = env.Session
	}
	if env.CSRFToken != "" {
		cfg.LeetCode.CSRFToken = env.CSRFToken
	}
	if env.Converter != "" {
		cfg.Converter.Backend = env.Converter
	}
	if env.Language != "" {
		cfg.LeetCode.Language = env.Language
	}
	if env.Timeout != "" {
		cfg.LeetCode.Timeout = env.Timeout
		cfg.Converter.Timeout = env.Timeout
	}
	if env.Addr != "" {
		cfg.Server.Addr = env.Addr
	}
	if env.LogMode != "" {
		cfg.Log.Mode = env.LogMode
	}
}
