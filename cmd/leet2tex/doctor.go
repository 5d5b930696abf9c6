package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/alnah/go-leet2tex/internal/config"
	"github.com/alnah/go-leet2tex/internal/pipeline"
)

// errDoctorFailed reports that at least one check produced an error.
var errDoctorFailed = errors.New("doctor found errors")

// versionTimeout bounds `pandoc --version`.
const versionTimeout = 5 * time.Second

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status      string          `json:"status"` // "ready", "warnings", "errors"
	Converter   converterInfo   `json:"converter"`
	Credentials credentialsInfo `json:"credentials"`
	Env         envInfo         `json:"environment"`
	System      systemInfo      `json:"system"`
	Warnings    []string        `json:"warnings,omitempty"`
	Errors      []string        `json:"errors,omitempty"`
}

// converterInfo holds LaTeX backend detection results.
type converterInfo struct {
	Backend string `json:"backend"`
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// credentialsInfo reports which LeetCode cookies are configured. Values are
// never printed.
type credentialsInfo struct {
	Session   bool `json:"session"`
	CSRFToken bool `json:"csrf_token"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command. Warnings still succeed.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) error {
	f, err := parseDoctorFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(f.common, pipelineFlags{}, env)
	if err != nil {
		return err
	}

	result := runDoctor(ctx, cfg, env)

	if f.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return errDoctorFailed
	}
	return nil
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, cfg *config.Config, env *Environment) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
	}

	checkConverter(ctx, result, cfg, env)
	checkCredentials(result, cfg)
	checkEnvironment(result)
	checkSystem(result)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkConverter locates pandoc and reads its version. The goldmark backend
// is built in and always available.
func checkConverter(ctx context.Context, result *doctorResult, cfg *config.Config, env *Environment) {
	result.Converter.Backend = cfg.Converter.Backend
	if cfg.Converter.Backend == config.BackendGoldmark {
		result.Converter.Found = true
		return
	}

	path, err := resolvePandoc(cfg, env)
	if err != nil {
		result.Errors = append(result.Errors,
			"pandoc not found. Install pandoc or set converter.backend to goldmark")
		return
	}
	result.Converter.Found = true
	result.Converter.Path = path

	runCtx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()
	runner := &pipeline.ExecRunner{}
	stdout, _, err := runner.Run(runCtx, "", path, "--version")
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get pandoc version: %v", err))
		return
	}
	first, _, _ := strings.Cut(stdout, "\n")
	result.Converter.Version = strings.TrimSpace(first)
}

// checkCredentials warns when cookies are missing. Free problems render
// without them; premium solutions come back empty.
func checkCredentials(result *doctorResult, cfg *config.Config) {
	result.Credentials.Session = cfg.LeetCode.Session != ""
	result.Credentials.CSRFToken = cfg.LeetCode.CSRFToken != ""
	if !result.Credentials.Session || !result.Credentials.CSRFToken {
		result.Warnings = append(result.Warnings,
			"LeetCode credentials not set. Premium solutions will render empty; set LEET2TEX_SESSION and LEET2TEX_CSRF_TOKEN")
	}
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if os.Getenv("LEET2TEX_CONTAINER") == "1" {
		return true, "LEET2TEX_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory pandoc and atomic writes rely on.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "leet2tex-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
		return
	}
	_ = os.Remove(testFile)
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "leet2tex doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Converter")
	switch {
	case r.Converter.Backend == config.BackendGoldmark:
		fmt.Fprintln(w, "  [OK] Backend: goldmark (built in)")
	case r.Converter.Found:
		fmt.Fprintf(w, "  [OK] pandoc at %s\n", r.Converter.Path)
		if r.Converter.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Converter.Version)
		}
	default:
		fmt.Fprintln(w, "  [ERROR] pandoc not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "LeetCode")
	printPresence(w, "Session cookie", r.Credentials.Session)
	printPresence(w, "CSRF token", r.Credentials.CSRFToken)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to render")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

func printPresence(w io.Writer, name string, set bool) {
	if set {
		fmt.Fprintf(w, "  [OK] %s: set\n", name)
		return
	}
	fmt.Fprintf(w, "  [WARN] %s: not set\n", name)
}
