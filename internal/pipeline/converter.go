package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/alnah/go-leet2tex/internal/process"
)

// Format names the markup a converter reads.
type Format string

// Supported input formats.
const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Sentinel errors for LaTeX conversion.
var (
	ErrConversion        = errors.New("LaTeX conversion failed")
	ErrConversionTimeout = errors.New("LaTeX conversion timed out")
	ErrConverterNotFound = errors.New("converter executable not found")
	ErrUnsupportedFormat = errors.New("unsupported input format")
)

// Defaults for the pandoc backend.
const (
	DefaultPandocPath       = "pandoc"
	DefaultConverterTimeout = 30 * time.Second
	defaultWaitDelay        = 2 * time.Second
)

// LatexConverter turns Markdown or HTML prose into LaTeX. Implementations
// know nothing about sentinels; they must only leave them intact.
type LatexConverter interface {
	ToLatex(ctx context.Context, format Format, content string) (string, error)
}

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, stdin, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec. The child runs in its
// own process group which is killed when ctx is done.
type ExecRunner struct {
	WaitDelay time.Duration // how long Wait drains pipes after a kill
}

func (r *ExecRunner) Run(ctx context.Context, stdin, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- executable path comes from operator config

	waitDelay := r.WaitDelay
	if waitDelay <= 0 {
		waitDelay = defaultWaitDelay
	}
	process.Supervise(cmd, waitDelay)

	var stdout, stderr bytes.Buffer
	cmd.Stdin = strings.NewReader(stdin)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// PandocConverter converts to LaTeX by piping content through the pandoc CLI.
type PandocConverter struct {
	Runner  CommandRunner
	Path    string
	Timeout time.Duration
}

// NewPandocConverter creates a PandocConverter with a real command runner.
// Empty path and non-positive timeout fall back to defaults.
func NewPandocConverter(path string, timeout time.Duration) *PandocConverter {
	if path == "" {
		path = DefaultPandocPath
	}
	if timeout <= 0 {
		timeout = DefaultConverterTimeout
	}
	return &PandocConverter{Runner: &ExecRunner{}, Path: path, Timeout: timeout}
}

// ToLatex runs `pandoc -f <format> -t latex` with content on stdin.
// Empty content converts to empty output without starting a process.
func (c *PandocConverter) ToLatex(ctx context.Context, format Format, content string) (string, error) {
	if err := validateFormat(format); err != nil {
		return "", err
	}
	if content == "" {
		return "", nil
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultConverterTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	stdout, stderr, err := c.Runner.Run(runCtx, content, c.Path, "-f", string(format), "-t", "latex")
	if err != nil {
		switch {
		case errors.Is(err, exec.ErrNotFound):
			return "", fmt.Errorf("%w: %s: %v", ErrConverterNotFound, c.Path, err)
		case ctx.Err() != nil:
			return "", ctx.Err()
		case errors.Is(runCtx.Err(), context.DeadlineExceeded):
			return "", fmt.Errorf("%w after %s", ErrConversionTimeout, timeout)
		}
		return "", fmt.Errorf("%w: %s: %v", ErrConversion, strings.TrimSpace(stderr), err)
	}

	return stdout, nil
}

func validateFormat(format Format) error {
	switch format {
	case FormatMarkdown, FormatHTML:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}
