package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap/zapcore"

	leet2tex "github.com/alnah/go-leet2tex"
	"github.com/alnah/go-leet2tex/internal/fileutil"
)

// Sentinel errors for render and media output.
var (
	ErrWriteOutput    = errors.New("failed to write output")
	ErrOutputRequired = errors.New("output path is required")
)

// stdoutPath selects standard output for -o.
const stdoutPath = "-"

// runRender renders slugs to one LaTeX document on stdout or in a file.
func runRender(ctx context.Context, args []string, env *Environment) error {
	f, slugs, err := parseRenderFlags("render", args, env.Stderr)
	if err != nil {
		return err
	}
	if err := leet2tex.ValidateSlugs(slugs); err != nil {
		return err
	}

	cfg, err := loadConfig(f.common, f.pipeline, env)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg, f.common, zapcore.WarnLevel, env.Stderr)
	if err != nil {
		return err
	}
	defer log.Sync()

	conv, err := newConverter(cfg, env)
	if err != nil {
		return err
	}

	start := env.Now()
	r := leet2tex.NewRenderer(libraryOptions(cfg, newSource(cfg, env), conv, log)...)
	latex, err := r.Render(ctx, slugs)
	if err != nil {
		return err
	}
	log.Debug("rendered", "slugs", len(slugs), "bytes", len(latex), "duration", env.Now().Sub(start))

	if err := writeOutput(f.output, env.Stdout, func(w io.Writer) error {
		_, err := io.WriteString(w, latex)
		return err
	}); err != nil {
		return err
	}

	if !f.common.quiet && !isStdout(f.output) {
		fmt.Fprintf(env.Stderr, "Rendered %d problem(s) to %s\n", len(slugs), f.output)
	}
	return nil
}

// runMedia writes the figure archive for slugs. An output path is required
// so the ZIP never lands on a terminal by accident; "-" opts in to stdout.
func runMedia(ctx context.Context, args []string, env *Environment) error {
	f, slugs, err := parseRenderFlags("media", args, env.Stderr)
	if err != nil {
		return err
	}
	if f.output == "" {
		return fmt.Errorf("%w: use -o <file.zip>", ErrOutputRequired)
	}
	if err := leet2tex.ValidateSlugs(slugs); err != nil {
		return err
	}

	cfg, err := loadConfig(f.common, f.pipeline, env)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg, f.common, zapcore.WarnLevel, env.Stderr)
	if err != nil {
		return err
	}
	defer log.Sync()

	start := env.Now()
	mc := leet2tex.NewMediaCollector(libraryOptions(cfg, newSource(cfg, env), nil, log)...)
	if err := writeOutput(f.output, env.Stdout, func(w io.Writer) error {
		return mc.Collect(ctx, slugs, w)
	}); err != nil {
		return err
	}
	log.Debug("collected media", "slugs", len(slugs), "duration", env.Now().Sub(start))

	if !f.common.quiet && !isStdout(f.output) {
		fmt.Fprintf(env.Stderr, "Wrote %s (%d problem(s))\n", f.output, len(slugs))
	}
	return nil
}

func isStdout(path string) bool {
	return path == "" || path == stdoutPath
}

// writeOutput streams write to stdout or atomically to path. Pipeline
// errors pass through unchanged; file errors are wrapped with ErrWriteOutput.
func writeOutput(path string, stdout io.Writer, write func(io.Writer) error) error {
	if isStdout(path) {
		return write(stdout)
	}

	var writeErr error
	err := fileutil.WriteFileAtomic(path, func(w io.Writer) error {
		writeErr = write(w)
		return writeErr
	})
	switch {
	case err == nil:
		return nil
	case writeErr != nil:
		return writeErr
	}
	return fmt.Errorf("%w: %s: %w", ErrWriteOutput, path, err)
}
