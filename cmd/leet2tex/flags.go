package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrUsage marks invalid command-line arguments.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// pipelineFlags holds flags that shape the rendering pipeline.
type pipelineFlags struct {
	converter string
	language  string
	timeout   string
}

// renderFlags holds flags for the render and media commands.
type renderFlags struct {
	common   commonFlags
	pipeline pipelineFlags
	output   string
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common   commonFlags
	pipeline pipelineFlags
	addr     string
	workers  int
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	common commonFlags
	json   bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

// addPipelineFlags adds converter and source flags to a FlagSet.
func addPipelineFlags(fs *flag.FlagSet, f *pipelineFlags) {
	fs.StringVar(&f.converter, "converter", "", "LaTeX backend: pandoc, goldmark")
	fs.StringVar(&f.language, "language", "", "playground language to keep (e.g., java, python3)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "request and conversion timeout (e.g., 30s, 2m)")
}

// parseRenderFlags parses render or media flags and returns the slugs.
func parseRenderFlags(name string, args []string, stderr io.Writer) (*renderFlags, []string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := &renderFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file (\"-\" or empty = stdout)")
	addCommonFlags(fs, &f.common)
	addPipelineFlags(fs, &f.pipeline)

	fs.Usage = func() { printCommandUsage(stderr, name) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}
	return f, fs.Args(), nil
}

// parseServeFlags parses serve flags. Positional arguments are rejected.
func parseServeFlags(args []string, stderr io.Writer) (*serveFlags, error) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := &serveFlags{}

	fs.StringVar(&f.addr, "addr", "", "listen address (default :8080)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "concurrent requests (0 = auto)")
	addCommonFlags(fs, &f.common)
	addPipelineFlags(fs, &f.pipeline)

	fs.Usage = func() { printCommandUsage(stderr, "serve") }

	if err := fs.Parse(args); err != nil {
		return nil, usageError(err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: serve takes no arguments, got %q", ErrUsage, fs.Args())
	}
	if f.workers < 0 {
		return nil, fmt.Errorf("%w: --workers must not be negative", ErrUsage)
	}
	return f, nil
}

// parseDoctorFlags parses doctor flags.
func parseDoctorFlags(args []string, stderr io.Writer) (*doctorFlags, error) {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := &doctorFlags{}

	fs.BoolVar(&f.json, "json", false, "print results as JSON")
	addCommonFlags(fs, &f.common)

	fs.Usage = func() { printCommandUsage(stderr, "doctor") }

	if err := fs.Parse(args); err != nil {
		return nil, usageError(err)
	}
	return f, nil
}

// usageError keeps --help distinguishable from real parse failures.
func usageError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}

// hasVerboseFlag reports whether -v or --verbose appears before "--".
// main needs it before any command is parsed.
func hasVerboseFlag(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "--":
			return false
		case "-v", "--verbose":
			return true
		}
	}
	return false
}
