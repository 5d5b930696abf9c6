package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: leet2tex <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Render LeetCode problems to LaTeX")
	fmt.Fprintln(w, "  media      Download the images referenced by render as a ZIP")
	fmt.Fprintln(w, "  serve      Run the HTTP API")
	fmt.Fprintln(w, "  doctor     Check converter, credentials and environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'leet2tex help <command>' for details on a specific command.")
}

func printPipelineFlags(w io.Writer) {
	fmt.Fprintln(w, "Pipeline:")
	fmt.Fprintln(w, "      --converter <s>       LaTeX backend: pandoc (default), goldmark")
	fmt.Fprintln(w, "      --language <s>        Playground language to keep (default java)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Request and conversion timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
}

func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timing")
}

func printEnvironment(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  LEET2TEX_CONFIG, LEET2TEX_SESSION, LEET2TEX_CSRF_TOKEN, LEET2TEX_CONVERTER,")
	fmt.Fprintln(w, "  LEET2TEX_LANGUAGE, LEET2TEX_TIMEOUT, LEET2TEX_ADDR, LEET2TEX_LOG_MODE")
	fmt.Fprintln(w, "  Flags override environment, environment overrides the config file.")
}

// printCommandUsage prints usage for one command.
func printCommandUsage(w io.Writer, command string) {
	switch command {
	case "render":
		fmt.Fprintln(w, "Usage: leet2tex render <slug>... [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Render problem statements and official solutions to one LaTeX document.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Arguments:")
		fmt.Fprintln(w, "  slug     Problem slug as in leetcode.com/problems/<slug>/")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Input/Output:")
		fmt.Fprintln(w, "  -o, --output <path>       Output .tex file (default stdout)")
		fmt.Fprintln(w)
		printPipelineFlags(w)
		printCommonFlags(w)
		printEnvironment(w)
	case "media":
		fmt.Fprintln(w, "Usage: leet2tex media <slug>... -o <file.zip> [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Download figures, slide images and question images into a ZIP archive.")
		fmt.Fprintln(w, "Entry paths match the paths used by render; unpack next to the .tex file.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Input/Output:")
		fmt.Fprintln(w, "  -o, --output <path>       Output .zip file (required)")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Pipeline:")
		fmt.Fprintln(w, "  -t, --timeout <d>         Request timeout (e.g., 30s, 2m)")
		fmt.Fprintln(w)
		printCommonFlags(w)
		printEnvironment(w)
	case "serve":
		fmt.Fprintln(w, "Usage: leet2tex serve [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Serve the HTTP API:")
		fmt.Fprintln(w, "  POST /api/content/process-content   {\"questionSlugs\": [...]}")
		fmt.Fprintln(w, "  POST /api/figure-download           {\"questionSlugs\": [...]}")
		fmt.Fprintln(w, "  GET  /health")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Server:")
		fmt.Fprintln(w, "      --addr <addr>         Listen address (default :8080)")
		fmt.Fprintln(w, "  -w, --workers <n>         Concurrent requests (0 = auto)")
		fmt.Fprintln(w)
		printPipelineFlags(w)
		printCommonFlags(w)
		printEnvironment(w)
	case "doctor":
		fmt.Fprintln(w, "Usage: leet2tex doctor [--json] [-c config]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Check that the configured converter runs and credentials are set.")
	case "version":
		fmt.Fprintln(w, "Usage: leet2tex version")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Show version information.")
	case "help":
		fmt.Fprintln(w, "Usage: leet2tex help [command]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Show help for a command.")
	default:
		printUsage(w)
	}
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	switch args[0] {
	case "render", "media", "serve", "doctor", "version", "help":
		printCommandUsage(env.Stdout, args[0])
		return nil
	}
	printUsage(env.Stderr)
	return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
}
