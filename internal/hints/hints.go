// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-leet2tex/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForConverterNotFound returns hints when the pandoc executable is missing.
func ForConverterNotFound() string {
	hints := []string{"use --converter goldmark to convert without pandoc"}
	if !IsInContainer() {
		hints = append([]string{"install pandoc (https://pandoc.org/installing.html)"}, hints...)
	}
	return formatHints(hints)
}

// ForCredentials returns hints when LeetCode rejects or drops a request.
// Suggests only the variables that are not set.
func ForCredentials() string {
	var hints []string
	if os.Getenv("LEET2TEX_SESSION") == "" {
		hints = append(hints, "set LEET2TEX_SESSION to your LEETCODE_SESSION cookie")
	}
	if os.Getenv("LEET2TEX_CSRF_TOKEN") == "" {
		hints = append(hints, "set LEET2TEX_CSRF_TOKEN to your csrftoken cookie")
	}
	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for long solution articles, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-leet2tex/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-leet2tex") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output file creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
