package main

import (
	"context"
	"errors"
	"os"

	leet2tex "github.com/alnah/go-leet2tex"
	"github.com/alnah/go-leet2tex/internal/config"
	"github.com/alnah/go-leet2tex/internal/fileutil"
	"github.com/alnah/go-leet2tex/internal/hints"
	"github.com/alnah/go-leet2tex/internal/logger"
	"github.com/alnah/go-leet2tex/internal/pipeline"
)

// Exit codes for leet2tex CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess   = 0 // Successful run
	ExitGeneral   = 1 // General/unexpected error
	ExitUsage     = 2 // Invalid flags, config, or slugs
	ExitIO        = 3 // Output file or archive could not be written
	ExitConverter = 4 // Converter backend missing
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, pipeline.ErrConverterNotFound) {
		return ExitConverter
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, leet2tex.ErrArchiveWrite) ||
		errors.Is(err, fileutil.ErrPathIsDir) ||
		errors.Is(err, fileutil.ErrParentMissing) {
		return ExitIO
	}

	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrOutputRequired) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, logger.ErrInvalidMode) ||
		errors.Is(err, leet2tex.ErrNoSlugs) ||
		errors.Is(err, leet2tex.ErrTooManySlugs) ||
		errors.Is(err, leet2tex.ErrInvalidSlug) {
		return ExitUsage
	}

	return ExitGeneral
}

// hintFor returns an actionable hint to append to the error line, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, pipeline.ErrConverterNotFound):
		return hints.ForConverterNotFound()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(nil)
	case errors.Is(err, fileutil.ErrParentMissing), errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, pipeline.ErrConversionTimeout):
		return hints.ForTimeout()
	}
	return ""
}
