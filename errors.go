package leet2tex

import "errors"

// Sentinel errors for library operations.
var (
	ErrNoSlugs      = errors.New("at least one question slug is required")
	ErrTooManySlugs = errors.New("too many question slugs")
	ErrInvalidSlug  = errors.New("invalid question slug")
	ErrArchiveWrite = errors.New("writing media archive failed")
)
