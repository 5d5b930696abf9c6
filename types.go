package leet2tex

import (
	"context"
	"fmt"
	"regexp"

	"github.com/alnah/go-leet2tex/internal/leetcode"
	"github.com/alnah/go-leet2tex/internal/logger"
	"github.com/alnah/go-leet2tex/internal/pipeline"
)

// DefaultLanguage is the playground language kept when none is configured.
const DefaultLanguage = "java"

// MaxSlugs caps how many problems one request may render.
const MaxSlugs = 200

// maxSlugLength matches the longest titles LeetCode slugifies.
const maxSlugLength = 128

// lowercase words joined by single hyphens
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Question is a problem statement with HTML content.
type Question = leetcode.Question

// PlaygroundCode is one language variant of an embedded playground.
type PlaygroundCode = leetcode.PlaygroundCode

// Source provides raw problem content and media. Null or absent content
// is returned as an empty value, not an error. *leetcode.Client is the
// production implementation.
type Source interface {
	Question(ctx context.Context, slug string) (Question, error)
	Solution(ctx context.Context, slug string) (string, error)
	PlaygroundCodes(ctx context.Context, uuid string) ([]PlaygroundCode, error)
	SlideTimeline(ctx context.Context, name string) ([]string, error)
	Asset(ctx context.Context, ref string) ([]byte, error)
}

// Compile-time interface implementation checks.
var (
	_ Source                  = (*leetcode.Client)(nil)
	_ pipeline.LatexConverter = (*pipeline.PandocConverter)(nil)
	_ pipeline.LatexConverter = (*pipeline.GoldmarkConverter)(nil)
)

// settings holds the configuration shared by Renderer and MediaCollector.
type settings struct {
	source    Source
	converter pipeline.LatexConverter
	language  string
	log       *logger.Logger
}

// Option configures a Renderer or MediaCollector.
type Option func(*settings)

// WithSource sets where problem content and media are fetched from.
// Default is an anonymous leetcode.Client.
func WithSource(src Source) Option {
	return func(s *settings) {
		if src != nil {
			s.source = src
		}
	}
}

// WithConverter sets the Markdown/HTML to LaTeX backend.
// Default is pandoc found on PATH. MediaCollector ignores it.
func WithConverter(c pipeline.LatexConverter) Option {
	return func(s *settings) {
		if c != nil {
			s.converter = c
		}
	}
}

// WithLanguage sets the playground language whose code is kept, as a
// LeetCode language slug ("java", "python3", "cpp").
// Panics if lang is empty (programmer error).
func WithLanguage(lang string) Option {
	if lang == "" {
		panic("leet2tex: WithLanguage requires a language")
	}
	return func(s *settings) {
		s.language = lang
	}
}

// WithLogger sets the logger for degraded fetches and conversion failures.
// Default discards everything.
func WithLogger(l *logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.log = l
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{language: DefaultLanguage}
	for _, opt := range opts {
		opt(&s)
	}
	if s.source == nil {
		s.source = leetcode.New()
	}
	if s.converter == nil {
		s.converter = pipeline.NewPandocConverter("", 0)
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	return s
}

// ValidateSlugs checks a request before any network call is made.
func ValidateSlugs(slugs []string) error {
	if len(slugs) == 0 {
		return ErrNoSlugs
	}
	if len(slugs) > MaxSlugs {
		return fmt.Errorf("%w: %d (max %d)", ErrTooManySlugs, len(slugs), MaxSlugs)
	}
	for _, slug := range slugs {
		if len(slug) > maxSlugLength || !slugPattern.MatchString(slug) {
			return fmt.Errorf("%w: %q", ErrInvalidSlug, slug)
		}
	}
	return nil
}
