package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	leet2tex "github.com/alnah/go-leet2tex"
	"github.com/alnah/go-leet2tex/internal/pipeline"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - In-memory source and identity converter
// ---------------------------------------------------------------------------

// memorySource serves the same problem for every slug.
type memorySource struct{}

func (memorySource) Question(_ context.Context, slug string) (leet2tex.Question, error) {
	if slug == "missing" {
		return leet2tex.Question{}, errors.New("not found")
	}
	return leet2tex.Question{Title: "Two Sum", Content: "<p>Find two numbers.</p>"}, nil
}

func (memorySource) Solution(_ context.Context, slug string) (string, error) {
	if slug == "missing" {
		return "", errors.New("not found")
	}
	return "Use a map.\n\n![lookup](../Figures/1/lookup.png)", nil
}

func (memorySource) PlaygroundCodes(context.Context, string) ([]leet2tex.PlaygroundCode, error) {
	return nil, nil
}

func (memorySource) SlideTimeline(context.Context, string) ([]string, error) {
	return nil, errors.New("no decks")
}

func (memorySource) Asset(context.Context, string) ([]byte, error) {
	return []byte("png"), nil
}

// identityConverter returns its input unchanged.
type identityConverter struct{}

func (identityConverter) ToLatex(_ context.Context, _ pipeline.Format, content string) (string, error) {
	return content, nil
}

// testEnv returns an Environment writing into buffers, with no network and
// no pandoc.
func testEnv(t *testing.T) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:       func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) },
		Stdout:    &stdout,
		Stderr:    &stderr,
		Source:    memorySource{},
		Converter: identityConverter{},
		LookPath: func(string) (string, error) {
			return "", errors.New("not on PATH")
		},
	}
	return env, &stdout, &stderr
}
