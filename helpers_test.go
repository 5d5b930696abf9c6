package leet2tex

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/alnah/go-leet2tex/internal/logger"
	"github.com/alnah/go-leet2tex/internal/pipeline"
)

var errFetch = errors.New("fetch failed")

// ---------------------------------------------------------------------------
// fakeSource - In-memory Source
// ---------------------------------------------------------------------------

// fakeSource serves canned content. Missing keys behave like null content;
// keys listed in fail return errFetch; keys in panics panic.
type fakeSource struct {
	questions   map[string]Question
	solutions   map[string]string
	playgrounds map[string][]PlaygroundCode
	timelines   map[string][]string
	assets      map[string][]byte
	fail        map[string]bool
	panics      map[string]bool

	mu     sync.Mutex
	assetN int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		questions:   map[string]Question{},
		solutions:   map[string]string{},
		playgrounds: map[string][]PlaygroundCode{},
		timelines:   map[string][]string{},
		assets:      map[string][]byte{},
		fail:        map[string]bool{},
		panics:      map[string]bool{},
	}
}

func (f *fakeSource) check(key string) error {
	if f.panics[key] {
		panic("fake source panic: " + key)
	}
	if f.fail[key] {
		return errFetch
	}
	return nil
}

func (f *fakeSource) Question(_ context.Context, slug string) (Question, error) {
	if err := f.check("question:" + slug); err != nil {
		return Question{}, err
	}
	return f.questions[slug], nil
}

func (f *fakeSource) Solution(_ context.Context, slug string) (string, error) {
	if err := f.check("solution:" + slug); err != nil {
		return "", err
	}
	return f.solutions[slug], nil
}

func (f *fakeSource) PlaygroundCodes(_ context.Context, uuid string) ([]PlaygroundCode, error) {
	if err := f.check("playground:" + uuid); err != nil {
		return nil, err
	}
	return f.playgrounds[uuid], nil
}

func (f *fakeSource) SlideTimeline(_ context.Context, name string) ([]string, error) {
	if err := f.check("deck:" + name); err != nil {
		return nil, err
	}
	return f.timelines[name], nil
}

func (f *fakeSource) Asset(_ context.Context, ref string) ([]byte, error) {
	f.mu.Lock()
	f.assetN++
	f.mu.Unlock()

	if err := f.check("asset:" + ref); err != nil {
		return nil, err
	}
	data, ok := f.assets[ref]
	if !ok {
		return nil, errFetch
	}
	return data, nil
}

// failBoth makes every fetch for slug fail.
func (f *fakeSource) failBoth(slug string) {
	f.fail["question:"+slug] = true
	f.fail["solution:"+slug] = true
}

// ---------------------------------------------------------------------------
// stubConverter - Identity LatexConverter
// ---------------------------------------------------------------------------

// stubConverter returns its input unchanged, which keeps expected output
// computable by hand. err, when set, is returned for every call.
type stubConverter struct {
	err error

	mu    sync.Mutex
	calls []pipeline.Format
}

func (s *stubConverter) ToLatex(_ context.Context, format pipeline.Format, content string) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, format)
	s.mu.Unlock()

	if s.err != nil {
		return "", s.err
	}
	return content, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// bufferLogger returns a JSON logger writing into the returned buffer.
func bufferLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	log, err := logger.New(logger.ModeProd, logger.WithOutput(&buf))
	if err != nil {
		t.Fatalf("logger.New() error = %v", err)
	}
	return log, &buf
}
