package leet2tex

import (
	"context"

	"github.com/alnah/go-leet2tex/internal/logger"
	"github.com/alnah/go-leet2tex/internal/pipeline"
)

// document is the raw content of one slug. A failed fetch leaves its
// field empty and records the error.
type document struct {
	slug        string
	question    Question
	questionErr error
	solution    string
	solutionErr error
}

// failed reports whether nothing could be fetched for the slug.
func (d *document) failed() bool {
	return d.questionErr != nil && d.solutionErr != nil
}

// asset is one image referenced by the rendered LaTeX.
type asset struct {
	path string // archive-relative path, images/{slug}/...
	ref  string // reference understood by Source.Asset
}

// media lists every image of one document in the order its sentinels
// are produced.
type media struct {
	figures         []asset
	decks           [][]asset
	questionFigures []asset
}

// all flattens media in archive order.
func (m media) all() []asset {
	out := make([]asset, 0, len(m.figures)+len(m.questionFigures))
	out = append(out, m.figures...)
	for _, deck := range m.decks {
		out = append(out, deck...)
	}
	return append(out, m.questionFigures...)
}

// extractor runs the network-aware half of extraction for one slug at a
// time. It is stateless; per-document counters live in the MediaNamer.
type extractor struct {
	source   Source
	language string
	log      *logger.Logger
}

func newExtractor(s settings) *extractor {
	return &extractor{source: s.source, language: s.language, log: s.log}
}

// fetch loads the question and solution of slug. Failures are logged and
// degrade to empty content.
func (e *extractor) fetch(ctx context.Context, slug string) *document {
	doc := &document{slug: slug}

	doc.question, doc.questionErr = e.source.Question(ctx, slug)
	if doc.questionErr != nil {
		e.log.Warn("question fetch failed", "slug", slug, "error", doc.questionErr)
	}

	doc.solution, doc.solutionErr = e.source.Solution(ctx, slug)
	if doc.solutionErr != nil {
		e.log.Warn("solution fetch failed", "slug", slug, "error", doc.solutionErr)
	}

	return doc
}

// codes fetches every playground embedded in markdown and keeps the code of
// the configured language. A playground without that variant, or whose
// fetch fails, contributes nothing.
func (e *extractor) codes(ctx context.Context, markdown string) []string {
	refs := pipeline.ScanPlaygrounds(markdown)
	codes := make([]string, 0, len(refs))
	for _, ref := range refs {
		variants, err := e.source.PlaygroundCodes(ctx, ref.UUID)
		if err != nil {
			e.log.Warn("playground fetch failed", "playground", ref.URL, "error", err)
			continue
		}
		code, ok := pickLanguage(variants, e.language)
		if !ok {
			e.log.Debug("playground has no code for language", "playground", ref.URL, "language", e.language)
			continue
		}
		codes = append(codes, code)
	}
	return codes
}

// pickLanguage returns the first variant in lang.
func pickLanguage(variants []PlaygroundCode, lang string) (string, bool) {
	for _, v := range variants {
		if v.Lang == lang {
			return v.Code, true
		}
	}
	return "", false
}

// media names the figures, slide decks and question images of doc with a
// fresh per-slug namer. Question images do not restart at 1: they continue
// the figure counter after the solution figures, so with two solution
// figures the first question image is images/{slug}/3.{ext}. One counter
// keeps question and solution paths from colliding in the media archive.
func (e *extractor) media(ctx context.Context, doc *document) media {
	namer := pipeline.NewMediaNamer(doc.slug)

	var m media
	m.figures = namedAssets(pipeline.ScanFigures(doc.solution), namer.NextFigure)
	m.decks = e.decks(ctx, namer, doc.solution)
	m.questionFigures = namedAssets(pipeline.ScanQuestionImages(doc.question.Content), namer.NextFigure)
	return m
}

// decks fetches the timeline of every slide deck in scan order. The deck
// counter advances for every reference; a failed deck is an empty sequence
// and does not stop the ones after it.
func (e *extractor) decks(ctx context.Context, namer *pipeline.MediaNamer, markdown string) [][]asset {
	names := pipeline.ScanSlideDecks(markdown)
	decks := make([][]asset, 0, len(names))
	for _, name := range names {
		deck := namer.NextDeck()
		timeline, err := e.source.SlideTimeline(ctx, name)
		if err != nil {
			e.log.Warn("slide deck fetch failed", "deck", name, "index", deck.Index(), "error", err)
			decks = append(decks, nil)
			continue
		}
		decks = append(decks, namedAssets(pipeline.SlideImages(timeline), deck.NextImage))
	}
	return decks
}

func namedAssets(refs []pipeline.FigureRef, next func(ext string) string) []asset {
	out := make([]asset, 0, len(refs))
	for _, ref := range refs {
		out = append(out, asset{path: next(ref.Ext), ref: ref.Source})
	}
	return out
}

func assetPaths(assets []asset) []string {
	paths := make([]string, 0, len(assets))
	for _, a := range assets {
		paths = append(paths, a.path)
	}
	return paths
}

func deckPaths(decks [][]asset) [][]string {
	out := make([][]string, 0, len(decks))
	for _, deck := range decks {
		out = append(out, assetPaths(deck))
	}
	return out
}
