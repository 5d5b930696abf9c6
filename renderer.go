package leet2tex

import (
	"context"
	"fmt"
	"strings"

	"github.com/alnah/go-leet2tex/internal/logger"
	"github.com/alnah/go-leet2tex/internal/pipeline"
)

// sectionBreak separates the question and the solution of a slug, and
// consecutive slugs.
const sectionBreak = "\n\n"

// conversionErrorNames are the format names used in inlined error text.
var conversionErrorNames = map[pipeline.Format]string{
	pipeline.FormatMarkdown: "markdown",
	pipeline.FormatHTML:     "HTML",
}

// Renderer turns problem slugs into one LaTeX document.
// Create with NewRenderer; a Renderer is safe for concurrent use.
type Renderer struct {
	converter pipeline.LatexConverter
	extract   *extractor
	log       *logger.Logger
}

// NewRenderer creates a Renderer. Without options it fetches anonymously
// from leetcode.com, converts with pandoc and keeps Java playground code.
func NewRenderer(opts ...Option) *Renderer {
	s := newSettings(opts)
	return &Renderer{
		converter: s.converter,
		extract:   newExtractor(s),
		log:       s.log,
	}
}

// Render runs every slug through the pipeline, in order, and concatenates
// the sections. Only invalid input and context cancellation are returned
// as errors; everything that goes wrong inside one slug degrades that slug.
func (r *Renderer) Render(ctx context.Context, slugs []string) (string, error) {
	if err := ValidateSlugs(slugs); err != nil {
		return "", err
	}

	var b strings.Builder
	for _, slug := range slugs {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		b.WriteString(r.renderSlug(ctx, slug))
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return b.String(), nil
}

// renderSlug returns question + break + solution + break. A slug whose
// fetches all failed, or whose pipeline panicked, yields one break.
func (r *Renderer) renderSlug(ctx context.Context, slug string) (section string) {
	log := r.log.With("slug", slug)
	defer func() {
		if p := recover(); p != nil {
			log.Error("slug pipeline panicked", "panic", p)
			section = sectionBreak
		}
	}()

	doc := r.extract.fetch(ctx, slug)
	if doc.failed() {
		return sectionBreak
	}

	m := r.extract.media(ctx, doc)
	solution := r.renderSolution(ctx, log, doc.solution, pipeline.Payloads{
		Codes:   r.extract.codes(ctx, doc.solution),
		Figures: assetPaths(m.figures),
		Slides:  deckPaths(m.decks),
	})
	question := r.renderQuestion(ctx, log, doc.question, assetPaths(m.questionFigures))

	return question + sectionBreak + solution + sectionBreak
}

func (r *Renderer) renderSolution(ctx context.Context, log *logger.Logger, markdown string, p pipeline.Payloads) string {
	if markdown == "" {
		return ""
	}

	latex, err := r.converter.ToLatex(ctx, pipeline.FormatMarkdown, pipeline.SanitizeSolution(markdown))
	if err != nil {
		return r.conversionFailed(log, pipeline.FormatMarkdown, err)
	}

	out := pipeline.Inject(pipeline.RepairSolution(latex), p)
	warnLeftovers(log, "solution", out)
	return out
}

func (r *Renderer) renderQuestion(ctx context.Context, log *logger.Logger, q Question, figures []string) string {
	if q.Title == "" && q.Content == "" {
		return ""
	}

	latex, err := r.converter.ToLatex(ctx, pipeline.FormatHTML, pipeline.SanitizeQuestion(q.Content))
	if err != nil {
		return r.conversionFailed(log, pipeline.FormatHTML, err)
	}

	out := pipeline.InjectFigures(pipeline.RepairQuestion(latex, q.Title), figures)
	warnLeftovers(log, "question", out)
	return out
}

// conversionFailed logs err and returns the text inlined in its place.
func (r *Renderer) conversionFailed(log *logger.Logger, format pipeline.Format, err error) string {
	log.Error("LaTeX conversion failed", "format", string(format), "error", err)
	return fmt.Sprintf("Error converting %s to LaTeX: %v", conversionErrorNames[format], err)
}

// warnLeftovers logs sentinels that found no payload. They stay literal in
// the output so a reader can spot the missing content.
func warnLeftovers(log *logger.Logger, part, latex string) {
	for sentinel, n := range pipeline.CountSentinels(latex) {
		log.Warn("sentinels left without payload", "part", part, "sentinel", sentinel, "count", n)
	}
}
