package pipeline

import "strings"

// Payloads holds the replacement content for one document, each list in the
// order its sentinels were produced.
type Payloads struct {
	Codes   []string
	Figures []string
	Slides  [][]string
}

// Inject replaces sentinels in repaired LaTeX: code first, then figures and
// svg figures, then slide decks.
func Inject(content string, p Payloads) string {
	content = InjectCode(content, p.Codes)
	content = InjectFigures(content, p.Figures)
	return InjectSlides(content, p.Slides)
}

// InjectCode wraps each code payload in a listing at the next code sentinel.
func InjectCode(content string, codes []string) string {
	return substitute(content, CodeSentinel, NewQueue(codes), renderListing)
}

// InjectFigures replaces figure sentinels, then svg-figure sentinels with
// whatever figure payloads remain. Both classes draw from one cursor.
func InjectFigures(content string, figures []string) string {
	q := NewQueue(figures)
	content = substitute(content, FigureSentinel, q, renderFigure)
	return substitute(content, SvgFigureSentinel, q, renderFigure)
}

// InjectSlides replaces each slides sentinel with one deck. An empty deck
// consumes its sentinel and renders nothing.
func InjectSlides(content string, decks [][]string) string {
	return substitute(content, SlidesSentinel, NewQueue(decks), renderSlides)
}

func renderListing(code string) string {
	return "\\begin{lstlisting}\n" + code + "\n\\end{lstlisting}"
}

func renderFigure(path string) string {
	return "\\begin{figure}[htbp]\n" +
		"    \\centering\n" +
		"    \\includegraphics[width=0.65\\textwidth]{" + path + "}\n" +
		"\\end{figure}"
}

func renderSlides(images []string) string {
	var b strings.Builder
	for i := 0; i < len(images); i += 2 {
		b.WriteString("\\begin{figure}[htbp]\n")
		b.WriteString("    \\centering\n")
		writeSubfigure(&b, images[i])
		if i+1 < len(images) {
			b.WriteString("    \\hfill\n")
			writeSubfigure(&b, images[i+1])
		}
		b.WriteString("\\end{figure}\n")
	}
	return b.String()
}

func writeSubfigure(b *strings.Builder, path string) {
	b.WriteString("    \\begin{subfigure}[b]{0.48\\textwidth}\n")
	b.WriteString("        \\centering\n")
	b.WriteString("        \\includegraphics[width=\\textwidth]{" + path + "}\n")
	b.WriteString("    \\end{subfigure}\n")
}
