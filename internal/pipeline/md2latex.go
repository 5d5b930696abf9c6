package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// Private Use Area delimiters for protected math spans. The index between
// them is decimal ASCII, which the renderer copies through unchanged.
const (
	mathStartPlaceholder = "\uE010"
	mathEndPlaceholder   = "\uE011"
)

var mathPlaceholderPattern = regexp.MustCompile(mathStartPlaceholder + `(\d+)` + mathEndPlaceholder)

// latexEscaper escapes LaTeX special characters the way pandoc does.
// strings.Replacer never rescans its own output.
var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`#`, `\#`,
	`%`, `\%`,
	`_`, `\_`,
	`^`, `\^{}`,
	`~`, `\textasciitilde{}`,
)

var urlEscaper = strings.NewReplacer(`%`, `\%`, `#`, `\#`)

// GoldmarkConverter converts to LaTeX in-process. Its output follows the
// shape pandoc produces (one heading per line with its label, itemize with
// \tightlist, verbatim code) so the repair pass applies unchanged.
type GoldmarkConverter struct {
	md   goldmark.Markdown
	html *converter.Converter
}

// NewGoldmarkConverter creates a GoldmarkConverter. No goldmark extensions
// are enabled; every node kind the core parser produces has a LaTeX renderer.
func NewGoldmarkConverter() *GoldmarkConverter {
	md := goldmark.New(
		goldmark.WithRenderer(
			renderer.NewRenderer(
				renderer.WithNodeRenderers(util.Prioritized(&latexRenderer{}, 1000)),
			),
		),
	)
	html := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		),
	)
	return &GoldmarkConverter{md: md, html: html}
}

// ToLatex converts content to LaTeX. HTML is first turned into Markdown.
// Goldmark doesn't support context, so conversion runs in a goroutine and
// the caller stops waiting on cancellation.
func (c *GoldmarkConverter) ToLatex(ctx context.Context, format Format, content string) (string, error) {
	if err := validateFormat(format); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if content == "" {
		return "", nil
	}

	type result struct {
		latex string
		err   error
	}

	done := make(chan result, 1)

	go func() {
		latex, err := c.convert(format, content)
		done <- result{latex: latex, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.latex, r.err
	}
}

func (c *GoldmarkConverter) convert(format Format, content string) (string, error) {
	if format == FormatHTML {
		md, err := c.html.ConvertString(content)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrConversion, err)
		}
		content = md
	}

	protected, spans := protectMath(content)

	var buf bytes.Buffer
	if err := c.md.Convert([]byte(protected), &buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrConversion, err)
	}

	latex := restoreMath(buf.String(), spans)
	return strings.TrimRight(latex, "\n") + "\n", nil
}

// protectMath swaps every $...$ span for a placeholder so the Markdown
// parser neither interprets nor escapes its contents.
func protectMath(content string) (string, []string) {
	var spans []string
	out := mathSpanPattern.ReplaceAllStringFunc(content, func(span string) string {
		spans = append(spans, span)
		return mathStartPlaceholder + strconv.Itoa(len(spans)-1) + mathEndPlaceholder
	})
	return out, spans
}

func restoreMath(latex string, spans []string) string {
	if len(spans) == 0 {
		return latex
	}
	return mathPlaceholderPattern.ReplaceAllStringFunc(latex, func(ph string) string {
		m := mathPlaceholderPattern.FindStringSubmatch(ph)
		i, err := strconv.Atoi(m[1])
		if err != nil || i >= len(spans) {
			return ph
		}
		return spans[i]
	})
}

// latexRenderer renders the core goldmark AST as LaTeX.
type latexRenderer struct{}

func (r *latexRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	// blocks
	reg.Register(ast.KindDocument, r.renderDocument)
	reg.Register(ast.KindHeading, r.renderHeading)
	reg.Register(ast.KindParagraph, r.renderParagraph)
	reg.Register(ast.KindTextBlock, r.renderTextBlock)
	reg.Register(ast.KindThematicBreak, r.renderThematicBreak)
	reg.Register(ast.KindCodeBlock, r.renderCodeBlock)
	reg.Register(ast.KindFencedCodeBlock, r.renderCodeBlock)
	reg.Register(ast.KindBlockquote, r.renderBlockquote)
	reg.Register(ast.KindList, r.renderList)
	reg.Register(ast.KindListItem, r.renderListItem)
	reg.Register(ast.KindHTMLBlock, r.renderSkip)

	// inlines
	reg.Register(ast.KindText, r.renderText)
	reg.Register(ast.KindString, r.renderString)
	reg.Register(ast.KindCodeSpan, r.renderCodeSpan)
	reg.Register(ast.KindEmphasis, r.renderEmphasis)
	reg.Register(ast.KindLink, r.renderLink)
	reg.Register(ast.KindImage, r.renderImage)
	reg.Register(ast.KindAutoLink, r.renderAutoLink)
	reg.Register(ast.KindRawHTML, r.renderSkip)
}

func (r *latexRenderer) renderDocument(_ util.BufWriter, _ []byte, _ ast.Node, _ bool) (ast.WalkStatus, error) {
	return ast.WalkContinue, nil
}

// renderSkip drops raw HTML, as pandoc does when writing LaTeX.
func (r *latexRenderer) renderSkip(_ util.BufWriter, _ []byte, _ ast.Node, _ bool) (ast.WalkStatus, error) {
	return ast.WalkSkipChildren, nil
}

var headingCommands = [...]string{"", `\section`, `\subsection`, `\subsubsection`, `\paragraph`, `\subparagraph`, `\subparagraph`}

func (r *latexRenderer) renderHeading(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Heading)
	if entering {
		_, _ = w.WriteString(headingCommands[n.Level] + "{")
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString(`}\label{` + headingIdentifier(plainText(n, source)) + "}")
	blockEnd(w, n)
	return ast.WalkContinue, nil
}

func (r *latexRenderer) renderParagraph(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		blockEnd(w, node)
	}
	return ast.WalkContinue, nil
}

// renderTextBlock handles paragraphs of tight list items.
func (r *latexRenderer) renderTextBlock(w util.BufWriter, _ []byte, _ ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_ = w.WriteByte('\n')
	}
	return ast.WalkContinue, nil
}

func (r *latexRenderer) renderThematicBreak(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(`\begin{center}\rule{0.5\linewidth}{0.5pt}\end{center}`)
		blockEnd(w, node)
	}
	return ast.WalkContinue, nil
}

func (r *latexRenderer) renderCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString("\\begin{verbatim}\n")
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		_, _ = w.Write(seg.Value(source))
	}
	_, _ = w.WriteString(`\end{verbatim}`)
	blockEnd(w, node)
	return ast.WalkSkipChildren, nil
}

func (r *latexRenderer) renderBlockquote(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("\\begin{quote}\n")
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString(`\end{quote}`)
	blockEnd(w, node)
	return ast.WalkContinue, nil
}

func (r *latexRenderer) renderList(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.List)
	env := "itemize"
	if n.IsOrdered() {
		env = "enumerate"
	}
	if !entering {
		_, _ = w.WriteString(`\end{` + env + "}")
		blockEnd(w, node)
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString(`\begin{` + env + "}\n")
	if n.IsOrdered() && n.Start > 1 {
		_, _ = w.WriteString(`\setcounter{enumi}{` + strconv.Itoa(n.Start-1) + "}\n")
	}
	if n.IsTight {
		_, _ = w.WriteString("\\tightlist\n")
	}
	return ast.WalkContinue, nil
}

func (r *latexRenderer) renderListItem(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(`\item `)
		if node.FirstChild() == nil {
			_ = w.WriteByte('\n')
		}
	}
	return ast.WalkContinue, nil
}

func (r *latexRenderer) renderText(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.Text)
	value := n.Segment.Value(source)
	if n.IsRaw() {
		_, _ = w.Write(value)
	} else {
		_, _ = w.WriteString(escapeLatex(value))
	}
	switch {
	case n.HardLineBreak():
		_, _ = w.WriteString("\\\\\n")
	case n.SoftLineBreak():
		_ = w.WriteByte('\n')
	}
	return ast.WalkContinue, nil
}

func (r *latexRenderer) renderString(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.String)
	if n.IsRaw() || n.IsCode() {
		_, _ = w.Write(n.Value)
	} else {
		_, _ = w.WriteString(escapeLatex(n.Value))
	}
	return ast.WalkContinue, nil
}

func (r *latexRenderer) renderCodeSpan(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	var code bytes.Buffer
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			code.Write(t.Segment.Value(source))
		case *ast.String:
			code.Write(t.Value)
		}
	}
	_, _ = w.WriteString(`\texttt{` + latexEscaper.Replace(code.String()) + "}")
	return ast.WalkSkipChildren, nil
}

func (r *latexRenderer) renderEmphasis(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Emphasis)
	if !entering {
		_ = w.WriteByte('}')
		return ast.WalkContinue, nil
	}
	if n.Level >= 2 {
		_, _ = w.WriteString(`\textbf{`)
	} else {
		_, _ = w.WriteString(`\emph{`)
	}
	return ast.WalkContinue, nil
}

func (r *latexRenderer) renderLink(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Link)
	if entering {
		_, _ = w.WriteString(`\href{` + urlEscaper.Replace(string(n.Destination)) + "}{")
	} else {
		_ = w.WriteByte('}')
	}
	return ast.WalkContinue, nil
}

func (r *latexRenderer) renderAutoLink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		n := node.(*ast.AutoLink)
		_, _ = w.WriteString(`\url{` + urlEscaper.Replace(string(n.URL(source))) + "}")
	}
	return ast.WalkSkipChildren, nil
}

func (r *latexRenderer) renderImage(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		n := node.(*ast.Image)
		_, _ = w.WriteString(`\includegraphics{` + urlEscaper.Replace(string(n.Destination)) + "}")
	}
	return ast.WalkSkipChildren, nil
}

// blockEnd terminates a block: a single newline inside list items, a blank
// line everywhere else.
func blockEnd(w util.BufWriter, node ast.Node) {
	if p := node.Parent(); p != nil && p.Kind() == ast.KindListItem {
		_ = w.WriteByte('\n')
		return
	}
	_, _ = w.WriteString("\n\n")
}

// escapeLatex resolves Markdown backslash escapes and entities before
// escaping LaTeX specials.
func escapeLatex(value []byte) string {
	value = util.UnescapePunctuations(value)
	value = util.ResolveNumericReferences(value)
	value = util.ResolveEntityNames(value)
	return latexEscaper.Replace(string(value))
}

// plainText concatenates the literal text below node.
func plainText(node ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

// headingIdentifier derives a label the way pandoc's auto_identifiers
// extension does: lowercase, punctuation dropped, spaces to hyphens, and
// everything before the first letter removed.
func headingIdentifier(text string) string {
	var b strings.Builder
	started := false
	for _, r := range strings.ToLower(text) {
		if !started {
			if !unicode.IsLetter(r) {
				continue
			}
			started = true
		}
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_', r == '-', r == '.':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "section"
	}
	return b.String()
}
