package pipeline

import (
	"regexp"
	"strings"
)

// SectionSeparator closes every repaired solution so problems stay visually
// apart in the assembled source.
const SectionSeparator = "%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%"

// ForcedBreak replaces blank lines; consecutive blank lines mean something
// else to LaTeX than to Markdown.
const ForcedBreak = `\\`

// Markers emitted by the converters that the repair pass keys on.
const (
	tightListMarker     = "tightlist"
	videoSolutionMarker = "{Video Solution}"
	intuitionMarker     = "{Intuition}"
	algorithmMarker     = "{Algorithm}"
)

var (
	// Headings and block environment boundaries.
	structuralLinePattern = regexp.MustCompile(`\\subsection|\\subsubsection|\\(?:begin|end)\{(?:itemize|enumerate|quote|verbatim|lstlisting)\}`)

	// \paragraph{Title}\label{title}
	paragraphLabelPattern = regexp.MustCompile(`\\paragraph\{([^}]*)\}\s*\\label\{([^}]*)\}\s*`)

	// Tail of a heading wrapped onto a second line: ...}\label{...}
	labelContinuationPattern = regexp.MustCompile(`([^}]*)\}\s*\\label\{([^}]*)\}\s*`)

	// \subsection at line start
	subsectionPrefix = regexp.MustCompile(`^\\subsection`)
)

// repairRules selects which solution-only rules apply.
type repairRules struct {
	solution bool
}

// lineRepairer carries the single piece of state the pass needs: whether the
// last structural line still owns the following blank.
type lineRepairer struct {
	rules      repairRules
	out        []string
	structural bool
	prevBlank  bool
}

// RepairSolution rewrites converter output for a solution article and
// appends the section separator.
func RepairSolution(latex string) string {
	r := &lineRepairer{rules: repairRules{solution: true}}
	lines := r.run(splitLines(latex))
	return strings.TrimSpace(strings.Join(lines, "\n") + "\n\n" + SectionSeparator)
}

// RepairQuestion rewrites converter output for a question statement under a
// synthesized title header.
func RepairQuestion(latex, title string) string {
	r := &lineRepairer{
		out: []string{
			`\subsection{` + title + `}`,
			`\subsubsection{Description}`,
		},
	}
	lines := r.run(splitLines(latex))
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func (r *lineRepairer) run(lines []string) []string {
	for _, line := range lines {
		r.line(line)
	}
	return r.out
}

func (r *lineRepairer) line(line string) {
	if strings.Contains(line, tightListMarker) {
		return
	}

	if r.rules.solution {
		if strings.Contains(line, videoSolutionMarker) {
			r.structural = true
			return
		}
		if paragraphLabelPattern.MatchString(line) {
			line = paragraphLabelPattern.ReplaceAllString(line, `\textbf{$1}`)
		}
	}

	blank := isBlankLine(line)

	if structuralLinePattern.MatchString(line) {
		if r.rules.solution && isSolutionHeading(line) {
			line = subsectionPrefix.ReplaceAllLiteralString(line, `\subsubsection`)
		}
		if r.prevBlank && len(r.out) > 0 {
			r.out = r.out[:len(r.out)-1]
		}
		r.emit(line, false)
		r.structural = true
		return
	}

	if r.structural && blank {
		r.structural = false
		return
	}

	if r.rules.solution {
		if strings.Contains(line, intuitionMarker) {
			r.emit(line, false)
			return
		}
		if strings.Contains(line, algorithmMarker) {
			r.out = append(r.out, ForcedBreak)
			r.emit(line, false)
			return
		}
	}

	if r.structural && !blank && !(r.rules.solution && labelContinuationPattern.MatchString(line)) {
		r.structural = false
	}

	if blank {
		r.emit(ForcedBreak, true)
		return
	}
	r.emit(line, false)
}

func (r *lineRepairer) emit(line string, blank bool) {
	r.out = append(r.out, line)
	r.prevBlank = blank
}

// isSolutionHeading reports a \subsection titled "Solution" or
// "Solution Article"; those sit one level too high in the article.
func isSolutionHeading(line string) bool {
	if !strings.HasPrefix(line, `\subsection`) {
		return false
	}
	return strings.Contains(line, "{Solution Article}") || strings.Contains(line, "{Solution}")
}

// splitLines splits on newlines and drops trailing empty lines left by the
// converter's final newline.
func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// isBlankLine returns true if the line is empty or contains only whitespace.
func isBlankLine(line string) bool {
	return strings.TrimSpace(line) == ""
}
