package pipeline

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"
)

// Precompiled regex patterns for performance.
var (
	// <div ...>...</div>, non-greedy, may span lines
	divBlockPattern = regexp.MustCompile(`(?s)<div[^>]*?>.*?</div>`)

	// <iframe ...>...</iframe>, non-greedy, may span lines
	iframeBlockPattern = regexp.MustCompile(`(?s)<iframe[^>]*?>.*?</iframe>`)

	// $...$ inline math; spans never nest
	mathSpanPattern = regexp.MustCompile(`\$([^$]*)\$`)

	// literal \r\n, or literal \n with the letters that follow it
	newlineEscapePattern = regexp.MustCompile(`\\r\\n|\\n[A-Za-z]*`)

	// one or more consecutive \uXXXX escapes (a run may hold a surrogate pair)
	unicodeEscapeRun = regexp.MustCompile(`(?:\\u[0-9a-fA-F]{4})+`)
)

var questionEscapes = strings.NewReplacer(`\n`, "\n", `\t`, "\n")

// latexNCommands are LaTeX commands spelled with a leading \n. A literal
// escape followed by exactly one of these names is left alone.
var latexNCommands = map[string]bool{
	"ne": true, "neq": true, "neg": true, "nabla": true, "nu": true,
	"notin": true, "nmid": true, "nleq": true, "ngeq": true,
	"nexists": true, "newline": true, "noindent": true,
}

// SanitizeSolution prepares a solution article for Markdown conversion.
// Figures, slide decks and playground iframes become sentinels; wrappers,
// escape sequences and converter-hostile markup are normalized.
func SanitizeSolution(content string) string {
	if content == "" {
		return content
	}

	content = stripWrapping(content)

	content = figurePattern.ReplaceAllLiteralString(content, FigureSentinel)
	content = svgFigurePattern.ReplaceAllLiteralString(content, SvgFigureSentinel)
	content = slideRefPattern.ReplaceAllLiteralString(content, SlidesSentinel)

	content = divBlockPattern.ReplaceAllLiteralString(content, "")
	content = iframeBlockPattern.ReplaceAllLiteralString(content, CodeSentinel)

	content = strings.ReplaceAll(content, "[TOC]", "")
	content = unescapeNewlines(content)
	content = strings.ReplaceAll(content, "$$", "$")
	content = strings.ReplaceAll(content, "---", "")

	return repairMathSlashes(content)
}

// SanitizeQuestion prepares a question statement for HTML conversion.
func SanitizeQuestion(content string) string {
	if content == "" {
		return content
	}

	content = stripWrapping(content)
	content = decodeUnicodeEscapes(content)
	content = imgTagPattern.ReplaceAllStringFunc(content, func(tag string) string {
		if _, ok := questionImage(tag); ok {
			return FigureSentinel
		}
		return tag
	})
	return questionEscapes.Replace(content)
}

// stripWrapping trims whitespace and removes at most one leading quote and
// at most one trailing semicolon, comma and quote, in that order. Bodies
// copied out of JSON payloads carry these.
func stripWrapping(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, `"`)
	content = strings.TrimSuffix(content, ";")
	content = strings.TrimSuffix(content, ",")
	content = strings.TrimSuffix(content, `"`)
	return content
}

// unescapeNewlines turns literal \r\n and \n escapes into newlines. The
// letters after \n are kept either way; only a whole word naming a known
// LaTeX command (\neq, \nabla, ...) keeps its backslash.
func unescapeNewlines(content string) string {
	return newlineEscapePattern.ReplaceAllStringFunc(content, func(m string) string {
		if m == `\r\n` {
			return "\n"
		}
		word := m[1:]
		if latexNCommands[word] {
			return m
		}
		return "\n" + word[1:]
	})
}

// repairMathSlashes collapses doubled slashes inside every $...$ span.
func repairMathSlashes(content string) string {
	return mathSpanPattern.ReplaceAllStringFunc(content, func(span string) string {
		return strings.ReplaceAll(span, "//", "/")
	})
}

// decodeUnicodeEscapes turns literal \uXXXX sequences into characters,
// joining surrogate pairs.
func decodeUnicodeEscapes(content string) string {
	return unicodeEscapeRun.ReplaceAllStringFunc(content, func(run string) string {
		units := make([]uint16, 0, len(run)/6)
		for i := 0; i+6 <= len(run); i += 6 {
			v, err := strconv.ParseUint(run[i+2:i+6], 16, 16)
			if err != nil {
				return run
			}
			units = append(units, uint16(v))
		}
		return string(utf16.Decode(units))
	})
}
