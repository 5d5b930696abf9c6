// Package leet2tex converts LeetCode problem statements and official
// solution articles into one LaTeX document.
//
// # Quick Start
//
// Create a renderer and render a list of problem slugs:
//
//	r := leet2tex.NewRenderer()
//
//	latex, err := r.Render(ctx, []string{"two-sum", "add-two-numbers"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("problems.tex", []byte(latex), 0644)
//
// The LaTeX references images by relative path (images/<slug>/1.png).
// Download them with a MediaCollector and unpack the archive next to the
// .tex file:
//
//	mc := leet2tex.NewMediaCollector()
//	archive, err := mc.CollectBytes(ctx, []string{"two-sum"})
//
// # Pipeline
//
// Every slug runs through the same stages:
//
//  1. Extraction: playground code, figures and slide decks are located in
//     the raw solution Markdown and fetched in document order.
//  2. Sanitizing: each located span is replaced by a fixed sentinel string
//     and converter-hostile markup is normalized.
//  3. Conversion: the remaining prose goes through pandoc or the built-in
//     goldmark backend.
//  4. Repair: a line pass fixes heading levels, blank lines and list
//     artifacts in the converter output.
//  5. Re-injection: sentinels are replaced, in order, by listings, figures
//     and slide subfigures.
//
// Sections are assembled in input order as question, blank line, solution,
// blank line. Sub-resource failures degrade to empty content and are logged;
// conversion failures are inlined as text.
//
// # Configuration
//
//	r := leet2tex.NewRenderer(
//	    leet2tex.WithSource(leetcode.New(leetcode.WithCredentials(session, csrf))),
//	    leet2tex.WithConverter(pipeline.NewGoldmarkConverter()),
//	    leet2tex.WithLanguage("python3"),
//	)
//
// A Renderer holds no per-request state and is safe for concurrent use.
package leet2tex
