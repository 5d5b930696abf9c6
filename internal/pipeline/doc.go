// Package pipeline implements the LeetCode-to-LaTeX text pipeline.
//
// The stages run in a fixed order for every document:
//   - Extraction: scan raw Markdown for playground iframes, figure images
//     and slide-deck references (extract.go)
//   - Sanitization: replace those patterns with sentinel tokens and strip
//     noise before conversion (mdtransform.go)
//   - Conversion: Markdown or HTML to LaTeX via pandoc or goldmark
//     (converter.go, md2latex.go)
//   - Repair: line-oriented cleanup of converter output (repair.go)
//   - Re-injection: replace sentinels with listings and figures, consuming
//     payloads in discovery order (latexinject.go)
//
// Network access is not part of this package. Callers fetch playground code
// and slide timelines themselves and hand the results to the injectors, so
// every function here is deterministic and safe for concurrent use.
package pipeline
