package leet2tex

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/alnah/go-leet2tex/internal/logger"
)

// ArchiveName is the file name suggested for a collected media archive.
const ArchiveName = "figures_and_slides.zip"

// MediaCollector downloads the images a Renderer references into a ZIP
// archive. Entry names equal the paths in the LaTeX, so unpacking the
// archive next to the .tex file resolves every \includegraphics.
type MediaCollector struct {
	extract *extractor
	source  Source
	log     *logger.Logger
	now     func() time.Time
}

// NewMediaCollector creates a MediaCollector. WithConverter has no effect.
func NewMediaCollector(opts ...Option) *MediaCollector {
	s := newSettings(opts)
	return &MediaCollector{
		extract: newExtractor(s),
		source:  s.source,
		log:     s.log,
		now:     time.Now,
	}
}

// Collect writes a ZIP archive of every figure, slide image and question
// image of slugs to w. Images that cannot be downloaded are logged and
// left out; only invalid input, cancellation and write errors are returned.
func (m *MediaCollector) Collect(ctx context.Context, slugs []string, w io.Writer) error {
	if err := ValidateSlugs(slugs); err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	seen := make(map[string]bool)
	modified := m.now()

	for _, slug := range slugs {
		if err := ctx.Err(); err != nil {
			return err
		}

		doc := m.extract.fetch(ctx, slug)
		if doc.failed() {
			continue
		}

		for _, a := range m.extract.media(ctx, doc).all() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if seen[a.path] {
				continue
			}

			data, err := m.source.Asset(ctx, a.ref)
			if err != nil {
				m.log.Warn("asset download failed", "slug", slug, "asset", a.ref, "error", err)
				continue
			}
			if err := writeEntry(zw, a.path, data, modified); err != nil {
				return err
			}
			seen[a.path] = true
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrArchiveWrite, err)
	}
	return nil
}

// CollectBytes is Collect into memory.
func (m *MediaCollector) CollectBytes(ctx context.Context, slugs []string) ([]byte, error) {
	var buf bytes.Buffer
	if err := m.Collect(ctx, slugs, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeEntry(zw *zip.Writer, name string, data []byte, modified time.Time) error {
	fw, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: modified,
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrArchiveWrite, name, err)
	}
	if _, err := fw.Write(data); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrArchiveWrite, name, err)
	}
	return nil
}
