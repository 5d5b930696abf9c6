package pipeline

import (
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// MediaRoot is the directory every synthesized image path lives under.
const MediaRoot = "images"

// imageExt enumerates both cases explicitly; keyword matching stays
// case-sensitive everywhere else.
const imageExt = `(jpg|jpeg|png|gif|svg|PNG|JPG|JPEG|GIF|SVG)`

var (
	// ![alt](../Figures/dir/name.png)
	figurePattern = regexp.MustCompile(`!\[([^\]]+)\]\(\.\./Figures/(.+?\.` + imageExt + `)\)`)

	// ![alt](../Documents/dir/name.svg), images embedded next to slide decks
	svgFigurePattern = regexp.MustCompile(`!\[([^\]]+)\]\(\.\./Documents/(.+?\.` + imageExt + `)\)`)

	// !?!../Documents/deck.json:540,400!?!
	slideRefPattern = regexp.MustCompile(`!\??!\.\./Documents/(\S+?):\d+,\d+!\??!`)

	// ../Figures/dir/name.png inside a slide timeline entry
	slideImagePattern = regexp.MustCompile(`\.\./Figures/(.+?\.` + imageExt + `)`)

	// <iframe src="https://leetcode.com/playground/<uuid>/shared" ...>, quotes may arrive escaped
	playgroundPattern = regexp.MustCompile(`<iframe[^>]*src=\\?"(https://leetcode\.com/playground/([^"]+))/shared\\?"[^>]*>`)

	// <img ... src="..." ...> in question HTML
	imgTagPattern = regexp.MustCompile(`<img\s+[^>]*?src\s*=\s*(?:"[^"]*"|'[^']*')[^>]*?>`)
)

var knownImageExts = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true, "svg": true,
	"JPG": true, "JPEG": true, "PNG": true, "GIF": true, "SVG": true,
}

// FigureRef is one image reference found in raw content.
type FigureRef struct {
	Source string // path relative to the Figures/ asset root, or an absolute URL
	Ext    string // extension without dot, original case
}

// PlaygroundRef is one embedded code playground.
type PlaygroundRef struct {
	URL  string
	UUID string
}

// ScanPlaygrounds returns playground iframes in scan order.
func ScanPlaygrounds(markdown string) []PlaygroundRef {
	matches := playgroundPattern.FindAllStringSubmatch(markdown, -1)
	refs := make([]PlaygroundRef, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, PlaygroundRef{URL: m[1], UUID: m[2]})
	}
	return refs
}

// ScanFigures returns ../Figures/ image references in scan order.
func ScanFigures(markdown string) []FigureRef {
	matches := figurePattern.FindAllStringSubmatch(markdown, -1)
	refs := make([]FigureRef, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, FigureRef{Source: m[2], Ext: m[3]})
	}
	return refs
}

// ScanSlideDecks returns slide-deck document names in scan order.
func ScanSlideDecks(markdown string) []string {
	matches := slideRefPattern.FindAllStringSubmatch(markdown, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

// SlideImages filters a deck timeline down to the entries that reference a
// figure image, preserving timeline order.
func SlideImages(timeline []string) []FigureRef {
	refs := make([]FigureRef, 0, len(timeline))
	for _, image := range timeline {
		m := slideImagePattern.FindStringSubmatch(image)
		if m == nil {
			continue
		}
		refs = append(refs, FigureRef{Source: m[1], Ext: m[2]})
	}
	return refs
}

// ScanQuestionImages returns <img> sources from question HTML in scan order.
// Tags without a recognizable image extension are skipped; the question
// sanitizer leaves exactly those tags in place, so ordinals line up.
func ScanQuestionImages(content string) []FigureRef {
	tags := imgTagPattern.FindAllString(content, -1)
	refs := make([]FigureRef, 0, len(tags))
	for _, tag := range tags {
		if ref, ok := questionImage(tag); ok {
			refs = append(refs, ref)
		}
	}
	return refs
}

// questionImage resolves one <img> tag to a figure reference.
func questionImage(tag string) (FigureRef, bool) {
	src := imgSource(tag)
	if src == "" {
		return FigureRef{}, false
	}
	ext := urlExt(src)
	if !knownImageExts[ext] {
		return FigureRef{}, false
	}
	return FigureRef{Source: src, Ext: ext}, true
}

// imgSource reads the src attribute of a single <img> tag.
func imgSource(tag string) string {
	z := html.NewTokenizer(strings.NewReader(tag))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.Data != "img" {
				continue
			}
			for _, attr := range tok.Attr {
				if attr.Key == "src" {
					return strings.TrimSpace(attr.Val)
				}
			}
			return ""
		}
	}
}

// urlExt returns the extension of a URL path without the dot.
func urlExt(src string) string {
	p := src
	if u, err := url.Parse(src); err == nil {
		p = u.Path
	}
	return strings.TrimPrefix(path.Ext(p), ".")
}

// MediaNamer synthesizes asset paths for one slug. Counters are per
// document: create a new namer for every slug and never share one.
type MediaNamer struct {
	slug    string
	figures int
	decks   int
}

// NewMediaNamer creates a namer whose counters start at zero.
func NewMediaNamer(slug string) *MediaNamer {
	return &MediaNamer{slug: slug}
}

// NextFigure returns images/{slug}/{n}.{ext} for the next figure.
func (n *MediaNamer) NextFigure(ext string) string {
	n.figures++
	return MediaRoot + "/" + n.slug + "/" + strconv.Itoa(n.figures) + "." + ext
}

// NextDeck advances the deck counter. It must be called once per slide
// reference, even when the deck cannot be fetched.
func (n *MediaNamer) NextDeck() *DeckNamer {
	n.decks++
	return &DeckNamer{slug: n.slug, deck: n.decks}
}

// DeckNamer synthesizes image paths inside one slide deck.
type DeckNamer struct {
	slug   string
	deck   int
	images int
}

// Index returns the 1-based deck number.
func (d *DeckNamer) Index() int { return d.deck }

// NextImage returns images/{slug}/slide-{d}-image-{i}.{ext}.
func (d *DeckNamer) NextImage(ext string) string {
	d.images++
	return MediaRoot + "/" + d.slug + "/slide-" + strconv.Itoa(d.deck) + "-image-" + strconv.Itoa(d.images) + "." + ext
}
