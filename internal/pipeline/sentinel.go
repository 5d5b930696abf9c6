package pipeline

import "strings"

// Sentinels survive format conversion untouched: both pandoc and goldmark
// treat them as plain prose. One token per class; ordinal correspondence
// with payloads is positional only.
const (
	CodeSentinel      = "!Flag content for code!"
	FigureSentinel    = "!Flag content for figure!"
	SvgFigureSentinel = "!Flag content for svg figure!"
	SlidesSentinel    = "!Flag content for slides!"
)

// Queue is a front-to-back cursor over an ordered payload list.
// Pop on an exhausted queue is a no-op that reports false.
type Queue[T any] struct {
	items []T
	next  int
}

// NewQueue creates a queue over items. The slice is not copied.
func NewQueue[T any](items []T) *Queue[T] {
	return &Queue[T]{items: items}
}

// Pop returns the next payload, or false once the queue is exhausted.
func (q *Queue[T]) Pop() (T, bool) {
	var zero T
	if q == nil || q.next >= len(q.items) {
		return zero, false
	}
	item := q.items[q.next]
	q.next++
	return item, true
}

// remaining returns how many payloads have not been consumed.
func (q *Queue[T]) remaining() int {
	if q == nil {
		return 0
	}
	return len(q.items) - q.next
}

// substitute replaces sentinel occurrences left to right with render(payload)
// until either the occurrences or the queue run out. Unmatched occurrences
// are left as literal text.
func substitute[T any](content, sentinel string, q *Queue[T], render func(T) string) string {
	if sentinel == "" || !strings.Contains(content, sentinel) {
		return content
	}

	var b strings.Builder
	b.Grow(len(content))

	rest := content
	for {
		idx := strings.Index(rest, sentinel)
		if idx == -1 {
			break
		}
		payload, ok := q.Pop()
		if !ok {
			break
		}
		b.WriteString(rest[:idx])
		b.WriteString(render(payload))
		rest = rest[idx+len(sentinel):]
	}
	b.WriteString(rest)

	return b.String()
}

// CountSentinels reports how many occurrences of each sentinel remain in
// content. Used to log missed extractions after re-injection.
func CountSentinels(content string) map[string]int {
	counts := make(map[string]int, 4)
	for _, s := range []string{CodeSentinel, FigureSentinel, SvgFigureSentinel, SlidesSentinel} {
		if n := strings.Count(content, s); n > 0 {
			counts[s] = n
		}
	}
	return counts
}
