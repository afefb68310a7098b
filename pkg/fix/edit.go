// Package fix applies byte-range edits to file content and renders the
// result as a unified diff.
package fix

// TextEdit replaces content[StartOffset:EndOffset] with NewText. A
// non-empty OldText guards the edit: it applies only while those exact
// bytes are still in place.
type TextEdit struct {
	StartOffset int
	EndOffset   int
	NewText     string
	OldText     string
}

// EditBuilder collects edits against one version of a file, recording the
// replaced bytes of every non-empty range as its guard.
type EditBuilder struct {
	content []byte
	Edits   []TextEdit
}

func NewEditBuilder(content []byte) *EditBuilder {
	return &EditBuilder{content: content}
}

// ReplaceRange replaces [start, end) with text.
func (b *EditBuilder) ReplaceRange(start, end int, text string) {
	e := TextEdit{StartOffset: start, EndOffset: end, NewText: text}
	if 0 <= start && start < end && end <= len(b.content) {
		e.OldText = string(b.content[start:end])
	}
	b.Edits = append(b.Edits, e)
}

func (b *EditBuilder) Insert(offset int, text string) { b.ReplaceRange(offset, offset, text) }

func (b *EditBuilder) Delete(start, end int) { b.ReplaceRange(start, end, "") }

func (b *EditBuilder) Len() int { return len(b.Edits) }
