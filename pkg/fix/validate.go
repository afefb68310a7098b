package fix

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrStaleEdit is returned when the content under a guarded edit has changed.
	ErrStaleEdit = errors.New("content changed under edit")

	// ErrConflict is wrapped by every ConflictError.
	ErrConflict = errors.New("conflicting edits")
)

// RangeError reports an edit whose offsets do not fit the content.
type RangeError struct {
	Edit   TextEdit
	Reason string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("edit %s: %s", e.Edit.span(), e.Reason)
}

// ConflictError reports two edits that touch the same bytes.
type ConflictError struct {
	First  TextEdit
	Second TextEdit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("edits %s and %s overlap", e.First.span(), e.Second.span())
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

func (e TextEdit) span() string {
	return fmt.Sprintf("[%d:%d]", e.StartOffset, e.EndOffset)
}

// check reports why e cannot apply to content of the given size, or "".
func (e TextEdit) check(size int) string {
	switch {
	case e.StartOffset < 0:
		return "negative start"
	case e.EndOffset < e.StartOffset:
		return "end precedes start"
	case e.EndOffset > size:
		return fmt.Sprintf("end past content length %d", size)
	}
	return ""
}

// stale reports whether a guarded edit no longer matches content.
func (e TextEdit) stale(content []byte) bool {
	if e.OldText == "" {
		return false
	}
	return e.EndOffset > len(content) || string(content[e.StartOffset:e.EndOffset]) != e.OldText
}

func byPosition(a, b TextEdit) int {
	return cmp.Or(
		cmp.Compare(a.StartOffset, b.StartOffset),
		cmp.Compare(a.EndOffset, b.EndOffset),
	)
}

// PrepareEdits returns a sorted copy of edits after checking every range
// against size and rejecting overlaps. Insertions at one offset keep the
// order they were added in.
func PrepareEdits(edits []TextEdit, size int) ([]TextEdit, error) {
	for _, e := range edits {
		if reason := e.check(size); reason != "" {
			return nil, &RangeError{Edit: e, Reason: reason}
		}
	}

	sorted := slices.Clone(edits)
	slices.SortStableFunc(sorted, byPosition)

	for i := 1; i < len(sorted); i++ {
		if sorted[i].StartOffset < sorted[i-1].EndOffset {
			return nil, &ConflictError{First: sorted[i-1], Second: sorted[i]}
		}
	}
	return sorted, nil
}

// VerifyGuards fails with ErrStaleEdit on the first guarded edit whose
// recorded bytes differ from content.
func VerifyGuards(edits []TextEdit, content []byte) error {
	i := slices.IndexFunc(edits, func(e TextEdit) bool { return e.stale(content) })
	if i < 0 {
		return nil
	}
	return fmt.Errorf("%w at %s", ErrStaleEdit, edits[i].span())
}
