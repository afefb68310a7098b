package csast

// SourceRange is a half-open byte range [StartOffset, EndOffset).
type SourceRange struct {
	StartOffset int
	EndOffset   int
}

// Contains reports whether offset falls inside r.
func (r SourceRange) Contains(offset int) bool {
	return r.StartOffset <= offset && offset < r.EndOffset
}

// SourcePosition is a range in 1-based line and byte-column coordinates.
// The end is exclusive, like the byte range it came from.
type SourcePosition struct {
	StartLine, StartColumn int
	EndLine, EndColumn     int
}

// IsValid reports whether every coordinate is set.
func (p SourcePosition) IsValid() bool {
	return min(p.StartLine, p.StartColumn, p.EndLine, p.EndColumn) > 0
}

// SourceRange returns the node's byte span.
func (n *Node) SourceRange() SourceRange {
	return SourceRange{n.StartOffset, n.EndOffset}
}

// SourcePosition returns the node's line/column span, or the zero value
// for a node outside any file.
func (n *Node) SourcePosition() SourcePosition {
	if n.File == nil {
		return SourcePosition{}
	}
	return n.File.Position(n.SourceRange())
}

// TextString returns the node's source text, or "" when the node is not
// attached to a file or its span is out of bounds.
func (n *Node) TextString() string {
	if n.File == nil || n.StartOffset < 0 || n.StartOffset > n.EndOffset || n.EndOffset > len(n.File.Content) {
		return ""
	}
	return string(n.File.Content[n.StartOffset:n.EndOffset])
}
