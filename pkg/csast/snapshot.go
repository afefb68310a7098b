// Package csast is eflint's C# syntax tree: a lossless FileSnapshot of the
// source bytes and a tree of named Nodes that point into them by byte span.
//
// Snapshots are never edited. A rewrite produces new bytes, which are
// parsed into a new snapshot.
package csast

// FileSnapshot is one version of a C# file.
type FileSnapshot struct {
	Path    string // empty for in-memory content
	Content []byte
	Root    *Node // CompilationUnit, nil until parsed

	// HasErrors is set when the parser had to recover from syntax errors.
	HasErrors bool

	// lineStarts[i] is the offset of the first byte of line i+1.
	lineStarts []int
}

// NewFileSnapshot indexes the lines of content. The tree is attached later
// by a parser.
func NewFileSnapshot(path string, content []byte) *FileSnapshot {
	return &FileSnapshot{Path: path, Content: content, lineStarts: lineStarts(content)}
}

// Attach makes root the tree of f, spanning the whole file, and points every
// node in it back at f.
func (f *FileSnapshot) Attach(root *Node) {
	root.StartOffset, root.EndOffset = 0, len(f.Content)
	for n := range root.Preorder() {
		n.File = f
	}
	f.Root = root
}
