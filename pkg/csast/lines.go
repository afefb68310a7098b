package csast

import (
	"bytes"
	"sort"
)

func lineStarts(content []byte) []int {
	starts := []int{0}
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineIndex returns the 0-based line holding offset, or -1.
func (f *FileSnapshot) lineIndex(offset int) int {
	if offset < 0 || offset > len(f.Content) {
		return -1
	}
	return sort.SearchInts(f.lineStarts, offset+1) - 1
}

// LineAt converts a byte offset to a 1-based line and byte column. The
// offset just past the end of the file is valid. Anything else out of
// range gives (0, 0).
func (f *FileSnapshot) LineAt(offset int) (line, column int) {
	i := f.lineIndex(offset)
	if i < 0 {
		return 0, 0
	}
	return i + 1, offset - f.lineStarts[i] + 1
}

// Position converts r to line/column coordinates. An end offset of
// len(Content) is valid and maps one column past the last byte.
func (f *FileSnapshot) Position(r SourceRange) SourcePosition {
	var p SourcePosition
	p.StartLine, p.StartColumn = f.LineAt(r.StartOffset)
	p.EndLine, p.EndColumn = f.LineAt(r.EndOffset)
	return p
}

// LineStartOf returns the offset where the line holding offset begins, or -1.
func (f *FileSnapshot) LineStartOf(offset int) int {
	if i := f.lineIndex(offset); i >= 0 {
		return f.lineStarts[i]
	}
	return -1
}

// LineContent returns 1-based line without its line ending, or nil.
func (f *FileSnapshot) LineContent(line int) []byte {
	if line < 1 || line > len(f.lineStarts) {
		return nil
	}
	start := f.lineStarts[line-1]
	end := len(f.Content)
	if line < len(f.lineStarts) {
		end = f.lineStarts[line] - 1
	}
	return bytes.TrimSuffix(f.Content[start:end], []byte("\r"))
}

// Newline is the line ending most of the file uses, "\n" on a tie.
func (f *FileSnapshot) Newline() string {
	crlf := bytes.Count(f.Content, []byte("\r\n"))
	if crlf > len(f.lineStarts)-1-crlf {
		return "\r\n"
	}
	return "\n"
}

// IndentAt returns the spaces and tabs that open the line holding offset.
func (f *FileSnapshot) IndentAt(offset int) string {
	line, _ := f.LineAt(offset)
	content := f.LineContent(line)
	return string(content[:len(content)-len(bytes.TrimLeft(content, " \t"))])
}
