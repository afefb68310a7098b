package fix

import (
	"bytes"
	"fmt"
	"strings"

	godiff "github.com/sourcegraph/go-diff/diff"
)

// contextLines is the number of context lines to show around changes.
const contextLines = 3

// Diff is a unified diff between the original and fixed content of one file.
type Diff struct {
	// Path is the file path for the diff header.
	Path string

	// Original is the original file content.
	Original []byte

	// Modified is the modified file content.
	Modified []byte

	// File holds the hunks in go-diff's representation.
	File *godiff.FileDiff

	// Additions is the number of lines added.
	Additions int

	// Deletions is the number of lines deleted.
	Deletions int
}

// lineOp is one line of an edit script.
type lineOp struct {
	prefix byte // ' ', '+' or '-'
	text   string
}

// GenerateDiff creates a unified diff between original and modified content.
// Returns nil if there are no changes.
func GenerateDiff(path string, original, modified []byte) *Diff {
	if bytes.Equal(original, modified) {
		return nil
	}

	ops := editScript(splitLines(original), splitLines(modified))
	hunks := groupHunks(ops)
	if len(hunks) == 0 {
		return nil
	}

	d := &Diff{
		Path:     path,
		Original: original,
		Modified: modified,
	}
	for _, op := range ops {
		switch op.prefix {
		case '+':
			d.Additions++
		case '-':
			d.Deletions++
		}
	}

	name := strings.TrimPrefix(path, "/")
	d.File = &godiff.FileDiff{
		OrigName: "a/" + name,
		NewName:  "b/" + name,
		Hunks:    hunks,
	}
	return d
}

// GitHeader returns the "diff --git" header line.
func (d *Diff) GitHeader() string {
	if d == nil {
		return ""
	}
	path := strings.TrimPrefix(d.Path, "/")
	return fmt.Sprintf("diff --git a/%s b/%s", path, path)
}

// String returns the diff in unified diff format (without the git header).
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}
	out, err := godiff.PrintFileDiff(d.File)
	if err != nil {
		return ""
	}
	return string(out)
}

// FullString returns the complete diff including the git header.
func (d *Diff) FullString() string {
	if !d.HasChanges() {
		return ""
	}
	return d.GitHeader() + "\n" + d.String()
}

// HasChanges returns true if the diff contains any changes.
func (d *Diff) HasChanges() bool {
	return d != nil && d.File != nil && len(d.File.Hunks) > 0
}

// splitLines splits content into lines, dropping the empty tail after a final newline.
func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	lines := strings.Split(string(content), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// editScript walks a longest-common-subsequence table to produce the line ops
// turning orig into mod.
func editScript(orig, mod []string) []lineOp {
	rows, cols := len(orig), len(mod)
	lcs := make([][]int, rows+1)
	for i := range lcs {
		lcs[i] = make([]int, cols+1)
	}
	for i := rows - 1; i >= 0; i-- {
		for j := cols - 1; j >= 0; j-- {
			if orig[i] == mod[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	ops := make([]lineOp, 0, max(rows, cols))
	i, j := 0, 0
	for i < rows || j < cols {
		switch {
		case i < rows && j < cols && orig[i] == mod[j]:
			ops = append(ops, lineOp{' ', orig[i]})
			i++
			j++
		case i < rows && (j == cols || lcs[i+1][j] >= lcs[i][j+1]):
			ops = append(ops, lineOp{'-', orig[i]})
			i++
		default:
			ops = append(ops, lineOp{'+', mod[j]})
			j++
		}
	}
	return ops
}

// groupHunks cuts the edit script into hunks with contextLines of context,
// merging changes separated by at most twice that many unchanged lines.
func groupHunks(ops []lineOp) []*godiff.Hunk {
	var hunks []*godiff.Hunk

	origLine, newLine := 1, 1
	origAt := make([]int, len(ops))
	newAt := make([]int, len(ops))
	for k, op := range ops {
		origAt[k], newAt[k] = origLine, newLine
		if op.prefix != '+' {
			origLine++
		}
		if op.prefix != '-' {
			newLine++
		}
	}

	for k := 0; k < len(ops); {
		if ops[k].prefix == ' ' {
			k++
			continue
		}

		start := max(0, k-contextLines)
		end := k
		for end < len(ops) {
			if ops[end].prefix != ' ' {
				end++
				continue
			}
			run := end
			for run < len(ops) && ops[run].prefix == ' ' {
				run++
			}
			if run == len(ops) || run-end > 2*contextLines {
				end = min(len(ops), end+contextLines)
				break
			}
			end = run
		}

		hunk := &godiff.Hunk{
			OrigStartLine: int32(origAt[start]),
			NewStartLine:  int32(newAt[start]),
		}
		var body bytes.Buffer
		for _, op := range ops[start:end] {
			body.WriteByte(op.prefix)
			body.WriteString(op.text)
			body.WriteByte('\n')
			if op.prefix != '+' {
				hunk.OrigLines++
			}
			if op.prefix != '-' {
				hunk.NewLines++
			}
		}
		hunk.Body = body.Bytes()
		if hunk.OrigLines == 0 {
			hunk.OrigStartLine--
		}
		if hunk.NewLines == 0 {
			hunk.NewStartLine--
		}
		hunks = append(hunks, hunk)
		k = end
	}

	return hunks
}
