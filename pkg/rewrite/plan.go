// Package rewrite builds the source edits behind each fix: fresh identifier
// allocation, include path translation, and a Plan of node replacements,
// statement insertions and import insertions computed against one immutable
// snapshot and applied as a unit.
package rewrite

import (
	"strings"

	"github.com/yaklabco/eflint/pkg/csast"
	"github.com/yaklabco/eflint/pkg/fix"
)

// Plan is an ordered set of edits against one file snapshot. Nothing is
// written until Apply, and Apply either applies every edit or none.
type Plan struct {
	snapshot *csast.FileSnapshot
	builder  *fix.EditBuilder
	imports  []string
}

// NewPlan starts an empty plan for snapshot.
func NewPlan(snapshot *csast.FileSnapshot) *Plan {
	return &Plan{
		snapshot: snapshot,
		builder:  fix.NewEditBuilder(snapshot.Content),
	}
}

// Snapshot returns the snapshot the plan edits.
func (p *Plan) Snapshot() *csast.FileSnapshot {
	return p.snapshot
}

// ReplaceNode replaces the source text of n.
func (p *Plan) ReplaceNode(n *csast.Node, text string) {
	p.builder.ReplaceRange(n.StartOffset, n.EndOffset, text)
}

// InsertAfter inserts text immediately after n.
func (p *Plan) InsertAfter(n *csast.Node, text string) {
	p.builder.Insert(n.EndOffset, text)
}

// InsertStatementBefore inserts statement ahead of anchor. When anchor starts
// its line the statement gets a line of its own with the anchor's indentation;
// otherwise it is placed inline.
func (p *Plan) InsertStatementBefore(anchor *csast.Node, statement string) {
	lineStart := p.snapshot.LineStartOf(anchor.StartOffset)
	if lineStart < 0 {
		p.builder.Insert(anchor.StartOffset, statement+" ")
		return
	}
	lead := p.snapshot.Content[lineStart:anchor.StartOffset]

	if strings.TrimLeft(string(lead), " \t") == "" {
		indent := p.snapshot.IndentAt(anchor.StartOffset)
		p.builder.Insert(lineStart, indent+statement+p.snapshot.Newline())
		return
	}
	p.builder.Insert(anchor.StartOffset, statement+" ")
}

// EnsureImport adds a using directive for namespace unless the file already
// has one.
func (p *Plan) EnsureImport(namespace string) {
	for _, ns := range p.imports {
		if ns == namespace {
			return
		}
	}
	p.imports = append(p.imports, namespace)
}

// Empty reports whether the plan would change nothing.
func (p *Plan) Empty() bool {
	return len(p.Edits()) == 0
}

// Edits returns the text edits of the plan, import insertions included.
func (p *Plan) Edits() []fix.TextEdit {
	edits := make([]fix.TextEdit, 0, p.builder.Len()+len(p.imports))
	edits = append(edits, p.importEdits()...)
	edits = append(edits, p.builder.Edits...)
	return edits
}

// Apply returns the edited content. On error the original content is
// returned unchanged.
func (p *Plan) Apply() ([]byte, error) {
	return fix.Apply(p.snapshot.Content, p.Edits())
}

func (p *Plan) importEdits() []fix.TextEdit {
	existing := ImportedNamespaces(p.snapshot.Root)
	nl := p.snapshot.Newline()

	var missing []string
	for _, ns := range p.imports {
		if !existing[ns] {
			missing = append(missing, ns)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	edits := fix.NewEditBuilder(p.snapshot.Content)
	if last := lastUsing(p.snapshot.Root); last != nil {
		for _, ns := range missing {
			edits.Insert(last.EndOffset, nl+"using "+ns+";")
		}
		return edits.Edits
	}

	offset := 0
	if first := p.snapshot.Root.FirstChild; first != nil {
		offset = first.StartOffset
	}
	for _, ns := range missing {
		edits.Insert(offset, "using "+ns+";"+nl)
	}
	edits.Insert(offset, nl)
	return edits.Edits
}

// ImportedNamespaces returns the namespaces of plain using directives found
// at file or namespace level. Aliases and static usings are skipped.
func ImportedNamespaces(root *csast.Node) map[string]bool {
	out := make(map[string]bool)
	for _, n := range csast.FindByKind(root, csast.NodeUsingDirective) {
		if ns := usingNamespace(n); ns != "" {
			out[ns] = true
		}
	}
	return out
}

func usingNamespace(n *csast.Node) string {
	text := strings.TrimSpace(n.TextString())
	text = strings.TrimPrefix(text, "global ")
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "using")
	text = strings.TrimSuffix(strings.TrimSpace(text), ";")
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "static ") || strings.Contains(text, "=") {
		return ""
	}
	text = strings.TrimPrefix(text, "global::")
	return strings.Join(strings.Fields(text), "")
}

// lastUsing finds the last file-level using directive, falling back to the
// usings of the first namespace.
func lastUsing(root *csast.Node) *csast.Node {
	var last *csast.Node
	for child := root.FirstChild; child != nil; child = child.Next {
		if child.Kind == csast.NodeUsingDirective {
			last = child
		}
	}
	if last != nil {
		return last
	}
	if ns := root.FirstChildOfKind(csast.NodeNamespace); ns != nil {
		for _, n := range csast.FindByKind(ns, csast.NodeUsingDirective) {
			if n.Parent == ns || n.Parent.Parent == ns {
				last = n
			}
		}
	}
	return last
}
