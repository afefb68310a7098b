// Package treesitter provides a lint.Parser implementation for C# using
// the tree-sitter C# grammar.
package treesitter

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"

	"github.com/yaklabco/eflint/pkg/csast"
)

// DefaultMaxFileSize is the largest source file the parser accepts.
const DefaultMaxFileSize = 8 << 20

var (
	// ErrFileTooLarge is returned when content exceeds the configured size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrInvalidContent is returned for content that is not valid UTF-8.
	ErrInvalidContent = errors.New("invalid content")
)

// Parser implements lint.Parser on tree-sitter's C# grammar.
// A new tree-sitter parser is created per call, so Parser is safe for concurrent use.
type Parser struct {
	maxFileSize int
}

// Option configures a Parser.
type Option func(*Parser)

// WithMaxFileSize overrides the maximum accepted file size in bytes.
func WithMaxFileSize(size int) Option {
	return func(p *Parser) {
		if size > 0 {
			p.maxFileSize = size
		}
	}
}

// New creates a new C# parser.
func New(opts ...Option) *Parser {
	p := &Parser{maxFileSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse converts raw C# bytes into a fully-populated FileSnapshot.
//
// Syntax errors do not fail the parse: tree-sitter recovers, the snapshot is
// marked HasErrors, and the unparseable regions become NodeError nodes.
// Returns nil and an error if the content is rejected or the context is cancelled.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*csast.FileSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	if len(content) > p.maxFileSize {
		return nil, fmt.Errorf("%w: size %d exceeds limit %d", ErrFileTooLarge, len(content), p.maxFileSize)
	}
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%w: content is not valid UTF-8", ErrInvalidContent)
	}

	snapshot := csast.NewFileSnapshot(path, copyContent(content))

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(csharp.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, snapshot.Content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	defer tree.Close()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	rootNode := tree.RootNode()
	if rootNode == nil {
		return nil, errors.New("tree-sitter returned nil root node")
	}

	snapshot.HasErrors = rootNode.HasError()
	// The grammar trims trailing trivia from the root; Attach widens it to the whole file.
	snapshot.Attach(convert(rootNode, ""))

	return snapshot, nil
}

// convert builds the csast subtree for a tree-sitter node, keeping named,
// non-comment children only.
func convert(tsNode *sitter.Node, field string) *csast.Node {
	node := csast.NewNode(kindOf(tsNode.Type()), int(tsNode.StartByte()), int(tsNode.EndByte()))
	node.Type = tsNode.Type()
	node.Field = field

	fields := fieldRoles(tsNode)
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil || !child.IsNamed() || child.Type() == "comment" {
			continue
		}
		role := fields[spanKey{start: child.StartByte(), end: child.EndByte(), typ: child.Type()}]
		node.Append(convert(child, role))
	}

	return node
}

type spanKey struct {
	start, end uint32
	typ        string
}

// roleNames are the grammar field names the analyzers read.
//
//nolint:gochecknoglobals // Read-only lookup table.
var roleNames = []string{
	"name", "type", "body", "parameters", "function", "arguments", "expression",
	"left", "right", "value", "initializer", "condition", "returns",
}

func fieldRoles(tsNode *sitter.Node) map[spanKey]string {
	roles := make(map[spanKey]string, len(roleNames))
	for _, name := range roleNames {
		child := tsNode.ChildByFieldName(name)
		if child == nil {
			continue
		}
		key := spanKey{start: child.StartByte(), end: child.EndByte(), typ: child.Type()}
		if _, taken := roles[key]; !taken {
			roles[key] = name
		}
	}
	return roles
}

func copyContent(content []byte) []byte {
	out := make([]byte, len(content))
	copy(out, content)
	return out
}
