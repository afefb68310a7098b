package lint

import (
	"context"

	"github.com/yaklabco/eflint/pkg/csast"
)

// Parser parses C# source into a FileSnapshot.
//
// The lint package defines this interface in the consumer package.
// Implementations (e.g., parser/treesitter) provide the concrete parsing logic.
//
// Implementations must be:
//   - deterministic for a given (path, content) pair,
//   - safe for concurrent use by multiple goroutines,
//   - side-effect free (no I/O, no global state mutation).
type Parser interface {
	// Parse converts raw source bytes into a fully-populated FileSnapshot.
	//
	// The returned FileSnapshot must satisfy:
	//   - snapshot.Path == path
	//   - bytes.Equal(snapshot.Content, content)
	//   - snapshot.Root != nil && snapshot.Root.Kind == csast.NodeCompilationUnit
	//   - All nodes have node.File == snapshot
	//
	// Source with syntax errors still parses; snapshot.HasErrors is set.
	Parse(ctx context.Context, path string, content []byte) (*csast.FileSnapshot, error)
}
