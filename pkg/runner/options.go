// Package runner lints a tree of C# files.
//
// A run discovers files, parses all of them in parallel into a project-wide
// type index, then lints and optionally fixes each hand-written file
// against that index on a worker pool.
package runner

import (
	"slices"

	"github.com/yaklabco/eflint/pkg/config"
)

// Options controls one run.
type Options struct {
	// Paths are files or directories, "." when empty.
	Paths []string

	// WorkingDir resolves relative Paths, globs and the schema path. The
	// process working directory when empty.
	WorkingDir string

	// Extensions are lowercase with a leading dot. config.DefaultExtensions
	// when empty.
	Extensions []string

	// IncludeGlobs, when set, restrict discovery to matching paths.
	// ExcludeGlobs drop files and whole directories from both the index
	// and linting.
	IncludeGlobs []string
	ExcludeGlobs []string

	FollowSymlinks bool

	// IncludeGenerated lints vendored and generated files too. They are
	// indexed either way.
	IncludeGenerated bool

	// Jobs caps concurrency, one per CPU when <= 0.
	Jobs int

	Config *config.Config
}

// DefaultExtensions returns a copy of config.DefaultExtensions.
func DefaultExtensions() []string {
	return slices.Clone(config.DefaultExtensions)
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
