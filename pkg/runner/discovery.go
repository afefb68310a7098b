package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	gobwas "github.com/gobwas/glob"
)

// buildOutputDirs are never walked. They hold compiler output and copies of
// generated sources.
var buildOutputDirs = map[string]bool{"bin": true, "obj": true}

// Discover finds the C# files selected by opts and returns their absolute
// paths in sorted order. Explicit file arguments are subject to the same
// extension and glob filters as files found by walking a directory.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	d := newDiscoverer(ctx, workDir, opts)

	for _, arg := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		abs := arg
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(workDir, abs)
		}
		abs = filepath.Clean(abs)

		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}

		if !info.IsDir() {
			d.consider(abs)
			continue
		}
		if err := d.walk(abs); err != nil {
			return nil, fmt.Errorf("walk directory %s: %w", arg, err)
		}
	}

	slices.Sort(d.files)
	return d.files, nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		return os.Getwd()
	}
	return filepath.Abs(workDir)
}

type discoverer struct {
	ctx     context.Context
	workDir string
	exts    map[string]bool
	include []glob
	exclude []glob
	follow  bool

	seen   map[string]struct{}
	walked map[string]bool
	files  []string
}

func newDiscoverer(ctx context.Context, workDir string, opts Options) *discoverer {
	exts := make(map[string]bool)
	for _, ext := range opts.effectiveExtensions() {
		exts[strings.ToLower(ext)] = true
	}
	return &discoverer{
		ctx:     ctx,
		workDir: workDir,
		exts:    exts,
		include: compileGlobs(opts.IncludeGlobs),
		exclude: compileGlobs(opts.ExcludeGlobs),
		follow:  opts.FollowSymlinks,
		seen:    make(map[string]struct{}),
		walked:  make(map[string]bool),
	}
}

// walk adds the matching files under root. Each real directory is walked at
// most once, which also stops symlink cycles.
func (d *discoverer) walk(root string) error {
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		if d.walked[resolved] {
			return nil
		}
		d.walked[resolved] = true
	}

	return filepath.WalkDir(root, func(p string, entry fs.DirEntry, err error) error {
		if ctxErr := d.ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if !errors.Is(err, fs.ErrPermission) {
				return err
			}
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		name := entry.Name()
		if entry.IsDir() {
			if p != root && (strings.HasPrefix(name, ".") || buildOutputDirs[strings.ToLower(name)]) {
				return fs.SkipDir
			}
			if rel := d.rel(p); rel != "." && anyMatch(d.exclude, rel) {
				return fs.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			return d.symlink(p)
		}

		d.consider(p)
		return nil
	})
}

// symlink handles a link met during a walk. Broken links are ignored and
// directory links are walked only when following is enabled.
func (d *discoverer) symlink(p string) error {
	target, err := filepath.EvalSymlinks(p)
	if err != nil {
		return nil //nolint:nilerr // broken link
	}
	info, err := os.Stat(target)
	if err != nil {
		return nil //nolint:nilerr // unreadable target
	}
	if !info.IsDir() {
		d.consider(p)
		return nil
	}
	if !d.follow {
		return nil
	}
	// WalkDir does not descend through a symlinked root, so walk the target.
	return d.walk(target)
}

// consider records path when it has a C# extension, is not excluded, and
// matches the include globs if any are set.
func (d *discoverer) consider(p string) {
	if !d.exts[strings.ToLower(filepath.Ext(p))] {
		return
	}
	rel := d.rel(p)
	if excludedWithParents(d.exclude, rel) {
		return
	}
	if len(d.include) > 0 && !anyMatch(d.include, rel) {
		return
	}
	if _, dup := d.seen[p]; dup {
		return
	}
	d.seen[p] = struct{}{}
	d.files = append(d.files, p)
}

// rel returns p relative to the working directory with forward slashes.
func (d *discoverer) rel(p string) string {
	rel, err := filepath.Rel(d.workDir, p)
	if err != nil {
		rel = p
	}
	return filepath.ToSlash(rel)
}

// glob is an ignore or include pattern. A "**" segment spans any number of
// directories, including none. Patterns without a slash match the last path
// element, so "*.Designer.cs" and "Migrations" apply at any depth.
type glob struct {
	alts     []gobwas.Glob // empty when the pattern does not compile
	baseOnly bool
}

func compileGlobs(patterns []string) []glob {
	globs := make([]glob, 0, len(patterns))
	for _, p := range patterns {
		p = strings.Trim(filepath.ToSlash(p), "/")
		if p == "" {
			continue
		}
		g := glob{baseOnly: !strings.Contains(p, "/")}
		for _, alt := range expandDoubleStar(p) {
			m, err := gobwas.Compile(alt, '/')
			if err != nil {
				g.alts = nil // invalid patterns match nothing
				break
			}
			g.alts = append(g.alts, m)
		}
		globs = append(globs, g)
	}
	return globs
}

// expandDoubleStar lists the variants of pattern with each "**" segment
// either kept or dropped, so "a/**/b" gives "a/**/b" and "a/b". gobwas
// mishandles "**" inside {,} alternation, so the variants are compiled
// separately.
func expandDoubleStar(pattern string) []string {
	alts := [][]string{nil}
	for _, seg := range strings.Split(pattern, "/") {
		n := len(alts)
		for i := range n {
			kept := append(slices.Clip(alts[i]), seg)
			if seg == "**" {
				alts = append(alts, alts[i]) // dropped
			}
			alts[i] = kept
		}
	}

	out := make([]string, 0, len(alts))
	for _, segs := range alts {
		if alt := strings.Join(segs, "/"); alt != "" && !slices.Contains(out, alt) {
			out = append(out, alt)
		}
	}
	return out
}

func (g glob) match(rel string) bool {
	if g.baseOnly {
		rel = path.Base(rel)
	}
	return slices.ContainsFunc(g.alts, func(m gobwas.Glob) bool { return m.Match(rel) })
}

func anyMatch(globs []glob, rel string) bool {
	for _, g := range globs {
		if g.match(rel) {
			return true
		}
	}
	return false
}

// excludedWithParents reports whether rel or any directory above it is
// excluded, so an explicit file argument inside an excluded tree is skipped.
func excludedWithParents(globs []glob, rel string) bool {
	for p := rel; p != "." && p != "/" && p != ""; p = path.Dir(p) {
		if anyMatch(globs, p) {
			return true
		}
		if !strings.Contains(p, "/") {
			break
		}
	}
	return false
}
