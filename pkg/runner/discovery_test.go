package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// layout creates files under a new temp dir and returns the dir.
func layout(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, f := range files {
		p := filepath.Join(dir, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("class C { }"), 0o644))
	}
	return dir
}

// relAll maps absolute discovery results back to slash paths under dir.
func relAll(t *testing.T, dir string, files []string) []string {
	t.Helper()
	out := make([]string, len(files))
	for i, f := range files {
		rel, err := filepath.Rel(dir, f)
		require.NoError(t, err)
		out[i] = filepath.ToSlash(rel)
	}
	return out
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		files []string
		opts  Options
		want  []string
	}{
		{
			name:  "walks directory and skips build output",
			files: []string{"Program.cs", "Data/SalesContext.cs", "Data/Legacy.CS", "notes.txt", "bin/Debug/Copy.cs", "obj/Gen.cs"},
			opts:  Options{Paths: []string{"."}},
			want:  []string{"Data/Legacy.CS", "Data/SalesContext.cs", "Program.cs"},
		},
		{
			name:  "defaults to working directory",
			files: []string{"Test.cs"},
			want:  []string{"Test.cs"},
		},
		{
			name:  "skips hidden files and directories",
			files: []string{"Program.cs", ".hidden.cs", ".git/config.cs", "Data/.secret.cs"},
			want:  []string{"Program.cs"},
		},
		{
			name:  "custom extensions",
			files: []string{"A.cs", "B.csx", "C.txt"},
			opts:  Options{Extensions: []string{".CSX", ".txt"}},
			want:  []string{"B.csx", "C.txt"},
		},
		{
			name:  "exclude trees",
			files: []string{"Program.cs", "Migrations/2024/Initial.cs", "vendor/lib/Program.cs", "Data/Orders.cs"},
			opts:  Options{ExcludeGlobs: []string{"Migrations/**", "vendor"}},
			want:  []string{"Data/Orders.cs", "Program.cs"},
		},
		{
			name:  "exclude designer files at any depth",
			files: []string{"Forms/Main.cs", "Forms/Main.Designer.cs", "Deep/x/Other.Designer.cs"},
			opts:  Options{ExcludeGlobs: []string{"**/*.Designer.cs"}},
			want:  []string{"Forms/Main.cs"},
		},
		{
			name:  "include globs",
			files: []string{"Program.cs", "Data/Orders.cs", "Data/Sub/Customers.cs", "Web/Program.cs"},
			opts:  Options{IncludeGlobs: []string{"Data/**"}},
			want:  []string{"Data/Orders.cs", "Data/Sub/Customers.cs"},
		},
		{
			name:  "include and exclude trees together",
			files: []string{"Program.cs", "Data/Orders.cs", "Data/Migrations/2024/Initial.cs", "Migrations/Old.cs"},
			opts:  Options{IncludeGlobs: []string{"Data/**"}, ExcludeGlobs: []string{"**/Migrations/**"}},
			want:  []string{"Data/Orders.cs"},
		},
		{
			name:  "multiple roots",
			files: []string{"Data/A.cs", "Web/B.cs", "Tests/C.cs"},
			opts:  Options{Paths: []string{"Web", "Data"}},
			want:  []string{"Data/A.cs", "Web/B.cs"},
		},
		{
			name:  "duplicate arguments",
			files: []string{"Program.cs"},
			opts:  Options{Paths: []string{"Program.cs", "./Program.cs", "."}},
			want:  []string{"Program.cs"},
		},
		{
			name:  "explicit file filtered by extension",
			files: []string{"README.md"},
			opts:  Options{Paths: []string{"README.md"}},
			want:  []string{},
		},
		{
			name:  "explicit file inside excluded tree",
			files: []string{"Migrations/Initial.cs"},
			opts:  Options{Paths: []string{"Migrations/Initial.cs"}, ExcludeGlobs: []string{"Migrations"}},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := layout(t, tt.files...)
			opts := tt.opts
			opts.WorkingDir = dir

			got, err := Discover(context.Background(), opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, relAll(t, dir, got))
		})
	}
}

func TestDiscover_SortedAbsolutePaths(t *testing.T) {
	t.Parallel()

	dir := layout(t, "Z.cs", "A.cs", "M/B.cs")

	got, err := Discover(context.Background(), Options{WorkingDir: dir})
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.IsNonDecreasing(t, got)
	for _, f := range got {
		assert.True(t, filepath.IsAbs(f), f)
	}
}

func TestDiscover_Errors(t *testing.T) {
	t.Parallel()

	dir := layout(t, "A.cs")

	_, err := Discover(context.Background(), Options{WorkingDir: dir, Paths: []string{"missing"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stat missing")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Discover(ctx, Options{WorkingDir: dir})
	require.ErrorIs(t, err, context.Canceled)
}

func TestDiscover_Symlinks(t *testing.T) {
	t.Parallel()

	dir := layout(t, "real/Doc.cs", "Real.cs")
	external := layout(t, "External.cs")

	if err := os.Symlink(filepath.Join(dir, "Real.cs"), filepath.Join(dir, "Link.cs")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	require.NoError(t, os.Symlink(external, filepath.Join(dir, "linked")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "broken.cs.target"), filepath.Join(dir, "Broken.cs")))

	got, err := Discover(context.Background(), Options{WorkingDir: dir})
	require.NoError(t, err)
	assert.Equal(t, []string{"Link.cs", "Real.cs", "real/Doc.cs"}, relAll(t, dir, got))

	got, err = Discover(context.Background(), Options{WorkingDir: dir, FollowSymlinks: true})
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Contains(t, got, filepath.Join(mustEval(t, external), "External.cs"))
}

func TestDiscover_SymlinkCycle(t *testing.T) {
	t.Parallel()

	dir := layout(t, "a/Doc.cs")
	if err := os.Symlink(dir, filepath.Join(dir, "a", "loop")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	got, err := Discover(context.Background(), Options{WorkingDir: dir, FollowSymlinks: true})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestMatchGlob(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"*.cs", "Program.cs", true},
		{"*.cs", "Data/Orders.cs", true},
		{"Migrations", "Migrations", true},
		{"Migrations", "src/Migrations", true},
		{"Migrations/**", "Migrations", true},
		{"Migrations/**", "Migrations/2024/Initial.cs", true},
		{"Migrations/**", "src/Migrations/Initial.cs", false},
		{"**/Migrations/**", "src/Migrations/Initial.cs", true},
		{"**/*.Designer.cs", "Main.Designer.cs", true},
		{"**/*.Designer.cs", "Forms/Main.cs", false},
		{"**/*.Designer.cs", "Deep/x/Other.Designer.cs", true},
		{"Data/**", "Data/Orders.cs", true},
		{"Data/**", "Database/Orders.cs", false},
		{"Migrations/**", "Migrations.cs", false},
		{"src/**/Gen/*.cs", "src/a/b/Gen/X.cs", true},
		{"src/**/Gen/*.cs", "src/Gen/X.cs", true},
		{"src/**/Gen/*.cs", "lib/Gen/X.cs", false},
		{"Data/*.cs", "Data/Sub/X.cs", false},
		{"[", "anything", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.path, func(t *testing.T) {
			t.Parallel()
			globs := compileGlobs([]string{tt.pattern})
			require.Len(t, globs, 1)
			assert.Equal(t, tt.want, globs[0].match(tt.path))
		})
	}
}

func TestExpandDoubleStar(t *testing.T) {
	t.Parallel()

	tests := map[string][]string{
		"Migrations":       {"Migrations"},
		"Migrations/**":    {"Migrations/**", "Migrations"},
		"**/Migrations/**": {"**/Migrations/**", "Migrations/**", "**/Migrations", "Migrations"},
		"src/**/Gen/*.cs":  {"src/**/Gen/*.cs", "src/Gen/*.cs"},
		"**":               {"**"},
	}
	for in, want := range tests {
		assert.Equal(t, want, expandDoubleStar(in), in)
	}
}

func TestDefaultExtensions(t *testing.T) {
	t.Parallel()

	exts := DefaultExtensions()
	assert.Equal(t, []string{".cs"}, exts)

	exts[0] = ".txt"
	assert.Equal(t, ".cs", DefaultExtensions()[0], "result must be a copy")
}

func mustEval(t *testing.T, p string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(p)
	require.NoError(t, err)
	return resolved
}
