package configloader

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
)

// ConfigPaths holds the config file found at each level. Empty means none.
type ConfigPaths struct {
	System   string // /etc/eflint/config.yaml, or %ProgramData%\eflint on Windows
	User     string // $XDG_CONFIG_HOME/eflint/config.yaml
	Project  string // nearest .eflint.yml at or above the working directory
	Explicit string // --config
}

// ProjectConfigFiles are tried in each directory, first match wins.
//
//nolint:gochecknoglobals // read-only table
var ProjectConfigFiles = []string{".eflint.yml", ".eflint.yaml", "eflint.yml", "eflint.yaml"}

var globalConfigFiles = []string{"config.yaml", "config.yml"}

// DiscoverPaths looks up the system, user and project config files.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}
	return &ConfigPaths{
		System:  firstFile(systemConfigDir(), globalConfigFiles),
		User:    firstFile(userConfigDir(), globalConfigFiles),
		Project: project,
	}, nil
}

func systemConfigDir() string {
	if runtime.GOOS != "windows" {
		return "/etc/eflint"
	}
	base := os.Getenv("ProgramData")
	if base == "" {
		base = `C:\ProgramData`
	}
	return filepath.Join(base, "eflint")
}

func userConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "eflint")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "eflint")
}

// FindProjectConfig walks up from startDir (the working directory when
// empty) looking for a project config file. The walk ends without a match
// at a repository root, at a directory holding a .sln or .slnx file, at the
// home directory, or at the filesystem root.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	home, _ := os.UserHomeDir()

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if found := firstFile(dir, ProjectConfigFiles); found != "" {
			return found, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir || dir == home || isProjectBoundary(dir) {
			return "", nil
		}
		dir = parent
	}
}

// isProjectBoundary reports whether dir is a repository or solution root.
func isProjectBoundary(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	return slices.ContainsFunc(entries, func(e os.DirEntry) bool {
		name := e.Name()
		switch {
		case name == ".git":
			return true
		case e.IsDir():
			return name == ".hg" || name == ".svn"
		}
		ext := strings.ToLower(filepath.Ext(name))
		return ext == ".sln" || ext == ".slnx"
	})
}

func firstFile(dir string, names []string) string {
	if dir == "" {
		return ""
	}
	for _, name := range names {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
	}
	return ""
}
