// Package langdetect classifies files found during discovery.
// It uses go-enry's linguist data to tell C# sources apart from other files,
// and to recognize vendored and generated code that is not worth linting.
package langdetect

import (
	"bytes"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// CSharp is go-enry's name for the language.
const CSharp = "C#"

// headerWindow is how much of a file is scanned for generator markers.
const headerWindow = 1024

// Kind is the classification of one file.
type Kind int

const (
	// KindSource is hand-written C# source.
	KindSource Kind = iota
	// KindOther is not C#.
	KindOther
	// KindVendored lives under a third-party directory.
	KindVendored
	// KindGenerated was produced by a tool.
	KindGenerated
)

var kindNames = [...]string{"source", "other", "vendored", "generated"}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Generator markers emitted by MSBuild, T4, designers and source generators.
var generatedMarkers = [][]byte{
	[]byte("<auto-generated"),
	[]byte("<autogenerated"),
	[]byte("[GeneratedCode("),
	[]byte("[System.CodeDom.Compiler.GeneratedCode("),
}

// Generated file name suffixes, compared case-insensitively.
var generatedSuffixes = []string{
	".designer.cs",
	".g.cs",
	".g.i.cs",
	".generated.cs",
	".assemblyinfo.cs",
	".assemblyattributes.cs",
}

// IsCSharpPath reports whether path has a C# file extension.
func IsCSharpPath(path string) bool {
	// .cs is shared with Smalltalk, so any candidate counts.
	return slices.Contains(enry.GetLanguagesByExtension(path, nil, nil), CSharp)
}

// IsVendored reports whether path lies in a vendored directory such as
// node_modules or a NuGet packages folder.
func IsVendored(path string) bool {
	slashed := filepath.ToSlash(path)
	if enry.IsVendor(slashed) {
		return true
	}
	for _, part := range strings.Split(slashed, "/") {
		if strings.EqualFold(part, "packages") || strings.EqualFold(part, ".nuget") {
			return true
		}
	}
	return false
}

// IsGenerated reports whether the file was produced by a tool. content may
// be nil, in which case only the name is checked.
func IsGenerated(path string, content []byte) bool {
	lower := strings.ToLower(filepath.Base(path))
	for _, suffix := range generatedSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	if content == nil {
		return false
	}

	header := content
	if len(header) > headerWindow {
		header = header[:headerWindow]
	}
	for _, marker := range generatedMarkers {
		if bytes.Contains(header, marker) {
			return true
		}
	}

	return enry.IsGenerated(filepath.ToSlash(path), content)
}

// Classify returns the kind of the file at path. Content is optional and
// only used for generated-code detection.
func Classify(path string, content []byte) Kind {
	switch {
	case !IsCSharpPath(path):
		return KindOther
	case IsVendored(path):
		return KindVendored
	case IsGenerated(path, content):
		return KindGenerated
	default:
		return KindSource
	}
}

// Detect returns the language go-enry assigns to a file, or "" when it
// cannot tell.
func Detect(path string, content []byte) string {
	return enry.GetLanguage(filepath.Base(path), content)
}
