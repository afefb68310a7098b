package reporter

import (
	"fmt"
	"slices"
	"strings"
)

// Format names an output format.
type Format string

// Output formats.
const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatSARIF Format = "sarif"
	FormatDiff  Format = "diff"
)

// formats lists every Format in the order help text shows them.
//
//nolint:gochecknoglobals // read-only
var formats = []Format{FormatText, FormatJSON, FormatSARIF, FormatDiff}

// ParseFormat maps a --format value to a Format. The empty string is text.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatText, nil
	}
	if f := Format(s); f.IsValid() {
		return f, nil
	}
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return "", fmt.Errorf("unknown format %q; valid formats: %s", s, strings.Join(names, ", "))
}

func (f Format) String() string { return string(f) }

// IsValid reports whether f is one of the supported formats.
func (f Format) IsValid() bool { return slices.Contains(formats, f) }
