package output

import (
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/arbor/internal/types"
)

// ColorMode selects how names are colored in the text renderer.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

const (
	colorReset        = "\x1b[0m"
	colorBold         = "\x1b[1m"
	directoryColor    = "\x1b[38;5;110m"
	defaultFileColor  = "\x1b[38;5;252m"
	extensionSplitter = "."

	errorUnknownColorModeFormat = "color %q must be auto, always or never: %w"
)

// ErrUnknownColorMode is returned by ParseColorMode for unsupported values.
var ErrUnknownColorMode = errors.New("unknown color mode")

// ParseColorMode converts a user supplied value into a ColorMode.
func ParseColorMode(value string) (ColorMode, error) {
	switch ColorMode(strings.ToLower(strings.TrimSpace(value))) {
	case ColorAuto:
		return ColorAuto, nil
	case ColorAlways:
		return ColorAlways, nil
	case ColorNever:
		return ColorNever, nil
	}
	return "", fmt.Errorf(errorUnknownColorModeFormat, value, ErrUnknownColorMode)
}

var extensionColors = map[string]string{
	"rs":   "\x1b[38;5;216m",
	"c":    "\x1b[38;5;110m",
	"h":    "\x1b[38;5;110m",
	"cpp":  "\x1b[38;5;109m",
	"hpp":  "\x1b[38;5;109m",
	"cc":   "\x1b[38;5;109m",
	"go":   "\x1b[38;5;115m",
	"py":   "\x1b[38;5;186m",
	"js":   "\x1b[38;5;187m",
	"jsx":  "\x1b[38;5;110m",
	"ts":   "\x1b[38;5;110m",
	"tsx":  "\x1b[38;5;111m",
	"json": "\x1b[38;5;180m",
	"toml": "\x1b[38;5;144m",
	"yaml": "\x1b[38;5;187m",
	"yml":  "\x1b[38;5;187m",
	"ini":  "\x1b[38;5;144m",
	"md":   "\x1b[38;5;182m",
	"mdx":  "\x1b[38;5;182m",
	"txt":  "\x1b[38;5;250m",
	"png":  "\x1b[38;5;183m",
	"jpg":  "\x1b[38;5;183m",
	"jpeg": "\x1b[38;5;183m",
	"gif":  "\x1b[38;5;183m",
	"svg":  "\x1b[38;5;183m",
	"pdf":  "\x1b[38;5;174m",
}

// colorForName returns the escape sequence used for a name in always mode.
func colorForName(name string, isDirectory bool) string {
	if isDirectory {
		return directoryColor
	}
	separatorIndex := strings.LastIndex(name, extensionSplitter)
	if separatorIndex < 0 {
		return defaultFileColor
	}
	if color, found := extensionColors[strings.ToLower(name[separatorIndex+1:])]; found {
		return color
	}
	return defaultFileColor
}

type gitMarker struct {
	color string
	glyph string
}

var gitMarkers = map[types.GitState]gitMarker{
	types.GitStateModified:  {color: "\x1b[33m", glyph: "~"},
	types.GitStateStaged:    {color: "\x1b[32m", glyph: "+"},
	types.GitStateUntracked: {color: "\x1b[31m", glyph: "?"},
	types.GitStateIgnored:   {color: "\x1b[38;5;244m", glyph: "!"},
	types.GitStateRenamed:   {color: "\x1b[36m", glyph: "→"},
	types.GitStateDeleted:   {color: "\x1b[31m", glyph: "✖"},
}

// coloredGitMarker returns the trailing marker for a node, empty when it has none.
func coloredGitMarker(node *types.Node) string {
	if node.Git == nil {
		return ""
	}
	marker, found := gitMarkers[*node.Git]
	if !found {
		return ""
	}
	return marker.color + " " + colorBold + marker.glyph + colorReset + colorReset
}
