package config

import (
	"errors"
	"fmt"

	"github.com/temirov/arbor/internal/output"
	"github.com/temirov/arbor/internal/types"
)

const errorInvalidDepthFormat = "depth must be a positive integer, got %d: %w"

// Option conflicts detected before any traversal.
var (
	ErrConflictingOutputModes    = errors.New("only one of --json, --xml and --count may be used")
	ErrConflictingDisplayToggles = errors.New("--dirs-only and --files-only are mutually exclusive")
	ErrDirsOnlyWithPruneEmpty    = errors.New("--dirs-only and --prune-empty are mutually exclusive")
	ErrInvalidDepth              = errors.New("invalid depth")
)

// Options is the resolved set of run options after configuration files and flags are merged.
type Options struct {
	ShowHiddens    bool
	ShowGitignored bool
	Depth          *int
	Exclude        []string

	DirsOnly   bool
	FilesOnly  bool
	PruneEmpty bool

	JSON  bool
	XML   bool
	Count bool

	Color string
	Icons bool

	Git       bool
	GitBranch bool

	Time    bool
	Verbose bool
	Copy    bool
}

// Validate rejects conflicting or malformed options.
func (options Options) Validate() error {
	selectedModes := 0
	for _, selected := range []bool{options.JSON, options.XML, options.Count} {
		if selected {
			selectedModes++
		}
	}
	if selectedModes > 1 {
		return ErrConflictingOutputModes
	}
	if options.DirsOnly && options.FilesOnly {
		return ErrConflictingDisplayToggles
	}
	if options.DirsOnly && options.PruneEmpty {
		return ErrDirsOnlyWithPruneEmpty
	}
	if options.Depth != nil && *options.Depth <= 0 {
		return fmt.Errorf(errorInvalidDepthFormat, *options.Depth, ErrInvalidDepth)
	}
	if _, colorError := output.ParseColorMode(options.colorValue()); colorError != nil {
		return colorError
	}
	return nil
}

// Format returns the selected output encoding.
func (options Options) Format() string {
	switch {
	case options.JSON:
		return types.FormatJSON
	case options.XML:
		return types.FormatXML
	case options.Count:
		return types.FormatCount
	default:
		return types.FormatTree
	}
}

// ColorMode returns the parsed color mode, ColorNever when the value is invalid.
func (options Options) ColorMode() output.ColorMode {
	colorMode, colorError := output.ParseColorMode(options.colorValue())
	if colorError != nil {
		return output.ColorNever
	}
	return colorMode
}

func (options Options) colorValue() string {
	if options.Color == "" {
		return string(output.ColorAuto)
	}
	return options.Color
}

// MaxDepth returns the depth bound, zero when unbounded.
func (options Options) MaxDepth() int {
	if options.Depth == nil {
		return 0
	}
	return *options.Depth
}
