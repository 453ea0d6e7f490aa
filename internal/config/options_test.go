package config

import (
	"errors"
	"testing"

	"github.com/temirov/arbor/internal/output"
)

func TestOptionsValidate(t *testing.T) {
	testCases := []struct {
		name          string
		options       Options
		expectedError error
	}{
		{name: "defaults", options: Options{}},
		{name: "json_and_xml", options: Options{JSON: true, XML: true}, expectedError: ErrConflictingOutputModes},
		{name: "json_and_count", options: Options{JSON: true, Count: true}, expectedError: ErrConflictingOutputModes},
		{name: "dirs_and_files", options: Options{DirsOnly: true, FilesOnly: true}, expectedError: ErrConflictingDisplayToggles},
		{name: "dirs_and_prune", options: Options{DirsOnly: true, PruneEmpty: true}, expectedError: ErrDirsOnlyWithPruneEmpty},
		{name: "files_and_prune", options: Options{FilesOnly: true, PruneEmpty: true}},
		{name: "zero_depth", options: Options{Depth: intPointer(0)}, expectedError: ErrInvalidDepth},
		{name: "negative_depth", options: Options{Depth: intPointer(-2)}, expectedError: ErrInvalidDepth},
		{name: "positive_depth", options: Options{Depth: intPointer(1)}},
		{name: "unknown_color", options: Options{Color: "sometimes"}, expectedError: output.ErrUnknownColorMode},
		{name: "upper_case_color", options: Options{Color: "ALWAYS"}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			err := testCase.options.Validate()
			if testCase.expectedError == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, testCase.expectedError) {
				t.Fatalf("expected %v, got %v", testCase.expectedError, err)
			}
		})
	}
}

func TestOptionsFormatAndColor(t *testing.T) {
	if format := (Options{}).Format(); format != "tree" {
		t.Fatalf("expected tree format, got %s", format)
	}
	if format := (Options{XML: true}).Format(); format != "xml" {
		t.Fatalf("expected xml format, got %s", format)
	}
	if format := (Options{Count: true}).Format(); format != "count" {
		t.Fatalf("expected count format, got %s", format)
	}
	if mode := (Options{}).ColorMode(); mode != output.ColorAuto {
		t.Fatalf("expected auto for unset color, got %v", mode)
	}
	if mode := (Options{Color: "always"}).ColorMode(); mode != output.ColorAlways {
		t.Fatalf("expected always, got %v", mode)
	}
	if mode := (Options{Color: "bogus"}).ColorMode(); mode != output.ColorNever {
		t.Fatalf("expected never for invalid color, got %v", mode)
	}
	if depth := (Options{}).MaxDepth(); depth != 0 {
		t.Fatalf("expected unbounded depth, got %d", depth)
	}
}
