package clipboard

import (
	"errors"
	"testing"
)

func TestServiceCopy(t *testing.T) {
	writeFailure := errors.New("xclip missing")

	testCases := []struct {
		name          string
		unsupported   bool
		writeError    error
		expectedError error
		expectWrite   bool
	}{
		{name: "writes_text", expectWrite: true},
		{name: "unsupported_system", unsupported: true, expectedError: ErrUnsupported},
		{name: "write_failure", writeError: writeFailure, expectedError: writeFailure, expectWrite: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			var written string
			service := &Service{
				writeAll: func(text string) error {
					written = text
					return testCase.writeError
				},
				unsupported: func() bool { return testCase.unsupported },
			}
			copyError := service.Copy("project/\n└── a.txt\n")
			if testCase.expectedError == nil && copyError != nil {
				t.Fatalf("unexpected error: %v", copyError)
			}
			if testCase.expectedError != nil && !errors.Is(copyError, testCase.expectedError) {
				t.Fatalf("expected %v, got %v", testCase.expectedError, copyError)
			}
			if testCase.expectWrite && written != "project/\n└── a.txt\n" {
				t.Fatalf("expected text to reach the clipboard, got %q", written)
			}
			if !testCase.expectWrite && written != "" {
				t.Fatalf("expected no clipboard write, got %q", written)
			}
		})
	}
}

func TestNewServiceUsesSystemClipboard(t *testing.T) {
	service := NewService()
	if service.writeAll == nil || service.unsupported == nil {
		t.Fatalf("expected system clipboard hooks to be configured")
	}
}
