package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/arbor/internal/utils"
)

func TestInitializeConfigurationCreatesLocalFile(t *testing.T) {
	isolateHome(t)
	workingDirectory := t.TempDir()
	options := InitOptions{WorkingDirectory: workingDirectory, Target: InitTargetLocal}
	path, err := InitializeConfiguration(options)
	if err != nil {
		t.Fatalf("InitializeConfiguration error: %v", err)
	}
	expectedPath := filepath.Join(workingDirectory, utils.ConfigFileName)
	if path != expectedPath {
		t.Fatalf("expected path %s, got %s", expectedPath, path)
	}
	content, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatalf("read config: %v", readErr)
	}
	for _, expectedKey := range []string{"paths:", "display:", "git:", "color: auto", "format: tree"} {
		if !strings.Contains(string(content), expectedKey) {
			t.Fatalf("expected %q in configuration content: %s", expectedKey, string(content))
		}
	}

	loaded, loadErr := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDirectory})
	if loadErr != nil {
		t.Fatalf("load initialized configuration: %v", loadErr)
	}
	var resolved Options
	loaded.ApplyTo(&resolved)
	if validationErr := resolved.Validate(); validationErr != nil {
		t.Fatalf("expected initialized configuration to validate: %v", validationErr)
	}
	if resolved.Format() != "tree" || resolved.Color != "auto" {
		t.Fatalf("unexpected options from initialized configuration: %+v", resolved)
	}
}

func TestInitializeConfigurationHonorsGlobalTarget(t *testing.T) {
	homeDir := isolateHome(t)
	path, err := InitializeConfiguration(InitOptions{Target: InitTargetGlobal, Force: true})
	if err != nil {
		t.Fatalf("InitializeConfiguration error: %v", err)
	}
	expectedPath := filepath.Join(homeDir, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
	if path != expectedPath {
		t.Fatalf("expected configuration at %s, got %s", expectedPath, path)
	}
	if _, statErr := os.Stat(path); statErr != nil {
		t.Fatalf("expected file to exist at %s: %v", path, statErr)
	}
}

func TestInitializeConfigurationPreventsOverwriteWithoutForce(t *testing.T) {
	workingDirectory := t.TempDir()
	path := filepath.Join(workingDirectory, utils.ConfigFileName)
	if err := os.WriteFile(path, []byte("existing"), 0o600); err != nil {
		t.Fatalf("write seed config: %v", err)
	}
	_, err := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory, Target: InitTargetLocal, Force: false})
	if err == nil {
		t.Fatalf("expected error when configuration already exists")
	}
	if _, err = InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory, Target: InitTargetLocal, Force: true}); err != nil {
		t.Fatalf("expected forced overwrite to succeed: %v", err)
	}
}

func TestInitializeConfigurationRejectsUnknownTarget(t *testing.T) {
	if _, err := InitializeConfiguration(InitOptions{Target: InitTarget("remote"), WorkingDirectory: t.TempDir()}); err == nil {
		t.Fatalf("expected error for unknown target")
	}
}
