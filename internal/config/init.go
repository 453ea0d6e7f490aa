package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/temirov/arbor/internal/types"
	"github.com/temirov/arbor/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the global configuration directory.
	InitTargetGlobal InitTarget = "global"

	defaultColorMode = "auto"
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
}

// DefaultApplicationConfiguration returns the configuration written by `arbor config init`.
func DefaultApplicationConfiguration() ApplicationConfiguration {
	disabled := false
	return ApplicationConfiguration{
		Paths: PathConfiguration{
			ShowHiddens:    boolPointer(disabled),
			ShowGitignored: boolPointer(disabled),
			Exclude:        []string{},
		},
		Display: DisplayConfiguration{
			Format:     types.FormatTree,
			Color:      defaultColorMode,
			Icons:      boolPointer(disabled),
			DirsOnly:   boolPointer(disabled),
			FilesOnly:  boolPointer(disabled),
			PruneEmpty: boolPointer(disabled),
		},
		Git: GitConfiguration{
			Status: boolPointer(disabled),
			Branch: boolPointer(disabled),
		},
		Copy: boolPointer(disabled),
	}
}

// InitializeConfiguration writes the default configuration to the requested target.
func InitializeConfiguration(options InitOptions) (string, error) {
	target := options.Target
	if target == "" {
		target = InitTargetLocal
	}
	var destinationPath string
	switch target {
	case InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			current, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf("determine working directory for configuration: %w", err)
			}
			workingDirectory = current
		}
		destinationPath = filepath.Join(workingDirectory, utils.ConfigFileName)
	case InitTargetGlobal:
		globalPath, ok := GlobalConfigurationPath()
		if !ok {
			return "", fmt.Errorf("resolve home directory for configuration")
		}
		configurationDirectory := filepath.Dir(globalPath)
		if err := os.MkdirAll(configurationDirectory, 0o755); err != nil {
			return "", fmt.Errorf("create configuration directory %s: %w", configurationDirectory, err)
		}
		destinationPath = globalPath
	default:
		return "", fmt.Errorf("unsupported init target %q", target)
	}

	if _, err := os.Stat(destinationPath); err == nil {
		if !options.Force {
			return "", fmt.Errorf("configuration file already exists at %s", destinationPath)
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("inspect configuration path %s: %w", destinationPath, err)
	}

	encoded, encodeErr := yaml.Marshal(DefaultApplicationConfiguration())
	if encodeErr != nil {
		return "", fmt.Errorf("encode default configuration: %w", encodeErr)
	}
	if err := os.WriteFile(destinationPath, encoded, 0o600); err != nil {
		return "", fmt.Errorf("write configuration to %s: %w", destinationPath, err)
	}

	return destinationPath, nil
}

func boolPointer(value bool) *bool {
	pointer := value
	return &pointer
}
