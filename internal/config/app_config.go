package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/temirov/arbor/internal/types"
	"github.com/temirov/arbor/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds the defaults read from configuration files.
// Nil pointers and empty strings mean "not set" so that later sources and flags can override.
type ApplicationConfiguration struct {
	Paths   PathConfiguration    `mapstructure:"paths" yaml:"paths"`
	Display DisplayConfiguration `mapstructure:"display" yaml:"display"`
	Git     GitConfiguration     `mapstructure:"git" yaml:"git"`
	Copy    *bool                `mapstructure:"copy" yaml:"copy,omitempty"`
}

// PathConfiguration controls which entries the walk visits.
type PathConfiguration struct {
	ShowHiddens    *bool    `mapstructure:"show_hiddens" yaml:"show_hiddens,omitempty"`
	ShowGitignored *bool    `mapstructure:"show_gitignored" yaml:"show_gitignored,omitempty"`
	Depth          *int     `mapstructure:"depth" yaml:"depth,omitempty"`
	Exclude        []string `mapstructure:"exclude" yaml:"exclude"`
}

// DisplayConfiguration controls how the tree is shaped and rendered.
type DisplayConfiguration struct {
	Format     string `mapstructure:"format" yaml:"format,omitempty"`
	Color      string `mapstructure:"color" yaml:"color,omitempty"`
	Icons      *bool  `mapstructure:"icons" yaml:"icons,omitempty"`
	DirsOnly   *bool  `mapstructure:"dirs_only" yaml:"dirs_only,omitempty"`
	FilesOnly  *bool  `mapstructure:"files_only" yaml:"files_only,omitempty"`
	PruneEmpty *bool  `mapstructure:"prune_empty" yaml:"prune_empty,omitempty"`
}

// GitConfiguration controls version-control integration.
type GitConfiguration struct {
	Status *bool `mapstructure:"status" yaml:"status,omitempty"`
	Branch *bool `mapstructure:"branch" yaml:"branch,omitempty"`
}

// LoadApplicationConfiguration loads configuration from global and local files.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if globalPath, ok := GlobalConfigurationPath(); ok {
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if localPath != "" {
		localConfig, loadErr := loadConfigurationFromPath(localPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(localConfig)
	}

	merged.Paths.Exclude = utils.DeduplicatePatterns(merged.Paths.Exclude)
	if validationErr := merged.validate(); validationErr != nil {
		return ApplicationConfiguration{}, validationErr
	}
	return merged, nil
}

// GlobalConfigurationPath returns ~/.arbor/config.yaml when the home directory is known.
func GlobalConfigurationPath() (string, bool) {
	homeDirectory, err := os.UserHomeDir()
	if err != nil || homeDirectory == "" {
		return "", false
	}
	return filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName), true
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

func (config ApplicationConfiguration) validate() error {
	switch strings.ToLower(config.Display.Format) {
	case "", types.FormatTree, types.FormatJSON, types.FormatXML, types.FormatCount:
	default:
		return fmt.Errorf("unsupported format %q in configuration", config.Display.Format)
	}
	return nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Paths = result.Paths.merge(override.Paths)
	result.Display = result.Display.merge(override.Display)
	result.Git = result.Git.merge(override.Git)
	if override.Copy != nil {
		result.Copy = cloneBool(override.Copy)
	}
	return result
}

func (config PathConfiguration) merge(override PathConfiguration) PathConfiguration {
	result := config
	if override.ShowHiddens != nil {
		result.ShowHiddens = cloneBool(override.ShowHiddens)
	}
	if override.ShowGitignored != nil {
		result.ShowGitignored = cloneBool(override.ShowGitignored)
	}
	if override.Depth != nil {
		result.Depth = cloneInt(override.Depth)
	}
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePatterns(override.Exclude)...)
	}
	return result
}

func (config DisplayConfiguration) merge(override DisplayConfiguration) DisplayConfiguration {
	result := config
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Color != "" {
		result.Color = override.Color
	}
	if override.Icons != nil {
		result.Icons = cloneBool(override.Icons)
	}
	if override.DirsOnly != nil {
		result.DirsOnly = cloneBool(override.DirsOnly)
	}
	if override.FilesOnly != nil {
		result.FilesOnly = cloneBool(override.FilesOnly)
	}
	if override.PruneEmpty != nil {
		result.PruneEmpty = cloneBool(override.PruneEmpty)
	}
	return result
}

func (config GitConfiguration) merge(override GitConfiguration) GitConfiguration {
	result := config
	if override.Status != nil {
		result.Status = cloneBool(override.Status)
	}
	if override.Branch != nil {
		result.Branch = cloneBool(override.Branch)
	}
	return result
}

// ApplyTo copies every configured value onto options. Callers apply explicit
// command-line flags afterwards so they take precedence.
func (config ApplicationConfiguration) ApplyTo(options *Options) {
	if options == nil {
		return
	}
	assignBool(&options.ShowHiddens, config.Paths.ShowHiddens)
	assignBool(&options.ShowGitignored, config.Paths.ShowGitignored)
	if config.Paths.Depth != nil {
		options.Depth = cloneInt(config.Paths.Depth)
	}
	if len(config.Paths.Exclude) > 0 {
		options.Exclude = append([]string{}, config.Paths.Exclude...)
	}

	switch strings.ToLower(config.Display.Format) {
	case types.FormatJSON:
		options.JSON = true
	case types.FormatXML:
		options.XML = true
	case types.FormatCount:
		options.Count = true
	}
	if config.Display.Color != "" {
		options.Color = config.Display.Color
	}
	assignBool(&options.Icons, config.Display.Icons)
	assignBool(&options.DirsOnly, config.Display.DirsOnly)
	assignBool(&options.FilesOnly, config.Display.FilesOnly)
	assignBool(&options.PruneEmpty, config.Display.PruneEmpty)

	assignBool(&options.Git, config.Git.Status)
	assignBool(&options.GitBranch, config.Git.Branch)
	assignBool(&options.Copy, config.Copy)
}

func assignBool(target *bool, value *bool) {
	if value != nil {
		*target = *value
	}
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
