// Package ignore evaluates layered Git ignore rules: directory-local .gitignore
// files, the global excludes file and the repository info/exclude file.
package ignore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"go.uber.org/zap"

	"github.com/temirov/arbor/internal/utils"
)

const (
	filesystemRoot             = "/"
	xdgConfigHomeVariable      = "XDG_CONFIG_HOME"
	defaultConfigDirectoryName = ".config"

	errorAbsolutePathFormat   = "resolve absolute path for %s: %w"
	errorReadPatternsFormat   = "read ignore patterns under %s: %w"
	debugRepositoryRootFormat = "ignore rules anchored at %s"
	debugGlobalPatternsFormat = "global ignore patterns unavailable: %v"
	debugSystemPatternsFormat = "system ignore patterns unavailable: %v"
	debugIgnoredRootFormat    = "root %s is itself ignored; listing its contents"
)

// Matcher answers whether a path relative to the walk root is excluded by the layered rules.
type Matcher struct {
	matcher  gitignore.Matcher
	basePath string
	prefix   []string
}

// Load collects the ignore rules that apply to rootPath. Rules are anchored at the
// enclosing repository top-level when there is one, so parent .gitignore files and
// info/exclude apply to subdirectory roots as well; otherwise at rootPath itself.
func Load(rootPath string, logger *zap.Logger) (*Matcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	absoluteRoot, absoluteError := filepath.Abs(rootPath)
	if absoluteError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, rootPath, absoluteError)
	}

	basePath := absoluteRoot
	if repositoryRoot, found := FindRepositoryRoot(absoluteRoot); found {
		basePath = repositoryRoot
	}
	logger.Debug(fmt.Sprintf(debugRepositoryRootFormat, basePath))

	directoryPatterns, readError := loadRecursivePatterns(basePath, logger)
	if readError != nil {
		return nil, fmt.Errorf(errorReadPatternsFormat, basePath, readError)
	}
	repositoryPatterns := loadRepositoryExclude(basePath, logger)

	rootFilesystem := osfs.New(filesystemRoot)
	globalPatterns, globalError := gitignore.LoadGlobalPatterns(rootFilesystem)
	if globalError != nil {
		logger.Debug(fmt.Sprintf(debugGlobalPatternsFormat, globalError))
	}
	if len(globalPatterns) == 0 {
		globalPatterns = loadDefaultGlobalPatterns(logger)
	}
	systemPatterns, systemError := gitignore.LoadSystemPatterns(rootFilesystem)
	if systemError != nil {
		logger.Debug(fmt.Sprintf(debugSystemPatternsFormat, systemError))
	}

	// Later patterns take priority: system, global, info/exclude, then .gitignore files.
	layered := make([]gitignore.Pattern, 0, len(systemPatterns)+len(globalPatterns)+len(repositoryPatterns)+len(directoryPatterns))
	layered = append(layered, systemPatterns...)
	layered = append(layered, globalPatterns...)
	layered = append(layered, repositoryPatterns...)
	layered = append(layered, directoryPatterns...)

	rootPrefix := splitRelative(utils.RelativePathOrSelf(absoluteRoot, basePath))
	if rootExcluded(gitignore.NewMatcher(layered), rootPrefix) {
		logger.Debug(fmt.Sprintf(debugIgnoredRootFormat, absoluteRoot))
		layered = withoutAncestorExclusions(layered, rootPrefix)
	}

	return &Matcher{
		matcher:  gitignore.NewMatcher(layered),
		basePath: basePath,
		prefix:   rootPrefix,
	}, nil
}

// rootExcluded reports whether the root addressed by prefix, or one of its ancestors, is ignored.
func rootExcluded(matcher gitignore.Matcher, prefix []string) bool {
	for depth := 1; depth <= len(prefix); depth++ {
		if matcher.Match(prefix[:depth], true) {
			return true
		}
	}
	return false
}

// withoutAncestorExclusions drops the patterns that exclude the root or one of its
// ancestors, so an explicitly requested root lists its contents.
func withoutAncestorExclusions(patterns []gitignore.Pattern, prefix []string) []gitignore.Pattern {
	kept := make([]gitignore.Pattern, 0, len(patterns))
	for _, pattern := range patterns {
		if excludesAncestor(pattern, prefix) {
			continue
		}
		kept = append(kept, pattern)
	}
	return kept
}

func excludesAncestor(pattern gitignore.Pattern, prefix []string) bool {
	for depth := 1; depth <= len(prefix); depth++ {
		if pattern.Match(prefix[:depth], true) == gitignore.Exclude {
			return true
		}
	}
	return false
}

// NewMatcherFromPatterns builds a matcher from raw gitignore lines anchored at the walk root.
func NewMatcherFromPatterns(lines []string) *Matcher {
	patterns := make([]gitignore.Pattern, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(trimmed, nil))
	}
	return &Matcher{matcher: gitignore.NewMatcher(patterns)}
}

// Excluded reports whether the entry addressed by segments (relative to the walk root) is ignored.
func (matcher *Matcher) Excluded(segments []string, isDirectory bool) bool {
	if matcher == nil || matcher.matcher == nil || len(segments) == 0 {
		return false
	}
	fullPath := make([]string, 0, len(matcher.prefix)+len(segments))
	fullPath = append(fullPath, matcher.prefix...)
	fullPath = append(fullPath, segments...)
	return matcher.matcher.Match(fullPath, isDirectory)
}

// BasePath returns the directory the rules are anchored at.
func (matcher *Matcher) BasePath() string {
	return matcher.basePath
}

// FindRepositoryRoot searches upward from the provided starting directory
// until it locates a directory containing a .git entry and returns
// the path to that directory.
func FindRepositoryRoot(startDirectory string) (string, bool) {
	absoluteStartDirectory, errorAbsolute := filepath.Abs(startDirectory)
	if errorAbsolute != nil {
		return "", false
	}

	currentDirectory := absoluteStartDirectory
	for {
		gitPath := filepath.Join(currentDirectory, utils.GitDirectoryName)
		if _, errorStat := os.Stat(gitPath); errorStat == nil {
			return currentDirectory, true
		}

		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			break
		}
		currentDirectory = parentDirectory
	}

	return "", false
}

// loadDefaultGlobalPatterns reads $XDG_CONFIG_HOME/git/ignore, falling back to
// ~/.config/git/ignore, which Git consults when core.excludesFile is unset.
func loadDefaultGlobalPatterns(logger *zap.Logger) []gitignore.Pattern {
	configHome := os.Getenv(xdgConfigHomeVariable)
	if configHome == "" {
		homeDirectory, homeError := os.UserHomeDir()
		if homeError != nil {
			return nil
		}
		configHome = filepath.Join(homeDirectory, defaultConfigDirectoryName)
	}
	globalIgnorePath := filepath.Join(configHome, "git", "ignore")
	lines, readError := readPatternLines(globalIgnorePath, logger)
	if readError != nil {
		logger.Debug(fmt.Sprintf(debugGlobalPatternsFormat, readError))
		return nil
	}
	patterns := make([]gitignore.Pattern, 0, len(lines))
	for _, line := range lines {
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	return patterns
}

func splitRelative(relativePath string) []string {
	if relativePath == utils.CurrentDirectoryName || relativePath == "" {
		return nil
	}
	return strings.Split(relativePath, "/")
}
