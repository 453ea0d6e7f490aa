package ignore

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"go.uber.org/zap"

	"github.com/temirov/arbor/internal/utils"
)

const (
	commentPrefix = "#"

	warningCloseFormat          = "failed to close %s: %v"
	debugSkipDirectoryFormat    = "skipping ignore rules below %s: %v"
	debugUnreadableRuleFormat   = "unreadable ignore file %s: %v"
	repositoryExcludeFileSuffix = "info/exclude"
)

// readPatternLines reads gitignore-formatted lines from a file. A missing file yields no lines.
//
// #nosec G304
func readPatternLines(ignoreFilePath string, logger *zap.Logger) ([]string, error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer func() {
		if closeError := fileHandle.Close(); closeError != nil {
			logger.Debug(fmt.Sprintf(warningCloseFormat, ignoreFilePath, closeError))
		}
	}()

	var lines []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}
		lines = append(lines, line)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return lines, nil
}

// loadRepositoryExclude parses <base>/.git/info/exclude when present.
func loadRepositoryExclude(basePath string, logger *zap.Logger) []gitignore.Pattern {
	excludePath := filepath.Join(basePath, utils.GitDirectoryName, filepath.FromSlash(repositoryExcludeFileSuffix))
	lines, readError := readPatternLines(excludePath, logger)
	if readError != nil {
		logger.Debug(fmt.Sprintf(debugUnreadableRuleFormat, excludePath, readError))
		return nil
	}
	patterns := make([]gitignore.Pattern, 0, len(lines))
	for _, line := range lines {
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	return patterns
}

// loadRecursivePatterns walks basePath and aggregates .gitignore patterns of every
// directory, scoped to that directory. Directories already excluded by the rules
// collected from their ancestors are not visited, matching Git's behaviour. The
// .git directory is never visited. Unreadable directories and files are skipped.
func loadRecursivePatterns(basePath string, logger *zap.Logger) ([]gitignore.Pattern, error) {
	var aggregatedPatterns []gitignore.Pattern

	walkFunction := func(currentDirectoryPath string, directoryEntry fs.DirEntry, walkError error) error {
		if walkError != nil {
			if currentDirectoryPath == basePath {
				return walkError
			}
			logger.Debug(fmt.Sprintf(debugSkipDirectoryFormat, currentDirectoryPath, walkError))
			if directoryEntry != nil && directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !directoryEntry.IsDir() {
			return nil
		}
		if directoryEntry.Name() == utils.GitDirectoryName && currentDirectoryPath != basePath {
			return filepath.SkipDir
		}

		domain := splitRelative(utils.RelativePathOrSelf(currentDirectoryPath, basePath))
		if len(domain) > 0 && gitignore.NewMatcher(aggregatedPatterns).Match(domain, true) {
			return filepath.SkipDir
		}

		gitIgnoreFilePath := filepath.Join(currentDirectoryPath, utils.GitIgnoreFileName)
		lines, loadError := readPatternLines(gitIgnoreFilePath, logger)
		if loadError != nil {
			logger.Debug(fmt.Sprintf(debugUnreadableRuleFormat, gitIgnoreFilePath, loadError))
			return nil
		}
		for _, line := range lines {
			aggregatedPatterns = append(aggregatedPatterns, gitignore.ParsePattern(line, domain))
		}
		return nil
	}

	if walkError := filepath.WalkDir(basePath, walkFunction); walkError != nil {
		return nil, walkError
	}
	return aggregatedPatterns, nil
}
