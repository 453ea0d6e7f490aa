// Package walker performs the depth-first filesystem traversal that feeds the
// tree builder. It applies the hidden, ignore-rule, exclusion and depth filters
// and reports every surviving entry through a callback.
package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/arbor/internal/types"
	"github.com/temirov/arbor/internal/utils"
)

const (
	relativePathSeparator = "/"

	errorResolveRootFormat = "resolving root %s: %w"
	errorReadRootFormat    = "reading root %s: %w"

	debugSkipEntryFormat      = "skipping %s: %v"
	debugBrokenLinkFormat     = "skipping broken link %s: %v"
	debugIgnoredEntryFormat   = "ignored by rules: %s"
	debugExcludedEntryFormat  = "excluded by pattern: %s"
	debugSkipMetadataDirInfo  = "not descending into %s"
	debugUnreadableInfoFormat = "unreadable metadata for %s: %v"
)

// IgnoreMatcher decides whether a root-relative path is excluded by ignore rules.
type IgnoreMatcher interface {
	Excluded(segments []string, isDirectory bool) bool
}

// Options controls which entries survive the walk.
// MaxDepth of zero or less means the walk is unbounded.
type Options struct {
	IncludeHidden     bool
	FollowIgnoreRules bool
	MaxDepth          int
	ExcludePatterns   []string
}

// Entry is one surviving filesystem entry below the walk root.
type Entry struct {
	Path         string
	RelativePath string
	Depth        int
	Kind         types.Kind
	Size         int64
}

// Walker traverses a directory tree according to Options.
type Walker struct {
	options Options
	matcher IgnoreMatcher
	logger  *zap.Logger
}

// NewWalker constructs a Walker. A nil matcher disables ignore rules even when
// FollowIgnoreRules is set; a nil logger discards debug output.
func NewWalker(options Options, matcher IgnoreMatcher, logger *zap.Logger) *Walker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Walker{
		options: options,
		matcher: matcher,
		logger:  logger,
	}
}

// Walk visits every surviving entry below rootPath. The root itself is not
// reported. Only a failure to resolve or read the root is returned; errors on
// individual entries are logged and the entry is skipped.
func (walker *Walker) Walk(rootPath string, visit func(Entry)) error {
	absoluteRoot, absoluteError := filepath.Abs(rootPath)
	if absoluteError != nil {
		return fmt.Errorf(errorResolveRootFormat, rootPath, absoluteError)
	}
	resolvedRoot, resolveError := filepath.EvalSymlinks(absoluteRoot)
	if resolveError != nil {
		return fmt.Errorf(errorResolveRootFormat, rootPath, resolveError)
	}

	walkFunction := func(currentPath string, directoryEntry fs.DirEntry, walkError error) error {
		if walkError != nil {
			if currentPath == resolvedRoot {
				return walkError
			}
			walker.logger.Debug(fmt.Sprintf(debugSkipEntryFormat, currentPath, walkError))
			return nil
		}
		if currentPath == resolvedRoot {
			return nil
		}
		return walker.visitEntry(resolvedRoot, currentPath, directoryEntry, visit)
	}

	if walkError := filepath.WalkDir(resolvedRoot, walkFunction); walkError != nil {
		return fmt.Errorf(errorReadRootFormat, rootPath, walkError)
	}
	return nil
}

func (walker *Walker) visitEntry(rootPath string, currentPath string, directoryEntry fs.DirEntry, visit func(Entry)) error {
	entryName := directoryEntry.Name()
	isDirectory := directoryEntry.IsDir()
	relativePath := utils.RelativePathOrSelf(currentPath, rootPath)
	depth := strings.Count(relativePath, relativePathSeparator) + 1

	if walker.options.MaxDepth > 0 && depth > walker.options.MaxDepth {
		return skipResult(isDirectory)
	}
	if !walker.options.IncludeHidden && utils.IsHiddenName(entryName) {
		return skipResult(isDirectory)
	}
	if len(walker.options.ExcludePatterns) > 0 && utils.ShouldIgnoreByPath(relativePath, walker.options.ExcludePatterns) {
		walker.logger.Debug(fmt.Sprintf(debugExcludedEntryFormat, relativePath))
		return skipResult(isDirectory)
	}
	if walker.options.FollowIgnoreRules && walker.matcher != nil &&
		walker.matcher.Excluded(strings.Split(relativePath, relativePathSeparator), isDirectory) {
		walker.logger.Debug(fmt.Sprintf(debugIgnoredEntryFormat, relativePath))
		return skipResult(isDirectory)
	}

	entry := Entry{
		Path:         currentPath,
		RelativePath: relativePath,
		Depth:        depth,
	}

	if isDirectory {
		entry.Kind = types.KindDirectory
		visit(entry)
		if entryName == utils.GitDirectoryName {
			walker.logger.Debug(fmt.Sprintf(debugSkipMetadataDirInfo, relativePath))
			return filepath.SkipDir
		}
		if walker.options.MaxDepth > 0 && depth == walker.options.MaxDepth {
			return filepath.SkipDir
		}
		return nil
	}

	if directoryEntry.Type()&fs.ModeSymlink != 0 {
		targetInfo, statError := os.Stat(currentPath)
		if statError != nil {
			walker.logger.Debug(fmt.Sprintf(debugBrokenLinkFormat, relativePath, statError))
			return nil
		}
		if targetInfo.IsDir() {
			entry.Kind = types.KindDirectory
		} else {
			entry.Kind = types.KindFile
			entry.Size = targetInfo.Size()
		}
		visit(entry)
		return nil
	}

	entryInfo, infoError := directoryEntry.Info()
	if infoError != nil {
		walker.logger.Debug(fmt.Sprintf(debugUnreadableInfoFormat, relativePath, infoError))
		return nil
	}
	entry.Kind = types.KindFile
	entry.Size = entryInfo.Size()
	visit(entry)
	return nil
}

func skipResult(isDirectory bool) error {
	if isDirectory {
		return filepath.SkipDir
	}
	return nil
}
