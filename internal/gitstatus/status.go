// Package gitstatus computes version-control states for a repository and
// attaches them to a built tree.
package gitstatus

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"go.uber.org/zap"

	"github.com/temirov/arbor/internal/ignore"
	"github.com/temirov/arbor/internal/types"
	"github.com/temirov/arbor/internal/utils"
)

const (
	debugNoRepositoryFormat   = "no repository found for %s: %v"
	debugOpenRepositoryFormat = "failed to open repository for %s: %v"
	debugWorktreeFormat       = "repository at %s has no worktree: %v"
	debugStatusFormat         = "status unavailable for %s: %v"
	debugIndexFormat          = "index unavailable for %s: %v"
	debugIgnoreRulesFormat    = "ignore rules unavailable for %s: %v"
	debugStatusCountFormat    = "collected %d status entries under %s"
	debugIgnoredWalkFormat    = "skipping %s while collecting ignored paths: %v"
)

// Index maps repository-relative slash paths to a single state.
// RootPrefix is the walk root relative to the repository top-level, "." when they coincide.
type Index struct {
	States     map[string]types.GitState
	RootPrefix string
}

// NewIndex returns an empty index rooted at the repository top-level.
func NewIndex() *Index {
	return &Index{States: map[string]types.GitState{}, RootPrefix: utils.CurrentDirectoryName}
}

// Lookup returns the state recorded for a repository-relative path.
func (index *Index) Lookup(relativePath string) (types.GitState, bool) {
	if index == nil {
		return types.GitStateClean, false
	}
	state, found := index.States[relativePath]
	return state, found
}

// StatusProvider produces the status index for a walk root.
type StatusProvider interface {
	Collect(rootPath string) (*Index, error)
}

// RepositoryStatusProvider reads status through go-git.
type RepositoryStatusProvider struct {
	logger *zap.Logger
}

// NewRepositoryStatusProvider constructs a go-git backed provider.
func NewRepositoryStatusProvider(logger *zap.Logger) *RepositoryStatusProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RepositoryStatusProvider{logger: logger}
}

// Collect returns the states of every changed, untracked or ignored path.
// A root outside any repository yields an empty index and no error.
func (provider *RepositoryStatusProvider) Collect(rootPath string) (*Index, error) {
	index := NewIndex()

	repository, openError := openRepository(rootPath)
	if openError != nil {
		if isRepositoryMissing(openError) {
			provider.logger.Debug(fmt.Sprintf(debugNoRepositoryFormat, rootPath, openError))
		} else {
			provider.logger.Debug(fmt.Sprintf(debugOpenRepositoryFormat, rootPath, openError))
		}
		return index, nil
	}
	worktree, worktreeError := repository.Worktree()
	if worktreeError != nil {
		provider.logger.Debug(fmt.Sprintf(debugWorktreeFormat, rootPath, worktreeError))
		return index, nil
	}
	topLevel := worktree.Filesystem.Root()
	index.RootPrefix = rootPrefix(rootPath, topLevel)

	status, statusError := worktree.Status()
	if statusError != nil {
		provider.logger.Debug(fmt.Sprintf(debugStatusFormat, topLevel, statusError))
		return index, nil
	}
	for path, fileStatus := range status {
		index.States[filepath.ToSlash(path)] = classify(fileStatus)
	}

	provider.collectIgnored(index, rootPath, topLevel, provider.trackedPaths(repository, topLevel))
	provider.logger.Debug(fmt.Sprintf(debugStatusCountFormat, len(index.States), topLevel))
	return index, nil
}

// trackedPaths lists the paths recorded in the repository index.
func (provider *RepositoryStatusProvider) trackedPaths(repository *git.Repository, topLevel string) map[string]struct{} {
	tracked := map[string]struct{}{}
	repositoryIndex, indexError := repository.Storer.Index()
	if indexError != nil {
		provider.logger.Debug(fmt.Sprintf(debugIndexFormat, topLevel, indexError))
		return tracked
	}
	for _, entry := range repositoryIndex.Entries {
		tracked[entry.Name] = struct{}{}
	}
	return tracked
}

// collectIgnored records ignored files below rootPath that are neither tracked
// nor already carrying a state. Ignored directories are not descended.
func (provider *RepositoryStatusProvider) collectIgnored(index *Index, rootPath string, topLevel string, tracked map[string]struct{}) {
	matcher, loadError := ignore.Load(topLevel, provider.logger)
	if loadError != nil {
		provider.logger.Debug(fmt.Sprintf(debugIgnoreRulesFormat, topLevel, loadError))
		return
	}
	resolvedTopLevel := resolvePath(topLevel)
	walkRoot := resolvePath(rootPath)

	_ = filepath.WalkDir(walkRoot, func(currentPath string, directoryEntry fs.DirEntry, walkError error) error {
		if walkError != nil {
			provider.logger.Debug(fmt.Sprintf(debugIgnoredWalkFormat, currentPath, walkError))
			return nil
		}
		relativePath := utils.RelativePathOrSelf(currentPath, resolvedTopLevel)
		if relativePath == utils.CurrentDirectoryName {
			return nil
		}
		if directoryEntry.IsDir() && directoryEntry.Name() == utils.GitDirectoryName {
			return filepath.SkipDir
		}
		if !matcher.Excluded(strings.Split(relativePath, "/"), directoryEntry.IsDir()) {
			return nil
		}
		if directoryEntry.IsDir() {
			return filepath.SkipDir
		}
		if _, isTracked := tracked[relativePath]; isTracked {
			return nil
		}
		if _, recorded := index.States[relativePath]; !recorded {
			index.States[relativePath] = types.GitStateIgnored
		}
		return nil
	})
}

// classify translates go-git status codes into a single state.
// Precedence: Modified > Staged > Untracked > Ignored > Deleted > Clean.
func classify(fileStatus *git.FileStatus) types.GitState {
	if fileStatus == nil {
		return types.GitStateClean
	}
	switch {
	case fileStatus.Worktree == git.Modified:
		return types.GitStateModified
	case fileStatus.Staging == git.Added || fileStatus.Staging == git.Modified || fileStatus.Staging == git.Renamed:
		return types.GitStateStaged
	case fileStatus.Worktree == git.Untracked:
		return types.GitStateUntracked
	case fileStatus.Worktree == git.Deleted:
		return types.GitStateDeleted
	default:
		return types.GitStateClean
	}
}

func openRepository(rootPath string) (*git.Repository, error) {
	startPath := rootPath
	if absolutePath, absoluteError := filepath.Abs(rootPath); absoluteError == nil {
		startPath = absolutePath
	}
	repository, openError := git.PlainOpenWithOptions(startPath, &git.PlainOpenOptions{DetectDotGit: true})
	if openError != nil {
		return nil, openError
	}
	return repository, nil
}

// rootPrefix returns rootPath relative to the repository top-level in slash form.
func rootPrefix(rootPath string, topLevel string) string {
	relativePath, relativeError := filepath.Rel(resolvePath(topLevel), resolvePath(rootPath))
	if relativeError != nil || relativePath == utils.CurrentDirectoryName {
		return utils.CurrentDirectoryName
	}
	return filepath.ToSlash(relativePath)
}

func resolvePath(path string) string {
	absolutePath, absoluteError := filepath.Abs(path)
	if absoluteError != nil {
		return filepath.Clean(path)
	}
	resolvedPath, resolveError := filepath.EvalSymlinks(absolutePath)
	if resolveError != nil {
		return absolutePath
	}
	return resolvedPath
}

func isRepositoryMissing(err error) bool {
	return errors.Is(err, git.ErrRepositoryNotExists)
}
