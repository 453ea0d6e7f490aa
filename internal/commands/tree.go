// Package commands contains the core logic for building directory trees.
package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/arbor/internal/types"
	"github.com/temirov/arbor/internal/utils"
	"github.com/temirov/arbor/internal/walker"
)

const (
	// errorAbsolutePathFormat is used when the absolute path cannot be determined.
	errorAbsolutePathFormat = "getting absolute path for %s: %w"

	// errorStatRootFormat is used when the root cannot be inspected.
	errorStatRootFormat = "reading root %s: %w"

	// errorBuildTreeFormat is used when building the tree fails.
	errorBuildTreeFormat = "building tree for %s: %w"

	debugTreeSummaryFormat = "tree built for %s: %d entries delivered"
)

// ErrConflictingDisplayToggles reports dirs-only combined with files-only.
var ErrConflictingDisplayToggles = errors.New("dirs-only and files-only are mutually exclusive")

// TreeOptions configures traversal and the display toggles applied while building.
type TreeOptions struct {
	Walk       walker.Options
	DirsOnly   bool
	FilesOnly  bool
	PruneEmpty bool
}

// TreeBuilder builds directory trees using configured options.
type TreeBuilder struct {
	Options TreeOptions
	Matcher walker.IgnoreMatcher
	Logger  *zap.Logger
}

// GetTreeData walks rootPath and returns the root node of the resulting tree.
// A regular file root yields a single file node.
func (treeBuilder *TreeBuilder) GetTreeData(rootPath string) (*types.Node, error) {
	if treeBuilder.Options.DirsOnly && treeBuilder.Options.FilesOnly {
		return nil, ErrConflictingDisplayToggles
	}
	logger := treeBuilder.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	absoluteRootPath, absolutePathError := filepath.Abs(rootPath)
	if absolutePathError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, rootPath, absolutePathError)
	}
	rootInfo, statError := os.Stat(absoluteRootPath)
	if statError != nil {
		return nil, fmt.Errorf(errorStatRootFormat, rootPath, statError)
	}

	rootName := utils.RootDisplayName(rootPath)
	if !rootInfo.IsDir() {
		return types.NewFileNode(rootName, rootInfo.Size()), nil
	}

	store := newNodeStore(rootName)
	deliveredEntries := 0
	treeWalker := walker.NewWalker(treeBuilder.Options.Walk, treeBuilder.Matcher, logger)
	walkError := treeWalker.Walk(absoluteRootPath, func(entry walker.Entry) {
		deliveredEntries++
		treeBuilder.accept(store, entry)
	})
	if walkError != nil {
		return nil, fmt.Errorf(errorBuildTreeFormat, rootPath, walkError)
	}
	logger.Debug(fmt.Sprintf(debugTreeSummaryFormat, rootPath, deliveredEntries))

	rootNode := store.materialize(rootNodeIndex)
	if treeBuilder.Options.PruneEmpty {
		pruneEmptyDirectories(rootNode)
	}
	return rootNode, nil
}

// accept feeds one walker entry to the store, honoring the display toggles.
func (treeBuilder *TreeBuilder) accept(store *nodeStore, entry walker.Entry) {
	switch entry.Kind {
	case types.KindDirectory:
		if treeBuilder.Options.FilesOnly {
			return
		}
		store.ensureDirectoryIndex(entry.RelativePath)
	case types.KindFile:
		if treeBuilder.Options.DirsOnly {
			return
		}
		store.addFile(entry.RelativePath, entry.Size)
	}
}
