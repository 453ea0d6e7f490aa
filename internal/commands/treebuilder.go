package commands

import (
	"path"
	"strings"

	"github.com/temirov/arbor/internal/types"
	"github.com/temirov/arbor/internal/utils"
)

const (
	rootNodeIndex   = 0
	rootRelativeKey = ""
	parentDirectory = ".."
)

// storedNode is a node of the index-addressed store. Children refer to store indexes.
type storedNode struct {
	name     string
	kind     types.Kind
	size     int64
	children []int
}

// nodeStore assembles a hierarchy from entries delivered in any order.
// Directories are created on demand so every ancestor of a delivered entry exists.
type nodeStore struct {
	nodes       []storedNode
	indexByPath map[string]int
}

func newNodeStore(rootName string) *nodeStore {
	return &nodeStore{
		nodes:       []storedNode{{name: rootName, kind: types.KindDirectory}},
		indexByPath: map[string]int{rootRelativeKey: rootNodeIndex},
	}
}

// normalizeKey converts a root-relative slash path into a store key.
func normalizeKey(relativePath string) string {
	cleanedPath := path.Clean(utils.StripCurrentDirectoryPrefix(relativePath))
	if cleanedPath == utils.CurrentDirectoryName {
		return rootRelativeKey
	}
	return cleanedPath
}

func isOutsideRoot(key string) bool {
	return key == parentDirectory || strings.HasPrefix(key, parentDirectory+"/") || strings.HasPrefix(key, "/")
}

// ensureDirectoryIndex returns the index of the directory at relativePath,
// creating it and any missing ancestors. Paths at or above the root resolve to the root.
func (store *nodeStore) ensureDirectoryIndex(relativePath string) int {
	key := normalizeKey(relativePath)
	if isOutsideRoot(key) {
		return rootNodeIndex
	}
	if existingIndex, exists := store.indexByPath[key]; exists {
		return existingIndex
	}
	parentIndex := store.ensureDirectoryIndex(path.Dir(key))
	return store.link(parentIndex, key, storedNode{name: path.Base(key), kind: types.KindDirectory})
}

// addFile records a file entry under its parent directory. A repeated path is ignored.
func (store *nodeStore) addFile(relativePath string, size int64) {
	key := normalizeKey(relativePath)
	if key == rootRelativeKey || isOutsideRoot(key) {
		return
	}
	if _, exists := store.indexByPath[key]; exists {
		return
	}
	parentIndex := store.ensureDirectoryIndex(path.Dir(key))
	store.link(parentIndex, key, storedNode{name: path.Base(key), kind: types.KindFile, size: size})
}

func (store *nodeStore) link(parentIndex int, key string, node storedNode) int {
	newIndex := len(store.nodes)
	store.nodes = append(store.nodes, node)
	store.nodes[parentIndex].children = append(store.nodes[parentIndex].children, newIndex)
	store.indexByPath[key] = newIndex
	return newIndex
}

// materialize converts the subtree at index into owned nodes.
func (store *nodeStore) materialize(index int) *types.Node {
	stored := store.nodes[index]
	if stored.kind == types.KindFile {
		return types.NewFileNode(stored.name, stored.size)
	}
	children := make([]*types.Node, 0, len(stored.children))
	for _, childIndex := range stored.children {
		children = append(children, store.materialize(childIndex))
	}
	return types.NewDirectoryNode(stored.name, children...)
}

// pruneEmptyDirectories removes directories without children below node, bottom-up.
// The node itself is never removed.
func pruneEmptyDirectories(node *types.Node) {
	if node == nil || !node.IsDir() {
		return
	}
	keptChildren := node.Children[:0]
	for _, child := range node.Children {
		if child.IsDir() {
			pruneEmptyDirectories(child)
			if len(child.Children) == 0 {
				continue
			}
		}
		keptChildren = append(keptChildren, child)
	}
	node.Children = keptChildren
}
