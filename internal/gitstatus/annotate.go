package gitstatus

import (
	"github.com/temirov/arbor/internal/types"
	"github.com/temirov/arbor/internal/utils"
)

const (
	pathSeparator         = '/'
	initialPathBufferSize = 256
)

// Annotate attaches states from index to the file nodes of the tree rooted at rootNode.
// The root corresponds to index.RootPrefix; each child appends "/"+name to a shared
// buffer which is truncated again on return.
func Annotate(rootNode *types.Node, index *Index) {
	if rootNode == nil || index == nil || len(index.States) == 0 {
		return
	}
	pathBuffer := make([]byte, 0, initialPathBufferSize)
	pathBuffer = append(pathBuffer, index.RootPrefix...)
	annotateNode(rootNode, index, &pathBuffer)
}

func annotateNode(node *types.Node, index *Index, pathBuffer *[]byte) {
	if !node.IsDir() {
		if state, found := index.Lookup(utils.StripCurrentDirectoryPrefix(string(*pathBuffer))); found {
			node.SetGitState(state)
		}
		return
	}
	for _, child := range node.Children {
		keep := len(*pathBuffer)
		if keep > 0 {
			*pathBuffer = append(*pathBuffer, pathSeparator)
		}
		*pathBuffer = append(*pathBuffer, child.Name...)
		annotateNode(child, index, pathBuffer)
		*pathBuffer = (*pathBuffer)[:keep]
	}
}
