// Package types defines every cross‑package data structure used by the arbor CLI.
package types

const (
	// NodeKindDirectory is the document token for directory nodes.
	NodeKindDirectory = "dir"
	// NodeKindFile is the document token for file nodes.
	NodeKindFile = "file"

	FormatTree  = "tree"
	FormatJSON  = "json"
	FormatXML   = "xml"
	FormatCount = "count"
)

// Kind distinguishes directories from files.
type Kind int

const (
	KindDirectory Kind = iota
	KindFile
)

// String returns the document token of the kind.
func (kind Kind) String() string {
	if kind == KindDirectory {
		return NodeKindDirectory
	}
	return NodeKindFile
}

// GitState is the version-control status attached to a file node.
type GitState int

const (
	GitStateClean GitState = iota
	GitStateModified
	GitStateStaged
	GitStateUntracked
	GitStateIgnored
	GitStateRenamed
	GitStateDeleted
)

var gitStateTokens = [...]string{
	GitStateClean:     "clean",
	GitStateModified:  "modified",
	GitStateStaged:    "staged",
	GitStateUntracked: "untracked",
	GitStateIgnored:   "ignored",
	GitStateRenamed:   "renamed",
	GitStateDeleted:   "deleted",
}

// String returns the lower-case token used in structured output.
func (state GitState) String() string {
	if state < 0 || int(state) >= len(gitStateTokens) {
		return "unknown"
	}
	return gitStateTokens[state]
}

// Node is one filesystem entry of a directory tree.
// Size is meaningful only for files; Children is nil for files and non-nil for directories.
type Node struct {
	Name     string
	Kind     Kind
	Size     int64
	Git      *GitState
	Children []*Node
}

// NewFileNode constructs a file node.
func NewFileNode(name string, size int64) *Node {
	return &Node{Name: name, Kind: KindFile, Size: size}
}

// NewDirectoryNode constructs a directory node owning the provided children.
func NewDirectoryNode(name string, children ...*Node) *Node {
	if children == nil {
		children = []*Node{}
	}
	return &Node{Name: name, Kind: KindDirectory, Children: children}
}

// IsDir reports whether the node is a directory.
func (node *Node) IsDir() bool {
	return node.Kind == KindDirectory
}

// SetGitState records a status on a file node. Directories are left untouched.
func (node *Node) SetGitState(state GitState) {
	if node.IsDir() {
		return
	}
	stateCopy := state
	node.Git = &stateCopy
}
