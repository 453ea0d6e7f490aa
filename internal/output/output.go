// Package output renders built directory trees as text, documents and counts.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/temirov/arbor/internal/types"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	directorySuffix = "/"
	iconSeparator   = " "
	lineTerminator  = "\n"

	countLineFormat  = "%c Directories: %d | %c Files: %d\n"
	branchLineFormat = "(⎇ %s)\n"
)

// nameDecorator writes the decorated name of one node.
type nameDecorator func(builder *strings.Builder, node *types.Node)

type decoratorKey struct {
	icons bool
	mode  ColorMode
}

var nameDecorators = map[decoratorKey]nameDecorator{
	{icons: false, mode: ColorNever}:  writePlainName,
	{icons: false, mode: ColorAuto}:   writeGitOnlyName,
	{icons: false, mode: ColorAlways}: writeFullColorName,
	{icons: true, mode: ColorNever}:   withIcon(writePlainName),
	{icons: true, mode: ColorAuto}:    withIcon(writeGitOnlyName),
	{icons: true, mode: ColorAlways}:  withIcon(writeFullColorName),
}

func writePlainName(builder *strings.Builder, node *types.Node) {
	builder.WriteString(node.Name)
	if node.IsDir() {
		builder.WriteString(directorySuffix)
	}
}

func writeGitOnlyName(builder *strings.Builder, node *types.Node) {
	writePlainName(builder, node)
	builder.WriteString(coloredGitMarker(node))
}

func writeFullColorName(builder *strings.Builder, node *types.Node) {
	builder.WriteString(colorForName(node.Name, node.IsDir()))
	writePlainName(builder, node)
	builder.WriteString(colorReset)
	builder.WriteString(coloredGitMarker(node))
}

func withIcon(decorator nameDecorator) nameDecorator {
	return func(builder *strings.Builder, node *types.Node) {
		builder.WriteRune(iconFor(node.Name, node.IsDir()))
		builder.WriteString(iconSeparator)
		decorator(builder, node)
	}
}

// RenderTree writes the box-drawing text form of the tree rooted at rootNode.
// An unknown color mode falls back to ColorNever.
func RenderTree(writer io.Writer, rootNode *types.Node, colorMode ColorMode, showIcons bool) error {
	decorator, found := nameDecorators[decoratorKey{icons: showIcons, mode: colorMode}]
	if !found {
		decorator = nameDecorators[decoratorKey{icons: showIcons, mode: ColorNever}]
	}

	var builder strings.Builder
	decorator(&builder, rootNode)
	builder.WriteString(lineTerminator)
	for childIndex, child := range rootNode.Children {
		renderTreeNode(&builder, child, "", childIndex == len(rootNode.Children)-1, decorator)
	}
	_, writeError := io.WriteString(writer, builder.String())
	return writeError
}

// renderTreeNode writes one node line and recurses with the extended prefix.
func renderTreeNode(builder *strings.Builder, node *types.Node, prefix string, isLast bool, decorator nameDecorator) {
	connector := treeBranchConnector
	childPrefix := prefix + treeBranchPadding
	if isLast {
		connector = treeLastConnector
		childPrefix = prefix + treeLastPadding
	}
	builder.WriteString(prefix)
	builder.WriteString(connector)
	decorator(builder, node)
	builder.WriteString(lineTerminator)

	for childIndex, child := range node.Children {
		renderTreeNode(builder, child, childPrefix, childIndex == len(node.Children)-1, decorator)
	}
}

// CountNodes returns the number of directories and files in the tree, the root included.
func CountNodes(rootNode *types.Node) (directories int, files int) {
	if rootNode == nil {
		return 0, 0
	}
	if rootNode.IsDir() {
		directories++
	} else {
		files++
	}
	for _, child := range rootNode.Children {
		childDirectories, childFiles := CountNodes(child)
		directories += childDirectories
		files += childFiles
	}
	return directories, files
}

// RenderCount writes the one-line directory and file summary.
func RenderCount(writer io.Writer, rootNode *types.Node) error {
	directories, files := CountNodes(rootNode)
	_, writeError := fmt.Fprintf(writer, countLineFormat, defaultDirectoryIcon, directories, defaultFileIcon, files)
	return writeError
}

// RenderBranch writes the branch line shown above the tree.
func RenderBranch(writer io.Writer, branchName string) error {
	_, writeError := fmt.Fprintf(writer, branchLineFormat, branchName)
	return writeError
}
