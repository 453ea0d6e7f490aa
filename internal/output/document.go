package output

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/temirov/arbor/internal/types"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	xmlHeader = xml.Header

	errorEncodeJSONFormat = "encoding tree as JSON: %w"
	errorEncodeXMLFormat  = "encoding tree as XML: %w"
)

// DocumentNode is the structured form of a tree node shared by the JSON and XML encodings.
type DocumentNode struct {
	XMLName  xml.Name        `json:"-" xml:"node"`
	Name     string          `json:"name" xml:"name,attr"`
	Kind     string          `json:"kind" xml:"kind,attr"`
	Size     *int64          `json:"size,omitempty" xml:"size,attr,omitempty"`
	Git      string          `json:"git,omitempty" xml:"git,attr,omitempty"`
	Children []*DocumentNode `json:"children,omitempty" xml:"node,omitempty"`
}

// NewDocumentNode maps a tree node and its descendants into document nodes.
func NewDocumentNode(node *types.Node) *DocumentNode {
	documentNode := &DocumentNode{
		Name: node.Name,
		Kind: node.Kind.String(),
	}
	if !node.IsDir() {
		size := node.Size
		documentNode.Size = &size
	}
	if node.Git != nil {
		documentNode.Git = node.Git.String()
	}
	if len(node.Children) > 0 {
		documentNode.Children = make([]*DocumentNode, 0, len(node.Children))
		for _, child := range node.Children {
			documentNode.Children = append(documentNode.Children, NewDocumentNode(child))
		}
	}
	return documentNode
}

// RenderJSON writes the tree as a pretty-printed JSON document followed by a newline.
func RenderJSON(writer io.Writer, rootNode *types.Node) error {
	encoded, encodeError := json.MarshalIndent(NewDocumentNode(rootNode), indentPrefix, indentSpacer)
	if encodeError != nil {
		return fmt.Errorf(errorEncodeJSONFormat, encodeError)
	}
	encoded = append(encoded, lineTerminator...)
	_, writeError := writer.Write(encoded)
	return writeError
}

// RenderXML writes the tree as nested <node> elements preceded by the XML header.
func RenderXML(writer io.Writer, rootNode *types.Node) error {
	encoded, encodeError := xml.MarshalIndent(NewDocumentNode(rootNode), indentPrefix, indentSpacer)
	if encodeError != nil {
		return fmt.Errorf(errorEncodeXMLFormat, encodeError)
	}
	if _, writeError := io.WriteString(writer, xmlHeader); writeError != nil {
		return writeError
	}
	encoded = append(encoded, lineTerminator...)
	_, writeError := writer.Write(encoded)
	return writeError
}
