// Package matchnode wraps a tree-sitter AST node with the handful of
// accessors matchers need, so internal/matcher never imports tree-sitter
// directly and stays testable against hand-built fixtures.
package matchnode

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/tracewire/svcgraph/internal/lang"
)

// Node is the view of an AST node a Matcher is handed.
type Node struct {
	raw      *tree_sitter.Node
	text     string
	line     int
	kind     string
	language lang.Language
}

// Wrap builds a Node from a raw tree-sitter node and the file's full source.
func Wrap(raw *tree_sitter.Node, src []byte, language lang.Language) *Node {
	if raw == nil {
		return nil
	}
	return &Node{
		raw:      raw,
		text:     string(src[raw.StartByte():raw.EndByte()]),
		line:     int(raw.StartPosition().Row) + 1,
		kind:     raw.Kind(),
		language: language,
	}
}

// Text returns the node's source text.
func (n *Node) Text() string { return n.text }

// Line returns the 1-indexed source line the node starts on.
func (n *Node) Line() int { return n.line }

// Kind returns the tree-sitter node kind (e.g. "call_expression").
func (n *Node) Kind() string { return n.kind }

// Language returns the language this node was parsed as.
func (n *Node) Language() lang.Language { return n.language }

// Raw exposes the underlying tree-sitter node for callers (the extractor)
// that need to walk children or siblings. Matchers should not need it.
func (n *Node) Raw() *tree_sitter.Node { return n.raw }

// NewForTest builds a Node with no backing tree-sitter node, for matcher
// unit tests that exercise Match against hand-written source snippets.
func NewForTest(kind, text string, line int, language lang.Language) *Node {
	return &Node{kind: kind, text: text, line: line, language: language}
}
