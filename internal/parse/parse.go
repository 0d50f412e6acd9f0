// Package parse wraps tree-sitter behind the minimal syntax-tree surface the
// extraction engine needs: parsing with syntax diagnostics, a closed set of
// node kinds, and accessors for calls, declarations, and string forms.
package parse

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// Diagnostic is a syntax problem found while parsing a source unit.
// Any diagnostic is fatal for that unit: extraction never runs on a
// partially parsed tree.
type Diagnostic struct {
	Line    int // 1-based
	Col     int // 1-based
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s", d.Line, d.Col, d.Message)
}

// Parse parses source with the given parser and collects syntax diagnostics.
// The parser must be created for the correct language.
func Parse(parser *sitter.Parser, source []byte) (*sitter.Tree, []Diagnostic, error) {
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing source: %w", err)
	}

	root := tree.RootNode()
	var diags []Diagnostic
	if root.HasError() {
		diags = collectErrors(root, diags)
	}
	return tree, diags, nil
}

func collectErrors(n *sitter.Node, diags []Diagnostic) []Diagnostic {
	if n.Type() == "ERROR" {
		line, col := Position(n)
		return append(diags, Diagnostic{Line: line, Col: col, Message: "syntax error"})
	}
	if n.IsMissing() {
		line, col := Position(n)
		return append(diags, Diagnostic{Line: line, Col: col, Message: fmt.Sprintf("missing %s", n.Type())})
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.HasError() || child.IsMissing() {
			diags = collectErrors(child, diags)
		}
	}
	return diags
}

// Position returns the 1-based line and column of a node's start.
func Position(n *sitter.Node) (line, col int) {
	p := n.StartPoint()
	return int(p.Row) + 1, int(p.Column) + 1
}

// Text returns the source text of a node.
func Text(n *sitter.Node, source []byte) string {
	return string(source[n.StartByte():n.EndByte()])
}
