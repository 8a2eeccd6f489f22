// Package pyparse parses Python source with tree-sitter and extracts the
// structural facts the scanner needs: function names, class definitions,
// and raw import identifiers.
package pyparse

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

var (
	// ErrSyntax is returned when the source does not parse as valid Python.
	// Callers skip the file and record the error; a syntax error never
	// aborts a scan.
	ErrSyntax = errors.New("syntax error")

	// ErrInvalidContent is returned for source that is not valid UTF-8.
	ErrInvalidContent = errors.New("invalid content")
)

// Module wraps a parsed Python source file. Close must be called to release
// the underlying tree-sitter tree.
type Module struct {
	tree *sitter.Tree
	root *sitter.Node
	src  []byte
}

// Parse parses src as Python. Tree-sitter is error-tolerant, so a tree that
// contains ERROR nodes is rejected here with ErrSyntax rather than returned
// as a partial result.
func Parse(ctx context.Context, src []byte) (*Module, error) {
	if !utf8.Valid(src) {
		return nil, ErrInvalidContent
	}

	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse: %w", err)
	}

	root := tree.RootNode()
	if root == nil {
		tree.Close()
		return nil, fmt.Errorf("tree-sitter returned nil root node")
	}
	if root.HasError() {
		tree.Close()
		return nil, ErrSyntax
	}

	return &Module{tree: tree, root: root, src: src}, nil
}

// Close releases the parse tree.
func (m *Module) Close() {
	if m.tree != nil {
		m.tree.Close()
		m.tree = nil
	}
}

// Root returns the module node of the parse tree.
func (m *Module) Root() *sitter.Node {
	return m.root
}

// Source returns the raw bytes the module was parsed from.
func (m *Module) Source() []byte {
	return m.src
}

func (m *Module) text(n *sitter.Node) string {
	return string(m.src[n.StartByte():n.EndByte()])
}

// Walk visits every named node in the tree in depth-first order.
func Walk(n *sitter.Node, visit func(*sitter.Node)) {
	if n == nil {
		return
	}
	visit(n)
	for i := 0; i < int(n.NamedChildCount()); i++ {
		Walk(n.NamedChild(i), visit)
	}
}
