package pyparse

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/olehluchkiv/depscan/internal/analysis"
)

// Functions returns the names of top-level and nested functions in source
// order. Methods belong to their class and are reported via Classes instead.
func (m *Module) Functions() []string {
	var names []string
	Walk(m.root, func(n *sitter.Node) {
		if n.Type() != "function_definition" {
			return
		}
		if isMethod(n) {
			return
		}
		if name := m.definitionName(n); name != "" {
			names = append(names, name)
		}
	})
	return names
}

// Classes returns a mapping from class name to ClassInfo for every class
// definition in the module, including nested classes.
func (m *Module) Classes() map[string]*analysis.ClassInfo {
	classes := make(map[string]*analysis.ClassInfo)
	Walk(m.root, func(n *sitter.Node) {
		if n.Type() != "class_definition" {
			return
		}
		if info := m.classInfo(n); info != nil {
			classes[info.Name] = info
		}
	})
	return classes
}

// Imports returns the raw import identifiers as written in source, in
// source order with duplicates removed. Relative imports keep their leading
// dots (".foo", "..bar") so the dependency resolver can count levels.
func (m *Module) Imports() []string {
	var idents []string
	seen := make(map[string]bool)
	add := func(ident string) {
		if ident == "" || seen[ident] {
			return
		}
		seen[ident] = true
		idents = append(idents, ident)
	}

	Walk(m.root, func(n *sitter.Node) {
		switch n.Type() {
		case "import_statement":
			// import foo, import foo.bar as baz
			for i := 0; i < int(n.NamedChildCount()); i++ {
				child := n.NamedChild(i)
				switch child.Type() {
				case "dotted_name":
					add(m.text(child))
				case "aliased_import":
					if name := child.ChildByFieldName("name"); name != nil {
						add(m.text(name))
					}
				}
			}
		case "import_from_statement":
			// from foo.bar import X / from ..pkg import Y / from . import Z
			if mod := n.ChildByFieldName("module_name"); mod != nil {
				add(m.text(mod))
			}
		}
	})
	return idents
}

// classInfo builds a ClassInfo from a class_definition node.
func (m *Module) classInfo(n *sitter.Node) *analysis.ClassInfo {
	name := m.definitionName(n)
	if name == "" {
		return nil
	}

	info := &analysis.ClassInfo{
		Name:    name,
		Methods: []string{},
	}

	// Base classes, including dotted attribute bases ("pkg.Base").
	if args := n.ChildByFieldName("superclasses"); args != nil {
		for i := 0; i < int(args.NamedChildCount()); i++ {
			arg := args.NamedChild(i)
			if arg.Type() == "identifier" || arg.Type() == "attribute" {
				info.BaseClasses = append(info.BaseClasses, m.text(arg))
			}
		}
	}

	body := n.ChildByFieldName("body")
	if body == nil {
		return info
	}

	info.Docstring = m.blockDocstring(body)

	for i := 0; i < int(body.NamedChildCount()); i++ {
		stmt := body.NamedChild(i)
		def := stmt
		if stmt.Type() == "decorated_definition" {
			def = stmt.ChildByFieldName("definition")
			if def == nil {
				continue
			}
		}
		if def.Type() == "function_definition" {
			if method := m.definitionName(def); method != "" {
				info.Methods = append(info.Methods, method)
			}
		}
	}
	return info
}

// definitionName returns the name of a function or class definition.
func (m *Module) definitionName(n *sitter.Node) string {
	if name := n.ChildByFieldName("name"); name != nil {
		return m.text(name)
	}
	return ""
}

// blockDocstring returns the docstring of a block node, if the first
// statement is a string expression.
func (m *Module) blockDocstring(block *sitter.Node) string {
	if block.NamedChildCount() == 0 {
		return ""
	}
	first := block.NamedChild(0)
	if first.Type() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}
	str := first.NamedChild(0)
	if str.Type() != "string" {
		return ""
	}
	return strings.Trim(m.text(str), `"'`)
}

// isMethod reports whether a function_definition is a direct member of a
// class body (possibly wrapped in a decorator).
func isMethod(n *sitter.Node) bool {
	parent := n.Parent()
	if parent != nil && parent.Type() == "decorated_definition" {
		parent = parent.Parent()
	}
	if parent == nil || parent.Type() != "block" {
		return false
	}
	owner := parent.Parent()
	return owner != nil && owner.Type() == "class_definition"
}
