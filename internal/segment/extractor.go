package segment

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"pydocgen/internal/parser"
)

// Extract walks every node of the file's syntax tree in pre-order and
// collects import, class, and function segments, claiming lines from the
// universe as it goes. Nested definitions are extracted wherever they occur,
// so a class's methods also appear as independent function segments after
// the class itself.
//
// Imports claim their statement's start line. Functions and classes claim
// their start line only, not their full range; the remaining lines of a
// multi-line definition stay in the universe and resurface as loose lines
// during reconciliation. That asymmetry is part of the tool's observable
// output and is kept as is.
func Extract(f *parser.File, u *Universe) *Analysis {
	analysis := NewAnalysis()

	walkTree(f.Root(), func(n *sitter.Node) bool {
		switch n.Kind() {
		case "import_statement":
			analysis.Imports = append(analysis.Imports, importedNames(n, f.Source)...)
			u.Claim(int(n.StartPosition().Row))
		case "import_from_statement":
			analysis.Imports = append(analysis.Imports, fromImportModule(n, f.Source))
			u.Claim(int(n.StartPosition().Row))
		case "function_definition":
			if fn := extractFunction(n, f); fn != nil {
				analysis.Functions = append(analysis.Functions, fn)
				u.Claim(fn.StartLine)
			}
		case "class_definition":
			if cls := extractClass(n, f); cls != nil {
				analysis.Classes = append(analysis.Classes, cls)
				u.Claim(cls.StartLine)
			}
		}
		return true
	})

	return analysis
}

// importedNames returns the module names of a plain import statement, e.g.
// "import os, sys.path as sp" yields ["os", "sys.path"]. Aliases are not
// recorded.
func importedNames(node *sitter.Node, source []byte) []string {
	var names []string
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.Kind() {
		case "dotted_name":
			names = append(names, nodeText(child, source))
		case "aliased_import":
			if name := child.ChildByFieldName("name"); name != nil {
				names = append(names, nodeText(name, source))
			}
		}
	}
	return names
}

// fromImportModule returns the module name of a from-import. A purely
// relative import ("from . import x") has no module name and yields the
// empty string rather than an error.
func fromImportModule(node *sitter.Node, source []byte) string {
	module := node.ChildByFieldName("module_name")
	if module == nil {
		return ""
	}
	name := nodeText(module, source)
	if module.Kind() == "relative_import" {
		name = strings.TrimLeft(name, ".")
	}
	return name
}

// extractFunction builds a Function segment from a function_definition node.
// The line range is the node's own reported span, and the code text is the
// raw concatenation of those lines.
func extractFunction(node *sitter.Node, f *parser.File) *Function {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	startLine := int(node.StartPosition().Row)
	endLine := int(node.EndPosition().Row)

	return &Function{
		Name:      nodeText(nameNode, f.Source),
		Params:    parameterNames(node, f.Source),
		Code:      sliceRaw(f.Lines, startLine, endLine),
		StartLine: startLine,
		EndLine:   endLine,
	}
}

// extractClass builds a Class segment from a class_definition node. Method
// names come from function definitions that are direct children of the class
// body; functions nested deeper, or defined conditionally, are not methods.
func extractClass(node *sitter.Node, f *parser.File) *Class {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	startLine := int(node.StartPosition().Row)
	endLine := int(node.EndPosition().Row)

	return &Class{
		Name:      nodeText(nameNode, f.Source),
		Methods:   methodNames(node, f.Source),
		Code:      sliceRaw(f.Lines, startLine, endLine),
		StartLine: startLine,
		EndLine:   endLine,
	}
}

// methodNames returns the names of direct child function definitions of a
// class body, in declaration order. A decorated method parses as a
// decorated_definition wrapper, which counts as direct.
func methodNames(classNode *sitter.Node, source []byte) []string {
	body := classNode.ChildByFieldName("body")
	if body == nil {
		return nil
	}

	var methods []string
	for i := uint(0); i < body.NamedChildCount(); i++ {
		child := body.NamedChild(i)
		if child.Kind() == "decorated_definition" {
			if def := child.ChildByFieldName("definition"); def != nil {
				child = def
			}
		}
		if child.Kind() != "function_definition" {
			continue
		}
		if name := child.ChildByFieldName("name"); name != nil {
			methods = append(methods, nodeText(name, source))
		}
	}
	return methods
}

// parameterNames returns the declared parameter names of a function
// definition in order. Splat parameters (*args, **kwargs) and bare
// separators are skipped; only positional names are reported.
func parameterNames(funcNode *sitter.Node, source []byte) []string {
	params := funcNode.ChildByFieldName("parameters")
	if params == nil {
		return nil
	}

	var names []string
	for i := uint(0); i < params.NamedChildCount(); i++ {
		child := params.NamedChild(i)
		switch child.Kind() {
		case "identifier":
			names = append(names, nodeText(child, source))
		case "typed_parameter":
			if id := firstChildOfKind(child, "identifier"); id != nil {
				names = append(names, nodeText(id, source))
			}
		case "default_parameter", "typed_default_parameter":
			if name := child.ChildByFieldName("name"); name != nil {
				names = append(names, nodeText(name, source))
			}
		}
	}
	return names
}

// sliceRaw concatenates lines start..end inclusive with no separator. The
// rendered output depends on definition lines being joined this way, so no
// newline is inserted.
func sliceRaw(lines []string, start, end int) string {
	if start < 0 || start >= len(lines) {
		return ""
	}
	if end >= len(lines) {
		end = len(lines) - 1
	}

	var b strings.Builder
	for i := start; i <= end; i++ {
		b.WriteString(lines[i])
	}
	return b.String()
}

// nodeText extracts the text content of a tree-sitter node.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// firstChildOfKind finds the first direct child node with the given kind.
func firstChildOfKind(node *sitter.Node, kind string) *sitter.Node {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

// walkTree recursively walks a tree-sitter tree in pre-order and calls the
// visitor for each node.
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !visitor(node) {
		return
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		walkTree(node.Child(i), visitor)
	}
}
