package parser

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// ParseError reports that source text is not valid Python.
type ParseError struct {
	Path   string
	Detail string
}

func (e *ParseError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("parse %s: invalid syntax", e.Path)
	}
	return fmt.Sprintf("parse %s: invalid syntax: %s", e.Path, e.Detail)
}

// File is a parsed Python source file: the raw text, a line-indexed view of
// it, and the syntax tree. Immutable once built. Owns the underlying
// tree-sitter tree, so callers must Close it when done.
type File struct {
	Path   string
	Source []byte
	Lines  []string

	tree *sitter.Tree
}

// Root returns the root node of the syntax tree.
func (f *File) Root() *sitter.Node {
	return f.tree.RootNode()
}

// Close releases the syntax tree.
func (f *File) Close() {
	if f.tree != nil {
		f.tree.Close()
		f.tree = nil
	}
}

// Parser parses Python source text.
type Parser struct {
	language *sitter.Language
}

// NewParser creates a new Python parser.
func NewParser() *Parser {
	return &Parser{
		language: sitter.NewLanguage(python.Language()),
	}
}

// Parse parses source into a File. It returns a *ParseError when the grammar
// reports errors anywhere in the tree; tree-sitter recovers from bad input
// instead of failing outright, so an ERROR or MISSING node is what "invalid"
// means here.
func (p *Parser) Parse(path string, source []byte) (*File, error) {
	tsParser := sitter.NewParser()
	defer tsParser.Close()

	tsParser.SetLanguage(p.language)

	tree := tsParser.Parse(source, nil)
	if tree == nil {
		return nil, &ParseError{Path: path}
	}

	root := tree.RootNode()
	if root.HasError() {
		detail := describeFirstError(root)
		tree.Close()
		return nil, &ParseError{Path: path, Detail: detail}
	}

	return &File{
		Path:   path,
		Source: source,
		Lines:  strings.Split(string(source), "\n"),
		tree:   tree,
	}, nil
}

// describeFirstError locates the first ERROR or MISSING node and reports its
// position for diagnostics.
func describeFirstError(node *sitter.Node) string {
	if node.IsError() || node.IsMissing() {
		pos := node.StartPosition()
		return fmt.Sprintf("error at line %d, column %d", pos.Row+1, pos.Column+1)
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		if detail := describeFirstError(node.Child(i)); detail != "" {
			return detail
		}
	}
	return ""
}
