// Package goparse adapts the standard Go parser to the engine's tree
// shape. It is one concrete implementation of the parser port: the engine
// itself stays parser-agnostic and only ever sees api.AstNode trees.
package goparse

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"github.com/agilira/go-errors"

	"checkstyle/internal/api"
)

// ErrCodeParse marks source files the Go parser rejected.
const ErrCodeParse = "CHECKSTYLE_PARSE_FAILURE"

// Token types produced by this adapter beyond the Go AST node kinds.
const (
	RootToken         = "File"
	CommentToken      = "Comment"
	CommentGroupToken = "CommentGroup"
)

// Parser translates Go source files into api.AstNode trees. The zero
// value is ready to use and safe for concurrent use.
type Parser struct{}

// New creates a parser adapter.
func New() *Parser { return &Parser{} }

// Parse builds the tree for one file, or nil for a whitespace-only file.
// With comments requested, every comment group is inserted as an extra
// child in source order.
func (p *Parser) Parse(text *api.FileText, withComments bool) (*api.AstNode, error) {
	if text.Empty() {
		return nil, nil
	}
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, text.Path, text.Content, parser.ParseComments)
	if err != nil {
		return nil, errors.Wrap(err, ErrCodeParse, "unable to parse "+text.Path)
	}
	return build(fset, file, withComments), nil
}

// build flattens the Go AST into the first-child/next-sibling shape the
// walkers traverse. Comment groups are excluded from the ordinary tree;
// the comment pass sees them as extra children of the root, in source
// order, after the declarations.
func build(fset *token.FileSet, file *ast.File, withComments bool) *api.AstNode {
	root := &api.AstNode{Type: RootToken, Line: 1, Column: 1}
	stack := []*api.AstNode{root}

	ast.Inspect(file, func(n ast.Node) bool {
		if n == nil {
			stack = stack[:len(stack)-1]
			return true
		}
		if n == ast.Node(file) {
			// Сам файл уже представлен корнем.
			stack = append(stack, root)
			return true
		}
		if _, isComment := n.(*ast.CommentGroup); isComment {
			// Pop never happens for pruned subtrees.
			return false
		}
		node := newNode(fset, n)
		stack[len(stack)-1].AddChild(node)
		stack = append(stack, node)
		return true
	})

	if withComments {
		for _, group := range file.Comments {
			groupNode := newNode(fset, group)
			for _, comment := range group.List {
				groupNode.AddChild(newNode(fset, comment))
			}
			root.AddChild(groupNode)
		}
	}
	return root
}

func newNode(fset *token.FileSet, n ast.Node) *api.AstNode {
	pos := fset.Position(n.Pos())
	node := &api.AstNode{
		Type:   nodeType(n),
		Line:   pos.Line,
		Column: pos.Column,
	}
	switch v := n.(type) {
	case *ast.Ident:
		node.Text = v.Name
	case *ast.BasicLit:
		node.Text = v.Value
	case *ast.Comment:
		node.Text = v.Text
	}
	return node
}

// nodeType derives the token type tag from the dynamic Go AST node type,
// e.g. *ast.FuncDecl -> "FuncDecl".
func nodeType(n ast.Node) string {
	if _, ok := n.(*ast.CommentGroup); ok {
		return CommentGroupToken
	}
	name := fmt.Sprintf("%T", n)
	name = strings.TrimPrefix(name, "*ast.")
	return name
}
