package render

import (
	"fmt"

	"github.com/raymyers/ralph-step/pkg/ast"
)

// View is what a stepper shows for one state: the tagged source text, the
// token range of the statement being evaluated and, inside it, the range of
// the subterm the next step rewrites.
type View struct {
	Tokens      []Token
	Range       Range
	Highlighted bool
	Focus       Range
	Focused     bool
}

// Highlight renders tree with statement replaced by active, its partially
// evaluated form, and locates active in the result. statement is the current
// IR statement; for a conditional jump the condition of the original if or
// for statement is what gets replaced. Highlighted is false when statement is
// nil or has no counterpart in tree, as for jumps and undeclarations.
func Highlight(tree []ast.Stmt, statement ast.Stmt, active ast.Node) (View, error) {
	return HighlightFocus(tree, statement, active, nil)
}

// HighlightFocus is Highlight that also locates focus, a subterm of active.
// A focus equal to active stands for the whole replacement.
func HighlightFocus(tree []ast.Stmt, statement ast.Stmt, active, focus ast.Node) (View, error) {
	target, replacement, err := replacementFor(statement, active)
	if err != nil {
		return View{}, err
	}
	if focus == active {
		focus = replacement
	}

	found := false
	if target != nil {
		for _, s := range tree {
			if ast.Contains(s, target) {
				found = true
				break
			}
		}
	}
	if !found {
		return View{Tokens: TagTokens(Render(tree))}, nil
	}

	evaluated := make([]ast.Stmt, len(tree))
	for i, s := range tree {
		n, err := ast.Substitute(s, target, replacement)
		if err != nil {
			return View{}, err
		}
		st, ok := n.(ast.Stmt)
		if !ok {
			return View{}, fmt.Errorf("substituting %s at top level: %w", ast.Kind(n), ast.ErrInvalidOperand)
		}
		evaluated[i] = st
	}

	frags := Render(evaluated)
	view := View{Tokens: TagTokens(frags)}
	r, ok := FindRange(frags, replacement)
	if !ok {
		return view, nil
	}
	view.Range = TransformRange(r, frags, TagTokens)
	view.Highlighted = true

	if focus != nil {
		if fr, ok := FindRangeWithin(frags, focus, r); ok {
			view.Focus = TransformRange(fr, frags, TagTokens)
			view.Focused = true
		}
	}
	return view, nil
}

// replacementFor returns the node of the source tree that statement stands
// for and what to show in its place.
func replacementFor(statement ast.Stmt, active ast.Node) (target, replacement ast.Node, err error) {
	if statement == nil {
		return nil, nil, nil
	}
	cj, ok := statement.(*ast.CondJump)
	if !ok {
		return statement, active, nil
	}

	switch o := cj.Original.(type) {
	case *ast.If:
		target = o.Cond
	case *ast.ExprStmt:
		target = o.Value
	default:
		return nil, nil, fmt.Errorf("condition of %s: %w", ast.Kind(cj.Original), ast.ErrUnsupportedNode)
	}
	replacement = cj.Cond
	if a, ok := active.(*ast.CondJump); ok {
		replacement = a.Cond
	}
	return target, replacement, nil
}
