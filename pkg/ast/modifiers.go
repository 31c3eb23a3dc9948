package ast

import "fmt"

// The With* reconstructors return a copy of n with one field replaced. The
// copy goes through the checked constructors, so a replacement of the wrong
// class fails with ErrInvalidOperand and a variant without the field fails
// with ErrUnsupportedNode. n itself is never modified.

func WithLeft(n, left Node) (Node, error) {
	b, ok := n.(*Binary)
	if !ok {
		return nil, unsupported("WithLeft", n)
	}
	return node(NewBinary(b.Op, left, b.Right))
}

func WithRight(n, right Node) (Node, error) {
	b, ok := n.(*Binary)
	if !ok {
		return nil, unsupported("WithRight", n)
	}
	return node(NewBinary(b.Op, b.Left, right))
}

// WithValue replaces the assigned value, the statement value or the
// initializer.
func WithValue(n, value Node) (Node, error) {
	switch v := n.(type) {
	case *Assign:
		return node(NewAssign(v.Ident, value))
	case *AddAssign:
		return node(NewAddAssign(v.Ident, value))
	case *ExprStmt:
		return node(NewExprStmt(value))
	case *Declaration:
		return node(NewDeclaration(v.Type, v.Ident, value))
	}
	return nil, unsupported("WithValue", n)
}

// WithCondition replaces the condition of an if, a conditional jump or a for
// loop. For a loop the condition is a statement.
func WithCondition(n, cond Node) (Node, error) {
	switch v := n.(type) {
	case *If:
		return node(NewIf(cond, v.Body))
	case *CondJump:
		return node(NewCondJump(cond, v.True, v.False, v.Original))
	case *ForLoop:
		return node(NewForLoop(v.Init, cond, v.Update, v.Body))
	}
	return nil, unsupported("WithCondition", n)
}

// WithArgument replaces the call argument at pos.
func WithArgument(n, arg Node, pos int) (Node, error) {
	inv, ok := n.(*Invoke)
	if !ok {
		return nil, unsupported("WithArgument", n)
	}
	if pos < 0 || pos >= len(inv.Args) {
		return nil, fmt.Errorf("argument %d of %d: %w", pos, len(inv.Args), ErrInvalidOperand)
	}
	args := exprNodes(inv.Args)
	args[pos] = arg
	return node(NewInvoke(inv.Ident, args...))
}

func WithArguments(n Node, args ...Node) (Node, error) {
	inv, ok := n.(*Invoke)
	if !ok {
		return nil, unsupported("WithArguments", n)
	}
	return node(NewInvoke(inv.Ident, args...))
}

func WithIdentifier(n, ident Node) (Node, error) {
	switch v := n.(type) {
	case *Assign:
		return node(NewAssign(ident, v.Value))
	case *AddAssign:
		return node(NewAddAssign(ident, v.Value))
	case *Increment:
		return node(NewIncrement(ident))
	case *Invoke:
		return node(NewInvoke(ident, exprNodes(v.Args)...))
	case *Declaration:
		return node(NewDeclaration(v.Type, ident, v.Value))
	case *Undeclaration:
		return node(NewUndeclaration(ident))
	}
	return nil, unsupported("WithIdentifier", n)
}

func WithInitializer(n, init Node) (Node, error) {
	f, ok := n.(*ForLoop)
	if !ok {
		return nil, unsupported("WithInitializer", n)
	}
	return node(NewForLoop(init, f.Cond, f.Update, f.Body))
}

func WithUpdate(n, update Node) (Node, error) {
	f, ok := n.(*ForLoop)
	if !ok {
		return nil, unsupported("WithUpdate", n)
	}
	return node(NewForLoop(f.Init, f.Cond, update, f.Body))
}

func WithBody(n, body Node) (Node, error) {
	switch v := n.(type) {
	case *ForLoop:
		return node(NewForLoop(v.Init, v.Cond, v.Update, body))
	case *If:
		return node(NewIf(v.Cond, body))
	}
	return nil, unsupported("WithBody", n)
}

func WithStatements(n Node, stmts ...Node) (Node, error) {
	if _, ok := n.(*Block); !ok {
		return nil, unsupported("WithStatements", n)
	}
	return node(NewBlock(stmts...))
}

// node drops the typed nil a failed constructor returns.
func node[T Node](v T, err error) (Node, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}

func exprNodes(es []Expr) []Node {
	out := make([]Node, len(es))
	for i, e := range es {
		out[i] = e
	}
	return out
}

func stmtNodes(ss []Stmt) []Node {
	out := make([]Node, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
