package ast

import "fmt"

// fields returns the child slots of n in declaration order. Optional slots
// that are empty hold nil, so positions are fixed per variant. Labels held by
// jumps and the original statement of a CondJump are references, not
// children.
func fields(n Node) []Node {
	switch v := n.(type) {
	case *Identifier, *Constant, *Label, *Jump:
		return nil
	case *Binary:
		return []Node{v.Left, v.Right}
	case *Assign:
		return []Node{v.Ident, v.Value}
	case *AddAssign:
		return []Node{v.Ident, v.Value}
	case *Increment:
		return []Node{v.Ident}
	case *Invoke:
		return append([]Node{v.Ident}, exprNodes(v.Args)...)
	case *ExprStmt:
		return []Node{v.Value}
	case *Declaration:
		return []Node{v.Ident, v.Value}
	case *Block:
		return stmtNodes(v.Stmts)
	case *ForLoop:
		return []Node{v.Init, v.Cond, v.Update, v.Body}
	case *If:
		return []Node{v.Cond, v.Body}
	case *CondJump:
		return []Node{v.Cond}
	case *Undeclaration:
		return []Node{v.Ident}
	}
	panic(fmt.Sprintf("unhandled node: %T", n))
}

// rebuild constructs a node of the same variant as n from new child slots.
func rebuild(n Node, f []Node) (Node, error) {
	switch v := n.(type) {
	case *Binary:
		return node(NewBinary(v.Op, f[0], f[1]))
	case *Assign:
		return node(NewAssign(f[0], f[1]))
	case *AddAssign:
		return node(NewAddAssign(f[0], f[1]))
	case *Increment:
		return node(NewIncrement(f[0]))
	case *Invoke:
		return node(NewInvoke(f[0], f[1:]...))
	case *ExprStmt:
		return node(NewExprStmt(f[0]))
	case *Declaration:
		return node(NewDeclaration(v.Type, f[0], f[1]))
	case *Block:
		return node(NewBlock(f...))
	case *ForLoop:
		return node(NewForLoop(f[0], f[1], f[2], f[3]))
	case *If:
		return node(NewIf(f[0], f[1]))
	case *CondJump:
		return node(NewCondJump(f[0], v.True, v.False, v.Original))
	case *Undeclaration:
		return node(NewUndeclaration(f[0]))
	}
	return nil, unsupported("rebuild", n)
}

// Children returns the direct children of n in declaration order.
func Children(n Node) []Node {
	if isNil(n) {
		return nil
	}
	var out []Node
	for _, c := range fields(n) {
		if !isNil(c) {
			out = append(out, c)
		}
	}
	return out
}

// Flatten returns n and all of its descendants in pre-order: the node itself
// first, then each child subtree in declaration order.
func Flatten(n Node) []Node {
	if isNil(n) {
		return nil
	}
	out := []Node{n}
	for _, c := range Children(n) {
		out = append(out, Flatten(c)...)
	}
	return out
}

// Substitute returns root with the first occurrence of target, matched by
// identity, replaced by replacement. Every ancestor on the path to target is
// rebuilt; subtrees that do not contain target are shared with root. When
// target does not occur, root itself is returned.
func Substitute(root, target, replacement Node) (Node, error) {
	s := &substituter{target: target, replacement: replacement}
	return s.visit(root)
}

// Contains reports whether target occurs in the tree rooted at n.
func Contains(n, target Node) bool {
	for _, d := range Flatten(n) {
		if d == target {
			return true
		}
	}
	return false
}

type substituter struct {
	target      Node
	replacement Node
	done        bool
}

func (s *substituter) visit(n Node) (Node, error) {
	if s.done || isNil(n) {
		return n, nil
	}
	if n == s.target {
		s.done = true
		return s.replacement, nil
	}
	old := fields(n)
	if len(old) == 0 {
		return n, nil
	}
	updated := make([]Node, len(old))
	changed := false
	for i, c := range old {
		nc, err := s.visit(c)
		if err != nil {
			return nil, err
		}
		updated[i] = nc
		changed = changed || nc != c
	}
	if !changed {
		return n, nil
	}
	return rebuild(n, updated)
}
