package ast

import "fmt"

// Kind returns a short lowercase name of the node's variant, used in error
// messages and debug output.
func Kind(n Node) string {
	switch v := n.(type) {
	case nil:
		return "nil"
	case *Identifier:
		return "identifier"
	case *Constant:
		return "constant"
	case *Binary:
		switch v.Op {
		case OpAnd:
			return "and"
		case OpLe:
			return "less-than-or-equal"
		case OpEq:
			return "equal"
		}
		return "binary"
	case *Assign:
		return "assign"
	case *AddAssign:
		return "add-assign"
	case *Increment:
		return "increment"
	case *Invoke:
		return "invoke"
	case *ExprStmt:
		return "expression-statement"
	case *Declaration:
		return "declaration"
	case *Block:
		return "block"
	case *ForLoop:
		return "for-loop"
	case *If:
		return "if"
	case *Label:
		return "label"
	case *Jump:
		return "jump"
	case *CondJump:
		return "conditional-jump"
	case *Undeclaration:
		return "undeclaration"
	}
	return fmt.Sprintf("%T", n)
}

// isNil reports whether n is nil or a typed nil pointer.
func isNil(n Node) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *Identifier:
		return v == nil
	case *Constant:
		return v == nil
	case *Binary:
		return v == nil
	case *Assign:
		return v == nil
	case *AddAssign:
		return v == nil
	case *Increment:
		return v == nil
	case *Invoke:
		return v == nil
	case *ExprStmt:
		return v == nil
	case *Declaration:
		return v == nil
	case *Block:
		return v == nil
	case *ForLoop:
		return v == nil
	case *If:
		return v == nil
	case *Label:
		return v == nil
	case *Jump:
		return v == nil
	case *CondJump:
		return v == nil
	case *Undeclaration:
		return v == nil
	}
	return false
}

func IsIdentifier(n Node) bool {
	_, ok := n.(*Identifier)
	return ok
}

func IsConstant(n Node) bool {
	_, ok := n.(*Constant)
	return ok
}

func IsExpr(n Node) bool {
	_, ok := n.(Expr)
	return ok && !isNil(n)
}

func IsStmt(n Node) bool {
	_, ok := n.(Stmt)
	return ok && !isNil(n)
}

func IsBinary(n Node) bool {
	_, ok := n.(*Binary)
	return ok
}

func IsAnd(n Node) bool {
	b, ok := n.(*Binary)
	return ok && b.Op == OpAnd
}

func IsLessThanOrEqual(n Node) bool {
	b, ok := n.(*Binary)
	return ok && b.Op == OpLe
}

func IsEqual(n Node) bool {
	b, ok := n.(*Binary)
	return ok && b.Op == OpEq
}

func IsAssign(n Node) bool {
	_, ok := n.(*Assign)
	return ok
}

func IsAddAssign(n Node) bool {
	_, ok := n.(*AddAssign)
	return ok
}

func IsIncrement(n Node) bool {
	_, ok := n.(*Increment)
	return ok
}

func IsInvoke(n Node) bool {
	_, ok := n.(*Invoke)
	return ok
}

// IsInvokeOf reports whether n is a call of the function called name.
func IsInvokeOf(n Node, name string) bool {
	inv, ok := n.(*Invoke)
	return ok && inv.Ident != nil && inv.Ident.Name == name
}

func IsExprStmt(n Node) bool {
	_, ok := n.(*ExprStmt)
	return ok
}

func IsDeclaration(n Node) bool {
	_, ok := n.(*Declaration)
	return ok
}

func IsBlock(n Node) bool {
	_, ok := n.(*Block)
	return ok
}

func IsForLoop(n Node) bool {
	_, ok := n.(*ForLoop)
	return ok
}

func IsIf(n Node) bool {
	_, ok := n.(*If)
	return ok
}

func IsLabel(n Node) bool {
	_, ok := n.(*Label)
	return ok
}

func IsJump(n Node) bool {
	_, ok := n.(*Jump)
	return ok
}

func IsCondJump(n Node) bool {
	_, ok := n.(*CondJump)
	return ok
}

func IsUndeclaration(n Node) bool {
	_, ok := n.(*Undeclaration)
	return ok
}

// HasLeft reports whether WithLeft applies to n.
func HasLeft(n Node) bool { return IsBinary(n) }

// HasRight reports whether WithRight applies to n.
func HasRight(n Node) bool { return IsBinary(n) }

// HasValue reports whether WithValue applies to n.
func HasValue(n Node) bool {
	return IsAssign(n) || IsAddAssign(n) || IsExprStmt(n) || IsDeclaration(n)
}

// HasCondition reports whether WithCondition applies to n.
func HasCondition(n Node) bool {
	return IsForLoop(n) || IsIf(n) || IsCondJump(n)
}

// IsSourceStmt reports whether n is a statement that may appear in an
// unlowered program.
func IsSourceStmt(n Node) bool {
	switch n.(type) {
	case *ExprStmt, *Declaration, *Block, *ForLoop, *If:
		return !isNil(n)
	}
	return false
}

// Truthy applies C truthiness: an int is true when nonzero, a char* when not NULL.
func (c *Constant) Truthy() (bool, error) {
	switch c.Type {
	case IntType:
		return c.Int != 0, nil
	case StringType:
		return !c.Null, nil
	}
	return false, fmt.Errorf("truth value of %s constant: %w", c.Type, ErrInvalidConstant)
}

// Numeric returns the value used when a constant takes part in arithmetic or
// a comparison. A char* counts as 0 when NULL and 99 otherwise.
func (c *Constant) Numeric() (int64, error) {
	switch c.Type {
	case IntType:
		return c.Int, nil
	case StringType:
		if c.Null {
			return 0, nil
		}
		return 99, nil
	}
	return 0, fmt.Errorf("numeric value of %s constant: %w", c.Type, ErrInvalidConstant)
}
