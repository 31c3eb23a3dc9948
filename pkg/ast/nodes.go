package ast

import "fmt"

// Checked constructors. Operands are accepted as Node so that callers building
// trees from untyped input (the YAML decoder, the reconstructors below) get an
// ErrInvalidOperand instead of a type assertion panic.

func asExpr(field string, n Node) (Expr, error) {
	if !IsExpr(n) {
		return nil, invalid(field, "an expression", n)
	}
	return n.(Expr), nil
}

func asStmt(field string, n Node) (Stmt, error) {
	if !IsStmt(n) {
		return nil, invalid(field, "a statement", n)
	}
	return n.(Stmt), nil
}

func asIdent(field string, n Node) (*Identifier, error) {
	id, ok := n.(*Identifier)
	if !ok || id == nil {
		return nil, invalid(field, "an identifier", n)
	}
	return id, nil
}

func asLabel(field string, n Node) (*Label, error) {
	l, ok := n.(*Label)
	if !ok || l == nil {
		return nil, invalid(field, "a label", n)
	}
	return l, nil
}

func NewIdentifier(name string) (*Identifier, error) {
	if name == "" {
		return nil, invalid("identifier name", "a name", nil)
	}
	return &Identifier{Name: name}, nil
}

func NewBinary(op BinaryOp, left, right Node) (*Binary, error) {
	if op < OpAnd || op > OpEq {
		return nil, fmt.Errorf("unknown binary operator %d: %w", int(op), ErrInvalidOperand)
	}
	l, err := asExpr("left operand", left)
	if err != nil {
		return nil, err
	}
	r, err := asExpr("right operand", right)
	if err != nil {
		return nil, err
	}
	return &Binary{Op: op, Left: l, Right: r}, nil
}

func NewAssign(ident, value Node) (*Assign, error) {
	id, err := asIdent("assignment target", ident)
	if err != nil {
		return nil, err
	}
	v, err := asExpr("assigned value", value)
	if err != nil {
		return nil, err
	}
	return &Assign{Ident: id, Value: v}, nil
}

func NewAddAssign(ident, value Node) (*AddAssign, error) {
	id, err := asIdent("assignment target", ident)
	if err != nil {
		return nil, err
	}
	v, err := asExpr("added value", value)
	if err != nil {
		return nil, err
	}
	return &AddAssign{Ident: id, Value: v}, nil
}

func NewIncrement(ident Node) (*Increment, error) {
	id, err := asIdent("increment target", ident)
	if err != nil {
		return nil, err
	}
	return &Increment{Ident: id}, nil
}

func NewInvoke(ident Node, args ...Node) (*Invoke, error) {
	id, err := asIdent("callee", ident)
	if err != nil {
		return nil, err
	}
	exprs := make([]Expr, len(args))
	for i, a := range args {
		if exprs[i], err = asExpr("argument", a); err != nil {
			return nil, err
		}
	}
	return &Invoke{Ident: id, Args: exprs}, nil
}

// NewExprStmt wraps value in a statement. A nil value gives the empty statement.
func NewExprStmt(value Node) (*ExprStmt, error) {
	if isNil(value) {
		return &ExprStmt{}, nil
	}
	v, err := asExpr("statement value", value)
	if err != nil {
		return nil, err
	}
	return &ExprStmt{Value: v}, nil
}

// NewDeclaration builds `t ident [= value];`. A nil value means no initializer.
func NewDeclaration(t Datatype, ident, value Node) (*Declaration, error) {
	if t != IntType && t != StringType {
		return nil, fmt.Errorf("cannot declare a %s variable: %w", t, ErrInvalidOperand)
	}
	id, err := asIdent("declared name", ident)
	if err != nil {
		return nil, err
	}
	d := &Declaration{Type: t, Ident: id}
	if !isNil(value) {
		if d.Value, err = asExpr("initializer", value); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func NewBlock(stmts ...Node) (*Block, error) {
	out := make([]Stmt, len(stmts))
	for i, s := range stmts {
		var err error
		if out[i], err = asStmt("block statement", s); err != nil {
			return nil, err
		}
	}
	return &Block{Stmts: out}, nil
}

func NewForLoop(init, cond, update, body Node) (*ForLoop, error) {
	i, err := asStmt("for initializer", init)
	if err != nil {
		return nil, err
	}
	c, err := asStmt("for condition", cond)
	if err != nil {
		return nil, err
	}
	u, err := asStmt("for update", update)
	if err != nil {
		return nil, err
	}
	b, err := asStmt("for body", body)
	if err != nil {
		return nil, err
	}
	return &ForLoop{Init: i, Cond: c, Update: u, Body: b}, nil
}

func NewIf(cond, body Node) (*If, error) {
	c, err := asExpr("if condition", cond)
	if err != nil {
		return nil, err
	}
	b, err := asStmt("if body", body)
	if err != nil {
		return nil, err
	}
	return &If{Cond: c, Body: b}, nil
}

// NewLabel returns a fresh label. Labels are compared by identity, so two
// labels with the same name are still distinct targets.
func NewLabel(name string) *Label {
	return &Label{Name: name}
}

func NewJump(target Node) (*Jump, error) {
	l, err := asLabel("jump target", target)
	if err != nil {
		return nil, err
	}
	return &Jump{Target: l}, nil
}

func NewCondJump(cond, trueLabel, falseLabel, original Node) (*CondJump, error) {
	c, err := asExpr("jump condition", cond)
	if err != nil {
		return nil, err
	}
	t, err := asLabel("true target", trueLabel)
	if err != nil {
		return nil, err
	}
	f, err := asLabel("false target", falseLabel)
	if err != nil {
		return nil, err
	}
	o, err := asStmt("original statement", original)
	if err != nil {
		return nil, err
	}
	return &CondJump{Cond: c, True: t, False: f, Original: o}, nil
}

func NewUndeclaration(ident Node) (*Undeclaration, error) {
	id, err := asIdent("undeclared name", ident)
	if err != nil {
		return nil, err
	}
	return &Undeclaration{Ident: id}, nil
}

// Shorthands for building trees in code and tests. They panic on invalid
// operands, like regexp.MustCompile.

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func Ident(name string) *Identifier { return must(NewIdentifier(name)) }

func IntConst(v int64) *Constant { return &Constant{Type: IntType, Int: v} }

// BoolConst returns the int constant C uses for a truth value.
func BoolConst(b bool) *Constant {
	if b {
		return IntConst(1)
	}
	return IntConst(0)
}

func StrConst(s string) *Constant { return &Constant{Type: StringType, Str: s} }

func NullStr() *Constant { return &Constant{Type: StringType, Null: true} }

// VoidConst is the result of a call that returns no value.
func VoidConst() *Constant { return &Constant{Type: VoidType} }

func And(l, r Expr) *Binary { return must(NewBinary(OpAnd, l, r)) }
func Le(l, r Expr) *Binary  { return must(NewBinary(OpLe, l, r)) }
func Eq(l, r Expr) *Binary  { return must(NewBinary(OpEq, l, r)) }

func Set(id *Identifier, v Expr) *Assign       { return must(NewAssign(id, v)) }
func AddSet(id *Identifier, v Expr) *AddAssign { return must(NewAddAssign(id, v)) }
func Inc(id *Identifier) *Increment            { return must(NewIncrement(id)) }

func Call(name string, args ...Expr) *Invoke {
	nodes := make([]Node, len(args))
	for i, a := range args {
		nodes[i] = a
	}
	return must(NewInvoke(Ident(name), nodes...))
}

func Printf(args ...Expr) *Invoke { return Call("printf", args...) }

func Statement(e Expr) *ExprStmt { return must(NewExprStmt(e)) }

// Nop is the empty statement `;`.
func Nop() *ExprStmt { return &ExprStmt{} }

func Declare(t Datatype, id *Identifier, v Expr) *Declaration {
	var value Node
	if v != nil {
		value = v
	}
	return must(NewDeclaration(t, id, value))
}

func IntDecl(id *Identifier, v Expr) *Declaration { return Declare(IntType, id, v) }
func StrDecl(id *Identifier, v Expr) *Declaration { return Declare(StringType, id, v) }

func Seq(stmts ...Stmt) *Block {
	nodes := make([]Node, len(stmts))
	for i, s := range stmts {
		nodes[i] = s
	}
	return must(NewBlock(nodes...))
}

func For(init, cond, update, body Stmt) *ForLoop {
	return must(NewForLoop(init, cond, update, body))
}

func IfThen(cond Expr, body Stmt) *If { return must(NewIf(cond, body)) }
