// Package ast defines the node model shared by the lowering pass, the
// evaluator and the renderer: source-shaped statements and expressions of the
// stepper's C subset, plus the flat IR statements produced by lowering.
//
// Every variant is a pointer type. Two occurrences are the same node only if
// they are the same pointer; nodes are never mutated after construction.
package ast

// Node is the base interface for all nodes
type Node interface {
	implNode()
}

// Expr is the interface for all expression nodes
type Expr interface {
	Node
	implExpr()
}

// Stmt is the interface for all statement nodes, including IR statements
type Stmt interface {
	Node
	implStmt()
}

// Datatype is the type of a constant or declaration
type Datatype int

const (
	IntType Datatype = iota
	StringType
	VoidType
)

func (d Datatype) String() string {
	names := []string{"int", "char*", "void"}
	if int(d) < len(names) {
		return names[d]
	}
	return "?"
}

// ParseDatatype maps the source spelling of a type to a Datatype.
func ParseDatatype(s string) (Datatype, bool) {
	switch s {
	case "int":
		return IntType, true
	case "char*", "string":
		return StringType, true
	}
	return 0, false
}

// BinaryOp represents binary operators
type BinaryOp int

const (
	OpAnd BinaryOp = iota // &&
	OpLe                  // <=
	OpEq                  // ==
)

func (op BinaryOp) String() string {
	names := []string{"&&", "<=", "=="}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// Identifier represents a variable or function name
type Identifier struct {
	Name string
}

// Constant represents a literal value. Int holds the value of an int constant,
// Str the text of a char* constant; Null marks a char* constant holding NULL.
type Constant struct {
	Type Datatype
	Int  int64
	Str  string
	Null bool
}

// Binary represents a binary expression
type Binary struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

// Assign represents ident = value
type Assign struct {
	Ident *Identifier
	Value Expr
}

// AddAssign represents ident += value
type AddAssign struct {
	Ident *Identifier
	Value Expr
}

// Increment represents the postfix ident++
type Increment struct {
	Ident *Identifier
}

// Invoke represents a call of a named function
type Invoke struct {
	Ident *Identifier
	Args  []Expr
}

// ExprStmt represents an expression statement. Value is nil for the empty statement.
type ExprStmt struct {
	Value Expr
}

// Declaration represents `type ident [= value];`
type Declaration struct {
	Type  Datatype
	Ident *Identifier
	Value Expr // nil when there is no initializer
}

// Block represents a compound statement
type Block struct {
	Stmts []Stmt
}

// ForLoop represents for (init cond update) body. Cond and Update are
// expression statements; Init is usually a declaration.
type ForLoop struct {
	Init   Stmt
	Cond   Stmt
	Update Stmt
	Body   Stmt
}

// If represents if (cond) body. There is no else branch.
type If struct {
	Cond Expr
	Body Stmt
}

// --- IR statements ---

// Label marks a jump target in lowered code. Labels are not executable.
type Label struct {
	Name string
}

// Jump transfers control to Target
type Jump struct {
	Target *Label
}

// CondJump transfers control to True or False depending on Cond.
// Original is the source statement the jump was lowered from.
type CondJump struct {
	Cond     Expr
	True     *Label
	False    *Label
	Original Stmt
}

// Undeclaration removes Ident from the environment when control leaves its scope
type Undeclaration struct {
	Ident *Identifier
}

// Marker methods for interface implementation
func (*Identifier) implNode() {}
func (*Identifier) implExpr() {}

func (*Constant) implNode() {}
func (*Constant) implExpr() {}

func (*Binary) implNode() {}
func (*Binary) implExpr() {}

func (*Assign) implNode() {}
func (*Assign) implExpr() {}

func (*AddAssign) implNode() {}
func (*AddAssign) implExpr() {}

func (*Increment) implNode() {}
func (*Increment) implExpr() {}

func (*Invoke) implNode() {}
func (*Invoke) implExpr() {}

func (*ExprStmt) implNode() {}
func (*ExprStmt) implStmt() {}

func (*Declaration) implNode() {}
func (*Declaration) implStmt() {}

func (*Block) implNode() {}
func (*Block) implStmt() {}

func (*ForLoop) implNode() {}
func (*ForLoop) implStmt() {}

func (*If) implNode() {}
func (*If) implStmt() {}

func (*Label) implNode() {}
func (*Label) implStmt() {}

func (*Jump) implNode() {}
func (*Jump) implStmt() {}

func (*CondJump) implNode() {}
func (*CondJump) implStmt() {}

func (*Undeclaration) implNode() {}
func (*Undeclaration) implStmt() {}
