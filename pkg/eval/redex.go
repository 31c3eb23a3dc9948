package eval

import "github.com/raymyers/ralph-step/pkg/ast"

// Redex returns the subterm of n that the next step rewrites. It follows the
// same descent as Step and Reduce, so for a statement that is ready to
// advance, and for jumps, it is n itself.
func Redex(n ast.Node) ast.Node {
	switch v := n.(type) {
	case *ast.ExprStmt:
		if v.Value != nil && !isConst(v.Value) {
			return Redex(v.Value)
		}
	case *ast.Declaration:
		if v.Value != nil && !isConst(v.Value) {
			return Redex(v.Value)
		}
	case *ast.CondJump:
		if !isConst(v.Cond) {
			return Redex(v.Cond)
		}
	case *ast.Binary:
		if !isConst(v.Left) {
			return Redex(v.Left)
		}
		if v.Op == ast.OpAnd {
			if t, err := v.Left.(*ast.Constant).Truthy(); err == nil && !t {
				return n
			}
		}
		if !isConst(v.Right) {
			return Redex(v.Right)
		}
	case *ast.Assign:
		if !isConst(v.Value) {
			return Redex(v.Value)
		}
	case *ast.AddAssign:
		if !isConst(v.Value) {
			return Redex(v.Value)
		}
	case *ast.Invoke:
		for _, arg := range v.Args {
			if !isConst(arg) {
				return Redex(arg)
			}
		}
	}
	return n
}
