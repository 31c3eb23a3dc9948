package eval

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/raymyers/ralph-step/pkg/ast"
)

// Reduction is the outcome of one reduction of an expression: the rewritten
// expression, the environment after any assignment, and the text printed by
// the step.
type Reduction struct {
	Node   ast.Expr
	Env    Env
	Output string
}

func isConst(n ast.Node) bool {
	c, ok := n.(*ast.Constant)
	return ok && c != nil
}

// Reduce performs exactly one reduction inside e, choosing the innermost,
// leftmost subterm that is not yet a constant.
func Reduce(e ast.Expr, env Env) (Reduction, error) {
	switch v := e.(type) {
	case *ast.Identifier:
		c, ok := env.Lookup(v.Name)
		if !ok {
			return Reduction{}, fmt.Errorf("reading %s: %w", v.Name, ErrUndeclaredIdentifier)
		}
		return Reduction{Node: c, Env: env}, nil
	case *ast.Binary:
		return reduceBinary(v, env)
	case *ast.Assign:
		return reduceAssign(v, env)
	case *ast.AddAssign:
		return reduceAddAssign(v, env)
	case *ast.Increment:
		return reduceIncrement(v, env)
	case *ast.Invoke:
		return reduceInvoke(v, env)
	}
	return Reduction{}, fmt.Errorf("reducing %s: %w", ast.Kind(e), ast.ErrUnsupportedNode)
}

// inner reduces the operand sub and puts the result back into parent with
// rewrap.
func inner(parent ast.Node, sub ast.Expr, env Env, rewrap func(n, sub ast.Node) (ast.Node, error)) (Reduction, error) {
	r, err := Reduce(sub, env)
	if err != nil {
		return Reduction{}, err
	}
	n, err := rewrap(parent, r.Node)
	if err != nil {
		return Reduction{}, err
	}
	r.Node = n.(ast.Expr)
	return r, nil
}

func reduceBinary(b *ast.Binary, env Env) (Reduction, error) {
	if !isConst(b.Left) {
		return inner(b, b.Left, env, ast.WithLeft)
	}
	left := b.Left.(*ast.Constant)
	if b.Op == ast.OpAnd {
		t, err := left.Truthy()
		if err != nil {
			return Reduction{}, err
		}
		if !t {
			return Reduction{Node: ast.BoolConst(false), Env: env}, nil
		}
	}
	if !isConst(b.Right) {
		return inner(b, b.Right, env, ast.WithRight)
	}
	right := b.Right.(*ast.Constant)

	var result bool
	switch b.Op {
	case ast.OpAnd:
		t, err := right.Truthy()
		if err != nil {
			return Reduction{}, err
		}
		result = t
	case ast.OpLe, ast.OpEq:
		l, err := left.Numeric()
		if err != nil {
			return Reduction{}, err
		}
		r, err := right.Numeric()
		if err != nil {
			return Reduction{}, err
		}
		if b.Op == ast.OpLe {
			result = l <= r
		} else {
			result = l == r
		}
	default:
		panic(fmt.Sprintf("unhandled binary operator: %d", b.Op))
	}
	return Reduction{Node: ast.BoolConst(result), Env: env}, nil
}

// bound fetches the current value of an assignment target
func bound(id *ast.Identifier, env Env, what string) (*ast.Constant, error) {
	c, ok := env.Lookup(id.Name)
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", what, id.Name, ErrUndeclaredIdentifier)
	}
	return c, nil
}

func storable(c *ast.Constant, name string) error {
	if c.Type == ast.VoidType {
		return fmt.Errorf("storing a void value in %s: %w", name, ErrInvalidConstant)
	}
	return nil
}

func reduceAssign(a *ast.Assign, env Env) (Reduction, error) {
	if _, err := bound(a.Ident, env, "assigning"); err != nil {
		return Reduction{}, err
	}
	if !isConst(a.Value) {
		return inner(a, a.Value, env, ast.WithValue)
	}
	v := a.Value.(*ast.Constant)
	if err := storable(v, a.Ident.Name); err != nil {
		return Reduction{}, err
	}
	return Reduction{Node: v, Env: env.Bind(a.Ident.Name, v)}, nil
}

func reduceAddAssign(a *ast.AddAssign, env Env) (Reduction, error) {
	cur, err := bound(a.Ident, env, "adding to")
	if err != nil {
		return Reduction{}, err
	}
	if !isConst(a.Value) {
		return inner(a, a.Value, env, ast.WithValue)
	}
	base, err := cur.Numeric()
	if err != nil {
		return Reduction{}, err
	}
	delta, err := a.Value.(*ast.Constant).Numeric()
	if err != nil {
		return Reduction{}, err
	}
	sum := ast.IntConst(base + delta)
	return Reduction{Node: sum, Env: env.Bind(a.Ident.Name, sum)}, nil
}

// reduceIncrement yields the value before the increment.
func reduceIncrement(inc *ast.Increment, env Env) (Reduction, error) {
	cur, err := bound(inc.Ident, env, "incrementing")
	if err != nil {
		return Reduction{}, err
	}
	n, err := cur.Numeric()
	if err != nil {
		return Reduction{}, err
	}
	return Reduction{
		Node: ast.IntConst(n),
		Env:  env.Bind(inc.Ident.Name, ast.IntConst(n+1)),
	}, nil
}

func reduceInvoke(inv *ast.Invoke, env Env) (Reduction, error) {
	for i, arg := range inv.Args {
		if !isConst(arg) {
			return inner(inv, arg, env, func(n, sub ast.Node) (ast.Node, error) {
				return ast.WithArgument(n, sub, i)
			})
		}
	}
	if inv.Ident.Name != "printf" {
		return Reduction{}, fmt.Errorf("calling %s: %w", inv.Ident.Name, ErrUnsupportedFunction)
	}
	text, err := printf(inv.Args)
	if err != nil {
		return Reduction{}, err
	}
	return Reduction{Node: ast.VoidConst(), Env: env, Output: text}, nil
}

// printf formats its constant arguments. Only the first %d of the template is
// replaced, by the second argument; further arguments are ignored.
func printf(args []ast.Expr) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("printf without a format: %w", ErrInvalidConstant)
	}
	format := args[0].(*ast.Constant)
	if format.Type != ast.StringType || format.Null {
		return "", fmt.Errorf("printf format is %s %s: %w", format.Type, ast.ConstantText(format), ErrInvalidConstant)
	}
	if len(args) == 1 {
		return format.Str, nil
	}

	var value string
	switch arg := args[1].(*ast.Constant); arg.Type {
	case ast.IntType:
		value = strconv.FormatInt(arg.Int, 10)
	case ast.StringType:
		value = arg.Str
		if arg.Null {
			value = "(null)"
		}
	default:
		return "", fmt.Errorf("printf argument is %s: %w", arg.Type, ErrInvalidConstant)
	}
	return strings.Replace(format.Str, "%d", value, 1), nil
}
