// Package eval is a small-step interpreter for lowered programs. Every call to
// Step performs exactly one primitive reduction and returns a new State, so
// earlier states stay valid and can be kept for undo or inspection.
package eval

import (
	"fmt"

	"github.com/raymyers/ralph-step/pkg/ast"
)

// State is a snapshot of a running program.
//
// Program is the lowered IR and PC the index of the current statement in it.
// Active is the current statement rewritten by the reductions made so far;
// it starts out as Program[PC] and is replaced when PC moves. Output holds
// everything printed so far.
type State struct {
	Program []ast.Stmt
	PC      int
	Active  ast.Node
	Env     Env
	Output  string
}

// Init returns the state before the first step of program.
func Init(program []ast.Stmt) State {
	return State{Program: program}.moveTo(0)
}

// Done reports whether the program has terminated.
func (s State) Done() bool {
	return s.PC >= len(s.Program)
}

// Current returns the IR statement at PC, or nil once the program is done.
func (s State) Current() ast.Stmt {
	if s.Done() {
		return nil
	}
	return s.Program[s.PC]
}

// moveTo places PC on the first statement at or after i that is not a label.
func (s State) moveTo(i int) State {
	for i < len(s.Program) && ast.IsLabel(s.Program[i]) {
		i++
	}
	s.PC = i
	s.Active = nil
	if i < len(s.Program) {
		s.Active = s.Program[i]
	}
	return s
}

func (s State) jumpTo(target *ast.Label) (State, error) {
	for i, st := range s.Program {
		if st == ast.Stmt(target) {
			return s.moveTo(i), nil
		}
	}
	return State{}, fmt.Errorf("jump to %s: %w", target.Name, ErrMissingLabel)
}

// Step performs one reduction of s.
func Step(s State) (State, error) {
	if s.Done() {
		return State{}, ErrTerminated
	}

	switch a := s.Active.(type) {
	case *ast.ExprStmt:
		if a.Value == nil || isConst(a.Value) {
			return s.moveTo(s.PC + 1), nil
		}
		return s.reduceIn(a, a.Value, ast.WithValue)

	case *ast.Declaration:
		if a.Value != nil && !isConst(a.Value) {
			return s.reduceIn(a, a.Value, ast.WithValue)
		}
		if s.Env.Has(a.Ident.Name) {
			return State{}, fmt.Errorf("declaring %s: %w", a.Ident.Name, ErrAlreadyDeclared)
		}
		v := zeroValue(a.Type)
		if a.Value != nil {
			v = a.Value.(*ast.Constant)
			if err := storable(v, a.Ident.Name); err != nil {
				return State{}, err
			}
		}
		s.Env = s.Env.Bind(a.Ident.Name, v)
		return s.moveTo(s.PC + 1), nil

	case *ast.Undeclaration:
		env, ok := s.Env.Unbind(a.Ident.Name)
		if !ok {
			return State{}, fmt.Errorf("leaving scope of %s: %w", a.Ident.Name, ErrUndeclaredIdentifier)
		}
		s.Env = env
		return s.moveTo(s.PC + 1), nil

	case *ast.Jump:
		return s.jumpTo(a.Target)

	case *ast.CondJump:
		if !isConst(a.Cond) {
			return s.reduceIn(a, a.Cond, ast.WithCondition)
		}
		t, err := a.Cond.(*ast.Constant).Truthy()
		if err != nil {
			return State{}, err
		}
		if t {
			return s.jumpTo(a.True)
		}
		return s.jumpTo(a.False)
	}
	return State{}, fmt.Errorf("stepping %s: %w", ast.Kind(s.Active), ast.ErrUnsupportedNode)
}

// reduceIn reduces sub, an operand of the active statement, and stores the
// rewritten statement.
func (s State) reduceIn(stmt ast.Node, sub ast.Expr, rewrap func(n, sub ast.Node) (ast.Node, error)) (State, error) {
	r, err := Reduce(sub, s.Env)
	if err != nil {
		return State{}, err
	}
	active, err := rewrap(stmt, r.Node)
	if err != nil {
		return State{}, err
	}
	s.Active = active
	s.Env = r.Env
	s.Output += r.Output
	return s, nil
}

// zeroValue is the value of a variable declared without an initializer.
func zeroValue(t ast.Datatype) *ast.Constant {
	if t == ast.StringType {
		return ast.NullStr()
	}
	return ast.IntConst(0)
}

// Run steps s until the program terminates. A positive limit bounds the
// number of steps; Run then fails with ErrStepLimit if the program is still
// running. The returned count is the number of steps taken.
func Run(s State, limit int) (State, int, error) {
	steps := 0
	for !s.Done() {
		if limit > 0 && steps >= limit {
			return s, steps, fmt.Errorf("after %d steps: %w", steps, ErrStepLimit)
		}
		next, err := Step(s)
		if err != nil {
			return s, steps, err
		}
		s = next
		steps++
	}
	return s, steps, nil
}
