// Package lower transforms a source-shaped program (with nested blocks, if
// statements and for loops) into a flat sequence of IR statements addressed
// by labels and jumps. Scope exits are made explicit with undeclarations.
package lower

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/raymyers/ralph-step/pkg/ast"
)

// labelSeq numbers labels across all calls so a name is never handed out twice.
var labelSeq atomic.Uint64

func newLabel(prefix string) *ast.Label {
	return ast.NewLabel(prefix + strconv.FormatUint(labelSeq.Add(1), 10))
}

// Lower flattens program. Expression statements and declarations are kept as
// the same nodes, so the evaluator and the renderer can match them by
// identity against the source tree.
func Lower(program []ast.Stmt) ([]ast.Stmt, error) {
	l := &lowerer{}
	for _, s := range program {
		if err := l.stmt(s); err != nil {
			return nil, err
		}
	}
	return l.out, nil
}

// lowerer accumulates IR while walking the source tree
type lowerer struct {
	out []ast.Stmt
}

func (l *lowerer) emit(stmts ...ast.Stmt) {
	l.out = append(l.out, stmts...)
}

func (l *lowerer) stmt(s ast.Stmt) error {
	switch v := s.(type) {
	case *ast.ExprStmt:
		if v == nil {
			break
		}
		l.emit(v)
		return nil
	case *ast.Declaration:
		if v == nil {
			break
		}
		l.emit(v)
		return nil
	case *ast.Block:
		if v == nil {
			break
		}
		return l.block(v)
	case *ast.If:
		if v == nil {
			break
		}
		return l.ifStmt(v)
	case *ast.ForLoop:
		if v == nil {
			break
		}
		return l.forLoop(v)
	}
	return fmt.Errorf("lowering %s: %w", ast.Kind(s), ast.ErrUnsupportedNode)
}

// block lowers the statements of b, then drops every variable b declared
// directly, in declaration order.
func (l *lowerer) block(b *ast.Block) error {
	var undecls []ast.Stmt
	for _, s := range b.Stmts {
		if err := l.stmt(s); err != nil {
			return err
		}
		if d, ok := s.(*ast.Declaration); ok {
			u, err := ast.NewUndeclaration(d.Ident)
			if err != nil {
				return err
			}
			undecls = append(undecls, u)
		}
	}
	l.emit(undecls...)
	return nil
}

// ifStmt lowers
//
//	if (c) body
//
// to
//
//	if c goto T else goto F
//	T: body; goto E
//	F: goto E
//	E:
func (l *lowerer) ifStmt(s *ast.If) error {
	trueLbl, falseLbl, endLbl := newLabel("true"), newLabel("false"), newLabel("end")
	cj, err := ast.NewCondJump(s.Cond, trueLbl, falseLbl, s)
	if err != nil {
		return err
	}
	l.emit(cj, trueLbl)
	if err := l.stmt(s.Body); err != nil {
		return err
	}
	l.emit(&ast.Jump{Target: endLbl}, falseLbl, &ast.Jump{Target: endLbl}, endLbl)
	return nil
}

// forLoop lowers
//
//	for (init cond update) body
//
// to
//
//	init
//	B: if cond goto S else goto E
//	S: body; update; goto B
//	E: undeclare the variable init declared
func (l *lowerer) forLoop(f *ast.ForLoop) error {
	beginLbl, bodyLbl, endLbl := newLabel("begin"), newLabel("body"), newLabel("end")

	if err := l.stmt(f.Init); err != nil {
		return err
	}
	l.emit(beginLbl)

	cond, ok := f.Cond.(*ast.ExprStmt)
	if !ok {
		return fmt.Errorf("lowering for condition %s: %w", ast.Kind(f.Cond), ast.ErrUnsupportedNode)
	}
	if cond.Value != nil {
		cj, err := ast.NewCondJump(cond.Value, bodyLbl, endLbl, cond)
		if err != nil {
			return err
		}
		l.emit(cj)
	} else {
		l.emit(&ast.Jump{Target: bodyLbl})
	}

	l.emit(bodyLbl)
	if err := l.stmt(f.Body); err != nil {
		return err
	}
	if err := l.stmt(f.Update); err != nil {
		return err
	}
	l.emit(&ast.Jump{Target: beginLbl}, endLbl)

	if d, ok := f.Init.(*ast.Declaration); ok {
		u, err := ast.NewUndeclaration(d.Ident)
		if err != nil {
			return err
		}
		l.emit(u)
	}
	return nil
}
