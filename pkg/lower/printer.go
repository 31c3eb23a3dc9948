package lower

import (
	"fmt"
	"io"

	"github.com/raymyers/ralph-step/pkg/ast"
	"github.com/raymyers/ralph-step/pkg/render"
)

// Printer outputs lowered IR as a listing
type Printer struct {
	w io.Writer
}

// NewPrinter creates a new IR printer
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// PrintProgram prints every IR statement on its own line, labels flush left
func (p *Printer) PrintProgram(prog []ast.Stmt) {
	for _, s := range prog {
		p.printStmt(s)
	}
}

func (p *Printer) printStmt(s ast.Stmt) {
	switch v := s.(type) {
	case *ast.Label:
		fmt.Fprintf(p.w, "%s:\n", v.Name)
	case *ast.Jump:
		fmt.Fprintf(p.w, "  goto %s\n", v.Target.Name)
	case *ast.CondJump:
		fmt.Fprintf(p.w, "  if (%s) goto %s else goto %s\n",
			render.Source(v.Cond), v.True.Name, v.False.Name)
	case *ast.Undeclaration:
		fmt.Fprintf(p.w, "  undeclare %s\n", v.Ident.Name)
	case *ast.ExprStmt, *ast.Declaration:
		fmt.Fprintf(p.w, "  %s\n", render.Source(v))
	default:
		panic(fmt.Sprintf("unhandled IR statement: %T", s))
	}
}
