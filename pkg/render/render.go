// Package render prints source-shaped trees back to C text as fragments that
// remember the node they came from, tags the fragments for syntax
// highlighting, and maps a node back to the span of text that renders it.
package render

import (
	"strings"

	"github.com/raymyers/ralph-step/pkg/ast"
)

// Fragment is a piece of rendered text and the node that produced it. Node
// is nil for the line breaks between top-level statements.
type Fragment struct {
	Text string
	Node ast.Node
}

// Render prints a program, one top-level statement per line.
func Render(tree []ast.Stmt) []Fragment {
	var out []Fragment
	for _, s := range tree {
		out = append(out, RenderNode(s)...)
		out = append(out, Fragment{Text: "\n"})
	}
	return out
}

// RenderNode prints a single node at the outermost indentation level.
func RenderNode(n ast.Node) []Fragment {
	r := &renderer{}
	r.node(n, 0)
	return r.out
}

// Source returns the C text of n.
func Source(n ast.Node) string {
	return Join(RenderNode(n))
}

// Join concatenates fragment text.
func Join(frags []Fragment) string {
	var sb strings.Builder
	for _, f := range frags {
		sb.WriteString(f.Text)
	}
	return sb.String()
}

func indentation(depth int) string {
	return strings.Repeat("  ", depth)
}

type renderer struct {
	out []Fragment
}

func (r *renderer) emit(text string, n ast.Node) {
	r.out = append(r.out, Fragment{Text: text, Node: n})
}

func (r *renderer) node(n ast.Node, depth int) {
	switch v := n.(type) {
	case *ast.Identifier:
		r.emit(v.Name, v)
	case *ast.Constant:
		// void has no spelling; the statement holding it renders as `;`
		if v.Type != ast.VoidType {
			r.emit(ast.ConstantText(v), v)
		}
	case *ast.Binary:
		r.node(v.Left, depth)
		r.emit(" "+v.Op.String()+" ", v)
		r.node(v.Right, depth)
	case *ast.Assign:
		r.node(v.Ident, depth)
		r.emit(" = ", v)
		r.node(v.Value, depth)
	case *ast.AddAssign:
		r.node(v.Ident, depth)
		r.emit(" += ", v)
		r.node(v.Value, depth)
	case *ast.Increment:
		r.node(v.Ident, depth)
		r.emit("++", v)
	case *ast.Invoke:
		r.invoke(v, depth)
	case *ast.ExprStmt:
		if v.Value != nil {
			r.node(v.Value, depth)
		}
		r.emit(";", v)
	case *ast.Declaration:
		r.emit(v.Type.String()+" ", v)
		r.node(v.Ident, depth)
		if v.Value != nil {
			r.emit(" = ", v)
			r.node(v.Value, depth)
		}
		r.emit(";", v)
	case *ast.Block:
		r.block(v, depth+1)
	case *ast.If:
		r.emit("if (", v)
		r.node(v.Cond, depth)
		r.body(v, v.Body, depth)
	case *ast.ForLoop:
		r.forLoop(v, depth)
	case *ast.Label:
		r.emit(v.Name+":", v)
	case *ast.Jump:
		r.emit("goto "+v.Target.Name+";", v)
	case *ast.CondJump:
		r.emit("if (", v)
		r.node(v.Cond, depth)
		r.emit(") goto "+v.True.Name+"; else goto "+v.False.Name+";", v)
	case *ast.Undeclaration:
		r.emit("undeclare ", v)
		r.node(v.Ident, depth)
		r.emit(";", v)
	}
}

func (r *renderer) invoke(inv *ast.Invoke, depth int) {
	r.node(inv.Ident, depth)
	if len(inv.Args) == 0 {
		r.emit("()", inv)
		return
	}
	r.emit("(", inv)
	for i, a := range inv.Args {
		if i > 0 {
			r.emit(", ", inv)
		}
		r.node(a, depth)
	}
	r.emit(")", inv)
}

// block renders the statements of b at depth, closing brace one level out.
func (r *renderer) block(b *ast.Block, depth int) {
	if len(b.Stmts) == 0 {
		r.emit("{}", b)
		return
	}
	r.emit("{\n", b)
	for i, s := range b.Stmts {
		sep := indentation(depth)
		if i > 0 {
			sep = "\n" + sep
		}
		r.emit(sep, b)
		r.node(s, depth)
	}
	r.emit("\n"+indentation(depth-1)+"}", b)
}

// body closes the header of an if or for statement owner and renders its
// body: a block stays on the header line, anything else goes on its own line
// one level deeper.
func (r *renderer) body(owner ast.Node, body ast.Stmt, depth int) {
	if ast.IsBlock(body) {
		r.emit(") ", owner)
		r.node(body, depth)
		return
	}
	r.emit(")\n"+indentation(depth+1), owner)
	r.node(body, depth+1)
}

// forLoop renders `for (init cond update) body`. The initializer and the
// condition bring their own semicolons; the one closing the update is dropped.
func (r *renderer) forLoop(f *ast.ForLoop, depth int) {
	r.emit("for (", f)
	r.node(f.Init, depth)
	r.emit(" ", f)
	r.node(f.Cond, depth)
	r.emit(" ", f)

	update := &renderer{}
	update.node(f.Update, depth)
	if n := len(update.out); n > 0 && update.out[n-1].Text == ";" {
		update.out = update.out[:n-1]
	}
	r.out = append(r.out, update.out...)

	r.body(f, f.Body, depth)
}
