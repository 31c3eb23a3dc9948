package lower

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/raymyers/ralph-step/pkg/ast"
)

func kinds(prog []ast.Stmt) []string {
	out := make([]string, len(prog))
	for i, s := range prog {
		out[i] = ast.Kind(s)
	}
	return out
}

func checkKinds(t *testing.T, prog []ast.Stmt, want ...string) {
	t.Helper()
	got := kinds(prog)
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("lowered kinds:\n got %v\nwant %v", got, want)
	}
}

func TestLowerSimpleStatementsUnchanged(t *testing.T) {
	decl := ast.IntDecl(ast.Ident("n"), ast.IntConst(5))
	stmt := ast.Statement(ast.Inc(ast.Ident("n")))

	out, err := Lower([]ast.Stmt{decl, stmt})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0] != ast.Stmt(decl) || out[1] != ast.Stmt(stmt) {
		t.Errorf("expected the same two nodes back, got %v", kinds(out))
	}
}

func TestLowerBlockUndeclaresInOrder(t *testing.T) {
	a, b := ast.Ident("a"), ast.Ident("b")
	block := ast.Seq(
		ast.IntDecl(a, ast.IntConst(1)),
		ast.Statement(ast.Inc(a)),
		ast.IntDecl(b, nil),
		ast.Seq(ast.IntDecl(ast.Ident("inner"), nil)),
	)

	out, err := Lower([]ast.Stmt{block})
	if err != nil {
		t.Fatal(err)
	}
	checkKinds(t, out,
		"declaration", "expression-statement", "declaration",
		"declaration", "undeclaration",
		"undeclaration", "undeclaration")

	// the nested block's variable is dropped first, then the outer ones in order
	if got := out[4].(*ast.Undeclaration).Ident.Name; got != "inner" {
		t.Errorf("first undeclaration = %s, want inner", got)
	}
	if out[5].(*ast.Undeclaration).Ident != a || out[6].(*ast.Undeclaration).Ident != b {
		t.Errorf("outer undeclarations must name a then b")
	}
}

func TestLowerIf(t *testing.T) {
	body := ast.Statement(ast.Ident("a"))
	stmt := ast.IfThen(ast.BoolConst(true), body)

	out, err := Lower([]ast.Stmt{stmt})
	if err != nil {
		t.Fatal(err)
	}
	checkKinds(t, out,
		"conditional-jump", "label", "expression-statement", "jump",
		"label", "jump", "label")

	cj := out[0].(*ast.CondJump)
	if cj.Original != ast.Stmt(stmt) || cj.Cond != stmt.Cond {
		t.Errorf("conditional jump must keep the if statement and its condition")
	}
	if cj.True != out[1] || cj.False != out[4] {
		t.Errorf("conditional jump targets the wrong labels")
	}
	end := out[6].(*ast.Label)
	if out[3].(*ast.Jump).Target != end || out[5].(*ast.Jump).Target != end {
		t.Errorf("both branches must jump to the end label")
	}
	if out[2] != ast.Stmt(body) {
		t.Errorf("body was not kept by identity")
	}
}

func TestLowerForLoop(t *testing.T) {
	i := ast.Ident("i")
	init := ast.IntDecl(i, ast.IntConst(0))
	cond := ast.Statement(ast.Le(i, ast.IntConst(3)))
	update := ast.Statement(ast.Inc(i))
	body := ast.Statement(ast.Printf(ast.StrConst("%d"), i))

	out, err := Lower([]ast.Stmt{ast.For(init, cond, update, body)})
	if err != nil {
		t.Fatal(err)
	}
	checkKinds(t, out,
		"declaration", "label", "conditional-jump", "label",
		"expression-statement", "expression-statement", "jump", "label", "undeclaration")

	begin := out[1].(*ast.Label)
	cj := out[2].(*ast.CondJump)
	if cj.Original != ast.Stmt(cond) || cj.Cond != cond.Value {
		t.Errorf("conditional jump must test the condition statement's value")
	}
	if cj.True != out[3] || cj.False != out[7] {
		t.Errorf("conditional jump targets the wrong labels")
	}
	if out[4] != ast.Stmt(body) || out[5] != ast.Stmt(update) {
		t.Errorf("body then update expected")
	}
	if out[6].(*ast.Jump).Target != begin {
		t.Errorf("back edge must return to the condition check")
	}
	if out[8].(*ast.Undeclaration).Ident != i {
		t.Errorf("loop variable must be undeclared after the loop")
	}
}

func TestLowerForLoopWithoutCondition(t *testing.T) {
	loop := ast.For(ast.Statement(ast.Set(ast.Ident("i"), ast.IntConst(0))), ast.Nop(), ast.Nop(), ast.Nop())

	out, err := Lower([]ast.Stmt{loop})
	if err != nil {
		t.Fatal(err)
	}
	// no undeclaration: the initializer is not a declaration
	checkKinds(t, out,
		"expression-statement", "label", "jump", "label",
		"expression-statement", "expression-statement", "jump", "label")
	if out[2].(*ast.Jump).Target != out[3] {
		t.Errorf("missing condition must jump straight to the body")
	}
}

func TestLowerLabelsAreFresh(t *testing.T) {
	prog := []ast.Stmt{ast.IfThen(ast.IntConst(1), ast.Nop())}

	names := map[string]bool{}
	for run := 0; run < 2; run++ {
		out, err := Lower(prog)
		if err != nil {
			t.Fatal(err)
		}
		for _, s := range out {
			if l, ok := s.(*ast.Label); ok {
				if names[l.Name] {
					t.Errorf("label name %s reused", l.Name)
				}
				names[l.Name] = true
			}
		}
	}
	if len(names) != 6 {
		t.Errorf("got %d distinct labels, want 6", len(names))
	}
}

func TestLowerUnsupported(t *testing.T) {
	tests := []struct {
		name string
		prog []ast.Stmt
	}{
		{"label in source", []ast.Stmt{ast.NewLabel("l")}},
		{"nil statement", []ast.Stmt{nil}},
		{"undeclaration in block", []ast.Stmt{ast.Seq(&ast.Undeclaration{Ident: ast.Ident("x")})}},
		{"block as loop condition", []ast.Stmt{ast.For(ast.Nop(), ast.Seq(), ast.Nop(), ast.Nop())}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Lower(tt.prog)
			if !errors.Is(err, ast.ErrUnsupportedNode) {
				t.Errorf("got %v, want ErrUnsupportedNode", err)
			}
		})
	}
}

func TestPrinter(t *testing.T) {
	i := ast.Ident("i")
	loop := ast.For(
		ast.IntDecl(i, ast.IntConst(0)),
		ast.Statement(ast.Le(i, ast.IntConst(2))),
		ast.Statement(ast.Inc(i)),
		ast.Seq(ast.Statement(ast.Printf(ast.StrConst("%d\n"), i))),
	)
	out, err := Lower([]ast.Stmt{loop})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	NewPrinter(&buf).PrintProgram(out)
	listing := buf.String()

	begin := out[1].(*ast.Label).Name
	for _, want := range []string{
		"  int i = 0;\n",
		begin + ":\n",
		"  if (i <= 2) goto ",
		`  printf("%d\n", i);`,
		"  i++;\n",
		"  goto " + begin + "\n",
		"  undeclare i\n",
	} {
		if !strings.Contains(listing, want) {
			t.Errorf("listing missing %q:\n%s", want, listing)
		}
	}
}

func TestPrinterPanicsOnSourceStatement(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected a panic for an if statement in an IR listing")
		}
	}()
	NewPrinter(&bytes.Buffer{}).PrintProgram([]ast.Stmt{ast.IfThen(ast.IntConst(1), ast.Nop())})
}
