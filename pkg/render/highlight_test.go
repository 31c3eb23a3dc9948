package render

import (
	"strings"
	"testing"

	"github.com/raymyers/ralph-step/pkg/ast"
)

func rangeText(v View, r Range) string {
	return TextOf(v.Tokens[r.Start : r.End+1])
}

func TestHighlightStatement(t *testing.T) {
	decl := ast.IntDecl(ast.Ident("n"), ast.Eq(ast.IntConst(2), ast.IntConst(2)))
	tree := []ast.Stmt{ast.Statement(ast.Printf(ast.StrConst("a"))), decl}

	active, err := ast.WithValue(decl, ast.IntConst(1))
	if err != nil {
		t.Fatal(err)
	}
	v, err := Highlight(tree, decl, active)
	if err != nil {
		t.Fatal(err)
	}
	if !v.Highlighted {
		t.Fatal("expected a highlighted range")
	}
	if got := TextOf(v.Tokens); got != "printf(\"a\");\nint n = 1;\n" {
		t.Errorf("view text = %q", got)
	}
	if got := rangeText(v, v.Range); got != "int n = 1;" {
		t.Errorf("range text = %q", got)
	}
	if v.Focused {
		t.Errorf("no focus was requested")
	}
	if got := Join(Render(tree)); !strings.Contains(got, "2 == 2") {
		t.Errorf("Highlight modified the tree: %q", got)
	}
}

func TestHighlightConditionalJumpOfIf(t *testing.T) {
	ifs := ast.IfThen(ast.Le(ast.Ident("a"), ast.IntConst(3)), ast.Statement(ast.Printf(ast.StrConst("y"))))
	tree := []ast.Stmt{ast.IntDecl(ast.Ident("a"), ast.IntConst(1)), ifs}

	cj, err := ast.NewCondJump(ifs.Cond, ast.NewLabel("t"), ast.NewLabel("f"), ifs)
	if err != nil {
		t.Fatal(err)
	}
	left := ast.IntConst(1)
	active, err := ast.WithCondition(cj, ast.Le(left, ast.IntConst(3)))
	if err != nil {
		t.Fatal(err)
	}

	v, err := HighlightFocus(tree, cj, active, left)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(TextOf(v.Tokens), "if (1 <= 3)\n  printf(\"y\");") {
		t.Errorf("view text = %q", TextOf(v.Tokens))
	}
	if got := rangeText(v, v.Range); got != "1 <= 3" {
		t.Errorf("range text = %q, want the condition", got)
	}
	if !v.Focused || rangeText(v, v.Focus) != "1" {
		t.Errorf("focus = %v %q", v.Focused, rangeText(v, v.Focus))
	}
}

func TestHighlightConditionalJumpOfLoop(t *testing.T) {
	cond := ast.Statement(ast.Le(ast.Ident("i"), ast.IntConst(9)))
	loop := ast.For(ast.IntDecl(ast.Ident("i"), ast.IntConst(0)), cond, ast.Statement(ast.Inc(ast.Ident("i"))), ast.Nop())
	cj, err := ast.NewCondJump(cond.Value, ast.NewLabel("b"), ast.NewLabel("e"), cond)
	if err != nil {
		t.Fatal(err)
	}

	reduced := ast.IntConst(0)
	active, err := ast.WithCondition(cj, reduced)
	if err != nil {
		t.Fatal(err)
	}
	v, err := HighlightFocus([]ast.Stmt{loop}, cj, active, active)
	if err != nil {
		t.Fatal(err)
	}
	if got := TextOf(v.Tokens); !strings.HasPrefix(got, "for (int i = 0; 0; i++)") {
		t.Errorf("view text = %q", got)
	}
	if !v.Highlighted || rangeText(v, v.Range) != "0" || v.Range.Start < 5 {
		t.Errorf("range = %v %q", v.Range, rangeText(v, v.Range))
	}
	if !v.Focused || v.Focus != v.Range {
		t.Errorf("focus on the whole statement must equal the range, got %v", v.Focus)
	}
}

func TestHighlightWithoutSourceCounterpart(t *testing.T) {
	tree := sample()
	want := Join(Render(tree))

	tests := []struct {
		name      string
		statement ast.Stmt
	}{
		{"terminated", nil},
		{"jump", &ast.Jump{Target: ast.NewLabel("l")}},
		{"undeclaration", &ast.Undeclaration{Ident: ast.Ident("n")}},
		{"statement from another tree", ast.Nop()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Highlight(tree, tt.statement, tt.statement)
			if err != nil {
				t.Fatal(err)
			}
			if v.Highlighted {
				t.Errorf("unexpected highlight %v", v.Range)
			}
			if got := TextOf(v.Tokens); got != want {
				t.Errorf("view text = %q", got)
			}
		})
	}
}
