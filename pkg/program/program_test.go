package program

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/raymyers/ralph-step/pkg/ast"
	"github.com/raymyers/ralph-step/pkg/render"
)

const countSource = `
name: count
description: sums 1..3
program:
  - declare: {type: int, name: n, value: {int: 0}}
  - for:
      init: {declare: {type: int, name: i, value: {int: 1}}}
      cond: {expr: {le: [{ident: i}, {int: 3}]}}
      update: {expr: {inc: i}}
      body: {block: [{expr: {add_assign: {name: n, value: {ident: i}}}}]}
  - if:
      cond: {and: [{eq: [{ident: n}, {int: 6}]}, {string: "ok"}]}
      body: {expr: {call: {name: printf, args: [{string: "%d\n"}, {ident: n}]}}}
  - declare: {type: "char*", name: s}
  - expr: {assign: {name: s, value: {nullstr: true}}}
  - nop: true
`

func TestParse(t *testing.T) {
	p, err := Parse([]byte(countSource))
	require.NoError(t, err)
	require.Equal(t, "count", p.Name)
	require.Equal(t, "sums 1..3", p.Description)
	require.Len(t, p.Stmts, 6)

	want := "int n = 0;\n" +
		"for (int i = 1; i <= 3; i++) {\n" +
		"  n += i;\n" +
		"}\n" +
		"if (n == 6 && \"ok\")\n" +
		"  printf(\"%d\\n\", n);\n" +
		"char* s;\n" +
		"s = NULL;\n" +
		";\n"
	require.Equal(t, want, render.Join(render.Render(p.Stmts)))
}

func TestParseGivesEachOccurrenceItsOwnIdentifier(t *testing.T) {
	p, err := Parse([]byte(`
program:
  - expr: {eq: [{ident: x}, {ident: x}]}
`))
	require.NoError(t, err)
	eq := p.Stmts[0].(*ast.ExprStmt).Value.(*ast.Binary)
	require.NotSame(t, eq.Left, eq.Right)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   error
		line   int
	}{
		{"not yaml", "program: [", ErrSyntax, 0},
		{"no program", "name: x", ErrSyntax, 0},
		{"unknown kind", "program:\n  - loop: {}", ErrSyntax, 2},
		{"two keys", "program:\n  - {nop: true, expr: {int: 1}}", ErrSyntax, 2},
		{"missing field", "program:\n  - if: {cond: {int: 1}}", ErrSyntax, 2},
		{"bad type", "program:\n  - declare: {type: float, name: f}", ErrSyntax, 2},
		{"bad int", "program:\n  - expr: {int: abc}", ErrSyntax, 2},
		{"expression at top level", "program:\n  - int: 1", ast.ErrInvalidOperand, 2},
		{"statement as operand", "program:\n  - expr:\n      le:\n        - int: 1\n        - nop: true", ast.ErrInvalidOperand, 3},
		{"expression as body", "program:\n  - if: {cond: {int: 1}, body: {int: 2}}", ast.ErrInvalidOperand, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.source))
			require.Error(t, err)
			require.True(t, errors.Is(err, tt.want), "got %v", err)
			if tt.line > 0 {
				var le *LineError
				require.True(t, errors.As(err, &le), "no line in %v", err)
				require.Equal(t, tt.line, le.Line)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.yaml")
	require.NoError(t, os.WriteFile(path, []byte(countSource), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	require.Len(t, p.Stmts, 6)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestExamplesDecode(t *testing.T) {
	files, err := filepath.Glob("../../examples/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files)
	for _, f := range files {
		t.Run(filepath.Base(f), func(t *testing.T) {
			p, err := Load(f)
			require.NoError(t, err)
			require.NotEmpty(t, p.Stmts)
		})
	}
}
