package session

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/raymyers/ralph-step/pkg/ast"
	"github.com/raymyers/ralph-step/pkg/eval"
	"github.com/raymyers/ralph-step/pkg/program"
	"github.com/raymyers/ralph-step/pkg/render"
)

// int n = 5;
// printf("%d", n);
func printProgram() []ast.Stmt {
	return []ast.Stmt{
		ast.IntDecl(ast.Ident("n"), ast.IntConst(5)),
		ast.Statement(ast.Printf(ast.StrConst("%d"), ast.Ident("n"))),
	}
}

func TestRun(t *testing.T) {
	s, err := New(printProgram())
	require.NoError(t, err)
	require.Equal(t, 0, s.Steps())

	n, err := s.Run(0)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.True(t, s.Done())
	require.Equal(t, "5", s.Output())
	require.Equal(t, "{n = 5}", s.Env().String())
}

func TestBack(t *testing.T) {
	s, err := New(printProgram())
	require.NoError(t, err)
	require.False(t, s.Back())

	_, err = s.Run(0)
	require.NoError(t, err)
	require.True(t, s.Back())
	require.True(t, s.Back())
	require.Equal(t, 2, s.Steps())
	require.False(t, s.Done())
	require.Equal(t, "", s.Output())

	require.NoError(t, s.Step())
	require.Equal(t, "5", s.Output())
}

func TestSeek(t *testing.T) {
	s, err := New(printProgram())
	require.NoError(t, err)

	require.NoError(t, s.Seek(3))
	require.Equal(t, 3, s.Steps())
	require.NoError(t, s.Seek(1))
	require.Equal(t, 1, s.Steps())

	err = s.Seek(10)
	require.True(t, errors.Is(err, eval.ErrTerminated), "got %v", err)
	require.Error(t, s.Seek(-1))
}

func TestRunLimit(t *testing.T) {
	loop := ast.For(ast.Nop(), ast.Nop(), ast.Nop(), ast.Nop())
	s, err := New([]ast.Stmt{loop})
	require.NoError(t, err)

	n, err := s.Run(25)
	require.True(t, errors.Is(err, eval.ErrStepLimit), "got %v", err)
	require.Equal(t, 25, n)
	require.Equal(t, 25, s.Steps())
}

func TestStepFailureKeepsState(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	s, err := New([]ast.Stmt{ast.Statement(ast.Inc(ast.Ident("x")))}, WithLogger(log))
	require.NoError(t, err)

	err = s.Step()
	require.True(t, errors.Is(err, eval.ErrUndeclaredIdentifier), "got %v", err)
	require.Equal(t, 0, s.Steps())
	require.Contains(t, buf.String(), `"level":"error"`)
	require.Contains(t, buf.String(), s.ID.String())
}

func TestStepLogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	s, err := New(printProgram(), WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))
	require.NoError(t, err)
	require.NoError(t, s.Step())
	require.Contains(t, buf.String(), `"step":1`)
	require.Contains(t, buf.String(), `"pc":1`)
}

func TestNewRejectsLoweredInput(t *testing.T) {
	_, err := New([]ast.Stmt{&ast.Jump{Target: ast.NewLabel("l")}})
	require.True(t, errors.Is(err, ast.ErrUnsupportedNode), "got %v", err)
}

func TestNewRejectsBadCacheSize(t *testing.T) {
	_, err := New(printProgram(), WithCacheSize(0))
	require.Error(t, err)
}

func TestView(t *testing.T) {
	s, err := New(printProgram(), WithCacheSize(2))
	require.NoError(t, err)
	require.NoError(t, s.Seek(1))

	v, err := s.View()
	require.NoError(t, err)
	require.True(t, v.Highlighted)
	require.Equal(t, `printf("%d", n);`, render.TextOf(v.Tokens[v.Range.Start:v.Range.End+1]))
	require.True(t, v.Focused)
	require.Equal(t, "n", render.TextOf(v.Tokens[v.Focus.Start:v.Focus.End+1]))

	again, err := s.View()
	require.NoError(t, err)
	require.Equal(t, v, again)

	require.NoError(t, s.Step())
	v, err = s.View()
	require.NoError(t, err)
	require.Equal(t, `printf("%d", 5);`, render.TextOf(v.Tokens[v.Range.Start:v.Range.End+1]))

	_, err = s.Run(0)
	require.NoError(t, err)
	v, err = s.View()
	require.NoError(t, err)
	require.False(t, v.Highlighted)
	require.Equal(t, "int n = 5;\nprintf(\"%d\", n);\n", render.TextOf(v.Tokens))
}

// loopUpdates returns the update statements of every for loop in tree. They
// are printed without their semicolon inside the loop header.
func loopUpdates(tree []ast.Stmt) map[ast.Node]bool {
	out := map[ast.Node]bool{}
	for _, s := range tree {
		for _, n := range ast.Flatten(s) {
			if loop, ok := n.(*ast.ForLoop); ok {
				out[loop.Update] = true
			}
		}
	}
	return out
}

// checkViewsWhileStepping runs tree to termination and checks the view of
// every state against the text of the statement being evaluated.
func checkViewsWhileStepping(t *testing.T, tree []ast.Stmt) {
	t.Helper()
	s, err := New(tree)
	require.NoError(t, err)
	updates := loopUpdates(tree)

	for {
		v, err := s.View()
		require.NoError(t, err)
		st := s.State()

		switch cur := st.Current().(type) {
		case nil, *ast.Jump, *ast.Undeclaration:
			require.False(t, v.Highlighted, "step %d: %s has no source text", s.Steps(), render.Source(cur))
		default:
			require.True(t, v.Highlighted, "step %d: %s not highlighted", s.Steps(), render.Source(st.Active))
			want := render.Source(st.Active)
			if cj, ok := st.Active.(*ast.CondJump); ok {
				want = render.Source(cj.Cond)
			} else if updates[cur] {
				want = strings.TrimSuffix(want, ";")
			}
			got := render.TextOf(v.Tokens[v.Range.Start : v.Range.End+1])
			require.Equal(t, want, got, "step %d", s.Steps())

			require.True(t, v.Focused, "step %d", s.Steps())
			require.True(t, v.Focus.Start >= v.Range.Start && v.Focus.End <= v.Range.End,
				"step %d: focus %v outside %v", s.Steps(), v.Focus, v.Range)
			if redex := eval.Redex(st.Active); ast.IsExpr(redex) {
				focus := render.TextOf(v.Tokens[v.Focus.Start : v.Focus.End+1])
				require.Equal(t, render.Source(redex), focus, "step %d", s.Steps())
			}
		}

		if s.Done() {
			return
		}
		require.NoError(t, s.Step())
	}
}

func TestViewsFollowEvaluation(t *testing.T) {
	id := ast.Ident
	tests := []struct {
		name string
		tree []ast.Stmt
	}{
		{"loop condition after reading the counter", []ast.Stmt{
			ast.For(
				ast.IntDecl(id("i"), ast.IntConst(0)),
				ast.Statement(ast.Le(id("i"), ast.IntConst(2))),
				ast.Statement(ast.Inc(id("i"))),
				ast.Seq(ast.Statement(ast.Printf(ast.StrConst("x")))),
			),
		}},
		{"declaration from another variable", []ast.Stmt{
			ast.IntDecl(id("x"), ast.IntConst(5)),
			ast.IntDecl(id("y"), id("x")),
		}},
		{"assignment then read", []ast.Stmt{
			ast.IntDecl(id("a"), nil),
			ast.Statement(ast.Set(id("a"), ast.IntConst(3))),
			ast.IfThen(ast.Eq(id("a"), ast.IntConst(3)),
				ast.Statement(ast.Printf(ast.StrConst("%d"), id("a")))),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkViewsWhileStepping(t, tt.tree)
		})
	}
}

func TestViewsFollowEvaluationOfExamples(t *testing.T) {
	files, err := filepath.Glob("../../examples/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files)
	for _, f := range files {
		t.Run(filepath.Base(f), func(t *testing.T) {
			p, err := program.Load(f)
			require.NoError(t, err)
			checkViewsWhileStepping(t, p.Stmts)
		})
	}
}
