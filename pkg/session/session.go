// Package session drives a program through the evaluator one step at a time,
// keeping every state so steps can be undone, and renders the source view of
// each state.
package session

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"github.com/raymyers/ralph-step/pkg/ast"
	"github.com/raymyers/ralph-step/pkg/eval"
	"github.com/raymyers/ralph-step/pkg/lower"
	"github.com/raymyers/ralph-step/pkg/render"
)

const defaultCacheSize = 128

// Session is a stepping session over one program. It is not safe for
// concurrent use.
type Session struct {
	ID      xid.ID
	Tree    []ast.Stmt
	Program []ast.Stmt

	// history[i] is the state after i steps; the last entry is current.
	history   []eval.State
	views     *lru.ARCCache
	cacheSize int
	log       zerolog.Logger
}

// Option configures a Session
type Option func(*Session)

// WithLogger sets the logger. Sessions are silent by default.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithCacheSize sets how many rendered views are kept.
func WithCacheSize(n int) Option {
	return func(s *Session) { s.cacheSize = n }
}

// New lowers tree and returns a session positioned before the first step.
func New(tree []ast.Stmt, opts ...Option) (*Session, error) {
	s := &Session{
		ID:        xid.New(),
		Tree:      tree,
		cacheSize: defaultCacheSize,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	prog, err := lower.Lower(tree)
	if err != nil {
		return nil, err
	}
	views, err := lru.NewARC(s.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("view cache: %w", err)
	}
	s.Program = prog
	s.views = views
	s.history = []eval.State{eval.Init(prog)}
	s.log = s.log.With().Str("session", s.ID.String()).Logger()
	s.log.Debug().Int("statements", len(tree)).Int("ir", len(prog)).Msg("session started")
	return s, nil
}

// State returns the current state.
func (s *Session) State() eval.State {
	return s.history[len(s.history)-1]
}

// Steps returns the number of steps taken to reach the current state.
func (s *Session) Steps() int {
	return len(s.history) - 1
}

// Done reports whether the program has terminated.
func (s *Session) Done() bool {
	return s.State().Done()
}

// Output returns everything printed so far.
func (s *Session) Output() string {
	return s.State().Output
}

// Env returns the variables in scope.
func (s *Session) Env() eval.Env {
	return s.State().Env
}

// Step advances the program by one reduction.
func (s *Session) Step() error {
	cur := s.State()
	next, err := eval.Step(cur)
	if err != nil {
		s.log.Error().Err(err).Int("step", s.Steps()+1).Int("pc", cur.PC).
			Str("statement", describe(cur.Active)).Msg("step failed")
		return err
	}
	s.history = append(s.history, next)
	s.log.Debug().Int("step", s.Steps()).Int("pc", next.PC).Str("output", next.Output).
		Str("active", describe(next.Active)).Msg("step")
	return nil
}

// Back undoes the last step. It reports false at the initial state.
func (s *Session) Back() bool {
	if len(s.history) == 1 {
		return false
	}
	s.history = s.history[:len(s.history)-1]
	s.log.Debug().Int("step", s.Steps()).Msg("back")
	return true
}

// Run steps until the program terminates. A positive limit bounds the number
// of steps taken by this call; reaching it fails with eval.ErrStepLimit.
// Run returns the number of steps it took.
func (s *Session) Run(limit int) (int, error) {
	n := 0
	for !s.Done() {
		if limit > 0 && n >= limit {
			err := fmt.Errorf("after %d steps: %w", n, eval.ErrStepLimit)
			s.log.Error().Err(err).Int("step", s.Steps()).Msg("run stopped")
			return n, err
		}
		if err := s.Step(); err != nil {
			return n, err
		}
		n++
	}
	s.log.Debug().Int("steps", n).Msg("run finished")
	return n, nil
}

// Seek moves to the state after n steps, stepping forward or undoing as needed.
func (s *Session) Seek(n int) error {
	if n < 0 {
		return fmt.Errorf("seek to step %d", n)
	}
	for s.Steps() > n {
		s.Back()
	}
	for s.Steps() < n {
		if s.Done() {
			return fmt.Errorf("program terminates after %d steps: %w", s.Steps(), eval.ErrTerminated)
		}
		if err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}

// View renders the source with the current statement and its redex located.
// Views are cached by step index.
func (s *Session) View() (render.View, error) {
	key := s.Steps()
	if v, ok := s.views.Get(key); ok {
		return v.(render.View), nil
	}
	st := s.State()
	v, err := render.HighlightFocus(s.Tree, st.Current(), st.Active, eval.Redex(st.Active))
	if err != nil {
		return render.View{}, err
	}
	s.views.Add(key, v)
	return v, nil
}

func describe(n ast.Node) string {
	if n == nil {
		return "terminated"
	}
	return ast.Describe(n)
}
