package eval

import (
	"strings"

	"github.com/raymyers/ralph-step/pkg/ast"
)

// Binding associates a variable name with its current value
type Binding struct {
	Name  string
	Value *ast.Constant
}

// Env holds the variables in scope, in declaration order. An Env is never
// modified; Bind and Unbind return a new one.
type Env struct {
	bindings []Binding
}

func (e Env) index(name string) int {
	for i, b := range e.bindings {
		if b.Name == name {
			return i
		}
	}
	return -1
}

// Lookup returns a fresh copy of the value bound to name, so every read
// yields a node that appears nowhere else.
func (e Env) Lookup(name string) (*ast.Constant, bool) {
	if i := e.index(name); i >= 0 {
		return clone(e.bindings[i].Value), true
	}
	return nil, false
}

func clone(c *ast.Constant) *ast.Constant {
	cp := *c
	return &cp
}

// Has reports whether name is in scope
func (e Env) Has(name string) bool {
	return e.index(name) >= 0
}

// Bind returns an Env where name is bound to a copy of v. An existing binding
// keeps its position.
func (e Env) Bind(name string, v *ast.Constant) Env {
	v = clone(v)
	out := make([]Binding, len(e.bindings), len(e.bindings)+1)
	copy(out, e.bindings)
	if i := e.index(name); i >= 0 {
		out[i].Value = v
	} else {
		out = append(out, Binding{Name: name, Value: v})
	}
	return Env{bindings: out}
}

// Unbind returns an Env without name. It reports false if name was not bound.
func (e Env) Unbind(name string) (Env, bool) {
	i := e.index(name)
	if i < 0 {
		return e, false
	}
	out := make([]Binding, 0, len(e.bindings)-1)
	out = append(out, e.bindings[:i]...)
	out = append(out, e.bindings[i+1:]...)
	return Env{bindings: out}, true
}

func (e Env) Len() int { return len(e.bindings) }

// Bindings returns a copy of the bindings in declaration order
func (e Env) Bindings() []Binding {
	return append([]Binding(nil), e.bindings...)
}

func (e Env) String() string {
	parts := make([]string, len(e.bindings))
	for i, b := range e.bindings {
		parts[i] = b.Name + " = " + ast.ConstantText(b.Value)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
