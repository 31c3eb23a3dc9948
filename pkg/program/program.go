// Package program reads stepper programs written as YAML. Every node is a
// mapping with a single key naming its kind:
//
//	name: count
//	program:
//	  - declare: {type: int, name: n, value: {int: 0}}
//	  - for:
//	      init: {declare: {type: int, name: i, value: {int: 1}}}
//	      cond: {expr: {le: [{ident: i}, {int: 3}]}}
//	      update: {expr: {inc: i}}
//	      body: {block: [{expr: {add_assign: {name: n, value: {ident: i}}}}]}
//	  - expr: {call: {name: printf, args: [{string: "%d\n"}, {ident: n}]}}
//
// Every occurrence of a name becomes its own identifier node.
package program

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/raymyers/ralph-step/pkg/ast"
)

// ErrSyntax indicates YAML that does not describe a program
var ErrSyntax = errors.New("malformed program")

// Program is a decoded program file
type Program struct {
	Name        string
	Description string
	Stmts       []ast.Stmt
}

type document struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Program     yaml.Node `yaml:"program"`
}

// Load reads and decodes the program file at path.
func Load(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes a program document.
func Parse(data []byte) (*Program, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrSyntax)
	}
	if doc.Program.Kind == 0 {
		return nil, fmt.Errorf("no program key: %w", ErrSyntax)
	}
	stmts, err := DecodeStmts(&doc.Program)
	if err != nil {
		return nil, err
	}
	return &Program{Name: doc.Name, Description: doc.Description, Stmts: stmts}, nil
}

// DecodeStmts decodes a YAML sequence of statements.
func DecodeStmts(n *yaml.Node) ([]ast.Stmt, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, syntaxError(n, "expected a list of statements")
	}
	out := make([]ast.Stmt, 0, len(n.Content))
	for _, item := range n.Content {
		s, err := decodeNode(item)
		if err != nil {
			return nil, err
		}
		stmt, ok := s.(ast.Stmt)
		if !ok {
			return nil, lineError(item, fmt.Errorf("%s is not a statement: %w", ast.Kind(s), ast.ErrInvalidOperand))
		}
		out = append(out, stmt)
	}
	return out, nil
}

// LineError is a decoding failure located in the YAML input
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e *LineError) Unwrap() error { return e.Err }

func syntaxError(n *yaml.Node, format string, args ...any) error {
	return &LineError{Line: n.Line, Err: fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrSyntax)}
}

// lineError attaches the line of n to err unless err already has one.
func lineError(n *yaml.Node, err error) error {
	var le *LineError
	if errors.As(err, &le) {
		return err
	}
	return &LineError{Line: n.Line, Err: err}
}

// fields returns the keys of a mapping node with their values.
func fields(n *yaml.Node) (map[string]*yaml.Node, error) {
	if n.Kind != yaml.MappingNode {
		return nil, syntaxError(n, "expected a mapping")
	}
	out := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		out[n.Content[i].Value] = n.Content[i+1]
	}
	return out, nil
}

func scalar(n *yaml.Node, what string) (string, error) {
	if n.Kind != yaml.ScalarNode {
		return "", syntaxError(n, "%s must be a scalar", what)
	}
	return n.Value, nil
}

func required(f map[string]*yaml.Node, parent *yaml.Node, key string) (*yaml.Node, error) {
	v, ok := f[key]
	if !ok {
		return nil, syntaxError(parent, "missing %q", key)
	}
	return v, nil
}

func decodeNode(n *yaml.Node) (ast.Node, error) {
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return nil, syntaxError(n, "a node is a mapping with exactly one key")
	}
	kind, body := n.Content[0].Value, n.Content[1]

	result, err := decodeKind(kind, body)
	if err != nil {
		return nil, lineError(n, err)
	}
	return result, nil
}

func decodeKind(kind string, body *yaml.Node) (ast.Node, error) {
	switch kind {
	case "ident":
		name, err := scalar(body, "ident")
		if err != nil {
			return nil, err
		}
		return node(ast.NewIdentifier(name))
	case "int":
		var v int64
		if err := body.Decode(&v); err != nil {
			return nil, syntaxError(body, "int: %v", err)
		}
		return ast.IntConst(v), nil
	case "string":
		s, err := scalar(body, "string")
		if err != nil {
			return nil, err
		}
		return ast.StrConst(s), nil
	case "nullstr":
		return ast.NullStr(), nil
	case "and", "le", "eq":
		return decodeBinary(kind, body)
	case "assign", "add_assign":
		return decodeAssign(kind, body)
	case "inc":
		name, err := scalar(body, "inc")
		if err != nil {
			return nil, err
		}
		id, err := ast.NewIdentifier(name)
		if err != nil {
			return nil, err
		}
		return node(ast.NewIncrement(id))
	case "call":
		return decodeCall(body)
	case "expr":
		value, err := decodeNode(body)
		if err != nil {
			return nil, err
		}
		return node(ast.NewExprStmt(value))
	case "nop":
		return ast.Nop(), nil
	case "declare":
		return decodeDeclare(body)
	case "block":
		return decodeBlock(body)
	case "if":
		return decodeIf(body)
	case "for":
		return decodeFor(body)
	}
	return nil, syntaxError(body, "unknown node kind %q", kind)
}

var binaryOps = map[string]ast.BinaryOp{"and": ast.OpAnd, "le": ast.OpLe, "eq": ast.OpEq}

func decodeBinary(kind string, body *yaml.Node) (ast.Node, error) {
	if body.Kind != yaml.SequenceNode || len(body.Content) != 2 {
		return nil, syntaxError(body, "%s takes a list of two operands", kind)
	}
	l, err := decodeNode(body.Content[0])
	if err != nil {
		return nil, err
	}
	r, err := decodeNode(body.Content[1])
	if err != nil {
		return nil, err
	}
	return node(ast.NewBinary(binaryOps[kind], l, r))
}

func decodeAssign(kind string, body *yaml.Node) (ast.Node, error) {
	f, err := fields(body)
	if err != nil {
		return nil, err
	}
	id, err := decodeName(f, body)
	if err != nil {
		return nil, err
	}
	vn, err := required(f, body, "value")
	if err != nil {
		return nil, err
	}
	value, err := decodeNode(vn)
	if err != nil {
		return nil, err
	}
	if kind == "assign" {
		return node(ast.NewAssign(id, value))
	}
	return node(ast.NewAddAssign(id, value))
}

func decodeName(f map[string]*yaml.Node, parent *yaml.Node) (*ast.Identifier, error) {
	nn, err := required(f, parent, "name")
	if err != nil {
		return nil, err
	}
	name, err := scalar(nn, "name")
	if err != nil {
		return nil, err
	}
	return ast.NewIdentifier(name)
}

func decodeCall(body *yaml.Node) (ast.Node, error) {
	f, err := fields(body)
	if err != nil {
		return nil, err
	}
	id, err := decodeName(f, body)
	if err != nil {
		return nil, err
	}
	var args []ast.Node
	if an, ok := f["args"]; ok {
		if an.Kind != yaml.SequenceNode {
			return nil, syntaxError(an, "args must be a list")
		}
		for _, a := range an.Content {
			arg, err := decodeNode(a)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
	}
	return node(ast.NewInvoke(id, args...))
}

func decodeDeclare(body *yaml.Node) (ast.Node, error) {
	f, err := fields(body)
	if err != nil {
		return nil, err
	}
	tn, err := required(f, body, "type")
	if err != nil {
		return nil, err
	}
	typeName, err := scalar(tn, "type")
	if err != nil {
		return nil, err
	}
	t, ok := ast.ParseDatatype(typeName)
	if !ok {
		return nil, syntaxError(tn, "unknown type %q", typeName)
	}
	id, err := decodeName(f, body)
	if err != nil {
		return nil, err
	}
	var value ast.Node
	if vn, ok := f["value"]; ok {
		if value, err = decodeNode(vn); err != nil {
			return nil, err
		}
	}
	return node(ast.NewDeclaration(t, id, value))
}

func decodeBlock(body *yaml.Node) (ast.Node, error) {
	stmts, err := DecodeStmts(body)
	if err != nil {
		return nil, err
	}
	nodes := make([]ast.Node, len(stmts))
	for i, s := range stmts {
		nodes[i] = s
	}
	return node(ast.NewBlock(nodes...))
}

func decodeIf(body *yaml.Node) (ast.Node, error) {
	parts, err := decodeParts(body, "cond", "body")
	if err != nil {
		return nil, err
	}
	return node(ast.NewIf(parts[0], parts[1]))
}

func decodeFor(body *yaml.Node) (ast.Node, error) {
	parts, err := decodeParts(body, "init", "cond", "update", "body")
	if err != nil {
		return nil, err
	}
	return node(ast.NewForLoop(parts[0], parts[1], parts[2], parts[3]))
}

// decodeParts decodes the required child nodes of a mapping, in key order.
func decodeParts(body *yaml.Node, keys ...string) ([]ast.Node, error) {
	f, err := fields(body)
	if err != nil {
		return nil, err
	}
	out := make([]ast.Node, len(keys))
	for i, k := range keys {
		kn, err := required(f, body, k)
		if err != nil {
			return nil, err
		}
		if out[i], err = decodeNode(kn); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func node[T ast.Node](v T, err error) (ast.Node, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}
