package ast

import (
	"fmt"
	"strconv"

	"github.com/disiqueira/gotree/v3"
)

// Display renders a program (source or lowered) as an indented tree, for
// debugging.
func Display(title string, stmts []Stmt) string {
	root := gotree.New(title)
	for _, s := range stmts {
		addTree(root, s)
	}
	return root.Print()
}

func addTree(parent gotree.Tree, n Node) {
	t := parent.Add(Describe(n))
	for _, c := range Children(n) {
		addTree(t, c)
	}
}

// Describe returns a one-line description of n without its children.
func Describe(n Node) string {
	switch v := n.(type) {
	case *Identifier:
		return "identifier " + v.Name
	case *Constant:
		return "constant " + v.Type.String() + " " + ConstantText(v)
	case *Binary:
		return "binary " + v.Op.String()
	case *Invoke:
		return "invoke " + v.Ident.Name
	case *Declaration:
		return "declaration " + v.Type.String()
	case *Label:
		return "label " + v.Name
	case *Jump:
		return "jump " + v.Target.Name
	case *CondJump:
		return fmt.Sprintf("conditional-jump %s/%s", v.True.Name, v.False.Name)
	}
	return Kind(n)
}

// ConstantText returns the C spelling of a constant's value: the decimal
// integer, the quoted and escaped string, NULL, or nothing for void.
func ConstantText(c *Constant) string {
	switch c.Type {
	case IntType:
		return strconv.FormatInt(c.Int, 10)
	case StringType:
		if c.Null {
			return "NULL"
		}
		return quote(c.Str)
	}
	return ""
}

func quote(s string) string {
	buf := make([]byte, 0, len(s)+2)
	buf = append(buf, '"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			buf = append(buf, '\\', 'n')
		case '\t':
			buf = append(buf, '\\', 't')
		case '"':
			buf = append(buf, '\\', '"')
		case '\\':
			buf = append(buf, '\\', '\\')
		default:
			buf = append(buf, s[i])
		}
	}
	return string(append(buf, '"'))
}
