package render

import (
	"strings"

	"github.com/raymyers/ralph-step/pkg/ast"
)

// Category is the syntax highlighting class of a token
type Category string

const (
	Keyword    Category = "keyword"
	Identifier Category = "identifier"
	Numeral    Category = "numeral"
	String     Category = "string"
	Operator   Category = "operator"
	Bracket    Category = "bracket"
	Semicolon  Category = "semicolon"
	Type       Category = "type"
	Whitespace Category = "whitespace"
	// Text is used for content no other category claims.
	Text Category = "text"
)

// Token is a piece of rendered text with its highlighting category
type Token struct {
	Text     string
	Category Category
}

// TagTokens splits every fragment into tokens. Leading and trailing runs of
// whitespace and brackets are trivia and are tagged lexically; the remaining
// core is tagged according to the node that produced the fragment. The
// concatenated token text always equals the concatenated fragment text.
func TagTokens(frags []Fragment) []Token {
	var out []Token
	for _, f := range frags {
		out = append(out, tagFragment(f)...)
	}
	return out
}

// TextOf concatenates token text.
func TextOf(tokens []Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteString(t.Text)
	}
	return sb.String()
}

func isBracket(c byte) bool {
	return strings.IndexByte("()[]{}", c) >= 0
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\r'
}

func isTrivia(c byte) bool {
	return isBracket(c) || isSpace(c)
}

func tagFragment(f Fragment) []Token {
	s := f.Text
	lead := 0
	for lead < len(s) && isTrivia(s[lead]) {
		lead++
	}
	trail := len(s)
	for trail > lead && isTrivia(s[trail-1]) {
		trail--
	}

	out := tagTrivia(s[:lead])
	if core := s[lead:trail]; core != "" {
		out = append(out, tagCore(core, f.Node)...)
	}
	return append(out, tagTrivia(s[trail:])...)
}

// tagTrivia splits s into runs of brackets and runs of whitespace.
func tagTrivia(s string) []Token {
	var out []Token
	for i := 0; i < len(s); {
		j := i + 1
		for j < len(s) && isBracket(s[j]) == isBracket(s[i]) {
			j++
		}
		cat := Whitespace
		if isBracket(s[i]) {
			cat = Bracket
		}
		out = append(out, Token{Text: s[i:j], Category: cat})
		i = j
	}
	return out
}

func tagCore(core string, n ast.Node) []Token {
	one := func(c Category) []Token {
		return []Token{{Text: core, Category: c}}
	}
	if core == ";" {
		return one(Semicolon)
	}

	switch v := n.(type) {
	case *ast.Identifier:
		return one(Identifier)
	case *ast.Constant:
		switch {
		case v.Type == ast.StringType && v.Null:
			return one(Keyword)
		case v.Type == ast.StringType:
			return one(String)
		case strings.HasPrefix(core, "-"):
			return []Token{{Text: "-", Category: Operator}, {Text: core[1:], Category: Numeral}}
		}
		return one(Numeral)
	case *ast.Binary, *ast.Assign, *ast.AddAssign, *ast.Increment:
		return one(Operator)
	case *ast.Invoke:
		if core == "," {
			return one(Operator)
		}
	case *ast.Declaration:
		if core == v.Type.String() {
			return one(Type)
		}
		if core == "=" {
			return one(Operator)
		}
	case *ast.If:
		if core == "if" {
			return one(Keyword)
		}
	case *ast.ForLoop:
		if core == "for" {
			return one(Keyword)
		}
	}
	return one(Text)
}
