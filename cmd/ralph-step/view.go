package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/raymyers/ralph-step/pkg/render"
	"github.com/raymyers/ralph-step/pkg/session"
)

// theme colors a view. A disabled theme prints plain text.
type theme struct {
	enabled    bool
	categories map[render.Category]*color.Color
	active     *color.Color
	focus      *color.Color
	faint      *color.Color
}

func newTheme(enabled bool) theme {
	t := theme{
		enabled: enabled,
		categories: map[render.Category]*color.Color{
			render.Keyword:    color.New(color.FgMagenta, color.Bold),
			render.Identifier: color.New(color.FgWhite),
			render.Numeral:    color.New(color.FgCyan),
			render.String:     color.New(color.FgGreen),
			render.Operator:   color.New(color.FgYellow),
			render.Type:       color.New(color.FgBlue),
		},
		active: color.New(color.Underline),
		focus:  color.New(color.FgBlack, color.BgYellow),
		faint:  color.New(color.Faint),
	}
	// overrides color.NoColor
	for _, c := range t.all() {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return t
}

func (t theme) all() []*color.Color {
	out := []*color.Color{t.active, t.focus, t.faint}
	for _, c := range t.categories {
		out = append(out, c)
	}
	return out
}

func (t theme) paint(c *color.Color, s string) string {
	if !t.enabled || c == nil {
		return s
	}
	return c.Sprint(s)
}

func inRange(i int, r render.Range) bool {
	return i >= r.Start && i <= r.End
}

// printView writes the source text of v with the active statement and the
// next redex marked.
func printView(w io.Writer, t theme, v render.View) {
	var sb strings.Builder
	for i, tok := range v.Tokens {
		c := t.categories[tok.Category]
		switch {
		case v.Focused && inRange(i, v.Focus):
			c = t.focus
		case v.Highlighted && inRange(i, v.Range) && tok.Category != render.Whitespace:
			c = t.active
		}
		sb.WriteString(t.paint(c, tok.Text))
	}
	fmt.Fprint(w, sb.String())
}

func rangeText(tokens []render.Token, r render.Range) string {
	return render.TextOf(tokens[r.Start : r.End+1])
}

// printState writes the current view of sess followed by a status block.
func printState(w io.Writer, t theme, sess *session.Session) error {
	v, err := sess.View()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, t.paint(t.faint, fmt.Sprintf("-- step %d --", sess.Steps())))
	printView(w, t, v)

	switch {
	case sess.Done():
		fmt.Fprintln(w, "terminated")
	case v.Focused:
		fmt.Fprintf(w, "next: %s\n", oneLine(rangeText(v.Tokens, v.Focus)))
	default:
		fmt.Fprintf(w, "next: %s\n", oneLine(render.Source(sess.State().Current())))
	}
	fmt.Fprintf(w, "env: %s\n", sess.Env())
	fmt.Fprintf(w, "output: %q\n", sess.Output())
	return nil
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
