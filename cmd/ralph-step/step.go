package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/raymyers/ralph-step/pkg/session"
)

const stepHelp = `commands:
  n, <enter>  step
  b           step back
  r           run to the end
  e           show variables
  o           show output
  q           quit
`

// prompter reads one line of input.
type prompter interface {
	Prompt(prompt string) (string, error)
}

func newStepCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "step FILE",
		Short: "Step through a program interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sess, err := a.load(args[0])
			if err != nil {
				return err
			}

			ln := liner.NewLiner()
			defer ln.Close()
			ln.SetCtrlCAborts(true)

			if a.cfg.HistoryFile != "" {
				if f, err := os.Open(a.cfg.HistoryFile); err == nil {
					_, _ = ln.ReadHistory(f)
					_ = f.Close()
				}
				defer func() {
					if f, err := os.Create(a.cfg.HistoryFile); err == nil {
						_, _ = ln.WriteHistory(f)
						_ = f.Close()
					}
				}()
			}

			return stepLoop(a, sess, historyPrompter{ln})
		},
	}
}

// historyPrompter records every non-empty line in the liner history.
type historyPrompter struct {
	ln *liner.State
}

func (h historyPrompter) Prompt(prompt string) (string, error) {
	line, err := h.ln.Prompt(prompt)
	if err == nil && strings.TrimSpace(line) != "" {
		h.ln.AppendHistory(line)
	}
	return line, err
}

// stepLoop runs the interactive command loop until quit or end of input.
// Evaluation errors are reported and the session stays usable.
func stepLoop(a *app, sess *session.Session, in prompter) error {
	th := newTheme(a.color)
	if err := printState(a.out, th, sess); err != nil {
		return err
	}
	for {
		line, err := in.Prompt("step> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return nil
		}
		if err != nil {
			return err
		}

		var cmdErr error
		switch strings.TrimSpace(line) {
		case "", "n":
			if sess.Done() {
				fmt.Fprintln(a.out, "program has terminated")
				continue
			}
			cmdErr = sess.Step()
		case "b":
			if !sess.Back() {
				fmt.Fprintln(a.out, "at the first step")
				continue
			}
		case "r":
			_, cmdErr = sess.Run(a.cfg.MaxSteps)
		case "e":
			fmt.Fprintf(a.out, "env: %s\n", sess.Env())
			continue
		case "o":
			fmt.Fprint(a.out, sess.Output())
			if !strings.HasSuffix(sess.Output(), "\n") {
				fmt.Fprintln(a.out)
			}
			continue
		case "q":
			return nil
		case "h", "?":
			fmt.Fprint(a.out, stepHelp)
			continue
		default:
			fmt.Fprintf(a.out, "unknown command %q, h for help\n", line)
			continue
		}
		if cmdErr != nil {
			fmt.Fprintf(a.out, "error: %v\n", cmdErr)
		}
		if err := printState(a.out, th, sess); err != nil {
			return err
		}
	}
}
