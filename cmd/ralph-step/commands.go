package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raymyers/ralph-step/pkg/ast"
	"github.com/raymyers/ralph-step/pkg/config"
	"github.com/raymyers/ralph-step/pkg/eval"
	"github.com/raymyers/ralph-step/pkg/lower"
	"github.com/raymyers/ralph-step/pkg/session"
)

func newRunCmd(a *app) *cobra.Command {
	var trace bool
	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Run a program to completion and print its output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sess, err := a.load(args[0])
			if err != nil {
				return err
			}
			if !trace {
				_, err := sess.Run(a.cfg.MaxSteps)
				fmt.Fprint(a.out, sess.Output())
				return err
			}
			return traceRun(a, sess)
		},
	}
	cmd.Flags().BoolVar(&trace, "trace", false, "Show the program after every step")
	return cmd
}

// traceRun prints the view of every state up to termination.
func traceRun(a *app, sess *session.Session) error {
	th := newTheme(a.color)
	for {
		if err := printState(a.out, th, sess); err != nil {
			return err
		}
		if sess.Done() {
			return nil
		}
		if a.cfg.MaxSteps > 0 && sess.Steps() >= a.cfg.MaxSteps {
			return fmt.Errorf("after %d steps: %w", sess.Steps(), eval.ErrStepLimit)
		}
		if err := sess.Step(); err != nil {
			return err
		}
	}
}

func newShowCmd(a *app) *cobra.Command {
	var at int
	cmd := &cobra.Command{
		Use:   "show FILE",
		Short: "Show the state of a program after a number of steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sess, err := a.load(args[0])
			if err != nil {
				return err
			}
			if a.cfg.MaxSteps > 0 && at > a.cfg.MaxSteps {
				return fmt.Errorf("step %d is beyond the limit of %d steps", at, a.cfg.MaxSteps)
			}
			if err := sess.Seek(at); err != nil {
				return err
			}
			return printState(a.out, newTheme(a.color), sess)
		},
	}
	cmd.Flags().IntVar(&at, "at", 0, "Number of steps to take first")
	return cmd
}

func newLowerCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lower FILE",
		Short: "Print the lowered program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sess, err := a.load(args[0])
			if err != nil {
				return err
			}
			lower.NewPrinter(a.out).PrintProgram(sess.Program)
			return nil
		},
	}
}

func newTreeCmd(a *app) *cobra.Command {
	var ir bool
	cmd := &cobra.Command{
		Use:   "tree FILE",
		Short: "Print the syntax tree of a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, sess, err := a.load(args[0])
			if err != nil {
				return err
			}
			if ir {
				fmt.Fprint(a.out, ast.Display(p.Name+" (lowered)", sess.Program))
				return nil
			}
			fmt.Fprint(a.out, ast.Display(p.Name, p.Stmts))
			return nil
		},
	}
	cmd.Flags().BoolVar(&ir, "ir", false, "Show the lowered program instead")
	return cmd
}

func newDumpConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dumpconfig",
		Short: "Show configuration values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := config.Dump(a.cfg)
			if err != nil {
				return err
			}
			_, err = a.out.Write(out)
			return err
		},
	}
}
