package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/raymyers/ralph-step/pkg/config"
	"github.com/raymyers/ralph-step/pkg/logging"
	"github.com/raymyers/ralph-step/pkg/program"
	"github.com/raymyers/ralph-step/pkg/session"
)

var version = "0.1.0"

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ralph-step: %v\n", err)
		return 1
	}
	return 0
}

// app is the state shared by the subcommands once flags are parsed.
type app struct {
	out, errOut io.Writer

	configFile string
	maxSteps   int
	noColor    bool
	logLevel   string

	cfg   config.Config
	color bool
	log   zerolog.Logger
}

// setup applies the configuration file and then the flags that were set.
func (a *app) setup(cmd *cobra.Command) error {
	a.cfg = config.Defaults
	if a.configFile != "" {
		if err := config.Load(a.configFile, &a.cfg); err != nil {
			return err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("max-steps") {
		a.cfg.MaxSteps = a.maxSteps
	}
	if flags.Changed("no-color") && a.noColor {
		a.cfg.Color = config.ColorNever
	}
	if flags.Changed("log-level") {
		a.cfg.LogLevel = a.logLevel
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	a.color = colorEnabled(a.cfg.Color, a.out)
	if f, ok := a.out.(*os.File); ok && a.color {
		a.out = colorable.NewColorable(f)
	}
	level, err := logging.ParseLevel(a.cfg.LogLevel)
	if err != nil {
		return err
	}
	a.log = logging.New(a.errOut, level, !colorEnabled(a.cfg.Color, a.errOut))
	return nil
}

func colorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// load reads a program file and starts a session on it.
func (a *app) load(path string) (*program.Program, *session.Session, error) {
	p, err := program.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if p.Name == "" {
		p.Name = filepath.Base(path)
	}
	sess, err := session.New(p.Stmts,
		session.WithLogger(a.log.With().Str("program", p.Name).Logger()),
		session.WithCacheSize(a.cfg.ViewCacheSize))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, sess, nil
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	rootCmd := &cobra.Command{
		Use:   "ralph-step",
		Short: "ralph-step executes tiny C programs one reduction at a time",
		Long: `ralph-step lowers a program written in a tiny subset of C to a flat
list of labelled statements and evaluates it in small steps, showing
after every step which part of the source is being reduced.

Programs are YAML documents; see the examples directory.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "TOML configuration file")
	pf.IntVar(&a.maxSteps, "max-steps", config.Defaults.MaxSteps, "Stop after this many steps (0 for no limit)")
	pf.BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	pf.StringVar(&a.logLevel, "log-level", config.Defaults.LogLevel, "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newRunCmd(a),
		newStepCmd(a),
		newShowCmd(a),
		newLowerCmd(a),
		newTreeCmd(a),
		newDumpConfigCmd(a),
	)
	return rootCmd
}
