package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todolist/internal/config"
	"github.com/idilsaglam/todolist/internal/logging"
	"github.com/idilsaglam/todolist/internal/store/jsonstore"
	"github.com/idilsaglam/todolist/internal/todo"
	"github.com/idilsaglam/todolist/internal/ui"
)

// Exit codes: 0 ok, 1 error, 2 usage or unknown item.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// usageError marks mistakes in how the command was invoked.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...interface{}) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// rootFlags are the persistent flags shared by every subcommand.
type rootFlags struct {
	configPath string
	dataFile   string
	theme      string
	color      string
	logLevel   string
}

// app is the state a subcommand runs against.
type app struct {
	flags  rootFlags
	cfg    *config.Config
	log    *logging.Logger
	file   *jsonstore.File
	stdout io.Writer
	stderr io.Writer
}

// Run executes the CLI with args and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	a.log.Close()
	if err == nil {
		return exitOK
	}

	ui.Fail(stderr, err.Error())
	var ue *usageError
	switch {
	case errors.As(err, &ue), isCobraUsage(err):
		fmt.Fprintln(stderr, ui.C(ui.Current().Muted, "Run `todo --help` for usage."))
		return exitUsage
	case errors.Is(err, todo.ErrNotFound):
		fmt.Fprintln(stderr, ui.C(ui.Current().Muted, "Hint: run `todo ls` to see valid identifiers"))
		return exitUsage
	}
	return exitError
}

// isCobraUsage recognises cobra's own argument and flag errors.
func isCobraUsage(err error) bool {
	msg := err.Error()
	for _, prefix := range []string{"unknown command", "unknown flag", "unknown shorthand flag", "accepts ", "requires at least", "invalid argument", "flag needs an argument"} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "todo",
		Short: "todo - a tiny to-do list",
		Long: `todo keeps a short list of things to do in a local JSON file.

Open items are listed first, then finished ones, each most recently
changed first. Every change is saved immediately.`,
		Example: `  todo add Buy milk
  todo ls
  todo done 2
  todo rm 3
  todo ui`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/todo/config.toml)")
	pf.StringVarP(&a.flags.dataFile, "file", "f", "", "data file (default $XDG_DATA_HOME/todo/"+config.DataFileName+")")
	pf.StringVar(&a.flags.theme, "theme", "", "theme: classic, neon or mono")
	pf.StringVar(&a.flags.color, "color", "", "color output: auto, always or never")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		newAddCmd(a),
		newListCmd(a),
		newDoneCmd(a),
		newRemoveCmd(a),
		newEditCmd(a),
		newUICmd(a),
		newPathCmd(a),
	)
	return root
}

// setup resolves config (defaults < file < env < flags), the logger and the
// data file.
func (a *app) setup() error {
	cfg, err := config.Load(a.flags.configPath)
	if errors.Is(err, config.ErrInvalid) {
		return &usageError{msg: err.Error()}
	}
	if err != nil {
		return err
	}
	if a.flags.dataFile != "" {
		cfg.DataFile = a.flags.dataFile
	}
	if a.flags.theme != "" {
		cfg.Theme = a.flags.theme
	}
	if a.flags.color != "" {
		cfg.Color = a.flags.color
	}
	if a.flags.logLevel != "" {
		cfg.Log.Level = a.flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return &usageError{msg: err.Error()}
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}

	ui.SetTheme(cfg.Theme)
	ui.SetColorMode(cfg.Color)

	a.cfg = cfg
	a.log = log.With("data_file", cfg.DataFile)
	a.file = jsonstore.New(cfg.DataFile, jsonstore.WithLockTimeout(cfg.LockTimeout.Duration))
	return nil
}

// open loads the list, warning on stderr when the saved file had to be
// ignored.
func (a *app) open(ctx context.Context) (*todo.List, error) {
	l, err := todo.Open(ctx, a.file, a.log)
	if err != nil {
		return nil, err
	}
	switch rec := l.Recovered(); {
	case rec == nil, errors.Is(rec, os.ErrNotExist):
	case l.ReadOnly():
		ui.Warn(a.stderr, fmt.Sprintf("could not read %s (%v); changes will not be saved", a.file.Path(), rec))
	default:
		ui.Warn(a.stderr, fmt.Sprintf("could not load %s (%v); starting with an empty list", a.file.Path(), rec))
	}
	return l, nil
}

// parseID accepts "3" or "#3".
func parseID(cmdName, arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(arg), "#"))
	if err != nil || n < 0 {
		return 0, usagef("%s: not an identifier: %s", cmdName, arg)
	}
	return n, nil
}
