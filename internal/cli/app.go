// Package cli is the text front end of the Food Share client. Every
// command runs against the session store and the reconciler, the same way a
// screen of the web client would.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/foodshare/internal/services"
	"github.com/fastygo/foodshare/usecase/gate"
	"github.com/fastygo/foodshare/usecase/navigation"
	"github.com/fastygo/foodshare/usecase/reconcile"
	"github.com/fastygo/foodshare/usecase/session"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

type usageError struct {
	msg string
}

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...interface{}) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

// Deps are the collaborators of an App. Inbox must be the notifier the
// reconciler was built with.
type Deps struct {
	Sessions   *session.Store
	Reconciler *reconcile.Reconciler
	Inbox      *reconcile.Inbox
	Table      gate.Table
	Watch      services.RefresherConfig
	Logger     *zap.Logger
	Out        io.Writer
	Err        io.Writer
}

type command struct {
	usage   string
	summary string
	run     func(ctx context.Context, args []string) error
}

type App struct {
	sessions *session.Store
	rec      *reconcile.Reconciler
	inbox    *reconcile.Inbox
	nav      *navigation.Navigator
	watch    services.RefresherConfig
	logger   *zap.Logger
	out      io.Writer
	err      io.Writer

	commands map[string]command
}

func New(deps Deps) *App {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	if deps.Err == nil {
		deps.Err = os.Stderr
	}
	if deps.Inbox == nil {
		deps.Inbox = &reconcile.Inbox{}
	}
	if len(deps.Table.Rules()) == 0 {
		deps.Table = gate.DefaultTable()
	}

	a := &App{
		sessions: deps.Sessions,
		rec:      deps.Reconciler,
		inbox:    deps.Inbox,
		nav:      navigation.New(deps.Sessions, deps.Table, deps.Logger),
		watch:    deps.Watch,
		logger:   deps.Logger,
		out:      deps.Out,
		err:      deps.Err,
	}
	a.registerScreens()
	a.commands = a.commandTable()
	return a
}

// Run executes one command line and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		a.printUsage()
		return ExitUsage
	}
	name := args[0]
	if name == "help" || name == "-h" || name == "--help" {
		a.printUsage()
		return ExitOK
	}
	cmd, ok := a.commands[name]
	if !ok {
		fmt.Fprintf(a.err, "unknown command %q\n\n", name)
		a.printUsage()
		return ExitUsage
	}

	a.sessions.Rehydrate(ctx)
	err := cmd.run(ctx, args[1:])
	reported := a.flushNotifications()

	var uErr usageError
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, flag.ErrHelp):
		return ExitOK
	case errors.As(err, &uErr):
		fmt.Fprintf(a.err, "%s\nusage: foodshare %s\n", uErr.msg, cmd.usage)
		return ExitUsage
	default:
		if reported == 0 {
			fmt.Fprintf(a.err, "error: %s\n", reconcile.Message(err))
		}
		a.logger.Debug("command failed", zap.String("command", name), zap.Error(err))
		return ExitFailure
	}
}

// flushNotifications prints pending notifications and returns how many
// errors were among them.
func (a *App) flushNotifications() int {
	errs := 0
	for _, n := range a.inbox.Drain() {
		switch n.Level {
		case reconcile.LevelError:
			errs++
			fmt.Fprintf(a.err, "error: %s\n", n.Message)
		default:
			fmt.Fprintf(a.err, "ok: %s\n", n.Message)
		}
	}
	return errs
}

func (a *App) printUsage() {
	names := make([]string, 0, len(a.commands))
	for name := range a.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("usage: foodshare <command> [flags]\n\ncommands:\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  %-16s %s\n", name, a.commands[name].summary)
	}
	fmt.Fprint(a.err, b.String())
}

// flags returns a flag set whose errors are reported as usage errors.
func (a *App) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.err)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return usageError{msg: err.Error()}
	}
	return nil
}

// positional takes n leading arguments before the flags, so that
// "update-food 3 -quantity 2" works with the standard flag parser.
func positional(args []string, n int, names ...string) ([]string, []string, error) {
	if len(args) < n {
		return nil, nil, usagef("missing %s", strings.Join(names[len(args):], ", "))
	}
	for _, v := range args[:n] {
		if strings.HasPrefix(v, "-") {
			return nil, nil, usagef("missing %s", strings.Join(names, ", "))
		}
	}
	return args[:n], args[n:], nil
}
