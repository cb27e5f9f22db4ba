// Package cmd implements the CLI command structure for todolist.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Cruceru-B/todolist/internal/config"
	"github.com/Cruceru-B/todolist/internal/logging"
	"github.com/Cruceru-B/todolist/internal/store"
	"github.com/Cruceru-B/todolist/internal/task"
	"github.com/Cruceru-B/todolist/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// streams carries the standard I/O of one invocation.
type streams struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

// app is the state shared by the commands that work on the task list.
type app struct {
	streams
	cfg     *config.Config
	log     *logging.Logger
	session *logging.Session
	store   *store.Store
	tasks   *task.Manager
	list    task.List
}

// Run executes the todolist CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, streams{in: os.Stdin, out: os.Stdout, errOut: os.Stderr})
}

func run(ctx context.Context, args []string, s streams) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("todolist", flag.ContinueOnError)
	fs.SetOutput(s.errOut)
	fs.Usage = func() {
		printUsage(fs, s.errOut)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, s.out)
		return nil
	}
	if *showVersion {
		return versionCommand(s.out)
	}

	// Determine the subcommand. The interactive menu is the default.
	subcommand := "menu"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "menu":
		return withApp(ctx, cws.Config, s, true, remainingArgs, menuCommand)
	case "add":
		return withApp(ctx, cws.Config, s, true, remainingArgs, addCommand)
	case "ls", "list":
		return withApp(ctx, cws.Config, s, false, remainingArgs, lsCommand)
	case "done":
		return withApp(ctx, cws.Config, s, true, remainingArgs, doneCommand)
	case "rm", "delete":
		return withApp(ctx, cws.Config, s, true, remainingArgs, rmCommand)
	case "edit":
		return withApp(ctx, cws.Config, s, true, remainingArgs, editCommand)
	case "tui":
		return withApp(ctx, cws.Config, s, true, remainingArgs, tuiCommand)
	case "export":
		return withApp(ctx, cws.Config, s, false, remainingArgs, exportCommand)
	case "doctor":
		return doctorCommand(cws, s, remainingArgs)
	case "config":
		fmt.Fprint(s.out, config.ExampleConfig())
		return nil
	case "tail":
		return tailCommand(ctx, cws.Config, s, remainingArgs)
	case "version":
		return versionCommand(s.out)
	case "help":
		printUsage(fs, s.out)
		return nil
	default:
		fmt.Fprintf(s.errOut, "Unknown command: %s\n", subcommand)
		printUsage(fs, s.errOut)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

type commandFunc func(ctx context.Context, a *app, args []string) error

// withApp opens the task store, runs fn and closes the session journal.
func withApp(ctx context.Context, cfg *config.Config, s streams, journal bool, args []string, fn commandFunc) error {
	a, err := openApp(cfg, s, journal)
	if err != nil {
		return err
	}
	defer a.close()
	return fn(ctx, a, args)
}

// openApp builds the logger, opens the session journal when requested and
// loads the task list. A corrupt task file is an error.
func openApp(cfg *config.Config, s streams, journal bool) (*app, error) {
	logger := logging.NewFromConfig(s.errOut, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps)
	a := &app{streams: s, cfg: cfg, log: logger}

	if journal && cfg.SessionLog {
		session, err := logging.NewSession(cfg.LogDir, cfg.ProjectRoot)
		if err != nil {
			logger.Warn("session log disabled", "err", err)
		} else {
			a.session = session
			logger.AddSink(session.Logger())
			logger.Debug("session started", "log", session.LogPath, "version", Version)
		}
	}

	st, err := store.New(cfg.TaskFile)
	if err != nil {
		a.close()
		return nil, err
	}
	list, err := st.Load()
	if err != nil {
		a.close()
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	logger.Debug("tasks loaded", "file", st.Path(), "exists", st.Exists(), "count", len(list))

	a.store = st
	a.list = list
	a.tasks = task.NewManager(st, logger)
	return a, nil
}

func (a *app) close() {
	if a.session == nil {
		return
	}
	a.log.Debug("session finished", "tasks", len(a.list))
	if err := a.session.Close(); err != nil {
		fmt.Fprintf(a.errOut, "closing session log: %v\n", err)
	}
}

// tuiCommand launches the full-screen interface.
func tuiCommand(ctx context.Context, a *app, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	mgr := task.NewManager(a.store, a.log.With("ui", "tui"))
	list, err := ui.RunTUI(ctx, mgr, a.store, a.list,
		ui.WithTaskPath(a.cfg.TaskFile),
		ui.WithOutput(a.out),
	)
	a.list = list
	return err
}

// doctorCommand reports where each setting came from and checks the task file.
func doctorCommand(cws *config.ConfigWithSources, s streams, args []string) error {
	fs := flag.NewFlagSet("todolist doctor", flag.ContinueOnError)
	fs.SetOutput(s.errOut)
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	cfg := cws.Config
	w := s.out
	fmt.Fprintln(w, "Todolist Doctor")
	fmt.Fprintln(w, "===============")
	fmt.Fprintln(w)

	allOK := true

	// Config
	fmt.Fprintln(w, "Config:")
	for _, field := range config.Fields() {
		value := cfg.Value(field)
		if value == "" {
			value = "(unset)"
		}
		fmt.Fprintf(w, "  %-15s %s (%s)\n", field, value, cws.Sources[field])
	}
	if len(cws.Files) == 0 {
		fmt.Fprintln(w, "  No config files found. Run 'todolist config > todolist.toml' to create one.")
	}
	for _, path := range cws.Files {
		fmt.Fprintf(w, "  Read: %s\n", path)
	}
	fmt.Fprintln(w)

	// Task file
	fmt.Fprintf(w, "Task file: %s\n", cfg.TaskFile)
	info, err := os.Stat(cfg.TaskFile)
	switch {
	case os.IsNotExist(err):
		fmt.Fprintln(w, "  ⚠️  Not found (will be created on first change)")
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	case info.IsDir():
		fmt.Fprintln(w, "  ❌ Error: path is a directory")
		allOK = false
	default:
		st, err := store.New(cfg.TaskFile)
		if err != nil {
			return err
		}
		result := st.Validate(cfg.SchemaFile)
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "  ⚠️  %s\n", warning)
		}
		fmt.Fprintf(w, "  Schema: %s\n", result.Schema)
		if result.Valid {
			fmt.Fprintln(w, "  ✅ Valid")
		} else {
			fmt.Fprintln(w, "  ❌ Validation failed:")
			for _, e := range result.Errors {
				fmt.Fprintf(w, "     - %v\n", e)
			}
			allOK = false
		}
		if result.Valid {
			if list, err := st.Load(); err == nil {
				c := task.Count(list)
				fmt.Fprintf(w, "  Tasks: %d (%d pending, %d completed)\n", c.Total, c.Pending, c.Completed)
				if *verbose {
					for row, e := range task.View(list) {
						fmt.Fprintf(w, "    %s\n", task.FormatEntry(row+1, e.Task))
					}
				}
			}
		}
	}
	fmt.Fprintln(w)

	// Log directory
	if cfg.SessionLog {
		logDir, err := logging.ProjectLogDir(cfg.LogDir, cfg.ProjectRoot)
		if err != nil {
			fmt.Fprintf(w, "Log directory: %s\n", cfg.LogDir)
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		} else {
			fmt.Fprintf(w, "Log directory: %s\n", logDir)
			if _, err := os.Stat(logDir); os.IsNotExist(err) {
				fmt.Fprintln(w, "  ⚠️  Not found (will be created on first session)")
			} else if err != nil {
				fmt.Fprintf(w, "  ❌ Error: %v\n", err)
				allOK = false
			} else {
				fmt.Fprintln(w, "  ✅ OK")
			}
		}
	} else {
		fmt.Fprintln(w, "Session log: disabled")
	}
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed.")
	return fmt.Errorf("doctor checks failed")
}

// tailCommand tails the latest session journal.
func tailCommand(ctx context.Context, cfg *config.Config, s streams, args []string) error {
	fs := flag.NewFlagSet("todolist tail", flag.ContinueOnError)
	fs.SetOutput(s.errOut)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logDir, err := logging.ProjectLogDir(cfg.LogDir, cfg.ProjectRoot)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}
	logPath, err := logging.FindLatestLog(logDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(s.out, "No log files found.")
		return nil
	}

	fmt.Fprintf(s.out, "Tailing: %s\n", logPath)
	if *follow {
		fmt.Fprintln(s.out, "(Ctrl+C to stop)")
	}
	fmt.Fprintln(s.out)

	return logging.TailLog(ctx, s.out, logPath, *n, *follow)
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "todolist version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Todolist - A small persistent to-do list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todolist [global options] [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  menu              Interactive numbered menu (default command)")
	fmt.Fprintln(w, "  add NAME          Add a task")
	fmt.Fprintln(w, "  ls                List tasks by due date, then priority")
	fmt.Fprintln(w, "  done N            Mark task N (as numbered by ls) completed")
	fmt.Fprintln(w, "  rm N              Delete task N")
	fmt.Fprintln(w, "  edit N            Change the name, priority or due date of task N")
	fmt.Fprintln(w, "  tui               Launch terminal UI")
	fmt.Fprintln(w, "  export            Write tasks as json, yaml, toml or csv")
	fmt.Fprintln(w, "  doctor            Check config and task file validity")
	fmt.Fprintln(w, "  config            Print an example config file")
	fmt.Fprintln(w, "  tail              Tail the latest session log")
	fmt.Fprintln(w, "  version           Show version information")
	fmt.Fprintln(w, "  help              Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Add Options:")
	fmt.Fprintln(w, "  -name string      Task name (or pass it as arguments)")
	fmt.Fprintln(w, "  -priority string  High, Medium or Low")
	fmt.Fprintln(w, "  -due string       Due date, YYYY-MM-DD")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Edit Options:")
	fmt.Fprintln(w, "  -name, -priority, -due   Fields to change")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options:")
	fmt.Fprintln(w, "  -pending          Only pending tasks")
	fmt.Fprintln(w, "  -done             Only completed tasks")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export Options:")
	fmt.Fprintln(w, "  -format string    json|yaml|toml|csv (default from -out extension, else json)")
	fmt.Fprintln(w, "  -out string       Output file (default stdout)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tail Options:")
	fmt.Fprintln(w, "  -f, --follow      Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int            Number of lines to show (0 = all)")
}
