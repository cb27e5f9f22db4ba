package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Cruceru-B/todolist/internal/export"
	"github.com/Cruceru-B/todolist/internal/task"
)

// parseInterspersed parses fs over args, allowing flags after positional
// arguments ("edit 2 -name x"). It returns the positional arguments.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

// rowIndex maps a 1-based row of the sorted view to a position in the list.
// Rows outside the view map to an out-of-range position.
func rowIndex(entries []task.Entry, row int) int {
	if row >= 1 && row <= len(entries) {
		return entries[row-1].Index
	}
	return row - 1
}

// parseRow parses a task number given on the command line.
func parseRow(s string) (int, error) {
	row, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", task.ErrInvalidIndex, s)
	}
	return row, nil
}

// singleRow parses the one task number a command expects.
func singleRow(cmd string, args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: todolist %s N", cmd)
	}
	return parseRow(args[0])
}

func printView(w io.Writer, entries []task.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No tasks found.")
		return
	}
	for row, e := range entries {
		fmt.Fprintln(w, task.FormatEntry(row+1, e.Task))
	}
}

// addCommand adds one task.
func addCommand(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("todolist add", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	name := fs.String("name", "", "Task name")
	priority := fs.String("priority", "", "Priority (High, Medium, Low)")
	due := fs.String("due", "", "Due date (YYYY-MM-DD)")

	rest, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if *name == "" {
		*name = strings.Join(rest, " ")
	} else if len(rest) > 0 {
		return fmt.Errorf("unexpected arguments: %v", rest)
	}
	if strings.TrimSpace(*name) == "" {
		return fmt.Errorf("task name is required")
	}

	next, err := a.tasks.Add(a.list, *name, task.NormalizePriority(*priority), strings.TrimSpace(*due))
	if err != nil {
		return err
	}
	a.list = next
	fmt.Fprintf(a.out, "Task '%s' added.\n", *name)
	return nil
}

// lsCommand prints the sorted view. Row numbers stay those of the full view
// when filtering, so they can be passed to done, rm and edit.
func lsCommand(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("todolist ls", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	pending := fs.Bool("pending", false, "Only pending tasks")
	done := fs.Bool("done", false, "Only completed tasks")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if *pending && *done {
		return fmt.Errorf("-pending and -done are mutually exclusive")
	}

	entries := a.tasks.View(a.list)
	if len(entries) == 0 {
		printView(a.out, entries)
		return nil
	}

	shown := 0
	for row, e := range entries {
		if (*pending && e.Task.Completed) || (*done && !e.Task.Completed) {
			continue
		}
		fmt.Fprintln(a.out, task.FormatEntry(row+1, e.Task))
		shown++
	}
	if shown == 0 {
		fmt.Fprintln(a.out, "No tasks found.")
	}

	c := task.Count(a.list)
	fmt.Fprintf(a.out, "\n%d tasks, %d pending, %d completed\n", c.Total, c.Pending, c.Completed)
	return nil
}

// doneCommand marks one task completed.
func doneCommand(ctx context.Context, a *app, args []string) error {
	row, err := singleRow("done", args)
	if err != nil {
		return err
	}
	index := rowIndex(a.tasks.View(a.list), row)
	next, err := a.tasks.Complete(a.list, index)
	if err != nil {
		return err
	}
	a.list = next
	fmt.Fprintf(a.out, "Task '%s' marked as completed.\n", next[index].Name)
	return nil
}

// rmCommand deletes one task.
func rmCommand(ctx context.Context, a *app, args []string) error {
	row, err := singleRow("rm", args)
	if err != nil {
		return err
	}
	index := rowIndex(a.tasks.View(a.list), row)
	next, err := a.tasks.Delete(a.list, index)
	if err != nil {
		return err
	}
	name := a.list[index].Name
	a.list = next
	fmt.Fprintf(a.out, "Task '%s' deleted.\n", name)
	return nil
}

// editCommand applies each supplied field change to one task. The due date
// is checked before anything is written.
func editCommand(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("todolist edit", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	name := fs.String("name", "", "New task name")
	priority := fs.String("priority", "", "New priority (High, Medium, Low)")
	due := fs.String("due", "", "New due date (YYYY-MM-DD)")

	rest, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	row, err := singleRow("edit", rest)
	if err != nil {
		return err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	if len(set) == 0 {
		return fmt.Errorf("nothing to change: pass -name, -priority or -due")
	}
	*due = strings.TrimSpace(*due)
	if set["due"] {
		if _, err := task.ParseDueDate(*due); err != nil {
			return err
		}
	}

	index := rowIndex(a.tasks.View(a.list), row)
	list := a.list
	if set["name"] {
		if list, err = a.tasks.EditName(list, index, *name); err != nil {
			return err
		}
		a.list = list
		fmt.Fprintf(a.out, "Task updated to '%s'.\n", *name)
	}
	if set["priority"] {
		p := task.NormalizePriority(*priority)
		if list, err = a.tasks.EditPriority(list, index, p); err != nil {
			return err
		}
		a.list = list
		fmt.Fprintf(a.out, "Task '%s' priority updated to '%s'.\n", list[index].Name, p)
	}
	if set["due"] {
		if list, err = a.tasks.EditDueDate(list, index, *due); err != nil {
			return err
		}
		a.list = list
		fmt.Fprintf(a.out, "Task '%s' due date updated to '%s'.\n", list[index].Name, list[index].DueDate)
	}
	return nil
}

// exportCommand writes the stored list in an interchange format.
func exportCommand(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("todolist export", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	format := fs.String("format", "", "Export format (json|yaml|toml|csv)")
	out := fs.String("out", "", "Output file path (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if *format == "" {
		*format = export.FormatFromPath(*out)
	}
	if *format == "" {
		*format = export.FormatJSON
	}

	if *out == "" {
		return export.Write(a.out, a.list, *format)
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", *out, err)
	}
	if err := export.Write(f, a.list, *format); err != nil {
		f.Close()
		os.Remove(*out)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", *out, err)
	}
	a.log.Info("tasks exported", "file", *out, "format", *format, "count", len(a.list))
	fmt.Fprintf(a.out, "Tasks exported to %s in %s format\n", *out, *format)
	return nil
}
