package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/Cruceru-B/todolist/internal/task"
)

const menuText = `
To-Do List:
1. Add a task
2. View tasks
3. Mark task as completed
4. Delete a task
5. Edit a task
6. Edit Task Priority
7. Edit Task Due Date
8. Exit`

// lineReader delivers input lines on a channel so a prompt can be abandoned
// when ctx is cancelled. Lines have no length limit.
type lineReader struct {
	lines chan readResult
	done  chan struct{}
	once  sync.Once
}

type readResult struct {
	line string
	err  error
}

// errReadInput wraps read failures other than end of input.
var errReadInput = errors.New("reading input")

func newLineReader(r io.Reader) *lineReader {
	lr := &lineReader{lines: make(chan readResult), done: make(chan struct{})}
	go func() {
		defer close(lr.lines)
		br := bufio.NewReader(r)
		for {
			line, err := br.ReadString('\n')
			if line != "" {
				line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
				if !lr.send(readResult{line: line}) {
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					lr.send(readResult{err: fmt.Errorf("%w: %w", errReadInput, err)})
				}
				return
			}
		}
	}()
	return lr
}

func (lr *lineReader) send(res readResult) bool {
	select {
	case lr.lines <- res:
		return true
	case <-lr.done:
		return false
	}
}

// stop releases the reading goroutine once no more lines will be taken.
func (lr *lineReader) stop() {
	lr.once.Do(func() { close(lr.done) })
}

// next returns the next line, io.EOF at end of input, a read error, or ctx.Err().
func (lr *lineReader) next(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-lr.lines:
		if !ok {
			return "", io.EOF
		}
		return res.line, res.err
	}
}

type menu struct {
	*app
	ctx    context.Context
	reader *lineReader
}

// menuCommand runs the numbered menu until the user exits or input ends.
func menuCommand(ctx context.Context, a *app, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	m := &menu{app: a, ctx: ctx, reader: newLineReader(a.in)}
	defer m.reader.stop()
	m.tasks = task.NewManager(a.store, a.log.With("ui", "menu"))

	for {
		fmt.Fprintln(m.out, menuText)
		choice, err := m.prompt("Choose an option: ")
		if err == nil {
			err = m.dispatch(strings.TrimSpace(choice))
		}
		switch {
		case errors.Is(err, errExit):
			fmt.Fprintln(m.out, "Goodbye!")
			return nil
		case errors.Is(err, io.EOF):
			fmt.Fprintln(m.out)
			fmt.Fprintln(m.out, "Goodbye!")
			return nil
		case err != nil:
			return err
		}
	}
}

var errExit = errors.New("exit")

// dispatch runs one menu action. It only returns errors that end the menu.
func (m *menu) dispatch(choice string) error {
	switch choice {
	case "1":
		return m.add()
	case "2":
		m.view()
		return nil
	case "3":
		return m.withRow("Enter the task number to mark as completed: ", func(e task.Entry, index int) error {
			next, err := m.tasks.Complete(m.list, index)
			if err != nil {
				return err
			}
			m.list = next
			fmt.Fprintf(m.out, "Task '%s' marked as completed.\n", next[index].Name)
			return nil
		})
	case "4":
		return m.withRow("Enter the task number to delete: ", func(e task.Entry, index int) error {
			next, err := m.tasks.Delete(m.list, index)
			if err != nil {
				return err
			}
			fmt.Fprintf(m.out, "Task '%s' deleted.\n", e.Task.Name)
			m.list = next
			return nil
		})
	case "5":
		return m.withRow("Enter the task number to edit: ", func(e task.Entry, index int) error {
			name, err := m.prompt("Enter the new task name: ")
			if err != nil {
				return err
			}
			next, err := m.tasks.EditName(m.list, index, name)
			if err != nil {
				return err
			}
			m.list = next
			fmt.Fprintf(m.out, "Task '%s' updated to '%s'.\n", e.Task.Name, name)
			return nil
		})
	case "6":
		return m.withRow("Enter the task number to edit priority: ", func(e task.Entry, index int) error {
			input, err := m.prompt("Enter the new priority (High, Medium, Low): ")
			if err != nil {
				return err
			}
			priority := task.NormalizePriority(input)
			next, err := m.tasks.EditPriority(m.list, index, priority)
			if err != nil {
				return err
			}
			m.list = next
			fmt.Fprintf(m.out, "Task '%s' priority updated to '%s'.\n", e.Task.Name, priority)
			return nil
		})
	case "7":
		return m.withRow("Enter the task number to edit due date: ", func(e task.Entry, index int) error {
			input, err := m.prompt("Enter the new due date (YYYY-MM-DD): ")
			if err != nil {
				return err
			}
			next, err := m.tasks.EditDueDate(m.list, index, strings.TrimSpace(input))
			if err != nil {
				return err
			}
			m.list = next
			fmt.Fprintf(m.out, "Task '%s' due date updated to '%s'.\n", e.Task.Name, next[index].DueDate)
			return nil
		})
	case "8":
		return errExit
	default:
		fmt.Fprintln(m.out, "Invalid choice. Please try again.")
		return nil
	}
}

func (m *menu) add() error {
	name, err := m.prompt("Enter the task: ")
	if err != nil {
		return err
	}
	priority, err := m.prompt("Enter priority (High, Medium, Low): ")
	if err != nil {
		return err
	}
	due, err := m.prompt("Enter due date (YYYY-MM-DD) or leave blank for no due date: ")
	if err != nil {
		return err
	}

	next, err := m.tasks.Add(m.list, name, task.NormalizePriority(priority), strings.TrimSpace(due))
	if err != nil {
		m.report(err)
		return nil
	}
	m.list = next
	fmt.Fprintf(m.out, "Task '%s' added.\n", name)
	return nil
}

func (m *menu) view() []task.Entry {
	entries := m.tasks.View(m.list)
	printView(m.out, entries)
	return entries
}

// withRow shows the view, reads a row number and calls fn with the matching
// entry and list position. Input errors are printed; only end-of-input and
// cancellation are returned.
func (m *menu) withRow(label string, fn func(e task.Entry, index int) error) error {
	entries := m.view()
	input, err := m.prompt(label)
	if err != nil {
		return err
	}
	row, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		fmt.Fprintln(m.out, "Invalid input, please enter a valid task number.")
		return nil
	}

	index := rowIndex(entries, row)
	var e task.Entry
	if row >= 1 && row <= len(entries) {
		e = entries[row-1]
	}
	if err := fn(e, index); err != nil {
		if endsInput(err) {
			return err
		}
		m.report(err)
	}
	return nil
}

// endsInput reports whether err means no more input will arrive.
func endsInput(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, errReadInput) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (m *menu) prompt(label string) (string, error) {
	fmt.Fprint(m.out, label)
	return m.reader.next(m.ctx)
}

// report prints the user-facing message for a failed operation.
func (m *menu) report(err error) {
	switch {
	case errors.Is(err, task.ErrInvalidDate):
		fmt.Fprintln(m.out, "Invalid date format! Please enter in YYYY-MM-DD format!")
	case errors.Is(err, task.ErrInvalidIndex):
		fmt.Fprintln(m.out, "Invalid task number.")
	default:
		fmt.Fprintf(m.out, "Error: %v\n", err)
	}
}
