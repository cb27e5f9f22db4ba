package task

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// DateLayout is the on-disk and input format for due dates.
const DateLayout = "2006-01-02"

// NoDueDate is stored for tasks without a due date. It sorts after every real date.
const NoDueDate = "9999-12-31"

// Priority values with a defined rank.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

var (
	// ErrInvalidDate is returned when a due date is not a YYYY-MM-DD calendar date.
	ErrInvalidDate = errors.New("invalid date format, expected YYYY-MM-DD")
	// ErrInvalidIndex is returned when a position is outside the list.
	ErrInvalidIndex = errors.New("invalid task number")
)

// Task is a single to-do item.
type Task struct {
	Name      string `json:"task" yaml:"task" toml:"task"`
	Completed bool   `json:"completed" yaml:"completed" toml:"completed"`
	Priority  string `json:"priority" yaml:"priority" toml:"priority"`
	DueDate   string `json:"due_date" yaml:"due_date" toml:"due_date"`
}

// HasDueDate reports whether the task carries a real due date.
func (t Task) HasDueDate() bool {
	return t.DueDate != "" && t.DueDate != NoDueDate
}

// Status returns the display label for the completion flag.
func (t Task) Status() string {
	if t.Completed {
		return "Completed"
	}
	return "Not completed"
}

// List is an ordered task collection in insertion order.
type List []Task

// Clone returns an independent copy of l.
func (l List) Clone() List {
	if l == nil {
		return nil
	}
	out := make(List, len(l))
	copy(out, l)
	return out
}

// Entry is a task in a sorted view together with its position in the source list.
type Entry struct {
	Index int
	Task  Task
}

// ParseDueDate validates s as a calendar date and returns it in canonical
// YYYY-MM-DD form. Unpadded months and days ("2025-1-5") are accepted;
// surrounding whitespace is not.
func ParseDueDate(s string) (string, error) {
	for _, layout := range []string{DateLayout, "2006-1-2"} {
		if d, err := time.Parse(layout, s); err == nil {
			return d.Format(DateLayout), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// PriorityRank maps a priority to its sort rank. Unknown priorities rank 4.
func PriorityRank(p string) int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// NormalizePriority upper-cases the first letter and lower-cases the rest,
// so "high" and "HIGH" both become "High".
func NormalizePriority(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return p
	}
	r, size := utf8.DecodeRuneInString(p)
	return string(unicode.ToUpper(r)) + strings.ToLower(p[size:])
}

// dueKey returns the comparable form of a due date. Unparseable or missing
// dates compare as the sentinel.
func dueKey(s string) string {
	if d, err := ParseDueDate(s); err == nil {
		return d
	}
	return NoDueDate
}

// Less reports whether a sorts before b.
func Less(a, b Task) bool {
	da, db := dueKey(a.DueDate), dueKey(b.DueDate)
	if da != db {
		return da < db
	}
	return PriorityRank(a.Priority) < PriorityRank(b.Priority)
}

// Sort orders l in place by due date, then priority rank. Ties keep their order.
func Sort(l List) {
	sort.SliceStable(l, func(i, j int) bool {
		return Less(l[i], l[j])
	})
}

// View returns the sorted view of l. l itself is not reordered.
func View(l List) []Entry {
	entries := make([]Entry, len(l))
	for i, t := range l {
		entries[i] = Entry{Index: i, Task: t}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return Less(entries[i].Task, entries[j].Task)
	})
	return entries
}

// Counts summarizes completion across a list.
type Counts struct {
	Total     int
	Pending   int
	Completed int
}

// Count tallies l.
func Count(l List) Counts {
	c := Counts{Total: len(l)}
	for _, t := range l {
		if t.Completed {
			c.Completed++
		} else {
			c.Pending++
		}
	}
	return c
}

// FormatEntry renders one line of a view, numbered from 1.
func FormatEntry(row int, t Task) string {
	due := t.DueDate
	if due == "" {
		due = "No due date"
	}
	return fmt.Sprintf("%d. %s - %s - Priority: %s - Due: %s", row, t.Name, t.Status(), t.Priority, due)
}
