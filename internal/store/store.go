// Package store reads and writes the task file.
//
// The file is a single JSON array of task objects:
//
//	[
//	  {"task": "Buy milk", "completed": false, "priority": "High", "due_date": "2025-01-01"}
//	]
//
// Every Save rewrites the whole file. A crash mid-write can leave it truncated;
// the next Load then reports ErrCorruptData.
package store

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Cruceru-B/todolist/internal/task"
)

// ErrCorruptData is returned by Load when the task file exists but is not a
// valid array of task records.
var ErrCorruptData = errors.New("corrupt task file")

//go:embed tasks.schema.json
var schemaJSON string

const schemaURL = "tasks.schema.json"

// Store persists a task list to a single JSON file.
type Store struct {
	path   string
	schema *jsonschema.Schema
}

// New returns a Store backed by path. The file need not exist yet.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("task file path is empty")
	}
	schema, err := compileSchema(schemaURL, strings.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("compile built-in schema: %w", err)
	}
	return &Store{path: path, schema: schema}, nil
}

// Path returns the task file location.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the task file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the task file. A missing file yields an empty list.
func (s *Store) Load() (task.List, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return task.List{}, nil
		}
		return nil, fmt.Errorf("read task file: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrCorruptData, s.path, err)
	}
	if err := s.schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w %s: %s", ErrCorruptData, s.path, firstViolation(err))
	}

	l, err := tasksFromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrCorruptData, s.path, err)
	}
	return l, nil
}

// tasksFromDocument builds the list from a schema-checked document. Keys are
// matched exactly, so "Due_Date" is an unknown field rather than the due date.
// Tasks stored without a due date get task.NoDueDate.
func tasksFromDocument(doc any) (task.List, error) {
	items, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("expected an array, got %T", doc)
	}
	l := make(task.List, 0, len(items))
	for i, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("[%d]: expected an object, got %T", i, item)
		}
		var t task.Task
		if t.Name, ok = rec["task"].(string); !ok {
			return nil, fmt.Errorf("[%d].task: expected a string", i)
		}
		if t.Completed, ok = rec["completed"].(bool); !ok {
			return nil, fmt.Errorf("[%d].completed: expected a boolean", i)
		}
		if t.Priority, ok = rec["priority"].(string); !ok {
			return nil, fmt.Errorf("[%d].priority: expected a string", i)
		}
		t.DueDate = task.NoDueDate
		if v, present := rec["due_date"]; present {
			raw, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("[%d].due_date: expected a string", i)
			}
			due, err := task.ParseDueDate(raw)
			if err != nil {
				return nil, fmt.Errorf("[%d].due_date: %w", i, err)
			}
			t.DueDate = due
		}
		l = append(l, t)
	}
	return l, nil
}

// Save overwrites the task file with l, 2-space indented with a trailing newline.
func (s *Store) Save(l task.List) error {
	if l == nil {
		l = task.List{}
	}
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create task file dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write task file: %w", err)
	}
	return nil
}

func firstViolation(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	if p := jsonPointerToPath(ve.InstanceLocation); p != "" {
		return p + ": " + ve.Message
	}
	return ve.Message
}
