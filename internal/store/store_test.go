package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Cruceru-B/todolist/internal/task"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "tasks.json"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func writeFile(t *testing.T, s *Store, content string) {
	t.Helper()
	if err := os.WriteFile(s.Path(), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestNewEmptyPath(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestLoadMissingFile(t *testing.T) {
	s := newStore(t)
	l, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if l == nil || len(l) != 0 {
		t.Errorf("Load = %#v, want empty list", l)
	}
	if s.Exists() {
		t.Error("Exists should be false before first save")
	}
}

func TestAddThenReload(t *testing.T) {
	s := newStore(t)
	m := task.NewManager(s, nil)

	if _, err := m.Add(nil, "X", "High", "2025-01-01"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	fresh, err := New(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	l, err := fresh.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := task.Task{Name: "X", Completed: false, Priority: "High", DueDate: "2025-01-01"}
	if len(l) != 1 || l[0] != want {
		t.Errorf("reloaded = %+v, want [%+v]", l, want)
	}
}

func TestInvalidDateLeavesFileUntouched(t *testing.T) {
	s := newStore(t)
	m := task.NewManager(s, nil)

	l, err := m.Add(nil, "A", "Low", "")
	if err != nil {
		t.Fatal(err)
	}
	before, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := m.Add(l, "Y", "Low", "2025-13-40"); !errors.Is(err, task.ErrInvalidDate) {
		t.Fatalf("err = %v, want ErrInvalidDate", err)
	}

	after, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Errorf("file changed:\nbefore %s\nafter  %s", before, after)
	}
}

func TestSaveFormat(t *testing.T) {
	s := newStore(t)
	l := task.List{{Name: "a", Priority: "Low", DueDate: task.NoDueDate}}
	if err := s.Save(l); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	want := `[
  {
    "task": "a",
    "completed": false,
    "priority": "Low",
    "due_date": "9999-12-31"
  }
]
`
	if string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}
}

func TestSaveEmptyWritesArray(t *testing.T) {
	s := newStore(t)
	if err := s.Save(nil); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(s.Path())
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("file = %q, want []", data)
	}
}

func TestSaveCreatesParentDir(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "nested", "dir", "tasks.json"))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(task.List{}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !s.Exists() {
		t.Error("file not created")
	}
}

func TestLoadMissingDueDateGetsSentinel(t *testing.T) {
	s := newStore(t)
	writeFile(t, s, `[{"task": "legacy", "completed": true, "priority": "Medium"}]`)

	l, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if l[0].DueDate != task.NoDueDate || !l[0].Completed {
		t.Errorf("loaded = %+v", l[0])
	}
}

func TestLoadToleratesExtraFields(t *testing.T) {
	s := newStore(t)
	writeFile(t, s, `[{"task": "x", "completed": false, "priority": "Low", "due_date": "2025-01-01", "note": "hi"}]`)
	if _, err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestLoadMatchesKeysExactly(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			"mixed case key is not the due date",
			`[{"task": "a", "completed": false, "priority": "High", "Due_Date": "garbage"}]`,
			task.NoDueDate,
		},
		{
			"upper case duplicate does not override",
			`[{"task": "a", "completed": false, "priority": "High", "due_date": "2025-01-01", "DUE_DATE": "nope"}]`,
			"2025-01-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			writeFile(t, s, tt.content)

			l, err := s.Load()
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if l[0].DueDate != tt.want {
				t.Fatalf("DueDate = %q, want %q", l[0].DueDate, tt.want)
			}

			m := task.NewManager(s, nil)
			if _, err := m.Complete(l, 0); err != nil {
				t.Fatalf("Complete: %v", err)
			}
			reloaded, err := s.Load()
			if err != nil {
				t.Fatalf("reload after save: %v", err)
			}
			if !reloaded[0].Completed || reloaded[0].DueDate != tt.want {
				t.Errorf("reloaded = %+v", reloaded[0])
			}
		})
	}
}

func TestLoadCorrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
		detail  string
	}{
		{"not json", `{{{`, ""},
		{"empty file", ``, ""},
		{"object instead of array", `{"task": "x"}`, ""},
		{"null", `null`, ""},
		{"missing priority", `[{"task": "x", "completed": false}]`, "[0]"},
		{"completed not bool", `[{"task": "x", "completed": "no", "priority": "Low"}]`, "[0].completed"},
		{"bad due date", `[{"task": "x", "completed": false, "priority": "Low", "due_date": "2025-13-40"}]`, "[0].due_date"},
		{"array of strings", `["x"]`, "[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			writeFile(t, s, tt.content)

			_, err := s.Load()
			if !errors.Is(err, ErrCorruptData) {
				t.Fatalf("Load error = %v, want ErrCorruptData", err)
			}
			if !strings.Contains(err.Error(), s.Path()) {
				t.Errorf("error does not name file: %v", err)
			}
			if tt.detail != "" && !strings.Contains(err.Error(), tt.detail) {
				t.Errorf("error %q missing location %q", err, tt.detail)
			}
		})
	}
}

func TestLoadUnreadable(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir) // a directory, not a file
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.Load()
	if err == nil || errors.Is(err, ErrCorruptData) {
		t.Errorf("Load on directory = %v, want plain read error", err)
	}
}
