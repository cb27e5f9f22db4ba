package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateReportsEveryViolation(t *testing.T) {
	s := newStore(t)
	writeFile(t, s, `[
  {"task": "ok", "completed": false, "priority": "Low"},
  {"task": 7, "completed": false, "priority": "Low"},
  {"task": "x", "completed": false, "priority": "Low", "due_date": "soon"}
]`)

	result := s.Validate("")
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if result.Schema != "built-in" {
		t.Errorf("Schema = %q", result.Schema)
	}

	var paths []string
	for _, err := range result.Errors {
		paths = append(paths, err.Error())
	}
	joined := strings.Join(paths, "\n")
	for _, want := range []string{"[1].task", "[2].due_date"} {
		if !strings.Contains(joined, want) {
			t.Errorf("errors missing %s:\n%s", want, joined)
		}
	}
}

func TestValidateValidFile(t *testing.T) {
	s := newStore(t)
	writeFile(t, s, `[{"task": "ok", "completed": true, "priority": "High", "due_date": "9999-12-31"}]`)
	result := s.Validate("")
	if !result.Valid {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
}

func TestValidateMissingFile(t *testing.T) {
	s := newStore(t)
	result := s.Validate("")
	if result.Valid || len(result.Errors) != 1 {
		t.Errorf("result = %+v", result)
	}
}

func TestValidateInvalidJSON(t *testing.T) {
	s := newStore(t)
	writeFile(t, s, `[`)
	result := s.Validate("")
	if result.Valid {
		t.Fatal("expected invalid")
	}
	if !strings.Contains(result.Errors[0].Error(), "invalid JSON") {
		t.Errorf("error = %v", result.Errors[0])
	}
}

func TestValidateExternalSchema(t *testing.T) {
	s := newStore(t)
	writeFile(t, s, `[{"task": "", "completed": false, "priority": "Low"}]`)

	schemaPath := filepath.Join(t.TempDir(), "strict.schema.json")
	strict := `{
  "type": "array",
  "items": {
    "type": "object",
    "properties": {"task": {"type": "string", "minLength": 1}}
  }
}`
	if err := os.WriteFile(schemaPath, []byte(strict), 0644); err != nil {
		t.Fatal(err)
	}

	result := s.Validate(schemaPath)
	if result.Valid {
		t.Fatal("strict schema should reject empty name")
	}
	if result.Schema != schemaPath {
		t.Errorf("Schema = %q, want %q", result.Schema, schemaPath)
	}
}

func TestValidateMissingExternalSchemaFallsBack(t *testing.T) {
	s := newStore(t)
	writeFile(t, s, `[]`)

	result := s.Validate(filepath.Join(t.TempDir(), "nope.json"))
	if !result.Valid {
		t.Errorf("errors: %v", result.Errors)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "not found") {
		t.Errorf("warnings = %v", result.Warnings)
	}
	if result.Schema != "built-in" {
		t.Errorf("Schema = %q", result.Schema)
	}
}

func TestJSONPointerToPath(t *testing.T) {
	tests := map[string]string{
		"":              "",
		"#":             "",
		"/0":            "[0]",
		"/2/due_date":   "[2].due_date",
		"#/1/task":      "[1].task",
		"/a~1b/c~0d":    "a/b.c~d",
		"/tasks/3/name": "tasks[3].name",
	}
	for in, want := range tests {
		if got := jsonPointerToPath(in); got != want {
			t.Errorf("jsonPointerToPath(%q) = %q, want %q", in, got, want)
		}
	}
}
