package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	yaml "gopkg.in/yaml.v3"

	"github.com/Cruceru-B/todolist/internal/task"
)

func sample() task.List {
	return task.List{
		{Name: "buy milk", Priority: "High", DueDate: "2025-01-05"},
		{Name: "call, then \"email\"", Completed: true, Priority: "Low", DueDate: task.NoDueDate},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sample(), "json"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\n  {\n    \"task\": \"buy milk\"") {
		t.Errorf("unexpected layout:\n%s", buf.String())
	}
	var got task.List
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, sample()) {
		t.Errorf("got %+v", got)
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sample(), "YAML"); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "- task: buy milk\n") {
		t.Errorf("unexpected layout:\n%s", buf.String())
	}
	var got task.List
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, sample()) {
		t.Errorf("got %+v", got)
	}
}

func TestWriteTOML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sample(), "toml"); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "[[tasks]]") != 2 {
		t.Errorf("want two [[tasks]] tables:\n%s", buf.String())
	}
	var doc tomlDocument
	if _, err := toml.Decode(buf.String(), &doc); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(doc.Tasks, sample()) {
		t.Errorf("got %+v", doc.Tasks)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sample(), "csv"); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "task,completed,priority,due_date\n") {
		t.Errorf("unexpected header:\n%s", buf.String())
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		csvHeader,
		{"buy milk", "false", "High", "2025-01-05"},
		{"call, then \"email\"", "true", "Low", "9999-12-31"},
	}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("records = %q", records)
	}
}

func TestWriteEmpty(t *testing.T) {
	tests := map[string]string{
		"json": "[]\n",
		"csv":  "task,completed,priority,due_date\n",
	}
	for format, want := range tests {
		var buf bytes.Buffer
		if err := Write(&buf, nil, format); err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		if buf.String() != want {
			t.Errorf("%s: got %q, want %q", format, buf.String(), want)
		}
	}
}

func TestWriteUnsupported(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, sample(), "xml")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %q", buf.String())
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]string{
		"out.json":       FormatJSON,
		"out.YML":        FormatYAML,
		"dir/out.yaml":   FormatYAML,
		"out.toml":       FormatTOML,
		"out.csv":        FormatCSV,
		"out.txt":        "",
		"no-extension":   "",
		"archive.tar.gz": "",
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}
