// Package export writes task lists in interchange formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	yaml "gopkg.in/yaml.v3"

	"github.com/Cruceru-B/todolist/internal/task"
)

// Supported formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
	FormatCSV  = "csv"
)

// ErrUnsupportedFormat is returned for a format other than the ones above.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// csvHeader names the CSV columns, matching the JSON field names.
var csvHeader = []string{"task", "completed", "priority", "due_date"}

// tomlDocument wraps the list because TOML has no top-level arrays.
type tomlDocument struct {
	Tasks task.List `toml:"tasks"`
}

// Formats lists the supported formats.
func Formats() []string {
	return []string{FormatJSON, FormatYAML, FormatTOML, FormatCSV}
}

// FormatFromPath infers a format from a file extension. It returns "" when
// the extension is not recognized.
func FormatFromPath(path string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "json":
		return FormatJSON
	case "yaml", "yml":
		return FormatYAML
	case "toml":
		return FormatTOML
	case "csv":
		return FormatCSV
	}
	return ""
}

// Write encodes l to w in the given format, in stored order.
func Write(w io.Writer, l task.List, format string) error {
	if l == nil {
		l = task.List{}
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(l); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(l); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(tomlDocument{Tasks: l}); err != nil {
			return fmt.Errorf("encoding toml: %w", err)
		}
	case FormatCSV:
		return writeCSV(w, l)
	default:
		return fmt.Errorf("%w: %q (want one of %s)", ErrUnsupportedFormat, format, strings.Join(Formats(), ", "))
	}
	return nil
}

func writeCSV(w io.Writer, l task.List) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("encoding csv: %w", err)
	}
	for _, t := range l {
		record := []string{t.Name, strconv.FormatBool(t.Completed), t.Priority, t.DueDate}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("encoding csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("encoding csv: %w", err)
	}
	return nil
}
