// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
//  1. Built-in defaults
//  2. User config file (~/.todolist/todolist.toml or the OS config directory)
//  3. Project config file (todolist.toml or .todolist.toml in the working directory)
//  4. Environment variables (TODOLIST_*)
//  5. CLI flags
//
// Each level overrides the previous one.
package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// Default values.
const (
	DefaultTaskFile   = "tasks.json"
	DefaultLogDir     = "~/.todolist/logs"
	DefaultLogLevel   = "warn"
	DefaultLogFormat  = "text"
	DefaultSessionLog = true

	// AppName names the user config directory and file.
	AppName = "todolist"
)

// Config holds the full configuration for todolist.
type Config struct {
	// Paths
	TaskFile   string `toml:"task_file"`
	SchemaFile string `toml:"schema_file"`
	LogDir     string `toml:"log_dir"`

	// Logging
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	SessionLog    bool   `toml:"session_log"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// ConfigWithSources holds configuration along with the source of each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// configFields returns the configurable keys, in display order.
func configFields() []string {
	return []string{
		"task_file",
		"schema_file",
		"log_dir",
		"log_level",
		"log_format",
		"log_timestamps",
		"session_log",
	}
}

// Fields returns the configurable keys in display order.
func Fields() []string {
	return configFields()
}

// Value returns the string form of a configurable key.
func (c *Config) Value(field string) string {
	switch field {
	case "task_file":
		return c.TaskFile
	case "schema_file":
		return c.SchemaFile
	case "log_dir":
		return c.LogDir
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return boolString(c.LogTimestamps)
	case "session_log":
		return boolString(c.SessionLog)
	}
	return ""
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.TaskFile = DefaultTaskFile
	cfg.SchemaFile = ""
	cfg.LogDir = DefaultLogDir
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = false
	cfg.SessionLog = DefaultSessionLog
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
