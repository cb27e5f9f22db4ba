package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# todolist configuration file
# Values can be overridden by TODOLIST_* environment variables or CLI flags.

# Task file (relative to the working directory)
task_file = "tasks.json"

# Optional external JSON Schema used by "todolist doctor"
# schema_file = "tasks.schema.json"

# Session log directory (supports ~ expansion)
log_dir = "~/.todolist/logs"

# Console logging: debug, info, warn, error
log_level = "warn"

# Console log format: text, json, logfmt
log_format = "text"
log_timestamps = false

# Write a JSONL journal of every session under log_dir
session_log = true
`
}
