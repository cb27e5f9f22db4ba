package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Session owns the JSONL journal for one invocation of the program.
type Session struct {
	Dir     string
	ID      string
	LogPath string
	file    *os.File
	logger  *log.Logger
}

// NewSession creates the project log directory under baseDir and opens a fresh journal.
func NewSession(baseDir, workDir string) (*Session, error) {
	logDir, err := ProjectLogDir(baseDir, workDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	id := sessionID()
	logPath := filepath.Join(logDir, id+".jsonl")
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	logger := log.NewWithOptions(file, log.Options{
		Level:           log.DebugLevel,
		Formatter:       log.JSONFormatter,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})

	return &Session{
		Dir:     logDir,
		ID:      id,
		LogPath: logPath,
		file:    file,
		logger:  logger,
	}, nil
}

// Logger returns the JSON logger bound to the journal file.
func (s *Session) Logger() *log.Logger {
	if s == nil {
		return nil
	}
	return s.logger
}

// Close closes the journal file.
func (s *Session) Close() error {
	if s == nil || s.file == nil {
		return nil
	}
	return s.file.Close()
}

// ProjectLogDir returns the journal directory for the project containing
// workDir: baseDir/<name>-<hash>. A relative baseDir is taken from workDir.
func ProjectLogDir(baseDir, workDir string) (string, error) {
	if baseDir == "" {
		return "", errors.New("log dir is not set")
	}
	if workDir == "" {
		workDir = "."
	}
	workDir, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve work dir: %w", err)
	}
	if !filepath.IsAbs(baseDir) {
		baseDir = filepath.Join(workDir, baseDir)
	}
	return filepath.Join(filepath.Clean(baseDir), projectKey(projectRoot(workDir))), nil
}

// projectRoot is the enclosing git worktree, or dir itself outside one, so
// runs from subdirectories share a journal directory.
func projectRoot(dir string) string {
	out, err := exec.Command("git", "-C", dir, "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return dir
	}
	if root := strings.TrimSpace(string(out)); root != "" {
		return root
	}
	return dir
}

// projectKey names a project's journal directory after its base name plus a
// short hash of the full path.
func projectKey(root string) string {
	sum := sha256.Sum256([]byte(root))
	return safeName(filepath.Base(root)) + "-" + hex.EncodeToString(sum[:4])
}

// safeName keeps [A-Za-z0-9._-] runs of name joined by single underscores.
func safeName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '.' || r == '_' || r == '-')
	})
	if slug := strings.Trim(strings.Join(parts, "_"), "_"); slug != "" {
		return slug
	}
	return "project"
}

func sessionID() string {
	return fmt.Sprintf("%s-%d", time.Now().UTC().Format("20060102-150405"), os.Getpid())
}
