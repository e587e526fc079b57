// Package jsonfile stores lessons in a JSON array file, the same shape as the
// agent memory file (`["lesson 1", "lesson 2"]`).
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/slok/daysim/internal/log"
	"github.com/slok/daysim/internal/model"
)

// RepositoryConfig is the configuration for the JSON file repository.
type RepositoryConfig struct {
	Path   string
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.Path == "" {
		return fmt.Errorf("path is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.JSONFile"})
	return nil
}

// Repository implements storage.LessonRepository on a JSON file. Access is guarded
// with a lock file so several processes can share it.
type Repository struct {
	path     string
	lockPath string
	logger   log.Logger
}

// NewRepository creates a new JSON file repository. The file doesn't need to exist.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{
		path:     cfg.Path,
		lockPath: cfg.Path + ".lock",
		logger:   cfg.Logger,
	}, nil
}

// AppendLesson appends a lesson keeping only the most recent keep lessons.
func (r *Repository) AppendLesson(ctx context.Context, lesson string, keep int) error {
	if keep <= 0 {
		return fmt.Errorf("keep must be positive: %w", model.ErrNotValid)
	}

	lock, err := r.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer r.releaseLock(lock)

	if err := ctx.Err(); err != nil {
		return err
	}

	lessons := append(r.read(), lesson)
	if len(lessons) > keep {
		lessons = lessons[len(lessons)-keep:]
	}

	if err := r.write(lessons); err != nil {
		return err
	}

	r.logger.Debugf("Appended lesson, %d stored", len(lessons))
	return nil
}

// ListLessons returns the stored lessons, oldest first. A missing or unreadable file
// is an empty history.
func (r *Repository) ListLessons(ctx context.Context) ([]string, error) {
	lock, err := r.acquireLock(syscall.LOCK_SH)
	if err != nil {
		return nil, err
	}
	defer r.releaseLock(lock)

	return r.read(), nil
}

func (r *Repository) read() []string {
	content, err := os.ReadFile(r.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.logger.Warningf("Could not read lessons file, using empty history: %s", err)
		}
		return []string{}
	}

	var lessons []string
	if err := json.Unmarshal(content, &lessons); err != nil {
		r.logger.Warningf("Corrupted lessons file, using empty history: %s", err)
		return []string{}
	}
	if lessons == nil {
		lessons = []string{}
	}

	return lessons
}

func (r *Repository) write(lessons []string) error {
	content, err := json.MarshalIndent(lessons, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal lessons: %w", err)
	}

	// Write to temp file first, then rename for atomicity.
	tmpPath := r.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, r.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

func (r *Repository) acquireLock(lockType int) (*os.File, error) {
	dir := filepath.Dir(r.lockPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock, err := os.OpenFile(r.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func (r *Repository) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}
