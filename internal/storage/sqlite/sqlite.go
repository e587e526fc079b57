package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/slok/daysim/internal/log"
	"github.com/slok/daysim/internal/model"
	"github.com/slok/daysim/internal/storage/sqlite/migrations"
)

// RepositoryConfig is the configuration for the SQLite repository.
type RepositoryConfig struct {
	DBPath string
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.SQLite"})
	return nil
}

// Repository is a SQLite implementation of storage.LessonRepository and storage.DayResultRepository.
type Repository struct {
	db     *sql.DB
	logger log.Logger
}

// NewRepository creates a new SQLite repository.
func NewRepository(ctx context.Context, cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	dir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create db directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", cfg.DBPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}
	// SQLite has a single writer, serialize at the pool so appends never see busy errors.
	db.SetMaxOpenConns(1)

	migrator, err := migrations.NewMigrator(db, cfg.Logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create migrator: %w", err)
	}
	if err := migrator.Up(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not run migrations: %w", err)
	}

	version, _, err := migrator.Version(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not read schema version: %w", err)
	}
	cfg.Logger.Debugf("SQLite repository initialized at %s (schema v%d)", cfg.DBPath, version)

	return &Repository{db: db, logger: cfg.Logger}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error { return r.db.Close() }

// AppendLesson inserts a lesson and removes everything older than the most recent keep
// lessons in the same transaction.
func (r *Repository) AppendLesson(ctx context.Context, lesson string, keep int) error {
	if keep <= 0 {
		return fmt.Errorf("keep must be positive: %w", model.ErrNotValid)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // Rollback is safe to call after Commit

	_, err = tx.ExecContext(ctx,
		`INSERT INTO lessons (id, text, created_at) VALUES (?, ?, ?)`,
		ulid.Make().String(), lesson, time.Now().UTC().Unix(),
	)
	if err != nil {
		return fmt.Errorf("could not insert lesson: %w", err)
	}

	query := `
		DELETE FROM lessons
		WHERE seq NOT IN (
			SELECT seq FROM lessons ORDER BY seq DESC LIMIT ?
		)
	`
	result, err := tx.ExecContext(ctx, query, keep)
	if err != nil {
		return fmt.Errorf("could not truncate lessons: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	dropped, _ := result.RowsAffected()
	r.logger.Debugf("Appended lesson, dropped %d old lessons", dropped)
	return nil
}

// ListLessons returns the stored lessons, oldest first.
func (r *Repository) ListLessons(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT text FROM lessons ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("could not query lessons: %w", err)
	}
	defer rows.Close()

	lessons := []string{}
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("could not scan row: %w", err)
		}
		lessons = append(lessons, text)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return lessons, nil
}
