package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	_ "modernc.org/sqlite"

	"github.com/kelsos/todos/internal/models"
)

// DatabaseFile is the name of the development store database inside the data directory
const DatabaseFile = "todos.db"

// ErrNotFound is returned when no todo has the requested id
var ErrNotFound = errors.New("todo not found")

// GetDataHome returns the per-user data directory of the platform
func GetDataHome() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return dataHome, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	switch runtime.GOOS {
	case "windows":
		if appData := os.Getenv("LOCALAPPDATA"); appData != "" {
			return appData, nil
		}
		return filepath.Join(homeDir, "AppData", "Local"), nil
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support"), nil
	default:
		return filepath.Join(homeDir, ".local", "share"), nil
	}
}

// GetDefaultDataDir returns where the development store keeps its database
func GetDefaultDataDir() (string, error) {
	dataHome, err := GetDataHome()
	if err != nil {
		return "", fmt.Errorf("failed to get data directory: %w", err)
	}
	return filepath.Join(dataHome, "todos"), nil
}

// SQLiteStore persists todos of every owner in one SQLite database
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (and migrates) the database in dataDir, creating the directory if needed
func Open(ctx context.Context, dataDir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// modernc.org/sqlite registers itself as "sqlite".
	db, err := sql.Open("sqlite", filepath.Join(dataDir, DatabaseFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS todos (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_todos_user ON todos(user_id, id);`,
	}
	for _, st := range stmts {
		if _, err := s.db.ExecContext(ctx, st); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}
	return nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// List returns the todos of userID in insertion order
func (s *SQLiteStore) List(ctx context.Context, userID int) ([]models.Todo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, title, completed FROM todos WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	defer rows.Close()

	todos := []models.Todo{}
	for rows.Next() {
		var t models.Todo
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Completed); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// Create inserts a todo and returns it with its new id
func (s *SQLiteStore) Create(ctx context.Context, req models.NewTodoRequest) (models.Todo, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO todos (user_id, title, completed) VALUES (?, ?, ?)`,
		req.UserID, req.Title, req.Completed)
	if err != nil {
		return models.Todo{}, fmt.Errorf("failed to insert todo: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Todo{}, fmt.Errorf("failed to read todo id: %w", err)
	}

	return models.Todo{
		ID:        int(id),
		UserID:    req.UserID,
		Title:     req.Title,
		Completed: req.Completed,
	}, nil
}

// Get returns one todo by id
func (s *SQLiteStore) Get(ctx context.Context, id int) (models.Todo, error) {
	var t models.Todo
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, completed FROM todos WHERE id = ?`, id).
		Scan(&t.ID, &t.UserID, &t.Title, &t.Completed)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Todo{}, ErrNotFound
	}
	if err != nil {
		return models.Todo{}, fmt.Errorf("failed to get todo %d: %w", id, err)
	}
	return t, nil
}

// Update applies a patch inside a transaction and returns the stored record
func (s *SQLiteStore) Update(ctx context.Context, id int, patch models.TodoPatch) (models.Todo, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Todo{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var t models.Todo
	err = tx.QueryRowContext(ctx,
		`SELECT id, user_id, title, completed FROM todos WHERE id = ?`, id).
		Scan(&t.ID, &t.UserID, &t.Title, &t.Completed)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Todo{}, ErrNotFound
	}
	if err != nil {
		return models.Todo{}, fmt.Errorf("failed to get todo %d: %w", id, err)
	}

	t = patch.Apply(t)
	if _, err := tx.ExecContext(ctx,
		`UPDATE todos SET title = ?, completed = ? WHERE id = ?`, t.Title, t.Completed, id); err != nil {
		return models.Todo{}, fmt.Errorf("failed to update todo %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return models.Todo{}, fmt.Errorf("failed to commit todo %d: %w", id, err)
	}
	return t, nil
}

// Delete removes a todo
func (s *SQLiteStore) Delete(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete todo %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete todo %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SnapshotTo writes a consistent copy of the database to path, which must not exist.
// It is safe to call while other connections are writing.
func (s *SQLiteStore) SnapshotTo(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx, `VACUUM INTO ?`, path); err != nil {
		return fmt.Errorf("failed to snapshot database: %w", err)
	}
	return nil
}
