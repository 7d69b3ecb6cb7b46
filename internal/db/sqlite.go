package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Ahsan-Ullah1871/chat-website-builder/internal/models"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/multierr"
)

const schema = `
CREATE TABLE IF NOT EXISTS projects (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS project_files (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL,
    path TEXT NOT NULL,
    content TEXT NOT NULL,
    type TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    UNIQUE (project_id, path),
    FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS messages (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL,
    role TEXT NOT NULL,
    content TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT '',
    failure TEXT NOT NULL DEFAULT '',
    action TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS messages_project ON messages(project_id, created_at);`

// ErrProjectNotFound is returned when a project id does not exist in the store.
var ErrProjectNotFound = errors.New("project not found")

// FileTx is a staged view of one project's files. Writes made through it
// become visible only when the surrounding Batch commits.
type FileTx interface {
	ReadFile(ctx context.Context, path string) (content string, ok bool, err error)
	UpsertFile(ctx context.Context, path, content string) error
	DeleteFile(ctx context.Context, path string) error
}

type Database struct {
	db  *sql.DB
	now func() time.Time
}

func New(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, multierr.Append(fmt.Errorf("failed to apply schema: %w", err), db.Close())
	}

	return &Database{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (db *Database) Close() error {
	return db.db.Close()
}

func (db *Database) CreateProject(ctx context.Context, name string) (*models.Project, error) {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	now := db.now()
	project := &models.Project{ID: uuid.NewString(), Name: name, CreatedAt: now, UpdatedAt: now}

	if _, err := tx.ExecContext(ctx, `
        INSERT INTO projects (id, name, created_at, updated_at)
        VALUES (?, ?, ?, ?)`, project.ID, name, now, now); err != nil {
		return nil, multierr.Append(fmt.Errorf("failed to create project: %w", err), tx.Rollback())
	}

	// Seed the template in the same transaction so a half-created project is never visible.
	ftx := &sqlFileTx{tx: tx, projectID: project.ID, now: now}
	for _, f := range DefaultFiles() {
		if err := ftx.UpsertFile(ctx, f.Path, f.Content); err != nil {
			return nil, multierr.Append(fmt.Errorf("failed to create default files: %w", err), tx.Rollback())
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return project, nil
}

func (db *Database) GetProject(ctx context.Context, id string) (*models.Project, error) {
	project := &models.Project{}
	err := db.db.QueryRowContext(ctx, `
        SELECT id, name, created_at, updated_at
        FROM projects
        WHERE id = ?`, id).Scan(&project.ID, &project.Name, &project.CreatedAt, &project.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch project: %w", err)
	}

	rows, err := db.db.QueryContext(ctx, `
        SELECT id, project_id, path, content, type, created_at, updated_at
        FROM project_files
        WHERE project_id = ?
        ORDER BY path`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch project files: %w", err)
	}
	defer rows.Close()

	project.Files = make([]models.ProjectFile, 0)
	for rows.Next() {
		var f models.ProjectFile
		if err := rows.Scan(&f.ID, &f.ProjectID, &f.Path, &f.Content, &f.Type, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project file: %w", err)
		}
		project.Files = append(project.Files, f)
	}
	return project, rows.Err()
}

// ListRecentProjects returns projects newest first. A non-positive limit
// returns all of them.
func (db *Database) ListRecentProjects(ctx context.Context, limit int) ([]models.Project, error) {
	rows, err := db.db.QueryContext(ctx, `
        SELECT id, name, created_at, updated_at
        FROM projects
        ORDER BY created_at DESC, rowid DESC
        LIMIT ?`, sqlLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := make([]models.Project, 0)
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// InitProject returns the most recently created project, creating a fresh
// one when the store is empty.
func (db *Database) InitProject(ctx context.Context) (*models.Project, error) {
	return initProject(ctx, db)
}

func (db *Database) UpsertFile(ctx context.Context, projectID, path, content string) error {
	return db.Batch(ctx, projectID, func(tx FileTx) error {
		return tx.UpsertFile(ctx, path, content)
	})
}

func (db *Database) DeleteFile(ctx context.Context, projectID, path string) error {
	return db.Batch(ctx, projectID, func(tx FileTx) error {
		return tx.DeleteFile(ctx, path)
	})
}

// Batch runs fn inside a single transaction scoped to projectID. The
// transaction commits only if fn returns nil.
func (db *Database) Batch(ctx context.Context, projectID string, fn func(FileTx) error) error {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM projects WHERE id = ?", projectID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return multierr.Append(ErrProjectNotFound, tx.Rollback())
	}
	if err != nil {
		return multierr.Append(err, tx.Rollback())
	}

	now := db.now()
	if err := fn(&sqlFileTx{tx: tx, projectID: projectID, now: now}); err != nil {
		return multierr.Append(err, tx.Rollback())
	}

	if _, err := tx.ExecContext(ctx, "UPDATE projects SET updated_at = ? WHERE id = ?", now, projectID); err != nil {
		return multierr.Append(err, tx.Rollback())
	}
	return tx.Commit()
}

type sqlFileTx struct {
	tx        *sql.Tx
	projectID string
	now       time.Time
}

func (t *sqlFileTx) ReadFile(ctx context.Context, path string) (string, bool, error) {
	var content string
	err := t.tx.QueryRowContext(ctx,
		"SELECT content FROM project_files WHERE project_id = ? AND path = ?",
		t.projectID, path).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return content, true, nil
}

func (t *sqlFileTx) UpsertFile(ctx context.Context, path, content string) error {
	_, err := t.tx.ExecContext(ctx, `
        INSERT INTO project_files (id, project_id, path, content, type, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (project_id, path) DO UPDATE SET
            content = excluded.content,
            type = excluded.type,
            updated_at = excluded.updated_at`,
		uuid.NewString(), t.projectID, path, content, FileType(path), t.now, t.now)
	if err != nil {
		return fmt.Errorf("failed to upsert %s: %w", path, err)
	}
	return nil
}

func (t *sqlFileTx) DeleteFile(ctx context.Context, path string) error {
	_, err := t.tx.ExecContext(ctx,
		"DELETE FROM project_files WHERE project_id = ? AND path = ?", t.projectID, path)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}

func (db *Database) SaveMessage(ctx context.Context, projectID string, msg models.ChatMessage) error {
	var action string
	if msg.Action != nil {
		raw, err := json.Marshal(msg.Action)
		if err != nil {
			return err
		}
		action = string(raw)
	}

	_, err := db.db.ExecContext(ctx, `
        INSERT INTO messages (id, project_id, role, content, status, failure, action, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, projectID, msg.Role, msg.Content, msg.Status, msg.Failure, action, msg.CreatedAt)
	return err
}

// ListMessages returns the latest limit messages of a project, oldest first.
// A non-positive limit returns the whole history.
func (db *Database) ListMessages(ctx context.Context, projectID string, limit int) ([]models.ChatMessage, error) {
	rows, err := db.db.QueryContext(ctx, `
        SELECT id, role, content, status, failure, action, created_at
        FROM messages
        WHERE project_id = ?
        ORDER BY created_at DESC, rowid DESC
        LIMIT ?`, projectID, sqlLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]models.ChatMessage, 0)
	for rows.Next() {
		var (
			msg    models.ChatMessage
			action string
		)
		if err := rows.Scan(&msg.ID, &msg.Role, &msg.Content, &msg.Status, &msg.Failure, &action, &msg.CreatedAt); err != nil {
			return nil, err
		}
		if action != "" {
			msg.Action = &models.Action{}
			if err := json.Unmarshal([]byte(action), msg.Action); err != nil {
				return nil, fmt.Errorf("failed to decode action of message %s: %w", msg.ID, err)
			}
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// sqlLimit maps a non-positive limit onto SQLite's "no limit".
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}
