package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"telugudb/pkg/models"
)

// Repo is the SQLite document store. Each row holds the whole document as
// JSON next to the columns List filters on.
type Repo struct {
	DB  *sql.DB
	now func() time.Time
}

var _ Store = (*Repo)(nil)

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db, now: time.Now}
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *Repo) Create(ctx context.Context, c *models.Content) error {
	now := timestamp(r.now())
	c.ID = uuid.NewString()
	c.CreatedAt = now
	c.UpdatedAt = now

	doc, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode content: %w", err)
	}

	if _, err := r.DB.ExecContext(ctx, `
		INSERT INTO content (id, type, title, language, category, doc, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.Type, c.Title, c.Language, c.Category, string(doc), formatTime(now), formatTime(now)); err != nil {
		return fmt.Errorf("insert content: %w", err)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id string) (*models.Content, error) {
	return getByID(ctx, r.DB, id)
}

func getByID(ctx context.Context, q querier, id string) (*models.Content, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, doc, created_at, updated_at
		FROM content
		WHERE id = ?
	`, strings.TrimSpace(id))

	c, err := scanContent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan get: %w", err)
	}
	return c, nil
}

func (r *Repo) List(ctx context.Context, f Filter) ([]models.Content, error) {
	sqlStr, args := buildListSQL(f)

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	out := make([]models.Content, 0)
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		// Substring search runs here so it folds case the same way for
		// every script, not just ASCII as SQLite's LOWER does.
		if f.Search != "" && !f.Matches(c) {
			continue
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// buildListSQL applies the exact-match filters; order is insertion order.
func buildListSQL(f Filter) (string, []any) {
	var where []string
	var args []any

	if f.Type != "" {
		where = append(where, "type = ?")
		args = append(args, string(f.Type))
	}
	if f.Language != "" {
		where = append(where, "language = ?")
		args = append(args, f.Language)
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}

	sqlStr := `SELECT id, doc, created_at, updated_at FROM content`
	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}
	sqlStr += " ORDER BY seq ASC"
	return sqlStr, args
}

func (r *Repo) Update(ctx context.Context, id string, mutate func(*models.Content) error) (*models.Content, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	current, err := getByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	next := current.Clone()
	if err := mutate(next); err != nil {
		return nil, err
	}
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt
	next.UpdatedAt = nextUpdatedAt(r.now(), current.UpdatedAt)

	doc, err := json.Marshal(next)
	if err != nil {
		return nil, fmt.Errorf("encode content: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE content
		SET type = ?, title = ?, language = ?, category = ?, doc = ?, updated_at = ?
		WHERE id = ?
	`, next.Type, next.Title, next.Language, next.Category, string(doc), formatTime(next.UpdatedAt), next.ID)
	if err != nil {
		return nil, fmt.Errorf("update content: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	} else if n == 0 {
		return nil, ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}
	return next, nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM content WHERE id = ?`, strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}

func (r *Repo) Close() error {
	return r.DB.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContent(row rowScanner) (*models.Content, error) {
	var (
		id        string
		doc       string
		createdAt string
		updatedAt string
	)
	if err := row.Scan(&id, &doc, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var c models.Content
	if err := json.Unmarshal([]byte(doc), &c); err != nil {
		return nil, fmt.Errorf("decode content %s: %w", id, err)
	}
	c.ID = id

	var err error
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at for %s: %w", id, err)
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at for %s: %w", id, err)
	}
	return &c, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
