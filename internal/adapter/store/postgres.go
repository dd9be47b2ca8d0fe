package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/askdocs/orchestrator/internal/domain"
	"github.com/askdocs/orchestrator/internal/port"
)

// PostgresRegistry keeps bookkeeping rows for ingested documents. It
// implements port.DocumentRegistry.
type PostgresRegistry struct {
	db *sql.DB
}

// NewPostgresRegistry opens a connection, verifies it, and creates the
// documents table if it does not exist.
func NewPostgresRegistry(databaseURL string) (*PostgresRegistry, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresRegistry{db: db}
	if err := r.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *PostgresRegistry) initialize() error {
	schema := `
		CREATE TABLE IF NOT EXISTS documents (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			file_path TEXT NOT NULL DEFAULT '',
			summary TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'processing',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`
	if _, err := r.db.Exec(schema); err != nil {
		return fmt.Errorf("create documents table: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *PostgresRegistry) Close() error {
	return r.db.Close()
}

// Record inserts or updates a document row by ID.
func (r *PostgresRegistry) Record(ctx context.Context, doc *domain.Document) error {
	query := `
		INSERT INTO documents (id, name, file_path, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			file_path = EXCLUDED.file_path,
			status = EXCLUDED.status,
			updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, doc.ID, doc.Name, doc.FilePath, doc.Status); err != nil {
		return fmt.Errorf("record document: %w", err)
	}
	return nil
}

// SetStatus updates the status and, when summary is non-empty, the summary.
func (r *PostgresRegistry) SetStatus(ctx context.Context, id int64, status, summary string) error {
	query := `
		UPDATE documents
		SET status = $2,
		    summary = CASE WHEN $3 <> '' THEN $3 ELSE summary END,
		    updated_at = NOW()
		WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, status, summary); err != nil {
		return fmt.Errorf("set document status: %w", err)
	}
	return nil
}

// Get returns a document record by ID.
func (r *PostgresRegistry) Get(ctx context.Context, id int64) (*domain.Document, error) {
	query := `SELECT id, name, file_path, summary, status, created_at, updated_at
	          FROM documents WHERE id = $1`

	var doc domain.Document
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&doc.ID, &doc.Name, &doc.FilePath, &doc.Summary, &doc.Status,
		&doc.CreatedAt, &doc.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &doc, nil
}

// List returns all document records, newest first.
func (r *PostgresRegistry) List(ctx context.Context) ([]domain.Document, error) {
	query := `SELECT id, name, file_path, summary, status, created_at, updated_at
	          FROM documents ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var doc domain.Document
		if err := rows.Scan(
			&doc.ID, &doc.Name, &doc.FilePath, &doc.Summary, &doc.Status,
			&doc.CreatedAt, &doc.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
