package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/samarth-labs/samarth-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/samarth-labs/samarth-cli/internal/core/domain"
	"github.com/samarth-labs/samarth-cli/internal/core/ports/driven"
)

// Store is a SQLite-backed chunk store.
type Store struct {
	db   *sql.DB
	path string
}

var _ driven.ChunkStore = (*Store)(nil)

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.samarth/data/chunks.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".samarth", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "chunks.db")

	// WAL mode for concurrent readers during ingest
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_chunks.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Put inserts chunks, overwriting existing ids.
func (s *Store) Put(ctx context.Context, chunks []domain.KnowledgeChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, text, source, state, crop, year, category, scheme, budget, focus_area, url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			text = excluded.text,
			source = excluded.source,
			state = excluded.state,
			crop = excluded.crop,
			year = excluded.year,
			category = excluded.category,
			scheme = excluded.scheme,
			budget = excluded.budget,
			focus_area = excluded.focus_area,
			url = excluded.url
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		if chunk.ID == "" {
			return fmt.Errorf("chunk with empty id: %w", domain.ErrInvalidInput)
		}
		m := chunk.Metadata
		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.Text,
			m.Source, m.State, m.Crop, nullInt(m.Year),
			m.Category, m.Scheme, m.Budget, m.FocusArea, m.URL); err != nil {
			return fmt.Errorf("saving chunk %s: %w", chunk.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing chunks: %w", err)
	}
	return nil
}

// Get retrieves a chunk by id.
func (s *Store) Get(ctx context.Context, id string) (domain.KnowledgeChunk, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, text, source, state, crop, year, category, scheme, budget, focus_area, url
		FROM chunks WHERE id = ?
	`, id)

	chunk, err := scanChunk(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.KnowledgeChunk{}, domain.ErrNotFound
		}
		return domain.KnowledgeChunk{}, fmt.Errorf("scanning chunk: %w", err)
	}
	return chunk, nil
}

// GetBatch retrieves chunks by id, preserving input order. Missing ids are
// skipped.
func (s *Store) GetBatch(ctx context.Context, ids []string) ([]domain.KnowledgeChunk, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text, source, state, crop, year, category, scheme, budget, focus_area, url
		FROM chunks WHERE id IN (`+placeholders+`)
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]domain.KnowledgeChunk, len(ids))
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		byID[chunk.ID] = chunk
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	out := make([]domain.KnowledgeChunk, 0, len(byID))
	for _, id := range ids {
		if chunk, ok := byID[id]; ok {
			out = append(out, chunk)
		}
	}
	return out, nil
}

// Count returns the number of stored chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks")
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return n, nil
}

// Clear removes all chunks.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}
	return nil
}

// scanner abstracts sql.Row and sql.Rows for scanChunk.
type scanner interface {
	Scan(dest ...any) error
}

func scanChunk(row scanner) (domain.KnowledgeChunk, error) {
	var chunk domain.KnowledgeChunk
	var year sql.NullInt64
	if err := row.Scan(&chunk.ID, &chunk.Text,
		&chunk.Metadata.Source, &chunk.Metadata.State, &chunk.Metadata.Crop, &year,
		&chunk.Metadata.Category, &chunk.Metadata.Scheme, &chunk.Metadata.Budget,
		&chunk.Metadata.FocusArea, &chunk.Metadata.URL); err != nil {
		return domain.KnowledgeChunk{}, err
	}
	if year.Valid {
		y := int(year.Int64)
		chunk.Metadata.Year = &y
	}
	return chunk, nil
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
