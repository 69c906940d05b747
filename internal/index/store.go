// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index maintains a queryable SQLite index over a modulation
// catalog: structured filters on modes and style tags, plus FTS5 full-text
// search over technique labels and chord comments.
//
// Requires go-sqlite3 built with the sqlite_fts5 tag (the mage Build and
// Test targets pass it); without it schema creation fails with
// "no such module: fts5".
package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/laurentVeliscek/modulations-V2/pkg/types"
)

const dbFile = "modulations.db"

// Store manages the catalog index database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the index database at indexDir/modulations.db,
// creating the schema if it does not exist.
func NewStore(cfg types.IndexConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.IndexDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(cfg.IndexDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS progressions (
			id INTEGER PRIMARY KEY,
			technique TEXT NOT NULL,
			from_mode TEXT NOT NULL,
			to_mode TEXT NOT NULL,
			to_root INTEGER NOT NULL,
			styles TEXT,
			chord_count INTEGER NOT NULL,
			comments TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_progressions_from_mode ON progressions(from_mode)`,
		`CREATE INDEX IF NOT EXISTS idx_progressions_to_mode ON progressions(to_mode)`,
		`CREATE VIRTUAL TABLE IF NOT EXISTS progressions_fts USING fts5(
			technique, comments,
			content='progressions', content_rowid='id'
		)`,
		`CREATE TRIGGER IF NOT EXISTS progressions_ai AFTER INSERT ON progressions BEGIN
			INSERT INTO progressions_fts(rowid, technique, comments)
			VALUES (new.id, new.technique, new.comments);
		END`,
		`CREATE TRIGGER IF NOT EXISTS progressions_ad AFTER DELETE ON progressions BEGIN
			INSERT INTO progressions_fts(progressions_fts, rowid, technique, comments)
			VALUES ('delete', old.id, old.technique, old.comments);
		END`,
		`CREATE TRIGGER IF NOT EXISTS progressions_au AFTER UPDATE ON progressions BEGIN
			INSERT INTO progressions_fts(progressions_fts, rowid, technique, comments)
			VALUES ('delete', old.id, old.technique, old.comments);
			INSERT INTO progressions_fts(rowid, technique, comments)
			VALUES (new.id, new.technique, new.comments);
		END`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestSummary reports the outcome of one Ingest run.
type IngestSummary struct {
	Indexed int
}

// Ingest replaces the index contents with the given catalog. The rebuild
// runs in one transaction, so a failed ingest leaves the previous index
// intact. Progress goes to w.
func (s *Store) Ingest(ctx context.Context, progs []types.Progression, w io.Writer) (IngestSummary, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("starting ingest transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM progressions`); err != nil {
		return IngestSummary{}, fmt.Errorf("clearing index: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO progressions
		(id, technique, from_mode, to_mode, to_root, styles, chord_count, comments)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range progs {
		stylesJSON, err := json.Marshal(p.Style)
		if err != nil {
			return IngestSummary{}, fmt.Errorf("marshaling styles for progression %d: %w", p.ID, err)
		}

		var comments []string
		for _, c := range p.Chords {
			if c.Comment != "" {
				comments = append(comments, c.Comment)
			}
		}

		if _, err := stmt.ExecContext(ctx,
			p.ID, p.ModulationTechnique, p.FromMode, p.ToMode, p.ToRoot,
			string(stylesJSON), len(p.Chords), strings.Join(comments, "\n"),
		); err != nil {
			return IngestSummary{}, fmt.Errorf("indexing progression %d: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return IngestSummary{}, fmt.Errorf("committing ingest: %w", err)
	}

	fmt.Fprintf(w, "Indexed %d progressions\n", len(progs))
	return IngestSummary{Indexed: len(progs)}, nil
}

// QueryOptions holds parameters for index queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string over technique labels
	// and chord comments.
	Query string

	// FromMode and ToMode filter by endpoint mode.
	FromMode string
	ToMode   string

	// Styles filters by one or more style tags with AND semantics.
	Styles []string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.FromMode == "" && q.ToMode == "" && len(q.Styles) == 0
}

// QueryResult is one indexed progression.
type QueryResult struct {
	ID         int      `json:"id"`
	Technique  string   `json:"modulation_technique"`
	FromMode   string   `json:"from_mode"`
	ToMode     string   `json:"to_mode"`
	ToRoot     int      `json:"to_root"`
	Styles     []string `json:"style"`
	ChordCount int      `json:"chord_count"`
}

// Retrieve queries the index with optional full-text search and structured
// filters. Full-text queries are ranked by relevance; structured-only
// queries come back in id order.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT p.id, p.technique, p.from_mode, p.to_mode, p.to_root,
				p.styles, p.chord_count
			FROM progressions_fts
			JOIN progressions p ON p.id = progressions_fts.rowid
			WHERE progressions_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT p.id, p.technique, p.from_mode, p.to_mode, p.to_root,
				p.styles, p.chord_count
			FROM progressions p
			WHERE 1=1`)
	}

	if opts.FromMode != "" {
		qb.WriteString(` AND p.from_mode = ?`)
		args = append(args, opts.FromMode)
	}
	if opts.ToMode != "" {
		qb.WriteString(` AND p.to_mode = ?`)
		args = append(args, opts.ToMode)
	}
	for _, style := range opts.Styles {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM json_each(p.styles) WHERE value = ?)`)
		args = append(args, style)
	}

	if useFTS {
		qb.WriteString(` ORDER BY progressions_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY p.id`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var (
			qr         QueryResult
			stylesJSON sql.NullString
		)
		if err := rows.Scan(
			&qr.ID, &qr.Technique, &qr.FromMode, &qr.ToMode, &qr.ToRoot,
			&stylesJSON, &qr.ChordCount,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if stylesJSON.Valid {
			json.Unmarshal([]byte(stylesJSON.String), &qr.Styles)
		}
		results = append(results, qr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading query results: %w", err)
	}
	return results, nil
}
