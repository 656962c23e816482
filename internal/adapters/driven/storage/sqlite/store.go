package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/clauseguard/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/clauseguard/internal/core/domain"
	"github.com/custodia-labs/clauseguard/internal/core/ports/driven"
)

// DBFileName is the database file inside the data directory.
const DBFileName = "analyses.db"

// Ensure Store implements the interface.
var _ driven.AnalysisStore = (*Store)(nil)

// Store is a SQLite-backed analysis store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store in the specified data directory.
// If dataDir is empty, defaults to ~/.clauseguard/data/analyses.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".clauseguard", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DBFileName)

	// WAL mode lets readers proceed while a save is in progress.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
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
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_analyses.up.sql" -> 1
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
	}

	return nil
}

// Save stores or replaces an analysis and all its clause rows.
func (s *Store) Save(ctx context.Context, a *domain.Analysis) error {
	if a == nil || a.ID == "" {
		return domain.ErrInvalidInput
	}

	signals, err := json.Marshal(nonNil(a.Plausibility.Signals))
	if err != nil {
		return fmt.Errorf("marshalling signals: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM clause_results WHERE analysis_id = ?`, a.ID); err != nil {
		return fmt.Errorf("clearing clauses: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO analyses (id, name, format, language, plausible, plausibility_score,
			plausibility_signals, segmentation, summary, rules_version, raw_text,
			high_count, medium_count, low_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			format = excluded.format,
			language = excluded.language,
			plausible = excluded.plausible,
			plausibility_score = excluded.plausibility_score,
			plausibility_signals = excluded.plausibility_signals,
			segmentation = excluded.segmentation,
			summary = excluded.summary,
			rules_version = excluded.rules_version,
			raw_text = excluded.raw_text,
			high_count = excluded.high_count,
			medium_count = excluded.medium_count,
			low_count = excluded.low_count,
			created_at = excluded.created_at
	`, a.ID, a.Name, a.Format, string(a.Language), a.Plausibility.Plausible, a.Plausibility.Score,
		string(signals), a.Segmentation, a.Summary, a.RulesVersion, a.RawText,
		a.Counts.High, a.Counts.Medium, a.Counts.Low, a.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving analysis: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO clause_results (analysis_id, ordinal, text, tier, score, reasons,
			explanation, scored_by, suggestion, template, comment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i := range a.Clauses {
		c := &a.Clauses[i]
		reasons, err := json.Marshal(nonNil(c.Reasons))
		if err != nil {
			return fmt.Errorf("marshalling reasons: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, a.ID, c.Ordinal, c.Text, string(c.Tier), c.Score,
			string(reasons), c.Explanation, c.ScoredBy, nullString(c.Suggestion),
			nullString(c.Template), c.Comment); err != nil {
			return fmt.Errorf("saving clause %d: %w", c.Ordinal, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Get retrieves an analysis with its clauses in ordinal order.
func (s *Store) Get(ctx context.Context, id string) (*domain.Analysis, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, format, language, plausible, plausibility_score, plausibility_signals,
			segmentation, summary, rules_version, raw_text, high_count, medium_count, low_count,
			created_at
		FROM analyses WHERE id = ?
	`, id)

	var a domain.Analysis
	var lang, signals string
	if err := row.Scan(&a.ID, &a.Name, &a.Format, &lang, &a.Plausibility.Plausible,
		&a.Plausibility.Score, &signals, &a.Segmentation, &a.Summary, &a.RulesVersion,
		&a.RawText, &a.Counts.High, &a.Counts.Medium, &a.Counts.Low, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning analysis: %w", err)
	}
	a.Language = domain.Language(lang)
	if err := json.Unmarshal([]byte(signals), &a.Plausibility.Signals); err != nil {
		return nil, fmt.Errorf("unmarshalling signals: %w", err)
	}

	clauses, err := s.clauses(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Clauses = clauses

	return &a, nil
}

func (s *Store) clauses(ctx context.Context, id string) ([]domain.ClauseResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ordinal, text, tier, score, reasons, explanation, scored_by, suggestion, template, comment
		FROM clause_results WHERE analysis_id = ? ORDER BY ordinal
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying clauses: %w", err)
	}
	defer rows.Close()

	clauses := []domain.ClauseResult{}
	for rows.Next() {
		var c domain.ClauseResult
		var tier, reasons string
		var suggestion, template sql.NullString
		if err := rows.Scan(&c.Ordinal, &c.Text, &tier, &c.Score, &reasons, &c.Explanation,
			&c.ScoredBy, &suggestion, &template, &c.Comment); err != nil {
			return nil, fmt.Errorf("scanning clause: %w", err)
		}
		c.Tier = domain.Tier(tier)
		if err := json.Unmarshal([]byte(reasons), &c.Reasons); err != nil {
			return nil, fmt.Errorf("unmarshalling reasons: %w", err)
		}
		c.Suggestion = stringPtr(suggestion)
		c.Template = stringPtr(template)
		clauses = append(clauses, c)
	}
	return clauses, rows.Err()
}

// List returns summaries, newest first.
func (s *Store) List(ctx context.Context) ([]domain.AnalysisSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.name, a.language, a.plausible, a.high_count, a.medium_count, a.low_count,
			a.created_at, (SELECT COUNT(*) FROM clause_results c WHERE c.analysis_id = a.id)
		FROM analyses a ORDER BY a.created_at DESC, a.id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing analyses: %w", err)
	}
	defer rows.Close()

	summaries := []domain.AnalysisSummary{}
	for rows.Next() {
		var sum domain.AnalysisSummary
		var lang string
		if err := rows.Scan(&sum.ID, &sum.Name, &lang, &sum.Plausible, &sum.Counts.High,
			&sum.Counts.Medium, &sum.Counts.Low, &sum.CreatedAt, &sum.ClauseCount); err != nil {
			return nil, fmt.Errorf("scanning summary: %w", err)
		}
		sum.Language = domain.Language(lang)
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// Delete removes an analysis; clause rows cascade.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM analyses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting analysis: %w", err)
	}
	return requireAffected(res)
}

// UpdateClauseComment sets the reviewer comment on one clause.
func (s *Store) UpdateClauseComment(ctx context.Context, id string, ordinal int, comment string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE clause_results SET comment = ? WHERE analysis_id = ? AND ordinal = ?
	`, comment, id, ordinal)
	if err != nil {
		return fmt.Errorf("updating comment: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
