// Package storage persists the explanation cache and generation history in
// SQLite.
package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps a SQLite database with methods for explanations and generations.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database in dataDir and runs pending
// migrations. Pass ":memory:" as dataDir for an in-memory database (used by
// tests).
func Open(dataDir string) (*Store, error) {
	var dsn string
	if dataDir == ":memory:" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "nxbot.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Limit to single connection to avoid "database is locked" errors.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate applies embedded SQL migrations that haven't been run yet.
func (s *Store) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		version, err := parseMigrationVersion(entry.Name())
		if err != nil {
			return err
		}

		var exists int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_version WHERE version = ?", version).Scan(&exists); err != nil {
			return fmt.Errorf("checking migration %d: %w", version, err)
		}
		if exists > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %d: %w", version, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %d: %w", version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("marking migration %d: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", version, err)
		}
	}

	return nil
}

// parseMigrationVersion extracts the numeric prefix from a migration
// filename like "0001_init.sql".
func parseMigrationVersion(name string) (int, error) {
	base := strings.TrimSuffix(name, ".sql")
	idx := strings.Index(base, "_")
	if idx <= 0 {
		return 0, fmt.Errorf("migration %s has no numeric prefix", name)
	}
	version, err := strconv.Atoi(base[:idx])
	if err != nil {
		return 0, fmt.Errorf("migration %s has invalid version: %w", name, err)
	}
	return version, nil
}

// --- explanations ---

// GetExplanation returns the cached explanation for a fingerprint. The
// boolean is false on a cache miss. Implements explain.CacheStore.
func (s *Store) GetExplanation(fingerprint string) (string, bool, error) {
	var text string
	err := s.db.QueryRow(
		"SELECT explanation FROM explanations WHERE fingerprint = ?", fingerprint,
	).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying explanation: %w", err)
	}
	return text, true, nil
}

// PutExplanation stores (or refreshes) an explanation under a fingerprint.
func (s *Store) PutExplanation(fingerprint, explanation string) error {
	_, err := s.db.Exec(`
		INSERT INTO explanations (fingerprint, explanation, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (fingerprint) DO UPDATE SET explanation = excluded.explanation`,
		fingerprint, explanation, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("storing explanation: %w", err)
	}
	return nil
}

// --- generations ---

// InsertGeneration records one pipeline run.
func (s *Store) InsertGeneration(g Generation) error {
	createdAt := g.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`
		INSERT INTO generations
			(id, created_at, request, matched_example, strategy, confidence,
			 prompt, raw_response, code, score, status, error_text, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, createdAt.Format(time.RFC3339), g.Request, g.MatchedExample,
		g.Strategy, g.Confidence, g.Prompt, g.RawResponse, g.Code,
		g.Score, g.Status, g.ErrorText, g.DurationMs)
	if err != nil {
		return fmt.Errorf("inserting generation %s: %w", g.ID, err)
	}
	return nil
}

// GetGeneration returns one recorded run by ID.
func (s *Store) GetGeneration(id string) (Generation, error) {
	row := s.db.QueryRow(`
		SELECT id, created_at, request, matched_example, strategy, confidence,
		       prompt, raw_response, code, score, status, error_text, duration_ms
		FROM generations WHERE id = ?`, id)
	g, err := scanGeneration(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Generation{}, ErrNotFound
	}
	if err != nil {
		return Generation{}, fmt.Errorf("querying generation %s: %w", id, err)
	}
	return g, nil
}

// ListGenerations returns the most recent runs, newest first.
func (s *Store) ListGenerations(limit int) ([]Generation, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, created_at, request, matched_example, strategy, confidence,
		       prompt, raw_response, code, score, status, error_text, duration_ms
		FROM generations ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying generations: %w", err)
	}
	defer rows.Close()

	var out []Generation
	for rows.Next() {
		g, err := scanGeneration(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning generation: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// CountGenerations returns the number of recorded runs.
func (s *Store) CountGenerations() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM generations").Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGeneration(row rowScanner) (Generation, error) {
	var g Generation
	var createdAt string
	if err := row.Scan(&g.ID, &createdAt, &g.Request, &g.MatchedExample,
		&g.Strategy, &g.Confidence, &g.Prompt, &g.RawResponse, &g.Code,
		&g.Score, &g.Status, &g.ErrorText, &g.DurationMs); err != nil {
		return Generation{}, err
	}
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return Generation{}, fmt.Errorf("parsing created_at for %s: %w", g.ID, err)
	}
	g.CreatedAt = t
	return g, nil
}
