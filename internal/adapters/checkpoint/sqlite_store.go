package checkpoint

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/mikey/engagement-tools/internal/dedup"
)

// SQLiteStore persists checkpoints in a single SQLite database. The
// checkpoint path acts as a namespace so several checkpoints (email and
// document schemes) can share one database file.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore opens (or creates) the checkpoint database.
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS checkpoint_entries (
			checkpoint TEXT NOT NULL,
			seq INTEGER NOT NULL,
			key TEXT NOT NULL,
			subject TEXT,
			date TEXT,
			relative_path TEXT,
			sha256 TEXT,
			filename TEXT,
			PRIMARY KEY (checkpoint, seq)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create entries table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS checkpoint_meta (
			checkpoint TEXT PRIMARY KEY,
			last_updated TEXT
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create meta table: %w", err)
	}

	return &SQLiteStore{db: db, logger: logger}, nil
}

// Load reads the named checkpoint. An unknown name yields an empty
// checkpoint, matching the JSON store's missing-file behavior.
func (s *SQLiteStore) Load(path string) (*dedup.Checkpoint, error) {
	cp := dedup.NewCheckpoint()

	var lastUpdated sql.NullString
	err := s.db.QueryRow(`
		SELECT last_updated FROM checkpoint_meta WHERE checkpoint = ?
	`, path).Scan(&lastUpdated)
	if err != nil && err != sql.ErrNoRows {
		s.logger.Error("Failed to query checkpoint meta", zap.Error(err), zap.String("checkpoint", path))
		return dedup.NewCheckpoint(), nil
	}
	if lastUpdated.Valid {
		cp.LastUpdated = &lastUpdated.String
	}

	rows, err := s.db.Query(`
		SELECT key, subject, date, relative_path, sha256, filename
		FROM checkpoint_entries
		WHERE checkpoint = ?
		ORDER BY seq
	`, path)
	if err != nil {
		s.logger.Error("Failed to query checkpoint entries", zap.Error(err), zap.String("checkpoint", path))
		return dedup.NewCheckpoint(), nil
	}
	defer rows.Close()

	for rows.Next() {
		var e dedup.Entry
		var subject, date, relPath, hash, filename sql.NullString
		if err := rows.Scan(&e.Key, &subject, &date, &relPath, &hash, &filename); err != nil {
			s.logger.Error("Failed to scan checkpoint entry", zap.Error(err))
			return dedup.NewCheckpoint(), nil
		}
		e.Subject = subject.String
		e.Date = date.String
		e.RelativePath = relPath.String
		e.SHA256 = hash.String
		e.Filename = filename.String
		cp.Processed = append(cp.Processed, e)
	}
	if err := rows.Err(); err != nil {
		s.logger.Error("Failed to read checkpoint entries", zap.Error(err))
		return dedup.NewCheckpoint(), nil
	}

	return cp, nil
}

// Save stamps LastUpdated and replaces the named checkpoint wholesale inside
// a transaction.
func (s *SQLiteStore) Save(path string, cp *dedup.Checkpoint) error {
	now := time.Now().Format(time.RFC3339)
	cp.LastUpdated = &now

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM checkpoint_entries WHERE checkpoint = ?`, path); err != nil {
		return fmt.Errorf("failed to clear checkpoint entries: %w", err)
	}

	for i, e := range cp.Processed {
		_, err := tx.Exec(`
			INSERT INTO checkpoint_entries
				(checkpoint, seq, key, subject, date, relative_path, sha256, filename)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, path, i, e.Key, e.Subject, e.Date, e.RelativePath, e.SHA256, e.Filename)
		if err != nil {
			return fmt.Errorf("failed to insert checkpoint entry: %w", err)
		}
	}

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO checkpoint_meta (checkpoint, last_updated)
		VALUES (?, ?)
	`, path, now)
	if err != nil {
		return fmt.Errorf("failed to update checkpoint meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit checkpoint: %w", err)
	}

	s.logger.Debug("Saved checkpoint",
		zap.String("checkpoint", path),
		zap.Int("entries", len(cp.Processed)))
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
