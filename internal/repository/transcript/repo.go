// Package transcript implements the relational transcript store on SQLite.
package transcript

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // sqlite driver

	"github.com/memovox/memovox/internal/domain/daterange"
	"github.com/memovox/memovox/internal/domain/transcript"
)

const timeLayout = time.RFC3339

// Repository stores transcript records in SQLite.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path and prepares it for
// concurrent ingestion workers.
func Open(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	return &Repository{db: db}, nil
}

// Close closes the database.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Init creates the schema if it does not exist.
func (r *Repository) Init(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS transcripts (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	filename         TEXT NOT NULL,
	recording_date   TEXT NOT NULL,
	transcript_date  TEXT NOT NULL,
	duration_seconds INTEGER NOT NULL DEFAULT 0,
	file_path        TEXT NOT NULL DEFAULT '',
	transcript_text  TEXT NOT NULL,
	word_count       INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_transcripts_recording_date ON transcripts(recording_date);

CREATE TABLE IF NOT EXISTS keywords (
	transcript_id INTEGER NOT NULL REFERENCES transcripts(id) ON DELETE CASCADE,
	keyword       TEXT NOT NULL,
	frequency     INTEGER NOT NULL DEFAULT 1,
	UNIQUE(transcript_id, keyword)
);
CREATE INDEX IF NOT EXISTS idx_keywords_keyword ON keywords(keyword);
`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Insert stores a transcript record and its keyword rows in one
// transaction; returns the new identity.
func (r *Repository) Insert(ctx context.Context, rec *transcript.Record) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.ExecContext(ctx, `
INSERT INTO transcripts (filename, recording_date, transcript_date, duration_seconds, file_path, transcript_text, word_count)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Filename,
		rec.RecordingDate.UTC().Format(timeLayout),
		rec.TranscriptDate.UTC().Format(timeLayout),
		rec.DurationSeconds,
		rec.FilePath,
		rec.Text,
		rec.WordCount,
	)
	if err != nil {
		return 0, fmt.Errorf("insert transcript: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	for _, kw := range rec.Keywords {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO keywords (transcript_id, keyword, frequency) VALUES (?, ?, ?)
ON CONFLICT(transcript_id, keyword) DO UPDATE SET frequency = excluded.frequency`,
			id, kw.Keyword, kw.Frequency,
		); err != nil {
			return 0, fmt.Errorf("insert keyword %q: %w", kw.Keyword, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// QueryByDateRanges returns records whose recording date falls in the
// union of the given ranges. Empty ranges means all records.
func (r *Repository) QueryByDateRanges(ctx context.Context, ranges []daterange.Range) ([]transcript.Record, error) {
	q := `
SELECT id, filename, recording_date, transcript_date, duration_seconds, file_path, transcript_text, word_count
FROM transcripts`

	var args []any
	if len(ranges) > 0 {
		clauses := make([]string, 0, len(ranges))
		for _, rng := range ranges {
			clauses = append(clauses, "(recording_date BETWEEN ? AND ?)")
			args = append(args,
				rng.Start.UTC().Format(timeLayout),
				rng.End.UTC().Format(timeLayout),
			)
		}
		q += " WHERE " + strings.Join(clauses, " OR ")
	}
	q += " ORDER BY recording_date"

	return r.queryRecords(ctx, q, args...)
}

// All returns every stored record ordered by recording date.
func (r *Repository) All(ctx context.Context) ([]transcript.Record, error) {
	return r.QueryByDateRanges(ctx, nil)
}

// SearchText returns records whose transcript contains the substring,
// case-insensitive.
func (r *Repository) SearchText(ctx context.Context, substring string) ([]transcript.Record, error) {
	q := `
SELECT id, filename, recording_date, transcript_date, duration_seconds, file_path, transcript_text, word_count
FROM transcripts
WHERE transcript_text LIKE ? COLLATE NOCASE
ORDER BY recording_date`
	return r.queryRecords(ctx, q, "%"+substring+"%")
}

func (r *Repository) queryRecords(ctx context.Context, q string, args ...any) ([]transcript.Record, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query transcripts: %w", err)
	}
	defer rows.Close()

	var out []transcript.Record
	for rows.Next() {
		var rec transcript.Record
		var recorded, transcribed string
		if err := rows.Scan(
			&rec.ID, &rec.Filename, &recorded, &transcribed,
			&rec.DurationSeconds, &rec.FilePath, &rec.Text, &rec.WordCount,
		); err != nil {
			return nil, fmt.Errorf("scan transcript: %w", err)
		}
		rec.RecordingDate, _ = time.Parse(timeLayout, recorded)
		rec.TranscriptDate, _ = time.Parse(timeLayout, transcribed)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transcripts: %w", err)
	}
	return out, nil
}

// KeywordsFor returns the stored keyword frequencies for a transcript.
func (r *Repository) KeywordsFor(ctx context.Context, transcriptID int64) ([]transcript.KeywordFreq, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT keyword, frequency FROM keywords WHERE transcript_id = ? ORDER BY frequency DESC, keyword`,
		transcriptID,
	)
	if err != nil {
		return nil, fmt.Errorf("query keywords: %w", err)
	}
	defer rows.Close()

	var out []transcript.KeywordFreq
	for rows.Next() {
		var kf transcript.KeywordFreq
		if err := rows.Scan(&kf.Keyword, &kf.Frequency); err != nil {
			return nil, fmt.Errorf("scan keyword: %w", err)
		}
		out = append(out, kf)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keywords: %w", err)
	}
	return out, nil
}
