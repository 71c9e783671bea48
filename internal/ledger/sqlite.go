package ledger

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/cre8worthy/appraise-cli/internal/model"
)

// SQLiteInteractions implements InteractionLedger using modernc.org/sqlite.
type SQLiteInteractions struct {
	db *sql.DB
}

// NewSQLiteInteractions opens a SQLite database at the given path and
// configures WAL mode.
func NewSQLiteInteractions(dsn string) (*SQLiteInteractions, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteInteractions{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS interactions (
	id        TEXT PRIMARY KEY,
	timestamp TEXT NOT NULL,
	kind      TEXT NOT NULL,
	prompt    TEXT NOT NULL,
	response  TEXT NOT NULL,
	duration  REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_interactions_timestamp ON interactions(timestamp);
CREATE INDEX IF NOT EXISTS idx_interactions_kind ON interactions(kind);
`

func (s *SQLiteInteractions) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteInteractions) Close() error {
	return s.db.Close()
}

// Record inserts one audit row. The row id is assigned here when blank.
func (s *SQLiteInteractions) Record(ctx context.Context, it model.Interaction) error {
	if it.ID == "" {
		it.ID = uuid.New().String()
	}
	if it.Timestamp.IsZero() {
		it.Timestamp = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO interactions (id, timestamp, kind, prompt, response, duration) VALUES (?, ?, ?, ?, ?, ?)`,
		it.ID, it.Timestamp.UTC().Format(interactionTimeFormat), it.Kind, it.Prompt, it.Response, it.Duration.Seconds(),
	)
	return eris.Wrap(err, "sqlite: insert interaction")
}

// Interactions returns all audit rows, most recent first.
func (s *SQLiteInteractions) Interactions(ctx context.Context) ([]model.Interaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, timestamp, kind, prompt, response, duration FROM interactions ORDER BY timestamp DESC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query interactions")
	}
	defer rows.Close()

	var out []model.Interaction
	for rows.Next() {
		var (
			it      model.Interaction
			ts      string
			seconds float64
		)
		if err := rows.Scan(&it.ID, &ts, &it.Kind, &it.Prompt, &it.Response, &seconds); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan interaction")
		}
		parsed, err := time.Parse(interactionTimeFormat, ts)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: parse timestamp %s", ts)
		}
		it.Timestamp = parsed
		it.Duration = time.Duration(seconds * float64(time.Second))
		out = append(out, it)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate interactions")
}
