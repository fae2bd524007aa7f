package scenario

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	_ "modernc.org/sqlite"

	"github.com/uireplay/uireplay/internal/path"
)

// ArchiveStore keeps scenarios in a SQLite database so a suite of recordings
// can live in one file with names and timestamps. Save appends a new scenario
// row; Load retrieves the newest scenario with the store's name.
type ArchiveStore struct {
	db   *sqlx.DB
	name string
}

// OpenArchive opens (creating if needed) a scenario archive. name selects
// which scenario Save writes and Load reads; an empty name means "default".
func OpenArchive(dbPath, name string) (*ArchiveStore, error) {
	if name == "" {
		name = "default"
	}
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open scenario archive: %w", err)
	}
	store := &ArchiveStore{db: db, name: name}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize scenario archive schema: %w", err)
	}
	return store, nil
}

func (a *ArchiveStore) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS scenarios (
id TEXT PRIMARY KEY,
name TEXT NOT NULL,
format_version INTEGER NOT NULL,
object_registry TEXT,
created_at TIMESTAMP NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS scenario_events (
scenario_id TEXT NOT NULL,
seq INTEGER NOT NULL,
object_id INTEGER,
event TEXT NOT NULL,
object_path TEXT,
PRIMARY KEY (scenario_id, seq),
FOREIGN KEY (scenario_id) REFERENCES scenarios(id) ON DELETE CASCADE
)`,
		`CREATE INDEX IF NOT EXISTS idx_scenarios_name ON scenarios(name, created_at)`,
	}
	for _, stmt := range statements {
		if _, err := a.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Save appends the scenario under the store's name.
func (a *ArchiveStore) Save(ctx context.Context, s *Scenario) error {
	ctx, span := otel.Tracer("uireplay").Start(ctx, "scenario.archive.save")
	defer span.End()

	registryJSON, err := json.Marshal(s.Registry)
	if err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}

	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	id := uuid.New().String()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO scenarios (id, name, format_version, object_registry, created_at)
VALUES (?, ?, ?, ?, ?)`,
		id, a.name, s.FormatVersion, string(registryJSON), time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("insert scenario: %w", err)
	}

	for seq, e := range s.Events {
		var pathJSON sql.NullString
		if len(e.Path) > 0 {
			data, err := json.Marshal(e.Path)
			if err != nil {
				return fmt.Errorf("encode event path: %w", err)
			}
			pathJSON = sql.NullString{String: string(data), Valid: true}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO scenario_events (scenario_id, seq, object_id, event, object_path)
VALUES (?, ?, ?, ?, ?)`,
			id, seq, e.ObjectID, e.Event, pathJSON,
		); err != nil {
			return fmt.Errorf("insert scenario event %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit scenario: %w", err)
	}
	return nil
}

// Load retrieves the newest scenario saved under the store's name.
func (a *ArchiveStore) Load(ctx context.Context) (*Scenario, error) {
	ctx, span := otel.Tracer("uireplay").Start(ctx, "scenario.archive.load")
	defer span.End()

	var row struct {
		ID            string         `db:"id"`
		FormatVersion int            `db:"format_version"`
		Registry      sql.NullString `db:"object_registry"`
	}
	err := a.db.GetContext(ctx, &row,
		`SELECT id, format_version, object_registry FROM scenarios
WHERE name = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`, a.name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("no scenario named %q in archive", a.name)
	}
	if err != nil {
		return nil, fmt.Errorf("select scenario: %w", err)
	}

	s := &Scenario{FormatVersion: row.FormatVersion}
	if row.Registry.Valid && row.Registry.String != "" {
		if err := json.Unmarshal([]byte(row.Registry.String), &s.Registry); err != nil {
			return nil, fmt.Errorf("parse registry: %w", err)
		}
	}

	var events []struct {
		ObjectID int            `db:"object_id"`
		Event    string         `db:"event"`
		Path     sql.NullString `db:"object_path"`
	}
	if err := a.db.SelectContext(ctx, &events,
		`SELECT object_id, event, object_path FROM scenario_events
WHERE scenario_id = ? ORDER BY seq`, row.ID); err != nil {
		return nil, fmt.Errorf("select scenario events: %w", err)
	}
	for _, e := range events {
		entry := Entry{ObjectID: e.ObjectID, Event: e.Event}
		if e.Path.Valid && e.Path.String != "" {
			var p path.ObjectPath
			if err := json.Unmarshal([]byte(e.Path.String), &p); err != nil {
				return nil, fmt.Errorf("parse event path: %w", err)
			}
			entry.Path = p
		}
		s.Events = append(s.Events, entry)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database handle.
func (a *ArchiveStore) Close() error { return a.db.Close() }
