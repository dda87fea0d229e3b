// Package store persists confirmed shots in SQLite so sessions can be
// reviewed and charted after the fact.
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/soocke/pong-tracker-go/config"
	"github.com/soocke/pong-tracker-go/domain/frame"
	"github.com/soocke/pong-tracker-go/domain/hit"
	"github.com/soocke/pong-tracker-go/domain/motion"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps the shot database.
type Store struct {
	db         *sql.DB
	lengthUnit string
	logger     *slog.Logger
}

// Shot is a persisted ShotRecord with the unit its speed is expressed in.
type Shot struct {
	hit.ShotRecord
	LengthUnit string
}

// SessionSummary aggregates the shots of one session.
type SessionSummary struct {
	SessionID uuid.UUID
	Shots     int
	MaxSpeed  float64
	First     time.Time
	Last      time.Time
}

// Open opens (creating if needed) the database at cfg.DatabasePath and
// applies pending migrations. If cfg is nil the default configuration is
// used.
func Open(cfg *config.Config, logger *slog.Logger) (*Store, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	db, err := sql.Open("sqlite", cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DatabasePath, err)
	}
	// one writer; avoids SQLITE_BUSY between the recorder and readers
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	s := &Store{db: db, lengthUnit: cfg.LengthUnit, logger: logger}
	if err := s.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrateUp() error {
	m, err := s.newMigrate()
	if err != nil {
		return err
	}
	// m is not closed: closing it would close the shared *sql.DB.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// Version returns the applied schema version.
func (s *Store) Version() (uint, bool, error) {
	m, err := s.newMigrate()
	if err != nil {
		return 0, false, err
	}
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func (s *Store) newMigrate() (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create sqlite driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	m.Log = &migrateLogger{logger: s.logger}
	return m, nil
}

type migrateLogger struct{ logger *slog.Logger }

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	if l.logger != nil {
		l.logger.Info(fmt.Sprintf("[migrate] "+format, v...))
	}
}

func (l *migrateLogger) Verbose() bool { return false }

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Record inserts one shot. Recording the same shot twice is a no-op.
func (s *Store) Record(ctx context.Context, r hit.ShotRecord) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO shots (shot_id, session_id, player, speed, x, y, recorded_at, length_unit)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID.String(), r.SessionID.String(), int(r.Player), r.Speed, r.Position.X, r.Position.Y, r.At.UnixNano(), s.lengthUnit,
	)
	if err != nil {
		return fmt.Errorf("record shot %s: %w", r.ID, err)
	}
	return nil
}

// Shots returns the shots of one session in the order they happened.
func (s *Store) Shots(ctx context.Context, sessionID uuid.UUID) ([]Shot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT shot_id, session_id, player, speed, x, y, recorded_at, length_unit
		FROM shots WHERE session_id = ?
		ORDER BY recorded_at, rowid`, sessionID.String())
	if err != nil {
		return nil, fmt.Errorf("query shots: %w", err)
	}
	defer rows.Close()

	var out []Shot
	for rows.Next() {
		var (
			id, session string
			player      int
			sp, x, y    float64
			at          int64
			unit        string
		)
		if err := rows.Scan(&id, &session, &player, &sp, &x, &y, &at, &unit); err != nil {
			return nil, fmt.Errorf("scan shot: %w", err)
		}
		shotID, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse shot id %q: %w", id, err)
		}
		sessID, err := uuid.Parse(session)
		if err != nil {
			return nil, fmt.Errorf("parse session id %q: %w", session, err)
		}
		out = append(out, Shot{
			ShotRecord: hit.ShotRecord{
				ID:        shotID,
				SessionID: sessID,
				Player:    motion.Player(player),
				Speed:     sp,
				At:        time.Unix(0, at),
				Position:  frame.Position{X: x, Y: y},
			},
			LengthUnit: unit,
		})
	}
	return out, rows.Err()
}

// Sessions summarises every recorded session, most recent first.
func (s *Store) Sessions(ctx context.Context) ([]SessionSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, COUNT(*), MAX(speed), MIN(recorded_at), MAX(recorded_at)
		FROM shots GROUP BY session_id
		ORDER BY MAX(recorded_at) DESC`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		var (
			id          string
			n           int
			maxSpeed    float64
			first, last int64
		)
		if err := rows.Scan(&id, &n, &maxSpeed, &first, &last); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessID, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse session id %q: %w", id, err)
		}
		out = append(out, SessionSummary{
			SessionID: sessID,
			Shots:     n,
			MaxSpeed:  maxSpeed,
			First:     time.Unix(0, first),
			Last:      time.Unix(0, last),
		})
	}
	return out, rows.Err()
}
