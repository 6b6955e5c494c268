package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pitchmix/pitchmix/internal/domain/model"
	"github.com/pitchmix/pitchmix/pkg/metrics"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

// Default store configuration constants.
const (
	defaultBusyTimeoutMS = 5000
	defaultMaxOpenConns  = 1
	dirPermission        = 0o755
)

const schema = `
CREATE TABLE IF NOT EXISTS pitchers (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    mlb_id      INTEGER NOT NULL UNIQUE,
    name        TEXT    NOT NULL,
    throws_hand TEXT    NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS pitches (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    pitcher_id  INTEGER NOT NULL REFERENCES pitchers(id),
    game_date   TEXT,
    inning      INTEGER,
    top_bottom  TEXT,
    batter_hand TEXT,
    balls       INTEGER,
    strikes     INTEGER,
    pitch_type  TEXT    NOT NULL,
    velocity    REAL,
    plate_x     REAL,
    plate_z     REAL,
    sz_top      REAL,
    sz_bot      REAL,
    description TEXT    NOT NULL DEFAULT '',
    outcome     TEXT,
    runs_value  REAL
);

CREATE INDEX IF NOT EXISTS idx_pitches_situation
    ON pitches (pitcher_id, balls, strikes, batter_hand);
`

const insertPitchSQL = `
        INSERT INTO pitches (
            pitcher_id, game_date, inning, top_bottom,
            batter_hand, balls, strikes,
            pitch_type, velocity,
            plate_x, plate_z, sz_top, sz_bot,
            description, outcome, runs_value
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// aggregateColumns is the shared SELECT tail for both grouped aggregates:
// total, swinging-miss count (prefix match on the result-of-pitch label),
// and hard-hit count (extra-base in-play outcomes).
const aggregateColumns = `
    COUNT(*) AS total,
    SUM(CASE WHEN description LIKE 'swinging_strike%' THEN 1 ELSE 0 END) AS whiffs,
    SUM(CASE WHEN outcome IN ('home_run', 'double', 'triple') THEN 1 ELSE 0 END) AS hard_hits`

// SQLiteStore implements Store on a modernc.org/sqlite database.
type SQLiteStore struct {
	db            *sql.DB
	busyTimeoutMS int
	maxOpenConns  int
	closeOnce     sync.Once
	closeErr      error
}

// NewSQLiteStore opens (creating if necessary) the database at path, applies
// migrations, and returns a ready store. The database runs in WAL mode with
// foreign keys enforced.
func NewSQLiteStore(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	s := &SQLiteStore{
		busyTimeoutMS: defaultBusyTimeoutMS,
		maxOpenConns:  defaultMaxOpenConns,
	}
	for _, opt := range opts {
		opt(s)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPermission); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)",
		path, s.busyTimeoutMS)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(s.maxOpenConns)
	db.SetMaxIdleConns(s.maxOpenConns)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	s.db = db
	return s, nil
}

// Close closes the database handle. Safe to call more than once.
func (s *SQLiteStore) Close() error {
	s.closeOnce.Do(func() {
		_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
		s.closeErr = s.db.Close()
	})
	return s.closeErr
}

// GetOrCreatePitcher implements Store.
func (s *SQLiteStore) GetOrCreatePitcher(ctx context.Context, externalID int64, name, hand string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM pitchers WHERE mlb_id = ?`, externalID).Scan(&id)
	switch {
	case err == nil:
		return id, nil
	case !errors.Is(err, sql.ErrNoRows):
		return 0, fmt.Errorf("lookup pitcher %d: %w", externalID, err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO pitchers (mlb_id, name, throws_hand) VALUES (?, ?, ?)`,
		externalID, name, hand)
	if err != nil {
		return 0, fmt.Errorf("create pitcher %d: %w", externalID, err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("pitcher insert id: %w", err)
	}
	metrics.RecordPitcherCreated()
	return id, nil
}

// ListPitchers implements Store.
func (s *SQLiteStore) ListPitchers(ctx context.Context) ([]model.Pitcher, error) {
	defer s.observe("list_pitchers")()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, mlb_id, name, throws_hand FROM pitchers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list pitchers: %w", err)
	}
	defer rows.Close()

	var out []model.Pitcher
	for rows.Next() {
		var p model.Pitcher
		if err := rows.Scan(&p.ID, &p.ExternalID, &p.Name, &p.ThrowsHand); err != nil {
			return nil, fmt.Errorf("scan pitcher: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pitchers: %w", err)
	}
	return out, nil
}

// InsertPitches implements Store. The whole batch commits or rolls back as
// one transaction.
func (s *SQLiteStore) InsertPitches(ctx context.Context, pitches []model.Pitch) error {
	if len(pitches) == 0 {
		return nil
	}
	defer s.observe("insert_pitches")()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, insertPitchSQL)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range pitches {
		if err := execInsertPitch(ctx, stmt, &pitches[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert: %w", err)
	}
	metrics.RecordPitchesInserted(len(pitches))
	return nil
}

// execInsertPitch binds one pitch to the prepared insert statement.
func execInsertPitch(ctx context.Context, stmt *sql.Stmt, p *model.Pitch) error {
	if _, err := stmt.ExecContext(ctx,
		p.PitcherID, p.GameDate, p.Inning, p.TopBottom,
		p.BatterHand, p.Balls, p.Strikes,
		p.PitchType, p.Velocity,
		p.PlateX, p.PlateZ, p.SzTop, p.SzBot,
		p.Description, p.Outcome, p.RunsValue,
	); err != nil {
		return fmt.Errorf("insert pitch: %w", err)
	}
	return nil
}

// BeginIngest implements Store.
func (s *SQLiteStore) BeginIngest(ctx context.Context) (IngestSession, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin ingest: %w", err)
	}
	return &sqliteSession{tx: tx}, nil
}

// sqliteSession holds one ingest transaction. The single-connection pool
// means nothing else can touch the database until the session ends, so all
// session reads go through the transaction.
type sqliteSession struct {
	tx       *sql.Tx
	stmt     *sql.Stmt
	inserted int
	done     bool
}

// GetOrCreatePitcher implements IngestSession.
func (s *sqliteSession) GetOrCreatePitcher(ctx context.Context, externalID int64, name, hand string) (int64, error) {
	var id int64
	err := s.tx.QueryRowContext(ctx,
		`SELECT id FROM pitchers WHERE mlb_id = ?`, externalID).Scan(&id)
	switch {
	case err == nil:
		return id, nil
	case !errors.Is(err, sql.ErrNoRows):
		return 0, fmt.Errorf("lookup pitcher %d: %w", externalID, err)
	}

	res, err := s.tx.ExecContext(ctx,
		`INSERT INTO pitchers (mlb_id, name, throws_hand) VALUES (?, ?, ?)`,
		externalID, name, hand)
	if err != nil {
		return 0, fmt.Errorf("create pitcher %d: %w", externalID, err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("pitcher insert id: %w", err)
	}
	metrics.RecordPitcherCreated()
	return id, nil
}

// Insert implements IngestSession.
func (s *sqliteSession) Insert(ctx context.Context, pitches []model.Pitch) error {
	if len(pitches) == 0 {
		return nil
	}
	if s.stmt == nil {
		stmt, err := s.tx.PrepareContext(ctx, insertPitchSQL)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		s.stmt = stmt
	}
	for i := range pitches {
		if err := execInsertPitch(ctx, s.stmt, &pitches[i]); err != nil {
			return err
		}
	}
	s.inserted += len(pitches)
	return nil
}

// Commit implements IngestSession.
func (s *sqliteSession) Commit() error {
	if s.done {
		return nil
	}
	s.done = true
	if s.stmt != nil {
		_ = s.stmt.Close()
	}
	if err := s.tx.Commit(); err != nil {
		return fmt.Errorf("commit ingest: %w", err)
	}
	metrics.RecordPitchesInserted(s.inserted)
	return nil
}

// Rollback implements IngestSession.
func (s *sqliteSession) Rollback() error {
	if s.done {
		return nil
	}
	s.done = true
	if s.stmt != nil {
		_ = s.stmt.Close()
	}
	if err := s.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback ingest: %w", err)
	}
	return nil
}

// AggregateBySituation implements Store.
func (s *SQLiteStore) AggregateBySituation(ctx context.Context, f SituationFilter, minTotal int) ([]model.PitchTypeAggregate, error) {
	defer s.observe("aggregate_situation")()

	query := `SELECT pitch_type,` + aggregateColumns + `
        FROM pitches
        WHERE pitcher_id = ? AND balls = ? AND strikes = ?`
	args := []any{f.PitcherID, f.Balls, f.Strikes}
	if f.BatterHand != "" {
		query += ` AND batter_hand = ?`
		args = append(args, f.BatterHand)
	}
	query += `
        GROUP BY pitch_type
        HAVING COUNT(*) >= ?
        ORDER BY pitch_type`
	args = append(args, minTotal)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("aggregate by situation: %w", err)
	}
	defer rows.Close()

	var out []model.PitchTypeAggregate
	for rows.Next() {
		var a model.PitchTypeAggregate
		if err := rows.Scan(&a.PitchType, &a.Total, &a.Whiffs, &a.HardHits); err != nil {
			return nil, fmt.Errorf("scan aggregate: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("aggregate by situation: %w", err)
	}
	return out, nil
}

// AggregateByCount implements Store.
func (s *SQLiteStore) AggregateByCount(ctx context.Context, pitcherID int64, batterHand string) ([]model.CountAggregate, error) {
	defer s.observe("aggregate_count")()

	query := `SELECT balls, strikes, pitch_type,` + aggregateColumns + `
        FROM pitches
        WHERE pitcher_id = ?
          AND balls IS NOT NULL
          AND strikes IS NOT NULL`
	args := []any{pitcherID}
	if batterHand != "" {
		query += ` AND batter_hand = ?`
		args = append(args, batterHand)
	}
	query += `
        GROUP BY balls, strikes, pitch_type
        ORDER BY balls, strikes, pitch_type`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("aggregate by count: %w", err)
	}
	defer rows.Close()

	var out []model.CountAggregate
	for rows.Next() {
		var a model.CountAggregate
		if err := rows.Scan(&a.Balls, &a.Strikes, &a.PitchType, &a.Total, &a.Whiffs, &a.HardHits); err != nil {
			return nil, fmt.Errorf("scan count aggregate: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("aggregate by count: %w", err)
	}
	return out, nil
}

// LocatedPitches implements Store.
func (s *SQLiteStore) LocatedPitches(ctx context.Context, f SituationFilter, limit int) ([]model.LocatedPitch, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	defer s.observe("located_pitches")()

	query := `
        SELECT plate_x, plate_z, sz_top, sz_bot, pitch_type, description, outcome
        FROM pitches
        WHERE pitcher_id = ? AND balls = ? AND strikes = ?
          AND plate_x IS NOT NULL
          AND plate_z IS NOT NULL`
	args := []any{f.PitcherID, f.Balls, f.Strikes}
	if f.BatterHand != "" {
		query += ` AND batter_hand = ?`
		args = append(args, f.BatterHand)
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("located pitches: %w", err)
	}
	defer rows.Close()

	var out []model.LocatedPitch
	for rows.Next() {
		var p model.LocatedPitch
		if err := rows.Scan(&p.PlateX, &p.PlateZ, &p.SzTop, &p.SzBot, &p.PitchType, &p.Description, &p.Outcome); err != nil {
			return nil, fmt.Errorf("scan located pitch: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("located pitches: %w", err)
	}
	return out, nil
}

// CountPitches implements Store.
func (s *SQLiteStore) CountPitches(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pitches`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count pitches: %w", err)
	}
	return n, nil
}

// observe times a store operation for the query-latency histogram.
func (s *SQLiteStore) observe(op string) func() {
	start := time.Now()
	return func() {
		metrics.RecordStoreQueryLatency(op, float64(time.Since(start).Milliseconds()))
	}
}
