package score

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS globe_scores (
	user_id    TEXT PRIMARY KEY,
	username   TEXT NOT NULL,
	score      BIGINT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS globe_scores_score_idx ON globe_scores (score DESC, user_id);
CREATE TABLE IF NOT EXISTS globe_locations (
	key        TEXT PRIMARY KEY,
	lat        DOUBLE PRECISION NOT NULL,
	lng        DOUBLE PRECISION NOT NULL,
	feature_id TEXT NOT NULL DEFAULT '',
	name       TEXT NOT NULL DEFAULT '',
	updated_at TIMESTAMPTZ NOT NULL
);`

// OpenPostgres opens a lib/pq connection pool for dsn.
func OpenPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("score: open postgres: %w", err)
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	return db, nil
}

// PostgresStore keeps scores and locations in two tables.
type PostgresStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewPostgresStore wraps db and creates the tables if they are missing.
func NewPostgresStore(ctx context.Context, db *sql.DB) (*PostgresStore, error) {
	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("score: ensure schema: %w", err)
	}
	return &PostgresStore{db: db, now: time.Now}, nil
}

func (s *PostgresStore) SaveScore(ctx context.Context, userID, username string, score int64) (SaveResult, error) {
	if err := CheckID("user id", userID); err != nil {
		return SaveResult{}, err
	}
	if score < 0 {
		return SaveResult{}, fmt.Errorf("score: negative score %d", score)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SaveResult{}, fmt.Errorf("score: begin: %w", err)
	}
	defer tx.Rollback()

	var res SaveResult
	err = tx.QueryRowContext(ctx,
		`SELECT score FROM globe_scores WHERE user_id = $1 FOR UPDATE`, userID,
	).Scan(&res.Previous)
	had := true
	if errors.Is(err, sql.ErrNoRows) {
		had = false
	} else if err != nil {
		return SaveResult{}, fmt.Errorf("score: read %s: %w", userID, err)
	}

	res.NewBest = !had || score > res.Previous
	e := Entry{UserID: userID, Username: CleanUsername(username)}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO globe_scores (user_id, username, score, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			username   = EXCLUDED.username,
			score      = GREATEST(globe_scores.score, EXCLUDED.score),
			updated_at = CASE WHEN EXCLUDED.score > globe_scores.score
				THEN EXCLUDED.updated_at ELSE globe_scores.updated_at END
		RETURNING score, updated_at`,
		userID, e.Username, score, s.now().UTC(),
	).Scan(&e.Score, &e.UpdatedAt)
	if err != nil {
		return SaveResult{}, fmt.Errorf("score: save %s: %w", userID, err)
	}
	if err := tx.Commit(); err != nil {
		return SaveResult{}, fmt.Errorf("score: commit: %w", err)
	}
	res.Entry = e
	return res, nil
}

func (s *PostgresStore) Score(ctx context.Context, userID string) (Entry, error) {
	e := Entry{UserID: userID}
	err := s.db.QueryRowContext(ctx,
		`SELECT username, score, updated_at FROM globe_scores WHERE user_id = $1`, userID,
	).Scan(&e.Username, &e.Score, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("score: read %s: %w", userID, err)
	}
	return e, nil
}

func (s *PostgresStore) Leaderboard(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, username, score, updated_at FROM globe_scores
		ORDER BY score DESC, user_id LIMIT $1`, ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("score: leaderboard: %w", err)
	}
	defer rows.Close()
	out := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.UserID, &e.Username, &e.Score, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("score: leaderboard row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *PostgresStore) SaveLocation(ctx context.Context, key string, loc Location) error {
	if err := CheckID("location key", key); err != nil {
		return err
	}
	if err := loc.Validate(); err != nil {
		return err
	}
	if loc.UpdatedAt.IsZero() {
		loc.UpdatedAt = s.now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO globe_locations (key, lat, lng, feature_id, name, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (key) DO UPDATE SET
			lat = EXCLUDED.lat, lng = EXCLUDED.lng, feature_id = EXCLUDED.feature_id,
			name = EXCLUDED.name, updated_at = EXCLUDED.updated_at`,
		key, loc.Lat, loc.Lng, loc.FeatureID, loc.Name, loc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("score: save location %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Location(ctx context.Context, key string) (Location, error) {
	var loc Location
	err := s.db.QueryRowContext(ctx,
		`SELECT lat, lng, feature_id, name, updated_at FROM globe_locations WHERE key = $1`, key,
	).Scan(&loc.Lat, &loc.Lng, &loc.FeatureID, &loc.Name, &loc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Location{}, ErrNotFound
	}
	if err != nil {
		return Location{}, fmt.Errorf("score: read location %s: %w", key, err)
	}
	return loc, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
