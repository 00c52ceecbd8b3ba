package store

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"orderease/models"
)

const (
	createSnapshotsTable = `
CREATE TABLE IF NOT EXISTS restaurant_snapshots (
    id       BIGSERIAL PRIMARY KEY,
    saved_at TIMESTAMPTZ NOT NULL,
    payload  JSONB NOT NULL
)`
	insertSnapshot = `INSERT INTO restaurant_snapshots (saved_at, payload) VALUES ($1, $2)`
	latestSnapshot = `SELECT payload FROM restaurant_snapshots ORDER BY id DESC LIMIT 1`
)

// PostgresStore appends each snapshot as a JSONB row and loads the newest.
type PostgresStore struct {
	Pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if _, err := pool.Exec(ctx, createSnapshotsTable); err != nil {
		return nil, saveErr("create snapshots table", err)
	}
	return &PostgresStore{Pool: pool}, nil
}

func (s *PostgresStore) Save(ctx context.Context, r *models.Restaurant) error {
	now := time.Now().UTC()
	var buf bytes.Buffer
	if err := Encode(&buf, r, now); err != nil {
		return err
	}
	if _, err := s.Pool.Exec(ctx, insertSnapshot, now, buf.String()); err != nil {
		return saveErr("insert snapshot", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) (*models.Restaurant, error) {
	var payload []byte
	err := s.Pool.QueryRow(ctx, latestSnapshot).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, loadErr("no snapshot rows", ErrNoSnapshot)
		}
		return nil, loadErr("query snapshot", err)
	}
	return Decode(bytes.NewReader(payload))
}

func (s *PostgresStore) Close() error {
	s.Pool.Close()
	return nil
}
