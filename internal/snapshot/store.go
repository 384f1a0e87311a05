// Package snapshot persists the last known dataset in Postgres so the viewer
// can start without reaching the product API.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/erauner12/catalogview/internal/catalog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
)

// ErrNoSnapshot is returned by Load when nothing has been saved yet
var ErrNoSnapshot = errors.New("no dataset snapshot stored")

const schema = `
CREATE TABLE IF NOT EXISTS catalog_snapshot (
	id           SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
	products     JSONB NOT NULL,
	record_count INTEGER NOT NULL,
	taken_at     TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Snapshot is one stored dataset.
type Snapshot struct {
	Products []catalog.Product
	TakenAt  time.Time
}

// DB is the subset of *pgxpool.Pool the store uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store keeps a single dataset row, replaced on every save.
type Store struct {
	db DB
}

// NewStore wraps a pool. Call EnsureSchema once before use.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the snapshot table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create snapshot table: %w", err)
	}
	return nil
}

// Save replaces the stored dataset.
func (s *Store) Save(ctx context.Context, products []catalog.Product) error {
	if products == nil {
		products = []catalog.Product{}
	}
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO catalog_snapshot (id, products, record_count, taken_at)
		VALUES (1, $1::jsonb, $2, now())
		ON CONFLICT (id) DO UPDATE
		SET products = EXCLUDED.products,
		    record_count = EXCLUDED.record_count,
		    taken_at = EXCLUDED.taken_at`,
		string(data), len(products))
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	log.Ctx(ctx).Debug().Int("records", len(products)).Msg("dataset snapshot saved")
	return nil
}

// Load returns the stored dataset or ErrNoSnapshot.
func (s *Store) Load(ctx context.Context) (Snapshot, error) {
	var (
		data    []byte
		takenAt time.Time
	)
	err := s.db.QueryRow(ctx,
		`SELECT products, taken_at FROM catalog_snapshot WHERE id = 1`,
	).Scan(&data, &takenAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}

	var products []catalog.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if products == nil {
		products = []catalog.Product{}
	}
	return Snapshot{Products: products, TakenAt: takenAt}, nil
}
