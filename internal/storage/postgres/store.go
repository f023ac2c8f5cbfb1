package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/malcano/flea-market-kiosk/internal/domain"
	"github.com/malcano/flea-market-kiosk/internal/storage"
)

// Store keeps the snapshot in a single row keyed by slot name. Save is a
// whole-payload upsert, so the slot always holds one consistent aggregate.
type Store struct {
	pool *pgxpool.Pool
	slot string
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, slot: storage.DefaultSlot}
}

func (s *Store) Load(ctx context.Context) (domain.Snapshot, bool, error) {
	const query = `SELECT payload FROM snapshots WHERE slot = $1`

	var payload []byte
	err := s.pool.QueryRow(ctx, query, s.slot).Scan(&payload)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Snapshot{}, false, nil
		}
		return domain.Snapshot{}, false, fmt.Errorf("load snapshot: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, true, nil
}

func (s *Store) Save(ctx context.Context, snap domain.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	const stmt = `
INSERT INTO snapshots (slot, payload, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (slot) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()`
	if _, err := s.pool.Exec(ctx, stmt, s.slot, payload); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
