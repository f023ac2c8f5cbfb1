// Package storage defines the durable snapshot slot the session writes to.
package storage

import (
	"context"

	"github.com/malcano/flea-market-kiosk/internal/domain"
)

// DefaultSlot matches the record name the original kiosk persisted under.
const DefaultSlot = "kiosk-storage"

// SnapshotStore holds one named slot containing the full state aggregate.
// Load reports found=false when the slot has never been written. Save
// overwrites the whole slot; implementations are not called concurrently.
type SnapshotStore interface {
	Load(ctx context.Context) (snap domain.Snapshot, found bool, err error)
	Save(ctx context.Context, snap domain.Snapshot) error
}
