package outbox

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store is the outbox persistence used by the export worker.
type Store interface {
	// Claim leases up to limit pending entries, oldest first, until now+lease.
	// Entries leased by another worker are skipped; an expired lease makes the
	// entry claimable again so a crashed worker never strands it.
	Claim(ctx context.Context, limit int, now time.Time, lease time.Duration) ([]*Entry, error)
	MarkProcessed(ctx context.Context, id uuid.UUID, processedAt time.Time) error
	CountPending(ctx context.Context) (int64, error)
	DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
}
