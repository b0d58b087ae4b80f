package crossing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Record is one confirmed boundary crossing, kept for the office presence
// history. Corresponds to the 'crossing_events' table.
type Record struct {
	ID         uuid.UUID
	Email      string
	Entered    bool
	OccurredAt time.Time
}

// Repository defines the operations for persisting and retrieving crossing
// Records. Persistence is best-effort: the notification path never depends
// on it.
type Repository interface {
	Create(ctx context.Context, rec *Record) error
	// ListRecent returns up to limit records, newest first.
	ListRecent(ctx context.Context, limit int) ([]*Record, error)
}
