package repository

import (
	"context"

	"github.com/harukit/ideaspark/pkg/model"
)

// DefaultRecentLimit is the size of the recent-history window
const DefaultRecentLimit = 5

// Repository defines the interface for idea record persistence. Records
// live in per-identity partitions; an identity never sees another
// identity's records.
type Repository interface {
	// PutIdea writes one immutable record under the identity's partition,
	// keyed by the record's own ID. Writing the same ID twice is an error.
	PutIdea(ctx context.Context, id model.Identity, record *model.IdeaRecord) error

	// ListRecentIdeas returns at most limit records for the identity,
	// newest first by creation time.
	ListRecentIdeas(ctx context.Context, id model.Identity, limit int) ([]*model.IdeaRecord, error)
}
