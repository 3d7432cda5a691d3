package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

type IdeaID string

// NewIdeaID generates a new unique IdeaID
func NewIdeaID() IdeaID {
	return IdeaID(uuid.New().String())
}

// Identity is the opaque per-session key that partitions stored records
type Identity string

// NewAnonymousIdentity generates a random identity for sessions without
// an explicit one. It is resolved once per session and reused for both
// reads and writes.
func NewAnonymousIdentity() Identity {
	return Identity("anon-" + uuid.New().String())
}

// IdeaRecord is one persisted query/response pair. Records are immutable
// once written: there is no update path, only create and read.
type IdeaRecord struct {
	ID             IdeaID    `firestore:"id" json:"id"`
	Niche          string    `firestore:"niche" json:"niche"`
	GeneratedIdeas string    `firestore:"generated_ideas" json:"generated_ideas"`
	CreatedAt      time.Time `firestore:"created_at" json:"created_at"`
}

// NewIdeaRecord builds a record for a completed generation
func NewIdeaRecord(niche, ideas string) *IdeaRecord {
	return &IdeaRecord{
		ID:             NewIdeaID(),
		Niche:          niche,
		GeneratedIdeas: ideas,
		CreatedAt:      time.Now(),
	}
}

// Validate checks the record before it is written
func (r *IdeaRecord) Validate() error {
	if r.ID == "" {
		return goerr.New("idea record has no ID")
	}
	if r.Niche == "" {
		return ErrEmptyNiche
	}
	return nil
}
