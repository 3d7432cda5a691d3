package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/harukit/ideaspark/pkg/model"
)

// Memory is an in-memory Repository for tests and offline runs. It
// enforces the same contract as the Firestore implementation: immutable
// create-by-id writes and a newest-first bounded read.
type Memory struct {
	mu    sync.RWMutex
	ideas map[model.Identity]map[model.IdeaID]*model.IdeaRecord
}

func NewMemory() *Memory {
	return &Memory{
		ideas: make(map[model.Identity]map[model.IdeaID]*model.IdeaRecord),
	}
}

func (r *Memory) PutIdea(ctx context.Context, id model.Identity, record *model.IdeaRecord) error {
	if id == "" {
		return goerr.New("identity is required")
	}
	if err := record.Validate(); err != nil {
		return goerr.Wrap(err, "invalid idea record")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	partition, ok := r.ideas[id]
	if !ok {
		partition = make(map[model.IdeaID]*model.IdeaRecord)
		r.ideas[id] = partition
	}

	if _, exists := partition[record.ID]; exists {
		return goerr.New("idea record already exists", goerr.V("idea_id", record.ID))
	}

	clone := *record
	partition[record.ID] = &clone
	return nil
}

func (r *Memory) ListRecentIdeas(ctx context.Context, id model.Identity, limit int) ([]*model.IdeaRecord, error) {
	if id == "" {
		return nil, goerr.New("identity is required")
	}
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	partition := r.ideas[id]
	records := make([]*model.IdeaRecord, 0, len(partition))
	for _, record := range partition {
		clone := *record
		records = append(records, &clone)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}
