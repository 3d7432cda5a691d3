package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/harukit/ideaspark/pkg/model"
	"github.com/harukit/ideaspark/pkg/repository"
)

func record(niche string, at time.Time) *model.IdeaRecord {
	return &model.IdeaRecord{
		ID:             model.NewIdeaID(),
		Niche:          niche,
		GeneratedIdeas: "ideas for " + niche,
		CreatedAt:      at,
	}
}

func TestMemoryPutThenRecent(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	id := model.Identity("user-a")

	rec := record("Remote dog owners", time.Now())
	gt.NoError(t, repo.PutIdea(ctx, id, rec))

	records, err := repo.ListRecentIdeas(ctx, id, 1)
	gt.NoError(t, err)
	gt.A(t, records).Length(1)
	gt.Equal(t, records[0].Niche, "Remote dog owners")
	gt.Equal(t, records[0].ID, rec.ID)
}

func TestMemoryRecentOrderAndWindow(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	id := model.Identity("user-a")

	now := time.Now()
	for i := 0; i < 8; i++ {
		rec := record("niche", now.Add(time.Duration(i)*time.Minute))
		gt.NoError(t, repo.PutIdea(ctx, id, rec))
	}

	records, err := repo.ListRecentIdeas(ctx, id, 5)
	gt.NoError(t, err)
	gt.A(t, records).Length(5)

	for i := 0; i < len(records)-1; i++ {
		gt.True(t, records[i].CreatedAt.After(records[i+1].CreatedAt))
	}
}

func TestMemoryPartitionIsolation(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()

	gt.NoError(t, repo.PutIdea(ctx, "user-a", record("alpha", time.Now())))
	gt.NoError(t, repo.PutIdea(ctx, "user-b", record("beta", time.Now())))

	records, err := repo.ListRecentIdeas(ctx, "user-a", 10)
	gt.NoError(t, err)
	gt.A(t, records).Length(1)
	gt.Equal(t, records[0].Niche, "alpha")
}

func TestMemoryRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	id := model.Identity("user-a")

	rec := record("niche", time.Now())
	gt.NoError(t, repo.PutIdea(ctx, id, rec))
	gt.Error(t, repo.PutIdea(ctx, id, rec))
}

func TestMemoryRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()

	gt.Error(t, repo.PutIdea(ctx, "", record("niche", time.Now())))
	gt.Error(t, repo.PutIdea(ctx, "user-a", &model.IdeaRecord{ID: model.NewIdeaID()}))

	_, err := repo.ListRecentIdeas(ctx, "", 5)
	gt.Error(t, err)
}

func TestMemoryDefaultLimit(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	id := model.Identity("user-a")

	now := time.Now()
	for i := 0; i < repository.DefaultRecentLimit+2; i++ {
		gt.NoError(t, repo.PutIdea(ctx, id, record("niche", now.Add(time.Duration(i)*time.Second))))
	}

	records, err := repo.ListRecentIdeas(ctx, id, 0)
	gt.NoError(t, err)
	gt.A(t, records).Length(repository.DefaultRecentLimit)
}
