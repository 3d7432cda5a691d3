package history_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/harukit/ideaspark/pkg/identity"
	"github.com/harukit/ideaspark/pkg/model"
	"github.com/harukit/ideaspark/pkg/repository"
	"github.com/harukit/ideaspark/pkg/usecase/history"
)

// Mock Storage
type mockStorage struct {
	data map[string][]byte
}

func newMockStorage() *mockStorage {
	return &mockStorage{data: make(map[string][]byte)}
}

func (m *mockStorage) Put(ctx context.Context, key string) (io.WriteCloser, error) {
	return &mockWriteCloser{Buffer: &bytes.Buffer{}, storage: m, key: key}, nil
}

func (m *mockStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := m.data[key]
	if !ok {
		return nil, goerr.New("object not found", goerr.V("key", key))
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

type mockWriteCloser struct {
	*bytes.Buffer
	storage *mockStorage
	key     string
}

func (m *mockWriteCloser) Close() error {
	m.storage.data[m.key] = m.Buffer.Bytes()
	return nil
}

// Repository that always fails
type brokenRepo struct{}

func (brokenRepo) PutIdea(ctx context.Context, id model.Identity, record *model.IdeaRecord) error {
	return goerr.New("store unreachable")
}

func (brokenRepo) ListRecentIdeas(ctx context.Context, id model.Identity, limit int) ([]*model.IdeaRecord, error) {
	return nil, goerr.New("store unreachable")
}

func readyIdentity(ctx context.Context, id model.Identity) *identity.Provider {
	p := identity.New(id)
	p.Resolve(ctx)
	return p
}

func TestRecentReturnsWindow(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	ident := readyIdentity(ctx, "user-a")

	now := time.Now()
	for i := 0; i < 7; i++ {
		rec := &model.IdeaRecord{
			ID:             model.NewIdeaID(),
			Niche:          "niche",
			GeneratedIdeas: "ideas",
			CreatedAt:      now.Add(time.Duration(i) * time.Second),
		}
		gt.NoError(t, repo.PutIdea(ctx, "user-a", rec))
	}

	records := history.Recent(ctx, repo, ident, 5)
	gt.A(t, records).Length(5)
}

func TestRecentBeforeReadinessIsEmpty(t *testing.T) {
	ctx := context.Background()
	ident := identity.New("user-a") // never resolved

	records := history.Recent(ctx, repository.NewMemory(), ident, 5)
	gt.A(t, records).Length(0)
}

func TestRecentFetchErrorIsSoft(t *testing.T) {
	ctx := context.Background()
	ident := readyIdentity(ctx, "user-a")

	records := history.Recent(ctx, brokenRepo{}, ident, 5)
	gt.A(t, records).Length(0)
}

func TestExportWritesJSON(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	storage := newMockStorage()
	ident := readyIdentity(ctx, "user-a")

	rec := model.NewIdeaRecord("Remote dog owners", "1. PupConnect ...")
	gt.NoError(t, repo.PutIdea(ctx, "user-a", rec))

	key, err := history.Export(ctx, repo, storage, ident, 5)
	gt.NoError(t, err)
	gt.S(t, key).Contains("exports/user-a/")
	gt.True(t, strings.HasSuffix(key, ".json"))

	var exported []*model.IdeaRecord
	gt.NoError(t, json.Unmarshal(storage.data[key], &exported))
	gt.A(t, exported).Length(1)
	gt.Equal(t, exported[0].Niche, "Remote dog owners")
}

func TestExportFetchErrorPropagates(t *testing.T) {
	ctx := context.Background()
	ident := readyIdentity(ctx, "user-a")

	_, err := history.Export(ctx, brokenRepo{}, newMockStorage(), ident, 5)
	gt.Error(t, err)
}
