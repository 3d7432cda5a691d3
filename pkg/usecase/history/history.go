package history

import (
	"context"
	"encoding/json"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/harukit/ideaspark/pkg/adapter"
	"github.com/harukit/ideaspark/pkg/identity"
	"github.com/harukit/ideaspark/pkg/model"
	"github.com/harukit/ideaspark/pkg/repository"
	"github.com/harukit/ideaspark/pkg/utils/logging"
)

// Recent returns the most recent records for the session identity,
// newest first. It fails soft: before identity readiness or on any
// fetch error it returns an empty slice and logs a warning, so a broken
// history view never breaks the rest of the session.
func Recent(ctx context.Context, repo repository.Repository, ident *identity.Provider, limit int) []*model.IdeaRecord {
	logger := logging.From(ctx)

	id, ok := ident.Current()
	if !ok {
		logger.Warn("history requested before identity is established")
		return nil
	}

	records, err := repo.ListRecentIdeas(ctx, id, limit)
	if err != nil {
		logger.Warn("failed to load idea history", logging.ErrAttr(err))
		return nil
	}

	return records
}

// Export writes the recent history window as a JSON document to the
// storage sink and returns the object key. Unlike Recent, export is an
// explicit user action, so failures propagate.
func Export(ctx context.Context, repo repository.Repository, storage adapter.Storage, ident *identity.Provider, limit int) (string, error) {
	id, err := ident.Wait(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "identity is required for export")
	}

	records, err := repo.ListRecentIdeas(ctx, id, limit)
	if err != nil {
		return "", goerr.Wrap(err, "failed to load idea history")
	}

	key := "exports/" + string(id) + "/" + time.Now().UTC().Format("20060102T150405Z") + ".json"

	writer, err := storage.Put(ctx, key)
	if err != nil {
		return "", goerr.Wrap(err, "failed to open export writer", goerr.V("key", key))
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		_ = writer.Close()
		return "", goerr.Wrap(err, "failed to marshal history")
	}

	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return "", goerr.Wrap(err, "failed to write export", goerr.V("key", key))
	}

	if err := writer.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to finalize export", goerr.V("key", key))
	}

	return key, nil
}
