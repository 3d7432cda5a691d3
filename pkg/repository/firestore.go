package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/harukit/ideaspark/pkg/model"
)

// Firestore implements Repository on Cloud Firestore. Document layout:
// namespaces/{namespace}/users/{identity}/ideas/{ideaID}
type Firestore struct {
	client    *firestore.Client
	namespace string
}

// NewFirestore creates a Firestore-backed repository. namespace scopes
// all partitions of one deployment so that multiple apps can share a
// database.
func NewFirestore(ctx context.Context, projectID, databaseID, namespace string, opts ...option.ClientOption) (*Firestore, error) {
	if projectID == "" {
		return nil, goerr.New("project ID is required")
	}
	if namespace == "" {
		return nil, goerr.New("namespace is required")
	}
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project", projectID), goerr.V("database", databaseID))
	}

	return &Firestore{
		client:    client,
		namespace: namespace,
	}, nil
}

// Close releases the underlying client
func (r *Firestore) Close() error {
	return r.client.Close()
}

func (r *Firestore) ideas(id model.Identity) *firestore.CollectionRef {
	return r.client.Collection("namespaces").
		Doc(r.namespace).
		Collection("users").
		Doc(string(id)).
		Collection("ideas")
}

func (r *Firestore) PutIdea(ctx context.Context, id model.Identity, record *model.IdeaRecord) error {
	if id == "" {
		return goerr.New("identity is required")
	}
	if err := record.Validate(); err != nil {
		return goerr.Wrap(err, "invalid idea record")
	}

	// Create, not Set: records are immutable and must not be overwritten
	if _, err := r.ideas(id).Doc(string(record.ID)).Create(ctx, record); err != nil {
		return goerr.Wrap(err, "failed to put idea record",
			goerr.V("identity", id), goerr.V("idea_id", record.ID))
	}

	return nil
}

func (r *Firestore) ListRecentIdeas(ctx context.Context, id model.Identity, limit int) ([]*model.IdeaRecord, error) {
	if id == "" {
		return nil, goerr.New("identity is required")
	}
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	iter := r.ideas(id).
		OrderBy("created_at", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var records []*model.IdeaRecord
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate idea records", goerr.V("identity", id))
		}

		var record model.IdeaRecord
		if err := doc.DataTo(&record); err != nil {
			return nil, goerr.Wrap(err, "failed to decode idea record", goerr.V("doc", doc.Ref.ID))
		}
		records = append(records, &record)
	}

	return records, nil
}
