package repository

import (
	"context"
	"time"

	"go-life-planner/internal/model"
)

// RecycleStore is the archive collection. Every method is scoped to an owner.
type RecycleStore interface {
	Create(ctx context.Context, item model.RecycleItem) error
	FindByID(ctx context.Context, ownerID string, id string) (model.RecycleItem, error)
	// FindForUpdate reads a record and holds it until the surrounding
	// transaction ends, so concurrent restores of the same id serialize.
	FindForUpdate(ctx context.Context, ownerID string, id string) (model.RecycleItem, error)
	List(ctx context.Context, ownerID string, kind model.Kind) ([]model.RecycleItem, error)
	// Delete removes the record only if it still exists for the owner and
	// returns model.ErrRecycleItemNotFound otherwise.
	Delete(ctx context.Context, ownerID string, id string) error
	DeleteAll(ctx context.Context, ownerID string) (int64, error)
	// DeleteOlderThan purges records created before cutoff. An empty ownerID
	// matches every owner.
	DeleteOlderThan(ctx context.Context, ownerID string, cutoff time.Time) (int64, error)
}

// EntityStore reaches the live collections named by the type registry.
type EntityStore interface {
	Get(ctx context.Context, collection string, ownerID string, id string) (model.Document, error)
	GetForUpdate(ctx context.Context, collection string, ownerID string, id string) (model.Document, error)
	Exists(ctx context.Context, collection string, ownerID string, id string) (bool, error)
	List(ctx context.Context, collection string, ownerID string) ([]model.Document, error)
	Insert(ctx context.Context, collection string, ownerID string, doc model.Document) error
	Delete(ctx context.Context, collection string, ownerID string, id string) error
}

type Stores struct {
	Recycle  RecycleStore
	Entities EntityStore
}

// UnitOfWork hands out stores, either directly or bound to one transaction.
// When fn returns an error nothing it wrote is kept.
type UnitOfWork interface {
	Stores() Stores
	RunInTx(ctx context.Context, fn func(stores Stores) error) error
}
