// Package store defines the persistence contract the engine needs from the
// catalog database: reads of both taxonomies, batched inserts and updates
// used by the repair and naming passes, and the conditional relation upsert
// used by the matcher.
//
// Every write method is self-contained. A failure leaves earlier batches
// committed, and the retained invariants hold after any partial run.
package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/agentstation/satmap/pkg/taxonomy"
)

// ActivityStore reads and repairs the economic activity catalog.
type ActivityStore interface {
	// Activities returns every activity, in no particular order.
	Activities(ctx context.Context) ([]taxonomy.Activity, error)

	// LeafActivities returns the activities at the leaf level, ordered by code.
	LeafActivities(ctx context.Context) ([]taxonomy.Activity, error)

	// InsertActivities inserts synthetic activities. Codes that already
	// exist are left untouched, and their stored ID is written back into
	// the slice so later updates can reference the row that won.
	InsertActivities(ctx context.Context, activities []taxonomy.Activity) error

	// UpdateActivityHierarchy sets parent and level for existing activities.
	UpdateActivityHierarchy(ctx context.Context, updates []taxonomy.ActivityUpdate) error
}

// ProductStore reads and repairs the products/services catalog.
type ProductStore interface {
	// Products returns every product, ordered by code.
	Products(ctx context.Context) ([]taxonomy.Product, error)

	// InsertProducts inserts synthetic products. On a code conflict the
	// stored level and parent are overwritten and the name is kept.
	InsertProducts(ctx context.Context, products []taxonomy.Product) error

	// UpdateProductHierarchy sets level and parent for existing products.
	UpdateProductHierarchy(ctx context.Context, updates []taxonomy.ProductUpdate) error

	// RenameProducts replaces product names.
	RenameProducts(ctx context.Context, renames []taxonomy.Rename) error
}

// RelationStore persists congruence relations.
type RelationStore interface {
	// UpsertRelations inserts relations; for an existing pair the score and
	// reason are replaced only when the new score is strictly greater.
	// The whole batch is applied atomically.
	UpsertRelations(ctx context.Context, relations []taxonomy.Relation) error

	// ClearRelations removes every relation.
	ClearRelations(ctx context.Context) error

	// Relations lists relations matching the filter, highest score first,
	// ties by activity then product code.
	Relations(ctx context.Context, filter taxonomy.RelationFilter) ([]taxonomy.Relation, error)
}

// Store is the full persistence contract.
type Store interface {
	ActivityStore
	ProductStore
	RelationStore

	// Close releases the underlying connections.
	Close() error
}

// Batches splits items into consecutive slices of at most size elements.
// A size <= 0 yields a single batch.
func Batches[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 || size >= len(items) {
		return [][]T{items}
	}
	out := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end])
	}
	return out
}

// ParentOf returns the parent ID of an update, or uuid.Nil for a root.
func ParentOf(u taxonomy.ActivityUpdate) uuid.UUID {
	if u.ParentID == nil {
		return uuid.Nil
	}
	return *u.ParentID
}
