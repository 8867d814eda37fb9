// Package memory provides an in-process implementation of store.Store.
// It backs dry runs, tests, and small catalogs loaded from files.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/agentstation/satmap/pkg/constants"
	"github.com/agentstation/satmap/pkg/errors"
	"github.com/agentstation/satmap/pkg/store"
	"github.com/agentstation/satmap/pkg/taxonomy"
)

var _ store.Store = (*Store)(nil)

// Stats counts the write batches applied to the store.
type Stats struct {
	ActivityInserts int
	ActivityUpdates int
	ProductInserts  int
	ProductUpdates  int
	Renames         int
	Upserts         int
	Clears          int
}

// Writes returns the total number of catalog writes, excluding relations.
func (s Stats) Writes() int {
	return s.ActivityInserts + s.ActivityUpdates + s.ProductInserts + s.ProductUpdates + s.Renames
}

// Store is a mutex-guarded in-memory catalog.
type Store struct {
	mu sync.RWMutex

	activities map[uuid.UUID]taxonomy.Activity
	codes      map[string]uuid.UUID
	products   map[string]taxonomy.Product
	relations  map[taxonomy.RelationKey]taxonomy.Relation

	stats    Stats
	failures map[string]error
}

// Option configures a Store.
type Option func(*Store)

// WithActivities seeds the activity catalog. Entries without an ID get one.
func WithActivities(activities ...taxonomy.Activity) Option {
	return func(s *Store) {
		for _, a := range activities {
			if a.ID == uuid.Nil {
				a.ID = uuid.New()
			}
			s.activities[a.ID] = cloneActivity(a)
			s.codes[a.Code] = a.ID
		}
	}
}

// WithProducts seeds the product catalog.
func WithProducts(products ...taxonomy.Product) Option {
	return func(s *Store) {
		for _, p := range products {
			s.products[p.Code] = p
		}
	}
}

// WithRelations seeds the relation table.
func WithRelations(relations ...taxonomy.Relation) Option {
	return func(s *Store) {
		for _, r := range relations {
			s.relations[r.Key()] = r
		}
	}
}

// New creates an empty store with the given options applied.
func New(opts ...Option) *Store {
	s := &Store{
		activities: make(map[uuid.UUID]taxonomy.Activity),
		codes:      make(map[string]uuid.UUID),
		products:   make(map[string]taxonomy.Product),
		relations:  make(map[taxonomy.RelationKey]taxonomy.Relation),
		failures:   make(map[string]error),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FailOn makes every later call of the named method return err.
// Used by tests to exercise store failure paths.
func (s *Store) FailOn(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method] = err
}

func (s *Store) fail(method, operation, table string) error {
	if err, ok := s.failures[method]; ok {
		return errors.NewStoreError(operation, table, errors.StoreErrorUnknown, err)
	}
	return nil
}

// Stats returns the write counters.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// Activities implements store.ActivityStore.
func (s *Store) Activities(ctx context.Context) ([]taxonomy.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fail("Activities", "read", constants.ActivitiesTable); err != nil {
		return nil, err
	}

	out := make([]taxonomy.Activity, 0, len(s.activities))
	for _, a := range s.activities {
		out = append(out, cloneActivity(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, ctx.Err()
}

// LeafActivities implements store.ActivityStore.
func (s *Store) LeafActivities(ctx context.Context) ([]taxonomy.Activity, error) {
	all, err := s.Activities(ctx)
	if err != nil {
		return nil, err
	}
	leaves := all[:0]
	for _, a := range all {
		if a.Level.IsLeaf() {
			leaves = append(leaves, a)
		}
	}
	return leaves, nil
}

// Activity returns the activity with the given code.
func (s *Store) Activity(code string) (taxonomy.Activity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.codes[code]
	if !ok {
		return taxonomy.Activity{}, false
	}
	return cloneActivity(s.activities[id]), true
}

// InsertActivities implements store.ActivityStore.
func (s *Store) InsertActivities(ctx context.Context, activities []taxonomy.Activity) error {
	if len(activities) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("InsertActivities", "insert", constants.ActivitiesTable); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for i := range activities {
		a := &activities[i]
		if id, exists := s.codes[a.Code]; exists {
			a.ID = id
			continue
		}
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		s.activities[a.ID] = cloneActivity(*a)
		s.codes[a.Code] = a.ID
	}
	s.stats.ActivityInserts++
	return nil
}

// UpdateActivityHierarchy implements store.ActivityStore.
// Unknown IDs fail the whole batch before anything is applied.
func (s *Store) UpdateActivityHierarchy(ctx context.Context, updates []taxonomy.ActivityUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("UpdateActivityHierarchy", "update", constants.ActivitiesTable); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, u := range updates {
		if _, ok := s.activities[u.ID]; !ok {
			return errors.WrapStore("update", constants.ActivitiesTable,
				errors.NewNotFoundError("activity", u.ID.String()))
		}
	}
	for _, u := range updates {
		a := s.activities[u.ID]
		a.ParentID = clonePtr(u.ParentID)
		if u.Level != "" {
			a.Level = u.Level
		}
		s.activities[u.ID] = a
	}
	s.stats.ActivityUpdates++
	return nil
}

// Products implements store.ProductStore.
func (s *Store) Products(ctx context.Context) ([]taxonomy.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fail("Products", "read", constants.ProductsTable); err != nil {
		return nil, err
	}

	out := make([]taxonomy.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, ctx.Err()
}

// Product returns the product with the given code.
func (s *Store) Product(code string) (taxonomy.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[code]
	return p, ok
}

// InsertProducts implements store.ProductStore.
func (s *Store) InsertProducts(ctx context.Context, products []taxonomy.Product) error {
	if len(products) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("InsertProducts", "insert", constants.ProductsTable); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, p := range products {
		if existing, ok := s.products[p.Code]; ok {
			existing.Level = p.Level
			existing.ParentCode = p.ParentCode
			s.products[p.Code] = existing
			continue
		}
		s.products[p.Code] = p
	}
	s.stats.ProductInserts++
	return nil
}

// UpdateProductHierarchy implements store.ProductStore.
func (s *Store) UpdateProductHierarchy(ctx context.Context, updates []taxonomy.ProductUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("UpdateProductHierarchy", "update", constants.ProductsTable); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, u := range updates {
		if _, ok := s.products[u.Code]; !ok {
			return errors.WrapStore("update", constants.ProductsTable, errors.NewNotFoundError("product", u.Code))
		}
	}
	for _, u := range updates {
		p := s.products[u.Code]
		p.Level = u.Level
		p.ParentCode = u.ParentCode
		s.products[u.Code] = p
	}
	s.stats.ProductUpdates++
	return nil
}

// RenameProducts implements store.ProductStore.
func (s *Store) RenameProducts(ctx context.Context, renames []taxonomy.Rename) error {
	if len(renames) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("RenameProducts", "update", constants.ProductsTable); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, r := range renames {
		p, ok := s.products[r.Code]
		if !ok {
			continue
		}
		p.Name = r.To
		s.products[r.Code] = p
	}
	s.stats.Renames++
	return nil
}

// UpsertRelations implements store.RelationStore.
func (s *Store) UpsertRelations(ctx context.Context, relations []taxonomy.Relation) error {
	if len(relations) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("UpsertRelations", "upsert", constants.RelationsTable); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, r := range relations {
		if r.Score < 0 || r.Score > 1 {
			return errors.NewStoreError("upsert", constants.RelationsTable, errors.StoreErrorConstraint,
				fmt.Errorf("score %v out of range for %s/%s", r.Score, r.ActivityCode, r.ProductCode))
		}
	}
	for _, r := range relations {
		r.Breakdown = taxonomy.Breakdown{}
		if existing, ok := s.relations[r.Key()]; ok && r.Score <= existing.Score {
			continue
		}
		s.relations[r.Key()] = r
	}
	s.stats.Upserts++
	return nil
}

// ClearRelations implements store.RelationStore.
func (s *Store) ClearRelations(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("ClearRelations", "clear", constants.RelationsTable); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.relations = make(map[taxonomy.RelationKey]taxonomy.Relation)
	s.stats.Clears++
	return nil
}

// Relations implements store.RelationStore.
func (s *Store) Relations(ctx context.Context, filter taxonomy.RelationFilter) ([]taxonomy.Relation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fail("Relations", "read", constants.RelationsTable); err != nil {
		return nil, err
	}

	var out []taxonomy.Relation
	for _, r := range s.relations {
		if filter.Matches(r) {
			out = append(out, r)
		}
	}
	SortRelations(out)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, ctx.Err()
}

// Close implements store.Store.
func (s *Store) Close() error {
	return nil
}

// SortRelations orders relations by score descending, then activity and product code.
func SortRelations(rs []taxonomy.Relation) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].Score != rs[j].Score {
			return rs[i].Score > rs[j].Score
		}
		if rs[i].ActivityCode != rs[j].ActivityCode {
			return rs[i].ActivityCode < rs[j].ActivityCode
		}
		return rs[i].ProductCode < rs[j].ProductCode
	})
}

func cloneActivity(a taxonomy.Activity) taxonomy.Activity {
	a.ParentID = clonePtr(a.ParentID)
	return a
}

func clonePtr(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
