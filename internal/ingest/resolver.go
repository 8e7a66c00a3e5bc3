package ingest

import (
	"context"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/decora/app/models"
	"github.com/shashiranjanraj/decora/app/repositories"
	"github.com/shashiranjanraj/decora/pkg/metrics"
)

// cacheKey mirrors the store's (name, type) uniqueness, so within one run a
// taxonomy node resolves to exactly one id no matter how many keys share it.
type cacheKey struct {
	typ  models.CategoryType
	name string
}

// CategoryResolver maps (name, type, parent) to a stable category id,
// creating the row on first sight and memoizing within the run.
//
// The cache is process-local and rebuilt every run; cross-run stability
// comes from the store's own (name, type) unique index. The mutex covers
// only the map, so two workers can still race to first-insert the same
// node — the loser recovers by re-selecting the winner's row.
type CategoryResolver struct {
	repo *repositories.CategoryRepository

	mu    sync.Mutex
	cache map[cacheKey]uint
}

func NewCategoryResolver(repo *repositories.CategoryRepository) *CategoryResolver {
	return &CategoryResolver{
		repo:  repo,
		cache: make(map[cacheKey]uint),
	}
}

// Resolve returns the category id for (name, typ), creating the row with
// parentID when it does not exist yet. Callers must resolve in strict
// hierarchical order (STYLE, then ROOM_TYPE, then PRODUCT_TYPE) so parentID
// is always known before the child is created.
func (r *CategoryResolver) Resolve(ctx context.Context, name string, typ models.CategoryType, parentID *uint) (uint, error) {
	key := cacheKey{typ: typ, name: name}

	r.mu.Lock()
	if id, ok := r.cache[key]; ok {
		r.mu.Unlock()
		metrics.CategoryCacheHits.Inc()
		return id, nil
	}
	r.mu.Unlock()
	metrics.CategoryCacheMisses.Inc()

	cat, err := r.repo.FindByNameAndType(ctx, name, typ)
	switch {
	case err == nil:
		return r.remember(key, cat.ID), nil
	case !repositories.IsNotFound(err):
		return 0, fmt.Errorf("ingest: find category %q [%s]: %w", name, typ, err)
	}

	created := models.Category{Name: name, Type: typ, ParentID: parentID}
	err = r.repo.Create(ctx, &created)
	if err == nil {
		return r.remember(key, created.ID), nil
	}

	// Lost a first-insert race: another worker (or a concurrent run)
	// created the node between our lookup and insert. Its row is the
	// canonical one.
	if repositories.IsDuplicate(err) {
		cat, ferr := r.repo.FindByNameAndType(ctx, name, typ)
		if ferr != nil {
			return 0, fmt.Errorf("ingest: refetch category %q [%s]: %w", name, typ, ferr)
		}
		return r.remember(key, cat.ID), nil
	}

	return 0, fmt.Errorf("ingest: create category %q [%s]: %w", name, typ, err)
}

func (r *CategoryResolver) remember(key cacheKey, id uint) uint {
	r.mu.Lock()
	r.cache[key] = id
	r.mu.Unlock()
	return id
}
