package cached

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"users-api/internal/adapter/cache"
	domain "users-api/internal/domain/user"
	"users-api/internal/usecase/user"
)

// UserRepository implements user.Repository with read-through caching.
// It wraps a persistent repository (DB) and a cache implementation.
type UserRepository struct {
	dbRepo user.Repository
	cache  cache.UserCache
	log    *zap.Logger
	group  singleflight.Group

	// pending holds ids whose invalidation failed. Their reads skip the
	// cache until a retried invalidation succeeds.
	pending sync.Map
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(dbRepo user.Repository, cache cache.UserCache, log *zap.Logger) *UserRepository {
	return &UserRepository{
		dbRepo: dbRepo,
		cache:  cache,
		log:    log,
	}
}

// Create delegates to the DB repository.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	return r.dbRepo.Create(ctx, u)
}

// List delegates to the DB repository.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.dbRepo.List(ctx)
}

// GetByID retrieves a user by ID using the cache-aside pattern.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if r.bypass(ctx, id) {
		return r.dbRepo.GetByID(ctx, id)
	}

	cachedUser, err := r.cache.Get(ctx, id)
	if err != nil {
		r.log.Warn("cache get error, falling back to database", zap.String("id", id), zap.Error(err))
	} else if cachedUser != nil {
		return cachedUser, nil
	}

	// Collapse concurrent misses for the same id into one database read.
	// The read is shared, so it must outlive any single caller.
	flightCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan(cache.Key(id), func() (any, error) {
		if cachedUser, err := r.cache.Get(flightCtx, id); err == nil && cachedUser != nil {
			return cachedUser, nil
		}

		u, err := r.dbRepo.GetByID(flightCtx, id)
		if err != nil {
			return nil, err
		}

		// A write that invalidated id while we read leaves a tombstone,
		// and the fill is refused.
		if _, err := r.cache.Set(flightCtx, u); err != nil {
			r.log.Warn("failed to cache user", zap.String("id", id), zap.Error(err))
		}
		return u, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.User), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Update updates the user in DB and invalidates the cache.
func (r *UserRepository) Update(ctx context.Context, id string, patch domain.Patch) (*domain.User, error) {
	u, err := r.dbRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	r.invalidate(ctx, id, "update")
	return u, nil
}

// Delete deletes the user from DB and invalidates the cache.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if err := r.dbRepo.Delete(ctx, id); err != nil {
		return err
	}

	r.invalidate(ctx, id, "delete")
	return nil
}

func (r *UserRepository) invalidate(ctx context.Context, id, op string) {
	if err := r.cache.Invalidate(ctx, id); err != nil {
		r.pending.Store(id, struct{}{})
		r.log.Warn("failed to invalidate cache, bypassing it for id",
			zap.String("op", op), zap.String("id", id), zap.Error(err))
		return
	}
	r.pending.Delete(id)
}

// bypass reports whether reads of id must skip the cache. It retries a
// pending invalidation first.
func (r *UserRepository) bypass(ctx context.Context, id string) bool {
	if _, ok := r.pending.Load(id); !ok {
		return false
	}
	if err := r.cache.Invalidate(ctx, id); err != nil {
		return true
	}
	r.pending.Delete(id)
	r.log.Info("pending cache invalidation applied", zap.String("id", id))
	return false
}
