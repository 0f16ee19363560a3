package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/arogyam-health-service/internal/domain"
)

// cachedUserRepository decorates a UserRepository with a Redis read cache
// for username lookups, the hot path of token validation. Cache failures
// degrade to direct reads; writes invalidate eagerly.
type cachedUserRepository struct {
	inner  UserRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedUserRepository wraps repo with a Redis cache. A nil client
// returns repo unchanged.
func NewCachedUserRepository(repo UserRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) UserRepository {
	if client == nil {
		return repo
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &cachedUserRepository{inner: repo, client: client, ttl: ttl, logger: logger}
}

func userCacheKey(username string) string {
	return "user:username:" + username
}

func (r *cachedUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if payload, err := r.client.Get(ctx, userCacheKey(username)).Result(); err == nil {
		var user domain.User
		if err := json.Unmarshal([]byte(payload), &user); err == nil {
			return &user, nil
		}
		// stale or corrupt entry, drop it and fall through
		r.client.Del(ctx, userCacheKey(username))
	} else if !errors.Is(err, redis.Nil) {
		r.logger.Warn("user cache read failed", zap.Error(err))
	}

	user, err := r.inner.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		if err := r.client.Set(ctx, userCacheKey(username), payload, r.ttl).Err(); err != nil {
			r.logger.Warn("user cache write failed", zap.Error(err))
		}
	}
	return user, nil
}

func (r *cachedUserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.inner.Create(ctx, user)
}

func (r *cachedUserRepository) Update(ctx context.Context, user *domain.User) error {
	if err := r.inner.Update(ctx, user); err != nil {
		return err
	}
	r.invalidate(ctx, user.Username)
	return nil
}

func (r *cachedUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.inner.GetByID(ctx, id)
}

func (r *cachedUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.inner.ExistsByUsername(ctx, username)
}

func (r *cachedUserRepository) ExistsByPhoneNumber(ctx context.Context, phoneNumber string) (bool, error) {
	return r.inner.ExistsByPhoneNumber(ctx, phoneNumber)
}

func (r *cachedUserRepository) List(ctx context.Context, filters UserListFilters) ([]domain.User, error) {
	return r.inner.List(ctx, filters)
}

func (r *cachedUserRepository) RecordLogin(ctx context.Context, username string, at time.Time) error {
	if err := r.inner.RecordLogin(ctx, username, at); err != nil {
		return err
	}
	r.invalidate(ctx, username)
	return nil
}

func (r *cachedUserRepository) invalidate(ctx context.Context, username string) {
	if err := r.client.Del(ctx, userCacheKey(username)).Err(); err != nil {
		r.logger.Warn("user cache invalidation failed", zap.String("username", username), zap.Error(err))
	}
}
