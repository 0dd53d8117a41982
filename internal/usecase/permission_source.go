package usecase

import (
	"context"
	"time"

	"teamskills/internal/permissions"
	"teamskills/internal/repository"

	"github.com/google/uuid"
)

// PermissionCache is the slice of the cache adapter this package needs.
type PermissionCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

func permissionCacheKey(userID uuid.UUID) string {
	return "perms:user:" + userID.String()
}

// CachedPermissionSource resolves permission snapshots through Redis with a
// short TTL, falling back to the user repository. Grant mutations call
// InvalidateUserPermissions so a downgrade takes effect on the next
// operation rather than a TTL later.
type CachedPermissionSource struct {
	users repository.UserRepository
	cache PermissionCache
	ttl   time.Duration
}

func NewCachedPermissionSource(users repository.UserRepository, cache PermissionCache, ttl time.Duration) *CachedPermissionSource {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &CachedPermissionSource{users: users, cache: cache, ttl: ttl}
}

func (s *CachedPermissionSource) GetUserGlobalPermissions(ctx context.Context, userID uuid.UUID) (permissions.Set, error) {
	key := permissionCacheKey(userID)

	if s.cache != nil {
		var cached []permissions.Permission
		if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return permissions.NewSet(cached...), nil
		}
	}

	set, err := s.users.GetGlobalPermissions(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, key, set.Slice(), s.ttl)
	}
	return set, nil
}

func (s *CachedPermissionSource) InvalidateUserPermissions(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(ctx, permissionCacheKey(userID))
}
