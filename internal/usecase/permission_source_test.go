package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"teamskills/internal/permissions"
)

// mapCache is an in-process stand-in for the Redis adapter.
type mapCache struct {
	entries map[string][]byte
	sets    int
	hits    int
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[string][]byte{}}
}

func (c *mapCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	b, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(b, out)
}

func (c *mapCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = b
	c.sets++
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

func TestCachedPermissionSource_CachesSnapshot(t *testing.T) {
	users := newMockUserRepo()
	subject := users.addUser("subject@example.com", permissions.PermReader)
	cache := newMapCache()
	src := NewCachedPermissionSource(users, cache, time.Minute)

	first, err := src.GetUserGlobalPermissions(context.Background(), subject.ID)
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if !first.Has(permissions.PermReader) {
		t.Fatalf("missing READER in snapshot")
	}
	if cache.sets != 1 {
		t.Fatalf("snapshot was not cached")
	}

	second, err := src.GetUserGlobalPermissions(context.Background(), subject.ID)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if cache.hits != 1 {
		t.Fatalf("second fetch did not hit the cache")
	}
	if !second.Has(permissions.PermReader) {
		t.Fatalf("cached snapshot lost READER")
	}
}

func TestCachedPermissionSource_InvalidateForcesRefetch(t *testing.T) {
	users := newMockUserRepo()
	subject := users.addUser("subject@example.com", permissions.PermReader)
	cache := newMapCache()
	src := NewCachedPermissionSource(users, cache, time.Minute)

	if _, err := src.GetUserGlobalPermissions(context.Background(), subject.ID); err != nil {
		t.Fatalf("warm: %v", err)
	}

	users.grants[subject.ID] = permissions.NewSet(permissions.PermGuest)
	src.InvalidateUserPermissions(context.Background(), subject.ID)

	set, err := src.GetUserGlobalPermissions(context.Background(), subject.ID)
	if err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if set.Has(permissions.PermReader) {
		t.Fatalf("stale snapshot survived invalidation")
	}
	if !set.Has(permissions.PermGuest) {
		t.Fatalf("fresh snapshot missing GUEST")
	}
}

func TestCachedPermissionSource_NilCache(t *testing.T) {
	users := newMockUserRepo()
	subject := users.addUser("subject@example.com", permissions.PermReader)
	src := NewCachedPermissionSource(users, nil, 0)

	set, err := src.GetUserGlobalPermissions(context.Background(), subject.ID)
	if err != nil {
		t.Fatalf("fetch without cache: %v", err)
	}
	if !set.Has(permissions.PermReader) {
		t.Fatalf("missing READER")
	}
}
