package cron

import (
	"context"
	"testing"
	"time"
)

type memoryStore struct {
	values map[string]string
}

func (m *memoryStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := m.values[key]; ok {
		return false, nil
	}
	m.values[key] = value.(string)
	return true, nil
}

func (m *memoryStore) ReleaseIfOwner(_ context.Context, key, owner string) (bool, error) {
	if m.values[key] != owner {
		return false, nil
	}
	delete(m.values, key)
	return true, nil
}

const testLockKey = "barbachli:lock:cron-worker"

func TestRedisLockIsExclusive(t *testing.T) {
	store := &memoryStore{values: map[string]string{}}
	ctx := context.Background()
	first, err := NewRedisLock(store, testLockKey, 0)
	if err != nil {
		t.Fatalf("new lock: %v", err)
	}
	if first.TTL() != defaultLockTTL {
		t.Fatalf("expected default ttl, got %s", first.TTL())
	}
	second, _ := NewRedisLock(store, testLockKey, time.Minute)

	if ok, err := first.Acquire(ctx); err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}
	if ok, _ := second.Acquire(ctx); ok {
		t.Fatal("second replica acquired a held lock")
	}
	if err := second.Release(ctx); err != nil {
		t.Fatalf("non-owner release: %v", err)
	}
	if _, held := store.values[testLockKey]; !held {
		t.Fatal("non-owner release dropped the lock")
	}
	if err := first.Release(ctx); err != nil {
		t.Fatalf("owner release: %v", err)
	}
	if ok, _ := second.Acquire(ctx); !ok {
		t.Fatal("lock not reusable after release")
	}
}

func TestRedisLockExpiredLeaseCannotDropSuccessor(t *testing.T) {
	store := &memoryStore{values: map[string]string{}}
	ctx := context.Background()
	stale, _ := NewRedisLock(store, "k", time.Minute)
	if ok, _ := stale.Acquire(ctx); !ok {
		t.Fatal("acquire failed")
	}

	delete(store.values, "k")
	successor, _ := NewRedisLock(store, "k", time.Minute)
	if ok, _ := successor.Acquire(ctx); !ok {
		t.Fatal("successor acquire failed")
	}

	if err := stale.Release(ctx); err != nil {
		t.Fatalf("stale release: %v", err)
	}
	if _, held := store.values["k"]; !held {
		t.Fatal("stale lease released the successor's lock")
	}
}

func TestNewRedisLockValidates(t *testing.T) {
	if _, err := NewRedisLock(nil, "k", 0); err == nil {
		t.Fatal("expected client error")
	}
	if _, err := NewRedisLock(&memoryStore{}, "", 0); err == nil {
		t.Fatal("expected key error")
	}
}
