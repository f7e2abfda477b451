package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// setupTestRedis creates a test Redis client.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // Use a separate DB for tests
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

func TestManager_SetAndGet(t *testing.T) {
	redisClient := setupTestRedis(t)
	m := NewManager(redisClient, 15*time.Minute)
	ctx := context.Background()

	key := KeyForURL("https://en.wikipedia.org/w/api.php?action=query&list=allpages")
	entry := NewEntry([]byte(`{"query":{"allpages":[]}}`), 10*time.Minute)

	if err := m.Set(ctx, key, entry); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	got, err := m.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if string(got.Data) != string(entry.Data) {
		t.Errorf("Data = %q, want %q", string(got.Data), string(entry.Data))
	}
}

func TestManager_GetMiss(t *testing.T) {
	redisClient := setupTestRedis(t)
	m := NewManager(redisClient, 15*time.Minute)

	key := KeyForURL("https://en.wikipedia.org/w/api.php?action=query&cmtitle=Category:Nothing")

	_, err := m.Get(context.Background(), key)
	if err != ErrCacheMiss {
		t.Errorf("error = %v, want ErrCacheMiss", err)
	}
}

func TestManager_SetExpiredEntryNotCached(t *testing.T) {
	redisClient := setupTestRedis(t)
	m := NewManager(redisClient, 15*time.Minute)
	ctx := context.Background()

	key := KeyForURL("https://en.wikipedia.org/w/api.php?action=query&cmtitle=Category:Old")
	entry := &Entry{
		Data:      []byte(`{}`),
		FetchedAt: time.Now().Add(-time.Hour),
		ExpiresAt: time.Now().Add(-time.Minute),
	}

	if err := m.Set(ctx, key, entry); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	if _, err := m.Get(ctx, key); err != ErrCacheMiss {
		t.Errorf("error = %v, want ErrCacheMiss for expired entry", err)
	}
}

func TestManager_Delete(t *testing.T) {
	redisClient := setupTestRedis(t)
	m := NewManager(redisClient, 15*time.Minute)
	ctx := context.Background()

	key := KeyForURL("https://en.wikipedia.org/w/api.php?action=query&cmtitle=Category:Gone")
	entry := NewEntry([]byte(`{}`), time.Minute)

	if err := m.Set(ctx, key, entry); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := m.Delete(ctx, key); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := m.Get(ctx, key); err != ErrCacheMiss {
		t.Errorf("error = %v, want ErrCacheMiss after delete", err)
	}
}
