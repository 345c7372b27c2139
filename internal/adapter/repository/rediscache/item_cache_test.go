package rediscache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/user/storefront/internal/domain"
	"github.com/user/storefront/internal/domain/mocks"
)

func newCache(t *testing.T) (*ItemCache, *mocks.MockItemRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	inner := mocks.NewMockItemRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewItemCache(inner, client, logger, nil, time.Minute), inner, mr
}

func seed(t *testing.T, inner *mocks.MockItemRepository) *domain.Item {
	t.Helper()
	item := &domain.Item{ID: uuid.New(), Title: "Widget", Price: 1000}
	if err := inner.Create(context.Background(), item); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return item
}

func TestItemCache_ReadThrough(t *testing.T) {
	cache, inner, mr := newCache(t)
	item := seed(t, inner)

	got, err := cache.FindByID(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	if got.Title != "Widget" {
		t.Errorf("unexpected item: %+v", got)
	}
	if !mr.Exists(itemKeyPrefix + item.ID.String()) {
		t.Error("expected the miss to populate the cache")
	}

	// Mutate the inner store behind the cache's back; the cached copy wins
	// until invalidation or TTL.
	inner.Items[item.ID].Title = "Changed"
	got, err = cache.FindByID(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if got.Title != "Widget" {
		t.Errorf("expected cached title, got %q", got.Title)
	}

	mr.FastForward(2 * time.Minute)
	got, err = cache.FindByID(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("post-ttl read: %v", err)
	}
	if got.Title != "Changed" {
		t.Errorf("expected refreshed title after TTL, got %q", got.Title)
	}
}

func TestItemCache_InvalidatesOnWrite(t *testing.T) {
	cache, inner, mr := newCache(t)
	item := seed(t, inner)

	if _, err := cache.FindByID(context.Background(), item.ID); err != nil {
		t.Fatalf("warm read: %v", err)
	}

	newTitle := "Better Widget"
	if _, err := cache.Update(context.Background(), item.ID, domain.ItemPatch{Title: &newTitle}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if mr.Exists(itemKeyPrefix + item.ID.String()) {
		t.Error("expected update to invalidate the cache entry")
	}

	got, err := cache.FindByID(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("read after update: %v", err)
	}
	if got.Title != "Better Widget" {
		t.Errorf("expected updated title, got %q", got.Title)
	}

	if err := cache.Delete(context.Background(), item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if mr.Exists(itemKeyPrefix + item.ID.String()) {
		t.Error("expected delete to invalidate the cache entry")
	}
	if _, err := cache.FindByID(context.Background(), item.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestItemCache_FallsBackWhenRedisDown(t *testing.T) {
	cache, inner, mr := newCache(t)
	item := seed(t, inner)
	mr.Close()

	got, err := cache.FindByID(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("expected fallback read to succeed, got %v", err)
	}
	if got.ID != item.ID {
		t.Errorf("unexpected item: %+v", got)
	}
}
