package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFileCacheRoundTrip(t *testing.T) {
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	ctx := context.Background()
	type payload struct {
		Name  string  `json:"name"`
		Value float64 `json:"value"`
	}
	in := payload{Name: "GDP", Value: 123.45}
	if err := fc.Set(ctx, "fred:series:GDP", in, time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out payload
	if err := fc.Get(ctx, "fred:series:GDP", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if out != in {
		t.Fatalf("round trip drifted: %+v", out)
	}
}

func TestFileCacheSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	fc, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()
	if err := fc.Set(ctx, "k", "v", time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}

	fc2, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	var got string
	if err := fc2.Get(ctx, "k", &got); err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if got != "v" {
		t.Fatalf("got %q", got)
	}
}

func TestFileCacheMiss(t *testing.T) {
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	var out string
	if err := fc.Get(context.Background(), "absent", &out); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestFileCacheDeleteAndExists(t *testing.T) {
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()
	if err := fc.Set(ctx, "a", 1, time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	ok, err := fc.Exists(ctx, "a")
	if err != nil || !ok {
		t.Fatalf("exists = %v, %v", ok, err)
	}
	if err := fc.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	ok, err = fc.Exists(ctx, "a")
	if err != nil || ok {
		t.Fatalf("exists after delete = %v, %v", ok, err)
	}
}

func TestLayeredCachePromotesToMemory(t *testing.T) {
	dir := t.TempDir()
	backing, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("file cache: %v", err)
	}
	lc := NewLayeredCache(backing)
	t.Cleanup(func() { _ = lc.Close() })

	ctx := context.Background()
	if err := lc.Set(ctx, "k", "v", time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}

	// A second layered cache over the same directory reads through the
	// backing store.
	backing2, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("file cache: %v", err)
	}
	lc2 := NewLayeredCache(backing2)
	t.Cleanup(func() { _ = lc2.Close() })

	var got string
	if err := lc2.Get(ctx, "k", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "v" {
		t.Fatalf("got %q", got)
	}
}
