package store

import (
	"context"
	"testing"
)

func TestCache_MissThenHit(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, ok, err := s.CacheGet(ctx, "k1", "1")
	if err != nil {
		t.Fatalf("CacheGet() failed: %v", err)
	}
	if ok {
		t.Fatal("CacheGet() on empty cache reported a hit")
	}

	if err := s.CachePut(ctx, "k1", "1", "fn main():\n    pass\n"); err != nil {
		t.Fatalf("CachePut() failed: %v", err)
	}

	for i := 1; i <= 2; i++ {
		out, ok, err := s.CacheGet(ctx, "k1", "1")
		if err != nil {
			t.Fatalf("CacheGet() failed: %v", err)
		}
		if !ok || out != "fn main():\n    pass\n" {
			t.Fatalf("CacheGet() = %q, %v", out, ok)
		}
		hits, err := s.CacheHits(ctx, "k1")
		if err != nil {
			t.Fatalf("CacheHits() failed: %v", err)
		}
		if hits != i {
			t.Errorf("hits = %d, want %d", hits, i)
		}
	}
}

func TestCache_IRVersionMismatchIsMiss(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if err := s.CachePut(ctx, "k1", "1", "old"); err != nil {
		t.Fatalf("CachePut() failed: %v", err)
	}

	_, ok, err := s.CacheGet(ctx, "k1", "2")
	if err != nil {
		t.Fatalf("CacheGet() failed: %v", err)
	}
	if ok {
		t.Error("entry from another IR version should miss")
	}

	hits, err := s.CacheHits(ctx, "k1")
	if err != nil {
		t.Fatalf("CacheHits() failed: %v", err)
	}
	if hits != 0 {
		t.Errorf("hits = %d, a miss must not count", hits)
	}
}

func TestCache_PutReplaces(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if err := s.CachePut(ctx, "k1", "1", "first"); err != nil {
		t.Fatalf("CachePut() failed: %v", err)
	}
	if _, _, err := s.CacheGet(ctx, "k1", "1"); err != nil {
		t.Fatalf("CacheGet() failed: %v", err)
	}
	if err := s.CachePut(ctx, "k1", "2", "second"); err != nil {
		t.Fatalf("second CachePut() failed: %v", err)
	}

	out, ok, err := s.CacheGet(ctx, "k1", "2")
	if err != nil || !ok || out != "second" {
		t.Fatalf("CacheGet() = %q, %v, %v; want replaced entry", out, ok, err)
	}
	hits, _ := s.CacheHits(ctx, "k1")
	if hits != 1 {
		t.Errorf("hits = %d, want counter reset by CachePut then 1", hits)
	}
}

func TestCacheHits_UnknownKey(t *testing.T) {
	s := createTestStore(t)

	hits, err := s.CacheHits(context.Background(), "missing")
	if err != nil {
		t.Fatalf("CacheHits() failed: %v", err)
	}
	if hits != 0 {
		t.Errorf("hits = %d, want 0", hits)
	}
}
