package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "store_reviews/internal/adapters/redis"
	"store_reviews/internal/domain"
)

func TestCache_SetGetDel(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	if err := c.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	var miss domain.ReviewsResponse
	if ok, err := c.Get(ctx, "reviews:app", &miss); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	in := domain.ReviewsResponse{Reviews: []domain.Review{{Author: "Ana", Context: "Web", Rating: 4, Text: ""}}}
	if err := c.Set(ctx, "reviews:app", in, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	if ttl := mr.TTL("reviews:app"); ttl != time.Minute {
		t.Fatalf("expected 1m TTL, got %s", ttl)
	}

	var out domain.ReviewsResponse
	ok, err := c.Get(ctx, "reviews:app", &out)
	if !ok || err != nil {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if len(out.Reviews) != 1 || out.Reviews[0].Author != "Ana" {
		t.Fatalf("unexpected cached value: %+v", out)
	}

	if err := c.Del(ctx, "reviews:app"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if mr.Exists("reviews:app") {
		t.Fatalf("key still present after Del")
	}
}

func TestCache_Expiry(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	if err := c.Set(ctx, "k", domain.ReviewsResponse{}, 1); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(2 * time.Second)

	var out domain.ReviewsResponse
	if ok, _ := c.Get(ctx, "k", &out); ok {
		t.Fatalf("expected expired key to miss")
	}
}

func TestCache_CorruptEntry(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })

	if err := mr.Set("k", "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	var out domain.ReviewsResponse
	if ok, err := c.Get(context.Background(), "k", &out); ok || err == nil {
		t.Fatalf("expected miss with error, got ok=%v err=%v", ok, err)
	}
}
