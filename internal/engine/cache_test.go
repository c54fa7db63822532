package engine

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestCacheKey(t *testing.T) {
	k1 := CacheKey("transcript", "abc123", "en")
	k2 := CacheKey("transcript", "abc123", "en")
	k3 := CacheKey("transcript", "abc123", "ja")

	if k1 != k2 {
		t.Errorf("same parts produced different keys: %q vs %q", k1, k2)
	}
	if k1 == k3 {
		t.Error("different parts produced the same key")
	}
	if !strings.HasPrefix(k1, "dt:") {
		t.Errorf("key %q missing dt: prefix", k1)
	}
	if len(k1) != len("dt:")+24 {
		t.Errorf("key length = %d, want %d", len(k1), len("dt:")+24)
	}
}

func TestCacheRoundtrip(t *testing.T) {
	InitCache("", time.Minute, 100, time.Minute)
	ctx := context.Background()
	key := CacheKey("test", "roundtrip")

	if _, ok := CacheGetBytes(ctx, key); ok {
		t.Fatal("unexpected hit before set")
	}

	CacheSetBytes(ctx, key, []byte("hello"))
	data, ok := CacheGetBytes(ctx, key)
	if !ok {
		t.Fatal("expected hit after set")
	}
	if string(data) != "hello" {
		t.Errorf("got %q, want %q", data, "hello")
	}

	CacheDelete(ctx, key)
	if _, ok := CacheGetBytes(ctx, key); ok {
		t.Error("unexpected hit after delete")
	}
}

func TestCacheJSONHelpers(t *testing.T) {
	InitCache("", time.Minute, 100, time.Minute)
	ctx := context.Background()
	key := CacheKey("test", "json")

	lines := []NormalizedLine{
		{Text: "Hello world.", Offset: 0, Duration: 2000},
		{Text: "Second sentence.", Offset: 2000, Duration: 3000, Translation: "二番目の文。"},
	}
	CacheStoreJSON(ctx, key, lines)

	got, ok := CacheLoadJSON[[]NormalizedLine](ctx, key)
	if !ok {
		t.Fatal("expected JSON hit")
	}
	if len(got) != 2 || got[0].Text != "Hello world." || got[1].Translation != "二番目の文。" {
		t.Errorf("roundtrip mismatch: %+v", got)
	}
}

func TestCacheLoadJSONDecodeMiss(t *testing.T) {
	InitCache("", time.Minute, 100, time.Minute)
	ctx := context.Background()
	key := CacheKey("test", "baddata")

	CacheSetBytes(ctx, key, []byte("not json"))
	if _, ok := CacheLoadJSON[[]NormalizedLine](ctx, key); ok {
		t.Error("decode failure should read as a miss")
	}
}
