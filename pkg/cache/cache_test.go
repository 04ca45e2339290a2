package cache

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("graph TD"))
	h2 := Hash([]byte("graph TD"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("sequenceDiagram"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestRenderKey(t *testing.T) {
	type cfg struct {
		Width int
		Theme string
	}

	// Deterministic for identical inputs
	k1 := RenderKey("graph TD", cfg{800, "default"}, "png")
	k2 := RenderKey("graph TD", cfg{800, "default"}, "png")
	if k1 != k2 {
		t.Error("RenderKey should be deterministic")
	}
	if !strings.HasPrefix(k1, "render:") {
		t.Errorf("RenderKey should be prefixed: %s", k1)
	}

	// Any component change produces a different key
	if k1 == RenderKey("graph LR", cfg{800, "default"}, "png") {
		t.Error("Different code should produce a different key")
	}
	if k1 == RenderKey("graph TD", cfg{1200, "default"}, "png") {
		t.Error("Different config should produce a different key")
	}
	if k1 == RenderKey("graph TD", cfg{800, "default"}, "svg") {
		t.Error("Different format should produce a different key")
	}
}
