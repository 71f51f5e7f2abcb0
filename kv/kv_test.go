package kv

import (
	"context"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, ok := s.Get(ctx, "missing"); ok {
		t.Fatal("expected miss on empty store")
	}

	s.Set(ctx, "session:a:language", "en")
	if val, ok := s.Get(ctx, "session:a:language"); !ok || val != "en" {
		t.Fatalf("expected en, got %q ok=%v", val, ok)
	}

	s.Set(ctx, "session:a:language", "hi")
	if val, _ := s.Get(ctx, "session:a:language"); val != "hi" {
		t.Fatalf("expected overwrite to hi, got %q", val)
	}

	s.Del(ctx, "session:a:language")
	if _, ok := s.Get(ctx, "session:a:language"); ok {
		t.Fatal("expected miss after delete")
	}
}
