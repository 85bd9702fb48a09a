//go:build !llama

package engine

import (
	"errors"
	"testing"
	"time"
)

func TestStubRefusesToLoad(t *testing.T) {
	h, err := NewLlama().Open("/models/m.gguf", "test")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := h.Load(); !IsDependencyUnavailable(err) {
		t.Fatalf("expected dependency unavailable, got %v", err)
	}
	if _, err := h.Generate("hi", func(string, time.Duration) bool { return true }); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
	if Built {
		t.Fatalf("stub build must report Built=false")
	}
}

func TestStubKeepsParams(t *testing.T) {
	h, _ := NewLlama().Open("m.gguf", "test")
	p := h.Params()
	if p != DefaultParams() {
		t.Fatalf("expected defaults, got %+v", p)
	}
	p.TopK = 7
	h.SetParams(p)
	if h.Params().TopK != 7 {
		t.Fatalf("SetParams not applied")
	}
}
