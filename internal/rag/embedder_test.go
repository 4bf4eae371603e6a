package rag

import (
	"context"
	"reflect"
	"testing"
)

func TestHashEmbedderDeterministic(t *testing.T) {
	e := NewHashEmbedder()
	ctx := context.Background()

	a, err := e.Embed(ctx, "solar panels")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	b, err := e.Embed(ctx, "solar panels")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("same text should produce the same vector")
	}

	c, _ := e.Embed(ctx, "battery storage")
	if reflect.DeepEqual(a, c) {
		t.Error("different text should produce a different vector")
	}
}

func TestHashEmbedderRange(t *testing.T) {
	e := NewHashEmbedder()

	v, err := e.Embed(context.Background(), "anything at all")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if len(v) != 32 {
		t.Fatalf("dimension = %d, want 32", len(v))
	}
	for i, f := range v {
		if f < 0 || f > 1 {
			t.Errorf("component %d = %v, want within [0, 1]", i, f)
		}
	}
}
