package cache

import (
	"bytes"
	"context"
	"fmt"
	"testing"
)

func TestImagesGetOrLoad(t *testing.T) {
	c, err := NewImages(10, 1024)
	if err != nil {
		t.Fatal(err)
	}

	var calls int
	loader := func(ctx context.Context, key string) ([]byte, error) {
		calls++
		return []byte("png-data"), nil
	}

	for i := 0; i < 2; i++ {
		data, err := c.GetOrLoad(context.Background(), "/poster.jpg", loader)
		if err != nil {
			t.Fatalf("GetOrLoad failed: %v", err)
		}
		if !bytes.Equal(data, []byte("png-data")) {
			t.Errorf("unexpected data: %q", data)
		}
	}
	if calls != 1 {
		t.Errorf("loader ran %d times, want 1", calls)
	}
	if c.Bytes() != len("png-data") {
		t.Errorf("byte accounting off: %d", c.Bytes())
	}
}

func TestImagesEntryLimit(t *testing.T) {
	c, err := NewImages(2, 1024)
	if err != nil {
		t.Fatal(err)
	}

	loader := func(ctx context.Context, key string) ([]byte, error) {
		return []byte("x"), nil
	}
	for i := 0; i < 3; i++ {
		c.GetOrLoad(context.Background(), fmt.Sprintf("/p%d.jpg", i), loader)
	}

	if c.Len() != 2 {
		t.Errorf("expected 2 entries after LRU eviction, got %d", c.Len())
	}
	if _, ok := c.Get("/p0.jpg"); ok {
		t.Error("oldest entry should have been evicted")
	}
}

func TestImagesByteBudget(t *testing.T) {
	c, err := NewImages(10, 100)
	if err != nil {
		t.Fatal(err)
	}

	chunk := make([]byte, 40)
	loader := func(ctx context.Context, key string) ([]byte, error) {
		return chunk, nil
	}
	for i := 0; i < 3; i++ {
		c.GetOrLoad(context.Background(), fmt.Sprintf("/b%d.jpg", i), loader)
	}

	if c.Bytes() > 100 {
		t.Errorf("byte budget exceeded: %d", c.Bytes())
	}
	if c.Len() != 2 {
		t.Errorf("expected 2 entries within budget, got %d", c.Len())
	}
	if _, ok := c.Get("/b0.jpg"); ok {
		t.Error("oldest entry should have been evicted for byte budget")
	}
}

func TestImagesOversizedAsset(t *testing.T) {
	c, err := NewImages(10, 100)
	if err != nil {
		t.Fatal(err)
	}

	big := make([]byte, 500)
	data, err := c.GetOrLoad(context.Background(), "/huge.jpg", func(ctx context.Context, key string) ([]byte, error) {
		return big, nil
	})
	if err != nil {
		t.Fatalf("GetOrLoad failed: %v", err)
	}
	if len(data) != 500 {
		t.Error("oversized asset should still be returned to the caller")
	}
	if c.Len() != 0 {
		t.Error("oversized asset must not be admitted to the cache")
	}
}
