package utils

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestListingKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://example.cv/imovel/1", "https://example.cv/imovel/1"},
		{"  https://example.cv/imovel/1  ", "https://example.cv/imovel/1"},
		{"HTTPS://Example.CV/imovel/1/", "https://example.cv/imovel/1"},
		{"https://example.cv/imovel/1#fotos", "https://example.cv/imovel/1"},
		{"https://example.cv/imovel/1?utm_source=fb&utm_medium=ad", "https://example.cv/imovel/1"},
		{"https://example.cv/imovel/1?fbclid=abc&id=9", "https://example.cv/imovel/1?id=9"},
		{"https://example.cv/lista?page=2&lang=pt", "https://example.cv/lista?lang=pt&page=2"},
		{"https://example.cv/", "https://example.cv"},
		{"not a url", "not a url"},
	}

	for _, tt := range tests {
		if got := ListingKey(tt.input); got != tt.want {
			t.Errorf("ListingKey(%q): got %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestListingKeysClaimOnce(t *testing.T) {
	k := NewListingKeys()

	key, fresh := k.Claim("https://example.cv/imovel/1")
	if !fresh || key != "https://example.cv/imovel/1" {
		t.Errorf("first claim: got %q/%v", key, fresh)
	}

	if _, fresh := k.Claim("https://EXAMPLE.cv/imovel/1/?utm_campaign=x"); fresh {
		t.Error("the same listing through a tracking link should not be fresh")
	}

	if k.Len() != 1 {
		t.Errorf("len: got %d, want 1", k.Len())
	}
}

func TestListingKeysConcurrentClaims(t *testing.T) {
	k := NewListingKeys()
	var fresh int64
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := k.Claim("https://example.cv/imovel/same"); ok {
				atomic.AddInt64(&fresh, 1)
			}
		}()
	}
	wg.Wait()

	if fresh != 1 {
		t.Errorf("expected exactly 1 fresh claim, got %d", fresh)
	}
}
