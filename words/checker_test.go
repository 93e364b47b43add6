package words

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
)

func TestFileCache_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.json")

	c, err := NewFileCache(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Store("Apple", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Store("zzzz", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reloaded, err := NewFileCache(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reloaded.Len() != 2 {
		t.Errorf("expected 2 cached words, got %d", reloaded.Len())
	}
	valid, ok := reloaded.Lookup("apple")
	if !ok || !valid {
		t.Errorf("expected apple cached as valid, got ok=%v valid=%v", ok, valid)
	}
	valid, ok = reloaded.Lookup("zzzz")
	if !ok || valid {
		t.Errorf("expected zzzz cached as invalid, got ok=%v valid=%v", ok, valid)
	}
}

func TestFileCache_MissingFileIsEmpty(t *testing.T) {
	c, err := NewFileCache(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", c.Len())
	}
}

func TestAPIChecker_StatusCodes(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		switch r.URL.Path {
		case "/hello":
			w.WriteHeader(http.StatusOK)
		case "/xqzt":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	cache, err := NewFileCache(filepath.Join(t.TempDir(), "words.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checker := NewAPIChecker(srv.URL, cache)

	valid, err := checker.IsWord(context.Background(), "Hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !valid {
		t.Error("expected hello to be a word")
	}

	valid, err = checker.IsWord(context.Background(), "xqzt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if valid {
		t.Error("expected xqzt to not be a word")
	}

	if _, err := checker.IsWord(context.Background(), "boom"); err == nil {
		t.Error("expected error on server failure")
	}
}

func TestAPIChecker_CacheSkipsSecondRequest(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cache, err := NewFileCache(filepath.Join(t.TempDir(), "words.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checker := NewAPIChecker(srv.URL, cache)

	for i := 0; i < 3; i++ {
		valid, err := checker.IsWord(context.Background(), "tree")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !valid {
			t.Error("expected tree to be a word")
		}
	}
	if requests != 1 {
		t.Errorf("expected 1 upstream request, got %d", requests)
	}
}
