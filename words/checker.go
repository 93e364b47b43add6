// Package words provides dictionary word-validity lookups for the spelling
// games, backed by a third-party dictionary API and a flat-file cache so the
// same word is never looked up twice.
package words

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"
)

// Checker reports whether a word is a real dictionary word.
type Checker interface {
	IsWord(ctx context.Context, word string) (bool, error)
}

// FileCache is a flat JSON file keyed by lowercase word -> validity, written
// through on every new entry.
type FileCache struct {
	mu      sync.Mutex
	path    string
	entries map[string]bool
}

// NewFileCache loads (or lazily creates) the cache file at path.
func NewFileCache(path string) (*FileCache, error) {
	c := &FileCache{path: path, entries: make(map[string]bool)}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		return nil, fmt.Errorf("parsing word cache: %w", err)
	}
	return c, nil
}

// Lookup returns the cached validity for a word, if known.
func (c *FileCache) Lookup(word string) (valid bool, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	valid, ok = c.entries[strings.ToLower(word)]
	return valid, ok
}

// Store records a word's validity and writes the cache file through.
func (c *FileCache) Store(word string, valid bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[strings.ToLower(word)] = valid

	data, err := json.Marshal(c.entries)
	if err != nil {
		return err
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, c.path)
}

// Len returns the number of cached words.
func (c *FileCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// APIChecker looks words up against a dictionary HTTP API
// (GET {BaseURL}/{word}: 200 = valid, 404 = not a word), consulting the
// cache first.
type APIChecker struct {
	BaseURL string
	Client  *http.Client
	Cache   *FileCache
}

// NewAPIChecker builds a checker with a sane request timeout.
func NewAPIChecker(baseURL string, cache *FileCache) *APIChecker {
	return &APIChecker{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
		Cache:   cache,
	}
}

// IsWord reports whether word is a dictionary word. Cache failures are
// non-fatal: a lookup that cannot be cached still returns its result.
func (a *APIChecker) IsWord(ctx context.Context, word string) (bool, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	if a.Cache != nil {
		if valid, ok := a.Cache.Lookup(word); ok {
			return valid, nil
		}
	}

	reqURL := a.BaseURL + "/" + url.PathEscape(word)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return false, err
	}
	resp, err := a.Client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	var valid bool
	switch {
	case resp.StatusCode == http.StatusOK:
		valid = true
	case resp.StatusCode == http.StatusNotFound:
		valid = false
	default:
		return false, fmt.Errorf("dictionary lookup for %q: status %d", word, resp.StatusCode)
	}

	if a.Cache != nil {
		_ = a.Cache.Store(word, valid)
	}
	return valid, nil
}
