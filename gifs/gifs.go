// Package gifs finds reply GIFs for keyword triggers in chat.
package gifs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"time"
)

// ErrNoResults means the search returned no usable GIF.
var ErrNoResults = errors.New("gifs: no results")

// Provider searches for a GIF URL matching a query.
type Provider interface {
	Search(ctx context.Context, query string) (string, error)
}

// TenorClient queries the Tenor v2 search API and picks a random result.
type TenorClient struct {
	BaseURL string
	APIKey  string
	Limit   int
	Client  *http.Client
}

var _ Provider = (*TenorClient)(nil)

// NewTenorClient builds a client for the given API key.
func NewTenorClient(baseURL, apiKey string) *TenorClient {
	return &TenorClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Limit:   20,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Search returns the URL of one GIF matching query, chosen at random from
// the top results so repeated triggers stay varied.
func (c *TenorClient) Search(ctx context.Context, query string) (string, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("key", c.APIKey)
	q.Set("limit", fmt.Sprintf("%d", c.Limit))
	q.Set("media_filter", "gif")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gif search %q: status %d", query, resp.StatusCode)
	}

	var body struct {
		Results []struct {
			MediaFormats map[string]struct {
				URL string `json:"url"`
			} `json:"media_formats"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}

	urls := make([]string, 0, len(body.Results))
	for _, r := range body.Results {
		if m, ok := r.MediaFormats["gif"]; ok && m.URL != "" {
			urls = append(urls, m.URL)
		}
	}
	if len(urls) == 0 {
		return "", ErrNoResults
	}
	return urls[rand.Intn(len(urls))], nil
}
