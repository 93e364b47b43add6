package economy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// TopGGChecker asks the bot-list API whether a user has voted for the bot
// recently (GET /bots/:id/check?userId=...).
type TopGGChecker struct {
	BaseURL string
	BotID   string
	Token   string
	Client  *http.Client
}

// NewTopGGChecker builds a checker for the given bot id and API token.
func NewTopGGChecker(baseURL, botID, token string) *TopGGChecker {
	return &TopGGChecker{
		BaseURL: baseURL,
		BotID:   botID,
		Token:   token,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

var _ VoteChecker = (*TopGGChecker)(nil)

// HasVoted reports whether userID has a qualifying vote on record.
func (c *TopGGChecker) HasVoted(ctx context.Context, userID string) (bool, error) {
	reqURL := fmt.Sprintf("%s/bots/%s/check?userId=%s", c.BaseURL, c.BotID, url.QueryEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", c.Token)

	resp, err := c.Client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("vote check for %s: status %d", userID, resp.StatusCode)
	}

	var body struct {
		Voted int `json:"voted"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, err
	}
	return body.Voted > 0, nil
}
