package economy

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mettlex/literally-discord-bot-sub000/gameerr"
)

type wallet struct {
	displayName string
	coins       int64
	wins        int
}

// MemoryStore is an in-process Store used when no database is configured
// and in tests. Balances do not survive a restart.
type MemoryStore struct {
	mu      sync.Mutex
	wallets map[string]*wallet
	claims  map[string]time.Time
	results []GameResult
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		wallets: make(map[string]*wallet),
		claims:  make(map[string]time.Time),
	}
}

func (s *MemoryStore) Close() {}

func (s *MemoryStore) walletFor(userID string) *wallet {
	w, ok := s.wallets[userID]
	if !ok {
		w = &wallet{}
		s.wallets[userID] = w
	}
	return w
}

func (s *MemoryStore) Balance(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.wallets[userID]; ok {
		return w.coins, nil
	}
	return 0, nil
}

func (s *MemoryStore) AddCoins(_ context.Context, userID, displayName string, amount int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.walletFor(userID)
	w.coins += amount
	if displayName != "" {
		w.displayName = displayName
	}
	return w.coins, nil
}

func (s *MemoryStore) DeductCoins(_ context.Context, userID string, amount int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[userID]
	if !ok || w.coins < amount {
		return 0, gameerr.ErrInsufficientFunds
	}
	w.coins -= amount
	return w.coins, nil
}

func (s *MemoryStore) RecordGameResult(_ context.Context, result GameResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if result.EndedAt.IsZero() {
		result.EndedAt = time.Now()
	}
	s.results = append(s.results, result)
	if result.WinnerID != "" {
		s.walletFor(result.WinnerID).wins++
	}
	return nil
}

func (s *MemoryStore) ClaimVoteReward(_ context.Context, userID, displayName string, reward int64, cooldown time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if last, ok := s.claims[userID]; ok && time.Since(last) < cooldown {
		return 0, gameerr.ErrAlreadyVoted
	}
	s.claims[userID] = time.Now()
	w := s.walletFor(userID)
	w.coins += reward
	if displayName != "" {
		w.displayName = displayName
	}
	return w.coins, nil
}

func (s *MemoryStore) ListLeaderboard(_ context.Context, limit int) ([]LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]LeaderboardEntry, 0, len(s.wallets))
	for id, w := range s.wallets {
		entries = append(entries, LeaderboardEntry{
			UserID:      id,
			DisplayName: w.displayName,
			Coins:       w.coins,
			Wins:        w.wins,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Coins != entries[j].Coins {
			return entries[i].Coins > entries[j].Coins
		}
		if entries[i].Wins != entries[j].Wins {
			return entries[i].Wins > entries[j].Wins
		}
		return entries[i].UserID < entries[j].UserID
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// ResultCount reports how many game results have been recorded.
func (s *MemoryStore) ResultCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}
