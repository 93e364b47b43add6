package economy

import (
	"context"
	"time"
)

// LeaderboardEntry is one row of the coin leaderboard.
type LeaderboardEntry struct {
	UserID      string
	DisplayName string
	Coins       int64
	Wins        int
}

// GameResult records a finished game for the history tables.
type GameResult struct {
	Game      string
	GuildID   string
	ChannelID string
	WinnerID  string
	PlayerIDs []string
	EndedAt   time.Time
}

// Store abstracts persistence for wallets, game results, and vote rewards.
// Implementations can be swapped for testing (mocks) or different backends.
type Store interface {
	// Read
	Balance(ctx context.Context, userID string) (int64, error)
	ListLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)

	// Write
	AddCoins(ctx context.Context, userID, displayName string, amount int64) (int64, error)
	DeductCoins(ctx context.Context, userID string, amount int64) (int64, error)
	RecordGameResult(ctx context.Context, result GameResult) error
	ClaimVoteReward(ctx context.Context, userID, displayName string, reward int64, cooldown time.Duration) (int64, error)

	// Lifecycle
	Close()
}

// VoteChecker reports whether a user has an outstanding bot-list vote
// that qualifies for a reward.
type VoteChecker interface {
	HasVoted(ctx context.Context, userID string) (bool, error)
}

// Ensure both stores implement Store at compile time.
var (
	_ Store = (*PGStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
