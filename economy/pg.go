// Package economy persists player wallets, game results, and bot-list vote
// rewards in Postgres.
package economy

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/mettlex/literally-discord-bot-sub000/gameerr"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS wallets (
	user_id      TEXT PRIMARY KEY,
	display_name TEXT NOT NULL DEFAULT '',
	coins        BIGINT NOT NULL DEFAULT 0,
	wins         INT NOT NULL DEFAULT 0,
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_wallets_coins ON wallets(coins DESC);
CREATE TABLE IF NOT EXISTS game_results (
	id         UUID PRIMARY KEY,
	game       TEXT NOT NULL,
	guild_id   TEXT NOT NULL,
	channel_id TEXT NOT NULL,
	winner_id  TEXT NOT NULL,
	player_ids TEXT[] NOT NULL,
	ended_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_game_results_winner ON game_results(winner_id);
CREATE INDEX IF NOT EXISTS idx_game_results_game ON game_results(game);
CREATE TABLE IF NOT EXISTS vote_claims (
	user_id    TEXT PRIMARY KEY,
	claimed_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// PGStore persists wallets and results in Postgres.
type PGStore struct {
	pool *pgxpool.Pool
	log  *logrus.Logger
}

// NewPGStore connects to Postgres and ensures the economy tables exist.
// If databaseURL is empty, NewPGStore returns (nil, nil) and the caller
// should fall back to an in-memory store.
func NewPGStore(ctx context.Context, databaseURL string, log *logrus.Logger) (*PGStore, error) {
	if databaseURL == "" {
		return nil, nil
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, err
	}
	log.WithField("tag", "economy").Info("connected to Postgres")
	return &PGStore{pool: pool, log: log}, nil
}

// Close closes the connection pool.
func (s *PGStore) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// Balance returns the user's coin balance; users without a wallet have 0.
func (s *PGStore) Balance(ctx context.Context, userID string) (int64, error) {
	var coins int64
	err := s.pool.QueryRow(ctx, `SELECT coins FROM wallets WHERE user_id = $1`, userID).Scan(&coins)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return coins, nil
}

// AddCoins credits a wallet, creating it if needed, and returns the new balance.
func (s *PGStore) AddCoins(ctx context.Context, userID, displayName string, amount int64) (int64, error) {
	var coins int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO wallets (user_id, display_name, coins) VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET coins = wallets.coins + $3, display_name = $2, updated_at = now()
		RETURNING coins`, userID, displayName, amount).Scan(&coins)
	if err != nil {
		return 0, err
	}
	return coins, nil
}

// DeductCoins debits a wallet. The balance never goes below zero; an
// overdraft returns gameerr.ErrInsufficientFunds and leaves the wallet alone.
func (s *PGStore) DeductCoins(ctx context.Context, userID string, amount int64) (int64, error) {
	var coins int64
	err := s.pool.QueryRow(ctx, `
		UPDATE wallets SET coins = coins - $2, updated_at = now()
		WHERE user_id = $1 AND coins >= $2
		RETURNING coins`, userID, amount).Scan(&coins)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, gameerr.ErrInsufficientFunds
	}
	if err != nil {
		return 0, err
	}
	return coins, nil
}

// RecordGameResult stores a finished game and bumps the winner's win count.
func (s *PGStore) RecordGameResult(ctx context.Context, result GameResult) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	endedAt := result.EndedAt
	if endedAt.IsZero() {
		endedAt = time.Now()
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO game_results (id, game, guild_id, channel_id, winner_id, player_ids, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.New(), result.Game, result.GuildID, result.ChannelID, result.WinnerID, result.PlayerIDs, endedAt)
	if err != nil {
		return err
	}
	if result.WinnerID != "" {
		_, err = tx.Exec(ctx, `
			INSERT INTO wallets (user_id, wins) VALUES ($1, 1)
			ON CONFLICT (user_id) DO UPDATE SET wins = wallets.wins + 1, updated_at = now()`,
			result.WinnerID)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// ClaimVoteReward credits the vote reward if the user's last claim is older
// than the cooldown, and returns the new balance. A claim inside the
// cooldown returns gameerr.ErrAlreadyVoted.
func (s *PGStore) ClaimVoteReward(ctx context.Context, userID, displayName string, reward int64, cooldown time.Duration) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var claimedAt time.Time
	err = tx.QueryRow(ctx, `SELECT claimed_at FROM vote_claims WHERE user_id = $1`, userID).Scan(&claimedAt)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}
	if err == nil && time.Since(claimedAt) < cooldown {
		return 0, gameerr.ErrAlreadyVoted
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO vote_claims (user_id, claimed_at) VALUES ($1, now())
		ON CONFLICT (user_id) DO UPDATE SET claimed_at = now()`, userID)
	if err != nil {
		return 0, err
	}
	var coins int64
	err = tx.QueryRow(ctx, `
		INSERT INTO wallets (user_id, display_name, coins) VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET coins = wallets.coins + $3, display_name = $2, updated_at = now()
		RETURNING coins`, userID, displayName, reward).Scan(&coins)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return coins, nil
}

// ListLeaderboard returns the top wallets by coins.
func (s *PGStore) ListLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT user_id, display_name, coins, wins FROM wallets
		ORDER BY coins DESC, wins DESC, user_id ASC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.DisplayName, &e.Coins, &e.Wins); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
