package config

import (
	"os"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.HTTPPort != 8080 {
		t.Errorf("expected HTTPPort=8080, got %d", cfg.HTTPPort)
	}
	if cfg.DataDir != "data" {
		t.Errorf("expected DataDir='data', got %q", cfg.DataDir)
	}
	if cfg.Coup.MinPlayers != 2 {
		t.Errorf("expected Coup.MinPlayers=2, got %d", cfg.Coup.MinPlayers)
	}
	if cfg.Coup.MaxPlayers != 10 {
		t.Errorf("expected Coup.MaxPlayers=10, got %d", cfg.Coup.MaxPlayers)
	}
	if cfg.Coup.TurnLimitSec != 60 {
		t.Errorf("expected Coup.TurnLimitSec=60, got %d", cfg.Coup.TurnLimitSec)
	}
	if cfg.WordChain.MinWordLength != 3 {
		t.Errorf("expected WordChain.MinWordLength=3, got %d", cfg.WordChain.MinWordLength)
	}
	if cfg.Jotto.WordLength != 5 {
		t.Errorf("expected Jotto.WordLength=5, got %d", cfg.Jotto.WordLength)
	}
	if cfg.VoteRewardCoins != 50 {
		t.Errorf("expected VoteRewardCoins=50, got %d", cfg.VoteRewardCoins)
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	os.Setenv("HTTP_PORT", "9090")
	os.Setenv("COUP_TURN_LIMIT_SEC", "45")
	os.Setenv("DISCORD_BOT_TOKEN", "token-123")
	defer func() {
		os.Unsetenv("HTTP_PORT")
		os.Unsetenv("COUP_TURN_LIMIT_SEC")
		os.Unsetenv("DISCORD_BOT_TOKEN")
	}()

	cfg := Load()

	if cfg.HTTPPort != 9090 {
		t.Errorf("expected HTTPPort=9090 after env override, got %d", cfg.HTTPPort)
	}
	if cfg.Coup.TurnLimitSec != 45 {
		t.Errorf("expected Coup.TurnLimitSec=45 after env override, got %d", cfg.Coup.TurnLimitSec)
	}
	if cfg.BotToken != "token-123" {
		t.Errorf("expected BotToken from env, got %q", cfg.BotToken)
	}
	// Non-overridden fields should remain default
	if cfg.Coup.JoinWindowSec != 120 {
		t.Errorf("expected Coup.JoinWindowSec=120 (default), got %d", cfg.Coup.JoinWindowSec)
	}
}

func TestLoadWithInvalidEnv(t *testing.T) {
	os.Setenv("HTTP_PORT", "invalid")
	defer os.Unsetenv("HTTP_PORT")

	cfg := Load()

	// Should fall back to default when env value is invalid
	if cfg.HTTPPort != 8080 {
		t.Errorf("expected HTTPPort=8080 (default) with invalid env, got %d", cfg.HTTPPort)
	}
}
