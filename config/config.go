package config

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
)

// CoupConfig holds timing and sizing parameters for the Coup game.
type CoupConfig struct {
	MinPlayers        int `json:"min_players"`
	MaxPlayers        int `json:"max_players"`
	JoinWindowSec     int `json:"join_window_sec"`
	TurnLimitSec      int `json:"turn_limit_sec"`
	DecisionWindowSec int `json:"decision_window_sec"`
}

// WordChainConfig holds parameters for the Word-Chain game.
type WordChainConfig struct {
	TurnLimitSec  int `json:"turn_limit_sec"`
	JoinWindowSec int `json:"join_window_sec"`
	MinWordLength int `json:"min_word_length"`
}

// JottoConfig holds parameters for the Jotto game.
type JottoConfig struct {
	WordLength int `json:"word_length"`
}

// Config holds all configurable bot parameters. Secrets (bot token, database
// URL, gif API key) come from the environment only and are never written to
// config.json.
type Config struct {
	BotToken    string `json:"-"`
	DatabaseURL string `json:"-"`
	TenorAPIKey string `json:"-"`
	TopGGToken  string `json:"-"`

	DataDir       string `json:"data_dir"`
	HTTPPort      int    `json:"http_port"`
	WordsAPIURL   string `json:"words_api_url"`
	WordCacheFile string `json:"word_cache_file"`
	TenorBaseURL  string `json:"tenor_base_url"`
	TopGGBaseURL  string `json:"topgg_base_url"`
	TopGGBotID    string `json:"topgg_bot_id"`

	VoteRewardCoins       int64 `json:"vote_reward_coins"`
	VoteRewardCooldownHrs int   `json:"vote_reward_cooldown_hrs"`

	Coup      CoupConfig      `json:"coup"`
	WordChain WordChainConfig `json:"word_chain"`
	Jotto     JottoConfig     `json:"jotto"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		DataDir:       "data",
		HTTPPort:      8080,
		WordsAPIURL:   "https://api.dictionaryapi.dev/api/v2/entries/en",
		WordCacheFile: "data/word-cache.json",
		TenorBaseURL:  "https://tenor.googleapis.com/v2",
		TopGGBaseURL:  "https://top.gg/api",

		VoteRewardCoins:       50,
		VoteRewardCooldownHrs: 12,

		Coup: CoupConfig{
			MinPlayers:        2,
			MaxPlayers:        10,
			JoinWindowSec:     120,
			TurnLimitSec:      60,
			DecisionWindowSec: 30,
		},
		WordChain: WordChainConfig{
			TurnLimitSec:  30,
			JoinWindowSec: 60,
			MinWordLength: 3,
		},
		Jotto: JottoConfig{
			WordLength: 5,
		},
	}
}

// Load reads configuration from an optional config.json file,
// then applies environment variable overrides. Fields not set
// in either source retain their default values.
func Load() *Config {
	cfg := Defaults()

	// Try to load from config.json
	if f, err := os.Open("config.json"); err == nil {
		defer f.Close()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			log.Printf("Warning: failed to parse config.json: %v", err)
		}
	}

	// Secrets: environment only
	overrideString(&cfg.BotToken, "DISCORD_BOT_TOKEN")
	overrideString(&cfg.DatabaseURL, "DATABASE_URL")
	overrideString(&cfg.TenorAPIKey, "TENOR_API_KEY")
	overrideString(&cfg.TopGGToken, "TOPGG_TOKEN")

	// Environment variable overrides
	overrideString(&cfg.DataDir, "DATA_DIR")
	overrideInt(&cfg.HTTPPort, "HTTP_PORT")
	overrideString(&cfg.WordsAPIURL, "WORDS_API_URL")
	overrideString(&cfg.WordCacheFile, "WORD_CACHE_FILE")
	overrideString(&cfg.TenorBaseURL, "TENOR_BASE_URL")
	overrideString(&cfg.TopGGBaseURL, "TOPGG_BASE_URL")
	overrideString(&cfg.TopGGBotID, "TOPGG_BOT_ID")
	overrideInt64(&cfg.VoteRewardCoins, "VOTE_REWARD_COINS")
	overrideInt(&cfg.VoteRewardCooldownHrs, "VOTE_REWARD_COOLDOWN_HRS")
	overrideInt(&cfg.Coup.MinPlayers, "COUP_MIN_PLAYERS")
	overrideInt(&cfg.Coup.MaxPlayers, "COUP_MAX_PLAYERS")
	overrideInt(&cfg.Coup.JoinWindowSec, "COUP_JOIN_WINDOW_SEC")
	overrideInt(&cfg.Coup.TurnLimitSec, "COUP_TURN_LIMIT_SEC")
	overrideInt(&cfg.Coup.DecisionWindowSec, "COUP_DECISION_WINDOW_SEC")
	overrideInt(&cfg.WordChain.TurnLimitSec, "WORD_CHAIN_TURN_LIMIT_SEC")
	overrideInt(&cfg.WordChain.JoinWindowSec, "WORD_CHAIN_JOIN_WINDOW_SEC")
	overrideInt(&cfg.WordChain.MinWordLength, "WORD_CHAIN_MIN_WORD_LENGTH")
	overrideInt(&cfg.Jotto.WordLength, "JOTTO_WORD_LENGTH")

	return cfg
}

func overrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*field = n
		} else {
			log.Printf("Warning: invalid value for %s: %q", envKey, val)
		}
	}
}

func overrideInt64(field *int64, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			*field = n
		} else {
			log.Printf("Warning: invalid value for %s: %q", envKey, val)
		}
	}
}

func overrideString(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}
