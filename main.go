package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/mettlex/literally-discord-bot-sub000/api"
	"github.com/mettlex/literally-discord-bot-sub000/bot"
	"github.com/mettlex/literally-discord-bot-sub000/config"
	"github.com/mettlex/literally-discord-bot-sub000/economy"
	"github.com/mettlex/literally-discord-bot-sub000/gifs"
	"github.com/mettlex/literally-discord-bot-sub000/loghandler"
	"github.com/mettlex/literally-discord-bot-sub000/store"
	"github.com/mettlex/literally-discord-bot-sub000/words"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found; using environment variables")
	}

	log := logrus.New()
	log.SetFormatter(&loghandler.CompactFormatter{})
	if os.Getenv("DEBUG") != "" {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg := config.Load()
	if cfg.BotToken == "" {
		log.Fatalln("DISCORD_BOT_TOKEN is not set")
	}

	log.WithFields(logrus.Fields{
		"tag":       "main",
		"data_dir":  cfg.DataDir,
		"http_port": cfg.HTTPPort,
	}).Infoln("Configuration loaded")

	// Coup session persistence.
	sessions, err := store.NewSessionStore(cfg.DataDir, log)
	if err != nil {
		log.Fatalln("Error creating session store:", err)
	}

	// Wallets and results: Postgres when configured, in-memory otherwise.
	ctx := context.Background()
	var eco economy.Store
	pg, err := economy.NewPGStore(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Fatalln("Error connecting to Postgres:", err)
	}
	if pg != nil {
		eco = pg
	} else {
		log.WithField("tag", "main").Warnln("DATABASE_URL not set, balances will not survive restarts")
		eco = economy.NewMemoryStore()
	}
	defer eco.Close()

	// Dictionary lookups with a flat-file cache.
	wordCache, err := words.NewFileCache(cfg.WordCacheFile)
	if err != nil {
		log.Fatalln("Error loading word cache:", err)
	}
	checker := words.NewAPIChecker(cfg.WordsAPIURL, wordCache)

	var gifProvider gifs.Provider
	if cfg.TenorAPIKey != "" {
		gifProvider = gifs.NewTenorClient(cfg.TenorBaseURL, cfg.TenorAPIKey)
	}

	var votes economy.VoteChecker
	if cfg.TopGGToken != "" && cfg.TopGGBotID != "" {
		votes = economy.NewTopGGChecker(cfg.TopGGBaseURL, cfg.TopGGBotID, cfg.TopGGToken)
	}

	b, err := bot.New(cfg, log, bot.Deps{
		Sessions: sessions,
		Economy:  eco,
		Votes:    votes,
		Words:    checker,
		Gifs:     gifProvider,
	})
	if err != nil {
		log.Fatalln("Error creating bot:", err)
	}
	if err := b.Start(); err != nil {
		log.Fatalln("Error connecting to Discord:", err)
	}
	defer b.Stop()

	// Health and stats endpoints for uptime monitors.
	handler := api.NewHandler(sessions, eco, log)
	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	srv := &http.Server{Addr: addr, Handler: handler.Mux()}
	go func() {
		log.WithFields(logrus.Fields{"tag": "api", "addr": addr}).Infoln("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorln("HTTP server error:", err)
		}
	}()

	// Wait for interrupt.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.WithField("tag", "main").Infoln("Terminating gracefully")
	_ = srv.Shutdown(context.Background())
}
