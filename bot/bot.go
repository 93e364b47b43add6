// Package bot wires the game engines to Discord: slash commands, message
// component interactions, chat-message games, and the timers that keep games
// moving when players stall.
package bot

import (
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/mettlex/literally-discord-bot-sub000/config"
	"github.com/mettlex/literally-discord-bot-sub000/economy"
	"github.com/mettlex/literally-discord-bot-sub000/gifs"
	"github.com/mettlex/literally-discord-bot-sub000/jotto"
	"github.com/mettlex/literally-discord-bot-sub000/store"
	"github.com/mettlex/literally-discord-bot-sub000/twotruths"
	"github.com/mettlex/literally-discord-bot-sub000/wink"
	"github.com/mettlex/literally-discord-bot-sub000/wordchain"
	"github.com/mettlex/literally-discord-bot-sub000/words"
)

// Bot holds the Discord session and every game's shared state.
type Bot struct {
	cfg *config.Config
	log *logrus.Logger
	dg  *discordgo.Session

	sessions *store.SessionStore
	eco      economy.Store
	votes    economy.VoteChecker
	words    words.Checker
	gifs     gifs.Provider

	// mu guards the chat-game maps and the timer registry. Coup sessions
	// live in the session store and are locked there instead.
	mu         sync.Mutex
	wordChains map[string]*wordchain.Game
	jottoGames map[string]*jotto.Game
	winkGames  map[string]*wink.Game
	ttalGames  map[string]*twotruths.Game
	timers     map[string]chan struct{}
}

// Deps bundles the external services the bot needs.
type Deps struct {
	Sessions *store.SessionStore
	Economy  economy.Store
	Votes    economy.VoteChecker
	Words    words.Checker
	Gifs     gifs.Provider
}

// New constructs the bot and registers all Discord handlers. Call Start to
// connect.
func New(cfg *config.Config, log *logrus.Logger, deps Deps) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}

	b := &Bot{
		cfg:        cfg,
		log:        log,
		dg:         dg,
		sessions:   deps.Sessions,
		eco:        deps.Economy,
		votes:      deps.Votes,
		words:      deps.Words,
		gifs:       deps.Gifs,
		wordChains: make(map[string]*wordchain.Game),
		jottoGames: make(map[string]*jotto.Game),
		winkGames:  make(map[string]*wink.Game),
		ttalGames:  make(map[string]*twotruths.Game),
		timers:     make(map[string]chan struct{}),
	}

	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	dg.AddHandler(b.handleInteraction)
	dg.AddHandler(b.handleMessage)

	return b, nil
}

// commands is every slash command the bot registers on startup.
var commands = []*discordgo.ApplicationCommand{
	coupCommand,
	wordChainCommand,
	jottoCommand,
	winkCommand,
	twoTruthsCommand,
	checkCoinsCommand,
	claimRewardCommand,
	leaderboardCommand,
}

// Start connects to the gateway and registers the slash commands.
func (b *Bot) Start() error {
	if err := b.dg.Open(); err != nil {
		return err
	}
	for _, cmd := range commands {
		if _, err := b.dg.ApplicationCommandCreate(b.dg.State.User.ID, "", cmd); err != nil {
			b.log.WithFields(logrus.Fields{"tag": "bot", "command": cmd.Name}).Errorln("Error registering command:", err)
		}
	}
	b.log.WithField("tag", "bot").Infoln("Bot started successfully")
	return nil
}

// Stop cancels all timers and closes the gateway connection.
func (b *Bot) Stop() {
	b.mu.Lock()
	for key, cancel := range b.timers {
		close(cancel)
		delete(b.timers, key)
	}
	b.mu.Unlock()
	if err := b.dg.Close(); err != nil {
		b.log.WithField("tag", "bot").Errorln("Error closing gateway:", err)
	}
}

// handleInteraction routes slash commands and component presses to the game
// they belong to.
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		switch i.ApplicationCommandData().Name {
		case coupName:
			b.handleCoupCommand(s, i)
		case wordChainName:
			b.handleWordChainCommand(s, i)
		case jottoName:
			b.handleJottoCommand(s, i)
		case winkName:
			b.handleWinkCommand(s, i)
		case twoTruthsName:
			b.handleTwoTruthsCommand(s, i)
		case checkCoinsName:
			b.handleCheckCoins(s, i)
		case claimRewardName:
			b.handleClaimReward(s, i)
		case leaderboardName:
			b.handleLeaderboard(s, i)
		}
	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		switch {
		case strings.HasPrefix(customID, coupName+"-"):
			b.handleCoupComponent(s, i, customID)
		case strings.HasPrefix(customID, wordChainName+"-"):
			b.handleWordChainComponent(s, i, customID)
		case strings.HasPrefix(customID, winkName+"-"):
			b.handleWinkComponent(s, i, customID)
		case strings.HasPrefix(customID, twoTruthsName+"-"):
			b.handleTwoTruthsComponent(s, i, customID)
		}
	case discordgo.InteractionModalSubmit:
		customID := i.ModalSubmitData().CustomID
		if strings.HasPrefix(customID, twoTruthsName+"-") {
			b.handleTwoTruthsModal(s, i, customID)
		}
	}
}

// handleMessage feeds chat messages to the word games and the gif triggers.
func (b *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if m.GuildID == "" {
		b.handleDirectMessage(s, m)
		return
	}
	if b.handleWordChainMessage(s, m) {
		return
	}
	b.handleGifTrigger(s, m)
}

// armTimer starts (or replaces) a named timer. The callback runs once the
// duration elapses unless the timer is cancelled or re-armed first.
func (b *Bot) armTimer(key string, d time.Duration, fn func()) {
	if d <= 0 {
		return
	}
	b.mu.Lock()
	if cancel, ok := b.timers[key]; ok {
		close(cancel)
	}
	cancel := make(chan struct{})
	b.timers[key] = cancel
	b.mu.Unlock()

	go func() {
		select {
		case <-time.After(d):
			b.mu.Lock()
			if b.timers[key] == cancel {
				delete(b.timers, key)
			}
			b.mu.Unlock()
			fn()
		case <-cancel:
		}
	}()
}

// cancelTimer stops a named timer. Safe when none is armed.
func (b *Bot) cancelTimer(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if cancel, ok := b.timers[key]; ok {
		close(cancel)
		delete(b.timers, key)
	}
}
