package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/mettlex/literally-discord-bot-sub000/economy"
	"github.com/mettlex/literally-discord-bot-sub000/gameerr"
	"github.com/mettlex/literally-discord-bot-sub000/wordchain"
)

const wordChainName = "word-chain"

var wordChainCommand = &discordgo.ApplicationCommand{
	Name:        wordChainName,
	Description: "Play word chain: each word starts with the last letter of the previous one",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "start",
			Description: "Open a word-chain lobby in this channel",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "stop",
			Description: "Stop the word-chain game in this channel",
		},
	},
}

func wordChainTimerKey(channelID string) string {
	return "word-chain:" + channelID
}

func (b *Bot) handleWordChainCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}
	switch options[0].Name {
	case "start":
		b.handleWordChainStart(s, i)
	case "stop":
		b.handleWordChainStop(s, i)
	}
}

func (b *Bot) handleWordChainStart(s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := interactionUser(i)

	b.mu.Lock()
	if _, exists := b.wordChains[i.ChannelID]; exists {
		b.mu.Unlock()
		b.replyEphemeral(s, i, errorMessage(gameerr.ErrSessionExists), nil)
		return
	}
	g := wordchain.NewGame(i.ChannelID, user.ID, user.Username, b.cfg.WordChain.MinWordLength)
	b.wordChains[i.ChannelID] = g
	b.mu.Unlock()

	b.log.WithFields(logrus.Fields{"tag": "word-chain", "channel": i.ChannelID, "user": user.ID}).Debugln("New lobby created")

	b.reply(s, i, wordChainLobbyText(g), []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "Join", Style: discordgo.PrimaryButton, CustomID: "word-chain-join"},
				discordgo.Button{Label: "Begin", Style: discordgo.SuccessButton, CustomID: "word-chain-begin"},
			},
		},
	})

	// The lobby closes itself: begin with whoever joined, or scrap it.
	b.armTimer(wordChainTimerKey(i.ChannelID), secondsToDuration(b.cfg.WordChain.JoinWindowSec), func() {
		b.beginWordChain(i.ChannelID)
	})
}

func (b *Bot) handleWordChainStop(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.mu.Lock()
	_, exists := b.wordChains[i.ChannelID]
	delete(b.wordChains, i.ChannelID)
	b.mu.Unlock()
	if !exists {
		b.replyEphemeral(s, i, errorMessage(gameerr.ErrNoSession), nil)
		return
	}
	b.cancelTimer(wordChainTimerKey(i.ChannelID))
	b.reply(s, i, "The word-chain game in this channel has been stopped.", nil)
}

func (b *Bot) handleWordChainComponent(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	user := interactionUser(i)
	switch customID {
	case "word-chain-join":
		b.mu.Lock()
		g := b.wordChains[i.ChannelID]
		var err error
		if g == nil {
			err = gameerr.ErrNoSession
		} else {
			err = g.Join(user.ID, user.Username)
		}
		b.mu.Unlock()
		if err != nil {
			b.replyEphemeral(s, i, errorMessage(err), nil)
			return
		}
		err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseUpdateMessage,
			Data: &discordgo.InteractionResponseData{
				Content:    wordChainLobbyText(g),
				Components: i.Message.Components,
			},
		})
		if err != nil {
			b.log.WithField("tag", "word-chain").Errorln("Error updating lobby message:", err)
		}
	case "word-chain-begin":
		b.ackComponent(s, i)
		b.beginWordChain(i.ChannelID)
	}
}

// beginWordChain starts play if enough players joined, otherwise closes the
// lobby. Safe to call twice; a started game is left alone.
func (b *Bot) beginWordChain(channelID string) {
	b.mu.Lock()
	g := b.wordChains[channelID]
	if g == nil || g.Started {
		b.mu.Unlock()
		return
	}
	err := g.Begin()
	if err != nil {
		delete(b.wordChains, channelID)
	}
	b.mu.Unlock()

	if err != nil {
		b.cancelTimer(wordChainTimerKey(channelID))
		b.send(channelID, "Not enough players joined. The word-chain lobby is closed.", nil)
		return
	}
	cur := g.CurrentPlayer()
	b.send(channelID, fmt.Sprintf("The chain begins! %s, type any word with at least %d letters.",
		mention(cur.ID), g.MinWordLength), nil)
	b.armWordChainTurnTimer(channelID, g.TurnCount)
}

// armWordChainTurnTimer eliminates the current player if they do not produce
// a valid word in time. TurnCount guards against a stale timer firing after
// the turn has already moved on.
func (b *Bot) armWordChainTurnTimer(channelID string, turn int) {
	b.armTimer(wordChainTimerKey(channelID), secondsToDuration(b.cfg.WordChain.TurnLimitSec), func() {
		b.mu.Lock()
		g := b.wordChains[channelID]
		if g == nil || !g.Started || g.TurnCount != turn {
			b.mu.Unlock()
			return
		}
		out, winner := g.EliminateCurrent()
		if winner != nil {
			delete(b.wordChains, channelID)
		}
		var next *wordchain.Player
		if winner == nil {
			next = g.CurrentPlayer()
		}
		nextTurn := g.TurnCount
		b.mu.Unlock()

		b.send(channelID, fmt.Sprintf("Time is up! %s is out of the chain.", mention(out.ID)), nil)
		if winner != nil {
			b.finishWordChain(channelID, winner)
			return
		}
		b.send(channelID, fmt.Sprintf("%s, your word.", mention(next.ID)), nil)
		b.armWordChainTurnTimer(channelID, nextTurn)
	})
}

// handleWordChainMessage consumes the current player's chat message as a word
// submission. Returns true when the message belonged to a running game.
func (b *Bot) handleWordChainMessage(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	b.mu.Lock()
	g := b.wordChains[m.ChannelID]
	if g == nil || !g.Started {
		b.mu.Unlock()
		return false
	}
	cur := g.CurrentPlayer()
	b.mu.Unlock()
	if cur == nil || cur.ID != m.Author.ID {
		return false
	}

	word := strings.ToLower(strings.TrimSpace(m.Content))
	if word == "" || strings.ContainsAny(word, " \t\n") {
		return false
	}

	if b.words != nil {
		valid, err := b.words.IsWord(context.Background(), word)
		if err != nil {
			b.log.WithField("tag", "word-chain").Errorln("Error checking word:", err)
			// Fail open: dictionary downtime should not end someone's game.
			valid = true
		}
		if !valid {
			b.send(m.ChannelID, fmt.Sprintf("%s, **%s** is not in the dictionary. Try again.", mention(m.Author.ID), word), nil)
			return true
		}
	}

	b.mu.Lock()
	err := g.Submit(m.Author.ID, word)
	nextTurn := g.TurnCount
	var next *wordchain.Player
	if err == nil {
		next = g.CurrentPlayer()
	}
	b.mu.Unlock()

	switch {
	case err == nil:
		runes := []rune(word)
		lastLetter := strings.ToUpper(string(runes[len(runes)-1]))
		b.send(m.ChannelID, fmt.Sprintf("**%s** accepted. %s, your word must start with **%s**.",
			word, mention(next.ID), lastLetter), nil)
		b.armWordChainTurnTimer(m.ChannelID, nextTurn)
	case errors.Is(err, wordchain.ErrWordTooShort),
		errors.Is(err, wordchain.ErrWordUsed),
		errors.Is(err, wordchain.ErrWrongStartLetter):
		b.send(m.ChannelID, fmt.Sprintf("%s, %s. Try again.", mention(m.Author.ID), err), nil)
	}
	return true
}

func (b *Bot) finishWordChain(channelID string, winner *wordchain.Player) {
	b.cancelTimer(wordChainTimerKey(channelID))
	b.send(channelID, fmt.Sprintf("The chain is over. %s wins!", mention(winner.ID)), nil)
	if b.eco != nil {
		err := b.eco.RecordGameResult(context.Background(), economy.GameResult{
			Game:      wordChainName,
			ChannelID: channelID,
			WinnerID:  winner.ID,
		})
		if err != nil {
			b.log.WithField("tag", "word-chain").Errorln("Error recording game result:", err)
		}
	}
}

func wordChainLobbyText(g *wordchain.Game) string {
	var sb strings.Builder
	sb.WriteString("A game of **word chain** is starting. Join now!\nCurrent players:")
	for _, p := range g.Players {
		sb.WriteString(" " + mention(p.ID))
	}
	return sb.String()
}
