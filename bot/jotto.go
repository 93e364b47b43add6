package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/mettlex/literally-discord-bot-sub000/economy"
	"github.com/mettlex/literally-discord-bot-sub000/gameerr"
	"github.com/mettlex/literally-discord-bot-sub000/jotto"
)

const jottoName = "jotto"

var jottoCommand = &discordgo.ApplicationCommand{
	Name:        jottoName,
	Description: "Play Jotto: guess the other players' secret words letter by letter",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "start",
			Description: "Open a Jotto lobby in this channel",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "join",
			Description: "Join the Jotto lobby in this channel",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "begin",
			Description: "Begin once everyone has DMed their secret word",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "guess",
			Description: "Guess another player's secret word",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "player",
					Description: "Whose word to probe",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "word",
					Description: "Your guess",
					Required:    true,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "stop",
			Description: "Stop the Jotto game in this channel",
		},
	},
}

func (b *Bot) handleJottoCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}
	switch options[0].Name {
	case "start":
		b.handleJottoStart(s, i)
	case "join":
		b.handleJottoJoin(s, i)
	case "begin":
		b.handleJottoBegin(s, i)
	case "guess":
		b.handleJottoGuess(s, i, options[0].Options)
	case "stop":
		b.handleJottoStop(s, i)
	}
}

func (b *Bot) handleJottoStart(s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := interactionUser(i)

	b.mu.Lock()
	if _, exists := b.jottoGames[i.ChannelID]; exists {
		b.mu.Unlock()
		b.replyEphemeral(s, i, errorMessage(gameerr.ErrSessionExists), nil)
		return
	}
	wordLength := b.cfg.Jotto.WordLength
	b.jottoGames[i.ChannelID] = jotto.NewGame(i.ChannelID, user.ID, user.Username, wordLength)
	b.mu.Unlock()

	b.log.WithFields(logrus.Fields{"tag": "jotto", "channel": i.ChannelID, "user": user.ID}).Debugln("New lobby created")

	b.reply(s, i, fmt.Sprintf(
		"A game of **Jotto** is starting! Use `/jotto join` to play, then DM me your secret %d-letter word. %s begins once everyone is ready.",
		wordLength, "`/jotto begin`"), nil)
	b.sendDM(user.ID, fmt.Sprintf("You opened a Jotto game. Reply here with your secret %d-letter word.", wordLength))
}

func (b *Bot) handleJottoJoin(s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := interactionUser(i)

	b.mu.Lock()
	g := b.jottoGames[i.ChannelID]
	var wordLength int
	var err error
	if g == nil {
		err = gameerr.ErrNoSession
	} else {
		wordLength = g.WordLength
		err = g.Join(user.ID, user.Username)
	}
	b.mu.Unlock()

	if err != nil {
		b.replyEphemeral(s, i, errorMessage(err), nil)
		return
	}
	b.reply(s, i, fmt.Sprintf("%s joined the Jotto game.", mention(user.ID)), nil)
	b.sendDM(user.ID, fmt.Sprintf("You joined a Jotto game. Reply here with your secret %d-letter word.", wordLength))
}

func (b *Bot) handleJottoBegin(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.mu.Lock()
	g := b.jottoGames[i.ChannelID]
	var err error
	if g == nil {
		err = gameerr.ErrNoSession
	} else {
		err = g.Begin()
	}
	b.mu.Unlock()

	if err != nil {
		if err == jotto.ErrSecretsNotSet {
			b.replyEphemeral(s, i, "Waiting for all players to DM their secret words.", nil)
			return
		}
		b.replyEphemeral(s, i, errorMessage(err), nil)
		return
	}
	b.reply(s, i, "All secrets are in. Probe each other with `/jotto guess`!", nil)
}

func (b *Bot) handleJottoGuess(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	user := interactionUser(i)
	var targetID, word string
	for _, opt := range opts {
		switch opt.Name {
		case "player":
			targetID = opt.UserValue(nil).ID
		case "word":
			word = opt.StringValue()
		}
	}

	b.mu.Lock()
	g := b.jottoGames[i.ChannelID]
	if g == nil {
		b.mu.Unlock()
		b.replyEphemeral(s, i, errorMessage(gameerr.ErrNoSession), nil)
		return
	}
	common, exact, err := g.Guess(user.ID, targetID, word)
	if exact {
		delete(b.jottoGames, i.ChannelID)
	}
	b.mu.Unlock()

	if err != nil {
		switch err {
		case jotto.ErrWrongLength, jotto.ErrNotLetters, jotto.ErrNoSecret:
			b.replyEphemeral(s, i, err.Error(), nil)
		default:
			b.replyEphemeral(s, i, errorMessage(err), nil)
		}
		return
	}

	if exact {
		b.reply(s, i, fmt.Sprintf("%s guessed %s's word **%s** exactly and wins the game!",
			mention(user.ID), mention(targetID), strings.ToLower(word)), nil)
		b.recordJottoWin(i.ChannelID, user.ID)
		return
	}
	b.reply(s, i, fmt.Sprintf("%s probes %s with **%s**: %d letter(s) in common.",
		mention(user.ID), mention(targetID), strings.ToLower(word), common), nil)
}

func (b *Bot) handleJottoStop(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.mu.Lock()
	_, exists := b.jottoGames[i.ChannelID]
	delete(b.jottoGames, i.ChannelID)
	b.mu.Unlock()
	if !exists {
		b.replyEphemeral(s, i, errorMessage(gameerr.ErrNoSession), nil)
		return
	}
	b.reply(s, i, "The Jotto game in this channel has been stopped.", nil)
}

// handleDirectMessage treats a DM as a Jotto secret for whichever pending
// game the sender is part of.
func (b *Bot) handleDirectMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	word := strings.TrimSpace(m.Content)
	if word == "" {
		return
	}

	b.mu.Lock()
	var g *jotto.Game
	for _, candidate := range b.jottoGames {
		if candidate.Started {
			continue
		}
		for _, p := range candidate.Players {
			if p.ID == m.Author.ID {
				g = candidate
				break
			}
		}
		if g != nil {
			break
		}
	}
	var err error
	if g != nil {
		err = g.SetSecret(m.Author.ID, word)
	}
	b.mu.Unlock()

	if g == nil {
		return
	}
	if err != nil {
		b.sendDM(m.Author.ID, fmt.Sprintf("That word does not work: %s.", err))
		return
	}
	b.sendDM(m.Author.ID, "Your secret word is locked in. Good luck!")
}

func (b *Bot) recordJottoWin(channelID, winnerID string) {
	if b.eco == nil {
		return
	}
	err := b.eco.RecordGameResult(context.Background(), economy.GameResult{
		Game:      jottoName,
		ChannelID: channelID,
		WinnerID:  winnerID,
	})
	if err != nil {
		b.log.WithField("tag", "jotto").Errorln("Error recording game result:", err)
	}
}
