package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/mettlex/literally-discord-bot-sub000/economy"
	"github.com/mettlex/literally-discord-bot-sub000/gameerr"
	"github.com/mettlex/literally-discord-bot-sub000/wink"
)

const winkName = "wink"

var winkCommand = &discordgo.ApplicationCommand{
	Name:        winkName,
	Description: "Play The Winking Assassin: find the killer before everyone drops",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "start",
			Description: "Open a Winking Assassin lobby in this channel",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "at",
			Description: "Wink at a player (assassin only, kept secret)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "player",
					Description: "Who to wink at",
					Required:    true,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "accuse",
			Description: "Accuse someone of being the assassin",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "player",
					Description: "Your suspect",
					Required:    true,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "stop",
			Description: "Stop the Winking Assassin game in this channel",
		},
	},
}

func (b *Bot) handleWinkCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}
	switch options[0].Name {
	case "start":
		b.handleWinkStart(s, i)
	case "at":
		b.handleWinkAt(s, i, options[0].Options)
	case "accuse":
		b.handleWinkAccuse(s, i, options[0].Options)
	case "stop":
		b.handleWinkStop(s, i)
	}
}

func (b *Bot) handleWinkStart(s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := interactionUser(i)

	b.mu.Lock()
	if _, exists := b.winkGames[i.ChannelID]; exists {
		b.mu.Unlock()
		b.replyEphemeral(s, i, errorMessage(gameerr.ErrSessionExists), nil)
		return
	}
	g := wink.NewGame(i.ChannelID, user.ID, user.Username)
	b.winkGames[i.ChannelID] = g
	b.mu.Unlock()

	b.log.WithFields(logrus.Fields{"tag": "wink", "channel": i.ChannelID, "user": user.ID}).Debugln("New lobby created")

	b.reply(s, i, winkLobbyText(g), []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "Join", Style: discordgo.PrimaryButton, CustomID: "wink-join"},
				discordgo.Button{Label: "Begin", Style: discordgo.SuccessButton, CustomID: "wink-begin"},
			},
		},
	})
}

func (b *Bot) handleWinkComponent(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	user := interactionUser(i)
	switch customID {
	case "wink-join":
		b.mu.Lock()
		g := b.winkGames[i.ChannelID]
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
				Content:    winkLobbyText(g),
				Components: i.Message.Components,
			},
		})
		if err != nil {
			b.log.WithField("tag", "wink").Errorln("Error updating lobby message:", err)
		}
	case "wink-begin":
		b.mu.Lock()
		g := b.winkGames[i.ChannelID]
		var err error
		var assassinID string
		if g == nil {
			err = gameerr.ErrNoSession
		} else {
			err = g.Begin()
			assassinID = g.AssassinID
		}
		b.mu.Unlock()
		if err != nil {
			b.replyEphemeral(s, i, errorMessage(err), nil)
			return
		}
		b.ackComponent(s, i)
		b.send(i.ChannelID, "The game begins. One of you is the assassin. Watch for winks, and accuse with `/wink accuse` when you dare.", nil)
		b.sendDM(assassinID, "You are the assassin! Eliminate players one by one with `/wink at` in the channel. Your winks stay secret.")
	}
}

func (b *Bot) handleWinkAt(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	user := interactionUser(i)
	targetID := userOption(opts, "player")

	b.mu.Lock()
	g := b.winkGames[i.ChannelID]
	var err error
	var result wink.Outcome
	if g == nil {
		err = gameerr.ErrNoSession
	} else {
		err = g.Wink(user.ID, targetID)
		result = g.Result
		if result != wink.OutcomeOngoing {
			delete(b.winkGames, i.ChannelID)
		}
	}
	b.mu.Unlock()

	if err != nil {
		if err == wink.ErrNotAssassin {
			// The same ephemeral reply either way keeps the assassin covered.
			b.replyEphemeral(s, i, "Only the assassin can wink.", nil)
			return
		}
		b.replyEphemeral(s, i, errorMessage(err), nil)
		return
	}

	// Acknowledge privately so the channel sees nothing from the wink itself.
	b.replyEphemeral(s, i, "Winked.", nil)
	b.send(i.ChannelID, fmt.Sprintf("%s slumps over, assassinated!", mention(targetID)), nil)
	if result == wink.OutcomeAssassinWins {
		b.finishWink(i.ChannelID, user.ID, "The assassin outlasted everyone. "+mention(user.ID)+" wins!")
	}
}

func (b *Bot) handleWinkAccuse(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	user := interactionUser(i)
	suspectID := userOption(opts, "player")

	b.mu.Lock()
	g := b.winkGames[i.ChannelID]
	var err error
	var correct bool
	var result wink.Outcome
	var assassinID string
	if g == nil {
		err = gameerr.ErrNoSession
	} else {
		correct, err = g.Accuse(user.ID, suspectID)
		result = g.Result
		assassinID = g.AssassinID
		if result != wink.OutcomeOngoing {
			delete(b.winkGames, i.ChannelID)
		}
	}
	b.mu.Unlock()

	if err != nil {
		b.replyEphemeral(s, i, errorMessage(err), nil)
		return
	}

	if correct {
		b.reply(s, i, fmt.Sprintf("%s accuses %s... and is right! The assassin is caught.",
			mention(user.ID), mention(suspectID)), nil)
		b.finishWink(i.ChannelID, user.ID, "")
		return
	}
	b.reply(s, i, fmt.Sprintf("%s accuses %s... and is wrong! %s pays for the mistake.",
		mention(user.ID), mention(suspectID), mention(user.ID)), nil)
	if result == wink.OutcomeAssassinWins {
		b.finishWink(i.ChannelID, assassinID, "The assassin outlasted everyone. "+mention(assassinID)+" wins!")
	}
}

func (b *Bot) handleWinkStop(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.mu.Lock()
	_, exists := b.winkGames[i.ChannelID]
	delete(b.winkGames, i.ChannelID)
	b.mu.Unlock()
	if !exists {
		b.replyEphemeral(s, i, errorMessage(gameerr.ErrNoSession), nil)
		return
	}
	b.reply(s, i, "The Winking Assassin game in this channel has been stopped.", nil)
}

func (b *Bot) finishWink(channelID, winnerID, announcement string) {
	if announcement != "" {
		b.send(channelID, announcement, nil)
	}
	if b.eco == nil {
		return
	}
	err := b.eco.RecordGameResult(context.Background(), economy.GameResult{
		Game:      winkName,
		ChannelID: channelID,
		WinnerID:  winnerID,
	})
	if err != nil {
		b.log.WithField("tag", "wink").Errorln("Error recording game result:", err)
	}
}

func winkLobbyText(g *wink.Game) string {
	var sb strings.Builder
	sb.WriteString("A game of **The Winking Assassin** is starting. Join now! At least 3 players needed.\nCurrent players:")
	for _, p := range g.Players {
		sb.WriteString(" " + mention(p.ID))
	}
	return sb.String()
}

// userOption extracts a user-typed option's id from a subcommand's options.
func userOption(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, opt := range opts {
		if opt.Name == name {
			return opt.UserValue(nil).ID
		}
	}
	return ""
}
