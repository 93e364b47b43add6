package bot

import (
	"errors"

	"github.com/bwmarrin/discordgo"

	"github.com/mettlex/literally-discord-bot-sub000/gameerr"
)

// interactionUser returns the acting user for guild and DM interactions.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

func mention(userID string) string {
	return "<@" + userID + ">"
}

// reply sends a normal channel response to an interaction.
func (b *Bot) reply(s *discordgo.Session, i *discordgo.InteractionCreate, content string, components []discordgo.MessageComponent) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: components,
		},
	})
	if err != nil {
		b.log.WithField("tag", "bot").Errorln("Error sending interaction response:", err)
	}
}

// replyEphemeral sends a user-only response to an interaction.
func (b *Bot) replyEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string, components []discordgo.MessageComponent) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: components,
			Flags:      1 << 6, // User-only visibility.
		},
	})
	if err != nil {
		b.log.WithField("tag", "bot").Errorln("Error sending ephemeral response:", err)
	}
}

// ackComponent acknowledges a component press without changing the message.
func (b *Bot) ackComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		b.log.WithField("tag", "bot").Errorln("Error acknowledging component:", err)
	}
}

// send posts a plain channel message outside an interaction (timer callbacks).
func (b *Bot) send(channelID, content string, components []discordgo.MessageComponent) {
	_, err := b.dg.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:    content,
		Components: components,
	})
	if err != nil {
		b.log.WithField("tag", "bot").Errorln("Error sending channel message:", err)
	}
}

// sendDM delivers a private message to a user, used for secret hands.
func (b *Bot) sendDM(userID, content string) {
	ch, err := b.dg.UserChannelCreate(userID)
	if err != nil {
		b.log.WithField("tag", "bot").Errorln("Error opening DM channel:", err)
		return
	}
	if _, err := b.dg.ChannelMessageSend(ch.ID, content); err != nil {
		b.log.WithField("tag", "bot").Errorln("Error sending DM:", err)
	}
}

// errorMessage turns an engine error into a short player-facing sentence.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, gameerr.ErrNoSession):
		return "There is no game running in this channel."
	case errors.Is(err, gameerr.ErrSessionExists):
		return "A game is already running in this channel!"
	case errors.Is(err, gameerr.ErrGameStarted):
		return "The game has already started."
	case errors.Is(err, gameerr.ErrGameNotStarted):
		return "The game has not started yet."
	case errors.Is(err, gameerr.ErrNotYourTurn):
		return "It is not your turn."
	case errors.Is(err, gameerr.ErrNotInGame):
		return "You are not in the game!"
	case errors.Is(err, gameerr.ErrAlreadyJoined):
		return "You are already in the game!"
	case errors.Is(err, gameerr.ErrLobbyFull):
		return "The lobby is full."
	case errors.Is(err, gameerr.ErrNeedMorePlayers):
		return "Not enough players to start."
	case errors.Is(err, gameerr.ErrWrongPhase):
		return "That choice is no longer available."
	case errors.Is(err, gameerr.ErrNotEnoughCoins):
		return "You do not have enough coins for that."
	case errors.Is(err, gameerr.ErrCoupRequired):
		return "With 10 or more coins you must coup."
	case errors.Is(err, gameerr.ErrInvalidTarget):
		return "You cannot target that player."
	case errors.Is(err, gameerr.ErrNotEligible):
		return "You cannot respond to this."
	case errors.Is(err, gameerr.ErrAlreadyVoted):
		return "You already responded."
	case errors.Is(err, gameerr.ErrCannotBlock):
		return "That action cannot be blocked by you."
	case errors.Is(err, gameerr.ErrCannotChallenge):
		return "That claim cannot be challenged."
	case errors.Is(err, gameerr.ErrInvalidSelection):
		return "That is not a valid choice."
	case errors.Is(err, gameerr.ErrInsufficientFunds):
		return "You do not have enough coins."
	default:
		return "Something went wrong, please try again."
	}
}
