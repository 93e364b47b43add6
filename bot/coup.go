package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/mettlex/literally-discord-bot-sub000/coup"
	"github.com/mettlex/literally-discord-bot-sub000/economy"
	"github.com/mettlex/literally-discord-bot-sub000/gameerr"
)

const coupName = "coup"

var coupCommand = &discordgo.ApplicationCommand{
	Name:        coupName,
	Description: "Play Coup: bluff, challenge, and be the last influence standing",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "start",
			Description: "Open a Coup lobby in this channel",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "stop",
			Description: "Stop the game in this channel (requires Manage Server)",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "hand",
			Description: "See your influences and coins",
		},
	},
}

func coupTimerKey(channelID string) string {
	return "coup:" + channelID
}

func (b *Bot) handleCoupCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}
	switch options[0].Name {
	case "start":
		b.handleCoupStart(s, i)
	case "stop":
		b.handleCoupStop(s, i)
	case "hand":
		b.handleCoupHand(s, i)
	}
}

func (b *Bot) handleCoupStart(s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := interactionUser(i)
	sess := coup.NewSession(i.ChannelID, i.GuildID, coup.PlayerInfo{
		ID:        user.ID,
		Name:      user.Username,
		AvatarURL: user.AvatarURL(""),
	})
	if err := b.sessions.Set(i.ChannelID, sess); err != nil {
		b.replyEphemeral(s, i, errorMessage(err), nil)
		return
	}

	b.log.WithFields(logrus.Fields{
		"tag":     "coup",
		"channel": i.ChannelID,
		"user":    user.ID,
	}).Debugln("New lobby created")

	b.reply(s, i, coupLobbyText(sess), coupLobbyComponents())
	b.armCoupJoinTimer(i.ChannelID)
}

// armCoupJoinTimer closes the lobby after the join window: the game begins if
// enough players joined, otherwise the lobby is scrapped.
func (b *Bot) armCoupJoinTimer(channelID string) {
	d := secondsToDuration(b.cfg.Coup.JoinWindowSec)
	b.armTimer(coupTimerKey(channelID), d, func() {
		events, playerIDs, err := b.coupUpdate(channelID, func(sess *coup.Session) ([]coup.Event, error) {
			if sess.Started {
				return nil, nil
			}
			return sess.Begin(b.cfg.Coup.MinPlayers)
		})
		if err != nil {
			if err == gameerr.ErrNeedMorePlayers || err == gameerr.ErrNoSession {
				if err == gameerr.ErrNeedMorePlayers {
					_ = b.sessions.Set(channelID, nil)
					b.send(channelID, "Not enough players joined. The Coup lobby is closed.", nil)
				}
				return
			}
			b.log.WithFields(logrus.Fields{"tag": "coup", "channel": channelID}).Errorln("Error auto-starting game:", err)
			return
		}
		if len(events) > 0 {
			b.afterCoupUpdate(channelID, events, playerIDs)
		}
	})
}

func (b *Bot) handleCoupStop(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Member == nil || i.Member.Permissions&discordgo.PermissionManageServer == 0 {
		b.replyEphemeral(s, i, "You need the Manage Server permission to stop a game.", nil)
		return
	}
	var exists bool
	b.sessions.View(i.ChannelID, func(sess *coup.Session) { exists = sess != nil })
	if !exists {
		b.replyEphemeral(s, i, errorMessage(gameerr.ErrNoSession), nil)
		return
	}
	b.cancelTimer(coupTimerKey(i.ChannelID))
	if err := b.sessions.Set(i.ChannelID, nil); err != nil {
		b.log.WithFields(logrus.Fields{"tag": "coup", "channel": i.ChannelID}).Errorln("Error clearing session:", err)
	}
	b.reply(s, i, "The Coup game in this channel has been stopped.", nil)
}

func (b *Bot) handleCoupHand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := interactionUser(i)
	var text string
	var err error
	b.sessions.View(i.ChannelID, func(sess *coup.Session) {
		if sess == nil {
			err = gameerr.ErrNoSession
			return
		}
		p := sess.PlayerByID(user.ID)
		if p == nil {
			err = gameerr.ErrNotInGame
			return
		}
		text = handText(p)
	})
	if err != nil {
		b.replyEphemeral(s, i, errorMessage(err), nil)
		return
	}
	b.replyEphemeral(s, i, text, nil)
}

// handleCoupComponent dispatches every coup button and select menu press.
func (b *Bot) handleCoupComponent(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	user := interactionUser(i)
	switch {
	case customID == "coup-join":
		b.handleCoupJoin(s, i, user)
	case customID == "coup-leave":
		b.handleCoupLeave(s, i, user)
	case customID == "coup-begin":
		b.handleCoupBegin(s, i, user)
	case strings.HasPrefix(customID, "coup-act:"):
		b.handleCoupAction(s, i, user, strings.TrimPrefix(customID, "coup-act:"))
	case strings.HasPrefix(customID, "coup-target:"):
		b.handleCoupTarget(s, i, user, strings.TrimPrefix(customID, "coup-target:"))
	case customID == "coup-allow":
		b.handleCoupSignal(s, i, coup.Signal{Type: coup.SignalAllow, PlayerID: user.ID})
	case customID == "coup-block":
		b.handleCoupSignal(s, i, coup.Signal{Type: coup.SignalBlock, PlayerID: user.ID})
	case customID == "coup-challenge":
		b.handleCoupSignal(s, i, coup.Signal{Type: coup.SignalChallenge, PlayerID: user.ID})
	case customID == "coup-dismiss":
		b.handleCoupSlotSelect(s, i, user, coup.SignalDismiss)
	case customID == "coup-return":
		b.handleCoupSlotSelect(s, i, user, coup.SignalReturnCard)
	}
}

func (b *Bot) handleCoupJoin(s *discordgo.Session, i *discordgo.InteractionCreate, user *discordgo.User) {
	_, err := b.sessions.Update(i.ChannelID, func(sess *coup.Session) ([]coup.Event, error) {
		return nil, sess.AddPlayer(coup.PlayerInfo{
			ID:        user.ID,
			Name:      user.Username,
			AvatarURL: user.AvatarURL(""),
		}, b.cfg.Coup.MaxPlayers)
	})
	if err != nil {
		b.replyEphemeral(s, i, errorMessage(err), nil)
		return
	}
	b.updateLobbyMessage(s, i)
	b.log.WithFields(logrus.Fields{"tag": "coup", "channel": i.ChannelID, "user": user.ID}).Debugln("User joined game")
}

func (b *Bot) handleCoupLeave(s *discordgo.Session, i *discordgo.InteractionCreate, user *discordgo.User) {
	var empty bool
	_, err := b.sessions.Update(i.ChannelID, func(sess *coup.Session) ([]coup.Event, error) {
		if err := sess.RemovePlayer(user.ID); err != nil {
			return nil, err
		}
		empty = len(sess.Players) == 0
		return nil, nil
	})
	if err != nil {
		b.replyEphemeral(s, i, errorMessage(err), nil)
		return
	}
	if empty {
		b.cancelTimer(coupTimerKey(i.ChannelID))
		_ = b.sessions.Set(i.ChannelID, nil)
		b.reply(s, i, "Everyone left. The Coup lobby is closed.", nil)
		return
	}
	b.updateLobbyMessage(s, i)
	b.log.WithFields(logrus.Fields{"tag": "coup", "channel": i.ChannelID, "user": user.ID}).Debugln("User left game")
}

func (b *Bot) updateLobbyMessage(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var content string
	b.sessions.View(i.ChannelID, func(sess *coup.Session) {
		if sess != nil {
			content = coupLobbyText(sess)
		}
	})
	if content == "" {
		return
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: coupLobbyComponents(),
		},
	})
	if err != nil {
		b.log.WithField("tag", "coup").Errorln("Error updating lobby message:", err)
	}
}

// coupUpdate runs a game mutation and also captures the participant list,
// which is gone from the store once a finished session is cleared.
func (b *Bot) coupUpdate(channelID string, fn func(*coup.Session) ([]coup.Event, error)) ([]coup.Event, []string, error) {
	var playerIDs []string
	events, err := b.sessions.Update(channelID, func(sess *coup.Session) ([]coup.Event, error) {
		events, err := fn(sess)
		for _, p := range sess.Players {
			playerIDs = append(playerIDs, p.ID)
		}
		return events, err
	})
	return events, playerIDs, err
}

func (b *Bot) handleCoupBegin(s *discordgo.Session, i *discordgo.InteractionCreate, user *discordgo.User) {
	events, playerIDs, err := b.coupUpdate(i.ChannelID, func(sess *coup.Session) ([]coup.Event, error) {
		if sess.PlayerByID(user.ID) == nil {
			return nil, gameerr.ErrNotInGame
		}
		return sess.Begin(b.cfg.Coup.MinPlayers)
	})
	if err != nil {
		b.replyEphemeral(s, i, errorMessage(err), nil)
		return
	}
	b.ackComponent(s, i)
	b.afterCoupUpdate(i.ChannelID, events, playerIDs)
}

func (b *Bot) handleCoupAction(s *discordgo.Session, i *discordgo.InteractionCreate, user *discordgo.User, actionName string) {
	action, ok := coup.ActionFromName(actionName)
	if !ok {
		b.replyEphemeral(s, i, errorMessage(gameerr.ErrInvalidSelection), nil)
		return
	}
	if action.Meta().NeedsTarget {
		var components []discordgo.MessageComponent
		var err error
		b.sessions.View(i.ChannelID, func(sess *coup.Session) {
			if sess == nil {
				err = gameerr.ErrNoSession
				return
			}
			targets := sess.EligibleTargets(user.ID)
			if len(targets) == 0 {
				err = gameerr.ErrInvalidTarget
				return
			}
			components = targetSelect(action, targets)
		})
		if err != nil {
			b.replyEphemeral(s, i, errorMessage(err), nil)
			return
		}
		b.replyEphemeral(s, i, fmt.Sprintf("Pick a target for **%s**:", action), components)
		return
	}
	b.declareCoupAction(s, i, user.ID, action, "")
}

func (b *Bot) handleCoupTarget(s *discordgo.Session, i *discordgo.InteractionCreate, user *discordgo.User, actionName string) {
	action, ok := coup.ActionFromName(actionName)
	if !ok {
		b.replyEphemeral(s, i, errorMessage(gameerr.ErrInvalidSelection), nil)
		return
	}
	values := i.MessageComponentData().Values
	if len(values) != 1 {
		b.replyEphemeral(s, i, errorMessage(gameerr.ErrInvalidSelection), nil)
		return
	}
	b.declareCoupAction(s, i, user.ID, action, values[0])
}

func (b *Bot) declareCoupAction(s *discordgo.Session, i *discordgo.InteractionCreate, userID string, action coup.ActionType, targetID string) {
	events, playerIDs, err := b.coupUpdate(i.ChannelID, func(sess *coup.Session) ([]coup.Event, error) {
		return sess.Declare(userID, action, targetID)
	})
	if err != nil {
		b.replyEphemeral(s, i, errorMessage(err), nil)
		return
	}
	b.ackComponent(s, i)
	b.afterCoupUpdate(i.ChannelID, events, playerIDs)
}

func (b *Bot) handleCoupSignal(s *discordgo.Session, i *discordgo.InteractionCreate, sig coup.Signal) {
	events, playerIDs, err := b.coupUpdate(i.ChannelID, func(sess *coup.Session) ([]coup.Event, error) {
		return sess.Resolve(sig)
	})
	if err != nil {
		b.replyEphemeral(s, i, errorMessage(err), nil)
		return
	}
	b.ackComponent(s, i)
	b.afterCoupUpdate(i.ChannelID, events, playerIDs)
}

func (b *Bot) handleCoupSlotSelect(s *discordgo.Session, i *discordgo.InteractionCreate, user *discordgo.User, sigType coup.SignalType) {
	values := i.MessageComponentData().Values
	slots := make([]int, 0, len(values))
	for _, v := range values {
		n, err := strconv.Atoi(v)
		if err != nil {
			b.replyEphemeral(s, i, errorMessage(gameerr.ErrInvalidSelection), nil)
			return
		}
		slots = append(slots, n)
	}
	b.handleCoupSignal(s, i, coup.Signal{Type: sigType, PlayerID: user.ID, Slots: slots})
}

// afterCoupUpdate renders the engine's events into the channel, delivers
// private hands, re-arms the phase timer, and settles the economy when the
// game ends.
func (b *Bot) afterCoupUpdate(channelID string, events []coup.Event, playerIDs []string) {
	var components []discordgo.MessageComponent
	var phase coup.Phase
	var turn int
	var running bool
	b.sessions.View(channelID, func(sess *coup.Session) {
		if sess == nil {
			return
		}
		running = true
		components = coupPrompt(sess)
		phase = sess.Phase
		turn = sess.TurnCount
	})

	lines, dms := renderCoupEvents(events)
	for userID, content := range dms {
		b.sendDM(userID, content)
	}
	if len(lines) > 0 || len(components) > 0 {
		b.send(channelID, strings.Join(lines, "\n"), components)
	}

	for _, ev := range events {
		if ev.Type == coup.EventGameEnded {
			b.cancelTimer(coupTimerKey(channelID))
			b.settleCoupGame(channelID, ev.PlayerID, playerIDs)
			return
		}
	}
	if running {
		b.armCoupPhaseTimer(channelID, phase, turn)
	}
}

// settleCoupGame records the finished game for the winner's stats.
func (b *Bot) settleCoupGame(channelID, winnerID string, playerIDs []string) {
	if b.eco == nil || winnerID == "" {
		return
	}
	err := b.eco.RecordGameResult(context.Background(), economy.GameResult{
		Game:      coupName,
		ChannelID: channelID,
		WinnerID:  winnerID,
		PlayerIDs: playerIDs,
	})
	if err != nil {
		b.log.WithFields(logrus.Fields{"tag": "coup", "channel": channelID}).Errorln("Error recording game result:", err)
	}
}

// armCoupPhaseTimer schedules the timeout for whatever decision is pending.
// The callback re-fetches the session and checks TurnCount and Phase so a
// timer armed for an already-resolved decision does nothing.
func (b *Bot) armCoupPhaseTimer(channelID string, phase coup.Phase, turn int) {
	var d int
	switch phase {
	case coup.PhaseAwaitingAction:
		d = b.cfg.Coup.TurnLimitSec
	case coup.PhaseAwaitingBlockOrChallenge, coup.PhaseAwaitingChallengeOnBlock,
		coup.PhaseAwaitingDismissal, coup.PhaseAwaitingExchangeReturn:
		d = b.cfg.Coup.DecisionWindowSec
	default:
		b.cancelTimer(coupTimerKey(channelID))
		return
	}

	b.armTimer(coupTimerKey(channelID), secondsToDuration(d), func() {
		events, playerIDs, err := b.coupUpdate(channelID, func(s *coup.Session) ([]coup.Event, error) {
			if s.TurnCount != turn || s.Phase != phase {
				return nil, nil
			}
			switch phase {
			case coup.PhaseAwaitingBlockOrChallenge, coup.PhaseAwaitingChallengeOnBlock:
				return s.ForceResolve()
			default:
				return s.ForceSkip()
			}
		})
		if err != nil {
			if err != gameerr.ErrNoSession {
				b.log.WithFields(logrus.Fields{"tag": "coup", "channel": channelID}).Errorln("Error forcing timeout:", err)
			}
			return
		}
		if len(events) > 0 {
			b.send(channelID, "Time is up!", nil)
			b.afterCoupUpdate(channelID, events, playerIDs)
		}
	})
}
