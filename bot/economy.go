package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/mettlex/literally-discord-bot-sub000/gameerr"
)

const (
	checkCoinsName  = "check-coins"
	claimRewardName = "claim-reward"
	leaderboardName = "leaderboard"
)

var checkCoinsCommand = &discordgo.ApplicationCommand{
	Name:        checkCoinsName,
	Description: "Check your coin balance",
}

var claimRewardCommand = &discordgo.ApplicationCommand{
	Name:        claimRewardName,
	Description: "Claim your coin reward for voting for the bot",
}

var leaderboardCommand = &discordgo.ApplicationCommand{
	Name:        leaderboardName,
	Description: "Show the richest players",
}

func (b *Bot) handleCheckCoins(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if b.eco == nil {
		b.replyEphemeral(s, i, "The economy is not configured on this bot.", nil)
		return
	}
	user := interactionUser(i)
	balance, err := b.eco.Balance(context.Background(), user.ID)
	if err != nil {
		b.log.WithField("tag", "economy").Errorln("Error reading balance:", err)
		b.replyEphemeral(s, i, errorMessage(err), nil)
		return
	}
	b.replyEphemeral(s, i, fmt.Sprintf("You have **%d** coin(s).", balance), nil)
}

func (b *Bot) handleClaimReward(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if b.eco == nil {
		b.replyEphemeral(s, i, "The economy is not configured on this bot.", nil)
		return
	}
	user := interactionUser(i)
	ctx := context.Background()

	if b.votes != nil {
		voted, err := b.votes.HasVoted(ctx, user.ID)
		if err != nil {
			b.log.WithField("tag", "economy").Errorln("Error checking vote:", err)
			b.replyEphemeral(s, i, "Could not verify your vote right now, please try again later.", nil)
			return
		}
		if !voted {
			b.replyEphemeral(s, i, "No vote on record yet. Vote for the bot first, then claim your reward!", nil)
			return
		}
	}

	cooldown := time.Duration(b.cfg.VoteRewardCooldownHrs) * time.Hour
	balance, err := b.eco.ClaimVoteReward(ctx, user.ID, user.Username, b.cfg.VoteRewardCoins, cooldown)
	if err != nil {
		if errors.Is(err, gameerr.ErrAlreadyVoted) {
			b.replyEphemeral(s, i, fmt.Sprintf("You already claimed a reward in the last %d hours.", b.cfg.VoteRewardCooldownHrs), nil)
			return
		}
		b.log.WithField("tag", "economy").Errorln("Error claiming reward:", err)
		b.replyEphemeral(s, i, errorMessage(err), nil)
		return
	}

	b.reply(s, i, fmt.Sprintf("%s claimed **%d** coins for voting! New balance: **%d**.",
		mention(user.ID), b.cfg.VoteRewardCoins, balance), nil)

	// Remind them when the next vote is worth claiming.
	b.armTimer("vote-reminder:"+user.ID, cooldown, func() {
		b.sendDM(user.ID, "Your vote reward cooldown is over. Vote again and `/claim-reward` for more coins!")
	})
}

func (b *Bot) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if b.eco == nil {
		b.replyEphemeral(s, i, "The economy is not configured on this bot.", nil)
		return
	}
	entries, err := b.eco.ListLeaderboard(context.Background(), 10)
	if err != nil {
		b.log.WithField("tag", "economy").Errorln("Error reading leaderboard:", err)
		b.replyEphemeral(s, i, errorMessage(err), nil)
		return
	}
	if len(entries) == 0 {
		b.replyEphemeral(s, i, "Nobody has any coins yet.", nil)
		return
	}

	var sb strings.Builder
	sb.WriteString("**Coin leaderboard**\n")
	for rank, e := range entries {
		name := e.DisplayName
		if name == "" {
			name = mention(e.UserID)
		}
		fmt.Fprintf(&sb, "%d. %s: %d coin(s), %d win(s)\n", rank+1, name, e.Coins, e.Wins)
	}
	b.reply(s, i, sb.String(), nil)
}
