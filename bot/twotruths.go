package bot

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/mettlex/literally-discord-bot-sub000/gameerr"
	"github.com/mettlex/literally-discord-bot-sub000/twotruths"
)

const twoTruthsName = "two-truths"

var twoTruthsCommand = &discordgo.ApplicationCommand{
	Name:        twoTruthsName,
	Description: "Play Two Truths & A Lie",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "tell",
			Description: "Submit your three statements (one must be a lie)",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "reveal",
			Description: "Reveal your lie and close the round",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "scores",
			Description: "Show this channel's scores",
		},
	},
}

func (b *Bot) handleTwoTruthsCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}
	switch options[0].Name {
	case "tell":
		b.handleTwoTruthsTell(s, i)
	case "reveal":
		b.handleTwoTruthsReveal(s, i)
	case "scores":
		b.handleTwoTruthsScores(s, i)
	}
}

// handleTwoTruthsTell opens a modal: three statement fields plus the lie's
// number. The lie index travels only inside the engine after submission.
func (b *Bot) handleTwoTruthsTell(s *discordgo.Session, i *discordgo.InteractionCreate) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: "two-truths-tell",
			Title:    "Two Truths & A Lie",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "statement1", Label: "Statement 1", Style: discordgo.TextInputShort, Required: true},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "statement2", Label: "Statement 2", Style: discordgo.TextInputShort, Required: true},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "statement3", Label: "Statement 3", Style: discordgo.TextInputShort, Required: true},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{CustomID: "lie", Label: "Which one is the lie? (1, 2, or 3)", Style: discordgo.TextInputShort, Required: true, MaxLength: 1},
				}},
			},
		},
	})
	if err != nil {
		b.log.WithField("tag", "two-truths").Errorln("Error opening modal:", err)
	}
}

func (b *Bot) handleTwoTruthsModal(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	if customID != "two-truths-tell" {
		return
	}
	user := interactionUser(i)

	var statements [3]string
	var lieRaw string
	for _, row := range i.ModalSubmitData().Components {
		ar, ok := row.(*discordgo.ActionsRow)
		if !ok || len(ar.Components) == 0 {
			continue
		}
		input, ok := ar.Components[0].(*discordgo.TextInput)
		if !ok {
			continue
		}
		switch input.CustomID {
		case "statement1":
			statements[0] = strings.TrimSpace(input.Value)
		case "statement2":
			statements[1] = strings.TrimSpace(input.Value)
		case "statement3":
			statements[2] = strings.TrimSpace(input.Value)
		case "lie":
			lieRaw = strings.TrimSpace(input.Value)
		}
	}
	lie, err := strconv.Atoi(lieRaw)
	if err != nil || lie < 1 || lie > 3 {
		b.replyEphemeral(s, i, "The lie must be 1, 2, or 3.", nil)
		return
	}

	b.mu.Lock()
	g := b.ttalGames[i.ChannelID]
	if g == nil {
		g = twotruths.NewGame(i.ChannelID)
		b.ttalGames[i.ChannelID] = g
	}
	err = g.StartRound(user.ID, statements, lie-1)
	b.mu.Unlock()

	if err != nil {
		if err == twotruths.ErrRoundOpen {
			b.replyEphemeral(s, i, "A round is already in progress. Wait for the reveal.", nil)
			return
		}
		b.replyEphemeral(s, i, "Each statement needs text, and the lie must be 1, 2, or 3.", nil)
		return
	}

	b.log.WithFields(logrus.Fields{"tag": "two-truths", "channel": i.ChannelID, "user": user.ID}).Debugln("New round started")

	b.reply(s, i, fmt.Sprintf(
		"%s says:\n1. %s\n2. %s\n3. %s\nWhich one is the lie?",
		mention(user.ID), statements[0], statements[1], statements[2]),
		[]discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "1", Style: discordgo.PrimaryButton, CustomID: "two-truths-vote:0"},
				discordgo.Button{Label: "2", Style: discordgo.PrimaryButton, CustomID: "two-truths-vote:1"},
				discordgo.Button{Label: "3", Style: discordgo.PrimaryButton, CustomID: "two-truths-vote:2"},
			}},
		})
}

func (b *Bot) handleTwoTruthsComponent(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	if !strings.HasPrefix(customID, "two-truths-vote:") {
		return
	}
	index, err := strconv.Atoi(strings.TrimPrefix(customID, "two-truths-vote:"))
	if err != nil {
		return
	}
	user := interactionUser(i)

	b.mu.Lock()
	g := b.ttalGames[i.ChannelID]
	if g == nil {
		err = twotruths.ErrNoRound
	} else {
		err = g.Vote(user.ID, index)
	}
	b.mu.Unlock()

	if err != nil {
		switch err {
		case twotruths.ErrNoRound:
			b.replyEphemeral(s, i, "No round is in progress.", nil)
		case twotruths.ErrTellerMayNotVote:
			b.replyEphemeral(s, i, "You cannot vote on your own statements.", nil)
		default:
			b.replyEphemeral(s, i, errorMessage(err), nil)
		}
		return
	}
	b.replyEphemeral(s, i, fmt.Sprintf("You picked statement %d as the lie.", index+1), nil)
}

func (b *Bot) handleTwoTruthsReveal(s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := interactionUser(i)

	b.mu.Lock()
	g := b.ttalGames[i.ChannelID]
	var lieIndex int
	var correct []string
	var err error
	if g == nil {
		err = twotruths.ErrNoRound
	} else {
		lieIndex, correct, err = g.Reveal(user.ID)
	}
	b.mu.Unlock()

	if err != nil {
		switch err {
		case twotruths.ErrNoRound:
			b.replyEphemeral(s, i, "No round is in progress.", nil)
		case gameerr.ErrNotEligible:
			b.replyEphemeral(s, i, "Only the teller can reveal.", nil)
		default:
			b.replyEphemeral(s, i, errorMessage(err), nil)
		}
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "The lie was statement **%d**!\n", lieIndex+1)
	if len(correct) == 0 {
		sb.WriteString("Nobody found it. Points to the teller!")
	} else {
		sb.WriteString("Spotted by:")
		for _, id := range correct {
			sb.WriteString(" " + mention(id))
		}
	}
	b.reply(s, i, sb.String(), nil)
}

func (b *Bot) handleTwoTruthsScores(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.mu.Lock()
	g := b.ttalGames[i.ChannelID]
	scores := make(map[string]int)
	if g != nil {
		for id, n := range g.Scores {
			scores[id] = n
		}
	}
	b.mu.Unlock()

	if len(scores) == 0 {
		b.replyEphemeral(s, i, "No scores yet in this channel.", nil)
		return
	}
	type entry struct {
		id string
		n  int
	}
	entries := make([]entry, 0, len(scores))
	for id, n := range scores {
		entries = append(entries, entry{id, n})
	}
	sort.Slice(entries, func(a, b int) bool { return entries[a].n > entries[b].n })

	var sb strings.Builder
	sb.WriteString("Two Truths & A Lie scores:\n")
	for _, e := range entries {
		fmt.Fprintf(&sb, "%s: %d\n", mention(e.id), e.n)
	}
	b.reply(s, i, sb.String(), nil)
}
