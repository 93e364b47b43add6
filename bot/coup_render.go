package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/mettlex/literally-discord-bot-sub000/coup"
)

func secondsToDuration(sec int) time.Duration {
	return time.Duration(sec) * time.Second
}

func coupLobbyText(sess *coup.Session) string {
	var sb strings.Builder
	sb.WriteString("A game of **Coup** is starting. Join now!\nCurrent players:")
	for _, p := range sess.Players {
		sb.WriteString(" " + mention(p.ID))
	}
	return sb.String()
}

func coupLobbyComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Join",
					Style:    discordgo.PrimaryButton,
					CustomID: "coup-join",
				},
				discordgo.Button{
					Label:    "Leave",
					Style:    discordgo.SecondaryButton,
					CustomID: "coup-leave",
				},
				discordgo.Button{
					Label:    "Begin",
					Style:    discordgo.SuccessButton,
					CustomID: "coup-begin",
				},
			},
		},
	}
}

// handText is the private view of a player's cards and coins.
func handText(p *coup.Player) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You have **%d** coin(s).\nYour influences:\n", p.Coins)
	for _, inf := range p.Influences {
		if inf.State == coup.InfluenceDismissed {
			fmt.Fprintf(&sb, "- ~~%s~~ (dismissed)\n", roleTitle(inf.Role))
			continue
		}
		if card, ok := coup.CardFor(inf.Role); ok {
			fmt.Fprintf(&sb, "- **%s**: %s\n", roleTitle(inf.Role), card.Description)
		} else {
			fmt.Fprintf(&sb, "- %s\n", roleTitle(inf.Role))
		}
	}
	return sb.String()
}

func roleTitle(r coup.Role) string {
	s := string(r)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// targetSelect builds the target picker shown after a targeted action button.
func targetSelect(action coup.ActionType, targets []*coup.Player) []discordgo.MessageComponent {
	options := make([]discordgo.SelectMenuOption, 0, len(targets))
	for _, t := range targets {
		options = append(options, discordgo.SelectMenuOption{
			Label:       t.Name,
			Value:       t.ID,
			Description: fmt.Sprintf("%d coin(s), %d influence(s)", t.Coins, t.CountActive()),
		})
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					CustomID:    "coup-target:" + action.String(),
					Placeholder: "Choose a target",
					Options:     options,
				},
			},
		},
	}
}

// coupPrompt returns the interactive components for the session's current
// pending decision.
func coupPrompt(sess *coup.Session) []discordgo.MessageComponent {
	switch sess.Phase {
	case coup.PhaseAwaitingAction:
		return actionButtons(sess)
	case coup.PhaseAwaitingBlockOrChallenge:
		return decisionButtons(sess, true)
	case coup.PhaseAwaitingChallengeOnBlock:
		return decisionButtons(sess, false)
	case coup.PhaseAwaitingDismissal:
		return slotSelect(sess, sess.Pending.DismisserID, "coup-dismiss", "Choose an influence to dismiss")
	case coup.PhaseAwaitingExchangeReturn:
		return slotSelect(sess, sess.Pending.ActorID, "coup-return", "Choose a card to return")
	default:
		return nil
	}
}

func actionButtons(sess *coup.Session) []discordgo.MessageComponent {
	current := sess.CurrentPlayer()
	if current == nil {
		return nil
	}
	actions, err := sess.AvailableActions(current.ID)
	if err != nil {
		return nil
	}

	var rows []discordgo.MessageComponent
	var row []discordgo.MessageComponent
	for _, a := range actions {
		row = append(row, discordgo.Button{
			Label:    actionLabel(a),
			Style:    discordgo.PrimaryButton,
			CustomID: "coup-act:" + a.String(),
		})
		if len(row) == 5 {
			rows = append(rows, discordgo.ActionsRow{Components: row})
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, discordgo.ActionsRow{Components: row})
	}
	return rows
}

func actionLabel(a coup.ActionType) string {
	parts := strings.Split(a.String(), "-")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	label := strings.Join(parts, " ")
	if cost := a.Meta().Cost; cost > 0 {
		label = fmt.Sprintf("%s (%d)", label, cost)
	}
	return label
}

func decisionButtons(sess *coup.Session, blockAllowed bool) []discordgo.MessageComponent {
	buttons := []discordgo.MessageComponent{
		discordgo.Button{
			Label:    "Let it go",
			Style:    discordgo.SecondaryButton,
			CustomID: "coup-allow",
		},
	}
	if blockAllowed && sess.Pending != nil && sess.Pending.Action.Blockable() {
		buttons = append(buttons, discordgo.Button{
			Label:    "Block",
			Style:    discordgo.PrimaryButton,
			CustomID: "coup-block",
		})
	}
	challengeable := sess.Phase == coup.PhaseAwaitingChallengeOnBlock ||
		(sess.Pending != nil && sess.Pending.Action.Challengeable())
	if challengeable {
		buttons = append(buttons, discordgo.Button{
			Label:    "Challenge",
			Style:    discordgo.DangerButton,
			CustomID: "coup-challenge",
		})
	}
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}}
}

func slotSelect(sess *coup.Session, playerID, customID, placeholder string) []discordgo.MessageComponent {
	p := sess.PlayerByID(playerID)
	if p == nil {
		return nil
	}
	options := make([]discordgo.SelectMenuOption, 0, len(p.Influences))
	for _, slot := range p.ActiveSlots() {
		options = append(options, discordgo.SelectMenuOption{
			Label: roleTitle(p.Influences[slot].Role),
			Value: strconv.Itoa(slot),
		})
	}
	if len(options) == 0 {
		return nil
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					CustomID:    customID,
					Placeholder: placeholder,
					Options:     options,
				},
			},
		},
	}
}

// renderCoupEvents turns engine events into channel lines and private DMs.
// Private hands (exchange draws) never appear in the public channel.
func renderCoupEvents(events []coup.Event) (lines []string, dms map[string]string) {
	dms = make(map[string]string)
	for _, ev := range events {
		switch ev.Type {
		case coup.EventGameBegan:
			lines = append(lines, "The game has begun! Everyone holds 2 influences and 2 coins.")
		case coup.EventTurnStarted:
			lines = append(lines, fmt.Sprintf("It is %s's turn.", mention(ev.PlayerID)))
		case coup.EventActionDeclared:
			if ev.TargetID != "" {
				lines = append(lines, fmt.Sprintf("%s declares **%s** targeting %s.", mention(ev.PlayerID), ev.Action, mention(ev.TargetID)))
			} else {
				lines = append(lines, fmt.Sprintf("%s declares **%s**.", mention(ev.PlayerID), ev.Action))
			}
		case coup.EventDecisionWindow:
			lines = append(lines, fmt.Sprintf("Block, challenge, or let it go. %d player(s) must let it go for the action to proceed.", ev.Amount))
		case coup.EventBlockDeclared:
			roles := make([]string, 0, len(ev.Roles))
			for _, r := range ev.Roles {
				roles = append(roles, roleTitle(r))
			}
			lines = append(lines, fmt.Sprintf("%s blocks, claiming %s. Challenge or let it go.", mention(ev.PlayerID), strings.Join(roles, " or ")))
		case coup.EventChallengeResolved:
			if ev.ClaimTrue {
				lines = append(lines, fmt.Sprintf("%s challenged %s and was wrong! The claim was true: **%s** was revealed and shuffled back.",
					mention(ev.PlayerID), mention(ev.TargetID), roleTitle(ev.Role)))
			} else {
				lines = append(lines, fmt.Sprintf("%s challenged %s and was right! The claim was a bluff.",
					mention(ev.PlayerID), mention(ev.TargetID)))
			}
		case coup.EventAwaitingDismissal:
			lines = append(lines, fmt.Sprintf("%s must dismiss an influence.", mention(ev.PlayerID)))
		case coup.EventInfluenceDismissed:
			lines = append(lines, fmt.Sprintf("%s dismisses **%s**.", mention(ev.PlayerID), roleTitle(ev.Role)))
		case coup.EventPlayerEliminated:
			lines = append(lines, fmt.Sprintf("%s is out of the game!", mention(ev.PlayerID)))
		case coup.EventActionResolved:
			lines = append(lines, resolvedActionLine(ev))
		case coup.EventActionBlocked:
			lines = append(lines, fmt.Sprintf("The block stands. %s's **%s** does not happen.", mention(ev.PlayerID), ev.Action))
		case coup.EventActionAborted:
			lines = append(lines, fmt.Sprintf("%s's **%s** no longer has a valid target and is cancelled.", mention(ev.PlayerID), ev.Action))
		case coup.EventExchangeDrawn:
			lines = append(lines, fmt.Sprintf("%s draws from the deck for an exchange and must return card(s).", mention(ev.PlayerID)))
			hand := make([]string, 0, len(ev.Roles))
			for _, r := range ev.Roles {
				hand = append(hand, roleTitle(r))
			}
			dms[ev.PlayerID] = "Your hand for the exchange: " + strings.Join(hand, ", ")
		case coup.EventExchangeCompleted:
			lines = append(lines, fmt.Sprintf("%s completes the exchange.", mention(ev.PlayerID)))
		case coup.EventGameEnded:
			if ev.PlayerID != "" {
				lines = append(lines, fmt.Sprintf("The game is over. %s wins!", mention(ev.PlayerID)))
			} else {
				lines = append(lines, "The game is over.")
			}
		}
	}
	return lines, dms
}

func resolvedActionLine(ev coup.Event) string {
	switch ev.Action {
	case coup.ActionIncome:
		return fmt.Sprintf("%s takes income (+1 coin).", mention(ev.PlayerID))
	case coup.ActionForeignAid:
		return fmt.Sprintf("%s takes foreign aid (+2 coins).", mention(ev.PlayerID))
	case coup.ActionTax:
		return fmt.Sprintf("%s collects tax (+3 coins).", mention(ev.PlayerID))
	case coup.ActionSteal:
		return fmt.Sprintf("%s steals %d coin(s) from %s.", mention(ev.PlayerID), ev.Amount, mention(ev.TargetID))
	case coup.ActionAssassinate:
		return fmt.Sprintf("%s's assassination of %s goes through.", mention(ev.PlayerID), mention(ev.TargetID))
	case coup.ActionCoup:
		return fmt.Sprintf("%s launches a coup against %s.", mention(ev.PlayerID), mention(ev.TargetID))
	default:
		return fmt.Sprintf("%s's **%s** resolves.", mention(ev.PlayerID), ev.Action)
	}
}
