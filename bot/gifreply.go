package bot

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// gifTriggers maps chat phrases to gif search queries. A message matches when
// it starts with the phrase (after lowercasing).
var gifTriggers = map[string]string{
	"fistbump":  "fist bump",
	"fist bump": "fist bump",
	"highfive":  "high five",
	"high five": "high five",
	"facepalm":  "facepalm",
	"shrug":     "shrug",
	"gg":        "good game",
}

// gifQueryFor returns the search query for a message, or "" when the message
// is not a trigger.
func gifQueryFor(content string) string {
	content = strings.ToLower(strings.TrimSpace(content))
	if content == "" {
		return ""
	}
	for phrase, query := range gifTriggers {
		if content == phrase || strings.HasPrefix(content, phrase+" ") {
			return query
		}
	}
	return ""
}

// handleGifTrigger replies with a gif when a chat message matches a trigger
// phrase. Failures are silent; a missing gif is not worth an error message.
func (b *Bot) handleGifTrigger(s *discordgo.Session, m *discordgo.MessageCreate) {
	if b.gifs == nil {
		return
	}
	query := gifQueryFor(m.Content)
	if query == "" {
		return
	}
	url, err := b.gifs.Search(context.Background(), query)
	if err != nil {
		b.log.WithField("tag", "gifs").Debugln("Gif lookup failed:", err)
		return
	}
	if _, err := s.ChannelMessageSend(m.ChannelID, url); err != nil {
		b.log.WithField("tag", "gifs").Errorln("Error sending gif reply:", err)
	}
}
