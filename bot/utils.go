package bot

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/bwmarrin/discordgo"
)

// FormatISK formats an ISK amount rounded to whole units with dot-separated
// thousands, e.g. 1234567.8 -> "1.234.568"
func FormatISK(amount float64) string {
	return groupWithDots(strconv.FormatInt(int64(math.Round(amount)), 10))
}

// FormatCount formats an integer with dot-separated thousands
func FormatCount(count int64) string {
	return groupWithDots(strconv.FormatInt(count, 10))
}

func groupWithDots(str string) string {
	negative := strings.HasPrefix(str, "-")
	if negative {
		str = str[1:]
	}

	n := len(str)
	var result strings.Builder
	if negative {
		result.WriteRune('-')
	}
	for i, digit := range str {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune('.')
		}
		result.WriteRune(digit)
	}

	return result.String()
}

// interactionUserID extracts the acting user's ID, whether the interaction
// came from a guild or a direct message
func interactionUserID(i *discordgo.InteractionCreate) (int64, error) {
	var user *discordgo.User
	if i.Member != nil {
		user = i.Member.User
	} else {
		user = i.User
	}
	if user == nil {
		return 0, fmt.Errorf("interaction has no user")
	}
	return strconv.ParseInt(user.ID, 10, 64)
}

func (b *Bot) respondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}
