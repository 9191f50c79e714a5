package bot

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"raffler/models"
	"raffler/service"
)

// AlertDispatcher delivers raffle alerts over Discord, to a configured
// channel or to the owner's DMs
type AlertDispatcher struct {
	session *discordgo.Session
}

// NewAlertDispatcher creates a dispatcher on an open Discord session
func NewAlertDispatcher(session *discordgo.Session) *AlertDispatcher {
	return &AlertDispatcher{session: session}
}

// DispatchRaffleAlert sends the lifecycle alert. Finished alerts carry the
// outcome buttons; expired alerts are informational only.
func (d *AlertDispatcher) DispatchRaffleAlert(ctx context.Context, alert *service.RaffleAlert) error {
	channelID, err := d.resolveChannel(alert)
	if err != nil {
		return err
	}

	message := &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{BuildRaffleAlertEmbed(alert)},
	}
	if alert.NewStatus == models.RaffleStatusFinished {
		message.Components = BuildRaffleOutcomeComponents(alert.Raffle.RaffleID)
	}

	if _, err := d.session.ChannelMessageSendComplex(channelID, message, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send raffle alert to channel %s: %w", channelID, err)
	}

	return nil
}

// resolveChannel returns the target channel, creating a DM channel when no
// guild channel is configured
func (d *AlertDispatcher) resolveChannel(alert *service.RaffleAlert) (string, error) {
	if alert.ChannelID != nil {
		return strconv.FormatInt(*alert.ChannelID, 10), nil
	}

	dm, err := d.session.UserChannelCreate(strconv.FormatInt(alert.DiscordUserID, 10))
	if err != nil {
		return "", fmt.Errorf("failed to open DM channel for user %d: %w", alert.DiscordUserID, err)
	}
	return dm.ID, nil
}
