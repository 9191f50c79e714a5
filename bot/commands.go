package bot

import (
	"context"
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/bwmarrin/discordgo"
)

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "auth",
			Description: "Link an EVE character to your Discord account",
		},
		{
			Name:        "notification-channel",
			Description: "Choose where raffle alerts are delivered",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionChannel,
					Name:         "channel",
					Description:  "Text channel for alerts (omit for direct messages)",
					ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
					Required:     false,
				},
			},
		},
		{
			Name:        "help",
			Description: "Show what this bot does",
		},
	}

	for _, cmd := range commands {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}

	return nil
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "auth":
		b.handleAuth(s, i)
	case "notification-channel":
		b.handleNotificationChannel(s, i)
	case "help":
		b.handleHelp(s, i)
	}
}

func (b *Bot) handleAuth(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	discordUserID, err := interactionUserID(i)
	if err != nil {
		log.Errorf("Error parsing Discord ID: %v", err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	authURL, err := b.authService.BeginAuthorization(ctx, discordUserID)
	if err != nil {
		log.Errorf("Error starting authorization for user %d: %v", discordUserID, err)
		b.respondWithError(s, i, "Unable to start authorization. Please try again.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Authorization",
		Description: fmt.Sprintf("Click [here](%s) to authorize this bot to access your character information", authURL),
		Color:       ColorNeutral,
	}
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error responding to auth command: %v", err)
	}
}

func (b *Bot) handleNotificationChannel(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	discordUserID, err := interactionUserID(i)
	if err != nil {
		log.Errorf("Error parsing Discord ID: %v", err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	var channelID *int64
	selected := "Private messages"
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name != "channel" {
			continue
		}
		channel := opt.ChannelValue(s)
		if channel == nil {
			continue
		}
		id, err := strconv.ParseInt(channel.ID, 10, 64)
		if err != nil {
			b.respondWithError(s, i, "Invalid channel.")
			return
		}
		channelID = &id
		selected = channel.Mention()
	}

	if err := b.authService.SetNotificationChannel(ctx, discordUserID, channelID); err != nil {
		log.Errorf("Error setting notification channel for user %d: %v", discordUserID, err)
		b.respondWithError(s, i, "Unable to update notification channel. Please try again.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Notification Channel Changed.",
		Description: fmt.Sprintf("Notification channel set to %s", selected),
		Color:       ColorNeutral,
	}
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error responding to notification-channel command: %v", err)
	}
}

func (b *Bot) handleHelp(s *discordgo.Session, i *discordgo.InteractionCreate) {
	embed := &discordgo.MessageEmbed{
		Title: "Hypernet Raffle Tracker",
		Description: "Tracks your hypernet raffles and alerts you when they expire or finish.\n\n" +
			"**/auth** - link an EVE character so the bot can read its notifications\n" +
			"**/notification-channel** - pick a channel for alerts, or omit for DMs\n\n" +
			"Finished raffle alerts carry Won/Lost buttons so the real outcome can be recorded.",
		Color: ColorNeutral,
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error responding to help command: %v", err)
	}
}
