package bot

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"raffler/service"
)

// Config holds bot configuration
type Config struct {
	Token   string
	GuildID string
}

type Bot struct {
	config        Config
	session       *discordgo.Session
	authService   service.AuthService
	raffleService service.RaffleService
}

func New(config Config, authService service.AuthService, raffleService service.RaffleService) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages

	bot := &Bot{
		config:        config,
		session:       dg,
		authService:   authService,
		raffleService: raffleService,
	}

	// Register slash command handlers
	dg.AddHandler(bot.handleCommands)

	// Register component interaction handlers
	dg.AddHandler(bot.handleRaffleInteractions)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	return bot, nil
}

// Session exposes the underlying Discord session for the alert dispatcher
func (b *Bot) Session() *discordgo.Session {
	return b.session
}

func (b *Bot) Close() error {
	return b.session.Close()
}

// handleRaffleInteractions routes raffle button presses
func (b *Bot) handleRaffleInteractions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	customID := i.MessageComponentData().CustomID
	if strings.HasPrefix(customID, "raffle_") {
		b.handleRaffleInteraction(s, i)
	}
}
