package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"raffler/bot"
	"raffler/config"
	"raffler/database"
	"raffler/esi"
	"raffler/repository"
	"raffler/scheduler"
	"raffler/service"
	"raffler/web"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting raffler bot...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize ESI client
	esiClient := esi.NewClient(esi.Config{
		ClientID:     cfg.ESIClientID,
		ClientSecret: cfg.ESIClientSecret,
		CallbackURL:  cfg.ESICallbackURL,
		UserAgent:    cfg.ESIUserAgent,
		Scopes:       esi.DefaultScopes,
	})

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db)

	// Initialize services
	log.Println("Initializing services...")
	authService := service.NewAuthService(uowFactory, esiClient)
	raffleService := service.NewRaffleService(uowFactory, esiClient, esiClient)
	log.Println("Services initialized successfully")

	// Initialize Discord bot
	log.Println("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:   cfg.DiscordToken,
		GuildID: cfg.DiscordGuildID,
	}
	discordBot, err := bot.New(botConfig, authService, raffleService)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Println("Discord bot initialized successfully")

	// Initialize the collector and its schedule
	dispatcher := bot.NewAlertDispatcher(discordBot.Session())
	collector := service.NewCollectorService(uowFactory, esiClient, esiClient, esiClient, dispatcher)

	sched := scheduler.New(ctx)
	err = sched.Add(scheduler.Task{
		Name:    "collect-raffles",
		Every:   cfg.CollectInterval,
		Timeout: cfg.CollectTimeout,
		Run:     collector.Run,
	})
	if err != nil {
		return fmt.Errorf("failed to schedule collector: %w", err)
	}
	sched.Start()

	// Start the OAuth callback server
	callbackServer := web.NewServer(authService, cfg.CallbackListenAddr)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- callbackServer.Start()
	}()

	// Wait for context cancellation or a server failure
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			log.Printf("Callback server error: %v", err)
		}
	}

	// Cleanup resources
	log.Println("Shutting down bot...")

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := callbackServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down callback server: %v", err)
	}

	// Close Discord bot connection
	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}

	// Close database connection
	log.Println("Closing database connection...")
	db.Close()

	log.Println("Shutdown completed")

	return nil
}
