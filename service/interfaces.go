package service

import (
	"context"

	"raffler/esi"
	"raffler/models"
)

// RaffleRepository defines the interface for raffle data access
type RaffleRepository interface {
	// Create inserts a raffle on first sighting; replayed announcements
	// for an already-known raffle ID are ignored
	Create(ctx context.Context, raffle *models.Raffle) error

	// GetByRaffleID retrieves a raffle by its platform-assigned ID
	GetByRaffleID(ctx context.Context, raffleID string) (*models.Raffle, error)

	// UpdateStatus advances a raffle to a terminal status. The write is
	// guarded so it only applies while the stored status is still created;
	// it returns false when the guard rejected the write.
	UpdateStatus(ctx context.Context, raffleID string, status models.RaffleStatus) (bool, error)

	// UpdateResult records the real-world outcome exactly once. The write
	// only applies while the raffle is finished and the result is unset;
	// it returns false when the guard rejected the write.
	UpdateResult(ctx context.Context, raffleID string, result models.RaffleResult) (bool, error)
}

// CharacterRepository defines the interface for authorized character data access
type CharacterRepository interface {
	// GetAll returns every authorized character
	GetAll(ctx context.Context) ([]*models.Character, error)

	// GetByCharacterID retrieves one character by its EVE character ID
	GetByCharacterID(ctx context.Context, characterID int32) (*models.Character, error)

	// Upsert creates or replaces a character registration
	Upsert(ctx context.Context, character *models.Character) error
}

// NotificationChannelRepository defines the interface for delivery preferences
type NotificationChannelRepository interface {
	// GetByDiscordUserID returns the user's preference, or nil if none is configured
	GetByDiscordUserID(ctx context.Context, discordUserID int64) (*models.NotificationChannel, error)

	// Upsert creates or replaces the user's preference
	Upsert(ctx context.Context, channel *models.NotificationChannel) error
}

// AuthRequestRepository defines the interface for pending OAuth authorizations
type AuthRequestRepository interface {
	// Create records a pending authorization
	Create(ctx context.Context, request *models.AuthRequest) error

	// Delete removes a pending authorization, returning false if no
	// matching request existed
	Delete(ctx context.Context, state string, discordUserID int64) (bool, error)
}

// UnitOfWork provides transactional access to the repositories
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	RaffleRepository() RaffleRepository
	CharacterRepository() CharacterRepository
	NotificationChannelRepository() NotificationChannelRepository
	AuthRequestRepository() AuthRequestRepository
}

// UnitOfWorkFactory creates UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// EventFeed fetches a character's notification stream
type EventFeed interface {
	CharacterNotifications(ctx context.Context, accessToken string, characterID int32) ([]esi.Notification, error)
}

// MarketClient provides market data lookups
type MarketClient interface {
	RegionOrders(ctx context.Context, regionID int32, typeID int32) ([]esi.MarketOrder, error)
	MarketPrices(ctx context.Context) ([]esi.MarketPrice, error)
	TypeName(ctx context.Context, typeID int32) (string, error)
}

// TokenSource exchanges a stored refresh token for a fresh access token
type TokenSource interface {
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, error)
}

// MarketWindowOpener opens the in-game market window for an item type
type MarketWindowOpener interface {
	OpenMarketWindow(ctx context.Context, accessToken string, typeID int32) error
}

// SSOClient is the OAuth surface the auth service needs
type SSOClient interface {
	AuthorizeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*esi.Tokens, error)
}

// RaffleAlert carries everything the dispatcher needs to render one
// lifecycle alert
type RaffleAlert struct {
	Raffle        *models.Raffle
	NewStatus     models.RaffleStatus
	ItemName      string
	Valuation     Valuation
	DiscordUserID int64
	// ChannelID is the configured destination; nil means direct message
	ChannelID *int64
}

// AlertDispatcher delivers a rendered lifecycle alert to Discord
type AlertDispatcher interface {
	DispatchRaffleAlert(ctx context.Context, alert *RaffleAlert) error
}

// CollectorService runs one collection pass over all registered characters
type CollectorService interface {
	Run(ctx context.Context) error
}

// RaffleService handles operator-triggered raffle interactions
type RaffleService interface {
	// RecordOutcome persists the outcome chosen by the raffle owner.
	// It returns ErrNotOwner when the actor is not the linked Discord user,
	// ErrRaffleNotFinished when the raffle has not finished, and
	// ErrResultAlreadySet when an outcome was already recorded.
	RecordOutcome(ctx context.Context, raffleID string, actorDiscordID int64, result models.RaffleResult) (*models.Raffle, error)

	// OpenMarket opens the in-game market window for the raffled item on
	// behalf of the raffle owner
	OpenMarket(ctx context.Context, raffleID string, actorDiscordID int64) error
}

// AuthService handles the OAuth authorization lifecycle and delivery preferences
type AuthService interface {
	// BeginAuthorization records a pending authorization for the user and
	// returns the SSO URL they should visit
	BeginAuthorization(ctx context.Context, discordUserID int64) (string, error)

	// CompleteAuthorization validates the callback state, exchanges the
	// code and stores the character registration
	CompleteAuthorization(ctx context.Context, code, state string) (*models.Character, error)

	// SetNotificationChannel upserts the user's delivery preference;
	// a nil channel means direct messages
	SetNotificationChannel(ctx context.Context, discordUserID int64, channelID *int64) error
}
