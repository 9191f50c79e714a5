package repository

import (
	"context"
	"fmt"

	"raffler/database"
	"raffler/models"

	"github.com/jackc/pgx/v5"
)

// NotificationChannelRepository implements the NotificationChannelRepository interface
type NotificationChannelRepository struct {
	q queryable
}

// NewNotificationChannelRepository creates a new notification channel repository
func NewNotificationChannelRepository(db *database.DB) *NotificationChannelRepository {
	return &NotificationChannelRepository{q: db.Pool}
}

// newNotificationChannelRepositoryWithTx creates a new notification channel repository with a transaction
func newNotificationChannelRepositoryWithTx(tx queryable) *NotificationChannelRepository {
	return &NotificationChannelRepository{q: tx}
}

// GetByDiscordUserID retrieves the notification destination for a Discord user
func (r *NotificationChannelRepository) GetByDiscordUserID(ctx context.Context, discordUserID int64) (*models.NotificationChannel, error) {
	query := `
		SELECT discord_user_id, channel_id
		FROM notification_channels
		WHERE discord_user_id = $1
	`

	var channel models.NotificationChannel
	err := r.q.QueryRow(ctx, query, discordUserID).Scan(
		&channel.DiscordUserID,
		&channel.ChannelID,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification channel for user %d: %w", discordUserID, err)
	}

	return &channel, nil
}

// Upsert stores the notification destination for a Discord user. A nil
// channel ID means alerts go to the user's DMs.
func (r *NotificationChannelRepository) Upsert(ctx context.Context, channel *models.NotificationChannel) error {
	query := `
		INSERT INTO notification_channels (discord_user_id, channel_id)
		VALUES ($1, $2)
		ON CONFLICT (discord_user_id) DO UPDATE
		SET channel_id = EXCLUDED.channel_id
	`

	_, err := r.q.Exec(ctx, query, channel.DiscordUserID, channel.ChannelID)
	if err != nil {
		return fmt.Errorf("failed to upsert notification channel for user %d: %w", channel.DiscordUserID, err)
	}

	return nil
}
