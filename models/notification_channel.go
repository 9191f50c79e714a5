package models

// NotificationChannel is a per-user delivery preference for raffle alerts.
// A nil ChannelID means the user wants direct messages.
type NotificationChannel struct {
	DiscordUserID int64  `db:"discord_user_id"`
	ChannelID     *int64 `db:"channel_id"`
}
