package models

import "time"

// AuthRequest is a pending OAuth authorization started by /auth.
// The state is embedded in the authorize URL and validated by the callback.
type AuthRequest struct {
	DiscordUserID int64     `db:"discord_user_id"`
	State         string    `db:"state"`
	CreatedAt     time.Time `db:"created_at"`
}
