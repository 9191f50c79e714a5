package models

// Character links a Discord user to an authorized EVE character.
// The refresh token is exchanged for a fresh access token on every use.
type Character struct {
	DiscordUserID int64  `db:"discord_user_id"`
	CharacterID   int32  `db:"character_id"`
	CharacterName string `db:"character_name"`
	RefreshToken  string `db:"refresh_token"`
}
