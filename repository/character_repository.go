package repository

import (
	"context"
	"fmt"

	"raffler/database"
	"raffler/models"

	"github.com/jackc/pgx/v5"
)

// CharacterRepository implements the CharacterRepository interface
type CharacterRepository struct {
	q queryable
}

// NewCharacterRepository creates a new character repository
func NewCharacterRepository(db *database.DB) *CharacterRepository {
	return &CharacterRepository{q: db.Pool}
}

// newCharacterRepositoryWithTx creates a new character repository with a transaction
func newCharacterRepositoryWithTx(tx queryable) *CharacterRepository {
	return &CharacterRepository{q: tx}
}

// GetAll returns all authorized characters
func (r *CharacterRepository) GetAll(ctx context.Context) ([]*models.Character, error) {
	query := `
		SELECT character_id, discord_user_id, character_name, refresh_token
		FROM characters
		ORDER BY character_id
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get characters: %w", err)
	}
	defer rows.Close()

	var characters []*models.Character
	for rows.Next() {
		var character models.Character
		err := rows.Scan(
			&character.CharacterID,
			&character.DiscordUserID,
			&character.CharacterName,
			&character.RefreshToken,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan character: %w", err)
		}
		characters = append(characters, &character)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate characters: %w", err)
	}

	return characters, nil
}

// GetByCharacterID retrieves a character by its EVE character ID
func (r *CharacterRepository) GetByCharacterID(ctx context.Context, characterID int32) (*models.Character, error) {
	query := `
		SELECT character_id, discord_user_id, character_name, refresh_token
		FROM characters
		WHERE character_id = $1
	`

	var character models.Character
	err := r.q.QueryRow(ctx, query, characterID).Scan(
		&character.CharacterID,
		&character.DiscordUserID,
		&character.CharacterName,
		&character.RefreshToken,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get character %d: %w", characterID, err)
	}

	return &character, nil
}

// Upsert stores a character, replacing the owner and refresh token when the
// character was authorized before
func (r *CharacterRepository) Upsert(ctx context.Context, character *models.Character) error {
	query := `
		INSERT INTO characters (character_id, discord_user_id, character_name, refresh_token)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (character_id) DO UPDATE
		SET discord_user_id = EXCLUDED.discord_user_id,
		    character_name = EXCLUDED.character_name,
		    refresh_token = EXCLUDED.refresh_token
	`

	_, err := r.q.Exec(ctx, query,
		character.CharacterID,
		character.DiscordUserID,
		character.CharacterName,
		character.RefreshToken,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert character %d: %w", character.CharacterID, err)
	}

	return nil
}
