package repository

import (
	"context"
	"fmt"

	"raffler/database"
	"raffler/models"
)

// AuthRequestRepository implements the AuthRequestRepository interface
type AuthRequestRepository struct {
	q queryable
}

// NewAuthRequestRepository creates a new auth request repository
func NewAuthRequestRepository(db *database.DB) *AuthRequestRepository {
	return &AuthRequestRepository{q: db.Pool}
}

// newAuthRequestRepositoryWithTx creates a new auth request repository with a transaction
func newAuthRequestRepositoryWithTx(tx queryable) *AuthRequestRepository {
	return &AuthRequestRepository{q: tx}
}

// Create stores a pending authorization request
func (r *AuthRequestRepository) Create(ctx context.Context, request *models.AuthRequest) error {
	query := `
		INSERT INTO auth_requests (state, discord_user_id, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.q.Exec(ctx, query, request.State, request.DiscordUserID, request.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create auth request for user %d: %w", request.DiscordUserID, err)
	}

	return nil
}

// Delete removes a pending authorization request. Returns false when no
// matching request exists, which marks the callback state as unknown.
func (r *AuthRequestRepository) Delete(ctx context.Context, state string, discordUserID int64) (bool, error) {
	query := `
		DELETE FROM auth_requests
		WHERE state = $1 AND discord_user_id = $2
	`

	result, err := r.q.Exec(ctx, query, state, discordUserID)
	if err != nil {
		return false, fmt.Errorf("failed to delete auth request for user %d: %w", discordUserID, err)
	}

	return result.RowsAffected() > 0, nil
}
