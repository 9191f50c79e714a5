package repository

import (
	"context"
	"fmt"

	"raffler/database"
	"raffler/models"

	"github.com/jackc/pgx/v5"
)

// RaffleRepository implements the RaffleRepository interface
type RaffleRepository struct {
	q queryable
}

// NewRaffleRepository creates a new raffle repository
func NewRaffleRepository(db *database.DB) *RaffleRepository {
	return &RaffleRepository{q: db.Pool}
}

// newRaffleRepositoryWithTx creates a new raffle repository with a transaction
func newRaffleRepositoryWithTx(tx queryable) *RaffleRepository {
	return &RaffleRepository{q: tx}
}

// Create records a raffle the first time it is seen. A raffle that already
// exists is left untouched so replayed announcements cannot reset its state.
func (r *RaffleRepository) Create(ctx context.Context, raffle *models.Raffle) error {
	query := `
		INSERT INTO raffles (
			raffle_id, owner_id, character_id, location_id, type_id,
			ticket_count, ticket_price, status, result,
			sell_price, buy_price, core_sell_price, core_buy_price, plex_price,
			created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (raffle_id) DO NOTHING
	`

	_, err := r.q.Exec(ctx, query,
		raffle.RaffleID,
		raffle.OwnerID,
		raffle.CharacterID,
		raffle.LocationID,
		raffle.TypeID,
		raffle.TicketCount,
		raffle.TicketPrice,
		raffle.Status,
		raffle.Result,
		raffle.SellPrice,
		raffle.BuyPrice,
		raffle.CoreSellPrice,
		raffle.CoreBuyPrice,
		raffle.PlexPrice,
		raffle.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create raffle %s: %w", raffle.RaffleID, err)
	}

	return nil
}

// GetByRaffleID retrieves a raffle by its hypernet ID
func (r *RaffleRepository) GetByRaffleID(ctx context.Context, raffleID string) (*models.Raffle, error) {
	query := `
		SELECT raffle_id, owner_id, character_id, location_id, type_id,
		       ticket_count, ticket_price, status, result,
		       sell_price, buy_price, core_sell_price, core_buy_price, plex_price,
		       created_at
		FROM raffles
		WHERE raffle_id = $1
	`

	var raffle models.Raffle
	err := r.q.QueryRow(ctx, query, raffleID).Scan(
		&raffle.RaffleID,
		&raffle.OwnerID,
		&raffle.CharacterID,
		&raffle.LocationID,
		&raffle.TypeID,
		&raffle.TicketCount,
		&raffle.TicketPrice,
		&raffle.Status,
		&raffle.Result,
		&raffle.SellPrice,
		&raffle.BuyPrice,
		&raffle.CoreSellPrice,
		&raffle.CoreBuyPrice,
		&raffle.PlexPrice,
		&raffle.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get raffle %s: %w", raffleID, err)
	}

	return &raffle, nil
}

// UpdateStatus moves a raffle from created to a terminal status. The guard on
// the current status makes replayed terminal announcements no-ops; the return
// value reports whether this call performed the transition.
func (r *RaffleRepository) UpdateStatus(ctx context.Context, raffleID string, status models.RaffleStatus) (bool, error) {
	query := `
		UPDATE raffles
		SET status = $2
		WHERE raffle_id = $1 AND status = 'created'
	`

	result, err := r.q.Exec(ctx, query, raffleID, status)
	if err != nil {
		return false, fmt.Errorf("failed to update status for raffle %s: %w", raffleID, err)
	}

	return result.RowsAffected() > 0, nil
}

// UpdateResult records the outcome of a finished raffle exactly once. Returns
// false when the raffle is not finished or already has a result.
func (r *RaffleRepository) UpdateResult(ctx context.Context, raffleID string, result models.RaffleResult) (bool, error) {
	query := `
		UPDATE raffles
		SET result = $2
		WHERE raffle_id = $1 AND status = 'finished' AND result = 'none'
	`

	tag, err := r.q.Exec(ctx, query, raffleID, result)
	if err != nil {
		return false, fmt.Errorf("failed to update result for raffle %s: %w", raffleID, err)
	}

	return tag.RowsAffected() > 0, nil
}
