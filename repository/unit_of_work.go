package repository

import (
	"context"
	"fmt"

	"raffler/database"
	"raffler/service"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db                      *database.DB
	tx                      pgx.Tx
	ctx                     context.Context
	raffleRepo              service.RaffleRepository
	characterRepo           service.CharacterRepository
	notificationChannelRepo service.NotificationChannelRepository
	authRequestRepo         service.AuthRequestRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{db: db}
}

type unitOfWorkFactory struct {
	db *database.DB
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{db: f.db}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories with the transaction
	u.raffleRepo = newRaffleRepositoryWithTx(tx)
	u.characterRepo = newCharacterRepositoryWithTx(tx)
	u.notificationChannelRepo = newNotificationChannelRepositoryWithTx(tx)
	u.authRequestRepo = newAuthRequestRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	return nil
}

// RaffleRepository returns the raffle repository for this unit of work
func (u *unitOfWork) RaffleRepository() service.RaffleRepository {
	if u.raffleRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.raffleRepo
}

// CharacterRepository returns the character repository for this unit of work
func (u *unitOfWork) CharacterRepository() service.CharacterRepository {
	if u.characterRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.characterRepo
}

// NotificationChannelRepository returns the notification channel repository for this unit of work
func (u *unitOfWork) NotificationChannelRepository() service.NotificationChannelRepository {
	if u.notificationChannelRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.notificationChannelRepo
}

// AuthRequestRepository returns the auth request repository for this unit of work
func (u *unitOfWork) AuthRequestRepository() service.AuthRequestRepository {
	if u.authRequestRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.authRequestRepo
}
