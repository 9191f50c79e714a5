package service

import (
	"context"
	"fmt"

	"raffler/models"
)

type raffleService struct {
	uowFactory UnitOfWorkFactory
	tokens     TokenSource
	market     MarketWindowOpener
}

// NewRaffleService creates the service backing raffle button interactions
func NewRaffleService(uowFactory UnitOfWorkFactory, tokens TokenSource, market MarketWindowOpener) RaffleService {
	return &raffleService{
		uowFactory: uowFactory,
		tokens:     tokens,
		market:     market,
	}
}

func (s *raffleService) RecordOutcome(ctx context.Context, raffleID string, actorDiscordID int64, result models.RaffleResult) (*models.Raffle, error) {
	if result != models.RaffleResultWinner && result != models.RaffleResultLoser {
		return nil, fmt.Errorf("invalid raffle result %q", result)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	raffle, err := s.ownedRaffle(ctx, uow, raffleID, actorDiscordID)
	if err != nil {
		return nil, err
	}

	if raffle.Status != models.RaffleStatusFinished {
		return nil, ErrRaffleNotFinished
	}
	if raffle.Result != models.RaffleResultNone {
		return nil, ErrResultAlreadySet
	}

	updated, err := uow.RaffleRepository().UpdateResult(ctx, raffleID, result)
	if err != nil {
		return nil, fmt.Errorf("failed to record result of raffle %s: %w", raffleID, err)
	}
	if !updated {
		// Lost the race against a concurrent activation
		return nil, ErrResultAlreadySet
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit result: %w", err)
	}

	raffle.Result = result
	return raffle, nil
}

func (s *raffleService) OpenMarket(ctx context.Context, raffleID string, actorDiscordID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	raffle, err := s.ownedRaffle(ctx, uow, raffleID, actorDiscordID)
	if err != nil {
		return err
	}

	character, err := uow.CharacterRepository().GetByCharacterID(ctx, raffle.CharacterID)
	if err != nil {
		return fmt.Errorf("failed to get character %d: %w", raffle.CharacterID, err)
	}

	accessToken, err := s.tokens.RefreshAccessToken(ctx, character.RefreshToken)
	if err != nil {
		return fmt.Errorf("failed to refresh access token: %w", err)
	}

	if err := s.market.OpenMarketWindow(ctx, accessToken, raffle.TypeID); err != nil {
		return fmt.Errorf("failed to open market window: %w", err)
	}

	return nil
}

// ownedRaffle loads a raffle and verifies the actor is the Discord user
// linked to the announcing character
func (s *raffleService) ownedRaffle(ctx context.Context, uow UnitOfWork, raffleID string, actorDiscordID int64) (*models.Raffle, error) {
	raffle, err := uow.RaffleRepository().GetByRaffleID(ctx, raffleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get raffle %s: %w", raffleID, err)
	}
	if raffle == nil {
		return nil, ErrRaffleNotFound
	}

	character, err := uow.CharacterRepository().GetByCharacterID(ctx, raffle.CharacterID)
	if err != nil {
		return nil, fmt.Errorf("failed to get character %d: %w", raffle.CharacterID, err)
	}
	if character == nil || character.DiscordUserID != actorDiscordID {
		return nil, ErrNotOwner
	}

	return raffle, nil
}
