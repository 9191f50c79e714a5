package service

import (
	"context"
	"testing"

	"raffler/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func finishedRaffle(characterID int32) *models.Raffle {
	return &models.Raffle{
		RaffleID:    "3037519_9",
		OwnerID:     characterID,
		CharacterID: characterID,
		TypeID:      587,
		TicketCount: 8,
		TicketPrice: 10307323.0,
		Status:      models.RaffleStatusFinished,
		Result:      models.RaffleResultNone,
	}
}

func raffleServiceMocks() (*MockUnitOfWorkFactory, *MockUnitOfWork, *MockRaffleRepository, *MockCharacterRepository) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockRaffleRepo := new(MockRaffleRepository)
	mockCharacterRepo := new(MockCharacterRepository)

	mockUoW.SetRepositories(mockRaffleRepo, mockCharacterRepo, nil, nil)
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", context.Background()).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	return mockFactory, mockUoW, mockRaffleRepo, mockCharacterRepo
}

func TestRaffleService_RecordOutcome_Success(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockRaffleRepo, mockCharacterRepo := raffleServiceMocks()
	mockUoW.On("Commit").Return(nil)

	raffle := finishedRaffle(90000001)
	owner := &models.Character{CharacterID: 90000001, DiscordUserID: 123456789}

	mockRaffleRepo.On("GetByRaffleID", ctx, raffle.RaffleID).Return(raffle, nil)
	mockCharacterRepo.On("GetByCharacterID", ctx, int32(90000001)).Return(owner, nil)
	mockRaffleRepo.On("UpdateResult", ctx, raffle.RaffleID, models.RaffleResultWinner).Return(true, nil)

	service := NewRaffleService(mockFactory, nil, nil)

	updated, err := service.RecordOutcome(ctx, raffle.RaffleID, 123456789, models.RaffleResultWinner)
	require.NoError(t, err)
	assert.Equal(t, models.RaffleResultWinner, updated.Result)

	mockRaffleRepo.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
}

func TestRaffleService_RecordOutcome_NotOwner(t *testing.T) {
	ctx := context.Background()
	mockFactory, _, mockRaffleRepo, mockCharacterRepo := raffleServiceMocks()

	raffle := finishedRaffle(90000001)
	owner := &models.Character{CharacterID: 90000001, DiscordUserID: 123456789}

	mockRaffleRepo.On("GetByRaffleID", ctx, raffle.RaffleID).Return(raffle, nil)
	mockCharacterRepo.On("GetByCharacterID", ctx, int32(90000001)).Return(owner, nil)

	service := NewRaffleService(mockFactory, nil, nil)

	_, err := service.RecordOutcome(ctx, raffle.RaffleID, 999999999, models.RaffleResultWinner)
	assert.ErrorIs(t, err, ErrNotOwner)

	mockRaffleRepo.AssertNotCalled(t, "UpdateResult")
}

func TestRaffleService_RecordOutcome_UnknownRaffle(t *testing.T) {
	ctx := context.Background()
	mockFactory, _, mockRaffleRepo, _ := raffleServiceMocks()

	mockRaffleRepo.On("GetByRaffleID", ctx, "no_such_raffle").Return(nil, nil)

	service := NewRaffleService(mockFactory, nil, nil)

	_, err := service.RecordOutcome(ctx, "no_such_raffle", 123456789, models.RaffleResultLoser)
	assert.ErrorIs(t, err, ErrRaffleNotFound)
}

func TestRaffleService_RecordOutcome_NotFinished(t *testing.T) {
	ctx := context.Background()
	mockFactory, _, mockRaffleRepo, mockCharacterRepo := raffleServiceMocks()

	raffle := finishedRaffle(90000001)
	raffle.Status = models.RaffleStatusCreated
	owner := &models.Character{CharacterID: 90000001, DiscordUserID: 123456789}

	mockRaffleRepo.On("GetByRaffleID", ctx, raffle.RaffleID).Return(raffle, nil)
	mockCharacterRepo.On("GetByCharacterID", ctx, int32(90000001)).Return(owner, nil)

	service := NewRaffleService(mockFactory, nil, nil)

	_, err := service.RecordOutcome(ctx, raffle.RaffleID, 123456789, models.RaffleResultWinner)
	assert.ErrorIs(t, err, ErrRaffleNotFinished)

	mockRaffleRepo.AssertNotCalled(t, "UpdateResult")
}

func TestRaffleService_RecordOutcome_AlreadySet(t *testing.T) {
	ctx := context.Background()
	mockFactory, _, mockRaffleRepo, mockCharacterRepo := raffleServiceMocks()

	raffle := finishedRaffle(90000001)
	raffle.Result = models.RaffleResultLoser
	owner := &models.Character{CharacterID: 90000001, DiscordUserID: 123456789}

	mockRaffleRepo.On("GetByRaffleID", ctx, raffle.RaffleID).Return(raffle, nil)
	mockCharacterRepo.On("GetByCharacterID", ctx, int32(90000001)).Return(owner, nil)

	service := NewRaffleService(mockFactory, nil, nil)

	_, err := service.RecordOutcome(ctx, raffle.RaffleID, 123456789, models.RaffleResultWinner)
	assert.ErrorIs(t, err, ErrResultAlreadySet)

	mockRaffleRepo.AssertNotCalled(t, "UpdateResult")
}

func TestRaffleService_RecordOutcome_LosesUpdateRace(t *testing.T) {
	ctx := context.Background()
	mockFactory, _, mockRaffleRepo, mockCharacterRepo := raffleServiceMocks()

	raffle := finishedRaffle(90000001)
	owner := &models.Character{CharacterID: 90000001, DiscordUserID: 123456789}

	mockRaffleRepo.On("GetByRaffleID", ctx, raffle.RaffleID).Return(raffle, nil)
	mockCharacterRepo.On("GetByCharacterID", ctx, int32(90000001)).Return(owner, nil)
	mockRaffleRepo.On("UpdateResult", ctx, raffle.RaffleID, models.RaffleResultWinner).Return(false, nil)

	service := NewRaffleService(mockFactory, nil, nil)

	_, err := service.RecordOutcome(ctx, raffle.RaffleID, 123456789, models.RaffleResultWinner)
	assert.ErrorIs(t, err, ErrResultAlreadySet)
}

func TestRaffleService_RecordOutcome_InvalidResult(t *testing.T) {
	service := NewRaffleService(new(MockUnitOfWorkFactory), nil, nil)

	_, err := service.RecordOutcome(context.Background(), "3037519_9", 123456789, models.RaffleResultNone)
	assert.Error(t, err)
}

func TestRaffleService_OpenMarket(t *testing.T) {
	ctx := context.Background()
	mockFactory, _, mockRaffleRepo, mockCharacterRepo := raffleServiceMocks()
	mockTokens := new(MockTokenSource)
	mockMarket := new(MockMarketWindowOpener)

	raffle := finishedRaffle(90000001)
	owner := &models.Character{CharacterID: 90000001, DiscordUserID: 123456789, RefreshToken: "refresh-token"}

	mockRaffleRepo.On("GetByRaffleID", ctx, raffle.RaffleID).Return(raffle, nil)
	mockCharacterRepo.On("GetByCharacterID", ctx, int32(90000001)).Return(owner, nil)
	mockTokens.On("RefreshAccessToken", ctx, "refresh-token").Return("access-token", nil)
	mockMarket.On("OpenMarketWindow", ctx, "access-token", int32(587)).Return(nil)

	service := NewRaffleService(mockFactory, mockTokens, mockMarket)

	err := service.OpenMarket(ctx, raffle.RaffleID, 123456789)
	require.NoError(t, err)

	mockMarket.AssertExpectations(t)
}

func TestRaffleService_OpenMarket_NotOwner(t *testing.T) {
	ctx := context.Background()
	mockFactory, _, mockRaffleRepo, mockCharacterRepo := raffleServiceMocks()
	mockMarket := new(MockMarketWindowOpener)

	raffle := finishedRaffle(90000001)
	owner := &models.Character{CharacterID: 90000001, DiscordUserID: 123456789}

	mockRaffleRepo.On("GetByRaffleID", ctx, raffle.RaffleID).Return(raffle, nil)
	mockCharacterRepo.On("GetByCharacterID", ctx, int32(90000001)).Return(owner, nil)

	service := NewRaffleService(mockFactory, new(MockTokenSource), mockMarket)

	err := service.OpenMarket(ctx, raffle.RaffleID, 999999999)
	assert.ErrorIs(t, err, ErrNotOwner)

	mockMarket.AssertNotCalled(t, "OpenMarketWindow")
}
