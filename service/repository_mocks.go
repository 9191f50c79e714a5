package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"raffler/esi"
	"raffler/models"
)

// MockRaffleRepository is a mock implementation of RaffleRepository
type MockRaffleRepository struct {
	mock.Mock
}

func (m *MockRaffleRepository) Create(ctx context.Context, raffle *models.Raffle) error {
	args := m.Called(ctx, raffle)
	return args.Error(0)
}

func (m *MockRaffleRepository) GetByRaffleID(ctx context.Context, raffleID string) (*models.Raffle, error) {
	args := m.Called(ctx, raffleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Raffle), args.Error(1)
}

func (m *MockRaffleRepository) UpdateStatus(ctx context.Context, raffleID string, status models.RaffleStatus) (bool, error) {
	args := m.Called(ctx, raffleID, status)
	return args.Bool(0), args.Error(1)
}

func (m *MockRaffleRepository) UpdateResult(ctx context.Context, raffleID string, result models.RaffleResult) (bool, error) {
	args := m.Called(ctx, raffleID, result)
	return args.Bool(0), args.Error(1)
}

// MockCharacterRepository is a mock implementation of CharacterRepository
type MockCharacterRepository struct {
	mock.Mock
}

func (m *MockCharacterRepository) GetAll(ctx context.Context) ([]*models.Character, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Character), args.Error(1)
}

func (m *MockCharacterRepository) GetByCharacterID(ctx context.Context, characterID int32) (*models.Character, error) {
	args := m.Called(ctx, characterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Character), args.Error(1)
}

func (m *MockCharacterRepository) Upsert(ctx context.Context, character *models.Character) error {
	args := m.Called(ctx, character)
	return args.Error(0)
}

// MockNotificationChannelRepository is a mock implementation of NotificationChannelRepository
type MockNotificationChannelRepository struct {
	mock.Mock
}

func (m *MockNotificationChannelRepository) GetByDiscordUserID(ctx context.Context, discordUserID int64) (*models.NotificationChannel, error) {
	args := m.Called(ctx, discordUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NotificationChannel), args.Error(1)
}

func (m *MockNotificationChannelRepository) Upsert(ctx context.Context, channel *models.NotificationChannel) error {
	args := m.Called(ctx, channel)
	return args.Error(0)
}

// MockAuthRequestRepository is a mock implementation of AuthRequestRepository
type MockAuthRequestRepository struct {
	mock.Mock
}

func (m *MockAuthRequestRepository) Create(ctx context.Context, request *models.AuthRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockAuthRequestRepository) Delete(ctx context.Context, state string, discordUserID int64) (bool, error) {
	args := m.Called(ctx, state, discordUserID)
	return args.Bool(0), args.Error(1)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	raffleRepo              *MockRaffleRepository
	characterRepo           *MockCharacterRepository
	notificationChannelRepo *MockNotificationChannelRepository
	authRequestRepo         *MockAuthRequestRepository
}

// SetRepositories wires the repository mocks returned by this unit of work
func (m *MockUnitOfWork) SetRepositories(raffleRepo *MockRaffleRepository, characterRepo *MockCharacterRepository, notificationChannelRepo *MockNotificationChannelRepository, authRequestRepo *MockAuthRequestRepository) {
	m.raffleRepo = raffleRepo
	m.characterRepo = characterRepo
	m.notificationChannelRepo = notificationChannelRepo
	m.authRequestRepo = authRequestRepo
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) RaffleRepository() RaffleRepository {
	return m.raffleRepo
}

func (m *MockUnitOfWork) CharacterRepository() CharacterRepository {
	return m.characterRepo
}

func (m *MockUnitOfWork) NotificationChannelRepository() NotificationChannelRepository {
	return m.notificationChannelRepo
}

func (m *MockUnitOfWork) AuthRequestRepository() AuthRequestRepository {
	return m.authRequestRepo
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}

// MockEventFeed is a mock implementation of EventFeed
type MockEventFeed struct {
	mock.Mock
}

func (m *MockEventFeed) CharacterNotifications(ctx context.Context, accessToken string, characterID int32) ([]esi.Notification, error) {
	args := m.Called(ctx, accessToken, characterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]esi.Notification), args.Error(1)
}

// MockMarketClient is a mock implementation of MarketClient
type MockMarketClient struct {
	mock.Mock
}

func (m *MockMarketClient) RegionOrders(ctx context.Context, regionID int32, typeID int32) ([]esi.MarketOrder, error) {
	args := m.Called(ctx, regionID, typeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]esi.MarketOrder), args.Error(1)
}

func (m *MockMarketClient) MarketPrices(ctx context.Context) ([]esi.MarketPrice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]esi.MarketPrice), args.Error(1)
}

func (m *MockMarketClient) TypeName(ctx context.Context, typeID int32) (string, error) {
	args := m.Called(ctx, typeID)
	return args.String(0), args.Error(1)
}

// MockTokenSource is a mock implementation of TokenSource
type MockTokenSource struct {
	mock.Mock
}

func (m *MockTokenSource) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

// MockMarketWindowOpener is a mock implementation of MarketWindowOpener
type MockMarketWindowOpener struct {
	mock.Mock
}

func (m *MockMarketWindowOpener) OpenMarketWindow(ctx context.Context, accessToken string, typeID int32) error {
	args := m.Called(ctx, accessToken, typeID)
	return args.Error(0)
}

// MockSSOClient is a mock implementation of SSOClient
type MockSSOClient struct {
	mock.Mock
}

func (m *MockSSOClient) AuthorizeURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockSSOClient) ExchangeCode(ctx context.Context, code string) (*esi.Tokens, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*esi.Tokens), args.Error(1)
}

// MockAlertDispatcher is a mock implementation of AlertDispatcher
type MockAlertDispatcher struct {
	mock.Mock
}

func (m *MockAlertDispatcher) DispatchRaffleAlert(ctx context.Context, alert *RaffleAlert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}
