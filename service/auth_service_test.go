package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"raffler/esi"
	"raffler/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func authServiceMocks() (*MockUnitOfWorkFactory, *MockUnitOfWork, *MockCharacterRepository, *MockNotificationChannelRepository, *MockAuthRequestRepository) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockCharacterRepo := new(MockCharacterRepository)
	mockChannelRepo := new(MockNotificationChannelRepository)
	mockAuthRepo := new(MockAuthRequestRepository)

	mockUoW.SetRepositories(nil, mockCharacterRepo, mockChannelRepo, mockAuthRepo)
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", context.Background()).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	return mockFactory, mockUoW, mockCharacterRepo, mockChannelRepo, mockAuthRepo
}

func TestAuthService_BeginAuthorization(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, _, _, mockAuthRepo := authServiceMocks()
	mockUoW.On("Commit").Return(nil)

	var storedState string
	mockAuthRepo.On("Create", ctx, mock.MatchedBy(func(r *models.AuthRequest) bool {
		storedState = r.State
		return r.DiscordUserID == 123456789 && r.State != ""
	})).Return(nil)

	mockSSO := new(MockSSOClient)
	mockSSO.On("AuthorizeURL", mock.AnythingOfType("string")).Return("https://login.example/authorize")

	service := NewAuthService(mockFactory, mockSSO)

	url, err := service.BeginAuthorization(ctx, 123456789)
	require.NoError(t, err)
	assert.Equal(t, "https://login.example/authorize", url)

	// The state handed to the SSO carries the Discord user ID as a suffix
	mockSSO.AssertCalled(t, "AuthorizeURL", fmt.Sprintf("%s-%d", storedState, 123456789))
	mockAuthRepo.AssertExpectations(t)
}

func TestAuthService_CompleteAuthorization(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockCharacterRepo, _, mockAuthRepo := authServiceMocks()
	mockUoW.On("Commit").Return(nil)

	tokens := &esi.Tokens{
		AccessToken:   "access-token",
		RefreshToken:  "refresh-token",
		CharacterID:   90000001,
		CharacterName: "Test Pilot",
	}

	mockSSO := new(MockSSOClient)
	mockSSO.On("ExchangeCode", ctx, "auth-code").Return(tokens, nil)
	mockAuthRepo.On("Delete", ctx, "a1b2c3d4", int64(123456789)).Return(true, nil)
	mockCharacterRepo.On("Upsert", ctx, mock.MatchedBy(func(c *models.Character) bool {
		return c.CharacterID == 90000001 &&
			c.DiscordUserID == 123456789 &&
			c.CharacterName == "Test Pilot" &&
			c.RefreshToken == "refresh-token"
	})).Return(nil)

	service := NewAuthService(mockFactory, mockSSO)

	character, err := service.CompleteAuthorization(ctx, "auth-code", "a1b2c3d4-123456789")
	require.NoError(t, err)
	assert.Equal(t, int32(90000001), character.CharacterID)

	mockCharacterRepo.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
}

func TestAuthService_CompleteAuthorization_UnknownRequest(t *testing.T) {
	ctx := context.Background()
	mockFactory, _, mockCharacterRepo, _, mockAuthRepo := authServiceMocks()

	tokens := &esi.Tokens{CharacterID: 90000001, CharacterName: "Test Pilot", RefreshToken: "refresh-token"}

	mockSSO := new(MockSSOClient)
	mockSSO.On("ExchangeCode", ctx, "auth-code").Return(tokens, nil)
	mockAuthRepo.On("Delete", ctx, "deadbeef", int64(123456789)).Return(false, nil)

	service := NewAuthService(mockFactory, mockSSO)

	_, err := service.CompleteAuthorization(ctx, "auth-code", "deadbeef-123456789")
	assert.ErrorIs(t, err, ErrUnknownAuthRequest)

	mockCharacterRepo.AssertNotCalled(t, "Upsert")
}

func TestAuthService_CompleteAuthorization_MalformedState(t *testing.T) {
	service := NewAuthService(new(MockUnitOfWorkFactory), new(MockSSOClient))

	tests := []string{"", "nodash", "prefix-notanumber"}
	for _, state := range tests {
		t.Run(fmt.Sprintf("state %q", state), func(t *testing.T) {
			_, err := service.CompleteAuthorization(context.Background(), "auth-code", state)
			assert.ErrorIs(t, err, ErrUnknownAuthRequest)
		})
	}
}

func TestAuthService_SetNotificationChannel(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, _, mockChannelRepo, _ := authServiceMocks()
	mockUoW.On("Commit").Return(nil)

	channelID := int64(987654321)
	mockChannelRepo.On("Upsert", ctx, mock.MatchedBy(func(c *models.NotificationChannel) bool {
		return c.DiscordUserID == 123456789 && c.ChannelID != nil && *c.ChannelID == channelID
	})).Return(nil)

	service := NewAuthService(mockFactory, new(MockSSOClient))

	err := service.SetNotificationChannel(ctx, 123456789, &channelID)
	require.NoError(t, err)

	mockChannelRepo.AssertExpectations(t)
}

func TestSplitState(t *testing.T) {
	state, discordUserID, err := splitState("a1b2c3d4-123456789")
	require.NoError(t, err)
	assert.Equal(t, "a1b2c3d4", state)
	assert.Equal(t, int64(123456789), discordUserID)

	// Dashes in the random part stay with the state
	state, discordUserID, err = splitState(strings.Repeat("ab-", 3) + "42")
	require.NoError(t, err)
	assert.Equal(t, "ab-ab-ab", state)
	assert.Equal(t, int64(42), discordUserID)
}
