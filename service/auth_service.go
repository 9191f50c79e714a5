package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"raffler/models"
)

type authService struct {
	uowFactory UnitOfWorkFactory
	sso        SSOClient
}

// NewAuthService creates the service backing /auth and the OAuth callback
func NewAuthService(uowFactory UnitOfWorkFactory, sso SSOClient) AuthService {
	return &authService{
		uowFactory: uowFactory,
		sso:        sso,
	}
}

func (s *authService) BeginAuthorization(ctx context.Context, discordUserID int64) (string, error) {
	state, err := randomState()
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	request := &models.AuthRequest{
		DiscordUserID: discordUserID,
		State:         state,
		CreatedAt:     time.Now().UTC(),
	}
	if err := uow.AuthRequestRepository().Create(ctx, request); err != nil {
		return "", fmt.Errorf("failed to store auth request: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit auth request: %w", err)
	}

	// The Discord user ID rides along in the state so the callback can
	// link the character back to the user
	return s.sso.AuthorizeURL(fmt.Sprintf("%s-%d", state, discordUserID)), nil
}

func (s *authService) CompleteAuthorization(ctx context.Context, code, state string) (*models.Character, error) {
	ssoState, discordUserID, err := splitState(state)
	if err != nil {
		return nil, err
	}

	tokens, err := s.sso.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	deleted, err := uow.AuthRequestRepository().Delete(ctx, ssoState, discordUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove auth request: %w", err)
	}
	if !deleted {
		return nil, ErrUnknownAuthRequest
	}

	character := &models.Character{
		DiscordUserID: discordUserID,
		CharacterID:   tokens.CharacterID,
		CharacterName: tokens.CharacterName,
		RefreshToken:  tokens.RefreshToken,
	}
	if err := uow.CharacterRepository().Upsert(ctx, character); err != nil {
		return nil, fmt.Errorf("failed to store character: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit authorization: %w", err)
	}

	return character, nil
}

func (s *authService) SetNotificationChannel(ctx context.Context, discordUserID int64, channelID *int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	channel := &models.NotificationChannel{
		DiscordUserID: discordUserID,
		ChannelID:     channelID,
	}
	if err := uow.NotificationChannelRepository().Upsert(ctx, channel); err != nil {
		return fmt.Errorf("failed to store notification channel: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit notification channel: %w", err)
	}

	return nil
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// splitState separates the SSO state from the Discord user ID appended by
// BeginAuthorization
func splitState(state string) (string, int64, error) {
	idx := strings.LastIndex(state, "-")
	if idx < 0 {
		return "", 0, ErrUnknownAuthRequest
	}

	discordUserID, err := strconv.ParseInt(state[idx+1:], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("%w: bad state", ErrUnknownAuthRequest)
	}

	return state[:idx], discordUserID, nil
}
