package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"raffler/models"
	"raffler/service"
)

type stubAuthService struct {
	character *models.Character
	err       error
	gotCode   string
	gotState  string
}

func (s *stubAuthService) BeginAuthorization(ctx context.Context, discordUserID int64) (string, error) {
	return "", nil
}

func (s *stubAuthService) CompleteAuthorization(ctx context.Context, code, state string) (*models.Character, error) {
	s.gotCode = code
	s.gotState = state
	return s.character, s.err
}

func (s *stubAuthService) SetNotificationChannel(ctx context.Context, discordUserID int64, channelID *int64) error {
	return nil
}

func callbackRequest(t *testing.T, auth service.AuthService, target string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	server := NewServer(auth, ":0")
	engine := gin.New()
	engine.GET("/callback", server.handleCallback)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, target, nil)
	engine.ServeHTTP(recorder, request)
	return recorder
}

func TestHandleCallback_Success(t *testing.T) {
	auth := &stubAuthService{
		character: &models.Character{CharacterID: 90000001, CharacterName: "Test Pilot"},
	}

	recorder := callbackRequest(t, auth, "/callback?code=auth-code&state=a1b2c3d4-123456789")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Test Pilot")
	assert.Equal(t, "auth-code", auth.gotCode)
	assert.Equal(t, "a1b2c3d4-123456789", auth.gotState)
}

func TestHandleCallback_MissingParams(t *testing.T) {
	recorder := callbackRequest(t, &stubAuthService{}, "/callback?code=auth-code")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandleCallback_UnknownRequest(t *testing.T) {
	auth := &stubAuthService{err: service.ErrUnknownAuthRequest}

	recorder := callbackRequest(t, auth, "/callback?code=auth-code&state=deadbeef-42")

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
