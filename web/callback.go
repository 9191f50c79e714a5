package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"raffler/service"
)

// Server hosts the ESI OAuth callback endpoint
type Server struct {
	auth       service.AuthService
	listenAddr string
	httpServer *http.Server
}

// NewServer creates the callback server
func NewServer(auth service.AuthService, listenAddr string) *Server {
	return &Server{
		auth:       auth,
		listenAddr: listenAddr,
	}
}

// Start runs the HTTP server until Shutdown is called. Blocks.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/callback", s.handleCallback)
	engine.GET("/healthz", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	s.httpServer = &http.Server{
		Addr:    s.listenAddr,
		Handler: engine,
	}

	log.Infof("Callback server listening on %s", s.listenAddr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("callback server failed: %w", err)
	}
	return nil
}

// Shutdown stops the HTTP server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// handleCallback completes an ESI authorization started by /auth
func (s *Server) handleCallback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		c.String(http.StatusBadRequest, "Missing code or state.")
		return
	}

	character, err := s.auth.CompleteAuthorization(c.Request.Context(), code, state)
	if err != nil {
		if errors.Is(err, service.ErrUnknownAuthRequest) {
			c.String(http.StatusUnauthorized, "Authentication failed: unknown or expired authorization request.")
			return
		}
		log.Errorf("Error completing authorization: %v", err)
		c.String(http.StatusInternalServerError, "Authentication failed.")
		return
	}

	c.String(http.StatusOK, "Authorized %s. You can close this window and return to Discord.", character.CharacterName)
}
