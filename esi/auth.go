package esi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// DefaultScopes covers everything the bot does on behalf of a character:
// reading the notification feed and opening in-game market windows.
const DefaultScopes = "esi-characters.read_notifications.v1 esi-ui.open_window.v1"

// Tokens is the result of a completed authorization code exchange
type Tokens struct {
	AccessToken   string
	RefreshToken  string
	CharacterID   int32
	CharacterName string
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// jwtClaims is the subset of the SSO access token payload we care about.
// The subject has the form "CHARACTER:EVE:<character-id>".
type jwtClaims struct {
	Subject string `json:"sub"`
	Name    string `json:"name"`
}

// AuthorizeURL returns the SSO authorization URL for the given state
func (c *Client) AuthorizeURL(state string) string {
	query := url.Values{
		"response_type": {"code"},
		"redirect_uri":  {c.callbackURL},
		"client_id":     {c.clientID},
		"scope":         {c.scopes},
		"state":         {state},
	}
	return c.loginURL + "/authorize/?" + query.Encode()
}

// ExchangeCode exchanges an authorization code for tokens and extracts the
// character identity from the access token
func (c *Client) ExchangeCode(ctx context.Context, code string) (*Tokens, error) {
	form := url.Values{
		"grant_type": {"authorization_code"},
		"code":       {code},
	}

	tr, err := c.requestToken(ctx, form)
	if err != nil {
		return nil, err
	}

	claims, err := decodeClaims(tr.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to decode access token: %w", err)
	}

	characterID, err := characterIDFromSubject(claims.Subject)
	if err != nil {
		return nil, err
	}

	return &Tokens{
		AccessToken:   tr.AccessToken,
		RefreshToken:  tr.RefreshToken,
		CharacterID:   characterID,
		CharacterName: claims.Name,
	}, nil
}

// RefreshAccessToken exchanges a refresh token for a fresh access token.
// A rejected refresh token is a definitive error, not a transient one.
func (c *Client) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}

	tr, err := c.requestToken(ctx, form)
	if err != nil {
		return "", err
	}

	return tr.AccessToken, nil
}

func (c *Client) requestToken(ctx context.Context, form url.Values) (*tokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.loginURL+"/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.setCommonHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", ErrTransient)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}

	return &tr, nil
}

// decodeClaims extracts the payload claims from a JWT without verifying the
// signature. The token is received directly from the SSO over TLS.
func decodeClaims(token string) (*jwtClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("malformed JWT")
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("malformed JWT payload: %w", err)
	}

	var claims jwtClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("malformed JWT claims: %w", err)
	}

	return &claims, nil
}

func characterIDFromSubject(subject string) (int32, error) {
	idx := strings.LastIndex(subject, ":")
	if idx < 0 {
		return 0, fmt.Errorf("unexpected token subject %q", subject)
	}

	id, err := strconv.ParseInt(subject[idx+1:], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("failed to parse character ID from subject %q: %w", subject, err)
	}

	return int32(id), nil
}
