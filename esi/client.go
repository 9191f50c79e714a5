package esi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultBaseURL  = "https://esi.evetech.net/latest"
	defaultLoginURL = "https://login.eveonline.com/v2/oauth"

	compatibilityDate = "2025-08-26"
)

// ErrTransient marks upstream failures that are worth retrying within the
// current run (rate limits, 5xx, network errors). Anything else is definitive.
var ErrTransient = errors.New("transient upstream error")

// Client is a typed HTTP client for the EVE Swagger Interface.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	loginURL     string
	clientID     string
	clientSecret string
	callbackURL  string
	userAgent    string
	scopes       string
}

// Config holds the ESI application credentials
type Config struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
	UserAgent    string
	Scopes       string
}

// NewClient creates a new ESI client
func NewClient(cfg Config) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:      defaultBaseURL,
		loginURL:     defaultLoginURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		callbackURL:  cfg.CallbackURL,
		userAgent:    cfg.UserAgent,
		scopes:       cfg.Scopes,
	}
}

// Notification is one entry from a character's notification feed
type Notification struct {
	NotificationID int64   `json:"notification_id"`
	Type           string  `json:"type"`
	Text           *string `json:"text,omitempty"`
	Timestamp      string  `json:"timestamp"`
}

// MarketOrder is one open order in a region's market
type MarketOrder struct {
	OrderID    int64   `json:"order_id"`
	TypeID     int32   `json:"type_id"`
	LocationID int64   `json:"location_id"`
	Price      float64 `json:"price"`
	IsBuyOrder bool    `json:"is_buy_order"`
}

// MarketPrice is the global average price entry for one item type
type MarketPrice struct {
	TypeID       int32    `json:"type_id"`
	AveragePrice *float64 `json:"average_price,omitempty"`
}

// TypeInfo describes an item type
type TypeInfo struct {
	TypeID int32  `json:"type_id"`
	Name   string `json:"name"`
}

// CharacterNotifications returns the character's recent notifications
func (c *Client) CharacterNotifications(ctx context.Context, accessToken string, characterID int32) ([]Notification, error) {
	path := fmt.Sprintf("/characters/%d/notifications/", characterID)

	var notifications []Notification
	if err := c.get(ctx, path, nil, accessToken, &notifications); err != nil {
		return nil, fmt.Errorf("failed to fetch notifications for character %d: %w", characterID, err)
	}

	return notifications, nil
}

// RegionOrders returns all open orders for one item type in a region,
// following the X-Pages header across pages.
func (c *Client) RegionOrders(ctx context.Context, regionID int32, typeID int32) ([]MarketOrder, error) {
	path := fmt.Sprintf("/markets/%d/orders/", regionID)

	var all []MarketOrder
	for page := 1; ; page++ {
		query := url.Values{
			"order_type": {"all"},
			"type_id":    {strconv.FormatInt(int64(typeID), 10)},
			"page":       {strconv.Itoa(page)},
		}

		var orders []MarketOrder
		pages, err := c.getPaged(ctx, path, query, &orders)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch orders for type %d in region %d: %w", typeID, regionID, err)
		}

		all = append(all, orders...)
		if page >= pages {
			break
		}
	}

	return all, nil
}

// MarketPrices returns the global adjusted/average prices for all item types
func (c *Client) MarketPrices(ctx context.Context) ([]MarketPrice, error) {
	var prices []MarketPrice
	if err := c.get(ctx, "/markets/prices/", nil, "", &prices); err != nil {
		return nil, fmt.Errorf("failed to fetch market prices: %w", err)
	}

	return prices, nil
}

// TypeName resolves the display name of an item type
func (c *Client) TypeName(ctx context.Context, typeID int32) (string, error) {
	path := fmt.Sprintf("/universe/types/%d/", typeID)

	var info TypeInfo
	if err := c.get(ctx, path, nil, "", &info); err != nil {
		return "", fmt.Errorf("failed to fetch type %d: %w", typeID, err)
	}

	return info.Name, nil
}

// OpenMarketWindow opens the in-game market details window for an item type
func (c *Client) OpenMarketWindow(ctx context.Context, accessToken string, typeID int32) error {
	endpoint := fmt.Sprintf("%s/ui/openwindow/marketdetails/?type_id=%d", c.baseURL, typeID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("X-Compatibility-Date", compatibilityDate)
	c.setCommonHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to open market window: %w", ErrTransient)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return classifyStatus(resp.StatusCode)
	}

	return nil
}

// get performs a GET request against the ESI base URL and decodes the JSON body
func (c *Client) get(ctx context.Context, path string, query url.Values, accessToken string, out any) error {
	_, err := c.doGet(ctx, path, query, accessToken, out)
	return err
}

// getPaged is like get but also returns the page count from the X-Pages header
func (c *Client) getPaged(ctx context.Context, path string, query url.Values, out any) (int, error) {
	return c.doGet(ctx, path, query, "", out)
}

func (c *Client) doGet(ctx context.Context, path string, query url.Values, accessToken string, out any) (int, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	c.setCommonHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", ErrTransient)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response body: %w", ErrTransient)
	}

	if resp.StatusCode != http.StatusOK {
		return 0, classifyStatus(resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}

	pages := 1
	if h := resp.Header.Get("X-Pages"); h != "" {
		if n, err := strconv.Atoi(h); err == nil && n > 0 {
			pages = n
		}
	}

	return pages, nil
}

func (c *Client) setCommonHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
}

// classifyStatus maps an HTTP status to the transient/definitive taxonomy
func classifyStatus(status int) error {
	if status == http.StatusTooManyRequests || status >= 500 {
		return fmt.Errorf("upstream returned status %d: %w", status, ErrTransient)
	}
	return fmt.Errorf("upstream returned status %d", status)
}
