// Package api is the HTTP client for the dossier server. It keeps the
// current token pair and attaches the access token to every request.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/antonnoe/dossierfrankrijk/internal/common"
	"github.com/antonnoe/dossierfrankrijk/internal/server/models"
)

// TokenPair mirrors the server's token response.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Session mirrors the server's session payload.
type Session struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Dashboard is the combined folders-and-items payload.
type Dashboard struct {
	Folders []*models.Folder `json:"folders"`
	Items   []*models.Item   `json:"items"`
}

// Client talks JSON to the dossier server.
type Client struct {
	baseURL string
	http    *http.Client

	mu   sync.RWMutex
	pair TokenPair
}

// NewClient constructs a Client for the given server base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SetTokens replaces the stored token pair.
func (c *Client) SetTokens(pair TokenPair) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pair = pair
}

// Tokens returns the stored token pair.
func (c *Client) Tokens() TokenPair {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pair
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if pair := c.Tokens(); pair.AccessToken != "" {
		req.Header.Set(common.AccessTokenHeaderName, "Bearer "+pair.AccessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return common.ErrorUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return common.ErrorNotFound
	case resp.StatusCode >= 400:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// RequestMagicLink asks the server to email a login link.
func (c *Client) RequestMagicLink(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/magiclink", map[string]string{"email": email}, nil)
}

// ExchangeCode trades a one-time login code for a session and stores the
// resulting tokens.
func (c *Client) ExchangeCode(ctx context.Context, code string) error {
	var pair TokenPair
	if err := c.do(ctx, http.MethodPost, "/api/auth/exchange", map[string]string{"code": code}, &pair); err != nil {
		return err
	}
	c.SetTokens(pair)
	return nil
}

// CurrentSession returns the session for the stored access token.
func (c *Client) CurrentSession(ctx context.Context) (*Session, error) {
	var session Session
	if err := c.do(ctx, http.MethodGet, "/api/auth/session", nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Refresh rotates the refresh token and stores the new pair.
func (c *Client) Refresh(ctx context.Context) error {
	var pair TokenPair
	body := map[string]string{"refresh_token": c.Tokens().RefreshToken}
	if err := c.do(ctx, http.MethodPost, "/api/auth/refresh", body, &pair); err != nil {
		return err
	}
	c.SetTokens(pair)
	return nil
}

// Logout revokes the refresh token and clears the stored pair.
func (c *Client) Logout(ctx context.Context) error {
	body := map[string]string{"refresh_token": c.Tokens().RefreshToken}
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", body, nil)
	c.SetTokens(TokenPair{})
	return err
}

// Dashboard loads the user's folders and items.
func (c *Client) Dashboard(ctx context.Context) (*Dashboard, error) {
	var dash Dashboard
	if err := c.do(ctx, http.MethodGet, "/api/dashboard", nil, &dash); err != nil {
		return nil, err
	}
	return &dash, nil
}

// AddItem stores a new item and returns the stored row.
func (c *Client) AddItem(ctx context.Context, draft *models.ItemDraft) (*models.Item, error) {
	var item models.Item
	if err := c.do(ctx, http.MethodPost, "/api/items", draft, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// ToggleChecklist sets the completion flag of one item.
func (c *Client) ToggleChecklist(ctx context.Context, itemID string, done bool) error {
	return c.do(ctx, http.MethodPatch, "/api/items/"+itemID, map[string]bool{"is_done": done}, nil)
}

// DeleteItem removes one item.
func (c *Client) DeleteItem(ctx context.Context, itemID string) error {
	return c.do(ctx, http.MethodDelete, "/api/items/"+itemID, nil, nil)
}
