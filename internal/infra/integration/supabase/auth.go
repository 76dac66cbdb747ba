package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/restoflow/leads-api/internal/usecase"
)

// GetIdentity asks GoTrue who owns the access token. The session itself is
// issued and validated entirely by Supabase; we only read the answer.
func (c *Client) GetIdentity(ctx context.Context, accessToken string) (*usecase.Identity, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("supabase auth not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gotrue request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Expired or garbage token. Not worth more than a debug line.
		c.logger.Debug("gotrue refused token", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("gotrue returned %d", resp.StatusCode)
	}

	var u gotrueUser
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, fmt.Errorf("decode gotrue user: %w", err)
	}
	if u.ID == "" {
		return nil, fmt.Errorf("gotrue returned empty identity")
	}

	return &usecase.Identity{ID: u.ID, Email: u.Email}, nil
}

// SignOut revokes the session on the provider side. Best effort: a failed
// revocation still ends with the cookie cleared locally.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	if !c.Configured() {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/v1/logout", nil)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gotrue logout: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("gotrue logout returned %d", resp.StatusCode)
	}
	return nil
}

// FindByUserID implements entity.RoleRepositoryInterface over the
// user_roles table. "" means no row, which the resolver maps to affiliate.
func (c *Client) FindByUserID(ctx context.Context, userID string) (string, error) {
	path := fmt.Sprintf("user_roles?select=user_id,role&user_id=eq.%s&limit=1",
		url.QueryEscape(userID))
	body, err := c.doRest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", err
	}

	var rows []userRoleRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return "", fmt.Errorf("decode user_roles: %w", err)
	}
	if len(rows) == 0 {
		return "", nil
	}
	return rows[0].Role, nil
}
