// internal/integration/dropbox/client.go
package dropbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const accessTokenKey = "dropbox:access_token"

// Client talks to the Dropbox content API using the refresh-token OAuth
// flow. Short-lived access tokens are cached in Redis so concurrent API
// instances share them instead of each minting their own.
type Client struct {
	appKey       string
	appSecret    string
	refreshToken string
	redis        *redis.Client
	httpClient   *http.Client
}

func NewClient(appKey, appSecret, refreshToken string, redisClient *redis.Client) *Client {
	return &Client{
		appKey:       appKey,
		appSecret:    appSecret,
		refreshToken: refreshToken,
		redis:        redisClient,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	token, err := c.redis.Get(ctx, accessTokenKey).Result()
	if err == nil && token != "" {
		return token, nil
	}
	if err != nil && err != redis.Nil {
		return "", fmt.Errorf("failed to read cached token: %w", err)
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", c.refreshToken)
	form.Set("client_id", c.appKey)
	form.Set("client_secret", c.appSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://api.dropboxapi.com/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("dropbox token refresh failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("dropbox token refresh returned %d: %s", resp.StatusCode, raw)
	}

	var out struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	// Cache slightly shorter than the real expiry to avoid using a token
	// that dies mid-request.
	ttl := time.Duration(out.ExpiresIn-60) * time.Second
	if ttl > 0 {
		_ = c.redis.Set(ctx, accessTokenKey, out.AccessToken, ttl).Err()
	}
	return out.AccessToken, nil
}

// Upload stores content at the given path, overwriting any existing file.
func (c *Client) Upload(ctx context.Context, path string, content []byte) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	args, _ := json.Marshal(map[string]interface{}{
		"path": path,
		"mode": "overwrite",
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://content.dropboxapi.com/2/files/upload", bytes.NewReader(content))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Dropbox-API-Arg", string(args))
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("dropbox upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("dropbox upload returned %d: %s", resp.StatusCode, raw)
	}
	return nil
}

// Download fetches the file content at the given path.
func (c *Client) Download(ctx context.Context, path string) ([]byte, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	args, _ := json.Marshal(map[string]string{"path": path})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://content.dropboxapi.com/2/files/download", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Dropbox-API-Arg", string(args))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dropbox download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("dropbox download returned %d: %s", resp.StatusCode, raw)
	}
	return io.ReadAll(resp.Body)
}

// Delete removes the file at the given path.
func (c *Client) Delete(ctx context.Context, path string) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	body, _ := json.Marshal(map[string]string{"path": path})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://api.dropboxapi.com/2/files/delete_v2", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("dropbox delete failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("dropbox delete returned %d: %s", resp.StatusCode, raw)
	}
	return nil
}
