package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TokenStore persists the bearer token between runs.
type TokenStore interface {
	LoadToken() (string, error)
	SaveToken(token string) error
	ClearToken() error
}

// Client is a typed wrapper over the Coworkly REST API. Every method is a
// thin pass-through: no retries, no backoff, no business logic.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      TokenStore
	log        zerolog.Logger

	mu    sync.RWMutex
	token string
}

func NewClient(baseURL string, store TokenStore, logger zerolog.Logger, timeout time.Duration) (*Client, error) {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		store:      store,
		log:        logger,
	}

	if store != nil {
		token, err := store.LoadToken()
		if err != nil {
			return nil, fmt.Errorf("failed to load persisted token: %w", err)
		}
		if token != "" && tokenExpired(token) {
			logger.Debug().Msg("persisted token is expired, dropping it")
			if err := store.ClearToken(); err != nil {
				return nil, err
			}
			token = ""
		}
		c.token = token
	}

	return c, nil
}

// Token returns the currently held bearer token, empty when logged out.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken updates the in-memory token and writes through to the store:
// save on set, delete on clear.
func (c *Client) SetToken(token string) error {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	if c.store == nil {
		return nil
	}
	if token == "" {
		return c.store.ClearToken()
	}
	return c.store.SaveToken(token)
}

// tokenExpired reports whether the token is a parseable JWT whose exp claim
// is already in the past. Unparseable tokens are left for the server to judge.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	parser := &jwt.Parser{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	if _, ok := claims["exp"]; !ok {
		return false
	}
	return !claims.VerifyExpiresAt(time.Now().Unix(), false)
}

func (c *Client) request(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.log.Debug().Str("method", method).Str("path", path).Msg("api request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.New(readErrorMessage(resp))
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// readErrorMessage surfaces the response body verbatim, falling back to a
// generic status line when the body is unreadable or empty.
func readErrorMessage(resp *http.Response) string {
	data, err := io.ReadAll(resp.Body)
	if err != nil || len(bytes.TrimSpace(data)) == 0 {
		return fmt.Sprintf("request failed with status %d", resp.StatusCode)
	}
	return string(bytes.TrimSpace(data))
}
