// Package authclient calls the external auth backend that issues, refreshes
// and revokes credential pairs.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/shopcraft/admin-gateway/internal/config"
	"github.com/shopcraft/admin-gateway/internal/gwerrors"
	"github.com/shopcraft/admin-gateway/internal/models"
)

// tokenResponse unmarshals the envelope the backend wraps around issued
// credential pairs.
type tokenResponse struct {
	Payload struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	} `json:"payload"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Client talks to the auth backend. Every call is bounded by the configured
// timeout and is attempted exactly once - the client never retries, a failed
// exchange is terminal for the request that triggered it.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// Login exchanges a username and password for a credential pair.
func (c *Client) Login(ctx context.Context, username, password string) (models.CredentialPair, error) {
	body, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		return models.CredentialPair{}, gwerrors.NewRefreshError(err.Error(), 0)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL.JoinPath("auth", "login").String(), bytes.NewReader(body))
	if err != nil {
		return models.CredentialPair{}, gwerrors.NewRefreshError(err.Error(), 0)
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	return c.exchange(req)
}

// Refresh exchanges a refresh token for a fresh credential pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (models.CredentialPair, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL.JoinPath("auth", "refresh").String(), nil)
	if err != nil {
		return models.CredentialPair{}, gwerrors.NewRefreshError(err.Error(), 0)
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set(
		"Authorization",
		fmt.Sprintf("Bearer %s", refreshToken),
	)
	return c.exchange(req)
}

// Logout revokes the session on the backend. The backend outcome is
// propagated as-is - a failed call never counts as a logout.
func (c *Client) Logout(ctx context.Context, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL.JoinPath("auth", "logout").String(), nil)
	if err != nil {
		return gwerrors.NewRefreshError(err.Error(), 0)
	}
	req.Header.Set(
		"Authorization",
		fmt.Sprintf("Bearer %s", accessToken),
	)
	res, err := c.httpClient.Do(req)
	if err != nil {
		// a transport-level failure, the backend never answered
		return gwerrors.NewRefreshError(err.Error(), http.StatusInternalServerError)
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return gwerrors.NewRefreshError("an error occurred while logging out", res.StatusCode)
	}
	return nil
}

// exchange performs a request that is expected to return a credential pair
// and normalizes every failure mode into a RefreshError.
func (c *Client) exchange(req *http.Request) (models.CredentialPair, error) {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return models.CredentialPair{}, gwerrors.NewRefreshError(err.Error(), http.StatusInternalServerError)
	}
	defer res.Body.Close()
	var body tokenResponse
	decodeErr := json.NewDecoder(res.Body).Decode(&body)
	if res.StatusCode < 200 || res.StatusCode > 299 {
		slog.Debug("AUTH CLIENT", "message", "backend rejected the exchange", "status", res.StatusCode, "url", req.URL.Path)
		return models.CredentialPair{}, gwerrors.NewRefreshError("the auth backend rejected the credentials", res.StatusCode)
	}
	if decodeErr != nil {
		return models.CredentialPair{}, gwerrors.NewRefreshError("cannot parse the auth backend response", 0)
	}
	pair := models.CredentialPair{
		AccessToken:  body.Payload.AccessToken,
		RefreshToken: body.Payload.RefreshToken,
	}
	if !pair.Complete() {
		return models.CredentialPair{}, gwerrors.NewRefreshError("the auth backend response is missing tokens", 0)
	}
	return pair, nil
}

type ClientOption func(*Client) error

func WithConfig(authConfig config.AuthConfig) ClientOption {
	return func(c *Client) error {
		if authConfig.BackendBaseURL == nil {
			return fmt.Errorf("the auth client requires a backend base URL")
		}
		c.baseURL = authConfig.BackendBaseURL
		c.httpClient = &http.Client{Timeout: authConfig.RefreshTimeout()}
		return nil
	}
}

// WithHTTPClient overrides the underlying HTTP client, used in tests.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) error {
		c.httpClient = httpClient
		return nil
	}
}

func NewClient(options ...ClientOption) (*Client, error) {
	client := Client{}
	for _, opt := range options {
		err := opt(&client)
		if err != nil {
			return &Client{}, err
		}
	}
	if client.baseURL == nil {
		return &Client{}, fmt.Errorf("the auth client base URL is not set")
	}
	if client.httpClient == nil {
		return &Client{}, fmt.Errorf("the auth client HTTP client is not set")
	}
	return &client, nil
}
