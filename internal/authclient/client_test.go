package authclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/shopcraft/admin-gateway/internal/config"
	"github.com/shopcraft/admin-gateway/internal/gwerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAuthBackend struct {
	server       *httptest.Server
	loginCalls   int
	refreshCalls int
	logoutCalls  int

	lastAuthorization string
	statusOverride    int
	rawBodyOverride   string
}

func (b *testAuthBackend) handler(w http.ResponseWriter, r *http.Request) {
	b.lastAuthorization = r.Header.Get("Authorization")
	switch r.URL.Path {
	case "/auth/login":
		b.loginCalls++
	case "/auth/refresh":
		b.refreshCalls++
	case "/auth/logout":
		b.logoutCalls++
		if b.statusOverride != 0 {
			w.WriteHeader(b.statusOverride)
			return
		}
		w.WriteHeader(http.StatusOK)
		return
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if b.statusOverride != 0 {
		w.WriteHeader(b.statusOverride)
		fmt.Fprint(w, `{"error": {"message": "no"}}`)
		return
	}
	if b.rawBodyOverride != "" {
		fmt.Fprint(w, b.rawBodyOverride)
		return
	}
	response := map[string]any{
		"payload": map[string]string{
			"access_token":  "issued-access-token",
			"refresh_token": "issued-refresh-token",
		},
	}
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		panic(err)
	}
}

func startTestBackend(t *testing.T) *testAuthBackend {
	t.Helper()
	backend := &testAuthBackend{}
	backend.server = httptest.NewServer(http.HandlerFunc(backend.handler))
	t.Cleanup(backend.server.Close)
	return backend
}

func newTestClient(t *testing.T, backend *testAuthBackend) *Client {
	t.Helper()
	baseURL, err := url.Parse(backend.server.URL)
	require.NoError(t, err)
	client, err := NewClient(WithConfig(config.AuthConfig{BackendBaseURL: baseURL}))
	require.NoError(t, err)
	return client
}

func TestLoginReturnsCredentialPair(t *testing.T) {
	backend := startTestBackend(t)
	client := newTestClient(t, backend)

	pair, err := client.Login(context.Background(), "john.doe", "hunter2")

	require.NoError(t, err)
	assert.Equal(t, "issued-access-token", pair.AccessToken)
	assert.Equal(t, "issued-refresh-token", pair.RefreshToken)
	assert.Equal(t, 1, backend.loginCalls)
}

func TestRefreshSendsBearerToken(t *testing.T) {
	backend := startTestBackend(t)
	client := newTestClient(t, backend)

	pair, err := client.Refresh(context.Background(), "my-refresh-token")

	require.NoError(t, err)
	assert.True(t, pair.Complete())
	assert.Equal(t, 1, backend.refreshCalls)
	assert.Equal(t, "Bearer my-refresh-token", backend.lastAuthorization)
}

func TestRefreshPreservesBackendStatus(t *testing.T) {
	backend := startTestBackend(t)
	backend.statusOverride = http.StatusUnauthorized
	client := newTestClient(t, backend)

	_, err := client.Refresh(context.Background(), "stale-refresh-token")

	require.Error(t, err)
	refreshErr, ok := err.(*gwerrors.RefreshError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, refreshErr.Status)
	// a failed refresh is terminal, no retry may happen
	assert.Equal(t, 1, backend.refreshCalls)
}

func TestRefreshMalformedBodyIsBadRequest(t *testing.T) {
	backend := startTestBackend(t)
	backend.rawBodyOverride = "this is not json"
	client := newTestClient(t, backend)

	_, err := client.Refresh(context.Background(), "my-refresh-token")

	require.Error(t, err)
	refreshErr, ok := err.(*gwerrors.RefreshError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, refreshErr.Status)
}

func TestRefreshMissingTokenIsBadRequest(t *testing.T) {
	backend := startTestBackend(t)
	backend.rawBodyOverride = `{"payload": {"access_token": "only-half-a-pair"}}`
	client := newTestClient(t, backend)

	_, err := client.Refresh(context.Background(), "my-refresh-token")

	require.Error(t, err)
	refreshErr, ok := err.(*gwerrors.RefreshError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, refreshErr.Status)
}

func TestRefreshTransportFailureIsInternalError(t *testing.T) {
	backend := startTestBackend(t)
	client := newTestClient(t, backend)
	backend.server.Close()

	_, err := client.Refresh(context.Background(), "my-refresh-token")

	require.Error(t, err)
	refreshErr, ok := err.(*gwerrors.RefreshError)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, refreshErr.Status)
}

func TestLogoutSendsAccessToken(t *testing.T) {
	backend := startTestBackend(t)
	client := newTestClient(t, backend)

	err := client.Logout(context.Background(), "my-access-token")

	require.NoError(t, err)
	assert.Equal(t, 1, backend.logoutCalls)
	assert.Equal(t, "Bearer my-access-token", backend.lastAuthorization)
}

func TestLogoutPropagatesBackendFailure(t *testing.T) {
	backend := startTestBackend(t)
	backend.statusOverride = http.StatusBadGateway
	client := newTestClient(t, backend)

	err := client.Logout(context.Background(), "my-access-token")

	require.Error(t, err)
	refreshErr, ok := err.(*gwerrors.RefreshError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, refreshErr.Status)
}

func TestClientRespectsTimeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer slow.Close()
	baseURL, err := url.Parse(slow.URL)
	require.NoError(t, err)
	client, err := NewClient(
		WithConfig(config.AuthConfig{BackendBaseURL: baseURL}),
		WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}),
	)
	require.NoError(t, err)

	start := time.Now()
	_, err = client.Refresh(context.Background(), "my-refresh-token")

	require.Error(t, err)
	assert.Less(t, time.Since(start), 400*time.Millisecond)
	refreshErr, ok := err.(*gwerrors.RefreshError)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, refreshErr.Status)
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient()

	assert.Error(t, err)
}
