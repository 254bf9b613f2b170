package login

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopcraft/admin-gateway/internal/config"
	"github.com/shopcraft/admin-gateway/internal/gwerrors"
	"github.com/shopcraft/admin-gateway/internal/models"
	"github.com/shopcraft/admin-gateway/internal/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthBackend struct {
	loginCalls   int
	logoutCalls  int
	lastUsername string
	lastPassword string
	lastToken    string
	loginErr     error
	logoutErr    error
}

func (f *fakeAuthBackend) Login(ctx context.Context, username, password string) (models.CredentialPair, error) {
	f.loginCalls++
	f.lastUsername = username
	f.lastPassword = password
	if f.loginErr != nil {
		return models.CredentialPair{}, f.loginErr
	}
	return models.CredentialPair{AccessToken: "issued-access-token", RefreshToken: "issued-refresh-token"}, nil
}

func (f *fakeAuthBackend) Logout(ctx context.Context, accessToken string) error {
	f.logoutCalls++
	f.lastToken = accessToken
	return f.logoutErr
}

func newTestServer(t *testing.T, backend AuthBackend) *echo.Echo {
	t.Helper()
	cookieStore, err := sessions.NewStore(sessions.WithConfig(config.SessionConfig{}))
	require.NoError(t, err)
	loginServer, err := NewLoginServer(
		WithConfig(config.AuthConfig{}),
		WithCookieStore(cookieStore),
		WithAuthBackend(backend),
	)
	require.NoError(t, err)
	e := echo.New()
	loginServer.RegisterHandlers(e)
	return e
}

func postLogin(e *echo.Echo, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestPostLoginSetsCookiesAndRedirectsHome(t *testing.T) {
	backend := &fakeAuthBackend{}
	e := newTestServer(t, backend)

	rec := postLogin(e, "/login", url.Values{"username": {"john.doe"}, "password": {"hunter2"}})

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, 1, backend.loginCalls)
	assert.Equal(t, "john.doe", backend.lastUsername)

	access := responseCookie(rec, sessions.AccessTokenCookieName)
	refresh := responseCookie(rec, sessions.RefreshTokenCookieName)
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	assert.Equal(t, "issued-access-token", access.Value)
	assert.Equal(t, "issued-refresh-token", refresh.Value)
}

func TestPostLoginRedirectsToReturnPath(t *testing.T) {
	backend := &fakeAuthBackend{}
	e := newTestServer(t, backend)

	rec := postLogin(e, "/login?redirect=%2Fbrands", url.Values{"username": {"john.doe"}, "password": {"hunter2"}})

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/brands", rec.Header().Get(echo.HeaderLocation))
}

func TestPostLoginRejectsForeignReturnPath(t *testing.T) {
	backend := &fakeAuthBackend{}
	e := newTestServer(t, backend)

	rec := postLogin(e, "/login?redirect=https%3A%2F%2Fevil.example.com", url.Values{"username": {"john.doe"}, "password": {"hunter2"}})

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
}

func TestPostLoginInvalidCredentials(t *testing.T) {
	backend := &fakeAuthBackend{loginErr: gwerrors.NewRefreshError("user or password incorrect, tried 3 times", http.StatusUnauthorized)}
	e := newTestServer(t, backend)

	rec := postLogin(e, "/login", url.Values{"username": {"john.doe"}, "password": {"wrong"}})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	// the backend failure detail must not leak to the login form
	assert.Contains(t, rec.Body.String(), "invalid credentials")
	assert.NotContains(t, rec.Body.String(), "tried 3 times")
	assert.Nil(t, responseCookie(rec, sessions.AccessTokenCookieName))
}

func TestPostLoginMissingFields(t *testing.T) {
	backend := &fakeAuthBackend{}
	e := newTestServer(t, backend)

	rec := postLogin(e, "/login", url.Values{"username": {"john.doe"}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, backend.loginCalls)
}

func TestGetLogoutWithoutAccessTokenRedirectsToLogin(t *testing.T) {
	backend := &fakeAuthBackend{}
	e := newTestServer(t, backend)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
	// there was nothing to revoke, the backend must not be called
	assert.Equal(t, 0, backend.logoutCalls)
}

func TestGetLogoutClearsCookiesOnBackendSuccess(t *testing.T) {
	backend := &fakeAuthBackend{}
	e := newTestServer(t, backend)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: sessions.AccessTokenCookieName, Value: "the-access-token"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, 1, backend.logoutCalls)
	assert.Equal(t, "the-access-token", backend.lastToken)

	access := responseCookie(rec, sessions.AccessTokenCookieName)
	refresh := responseCookie(rec, sessions.RefreshTokenCookieName)
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	assert.Less(t, access.MaxAge, 0)
	assert.Less(t, refresh.MaxAge, 0)
}

func TestGetLogoutBackendFailureLeavesCookies(t *testing.T) {
	backend := &fakeAuthBackend{logoutErr: gwerrors.NewRefreshError("an error occurred while logging out", http.StatusBadGateway)}
	e := newTestServer(t, backend)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: sessions.AccessTokenCookieName, Value: "the-access-token"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Nil(t, responseCookie(rec, sessions.AccessTokenCookieName))
	assert.Nil(t, responseCookie(rec, sessions.RefreshTokenCookieName))
}
