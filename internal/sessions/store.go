// Package sessions manages the cookie-backed credential pair that makes up a
// browser session. There is no server-side session state at all - the two
// cookies round-tripped with the browser are the whole session.
package sessions

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopcraft/admin-gateway/internal/config"
	"github.com/shopcraft/admin-gateway/internal/gwerrors"
	"github.com/shopcraft/admin-gateway/internal/models"
)

// Store reads and writes the two session cookies. It exclusively owns the
// cookie attribute policy: names, lifetimes, httpOnly split, sameSite, path
// and the secure flag all live here and nowhere else.
type Store struct {
	secureCookies bool
}

// accessCookie builds the access token cookie. The access token is
// deliberately not httpOnly so the dashboard scripts can run their own local
// verification path against it.
func (s *Store) accessCookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     AccessTokenCookieName,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(AccessTokenLifetime),
		MaxAge:   int(AccessTokenLifetime / time.Second),
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

func (s *Store) refreshCookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     RefreshTokenCookieName,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(RefreshTokenLifetime),
		MaxAge:   int(RefreshTokenLifetime / time.Second),
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

// ReadAccess returns the access token from the inbound request or
// gwerrors.ErrTokenNotFound when the cookie is absent.
func (s *Store) ReadAccess(c echo.Context) (string, error) {
	return s.read(c, AccessTokenCookieName)
}

// ReadRefresh returns the refresh token from the inbound request or
// gwerrors.ErrTokenNotFound when the cookie is absent.
func (s *Store) ReadRefresh(c echo.Context) (string, error) {
	return s.read(c, RefreshTokenCookieName)
}

func (s *Store) read(c echo.Context, name string) (string, error) {
	cookie, err := c.Cookie(name)
	if err != nil {
		if err == http.ErrNoCookie {
			return "", gwerrors.ErrTokenNotFound
		}
		return "", err
	}
	if cookie.Value == "" {
		return "", gwerrors.ErrTokenNotFound
	}
	return cookie.Value, nil
}

// WriteAccess sets the access token cookie on the target. Expiry is always
// recomputed from now, there is no sliding-window merge with a prior cookie.
func (s *Store) WriteAccess(token string, w CookieWriter) {
	w.SetCookie(s.accessCookie(token))
}

// WriteRefresh sets the refresh token cookie on the target.
func (s *Store) WriteRefresh(token string, w CookieWriter) {
	w.SetCookie(s.refreshCookie(token))
}

// WritePair sets both session cookies on the target.
func (s *Store) WritePair(pair models.CredentialPair, w CookieWriter) {
	s.WriteAccess(pair.AccessToken, w)
	s.WriteRefresh(pair.RefreshToken, w)
}

// Clear removes both session cookies from the browser by expiring them.
func (s *Store) Clear(w CookieWriter) {
	access := s.accessCookie("")
	access.Expires = time.Time{}
	access.MaxAge = -1
	refresh := s.refreshCookie("")
	refresh.Expires = time.Time{}
	refresh.MaxAge = -1
	w.SetCookie(access)
	w.SetCookie(refresh)
}

type StoreOption func(*Store) error

func WithConfig(sessionConfig config.SessionConfig) StoreOption {
	return func(s *Store) error {
		s.secureCookies = sessionConfig.SecureCookies
		return nil
	}
}

func NewStore(options ...StoreOption) (*Store, error) {
	store := Store{}
	for _, opt := range options {
		err := opt(&store)
		if err != nil {
			return &Store{}, err
		}
	}
	return &store, nil
}
