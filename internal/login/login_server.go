// Package login serves the interactive login and logout entry points of the
// gateway. Both are thin: they call the auth backend and populate or clear
// the session cookies, all other auth handling lives in the gateway package.
package login

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/shopcraft/admin-gateway/internal/config"
	"github.com/shopcraft/admin-gateway/internal/sessions"
)

type LoginServer struct {
	config      *config.AuthConfig
	cookies     *sessions.Store
	authBackend AuthBackend
}

func (l *LoginServer) RegisterHandlers(server *echo.Echo, commonMiddlewares ...echo.MiddlewareFunc) {
	server.POST(l.config.LoginPathOrDefault(), l.PostLogin, append(commonMiddlewares, NoCaching)...)
	server.GET("/logout", l.GetLogout, append(commonMiddlewares, NoCaching)...)
}

type LoginServerOption func(*LoginServer) error

func WithConfig(authConfig config.AuthConfig) LoginServerOption {
	return func(l *LoginServer) error {
		l.config = &authConfig
		return nil
	}
}

func WithCookieStore(store *sessions.Store) LoginServerOption {
	return func(l *LoginServer) error {
		l.cookies = store
		return nil
	}
}

func WithAuthBackend(backend AuthBackend) LoginServerOption {
	return func(l *LoginServer) error {
		l.authBackend = backend
		return nil
	}
}

// NewLoginServer creates a new LoginServer that exchanges user credentials
// with the auth backend and manages the session cookies around it.
func NewLoginServer(options ...LoginServerOption) (*LoginServer, error) {
	server := LoginServer{}
	for _, opt := range options {
		err := opt(&server)
		if err != nil {
			return &LoginServer{}, err
		}
	}
	if server.config == nil {
		return &LoginServer{}, fmt.Errorf("login server config not provided")
	}
	if server.cookies == nil {
		return &LoginServer{}, fmt.Errorf("cookie store not initialized")
	}
	if server.authBackend == nil {
		return &LoginServer{}, fmt.Errorf("auth backend client not initialized")
	}
	return &server, nil
}
