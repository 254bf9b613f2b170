// Package gateway implements the request interceptor that decides, for every
// incoming navigation, whether the caller is authenticated, whether its
// credentials must be silently refreshed, and where it must be redirected.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/shopcraft/admin-gateway/internal/authentication"
	"github.com/shopcraft/admin-gateway/internal/config"
	"github.com/shopcraft/admin-gateway/internal/models"
	"github.com/shopcraft/admin-gateway/internal/sessions"
	"github.com/shopcraft/admin-gateway/internal/utils"
)

// RedirectQueryParam carries the original destination across a login
// redirect. The login form consumes it once and discards it after use.
const RedirectQueryParam = "redirect"

// HomePath is where authenticated users land when no return path is known.
const HomePath = "/"

// TokenRefresher exchanges a refresh token for a fresh credential pair.
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (models.CredentialPair, error)
}

// Gateway evaluates the auth state machine once per request. It is stateless;
// all session state lives in the cookies round-tripped with the browser.
type Gateway struct {
	classifier     classifier
	defaultAppPath string
	verifier       *authentication.Verifier
	cookies        *sessions.Store
	refresher      TokenRefresher
}

// Middleware returns the interceptor that runs before every navigation.
func (g *Gateway) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			class := g.classifier.Classify(c.Request().URL.Path)
			if class == PathSkipped {
				return next(c)
			}

			accessToken, _ := g.cookies.ReadAccess(c)
			refreshToken, _ := g.cookies.ReadRefresh(c)
			hasAccess := accessToken != ""
			hasRefresh := refreshToken != ""
			// verification is local and lazy, it only runs when both tokens
			// are present and its boolean result drives the branch below
			accessValid := false
			if hasAccess && hasRefresh {
				accessValid = g.verifier.Verify(accessToken)
			}

			action := Decide(class, hasAccess, hasRefresh, accessValid)
			slog.Debug(
				"AUTH GATEWAY",
				"message",
				"evaluated request",
				"path",
				c.Request().URL.Path,
				"action",
				action.String(),
				"requestID",
				utils.GetRequestID(c),
			)

			switch action {
			case Allow:
				return next(c)
			case RedirectToApp:
				return c.Redirect(http.StatusFound, g.defaultAppPath)
			case RedirectToReturn:
				return c.Redirect(http.StatusFound, g.returnPath(c))
			case RedirectToLogin:
				return c.Redirect(http.StatusFound, g.loginRedirectURL(c))
			case ClearAndRedirectToLogin:
				g.cookies.Clear(sessions.ContextWriter(c))
				return c.Redirect(http.StatusFound, g.classifier.loginPath)
			case RefreshAndContinue:
				pair, err := g.refresher.Refresh(c.Request().Context(), refreshToken)
				if err != nil {
					return g.refreshFailed(c, err)
				}
				g.cookies.WritePair(pair, sessions.ContextWriter(c))
				return next(c)
			case RefreshAndRedirectToReturn:
				pair, err := g.refresher.Refresh(c.Request().Context(), refreshToken)
				if err != nil {
					return g.refreshFailed(c, err)
				}
				// the fresh cookies must reach the browser together with the
				// navigation, so they go on the redirect response itself
				g.cookies.WritePair(pair, sessions.HeaderWriter(c.Response().Header()))
				return c.Redirect(http.StatusFound, g.returnPath(c))
			}
			return next(c)
		}
	}
}

// refreshFailed handles the terminal failure of the single refresh attempt:
// both cookies are cleared, never keeping a stale refresh token, and the
// browser goes back to the login form.
func (g *Gateway) refreshFailed(c echo.Context, err error) error {
	slog.Info(
		"AUTH GATEWAY",
		"message",
		"token refresh failed",
		"error",
		err,
		"requestID",
		utils.GetRequestID(c),
	)
	g.cookies.Clear(sessions.ContextWriter(c))
	return c.Redirect(http.StatusFound, g.loginRedirectURL(c))
}

// loginRedirectURL builds the login redirect preserving the original
// destination, percent-encoded, for return after re-authentication.
func (g *Gateway) loginRedirectURL(c echo.Context) string {
	original := c.Request().URL.RequestURI()
	if g.classifier.Classify(c.Request().URL.Path) == PathLogin {
		// never send the login form back to itself
		return g.classifier.loginPath
	}
	return fmt.Sprintf("%s?%s=%s", g.classifier.loginPath, RedirectQueryParam, url.QueryEscape(original))
}

// returnPath resolves where an already authenticated browser should go,
// trusting the redirect parameter only when it is a same-origin path.
func (g *Gateway) returnPath(c echo.Context) string {
	return utils.SanitizeReturnPath(c.QueryParam(RedirectQueryParam), HomePath)
}

type GatewayOption func(*Gateway) error

func WithConfig(authConfig config.AuthConfig) GatewayOption {
	return func(g *Gateway) error {
		g.classifier = classifier{
			loginPath:      authConfig.LoginPathOrDefault(),
			protectedPaths: defaultProtectedPaths,
		}
		g.defaultAppPath = authConfig.DefaultAppPathOrDefault()
		return nil
	}
}

func WithVerifier(verifier *authentication.Verifier) GatewayOption {
	return func(g *Gateway) error {
		g.verifier = verifier
		return nil
	}
}

func WithCookieStore(store *sessions.Store) GatewayOption {
	return func(g *Gateway) error {
		g.cookies = store
		return nil
	}
}

func WithTokenRefresher(refresher TokenRefresher) GatewayOption {
	return func(g *Gateway) error {
		g.refresher = refresher
		return nil
	}
}

func NewGateway(options ...GatewayOption) (*Gateway, error) {
	gateway := Gateway{}
	for _, opt := range options {
		err := opt(&gateway)
		if err != nil {
			return &Gateway{}, err
		}
	}
	if gateway.classifier.loginPath == "" {
		return &Gateway{}, fmt.Errorf("gateway config not provided")
	}
	if gateway.verifier == nil {
		return &Gateway{}, fmt.Errorf("gateway token verifier not initialized")
	}
	if gateway.cookies == nil {
		return &Gateway{}, fmt.Errorf("gateway cookie store not initialized")
	}
	if gateway.refresher == nil {
		return &Gateway{}, fmt.Errorf("gateway token refresher not initialized")
	}
	return &gateway, nil
}
