package login

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopcraft/admin-gateway/internal/gateway"
	"github.com/shopcraft/admin-gateway/internal/gwerrors"
	"github.com/shopcraft/admin-gateway/internal/sessions"
	"github.com/shopcraft/admin-gateway/internal/utils"
)

type loginCredentials struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type loginError struct {
	Message string `json:"message"`
}

// PostLogin exchanges the submitted credentials for a credential pair,
// persists it as session cookies on the response and sends the browser back
// to where it came from. Backend failures surface only as a generic invalid
// credentials message so no backend detail leaks to the login form.
func (l *LoginServer) PostLogin(c echo.Context) error {
	var credentials loginCredentials
	if err := c.Bind(&credentials); err != nil || credentials.Username == "" || credentials.Password == "" {
		return c.JSON(http.StatusBadRequest, loginError{Message: "username and password are required"})
	}

	pair, err := l.authBackend.Login(c.Request().Context(), credentials.Username, credentials.Password)
	if err != nil {
		slog.Info(
			"LOGIN",
			"message",
			"login rejected",
			"username",
			credentials.Username,
			"error",
			err,
			"requestID",
			utils.GetRequestID(c),
		)
		return c.JSON(http.StatusUnauthorized, loginError{Message: "invalid credentials"})
	}

	// the cookies travel on the redirect so the browser stores them together
	// with the navigation
	l.cookies.WritePair(pair, sessions.HeaderWriter(c.Response().Header()))
	returnPath := utils.SanitizeReturnPath(c.QueryParam(gateway.RedirectQueryParam), gateway.HomePath)
	return c.Redirect(http.StatusFound, returnPath)
}

// GetLogout revokes the session on the auth backend and clears both session
// cookies. Without an access token there is nothing to revoke and the browser
// goes straight to the login form. A backend failure is propagated and leaves
// the cookies intact - the gateway never assumes a logout the backend did not
// confirm.
func (l *LoginServer) GetLogout(c echo.Context) error {
	accessToken, err := l.cookies.ReadAccess(c)
	if err != nil {
		return c.Redirect(http.StatusFound, l.config.LoginPathOrDefault())
	}

	err = l.authBackend.Logout(c.Request().Context(), accessToken)
	if err != nil {
		slog.Info(
			"LOGOUT",
			"message",
			"backend logout failed",
			"error",
			err,
			"requestID",
			utils.GetRequestID(c),
		)
		if refreshErr, ok := err.(*gwerrors.RefreshError); ok {
			return echo.NewHTTPError(refreshErr.Status, "an error occurred while logging out")
		}
		return err
	}

	l.cookies.Clear(sessions.HeaderWriter(c.Response().Header()))
	return c.Redirect(http.StatusFound, l.config.LoginPathOrDefault())
}
