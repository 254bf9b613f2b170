package sessions

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// CookieWriter is the single surface through which session cookies are
// mutated. The store only ever writes through this interface so the cookie
// attribute policy stays in one place while the target can vary.
type CookieWriter interface {
	SetCookie(cookie *http.Cookie)
}

type contextWriter struct {
	c echo.Context
}

func (w contextWriter) SetCookie(cookie *http.Cookie) {
	w.c.SetCookie(cookie)
}

// ContextWriter returns a CookieWriter that attaches cookies to the response
// of the current request context.
func ContextWriter(c echo.Context) CookieWriter {
	return contextWriter{c: c}
}

type headerWriter struct {
	header http.Header
}

func (w headerWriter) SetCookie(cookie *http.Cookie) {
	if v := cookie.String(); v != "" {
		w.header.Add(echo.HeaderSetCookie, v)
	}
}

// HeaderWriter returns a CookieWriter that attaches cookies to an explicit
// header set. Used when cookies have to travel on a response that is built
// separately from the request context, e.g. a redirect that must carry fresh
// credentials atomically.
func HeaderWriter(header http.Header) CookieWriter {
	return headerWriter{header: header}
}
