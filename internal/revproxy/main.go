// Package revproxy contains the definition of all routes and proxying
// performed by the gateway for the admin dashboard it fronts.
package revproxy

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/shopcraft/admin-gateway/internal/config"
	"github.com/shopcraft/admin-gateway/internal/gateway"
)

type Revproxy struct {
	config  *config.RevproxyConfig
	gateway *gateway.Gateway
}

func (r *Revproxy) RegisterHandlers(e *echo.Echo, commonMiddlewares ...echo.MiddlewareFunc) {
	uiProxy := proxyFromURL(r.config.UIBaseURL)
	uiProxyHost := setHost(r.config.UIBaseURL.Host)
	apiProxy := proxyFromURL(r.config.APIBaseURL)
	apiProxyHost := setHost(r.config.APIBaseURL.Host)
	interceptor := r.gateway.Middleware()

	// API calls carry their own bearer token and are never intercepted
	e.Group("/api", append(commonMiddlewares, apiProxyHost, apiProxy)...)
	// Everything else is a navigation and goes through the auth gateway
	// before it reaches the dashboard UI
	e.Group("/", append(commonMiddlewares, interceptor, uiProxyHost, uiProxy)...)
}

type RevproxyOption func(*Revproxy) error

func WithConfig(revproxyConfig config.RevproxyConfig) RevproxyOption {
	return func(r *Revproxy) error {
		r.config = &revproxyConfig
		return nil
	}
}

func WithGateway(gw *gateway.Gateway) RevproxyOption {
	return func(r *Revproxy) error {
		r.gateway = gw
		return nil
	}
}

func NewServer(options ...RevproxyOption) (*Revproxy, error) {
	server := Revproxy{}
	for _, opt := range options {
		err := opt(&server)
		if err != nil {
			return &Revproxy{}, err
		}
	}
	if server.config == nil {
		return &Revproxy{}, fmt.Errorf("revproxy config not provided")
	}
	if server.gateway == nil {
		return &Revproxy{}, fmt.Errorf("revproxy auth gateway not initialized")
	}
	return &server, nil
}
