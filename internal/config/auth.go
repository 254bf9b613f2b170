package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

type AuthConfig struct {
	// BackendBaseURL is the base URL of the external auth backend that issues
	// and revokes credential pairs.
	BackendBaseURL *url.URL
	// AccessTokenSecret is the HMAC-SHA256 key used to verify access tokens.
	AccessTokenSecret RedactedString
	// LoginPath is the path where the login form of the dashboard lives.
	LoginPath string
	// DefaultAppPath is the canonical landing path unrecognized navigations
	// are rewritten to and where authenticated users are sent after login.
	DefaultAppPath string
	// RefreshTimeoutSeconds bounds every call to the auth backend.
	RefreshTimeoutSeconds int
}

func (c *AuthConfig) Validate() error {
	if c.BackendBaseURL == nil {
		return fmt.Errorf("the auth config is missing the auth backend base URL")
	}
	if len(c.AccessTokenSecret) == 0 {
		return fmt.Errorf("the auth config is missing the access token secret")
	}
	if c.LoginPath != "" && !strings.HasPrefix(c.LoginPath, "/") {
		return fmt.Errorf("the login path %q is not an absolute path", c.LoginPath)
	}
	if c.DefaultAppPath != "" && !strings.HasPrefix(c.DefaultAppPath, "/") {
		return fmt.Errorf("the default app path %q is not an absolute path", c.DefaultAppPath)
	}
	if c.RefreshTimeoutSeconds < 0 {
		return fmt.Errorf("the refresh timeout cannot be negative")
	}
	return nil
}

const defaultLoginPath = "/login"
const defaultAppPath = "/products"
const defaultRefreshTimeout = 10 * time.Second

func (c AuthConfig) LoginPathOrDefault() string {
	if c.LoginPath != "" {
		return c.LoginPath
	}
	return defaultLoginPath
}

func (c AuthConfig) DefaultAppPathOrDefault() string {
	if c.DefaultAppPath != "" {
		return c.DefaultAppPath
	}
	return defaultAppPath
}

func (c AuthConfig) RefreshTimeout() time.Duration {
	if c.RefreshTimeoutSeconds > 0 {
		return time.Duration(c.RefreshTimeoutSeconds) * time.Second
	}
	return defaultRefreshTimeout
}
