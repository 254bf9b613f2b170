package config

import (
	"fmt"
	"net/url"
)

type RevproxyConfig struct {
	// UIBaseURL is the upstream that serves the admin dashboard UI.
	UIBaseURL *url.URL
	// APIBaseURL is the upstream that serves the business API consumed by the
	// dashboard. Requests under /api bypass the auth interceptor and are
	// proxied here directly.
	APIBaseURL *url.URL
}

func (r *RevproxyConfig) Validate() error {
	if r.UIBaseURL == nil {
		return fmt.Errorf("the proxy config is missing the url to the dashboard UI")
	}
	if r.APIBaseURL == nil {
		return fmt.Errorf("the proxy config is missing the url to the dashboard API")
	}
	return nil
}
