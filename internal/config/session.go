package config

type SessionConfig struct {
	// SecureCookies marks both session cookies as Secure. Should only ever be
	// false in local development.
	SecureCookies bool
}
