// Package models contains the data types shared between the gateway components.
package models

// CredentialPair is the access and refresh token tuple issued together by the
// auth backend on login and on every refresh. The access token is short-lived,
// the refresh token long-lived.
type CredentialPair struct {
	AccessToken  string
	RefreshToken string
}

// Complete reports whether both tokens of the pair are present. The backend
// never issues one without the other; a partial pair means the response was
// malformed.
func (c CredentialPair) Complete() bool {
	return c.AccessToken != "" && c.RefreshToken != ""
}
