package login

import (
	"context"

	"github.com/shopcraft/admin-gateway/internal/models"
)

// AuthBackend is the part of the auth backend client the login server needs.
type AuthBackend interface {
	Login(ctx context.Context, username, password string) (models.CredentialPair, error)
	Logout(ctx context.Context, accessToken string) error
}
