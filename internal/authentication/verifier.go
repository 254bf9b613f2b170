// Package authentication verifies and decodes the access tokens issued by the
// auth backend. Verification is purely local - no network calls are made.
package authentication

import (
	"fmt"

	"github.com/golang-jwt/jwt/v4"
	"github.com/shopcraft/admin-gateway/internal/config"
)

// AccessClaims are the claims carried by an access token.
type AccessClaims struct {
	jwt.RegisteredClaims
}

// Verifier checks access tokens signed with HMAC-SHA256. Tokens signed with
// any other algorithm are rejected regardless of their signature. A Verifier
// is immutable after construction and safe for concurrent use.
type Verifier struct {
	secret []byte
}

var allowedSigningMethods = []string{jwt.SigningMethodHS256.Alg()}

func (v *Verifier) parse(accessToken string) (*AccessClaims, error) {
	claims := AccessClaims{}
	_, err := jwt.ParseWithClaims(
		accessToken,
		&claims,
		func(t *jwt.Token) (interface{}, error) {
			return v.secret, nil
		},
		jwt.WithValidMethods(allowedSigningMethods),
	)
	if err != nil {
		return nil, err
	}
	return &claims, nil
}

// Verify reports whether the access token is structurally sound, signed with
// the expected key and algorithm, and not expired. It never returns an error;
// every failure mode collapses to false.
func (v *Verifier) Verify(accessToken string) bool {
	_, err := v.parse(accessToken)
	return err == nil
}

// Decode returns the claims of a valid access token or nil when the token
// does not verify.
func (v *Verifier) Decode(accessToken string) *AccessClaims {
	claims, err := v.parse(accessToken)
	if err != nil {
		return nil
	}
	return claims
}

type VerifierOption func(*Verifier) error

func WithSecret(secret config.RedactedString) VerifierOption {
	return func(v *Verifier) error {
		v.secret = []byte(secret)
		return nil
	}
}

func NewVerifier(options ...VerifierOption) (*Verifier, error) {
	v := Verifier{}
	for _, opt := range options {
		err := opt(&v)
		if err != nil {
			return &Verifier{}, err
		}
	}
	if len(v.secret) == 0 {
		return &Verifier{}, fmt.Errorf("the token verifier secret is not set")
	}
	return &v, nil
}
