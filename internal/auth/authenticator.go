// Package auth provides account authentication and session tokens.
//
// Accounts own ledgers; they are separate from ledger participants, which
// are plain names. A session is a signed token carrying the account ID,
// issued at Register or Login and checked by the middleware package.
package auth

import (
	"context"

	"github.com/mmynk/settleup/internal/models"
)

var (
	_ Authenticator = (*PasswordAuthenticator)(nil)
	_ TokenIssuer   = (*JWTManager)(nil)
)

// Authenticator verifies account credentials. Implementations decide what a
// credential is (a password today).
type Authenticator interface {
	// Register creates an account. The email must not be taken.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the account for valid credentials and
	// ErrInvalidCredentials otherwise.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)
}

// TokenIssuer mints session tokens for authenticated accounts.
type TokenIssuer interface {
	Generate(user *models.User) (string, error)
}
