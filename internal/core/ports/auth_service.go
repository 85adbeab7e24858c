package ports

import (
	"context"

	"github.com/freelanza/freelanza-backend/internal/core/domain"
)

// RegisterInput carries the registration form.
type RegisterInput struct {
	Username    string
	Password    string
	Role        string
	DisplayName string
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches hash. A corrupt hash yields
	// false together with domain.ErrMalformedHash.
	Verify(plaintext, hash string) (bool, error)
}

// TokenService issues and checks bearer tokens.
type TokenService interface {
	Issue(username string) (string, error)
	Validate(token string) bool
	// ExtractUsername is only meaningful for tokens that passed Validate.
	ExtractUsername(token string) string
	LookupAccount(ctx context.Context, username string) (*domain.Credential, error)
}

// AuthService is the authentication facade consumed by the HTTP layer.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Credential, error)
	// Login issues a token for a known username. It does not check the
	// password; callers run VerifyCredentials first.
	Login(ctx context.Context, username string) (string, error)
	VerifyCredentials(ctx context.Context, username, password string) (*domain.Credential, error)
	ValidateToken(token string) bool
	GetAccountByToken(ctx context.Context, token string) (*domain.Credential, error)
	ChangePassword(ctx context.Context, username, newPassword string) error
}
