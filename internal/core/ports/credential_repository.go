package ports

import (
	"context"

	"github.com/freelanza/freelanza-backend/internal/core/domain"
)

// CredentialRepository persists account credentials. Implementations must
// enforce username uniqueness and report violations as domain.ErrUsernameTaken.
type CredentialRepository interface {
	// FindByUsername returns domain.ErrCredentialNotFound when no account matches.
	FindByUsername(ctx context.Context, username string) (*domain.Credential, error)
	// Save inserts the credential when ID is zero, otherwise replaces the
	// stored record with the same ID.
	Save(ctx context.Context, cred *domain.Credential) (*domain.Credential, error)
}
