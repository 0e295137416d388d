package ports

import (
	"context"

	"github.com/restaurant/storage-tracker/internal/core/domain"
)

// CredentialStore holds the known login records.
// FindByEmail returns domain.ErrUserNotFound and Create returns
// domain.ErrUserExists when the email is already registered.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*domain.Credential, error)
	Create(ctx context.Context, cred *domain.Credential) (*domain.Credential, error)
}
