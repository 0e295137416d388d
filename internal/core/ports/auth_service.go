package ports

import (
	"context"

	"github.com/restaurant/storage-tracker/internal/core/domain"
)

// SessionService holds the single current identity of the process.
type SessionService interface {
	Init(ctx context.Context)
	IsLoading() bool
	Current() (domain.Identity, bool)
	Login(ctx context.Context, email, secret string) (string, *domain.Identity, error)
	Register(ctx context.Context, email, secret, name string) (string, *domain.Identity, error)
	Logout(ctx context.Context)
	Subscribe(fn func(*domain.Identity)) (cancel func())
}
