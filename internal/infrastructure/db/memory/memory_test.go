package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/restaurant/storage-tracker/internal/core/domain"
)

func TestKeyValueStore(t *testing.T) {
	ctx := context.Background()
	s := NewKeyValueStore()

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)

	buf := []byte("v1")
	require.NoError(t, s.Set(ctx, "k", buf))
	buf[0] = 'x'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got))

	require.NoError(t, s.Delete(ctx, "k"))
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
	assert.NoError(t, s.Ping(ctx))
}

func TestDemoCredentialStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewDemoCredentialStore(bcrypt.MinCost)
	require.NoError(t, err)

	c, err := s.FindByEmail(ctx, "manager@restaurant.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, c.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(c.SecretHash), []byte(DemoSecret)))

	_, err = s.FindByEmail(ctx, "ghost@restaurant.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	for _, email := range []string{"Manager@Restaurant.com", " manager@restaurant.com", "manager@restaurant.com "} {
		_, err = s.FindByEmail(ctx, email)
		assert.ErrorIs(t, err, domain.ErrUserNotFound, email)
	}
}

func TestCredentialStore_CreateRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	s := NewCredentialStore()
	cred := &domain.Credential{Identity: domain.Identity{ID: "x", Email: "a@b.c", Role: domain.RoleEmployee}, SecretHash: "h"}

	created, err := s.Create(ctx, cred)
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", created.Email)

	_, err = s.Create(ctx, cred)
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestCredentialStore_EmailIsExact(t *testing.T) {
	ctx := context.Background()
	s, err := NewDemoCredentialStore(bcrypt.MinCost)
	require.NoError(t, err)

	created, err := s.Create(ctx, &domain.Credential{
		Identity:   domain.Identity{ID: "3", Email: "Employee@restaurant.com", Role: domain.RoleEmployee},
		SecretHash: "h",
	})
	require.NoError(t, err)
	assert.Equal(t, "Employee@restaurant.com", created.Email)

	lower, err := s.FindByEmail(ctx, "employee@restaurant.com")
	require.NoError(t, err)
	assert.Equal(t, "2", lower.ID)

	upper, err := s.FindByEmail(ctx, "Employee@restaurant.com")
	require.NoError(t, err)
	assert.Equal(t, "3", upper.ID)
}
