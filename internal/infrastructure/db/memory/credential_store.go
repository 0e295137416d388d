package memory

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/restaurant/storage-tracker/internal/core/domain"
)

// DemoSecret is the password of both demo accounts.
const DemoSecret = "password123"

// CredentialStore holds login records for the lifetime of the process,
// keyed by the exact email.
// Registered accounts are lost on restart.
type CredentialStore struct {
	mu    sync.RWMutex
	creds map[string]domain.Credential
}

// NewCredentialStore returns an empty store.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{creds: make(map[string]domain.Credential)}
}

// NewDemoCredentialStore returns a store holding the manager and employee
// demo accounts.
func NewDemoCredentialStore(cost int) (*CredentialStore, error) {
	creds, err := DemoCredentials(cost)
	if err != nil {
		return nil, err
	}
	s := NewCredentialStore()
	for _, c := range creds {
		s.creds[c.Email] = c
	}
	return s, nil
}

// DemoCredentials hashes DemoSecret for every demo identity. Other credential
// backends seed themselves from it.
func DemoCredentials(cost int) ([]domain.Credential, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoSecret), cost)
	if err != nil {
		return nil, fmt.Errorf("hash demo secret: %w", err)
	}
	ids := DemoIdentities()
	creds := make([]domain.Credential, len(ids))
	for i, id := range ids {
		creds[i] = domain.Credential{Identity: id, SecretHash: string(hash)}
	}
	return creds, nil
}

// DemoIdentities lists the built-in accounts.
func DemoIdentities() []domain.Identity {
	return []domain.Identity{
		{ID: "1", Email: "manager@restaurant.com", Name: "John Manager", Role: domain.RoleManager},
		{ID: "2", Email: "employee@restaurant.com", Name: "Jane Employee", Role: domain.RoleEmployee},
	}
}

func (s *CredentialStore) FindByEmail(_ context.Context, email string) (*domain.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.creds[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &c, nil
}

func (s *CredentialStore) Create(_ context.Context, cred *domain.Credential) (*domain.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.creds[cred.Email]; exists {
		return nil, domain.ErrUserExists
	}
	s.creds[cred.Email] = *cred
	c := *cred
	return &c, nil
}
