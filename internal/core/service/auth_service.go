package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/restaurant/storage-tracker/internal/core/domain"
	"github.com/restaurant/storage-tracker/internal/core/ports"
)

// SessionService implements login, registration and logout for the single
// session of the process. The current identity is mirrored to durable storage
// under SessionKey.
type SessionService struct {
	creds     ports.CredentialStore
	kv        ports.KeyValueStore
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger

	mu      sync.RWMutex
	loading bool
	current *domain.Identity

	subMu   sync.Mutex
	subs    map[int]func(*domain.Identity)
	nextSub int
}

func NewSessionService(creds ports.CredentialStore, kv ports.KeyValueStore, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *SessionService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &SessionService{
		creds:     creds,
		kv:        kv,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
		loading:   true,
		subs:      make(map[int]func(*domain.Identity)),
	}
}

// Init restores a previously persisted identity. Unreadable or malformed data
// is treated as no stored identity.
func (s *SessionService) Init(ctx context.Context) {
	var restored *domain.Identity

	data, err := s.kv.Get(ctx, SessionKey)
	switch {
	case err == nil:
		var id domain.Identity
		if err := json.Unmarshal(data, &id); err != nil || id.Email == "" {
			s.log.Warn().Err(err).Msg("ignoring malformed stored session")
		} else {
			restored = &id
		}
	case !errors.Is(err, domain.ErrKeyNotFound):
		s.log.Error().Err(err).Msg("failed to read stored session")
	}

	s.mu.Lock()
	s.current = restored
	s.loading = false
	s.mu.Unlock()

	if restored != nil {
		s.log.Info().Str("email", restored.Email).Msg("session restored")
	}
	s.notify(restored)
}

// IsLoading reports whether Init has not completed yet.
func (s *SessionService) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Current returns the identity of the active session, if any.
func (s *SessionService) Current() (domain.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return domain.Identity{}, false
	}
	return *s.current, true
}

// Login matches email and secret exactly against the credential store. A mismatch
// returns domain.ErrInvalidCredentials and leaves the session untouched.
func (s *SessionService) Login(ctx context.Context, email, secret string) (string, *domain.Identity, error) {
	if email == "" || secret == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	cred, err := s.creds.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(cred.SecretHash), []byte(secret)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	id := cred.Identity
	token, err := s.generateToken(id)
	if err != nil {
		return "", nil, err
	}

	s.setCurrent(ctx, &id)
	return token, &id, nil
}

// Register creates an employee credential and makes it the current session.
// An email that is already known returns domain.ErrUserExists.
func (s *SessionService) Register(ctx context.Context, email, secret, name string) (string, *domain.Identity, error) {
	if email == "" || secret == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	if _, err := s.creds.FindByEmail(ctx, email); err == nil {
		return "", nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	created, err := s.creds.Create(ctx, &domain.Credential{
		Identity: domain.Identity{
			ID:    uuid.NewString(),
			Email: email,
			Name:  name,
			Role:  domain.RoleEmployee,
		},
		SecretHash: string(hash),
	})
	if err != nil {
		return "", nil, err
	}

	id := created.Identity
	token, err := s.generateToken(id)
	if err != nil {
		return "", nil, err
	}

	s.setCurrent(ctx, &id)
	return token, &id, nil
}

// Logout clears the session and its stored copy.
func (s *SessionService) Logout(ctx context.Context) {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := s.kv.Delete(ctx, SessionKey); err != nil && !errors.Is(err, domain.ErrKeyNotFound) {
		s.log.Error().Err(err).Msg("failed to remove stored session")
	}
	s.notify(nil)
}

// Subscribe registers fn to be called with the new identity, or nil on
// logout, after every session change.
func (s *SessionService) Subscribe(fn func(*domain.Identity)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

// setCurrent swaps the session identity. Storage failures are logged only.
func (s *SessionService) setCurrent(ctx context.Context, id *domain.Identity) {
	s.mu.Lock()
	s.current = id
	s.mu.Unlock()

	data, err := json.Marshal(id)
	if err == nil {
		err = s.kv.Set(ctx, SessionKey, data)
	}
	if err != nil {
		s.log.Error().Err(err).Str("email", id.Email).Msg("failed to persist session")
	}

	s.log.Info().Str("email", id.Email).Str("role", string(id.Role)).Msg("session started")
	s.notify(id)
}

func (s *SessionService) notify(id *domain.Identity) {
	s.subMu.Lock()
	fns := make([]func(*domain.Identity), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		if id == nil {
			fn(nil)
			continue
		}
		cp := *id
		fn(&cp)
	}
}

func (s *SessionService) generateToken(id domain.Identity) (string, error) {
	claims := jwt.MapClaims{
		"sub":   id.ID,
		"email": id.Email,
		"name":  id.Name,
		"role":  string(id.Role),
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
