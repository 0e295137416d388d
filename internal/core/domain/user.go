package domain

import "errors"

// Role is the access level of an identity.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrUnauthenticated    = errors.New("no active session")
)

// Identity is the authenticated principal of the current session.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// Credential is a known login record. SecretHash is a bcrypt hash and never
// leaves the credential store.
type Credential struct {
	Identity
	SecretHash string `json:"-"`
}
