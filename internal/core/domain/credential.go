package domain

import (
	"strings"
	"time"
)

// Role is the account variant declared at registration.
type Role string

const (
	RoleClient     Role = "CLIENT"
	RoleFreelancer Role = "FREELANCER"
)

// Roles lists every supported role.
var Roles = []Role{RoleClient, RoleFreelancer}

// ParseRole normalises s and reports whether it names a known role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RoleClient, RoleFreelancer:
		return r, nil
	}
	return "", ErrInvalidRole
}

func (r Role) String() string { return string(r) }

// NormalizeUsername is applied to every username entering the core so that
// registration, login and lookups agree on the stored key.
func NormalizeUsername(s string) string {
	return strings.TrimSpace(s)
}

// Credential is the stored username / password-hash / role triple of an account.
// PasswordHash never holds plaintext once the credential has been saved.
type Credential struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
