package domain

import "errors"

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrCredentialNotFound = errors.New("user not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrMalformedHash      = errors.New("stored password hash is malformed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidRole        = errors.New("invalid role")

	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists")
)
