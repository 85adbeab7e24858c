package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/freelanza/freelanza-backend/internal/core/domain"
	"github.com/freelanza/freelanza-backend/internal/core/ports"
)

const defaultTokenTTL = 30 * time.Minute

// TokenConfig holds the immutable signing settings, loaded once at startup.
type TokenConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// JWTTokenService issues HS256 tokens whose subject is the username.
type JWTTokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
	repo   ports.CredentialRepository
}

func NewTokenService(cfg TokenConfig, repo ports.CredentialRepository) (*JWTTokenService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token service: signing secret must be provided")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &JWTTokenService{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    ttl,
		now:    time.Now,
		repo:   repo,
	}, nil
}

// WithClock replaces the time source used for issuing and validating tokens.
func (s *JWTTokenService) WithClock(now func() time.Time) *JWTTokenService {
	s.now = now
	return s
}

func (s *JWTTokenService) Issue(username string) (string, error) {
	if username == "" {
		return "", domain.ErrInvalidInput
	}
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Validate reports whether token is well formed, signed with our key and not
// yet expired. Every failure collapses to false.
func (s *JWTTokenService) Validate(token string) bool {
	_, ok := s.parse(token)
	return ok
}

func (s *JWTTokenService) ExtractUsername(token string) string {
	claims, ok := s.parse(token)
	if !ok {
		return ""
	}
	return claims.Subject
}

func (s *JWTTokenService) LookupAccount(ctx context.Context, username string) (*domain.Credential, error) {
	return s.repo.FindByUsername(ctx, username)
}

func (s *JWTTokenService) parse(token string) (*jwt.RegisteredClaims, bool) {
	if token == "" {
		return nil, false
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return nil, false
	}
	return claims, true
}
