package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/freelanza/freelanza-backend/internal/core/domain"
	"github.com/freelanza/freelanza-backend/internal/core/ports"
	"github.com/freelanza/freelanza-backend/internal/pkg/metrics"
)

// AuthService implements registration, login and token-backed account lookup.
type AuthService struct {
	repo        ports.CredentialRepository
	hasher      ports.PasswordHasher
	tokens      ports.TokenService
	provisioner *Provisioner
	log         zerolog.Logger
}

func NewAuthService(
	repo ports.CredentialRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenService,
	provisioner *Provisioner,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		repo:        repo,
		hasher:      hasher,
		tokens:      tokens,
		provisioner: provisioner,
		log:         log,
	}
}

// Register saves a new credential and provisions its profile.
//
// The credential and the profile are not written atomically. When profile
// creation fails the credential is kept and Register still succeeds; the
// Provisioner logs the failure.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Credential, error) {
	username := domain.NormalizeUsername(in.Username)
	if username == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrCredentialNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.repo.Save(ctx, &domain.Credential{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}
	metrics.RegistrationsTotal.WithLabelValues(role.String()).Inc()

	profileErr := s.provisioner.Provision(ctx, created, in.DisplayName)
	s.log.Info().
		Str("username", created.Username).
		Str("role", role.String()).
		Bool("profile_created", profileErr == nil).
		Msg("user registered")
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, username string) (string, error) {
	username = domain.NormalizeUsername(username)
	if _, err := s.repo.FindByUsername(ctx, username); err != nil {
		metrics.TokensIssuedTotal.WithLabelValues("unknown_user").Inc()
		return "", err
	}
	token, err := s.tokens.Issue(username)
	if err != nil {
		return "", err
	}
	metrics.TokensIssuedTotal.WithLabelValues("issued").Inc()
	return token, nil
}

func (s *AuthService) VerifyCredentials(ctx context.Context, username, password string) (*domain.Credential, error) {
	username = domain.NormalizeUsername(username)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	cred, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	ok, err := s.hasher.Verify(password, cred.PasswordHash)
	if err != nil {
		s.log.Error().Err(err).Str("username", username).Msg("password verification failed")
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	return cred, nil
}

func (s *AuthService) ValidateToken(token string) bool {
	valid := s.tokens.Validate(token)
	metrics.TokenValidationsTotal.WithLabelValues(validationResult(valid)).Inc()
	return valid
}

func (s *AuthService) GetAccountByToken(ctx context.Context, token string) (*domain.Credential, error) {
	if !s.ValidateToken(token) {
		return nil, domain.ErrUnauthorized
	}
	return s.tokens.LookupAccount(ctx, s.tokens.ExtractUsername(token))
}

func (s *AuthService) ChangePassword(ctx context.Context, username, newPassword string) error {
	username = domain.NormalizeUsername(username)
	if newPassword == "" {
		return domain.ErrInvalidInput
	}
	cred, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	cred.PasswordHash = hash
	cred.UpdatedAt = time.Now().UTC()
	if _, err := s.repo.Save(ctx, cred); err != nil {
		return err
	}
	s.log.Info().Str("username", username).Msg("password changed")
	return nil
}

func validationResult(valid bool) string {
	if valid {
		return "valid"
	}
	return "invalid"
}
