package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/freelanza/freelanza-backend/internal/core/domain"
	"github.com/freelanza/freelanza-backend/internal/core/ports"
)

// ClientService owns client profiles.
type ClientService struct {
	repo   ports.ClientRepository
	logger zerolog.Logger
}

func NewClientService(repo ports.ClientRepository, logger zerolog.Logger) *ClientService {
	return &ClientService{repo: repo, logger: logger}
}

// CreateProfile creates the client profile for username. An empty display
// name falls back to the username.
func (s *ClientService) CreateProfile(ctx context.Context, username, displayName string) error {
	created, err := s.repo.Create(ctx, &domain.Client{
		Username:  username,
		Name:      profileName(username, displayName),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	s.logger.Info().Str("username", username).Str("client_id", created.ID).Msg("client profile created")
	return nil
}

func (s *ClientService) GetClient(ctx context.Context, username string) (*domain.Client, error) {
	return s.repo.FindByUsername(ctx, username)
}

// FreelancerService owns freelancer profiles.
type FreelancerService struct {
	repo   ports.FreelancerRepository
	logger zerolog.Logger
}

func NewFreelancerService(repo ports.FreelancerRepository, logger zerolog.Logger) *FreelancerService {
	return &FreelancerService{repo: repo, logger: logger}
}

func (s *FreelancerService) CreateProfile(ctx context.Context, username, displayName string) error {
	created, err := s.repo.Create(ctx, &domain.Freelancer{
		Username:  username,
		Name:      profileName(username, displayName),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	s.logger.Info().Str("username", username).Str("freelancer_id", created.ID).Msg("freelancer profile created")
	return nil
}

func (s *FreelancerService) GetFreelancer(ctx context.Context, username string) (*domain.Freelancer, error) {
	return s.repo.FindByUsername(ctx, username)
}

func profileName(username, displayName string) string {
	if name := strings.TrimSpace(displayName); name != "" {
		return name
	}
	return username
}
