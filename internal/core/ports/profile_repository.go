package ports

import (
	"context"

	"github.com/freelanza/freelanza-backend/internal/core/domain"
)

// ClientRepository persists client profiles keyed by username.
type ClientRepository interface {
	Create(ctx context.Context, c *domain.Client) (*domain.Client, error)
	FindByUsername(ctx context.Context, username string) (*domain.Client, error)
}

// FreelancerRepository persists freelancer profiles keyed by username.
type FreelancerRepository interface {
	Create(ctx context.Context, f *domain.Freelancer) (*domain.Freelancer, error)
	FindByUsername(ctx context.Context, username string) (*domain.Freelancer, error)
}
