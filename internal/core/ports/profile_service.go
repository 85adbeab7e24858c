package ports

import (
	"context"

	"github.com/freelanza/freelanza-backend/internal/core/domain"
)

// ProfileCreator is the entry point the provisioner calls once per
// registration. Callers do not guarantee idempotency.
type ProfileCreator interface {
	CreateProfile(ctx context.Context, username, displayName string) error
}

type ClientService interface {
	ProfileCreator
	GetClient(ctx context.Context, username string) (*domain.Client, error)
}

type FreelancerService interface {
	ProfileCreator
	GetFreelancer(ctx context.Context, username string) (*domain.Freelancer, error)
}

// ProvisionJob is a profile creation that failed during registration and is
// retried in the background.
type ProvisionJob struct {
	Username    string
	Role        domain.Role
	DisplayName string
}

// ProvisionRetrier accepts failed provisioning jobs. Enqueue never blocks and
// reports false when the job was dropped.
type ProvisionRetrier interface {
	Enqueue(job ProvisionJob) bool
}

// Reprovisioner runs a retried provisioning job.
type Reprovisioner interface {
	Reprovision(ctx context.Context, job ProvisionJob) error
}
