package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/freelanza/freelanza-backend/internal/core/domain"
	"github.com/freelanza/freelanza-backend/internal/core/ports"
	"github.com/freelanza/freelanza-backend/internal/pkg/metrics"
)

// Provisioner creates the role-matched profile for a freshly saved credential.
type Provisioner struct {
	creators map[domain.Role]ports.ProfileCreator
	retrier  ports.ProvisionRetrier
	log      zerolog.Logger
}

// NewProvisioner builds the role → profile creator table.
func NewProvisioner(clients, freelancers ports.ProfileCreator, log zerolog.Logger) *Provisioner {
	return &Provisioner{
		creators: map[domain.Role]ports.ProfileCreator{
			domain.RoleClient:     clients,
			domain.RoleFreelancer: freelancers,
		},
		log: log,
	}
}

// SetRetrier hands failed provisioning jobs to r. Without a retrier a failed
// profile stays missing.
func (p *Provisioner) SetRetrier(r ports.ProvisionRetrier) {
	p.retrier = r
}

// Provision calls the creator registered for cred.Role exactly once. On
// failure the job is queued for retry when a retrier is set, and the failure
// is logged here and only here.
func (p *Provisioner) Provision(ctx context.Context, cred *domain.Credential, displayName string) error {
	creator, ok := p.creators[cred.Role]
	if !ok || creator == nil {
		return fmt.Errorf("provision %s: %w", cred.Username, domain.ErrInvalidRole)
	}
	if err := creator.CreateProfile(ctx, cred.Username, displayName); err != nil {
		metrics.ProfileProvisioningFailuresTotal.WithLabelValues(cred.Role.String()).Inc()
		queued := false
		if p.retrier != nil {
			queued = p.retrier.Enqueue(ports.ProvisionJob{
				Username:    cred.Username,
				Role:        cred.Role,
				DisplayName: displayName,
			})
		}
		p.log.Error().Err(err).
			Str("username", cred.Username).
			Str("role", cred.Role.String()).
			Bool("queued", queued).
			Msg("profile provisioning failed; credential kept")
		return fmt.Errorf("provision %s profile for %s: %w", cred.Role, cred.Username, err)
	}
	p.log.Debug().Str("username", cred.Username).Str("role", cred.Role.String()).Msg("profile provisioned")
	return nil
}

// Reprovision runs a queued job. A profile that already exists counts as
// done, since the first attempt may have written it before failing.
func (p *Provisioner) Reprovision(ctx context.Context, job ports.ProvisionJob) error {
	creator, ok := p.creators[job.Role]
	if !ok || creator == nil {
		return fmt.Errorf("reprovision %s: %w", job.Username, domain.ErrInvalidRole)
	}
	err := creator.CreateProfile(ctx, job.Username, job.DisplayName)
	if err != nil && !errors.Is(err, domain.ErrProfileExists) {
		return fmt.Errorf("reprovision %s profile for %s: %w", job.Role, job.Username, err)
	}
	p.log.Info().Str("username", job.Username).Str("role", job.Role.String()).Msg("profile provisioned on retry")
	return nil
}
