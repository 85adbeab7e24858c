package handler

import (
	"github.com/freelanza/freelanza-backend/internal/core/domain"
	"github.com/freelanza/freelanza-backend/internal/core/ports"
)

// --- Request → Service input ---

func toRegisterInput(req registerRequest) ports.RegisterInput {
	return ports.RegisterInput{
		Username:    req.Username,
		Password:    req.Password,
		Role:        req.Role,
		DisplayName: req.DisplayName,
	}
}

// --- Domain → Response ---

// toCredentialResponse never carries the password hash.
func toCredentialResponse(c *domain.Credential) credentialResponse {
	return credentialResponse{
		ID:        c.ID,
		Username:  c.Username,
		Role:      c.Role.String(),
		CreatedAt: c.CreatedAt,
	}
}

func toClientResponse(c *domain.Client) clientResponse {
	return clientResponse{
		ID:                c.ID,
		Username:          c.Username,
		Name:              c.Name,
		ProfessionalTitle: c.ProfessionalTitle,
		Skills:            nonNil(c.Skills),
		Location:          c.Location,
		Bio:               c.Bio,
		CreatedAt:         c.CreatedAt,
	}
}

func toFreelancerResponse(f *domain.Freelancer) freelancerResponse {
	return freelancerResponse{
		ID:         f.ID,
		Username:   f.Username,
		Name:       f.Name,
		Location:   f.Location,
		HourlyRate: f.HourlyRate,
		Skills:     nonNil(f.Skills),
		Bio:        f.Bio,
		CreatedAt:  f.CreatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
