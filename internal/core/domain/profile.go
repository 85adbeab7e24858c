package domain

import "time"

// Client is the profile created for accounts registered with RoleClient.
type Client struct {
	ID                string    `json:"id"`
	Username          string    `json:"username"`
	Name              string    `json:"name"`
	ProfessionalTitle string    `json:"professional_title,omitempty"`
	Skills            []string  `json:"skills,omitempty"`
	Location          string    `json:"location,omitempty"`
	Bio               string    `json:"bio,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// Freelancer is the profile created for accounts registered with RoleFreelancer.
type Freelancer struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Name       string    `json:"name"`
	Location   string    `json:"location,omitempty"`
	HourlyRate float64   `json:"hourly_rate,omitempty"`
	Skills     []string  `json:"skills,omitempty"`
	Bio        string    `json:"bio,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
