package handler

import "time"

// --- Request types ---

type registerRequest struct {
	Username    string `json:"username"     validate:"required,max=64"`
	Password    string `json:"password"     validate:"required,max=72"`
	Role        string `json:"role"         validate:"required"`
	DisplayName string `json:"display_name" validate:"max=128"`
}

type tokenRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,max=72"`
}

// --- Response types ---

type credentialResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type registerResponse struct {
	Message    string             `json:"message"`
	Credential credentialResponse `json:"credential"`
}

type tokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
}

type validateResponse struct {
	Valid bool `json:"valid"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type clientResponse struct {
	ID                string    `json:"id"`
	Username          string    `json:"username"`
	Name              string    `json:"name"`
	ProfessionalTitle string    `json:"professional_title,omitempty"`
	Skills            []string  `json:"skills"`
	Location          string    `json:"location,omitempty"`
	Bio               string    `json:"bio,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

type freelancerResponse struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Name       string    `json:"name"`
	Location   string    `json:"location,omitempty"`
	HourlyRate float64   `json:"hourly_rate"`
	Skills     []string  `json:"skills"`
	Bio        string    `json:"bio,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
