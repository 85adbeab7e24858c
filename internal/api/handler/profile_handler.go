package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/freelanza/freelanza-backend/internal/core/ports"
)

// ProfileHandler serves the client and freelancer profiles created at registration.
type ProfileHandler struct {
	clients     ports.ClientService
	freelancers ports.FreelancerService
}

func NewProfileHandler(clients ports.ClientService, freelancers ports.FreelancerService) *ProfileHandler {
	return &ProfileHandler{clients: clients, freelancers: freelancers}
}

// ClientMe handles GET /v1/clients/me.
//
// @Summary      Own client profile
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  clientResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/clients/me [get]
func (h *ProfileHandler) ClientMe(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}
	return h.writeClient(c, username)
}

// GetClient handles GET /v1/clients/:username.
//
// @Summary      Client profile by username
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Account username"
// @Success      200       {object}  clientResponse
// @Failure      404       {object}  map[string]string
// @Router       /v1/clients/{username} [get]
func (h *ProfileHandler) GetClient(c echo.Context) error {
	return h.writeClient(c, c.Param("username"))
}

// FreelancerMe handles GET /v1/freelancers/me.
//
// @Summary      Own freelancer profile
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  freelancerResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/freelancers/me [get]
func (h *ProfileHandler) FreelancerMe(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}
	return h.writeFreelancer(c, username)
}

// GetFreelancer handles GET /v1/freelancers/:username.
//
// @Summary      Freelancer profile by username
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Account username"
// @Success      200       {object}  freelancerResponse
// @Failure      404       {object}  map[string]string
// @Router       /v1/freelancers/{username} [get]
func (h *ProfileHandler) GetFreelancer(c echo.Context) error {
	return h.writeFreelancer(c, c.Param("username"))
}

func (h *ProfileHandler) writeClient(c echo.Context, username string) error {
	client, err := h.clients.GetClient(c.Request().Context(), username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toClientResponse(client))
}

func (h *ProfileHandler) writeFreelancer(c echo.Context, username string) error {
	freelancer, err := h.freelancers.GetFreelancer(c.Request().Context(), username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toFreelancerResponse(freelancer))
}
