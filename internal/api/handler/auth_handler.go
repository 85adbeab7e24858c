package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/freelanza/freelanza-backend/internal/api/middleware"
	"github.com/freelanza/freelanza-backend/internal/core/domain"
	"github.com/freelanza/freelanza-backend/internal/core/ports"
)

// AuthHandler exposes the authentication facade over HTTP.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new account and provisions its profile.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /v1/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cred, err := h.authService.Register(c.Request().Context(), toRegisterInput(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{
		Message:    "User registered successfully",
		Credential: toCredentialResponse(cred),
	})
}

// Token verifies a username/password pair and issues a bearer token.
//
// @Summary      Issue a token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      tokenRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /v1/auth/token [post]
func (h *AuthHandler) Token(c echo.Context) error {
	var req tokenRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	cred, err := h.authService.VerifyCredentials(ctx, req.Username, req.Password)
	if errors.Is(err, domain.ErrCredentialNotFound) {
		// Unknown usernames look like wrong passwords to the caller.
		return domain.ErrInvalidCredentials
	}
	if err != nil {
		return err
	}

	token, err := h.authService.Login(ctx, cred.Username)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tokenResponse{Token: token, TokenType: "Bearer"})
}

// Validate reports whether a token is currently valid.
//
// @Summary      Validate a token
// @Tags         auth
// @Produce      json
// @Param        token  query     string  true  "Bearer token"
// @Success      200    {object}  validateResponse
// @Router       /v1/auth/validate [get]
func (h *AuthHandler) Validate(c echo.Context) error {
	return c.JSON(http.StatusOK, validateResponse{
		Valid: h.authService.ValidateToken(c.QueryParam("token")),
	})
}

// Me returns the account behind the bearer token.
//
// @Summary      Current account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  credentialResponse
// @Failure      401  {object}  map[string]string
// @Router       /v1/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	cred, ok := c.Get(middleware.CtxAccount).(*domain.Credential)
	if !ok || cred == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return c.JSON(http.StatusOK, toCredentialResponse(cred))
}

// ChangePassword replaces the password of the authenticated account.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "New password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/auth/password [put]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.authService.ChangePassword(c.Request().Context(), username, req.NewPassword); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Password changed successfully"})
}
