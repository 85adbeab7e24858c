package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/freelanza/freelanza-backend/internal/core/domain"
)

// Context keys set by Auth for downstream handlers.
const (
	CtxUsername = "username"
	CtxRole     = "role"
	CtxAccount  = "account"
)

// AccountResolver resolves a bearer token into the account it was issued to.
type AccountResolver interface {
	GetAccountByToken(ctx context.Context, token string) (*domain.Credential, error)
}

// Auth validates the bearer token and injects the account identity into context.
func Auth(accounts AccountResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			cred, err := accounts.GetAccountByToken(c.Request().Context(), strings.TrimSpace(parts[1]))
			if err != nil {
				// A signed token for a deleted account is as good as no token.
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(CtxUsername, cred.Username)
			c.Set(CtxRole, cred.Role)
			c.Set(CtxAccount, cred)

			return next(c)
		}
	}
}
