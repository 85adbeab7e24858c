package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freelanza/freelanza-backend/internal/core/domain"
	"github.com/freelanza/freelanza-backend/internal/core/ports"
)

// fakeAuth accepts "<username>-token" for the accounts it knows.
type fakeAuth struct {
	accounts map[string]*domain.Credential
}

func (f *fakeAuth) Register(_ context.Context, in ports.RegisterInput) (*domain.Credential, error) {
	if _, ok := f.accounts[in.Username]; ok {
		return nil, domain.ErrUsernameTaken
	}
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}
	cred := &domain.Credential{ID: int64(len(f.accounts) + 1), Username: in.Username, Role: role}
	f.accounts[in.Username] = cred
	return cred, nil
}

func (f *fakeAuth) Login(_ context.Context, username string) (string, error) {
	if _, ok := f.accounts[username]; !ok {
		return "", domain.ErrCredentialNotFound
	}
	return username + "-token", nil
}

func (f *fakeAuth) VerifyCredentials(_ context.Context, username, password string) (*domain.Credential, error) {
	cred, ok := f.accounts[username]
	if !ok || password != "pw" {
		return nil, domain.ErrInvalidCredentials
	}
	return cred, nil
}

func (f *fakeAuth) ValidateToken(token string) bool {
	_, err := f.GetAccountByToken(context.Background(), token)
	return err == nil
}

func (f *fakeAuth) GetAccountByToken(_ context.Context, token string) (*domain.Credential, error) {
	username, ok := strings.CutSuffix(token, "-token")
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	cred, ok := f.accounts[username]
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return cred, nil
}

func (f *fakeAuth) ChangePassword(_ context.Context, username, _ string) error {
	if _, ok := f.accounts[username]; !ok {
		return domain.ErrCredentialNotFound
	}
	return nil
}

type fakeProfiles struct{}

func (fakeProfiles) CreateProfile(context.Context, string, string) error { return nil }

func (fakeProfiles) GetClient(_ context.Context, username string) (*domain.Client, error) {
	return &domain.Client{ID: "c-" + username, Username: username, Name: username}, nil
}

func (fakeProfiles) GetFreelancer(_ context.Context, username string) (*domain.Freelancer, error) {
	return nil, domain.ErrProfileNotFound
}

func newTestRouter(ratePerMinute int) *echo.Echo {
	auth := &fakeAuth{accounts: map[string]*domain.Credential{
		"acme":  {ID: 1, Username: "acme", Role: domain.RoleClient},
		"alice": {ID: 2, Username: "alice", Role: domain.RoleFreelancer},
	}}
	return NewRouter(Dependencies{
		Auth:               auth,
		Clients:            fakeProfiles{},
		Freelancers:        fakeProfiles{},
		Logger:             zerolog.Nop(),
		Metrics:            prometheus.NewRegistry(),
		LoginRatePerMinute: ratePerMinute,
	})
}

func do(e *echo.Echo, method, target, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_RegisterAndLogin(t *testing.T) {
	e := newTestRouter(0)

	rec := do(e, http.MethodPost, "/v1/auth/register", `{"username":"bob","password":"pw","role":"client"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(e, http.MethodPost, "/v1/auth/register", `{"username":"bob","password":"pw","role":"CLIENT"}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(e, http.MethodPost, "/v1/auth/register", `{"username":"eve","password":"pw","role":"ADMIN"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodPost, "/v1/auth/token", `{"username":"bob","password":"pw"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token":"bob-token"`)

	rec = do(e, http.MethodPost, "/v1/auth/token", `{"username":"bob","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodGet, "/v1/auth/me", "", "bob-token")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"bob"`)
}

func TestRouter_ProtectedRoutes(t *testing.T) {
	e := newTestRouter(0)

	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/v1/auth/me", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/v1/clients/acme", "", "forged").Code)

	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/v1/clients/me", "", "acme-token").Code)
	assert.Equal(t, http.StatusForbidden, do(e, http.MethodGet, "/v1/clients/me", "", "alice-token").Code)
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/v1/clients/acme", "", "alice-token").Code)
	assert.Equal(t, http.StatusNotFound, do(e, http.MethodGet, "/v1/freelancers/me", "", "alice-token").Code)

	rec := do(e, http.MethodPut, "/v1/auth/password", `{"new_password":"fresh"}`, "acme-token")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_ValidateToken(t *testing.T) {
	e := newTestRouter(0)

	assert.Contains(t, do(e, http.MethodGet, "/v1/auth/validate?token=acme-token", "", "").Body.String(), `"valid":true`)
	assert.Contains(t, do(e, http.MethodGet, "/v1/auth/validate?token=junk", "", "").Body.String(), `"valid":false`)
}

func TestRouter_TokenEndpointIsRateLimited(t *testing.T) {
	e := newTestRouter(2)

	for i := 0; i < 2; i++ {
		rec := do(e, http.MethodPost, "/v1/auth/token", `{"username":"acme","password":"nope"}`, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec := do(e, http.MethodPost, "/v1/auth/token", `{"username":"acme","password":"pw"}`, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Other endpoints are not throttled.
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/v1/auth/validate?token=x", "", "").Code)
}

func TestRouter_OpsEndpoints(t *testing.T) {
	e := newTestRouter(0)
	do(e, http.MethodGet, "/v1/auth/validate?token=x", "", "")

	rec := do(e, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "freelanza_http_requests_total")

	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/swagger/doc.json", "", "").Code)

	rec = do(e, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not Found"}`, rec.Body.String())
}
