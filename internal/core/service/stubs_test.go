package service

import (
	"context"
	"errors"
	"sync"

	"github.com/freelanza/freelanza-backend/internal/core/domain"
)

type stubCredentialRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.Credential
	nextID int64
	saves  int
}

func newStubCredentialRepo() *stubCredentialRepo {
	return &stubCredentialRepo{users: make(map[string]*domain.Credential)}
}

func cloneCredential(c *domain.Credential) *domain.Credential {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

func (r *stubCredentialRepo) FindByUsername(_ context.Context, username string) (*domain.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrCredentialNotFound
	}
	return cloneCredential(u), nil
}

func (r *stubCredentialRepo) Save(_ context.Context, cred *domain.Credential) (*domain.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	copy := cloneCredential(cred)
	if copy.ID == 0 {
		if _, exists := r.users[copy.Username]; exists {
			return nil, domain.ErrUsernameTaken
		}
		r.nextID++
		copy.ID = r.nextID
	}
	r.users[copy.Username] = cloneCredential(copy)
	return cloneCredential(copy), nil
}

type profileCall struct {
	username    string
	displayName string
}

type stubProfileCreator struct {
	err   error
	calls []profileCall
}

func (c *stubProfileCreator) CreateProfile(_ context.Context, username, displayName string) error {
	c.calls = append(c.calls, profileCall{username: username, displayName: displayName})
	return c.err
}

type stubClientRepo struct {
	byUsername map[string]*domain.Client
}

func (r *stubClientRepo) Create(_ context.Context, c *domain.Client) (*domain.Client, error) {
	if _, ok := r.byUsername[c.Username]; ok {
		return nil, domain.ErrProfileExists
	}
	copy := *c
	copy.ID = "client-" + c.Username
	r.byUsername[c.Username] = &copy
	return &copy, nil
}

func (r *stubClientRepo) FindByUsername(_ context.Context, username string) (*domain.Client, error) {
	c, ok := r.byUsername[username]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return c, nil
}

type stubFreelancerRepo struct {
	byUsername map[string]*domain.Freelancer
	createErr  error
}

func (r *stubFreelancerRepo) Create(_ context.Context, f *domain.Freelancer) (*domain.Freelancer, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	copy := *f
	copy.ID = "freelancer-" + f.Username
	r.byUsername[f.Username] = &copy
	return &copy, nil
}

func (r *stubFreelancerRepo) FindByUsername(_ context.Context, username string) (*domain.Freelancer, error) {
	f, ok := r.byUsername[username]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return f, nil
}

var errStoreDown = errors.New("store down")
