//go:build integration

package mongo

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/freelanza/freelanza-backend/internal/core/domain"
)

func setupMongo(t *testing.T) *mongo.Database {
	t.Helper()
	ctx := context.Background()

	ctr, err := testcontainers.Run(ctx, "mongo:7",
		testcontainers.WithExposedPorts("27017/tcp"),
		testcontainers.WithWaitStrategy(wait.ForListeningPort("27017/tcp").WithStartupTimeout(time.Minute)),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	uri, err := ctr.PortEndpoint(ctx, "27017/tcp", "mongodb")
	require.NoError(t, err)

	client, db, err := Connect(ctx, Config{URI: uri, Database: "freelanza_test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	return db
}

func TestCredentialRepository(t *testing.T) {
	db := setupMongo(t)
	ctx := context.Background()

	repo := NewCredentialRepository(db)
	require.NoError(t, EnsureIndexes(ctx, repo))

	now := time.Now().UTC()
	created, err := repo.Save(ctx, &domain.Credential{
		Username: "alice", PasswordHash: "hash-1", Role: domain.RoleClient, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), created.ID)

	t.Run("duplicate username", func(t *testing.T) {
		_, err := repo.Save(ctx, &domain.Credential{Username: "alice", PasswordHash: "x", Role: domain.RoleFreelancer})
		require.ErrorIs(t, err, domain.ErrUsernameTaken)
	})

	t.Run("update by identity", func(t *testing.T) {
		created.PasswordHash = "hash-2"
		_, err := repo.Save(ctx, created)
		require.NoError(t, err)

		got, err := repo.FindByUsername(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, created.ID, got.ID)
		require.Equal(t, "hash-2", got.PasswordHash)
		require.Equal(t, domain.RoleClient, got.Role)
		require.True(t, now.Truncate(time.Millisecond).Equal(got.CreatedAt), "created_at keeps sub-second precision")
		require.True(t, created.UpdatedAt.Equal(got.UpdatedAt))
	})

	t.Run("unknown identity", func(t *testing.T) {
		_, err := repo.Save(ctx, &domain.Credential{ID: 999, Username: "nobody"})
		require.ErrorIs(t, err, domain.ErrCredentialNotFound)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.FindByUsername(ctx, "ghost")
		require.ErrorIs(t, err, domain.ErrCredentialNotFound)
	})

	t.Run("concurrent registrations of one username", func(t *testing.T) {
		var wg sync.WaitGroup
		errs := make(chan error, 8)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.Save(ctx, &domain.Credential{Username: "race", PasswordHash: "h", Role: domain.RoleClient})
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		succeeded := 0
		for err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			require.ErrorIs(t, err, domain.ErrUsernameTaken)
		}
		require.Equal(t, 1, succeeded)
	})
}

func TestProfileRepositories(t *testing.T) {
	db := setupMongo(t)
	ctx := context.Background()

	clients := NewClientRepository(db)
	freelancers := NewFreelancerRepository(db)
	require.NoError(t, EnsureIndexes(ctx, clients, freelancers))

	c, err := clients.Create(ctx, &domain.Client{Username: "alice", Name: "Alice", CreatedAt: time.Now()})
	require.NoError(t, err)
	require.NotEmpty(t, c.ID)

	_, err = clients.Create(ctx, &domain.Client{Username: "alice", Name: "Again"})
	require.ErrorIs(t, err, domain.ErrProfileExists)

	got, err := clients.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "Alice", got.Name)

	_, err = freelancers.FindByUsername(ctx, "alice")
	require.ErrorIs(t, err, domain.ErrProfileNotFound)

	f, err := freelancers.Create(ctx, &domain.Freelancer{Username: "fred", Name: "Fred", CreatedAt: time.Now()})
	require.NoError(t, err)
	require.Equal(t, "fred", f.Username)
}
