package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/freelanza/freelanza-backend/internal/core/domain"
	"github.com/freelanza/freelanza-backend/internal/core/ports"
	"github.com/freelanza/freelanza-backend/internal/pkg/metrics"
)

const (
	defaultCacheTTL     = 5 * time.Minute
	credentialKeyPrefix = "credential:"
	generationKeyPrefix = "credential_gen:"
)

// CachedCredentialRepository decorates a ports.CredentialRepository with a
// Redis read-through cache keyed by username. Save writes through to the
// underlying store, bumps the username's generation and evicts the cached
// entry. A fill only lands if the generation it read before loading from the
// store is still current, so a read that overlaps a Save never caches the
// pre-Save record. Redis failures degrade to direct store reads.
// Key format: credential:<username>, generation: credential_gen:<username>
type CachedCredentialRepository struct {
	next   ports.CredentialRepository
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
	log    zerolog.Logger
}

func NewCachedCredentialRepository(next ports.CredentialRepository, client *redis.Client, ttl time.Duration, log zerolog.Logger) *CachedCredentialRepository {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CachedCredentialRepository{next: next, client: client, ttl: ttl, log: log}
}

type cachedCredential struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (r *CachedCredentialRepository) FindByUsername(ctx context.Context, username string) (*domain.Credential, error) {
	b, err := r.client.Get(ctx, r.key(username)).Bytes()
	switch {
	case err == nil:
		var cc cachedCredential
		if jsonErr := json.Unmarshal(b, &cc); jsonErr == nil {
			metrics.CredentialCacheTotal.WithLabelValues("hit").Inc()
			return cc.toDomain(), nil
		}
		metrics.CredentialCacheTotal.WithLabelValues("error").Inc()
	case errors.Is(err, redis.Nil):
		metrics.CredentialCacheTotal.WithLabelValues("miss").Inc()
	default:
		metrics.CredentialCacheTotal.WithLabelValues("error").Inc()
		r.log.Warn().Err(err).Str("username", username).Msg("credential cache read failed")
	}

	gen, genErr := r.generation(ctx, username)

	// The shared load must not fail for every waiter because the first
	// caller went away.
	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := r.group.Do(username, func() (interface{}, error) {
		cred, err := r.next.FindByUsername(loadCtx, username)
		if err != nil {
			return nil, err
		}
		if genErr == nil {
			r.store(loadCtx, cred, gen)
		}
		return cred, nil
	})
	if err != nil {
		return nil, err
	}
	clone := *v.(*domain.Credential)
	return &clone, nil
}

func (r *CachedCredentialRepository) Save(ctx context.Context, cred *domain.Credential) (*domain.Credential, error) {
	saved, err := r.next.Save(ctx, cred)
	if err != nil {
		return nil, err
	}
	r.group.Forget(saved.Username)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, r.genKey(saved.Username))
		pipe.Expire(ctx, r.genKey(saved.Username), 2*r.ttl)
		pipe.Del(ctx, r.key(saved.Username))
		return nil
	})
	if err != nil {
		r.log.Warn().Err(err).Str("username", saved.Username).Msg("credential cache eviction failed")
	}
	return saved, nil
}

// generation returns the current write generation for username. A missing
// counter reads as zero.
func (r *CachedCredentialRepository) generation(ctx context.Context, username string) (int64, error) {
	gen, err := r.client.Get(ctx, r.genKey(username)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// store caches cred unless a Save bumped the generation since gen was read.
func (r *CachedCredentialRepository) store(ctx context.Context, cred *domain.Credential, gen int64) {
	b, err := json.Marshal(fromDomainCredential(cred))
	if err != nil {
		return
	}
	genKey := r.genKey(cred.Username)
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			metrics.CredentialCacheTotal.WithLabelValues("stale").Inc()
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.key(cred.Username), b, r.ttl)
			return nil
		})
		return err
	}, genKey)
	if errors.Is(err, redis.TxFailedErr) {
		metrics.CredentialCacheTotal.WithLabelValues("stale").Inc()
		return
	}
	if err != nil {
		r.log.Warn().Err(err).Str("username", cred.Username).Msg("credential cache write failed")
	}
}

func (r *CachedCredentialRepository) key(username string) string {
	return credentialKeyPrefix + username
}

func (r *CachedCredentialRepository) genKey(username string) string {
	return generationKeyPrefix + username
}

func fromDomainCredential(c *domain.Credential) cachedCredential {
	return cachedCredential{
		ID:           c.ID,
		Username:     c.Username,
		PasswordHash: c.PasswordHash,
		Role:         string(c.Role),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func (cc cachedCredential) toDomain() *domain.Credential {
	return &domain.Credential{
		ID:           cc.ID,
		Username:     cc.Username,
		PasswordHash: cc.PasswordHash,
		Role:         domain.Role(cc.Role),
		CreatedAt:    cc.CreatedAt,
		UpdatedAt:    cc.UpdatedAt,
	}
}
