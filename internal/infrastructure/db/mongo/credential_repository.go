package mongo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/freelanza/freelanza-backend/internal/core/domain"
)

const (
	credentialsCollection = "credentials"
	countersCollection    = "counters"
)

// CredentialRepository implements ports.CredentialRepository using MongoDB.
// Numeric identities come from a per-collection sequence in the counters
// collection; the unique username index is the serialization point for
// concurrent registrations.
type CredentialRepository struct {
	coll     *mongo.Collection
	counters *mongo.Collection
}

func NewCredentialRepository(db *mongo.Database) *CredentialRepository {
	return &CredentialRepository{
		coll:     db.Collection(credentialsCollection),
		counters: db.Collection(countersCollection),
	}
}

type mongoCredential struct {
	ID           int64     `bson:"_id"`
	Username     string    `bson:"username"`
	PasswordHash string    `bson:"password_hash"`
	Role         string    `bson:"role"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func (r *CredentialRepository) FindByUsername(ctx context.Context, username string) (*domain.Credential, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mc mongoCredential
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCredentialNotFound
		}
		return nil, errors.Wrap(err, "find credential")
	}
	return mc.toDomain(), nil
}

// Save inserts cred when its ID is zero and replaces the stored document
// otherwise.
func (r *CredentialRepository) Save(ctx context.Context, cred *domain.Credential) (*domain.Credential, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := fromDomainCredential(cred)
	if doc.ID == 0 {
		id, err := r.nextID(ctx)
		if err != nil {
			return nil, err
		}
		doc.ID = id
		if _, err := r.coll.InsertOne(ctx, doc); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, domain.ErrUsernameTaken
			}
			return nil, errors.Wrap(err, "insert credential")
		}
		return doc.toDomain(), nil
	}

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUsernameTaken
		}
		return nil, errors.Wrap(err, "replace credential")
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrCredentialNotFound
	}
	return doc.toDomain(), nil
}

func (r *CredentialRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": credentialsCollection},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, errors.Wrap(err, "next credential id")
	}
	return counter.Seq, nil
}

// EnsureIndexes creates the unique username index.
func (r *CredentialRepository) EnsureIndexes(ctx context.Context) error {
	return ensureUniqueUsername(ctx, r.coll)
}

// fromDomainCredential truncates timestamps to the millisecond precision of a
// BSON datetime, so the record Save returns matches what a later read sees.
func fromDomainCredential(c *domain.Credential) mongoCredential {
	return mongoCredential{
		ID:           c.ID,
		Username:     c.Username,
		PasswordHash: c.PasswordHash,
		Role:         string(c.Role),
		CreatedAt:    c.CreatedAt.UTC().Truncate(time.Millisecond),
		UpdatedAt:    c.UpdatedAt.UTC().Truncate(time.Millisecond),
	}
}

func (mc mongoCredential) toDomain() *domain.Credential {
	return &domain.Credential{
		ID:           mc.ID,
		Username:     mc.Username,
		PasswordHash: mc.PasswordHash,
		Role:         domain.Role(mc.Role),
		CreatedAt:    mc.CreatedAt.UTC(),
		UpdatedAt:    mc.UpdatedAt.UTC(),
	}
}
