package mongo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/freelanza/freelanza-backend/internal/core/domain"
)

const (
	collectionClients     = "clients"
	collectionFreelancers = "freelancers"
)

// ClientRepository implements ports.ClientRepository using MongoDB.
type ClientRepository struct {
	col *mongo.Collection
}

func NewClientRepository(db *mongo.Database) *ClientRepository {
	return &ClientRepository{col: db.Collection(collectionClients)}
}

type clientDocument struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Username          string             `bson:"username"`
	Name              string             `bson:"name"`
	ProfessionalTitle string             `bson:"professional_title,omitempty"`
	Skills            []string           `bson:"skills,omitempty"`
	Location          string             `bson:"location,omitempty"`
	Bio               string             `bson:"bio,omitempty"`
	CreatedAt         time.Time          `bson:"created_at"`
}

// Create inserts a new client profile. A second profile for the same
// username is rejected with domain.ErrProfileExists.
func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := clientDocument{
		Username:          c.Username,
		Name:              c.Name,
		ProfessionalTitle: c.ProfessionalTitle,
		Skills:            c.Skills,
		Location:          c.Location,
		Bio:               c.Bio,
		CreatedAt:         c.CreatedAt.UTC(),
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrProfileExists
		}
		return nil, errors.Wrap(err, "insert client")
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

func (r *ClientRepository) FindByUsername(ctx context.Context, username string) (*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc clientDocument
	if err := r.col.FindOne(ctx, bson.M{"username": username}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, errors.Wrap(err, "find client")
	}
	return doc.toDomain(), nil
}

// EnsureIndexes creates the unique username index on the clients collection.
func (r *ClientRepository) EnsureIndexes(ctx context.Context) error {
	return ensureUniqueUsername(ctx, r.col)
}

func (d clientDocument) toDomain() *domain.Client {
	return &domain.Client{
		ID:                d.ID.Hex(),
		Username:          d.Username,
		Name:              d.Name,
		ProfessionalTitle: d.ProfessionalTitle,
		Skills:            d.Skills,
		Location:          d.Location,
		Bio:               d.Bio,
		CreatedAt:         d.CreatedAt,
	}
}

// FreelancerRepository implements ports.FreelancerRepository using MongoDB.
type FreelancerRepository struct {
	col *mongo.Collection
}

func NewFreelancerRepository(db *mongo.Database) *FreelancerRepository {
	return &FreelancerRepository{col: db.Collection(collectionFreelancers)}
}

type freelancerDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Username   string             `bson:"username"`
	Name       string             `bson:"name"`
	Location   string             `bson:"location,omitempty"`
	HourlyRate float64            `bson:"hourly_rate,omitempty"`
	Skills     []string           `bson:"skills,omitempty"`
	Bio        string             `bson:"bio,omitempty"`
	CreatedAt  time.Time          `bson:"created_at"`
}

func (r *FreelancerRepository) Create(ctx context.Context, f *domain.Freelancer) (*domain.Freelancer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := freelancerDocument{
		Username:   f.Username,
		Name:       f.Name,
		Location:   f.Location,
		HourlyRate: f.HourlyRate,
		Skills:     f.Skills,
		Bio:        f.Bio,
		CreatedAt:  f.CreatedAt.UTC(),
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrProfileExists
		}
		return nil, errors.Wrap(err, "insert freelancer")
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

func (r *FreelancerRepository) FindByUsername(ctx context.Context, username string) (*domain.Freelancer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc freelancerDocument
	if err := r.col.FindOne(ctx, bson.M{"username": username}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, errors.Wrap(err, "find freelancer")
	}
	return doc.toDomain(), nil
}

// EnsureIndexes creates the unique username index on the freelancers collection.
func (r *FreelancerRepository) EnsureIndexes(ctx context.Context) error {
	return ensureUniqueUsername(ctx, r.col)
}

func (d freelancerDocument) toDomain() *domain.Freelancer {
	return &domain.Freelancer{
		ID:         d.ID.Hex(),
		Username:   d.Username,
		Name:       d.Name,
		Location:   d.Location,
		HourlyRate: d.HourlyRate,
		Skills:     d.Skills,
		Bio:        d.Bio,
		CreatedAt:  d.CreatedAt,
	}
}

func ensureUniqueUsername(ctx context.Context, col *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_username"),
	})
	return errors.Wrapf(err, "ensure indexes on %s", col.Name())
}
