package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/restaurant/storage-tracker/internal/core/domain"
)

const credentialCollection = "credentials"

// CredentialRepository persists registered accounts so they survive restarts.
type CredentialRepository struct {
	coll *mongo.Collection
}

func NewCredentialRepository(db *mongo.Database) *CredentialRepository {
	return &CredentialRepository{coll: db.Collection(credentialCollection)}
}

type credentialDocument struct {
	ID         string `bson:"_id"`
	Email      string `bson:"email"`
	Name       string `bson:"name"`
	Role       string `bson:"role"`
	SecretHash string `bson:"secret_hash"`
	CreatedAt  int64  `bson:"created_at"`
}

func toCredentialDocument(c *domain.Credential, now time.Time) credentialDocument {
	return credentialDocument{
		ID:         c.ID,
		Email:      c.Email,
		Name:       c.Name,
		Role:       string(c.Role),
		SecretHash: c.SecretHash,
		CreatedAt:  now.Unix(),
	}
}

func (d credentialDocument) toDomain() *domain.Credential {
	return &domain.Credential{
		Identity: domain.Identity{
			ID:    d.ID,
			Email: d.Email,
			Name:  d.Name,
			Role:  domain.Role(d.Role),
		},
		SecretHash: d.SecretHash,
	}
}

// EnsureIndexes creates the unique email index.
func (r *CredentialRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create credential index: %w", err)
	}
	return nil
}

// Seed inserts creds that are not stored yet.
func (r *CredentialRepository) Seed(ctx context.Context, creds []domain.Credential) error {
	for i := range creds {
		if _, err := r.Create(ctx, &creds[i]); err != nil && !errors.Is(err, domain.ErrUserExists) {
			return err
		}
	}
	return nil
}

func (r *CredentialRepository) Create(ctx context.Context, cred *domain.Credential) (*domain.Credential, error) {
	doc := toCredentialDocument(cred, time.Now().UTC())
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert credential: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CredentialRepository) FindByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	var doc credentialDocument
	filter := bson.M{"email": email}
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find credential: %w", err)
	}
	return doc.toDomain(), nil
}
