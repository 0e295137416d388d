package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/restaurant/storage-tracker/internal/core/domain"
)

func TestCredentialDocument_RoundTrip(t *testing.T) {
	cred := &domain.Credential{
		Identity:   domain.Identity{ID: "u1", Email: "Jane@Restaurant.com", Name: "Jane", Role: domain.RoleEmployee},
		SecretHash: "$2a$hash",
	}
	now := time.Date(2025, 1, 5, 10, 30, 0, 0, time.UTC)

	doc := toCredentialDocument(cred, now)
	assert.Equal(t, "Jane@Restaurant.com", doc.Email)
	assert.Equal(t, now.Unix(), doc.CreatedAt)

	raw, err := bson.Marshal(doc)
	assert.NoError(t, err)

	var decoded credentialDocument
	assert.NoError(t, bson.Unmarshal(raw, &decoded))

	got := decoded.toDomain()
	assert.Equal(t, "u1", got.ID)
	assert.Equal(t, domain.RoleEmployee, got.Role)
	assert.Equal(t, "$2a$hash", got.SecretHash)
}

func TestKVDocument_UsesKeyAsID(t *testing.T) {
	raw, err := bson.Marshal(kvDocument{Key: "restaurant-user", Value: `{"id":"1"}`})
	assert.NoError(t, err)

	var m bson.M
	assert.NoError(t, bson.Unmarshal(raw, &m))
	assert.Equal(t, "restaurant-user", m["_id"])
	assert.Equal(t, `{"id":"1"}`, m["value"])
}
