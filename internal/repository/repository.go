// Package repository defines the store contracts the HTTP services depend on.
// Implementations live in the mongodb subpackage; tests substitute fakes.
package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/potionworks/potiond/internal/domain"
)

// PotionRepository handles catalog data access.
type PotionRepository interface {
	// List retrieves every potion in store order.
	List(ctx context.Context) ([]domain.Potion, error)

	// ListNames retrieves the name-only projection of every potion.
	ListNames(ctx context.Context) ([]domain.PotionName, error)

	// ListByVendor retrieves potions whose vendor_id matches exactly.
	// No match is an empty slice, not an error.
	ListByVendor(ctx context.Context, vendorID string) ([]domain.Potion, error)

	// ListByPriceRange retrieves potions with price in [min, max].
	// A nil bound leaves that side unconstrained.
	ListByPriceRange(ctx context.Context, min, max *float64) ([]domain.Potion, error)

	// GetByID retrieves a single potion. A malformed or unknown id
	// yields domain.ErrNotFound.
	GetByID(ctx context.Context, id string) (*domain.Potion, error)

	// Create inserts a new potion and fills in the assigned identifier.
	Create(ctx context.Context, p *domain.Potion) error

	// Update merges the submitted fields onto the record and returns the
	// updated document. Unknown id yields domain.ErrNotFound.
	Update(ctx context.Context, id string, fields map[string]interface{}) (*domain.Potion, error)

	// Delete removes the record. Unknown id yields domain.ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Aggregate executes an arbitrary aggregation pipeline and returns the
	// raw result documents.
	Aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]bson.M, error)
}

// UserRepository handles account data access.
type UserRepository interface {
	// GetByName retrieves a user by exact name, domain.ErrNotFound when absent.
	GetByName(ctx context.Context, name string) (*domain.User, error)

	// Create inserts a new user and fills in the assigned identifier.
	// A uniqueness violation yields domain.ErrDuplicate.
	Create(ctx context.Context, u *domain.User) error
}
