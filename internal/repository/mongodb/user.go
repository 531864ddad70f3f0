package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/potionworks/potiond/internal/app"
	"github.com/potionworks/potiond/internal/domain"
)

// UserRepository is the MongoDB implementation of repository.UserRepository.
type UserRepository struct {
	col *mongo.Collection
}

// NewUserRepository creates a user repository bound to the users collection.
func NewUserRepository(p app.DatabaseProvider) *UserRepository {
	return &UserRepository{col: p.Database().Collection(userCollection)}
}

func (r *UserRepository) GetByName(ctx context.Context, name string) (*domain.User, error) {
	var u domain.User
	err := r.col.FindOne(ctx, bson.M{"name": name}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "query user")
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.ID = primitive.NilObjectID
	res, err := r.col.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrDuplicate
	}
	if err != nil {
		return errors.Wrap(err, "insert user")
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	return nil
}
