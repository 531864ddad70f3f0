package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/potionworks/potiond/internal/app"
	"github.com/potionworks/potiond/internal/domain"
)

// PotionRepository is the MongoDB implementation of repository.PotionRepository.
type PotionRepository struct {
	col *mongo.Collection
}

// NewPotionRepository creates a potion repository bound to the potions collection.
func NewPotionRepository(p app.DatabaseProvider) *PotionRepository {
	return &PotionRepository{col: p.Database().Collection(potionCollection)}
}

func (r *PotionRepository) find(ctx context.Context, filter bson.M) ([]domain.Potion, error) {
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "query potions")
	}
	out := make([]domain.Potion, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode potions")
	}
	return out, nil
}

func (r *PotionRepository) List(ctx context.Context) ([]domain.Potion, error) {
	return r.find(ctx, bson.M{})
}

func (r *PotionRepository) ListNames(ctx context.Context) ([]domain.PotionName, error) {
	opts := options.Find().SetProjection(bson.M{"name": 1, "_id": 0})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "query potion names")
	}
	out := make([]domain.PotionName, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode potion names")
	}
	return out, nil
}

func (r *PotionRepository) ListByVendor(ctx context.Context, vendorID string) ([]domain.Potion, error) {
	return r.find(ctx, bson.M{"vendor_id": vendorID})
}

func (r *PotionRepository) ListByPriceRange(ctx context.Context, min, max *float64) ([]domain.Potion, error) {
	price := bson.M{}
	if min != nil {
		price["$gte"] = *min
	}
	if max != nil {
		price["$lte"] = *max
	}
	filter := bson.M{}
	if len(price) > 0 {
		filter["price"] = price
	}
	return r.find(ctx, filter)
}

func (r *PotionRepository) GetByID(ctx context.Context, id string) (*domain.Potion, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// A malformed identifier resolves like an unknown one.
		return nil, domain.ErrNotFound
	}
	var p domain.Potion
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "query potion")
	}
	return &p, nil
}

func (r *PotionRepository) Create(ctx context.Context, p *domain.Potion) error {
	p.ID = primitive.NilObjectID
	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return errors.Wrap(err, "insert potion")
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

func (r *PotionRepository) Update(ctx context.Context, id string, fields map[string]interface{}) (*domain.Potion, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	fields = sanitizeDocument(fields)
	if len(fields) == 0 {
		return r.GetByID(ctx, id)
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p domain.Potion
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": fields}, opts).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "update potion")
	}
	return &p, nil
}

func (r *PotionRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return errors.Wrap(err, "delete potion")
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PotionRepository) Aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]bson.M, error) {
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "run aggregation")
	}
	out := make([]bson.M, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode aggregation result")
	}
	return out, nil
}
