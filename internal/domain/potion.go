package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ratings holds the tasting scores recorded for a potion.
type Ratings struct {
	Strength float64 `json:"strength" bson:"strength"`
	Flavor   float64 `json:"flavor" bson:"flavor"`
}

// Potion represents a catalog entry with vendor attribution.
// The identifier is assigned by the store at creation and is immutable;
// no other field is required by this layer.
type Potion struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Price       float64            `json:"price" bson:"price"`
	Score       float64            `json:"score" bson:"score"`
	Ingredients []string           `json:"ingredients,omitempty" bson:"ingredients,omitempty"`
	Ratings     Ratings            `json:"ratings" bson:"ratings"`
	TryDate     time.Time          `json:"tryDate,omitempty" bson:"tryDate,omitempty"`
	Categories  []string           `json:"categories,omitempty" bson:"categories,omitempty"`
	VendorID    string             `json:"vendor_id" bson:"vendor_id"`
}

// PotionName is the name-only projection returned by the names listing.
type PotionName struct {
	Name string `json:"name" bson:"name"`
}
