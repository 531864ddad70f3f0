package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// User is an account record. The password field only ever holds the bcrypt
// derivation; the clear form is never stored or serialized.
type User struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name     string             `json:"name" bson:"name"`
	Password string             `json:"-" bson:"password"`
}

// SetPassword replaces the stored hash with a fresh derivation of clear.
func (u *User) SetPassword(clear string, cost int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(clear), cost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

// CheckPassword reports whether clear matches the stored derivation.
func (u *User) CheckPassword(clear string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(clear)) == nil
}
