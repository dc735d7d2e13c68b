package user

import "go.mongodb.org/mongo-driver/v2/bson"

// Gender is the enumerated gender value stored on a user record.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Valid reports whether g is one of the accepted gender values.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// User represents a user account record in the users collection.
// Name and email are unique across all users. PasswordHash is never
// included in any outward-facing representation; handlers expose
// users through the usecase public view instead.
type User struct {
	ID              bson.ObjectID `bson:"_id,omitempty"`
	Name            string        `bson:"name"`
	Email           string        `bson:"email"`
	Age             int           `bson:"age"`
	Gender          Gender        `bson:"gender"`
	PasswordHash    string        `bson:"password,omitempty"`
	ProfileImageURL string        `bson:"profile,omitempty"`
}
