package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type SwipeDecision string

const (
	SwipeLike SwipeDecision = "like"
	SwipePass SwipeDecision = "pass"
)

// Encounter types a profile can be looking for. Every complete profile
// carries a non-empty subset of these.
const (
	ProfileTypeAmoureuse       = "Amoureuse"
	ProfileTypeAmicale         = "Amicale"
	ProfileTypeProfessionnelle = "Professionnelle"
)

// Gallery bounds for a complete profile. The first photo is the cover.
const (
	MinProfilePhotos = 3
	MaxProfilePhotos = 6
)

type Profile struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash *string            `bson:"passwordHash,omitempty" json:"-"`
	Name         string             `bson:"name" json:"name"`
	Age          int                `bson:"age" json:"age"`
	City         string             `bson:"city" json:"city"`
	Gender       string             `bson:"gender" json:"gender"` // Homme, Femme
	Passions     []string           `bson:"passions" json:"passions"`
	ProfileTypes []string           `bson:"profileTypes" json:"profileTypes"`
	// Ordered; the first entry is the cover photo. At most 6 entries.
	ProfilePictureUrls []string `bson:"profilePictureUrls" json:"profilePictureUrls"`
	Bio                string   `bson:"bio,omitempty" json:"bio,omitempty"`
	// Swipe ledger: target profile id (hex) -> decision. Grows monotonically,
	// last write wins per key; there is no un-swipe in the persisted model.
	Swipes        map[string]SwipeDecision `bson:"swipes,omitempty" json:"-"`
	AccountStatus string                   `bson:"accountStatus,omitempty" json:"accountStatus,omitempty"` // active, incomplete, banned
	CreatedAt     int64                    `bson:"createdAt" json:"createdAt"`
	LastSeen      int64                    `bson:"lastSeen" json:"lastSeen"`
}

// HasLiked reports whether the ledger records a like for target.
func (p *Profile) HasLiked(target primitive.ObjectID) bool {
	return p.Swipes[target.Hex()] == SwipeLike
}

// Complete reports whether the profile has everything the discover feed
// requires before it may go live: the basics plus a gallery of at least
// MinProfilePhotos photos.
func (p *Profile) Complete() bool {
	return p.Age >= 18 &&
		p.City != "" &&
		p.Gender != "" &&
		len(p.ProfileTypes) > 0 &&
		len(p.ProfilePictureUrls) >= MinProfilePhotos
}
