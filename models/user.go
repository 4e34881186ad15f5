package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlatformRole is the user's global role, independent of any project.
type PlatformRole string

const (
	PlatformAdmin  PlatformRole = "admin"
	PlatformMember PlatformRole = "member"
)

func (r PlatformRole) Valid() bool {
	return r == PlatformAdmin || r == PlatformMember
}

type User struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Email     string             `json:"email" bson:"email"`
	Password  string             `json:"-" bson:"password"`
	Role      PlatformRole       `json:"role" bson:"role"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}
