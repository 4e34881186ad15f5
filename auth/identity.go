package auth

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/priyen27/taskflow360-backend/models"
)

// Identity is the per-request resolved identity. It is produced by the
// authentication middleware and passed explicitly into every decision
// function; core logic never reads it from ambient state.
type Identity struct {
	UserID primitive.ObjectID
	Role   models.PlatformRole
}

func (id Identity) IsPlatformAdmin() bool {
	return id.Role == models.PlatformAdmin
}
