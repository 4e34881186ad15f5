package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectRole is a user's role within one project's membership list, distinct
// from their platform role.
type ProjectRole string

const (
	ProjectAdmin  ProjectRole = "admin"
	ProjectMember ProjectRole = "member"
)

func (r ProjectRole) Valid() bool {
	return r == ProjectAdmin || r == ProjectMember
}

type Member struct {
	User primitive.ObjectID `json:"user" bson:"user"`
	Role ProjectRole        `json:"role" bson:"role"`
}

type Project struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Members     []Member           `json:"members" bson:"members"`
	CreatedBy   primitive.ObjectID `json:"createdBy" bson:"createdBy"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

func (p *Project) IsCreator(userID primitive.ObjectID) bool {
	return p.CreatedBy == userID
}

// MemberRole returns the membership-list role for userID. The creator is not
// implicitly a member; callers that care about creator rights check IsCreator.
func (p *Project) MemberRole(userID primitive.ObjectID) (ProjectRole, bool) {
	for _, m := range p.Members {
		if m.User == userID {
			return m.Role, true
		}
	}
	return "", false
}

func (p *Project) HasMember(userID primitive.ObjectID) bool {
	_, ok := p.MemberRole(userID)
	return ok
}
