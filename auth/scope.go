package auth

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/priyen27/taskflow360-backend/models"
)

// TaskScope derives the query predicate for enumerating a project's tasks.
// Platform admins and project-admin members see every task in the project;
// everyone else only sees tasks assigned to them. The predicate is meant to
// be handed to the store as-is so listing is restricted at the query
// boundary, not post-filtered in memory.
func TaskScope(id Identity, p *models.Project) bson.M {
	if id.IsPlatformAdmin() {
		return bson.M{"project": p.ID}
	}
	if role, ok := p.MemberRole(id.UserID); ok && role == models.ProjectAdmin {
		return bson.M{"project": p.ID}
	}
	return bson.M{"project": p.ID, "assignee": id.UserID}
}
