package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/priyen27/taskflow360-backend/models"
)

func TestTaskScope(t *testing.T) {
	projectAdmin := primitive.NewObjectID()
	plainMember := primitive.NewObjectID()
	outsider := primitive.NewObjectID()

	project := &models.Project{
		ID:        primitive.NewObjectID(),
		CreatedBy: projectAdmin,
		Members: []models.Member{
			{User: projectAdmin, Role: models.ProjectAdmin},
			{User: plainMember, Role: models.ProjectMember},
		},
	}

	cases := []struct {
		name     string
		identity Identity
		want     bson.M
	}{
		{
			"platform admin sees the whole project",
			adminIdentity(outsider),
			bson.M{"project": project.ID},
		},
		{
			"project-admin member sees the whole project",
			memberIdentity(projectAdmin),
			bson.M{"project": project.ID},
		},
		{
			"plain member is restricted to own assignments",
			memberIdentity(plainMember),
			bson.M{"project": project.ID, "assignee": plainMember},
		},
		{
			"outsider is restricted to own assignments",
			memberIdentity(outsider),
			bson.M{"project": project.ID, "assignee": outsider},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TaskScope(tc.identity, project))
		})
	}
}
