package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/priyen27/taskflow360-backend/errs"
	"github.com/priyen27/taskflow360-backend/models"
)

func TestInviteMembershipConditionalAppend(t *testing.T) {
	projectID := primitive.NewObjectID()
	member := models.Member{User: primitive.NewObjectID(), Role: models.ProjectMember}

	filter, update := inviteMembership(projectID, member)

	assert.Equal(t, projectID, filter["_id"])
	// The filter must stop matching as soon as the target is in the list,
	// so a repeated invite updates nothing instead of appending twice.
	assert.Equal(t, bson.M{"$ne": member.User}, filter["members.user"])

	push, ok := update["$push"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, member, push["members"])

	set, ok := update["$set"].(bson.M)
	require.True(t, ok)
	assert.Contains(t, set, "updatedAt")
}

func TestInviteMembershipFilterKeyMatchesMemberDocument(t *testing.T) {
	member := models.Member{User: primitive.NewObjectID(), Role: models.ProjectAdmin}

	raw, err := bson.Marshal(member)
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))

	// The duplicate guard addresses members.user; the stored member entry
	// must carry exactly that field name.
	assert.Equal(t, member.User, doc["user"])
	assert.Equal(t, string(member.Role), doc["role"])
}

func TestInviteNoMatchClassification(t *testing.T) {
	assert.Equal(t, errs.KindConflict, errs.KindOf(inviteNoMatchError(true)))
	assert.Equal(t, errs.KindNotFound, errs.KindOf(inviteNoMatchError(false)))
}

func TestProjectCascadeCoversAllProjectTasks(t *testing.T) {
	projectID := primitive.NewObjectID()

	tasksFilter, projectFilter := projectCascade(projectID)

	assert.Equal(t, bson.M{"project": projectID}, tasksFilter)
	assert.Equal(t, bson.M{"_id": projectID}, projectFilter)
}

func TestProjectCascadeFilterKeyMatchesTaskDocument(t *testing.T) {
	projectID := primitive.NewObjectID()

	raw, err := bson.Marshal(models.Task{Project: projectID, Title: "orphan check"})
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))

	tasksFilter, _ := projectCascade(projectID)
	for key, want := range tasksFilter {
		assert.Equal(t, want, doc[key])
	}
}
