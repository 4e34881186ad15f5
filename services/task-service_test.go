package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/priyen27/taskflow360-backend/auth"
	"github.com/priyen27/taskflow360-backend/errs"
	"github.com/priyen27/taskflow360-backend/models"
)

func strPtr(s string) *string { return &s }

func statusPtr(s models.TaskStatus) *models.TaskStatus { return &s }

func TestTaskUpdateFieldsStatusOnlyIgnoresOtherFields(t *testing.T) {
	assignee := auth.Identity{UserID: primitive.NewObjectID(), Role: models.PlatformMember}
	due := time.Now().Add(24 * time.Hour)

	patch := TaskPatch{
		Title:       strPtr("hijacked title"),
		Description: strPtr("hijacked description"),
		Status:      statusPtr(models.StatusDone),
		DueDate:     &due,
		Assignee:    strPtr(primitive.NewObjectID().Hex()),
	}

	set, err := taskUpdateFields(assignee, auth.UpdateStatusOnly, patch)
	require.NoError(t, err)

	// Only the status survives; every other field is silently dropped.
	assert.Equal(t, map[string]interface{}{"status": models.StatusDone}, map[string]interface{}(set))
}

func TestTaskUpdateFieldsFullUpdate(t *testing.T) {
	admin := auth.Identity{UserID: primitive.NewObjectID(), Role: models.PlatformAdmin}
	assigneeID := primitive.NewObjectID()
	due := time.Now().Add(48 * time.Hour)

	patch := TaskPatch{
		Title:       strPtr("Write launch checklist"),
		Description: strPtr("cover rollback too"),
		Status:      statusPtr(models.StatusInProgress),
		DueDate:     &due,
		Assignee:    strPtr(assigneeID.Hex()),
	}

	set, err := taskUpdateFields(admin, auth.UpdateFull, patch)
	require.NoError(t, err)

	assert.Equal(t, "Write launch checklist", set["title"])
	assert.Equal(t, "cover rollback too", set["description"])
	assert.Equal(t, models.StatusInProgress, set["status"])
	assert.Equal(t, due, set["dueDate"])
	assert.Equal(t, assigneeID, set["assignee"])
}

func TestTaskUpdateFieldsNonAdminCannotReassign(t *testing.T) {
	creator := auth.Identity{UserID: primitive.NewObjectID(), Role: models.PlatformMember}

	patch := TaskPatch{
		Title:    strPtr("renamed"),
		Assignee: strPtr(primitive.NewObjectID().Hex()),
	}

	set, err := taskUpdateFields(creator, auth.UpdateFull, patch)
	require.NoError(t, err)

	assert.Equal(t, "renamed", set["title"])
	_, hasAssignee := set["assignee"]
	assert.False(t, hasAssignee, "a non-admin patch must never change the assignee")
}

func TestTaskUpdateFieldsNilFieldsLeftUntouched(t *testing.T) {
	admin := auth.Identity{UserID: primitive.NewObjectID(), Role: models.PlatformAdmin}

	set, err := taskUpdateFields(admin, auth.UpdateFull, TaskPatch{})
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestTaskUpdateFieldsEmptyTitleIgnored(t *testing.T) {
	admin := auth.Identity{UserID: primitive.NewObjectID(), Role: models.PlatformAdmin}

	set, err := taskUpdateFields(admin, auth.UpdateFull, TaskPatch{Title: strPtr("")})
	require.NoError(t, err)
	_, hasTitle := set["title"]
	assert.False(t, hasTitle)
}

func TestTaskUpdateFieldsRejectsInvalidStatus(t *testing.T) {
	admin := auth.Identity{UserID: primitive.NewObjectID(), Role: models.PlatformAdmin}

	_, err := taskUpdateFields(admin, auth.UpdateFull, TaskPatch{Status: statusPtr("blocked")})
	require.Error(t, err)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))
}

func TestTaskUpdateFieldsRejectsMalformedAssignee(t *testing.T) {
	admin := auth.Identity{UserID: primitive.NewObjectID(), Role: models.PlatformAdmin}

	_, err := taskUpdateFields(admin, auth.UpdateFull, TaskPatch{Assignee: strPtr("not-an-object-id")})
	require.Error(t, err)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))
}
