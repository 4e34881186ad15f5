package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/priyen27/taskflow360-backend/auth"
	"github.com/priyen27/taskflow360-backend/errs"
	"github.com/priyen27/taskflow360-backend/models"
)

type ProjectService struct {
	ProjectsCollection *mongo.Collection
	TasksCollection    *mongo.Collection
	UsersCollection    *mongo.Collection
}

func NewProjectService(projectsCollection, tasksCollection, usersCollection *mongo.Collection) *ProjectService {
	return &ProjectService{
		ProjectsCollection: projectsCollection,
		TasksCollection:    tasksCollection,
		UsersCollection:    usersCollection,
	}
}

// MemberInfo is the member list row, with the user's profile joined in.
type MemberInfo struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
	Role  models.ProjectRole `json:"role"`
}

// ListProjects returns every project for platform admins, otherwise the
// projects the requester created or belongs to.
func (s *ProjectService) ListProjects(ctx context.Context, identity auth.Identity) ([]models.Project, error) {
	filter := bson.M{}
	if !identity.IsPlatformAdmin() {
		filter = bson.M{"$or": []bson.M{
			{"createdBy": identity.UserID},
			{"members.user": identity.UserID},
		}}
	}

	cursor, err := s.ProjectsCollection.Find(ctx, filter)
	if err != nil {
		return nil, errs.Internal("failed to fetch projects", err)
	}
	defer cursor.Close(ctx)

	projects := []models.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, errs.Internal("failed to decode projects", err)
	}
	return projects, nil
}

// CreateProject creates a project and seeds the creator into the membership
// list as a project admin.
func (s *ProjectService) CreateProject(ctx context.Context, identity auth.Identity, name, description string) (*models.Project, error) {
	if name == "" {
		return nil, errs.Validation("project name is required")
	}

	now := time.Now()
	project := &models.Project{
		Name:        name,
		Description: description,
		Members:     []models.Member{{User: identity.UserID, Role: models.ProjectAdmin}},
		CreatedBy:   identity.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	result, err := s.ProjectsCollection.InsertOne(ctx, project)
	if err != nil {
		return nil, errs.Internal("failed to create project", err)
	}

	project.ID = result.InsertedID.(primitive.ObjectID)
	return project, nil
}

// UpdateProject changes name and/or description. Empty fields in the request
// leave the stored value untouched.
func (s *ProjectService) UpdateProject(ctx context.Context, identity auth.Identity, projectID, name, description string) (*models.Project, error) {
	project, err := s.projectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !auth.CanModifyProject(identity, project) {
		return nil, errs.Authorization("only the project creator can update the project")
	}

	set := bson.M{"updatedAt": time.Now()}
	if name != "" {
		set["name"] = name
	}
	if description != "" {
		set["description"] = description
	}

	var updated models.Project
	err = s.ProjectsCollection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": project.ID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		return nil, errs.Internal("failed to update project", err)
	}
	return &updated, nil
}

// DeleteProject removes the project and cascades to all of its tasks so no
// orphan tasks survive.
func (s *ProjectService) DeleteProject(ctx context.Context, identity auth.Identity, projectID string) error {
	project, err := s.projectByID(ctx, projectID)
	if err != nil {
		return err
	}

	if !auth.CanModifyProject(identity, project) {
		return errs.Authorization("only the project creator can delete the project")
	}

	tasksFilter, projectFilter := projectCascade(project.ID)
	if _, err := s.TasksCollection.DeleteMany(ctx, tasksFilter); err != nil {
		return errs.Internal("failed to delete project tasks", err)
	}
	if _, err := s.ProjectsCollection.DeleteOne(ctx, projectFilter); err != nil {
		return errs.Internal("failed to delete project", err)
	}
	return nil
}

// Members returns the ordered membership list joined with each user's
// profile.
func (s *ProjectService) Members(ctx context.Context, identity auth.Identity, projectID string) ([]MemberInfo, error) {
	project, err := s.projectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !auth.CanListMembers(identity, project) {
		return nil, errs.Authorization("not authorized to view members")
	}

	ids := make([]primitive.ObjectID, 0, len(project.Members))
	for _, m := range project.Members {
		ids = append(ids, m.User)
	}

	users := map[primitive.ObjectID]models.User{}
	if len(ids) > 0 {
		cursor, err := s.UsersCollection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			return nil, errs.Internal("failed to fetch member profiles", err)
		}
		defer cursor.Close(ctx)

		var found []models.User
		if err := cursor.All(ctx, &found); err != nil {
			return nil, errs.Internal("failed to decode member profiles", err)
		}
		for _, u := range found {
			users[u.ID] = u
		}
	}

	members := make([]MemberInfo, 0, len(project.Members))
	for _, m := range project.Members {
		info := MemberInfo{ID: m.User, Role: m.Role}
		if u, ok := users[m.User]; ok {
			info.Name = u.Name
			info.Email = u.Email
		}
		members = append(members, info)
	}
	return members, nil
}

// Invite appends (user, role) to the membership list. The duplicate check
// and the append are one conditional update: the filter only matches while
// the target is absent from members, so two concurrent invites for the same
// user cannot both append.
func (s *ProjectService) Invite(ctx context.Context, identity auth.Identity, projectID, email string, role models.ProjectRole) error {
	project, err := s.projectByID(ctx, projectID)
	if err != nil {
		return err
	}

	if !auth.CanInviteMember(identity, project) {
		return errs.Authorization("only project admins can invite members")
	}

	if role == "" {
		role = models.ProjectMember
	}
	if !role.Valid() {
		return errs.Validation("invalid role: %s", role)
	}

	var target models.User
	err = s.UsersCollection.FindOne(ctx, bson.M{"email": email}).Decode(&target)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return errs.NotFound("user with this email not found")
		}
		return errs.Internal("failed to look up user", err)
	}

	filter, update := inviteMembership(project.ID, models.Member{User: target.ID, Role: role})

	result, err := s.ProjectsCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		return errs.Internal("failed to invite user", err)
	}
	if result.ModifiedCount == 0 {
		// The conditional filter also misses when the project was deleted
		// between the load and the update; distinguish before reporting.
		exists := true
		if err := s.ProjectsCollection.FindOne(ctx, bson.M{"_id": project.ID}).Err(); err != nil {
			if !errors.Is(err, mongo.ErrNoDocuments) {
				return errs.Internal("failed to invite user", err)
			}
			exists = false
		}
		return inviteNoMatchError(exists)
	}
	return nil
}

// inviteMembership builds the conditional append for a new member. The filter
// only matches while the target is absent from the membership list, so two
// concurrent invites for the same user cannot both push an entry.
func inviteMembership(projectID primitive.ObjectID, member models.Member) (filter, update bson.M) {
	filter = bson.M{
		"_id":          projectID,
		"members.user": bson.M{"$ne": member.User},
	}
	update = bson.M{
		"$push": bson.M{"members": member},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	return filter, update
}

// inviteNoMatchError classifies a zero-match conditional append: the filter
// fails both when the target is already a member and when the project is
// gone.
func inviteNoMatchError(projectExists bool) error {
	if !projectExists {
		return errs.NotFound("project not found")
	}
	return errs.Conflict("user is already a member of the project")
}

// projectCascade returns the delete filters for a project and its tasks. The
// task filter must match every task whose project field carries the
// project's id so no orphan tasks survive the delete.
func projectCascade(projectID primitive.ObjectID) (tasksFilter, projectFilter bson.M) {
	return bson.M{"project": projectID}, bson.M{"_id": projectID}
}

func (s *ProjectService) projectByID(ctx context.Context, projectID string) (*models.Project, error) {
	objectID, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return nil, errs.Validation("invalid project ID format")
	}

	var project models.Project
	err = s.ProjectsCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&project)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NotFound("project not found")
		}
		return nil, errs.Internal("failed to fetch project", err)
	}
	return &project, nil
}
