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

type TaskService struct {
	TasksCollection    *mongo.Collection
	ProjectsCollection *mongo.Collection
}

func NewTaskService(tasksCollection, projectsCollection *mongo.Collection) *TaskService {
	return &TaskService{
		TasksCollection:    tasksCollection,
		ProjectsCollection: projectsCollection,
	}
}

// CreateTaskInput is the task creation payload.
type CreateTaskInput struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      models.TaskStatus `json:"status"`
	DueDate     *time.Time        `json:"dueDate"`
	Project     string            `json:"project"`
	Assignee    string            `json:"assignee"`
}

// TaskPatch is the task update payload. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Status      *models.TaskStatus `json:"status"`
	DueDate     *time.Time         `json:"dueDate"`
	Assignee    *string            `json:"assignee"`
}

// CreateTask creates a task inside a project the requester can view. Setting
// an assignee at creation requires platform admin.
func (s *TaskService) CreateTask(ctx context.Context, identity auth.Identity, in CreateTaskInput) (*models.Task, error) {
	if in.Title == "" || in.Project == "" {
		return nil, errs.Validation("title and project are required")
	}

	project, err := s.projectByID(ctx, in.Project)
	if err != nil {
		return nil, err
	}

	if !auth.CanCreateTask(identity, project) {
		return nil, errs.Authorization("not authorized to create tasks in this project")
	}

	status := in.Status
	if status == "" {
		status = models.StatusTodo
	}
	if !status.Valid() {
		return nil, errs.Validation("invalid status: %s", status)
	}

	var assignee *primitive.ObjectID
	if in.Assignee != "" {
		if !auth.CanAssignTask(identity) {
			return nil, errs.Authorization("only platform admins can assign tasks")
		}
		id, err := primitive.ObjectIDFromHex(in.Assignee)
		if err != nil {
			return nil, errs.Validation("invalid assignee ID format")
		}
		assignee = &id
	}

	now := time.Now()
	task := &models.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		DueDate:     in.DueDate,
		Project:     project.ID,
		CreatedBy:   identity.UserID,
		Assignee:    assignee,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	result, err := s.TasksCollection.InsertOne(ctx, task)
	if err != nil {
		return nil, errs.Internal("failed to create task", err)
	}

	task.ID = result.InsertedID.(primitive.ObjectID)
	return task, nil
}

// TasksByProject lists a project's tasks within the requester's visibility
// scope. The scope predicate goes straight into the store query.
func (s *TaskService) TasksByProject(ctx context.Context, identity auth.Identity, projectID string) ([]models.Task, error) {
	project, err := s.projectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	cursor, err := s.TasksCollection.Find(ctx, auth.TaskScope(identity, project))
	if err != nil {
		return nil, errs.Internal("failed to fetch tasks", err)
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, errs.Internal("failed to decode tasks", err)
	}
	return tasks, nil
}

func (s *TaskService) TaskByID(ctx context.Context, identity auth.Identity, taskID string) (*models.Task, error) {
	task, err := s.taskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !auth.CanViewTask(identity, task) {
		return nil, errs.Authorization("not authorized to view this task")
	}
	return task, nil
}

// UpdateTask applies the patch under the role rules: platform admins and the
// task creator update all fields, the assignee updates status only, and only
// a platform admin may touch the assignee field.
func (s *TaskService) UpdateTask(ctx context.Context, identity auth.Identity, taskID string, patch TaskPatch) (*models.Task, error) {
	task, err := s.taskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	mode := auth.TaskUpdateMode(identity, task)
	if mode == auth.UpdateDenied {
		return nil, errs.Authorization("not authorized to update this task")
	}

	set, err := taskUpdateFields(identity, mode, patch)
	if err != nil {
		return nil, err
	}
	set["updatedAt"] = time.Now()

	var updated models.Task
	err = s.TasksCollection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": task.ID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		return nil, errs.Internal("failed to update task", err)
	}
	return &updated, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, identity auth.Identity, taskID string) error {
	task, err := s.taskByID(ctx, taskID)
	if err != nil {
		return err
	}

	if !auth.CanDeleteTask(identity, task) {
		return errs.Authorization("not authorized to delete this task")
	}

	if _, err := s.TasksCollection.DeleteOne(ctx, bson.M{"_id": task.ID}); err != nil {
		return errs.Internal("failed to delete task", err)
	}
	return nil
}

// taskUpdateFields translates a patch into the $set document the requester is
// allowed to produce. Fields outside the requester's update mode are ignored,
// not rejected, matching the status-only contract for assignees.
func taskUpdateFields(identity auth.Identity, mode auth.UpdateMode, patch TaskPatch) (bson.M, error) {
	set := bson.M{}

	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, errs.Validation("invalid status: %s", *patch.Status)
		}
		set["status"] = *patch.Status
	}

	if mode == auth.UpdateStatusOnly {
		return set, nil
	}

	if patch.Title != nil && *patch.Title != "" {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.DueDate != nil {
		set["dueDate"] = *patch.DueDate
	}

	// Reassignment is platform-admin only; a non-admin patch carrying an
	// assignee must never change it.
	if patch.Assignee != nil && auth.CanAssignTask(identity) {
		assigneeID, err := primitive.ObjectIDFromHex(*patch.Assignee)
		if err != nil {
			return nil, errs.Validation("invalid assignee ID format")
		}
		set["assignee"] = assigneeID
	}

	return set, nil
}

func (s *TaskService) projectByID(ctx context.Context, projectID string) (*models.Project, error) {
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

func (s *TaskService) taskByID(ctx context.Context, taskID string) (*models.Task, error) {
	objectID, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, errs.Validation("invalid task ID format")
	}

	var task models.Task
	err = s.TasksCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NotFound("task not found")
		}
		return nil, errs.Internal("failed to fetch task", err)
	}
	return &task, nil
}
