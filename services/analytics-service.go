package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/priyen27/taskflow360-backend/auth"
	"github.com/priyen27/taskflow360-backend/errs"
	"github.com/priyen27/taskflow360-backend/models"
)

type AnalyticsService struct {
	TasksCollection    *mongo.Collection
	ProjectsCollection *mongo.Collection
}

func NewAnalyticsService(tasksCollection, projectsCollection *mongo.Collection) *AnalyticsService {
	return &AnalyticsService{
		TasksCollection:    tasksCollection,
		ProjectsCollection: projectsCollection,
	}
}

// ProjectTaskSummary is one row of the status summary: per-project counts of
// the requester's own tasks.
type ProjectTaskSummary struct {
	ProjectID   primitive.ObjectID `json:"projectId" bson:"_id"`
	ProjectName string             `json:"projectName" bson:"projectName"`
	Total       int                `json:"total" bson:"total"`
	Todo        int                `json:"todo" bson:"todo"`
	InProgress  int                `json:"inProgress" bson:"inProgress"`
	Done        int                `json:"done" bson:"done"`
}

// OverdueTask is one row of the overdue report.
type OverdueTask struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	Title       string             `json:"title" bson:"title"`
	Status      models.TaskStatus  `json:"status" bson:"status"`
	DueDate     time.Time          `json:"dueDate" bson:"dueDate"`
	ProjectID   primitive.ObjectID `json:"projectId" bson:"projectId"`
	ProjectName string             `json:"projectName" bson:"projectName"`
}

// TaskSummary groups the tasks the requester created by project and counts
// them per status. Scoped by task creator, not project membership: a user
// only sees statistics for tasks they personally created. Projects with no
// such tasks produce no group and are naturally omitted.
func (s *AnalyticsService) TaskSummary(ctx context.Context, identity auth.Identity) ([]ProjectTaskSummary, error) {
	cursor, err := s.TasksCollection.Aggregate(ctx, summaryPipeline(identity.UserID))
	if err != nil {
		return nil, errs.Internal("failed to aggregate task summary", err)
	}
	defer cursor.Close(ctx)

	summaries := []ProjectTaskSummary{}
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, errs.Internal("failed to decode task summary", err)
	}
	return summaries, nil
}

// OverdueTasks lists tasks past their due date that are not done. Platform
// admins see overdue tasks only for projects they personally created;
// everyone else sees overdue tasks assigned to them. The two scopes are
// intentionally different: the admin view is an oversight report over the
// projects they own, while the member view is a personal work list.
func (s *AnalyticsService) OverdueTasks(ctx context.Context, identity auth.Identity, now time.Time) ([]OverdueTask, error) {
	var match bson.M
	if identity.IsPlatformAdmin() {
		projectIDs, err := s.createdProjectIDs(ctx, identity.UserID)
		if err != nil {
			return nil, err
		}
		if len(projectIDs) == 0 {
			return []OverdueTask{}, nil
		}
		match = overdueMatch(now, bson.M{"project": bson.M{"$in": projectIDs}})
	} else {
		match = overdueMatch(now, bson.M{"assignee": identity.UserID})
	}

	cursor, err := s.TasksCollection.Aggregate(ctx, overduePipeline(match))
	if err != nil {
		return nil, errs.Internal("failed to aggregate overdue tasks", err)
	}
	defer cursor.Close(ctx)

	tasks := []OverdueTask{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, errs.Internal("failed to decode overdue tasks", err)
	}
	return tasks, nil
}

func (s *AnalyticsService) createdProjectIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cursor, err := s.ProjectsCollection.Find(
		ctx,
		bson.M{"createdBy": userID},
		options.Find().SetProjection(bson.M{"_id": 1}),
	)
	if err != nil {
		return nil, errs.Internal("failed to fetch created projects", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errs.Internal("failed to decode created projects", err)
	}

	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

func statusCount(status models.TaskStatus) bson.M {
	return bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$status", status}}, 1, 0}}}
}

func summaryPipeline(userID primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"createdBy": userID}}},
		{{Key: "$group", Value: bson.M{
			"_id":        "$project",
			"total":      bson.M{"$sum": 1},
			"todo":       statusCount(models.StatusTodo),
			"inProgress": statusCount(models.StatusInProgress),
			"done":       statusCount(models.StatusDone),
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "projects",
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "projectDoc",
		}}},
		{{Key: "$unwind", Value: "$projectDoc"}},
		{{Key: "$project", Value: bson.M{
			"projectName": "$projectDoc.name",
			"total":       1,
			"todo":        1,
			"inProgress":  1,
			"done":        1,
		}}},
		{{Key: "$sort", Value: bson.M{"projectName": 1}}},
	}
}

// overdueMatch combines the overdue predicate (due date passed, not done)
// with the caller's scope restriction.
func overdueMatch(now time.Time, scope bson.M) bson.M {
	match := bson.M{
		"dueDate": bson.M{"$lt": now},
		"status":  bson.M{"$ne": models.StatusDone},
	}
	for k, v := range scope {
		match[k] = v
	}
	return match
}

func overduePipeline(match bson.M) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "projects",
			"localField":   "project",
			"foreignField": "_id",
			"as":           "projectDoc",
		}}},
		{{Key: "$unwind", Value: "$projectDoc"}},
		{{Key: "$project", Value: bson.M{
			"title":       1,
			"status":      1,
			"dueDate":     1,
			"projectId":   "$project",
			"projectName": "$projectDoc.name",
		}}},
		{{Key: "$sort", Value: bson.M{"dueDate": 1}}},
	}
}
