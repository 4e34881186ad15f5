package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in progress"
	StatusDone       TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	return s == StatusTodo || s == StatusInProgress || s == StatusDone
}

type Task struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Title       string              `json:"title" bson:"title"`
	Description string              `json:"description,omitempty" bson:"description,omitempty"`
	Status      TaskStatus          `json:"status" bson:"status"`
	DueDate     *time.Time          `json:"dueDate,omitempty" bson:"dueDate,omitempty"`
	Project     primitive.ObjectID  `json:"project" bson:"project"`
	CreatedBy   primitive.ObjectID  `json:"createdBy" bson:"createdBy"`
	Assignee    *primitive.ObjectID `json:"assignee,omitempty" bson:"assignee,omitempty"`
	CreatedAt   time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt" bson:"updatedAt"`
}

func (t *Task) IsAssignee(userID primitive.ObjectID) bool {
	return t.Assignee != nil && *t.Assignee == userID
}

func (t *Task) IsCreator(userID primitive.ObjectID) bool {
	return t.CreatedBy == userID
}

// IsOverdue reports whether the task's due date has passed without the task
// being done. Tasks without a due date are never overdue.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status != StatusDone
}
