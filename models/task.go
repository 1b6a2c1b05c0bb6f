package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskStatus is an open enum: any role-permitted caller may set any value
// directly, there is no enforced transition graph.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusAssigned   TaskStatus = "Assigned"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusCompleted  TaskStatus = "Completed"
	TaskStatusQA         TaskStatus = "QA"
)

type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Status      TaskStatus         `bson:"status" json:"status"`
	AssignedTo  primitive.ObjectID `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	Project     primitive.ObjectID `bson:"project" json:"project"`
	CreatedBy   primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Assigned reports whether the task currently has an assignee.
func (t *Task) Assigned() bool {
	return !t.AssignedTo.IsZero()
}
