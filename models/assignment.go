package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssignmentStatus enum
type AssignmentStatus string

const (
	AssignmentAssigned   AssignmentStatus = "assigned"
	AssignmentAccepted   AssignmentStatus = "accepted"
	AssignmentInProgress AssignmentStatus = "in-progress"
	AssignmentCompleted  AssignmentStatus = "completed"
	AssignmentRejected   AssignmentStatus = "rejected"
)

func (s AssignmentStatus) Valid() bool {
	switch s {
	case AssignmentAssigned, AssignmentAccepted, AssignmentInProgress, AssignmentCompleted, AssignmentRejected:
		return true
	}
	return false
}

// AssignmentStatusFor maps an issue status set by an admin onto the status
// written to the issue's assignment record.
func AssignmentStatusFor(status IssueStatus) AssignmentStatus {
	switch status {
	case StatusResolved:
		return AssignmentCompleted
	case StatusInProgress:
		return AssignmentInProgress
	case StatusRejected:
		return AssignmentRejected
	default:
		return AssignmentAssigned
	}
}

// Assignment links one issue to the worker responsible for it.
type Assignment struct {
	ID                      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Issue                   primitive.ObjectID `bson:"issue" json:"issue"`
	AssignedTo              primitive.ObjectID `bson:"assignedTo" json:"assignedTo"`
	AssignedBy              primitive.ObjectID `bson:"assignedBy" json:"assignedBy"`
	Status                  AssignmentStatus   `bson:"status" json:"status"`
	Notes                   string             `bson:"notes,omitempty" json:"notes,omitempty"`
	EstimatedCompletionDate *time.Time         `bson:"estimatedCompletionDate,omitempty" json:"estimatedCompletionDate,omitempty"`
	ActualCompletionDate    *time.Time         `bson:"actualCompletionDate,omitempty" json:"actualCompletionDate,omitempty"`
	CreatedAt               time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt               time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// SetStatus updates the status; the first move to completed stamps
// ActualCompletionDate exactly once.
func (a *Assignment) SetStatus(status AssignmentStatus, now time.Time) {
	a.Status = status
	a.UpdatedAt = now
	if status == AssignmentCompleted && a.ActualCompletionDate == nil {
		stamp := now
		a.ActualCompletionDate = &stamp
	}
}

// Duration is the time from assignment to completion, nil while open.
func (a *Assignment) Duration() *time.Duration {
	if a.ActualCompletionDate == nil {
		return nil
	}
	d := a.ActualCompletionDate.Sub(a.CreatedAt)
	return &d
}
