package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueView is an issue with its account references populated.
// CreatedBy and AssignedTo shadow the raw ids of the embedded Issue.
type IssueView struct {
	*Issue
	CreatedBy     *UserSummary `json:"createdBy"`
	AssignedTo    *UserSummary `json:"assignedTo,omitempty"`
	UpvoteCount   int          `json:"upvoteCount"`
	AverageRating float64      `json:"averageRating"`
	UserHasVoted  bool         `json:"userHasVoted"`
}

// IssueBrief is the slice of an issue shown next to its assignment.
type IssueBrief struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Category    IssueCategory      `bson:"category" json:"category"`
	Status      IssueStatus        `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

func (i *Issue) Brief() *IssueBrief {
	return &IssueBrief{
		ID:          i.ID,
		Title:       i.Title,
		Description: i.Description,
		Category:    i.Category,
		Status:      i.Status,
		CreatedAt:   i.CreatedAt,
	}
}

// AssignmentView is an assignment with issue and accounts populated.
type AssignmentView struct {
	*Assignment
	Issue      *IssueBrief  `json:"issue"`
	AssignedTo *UserSummary `json:"assignedTo"`
	AssignedBy *UserSummary `json:"assignedBy"`
	DurationMs *int64       `json:"duration"`
}

func NewAssignmentView(a *Assignment, issue *IssueBrief, assignedTo, assignedBy *UserSummary) *AssignmentView {
	v := &AssignmentView{Assignment: a, Issue: issue, AssignedTo: assignedTo, AssignedBy: assignedBy}
	if d := a.Duration(); d != nil {
		ms := d.Milliseconds()
		v.DurationMs = &ms
	}
	return v
}
