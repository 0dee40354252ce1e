package models

import (
	"errors"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueCategory enum
type IssueCategory string

const (
	CategoryWaste       IssueCategory = "waste"
	CategoryPothole     IssueCategory = "pothole"
	CategoryStreetlight IssueCategory = "streetlight"
	CategoryGreenery    IssueCategory = "greenery"
	CategoryWater       IssueCategory = "water"
	CategoryElectricity IssueCategory = "electricity"
	CategoryRoad        IssueCategory = "road"
	CategoryOther       IssueCategory = "other"
)

func (c IssueCategory) Valid() bool {
	switch c {
	case CategoryWaste, CategoryPothole, CategoryStreetlight, CategoryGreenery,
		CategoryWater, CategoryElectricity, CategoryRoad, CategoryOther:
		return true
	}
	return false
}

// IssuePriority enum
type IssuePriority string

const (
	PriorityLow    IssuePriority = "low"
	PriorityMedium IssuePriority = "medium"
	PriorityHigh   IssuePriority = "high"
	PriorityUrgent IssuePriority = "urgent"
)

func (p IssuePriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// IssueStatus enum
type IssueStatus string

const (
	StatusPending    IssueStatus = "pending"
	StatusAccepted   IssueStatus = "accepted"
	StatusInProgress IssueStatus = "in-progress"
	StatusResolved   IssueStatus = "resolved"
	StatusRejected   IssueStatus = "rejected"
)

func (s IssueStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusInProgress, StatusResolved, StatusRejected:
		return true
	}
	return false
}

var (
	ErrAlreadyUpvoted     = errors.New("user has already upvoted this issue")
	ErrAlreadyReviewed    = errors.New("user has already submitted feedback for this issue")
	ErrFeedbackNotAllowed = errors.New("feedback can only be submitted for resolved issues")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
)

// GeoPoint is a GeoJSON point; Coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
	Address     string    `bson:"address,omitempty" json:"address,omitempty"`
}

func NewGeoPoint(latitude, longitude float64, address string) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{longitude, latitude}, Address: address}
}

// ValidCoordinates checks the latitude/longitude ranges.
func ValidCoordinates(latitude, longitude float64) bool {
	return latitude >= -90 && latitude <= 90 && longitude >= -180 && longitude <= 180
}

type Upvote struct {
	User      primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type Feedback struct {
	User      primitive.ObjectID `bson:"user" json:"user"`
	Rating    int                `bson:"rating" json:"rating"`
	Comment   string             `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Issue is a citizen-submitted report of a civic problem.
type Issue struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title           string              `bson:"title" json:"title"`
	Description     string              `bson:"description" json:"description"`
	Category        IssueCategory       `bson:"category" json:"category"`
	Priority        IssuePriority       `bson:"priority" json:"priority"`
	Status          IssueStatus         `bson:"status" json:"status"`
	Location        GeoPoint            `bson:"location" json:"location"`
	Photos          []string            `bson:"photos" json:"photos"`
	CreatedBy       primitive.ObjectID  `bson:"createdBy" json:"createdBy"`
	AssignedTo      *primitive.ObjectID `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	Upvotes         []Upvote            `bson:"upvotes" json:"upvotes"`
	Feedback        []Feedback          `bson:"feedback" json:"feedback"`
	ResolutionNotes string              `bson:"resolutionNotes,omitempty" json:"resolutionNotes,omitempty"`
	ResolvedAt      *time.Time          `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// SetStatus moves the issue to status. The first transition to resolved
// stamps ResolvedAt; the stamp is never cleared or moved afterwards.
func (i *Issue) SetStatus(status IssueStatus, now time.Time) {
	i.Status = status
	i.UpdatedAt = now
	if status == StatusResolved && i.ResolvedAt == nil {
		stamp := now
		i.ResolvedAt = &stamp
	}
}

// Assign records the worker and forces the issue into accepted.
func (i *Issue) Assign(workerID primitive.ObjectID, now time.Time) {
	id := workerID
	i.AssignedTo = &id
	i.SetStatus(StatusAccepted, now)
}

func (i *Issue) HasUpvoted(userID primitive.ObjectID) bool {
	for _, u := range i.Upvotes {
		if u.User == userID {
			return true
		}
	}
	return false
}

func (i *Issue) HasFeedback(userID primitive.ObjectID) bool {
	for _, f := range i.Feedback {
		if f.User == userID {
			return true
		}
	}
	return false
}

func (i *Issue) AddUpvote(userID primitive.ObjectID, now time.Time) (Upvote, error) {
	if i.HasUpvoted(userID) {
		return Upvote{}, ErrAlreadyUpvoted
	}
	u := Upvote{User: userID, CreatedAt: now}
	i.Upvotes = append(i.Upvotes, u)
	return u, nil
}

// RemoveUpvote drops the user's upvote and reports whether one was present.
func (i *Issue) RemoveUpvote(userID primitive.ObjectID) bool {
	for idx, u := range i.Upvotes {
		if u.User == userID {
			i.Upvotes = append(i.Upvotes[:idx], i.Upvotes[idx+1:]...)
			return true
		}
	}
	return false
}

// AddFeedback checks the status gate first, then rating range, then uniqueness.
func (i *Issue) AddFeedback(userID primitive.ObjectID, rating int, comment string, now time.Time) (Feedback, error) {
	if i.Status != StatusResolved {
		return Feedback{}, ErrFeedbackNotAllowed
	}
	if rating < 1 || rating > 5 {
		return Feedback{}, ErrInvalidRating
	}
	if i.HasFeedback(userID) {
		return Feedback{}, ErrAlreadyReviewed
	}
	f := Feedback{User: userID, Rating: rating, Comment: comment, CreatedAt: now}
	i.Feedback = append(i.Feedback, f)
	return f, nil
}

func (i *Issue) UpvoteCount() int {
	return len(i.Upvotes)
}

// AverageRating is the mean feedback rating rounded to one decimal, 0 with no feedback.
func (i *Issue) AverageRating() float64 {
	return AverageRating(i.Feedback)
}

func AverageRating(feedback []Feedback) float64 {
	if len(feedback) == 0 {
		return 0
	}
	sum := 0
	for _, f := range feedback {
		sum += f.Rating
	}
	return math.Round(float64(sum)/float64(len(feedback))*10) / 10
}
