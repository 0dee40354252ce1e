package repository

import (
	"context"
	"time"

	"civic-issues-be/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	UsersCollection       = "users"
	IssuesCollection      = "issues"
	AssignmentsCollection = "assignments"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByPhone(ctx context.Context, phone string) (*models.User, error)
	FindByVerificationToken(ctx context.Context, token string) (*models.User, error)
	FindByResetToken(ctx context.Context, token string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	FindSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.UserSummary, error)
	ListByRole(ctx context.Context, role models.Role) ([]*models.User, error)
}

// GeoNear restricts a listing to a radius around a point.
type GeoNear struct {
	Latitude  float64
	Longitude float64
	RadiusKm  float64
}

type IssueFilter struct {
	Category   models.IssueCategory
	Status     models.IssueStatus
	Priority   models.IssuePriority
	CreatedBy  *primitive.ObjectID
	AssignedTo *primitive.ObjectID
	Near       *GeoNear
	SortBy     string
	SortAsc    bool
	Skip       int64
	Limit      int64
}

type IssueRepository interface {
	Create(ctx context.Context, issue *models.Issue) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Issue, error)
	FindBriefs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.IssueBrief, error)
	List(ctx context.Context, filter IssueFilter) ([]*models.Issue, int64, error)
	// UpdateDetails writes the citizen-editable fields.
	UpdateDetails(ctx context.Context, issue *models.Issue) error
	// UpdateLifecycle writes status, assignee, resolution notes and the
	// resolution stamp. A stamp already stored is kept.
	UpdateLifecycle(ctx context.Context, issue *models.Issue) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// AddUpvote appends the upvote unless the user already has one; it
	// reports whether the upvote was stored.
	AddUpvote(ctx context.Context, issueID primitive.ObjectID, upvote models.Upvote) (bool, error)
	RemoveUpvote(ctx context.Context, issueID, userID primitive.ObjectID) error
	// AddFeedback appends the entry only while the issue is resolved and
	// the user has no entry yet; it reports whether the entry was stored.
	AddFeedback(ctx context.Context, issueID primitive.ObjectID, feedback models.Feedback) (bool, error)
}

type AssignmentFilter struct {
	Status     models.AssignmentStatus
	AssignedTo *primitive.ObjectID
	Skip       int64
	Limit      int64
}

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	// FindLatestByIssue returns the newest assignment of the issue.
	FindLatestByIssue(ctx context.Context, issueID primitive.ObjectID) (*models.Assignment, error)
	// UpdateStatus writes status and completion stamp; a stored stamp is kept.
	UpdateStatus(ctx context.Context, assignment *models.Assignment) error
	List(ctx context.Context, filter AssignmentFilter) ([]*models.Assignment, int64, error)
}

type AnalyticsRepository interface {
	Overview(ctx context.Context, since time.Time) (models.Overview, error)
	CountBy(ctx context.Context, field string) ([]models.GroupCount, error)
	ResolutionTime(ctx context.Context) (models.ResolutionTime, error)
	MonthlyTrend(ctx context.Context, since time.Time) ([]models.MonthlyPoint, error)
	TopWorkers(ctx context.Context, limit int64) ([]models.WorkerStat, error)
	Locations(ctx context.Context) ([]models.LocationPoint, error)
}
