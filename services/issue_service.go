package services

import (
	"context"
	"time"

	"civic-issues-be/apperrors"
	"civic-issues-be/models"
	"civic-issues-be/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueService owns creation, editing and retrieval of issue reports.
type IssueService struct {
	issues repository.IssueRepository
	users  repository.UserRepository
	now    func() time.Time
}

func NewIssueService(issues repository.IssueRepository, users repository.UserRepository) *IssueService {
	return &IssueService{issues: issues, users: users, now: time.Now}
}

type LocationInput struct {
	Latitude  float64
	Longitude float64
	Address   string
}

type CreateIssueInput struct {
	Title       string
	Description string
	Category    models.IssueCategory
	Priority    models.IssuePriority
	Location    LocationInput
	Photos      []string
}

// UpdateIssueInput carries only the fields the caller sent.
type UpdateIssueInput struct {
	Title       *string
	Description *string
	Category    *models.IssueCategory
	Priority    *models.IssuePriority
	Photos      []string
}

func (s *IssueService) Create(ctx context.Context, creatorID primitive.ObjectID, input CreateIssueInput) (*models.IssueView, error) {
	if !input.Category.Valid() {
		return nil, apperrors.Validation("Invalid category")
	}
	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, apperrors.Validation("Invalid priority")
	}
	if !models.ValidCoordinates(input.Location.Latitude, input.Location.Longitude) {
		return nil, apperrors.Validation("Invalid coordinates")
	}

	now := s.now()
	issue := &models.Issue{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Priority:    priority,
		Status:      models.StatusPending,
		Location:    models.NewGeoPoint(input.Location.Latitude, input.Location.Longitude, input.Location.Address),
		Photos:      input.Photos,
		CreatedBy:   creatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.issues.Create(ctx, issue); err != nil {
		return nil, err
	}
	return issueView(ctx, s.users, issue, &creatorID)
}

func (s *IssueService) Get(ctx context.Context, id primitive.ObjectID, viewer *primitive.ObjectID) (*models.IssueView, error) {
	issue, err := s.issues.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return issueView(ctx, s.users, issue, viewer)
}

func (s *IssueService) List(ctx context.Context, filter repository.IssueFilter, viewer *primitive.ObjectID) ([]*models.IssueView, int64, error) {
	issues, total, err := s.issues.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	views, err := issueViews(ctx, s.users, issues, viewer)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// ListByCreator lists the caller's own issues, newest first.
func (s *IssueService) ListByCreator(ctx context.Context, creatorID primitive.ObjectID, status models.IssueStatus, skip, limit int64) ([]*models.IssueView, int64, error) {
	filter := repository.IssueFilter{
		Status:    status,
		CreatedBy: &creatorID,
		SortBy:    "createdAt",
		Skip:      skip,
		Limit:     limit,
	}
	return s.List(ctx, filter, &creatorID)
}

// authorize loads the issue and checks the actor may change it.
func (s *IssueService) authorize(ctx context.Context, id primitive.ObjectID, actor *models.User, action string) (*models.Issue, error) {
	issue, err := s.issues.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanModifyIssue(issue.CreatedBy == actor.ID) {
		return nil, apperrors.Forbidden("Not authorized to " + action + " this issue")
	}
	return issue, nil
}

func (s *IssueService) Update(ctx context.Context, id primitive.ObjectID, actor *models.User, input UpdateIssueInput) (*models.IssueView, error) {
	issue, err := s.authorize(ctx, id, actor, "update")
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		issue.Title = *input.Title
	}
	if input.Description != nil {
		issue.Description = *input.Description
	}
	if input.Category != nil {
		if !input.Category.Valid() {
			return nil, apperrors.Validation("Invalid category")
		}
		issue.Category = *input.Category
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, apperrors.Validation("Invalid priority")
		}
		issue.Priority = *input.Priority
	}
	if input.Photos != nil {
		issue.Photos = input.Photos
	}
	issue.UpdatedAt = s.now()

	if err := s.issues.UpdateDetails(ctx, issue); err != nil {
		return nil, err
	}
	return issueView(ctx, s.users, issue, &actor.ID)
}

func (s *IssueService) Delete(ctx context.Context, id primitive.ObjectID, actor *models.User) error {
	if _, err := s.authorize(ctx, id, actor, "delete"); err != nil {
		return err
	}
	return s.issues.Delete(ctx, id)
}
