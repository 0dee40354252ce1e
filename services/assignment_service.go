package services

import (
	"context"
	"time"

	"civic-issues-be/apperrors"
	"civic-issues-be/models"
	"civic-issues-be/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssignmentService hands issues to workers and keeps each assignment's
// status in step with its issue.
//
// The issue and its assignment are separate documents written one after the
// other without a transaction. The issue is written first and a failed
// assignment write is returned to the caller.
type AssignmentService struct {
	issues      repository.IssueRepository
	assignments repository.AssignmentRepository
	users       repository.UserRepository
	now         func() time.Time
}

func NewAssignmentService(issues repository.IssueRepository, assignments repository.AssignmentRepository, users repository.UserRepository) *AssignmentService {
	return &AssignmentService{issues: issues, assignments: assignments, users: users, now: time.Now}
}

type AssignInput struct {
	WorkerID            primitive.ObjectID
	Notes               string
	EstimatedCompletion *time.Time
}

// Assign records a new assignment and moves the issue to accepted. An issue
// that is already assigned gets an additional record; the newest one is the
// one kept in step with the issue.
func (s *AssignmentService) Assign(ctx context.Context, issueID, adminID primitive.ObjectID, input AssignInput) (*models.AssignmentView, error) {
	issue, err := s.issues.FindByID(ctx, issueID)
	if err != nil {
		return nil, err
	}

	worker, err := s.users.FindByID(ctx, input.WorkerID)
	if err != nil && !apperrors.Is(err, apperrors.CodeNotFound) {
		return nil, err
	}
	if worker == nil || !worker.Role.CanBeAssigned() {
		return nil, apperrors.Validation("Invalid worker assigned")
	}

	now := s.now()
	issue.Assign(worker.ID, now)
	if err := s.issues.UpdateLifecycle(ctx, issue); err != nil {
		return nil, err
	}

	assignment := &models.Assignment{
		Issue:                   issue.ID,
		AssignedTo:              worker.ID,
		AssignedBy:              adminID,
		Status:                  models.AssignmentAssigned,
		Notes:                   input.Notes,
		EstimatedCompletionDate: input.EstimatedCompletion,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, err
	}

	views, err := s.assignmentViews(ctx, []*models.Assignment{assignment}, map[primitive.ObjectID]*models.IssueBrief{
		issue.ID: issue.Brief(),
	})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// UpdateStatus sets the issue status and mirrors it onto the issue's latest
// assignment, if it has one.
func (s *AssignmentService) UpdateStatus(ctx context.Context, issueID primitive.ObjectID, status models.IssueStatus, resolutionNotes string) (*models.IssueView, error) {
	if !status.Valid() {
		return nil, apperrors.Validation("Invalid status")
	}

	issue, err := s.issues.FindByID(ctx, issueID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	issue.SetStatus(status, now)
	if resolutionNotes != "" {
		issue.ResolutionNotes = resolutionNotes
	}
	if err := s.issues.UpdateLifecycle(ctx, issue); err != nil {
		return nil, err
	}

	if issue.AssignedTo != nil {
		if err := s.mirror(ctx, issue.ID, status, now); err != nil {
			return nil, err
		}
	}
	return issueView(ctx, s.users, issue, nil)
}

func (s *AssignmentService) mirror(ctx context.Context, issueID primitive.ObjectID, status models.IssueStatus, now time.Time) error {
	assignment, err := s.assignments.FindLatestByIssue(ctx, issueID)
	if apperrors.Is(err, apperrors.CodeNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	assignment.SetStatus(models.AssignmentStatusFor(status), now)
	return s.assignments.UpdateStatus(ctx, assignment)
}

func (s *AssignmentService) List(ctx context.Context, filter repository.AssignmentFilter) ([]*models.AssignmentView, int64, error) {
	assignments, total, err := s.assignments.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]primitive.ObjectID, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.Issue)
	}
	briefs := map[primitive.ObjectID]*models.IssueBrief{}
	if len(ids) > 0 {
		if briefs, err = s.issues.FindBriefs(ctx, ids); err != nil {
			return nil, 0, err
		}
	}

	views, err := s.assignmentViews(ctx, assignments, briefs)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (s *AssignmentService) assignmentViews(ctx context.Context, assignments []*models.Assignment, briefs map[primitive.ObjectID]*models.IssueBrief) ([]*models.AssignmentView, error) {
	loader := newSummaryLoader(s.users)
	for _, a := range assignments {
		loader.add(&a.AssignedTo)
		loader.add(&a.AssignedBy)
	}
	summaries, err := loader.load(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]*models.AssignmentView, 0, len(assignments))
	for _, a := range assignments {
		views = append(views, models.NewAssignmentView(a, briefs[a.Issue],
			lookup(summaries, &a.AssignedTo), lookup(summaries, &a.AssignedBy)))
	}
	return views, nil
}

// Workers lists every worker account by name.
func (s *AssignmentService) Workers(ctx context.Context) ([]*models.User, error) {
	return s.users.ListByRole(ctx, models.RoleWorker)
}
