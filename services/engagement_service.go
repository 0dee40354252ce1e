package services

import (
	"context"
	"errors"
	"time"

	"civic-issues-be/apperrors"
	"civic-issues-be/models"
	"civic-issues-be/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EngagementService handles upvotes and post-resolution feedback. The
// one-per-user rules are enforced by conditional writes in the store.
type EngagementService struct {
	issues repository.IssueRepository
	now    func() time.Time
}

func NewEngagementService(issues repository.IssueRepository) *EngagementService {
	return &EngagementService{issues: issues, now: time.Now}
}

type FeedbackResult struct {
	AverageRating float64 `json:"averageRating"`
	FeedbackCount int     `json:"feedbackCount"`
}

// Upvote adds the user's upvote and returns the new count.
func (s *EngagementService) Upvote(ctx context.Context, issueID, userID primitive.ObjectID) (int, error) {
	stored, err := s.issues.AddUpvote(ctx, issueID, models.Upvote{User: userID, CreatedAt: s.now()})
	if err != nil {
		return 0, err
	}

	issue, err := s.issues.FindByID(ctx, issueID)
	if err != nil {
		return 0, err
	}
	if !stored {
		return 0, apperrors.Conflict("You have already upvoted this issue")
	}
	return issue.UpvoteCount(), nil
}

// RemoveUpvote drops the user's upvote if there is one.
func (s *EngagementService) RemoveUpvote(ctx context.Context, issueID, userID primitive.ObjectID) (int, error) {
	if err := s.issues.RemoveUpvote(ctx, issueID, userID); err != nil {
		return 0, err
	}
	issue, err := s.issues.FindByID(ctx, issueID)
	if err != nil {
		return 0, err
	}
	return issue.UpvoteCount(), nil
}

// SubmitFeedback rates a resolved issue. The status gate is checked before
// the rating so a pending issue always answers the same way.
func (s *EngagementService) SubmitFeedback(ctx context.Context, issueID, userID primitive.ObjectID, rating int, comment string) (*FeedbackResult, error) {
	issue, err := s.issues.FindByID(ctx, issueID)
	if err != nil {
		return nil, err
	}

	feedback, err := issue.AddFeedback(userID, rating, comment, s.now())
	if err != nil {
		return nil, feedbackError(err)
	}

	stored, err := s.issues.AddFeedback(ctx, issueID, feedback)
	if err != nil {
		return nil, err
	}

	// Reload so the result includes entries written since the first read.
	current, err := s.issues.FindByID(ctx, issueID)
	if err != nil {
		return nil, err
	}
	if !stored {
		if current.Status != models.StatusResolved {
			return nil, feedbackError(models.ErrFeedbackNotAllowed)
		}
		return nil, feedbackError(models.ErrAlreadyReviewed)
	}
	return &FeedbackResult{AverageRating: current.AverageRating(), FeedbackCount: len(current.Feedback)}, nil
}

func feedbackError(err error) error {
	switch {
	case errors.Is(err, models.ErrFeedbackNotAllowed):
		return apperrors.Validation("Feedback can only be submitted for resolved issues")
	case errors.Is(err, models.ErrInvalidRating):
		return apperrors.Validation("Rating must be between 1 and 5")
	case errors.Is(err, models.ErrAlreadyReviewed):
		return apperrors.Conflict("You have already submitted feedback for this issue")
	}
	return err
}
