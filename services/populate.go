package services

import (
	"context"

	"civic-issues-be/models"
	"civic-issues-be/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// summaryLoader resolves account references in one query per batch.
type summaryLoader struct {
	users repository.UserRepository
	ids   map[primitive.ObjectID]struct{}
}

func newSummaryLoader(users repository.UserRepository) *summaryLoader {
	return &summaryLoader{users: users, ids: map[primitive.ObjectID]struct{}{}}
}

func (l *summaryLoader) add(id *primitive.ObjectID) {
	if id != nil && !id.IsZero() {
		l.ids[*id] = struct{}{}
	}
}

func (l *summaryLoader) load(ctx context.Context) (map[primitive.ObjectID]*models.UserSummary, error) {
	if len(l.ids) == 0 {
		return map[primitive.ObjectID]*models.UserSummary{}, nil
	}
	ids := make([]primitive.ObjectID, 0, len(l.ids))
	for id := range l.ids {
		ids = append(ids, id)
	}
	return l.users.FindSummaries(ctx, ids)
}

// lookup returns the summary for id, or a bare reference when the account is gone.
func lookup(summaries map[primitive.ObjectID]*models.UserSummary, id *primitive.ObjectID) *models.UserSummary {
	if id == nil || id.IsZero() {
		return nil
	}
	if s, ok := summaries[*id]; ok {
		return s
	}
	return &models.UserSummary{ID: *id}
}

// issueViews populates creator and assignee and computes the derived fields.
// viewer may be nil for anonymous callers.
func issueViews(ctx context.Context, users repository.UserRepository, issues []*models.Issue, viewer *primitive.ObjectID) ([]*models.IssueView, error) {
	loader := newSummaryLoader(users)
	for _, issue := range issues {
		loader.add(&issue.CreatedBy)
		loader.add(issue.AssignedTo)
	}
	summaries, err := loader.load(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]*models.IssueView, 0, len(issues))
	for _, issue := range issues {
		view := &models.IssueView{
			Issue:         issue,
			CreatedBy:     lookup(summaries, &issue.CreatedBy),
			AssignedTo:    lookup(summaries, issue.AssignedTo),
			UpvoteCount:   issue.UpvoteCount(),
			AverageRating: issue.AverageRating(),
		}
		if viewer != nil {
			view.UserHasVoted = issue.HasUpvoted(*viewer)
		}
		views = append(views, view)
	}
	return views, nil
}

func issueView(ctx context.Context, users repository.UserRepository, issue *models.Issue, viewer *primitive.ObjectID) (*models.IssueView, error) {
	views, err := issueViews(ctx, users, []*models.Issue{issue}, viewer)
	if err != nil {
		return nil, err
	}
	return views[0], nil
}
