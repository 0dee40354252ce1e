package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"civic-issues-be/apperrors"
	"civic-issues-be/models"
	"civic-issues-be/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeUsers struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	f := &fakeUsers{users: map[primitive.ObjectID]models.User{}}
	for _, u := range users {
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		f.users[u.ID] = *u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return apperrors.Conflict("User already exists with this email")
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUsers) find(match func(models.User) bool) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if match(u) {
			out := u
			return &out, nil
		}
	}
	return nil, apperrors.NotFound("User")
}

func (f *fakeUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	return f.find(func(u models.User) bool { return u.ID == id })
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return f.find(func(u models.User) bool { return u.Email == email })
}

func (f *fakeUsers) FindByPhone(_ context.Context, phone string) (*models.User, error) {
	return f.find(func(u models.User) bool { return phone != "" && u.Phone == phone })
}

func (f *fakeUsers) FindByVerificationToken(_ context.Context, token string) (*models.User, error) {
	return f.find(func(u models.User) bool { return token != "" && u.VerificationToken == token })
}

func (f *fakeUsers) FindByResetToken(_ context.Context, token string) (*models.User, error) {
	return f.find(func(u models.User) bool { return token != "" && u.ResetPasswordToken == token })
}

func (f *fakeUsers) Update(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return apperrors.NotFound("User")
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUsers) FindSummaries(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.UserSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[primitive.ObjectID]*models.UserSummary{}
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = u.Summary()
		}
	}
	return out, nil
}

func (f *fakeUsers) ListByRole(_ context.Context, role models.Role) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.User{}
	for _, u := range f.users {
		if u.Role == role {
			u := u
			out = append(out, &u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeUsers) get(id primitive.ObjectID) models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id]
}

type fakeIssues struct {
	mu     sync.Mutex
	issues map[primitive.ObjectID]*models.Issue

	// beforeFeedback runs once ahead of the next AddFeedback, standing in
	// for a concurrent writer.
	beforeFeedback func()
}

func newFakeIssues(issues ...*models.Issue) *fakeIssues {
	f := &fakeIssues{issues: map[primitive.ObjectID]*models.Issue{}}
	for _, i := range issues {
		if i.ID.IsZero() {
			i.ID = primitive.NewObjectID()
		}
		f.issues[i.ID] = cloneIssue(i)
	}
	return f
}

func cloneIssue(i *models.Issue) *models.Issue {
	out := *i
	out.Photos = append([]string(nil), i.Photos...)
	out.Upvotes = append([]models.Upvote(nil), i.Upvotes...)
	out.Feedback = append([]models.Feedback(nil), i.Feedback...)
	if i.AssignedTo != nil {
		id := *i.AssignedTo
		out.AssignedTo = &id
	}
	if i.ResolvedAt != nil {
		t := *i.ResolvedAt
		out.ResolvedAt = &t
	}
	return &out
}

func (f *fakeIssues) Create(_ context.Context, issue *models.Issue) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if issue.ID.IsZero() {
		issue.ID = primitive.NewObjectID()
	}
	f.issues[issue.ID] = cloneIssue(issue)
	return nil
}

func (f *fakeIssues) FindByID(_ context.Context, id primitive.ObjectID) (*models.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	issue, ok := f.issues[id]
	if !ok {
		return nil, apperrors.NotFound("Issue")
	}
	return cloneIssue(issue), nil
}

func (f *fakeIssues) FindBriefs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.IssueBrief, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[primitive.ObjectID]*models.IssueBrief{}
	for _, id := range ids {
		if issue, ok := f.issues[id]; ok {
			out[id] = issue.Brief()
		}
	}
	return out, nil
}

func (f *fakeIssues) List(_ context.Context, filter repository.IssueFilter) ([]*models.Issue, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []*models.Issue
	for _, issue := range f.issues {
		switch {
		case filter.Category != "" && issue.Category != filter.Category,
			filter.Status != "" && issue.Status != filter.Status,
			filter.Priority != "" && issue.Priority != filter.Priority,
			filter.CreatedBy != nil && issue.CreatedBy != *filter.CreatedBy,
			filter.AssignedTo != nil && (issue.AssignedTo == nil || *issue.AssignedTo != *filter.AssignedTo):
			continue
		}
		matched = append(matched, cloneIssue(issue))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	start := min(filter.Skip, total)
	end := total
	if filter.Limit > 0 {
		end = min(start+filter.Limit, total)
	}
	return matched[start:end], total, nil
}

func (f *fakeIssues) UpdateDetails(_ context.Context, issue *models.Issue) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.issues[issue.ID]
	if !ok {
		return apperrors.NotFound("Issue")
	}
	stored.Title = issue.Title
	stored.Description = issue.Description
	stored.Category = issue.Category
	stored.Priority = issue.Priority
	stored.Photos = append([]string(nil), issue.Photos...)
	stored.UpdatedAt = issue.UpdatedAt
	return nil
}

func (f *fakeIssues) UpdateLifecycle(_ context.Context, issue *models.Issue) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.issues[issue.ID]
	if !ok {
		return apperrors.NotFound("Issue")
	}
	stored.Status = issue.Status
	stored.UpdatedAt = issue.UpdatedAt
	if issue.AssignedTo != nil {
		id := *issue.AssignedTo
		stored.AssignedTo = &id
	}
	if issue.ResolutionNotes != "" {
		stored.ResolutionNotes = issue.ResolutionNotes
	}
	if stored.ResolvedAt == nil && issue.ResolvedAt != nil {
		t := *issue.ResolvedAt
		stored.ResolvedAt = &t
	}
	return nil
}

func (f *fakeIssues) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.issues[id]; !ok {
		return apperrors.NotFound("Issue")
	}
	delete(f.issues, id)
	return nil
}

func (f *fakeIssues) AddUpvote(_ context.Context, issueID primitive.ObjectID, upvote models.Upvote) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	issue, ok := f.issues[issueID]
	if !ok || issue.HasUpvoted(upvote.User) {
		return false, nil
	}
	issue.Upvotes = append(issue.Upvotes, upvote)
	return true, nil
}

func (f *fakeIssues) RemoveUpvote(_ context.Context, issueID, userID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	issue, ok := f.issues[issueID]
	if !ok {
		return apperrors.NotFound("Issue")
	}
	issue.RemoveUpvote(userID)
	return nil
}

func (f *fakeIssues) AddFeedback(_ context.Context, issueID primitive.ObjectID, feedback models.Feedback) (bool, error) {
	if hook := f.beforeFeedback; hook != nil {
		f.beforeFeedback = nil
		hook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	issue, ok := f.issues[issueID]
	if !ok || issue.Status != models.StatusResolved || issue.HasFeedback(feedback.User) {
		return false, nil
	}
	issue.Feedback = append(issue.Feedback, feedback)
	return true, nil
}

func (f *fakeIssues) get(id primitive.ObjectID) *models.Issue {
	f.mu.Lock()
	defer f.mu.Unlock()
	if issue, ok := f.issues[id]; ok {
		return cloneIssue(issue)
	}
	return nil
}

type fakeAssignments struct {
	mu          sync.Mutex
	assignments []*models.Assignment
	// failUpdate makes UpdateStatus fail, simulating a lost second write.
	failUpdate error
}

func (f *fakeAssignments) Create(_ context.Context, a *models.Assignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	stored := *a
	f.assignments = append(f.assignments, &stored)
	return nil
}

func (f *fakeAssignments) FindLatestByIssue(_ context.Context, issueID primitive.ObjectID) (*models.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.assignments) - 1; i >= 0; i-- {
		if f.assignments[i].Issue == issueID {
			out := *f.assignments[i]
			return &out, nil
		}
	}
	return nil, apperrors.NotFound("Assignment")
}

func (f *fakeAssignments) UpdateStatus(_ context.Context, a *models.Assignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdate != nil {
		return f.failUpdate
	}
	for _, stored := range f.assignments {
		if stored.ID == a.ID {
			stored.Status = a.Status
			stored.UpdatedAt = a.UpdatedAt
			if stored.ActualCompletionDate == nil && a.ActualCompletionDate != nil {
				t := *a.ActualCompletionDate
				stored.ActualCompletionDate = &t
			}
			return nil
		}
	}
	return apperrors.NotFound("Assignment")
}

func (f *fakeAssignments) List(_ context.Context, filter repository.AssignmentFilter) ([]*models.Assignment, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []*models.Assignment
	for i := len(f.assignments) - 1; i >= 0; i-- {
		a := f.assignments[i]
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.AssignedTo != nil && a.AssignedTo != *filter.AssignedTo {
			continue
		}
		out := *a
		matched = append(matched, &out)
	}
	total := int64(len(matched))
	start := min(filter.Skip, total)
	end := total
	if filter.Limit > 0 {
		end = min(start+filter.Limit, total)
	}
	return matched[start:end], total, nil
}

func (f *fakeAssignments) forIssue(issueID primitive.ObjectID) []models.Assignment {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Assignment
	for _, a := range f.assignments {
		if a.Issue == issueID {
			out = append(out, *a)
		}
	}
	return out
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

type sentMail struct {
	To, Subject, Body string
}

func (m *fakeMailer) SendMail(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return m.err
}

type fakeSMS struct {
	mu   sync.Mutex
	sent map[string]string
	err  error
}

func (s *fakeSMS) SendSMS(_ context.Context, to, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sent == nil {
		s.sent = map[string]string{}
	}
	s.sent[to] = body
	return s.err
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newUser(name string, role models.Role) *models.User {
	return &models.User{
		ID:         primitive.NewObjectID(),
		Name:       name,
		Email:      name + "@example.com",
		Role:       role,
		IsVerified: true,
	}
}
