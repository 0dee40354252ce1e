package services

import (
	"context"
	"time"

	"civic-issues-be/models"
	"civic-issues-be/repository"
)

const topWorkersLimit = 10

// Period is an analytics lookback window.
type Period string

const (
	Period7d  Period = "7d"
	Period30d Period = "30d"
	Period90d Period = "90d"
	Period1y  Period = "1y"
)

// ParsePeriod falls back to 30d for anything it does not recognise.
func ParsePeriod(s string) Period {
	switch p := Period(s); p {
	case Period7d, Period30d, Period90d, Period1y:
		return p
	}
	return Period30d
}

func (p Period) Duration() time.Duration {
	day := 24 * time.Hour
	switch p {
	case Period7d:
		return 7 * day
	case Period90d:
		return 90 * day
	case Period1y:
		return 365 * day
	}
	return 30 * day
}

// AnalyticsService assembles the admin dashboard. The window bounds the
// recent-issue count and the monthly trend; the breakdowns cover all issues.
type AnalyticsService struct {
	repo repository.AnalyticsRepository
	now  func() time.Time
}

func NewAnalyticsService(repo repository.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{repo: repo, now: time.Now}
}

func (s *AnalyticsService) Compute(ctx context.Context, period Period) (*models.Analytics, error) {
	since := s.now().Add(-period.Duration())

	var (
		out models.Analytics
		err error
	)
	if out.Overview, err = s.repo.Overview(ctx, since); err != nil {
		return nil, err
	}
	if out.CategoryStats, err = s.repo.CountBy(ctx, "category"); err != nil {
		return nil, err
	}
	if out.StatusStats, err = s.repo.CountBy(ctx, "status"); err != nil {
		return nil, err
	}
	if out.PriorityStats, err = s.repo.CountBy(ctx, "priority"); err != nil {
		return nil, err
	}
	if out.ResolutionTime, err = s.repo.ResolutionTime(ctx); err != nil {
		return nil, err
	}
	if out.MonthlyTrend, err = s.repo.MonthlyTrend(ctx, since); err != nil {
		return nil, err
	}
	if out.TopWorkers, err = s.repo.TopWorkers(ctx, topWorkersLimit); err != nil {
		return nil, err
	}
	if out.LocationData, err = s.repo.Locations(ctx); err != nil {
		return nil, err
	}
	out.Overview.ResolutionRate = models.ResolutionRate(out.Overview.ResolvedIssues, out.Overview.TotalIssues)
	return &out, nil
}
