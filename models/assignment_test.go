package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignmentStatusFor(t *testing.T) {
	tests := map[IssueStatus]AssignmentStatus{
		StatusResolved:   AssignmentCompleted,
		StatusInProgress: AssignmentInProgress,
		StatusRejected:   AssignmentRejected,
		StatusPending:    AssignmentAssigned,
		StatusAccepted:   AssignmentAssigned,
		IssueStatus(""):  AssignmentAssigned,
	}

	for in, want := range tests {
		assert.Equal(t, want, AssignmentStatusFor(in), "issue status %q", in)
	}
}

func TestAssignmentCompletionStampedOnce(t *testing.T) {
	created := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	a := &Assignment{Status: AssignmentAssigned, CreatedAt: created}
	assert.Nil(t, a.Duration())

	done := created.Add(36 * time.Hour)
	a.SetStatus(AssignmentCompleted, done)
	a.SetStatus(AssignmentCompleted, done.Add(time.Hour))

	require.NotNil(t, a.ActualCompletionDate)
	assert.Equal(t, done, *a.ActualCompletionDate)
	require.NotNil(t, a.Duration())
	assert.Equal(t, 36*time.Hour, *a.Duration())
}

func TestNewAssignmentViewDuration(t *testing.T) {
	created := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	a := &Assignment{CreatedAt: created}
	a.SetStatus(AssignmentCompleted, created.Add(2*time.Second))

	v := NewAssignmentView(a, nil, nil, nil)
	require.NotNil(t, v.DurationMs)
	assert.Equal(t, int64(2000), *v.DurationMs)
}
