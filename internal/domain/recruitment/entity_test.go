package recruitment

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var frozen = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func deadline(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: true}
}

func TestApplyAutoClose(t *testing.T) {
	tests := []struct {
		name       string
		rec        Recruitment
		wantChange bool
		wantStatus RecruitmentStatus
	}{
		{
			name:       "published past deadline closes",
			rec:        Recruitment{Status: StatusPublished, AutoClose: true, Deadline: deadline(frozen.Add(-time.Hour))},
			wantChange: true,
			wantStatus: StatusClosed,
		},
		{
			name:       "deadline exactly now closes",
			rec:        Recruitment{Status: StatusPublished, AutoClose: true, Deadline: deadline(frozen)},
			wantChange: true,
			wantStatus: StatusClosed,
		},
		{
			name:       "draft past deadline closes too",
			rec:        Recruitment{Status: StatusDraft, AutoClose: true, Deadline: deadline(frozen.Add(-time.Hour))},
			wantChange: true,
			wantStatus: StatusClosed,
		},
		{
			name:       "deadline in the future",
			rec:        Recruitment{Status: StatusPublished, AutoClose: true, Deadline: deadline(frozen.Add(time.Hour))},
			wantChange: false,
			wantStatus: StatusPublished,
		},
		{
			name:       "auto close disabled",
			rec:        Recruitment{Status: StatusPublished, AutoClose: false, Deadline: deadline(frozen.Add(-time.Hour))},
			wantChange: false,
			wantStatus: StatusPublished,
		},
		{
			name:       "no deadline set",
			rec:        Recruitment{Status: StatusPublished, AutoClose: true},
			wantChange: false,
			wantStatus: StatusPublished,
		},
		{
			name:       "already closed is left alone",
			rec:        Recruitment{Status: StatusClosed, AutoClose: true, Deadline: deadline(frozen.Add(-time.Hour))},
			wantChange: false,
			wantStatus: StatusClosed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changed := tt.rec.ApplyAutoClose(frozen)
			assert.Equal(t, tt.wantChange, changed)
			assert.Equal(t, tt.wantStatus, tt.rec.Status)
		})
	}
}

func TestIsValidApplicationStatus(t *testing.T) {
	for _, s := range []ApplicationStatus{
		ApplicationPending, ApplicationReviewed, ApplicationInterviewed,
		ApplicationAccepted, ApplicationRejected,
	} {
		assert.True(t, IsValidApplicationStatus(s), string(s))
	}
	assert.False(t, IsValidApplicationStatus("shortlisted"))
	assert.False(t, IsValidApplicationStatus(""))
}
