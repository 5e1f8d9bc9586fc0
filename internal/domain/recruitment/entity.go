// internal/domain/recruitment/entity.go
package recruitment

import (
	"database/sql"
	"encoding/json"
	"time"
)

type RecruitmentStatus string

const (
	StatusDraft     RecruitmentStatus = "draft"
	StatusPublished RecruitmentStatus = "published"
	StatusClosed    RecruitmentStatus = "closed"
)

type Recruitment struct {
	ID          int64             `json:"id" db:"id"`
	CreatedBy   int64             `json:"created_by" db:"created_by"`
	Title       string            `json:"title" db:"title"`
	Description sql.NullString    `json:"description,omitempty" db:"description"`
	Status      RecruitmentStatus `json:"status" db:"status"`
	Deadline    sql.NullTime      `json:"deadline,omitempty" db:"deadline"`
	AutoClose   bool              `json:"auto_close" db:"auto_close"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" db:"updated_at"`
}

// ApplyAutoClose forces the posting to closed when auto_close is set and the
// deadline has elapsed at the given instant. It runs before every save and
// reports whether the status was changed. Already-closed postings are left
// alone.
func (r *Recruitment) ApplyAutoClose(now time.Time) bool {
	if !r.AutoClose || !r.Deadline.Valid {
		return false
	}
	if r.Status == StatusClosed {
		return false
	}
	if r.Deadline.Time.After(now) {
		return false
	}
	r.Status = StatusClosed
	return true
}

// Application statuses. There is no enforced transition graph: a reviewer
// may move an application from any status to any other.
type ApplicationStatus string

const (
	ApplicationPending     ApplicationStatus = "pending"
	ApplicationReviewed    ApplicationStatus = "reviewed"
	ApplicationInterviewed ApplicationStatus = "interviewed"
	ApplicationAccepted    ApplicationStatus = "accepted"
	ApplicationRejected    ApplicationStatus = "rejected"
)

// IsValidApplicationStatus reports whether s is a known application status.
func IsValidApplicationStatus(s ApplicationStatus) bool {
	switch s {
	case ApplicationPending, ApplicationReviewed, ApplicationInterviewed,
		ApplicationAccepted, ApplicationRejected:
		return true
	}
	return false
}

type Application struct {
	ID             int64             `json:"id" db:"id"`
	RecruitmentID  int64             `json:"recruitment_id" db:"recruitment_id"`
	ApplicantName  string            `json:"applicant_name" db:"applicant_name"`
	ApplicantEmail string            `json:"applicant_email" db:"applicant_email"`
	Status         ApplicationStatus `json:"status" db:"status"`
	Answers        json.RawMessage   `json:"answers,omitempty" db:"answers"`
	CreatedAt      time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at" db:"updated_at"`
}

type CustomField struct {
	ID            int64    `json:"id" db:"id"`
	RecruitmentID int64    `json:"recruitment_id" db:"recruitment_id"`
	Label         string   `json:"label" db:"label"`
	FieldType     string   `json:"field_type" db:"field_type"`
	Required      bool     `json:"required" db:"required"`
	Options       []string `json:"options,omitempty" db:"options"`
	Position      int      `json:"position" db:"position"`
}
