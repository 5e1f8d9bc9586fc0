// internal/domain/recruitment/dto.go
package recruitment

import (
	"encoding/json"
	"time"
)

type CreateRecruitmentRequest struct {
	Title       string     `json:"title" binding:"required,max=255"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
	AutoClose   bool       `json:"auto_close"`

	CustomFields []CustomFieldInput `json:"custom_fields"`
}

type CustomFieldInput struct {
	Label     string   `json:"label" binding:"required,max=255"`
	FieldType string   `json:"field_type" binding:"omitempty,oneof=text textarea select file"`
	Required  bool     `json:"required"`
	Options   []string `json:"options"`
}

type UpdateRecruitmentRequest struct {
	Title       *string            `json:"title" binding:"omitempty,max=255"`
	Description *string            `json:"description"`
	Status      *RecruitmentStatus `json:"status" binding:"omitempty,oneof=draft published closed"`
	Deadline    *time.Time         `json:"deadline"`
	AutoClose   *bool              `json:"auto_close"`
}

type ApplyRequest struct {
	ApplicantName  string          `json:"applicant_name" binding:"required,max=255"`
	ApplicantEmail string          `json:"applicant_email" binding:"required,email"`
	Answers        json.RawMessage `json:"answers"`
}

type UpdateApplicationStatusRequest struct {
	Status ApplicationStatus `json:"status" binding:"required"`
}

type RecruitmentListFilters struct {
	Status   *RecruitmentStatus `form:"status"`
	Page     int                `form:"page,default=1" binding:"min=1"`
	PageSize int                `form:"page_size,default=20" binding:"min=1,max=100"`
}
