// internal/domain/remuneration/dto.go
package remuneration

type CreateRemunerationRequest struct {
	TaskID   int64            `json:"task_id" binding:"required"`
	UserID   int64            `json:"user_id" binding:"required"`
	Type     RemunerationType `json:"type" binding:"omitempty,oneof=task_completion bonus refund other"`
	Amount   float64          `json:"amount" binding:"required,gt=0"`
	Currency string           `json:"currency" binding:"omitempty,len=3"`
	Notes    string           `json:"notes"`
}

type PayRequest struct {
	PaymentRef    string `json:"payment_ref"`
	PaymentMethod string `json:"payment_method" binding:"required,max=50"`
}

type RemunerationListFilters struct {
	UserID   *int64              `form:"user_id"`
	TaskID   *int64              `form:"task_id"`
	Status   *RemunerationStatus `form:"status"`
	Page     int                 `form:"page,default=1" binding:"min=1"`
	PageSize int                 `form:"page_size,default=20" binding:"min=1,max=100"`
}
