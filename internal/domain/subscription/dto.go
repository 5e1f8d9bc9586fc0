// internal/domain/subscription/dto.go
package subscription

type CreatePlanRequest struct {
	PlanCode       string   `json:"plan_code" binding:"required,max=50"`
	Name           string   `json:"name" binding:"required,max=255"`
	Description    string   `json:"description"`
	Price          float64  `json:"price" binding:"required,min=0"`
	Currency       string   `json:"currency" binding:"required,len=3"`
	DurationMonths int      `json:"duration_months" binding:"required,min=1"`
	Features       []string `json:"features"`
}

type UpdatePlanRequest struct {
	Name        *string  `json:"name" binding:"omitempty,max=255"`
	Description *string  `json:"description"`
	Features    []string `json:"features"`
	IsActive    *bool    `json:"is_active"`
}

type CheckoutRequest struct {
	PlanID int64 `json:"plan_id" binding:"required"`
}

type CheckoutResponse struct {
	Subscription *Subscription `json:"subscription"`
	CheckoutURL  string        `json:"checkout_url"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

type SubscriptionListFilters struct {
	Status   *SubscriptionStatus `form:"status"`
	UserID   *int64              `form:"user_id"`
	Page     int                 `form:"page,default=1" binding:"min=1"`
	PageSize int                 `form:"page_size,default=20" binding:"min=1,max=100"`
}

type SubscriptionListResponse struct {
	Subscriptions []Subscription `json:"subscriptions"`
	Total         int64          `json:"total"`
	Page          int            `json:"page"`
	PageSize      int            `json:"page_size"`
	TotalPages    int            `json:"total_pages"`
}
