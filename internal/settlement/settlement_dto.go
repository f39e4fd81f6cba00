package settlement

type GeneratePeriodsRequest struct {
	Year         int    `json:"year" binding:"required,gte=2000,lte=2200"`
	PeriodType   string `json:"period_type" binding:"required,oneof=WEEKLY BIWEEKLY MONTHLY QUARTERLY"`
	PayDayOffset int    `json:"pay_day_offset" binding:"gte=0,lte=60"`
}

type GeneratePeriodsResult struct {
	Created []PeriodResponse `json:"created"`
	Skipped []int            `json:"skipped_period_numbers"`
}

type CreatePeriodRequest struct {
	Year         int    `json:"year" binding:"required,gte=2000,lte=2200"`
	PeriodNumber int    `json:"period_number" binding:"required,gte=1"`
	PeriodType   string `json:"period_type" binding:"required,oneof=WEEKLY BIWEEKLY MONTHLY QUARTERLY"`
	StartDate    string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate      string `json:"end_date" binding:"required,datetime=2006-01-02"`
	PayDate      string `json:"pay_date" binding:"required,datetime=2006-01-02"`
}

type ClosePeriodRequest struct {
	Notes *string `json:"notes" binding:"omitempty,max=2000"`
}

type ApprovePeriodRequest struct {
	Notes *string `json:"notes" binding:"omitempty,max=2000"`
}

type PayPeriodRequest struct {
	PaymentMethod string  `json:"payment_method" binding:"required,oneof=CASH TRANSFER CHECK"`
	Notes         *string `json:"notes" binding:"omitempty,max=2000"`
}

type CancelPeriodRequest struct {
	Reason string `json:"reason" binding:"required,max=2000"`
}

type PeriodQueryFilter struct {
	Year   int    `form:"year" binding:"omitempty,gte=2000,lte=2200"`
	Status string `form:"status" binding:"omitempty,oneof=OPEN CLOSED APPROVED PAID CANCELLED"`
}

type SummaryResponse struct {
	TotalExperts     int   `json:"total_experts"`
	TotalCommissions int64 `json:"total_commissions"`
	TotalCount       int   `json:"total_count"`
	PendingAmount    int64 `json:"pending_amount"`
	ApprovedAmount   int64 `json:"approved_amount"`
	PaidAmount       int64 `json:"paid_amount"`
	CancelledAmount  int64 `json:"cancelled_amount"`
}

type EntryResponse struct {
	ID                     string   `json:"id"`
	ExpertID               string   `json:"expert_id"`
	ExpertName             string   `json:"expert_name"`
	ExpertAlias            string   `json:"expert_alias,omitempty"`
	TotalCommissions       int64    `json:"total_commissions"`
	CommissionCount        int      `json:"commission_count"`
	ServiceCommissions     int64    `json:"service_commissions"`
	RetailCommissions      int64    `json:"retail_commissions"`
	ExceptionalCommissions int64    `json:"exceptional_commissions"`
	Status                 string   `json:"status"`
	PaymentMethod          *string  `json:"payment_method,omitempty"`
	PaymentDate            *string  `json:"payment_date,omitempty"`
	CommissionIDs          []string `json:"commission_ids"`
}

type PeriodResponse struct {
	ID           string  `json:"id"`
	BusinessID   string  `json:"business_id"`
	Year         int     `json:"year"`
	PeriodNumber int     `json:"period_number"`
	PeriodType   string  `json:"period_type"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	PayDate      string  `json:"pay_date"`
	Status       string  `json:"status"`

	Summary SummaryResponse `json:"summary"`
	Entries []EntryResponse `json:"expert_commissions,omitempty"`

	ProcessedAt        *string `json:"processed_at,omitempty"`
	ProcessedBy        *string `json:"processed_by,omitempty"`
	ApprovedAt         *string `json:"approved_at,omitempty"`
	ApprovedBy         *string `json:"approved_by,omitempty"`
	PaidAt             *string `json:"paid_at,omitempty"`
	PaidBy             *string `json:"paid_by,omitempty"`
	PaymentMethod      *string `json:"payment_method,omitempty"`
	CancelledAt        *string `json:"cancelled_at,omitempty"`
	CancelledBy        *string `json:"cancelled_by,omitempty"`
	CancellationReason *string `json:"cancellation_reason,omitempty"`
}

// CascadeResult reports a partially applied commission cascade. It is
// attached as error details when the period transition is rolled back.
type CascadeResult struct {
	Succeeded []string `json:"succeeded"`
	Failed    []string `json:"failed"`
}
