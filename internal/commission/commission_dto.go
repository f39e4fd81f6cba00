package commission

// SaleLineInput is one commissionable sale line. Kind decides the
// computation path (SERVICE lines carry input costs, RETAIL never do).
type SaleLineInput struct {
	LineID     string `json:"line_id" binding:"required,uuid"`
	ExpertID   string `json:"expert_id" binding:"required,uuid"`
	Kind       string `json:"kind" binding:"required,oneof=SERVICE RETAIL"`
	BaseAmount int64  `json:"base_amount" binding:"min=0"`
	InputCosts int64  `json:"input_costs" binding:"min=0"`
}

type IngestSaleRequest struct {
	SaleID string          `json:"sale_id" binding:"required,uuid"`
	Lines  []SaleLineInput `json:"lines" binding:"required,min=1,dive"`
}

type SkippedLine struct {
	LineID   string `json:"line_id"`
	ExpertID string `json:"expert_id"`
	Reason   string `json:"reason"`
}

// IngestSaleResult reports partial-failure semantics: lines whose expert
// could not be resolved are skipped, sibling lines still produce records.
type IngestSaleResult struct {
	SaleID  string               `json:"sale_id"`
	Created []CommissionResponse `json:"created"`
	Skipped []SkippedLine        `json:"skipped,omitempty"`
}

type ExceptionalEventRequest struct {
	Reason           string  `json:"reason" binding:"required"`
	AdjustmentType   string  `json:"adjustment_type" binding:"required,oneof=INCREASE DECREASE"`
	AdjustmentAmount int64   `json:"adjustment_amount" binding:"required,min=1"`
	AdjustmentBP     *int64  `json:"adjustment_bp"`
	Notes            *string `json:"notes"`
}

type MarkPaidRequest struct {
	PaymentMethod string  `json:"payment_method" binding:"required"`
	Notes         *string `json:"notes"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CommissionQueryFilter is the typed list filter; free-form query
// objects never reach the repository.
type CommissionQueryFilter struct {
	ExpertID    string `form:"expert_id"`
	SaleID      string `form:"sale_id"`
	Status      string `form:"status"`
	Type        string `form:"type"`
	CreatedFrom string `form:"created_from"` // YYYY-MM-DD
	CreatedTo   string `form:"created_to"`   // YYYY-MM-DD
}

type ExceptionalEventResponse struct {
	Reason           string  `json:"reason"`
	AdjustmentType   string  `json:"adjustment_type"`
	AdjustmentAmount int64   `json:"adjustment_amount"`
	AdjustmentBP     *int64  `json:"adjustment_bp,omitempty"`
	ApprovedBy       string  `json:"approved_by"`
	ApprovedAt       string  `json:"approved_at"`
	Notes            *string `json:"notes,omitempty"`
}

type CommissionResponse struct {
	ID               string                    `json:"id"`
	BusinessID       string                    `json:"business_id"`
	ExpertID         string                    `json:"expert_id"`
	SaleID           string                    `json:"sale_id"`
	SaleLineID       *string                   `json:"sale_line_id,omitempty"`
	Type             string                    `json:"type"`
	BaseAmount       int64                     `json:"base_amount"`
	InputCosts       int64                     `json:"input_costs"`
	NetAmount        int64                     `json:"net_amount"`
	BaseRateBP       int64                     `json:"base_rate_bp"`
	AppliedRateBP    int64                     `json:"applied_rate_bp"`
	CommissionAmount int64                     `json:"commission_amount"`
	Status           string                    `json:"status"`
	ExceptionalEvent *ExceptionalEventResponse `json:"exceptional_event,omitempty"`
	PaymentMethod    *string                   `json:"payment_method,omitempty"`
	PaymentAt        *string                   `json:"payment_at,omitempty"`
	PaymentNotes     *string                   `json:"payment_notes,omitempty"`
	Notes            *string                   `json:"notes,omitempty"`
	CreatedBy        string                    `json:"created_by"`
	CreatedAt        string                    `json:"created_at"`
}
