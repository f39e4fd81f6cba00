package cashledger

type CreateMovementRequest struct {
	Type      string  `json:"type" binding:"required,oneof=CREDIT DEBIT"`
	Amount    int64   `json:"amount" binding:"required,gt=0"`
	Reference string  `json:"reference" binding:"required,max=255"`
	Notes     *string `json:"notes" binding:"omitempty,max=2000"`
}

type MovementQueryFilter struct {
	Type string `form:"type" binding:"omitempty,oneof=CREDIT DEBIT"`
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

type MovementResponse struct {
	ID         string  `json:"id"`
	BusinessID string  `json:"business_id"`
	Type       string  `json:"type"`
	Amount     int64   `json:"amount"`
	Reference  string  `json:"reference"`
	Notes      *string `json:"notes,omitempty"`
	CreatedBy  string  `json:"created_by"`
	CreatedAt  string  `json:"created_at"`
}

type BalanceResponse struct {
	BusinessID string `json:"business_id"`
	Balance    int64  `json:"balance"`
}
