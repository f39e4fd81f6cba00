package sale

type InputItemPayload struct {
	Name string `json:"name" binding:"required,max=255"`
	Cost int64  `json:"cost" binding:"min=0"`
}

type SaleLinePayload struct {
	ExpertID    string             `json:"expert_id" binding:"required,uuid"`
	Kind        string             `json:"kind" binding:"required,oneof=SERVICE RETAIL"`
	Description string             `json:"description" binding:"omitempty,max=255"`
	BaseAmount  int64              `json:"base_amount" binding:"min=0"`
	InputItems  []InputItemPayload `json:"input_items" binding:"omitempty,dive"`
}

type CreateSaleRequest struct {
	SoldBy string            `json:"sold_by" binding:"required,uuid"`
	Notes  *string           `json:"notes" binding:"omitempty,max=2000"`
	Lines  []SaleLinePayload `json:"lines" binding:"required,min=1,dive"`
}

type SaleLineResponse struct {
	ID          string      `json:"id"`
	ExpertID    string      `json:"expert_id"`
	Kind        string      `json:"kind"`
	Description string      `json:"description,omitempty"`
	BaseAmount  int64       `json:"base_amount"`
	InputCosts  int64       `json:"input_costs"`
	InputItems  []InputItem `json:"input_items,omitempty"`
}

type SaleResponse struct {
	ID         string             `json:"id"`
	BusinessID string             `json:"business_id"`
	SoldBy     string             `json:"sold_by"`
	Total      int64              `json:"total"`
	Notes      *string            `json:"notes,omitempty"`
	Lines      []SaleLineResponse `json:"lines"`
	CreatedBy  string             `json:"created_by"`
	CreatedAt  string             `json:"created_at"`
}
