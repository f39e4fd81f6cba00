package expert

type PolicyPayload struct {
	ServiceRateBP        int64  `json:"service_rate_bp" binding:"min=0,max=10000"`
	RetailRateBP         int64  `json:"retail_rate_bp" binding:"min=0,max=10000"`
	CalculationMethod    string `json:"calculation_method" binding:"required,oneof=BEFORE_INPUTS AFTER_INPUTS"`
	MinServiceCommission int64  `json:"min_service_commission" binding:"min=0"`
	MaxServiceCommission *int64 `json:"max_service_commission"`
}

type CreateExpertRequest struct {
	FullName string        `json:"full_name" binding:"required"`
	Alias    string        `json:"alias"`
	Phone    string        `json:"phone"`
	Policy   PolicyPayload `json:"policy" binding:"required"`
}

type UpdateExpertRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Alias    string `json:"alias"`
	Phone    string `json:"phone"`
	Active   *bool  `json:"active"`
}

type UpdatePolicyRequest struct {
	Policy PolicyPayload `json:"policy" binding:"required"`
}

type PolicyResponse struct {
	ServiceRateBP        int64  `json:"service_rate_bp"`
	RetailRateBP         int64  `json:"retail_rate_bp"`
	CalculationMethod    string `json:"calculation_method"`
	MinServiceCommission int64  `json:"min_service_commission"`
	MaxServiceCommission *int64 `json:"max_service_commission,omitempty"`
}

type ExpertResponse struct {
	ID         string         `json:"id"`
	BusinessID string         `json:"business_id"`
	FullName   string         `json:"full_name"`
	Alias      string         `json:"alias,omitempty"`
	Phone      string         `json:"phone,omitempty"`
	Active     bool           `json:"active"`
	Policy     PolicyResponse `json:"policy"`
	CreatedBy  string         `json:"created_by"`
}
