package events

import "time"

const SaleCompletedTopic = "salon.sale.completed.v1"

// SaleCompletedEvent is emitted once a sale and its lines are persisted.
// The commission consumer derives one commission record per line from it.
type SaleCompletedEvent struct {
	EventType  string              `json:"event_type"`
	SaleID     string              `json:"sale_id"`
	BusinessID string              `json:"business_id"`
	SoldBy     string              `json:"sold_by"`
	Lines      []SaleCompletedLine `json:"lines"`
	OccurredAt time.Time           `json:"occurred_at"`
}

type SaleCompletedLine struct {
	LineID     string `json:"line_id"`
	ExpertID   string `json:"expert_id"`
	Kind       string `json:"kind"` // SERVICE or RETAIL
	BaseAmount int64  `json:"base_amount"`
	InputCosts int64  `json:"input_costs"`
}
