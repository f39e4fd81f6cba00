package events

import "time"

const (
	SettlementPeriodClosedTopic = "salon.settlement.period.closed.v1"
	SettlementPeriodPaidTopic   = "salon.settlement.period.paid.v1"
)

type SettlementPeriodClosedEvent struct {
	EventType    string    `json:"event_type"`
	PeriodID     string    `json:"period_id"`
	BusinessID   string    `json:"business_id"`
	Year         int       `json:"year"`
	PeriodNumber int       `json:"period_number"`
	TotalExperts int       `json:"total_experts"`
	TotalAmount  int64     `json:"total_amount"`
	ProcessedBy  string    `json:"processed_by"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type SettlementPeriodPaidEvent struct {
	EventType     string    `json:"event_type"`
	PeriodID      string    `json:"period_id"`
	BusinessID    string    `json:"business_id"`
	Year          int       `json:"year"`
	PeriodNumber  int       `json:"period_number"`
	TotalAmount   int64     `json:"total_amount"`
	PaymentMethod string    `json:"payment_method"`
	PaidBy        string    `json:"paid_by"`
	OccurredAt    time.Time `json:"occurred_at"`
}
