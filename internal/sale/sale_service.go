package sale

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-salon/internal/commission"
	"go-salon/internal/events"
	"go-salon/internal/messaging/kafka"
	saleerrors "go-salon/internal/sale/errors"
	"go-salon/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	// Create persists the sale and enqueues a sale.completed outbox
	// event in the same transaction. Commission ingestion happens
	// asynchronously in the consumer.
	Create(ctx context.Context, businessID, actorID string, req CreateSaleRequest) (SaleResponse, error)
	GetAll(ctx context.Context, businessID string) ([]SaleResponse, error)
	GetByID(ctx context.Context, businessID, id string) (SaleResponse, error)
	// RecalculateCommissions rebuilds the sale's commission records
	// from its persisted lines, for back-office corrections.
	RecalculateCommissions(ctx context.Context, businessID, actorID, id string) (commission.IngestSaleResult, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	commissions commission.Service
	outbox      kafka.OutboxRepository
	logger      *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	commissions commission.Service,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("sale.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("sale.service")
	}
	return &service{
		db:          db,
		repo:        repo,
		commissions: commissions,
		outbox:      outbox,
		logger:      l,
	}
}

func (s *service) Create(ctx context.Context, businessID, actorID string, req CreateSaleRequest) (SaleResponse, error) {
	s.logger.Debug("create sale requested",
		zap.String("business_id", businessID),
		zap.Int("lines", len(req.Lines)),
	)

	businessUUID, err := uuid.Parse(businessID)
	if err != nil {
		return SaleResponse{}, saleerrors.ErrInvalidBusinessID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return SaleResponse{}, saleerrors.ErrInvalidActorID
	}
	soldByUUID, err := uuid.Parse(req.SoldBy)
	if err != nil {
		return SaleResponse{}, saleerrors.ErrInvalidActorID
	}

	now := time.Now().UTC()
	sale := &Sale{
		ID:         uuid.New(),
		BusinessID: businessUUID,
		SoldBy:     soldByUUID,
		Notes:      req.Notes,
		CreatedBy:  actorUUID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	for _, line := range req.Lines {
		expertUUID, err := uuid.Parse(line.ExpertID)
		if err != nil {
			return SaleResponse{}, saleerrors.ErrInvalidLine
		}
		if line.BaseAmount < 0 {
			return SaleResponse{}, saleerrors.ErrInvalidLine
		}

		l := SaleLine{
			ID:          uuid.New(),
			SaleID:      sale.ID,
			BusinessID:  businessUUID,
			ExpertID:    expertUUID,
			Kind:        line.Kind,
			Description: line.Description,
			BaseAmount:  line.BaseAmount,
			CreatedAt:   now,
		}
		for _, item := range line.InputItems {
			if item.Cost < 0 {
				return SaleResponse{}, saleerrors.ErrInvalidLine
			}
			l.InputItems = append(l.InputItems, InputItem{Name: item.Name, Cost: item.Cost})
			l.InputCosts += item.Cost
		}
		// Input costs only make sense on service lines.
		if l.Kind == LineKindRetail {
			l.InputItems = nil
			l.InputCosts = 0
		}

		sale.Total += l.BaseAmount
		sale.Lines = append(sale.Lines, l)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create sale begin tx failed", zap.Error(err))
		return SaleResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, sale); err != nil {
		s.logger.Error("create sale persist failed", zap.Error(err))
		return SaleResponse{}, err
	}

	if err := s.enqueueCompletedEvent(ctx, tx, sale, now); err != nil {
		s.logger.Error("create sale outbox failed", zap.Error(err))
		return SaleResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create sale commit failed", zap.Error(err))
		return SaleResponse{}, err
	}
	s.logger.Info("create sale success",
		zap.String("sale_id", sale.ID.String()),
		zap.Int64("total", sale.Total),
		zap.Int("lines", len(sale.Lines)),
	)

	return mapToResponse(*sale), nil
}

func (s *service) enqueueCompletedEvent(ctx context.Context, tx *sql.Tx, sale *Sale, now time.Time) error {
	event := events.SaleCompletedEvent{
		EventType:  "sale.completed",
		SaleID:     sale.ID.String(),
		BusinessID: sale.BusinessID.String(),
		SoldBy:     sale.SoldBy.String(),
		OccurredAt: now,
	}
	for _, l := range sale.Lines {
		event.Lines = append(event.Lines, events.SaleCompletedLine{
			LineID:     l.ID.String(),
			ExpertID:   l.ExpertID.String(),
			Kind:       l.Kind,
			BaseAmount: l.BaseAmount,
			InputCosts: l.InputCosts,
		})
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "sale",
		AggregateID:   sale.ID.String(),
		EventType:     "sale.completed",
		Topic:         events.SaleCompletedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) GetAll(ctx context.Context, businessID string) ([]SaleResponse, error) {
	if _, err := uuid.Parse(businessID); err != nil {
		return nil, saleerrors.ErrInvalidBusinessID
	}

	sales, err := s.repo.FindAllByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}

	resp := make([]SaleResponse, len(sales))
	for i, sl := range sales {
		resp[i] = mapToResponse(sl)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, businessID, id string) (SaleResponse, error) {
	sale, err := s.findSale(ctx, businessID, id)
	if err != nil {
		return SaleResponse{}, err
	}
	return mapToResponse(*sale), nil
}

func (s *service) findSale(ctx context.Context, businessID, id string) (*Sale, error) {
	if _, err := uuid.Parse(businessID); err != nil {
		return nil, saleerrors.ErrInvalidBusinessID
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, saleerrors.ErrInvalidSaleID
	}

	sale, err := s.repo.FindByIDAndBusiness(ctx, businessID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, saleerrors.ErrSaleNotFound
		}
		return nil, err
	}
	return sale, nil
}

func (s *service) RecalculateCommissions(ctx context.Context, businessID, actorID, id string) (commission.IngestSaleResult, error) {
	sale, err := s.findSale(ctx, businessID, id)
	if err != nil {
		return commission.IngestSaleResult{}, err
	}

	lines := make([]commission.SaleLineInput, len(sale.Lines))
	for i, l := range sale.Lines {
		lines[i] = commission.SaleLineInput{
			LineID:     l.ID.String(),
			ExpertID:   l.ExpertID.String(),
			Kind:       l.Kind,
			BaseAmount: l.BaseAmount,
			InputCosts: l.InputCosts,
		}
	}

	result, err := s.commissions.RecalculateSale(ctx, businessID, actorID, id, lines)
	if err != nil {
		return commission.IngestSaleResult{}, err
	}
	s.logger.Info("sale commissions recalculated",
		zap.String("sale_id", id),
		zap.Int("recreated", len(result.Created)),
	)
	return result, nil
}

func mapToResponse(s Sale) SaleResponse {
	resp := SaleResponse{
		ID:         s.ID.String(),
		BusinessID: s.BusinessID.String(),
		SoldBy:     s.SoldBy.String(),
		Total:      s.Total,
		Notes:      s.Notes,
		CreatedBy:  s.CreatedBy.String(),
		CreatedAt:  s.CreatedAt.UTC().Format(time.RFC3339),
		Lines:      make([]SaleLineResponse, len(s.Lines)),
	}
	for i, l := range s.Lines {
		resp.Lines[i] = SaleLineResponse{
			ID:          l.ID.String(),
			ExpertID:    l.ExpertID.String(),
			Kind:        l.Kind,
			Description: l.Description,
			BaseAmount:  l.BaseAmount,
			InputCosts:  l.InputCosts,
			InputItems:  l.InputItems,
		}
	}
	return resp
}
