package cashledger

import (
	"context"
	"database/sql"
	"time"

	cashledgererrors "go-salon/internal/cashledger/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	CreateMovement(ctx context.Context, businessID, actorID string, req CreateMovementRequest) (MovementResponse, error)
	GetAll(ctx context.Context, businessID string, filter MovementQueryFilter) ([]MovementResponse, error)
	GetBalance(ctx context.Context, businessID string) (BalanceResponse, error)

	// PostDebit records a payout against the cash box through the
	// caller's transaction. Settlement uses it when a period is paid
	// in cash.
	PostDebit(ctx context.Context, tx *sql.Tx, businessID, actorID uuid.UUID, amount int64, reference string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("cashledger.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("cashledger.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) CreateMovement(ctx context.Context, businessID, actorID string, req CreateMovementRequest) (MovementResponse, error) {
	businessUUID, err := uuid.Parse(businessID)
	if err != nil {
		return MovementResponse{}, cashledgererrors.ErrInvalidBusinessID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return MovementResponse{}, cashledgererrors.ErrInvalidActorID
	}
	if req.Amount <= 0 {
		return MovementResponse{}, cashledgererrors.ErrInvalidAmount
	}
	if req.Type != MovementCredit && req.Type != MovementDebit {
		return MovementResponse{}, cashledgererrors.ErrInvalidMovementType
	}

	m := &CashMovement{
		ID:         uuid.New(),
		BusinessID: businessUUID,
		Type:       req.Type,
		Amount:     req.Amount,
		Reference:  req.Reference,
		Notes:      req.Notes,
		CreatedBy:  actorUUID,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		s.logger.Error("create movement persist failed", zap.Error(err))
		return MovementResponse{}, err
	}
	s.logger.Info("cash movement recorded",
		zap.String("movement_id", m.ID.String()),
		zap.String("type", m.Type),
		zap.Int64("amount", m.Amount),
	)

	return mapToResponse(*m), nil
}

func (s *service) GetAll(ctx context.Context, businessID string, filter MovementQueryFilter) ([]MovementResponse, error) {
	if _, err := uuid.Parse(businessID); err != nil {
		return nil, cashledgererrors.ErrInvalidBusinessID
	}

	q := MovementQuery{Type: filter.Type}
	if filter.From != "" {
		t, err := time.Parse("2006-01-02", filter.From)
		if err != nil {
			return nil, cashledgererrors.ErrInvalidDateFormat
		}
		q.From = &t
	}
	if filter.To != "" {
		t, err := time.Parse("2006-01-02", filter.To)
		if err != nil {
			return nil, cashledgererrors.ErrInvalidDateFormat
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		q.To = &end
	}

	movements, err := s.repo.FindAllByBusiness(ctx, businessID, q)
	if err != nil {
		return nil, err
	}

	resp := make([]MovementResponse, len(movements))
	for i, m := range movements {
		resp[i] = mapToResponse(m)
	}
	return resp, nil
}

func (s *service) GetBalance(ctx context.Context, businessID string) (BalanceResponse, error) {
	if _, err := uuid.Parse(businessID); err != nil {
		return BalanceResponse{}, cashledgererrors.ErrInvalidBusinessID
	}
	balance, err := s.repo.Balance(ctx, businessID)
	if err != nil {
		return BalanceResponse{}, err
	}
	return BalanceResponse{BusinessID: businessID, Balance: balance}, nil
}

func (s *service) PostDebit(ctx context.Context, tx *sql.Tx, businessID, actorID uuid.UUID, amount int64, reference string) error {
	if amount <= 0 {
		return cashledgererrors.ErrInvalidAmount
	}

	m := &CashMovement{
		ID:         uuid.New(),
		BusinessID: businessID,
		Type:       MovementDebit,
		Amount:     amount,
		Reference:  reference,
		CreatedBy:  actorID,
	}
	if err := s.repo.WithTx(tx).Create(ctx, m); err != nil {
		s.logger.Error("post debit failed",
			zap.String("reference", reference),
			zap.Error(err),
		)
		return err
	}
	s.logger.Info("cash debit posted",
		zap.Int64("amount", amount),
		zap.String("reference", reference),
	)
	return nil
}

func mapToResponse(m CashMovement) MovementResponse {
	return MovementResponse{
		ID:         m.ID.String(),
		BusinessID: m.BusinessID.String(),
		Type:       m.Type,
		Amount:     m.Amount,
		Reference:  m.Reference,
		Notes:      m.Notes,
		CreatedBy:  m.CreatedBy.String(),
		CreatedAt:  m.CreatedAt.UTC().Format(time.RFC3339),
	}
}
