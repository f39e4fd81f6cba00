package settlement

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-salon/internal/cashledger"
	"go-salon/internal/commission"
	"go-salon/internal/events"
	"go-salon/internal/expert"
	"go-salon/internal/messaging/kafka"
	settlementerrors "go-salon/internal/settlement/errors"
	"go-salon/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	// Generate persists the year's period windows, skipping numbers
	// that already exist for the business.
	Generate(ctx context.Context, businessID, actorID string, req GeneratePeriodsRequest) (GeneratePeriodsResult, error)
	CreatePeriod(ctx context.Context, businessID, actorID string, req CreatePeriodRequest) (PeriodResponse, error)
	GetAll(ctx context.Context, businessID string, filter PeriodQueryFilter) ([]PeriodResponse, error)
	GetByID(ctx context.Context, businessID, id string) (PeriodResponse, error)
	// Close snapshots the window's commissions into per-expert entries
	// and freezes further automatic accrual.
	Close(ctx context.Context, businessID, actorID, id string, req ClosePeriodRequest) (PeriodResponse, error)
	// Approve cascades PENDING -> APPROVED over every snapshotted record.
	Approve(ctx context.Context, businessID, actorID, id string, req ApprovePeriodRequest) (PeriodResponse, error)
	// Pay cascades the payment to every snapshotted record and, for
	// cash payouts, debits the cash ledger in the same transaction.
	Pay(ctx context.Context, businessID, actorID, id string, req PayPeriodRequest) (PeriodResponse, error)
	Cancel(ctx context.Context, businessID, actorID, id string, req CancelPeriodRequest) (PeriodResponse, error)
	// Recalculate rebuilds the snapshot from current record state,
	// pulling in late-arriving or corrected records.
	Recalculate(ctx context.Context, businessID, actorID, id string) (PeriodResponse, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	commissions commission.Repository
	experts     expert.Repository
	cash        cashledger.Service
	outbox      kafka.OutboxRepository
	logger      *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	commissions commission.Repository,
	experts expert.Repository,
	cash cashledger.Service,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("settlement.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("settlement.service")
	}
	return &service{
		db:          db,
		repo:        repo,
		commissions: commissions,
		experts:     experts,
		cash:        cash,
		outbox:      outbox,
		logger:      l,
	}
}

func (s *service) Generate(ctx context.Context, businessID, actorID string, req GeneratePeriodsRequest) (GeneratePeriodsResult, error) {
	s.logger.Debug("generate periods requested",
		zap.String("business_id", businessID),
		zap.Int("year", req.Year),
		zap.String("period_type", req.PeriodType),
	)

	businessUUID, err := uuid.Parse(businessID)
	if err != nil {
		return GeneratePeriodsResult{}, settlementerrors.ErrInvalidBusinessID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return GeneratePeriodsResult{}, settlementerrors.ErrInvalidActorID
	}

	windows, err := BuildYearWindows(req.Year, req.PeriodType, req.PayDayOffset)
	if err != nil {
		return GeneratePeriodsResult{}, err
	}

	var result GeneratePeriodsResult
	for _, w := range windows {
		p := &SettlementPeriod{
			ID:           uuid.New(),
			BusinessID:   businessUUID,
			Year:         req.Year,
			PeriodNumber: w.Number,
			PeriodType:   req.PeriodType,
			StartDate:    w.StartDate,
			EndDate:      w.EndDate,
			PayDate:      w.PayDate,
			Status:       StatusOpen,
			CreatedBy:    actorUUID,
			Version:      1,
		}

		created, err := s.repo.CreateIfAbsent(ctx, p)
		if err != nil {
			s.logger.Error("generate periods persist failed",
				zap.Int("period_number", w.Number),
				zap.Error(err),
			)
			return GeneratePeriodsResult{}, err
		}
		if !created {
			result.Skipped = append(result.Skipped, w.Number)
			continue
		}
		result.Created = append(result.Created, mapToResponse(*p, false))
	}
	s.logger.Info("generate periods success",
		zap.Int("year", req.Year),
		zap.Int("created", len(result.Created)),
		zap.Int("skipped", len(result.Skipped)),
	)

	return result, nil
}

func (s *service) CreatePeriod(ctx context.Context, businessID, actorID string, req CreatePeriodRequest) (PeriodResponse, error) {
	businessUUID, err := uuid.Parse(businessID)
	if err != nil {
		return PeriodResponse{}, settlementerrors.ErrInvalidBusinessID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return PeriodResponse{}, settlementerrors.ErrInvalidActorID
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		return PeriodResponse{}, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return PeriodResponse{}, err
	}
	pay, err := parseDate(req.PayDate)
	if err != nil {
		return PeriodResponse{}, err
	}

	p := &SettlementPeriod{
		ID:           uuid.New(),
		BusinessID:   businessUUID,
		Year:         req.Year,
		PeriodNumber: req.PeriodNumber,
		PeriodType:   req.PeriodType,
		StartDate:    start,
		EndDate:      end,
		PayDate:      pay,
		Status:       StatusOpen,
		CreatedBy:    actorUUID,
		Version:      1,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if isDuplicatePeriodViolation(err) {
			return PeriodResponse{}, settlementerrors.ErrDuplicatePeriod
		}
		s.logger.Error("create period persist failed", zap.Error(err))
		return PeriodResponse{}, err
	}
	s.logger.Info("create period success",
		zap.String("period_id", p.ID.String()),
		zap.Int("year", p.Year),
		zap.Int("period_number", p.PeriodNumber),
	)

	return mapToResponse(*p, false), nil
}

func isDuplicatePeriodViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_period_business_year_number"
	}
	return false
}

func (s *service) GetAll(ctx context.Context, businessID string, filter PeriodQueryFilter) ([]PeriodResponse, error) {
	if _, err := uuid.Parse(businessID); err != nil {
		return nil, settlementerrors.ErrInvalidBusinessID
	}

	periods, err := s.repo.FindAllByBusiness(ctx, businessID, PeriodQuery{
		Year:   filter.Year,
		Status: filter.Status,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]PeriodResponse, len(periods))
	for i, p := range periods {
		resp[i] = mapToResponse(p, false)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, businessID, id string) (PeriodResponse, error) {
	p, err := s.findPeriod(ctx, s.repo, businessID, id)
	if err != nil {
		return PeriodResponse{}, err
	}
	return mapToResponse(*p, true), nil
}

func (s *service) findPeriod(ctx context.Context, repo Repository, businessID, id string) (*SettlementPeriod, error) {
	if _, err := uuid.Parse(businessID); err != nil {
		return nil, settlementerrors.ErrInvalidBusinessID
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, settlementerrors.ErrInvalidPeriodID
	}

	p, err := repo.FindByIDAndBusiness(ctx, businessID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, settlementerrors.ErrPeriodNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *service) Close(ctx context.Context, businessID, actorID, id string, req ClosePeriodRequest) (PeriodResponse, error) {
	s.logger.Debug("close period requested",
		zap.String("period_id", id),
		zap.String("business_id", businessID),
	)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return PeriodResponse{}, settlementerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("close period begin tx failed", zap.Error(err))
		return PeriodResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := s.findPeriod(ctx, qtx, businessID, id)
	if err != nil {
		return PeriodResponse{}, err
	}
	if !isAllowedStatusTransition(p.Status, StatusClosed) {
		s.logger.Warn("close period invalid state",
			zap.String("period_id", id),
			zap.String("status", p.Status),
		)
		return PeriodResponse{}, settlementerrors.ErrInvalidStateTransition
	}

	// Snapshot read and cascade happen in one transaction: the records
	// aggregated here are exactly the records later approved and paid.
	records, err := s.commissions.WithTx(tx).FindInWindow(
		ctx, businessID, p.StartDate, endOfDay(p.EndDate),
		[]string{commission.StatusPending, commission.StatusApproved},
	)
	if err != nil {
		return PeriodResponse{}, err
	}
	if len(records) == 0 {
		return PeriodResponse{}, settlementerrors.ErrNoCommissionsInPeriod
	}

	resolve, err := s.nameResolver(ctx, businessID)
	if err != nil {
		return PeriodResponse{}, err
	}

	now := time.Now().UTC()
	entries := buildEntries(p.ID, p.BusinessID, records, resolve, now)
	if err := qtx.ReplaceEntries(ctx, businessID, id, entries); err != nil {
		s.logger.Error("close period replace entries failed", zap.Error(err))
		return PeriodResponse{}, err
	}

	summary := RecomputeSummary(entries)
	set := summaryColumns(summary)
	set["status"] = StatusClosed
	set["processed_at"] = now
	set["processed_by"] = actorUUID
	if req.Notes != nil {
		set["notes"] = *req.Notes
	}

	affected, err := qtx.UpdateStatusGuarded(ctx, businessID, id, StatusOpen, set)
	if err != nil {
		s.logger.Error("close period persist failed", zap.Error(err))
		return PeriodResponse{}, err
	}
	if affected == 0 {
		return PeriodResponse{}, settlementerrors.ErrConcurrentModification
	}

	if err := s.enqueueClosedEvent(ctx, tx, p, summary, actorUUID, now); err != nil {
		s.logger.Error("close period outbox failed", zap.Error(err))
		return PeriodResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("close period commit failed", zap.Error(err))
		return PeriodResponse{}, err
	}
	s.logger.Info("close period success",
		zap.String("period_id", id),
		zap.Int("total_experts", summary.TotalExperts),
		zap.Int64("total_commissions", summary.TotalCommissions),
	)

	p.Status = StatusClosed
	p.ProcessedAt = &now
	p.ProcessedBy = &actorUUID
	p.Notes = req.Notes
	p.Entries = entries
	applySummary(p, summary)

	return mapToResponse(*p, true), nil
}

func (s *service) Approve(ctx context.Context, businessID, actorID, id string, req ApprovePeriodRequest) (PeriodResponse, error) {
	s.logger.Debug("approve period requested",
		zap.String("period_id", id),
		zap.String("business_id", businessID),
	)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return PeriodResponse{}, settlementerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("approve period begin tx failed", zap.Error(err))
		return PeriodResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := s.findPeriod(ctx, qtx, businessID, id)
	if err != nil {
		return PeriodResponse{}, err
	}
	if p.Status != StatusClosed {
		s.logger.Warn("approve period invalid state",
			zap.String("period_id", id),
			zap.String("status", p.Status),
		)
		return PeriodResponse{}, settlementerrors.ErrInvalidStateTransition
	}

	now := time.Now().UTC()
	ids := commissionIDSet(p.Entries)

	// Guarded on PENDING so records already approved individually are
	// untouched and re-application stays idempotent.
	if _, err := s.commissions.WithTx(tx).TransitionStatus(
		ctx, businessID, ids,
		[]string{commission.StatusPending},
		map[string]any{"status": commission.StatusApproved, "updated_by": actorUUID},
	); err != nil {
		s.logger.Error("approve period cascade failed", zap.Error(err))
		return PeriodResponse{}, err
	}

	if err := qtx.UpdateEntriesStatus(ctx, businessID, id, map[string]any{
		"status": EntryStatusApproved,
	}); err != nil {
		return PeriodResponse{}, err
	}
	for i := range p.Entries {
		p.Entries[i].Status = EntryStatusApproved
	}

	summary := RecomputeSummary(p.Entries)
	set := summaryColumns(summary)
	set["status"] = StatusApproved
	set["approved_at"] = now
	set["approved_by"] = actorUUID
	if req.Notes != nil {
		set["notes"] = *req.Notes
	}

	affected, err := qtx.UpdateStatusGuarded(ctx, businessID, id, StatusClosed, set)
	if err != nil {
		s.logger.Error("approve period persist failed", zap.Error(err))
		return PeriodResponse{}, err
	}
	if affected == 0 {
		return PeriodResponse{}, settlementerrors.ErrConcurrentModification
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("approve period commit failed", zap.Error(err))
		return PeriodResponse{}, err
	}
	s.logger.Info("approve period success",
		zap.String("period_id", id),
		zap.Int("commissions", len(ids)),
	)

	p.Status = StatusApproved
	p.ApprovedAt = &now
	p.ApprovedBy = &actorUUID
	applySummary(p, summary)

	return mapToResponse(*p, true), nil
}

func (s *service) Pay(ctx context.Context, businessID, actorID, id string, req PayPeriodRequest) (PeriodResponse, error) {
	s.logger.Debug("pay period requested",
		zap.String("period_id", id),
		zap.String("business_id", businessID),
		zap.String("payment_method", req.PaymentMethod),
	)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return PeriodResponse{}, settlementerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("pay period begin tx failed", zap.Error(err))
		return PeriodResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := s.findPeriod(ctx, qtx, businessID, id)
	if err != nil {
		return PeriodResponse{}, err
	}
	if p.Status != StatusApproved {
		s.logger.Warn("pay period invalid state",
			zap.String("period_id", id),
			zap.String("status", p.Status),
		)
		return PeriodResponse{}, settlementerrors.ErrInvalidStateTransition
	}

	now := time.Now().UTC()
	ids := commissionIDSet(p.Entries)

	commissionsTx := s.commissions.WithTx(tx)
	if _, err := commissionsTx.TransitionStatus(
		ctx, businessID, ids,
		[]string{commission.StatusApproved},
		map[string]any{
			"status":         commission.StatusPaid,
			"payment_method": req.PaymentMethod,
			"payment_at":     now,
			"payment_notes":  req.Notes,
			"updated_by":     actorUUID,
		},
	); err != nil {
		s.logger.Error("pay period cascade failed", zap.Error(err))
		return PeriodResponse{}, err
	}

	// A payment cascade half-applied across records is a data
	// integrity failure: verify every snapshotted record landed on
	// PAID, otherwise roll the whole payment back.
	cascade, err := s.verifyPaidCascade(ctx, commissionsTx, businessID, ids)
	if err != nil {
		return PeriodResponse{}, err
	}
	if len(cascade.Failed) > 0 {
		s.logger.Error("pay period cascade incomplete",
			zap.String("period_id", id),
			zap.Int("succeeded", len(cascade.Succeeded)),
			zap.Int("failed", len(cascade.Failed)),
		)
		return PeriodResponse{}, settlementerrors.ErrCascadeIncomplete.WithDetails(cascade)
	}

	if err := qtx.UpdateEntriesStatus(ctx, businessID, id, map[string]any{
		"status":         EntryStatusPaid,
		"payment_method": req.PaymentMethod,
		"payment_date":   now,
	}); err != nil {
		return PeriodResponse{}, err
	}
	for i := range p.Entries {
		p.Entries[i].Status = EntryStatusPaid
		p.Entries[i].PaymentMethod = &req.PaymentMethod
		p.Entries[i].PaymentDate = &now
	}

	summary := RecomputeSummary(p.Entries)

	if req.PaymentMethod == PaymentMethodCash {
		reference := fmt.Sprintf("settlement period %d-%02d payout", p.Year, p.PeriodNumber)
		if err := s.cash.PostDebit(ctx, tx, p.BusinessID, actorUUID, summary.TotalCommissions, reference); err != nil {
			s.logger.Error("pay period cash debit failed", zap.Error(err))
			return PeriodResponse{}, err
		}
	}

	set := summaryColumns(summary)
	set["status"] = StatusPaid
	set["paid_at"] = now
	set["paid_by"] = actorUUID
	set["payment_method"] = req.PaymentMethod
	if req.Notes != nil {
		set["notes"] = *req.Notes
	}

	affected, err := qtx.UpdateStatusGuarded(ctx, businessID, id, StatusApproved, set)
	if err != nil {
		s.logger.Error("pay period persist failed", zap.Error(err))
		return PeriodResponse{}, err
	}
	if affected == 0 {
		return PeriodResponse{}, settlementerrors.ErrConcurrentModification
	}

	if err := s.enqueuePaidEvent(ctx, tx, p, summary, req.PaymentMethod, actorUUID, now); err != nil {
		s.logger.Error("pay period outbox failed", zap.Error(err))
		return PeriodResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("pay period commit failed", zap.Error(err))
		return PeriodResponse{}, err
	}
	s.logger.Info("pay period success",
		zap.String("period_id", id),
		zap.String("payment_method", req.PaymentMethod),
		zap.Int64("total_commissions", summary.TotalCommissions),
	)

	p.Status = StatusPaid
	p.PaidAt = &now
	p.PaidBy = &actorUUID
	p.PaymentMethod = &req.PaymentMethod
	applySummary(p, summary)

	return mapToResponse(*p, true), nil
}

func (s *service) verifyPaidCascade(ctx context.Context, repo commission.Repository, businessID string, ids []string) (CascadeResult, error) {
	records, err := repo.FindByIDs(ctx, businessID, ids)
	if err != nil {
		return CascadeResult{}, err
	}

	byID := make(map[string]string, len(records))
	for _, rec := range records {
		byID[rec.ID.String()] = rec.Status
	}

	result := CascadeResult{Succeeded: []string{}, Failed: []string{}}
	for _, id := range ids {
		if byID[id] == commission.StatusPaid {
			result.Succeeded = append(result.Succeeded, id)
			continue
		}
		result.Failed = append(result.Failed, id)
	}
	return result, nil
}

func (s *service) Cancel(ctx context.Context, businessID, actorID, id string, req CancelPeriodRequest) (PeriodResponse, error) {
	s.logger.Debug("cancel period requested",
		zap.String("period_id", id),
		zap.String("business_id", businessID),
	)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return PeriodResponse{}, settlementerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("cancel period begin tx failed", zap.Error(err))
		return PeriodResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := s.findPeriod(ctx, qtx, businessID, id)
	if err != nil {
		return PeriodResponse{}, err
	}
	if p.Status == StatusPaid {
		return PeriodResponse{}, settlementerrors.ErrCannotCancelPaidPeriod
	}
	if !isAllowedStatusTransition(p.Status, StatusCancelled) {
		return PeriodResponse{}, settlementerrors.ErrInvalidStateTransition
	}

	now := time.Now().UTC()

	// Entries are cancelled, the underlying records are not: they stay
	// eligible for a future period.
	if err := qtx.UpdateEntriesStatus(ctx, businessID, id, map[string]any{
		"status": EntryStatusCancelled,
	}); err != nil {
		return PeriodResponse{}, err
	}
	for i := range p.Entries {
		p.Entries[i].Status = EntryStatusCancelled
	}

	summary := RecomputeSummary(p.Entries)
	set := summaryColumns(summary)
	set["status"] = StatusCancelled
	set["cancelled_at"] = now
	set["cancelled_by"] = actorUUID
	set["cancellation_reason"] = req.Reason

	affected, err := qtx.UpdateStatusGuarded(ctx, businessID, id, p.Status, set)
	if err != nil {
		s.logger.Error("cancel period persist failed", zap.Error(err))
		return PeriodResponse{}, err
	}
	if affected == 0 {
		return PeriodResponse{}, settlementerrors.ErrConcurrentModification
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("cancel period commit failed", zap.Error(err))
		return PeriodResponse{}, err
	}
	s.logger.Info("cancel period success",
		zap.String("period_id", id),
		zap.String("reason", req.Reason),
	)

	p.Status = StatusCancelled
	p.CancelledAt = &now
	p.CancelledBy = &actorUUID
	p.CancellationReason = &req.Reason
	applySummary(p, summary)

	return mapToResponse(*p, true), nil
}

func (s *service) Recalculate(ctx context.Context, businessID, actorID, id string) (PeriodResponse, error) {
	s.logger.Debug("recalculate period requested",
		zap.String("period_id", id),
		zap.String("business_id", businessID),
	)

	if _, err := uuid.Parse(actorID); err != nil {
		return PeriodResponse{}, settlementerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("recalculate period begin tx failed", zap.Error(err))
		return PeriodResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := s.findPeriod(ctx, qtx, businessID, id)
	if err != nil {
		return PeriodResponse{}, err
	}
	if p.Status == StatusPaid || p.Status == StatusCancelled {
		s.logger.Warn("recalculate period on terminal state",
			zap.String("period_id", id),
			zap.String("status", p.Status),
		)
		return PeriodResponse{}, settlementerrors.ErrInvalidStateTransition
	}

	// Unlike close, the rebuild includes every record currently in the
	// window regardless of status.
	records, err := s.commissions.WithTx(tx).FindInWindow(
		ctx, businessID, p.StartDate, endOfDay(p.EndDate), nil,
	)
	if err != nil {
		return PeriodResponse{}, err
	}

	resolve, err := s.nameResolver(ctx, businessID)
	if err != nil {
		return PeriodResponse{}, err
	}

	now := time.Now().UTC()
	entries := buildEntries(p.ID, p.BusinessID, records, resolve, now)
	if err := qtx.ReplaceEntries(ctx, businessID, id, entries); err != nil {
		s.logger.Error("recalculate period replace entries failed", zap.Error(err))
		return PeriodResponse{}, err
	}

	summary := RecomputeSummary(entries)
	set := summaryColumns(summary)

	// Status does not move: the guard only protects against a
	// concurrent lifecycle transition.
	affected, err := qtx.UpdateStatusGuarded(ctx, businessID, id, p.Status, set)
	if err != nil {
		s.logger.Error("recalculate period persist failed", zap.Error(err))
		return PeriodResponse{}, err
	}
	if affected == 0 {
		return PeriodResponse{}, settlementerrors.ErrConcurrentModification
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("recalculate period commit failed", zap.Error(err))
		return PeriodResponse{}, err
	}
	s.logger.Info("recalculate period success",
		zap.String("period_id", id),
		zap.Int("total_experts", summary.TotalExperts),
		zap.Int("total_count", summary.TotalCount),
	)

	p.Entries = entries
	applySummary(p, summary)

	return mapToResponse(*p, true), nil
}

// nameResolver snapshots the business expert roster once per
// aggregation instead of a lookup per record.
func (s *service) nameResolver(ctx context.Context, businessID string) (ExpertNameResolver, error) {
	experts, err := s.experts.FindAllByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]expert.Expert, len(experts))
	for _, e := range experts {
		byID[e.ID] = e
	}
	return func(expertID uuid.UUID) (string, string, bool) {
		e, ok := byID[expertID]
		if !ok {
			return "", "", false
		}
		return e.FullName, e.Alias, true
	}, nil
}

func (s *service) enqueueClosedEvent(ctx context.Context, tx *sql.Tx, p *SettlementPeriod, summary Summary, actorUUID uuid.UUID, now time.Time) error {
	payload, err := json.Marshal(events.SettlementPeriodClosedEvent{
		EventType:    "settlement.period.closed",
		PeriodID:     p.ID.String(),
		BusinessID:   p.BusinessID.String(),
		Year:         p.Year,
		PeriodNumber: p.PeriodNumber,
		TotalExperts: summary.TotalExperts,
		TotalAmount:  summary.TotalCommissions,
		ProcessedBy:  actorUUID.String(),
		OccurredAt:   now,
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "settlement_period",
		AggregateID:   p.ID.String(),
		EventType:     "settlement.period.closed",
		Topic:         events.SettlementPeriodClosedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) enqueuePaidEvent(ctx context.Context, tx *sql.Tx, p *SettlementPeriod, summary Summary, paymentMethod string, actorUUID uuid.UUID, now time.Time) error {
	payload, err := json.Marshal(events.SettlementPeriodPaidEvent{
		EventType:     "settlement.period.paid",
		PeriodID:      p.ID.String(),
		BusinessID:    p.BusinessID.String(),
		Year:          p.Year,
		PeriodNumber:  p.PeriodNumber,
		TotalAmount:   summary.TotalCommissions,
		PaymentMethod: paymentMethod,
		PaidBy:        actorUUID.String(),
		OccurredAt:    now,
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "settlement_period",
		AggregateID:   p.ID.String(),
		EventType:     "settlement.period.paid",
		Topic:         events.SettlementPeriodPaidTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func summaryColumns(s Summary) map[string]any {
	return map[string]any{
		"total_experts":     s.TotalExperts,
		"total_commissions": s.TotalCommissions,
		"total_count":       s.TotalCount,
		"pending_amount":    s.PendingAmount,
		"approved_amount":   s.ApprovedAmount,
		"paid_amount":       s.PaidAmount,
		"cancelled_amount":  s.CancelledAmount,
	}
}

func applySummary(p *SettlementPeriod, s Summary) {
	p.TotalExperts = s.TotalExperts
	p.TotalCommissions = s.TotalCommissions
	p.TotalCount = s.TotalCount
	p.PendingAmount = s.PendingAmount
	p.ApprovedAmount = s.ApprovedAmount
	p.PaidAmount = s.PaidAmount
	p.CancelledAmount = s.CancelledAmount
}

func endOfDay(t time.Time) time.Time {
	return t.Add(24*time.Hour - time.Nanosecond)
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, settlementerrors.ErrInvalidDate
	}
	return t, nil
}

func mapToResponse(p SettlementPeriod, withEntries bool) PeriodResponse {
	resp := PeriodResponse{
		ID:           p.ID.String(),
		BusinessID:   p.BusinessID.String(),
		Year:         p.Year,
		PeriodNumber: p.PeriodNumber,
		PeriodType:   p.PeriodType,
		StartDate:    p.StartDate.Format("2006-01-02"),
		EndDate:      p.EndDate.Format("2006-01-02"),
		PayDate:      p.PayDate.Format("2006-01-02"),
		Status:       p.Status,
		Summary: SummaryResponse{
			TotalExperts:     p.TotalExperts,
			TotalCommissions: p.TotalCommissions,
			TotalCount:       p.TotalCount,
			PendingAmount:    p.PendingAmount,
			ApprovedAmount:   p.ApprovedAmount,
			PaidAmount:       p.PaidAmount,
			CancelledAmount:  p.CancelledAmount,
		},
		PaymentMethod:      p.PaymentMethod,
		CancellationReason: p.CancellationReason,
	}

	resp.ProcessedAt = formatTimePtr(p.ProcessedAt)
	resp.ProcessedBy = formatUUIDPtr(p.ProcessedBy)
	resp.ApprovedAt = formatTimePtr(p.ApprovedAt)
	resp.ApprovedBy = formatUUIDPtr(p.ApprovedBy)
	resp.PaidAt = formatTimePtr(p.PaidAt)
	resp.PaidBy = formatUUIDPtr(p.PaidBy)
	resp.CancelledAt = formatTimePtr(p.CancelledAt)
	resp.CancelledBy = formatUUIDPtr(p.CancelledBy)

	if withEntries {
		resp.Entries = make([]EntryResponse, len(p.Entries))
		for i, e := range p.Entries {
			resp.Entries[i] = EntryResponse{
				ID:                     e.ID.String(),
				ExpertID:               e.ExpertID.String(),
				ExpertName:             e.ExpertName,
				ExpertAlias:            e.ExpertAlias,
				TotalCommissions:       e.TotalCommissions,
				CommissionCount:        e.CommissionCount,
				ServiceCommissions:     e.ServiceCommissions,
				RetailCommissions:      e.RetailCommissions,
				ExceptionalCommissions: e.ExceptionalCommissions,
				Status:                 e.Status,
				PaymentMethod:          e.PaymentMethod,
				PaymentDate:            formatTimePtr(e.PaymentDate),
				CommissionIDs:          e.CommissionIDs,
			}
		}
	}
	return resp
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.UTC().Format(time.RFC3339)
	return &v
}

func formatUUIDPtr(u *uuid.UUID) *string {
	if u == nil {
		return nil
	}
	v := u.String()
	return &v
}
