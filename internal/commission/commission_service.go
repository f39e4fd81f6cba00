package commission

import (
	"context"
	"database/sql"
	"errors"
	"time"

	commissionerrors "go-salon/internal/commission/errors"
	"go-salon/internal/expert"
	experterrors "go-salon/internal/expert/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	// IngestSale derives one PENDING commission record per resolvable
	// sale line. Lines whose expert is missing or inactive are skipped,
	// sibling lines still process.
	IngestSale(ctx context.Context, businessID, actorID string, req IngestSaleRequest) (IngestSaleResult, error)
	// RecalculateSale deletes and recreates every record of one sale
	// from the given lines. Refused once any record of the sale is PAID.
	RecalculateSale(ctx context.Context, businessID, actorID, saleID string, lines []SaleLineInput) (IngestSaleResult, error)
	GetAll(ctx context.Context, businessID string, filter CommissionQueryFilter) ([]CommissionResponse, error)
	GetByID(ctx context.Context, businessID, id string) (CommissionResponse, error)
	Approve(ctx context.Context, businessID, actorID, id string) (CommissionResponse, error)
	MarkPaid(ctx context.Context, businessID, actorID, id string, req MarkPaidRequest) (CommissionResponse, error)
	Cancel(ctx context.Context, businessID, actorID, id string, req CancelRequest) (CommissionResponse, error)
	ApplyExceptionalEvent(ctx context.Context, businessID, actorID, id string, req ExceptionalEventRequest) (CommissionResponse, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	experts expert.Service
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, experts expert.Service, logger ...*zap.Logger) Service {
	l := zap.L().Named("commission.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("commission.service")
	}
	return &service{db: db, repo: repo, experts: experts, logger: l}
}

func (s *service) IngestSale(ctx context.Context, businessID, actorID string, req IngestSaleRequest) (IngestSaleResult, error) {
	s.logger.Debug("ingest sale requested",
		zap.String("business_id", businessID),
		zap.String("sale_id", req.SaleID),
		zap.Int("lines", len(req.Lines)),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("ingest sale begin tx failed", zap.Error(err))
		return IngestSaleResult{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	result, err := s.ingestLines(ctx, qtx, businessID, actorID, req.SaleID, req.Lines)
	if err != nil {
		return IngestSaleResult{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("ingest sale commit failed", zap.Error(err))
		return IngestSaleResult{}, err
	}
	s.logger.Info("ingest sale success",
		zap.String("sale_id", req.SaleID),
		zap.Int("created", len(result.Created)),
		zap.Int("skipped", len(result.Skipped)),
	)

	return result, nil
}

// ingestLines runs inside the caller's transaction so ingestion and
// recalculation share one code path.
func (s *service) ingestLines(
	ctx context.Context,
	qtx Repository,
	businessID, actorID, saleID string,
	lines []SaleLineInput,
) (IngestSaleResult, error) {
	businessUUID, err := uuid.Parse(businessID)
	if err != nil {
		return IngestSaleResult{}, commissionerrors.ErrInvalidBusinessID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return IngestSaleResult{}, commissionerrors.ErrInvalidActorID
	}
	saleUUID, err := uuid.Parse(saleID)
	if err != nil {
		return IngestSaleResult{}, commissionerrors.ErrInvalidSaleID
	}

	result := IngestSaleResult{SaleID: saleID}

	for _, line := range lines {
		if line.BaseAmount < 0 || line.InputCosts < 0 {
			return IngestSaleResult{}, commissionerrors.ErrInvalidAmount
		}

		e, err := s.experts.ResolveActive(ctx, businessID, line.ExpertID)
		if err != nil {
			if errors.Is(err, experterrors.ErrExpertNotFound) || errors.Is(err, experterrors.ErrExpertInactive) {
				s.logger.Warn("skipping commission line, expert not eligible",
					zap.String("sale_id", saleID),
					zap.String("line_id", line.LineID),
					zap.String("expert_id", line.ExpertID),
					zap.Error(err),
				)
				result.Skipped = append(result.Skipped, SkippedLine{
					LineID:   line.LineID,
					ExpertID: line.ExpertID,
					Reason:   err.Error(),
				})
				continue
			}
			return IngestSaleResult{}, err
		}

		// A policy mutated outside the validated write path must not
		// silently produce money.
		if err := e.Policy.Validate(); err != nil {
			return IngestSaleResult{}, err
		}

		rec, err := buildRecord(businessUUID, saleUUID, actorUUID, *e, line)
		if err != nil {
			return IngestSaleResult{}, err
		}

		if err := qtx.Create(ctx, rec); err != nil {
			s.logger.Error("ingest sale persist failed",
				zap.String("sale_id", saleID),
				zap.String("line_id", line.LineID),
				zap.Error(err),
			)
			return IngestSaleResult{}, err
		}
		result.Created = append(result.Created, mapToResponse(*rec))
	}

	return result, nil
}

func buildRecord(businessUUID, saleUUID, actorUUID uuid.UUID, e expert.Expert, line SaleLineInput) (*CommissionRecord, error) {
	lineUUID, err := uuid.Parse(line.LineID)
	if err != nil {
		return nil, commissionerrors.ErrInvalidSaleID
	}

	rec := &CommissionRecord{
		ID:         uuid.New(),
		BusinessID: businessUUID,
		ExpertID:   e.ID,
		SaleID:     saleUUID,
		SaleLineID: &lineUUID,
		BaseAmount: line.BaseAmount,
		Status:     StatusPending,
		CreatedBy:  actorUUID,
		Version:    1,
	}

	switch line.Kind {
	case TypeService:
		rec.Type = TypeService
		rec.InputCosts = line.InputCosts
		rec.BaseRateBP = e.Policy.ServiceRateBP
		rec.AppliedRateBP = e.Policy.ServiceRateBP
		rec.NetAmount, rec.CommissionAmount = ComputeService(e.Policy, line.BaseAmount, line.InputCosts)
	case TypeRetail:
		rec.Type = TypeRetail
		rec.InputCosts = 0
		rec.BaseRateBP = e.Policy.RetailRateBP
		rec.AppliedRateBP = e.Policy.RetailRateBP
		rec.NetAmount, rec.CommissionAmount = ComputeRetail(e.Policy, line.BaseAmount)
	default:
		return nil, commissionerrors.ErrInvalidLineKind
	}

	return rec, nil
}

func (s *service) RecalculateSale(ctx context.Context, businessID, actorID, saleID string, lines []SaleLineInput) (IngestSaleResult, error) {
	s.logger.Debug("recalculate sale requested",
		zap.String("business_id", businessID),
		zap.String("sale_id", saleID),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("recalculate sale begin tx failed", zap.Error(err))
		return IngestSaleResult{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	existing, err := qtx.FindBySale(ctx, businessID, saleID)
	if err != nil {
		return IngestSaleResult{}, err
	}
	for _, rec := range existing {
		if rec.Status == StatusPaid {
			return IngestSaleResult{}, commissionerrors.ErrSaleHasPaidCommissions
		}
	}

	// Delete-and-recreate is the only path that removes records.
	if err := qtx.DeleteBySale(ctx, businessID, saleID); err != nil {
		s.logger.Error("recalculate sale delete failed",
			zap.String("sale_id", saleID),
			zap.Error(err),
		)
		return IngestSaleResult{}, err
	}

	result, err := s.ingestLines(ctx, qtx, businessID, actorID, saleID, lines)
	if err != nil {
		return IngestSaleResult{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("recalculate sale commit failed", zap.Error(err))
		return IngestSaleResult{}, err
	}
	s.logger.Info("recalculate sale success",
		zap.String("sale_id", saleID),
		zap.Int("recreated", len(result.Created)),
	)

	return result, nil
}

func (s *service) GetAll(ctx context.Context, businessID string, filter CommissionQueryFilter) ([]CommissionResponse, error) {
	q, err := parseFilter(filter)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.FindAllByBusiness(ctx, businessID, q)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(records), nil
}

func parseFilter(filter CommissionQueryFilter) (RecordQuery, error) {
	q := RecordQuery{
		ExpertID: filter.ExpertID,
		SaleID:   filter.SaleID,
	}

	switch filter.Status {
	case "", StatusPending, StatusApproved, StatusPaid, StatusCancelled:
		q.Status = filter.Status
	default:
		return RecordQuery{}, commissionerrors.ErrInvalidStatusFilter
	}

	switch filter.Type {
	case "", TypeService, TypeRetail, TypeExceptional:
		q.Type = filter.Type
	default:
		return RecordQuery{}, commissionerrors.ErrInvalidStatusFilter
	}

	if filter.CreatedFrom != "" {
		t, err := parseDate(filter.CreatedFrom)
		if err != nil {
			return RecordQuery{}, err
		}
		q.CreatedFrom = &t
	}
	if filter.CreatedTo != "" {
		t, err := parseDate(filter.CreatedTo)
		if err != nil {
			return RecordQuery{}, err
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		q.CreatedTo = &end
	}

	return q, nil
}

func (s *service) GetByID(ctx context.Context, businessID, id string) (CommissionResponse, error) {
	rec, err := s.repo.FindByIDAndBusiness(ctx, businessID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CommissionResponse{}, commissionerrors.ErrCommissionNotFound
		}
		return CommissionResponse{}, err
	}
	return mapToResponse(*rec), nil
}

func (s *service) Approve(ctx context.Context, businessID, actorID, id string) (CommissionResponse, error) {
	return s.transitionRecord(ctx, businessID, actorID, id, StatusApproved, func(rec *CommissionRecord) error {
		return nil
	})
}

func (s *service) MarkPaid(ctx context.Context, businessID, actorID, id string, req MarkPaidRequest) (CommissionResponse, error) {
	return s.transitionRecord(ctx, businessID, actorID, id, StatusPaid, func(rec *CommissionRecord) error {
		now := time.Now().UTC()
		rec.PaymentMethod = &req.PaymentMethod
		rec.PaymentAt = &now
		rec.PaymentNotes = req.Notes
		return nil
	})
}

func (s *service) Cancel(ctx context.Context, businessID, actorID, id string, req CancelRequest) (CommissionResponse, error) {
	return s.transitionRecord(ctx, businessID, actorID, id, StatusCancelled, func(rec *CommissionRecord) error {
		appendNote(rec, "cancelled: "+req.Reason)
		return nil
	})
}

// transitionRecord loads, guards, mutates and writes one record under a
// transaction with an optimistic version check.
func (s *service) transitionRecord(
	ctx context.Context,
	businessID, actorID, id, targetStatus string,
	mutate func(rec *CommissionRecord) error,
) (CommissionResponse, error) {
	s.logger.Debug("transition commission requested",
		zap.String("commission_id", id),
		zap.String("business_id", businessID),
		zap.String("target_status", targetStatus),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("transition commission begin tx failed", zap.Error(err))
		return CommissionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err = uuid.Parse(businessID); err != nil {
		return CommissionResponse{}, commissionerrors.ErrInvalidBusinessID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return CommissionResponse{}, commissionerrors.ErrInvalidActorID
	}

	rec, err := qtx.FindByIDAndBusiness(ctx, businessID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CommissionResponse{}, commissionerrors.ErrCommissionNotFound
		}
		return CommissionResponse{}, err
	}

	if !isAllowedStatusTransition(rec.Status, targetStatus) {
		s.logger.Warn("transition commission invalid",
			zap.String("commission_id", id),
			zap.String("from_status", rec.Status),
			zap.String("to_status", targetStatus),
		)
		if targetStatus == StatusCancelled && rec.Status == StatusPaid {
			return CommissionResponse{}, commissionerrors.ErrCannotCancelPaid
		}
		return CommissionResponse{}, commissionerrors.ErrInvalidStateTransition
	}

	rec.Status = targetStatus
	rec.UpdatedBy = actorUUID
	if err := mutate(rec); err != nil {
		return CommissionResponse{}, err
	}

	affected, err := qtx.UpdateGuarded(ctx, rec)
	if err != nil {
		s.logger.Error("transition commission persist failed",
			zap.String("commission_id", id),
			zap.Error(err),
		)
		return CommissionResponse{}, err
	}
	if affected == 0 {
		return CommissionResponse{}, commissionerrors.ErrConcurrentModification
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("transition commission commit failed", zap.Error(err))
		return CommissionResponse{}, err
	}
	s.logger.Info("transition commission success",
		zap.String("commission_id", id),
		zap.String("status", targetStatus),
	)

	return mapToResponse(*rec), nil
}

// ApplyExceptionalEvent adjusts a PENDING record's commission amount
// outside the rate formula. The adjustment is pre-approved by
// construction: the approver lands on the event and the record jumps
// straight to APPROVED, all in one guarded write.
func (s *service) ApplyExceptionalEvent(ctx context.Context, businessID, actorID, id string, req ExceptionalEventRequest) (CommissionResponse, error) {
	s.logger.Debug("apply exceptional event requested",
		zap.String("commission_id", id),
		zap.String("adjustment_type", req.AdjustmentType),
		zap.Int64("adjustment_amount", req.AdjustmentAmount),
	)

	if req.AdjustmentType != AdjustmentIncrease && req.AdjustmentType != AdjustmentDecrease {
		return CommissionResponse{}, commissionerrors.ErrInvalidAdjustment
	}
	if req.AdjustmentAmount <= 0 {
		return CommissionResponse{}, commissionerrors.ErrInvalidAdjustment
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("apply exceptional event begin tx failed", zap.Error(err))
		return CommissionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err = uuid.Parse(businessID); err != nil {
		return CommissionResponse{}, commissionerrors.ErrInvalidBusinessID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return CommissionResponse{}, commissionerrors.ErrInvalidActorID
	}

	rec, err := qtx.FindByIDAndBusiness(ctx, businessID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CommissionResponse{}, commissionerrors.ErrCommissionNotFound
		}
		return CommissionResponse{}, err
	}

	// Exceptional events only apply to records nothing has acted on yet.
	if rec.Status != StatusPending {
		s.logger.Warn("apply exceptional event on non-pending record",
			zap.String("commission_id", id),
			zap.String("status", rec.Status),
		)
		return CommissionResponse{}, commissionerrors.ErrInvalidStateTransition
	}

	now := time.Now().UTC()
	rec.EventReason = &req.Reason
	rec.EventAdjustmentType = &req.AdjustmentType
	rec.EventAdjustmentAmount = &req.AdjustmentAmount
	rec.EventAdjustmentBP = req.AdjustmentBP
	rec.EventApprovedBy = &actorUUID
	rec.EventApprovedAt = &now
	rec.EventNotes = req.Notes

	rec.CommissionAmount = applyAdjustment(rec.CommissionAmount, req.AdjustmentType, req.AdjustmentAmount)
	rec.Type = TypeExceptional
	rec.Status = StatusApproved
	rec.UpdatedBy = actorUUID

	affected, err := qtx.UpdateGuarded(ctx, rec)
	if err != nil {
		s.logger.Error("apply exceptional event persist failed",
			zap.String("commission_id", id),
			zap.Error(err),
		)
		return CommissionResponse{}, err
	}
	if affected == 0 {
		return CommissionResponse{}, commissionerrors.ErrConcurrentModification
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("apply exceptional event commit failed", zap.Error(err))
		return CommissionResponse{}, err
	}
	s.logger.Info("apply exceptional event success",
		zap.String("commission_id", id),
		zap.String("adjustment_type", req.AdjustmentType),
		zap.Int64("commission_amount", rec.CommissionAmount),
	)

	return mapToResponse(*rec), nil
}

func appendNote(rec *CommissionRecord, note string) {
	if rec.Notes == nil || *rec.Notes == "" {
		rec.Notes = &note
		return
	}
	combined := *rec.Notes + "; " + note
	rec.Notes = &combined
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, commissionerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(rec CommissionRecord) CommissionResponse {
	resp := CommissionResponse{
		ID:               rec.ID.String(),
		BusinessID:       rec.BusinessID.String(),
		ExpertID:         rec.ExpertID.String(),
		SaleID:           rec.SaleID.String(),
		Type:             rec.Type,
		BaseAmount:       rec.BaseAmount,
		InputCosts:       rec.InputCosts,
		NetAmount:        rec.NetAmount,
		BaseRateBP:       rec.BaseRateBP,
		AppliedRateBP:    rec.AppliedRateBP,
		CommissionAmount: rec.CommissionAmount,
		Status:           rec.Status,
		PaymentMethod:    rec.PaymentMethod,
		PaymentNotes:     rec.PaymentNotes,
		Notes:            rec.Notes,
		CreatedBy:        rec.CreatedBy.String(),
		CreatedAt:        rec.CreatedAt.Format(time.RFC3339),
	}

	if rec.SaleLineID != nil {
		v := rec.SaleLineID.String()
		resp.SaleLineID = &v
	}
	if rec.PaymentAt != nil {
		v := rec.PaymentAt.Format(time.RFC3339)
		resp.PaymentAt = &v
	}
	if rec.EventReason != nil && rec.EventAdjustmentType != nil && rec.EventAdjustmentAmount != nil {
		event := &ExceptionalEventResponse{
			Reason:           *rec.EventReason,
			AdjustmentType:   *rec.EventAdjustmentType,
			AdjustmentAmount: *rec.EventAdjustmentAmount,
			AdjustmentBP:     rec.EventAdjustmentBP,
			Notes:            rec.EventNotes,
		}
		if rec.EventApprovedBy != nil {
			event.ApprovedBy = rec.EventApprovedBy.String()
		}
		if rec.EventApprovedAt != nil {
			event.ApprovedAt = rec.EventApprovedAt.Format(time.RFC3339)
		}
		resp.ExceptionalEvent = event
	}

	return resp
}

func mapToListResponse(records []CommissionRecord) []CommissionResponse {
	resp := make([]CommissionResponse, len(records))
	for i, rec := range records {
		resp[i] = mapToResponse(rec)
	}
	return resp
}
