package expert

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	experterrors "go-salon/internal/expert/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const ExpertOptionsKeyPrefix = "experts:options:"

func GetExpertOptionsKey(businessID string) string {
	return ExpertOptionsKeyPrefix + businessID
}

type Service interface {
	Create(ctx context.Context, businessID, actorID string, req CreateExpertRequest) (ExpertResponse, error)
	GetAll(ctx context.Context, businessID string) ([]ExpertResponse, error)
	GetOptions(ctx context.Context, businessID string) ([]ExpertResponse, error)
	GetByID(ctx context.Context, businessID, id string) (ExpertResponse, error)
	Update(ctx context.Context, businessID, actorID, id string, req UpdateExpertRequest) (ExpertResponse, error)
	UpdatePolicy(ctx context.Context, businessID, actorID, id string, req UpdatePolicyRequest) (ExpertResponse, error)
	Deactivate(ctx context.Context, businessID, id string) error

	// ResolveActive resolves an expert eligible to earn commissions.
	// Commission ingestion uses it per sale line.
	ResolveActive(ctx context.Context, businessID, expertID string) (*Expert, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("expert.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("expert.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) invalidateOptionsCache(ctx context.Context, businessID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetExpertOptionsKey(businessID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate expert options cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func policyFromPayload(p PolicyPayload) CommissionPolicy {
	return CommissionPolicy{
		ServiceRateBP:        p.ServiceRateBP,
		RetailRateBP:         p.RetailRateBP,
		CalculationMethod:    p.CalculationMethod,
		MinServiceCommission: p.MinServiceCommission,
		MaxServiceCommission: p.MaxServiceCommission,
	}
}

func (s *service) Create(ctx context.Context, businessID, actorID string, req CreateExpertRequest) (ExpertResponse, error) {
	s.logger.Debug("create expert requested",
		zap.String("business_id", businessID),
		zap.String("actor_id", actorID),
		zap.String("full_name", req.FullName),
	)

	businessUUID, err := uuid.Parse(businessID)
	if err != nil {
		return ExpertResponse{}, experterrors.ErrInvalidBusinessID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return ExpertResponse{}, experterrors.ErrInvalidActorID
	}

	policy := policyFromPayload(req.Policy)
	if err := policy.Validate(); err != nil {
		s.logger.Warn("create expert policy invalid", zap.Error(err))
		return ExpertResponse{}, err
	}

	e := &Expert{
		ID:         uuid.New(),
		BusinessID: businessUUID,
		FullName:   req.FullName,
		Alias:      req.Alias,
		Phone:      req.Phone,
		Active:     true,
		Policy:     policy,
		CreatedBy:  actorUUID,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		s.logger.Error("create expert persist failed", zap.Error(err))
		return ExpertResponse{}, err
	}
	s.invalidateOptionsCache(ctx, businessID)
	s.logger.Info("create expert success",
		zap.String("expert_id", e.ID.String()),
		zap.String("business_id", businessID),
	)

	return mapToResponse(*e), nil
}

func (s *service) GetAll(ctx context.Context, businessID string) ([]ExpertResponse, error) {
	experts, err := s.repo.FindAllByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(experts), nil
}

// GetOptions serves the active roster used by sale-entry forms.
// Read-through cache with a one-hour TTL; singleflight collapses
// concurrent misses into a single query.
func (s *service) GetOptions(ctx context.Context, businessID string) ([]ExpertResponse, error) {
	cacheKey := GetExpertOptionsKey(businessID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []ExpertResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		experts, err := s.repo.FindOptionsByBusiness(ctx, businessID)
		if err != nil {
			return nil, err
		}

		resp := mapToListResponse(experts)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 1*time.Hour)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]ExpertResponse), nil
}

func (s *service) GetByID(ctx context.Context, businessID, id string) (ExpertResponse, error) {
	e, err := s.repo.FindByIDAndBusiness(ctx, businessID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ExpertResponse{}, experterrors.ErrExpertNotFound
		}
		return ExpertResponse{}, err
	}
	return mapToResponse(*e), nil
}

func (s *service) Update(ctx context.Context, businessID, actorID, id string, req UpdateExpertRequest) (ExpertResponse, error) {
	if _, err := uuid.Parse(businessID); err != nil {
		return ExpertResponse{}, experterrors.ErrInvalidBusinessID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return ExpertResponse{}, experterrors.ErrInvalidActorID
	}

	e, err := s.repo.FindByIDAndBusiness(ctx, businessID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ExpertResponse{}, experterrors.ErrExpertNotFound
		}
		return ExpertResponse{}, err
	}

	e.FullName = req.FullName
	e.Alias = req.Alias
	e.Phone = req.Phone
	if req.Active != nil {
		e.Active = *req.Active
	}
	e.UpdatedBy = actorUUID

	if err := s.repo.Update(ctx, e); err != nil {
		s.logger.Error("update expert persist failed",
			zap.String("expert_id", id),
			zap.Error(err),
		)
		return ExpertResponse{}, err
	}
	s.invalidateOptionsCache(ctx, businessID)
	s.logger.Info("update expert success", zap.String("expert_id", id))

	return mapToResponse(*e), nil
}

func (s *service) UpdatePolicy(ctx context.Context, businessID, actorID, id string, req UpdatePolicyRequest) (ExpertResponse, error) {
	if _, err := uuid.Parse(businessID); err != nil {
		return ExpertResponse{}, experterrors.ErrInvalidBusinessID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return ExpertResponse{}, experterrors.ErrInvalidActorID
	}

	policy := policyFromPayload(req.Policy)
	// Rejected before anything is written: a bad policy must never
	// reach commission computation.
	if err := policy.Validate(); err != nil {
		s.logger.Warn("update policy invalid",
			zap.String("expert_id", id),
			zap.Error(err),
		)
		return ExpertResponse{}, err
	}

	e, err := s.repo.FindByIDAndBusiness(ctx, businessID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ExpertResponse{}, experterrors.ErrExpertNotFound
		}
		return ExpertResponse{}, err
	}

	e.Policy = policy
	e.UpdatedBy = actorUUID

	if err := s.repo.Update(ctx, e); err != nil {
		s.logger.Error("update policy persist failed",
			zap.String("expert_id", id),
			zap.Error(err),
		)
		return ExpertResponse{}, err
	}
	s.invalidateOptionsCache(ctx, businessID)
	s.logger.Info("update policy success",
		zap.String("expert_id", id),
		zap.Int64("service_rate_bp", policy.ServiceRateBP),
		zap.Int64("retail_rate_bp", policy.RetailRateBP),
	)

	return mapToResponse(*e), nil
}

func (s *service) Deactivate(ctx context.Context, businessID, id string) error {
	if _, err := uuid.Parse(businessID); err != nil {
		return experterrors.ErrInvalidBusinessID
	}
	if err := s.repo.Deactivate(ctx, businessID, id); err != nil {
		return err
	}
	s.invalidateOptionsCache(ctx, businessID)
	return nil
}

func (s *service) ResolveActive(ctx context.Context, businessID, expertID string) (*Expert, error) {
	e, err := s.repo.FindByIDAndBusiness(ctx, businessID, expertID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, experterrors.ErrExpertNotFound
		}
		return nil, err
	}
	if !e.Active {
		return nil, experterrors.ErrExpertInactive
	}
	return e, nil
}

func mapToResponse(e Expert) ExpertResponse {
	return ExpertResponse{
		ID:         e.ID.String(),
		BusinessID: e.BusinessID.String(),
		FullName:   e.FullName,
		Alias:      e.Alias,
		Phone:      e.Phone,
		Active:     e.Active,
		Policy: PolicyResponse{
			ServiceRateBP:        e.Policy.ServiceRateBP,
			RetailRateBP:         e.Policy.RetailRateBP,
			CalculationMethod:    e.Policy.CalculationMethod,
			MinServiceCommission: e.Policy.MinServiceCommission,
			MaxServiceCommission: e.Policy.MaxServiceCommission,
		},
		CreatedBy: e.CreatedBy.String(),
	}
}

func mapToListResponse(experts []Expert) []ExpertResponse {
	resp := make([]ExpertResponse, len(experts))
	for i, e := range experts {
		resp[i] = mapToResponse(e)
	}
	return resp
}
