package expert_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-salon/internal/expert"
	experterrors "go-salon/internal/expert/errors"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeExpertRepository struct {
	createFn                func(ctx context.Context, e *expert.Expert) error
	findAllByBusinessFn     func(ctx context.Context, businessID string) ([]expert.Expert, error)
	findOptionsByBusinessFn func(ctx context.Context, businessID string) ([]expert.Expert, error)
	findByIDAndBusinessFn   func(ctx context.Context, businessID string, id string) (*expert.Expert, error)
	updateFn                func(ctx context.Context, e *expert.Expert) error
	deactivateFn            func(ctx context.Context, businessID string, id string) error
}

func (f *fakeExpertRepository) WithTx(tx *sql.Tx) expert.Repository { return f }

func (f *fakeExpertRepository) Create(ctx context.Context, e *expert.Expert) error {
	if f.createFn != nil {
		return f.createFn(ctx, e)
	}
	return nil
}

func (f *fakeExpertRepository) FindAllByBusiness(ctx context.Context, businessID string) ([]expert.Expert, error) {
	if f.findAllByBusinessFn != nil {
		return f.findAllByBusinessFn(ctx, businessID)
	}
	return nil, nil
}

func (f *fakeExpertRepository) FindOptionsByBusiness(ctx context.Context, businessID string) ([]expert.Expert, error) {
	if f.findOptionsByBusinessFn != nil {
		return f.findOptionsByBusinessFn(ctx, businessID)
	}
	return nil, nil
}

func (f *fakeExpertRepository) FindByIDAndBusiness(ctx context.Context, businessID string, id string) (*expert.Expert, error) {
	if f.findByIDAndBusinessFn != nil {
		return f.findByIDAndBusinessFn(ctx, businessID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeExpertRepository) Update(ctx context.Context, e *expert.Expert) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, e)
	}
	return nil
}

func (f *fakeExpertRepository) Deactivate(ctx context.Context, businessID string, id string) error {
	if f.deactivateFn != nil {
		return f.deactivateFn(ctx, businessID, id)
	}
	return nil
}

func validPolicy() expert.PolicyPayload {
	return expert.PolicyPayload{
		ServiceRateBP:        1500,
		RetailRateBP:         1000,
		CalculationMethod:    expert.MethodBeforeInputs,
		MinServiceCommission: 5000,
	}
}

func TestExpertService_Create(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New().String()
	actorID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		repo := &fakeExpertRepository{}
		svc := expert.NewService(nil, repo, nil)

		var created *expert.Expert
		repo.createFn = func(ctx context.Context, e *expert.Expert) error {
			created = e
			return nil
		}

		resp, err := svc.Create(ctx, businessID, actorID, expert.CreateExpertRequest{
			FullName: "Dana Reyes",
			Alias:    "dana",
			Policy:   validPolicy(),
		})

		assert.NoError(t, err)
		assert.True(t, resp.Active, "new experts start active")
		assert.Equal(t, int64(1500), resp.Policy.ServiceRateBP)
		assert.True(t, created.Active)
	})

	t.Run("negative policy validation", func(t *testing.T) {
		repo := &fakeExpertRepository{
			createFn: func(ctx context.Context, e *expert.Expert) error {
				t.Fatal("invalid policy must not persist")
				return nil
			},
		}
		svc := expert.NewService(nil, repo, nil)

		cases := map[string]func(p *expert.PolicyPayload){
			"rate above 100 percent": func(p *expert.PolicyPayload) { p.ServiceRateBP = 10001 },
			"negative retail rate":   func(p *expert.PolicyPayload) { p.RetailRateBP = -1 },
			"unknown method":         func(p *expert.PolicyPayload) { p.CalculationMethod = "DURING_INPUTS" },
			"negative min clamp":     func(p *expert.PolicyPayload) { p.MinServiceCommission = -100 },
			"max below min": func(p *expert.PolicyPayload) {
				max := int64(1000)
				p.MaxServiceCommission = &max
			},
		}

		for name, mutate := range cases {
			t.Run(name, func(t *testing.T) {
				policy := validPolicy()
				mutate(&policy)

				_, err := svc.Create(ctx, businessID, actorID, expert.CreateExpertRequest{
					FullName: "Dana Reyes",
					Policy:   policy,
				})

				assert.ErrorIs(t, err, experterrors.ErrInvalidPolicy)
			})
		}
	})
}

func TestExpertService_UpdatePolicy(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New().String()
	actorID := uuid.New().String()

	t.Run("replaces the policy", func(t *testing.T) {
		existing := &expert.Expert{
			ID:         uuid.New(),
			BusinessID: uuid.MustParse(businessID),
			FullName:   "Dana Reyes",
			Active:     true,
			Policy: expert.CommissionPolicy{
				ServiceRateBP:     500,
				CalculationMethod: expert.MethodBeforeInputs,
			},
		}
		repo := &fakeExpertRepository{
			findByIDAndBusinessFn: func(ctx context.Context, bid, id string) (*expert.Expert, error) {
				return existing, nil
			},
		}
		svc := expert.NewService(nil, repo, nil)

		resp, err := svc.UpdatePolicy(ctx, businessID, actorID, existing.ID.String(), expert.UpdatePolicyRequest{
			Policy: expert.PolicyPayload{
				ServiceRateBP:     2000,
				RetailRateBP:      800,
				CalculationMethod: expert.MethodAfterInputs,
			},
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(2000), resp.Policy.ServiceRateBP)
		assert.Equal(t, expert.MethodAfterInputs, resp.Policy.CalculationMethod)
	})

	t.Run("negative unknown expert", func(t *testing.T) {
		svc := expert.NewService(nil, &fakeExpertRepository{}, nil)

		_, err := svc.UpdatePolicy(ctx, businessID, actorID, uuid.New().String(), expert.UpdatePolicyRequest{
			Policy: validPolicy(),
		})

		assert.ErrorIs(t, err, experterrors.ErrExpertNotFound)
	})
}

func TestExpertService_GetOptions(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips the repository", func(t *testing.T) {
		businessID := uuid.New().String()
		cacheKey := expert.GetExpertOptionsKey(businessID)
		dbRedis, redisMock := redismock.NewClientMock()

		cached := []expert.ExpertResponse{
			{ID: uuid.New().String(), FullName: "Dana Reyes", Active: true},
		}
		jsonResp, _ := json.Marshal(cached)
		redisMock.ExpectGet(cacheKey).SetVal(string(jsonResp))

		repo := &fakeExpertRepository{
			findOptionsByBusinessFn: func(ctx context.Context, bid string) ([]expert.Expert, error) {
				t.Fatal("cache hit must not reach the repository")
				return nil, nil
			},
		}
		svc := expert.NewService(nil, repo, dbRedis)

		resp, err := svc.GetOptions(ctx, businessID)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, "Dana Reyes", resp[0].FullName)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("cache miss queries active roster and fills the cache", func(t *testing.T) {
		businessID := uuid.New().String()
		cacheKey := expert.GetExpertOptionsKey(businessID)
		dbRedis, redisMock := redismock.NewClientMock()

		roster := []expert.Expert{
			{
				ID:         uuid.New(),
				BusinessID: uuid.MustParse(businessID),
				FullName:   "Noa Lindt",
				Active:     true,
			},
		}
		repo := &fakeExpertRepository{
			findOptionsByBusinessFn: func(ctx context.Context, bid string) ([]expert.Expert, error) {
				assert.Equal(t, businessID, bid)
				return roster, nil
			},
		}
		svc := expert.NewService(nil, repo, dbRedis)

		jsonData, _ := json.Marshal([]expert.ExpertResponse{
			{
				ID:         roster[0].ID.String(),
				BusinessID: businessID,
				FullName:   "Noa Lindt",
				Active:     true,
				CreatedBy:  roster[0].CreatedBy.String(),
			},
		})
		redisMock.ExpectGet(cacheKey).RedisNil()
		redisMock.ExpectSet(cacheKey, jsonData, 1*time.Hour).SetVal("OK")

		resp, err := svc.GetOptions(ctx, businessID)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, "Noa Lindt", resp[0].FullName)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("negative repository error surfaces", func(t *testing.T) {
		businessID := uuid.New().String()
		dbRedis, redisMock := redismock.NewClientMock()
		redisMock.ExpectGet(expert.GetExpertOptionsKey(businessID)).RedisNil()

		repo := &fakeExpertRepository{
			findOptionsByBusinessFn: func(ctx context.Context, bid string) ([]expert.Expert, error) {
				return nil, errors.New("connection reset")
			},
		}
		svc := expert.NewService(nil, repo, dbRedis)

		_, err := svc.GetOptions(ctx, businessID)

		assert.Error(t, err)
	})

	t.Run("mutations invalidate the cached roster", func(t *testing.T) {
		businessID := uuid.New().String()
		actorID := uuid.New().String()
		dbRedis, redisMock := redismock.NewClientMock()
		redisMock.ExpectDel(expert.GetExpertOptionsKey(businessID)).SetVal(1)

		svc := expert.NewService(nil, &fakeExpertRepository{}, dbRedis)

		_, err := svc.Create(ctx, businessID, actorID, expert.CreateExpertRequest{
			FullName: "Dana Reyes",
			Policy:   validPolicy(),
		})

		assert.NoError(t, err)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})
}

func TestExpertService_ResolveActive(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New().String()

	t.Run("inactive expert is not eligible", func(t *testing.T) {
		inactive := &expert.Expert{
			ID:         uuid.New(),
			BusinessID: uuid.MustParse(businessID),
			FullName:   "Dana Reyes",
			Active:     false,
		}
		repo := &fakeExpertRepository{
			findByIDAndBusinessFn: func(ctx context.Context, bid, id string) (*expert.Expert, error) {
				return inactive, nil
			},
		}
		svc := expert.NewService(nil, repo, nil)

		_, err := svc.ResolveActive(ctx, businessID, inactive.ID.String())

		assert.ErrorIs(t, err, experterrors.ErrExpertInactive)
	})

	t.Run("unknown expert", func(t *testing.T) {
		svc := expert.NewService(nil, &fakeExpertRepository{}, nil)

		_, err := svc.ResolveActive(ctx, businessID, uuid.New().String())

		assert.ErrorIs(t, err, experterrors.ErrExpertNotFound)
	})
}
