package cashledger_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-salon/internal/cashledger"
	cashledgererrors "go-salon/internal/cashledger/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeMovementRepository struct {
	createFn  func(ctx context.Context, m *cashledger.CashMovement) error
	findAllFn func(ctx context.Context, businessID string, q cashledger.MovementQuery) ([]cashledger.CashMovement, error)
	balanceFn func(ctx context.Context, businessID string) (int64, error)
}

func (f *fakeMovementRepository) WithTx(tx *sql.Tx) cashledger.Repository { return f }

func (f *fakeMovementRepository) Create(ctx context.Context, m *cashledger.CashMovement) error {
	if f.createFn != nil {
		return f.createFn(ctx, m)
	}
	return nil
}

func (f *fakeMovementRepository) FindAllByBusiness(ctx context.Context, businessID string, q cashledger.MovementQuery) ([]cashledger.CashMovement, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, businessID, q)
	}
	return nil, nil
}

func (f *fakeMovementRepository) Balance(ctx context.Context, businessID string) (int64, error) {
	if f.balanceFn != nil {
		return f.balanceFn(ctx, businessID)
	}
	return 0, nil
}

func TestCashLedgerService_CreateMovement(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New().String()
	actorID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		repo := &fakeMovementRepository{}
		svc := cashledger.NewService(nil, repo)

		resp, err := svc.CreateMovement(ctx, businessID, actorID, cashledger.CreateMovementRequest{
			Type:      cashledger.MovementCredit,
			Amount:    12000,
			Reference: "day close",
		})

		assert.NoError(t, err)
		assert.Equal(t, cashledger.MovementCredit, resp.Type)
		assert.Equal(t, int64(12000), resp.Amount)
	})

	t.Run("negative zero amount", func(t *testing.T) {
		svc := cashledger.NewService(nil, &fakeMovementRepository{})

		_, err := svc.CreateMovement(ctx, businessID, actorID, cashledger.CreateMovementRequest{
			Type:   cashledger.MovementCredit,
			Amount: 0,
		})

		assert.ErrorIs(t, err, cashledgererrors.ErrInvalidAmount)
	})

	t.Run("negative unknown movement type", func(t *testing.T) {
		svc := cashledger.NewService(nil, &fakeMovementRepository{})

		_, err := svc.CreateMovement(ctx, businessID, actorID, cashledger.CreateMovementRequest{
			Type:   "ADJUSTMENT",
			Amount: 100,
		})

		assert.ErrorIs(t, err, cashledgererrors.ErrInvalidMovementType)
	})
}

func TestCashLedgerService_GetAll(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New().String()

	t.Run("date filters bound the whole day", func(t *testing.T) {
		var got cashledger.MovementQuery
		repo := &fakeMovementRepository{
			findAllFn: func(ctx context.Context, bid string, q cashledger.MovementQuery) ([]cashledger.CashMovement, error) {
				got = q
				return nil, nil
			},
		}
		svc := cashledger.NewService(nil, repo)

		_, err := svc.GetAll(ctx, businessID, cashledger.MovementQueryFilter{
			From: "2025-03-01",
			To:   "2025-03-31",
		})

		assert.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), *got.From)
		assert.True(t, got.To.After(time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC)))
	})

	t.Run("negative malformed date filter", func(t *testing.T) {
		repo := &fakeMovementRepository{
			findAllFn: func(ctx context.Context, bid string, q cashledger.MovementQuery) ([]cashledger.CashMovement, error) {
				t.Fatal("malformed filters must not reach the repository")
				return nil, nil
			},
		}
		svc := cashledger.NewService(nil, repo)

		_, err := svc.GetAll(ctx, businessID, cashledger.MovementQueryFilter{From: "03/01/2025"})
		assert.ErrorIs(t, err, cashledgererrors.ErrInvalidDateFormat)

		_, err = svc.GetAll(ctx, businessID, cashledger.MovementQueryFilter{To: "2025-13-40"})
		assert.ErrorIs(t, err, cashledgererrors.ErrInvalidDateFormat)
	})
}

func TestCashLedgerService_GetBalance(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New().String()

	repo := &fakeMovementRepository{
		balanceFn: func(ctx context.Context, bid string) (int64, error) {
			return 45000, nil
		},
	}
	svc := cashledger.NewService(nil, repo)

	resp, err := svc.GetBalance(ctx, businessID)

	assert.NoError(t, err)
	assert.Equal(t, int64(45000), resp.Balance)
	assert.Equal(t, businessID, resp.BusinessID)
}

func TestCashLedgerService_PostDebit(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New()
	actorID := uuid.New()

	t.Run("records a debit movement", func(t *testing.T) {
		var created *cashledger.CashMovement
		repo := &fakeMovementRepository{
			createFn: func(ctx context.Context, m *cashledger.CashMovement) error {
				created = m
				return nil
			},
		}
		svc := cashledger.NewService(nil, repo)

		err := svc.PostDebit(ctx, nil, businessID, actorID, 18500, "settlement period 2025-03 payout")

		assert.NoError(t, err)
		assert.Equal(t, cashledger.MovementDebit, created.Type)
		assert.Equal(t, int64(18500), created.Amount)
		assert.Equal(t, "settlement period 2025-03 payout", created.Reference)
		assert.Equal(t, actorID, created.CreatedBy)
	})

	t.Run("negative non-positive amount", func(t *testing.T) {
		repo := &fakeMovementRepository{
			createFn: func(ctx context.Context, m *cashledger.CashMovement) error {
				t.Fatal("no movement expected")
				return nil
			},
		}
		svc := cashledger.NewService(nil, repo)

		err := svc.PostDebit(ctx, nil, businessID, actorID, 0, "empty payout")

		assert.ErrorIs(t, err, cashledgererrors.ErrInvalidAmount)
	})
}
