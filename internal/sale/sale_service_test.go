package sale_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"go-salon/internal/commission"
	"go-salon/internal/events"
	"go-salon/internal/messaging/kafka"
	"go-salon/internal/sale"
	saleerrors "go-salon/internal/sale/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeSaleRepository struct {
	createFn              func(ctx context.Context, s *sale.Sale) error
	findAllByBusinessFn   func(ctx context.Context, businessID string) ([]sale.Sale, error)
	findByIDAndBusinessFn func(ctx context.Context, businessID string, id string) (*sale.Sale, error)
}

func (f *fakeSaleRepository) WithTx(tx *sql.Tx) sale.Repository { return f }

func (f *fakeSaleRepository) Create(ctx context.Context, s *sale.Sale) error {
	if f.createFn != nil {
		return f.createFn(ctx, s)
	}
	return nil
}

func (f *fakeSaleRepository) FindAllByBusiness(ctx context.Context, businessID string) ([]sale.Sale, error) {
	if f.findAllByBusinessFn != nil {
		return f.findAllByBusinessFn(ctx, businessID)
	}
	return nil, nil
}

func (f *fakeSaleRepository) FindByIDAndBusiness(ctx context.Context, businessID string, id string) (*sale.Sale, error) {
	if f.findByIDAndBusinessFn != nil {
		return f.findByIDAndBusinessFn(ctx, businessID, id)
	}
	return nil, nil
}

type fakeCommissionService struct {
	recalculateSaleFn func(ctx context.Context, businessID, actorID, saleID string, lines []commission.SaleLineInput) (commission.IngestSaleResult, error)
}

func (f *fakeCommissionService) IngestSale(ctx context.Context, businessID, actorID string, req commission.IngestSaleRequest) (commission.IngestSaleResult, error) {
	return commission.IngestSaleResult{}, nil
}

func (f *fakeCommissionService) RecalculateSale(ctx context.Context, businessID, actorID, saleID string, lines []commission.SaleLineInput) (commission.IngestSaleResult, error) {
	if f.recalculateSaleFn != nil {
		return f.recalculateSaleFn(ctx, businessID, actorID, saleID, lines)
	}
	return commission.IngestSaleResult{}, nil
}

func (f *fakeCommissionService) GetAll(ctx context.Context, businessID string, filter commission.CommissionQueryFilter) ([]commission.CommissionResponse, error) {
	return nil, nil
}

func (f *fakeCommissionService) GetByID(ctx context.Context, businessID, id string) (commission.CommissionResponse, error) {
	return commission.CommissionResponse{}, nil
}

func (f *fakeCommissionService) Approve(ctx context.Context, businessID, actorID, id string) (commission.CommissionResponse, error) {
	return commission.CommissionResponse{}, nil
}

func (f *fakeCommissionService) MarkPaid(ctx context.Context, businessID, actorID, id string, req commission.MarkPaidRequest) (commission.CommissionResponse, error) {
	return commission.CommissionResponse{}, nil
}

func (f *fakeCommissionService) Cancel(ctx context.Context, businessID, actorID, id string, req commission.CancelRequest) (commission.CommissionResponse, error) {
	return commission.CommissionResponse{}, nil
}

func (f *fakeCommissionService) ApplyExceptionalEvent(ctx context.Context, businessID, actorID, id string, req commission.ExceptionalEventRequest) (commission.CommissionResponse, error) {
	return commission.CommissionResponse{}, nil
}

type fakeOutboxRepository struct {
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type saleServiceDeps struct {
	db          *sql.DB
	sqlMock     sqlmock.Sqlmock
	service     sale.Service
	repo        *fakeSaleRepository
	commissions *fakeCommissionService
	outbox      *fakeOutboxRepository
}

func setupSaleServiceTest(t *testing.T) *saleServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeSaleRepository{}
	commissions := &fakeCommissionService{}
	outbox := &fakeOutboxRepository{}
	svc := sale.NewService(db, repo, commissions, outbox)

	return &saleServiceDeps{db: db, sqlMock: sqlMock, service: svc, repo: repo, commissions: commissions, outbox: outbox}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestSaleService_Create(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New().String()
	actorID := uuid.New().String()
	soldBy := uuid.New().String()

	t.Run("sums totals and strips retail input costs", func(t *testing.T) {
		deps := setupSaleServiceTest(t)
		defer deps.db.Close()

		var persisted *sale.Sale
		deps.repo.createFn = func(ctx context.Context, s *sale.Sale) error {
			persisted = s
			return nil
		}

		var published []kafka.OutboxEvent
		deps.outbox.createFn = func(ctx context.Context, event kafka.OutboxEvent) error {
			published = append(published, event)
			return nil
		}

		expectTx(t, deps.sqlMock, true)
		resp, err := deps.service.Create(ctx, businessID, actorID, sale.CreateSaleRequest{
			SoldBy: soldBy,
			Lines: []sale.SaleLinePayload{
				{
					ExpertID:   uuid.New().String(),
					Kind:       sale.LineKindService,
					BaseAmount: 20000,
					InputItems: []sale.InputItemPayload{
						{Name: "color tube", Cost: 2000},
						{Name: "developer", Cost: 1000},
					},
				},
				{
					ExpertID:   uuid.New().String(),
					Kind:       sale.LineKindRetail,
					BaseAmount: 8000,
					InputItems: []sale.InputItemPayload{
						{Name: "ignored", Cost: 500},
					},
				},
			},
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(28000), resp.Total)
		assert.Equal(t, int64(3000), resp.Lines[0].InputCosts)
		assert.Zero(t, resp.Lines[1].InputCosts)
		assert.Empty(t, resp.Lines[1].InputItems)

		assert.Equal(t, int64(28000), persisted.Total)

		assert.Len(t, published, 1)
		assert.Equal(t, events.SaleCompletedTopic, published[0].Topic)
		assert.Equal(t, persisted.ID.String(), published[0].AggregateID)

		var event events.SaleCompletedEvent
		assert.NoError(t, json.Unmarshal(published[0].Payload, &event))
		assert.Len(t, event.Lines, 2)
		assert.Equal(t, int64(3000), event.Lines[0].InputCosts)
		assert.Zero(t, event.Lines[1].InputCosts)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative item cost rejects the sale", func(t *testing.T) {
		deps := setupSaleServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, businessID, actorID, sale.CreateSaleRequest{
			SoldBy: soldBy,
			Lines: []sale.SaleLinePayload{
				{
					ExpertID:   uuid.New().String(),
					Kind:       sale.LineKindService,
					BaseAmount: 10000,
					InputItems: []sale.InputItemPayload{{Name: "bad", Cost: -1}},
				},
			},
		})

		assert.ErrorIs(t, err, saleerrors.ErrInvalidLine)
	})
}

func TestSaleService_RecalculateCommissions(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New().String()
	actorID := uuid.New().String()

	t.Run("passes persisted lines through", func(t *testing.T) {
		deps := setupSaleServiceTest(t)
		defer deps.db.Close()

		stored := &sale.Sale{
			ID:         uuid.New(),
			BusinessID: uuid.MustParse(businessID),
			SoldBy:     uuid.New(),
			Total:      15000,
			Lines: []sale.SaleLine{
				{ID: uuid.New(), ExpertID: uuid.New(), Kind: sale.LineKindService, BaseAmount: 15000, InputCosts: 2500},
			},
		}
		deps.repo.findByIDAndBusinessFn = func(ctx context.Context, bid, id string) (*sale.Sale, error) {
			return stored, nil
		}

		var forwarded []commission.SaleLineInput
		deps.commissions.recalculateSaleFn = func(ctx context.Context, bid, aid, sid string, lines []commission.SaleLineInput) (commission.IngestSaleResult, error) {
			forwarded = lines
			assert.Equal(t, stored.ID.String(), sid)
			return commission.IngestSaleResult{SaleID: sid}, nil
		}

		_, err := deps.service.RecalculateCommissions(ctx, businessID, actorID, stored.ID.String())

		assert.NoError(t, err)
		assert.Len(t, forwarded, 1)
		assert.Equal(t, stored.Lines[0].ID.String(), forwarded[0].LineID)
		assert.Equal(t, int64(2500), forwarded[0].InputCosts)
	})

	t.Run("negative unknown sale", func(t *testing.T) {
		deps := setupSaleServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.RecalculateCommissions(ctx, businessID, actorID, "not-a-uuid")

		assert.ErrorIs(t, err, saleerrors.ErrInvalidSaleID)
	})
}
