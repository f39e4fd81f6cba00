package commission

import (
	"context"
	"encoding/json"
	"errors"

	"go-salon/internal/events"

	"github.com/jackc/pgx/v5/pgconn"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeSaleCompleted turns sale.completed events into commission
// records. A replayed event hits the per-line unique constraint and is
// committed as already processed.
func ConsumeSaleCompleted(
	ctx context.Context,
	reader *kafkago.Reader,
	commissionService Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.sale_completed")
	log.Info("sale completed consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("sale completed consumer stopped")
				return
			}
			log.Error("fetch sale completed message failed", zap.Error(err))
			continue
		}

		var event events.SaleCompletedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode sale_completed event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		lines := make([]SaleLineInput, len(event.Lines))
		for i, l := range event.Lines {
			lines[i] = SaleLineInput{
				LineID:     l.LineID,
				ExpertID:   l.ExpertID,
				Kind:       l.Kind,
				BaseAmount: l.BaseAmount,
				InputCosts: l.InputCosts,
			}
		}

		result, err := commissionService.IngestSale(ctx, event.BusinessID, event.SoldBy, IngestSaleRequest{
			SaleID: event.SaleID,
			Lines:  lines,
		})
		if err != nil {
			if isDuplicateCommissionViolation(err) {
				log.Warn("commissions already exist for sale, skipping",
					zap.String("sale_id", event.SaleID),
					zap.String("business_id", event.BusinessID),
				)
				_ = reader.CommitMessages(ctx, msg)
				continue
			}

			log.Error("ingest sale from event failed",
				zap.String("sale_id", event.SaleID),
				zap.String("business_id", event.BusinessID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit sale completed message failed", zap.Error(err))
			continue
		}

		log.Info("commissions created from sale_completed event",
			zap.String("sale_id", event.SaleID),
			zap.Int("created", len(result.Created)),
			zap.Int("skipped", len(result.Skipped)),
		)
	}
}

func isDuplicateCommissionViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_commission_sale_line"
	}
	return false
}
