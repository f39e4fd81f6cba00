package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-salon/internal/commission"
	"go-salon/internal/events"
	"go-salon/internal/expert"
	"go-salon/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer ingests sale.completed events into commission records
// until signalled.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	expertRepo := expert.NewRepository(gormDB)
	expertService := expert.NewService(sqlDB, expertRepo, nil)
	commissionRepo := commission.NewRepository(gormDB)
	commissionService := commission.NewService(sqlDB, commissionRepo, expertService)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.SaleCompletedTopic,
		GroupID:        "go-salon-commission",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go commission.ConsumeSaleCompleted(ctx, reader, commissionService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
