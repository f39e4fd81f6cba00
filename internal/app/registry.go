package app

import (
	"database/sql"

	"go-salon/internal/cashledger"
	"go-salon/internal/commission"
	"go-salon/internal/expert"
	"go-salon/internal/messaging/kafka"
	"go-salon/internal/sale"
	"go-salon/internal/settlement"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	expertRepo := expert.NewRepository(gormDB)
	commissionRepo := commission.NewRepository(gormDB)
	settlementRepo := settlement.NewRepository(gormDB)
	saleRepo := sale.NewRepository(gormDB)
	cashRepo := cashledger.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	expertService := expert.NewService(db, expertRepo, rdb)
	commissionService := commission.NewService(db, commissionRepo, expertService)
	cashService := cashledger.NewService(db, cashRepo)
	settlementService := settlement.NewService(
		db, settlementRepo, commissionRepo, expertRepo, cashService, outboxRepo,
	)
	saleService := sale.NewService(db, saleRepo, commissionService, outboxRepo)

	// --- Handlers ---
	expertHandler := expert.NewHandler(expertService)
	commissionHandler := commission.NewHandlerWithRedis(commissionService, rdb)
	settlementHandler := settlement.NewHandler(settlementService)
	saleHandler := sale.NewHandler(saleService)
	cashHandler := cashledger.NewHandler(cashService)

	// --- Routes ---
	api := router.Group("/api/v1")
	{
		expert.RegisterRoutes(api, expertHandler)
		commission.RegisterRoutes(api, commissionHandler, rdb)
		settlement.RegisterRoutes(api, settlementHandler, rdb)
		sale.RegisterRoutes(api, saleHandler, rdb)
		cashledger.RegisterRoutes(api, cashHandler)
	}

	return nil
}
