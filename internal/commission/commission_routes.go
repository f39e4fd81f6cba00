package commission

import (
	"go-salon/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	commissions := r.Group("/commissions")
	commissions.Use(middleware.AuthMiddleware())
	{
		commissions.GET("", handler.GetAll)
		commissions.GET("/:id", handler.GetById)
		if redisClient != nil {
			commissions.POST("/ingest", middleware.Idempotency(redisClient), handler.IngestSale)
		} else {
			commissions.POST("/ingest", handler.IngestSale)
		}
		commissions.POST("/:id/approve", middleware.RoleMiddleware("admin", "manager"), handler.Approve)
		commissions.POST("/:id/mark-paid", middleware.RoleMiddleware("admin", "manager"), handler.MarkPaid)
		commissions.POST("/:id/cancel", middleware.RoleMiddleware("admin", "manager"), handler.Cancel)
		commissions.POST("/:id/exceptional-event", middleware.RoleMiddleware("admin", "manager"), handler.ApplyExceptionalEvent)
	}
}
