package settlement

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

	periods := r.Group("/settlement-periods")
	periods.Use(middleware.AuthMiddleware())
	{
		periods.GET("", handler.GetAll)
		periods.GET("/:id", handler.GetById)
		periods.POST("", middleware.RoleMiddleware("admin", "manager"), handler.Create)
		periods.POST("/generate", middleware.RoleMiddleware("admin", "manager"), handler.Generate)
		periods.POST("/:id/close", middleware.RoleMiddleware("admin", "manager"), handler.Close)
		periods.POST("/:id/approve", middleware.RoleMiddleware("admin", "manager"), handler.Approve)
		if redisClient != nil {
			periods.POST("/:id/pay", middleware.RoleMiddleware("admin", "manager"), middleware.Idempotency(redisClient), handler.Pay)
		} else {
			periods.POST("/:id/pay", middleware.RoleMiddleware("admin", "manager"), handler.Pay)
		}
		periods.POST("/:id/cancel", middleware.RoleMiddleware("admin", "manager"), handler.Cancel)
		periods.POST("/:id/recalculate", middleware.RoleMiddleware("admin", "manager"), handler.Recalculate)
	}
}
