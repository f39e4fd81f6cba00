package sale

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

	sales := r.Group("/sales")
	sales.Use(middleware.AuthMiddleware())
	{
		sales.GET("", handler.GetAll)
		sales.GET("/:id", handler.GetById)
		if redisClient != nil {
			sales.POST("", middleware.Idempotency(redisClient), handler.Create)
		} else {
			sales.POST("", handler.Create)
		}
		sales.POST("/:id/recalculate-commissions", middleware.RoleMiddleware("admin", "manager"), handler.RecalculateCommissions)
	}
}
