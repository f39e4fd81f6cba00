package cashledger

import (
	"go-salon/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	ledger := r.Group("/cash-ledger")
	ledger.Use(middleware.AuthMiddleware())
	{
		ledger.GET("/movements", handler.GetAll)
		ledger.GET("/balance", handler.GetBalance)
		ledger.POST("/movements", middleware.RoleMiddleware("admin", "manager"), handler.Create)
	}
}
