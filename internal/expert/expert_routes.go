package expert

import (
	"go-salon/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	experts := r.Group("/experts")
	experts.Use(middleware.AuthMiddleware())
	{
		experts.GET("", handler.GetAll)
		experts.GET("/options", handler.GetOptions)
		experts.GET("/:id", handler.GetById)
		experts.POST("", handler.Create)
		experts.PUT("/:id", handler.Update)
		experts.PUT("/:id/policy", middleware.RoleMiddleware("admin", "manager"), handler.UpdatePolicy)
		experts.POST("/:id/deactivate", middleware.RoleMiddleware("admin", "manager"), handler.Deactivate)
	}
}
