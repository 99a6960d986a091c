package routes

import (
	"github.com/gin-gonic/gin"

	"support_widget/internal/handlers"
	"support_widget/internal/models"
	"support_widget/internal/services"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, wsService models.WSService, manager *services.SessionManager) {
	widgetHandler := handlers.NewWidgetHandler(wsService, manager)
	handlers.RegisterRoutes(r, widgetHandler)
}
