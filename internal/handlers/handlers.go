package handlers

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, widgetHandler *WidgetHandler) {
	// 根路由
	r.GET("/", func(c *gin.Context) {
		c.String(200, "Support Widget Server Running")
	})

	// 健康检查路由
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "support_widget",
		})
	})

	// 挂件路由
	r.GET("/ws/widget", widgetHandler.HandleWebSocket)
	r.GET("/sessions/:id/state", widgetHandler.GetSessionState)
	r.GET("/stats", widgetHandler.GetStats)
}
