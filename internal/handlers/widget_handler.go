package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"support_widget/internal/models"
	"support_widget/internal/services"
)

// WidgetHandler 挂件会话处理器
type WidgetHandler struct {
	wsService models.WSService
	manager   *services.SessionManager
}

// NewWidgetHandler 创建新的挂件会话处理器实例
func NewWidgetHandler(wsService models.WSService, manager *services.SessionManager) *WidgetHandler {
	return &WidgetHandler{
		wsService: wsService,
		manager:   manager,
	}
}

// HandleWebSocket 处理挂件WebSocket连接
func (h *WidgetHandler) HandleWebSocket(c *gin.Context) {
	h.wsService.HandleConnection(c)
}

// GetSessionState 查询会话状态快照
func (h *WidgetHandler) GetSessionState(c *gin.Context) {
	id := c.Param("id")
	session, found := h.manager.Get(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "会话不存在"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id": session.ID(),
		"state":      session.Snapshot(),
	})
}

// GetStats 查询服务统计
func (h *WidgetHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sessions": h.manager.Count(),
	})
}
