package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/response"
	"github.com/wyfcoding/recruitment/internal/notification/application"
)

// NotificationHandler 通知 HTTP 处理器
type NotificationHandler struct {
	svc *application.NotificationService
}

// NewNotificationHandler 创建通知 HTTP 处理器实例
func NewNotificationHandler(svc *application.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// RegisterRoutes 注册路由
func (h *NotificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/v1/notifications")
	{
		api.GET("", h.List)
		api.PATCH("/:id/read", h.MarkRead)
	}
}

// List 列出当前用户的通知
func (h *NotificationHandler) List(c *gin.Context) {
	recipientID := c.GetHeader("X-User-ID")
	if recipientID == "" {
		response.ErrorWithStatus(c, http.StatusUnauthorized, "missing user identity", "")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	unreadOnly := c.Query("unread") == "true"

	notifications, total, err := h.svc.ListByRecipient(c.Request.Context(), recipientID, unreadOnly, limit, offset)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, gin.H{"notifications": notifications, "total": total})
}

// MarkRead 标记通知已读
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.svc.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, gin.H{"id": c.Param("id")})
}
