package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"
	"github.com/wyfcoding/recruitment/internal/jobapplication/application"
	"github.com/wyfcoding/recruitment/internal/jobapplication/domain"
)

// DocumentSigner 摘要文档签名下载地址
type DocumentSigner interface {
	SignedURL(key string, ttl time.Duration) (string, error)
}

// ApplicationHandler 申请 HTTP 处理器
type ApplicationHandler struct {
	cmd   *application.ApplicationCommandService
	query *application.ApplicationQueryService
	docs  DocumentSigner
}

// NewApplicationHandler 创建申请 HTTP 处理器实例
func NewApplicationHandler(cmd *application.ApplicationCommandService, query *application.ApplicationQueryService, docs DocumentSigner) *ApplicationHandler {
	return &ApplicationHandler{cmd: cmd, query: query, docs: docs}
}

// RegisterRoutes 注册路由
func (h *ApplicationHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/v1/applications")
	{
		api.POST("", h.Submit)
		api.GET("", h.List)
		api.GET("/:id", h.Get)
		api.PATCH("/:id", h.Patch)
		api.GET("/:id/pdf-url", h.PDFURL)
	}
}

// SubmitRequest 提交申请请求
type SubmitRequest struct {
	JobID              string         `json:"job_id" binding:"required"`
	CandidateStatement string         `json:"candidate_statement"`
	Form               map[string]any `json:"form"`
	Attachments        []string       `json:"attachments"`
	ValidityUntil      *time.Time     `json:"validity_until"`
}

// Submit 提交申请
func (h *ApplicationHandler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	actor := actorFrom(c)
	app, err := h.cmd.Submit(c.Request.Context(), actor, application.SubmitCommand{
		StudentID:          actor.UserID,
		JobID:              req.JobID,
		CandidateStatement: req.CandidateStatement,
		Form:               req.Form,
		Attachments:        req.Attachments,
		ValidityUntil:      req.ValidityUntil,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"code": 0, "message": "success", "data": application.NewApplicationView(app)})
}

// List 列出申请
func (h *ApplicationHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	filter := domain.ListFilter{
		Status: domain.Status(c.Query("status")),
		JobID:  c.Query("job_id"),
		Limit:  limit,
		Offset: offset,
	}

	views, total, err := h.query.List(c.Request.Context(), actorFrom(c), filter)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, gin.H{"applications": views, "total": total})
}

// Get 获取申请详情
func (h *ApplicationHandler) Get(c *gin.Context) {
	view, err := h.query.Get(c.Request.Context(), c.Param("id"), actorFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, view)
}

// Patch 在申请上执行生命周期动作；无 action 为透传
func (h *ApplicationHandler) Patch(c *gin.Context) {
	var req domain.ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	app, err := h.cmd.Execute(c.Request.Context(), c.Param("id"), actorFrom(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, application.NewApplicationView(app))
}

// PDFURL 获取申请摘要文档的签名下载地址
func (h *ApplicationHandler) PDFURL(c *gin.Context) {
	view, err := h.query.Get(c.Request.Context(), c.Param("id"), actorFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if view.PDFKey == "" {
		response.ErrorWithStatus(c, http.StatusNotFound, "summary document not generated yet", "")
		return
	}
	url, err := h.docs.SignedURL(view.PDFKey, 15*time.Minute)
	if err != nil {
		logging.Error(c.Request.Context(), "failed to sign document url", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to sign document url", "")
		return
	}
	response.Success(c, gin.H{"url": url})
}

// actorFrom 从网关注入的请求头还原调用者身份
func actorFrom(c *gin.Context) domain.Actor {
	return domain.Actor{
		UserID: c.GetHeader("X-User-ID"),
		Role:   domain.Role(c.GetHeader("X-User-Role")),
	}
}

// writeError 把领域错误映射为 HTTP 状态码
func (h *ApplicationHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrForbidden):
		response.ErrorWithStatus(c, http.StatusForbidden, err.Error(), "")
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrJobNotFound),
		errors.Is(err, domain.ErrCompanyNotFound):
		response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, domain.ErrBadRequest),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrJobClosed):
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
	default:
		logging.Error(c.Request.Context(), "application request failed", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "internal error", "")
	}
}
