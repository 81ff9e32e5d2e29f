package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/response"
	"github.com/wyfcoding/recruitment/internal/catalog/application"
	"github.com/wyfcoding/recruitment/internal/catalog/domain"
)

// CatalogHandler 目录 HTTP 处理器
type CatalogHandler struct {
	svc *application.CatalogService
}

// NewCatalogHandler 创建目录 HTTP 处理器实例
func NewCatalogHandler(svc *application.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// RegisterRoutes 注册路由
func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	jobs := router.Group("/v1/jobs")
	{
		jobs.GET("", h.ListJobs)
		jobs.GET("/:id", h.GetJob)
	}
	companies := router.Group("/v1/companies")
	{
		companies.GET("/:id", h.GetCompany)
	}
}

// ListJobs 列出职位
func (h *CatalogHandler) ListJobs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	jobs, total, err := h.svc.ListJobs(c.Request.Context(),
		c.Query("company_id"), domain.JobStatus(c.Query("status")), limit, offset)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, gin.H{"jobs": jobs, "total": total})
}

// GetJob 获取职位详情
func (h *CatalogHandler) GetJob(c *gin.Context) {
	job, err := h.svc.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	if job == nil {
		response.ErrorWithStatus(c, http.StatusNotFound, "job not found", "")
		return
	}
	response.Success(c, job)
}

// GetCompany 获取企业详情
func (h *CatalogHandler) GetCompany(c *gin.Context) {
	company, err := h.svc.GetCompany(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	if company == nil {
		response.ErrorWithStatus(c, http.StatusNotFound, "company not found", "")
		return
	}
	response.Success(c, company)
}
