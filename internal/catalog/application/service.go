package application

import (
	"context"

	"github.com/wyfcoding/recruitment/internal/catalog/domain"
)

// CatalogService 职位与企业目录服务
type CatalogService struct {
	jobs      domain.JobRepository
	companies domain.CompanyRepository
}

// NewCatalogService 创建目录服务实例
func NewCatalogService(jobs domain.JobRepository, companies domain.CompanyRepository) *CatalogService {
	return &CatalogService{jobs: jobs, companies: companies}
}

// GetJob 获取职位
func (s *CatalogService) GetJob(ctx context.Context, id string) (*domain.JobListing, error) {
	return s.jobs.Get(ctx, id)
}

// ListJobs 列出职位
func (s *CatalogService) ListJobs(ctx context.Context, companyID string, status domain.JobStatus, limit, offset int) ([]*domain.JobListing, int64, error) {
	return s.jobs.List(ctx, companyID, status, limit, offset)
}

// GetCompany 获取企业
func (s *CatalogService) GetCompany(ctx context.Context, id string) (*domain.Company, error) {
	return s.companies.Get(ctx, id)
}

// GetCompanyByOwner 根据企业负责人查询企业
func (s *CatalogService) GetCompanyByOwner(ctx context.Context, ownerUserID string) (*domain.Company, error) {
	return s.companies.GetByOwner(ctx, ownerUserID)
}

// IncrementApplications 职位申请计数加一
func (s *CatalogService) IncrementApplications(ctx context.Context, jobID string) error {
	return s.jobs.AdjustApplications(ctx, jobID, 1)
}

// DecrementApplications 职位申请计数减一
func (s *CatalogService) DecrementApplications(ctx context.Context, jobID string) error {
	return s.jobs.AdjustApplications(ctx, jobID, -1)
}
