// Package directory 把 catalog 上下文适配为申请上下文的目录端口
package directory

import (
	"context"

	catalogapp "github.com/wyfcoding/recruitment/internal/catalog/application"
	"github.com/wyfcoding/recruitment/internal/jobapplication/domain"
)

type catalogDirectory struct {
	catalog *catalogapp.CatalogService
}

// NewCatalogDirectory 创建目录适配器
func NewCatalogDirectory(catalog *catalogapp.CatalogService) interface {
	domain.JobDirectory
	domain.CompanyDirectory
} {
	return &catalogDirectory{catalog: catalog}
}

func (d *catalogDirectory) GetJob(ctx context.Context, jobID string) (*domain.JobInfo, error) {
	job, err := d.catalog.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, nil
	}
	return &domain.JobInfo{
		ID:               job.ID,
		CompanyID:        job.CompanyID,
		Title:            job.Title,
		ProjectStartDate: job.ProjectStartDate,
		ProjectEndDate:   job.ProjectEndDate,
		Open:             job.IsOpen(),
	}, nil
}

func (d *catalogDirectory) GetCompanyByOwner(ctx context.Context, userID string) (*domain.CompanyInfo, error) {
	company, err := d.catalog.GetCompanyByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, nil
	}
	return toCompanyInfo(company.ID, company.OwnerUserID, company.Name), nil
}

func (d *catalogDirectory) GetCompanyByID(ctx context.Context, id string) (*domain.CompanyInfo, error) {
	company, err := d.catalog.GetCompany(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, nil
	}
	return toCompanyInfo(company.ID, company.OwnerUserID, company.Name), nil
}

func toCompanyInfo(id, owner, name string) *domain.CompanyInfo {
	return &domain.CompanyInfo{ID: id, OwnerUserID: owner, Name: name}
}
