package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/recruitment/internal/catalog/domain"
	"gorm.io/gorm"
)

type jobRepository struct{ db *gorm.DB }

// NewJobRepository 创建职位仓储实例
func NewJobRepository(db *gorm.DB) domain.JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Save(ctx context.Context, job *domain.JobListing) error {
	model := toJobModel(job)
	var existing JobModel
	err := r.db.WithContext(ctx).Where("job_id = ?", job.ID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.WithContext(ctx).Create(model).Error
	}
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&JobModel{}).
		Where("job_id = ?", job.ID).
		Updates(map[string]any{
			"title":              model.Title,
			"location":           model.Location,
			"stipend":            model.Stipend,
			"project_start_date": model.ProjectStartDate,
			"project_end_date":   model.ProjectEndDate,
			"status":             model.Status,
		}).Error
}

func (r *jobRepository) Get(ctx context.Context, id string) (*domain.JobListing, error) {
	var model JobModel
	err := r.db.WithContext(ctx).Where("job_id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toJob(&model), nil
}

func (r *jobRepository) List(ctx context.Context, companyID string, status domain.JobStatus, limit, offset int) ([]*domain.JobListing, int64, error) {
	query := r.db.WithContext(ctx).Model(&JobModel{})
	if companyID != "" {
		query = query.Where("company_id = ?", companyID)
	}
	if status != "" {
		query = query.Where("status = ?", string(status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = 50
	}
	var models []JobModel
	if err := query.Order("id DESC").Limit(limit).Offset(offset).Find(&models).Error; err != nil {
		return nil, 0, err
	}
	jobs := make([]*domain.JobListing, 0, len(models))
	for i := range models {
		jobs = append(jobs, toJob(&models[i]))
	}
	return jobs, total, nil
}

func (r *jobRepository) AdjustApplications(ctx context.Context, id string, delta int) error {
	return r.db.WithContext(ctx).
		Model(&JobModel{}).
		Where("job_id = ?", id).
		Update("applications", gorm.Expr("GREATEST(applications + ?, 0)", delta)).Error
}

type companyRepository struct{ db *gorm.DB }

// NewCompanyRepository 创建企业仓储实例
func NewCompanyRepository(db *gorm.DB) domain.CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) Save(ctx context.Context, company *domain.Company) error {
	model := toCompanyModel(company)
	var existing CompanyModel
	err := r.db.WithContext(ctx).Where("company_id = ?", company.ID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.WithContext(ctx).Create(model).Error
	}
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&CompanyModel{}).
		Where("company_id = ?", company.ID).
		Updates(map[string]any{
			"name":          model.Name,
			"contact_email": model.ContactEmail,
		}).Error
}

func (r *companyRepository) Get(ctx context.Context, id string) (*domain.Company, error) {
	var model CompanyModel
	err := r.db.WithContext(ctx).Where("company_id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toCompany(&model), nil
}

func (r *companyRepository) GetByOwner(ctx context.Context, ownerUserID string) (*domain.Company, error) {
	var model CompanyModel
	err := r.db.WithContext(ctx).Where("owner_user_id = ?", ownerUserID).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toCompany(&model), nil
}
