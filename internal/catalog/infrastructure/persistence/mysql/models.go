package mysql

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/recruitment/internal/catalog/domain"
)

// JobModel MySQL 职位表映射
type JobModel struct {
	ID               uint            `gorm:"primaryKey;autoIncrement"`
	CreatedAt        time.Time       `gorm:"column:created_at"`
	UpdatedAt        time.Time       `gorm:"column:updated_at"`
	JobID            string          `gorm:"column:job_id;type:varchar(64);uniqueIndex;not null"`
	CompanyID        string          `gorm:"column:company_id;type:varchar(64);index;not null"`
	Title            string          `gorm:"column:title;type:varchar(255);not null"`
	Location         string          `gorm:"column:location;type:varchar(255)"`
	Stipend          decimal.Decimal `gorm:"column:stipend;type:decimal(12,2);not null;default:0"`
	ProjectStartDate time.Time       `gorm:"column:project_start_date;type:datetime"`
	ProjectEndDate   time.Time       `gorm:"column:project_end_date;type:datetime"`
	Status           string          `gorm:"column:status;type:varchar(16);index;not null;default:'DRAFT'"`
	Applications     int             `gorm:"column:applications;not null;default:0"`
}

func (JobModel) TableName() string {
	return "job_listings"
}

// CompanyModel MySQL 企业表映射
type CompanyModel struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
	CompanyID    string    `gorm:"column:company_id;type:varchar(64);uniqueIndex;not null"`
	OwnerUserID  string    `gorm:"column:owner_user_id;type:varchar(64);uniqueIndex;not null"`
	Name         string    `gorm:"column:name;type:varchar(255);not null"`
	ContactEmail string    `gorm:"column:contact_email;type:varchar(255)"`
}

func (CompanyModel) TableName() string {
	return "companies"
}

func toJobModel(job *domain.JobListing) *JobModel {
	if job == nil {
		return nil
	}
	return &JobModel{
		CreatedAt:        job.CreatedAt,
		UpdatedAt:        job.UpdatedAt,
		JobID:            job.ID,
		CompanyID:        job.CompanyID,
		Title:            job.Title,
		Location:         job.Location,
		Stipend:          job.Stipend,
		ProjectStartDate: job.ProjectStartDate,
		ProjectEndDate:   job.ProjectEndDate,
		Status:           string(job.Status),
		Applications:     job.Applications,
	}
}

func toJob(model *JobModel) *domain.JobListing {
	if model == nil {
		return nil
	}
	return &domain.JobListing{
		ID:               model.JobID,
		CompanyID:        model.CompanyID,
		Title:            model.Title,
		Location:         model.Location,
		Stipend:          model.Stipend,
		ProjectStartDate: model.ProjectStartDate,
		ProjectEndDate:   model.ProjectEndDate,
		Status:           domain.JobStatus(model.Status),
		Applications:     model.Applications,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

func toCompanyModel(company *domain.Company) *CompanyModel {
	if company == nil {
		return nil
	}
	return &CompanyModel{
		CreatedAt:    company.CreatedAt,
		UpdatedAt:    company.UpdatedAt,
		CompanyID:    company.ID,
		OwnerUserID:  company.OwnerUserID,
		Name:         company.Name,
		ContactEmail: company.ContactEmail,
	}
}

func toCompany(model *CompanyModel) *domain.Company {
	if model == nil {
		return nil
	}
	return &domain.Company{
		ID:           model.CompanyID,
		OwnerUserID:  model.OwnerUserID,
		Name:         model.Name,
		ContactEmail: model.ContactEmail,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}
