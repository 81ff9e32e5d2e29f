// Package domain 职位与企业目录的领域模型
package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// JobStatus 职位状态
type JobStatus string

const (
	JobStatusOpen   JobStatus = "OPEN"
	JobStatusClosed JobStatus = "CLOSED"
	JobStatusDraft  JobStatus = "DRAFT"
)

// JobListing 职位
type JobListing struct {
	ID        string
	CompanyID string
	Title     string
	Location  string
	// 月补贴
	Stipend          decimal.Decimal
	ProjectStartDate time.Time
	ProjectEndDate   time.Time
	Status           JobStatus
	// 收到的申请数
	Applications int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsOpen 是否开放投递
func (j *JobListing) IsOpen() bool {
	return j.Status == JobStatusOpen
}

// Company 企业档案
type Company struct {
	ID           string
	OwnerUserID  string
	Name         string
	ContactEmail string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// JobRepository 职位仓储接口
type JobRepository interface {
	Save(ctx context.Context, job *JobListing) error
	Get(ctx context.Context, id string) (*JobListing, error)
	List(ctx context.Context, companyID string, status JobStatus, limit, offset int) ([]*JobListing, int64, error)
	// 申请计数增减，delta 可为负
	AdjustApplications(ctx context.Context, id string, delta int) error
}

// CompanyRepository 企业仓储接口
type CompanyRepository interface {
	Save(ctx context.Context, company *Company) error
	Get(ctx context.Context, id string) (*Company, error)
	GetByOwner(ctx context.Context, ownerUserID string) (*Company, error)
}
