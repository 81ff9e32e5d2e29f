package domain

import (
	"context"
	"time"
)

// JobInfo 职位目录返回的投影
type JobInfo struct {
	ID               string
	CompanyID        string
	Title            string
	ProjectStartDate time.Time
	ProjectEndDate   time.Time
	Open             bool
}

// CompanyInfo 企业目录返回的投影
type CompanyInfo struct {
	ID          string
	OwnerUserID string
	Name        string
}

// JobDirectory 职位查询端口，由 catalog 上下文实现
type JobDirectory interface {
	GetJob(ctx context.Context, jobID string) (*JobInfo, error)
}

// CompanyDirectory 企业查询端口，由 catalog 上下文实现
type CompanyDirectory interface {
	GetCompanyByOwner(ctx context.Context, userID string) (*CompanyInfo, error)
	GetCompanyByID(ctx context.Context, id string) (*CompanyInfo, error)
}
