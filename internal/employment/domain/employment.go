// Package domain 聘用记录的领域模型
package domain

import (
	"context"
	"time"
)

// RecordStatus 聘用记录状态
type RecordStatus string

const (
	RecordStatusUpcoming RecordStatus = "UPCOMING"
	RecordStatusActive   RecordStatus = "ACTIVE"
	RecordStatusEnded    RecordStatus = "ENDED"
)

// DefaultCadence 默认汇报频率
const DefaultCadence = "weekly"

// DefaultRequiredDocs 入职必备文档
var DefaultRequiredDocs = []string{"contract", "nda"}

// EmploymentRecord 聘用记录
// 每个被接受的申请只产生一条记录
type EmploymentRecord struct {
	ID            string
	StudentID     string
	CompanyID     string
	JobID         string
	ApplicationID string
	Status        RecordStatus
	StartDate     time.Time
	EndDate       time.Time
	Cadence       string
	RequiredDocs  []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// EmploymentRepository 聘用记录仓储接口
type EmploymentRepository interface {
	Save(ctx context.Context, record *EmploymentRecord) error
	GetByApplication(ctx context.Context, applicationID string) (*EmploymentRecord, error)
	ListByStudent(ctx context.Context, studentID string, limit, offset int) ([]*EmploymentRecord, int64, error)
}
