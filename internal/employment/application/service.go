package application

import (
	"context"
	"fmt"
	"time"

	"github.com/wyfcoding/pkg/idgen"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/recruitment/internal/employment/domain"
)

// CreateFromAcceptanceCommand 申请被接受后的建档命令
type CreateFromAcceptanceCommand struct {
	ApplicationID string
	StudentID     string
	CompanyID     string
	JobID         string
	StartDate     time.Time
	EndDate       time.Time
}

// EmploymentService 聘用记录服务
type EmploymentService struct {
	repo domain.EmploymentRepository
}

// NewEmploymentService 创建聘用记录服务实例
func NewEmploymentService(repo domain.EmploymentRepository) *EmploymentService {
	return &EmploymentService{repo: repo}
}

// CreateFromAcceptance 为被接受的申请创建聘用记录
// 幂等：同一申请重复调用不会产生第二条记录
func (s *EmploymentService) CreateFromAcceptance(ctx context.Context, cmd CreateFromAcceptanceCommand) (*domain.EmploymentRecord, error) {
	existing, err := s.repo.GetByApplication(ctx, cmd.ApplicationID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		logging.Info(ctx, "employment record already exists", "application_id", cmd.ApplicationID, "record_id", existing.ID)
		return existing, nil
	}

	record := &domain.EmploymentRecord{
		ID:            fmt.Sprintf("EMP-%d", idgen.GenID()),
		StudentID:     cmd.StudentID,
		CompanyID:     cmd.CompanyID,
		JobID:         cmd.JobID,
		ApplicationID: cmd.ApplicationID,
		Status:        domain.RecordStatusUpcoming,
		StartDate:     cmd.StartDate,
		EndDate:       cmd.EndDate,
		Cadence:       domain.DefaultCadence,
		RequiredDocs:  domain.DefaultRequiredDocs,
	}
	if err := s.repo.Save(ctx, record); err != nil {
		// application_id 唯一索引兜底并发重复建档
		if again, getErr := s.repo.GetByApplication(ctx, cmd.ApplicationID); getErr == nil && again != nil {
			return again, nil
		}
		return nil, err
	}
	return record, nil
}

// ListByStudent 列出学生的聘用记录
func (s *EmploymentService) ListByStudent(ctx context.Context, studentID string, limit, offset int) ([]*domain.EmploymentRecord, int64, error) {
	return s.repo.ListByStudent(ctx, studentID, limit, offset)
}
