package mysql

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/wyfcoding/recruitment/internal/employment/domain"
	"gorm.io/gorm"
)

// EmploymentModel MySQL 聘用记录表映射
type EmploymentModel struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
	RecordID      string    `gorm:"column:record_id;type:varchar(32);uniqueIndex;not null"`
	StudentID     string    `gorm:"column:student_id;type:varchar(64);index;not null"`
	CompanyID     string    `gorm:"column:company_id;type:varchar(64);index;not null"`
	JobID         string    `gorm:"column:job_id;type:varchar(64);not null"`
	ApplicationID string    `gorm:"column:application_id;type:varchar(32);uniqueIndex;not null"`
	Status        string    `gorm:"column:status;type:varchar(16);not null;default:'UPCOMING'"`
	StartDate     time.Time `gorm:"column:start_date;type:datetime"`
	EndDate       time.Time `gorm:"column:end_date;type:datetime"`
	Cadence       string    `gorm:"column:cadence;type:varchar(16);not null;default:'weekly'"`
	RequiredDocs  string    `gorm:"column:required_docs;type:text"`
}

func (EmploymentModel) TableName() string {
	return "employment_records"
}

type employmentRepository struct{ db *gorm.DB }

// NewEmploymentRepository 创建聘用记录仓储实例
func NewEmploymentRepository(db *gorm.DB) domain.EmploymentRepository {
	return &employmentRepository{db: db}
}

func (r *employmentRepository) Save(ctx context.Context, record *domain.EmploymentRecord) error {
	model := toModel(record)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	record.CreatedAt = model.CreatedAt
	record.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *employmentRepository) GetByApplication(ctx context.Context, applicationID string) (*domain.EmploymentRecord, error) {
	var model EmploymentModel
	err := r.db.WithContext(ctx).Where("application_id = ?", applicationID).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toDomain(&model), nil
}

func (r *employmentRepository) ListByStudent(ctx context.Context, studentID string, limit, offset int) ([]*domain.EmploymentRecord, int64, error) {
	query := r.db.WithContext(ctx).Model(&EmploymentModel{}).Where("student_id = ?", studentID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = 50
	}
	var models []EmploymentModel
	if err := query.Order("id DESC").Limit(limit).Offset(offset).Find(&models).Error; err != nil {
		return nil, 0, err
	}
	records := make([]*domain.EmploymentRecord, 0, len(models))
	for i := range models {
		records = append(records, toDomain(&models[i]))
	}
	return records, total, nil
}

func toModel(record *domain.EmploymentRecord) *EmploymentModel {
	docs := ""
	if record.RequiredDocs != nil {
		if b, err := json.Marshal(record.RequiredDocs); err == nil {
			docs = string(b)
		}
	}
	return &EmploymentModel{
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
		RecordID:      record.ID,
		StudentID:     record.StudentID,
		CompanyID:     record.CompanyID,
		JobID:         record.JobID,
		ApplicationID: record.ApplicationID,
		Status:        string(record.Status),
		StartDate:     record.StartDate,
		EndDate:       record.EndDate,
		Cadence:       record.Cadence,
		RequiredDocs:  docs,
	}
}

func toDomain(model *EmploymentModel) *domain.EmploymentRecord {
	record := &domain.EmploymentRecord{
		ID:            model.RecordID,
		StudentID:     model.StudentID,
		CompanyID:     model.CompanyID,
		JobID:         model.JobID,
		ApplicationID: model.ApplicationID,
		Status:        domain.RecordStatus(model.Status),
		StartDate:     model.StartDate,
		EndDate:       model.EndDate,
		Cadence:       model.Cadence,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
	if model.RequiredDocs != "" {
		_ = json.Unmarshal([]byte(model.RequiredDocs), &record.RequiredDocs)
	}
	return record
}
