package mysql

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/wyfcoding/recruitment/internal/notification/domain"
	"gorm.io/gorm"
)

// NotificationModel MySQL 通知表映射
type NotificationModel struct {
	ID             uint       `gorm:"primaryKey;autoIncrement"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
	NotificationID string     `gorm:"column:notification_id;type:varchar(32);uniqueIndex;not null"`
	RecipientID    string     `gorm:"column:recipient_id;type:varchar(64);index;not null"`
	RecipientRole  string     `gorm:"column:recipient_role;type:varchar(16);not null"`
	Type           string     `gorm:"column:type;type:varchar(32);not null"`
	Title          string     `gorm:"column:title;type:varchar(255);not null"`
	Body           string     `gorm:"column:body;type:text"`
	Data           string     `gorm:"column:data;type:text"`
	Read           bool       `gorm:"column:is_read;index;default:false"`
	ReadAt         *time.Time `gorm:"column:read_at;type:datetime"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}

type notificationRepository struct{ db *gorm.DB }

// NewNotificationRepository 创建通知仓储实例
func NewNotificationRepository(db *gorm.DB) domain.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Save(ctx context.Context, n *domain.Notification) error {
	model := toModel(n)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	n.CreatedAt = model.CreatedAt
	n.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *notificationRepository) Get(ctx context.Context, id string) (*domain.Notification, error) {
	var model NotificationModel
	err := r.db.WithContext(ctx).Where("notification_id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toDomain(&model), nil
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit, offset int) ([]*domain.Notification, int64, error) {
	query := r.db.WithContext(ctx).Model(&NotificationModel{}).Where("recipient_id = ?", recipientID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = 50
	}
	var models []NotificationModel
	if err := query.Order("id DESC").Limit(limit).Offset(offset).Find(&models).Error; err != nil {
		return nil, 0, err
	}
	result := make([]*domain.Notification, 0, len(models))
	for i := range models {
		result = append(result, toDomain(&models[i]))
	}
	return result, total, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&NotificationModel{}).
		Where("notification_id = ? AND is_read = ?", id, false).
		Updates(map[string]any{"is_read": true, "read_at": at}).Error
}

func toModel(n *domain.Notification) *NotificationModel {
	data := ""
	if n.Data != nil {
		if b, err := json.Marshal(n.Data); err == nil {
			data = string(b)
		}
	}
	return &NotificationModel{
		CreatedAt:      n.CreatedAt,
		UpdatedAt:      n.UpdatedAt,
		NotificationID: n.ID,
		RecipientID:    n.RecipientID,
		RecipientRole:  n.RecipientRole,
		Type:           string(n.Type),
		Title:          n.Title,
		Body:           n.Body,
		Data:           data,
		Read:           n.Read,
		ReadAt:         n.ReadAt,
	}
}

func toDomain(model *NotificationModel) *domain.Notification {
	n := &domain.Notification{
		ID:            model.NotificationID,
		RecipientID:   model.RecipientID,
		RecipientRole: model.RecipientRole,
		Type:          domain.NotificationType(model.Type),
		Title:         model.Title,
		Body:          model.Body,
		Read:          model.Read,
		ReadAt:        model.ReadAt,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
	if model.Data != "" {
		_ = json.Unmarshal([]byte(model.Data), &n.Data)
	}
	return n
}
