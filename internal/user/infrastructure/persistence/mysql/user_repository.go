package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/wyfcoding/recruitment/internal/user/domain"
	"gorm.io/gorm"
)

// UserModel MySQL 用户表映射
type UserModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
	UserID    string    `gorm:"column:user_id;type:varchar(64);uniqueIndex;not null"`
	Email     string    `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	Name      string    `gorm:"column:name;type:varchar(255)"`
	Role      string    `gorm:"column:role;type:varchar(16);not null;default:'student'"`
}

func (UserModel) TableName() string {
	return "users"
}

type userRepository struct{ db *gorm.DB }

// NewUserRepository 创建用户仓储实例
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Save(ctx context.Context, user *domain.User) error {
	model := toModel(user)
	var existing UserModel
	err := r.db.WithContext(ctx).Where("user_id = ?", user.ID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.WithContext(ctx).Create(model).Error
	}
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&UserModel{}).
		Where("user_id = ?", user.ID).
		Updates(map[string]any{"email": model.Email, "name": model.Name, "role": model.Role}).Error
}

func (r *userRepository) Get(ctx context.Context, id string) (*domain.User, error) {
	var model UserModel
	err := r.db.WithContext(ctx).Where("user_id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toDomain(&model), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var model UserModel
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toDomain(&model), nil
}

func toModel(user *domain.User) *UserModel {
	return &UserModel{
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      string(user.Role),
	}
}

func toDomain(model *UserModel) *domain.User {
	return &domain.User{
		ID:        model.UserID,
		Email:     model.Email,
		Name:      model.Name,
		Role:      domain.UserRole(model.Role),
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
