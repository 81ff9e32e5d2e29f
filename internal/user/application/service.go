package application

import (
	"context"

	"github.com/wyfcoding/recruitment/internal/user/domain"
)

// UserService 用户查询服务
type UserService struct {
	repo domain.UserRepository
}

// NewUserService 创建用户服务实例
func NewUserService(repo domain.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Get 获取用户
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.Get(ctx, id)
}

// GetByEmail 按邮箱获取用户
func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.GetByEmail(ctx, email)
}
