package document

import (
	"context"
	"fmt"
	"time"

	appdomain "github.com/wyfcoding/recruitment/internal/jobapplication/domain"
)

// SummaryBucket 摘要文档所在桶
const SummaryBucket = "application-summaries"

// Service 摘要文档服务：渲染 + 上传
type Service struct {
	store *Store
}

// NewService 创建摘要文档服务实例
func NewService(store *Store) *Service {
	return &Service{store: store}
}

// GenerateSummary 渲染并存储申请摘要，返回存储键
func (s *Service) GenerateSummary(ctx context.Context, app *appdomain.Application, jobTitle, companyName string) (string, error) {
	data, err := RenderSummary(SummaryInput{
		Application: app,
		JobTitle:    jobTitle,
		CompanyName: companyName,
	})
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("%s.pdf", app.ID)
	return s.store.Upload(data, filename, "application/pdf", SummaryBucket)
}

// SignedURL 摘要文档签名下载地址
func (s *Service) SignedURL(key string, ttl time.Duration) (string, error) {
	return s.store.SignedURL(key, ttl)
}
