package sender

import (
	"context"

	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/recruitment/internal/notification/domain"
)

// MockEmailSender 模拟邮件发送器
type MockEmailSender struct{}

// NewMockEmailSender 创建模拟邮件发送器
func NewMockEmailSender() domain.EmailSender {
	return &MockEmailSender{}
}

// Send 发送邮件（模拟实现）
func (s *MockEmailSender) Send(ctx context.Context, to, subject, text, html string) error {
	logging.Info(ctx, "Sending email notification",
		"sender", "MockEmailSender",
		"to", to,
		"subject", subject,
	)
	return nil
}
