package application

import (
	"context"
	"fmt"
	"time"

	"github.com/wyfcoding/pkg/idgen"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/recruitment/internal/notification/domain"
)

// NotificationService 通知服务：站内通知落库 + 模板邮件发送
type NotificationService struct {
	repo  domain.NotificationRepository
	email domain.EmailSender
}

// NewNotificationService 创建通知服务实例
func NewNotificationService(repo domain.NotificationRepository, email domain.EmailSender) *NotificationService {
	return &NotificationService{repo: repo, email: email}
}

// Notify 写入站内通知
func (s *NotificationService) Notify(ctx context.Context, recipientID, recipientRole string, typ domain.NotificationType, params TemplateParams, data map[string]any) (string, error) {
	n := &domain.Notification{
		ID:            fmt.Sprintf("NTF-%d", idgen.GenID()),
		RecipientID:   recipientID,
		RecipientRole: recipientRole,
		Type:          typ,
		Title:         TitleFor(typ, params),
		Body:          BodyFor(typ, params),
		Data:          data,
	}
	if err := s.repo.Save(ctx, n); err != nil {
		return "", err
	}
	return n.ID, nil
}

// SendEmail 按模板发送邮件；无对应模板时静默跳过
func (s *NotificationService) SendEmail(ctx context.Context, to, recipientRole string, typ domain.NotificationType, params TemplateParams) error {
	tmpl, ok := EmailFor(typ, recipientRole, params)
	if !ok {
		logging.Debug(ctx, "no email template for notification type", "type", typ, "role", recipientRole)
		return nil
	}
	return s.email.Send(ctx, to, tmpl.Subject, tmpl.Text, tmpl.HTML)
}

// ListByRecipient 列出收件人的通知
func (s *NotificationService) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit, offset int) ([]*domain.Notification, int64, error) {
	return s.repo.ListByRecipient(ctx, recipientID, unreadOnly, limit, offset)
}

// MarkRead 标记已读
func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	return s.repo.MarkRead(ctx, id, time.Now())
}
