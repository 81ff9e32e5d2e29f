// Package domain 站内通知的领域模型
package domain

import (
	"context"
	"time"
)

// NotificationType 通知类型，对应申请生命周期动作
type NotificationType string

const (
	TypeApplicationReceived NotificationType = "APPLICATION_RECEIVED"
	TypeShortlisted         NotificationType = "SHORTLISTED"
	TypeInterviewScheduled  NotificationType = "INTERVIEW_SCHEDULED"
	TypeInterviewCancelled  NotificationType = "INTERVIEW_CANCELLED"
	TypeInterviewDeclined   NotificationType = "INTERVIEW_DECLINED"
	TypeOfferSent           NotificationType = "OFFER_SENT"
	TypeOfferDeclined       NotificationType = "OFFER_DECLINED"
	TypeOfferExpiring       NotificationType = "OFFER_EXPIRING"
	TypeRejected            NotificationType = "REJECTED"
	TypeNoShow              NotificationType = "NO_SHOW"
	TypeWithdrawn           NotificationType = "WITHDRAWN"
	TypeAccepted            NotificationType = "ACCEPTED"
	TypeValidityExtended    NotificationType = "VALIDITY_EXTENDED"
	TypePDFRegenerated      NotificationType = "PDF_REGENERATED"
)

// Notification 站内通知实体
type Notification struct {
	ID            string
	RecipientID   string
	RecipientRole string
	Type          NotificationType
	Title         string
	Body          string
	// 业务上下文，如申请与职位标识
	Data   map[string]any
	Read   bool
	ReadAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NotificationRepository 通知仓储接口
type NotificationRepository interface {
	Save(ctx context.Context, n *Notification) error
	Get(ctx context.Context, id string) (*Notification, error)
	ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit, offset int) ([]*Notification, int64, error)
	MarkRead(ctx context.Context, id string, at time.Time) error
}

// EmailSender 邮件发送接口
type EmailSender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}
