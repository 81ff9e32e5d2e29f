// Package consumer 消费申请生命周期事件并执行副作用
package consumer

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	catalogapp "github.com/wyfcoding/recruitment/internal/catalog/application"
	"github.com/wyfcoding/recruitment/internal/document"
	employmentapp "github.com/wyfcoding/recruitment/internal/employment/application"
	"github.com/wyfcoding/recruitment/internal/jobapplication/domain"
	notificationapp "github.com/wyfcoding/recruitment/internal/notification/application"
	notificationdomain "github.com/wyfcoding/recruitment/internal/notification/domain"
	userapp "github.com/wyfcoding/recruitment/internal/user/application"
)

// SideEffectHandler 副作用分发器
// 通知与邮件失败只记录日志；文档与聘用建档幂等，失败返回错误由消费端重试
type SideEffectHandler struct {
	notifications *notificationapp.NotificationService
	catalog       *catalogapp.CatalogService
	users         *userapp.UserService
	employment    *employmentapp.EmploymentService
	documents     *document.Service
	applications  domain.ApplicationRepository
	logger        *slog.Logger
}

// NewSideEffectHandler 创建副作用分发器实例
func NewSideEffectHandler(
	notifications *notificationapp.NotificationService,
	catalog *catalogapp.CatalogService,
	users *userapp.UserService,
	employment *employmentapp.EmploymentService,
	documents *document.Service,
	applications domain.ApplicationRepository,
	logger *slog.Logger,
) *SideEffectHandler {
	return &SideEffectHandler{
		notifications: notifications,
		catalog:       catalog,
		users:         users,
		employment:    employment,
		documents:     documents,
		applications:  applications,
		logger:        logger,
	}
}

// Handle 处理一条生命周期事件
func (h *SideEffectHandler) Handle(ctx context.Context, msg kafka.Message) error {
	var event domain.Event
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.logger.ErrorContext(ctx, "failed to unmarshal application event", "topic", msg.Topic, "error", err)
		return err
	}
	event.Topic = msg.Topic

	switch msg.Topic {
	case domain.TopicSubmitted:
		h.notifyCompany(ctx, event, notificationdomain.TypeApplicationReceived)
		if err := h.catalog.IncrementApplications(ctx, event.JobID); err != nil {
			h.logger.WarnContext(ctx, "failed to increment application counter", "job_id", event.JobID, "error", err)
		}
		return nil

	case domain.TopicShortlisted:
		h.notifyStudent(ctx, event, notificationdomain.TypeShortlisted)
		h.emailStudent(ctx, event, notificationdomain.TypeShortlisted)
		return nil

	case domain.TopicInterviewScheduled:
		h.notifyStudent(ctx, event, notificationdomain.TypeInterviewScheduled)
		return nil

	case domain.TopicInterviewCancelled:
		h.notifyStudent(ctx, event, notificationdomain.TypeInterviewCancelled)
		return nil

	case domain.TopicInterviewDeclined:
		h.notifyCompany(ctx, event, notificationdomain.TypeInterviewDeclined)
		return nil

	case domain.TopicOfferSent:
		h.notifyStudent(ctx, event, notificationdomain.TypeOfferSent)
		h.emailStudent(ctx, event, notificationdomain.TypeOfferSent)
		return nil

	case domain.TopicOfferDeclined:
		h.notifyCompany(ctx, event, notificationdomain.TypeOfferDeclined)
		return nil

	case domain.TopicRejected:
		h.notifyStudent(ctx, event, notificationdomain.TypeRejected)
		h.emailStudent(ctx, event, notificationdomain.TypeRejected)
		return nil

	case domain.TopicNoShow:
		h.notifyStudent(ctx, event, notificationdomain.TypeNoShow)
		return nil

	case domain.TopicWithdrawn:
		h.notifyCompany(ctx, event, notificationdomain.TypeWithdrawn)
		h.emailCompany(ctx, event, notificationdomain.TypeWithdrawn)
		if err := h.catalog.DecrementApplications(ctx, event.JobID); err != nil {
			h.logger.WarnContext(ctx, "failed to decrement application counter", "job_id", event.JobID, "error", err)
		}
		return nil

	case domain.TopicAccepted:
		h.notifyCompany(ctx, event, notificationdomain.TypeAccepted)
		h.emailCompany(ctx, event, notificationdomain.TypeAccepted)
		return h.createEmploymentRecord(ctx, event)

	case domain.TopicValidityExtended:
		h.notifyCompany(ctx, event, notificationdomain.TypeValidityExtended)
		return nil

	case domain.TopicOfferExpiring:
		h.notifyStudent(ctx, event, notificationdomain.TypeOfferExpiring)
		return nil

	case domain.TopicPDFRequested:
		return h.regenerateSummary(ctx, event)

	default:
		h.logger.WarnContext(ctx, "unknown application event topic", "topic", msg.Topic)
		return nil
	}
}

// notifyStudent 给申请人写站内通知
func (h *SideEffectHandler) notifyStudent(ctx context.Context, event domain.Event, typ notificationdomain.NotificationType) {
	params := h.templateParams(ctx, event)
	_, err := h.notifications.Notify(ctx, event.StudentID, string(domain.RoleStudent), typ, params, eventData(event))
	if err != nil {
		h.logger.WarnContext(ctx, "failed to store notification", "application_id", event.ApplicationID, "type", typ, "error", err)
	}
}

// notifyCompany 给企业负责人写站内通知
func (h *SideEffectHandler) notifyCompany(ctx context.Context, event domain.Event, typ notificationdomain.NotificationType) {
	company, err := h.catalog.GetCompany(ctx, event.CompanyID)
	if err != nil || company == nil {
		h.logger.WarnContext(ctx, "failed to resolve company owner", "company_id", event.CompanyID, "error", err)
		return
	}
	params := h.templateParams(ctx, event)
	_, err = h.notifications.Notify(ctx, company.OwnerUserID, string(domain.RoleCompany), typ, params, eventData(event))
	if err != nil {
		h.logger.WarnContext(ctx, "failed to store notification", "application_id", event.ApplicationID, "type", typ, "error", err)
	}
}

// emailStudent 给申请人发模板邮件
func (h *SideEffectHandler) emailStudent(ctx context.Context, event domain.Event, typ notificationdomain.NotificationType) {
	user, err := h.users.Get(ctx, event.StudentID)
	if err != nil || user == nil || user.Email == "" {
		h.logger.WarnContext(ctx, "failed to resolve student email", "student_id", event.StudentID, "error", err)
		return
	}
	params := h.templateParams(ctx, event)
	if err := h.notifications.SendEmail(ctx, user.Email, string(domain.RoleStudent), typ, params); err != nil {
		h.logger.WarnContext(ctx, "failed to send email", "application_id", event.ApplicationID, "type", typ, "error", err)
	}
}

// emailCompany 给企业联系邮箱发模板邮件
func (h *SideEffectHandler) emailCompany(ctx context.Context, event domain.Event, typ notificationdomain.NotificationType) {
	company, err := h.catalog.GetCompany(ctx, event.CompanyID)
	if err != nil || company == nil || company.ContactEmail == "" {
		h.logger.WarnContext(ctx, "failed to resolve company email", "company_id", event.CompanyID, "error", err)
		return
	}
	params := h.templateParams(ctx, event)
	if err := h.notifications.SendEmail(ctx, company.ContactEmail, string(domain.RoleCompany), typ, params); err != nil {
		h.logger.WarnContext(ctx, "failed to send email", "application_id", event.ApplicationID, "type", typ, "error", err)
	}
}

// createEmploymentRecord 接受录用后建档，起止日期取自职位项目周期
func (h *SideEffectHandler) createEmploymentRecord(ctx context.Context, event domain.Event) error {
	job, err := h.catalog.GetJob(ctx, event.JobID)
	if err != nil {
		return err
	}
	cmd := employmentapp.CreateFromAcceptanceCommand{
		ApplicationID: event.ApplicationID,
		StudentID:     event.StudentID,
		CompanyID:     event.CompanyID,
		JobID:         event.JobID,
	}
	if job != nil {
		cmd.StartDate = job.ProjectStartDate
		cmd.EndDate = job.ProjectEndDate
	}
	record, err := h.employment.CreateFromAcceptance(ctx, cmd)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create employment record", "application_id", event.ApplicationID, "error", err)
		return err
	}
	h.logger.InfoContext(ctx, "employment record ensured", "application_id", event.ApplicationID, "record_id", record.ID)
	return nil
}

// regenerateSummary 重建摘要文档并回写引用，失败保留旧引用
func (h *SideEffectHandler) regenerateSummary(ctx context.Context, event domain.Event) error {
	app, err := h.applications.Get(ctx, event.ApplicationID)
	if err != nil {
		return err
	}
	if app == nil {
		h.logger.WarnContext(ctx, "application not found for summary regeneration", "application_id", event.ApplicationID)
		return nil
	}
	jobTitle, companyName := "", ""
	if job, err := h.catalog.GetJob(ctx, app.JobID); err == nil && job != nil {
		jobTitle = job.Title
	}
	if company, err := h.catalog.GetCompany(ctx, app.CompanyID); err == nil && company != nil {
		companyName = company.Name
	}
	key, err := h.documents.GenerateSummary(ctx, app, jobTitle, companyName)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate summary document", "application_id", app.ID, "error", err)
		return err
	}
	if err := h.applications.UpdatePDFKey(ctx, app.ID, key); err != nil {
		return err
	}
	h.logger.InfoContext(ctx, "summary document refreshed", "application_id", app.ID, "key", key)
	h.notifySummaryRefreshed(ctx, event, key)
	return nil
}

// notifySummaryRefreshed 摘要重建后通知企业负责人，附签名下载地址
func (h *SideEffectHandler) notifySummaryRefreshed(ctx context.Context, event domain.Event, key string) {
	company, err := h.catalog.GetCompany(ctx, event.CompanyID)
	if err != nil || company == nil {
		h.logger.WarnContext(ctx, "failed to resolve company owner", "company_id", event.CompanyID, "error", err)
		return
	}
	data := eventData(event)
	if url, err := h.documents.SignedURL(key, 24*time.Hour); err == nil {
		data["pdf_url"] = url
	}
	params := h.templateParams(ctx, event)
	_, err = h.notifications.Notify(ctx, company.OwnerUserID, string(domain.RoleCompany), notificationdomain.TypePDFRegenerated, params, data)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to store notification", "application_id", event.ApplicationID, "type", notificationdomain.TypePDFRegenerated, "error", err)
	}
}

// templateParams 解析模板参数，目录查询失败时留空
func (h *SideEffectHandler) templateParams(ctx context.Context, event domain.Event) notificationapp.TemplateParams {
	params := notificationapp.TemplateParams{
		Reason:          event.Reason,
		InterviewAt:     event.InterviewAt,
		OfferValidUntil: event.OfferValidUntil,
	}
	if job, err := h.catalog.GetJob(ctx, event.JobID); err == nil && job != nil {
		params.JobTitle = job.Title
	}
	if company, err := h.catalog.GetCompany(ctx, event.CompanyID); err == nil && company != nil {
		params.CompanyName = company.Name
	}
	return params
}

func eventData(event domain.Event) map[string]any {
	return map[string]any{
		"application_id": event.ApplicationID,
		"job_id":         event.JobID,
		"company_id":     event.CompanyID,
		"action":         string(event.Action),
		"status":         string(event.Status),
	}
}
