package domain

import "time"

// 生命周期事件主题
const (
	TopicSubmitted          = "application.submitted"
	TopicShortlisted        = "application.shortlisted"
	TopicInterviewScheduled = "application.interview_scheduled"
	TopicInterviewCancelled = "application.interview_cancelled"
	TopicInterviewDeclined  = "application.interview_declined"
	TopicOfferSent          = "application.offer_sent"
	TopicOfferDeclined      = "application.offer_declined"
	TopicRejected           = "application.rejected"
	TopicNoShow             = "application.no_show"
	TopicWithdrawn          = "application.withdrawn"
	TopicAccepted           = "application.accepted"
	TopicValidityExtended   = "application.validity_extended"
	TopicPDFRequested       = "application.pdf_requested"
	TopicOfferExpiring      = "application.offer_expiring"
)

// Topics 全部生命周期事件主题，供消费者订阅
var Topics = []string{
	TopicSubmitted,
	TopicShortlisted,
	TopicInterviewScheduled,
	TopicInterviewCancelled,
	TopicInterviewDeclined,
	TopicOfferSent,
	TopicOfferDeclined,
	TopicRejected,
	TopicNoShow,
	TopicWithdrawn,
	TopicAccepted,
	TopicValidityExtended,
	TopicPDFRequested,
	TopicOfferExpiring,
}

// Event 申请生命周期事件
// 落入 Outbox 表，事务提交后由中继推送到 Kafka
type Event struct {
	Topic           string     `json:"-"`
	ApplicationID   string     `json:"application_id"`
	StudentID       string     `json:"student_id"`
	CompanyID       string     `json:"company_id"`
	JobID           string     `json:"job_id"`
	Action          Action     `json:"action"`
	ActorID         string     `json:"actor_id"`
	ActorRole       Role       `json:"actor_role"`
	Status          Status     `json:"status"`
	Reason          string     `json:"reason,omitempty"`
	OfferValidUntil *time.Time `json:"offer_valid_until,omitempty"`
	InterviewAt     *time.Time `json:"interview_at,omitempty"`
	Timestamp       time.Time  `json:"timestamp"`
}

// SubmittedEvent 构造申请提交事件
func SubmittedEvent(app *Application, now time.Time) Event {
	return Event{
		Topic:         TopicSubmitted,
		ApplicationID: app.ID,
		StudentID:     app.StudentID,
		CompanyID:     app.CompanyID,
		JobID:         app.JobID,
		Action:        ActionApply,
		ActorID:       app.StudentID,
		ActorRole:     RoleStudent,
		Status:        StatusNew,
		Timestamp:     now,
	}
}

// PDFRequestedEvent 构造摘要文档生成事件
func PDFRequestedEvent(app *Application, actor Actor, now time.Time) Event {
	return Event{
		Topic:         TopicPDFRequested,
		ApplicationID: app.ID,
		StudentID:     app.StudentID,
		CompanyID:     app.CompanyID,
		JobID:         app.JobID,
		Action:        ActionRegeneratePDF,
		ActorID:       actor.UserID,
		ActorRole:     actor.Role,
		Status:        app.Status,
		Timestamp:     now,
	}
}

// OfferExpiringEvent 构造录用临期提醒事件
func OfferExpiringEvent(app *Application, now time.Time) Event {
	ev := Event{
		Topic:         TopicOfferExpiring,
		ApplicationID: app.ID,
		StudentID:     app.StudentID,
		CompanyID:     app.CompanyID,
		JobID:         app.JobID,
		ActorRole:     RoleSystem,
		Status:        app.Status,
		Timestamp:     now,
	}
	if app.Offer != nil {
		ev.OfferValidUntil = app.Offer.ValidUntil
	}
	return ev
}
