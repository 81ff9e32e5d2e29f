// Package domain 求职申请生命周期的领域模型
package domain

import (
	"context"
	"time"
)

// Status 申请状态
type Status string

const (
	StatusNew                Status = "NEW"
	StatusShortlisted        Status = "SHORTLISTED"
	StatusInterviewScheduled Status = "INTERVIEW_SCHEDULED"
	StatusPendingAcceptance  Status = "PENDING_ACCEPTANCE"
	StatusAccepted           Status = "ACCEPTED"
	StatusRejected           Status = "REJECTED"
	StatusWithdrawn          Status = "WITHDRAWN"
	StatusNotAttending       Status = "NOT_ATTENDING"
)

// IsTerminal 是否为终态
func (s Status) IsTerminal() bool {
	switch s {
	case StatusAccepted, StatusRejected, StatusWithdrawn, StatusNotAttending:
		return true
	}
	return false
}

// Role 调用者角色
type Role string

const (
	RoleStudent Role = "student"
	RoleCompany Role = "company"
	RoleAdmin   Role = "admin"
	RoleSystem  Role = "system"
)

// Action 申请动作
type Action string

const (
	ActionApply               Action = "apply"
	ActionShortlist           Action = "shortlist"
	ActionScheduleInterview   Action = "scheduleInterview"
	ActionRescheduleInterview Action = "rescheduleInterview"
	ActionCancelInterview     Action = "cancelInterview"
	ActionSendOffer           Action = "sendOffer"
	ActionReject              Action = "reject"
	ActionMarkNoShow          Action = "markNoShow"
	ActionWithdraw            Action = "withdraw"
	ActionExtendValidity      Action = "extendValidity"
	ActionDeclineInterview    Action = "declineInterview"
	ActionAcceptOffer         Action = "acceptOffer"
	ActionDeclineOffer        Action = "declineOffer"
	ActionRegeneratePDF       Action = "regeneratePdf"
	ActionAutoWithdraw        Action = "autoWithdraw"
)

// InterviewOutcome 面试结果
type InterviewOutcome string

const (
	InterviewOutcomeDeclined InterviewOutcome = "DECLINED"
	InterviewOutcomeNoShow   InterviewOutcome = "NO_SHOW"
)

// Interview 面试阶段载荷
type Interview struct {
	ScheduledAt *time.Time       `json:"scheduled_at"`
	Location    string           `json:"location"`
	Mode        string           `json:"mode"`
	Notes       string           `json:"notes"`
	Outcome     InterviewOutcome `json:"outcome"`
	UpdatedAt   *time.Time       `json:"updated_at"`
}

// Offer 录用阶段载荷
type Offer struct {
	SentAt     *time.Time `json:"sent_at"`
	ValidUntil *time.Time `json:"valid_until"`
	Title      string     `json:"title"`
	Notes      string     `json:"notes"`
	LetterKey  string     `json:"letter_key"`
}

// Rejection 拒绝阶段载荷
type Rejection struct {
	ActorRole Role       `json:"actor_role"`
	Reason    string     `json:"reason"`
	At        *time.Time `json:"at"`
}

// HistoryEntry 历史记录条目，只追加、不修改
type HistoryEntry struct {
	At        time.Time      `json:"at"`
	ActorID   string         `json:"actor_id"`
	ActorRole Role           `json:"actor_role"`
	Action    Action         `json:"action"`
	Data      map[string]any `json:"data"`
}

// Application 求职申请聚合根
// 状态只能通过 Decide 产生的 Transition 变更
type Application struct {
	ID        string
	StudentID string
	CompanyID string
	JobID     string
	Status    Status

	SubmittedAt   time.Time
	ValidityUntil time.Time
	ExtendedOnce  bool

	CandidateStatement string
	Form               map[string]any
	Attachments        []string
	PDFKey             string

	Interview      *Interview
	Offer          *Offer
	Rejection      *Rejection
	WithdrawReason string
	WithdrawnAt    *time.Time
	AcceptedAt     *time.Time

	History []HistoryEntry

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultValidityDays 申请有效期默认天数
const DefaultValidityDays = 14

// DefaultOfferValidityDays 录用有效期默认天数
const DefaultOfferValidityDays = 7

// NewApplication 创建申请，初始状态 NEW，附带 apply 历史条目
func NewApplication(id, studentID, companyID, jobID, statement string, form map[string]any, attachments []string, validityUntil time.Time, now time.Time) *Application {
	if validityUntil.IsZero() {
		validityUntil = now.Add(DefaultValidityDays * 24 * time.Hour)
	}
	app := &Application{
		ID:                 id,
		StudentID:          studentID,
		CompanyID:          companyID,
		JobID:              jobID,
		Status:             StatusNew,
		SubmittedAt:        now,
		ValidityUntil:      validityUntil,
		CandidateStatement: statement,
		Form:               form,
		Attachments:        attachments,
	}
	app.History = append(app.History, HistoryEntry{
		At:        now,
		ActorID:   studentID,
		ActorRole: RoleStudent,
		Action:    ActionApply,
		Data:      map[string]any{"job_id": jobID},
	})
	return app
}

// IsExpired 申请有效期是否已过（仅对 NEW 有意义）
func (a *Application) IsExpired(now time.Time) bool {
	return a.Status == StatusNew && !a.ValidityUntil.After(now)
}

// LastAction 最近一次历史动作
func (a *Application) LastAction() Action {
	if len(a.History) == 0 {
		return ""
	}
	return a.History[len(a.History)-1].Action
}

// ListFilter 列表查询条件
type ListFilter struct {
	Status Status
	JobID  string
	Limit  int
	Offset int
}

// ApplicationRepository 申请仓储接口
type ApplicationRepository interface {
	// 事务执行
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	// 保存新申请（含首条历史）
	Create(ctx context.Context, app *Application) error
	// 获取申请
	Get(ctx context.Context, id string) (*Application, error)
	// 按访问范围列出申请
	List(ctx context.Context, scope Scope, filter ListFilter) ([]*Application, int64, error)
	// 条件更新状态并追加历史条目；前置状态不匹配时返回 ErrConflict
	ApplyTransition(ctx context.Context, app *Application, t *Transition) error
	// 批量自动撤回过期的 NEW 申请，返回被撤回的申请
	ExpireStale(ctx context.Context, scope Scope, now time.Time) ([]*Application, error)
	// 回写摘要文档引用
	UpdatePDFKey(ctx context.Context, id, key string) error
	// 查询录用截止时间临近的申请
	ListOfferExpiring(ctx context.Context, before time.Time) ([]*Application, error)
}

// EventPublisher 领域事件发布接口
type EventPublisher interface {
	// 发布事件
	Publish(ctx context.Context, topic string, key string, event any) error
	// 在事务中发布事件
	PublishInTx(ctx context.Context, tx any, topic string, key string, event any) error
}
