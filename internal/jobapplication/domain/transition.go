package domain

import (
	"fmt"
	"strings"
	"time"
)

// ActionRequest 动作请求载荷
type ActionRequest struct {
	Action Action `json:"action"`

	// scheduleInterview / rescheduleInterview
	ScheduledAt *time.Time `json:"scheduled_at"`
	Location    string     `json:"location"`
	Mode        string     `json:"mode"`
	Notes       string     `json:"notes"`

	// sendOffer
	OfferTitle      string     `json:"offer_title"`
	OfferNotes      string     `json:"offer_notes"`
	OfferValidUntil *time.Time `json:"offer_valid_until"`

	// reject / withdraw
	Reason string `json:"reason"`

	// extendValidity
	Days int `json:"days"`
}

// Transition 一次经过校验的状态变更
// From/To 为状态前置与结果，Apply 为字段变更，Entry 为追加的历史条目
type Transition struct {
	From   Status
	To     Status
	Apply  func(app *Application)
	Entry  HistoryEntry
	Events []Event
}

// guard 守卫规则：角色 + 允许的前置状态 + 结果状态
type guard struct {
	role Role
	from []Status
	to   Status
}

func (g guard) allowsFrom(s Status) bool {
	for _, f := range g.from {
		if f == s {
			return true
		}
	}
	return false
}

// guards 守卫表，对应角色在指定状态下允许的动作
var guards = map[Action]guard{
	ActionShortlist:           {role: RoleCompany, from: []Status{StatusNew}, to: StatusShortlisted},
	ActionScheduleInterview:   {role: RoleCompany, from: []Status{StatusShortlisted, StatusInterviewScheduled}, to: StatusInterviewScheduled},
	ActionRescheduleInterview: {role: RoleCompany, from: []Status{StatusShortlisted, StatusInterviewScheduled}, to: StatusInterviewScheduled},
	ActionCancelInterview:     {role: RoleCompany, from: []Status{StatusInterviewScheduled}, to: StatusShortlisted},
	ActionSendOffer:           {role: RoleCompany, from: []Status{StatusInterviewScheduled, StatusShortlisted}, to: StatusPendingAcceptance},
	ActionReject:              {role: RoleCompany, from: []Status{StatusNew, StatusShortlisted, StatusInterviewScheduled, StatusPendingAcceptance}, to: StatusRejected},
	ActionMarkNoShow:          {role: RoleCompany, from: []Status{StatusInterviewScheduled}, to: StatusNotAttending},
	ActionWithdraw:            {role: RoleStudent, from: []Status{StatusNew, StatusShortlisted, StatusInterviewScheduled, StatusPendingAcceptance, StatusAccepted}, to: StatusWithdrawn},
	ActionExtendValidity:      {role: RoleStudent, from: []Status{StatusNew}, to: StatusNew},
	ActionDeclineInterview:    {role: RoleStudent, from: []Status{StatusInterviewScheduled}, to: StatusShortlisted},
	ActionAcceptOffer:         {role: RoleStudent, from: []Status{StatusPendingAcceptance}, to: StatusAccepted},
	ActionDeclineOffer:        {role: RoleStudent, from: []Status{StatusPendingAcceptance}, to: StatusRejected},
}

// Decide 依据守卫表评估动作，返回待应用的 Transition
// 不直接修改聚合；由仓储在条件写入中应用
func Decide(app *Application, actor Actor, req ActionRequest, now time.Time) (*Transition, error) {
	g, ok := guards[req.Action]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, req.Action)
	}
	if actor.Role != g.role {
		return nil, fmt.Errorf("%w: role %s cannot %s", ErrInvalidTransition, actor.Role, req.Action)
	}
	if !g.allowsFrom(app.Status) {
		return nil, fmt.Errorf("%w: %s not allowed from %s", ErrInvalidTransition, req.Action, app.Status)
	}

	t := &Transition{
		From: app.Status,
		To:   g.to,
		Entry: HistoryEntry{
			At:        now,
			ActorID:   actor.UserID,
			ActorRole: actor.Role,
			Action:    req.Action,
			Data:      payloadSnapshot(req),
		},
	}

	switch req.Action {
	case ActionShortlist:
		t.Apply = func(app *Application) {}
		t.Events = shortlistedEvents(app, actor, now)

	case ActionScheduleInterview, ActionRescheduleInterview:
		at := req.ScheduledAt
		t.Apply = func(app *Application) {
			app.Interview = &Interview{
				ScheduledAt: at,
				Location:    req.Location,
				Mode:        req.Mode,
				Notes:       req.Notes,
				UpdatedAt:   &now,
			}
		}
		t.Events = interviewScheduledEvents(app, actor, req, now)

	case ActionCancelInterview:
		t.Apply = func(app *Application) {
			if app.Interview != nil {
				app.Interview.ScheduledAt = nil
				app.Interview.UpdatedAt = &now
			}
		}
		t.Events = []Event{lifecycleEvent(TopicInterviewCancelled, app, actor, req, t.To, now)}

	case ActionSendOffer:
		validUntil := req.OfferValidUntil
		if validUntil == nil {
			v := now.Add(DefaultOfferValidityDays * 24 * time.Hour)
			validUntil = &v
		}
		t.Apply = func(app *Application) {
			app.Offer = &Offer{
				SentAt:     &now,
				ValidUntil: validUntil,
				Title:      req.OfferTitle,
				Notes:      req.OfferNotes,
			}
		}
		ev := lifecycleEvent(TopicOfferSent, app, actor, req, t.To, now)
		ev.OfferValidUntil = validUntil
		t.Events = []Event{ev}

	case ActionReject:
		reason := strings.TrimSpace(req.Reason)
		if reason == "" {
			return nil, ErrReasonRequired
		}
		t.Apply = func(app *Application) {
			app.Rejection = &Rejection{ActorRole: RoleCompany, Reason: reason, At: &now}
		}
		ev := lifecycleEvent(TopicRejected, app, actor, req, t.To, now)
		ev.Reason = reason
		t.Events = []Event{ev}

	case ActionMarkNoShow:
		t.Apply = func(app *Application) {
			if app.Interview == nil {
				app.Interview = &Interview{}
			}
			app.Interview.Outcome = InterviewOutcomeNoShow
			app.Interview.UpdatedAt = &now
		}
		t.Events = []Event{lifecycleEvent(TopicNoShow, app, actor, req, t.To, now)}

	case ActionWithdraw:
		reason := strings.TrimSpace(req.Reason)
		t.Apply = func(app *Application) {
			app.WithdrawReason = reason
			app.WithdrawnAt = &now
		}
		ev := lifecycleEvent(TopicWithdrawn, app, actor, req, t.To, now)
		ev.Reason = reason
		t.Events = []Event{ev}

	case ActionExtendValidity:
		if app.ExtendedOnce {
			return nil, ErrAlreadyExtended
		}
		days := req.Days
		if days < 0 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidDays, days)
		}
		if days == 0 {
			days = 7
		}
		if days > 30 {
			days = 30
		}
		newValidity := app.ValidityUntil.Add(time.Duration(days) * 24 * time.Hour)
		t.Apply = func(app *Application) {
			app.ValidityUntil = newValidity
			app.ExtendedOnce = true
		}
		t.Entry.Data["effective_days"] = days
		t.Events = []Event{lifecycleEvent(TopicValidityExtended, app, actor, req, t.To, now)}

	case ActionDeclineInterview:
		t.Apply = func(app *Application) {
			if app.Interview == nil {
				app.Interview = &Interview{}
			}
			app.Interview.Outcome = InterviewOutcomeDeclined
			app.Interview.UpdatedAt = &now
		}
		t.Events = []Event{lifecycleEvent(TopicInterviewDeclined, app, actor, req, t.To, now)}

	case ActionAcceptOffer:
		t.Apply = func(app *Application) {
			app.AcceptedAt = &now
		}
		t.Events = []Event{lifecycleEvent(TopicAccepted, app, actor, req, t.To, now)}

	case ActionDeclineOffer:
		reason := strings.TrimSpace(req.Reason)
		t.Apply = func(app *Application) {
			app.Rejection = &Rejection{ActorRole: RoleStudent, Reason: reason, At: &now}
		}
		ev := lifecycleEvent(TopicOfferDeclined, app, actor, req, t.To, now)
		ev.Reason = reason
		t.Events = []Event{ev}

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, req.Action)
	}

	return t, nil
}

// RegeneratePDFTransition 重建摘要文档的变更
// 状态不变，仅追加历史条目并发起重建事件
func RegeneratePDFTransition(app *Application, actor Actor, now time.Time) *Transition {
	return &Transition{
		From:  app.Status,
		To:    app.Status,
		Apply: func(app *Application) {},
		Entry: HistoryEntry{
			At:        now,
			ActorID:   actor.UserID,
			ActorRole: actor.Role,
			Action:    ActionRegeneratePDF,
			Data:      map[string]any{},
		},
		Events: []Event{PDFRequestedEvent(app, actor, now)},
	}
}

// AutoWithdrawTransition 系统自动撤回过期申请的变更
func AutoWithdrawTransition(app *Application, now time.Time) *Transition {
	ev := Event{
		Topic:         TopicWithdrawn,
		ApplicationID: app.ID,
		StudentID:     app.StudentID,
		CompanyID:     app.CompanyID,
		JobID:         app.JobID,
		Action:        ActionAutoWithdraw,
		ActorRole:     RoleSystem,
		Status:        StatusWithdrawn,
		Reason:        AutoWithdrawReason,
		Timestamp:     now,
	}
	return &Transition{
		From: StatusNew,
		To:   StatusWithdrawn,
		Apply: func(app *Application) {
			app.WithdrawReason = AutoWithdrawReason
			app.WithdrawnAt = &now
		},
		Entry: HistoryEntry{
			At:        now,
			ActorRole: RoleSystem,
			Action:    ActionAutoWithdraw,
			Data:      map[string]any{"reason": AutoWithdrawReason},
		},
		Events: []Event{ev},
	}
}

// AutoWithdrawReason 自动撤回原因标识
const AutoWithdrawReason = "validityExpired"

// payloadSnapshot 提交载荷的审计快照
func payloadSnapshot(req ActionRequest) map[string]any {
	data := map[string]any{}
	if req.ScheduledAt != nil {
		data["scheduled_at"] = req.ScheduledAt.UTC()
	}
	if req.Location != "" {
		data["location"] = req.Location
	}
	if req.Mode != "" {
		data["mode"] = req.Mode
	}
	if req.Notes != "" {
		data["notes"] = req.Notes
	}
	if req.OfferTitle != "" {
		data["offer_title"] = req.OfferTitle
	}
	if req.OfferNotes != "" {
		data["offer_notes"] = req.OfferNotes
	}
	if req.OfferValidUntil != nil {
		data["offer_valid_until"] = req.OfferValidUntil.UTC()
	}
	if req.Reason != "" {
		data["reason"] = req.Reason
	}
	if req.Days != 0 {
		data["days"] = req.Days
	}
	return data
}

func shortlistedEvents(app *Application, actor Actor, now time.Time) []Event {
	return []Event{lifecycleEvent(TopicShortlisted, app, actor, ActionRequest{Action: ActionShortlist}, StatusShortlisted, now)}
}

func interviewScheduledEvents(app *Application, actor Actor, req ActionRequest, now time.Time) []Event {
	ev := lifecycleEvent(TopicInterviewScheduled, app, actor, req, StatusInterviewScheduled, now)
	ev.InterviewAt = req.ScheduledAt
	return []Event{ev}
}

func lifecycleEvent(topic string, app *Application, actor Actor, req ActionRequest, to Status, now time.Time) Event {
	return Event{
		Topic:         topic,
		ApplicationID: app.ID,
		StudentID:     app.StudentID,
		CompanyID:     app.CompanyID,
		JobID:         app.JobID,
		Action:        req.Action,
		ActorID:       actor.UserID,
		ActorRole:     actor.Role,
		Status:        to,
		Timestamp:     now,
	}
}
