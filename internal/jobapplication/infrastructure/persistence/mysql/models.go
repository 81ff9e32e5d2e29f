package mysql

import (
	"encoding/json"
	"time"

	"github.com/wyfcoding/recruitment/internal/jobapplication/domain"
)

// ApplicationModel MySQL 申请表映射
type ApplicationModel struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
	ApplicationID string    `gorm:"column:application_id;type:varchar(32);uniqueIndex;not null"`
	StudentID     string    `gorm:"column:student_id;type:varchar(64);index;not null"`
	CompanyID     string    `gorm:"column:company_id;type:varchar(64);index;not null"`
	JobID         string    `gorm:"column:job_id;type:varchar(64);index;not null"`
	Status        string    `gorm:"column:status;type:varchar(32);index;not null"`

	SubmittedAt   time.Time `gorm:"column:submitted_at;type:datetime;not null"`
	ValidityUntil time.Time `gorm:"column:validity_until;type:datetime;index;not null"`
	ExtendedOnce  bool      `gorm:"column:extended_once;default:false"`

	CandidateStatement string `gorm:"column:candidate_statement;type:text"`
	Form               string `gorm:"column:form;type:text"`
	Attachments        string `gorm:"column:attachments;type:text"`
	PDFKey             string `gorm:"column:pdf_key;type:varchar(255)"`

	Interview string `gorm:"column:interview;type:text"`
	Offer     string `gorm:"column:offer;type:text"`
	Rejection string `gorm:"column:rejection;type:text"`
	// 冗余录用截止时间，供临期提醒查询
	OfferValidUntil *time.Time `gorm:"column:offer_valid_until;type:datetime;index"`

	WithdrawReason string     `gorm:"column:withdraw_reason;type:varchar(255)"`
	WithdrawnAt    *time.Time `gorm:"column:withdrawn_at;type:datetime"`
	AcceptedAt     *time.Time `gorm:"column:accepted_at;type:datetime"`
}

func (ApplicationModel) TableName() string {
	return "applications"
}

// HistoryModel MySQL 申请历史表映射，只插入不更新
type HistoryModel struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	ApplicationID string    `gorm:"column:application_id;type:varchar(32);index;not null"`
	At            time.Time `gorm:"column:at;type:datetime;not null"`
	ActorID       string    `gorm:"column:actor_id;type:varchar(64)"`
	ActorRole     string    `gorm:"column:actor_role;type:varchar(16);not null"`
	Action        string    `gorm:"column:action;type:varchar(32);not null"`
	Data          string    `gorm:"column:data;type:text"`
}

func (HistoryModel) TableName() string {
	return "application_history"
}

func toApplicationModel(app *domain.Application) *ApplicationModel {
	if app == nil {
		return nil
	}
	model := &ApplicationModel{
		CreatedAt:          app.CreatedAt,
		UpdatedAt:          app.UpdatedAt,
		ApplicationID:      app.ID,
		StudentID:          app.StudentID,
		CompanyID:          app.CompanyID,
		JobID:              app.JobID,
		Status:             string(app.Status),
		SubmittedAt:        app.SubmittedAt,
		ValidityUntil:      app.ValidityUntil,
		ExtendedOnce:       app.ExtendedOnce,
		CandidateStatement: app.CandidateStatement,
		Form:               marshalJSON(app.Form),
		Attachments:        marshalJSON(app.Attachments),
		PDFKey:             app.PDFKey,
		Interview:          marshalJSON(app.Interview),
		Offer:              marshalJSON(app.Offer),
		Rejection:          marshalJSON(app.Rejection),
		WithdrawReason:     app.WithdrawReason,
		WithdrawnAt:        app.WithdrawnAt,
		AcceptedAt:         app.AcceptedAt,
	}
	if app.Offer != nil {
		model.OfferValidUntil = app.Offer.ValidUntil
	}
	return model
}

func toApplication(model *ApplicationModel, history []HistoryModel) *domain.Application {
	if model == nil {
		return nil
	}
	app := &domain.Application{
		ID:                 model.ApplicationID,
		StudentID:          model.StudentID,
		CompanyID:          model.CompanyID,
		JobID:              model.JobID,
		Status:             domain.Status(model.Status),
		SubmittedAt:        model.SubmittedAt,
		ValidityUntil:      model.ValidityUntil,
		ExtendedOnce:       model.ExtendedOnce,
		CandidateStatement: model.CandidateStatement,
		PDFKey:             model.PDFKey,
		WithdrawReason:     model.WithdrawReason,
		WithdrawnAt:        model.WithdrawnAt,
		AcceptedAt:         model.AcceptedAt,
		CreatedAt:          model.CreatedAt,
		UpdatedAt:          model.UpdatedAt,
	}
	unmarshalJSON(model.Form, &app.Form)
	unmarshalJSON(model.Attachments, &app.Attachments)
	unmarshalJSON(model.Interview, &app.Interview)
	unmarshalJSON(model.Offer, &app.Offer)
	unmarshalJSON(model.Rejection, &app.Rejection)
	for _, h := range history {
		app.History = append(app.History, toHistoryEntry(h))
	}
	return app
}

func toHistoryModel(applicationID string, entry domain.HistoryEntry) *HistoryModel {
	return &HistoryModel{
		ApplicationID: applicationID,
		At:            entry.At,
		ActorID:       entry.ActorID,
		ActorRole:     string(entry.ActorRole),
		Action:        string(entry.Action),
		Data:          marshalJSON(entry.Data),
	}
}

func toHistoryEntry(model HistoryModel) domain.HistoryEntry {
	entry := domain.HistoryEntry{
		At:        model.At,
		ActorID:   model.ActorID,
		ActorRole: domain.Role(model.ActorRole),
		Action:    domain.Action(model.Action),
	}
	unmarshalJSON(model.Data, &entry.Data)
	return entry
}

func marshalJSON(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	s := string(b)
	if s == "null" {
		return ""
	}
	return s
}

func unmarshalJSON(s string, v any) {
	if s == "" {
		return
	}
	_ = json.Unmarshal([]byte(s), v)
}
