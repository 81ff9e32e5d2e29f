package application

import (
	"time"

	"github.com/wyfcoding/recruitment/internal/jobapplication/domain"
)

// ApplicationView 申请读模型
type ApplicationView struct {
	ID            string `json:"id"`
	StudentID     string `json:"student_id"`
	CompanyID     string `json:"company_id"`
	JobID         string `json:"job_id"`
	JobTitle      string `json:"job_title,omitempty"`
	CompanyName   string `json:"company_name,omitempty"`
	Status        string `json:"status"`
	SubmittedAt   time.Time `json:"submitted_at"`
	ValidityUntil time.Time `json:"validity_until"`
	ExtendedOnce  bool      `json:"extended_once"`

	CandidateStatement string         `json:"candidate_statement,omitempty"`
	Form               map[string]any `json:"form,omitempty"`
	Attachments        []string       `json:"attachments,omitempty"`
	PDFKey             string         `json:"pdf_key,omitempty"`

	Interview      *domain.Interview     `json:"interview,omitempty"`
	Offer          *domain.Offer         `json:"offer,omitempty"`
	Rejection      *domain.Rejection     `json:"rejection,omitempty"`
	WithdrawReason string                `json:"withdraw_reason,omitempty"`
	WithdrawnAt    *time.Time            `json:"withdrawn_at,omitempty"`
	AcceptedAt     *time.Time            `json:"accepted_at,omitempty"`
	History        []domain.HistoryEntry `json:"history"`
}

// NewApplicationView 由聚合构建读模型
func NewApplicationView(app *domain.Application) *ApplicationView {
	return &ApplicationView{
		ID:                 app.ID,
		StudentID:          app.StudentID,
		CompanyID:          app.CompanyID,
		JobID:              app.JobID,
		Status:             string(app.Status),
		SubmittedAt:        app.SubmittedAt,
		ValidityUntil:      app.ValidityUntil,
		ExtendedOnce:       app.ExtendedOnce,
		CandidateStatement: app.CandidateStatement,
		Form:               app.Form,
		Attachments:        app.Attachments,
		PDFKey:             app.PDFKey,
		Interview:          app.Interview,
		Offer:              app.Offer,
		Rejection:          app.Rejection,
		WithdrawReason:     app.WithdrawReason,
		WithdrawnAt:        app.WithdrawnAt,
		AcceptedAt:         app.AcceptedAt,
		History:            app.History,
	}
}
