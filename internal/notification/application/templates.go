package application

import (
	"fmt"
	"time"

	"github.com/wyfcoding/recruitment/internal/notification/domain"
)

// TemplateParams 模板参数
type TemplateParams struct {
	JobTitle        string
	CompanyName     string
	Reason          string
	InterviewAt     *time.Time
	OfferValidUntil *time.Time
}

// EmailTemplate 邮件模板渲染结果
type EmailTemplate struct {
	Subject string
	Text    string
	HTML    string
}

// TitleFor 站内通知标题，(类型, 参数) 的纯函数
func TitleFor(typ domain.NotificationType, p TemplateParams) string {
	switch typ {
	case domain.TypeApplicationReceived:
		return fmt.Sprintf("New application for %s", p.JobTitle)
	case domain.TypeShortlisted:
		return fmt.Sprintf("You were shortlisted for %s", p.JobTitle)
	case domain.TypeInterviewScheduled:
		return fmt.Sprintf("Interview scheduled for %s", p.JobTitle)
	case domain.TypeInterviewCancelled:
		return fmt.Sprintf("Interview cancelled for %s", p.JobTitle)
	case domain.TypeInterviewDeclined:
		return fmt.Sprintf("Interview declined for %s", p.JobTitle)
	case domain.TypeOfferSent:
		return fmt.Sprintf("You received an offer for %s", p.JobTitle)
	case domain.TypeOfferDeclined:
		return fmt.Sprintf("Offer declined for %s", p.JobTitle)
	case domain.TypeOfferExpiring:
		return fmt.Sprintf("Your offer for %s expires soon", p.JobTitle)
	case domain.TypeRejected:
		return fmt.Sprintf("Update on your application for %s", p.JobTitle)
	case domain.TypeNoShow:
		return fmt.Sprintf("Interview no-show recorded for %s", p.JobTitle)
	case domain.TypeWithdrawn:
		return fmt.Sprintf("An application for %s was withdrawn", p.JobTitle)
	case domain.TypeAccepted:
		return fmt.Sprintf("Offer accepted for %s", p.JobTitle)
	case domain.TypeValidityExtended:
		return fmt.Sprintf("An application for %s extended its validity", p.JobTitle)
	case domain.TypePDFRegenerated:
		return fmt.Sprintf("Application summary refreshed for %s", p.JobTitle)
	default:
		return string(typ)
	}
}

// BodyFor 站内通知正文
func BodyFor(typ domain.NotificationType, p TemplateParams) string {
	switch typ {
	case domain.TypeInterviewScheduled:
		if p.InterviewAt != nil {
			return fmt.Sprintf("Interview for %s at %s is set for %s.",
				p.JobTitle, p.CompanyName, p.InterviewAt.Format(time.RFC1123))
		}
		return fmt.Sprintf("An interview for %s at %s has been scheduled.", p.JobTitle, p.CompanyName)
	case domain.TypeOfferSent:
		if p.OfferValidUntil != nil {
			return fmt.Sprintf("%s sent you an offer for %s, valid until %s.",
				p.CompanyName, p.JobTitle, p.OfferValidUntil.Format("2006-01-02"))
		}
		return fmt.Sprintf("%s sent you an offer for %s.", p.CompanyName, p.JobTitle)
	case domain.TypeRejected:
		if p.Reason != "" {
			return fmt.Sprintf("Your application for %s was not successful: %s", p.JobTitle, p.Reason)
		}
		return fmt.Sprintf("Your application for %s was not successful.", p.JobTitle)
	case domain.TypeOfferExpiring:
		if p.OfferValidUntil != nil {
			return fmt.Sprintf("Your offer for %s expires on %s. Accept or decline before then.",
				p.JobTitle, p.OfferValidUntil.Format("2006-01-02"))
		}
		return fmt.Sprintf("Your offer for %s is about to expire.", p.JobTitle)
	default:
		return TitleFor(typ, p)
	}
}

// EmailFor 邮件模板选择，(类型, 收件人角色) 的纯函数
// 仅生命周期中的关键节点发送邮件
func EmailFor(typ domain.NotificationType, recipientRole string, p TemplateParams) (EmailTemplate, bool) {
	switch {
	case typ == domain.TypeShortlisted && recipientRole == "student":
		return EmailTemplate{
			Subject: fmt.Sprintf("Shortlisted: %s at %s", p.JobTitle, p.CompanyName),
			Text: fmt.Sprintf("Good news! %s shortlisted your application for %s. "+
				"The company may contact you to schedule an interview.", p.CompanyName, p.JobTitle),
		}, true
	case typ == domain.TypeOfferSent && recipientRole == "student":
		validity := ""
		if p.OfferValidUntil != nil {
			validity = fmt.Sprintf(" The offer is valid until %s.", p.OfferValidUntil.Format("2006-01-02"))
		}
		text := fmt.Sprintf("%s sent you an offer for %s.%s", p.CompanyName, p.JobTitle, validity)
		return EmailTemplate{
			Subject: fmt.Sprintf("Offer received: %s at %s", p.JobTitle, p.CompanyName),
			Text:    text,
			HTML:    fmt.Sprintf("<p>%s</p>", text),
		}, true
	case typ == domain.TypeRejected && recipientRole == "student":
		text := fmt.Sprintf("Your application for %s at %s was not successful.", p.JobTitle, p.CompanyName)
		if p.Reason != "" {
			text += " Reason: " + p.Reason
		}
		return EmailTemplate{
			Subject: fmt.Sprintf("Application update: %s", p.JobTitle),
			Text:    text,
		}, true
	case typ == domain.TypeWithdrawn && recipientRole == "company":
		return EmailTemplate{
			Subject: fmt.Sprintf("Application withdrawn: %s", p.JobTitle),
			Text:    fmt.Sprintf("A candidate withdrew their application for %s.", p.JobTitle),
		}, true
	case typ == domain.TypeAccepted && recipientRole == "company":
		return EmailTemplate{
			Subject: fmt.Sprintf("Offer accepted: %s", p.JobTitle),
			Text:    fmt.Sprintf("Your offer for %s has been accepted.", p.JobTitle),
		}, true
	}
	return EmailTemplate{}, false
}
