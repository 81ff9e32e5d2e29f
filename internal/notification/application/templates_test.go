package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/recruitment/internal/notification/domain"
)

func TestEmailFor_Subset(t *testing.T) {
	p := TemplateParams{JobTitle: "Backend Intern", CompanyName: "Acme"}

	tests := []struct {
		typ       domain.NotificationType
		role      string
		wantEmail bool
	}{
		{domain.TypeShortlisted, "student", true},
		{domain.TypeOfferSent, "student", true},
		{domain.TypeRejected, "student", true},
		{domain.TypeWithdrawn, "company", true},
		{domain.TypeAccepted, "company", true},
		// 其余节点只发站内通知
		{domain.TypeShortlisted, "company", false},
		{domain.TypeWithdrawn, "student", false},
		{domain.TypeAccepted, "student", false},
		{domain.TypeApplicationReceived, "company", false},
		{domain.TypeInterviewScheduled, "student", false},
		{domain.TypeInterviewCancelled, "student", false},
		{domain.TypeOfferExpiring, "student", false},
		{domain.TypeNoShow, "student", false},
		{domain.TypeValidityExtended, "company", false},
		{domain.TypePDFRegenerated, "company", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ)+"/"+tt.role, func(t *testing.T) {
			tmpl, ok := EmailFor(tt.typ, tt.role, p)
			assert.Equal(t, tt.wantEmail, ok)
			if tt.wantEmail {
				assert.NotEmpty(t, tmpl.Subject)
				assert.NotEmpty(t, tmpl.Text)
			}
		})
	}
}

func TestEmailFor_OfferIncludesValidity(t *testing.T) {
	until := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	tmpl, ok := EmailFor(domain.TypeOfferSent, "student", TemplateParams{
		JobTitle:        "Backend Intern",
		CompanyName:     "Acme",
		OfferValidUntil: &until,
	})
	require.True(t, ok)
	assert.Contains(t, tmpl.Text, "2026-03-15")
	assert.NotEmpty(t, tmpl.HTML)
}

func TestTitleFor(t *testing.T) {
	p := TemplateParams{JobTitle: "Backend Intern"}
	assert.Contains(t, TitleFor(domain.TypeShortlisted, p), "Backend Intern")
	assert.Contains(t, TitleFor(domain.TypeOfferExpiring, p), "expires soon")
	assert.Contains(t, TitleFor(domain.TypePDFRegenerated, p), "refreshed")
	assert.Equal(t, "SOMETHING_ELSE", TitleFor(domain.NotificationType("SOMETHING_ELSE"), p))
}

func TestBodyFor_RejectedWithReason(t *testing.T) {
	body := BodyFor(domain.TypeRejected, TemplateParams{JobTitle: "Backend Intern", Reason: "position filled"})
	assert.Contains(t, body, "position filled")
}
