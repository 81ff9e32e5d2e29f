package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApplication(status Status) *Application {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	app := NewApplication("APP-1", "stu-1", "com-1", "job-1", "statement", nil, nil, time.Time{}, now)
	app.Status = status
	return app
}

func TestNewApplication_Defaults(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	app := NewApplication("APP-1", "stu-1", "com-1", "job-1", "s", nil, nil, time.Time{}, now)

	assert.Equal(t, StatusNew, app.Status)
	assert.Equal(t, now.Add(DefaultValidityDays*24*time.Hour), app.ValidityUntil)
	require.Len(t, app.History, 1)
	assert.Equal(t, ActionApply, app.History[0].Action)
	assert.Equal(t, RoleStudent, app.History[0].ActorRole)
}

func TestNewApplication_ExplicitValidity(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	until := now.Add(48 * time.Hour)
	app := NewApplication("APP-1", "stu-1", "com-1", "job-1", "s", nil, nil, until, now)

	assert.Equal(t, until, app.ValidityUntil)
}

func TestIsExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	app := newTestApplication(StatusNew)
	app.ValidityUntil = now.Add(-time.Minute)
	assert.True(t, app.IsExpired(now))

	app.ValidityUntil = now.Add(time.Minute)
	assert.False(t, app.IsExpired(now))

	// 有效期只约束 NEW 状态
	app.Status = StatusShortlisted
	app.ValidityUntil = now.Add(-time.Minute)
	assert.False(t, app.IsExpired(now))
}

func TestDecide_GuardMatrix(t *testing.T) {
	now := time.Now().UTC()
	company := Actor{UserID: "hr-1", Role: RoleCompany}
	student := Actor{UserID: "stu-1", Role: RoleStudent}

	tests := []struct {
		name    string
		actor   Actor
		from    Status
		req     ActionRequest
		wantTo  Status
		wantErr error
	}{
		{"shortlist from NEW", company, StatusNew, ActionRequest{Action: ActionShortlist}, StatusShortlisted, nil},
		{"shortlist from SHORTLISTED rejected", company, StatusShortlisted, ActionRequest{Action: ActionShortlist}, "", ErrInvalidTransition},
		{"shortlist by student rejected", student, StatusNew, ActionRequest{Action: ActionShortlist}, "", ErrInvalidTransition},
		{"schedule from SHORTLISTED", company, StatusShortlisted, ActionRequest{Action: ActionScheduleInterview}, StatusInterviewScheduled, nil},
		{"reschedule keeps INTERVIEW_SCHEDULED", company, StatusInterviewScheduled, ActionRequest{Action: ActionRescheduleInterview}, StatusInterviewScheduled, nil},
		{"cancel interview back to SHORTLISTED", company, StatusInterviewScheduled, ActionRequest{Action: ActionCancelInterview}, StatusShortlisted, nil},
		{"send offer from INTERVIEW_SCHEDULED", company, StatusInterviewScheduled, ActionRequest{Action: ActionSendOffer}, StatusPendingAcceptance, nil},
		{"send offer from SHORTLISTED", company, StatusShortlisted, ActionRequest{Action: ActionSendOffer}, StatusPendingAcceptance, nil},
		{"mark no-show", company, StatusInterviewScheduled, ActionRequest{Action: ActionMarkNoShow}, StatusNotAttending, nil},
		{"mark no-show from SHORTLISTED rejected", company, StatusShortlisted, ActionRequest{Action: ActionMarkNoShow}, "", ErrInvalidTransition},
		{"withdraw from ACCEPTED", student, StatusAccepted, ActionRequest{Action: ActionWithdraw}, StatusWithdrawn, nil},
		{"withdraw from REJECTED rejected", student, StatusRejected, ActionRequest{Action: ActionWithdraw}, "", ErrInvalidTransition},
		{"decline interview back to SHORTLISTED", student, StatusInterviewScheduled, ActionRequest{Action: ActionDeclineInterview}, StatusShortlisted, nil},
		{"accept offer", student, StatusPendingAcceptance, ActionRequest{Action: ActionAcceptOffer}, StatusAccepted, nil},
		{"accept offer by company rejected", company, StatusPendingAcceptance, ActionRequest{Action: ActionAcceptOffer}, "", ErrInvalidTransition},
		{"decline offer", student, StatusPendingAcceptance, ActionRequest{Action: ActionDeclineOffer}, StatusRejected, nil},
		{"unknown action", student, StatusNew, ActionRequest{Action: "explode"}, "", ErrUnknownAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApplication(tt.from)
			tr, err := Decide(app, tt.actor, tt.req, now)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.from, tr.From)
			assert.Equal(t, tt.wantTo, tr.To)
			assert.Equal(t, tt.req.Action, tr.Entry.Action)
		})
	}
}

func TestDecide_RejectRequiresReason(t *testing.T) {
	now := time.Now().UTC()
	company := Actor{UserID: "hr-1", Role: RoleCompany}
	app := newTestApplication(StatusShortlisted)

	_, err := Decide(app, company, ActionRequest{Action: ActionReject, Reason: "   "}, now)
	assert.ErrorIs(t, err, ErrReasonRequired)
	assert.ErrorIs(t, err, ErrBadRequest)

	tr, err := Decide(app, company, ActionRequest{Action: ActionReject, Reason: "not a fit"}, now)
	require.NoError(t, err)
	tr.Apply(app)
	require.NotNil(t, app.Rejection)
	assert.Equal(t, RoleCompany, app.Rejection.ActorRole)
	assert.Equal(t, "not a fit", app.Rejection.Reason)
}

func TestDecide_CancelInterviewKeepsDetails(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	company := Actor{UserID: "hr-1", Role: RoleCompany}
	app := newTestApplication(StatusShortlisted)

	at := now.Add(72 * time.Hour)
	tr, err := Decide(app, company, ActionRequest{
		Action:      ActionScheduleInterview,
		ScheduledAt: &at,
		Location:    "HQ",
		Mode:        "onsite",
		Notes:       "bring portfolio",
	}, now)
	require.NoError(t, err)
	tr.Apply(app)
	app.Status = tr.To

	later := now.Add(time.Hour)
	tr, err = Decide(app, company, ActionRequest{Action: ActionCancelInterview}, later)
	require.NoError(t, err)
	tr.Apply(app)

	// 取消只清空时间，地点与备注保留
	require.NotNil(t, app.Interview)
	assert.Nil(t, app.Interview.ScheduledAt)
	assert.Equal(t, "HQ", app.Interview.Location)
	assert.Equal(t, "onsite", app.Interview.Mode)
	assert.Equal(t, "bring portfolio", app.Interview.Notes)
	assert.Equal(t, later, *app.Interview.UpdatedAt)
}

func TestRegeneratePDFTransition(t *testing.T) {
	now := time.Now().UTC()
	app := newTestApplication(StatusShortlisted)
	actor := Actor{UserID: "stu-1", Role: RoleStudent}

	tr := RegeneratePDFTransition(app, actor, now)
	assert.Equal(t, StatusShortlisted, tr.From)
	assert.Equal(t, StatusShortlisted, tr.To)
	assert.Equal(t, ActionRegeneratePDF, tr.Entry.Action)
	assert.Equal(t, "stu-1", tr.Entry.ActorID)
	require.Len(t, tr.Events, 1)
	assert.Equal(t, TopicPDFRequested, tr.Events[0].Topic)

	tr.Apply(app)
	assert.Equal(t, StatusShortlisted, app.Status)
}

func TestDecide_SendOfferDefaultsValidity(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	company := Actor{UserID: "hr-1", Role: RoleCompany}
	app := newTestApplication(StatusInterviewScheduled)

	tr, err := Decide(app, company, ActionRequest{Action: ActionSendOffer, OfferTitle: "Intern"}, now)
	require.NoError(t, err)
	tr.Apply(app)

	require.NotNil(t, app.Offer)
	require.NotNil(t, app.Offer.ValidUntil)
	assert.Equal(t, now.Add(DefaultOfferValidityDays*24*time.Hour), *app.Offer.ValidUntil)
	require.Len(t, tr.Events, 1)
	assert.Equal(t, TopicOfferSent, tr.Events[0].Topic)
	assert.Equal(t, *app.Offer.ValidUntil, *tr.Events[0].OfferValidUntil)
}

func TestDecide_ExtendValidity(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	student := Actor{UserID: "stu-1", Role: RoleStudent}

	t.Run("default seven days", func(t *testing.T) {
		app := newTestApplication(StatusNew)
		before := app.ValidityUntil
		tr, err := Decide(app, student, ActionRequest{Action: ActionExtendValidity}, now)
		require.NoError(t, err)
		tr.Apply(app)
		assert.Equal(t, before.Add(7*24*time.Hour), app.ValidityUntil)
		assert.True(t, app.ExtendedOnce)
		assert.Equal(t, 7, tr.Entry.Data["effective_days"])
	})

	t.Run("clamped to thirty days", func(t *testing.T) {
		app := newTestApplication(StatusNew)
		before := app.ValidityUntil
		tr, err := Decide(app, student, ActionRequest{Action: ActionExtendValidity, Days: 90}, now)
		require.NoError(t, err)
		tr.Apply(app)
		assert.Equal(t, before.Add(30*24*time.Hour), app.ValidityUntil)
	})

	t.Run("negative days rejected", func(t *testing.T) {
		app := newTestApplication(StatusNew)
		_, err := Decide(app, student, ActionRequest{Action: ActionExtendValidity, Days: -3}, now)
		assert.ErrorIs(t, err, ErrInvalidDays)
	})

	t.Run("only once", func(t *testing.T) {
		app := newTestApplication(StatusNew)
		app.ExtendedOnce = true
		_, err := Decide(app, student, ActionRequest{Action: ActionExtendValidity, Days: 5}, now)
		assert.ErrorIs(t, err, ErrAlreadyExtended)
	})
}

func TestDecide_DeclineOfferRecordsStudentRejection(t *testing.T) {
	now := time.Now().UTC()
	student := Actor{UserID: "stu-1", Role: RoleStudent}
	app := newTestApplication(StatusPendingAcceptance)

	tr, err := Decide(app, student, ActionRequest{Action: ActionDeclineOffer, Reason: "took another offer"}, now)
	require.NoError(t, err)
	tr.Apply(app)

	require.NotNil(t, app.Rejection)
	assert.Equal(t, RoleStudent, app.Rejection.ActorRole)
	assert.Equal(t, StatusRejected, tr.To)
}

func TestAutoWithdrawTransition(t *testing.T) {
	now := time.Now().UTC()
	app := newTestApplication(StatusNew)

	tr := AutoWithdrawTransition(app, now)
	assert.Equal(t, StatusNew, tr.From)
	assert.Equal(t, StatusWithdrawn, tr.To)
	assert.Equal(t, ActionAutoWithdraw, tr.Entry.Action)
	assert.Equal(t, RoleSystem, tr.Entry.ActorRole)

	tr.Apply(app)
	assert.Equal(t, AutoWithdrawReason, app.WithdrawReason)
	require.Len(t, tr.Events, 1)
	assert.Equal(t, TopicWithdrawn, tr.Events[0].Topic)
	assert.Equal(t, AutoWithdrawReason, tr.Events[0].Reason)
}

func TestStatusIsTerminal(t *testing.T) {
	assert.True(t, StatusAccepted.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusWithdrawn.IsTerminal())
	assert.True(t, StatusNotAttending.IsTerminal())
	assert.False(t, StatusNew.IsTerminal())
	assert.False(t, StatusPendingAcceptance.IsTerminal())
}
