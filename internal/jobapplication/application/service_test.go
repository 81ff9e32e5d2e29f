package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/recruitment/internal/jobapplication/domain"
)

// fakeApplicationRepo 内存仓储，模拟条件更新语义
type fakeApplicationRepo struct {
	apps map[string]*domain.Application
	// 注入一次性的条件更新冲突，模拟并发竞争失败
	conflictOnce bool
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: make(map[string]*domain.Application)}
}

func (r *fakeApplicationRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (r *fakeApplicationRepo) Create(_ context.Context, app *domain.Application) error {
	cp := *app
	r.apps[app.ID] = &cp
	return nil
}

func (r *fakeApplicationRepo) Get(_ context.Context, id string) (*domain.Application, error) {
	app, ok := r.apps[id]
	if !ok {
		return nil, nil
	}
	cp := *app
	return &cp, nil
}

func (r *fakeApplicationRepo) List(_ context.Context, scope domain.Scope, _ domain.ListFilter) ([]*domain.Application, int64, error) {
	var out []*domain.Application
	for _, app := range r.apps {
		if scope.StudentID != "" && app.StudentID != scope.StudentID {
			continue
		}
		if scope.CompanyID != "" && app.CompanyID != scope.CompanyID {
			continue
		}
		excluded := false
		for _, s := range scope.ExcludeStatuses {
			if app.Status == s {
				excluded = true
			}
		}
		if excluded {
			continue
		}
		cp := *app
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (r *fakeApplicationRepo) ApplyTransition(_ context.Context, app *domain.Application, t *domain.Transition) error {
	if r.conflictOnce {
		r.conflictOnce = false
		return domain.ErrConflict
	}
	stored, ok := r.apps[app.ID]
	if !ok || stored.Status != t.From {
		return domain.ErrConflict
	}
	t.Apply(stored)
	stored.Status = t.To
	stored.History = append(stored.History, t.Entry)
	t.Apply(app)
	app.Status = t.To
	app.History = append(app.History, t.Entry)
	return nil
}

func (r *fakeApplicationRepo) ExpireStale(_ context.Context, scope domain.Scope, now time.Time) ([]*domain.Application, error) {
	var swept []*domain.Application
	for _, app := range r.apps {
		if scope.StudentID != "" && app.StudentID != scope.StudentID {
			continue
		}
		if !app.IsExpired(now) {
			continue
		}
		t := domain.AutoWithdrawTransition(app, now)
		t.Apply(app)
		app.Status = t.To
		app.History = append(app.History, t.Entry)
		cp := *app
		swept = append(swept, &cp)
	}
	return swept, nil
}

func (r *fakeApplicationRepo) UpdatePDFKey(_ context.Context, id, key string) error {
	if app, ok := r.apps[id]; ok {
		app.PDFKey = key
	}
	return nil
}

func (r *fakeApplicationRepo) ListOfferExpiring(_ context.Context, before time.Time) ([]*domain.Application, error) {
	var out []*domain.Application
	for _, app := range r.apps {
		if app.Status != domain.StatusPendingAcceptance || app.Offer == nil || app.Offer.ValidUntil == nil {
			continue
		}
		if app.Offer.ValidUntil.Before(before) {
			cp := *app
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakePublisher struct {
	events []domain.Event
}

func (p *fakePublisher) Publish(_ context.Context, _ string, _ string, event any) error {
	p.events = append(p.events, event.(domain.Event))
	return nil
}

func (p *fakePublisher) PublishInTx(_ context.Context, _ any, _ string, _ string, event any) error {
	p.events = append(p.events, event.(domain.Event))
	return nil
}

func (p *fakePublisher) topics() []string {
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Topic)
	}
	return out
}

type fakeDirectory struct {
	jobs      map[string]*domain.JobInfo
	companies map[string]*domain.CompanyInfo
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		jobs: map[string]*domain.JobInfo{
			"job-1": {ID: "job-1", CompanyID: "com-1", Title: "Backend Intern", Open: true},
			"job-2": {ID: "job-2", CompanyID: "com-1", Title: "Closed Role", Open: false},
		},
		companies: map[string]*domain.CompanyInfo{
			"com-1": {ID: "com-1", OwnerUserID: "hr-1", Name: "Acme"},
		},
	}
}

func (d *fakeDirectory) GetJob(_ context.Context, jobID string) (*domain.JobInfo, error) {
	return d.jobs[jobID], nil
}

func (d *fakeDirectory) GetCompanyByOwner(_ context.Context, userID string) (*domain.CompanyInfo, error) {
	for _, c := range d.companies {
		if c.OwnerUserID == userID {
			return c, nil
		}
	}
	return nil, nil
}

func (d *fakeDirectory) GetCompanyByID(_ context.Context, id string) (*domain.CompanyInfo, error) {
	return d.companies[id], nil
}

type fakeReminderMarker struct {
	marked map[string]bool
}

func (m *fakeReminderMarker) MarkOnce(_ context.Context, applicationID string, _ time.Duration) (bool, error) {
	if m.marked == nil {
		m.marked = make(map[string]bool)
	}
	if m.marked[applicationID] {
		return false, nil
	}
	m.marked[applicationID] = true
	return true, nil
}

func newTestServices() (*fakeApplicationRepo, *fakePublisher, *fakeDirectory, *ApplicationCommandService, *ApplicationQueryService) {
	repo := newFakeApplicationRepo()
	pub := &fakePublisher{}
	dir := newFakeDirectory()
	sweeper := NewSweeper(repo, pub)
	cmd := NewApplicationCommandService(repo, dir, dir, pub, sweeper)
	query := NewApplicationQueryService(repo, dir, dir, sweeper)
	return repo, pub, dir, cmd, query
}

var (
	student = domain.Actor{UserID: "stu-1", Role: domain.RoleStudent}
	company = domain.Actor{UserID: "hr-1", Role: domain.RoleCompany}
)

func TestSubmit(t *testing.T) {
	repo, pub, _, cmd, _ := newTestServices()

	app, err := cmd.Submit(context.Background(), student, SubmitCommand{
		StudentID:          "stu-1",
		JobID:              "job-1",
		CandidateStatement: "hire me",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNew, app.Status)
	assert.Equal(t, "com-1", app.CompanyID)
	assert.WithinDuration(t, time.Now().Add(domain.DefaultValidityDays*24*time.Hour), app.ValidityUntil, time.Minute)

	stored, _ := repo.Get(context.Background(), app.ID)
	require.NotNil(t, stored)
	require.Len(t, stored.History, 1)
	assert.Equal(t, domain.ActionApply, stored.History[0].Action)

	assert.Equal(t, []string{domain.TopicSubmitted, domain.TopicPDFRequested}, pub.topics())
}

func TestSubmit_Rejections(t *testing.T) {
	_, _, _, cmd, _ := newTestServices()
	ctx := context.Background()

	_, err := cmd.Submit(ctx, company, SubmitCommand{JobID: "job-1"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = cmd.Submit(ctx, student, SubmitCommand{JobID: "job-2"})
	assert.ErrorIs(t, err, domain.ErrJobClosed)

	_, err = cmd.Submit(ctx, student, SubmitCommand{JobID: "job-missing"})
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestExecute_CompanyLifecycle(t *testing.T) {
	_, pub, _, cmd, _ := newTestServices()
	ctx := context.Background()

	app, err := cmd.Submit(ctx, student, SubmitCommand{JobID: "job-1"})
	require.NoError(t, err)

	app, err = cmd.Execute(ctx, app.ID, company, domain.ActionRequest{Action: domain.ActionShortlist})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShortlisted, app.Status)

	at := time.Now().Add(72 * time.Hour)
	app, err = cmd.Execute(ctx, app.ID, company, domain.ActionRequest{
		Action:      domain.ActionScheduleInterview,
		ScheduledAt: &at,
		Location:    "HQ",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInterviewScheduled, app.Status)
	require.NotNil(t, app.Interview)

	app, err = cmd.Execute(ctx, app.ID, company, domain.ActionRequest{Action: domain.ActionSendOffer, OfferTitle: "Intern"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingAcceptance, app.Status)

	app, err = cmd.Execute(ctx, app.ID, student, domain.ActionRequest{Action: domain.ActionAcceptOffer})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, app.Status)
	require.Len(t, app.History, 5)

	topics := pub.topics()
	assert.Contains(t, topics, domain.TopicShortlisted)
	assert.Contains(t, topics, domain.TopicInterviewScheduled)
	assert.Contains(t, topics, domain.TopicOfferSent)
	assert.Contains(t, topics, domain.TopicAccepted)
}

func TestExecute_RegeneratePDFAppendsHistory(t *testing.T) {
	repo, pub, _, cmd, _ := newTestServices()
	ctx := context.Background()

	app, err := cmd.Submit(ctx, student, SubmitCommand{JobID: "job-1"})
	require.NoError(t, err)

	app, err = cmd.Execute(ctx, app.ID, student, domain.ActionRequest{Action: domain.ActionRegeneratePDF})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNew, app.Status)

	stored, _ := repo.Get(ctx, app.ID)
	require.Len(t, stored.History, 2)
	last := stored.History[len(stored.History)-1]
	assert.Equal(t, domain.ActionRegeneratePDF, last.Action)
	assert.Equal(t, "stu-1", last.ActorID)
	assert.Equal(t, domain.RoleStudent, last.ActorRole)

	// 提交已发一条 pdf_requested，重建后共两条
	requested := 0
	for _, topic := range pub.topics() {
		if topic == domain.TopicPDFRequested {
			requested++
		}
	}
	assert.Equal(t, 2, requested)
}

func TestExecute_AccessChecks(t *testing.T) {
	_, _, dir, cmd, _ := newTestServices()
	ctx := context.Background()
	dir.companies["com-2"] = &domain.CompanyInfo{ID: "com-2", OwnerUserID: "hr-2", Name: "Rival"}

	app, err := cmd.Submit(ctx, student, SubmitCommand{JobID: "job-1"})
	require.NoError(t, err)

	// 其他企业不可操作
	_, err = cmd.Execute(ctx, app.ID, domain.Actor{UserID: "hr-2", Role: domain.RoleCompany}, domain.ActionRequest{Action: domain.ActionShortlist})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// 其他学生不可见
	_, err = cmd.Execute(ctx, app.ID, domain.Actor{UserID: "stu-2", Role: domain.RoleStudent}, domain.ActionRequest{Action: domain.ActionWithdraw})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// 学生撤回后，企业读取视同不存在
	_, err = cmd.Execute(ctx, app.ID, student, domain.ActionRequest{Action: domain.ActionWithdraw, Reason: "changed my mind"})
	require.NoError(t, err)
	_, err = cmd.Execute(ctx, app.ID, company, domain.ActionRequest{Action: domain.ActionShortlist})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExecute_SweepsExpiredBeforeAction(t *testing.T) {
	repo, _, _, cmd, _ := newTestServices()
	ctx := context.Background()

	app, err := cmd.Submit(ctx, student, SubmitCommand{JobID: "job-1"})
	require.NoError(t, err)
	repo.apps[app.ID].ValidityUntil = time.Now().Add(-time.Hour)

	_, err = cmd.Execute(ctx, app.ID, company, domain.ActionRequest{Action: domain.ActionShortlist})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	stored, _ := repo.Get(ctx, app.ID)
	assert.Equal(t, domain.StatusWithdrawn, stored.Status)
	assert.Equal(t, domain.AutoWithdrawReason, stored.WithdrawReason)
}

func TestExecute_ConflictSurfacesAsInvalidTransition(t *testing.T) {
	repo, _, _, cmd, _ := newTestServices()
	ctx := context.Background()

	app, err := cmd.Submit(ctx, student, SubmitCommand{JobID: "job-1"})
	require.NoError(t, err)

	repo.conflictOnce = true
	_, err = cmd.Execute(ctx, app.ID, company, domain.ActionRequest{Action: domain.ActionShortlist})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// 败者不落历史，赢者视角下状态仍为 NEW，可重试
	stored, _ := repo.Get(ctx, app.ID)
	assert.Equal(t, domain.StatusNew, stored.Status)
	assert.Len(t, stored.History, 1)
}

func TestGet_SweepIdempotent(t *testing.T) {
	repo, pub, _, cmd, query := newTestServices()
	ctx := context.Background()

	app, err := cmd.Submit(ctx, student, SubmitCommand{JobID: "job-1"})
	require.NoError(t, err)
	repo.apps[app.ID].ValidityUntil = time.Now().Add(-time.Hour)

	view, err := query.Get(ctx, app.ID, student)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusWithdrawn), view.Status)

	// 再次读取不重复撤回
	view, err = query.Get(ctx, app.ID, student)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusWithdrawn), view.Status)

	stored, _ := repo.Get(ctx, app.ID)
	autoWithdraws := 0
	for _, h := range stored.History {
		if h.Action == domain.ActionAutoWithdraw {
			autoWithdraws++
		}
	}
	assert.Equal(t, 1, autoWithdraws)

	withdrawnEvents := 0
	for _, topic := range pub.topics() {
		if topic == domain.TopicWithdrawn {
			withdrawnEvents++
		}
	}
	assert.Equal(t, 1, withdrawnEvents)
}

func TestList_CompanyScopeHidesWithdrawn(t *testing.T) {
	_, _, _, cmd, query := newTestServices()
	ctx := context.Background()

	app1, err := cmd.Submit(ctx, student, SubmitCommand{JobID: "job-1"})
	require.NoError(t, err)
	app2, err := cmd.Submit(ctx, domain.Actor{UserID: "stu-2", Role: domain.RoleStudent}, SubmitCommand{JobID: "job-1"})
	require.NoError(t, err)

	_, err = cmd.Execute(ctx, app1.ID, student, domain.ActionRequest{Action: domain.ActionWithdraw})
	require.NoError(t, err)

	views, total, err := query.List(ctx, company, domain.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, views, 1)
	assert.Equal(t, app2.ID, views[0].ID)
	assert.Equal(t, "Backend Intern", views[0].JobTitle)
	assert.Equal(t, "Acme", views[0].CompanyName)

	// 学生自己仍能看到已撤回的申请
	views, _, err = query.List(ctx, student, domain.ListFilter{})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, app1.ID, views[0].ID)
}

func TestScheduler_RemindExpiringOffers(t *testing.T) {
	repo, pub, _, cmd, _ := newTestServices()
	ctx := context.Background()

	app, err := cmd.Submit(ctx, student, SubmitCommand{JobID: "job-1"})
	require.NoError(t, err)
	_, err = cmd.Execute(ctx, app.ID, company, domain.ActionRequest{Action: domain.ActionShortlist})
	require.NoError(t, err)
	soon := time.Now().Add(6 * time.Hour)
	_, err = cmd.Execute(ctx, app.ID, company, domain.ActionRequest{Action: domain.ActionSendOffer, OfferValidUntil: &soon})
	require.NoError(t, err)

	marker := &fakeReminderMarker{}
	scheduler := NewScheduler(repo, pub, NewSweeper(repo, pub), marker)

	require.NoError(t, scheduler.RemindExpiringOffers(ctx))
	require.NoError(t, scheduler.RemindExpiringOffers(ctx))

	reminders := 0
	for _, topic := range pub.topics() {
		if topic == domain.TopicOfferExpiring {
			reminders++
		}
	}
	assert.Equal(t, 1, reminders)
}
