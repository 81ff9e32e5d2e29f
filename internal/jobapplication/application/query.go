package application

import (
	"context"

	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/recruitment/internal/jobapplication/domain"
)

// ApplicationQueryService 申请查询服务
// 所有读路径先执行过期扫描，再做访问检查
type ApplicationQueryService struct {
	repo      domain.ApplicationRepository
	jobs      domain.JobDirectory
	companies domain.CompanyDirectory
	sweeper   *Sweeper
}

// NewApplicationQueryService 创建申请查询服务实例
func NewApplicationQueryService(
	repo domain.ApplicationRepository,
	jobs domain.JobDirectory,
	companies domain.CompanyDirectory,
	sweeper *Sweeper,
) *ApplicationQueryService {
	return &ApplicationQueryService{
		repo:      repo,
		jobs:      jobs,
		companies: companies,
		sweeper:   sweeper,
	}
}

// Get 获取单条申请
func (s *ApplicationQueryService) Get(ctx context.Context, id string, actor domain.Actor) (*ApplicationView, error) {
	companyID, err := s.resolveCompanyID(ctx, actor)
	if err != nil {
		return nil, err
	}

	app, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, domain.ErrNotFound
	}

	app, err = s.sweeper.SweepOne(ctx, app)
	if err != nil {
		return nil, err
	}

	if err := domain.Authorize(app, actor, companyID); err != nil {
		return nil, err
	}
	return s.toView(ctx, app), nil
}

// List 按调用者可见范围列出申请
func (s *ApplicationQueryService) List(ctx context.Context, actor domain.Actor, filter domain.ListFilter) ([]*ApplicationView, int64, error) {
	companyID, err := s.resolveCompanyID(ctx, actor)
	if err != nil {
		return nil, 0, err
	}
	scope := domain.ScopeFor(actor, companyID)

	if err := s.sweeper.SweepScope(ctx, scope); err != nil {
		logging.Warn(ctx, "expiry sweep failed", "error", err)
	}

	apps, total, err := s.repo.List(ctx, scope, filter)
	if err != nil {
		return nil, 0, err
	}
	views := make([]*ApplicationView, 0, len(apps))
	for _, app := range apps {
		views = append(views, s.toView(ctx, app))
	}
	return views, total, nil
}

// toView 补充职位名称与企业名称，查询失败时留空不报错
func (s *ApplicationQueryService) toView(ctx context.Context, app *domain.Application) *ApplicationView {
	view := NewApplicationView(app)
	if job, err := s.jobs.GetJob(ctx, app.JobID); err == nil && job != nil {
		view.JobTitle = job.Title
	}
	if company, err := s.companies.GetCompanyByID(ctx, app.CompanyID); err == nil && company != nil {
		view.CompanyName = company.Name
	}
	return view
}

func (s *ApplicationQueryService) resolveCompanyID(ctx context.Context, actor domain.Actor) (string, error) {
	if actor.Role != domain.RoleCompany {
		return "", nil
	}
	company, err := s.companies.GetCompanyByOwner(ctx, actor.UserID)
	if err != nil {
		return "", err
	}
	if company == nil {
		return "", domain.ErrCompanyNotFound
	}
	return company.ID, nil
}
