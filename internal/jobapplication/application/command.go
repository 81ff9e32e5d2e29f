package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wyfcoding/pkg/contextx"
	"github.com/wyfcoding/pkg/idgen"
	"github.com/wyfcoding/recruitment/internal/jobapplication/domain"
)

// SubmitCommand 提交申请命令
type SubmitCommand struct {
	StudentID          string
	JobID              string
	CandidateStatement string
	Form               map[string]any
	Attachments        []string
	// 可选的有效期，缺省为提交时间加默认天数
	ValidityUntil *time.Time
}

// ApplicationCommandService 申请命令服务
type ApplicationCommandService struct {
	repo      domain.ApplicationRepository
	jobs      domain.JobDirectory
	companies domain.CompanyDirectory
	publisher domain.EventPublisher
	sweeper   *Sweeper
}

// NewApplicationCommandService 创建申请命令服务实例
func NewApplicationCommandService(
	repo domain.ApplicationRepository,
	jobs domain.JobDirectory,
	companies domain.CompanyDirectory,
	publisher domain.EventPublisher,
	sweeper *Sweeper,
) *ApplicationCommandService {
	return &ApplicationCommandService{
		repo:      repo,
		jobs:      jobs,
		companies: companies,
		publisher: publisher,
		sweeper:   sweeper,
	}
}

// Submit 处理申请提交
// 仅限学生角色；企业与项目周期取自职位，不信任调用方输入
func (s *ApplicationCommandService) Submit(ctx context.Context, actor domain.Actor, cmd SubmitCommand) (*domain.Application, error) {
	if actor.Role != domain.RoleStudent {
		return nil, fmt.Errorf("%w: only students can apply", domain.ErrForbidden)
	}

	job, err := s.jobs.GetJob(ctx, cmd.JobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, domain.ErrJobNotFound
	}
	if !job.Open {
		return nil, domain.ErrJobClosed
	}

	now := time.Now()
	var validity time.Time
	if cmd.ValidityUntil != nil {
		validity = *cmd.ValidityUntil
	}

	app := domain.NewApplication(
		fmt.Sprintf("APP-%d", idgen.GenID()),
		actor.UserID,
		job.CompanyID,
		job.ID,
		cmd.CandidateStatement,
		cmd.Form,
		cmd.Attachments,
		validity,
		now,
	)

	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, app); err != nil {
			return err
		}
		tx := contextx.GetTx(txCtx)
		submitted := domain.SubmittedEvent(app, now)
		if err := s.publisher.PublishInTx(ctx, tx, submitted.Topic, app.ID, submitted); err != nil {
			return err
		}
		pdfReq := domain.PDFRequestedEvent(app, actor, now)
		return s.publisher.PublishInTx(ctx, tx, pdfReq.Topic, app.ID, pdfReq)
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

// Execute 处理申请上的一个生命周期动作
// 无动作的 patch 视为透传，仅做访问检查后返回当前申请
func (s *ApplicationCommandService) Execute(ctx context.Context, id string, actor domain.Actor, req domain.ActionRequest) (*domain.Application, error) {
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

	// 写路径同样先清理过期申请，避免对已过期的 NEW 执行动作
	app, err = s.sweeper.SweepOne(ctx, app)
	if err != nil {
		return nil, err
	}

	if err := domain.Authorize(app, actor, companyID); err != nil {
		return nil, err
	}

	if req.Action == "" {
		return app, nil
	}

	now := time.Now()
	var t *domain.Transition
	if req.Action == domain.ActionRegeneratePDF {
		// 重建摘要不改状态，但同样走条件提交：历史条目与事件同事务落库
		t = domain.RegeneratePDFTransition(app, actor, now)
	} else {
		t, err = domain.Decide(app, actor, req, now)
		if err != nil {
			return nil, err
		}
	}

	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.ApplyTransition(txCtx, app, t); err != nil {
			return err
		}
		tx := contextx.GetTx(txCtx)
		for _, ev := range t.Events {
			if err := s.publisher.PublishInTx(ctx, tx, ev.Topic, app.ID, ev); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, domain.ErrConflict) {
		// 竞争失败：按提交后的最新状态重新解释为非法转换
		latest, getErr := s.repo.Get(ctx, id)
		if getErr == nil && latest != nil {
			return nil, fmt.Errorf("%w: %s not allowed from %s", domain.ErrInvalidTransition, req.Action, latest.Status)
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidTransition, req.Action)
	}
	if err != nil {
		return nil, err
	}
	return app, nil
}

func (s *ApplicationCommandService) resolveCompanyID(ctx context.Context, actor domain.Actor) (string, error) {
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
