package application

import (
	"context"
	"errors"
	"time"

	"github.com/wyfcoding/pkg/contextx"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/recruitment/internal/jobapplication/domain"
)

// Sweeper 过期扫描器
// 在读路径上把有效期已过的 NEW 申请自动转为 WITHDRAWN
type Sweeper struct {
	repo      domain.ApplicationRepository
	publisher domain.EventPublisher
}

// NewSweeper 创建过期扫描器
func NewSweeper(repo domain.ApplicationRepository, publisher domain.EventPublisher) *Sweeper {
	return &Sweeper{repo: repo, publisher: publisher}
}

// SweepOne 单条扫描：过期则自动撤回并返回更新后的申请
// 并发丢失条件更新时读取最新状态返回，不重复追加历史
func (s *Sweeper) SweepOne(ctx context.Context, app *domain.Application) (*domain.Application, error) {
	now := time.Now()
	if app == nil || !app.IsExpired(now) {
		return app, nil
	}

	t := domain.AutoWithdrawTransition(app, now)
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.ApplyTransition(txCtx, app, t); err != nil {
			return err
		}
		for _, ev := range t.Events {
			if err := s.publisher.PublishInTx(ctx, contextx.GetTx(txCtx), ev.Topic, app.ID, ev); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, domain.ErrConflict) {
		return s.repo.Get(ctx, app.ID)
	}
	if err != nil {
		return nil, err
	}
	return app, nil
}

// SweepScope 批量扫描：按访问范围自动撤回所有过期的 NEW 申请
func (s *Sweeper) SweepScope(ctx context.Context, scope domain.Scope) error {
	now := time.Now()
	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		swept, err := s.repo.ExpireStale(txCtx, scope, now)
		if err != nil {
			return err
		}
		for _, app := range swept {
			ev := domain.AutoWithdrawTransition(app, now).Events[0]
			if err := s.publisher.PublishInTx(ctx, contextx.GetTx(txCtx), ev.Topic, app.ID, ev); err != nil {
				logging.Warn(ctx, "failed to publish auto withdraw event", "application_id", app.ID, "error", err)
			}
		}
		return nil
	})
}
