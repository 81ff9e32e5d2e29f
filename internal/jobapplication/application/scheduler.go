package application

import (
	"context"
	"time"

	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/recruitment/internal/jobapplication/domain"
)

// Scheduler 后台定时任务
// 读路径的被动扫描仍是正确性保障，这里为无人访问的记录兜底
type Scheduler struct {
	repo      domain.ApplicationRepository
	publisher domain.EventPublisher
	sweeper   *Sweeper
	reminders domain.ReminderMarker
}

// NewScheduler 创建定时任务实例
func NewScheduler(repo domain.ApplicationRepository, publisher domain.EventPublisher, sweeper *Sweeper, reminders domain.ReminderMarker) *Scheduler {
	return &Scheduler{repo: repo, publisher: publisher, sweeper: sweeper, reminders: reminders}
}

// SweepExpired 全量扫描过期的 NEW 申请
func (s *Scheduler) SweepExpired(ctx context.Context) error {
	return s.sweeper.SweepScope(ctx, domain.Scope{})
}

// RemindExpiringOffers 对 24 小时内到期的录用发临期提醒
// 每个申请每天最多提醒一次
func (s *Scheduler) RemindExpiringOffers(ctx context.Context) error {
	now := time.Now()
	apps, err := s.repo.ListOfferExpiring(ctx, now.Add(24*time.Hour))
	if err != nil {
		return err
	}
	for _, app := range apps {
		if app.Offer != nil && app.Offer.ValidUntil != nil && app.Offer.ValidUntil.Before(now) {
			continue
		}
		first, err := s.reminders.MarkOnce(ctx, app.ID, 24*time.Hour)
		if err != nil {
			logging.Warn(ctx, "offer reminder dedupe failed", "application_id", app.ID, "error", err)
			continue
		}
		if !first {
			continue
		}
		ev := domain.OfferExpiringEvent(app, now)
		if err := s.publisher.Publish(ctx, ev.Topic, app.ID, ev); err != nil {
			logging.Warn(ctx, "failed to publish offer expiring event", "application_id", app.ID, "error", err)
		}
	}
	return nil
}
