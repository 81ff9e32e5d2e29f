package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wyfcoding/recruitment/internal/jobapplication/domain"
)

type reminderRedisRepository struct {
	client redis.UniversalClient
	prefix string
}

// NewReminderRedisRepository 创建提醒去重仓储实例
func NewReminderRedisRepository(client redis.UniversalClient) domain.ReminderMarker {
	return &reminderRedisRepository{
		client: client,
		prefix: "jobapplication:offer-reminder:",
	}
}

// MarkOnce SETNX 去重，窗口内第二次标记返回 false
func (r *reminderRedisRepository) MarkOnce(ctx context.Context, applicationID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("%s%s", r.prefix, applicationID)
	return r.client.SetNX(ctx, key, 1, ttl).Result()
}
