package domain

import (
	"context"
	"time"
)

// ReminderMarker 提醒去重标记
// 同一申请在 ttl 窗口内只允许标记成功一次
type ReminderMarker interface {
	MarkOnce(ctx context.Context, applicationID string, ttl time.Duration) (bool, error)
}
