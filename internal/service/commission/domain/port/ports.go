package port

import (
	"context"

	"affiliatehub/internal/service/commission/domain"
)

// Authorizer 判断调用方是否为管理员
type Authorizer interface {
	IsAdmin(ctx context.Context, callerID string) (bool, error)
}

// RepLocker 跨实例串行化同一销售的写操作，返回的 unlock 必须被调用
type RepLocker interface {
	LockRep(ctx context.Context, repID string) (unlock func(), err error)
}

// EventPublisher 发布领域事件
type EventPublisher interface {
	Publish(ctx context.Context, evt domain.Event) error
}

// LeaderboardCache 缓存竞赛排行榜。
// Get 未命中时 lb 为 nil，同时返回当前版本号；Set 只在版本号未变化时写入。
// Invalidate 递增版本号，让所有旧的排行榜失效。
type LeaderboardCache interface {
	Get(ctx context.Context, contestID string) (lb *domain.Leaderboard, version int64, err error)
	Set(ctx context.Context, contestID string, version int64, lb *domain.Leaderboard) error
	Invalidate(ctx context.Context) error
}

// QualificationRuleEngine 判断平台活动是否满足 qualify 条件
type QualificationRuleEngine interface {
	Evaluate(ctx context.Context, evt domain.PlatformActivityEvent) (bool, error)
}
