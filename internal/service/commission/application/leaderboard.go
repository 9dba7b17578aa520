package application

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"affiliatehub/internal/pkg/logger"
	"affiliatehub/internal/service/commission/domain"
)

// ContestLeaderboard 返回竞赛排行榜。
// 先查缓存；未命中时同一竞赛同一版本只计算一次，结果按读取时的版本写回缓存。
// 缓存故障不影响结果，只退化为直接计算。
func (s *CommissionService) ContestLeaderboard(ctx context.Context, contestID string) (*domain.Leaderboard, error) {
	ctx, span := s.tracer.Start(ctx, "service.ContestLeaderboard")
	defer span.End()
	span.SetAttributes(attribute.String("contest.id", contestID))

	var version int64
	if s.cache != nil {
		lb, v, err := s.cache.Get(ctx, contestID)
		switch {
		case err != nil:
			s.metrics.LeaderboardCache.WithLabelValues("error").Inc()
			logger.Ctx(ctx).Warn().Err(err).Str("contest_id", contestID).Msg("leaderboard cache read failed")
		case lb != nil:
			s.metrics.LeaderboardCache.WithLabelValues("hit").Inc()
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return lb, nil
		default:
			s.metrics.LeaderboardCache.WithLabelValues("miss").Inc()
			version = v
		}
	}

	key := fmt.Sprintf("%s:%d", contestID, version)
	// 结果由所有等待者共享，不能因为第一个调用方取消而失败
	flightCtx := context.WithoutCancel(ctx)
	v, err, shared := s.flight.Do(key, func() (interface{}, error) {
		return s.computeLeaderboard(flightCtx, contestID, version)
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Bool("singleflight.shared", shared))
	return v.(*domain.Leaderboard), nil
}

func (s *CommissionService) computeLeaderboard(ctx context.Context, contestID string, version int64) (*domain.Leaderboard, error) {
	contest, err := s.store.Contests().FindByID(ctx, contestID)
	if err != nil {
		return nil, err
	}
	signups, err := s.store.Signups().ListQualifiedInPeriod(ctx, contest.StartDate, contest.EndDate)
	if err != nil {
		return nil, err
	}
	lb := domain.ComputeContestLeaderboard(contest, signups)
	lb.GeneratedAt = s.now()

	if s.cache != nil {
		if err := s.cache.Set(ctx, contestID, version, lb); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("contest_id", contestID).Msg("leaderboard cache write failed")
		}
	}
	logger.Ctx(ctx).Debug().Str("contest_id", contestID).Int("participants", lb.TotalParticipants).Msg("leaderboard computed")
	return lb, nil
}
