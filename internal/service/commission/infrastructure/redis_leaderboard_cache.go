package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"

	"affiliatehub/internal/pkg/redis"
	"affiliatehub/internal/service/commission/domain"
)

const (
	leaderboardVersionKey = "{leaderboard}:version"
	leaderboardSetScript  = "leaderboard_set_if_version"
)

// 只有版本号与计算开始时一致才写入，避免把过期的排行榜写到新版本下
const setIfVersionLua = `
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
if current ~= tonumber(ARGV[1]) then
  return 0
end
redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
return 1
`

// RedisLeaderboardCache 是 port.LeaderboardCache 的 redis 实现。
// 缓存 key 带全局版本号，signup 被 qualify 时递增版本号即可让所有排行榜失效。
type RedisLeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLeaderboardCache(client *redis.Client, ttl time.Duration) (*RedisLeaderboardCache, error) {
	if err := client.LoadScriptFromContent(leaderboardSetScript, setIfVersionLua); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisLeaderboardCache{client: client, ttl: ttl}, nil
}

func leaderboardKey(contestID string, version int64) string {
	return fmt.Sprintf("{leaderboard}:%s:v%d", contestID, version)
}

func (c *RedisLeaderboardCache) Get(ctx context.Context, contestID string) (*domain.Leaderboard, int64, error) {
	version, err := c.client.GetInt64(ctx, leaderboardVersionKey)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(err, "read leaderboard version")
	}
	var lb domain.Leaderboard
	found, err := c.client.GetJSON(ctx, leaderboardKey(contestID, version), &lb)
	if err != nil {
		return nil, version, pkgerrors.Wrap(err, "read leaderboard")
	}
	if !found {
		return nil, version, nil
	}
	return &lb, version, nil
}

func (c *RedisLeaderboardCache) Set(ctx context.Context, contestID string, version int64, lb *domain.Leaderboard) error {
	raw, err := json.Marshal(lb)
	if err != nil {
		return err
	}
	_, err = c.client.RunScript(ctx, leaderboardSetScript,
		[]string{leaderboardVersionKey, leaderboardKey(contestID, version)},
		version, raw, c.ttl.Milliseconds())
	return pkgerrors.Wrap(err, "write leaderboard")
}

func (c *RedisLeaderboardCache) Invalidate(ctx context.Context) error {
	_, err := c.client.Incr(ctx, leaderboardVersionKey)
	return pkgerrors.Wrap(err, "bump leaderboard version")
}
