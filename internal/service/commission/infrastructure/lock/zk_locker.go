package lock

import (
	"context"

	"affiliatehub/internal/pkg/logger"
	"affiliatehub/internal/zookeeper"
)

// ZKRepLocker 用 zookeeper 顺序临时节点实现跨实例的销售级互斥
type ZKRepLocker struct {
	conn *zookeeper.Conn
}

func NewZKRepLocker(conn *zookeeper.Conn) *ZKRepLocker {
	return &ZKRepLocker{conn: conn}
}

func (l *ZKRepLocker) LockRep(ctx context.Context, repID string) (func(), error) {
	dl, err := zookeeper.NewDistributedLock(l.conn, "rep-"+repID)
	if err != nil {
		return nil, err
	}
	if err := dl.Lock(ctx); err != nil {
		return nil, err
	}
	return func() {
		if err := dl.Unlock(); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("rep_id", repID).Msg("failed to release rep lock")
		}
	}, nil
}
