package lock

import (
	"context"
	"hash/fnv"
)

const stripes = 64

// LocalRepLocker 是单实例部署时的进程内互斥，按 rep_id 哈希到固定数量的槽位。
type LocalRepLocker struct {
	slots [stripes]chan struct{}
}

func NewLocalRepLocker() *LocalRepLocker {
	l := &LocalRepLocker{}
	for i := range l.slots {
		l.slots[i] = make(chan struct{}, 1)
	}
	return l
}

func (l *LocalRepLocker) LockRep(ctx context.Context, repID string) (func(), error) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(repID))
	slot := l.slots[h.Sum32()%stripes]

	select {
	case slot <- struct{}{}:
		return func() { <-slot }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
