// internal/zookeeper/lock.go
package zookeeper

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-zookeeper/zk"
)

const (
	lockRoot   = "/distributed_locks" // 所有分布式锁的根节点
	nodePrefix = "lock-"
)

var ErrNotLocked = errors.New("zookeeper: lock not held")

// DistributedLock 定义了一个分布式锁对象
type DistributedLock struct {
	conn     *Conn
	path     string // 锁的路径，例如 /distributed_locks/rep-123
	lockNode string // 成功获取锁后，自己创建的节点路径
}

// NewDistributedLock 创建一个新的分布式锁实例，并确保父节点存在。
func NewDistributedLock(conn *Conn, resourceID string) (*DistributedLock, error) {
	lockPath := lockRoot + "/" + resourceID
	for _, p := range []string{lockRoot, lockPath} {
		if err := ensureNode(conn, p); err != nil {
			return nil, err
		}
	}
	return &DistributedLock{conn: conn, path: lockPath}, nil
}

func ensureNode(conn *Conn, path string) error {
	exists, _, err := conn.Exists(path)
	if err != nil {
		return fmt.Errorf("check node %s: %w", path, err)
	}
	if exists {
		return nil
	}
	_, err = conn.Create(path, nil, 0, zk.WorldACL(zk.PermAll))
	if err != nil && !errors.Is(err, zk.ErrNodeExists) {
		return fmt.Errorf("create node %s: %w", path, err)
	}
	return nil
}

// Lock 获取锁，拿不到时阻塞，直到 ctx 结束。
func (l *DistributedLock) Lock(ctx context.Context) error {
	nodePath, err := l.conn.CreateProtectedEphemeralSequential(l.path+"/"+nodePrefix, nil, zk.WorldACL(zk.PermAll))
	if err != nil {
		return fmt.Errorf("failed to create sequential node: %w", err)
	}
	l.lockNode = nodePath
	myNode := strings.TrimPrefix(nodePath, l.path+"/")

	for {
		children, _, err := l.conn.Children(l.path)
		if err != nil {
			l.release()
			return fmt.Errorf("failed to get children nodes: %w", err)
		}
		sortBySequence(children)

		idx := indexOf(children, myNode)
		if idx < 0 {
			l.lockNode = ""
			return errors.New("lock node vanished, session probably expired")
		}
		if idx == 0 {
			return nil
		}

		// 只监听前一个节点，避免羊群效应
		exists, _, eventCh, err := l.conn.ExistsW(l.path + "/" + children[idx-1])
		if err != nil {
			l.release()
			return fmt.Errorf("failed to watch previous node: %w", err)
		}
		if !exists {
			continue
		}

		select {
		case <-eventCh:
		case <-ctx.Done():
			l.release()
			return ctx.Err()
		}
	}
}

// Unlock 释放锁
func (l *DistributedLock) Unlock() error {
	if l.lockNode == "" {
		return ErrNotLocked
	}
	return l.release()
}

func (l *DistributedLock) release() error {
	err := l.conn.Delete(l.lockNode, -1)
	l.lockNode = ""
	if err != nil && !errors.Is(err, zk.ErrNoNode) {
		return fmt.Errorf("failed to delete lock node: %w", err)
	}
	return nil
}

// sortBySequence 按 10 位顺序号排序。protected 节点带有 "_c_<guid>-" 前缀，不能直接按名字排。
func sortBySequence(children []string) {
	sort.Slice(children, func(i, j int) bool {
		return sequenceOf(children[i]) < sequenceOf(children[j])
	})
}

func sequenceOf(node string) string {
	if len(node) < 10 {
		return node
	}
	return node[len(node)-10:]
}

func indexOf(children []string, node string) int {
	for i, c := range children {
		if c == node {
			return i
		}
	}
	return -1
}
