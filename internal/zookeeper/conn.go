package zookeeper

import (
	"fmt"
	"time"

	"github.com/go-zookeeper/zk"

	"affiliatehub/internal/pkg/logger"
)

// Conn 是 zk.Conn 的别名，方便上层只依赖本包
type Conn = zk.Conn

// Connect 建立 ZooKeeper 会话并等待连接建立。
func Connect(servers []string, sessionTimeout time.Duration) (*Conn, error) {
	conn, events, err := zk.Connect(servers, sessionTimeout, zk.WithLogInfo(false))
	if err != nil {
		return nil, fmt.Errorf("connect zookeeper %v: %w", servers, err)
	}

	deadline := time.After(sessionTimeout)
	for {
		select {
		case ev := <-events:
			if ev.State == zk.StateHasSession {
				logger.L().Info().Strs("servers", servers).Msg("Connected to ZooKeeper.")
				return conn, nil
			}
		case <-deadline:
			conn.Close()
			return nil, fmt.Errorf("zookeeper session not established within %s", sessionTimeout)
		}
	}
}
