// internal/pkg/redis/client.go
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Client 封装 go-redis，并管理业务方注册的 Lua 脚本。
type Client struct {
	rdb     goredis.UniversalClient
	scripts map[string]*goredis.Script
	mu      sync.RWMutex
}

// Options 是建立连接所需的最小配置
type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewClient 建立连接并 Ping 一次，失败直接返回错误。
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     20,
		MinIdleConns: 2,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return Wrap(rdb), nil
}

// Wrap 用已有的 go-redis 客户端构造 Client
func Wrap(rdb goredis.UniversalClient) *Client {
	return &Client{rdb: rdb, scripts: make(map[string]*goredis.Script)}
}

// LoadScriptFromContent 注册一段 Lua 脚本。
func (c *Client) LoadScriptFromContent(name, src string) error {
	if src == "" {
		return fmt.Errorf("script %q is empty", name)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scripts[name] = goredis.NewScript(src)
	return nil
}

// RunScript 通过 EVALSHA 执行脚本，脚本未缓存时自动回退到 EVAL。
func (c *Client) RunScript(ctx context.Context, name string, keys []string, args ...interface{}) (interface{}, error) {
	c.mu.RLock()
	script, ok := c.scripts[name]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("script %q not loaded", name)
	}
	return script.Run(ctx, c.rdb, keys, args...).Result()
}

// GetJSON 读取并反序列化，key 不存在时返回 (false, nil)。
func (c *Client) GetJSON(ctx context.Context, key string, dst interface{}) (bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// GetInt64 读取整数，key 不存在时返回 0。
func (c *Client) GetInt64(ctx context.Context, key string) (int64, error) {
	n, err := c.rdb.Get(ctx, key).Int64()
	if err == goredis.Nil {
		return 0, nil
	}
	return n, err
}

func (c *Client) Incr(ctx context.Context, key string) (int64, error) {
	return c.rdb.Incr(ctx, key).Result()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
