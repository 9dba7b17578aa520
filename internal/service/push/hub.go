// Package push 把 commission-events 上的事件通过 websocket 推送给后台看板。
package push

import (
	"context"
	"sync"

	"affiliatehub/internal/pkg/logger"
	"affiliatehub/internal/service/commission/domain"
)

// Hub 维护所有活跃的连接。同一个用户可以同时打开多个看板。
type Hub struct {
	clients    map[string]map[*Client]struct{} // 使用 UserID 作为 Key
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	lock       sync.RWMutex
	metrics    *Metrics
}

func NewHub(metrics *Metrics) *Hub {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		metrics:    metrics,
	}
}

// Run 处理注册和注销，ctx 结束时关闭所有连接的发送队列
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.lock.Lock()
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
			h.lock.Unlock()
			h.metrics.Connections.Inc()
			logger.L().Debug().Str("user_id", client.userID).Str("role", client.role).Msg("client registered")
		case client := <-h.unregister:
			h.remove(client)
		case <-ctx.Done():
			h.lock.Lock()
			for userID, set := range h.clients {
				for c := range set {
					close(c.send)
					h.metrics.Connections.Dec()
				}
				delete(h.clients, userID)
			}
			h.lock.Unlock()
			return
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.lock.Lock()
	defer h.lock.Unlock()
	set, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	if len(set) == 0 {
		delete(h.clients, client.userID)
	}
	close(client.send)
	h.metrics.Connections.Dec()
	logger.L().Debug().Str("user_id", client.userID).Msg("client unregistered")
}

// Register 把连接交给 hub，hub 已停止时返回 false
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Deliver 把事件发给 repID 本人以及所有管理类角色的连接，返回投递成功的连接数。
// 发送队列已满的连接会被断开。
func (h *Hub) Deliver(repID string, payload []byte) int {
	var delivered int
	var slow []*Client

	h.lock.RLock()
	for userID, set := range h.clients {
		for c := range set {
			if userID != repID && !c.privileged() {
				continue
			}
			select {
			case c.send <- payload:
				delivered++
			default:
				slow = append(slow, c)
			}
		}
	}
	h.lock.RUnlock()

	h.metrics.Delivered.Add(float64(delivered))
	for _, c := range slow {
		h.metrics.Dropped.Inc()
		logger.L().Warn().Str("user_id", c.userID).Msg("send buffer full, dropping client")
		h.Unregister(c)
	}
	return delivered
}

// connections 返回某个用户当前的连接数
func (h *Hub) connections(userID string) int {
	h.lock.RLock()
	defer h.lock.RUnlock()
	return len(h.clients[userID])
}

// privilegedRole 可以看到所有销售的事件
func privilegedRole(role string) bool {
	switch domain.Role(role) {
	case domain.RoleAdmin, domain.RoleFinance, domain.RoleManager:
		return true
	}
	return false
}
