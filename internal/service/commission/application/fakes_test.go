package application_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"affiliatehub/internal/service/commission/domain"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (p *fakePublisher) Publish(_ context.Context, evt domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// fakeCache 模拟带版本号的排行榜缓存
type fakeCache struct {
	mu      sync.Mutex
	version int64
	entries map[string]*domain.Leaderboard
	hits    int
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*domain.Leaderboard)}
}

func (c *fakeCache) key(contestID string, version int64) string {
	return fmt.Sprintf("%s#%d", contestID, version)
}

func (c *fakeCache) Get(_ context.Context, contestID string) (*domain.Leaderboard, int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	lb, ok := c.entries[c.key(contestID, c.version)]
	if ok {
		c.hits++
		return lb, c.version, nil
	}
	return nil, c.version, nil
}

func (c *fakeCache) Set(_ context.Context, contestID string, version int64, lb *domain.Leaderboard) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if version != c.version {
		return nil
	}
	c.sets++
	c.entries[c.key(contestID, version)] = lb
	return nil
}

func (c *fakeCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.version++
	return nil
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) (*domain.Leaderboard, int64, error) {
	return nil, 0, errors.New("connection refused")
}
func (brokenCache) Set(context.Context, string, int64, *domain.Leaderboard) error {
	return errors.New("connection refused")
}
func (brokenCache) Invalidate(context.Context) error { return errors.New("connection refused") }

// blindBonusStore 让重复检查永远查不到记录，用来验证唯一索引兜底
type blindBonusStore struct {
	domain.Store
}

func (s blindBonusStore) Bonuses() domain.BonusRepository {
	return blindBonuses{s.Store.Bonuses()}
}

func (s blindBonusStore) Transaction(ctx context.Context, fn func(tx domain.Store) error) error {
	return s.Store.Transaction(ctx, func(tx domain.Store) error {
		return fn(blindBonusStore{tx})
	})
}

type blindBonuses struct {
	domain.BonusRepository
}

func (blindBonuses) FindMilestoneBonus(context.Context, string, int) (*domain.Bonus, error) {
	return nil, domain.ErrNotFound
}
