package domain

import (
	"context"
	"time"
)

// RepRepository 负责 sales_reps 表
type RepRepository interface {
	Insert(ctx context.Context, rep *SalesRep) error
	FindByID(ctx context.Context, id string) (*SalesRep, error)
	Update(ctx context.Context, rep *SalesRep) error
	// LockForUpdate 在当前事务内锁定该销售的行，用于串行化同一销售的计数类写操作
	LockForUpdate(ctx context.Context, id string) (*SalesRep, error)
}

// SignupRepository 负责 signups 表
type SignupRepository interface {
	Insert(ctx context.Context, s *Signup) error
	FindByID(ctx context.Context, id string) (*Signup, error)
	// UpdateStatus 仅当当前状态等于 from 时才更新，否则返回 ErrInvalidTransition
	UpdateStatus(ctx context.Context, s *Signup, from SignupStatus) error
	UpdateDeposit(ctx context.Context, id string, amount string) error
	// CountQualified platform 为 nil 时统计所有平台
	CountQualified(ctx context.Context, repID string, platform *Platform) (int64, error)
	// ListQualifiedInPeriod 按 signup_date 在 [start, end] 内过滤，按 signup_date, id 排序
	ListQualifiedInPeriod(ctx context.Context, start, end time.Time) ([]*Signup, error)
}

// CommissionRepository 负责 commissions 表，signup_id 唯一
type CommissionRepository interface {
	Insert(ctx context.Context, c *Commission) error
	FindBySignupID(ctx context.Context, signupID string) (*Commission, error)
	ListUnpaid(ctx context.Context, repID string) ([]*Commission, error)
	MarkPaid(ctx context.Context, ids []string, at time.Time) error
}

// BonusRepository 负责 bonuses 表，(rep_id, type, milestone) 唯一
type BonusRepository interface {
	// Insert 唯一键冲突时返回 ErrDuplicateMilestoneBonus
	Insert(ctx context.Context, b *Bonus) error
	FindMilestoneBonus(ctx context.Context, repID string, milestone int) (*Bonus, error)
	ListUnpaid(ctx context.Context, repID string) ([]*Bonus, error)
	MarkPaid(ctx context.Context, ids []string, at time.Time) error
}

// ContestRepository 负责 contests 表
type ContestRepository interface {
	Insert(ctx context.Context, c *Contest) error
	FindByID(ctx context.Context, id string) (*Contest, error)
}

// Store 汇总所有仓储，并提供事务边界。
// fn 收到的 Store 绑定在同一个事务上，fn 返回错误时整体回滚。
type Store interface {
	Reps() RepRepository
	Signups() SignupRepository
	Commissions() CommissionRepository
	Bonuses() BonusRepository
	Contests() ContestRepository
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
