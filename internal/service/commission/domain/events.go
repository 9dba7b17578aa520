package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// 发布到 commission-events 的事件类型
const (
	EventCommissionCreated = "commission.created"
	EventSignupRejected    = "signup.rejected"
	EventBonusAwarded      = "bonus.awarded"
	EventPayoutRecorded    = "payout.recorded"
)

// Event 是对外发布的事件信封，按 RepID 分区
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	RepID      string          `json:"rep_id"`
	SignupID   string          `json:"signup_id,omitempty"`
	BonusID    string          `json:"bonus_id,omitempty"`
	Platform   Platform        `json:"platform,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	IsFirst    bool            `json:"is_first_signup,omitempty"`
	Milestone  *int            `json:"milestone,omitempty"`
	Reason     string          `json:"reason,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// PlatformActivityEvent 是合作平台回传的客户活动
type PlatformActivityEvent struct {
	EventID       string   `json:"event_id"`
	SignupID      string   `json:"signup_id"`
	Platform      Platform `json:"platform"`
	DepositAmount string   `json:"deposit_amount"`
	Verified      bool     `json:"verified"`
	DaysActive    int64    `json:"days_active"`
}
