package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BonusType 是奖金的分类标签
type BonusType string

const (
	BonusMilestone   BonusType = "milestone"
	BonusContest     BonusType = "contest"
	BonusFirstSignup BonusType = "first_signup"
)

func ParseBonusType(s string) (BonusType, error) {
	switch t := BonusType(strings.ToLower(strings.TrimSpace(s))); t {
	case BonusMilestone, BonusContest, BonusFirstSignup:
		return t, nil
	}
	return "", InvalidInputf("bonus type %q is invalid", s)
}

// Bonus 不绑定具体 signup 的奖励。
// Milestone 只在门槛奖金上设置，(rep_id, type, milestone) 唯一。
type Bonus struct {
	ID          string          `json:"id"`
	RepID       string          `json:"rep_id"`
	Type        BonusType       `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Milestone   *int            `json:"milestone,omitempty"`
	ContestID   *string         `json:"contest_id,omitempty"`
	AwardedBy   string          `json:"awarded_by"`
	CreatedAt   time.Time       `json:"created_at"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
}

func (b *Bonus) Paid() bool { return b.PaidAt != nil }
