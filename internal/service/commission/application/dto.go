package application

import (
	"time"

	"github.com/shopspring/decimal"

	"affiliatehub/internal/service/commission/domain"
)

// CreateRepRequest 是创建后台用户的请求体
type CreateRepRequest struct {
	Name     string     `json:"name" validate:"required,max=128"`
	Email    string     `json:"email" validate:"required,email,max=191"`
	Role     string     `json:"role" validate:"required,oneof=sales_rep admin finance manager"`
	HireDate *time.Time `json:"hire_date"`
}

// RecordSignupRequest 是登记 signup 的请求体。平台的合法性由规则引擎判断。
type RecordSignupRequest struct {
	RepID         string     `json:"rep_id" validate:"required,max=36"`
	Platform      string     `json:"platform" validate:"required"`
	CustomerName  string     `json:"customer_name" validate:"required,max=128"`
	CustomerEmail string     `json:"customer_email" validate:"omitempty,email,max=191"`
	SignupDate    *time.Time `json:"signup_date"`
}

type RejectSignupRequest struct {
	Reason string `json:"reason" validate:"max=255"`
}

type AwardMilestoneBonusRequest struct {
	RepID     string `json:"rep_id" validate:"required,max=36"`
	Milestone int    `json:"milestone"`
}

// AwardCustomBonusRequest 是管理员手动发奖的请求体，金额和描述由领域层校验
type AwardCustomBonusRequest struct {
	RepID       string          `json:"rep_id" validate:"required,max=36"`
	Type        string          `json:"type" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" validate:"max=255"`
	ContestID   *string         `json:"contest_id" validate:"omitempty,max=36"`
}

type CreateContestRequest struct {
	Name             string          `json:"name" validate:"required,max=128"`
	StartDate        time.Time       `json:"start_date" validate:"required"`
	EndDate          time.Time       `json:"end_date" validate:"required"`
	PrizeDescription string          `json:"prize_description" validate:"max=255"`
	PrizeValue       decimal.Decimal `json:"prize_value"`
}

// QualifyResult 是 qualify 成功后的 signup 与对应佣金
type QualifyResult struct {
	Signup     *domain.Signup     `json:"signup"`
	Commission *domain.Commission `json:"commission"`
}

// RepStats 是销售的业绩概览
type RepStats struct {
	RepID               string                    `json:"rep_id"`
	QualifiedByPlatform map[domain.Platform]int64 `json:"qualified_by_platform"`
	TotalQualified      int64                     `json:"total_qualified"`
	UnpaidCommissions   decimal.Decimal           `json:"unpaid_commissions"`
	UnpaidBonuses       decimal.Decimal           `json:"unpaid_bonuses"`
	NextMilestone       *int                      `json:"next_milestone,omitempty"`
	RemainingToNext     int64                     `json:"remaining_to_next"`
}

// PayoutResult 是一次结算的汇总
type PayoutResult struct {
	RepID           string          `json:"rep_id"`
	CommissionCount int             `json:"commission_count"`
	BonusCount      int             `json:"bonus_count"`
	Total           decimal.Decimal `json:"total"`
	PaidAt          time.Time       `json:"paid_at"`
}
