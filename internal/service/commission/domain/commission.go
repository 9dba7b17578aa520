package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Commission 与一个 qualified signup 一一对应，金额在创建时确定，之后不再重算。
type Commission struct {
	ID            string          `json:"id"`
	SignupID      string          `json:"signup_id"`
	RepID         string          `json:"rep_id"`
	Platform      Platform        `json:"platform"`
	Amount        decimal.Decimal `json:"amount"`
	IsFirstSignup bool            `json:"is_first_signup"`
	CreatedAt     time.Time       `json:"created_at"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
}

func (c *Commission) Paid() bool { return c.PaidAt != nil }
