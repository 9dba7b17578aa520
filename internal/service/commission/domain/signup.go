package domain

import (
	"strings"
	"time"
)

// Platform 是合作平台
type Platform string

const (
	PlatformBovada     Platform = "bovada"
	PlatformChalkboard Platform = "chalkboard"
)

// ParsePlatform 只接受已知平台，不做默认值回退。
func ParsePlatform(s string) (Platform, error) {
	switch p := Platform(strings.ToLower(strings.TrimSpace(s))); p {
	case PlatformBovada, PlatformChalkboard:
		return p, nil
	}
	return "", ErrInvalidPlatform
}

// SignupStatus 定义了 signup 的生命周期：pending -> qualified | rejected，两者都是终态。
type SignupStatus string

const (
	SignupPending   SignupStatus = "pending"
	SignupQualified SignupStatus = "qualified"
	SignupRejected  SignupStatus = "rejected"
)

// Signup 记录一次客户获取，归属于唯一的销售和平台。平台创建后不可修改。
type Signup struct {
	ID              string       `json:"id"`
	RepID           string       `json:"rep_id"`
	Platform        Platform     `json:"platform"`
	CustomerName    string       `json:"customer_name"`
	CustomerEmail   string       `json:"customer_email"`
	DepositAmount   *string      `json:"deposit_amount,omitempty"` // 以十进制字符串持久化
	Status          SignupStatus `json:"status"`
	SignupDate      time.Time    `json:"signup_date"`
	QualifiedAt     *time.Time   `json:"qualified_at,omitempty"`
	RejectedAt      *time.Time   `json:"rejected_at,omitempty"`
	RejectionReason string       `json:"rejection_reason"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// NewSignup 创建一个 pending 状态的 signup
func NewSignup(id, repID string, platform Platform, customerName, customerEmail string, signupDate, now time.Time) (*Signup, error) {
	if repID == "" {
		return nil, InvalidInputf("rep id is required")
	}
	if _, err := ParsePlatform(string(platform)); err != nil {
		return nil, err
	}
	customerName = strings.TrimSpace(customerName)
	if customerName == "" {
		return nil, InvalidInputf("customer name is required")
	}
	if signupDate.IsZero() {
		signupDate = now
	}
	return &Signup{
		ID:            id,
		RepID:         repID,
		Platform:      platform,
		CustomerName:  customerName,
		CustomerEmail: strings.TrimSpace(strings.ToLower(customerEmail)),
		Status:        SignupPending,
		SignupDate:    signupDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Qualify 将 signup 置为 qualified，只允许从 pending 转换。
func (s *Signup) Qualify(at time.Time) error {
	if s.Status != SignupPending {
		return ErrInvalidTransition
	}
	s.Status = SignupQualified
	s.QualifiedAt = &at
	s.UpdatedAt = at
	return nil
}

// Reject 将 signup 置为 rejected，只允许从 pending 转换。
func (s *Signup) Reject(reason string, at time.Time) error {
	if s.Status != SignupPending {
		return ErrInvalidTransition
	}
	s.Status = SignupRejected
	s.RejectionReason = strings.TrimSpace(reason)
	s.RejectedAt = &at
	s.UpdatedAt = at
	return nil
}

// RecordDeposit 记录平台回传的入金金额，终态 signup 不再变更。
func (s *Signup) RecordDeposit(amount string, at time.Time) error {
	if s.Status != SignupPending {
		return ErrInvalidTransition
	}
	s.DepositAmount = &amount
	s.UpdatedAt = at
	return nil
}
