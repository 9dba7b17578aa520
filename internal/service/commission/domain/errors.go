package domain

import (
	"errors"
	"fmt"
)

// 规则引擎的拒绝原因，HTTP 层按这些错误映射状态码
var (
	ErrInvalidPlatform         = errors.New("invalid platform")
	ErrUnknownMilestone        = errors.New("unknown milestone")
	ErrMilestoneNotReached     = errors.New("milestone not reached")
	ErrDuplicateMilestoneBonus = errors.New("milestone bonus already awarded")
	ErrInvalidAmount           = errors.New("amount must be positive")
	ErrInvalidInput            = errors.New("invalid input")
	ErrUnauthorized            = errors.New("unauthorized")
	ErrPersistenceUnavailable  = errors.New("persistence unavailable")

	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid signup status transition")
	ErrRepInactive       = errors.New("sales rep is inactive")
	ErrNothingToPay      = errors.New("nothing to pay")
)

// MilestoneNotReachedError 携带实际数量与门槛，供前端展示。
type MilestoneNotReachedError struct {
	Actual   int64
	Required int
}

func (e *MilestoneNotReachedError) Error() string {
	return fmt.Sprintf("rep has %d qualified signups, %d required for this milestone", e.Actual, e.Required)
}

func (e *MilestoneNotReachedError) Is(target error) bool {
	return target == ErrMilestoneNotReached
}

// DuplicateMilestoneError 说明哪个门槛的奖金已经发放过。
type DuplicateMilestoneError struct {
	Milestone int
}

func (e *DuplicateMilestoneError) Error() string {
	return fmt.Sprintf("Milestone bonus for %d signups has already been awarded to this rep", e.Milestone)
}

func (e *DuplicateMilestoneError) Is(target error) bool {
	return target == ErrDuplicateMilestoneBonus
}

// InvalidInputf 构造带字段说明的 ErrInvalidInput。
func InvalidInputf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
