package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	bovadaFirstCommission = decimal.NewFromInt(80)
	bovadaCommission      = decimal.NewFromInt(40)
	chalkboardCommission  = decimal.NewFromInt(30)
)

// ComputeCommission 根据平台和该销售在此平台已有的 qualified 数量（不含本次）计算佣金。
func ComputeCommission(platform Platform, priorQualifiedOnPlatform int64) (decimal.Decimal, bool, error) {
	switch platform {
	case PlatformBovada:
		if priorQualifiedOnPlatform == 0 {
			return bovadaFirstCommission, true, nil
		}
		return bovadaCommission, false, nil
	case PlatformChalkboard:
		return chalkboardCommission, false, nil
	}
	return decimal.Zero, false, fmt.Errorf("%w: %q", ErrInvalidPlatform, platform)
}

// Milestone 是门槛表中的一档
type Milestone struct {
	Threshold int
	Amount    decimal.Decimal
}

// Description 返回奖金描述，例如 "25 Signups Milestone"
func (m Milestone) Description() string {
	return fmt.Sprintf("%d Signups Milestone", m.Threshold)
}

// MilestoneLadder 按门槛升序排列，不可修改。
var MilestoneLadder = []Milestone{
	{Threshold: 10, Amount: decimal.NewFromInt(500)},
	{Threshold: 25, Amount: decimal.NewFromInt(1000)},
	{Threshold: 50, Amount: decimal.NewFromInt(2500)},
	{Threshold: 100, Amount: decimal.NewFromInt(5000)},
	{Threshold: 250, Amount: decimal.NewFromInt(10000)},
	{Threshold: 500, Amount: decimal.NewFromInt(25000)},
}

func LookupMilestone(threshold int) (Milestone, error) {
	for _, m := range MilestoneLadder {
		if m.Threshold == threshold {
			return m, nil
		}
	}
	return Milestone{}, fmt.Errorf("%w: %d", ErrUnknownMilestone, threshold)
}

// NextMilestone 返回尚未达到的最低一档，已全部达到时 ok 为 false。
func NextMilestone(qualifiedCount int64) (Milestone, bool) {
	for _, m := range MilestoneLadder {
		if qualifiedCount < int64(m.Threshold) {
			return m, true
		}
	}
	return Milestone{}, false
}

// CheckMilestoneEligibility 判断 qualified 数量是否达到门槛。
func CheckMilestoneEligibility(m Milestone, qualifiedCount int64) error {
	if qualifiedCount < int64(m.Threshold) {
		return &MilestoneNotReachedError{Actual: qualifiedCount, Required: m.Threshold}
	}
	return nil
}

// NewMilestoneBonus 构造一笔门槛奖金
func NewMilestoneBonus(id, repID string, m Milestone, awardedBy string) *Bonus {
	threshold := m.Threshold
	return &Bonus{
		ID:          id,
		RepID:       repID,
		Type:        BonusMilestone,
		Amount:      m.Amount,
		Description: m.Description(),
		Milestone:   &threshold,
		AwardedBy:   awardedBy,
	}
}

// NewCustomBonus 是管理员手动发奖的路径，不做资格推导。
func NewCustomBonus(id, repID string, typ BonusType, amount decimal.Decimal, description, awardedBy string) (*Bonus, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, InvalidInputf("description is required")
	}
	if repID == "" {
		return nil, InvalidInputf("rep id is required")
	}
	if _, err := ParseBonusType(string(typ)); err != nil {
		return nil, err
	}
	return &Bonus{
		ID:          id,
		RepID:       repID,
		Type:        typ,
		Amount:      amount,
		Description: description,
		AwardedBy:   awardedBy,
	}, nil
}

// ParseDeposit 解析入金金额，空值或非法值按 0 处理。
func ParseDeposit(s *string) decimal.Decimal {
	if s == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.TrimSpace(*s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ComputeContestLeaderboard 按销售聚合竞赛期内的 qualified signup。
// 排序：数量降序，收入降序，其余保持出现顺序。
func ComputeContestLeaderboard(contest *Contest, signups []*Signup) *Leaderboard {
	index := make(map[string]int)
	entries := make([]LeaderboardEntry, 0)
	for _, s := range signups {
		i, ok := index[s.RepID]
		if !ok {
			i = len(entries)
			index[s.RepID] = i
			entries = append(entries, LeaderboardEntry{RepID: s.RepID, TotalRevenue: decimal.Zero})
		}
		entries[i].SignupCount++
		entries[i].TotalRevenue = entries[i].TotalRevenue.Add(ParseDeposit(s.DepositAmount))
	}

	sort.SliceStable(entries, func(a, b int) bool {
		if entries[a].SignupCount != entries[b].SignupCount {
			return entries[a].SignupCount > entries[b].SignupCount
		}
		return entries[a].TotalRevenue.GreaterThan(entries[b].TotalRevenue)
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	lb := &Leaderboard{
		Entries:           entries,
		TotalParticipants: len(entries),
		TotalSignups:      len(signups),
	}
	if contest != nil {
		lb.ContestID = contest.ID
	}
	return lb
}
