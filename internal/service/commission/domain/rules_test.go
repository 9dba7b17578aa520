package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeCommissionChalkboardIsFlat(t *testing.T) {
	for _, prior := range []int64{0, 1, 2, 57, 1000} {
		amount, first, err := ComputeCommission(PlatformChalkboard, prior)
		require.NoError(t, err)
		assert.True(t, amount.Equal(decimal.NewFromInt(30)), "prior=%d", prior)
		assert.False(t, first)
	}
}

func TestComputeCommissionBovadaFirstSignup(t *testing.T) {
	amount, first, err := ComputeCommission(PlatformBovada, 0)
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.NewFromInt(80)))
	assert.True(t, first)

	for _, prior := range []int64{1, 2, 10} {
		amount, first, err = ComputeCommission(PlatformBovada, prior)
		require.NoError(t, err)
		assert.True(t, amount.Equal(decimal.NewFromInt(40)))
		assert.False(t, first)
	}
}

func TestComputeCommissionRejectsUnknownPlatform(t *testing.T) {
	amount, _, err := ComputeCommission(Platform("draftkings"), 0)
	assert.ErrorIs(t, err, ErrInvalidPlatform)
	assert.True(t, amount.IsZero())

	_, err = ParsePlatform("draftkings")
	assert.ErrorIs(t, err, ErrInvalidPlatform)

	p, err := ParsePlatform(" Bovada ")
	require.NoError(t, err)
	assert.Equal(t, PlatformBovada, p)
}

func TestMilestoneLadder(t *testing.T) {
	m, err := LookupMilestone(25)
	require.NoError(t, err)
	assert.True(t, m.Amount.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, "25 Signups Milestone", m.Description())

	_, err = LookupMilestone(37)
	assert.ErrorIs(t, err, ErrUnknownMilestone)

	next, ok := NextMilestone(12)
	require.True(t, ok)
	assert.Equal(t, 25, next.Threshold)

	_, ok = NextMilestone(500)
	assert.False(t, ok)
}

func TestCheckMilestoneEligibility(t *testing.T) {
	m, err := LookupMilestone(50)
	require.NoError(t, err)

	err = CheckMilestoneEligibility(m, 49)
	require.ErrorIs(t, err, ErrMilestoneNotReached)
	var notReached *MilestoneNotReachedError
	require.True(t, errors.As(err, &notReached))
	assert.Equal(t, int64(49), notReached.Actual)
	assert.Equal(t, 50, notReached.Required)

	assert.NoError(t, CheckMilestoneEligibility(m, 50))
	assert.NoError(t, CheckMilestoneEligibility(m, 51))
}

func TestNewMilestoneBonus(t *testing.T) {
	m, err := LookupMilestone(25)
	require.NoError(t, err)

	b := NewMilestoneBonus("b1", "rep-b", m, "admin-1")
	assert.Equal(t, BonusMilestone, b.Type)
	assert.Equal(t, "25 Signups Milestone", b.Description)
	require.NotNil(t, b.Milestone)
	assert.Equal(t, 25, *b.Milestone)
	assert.True(t, b.Amount.Equal(decimal.NewFromInt(1000)))
}

func TestNewCustomBonusValidation(t *testing.T) {
	_, err := NewCustomBonus("b1", "rep", BonusContest, decimal.Zero, "March contest", "admin")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = NewCustomBonus("b1", "rep", BonusContest, decimal.NewFromInt(-5), "March contest", "admin")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = NewCustomBonus("b1", "rep", BonusContest, decimal.NewFromInt(100), "   ", "admin")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewCustomBonus("b1", "rep", BonusType("referral"), decimal.NewFromInt(100), "x", "admin")
	assert.ErrorIs(t, err, ErrInvalidInput)

	b, err := NewCustomBonus("b1", "rep", BonusMilestone, decimal.RequireFromString("99.50"), "Manual adjustment", "admin")
	require.NoError(t, err)
	assert.Nil(t, b.Milestone)
	assert.Equal(t, "Manual adjustment", b.Description)
}

func dep(s string) *string { return &s }

func TestComputeContestLeaderboardScenario(t *testing.T) {
	contest := &Contest{ID: "c1"}
	signups := []*Signup{
		{RepID: "repA", DepositAmount: dep("20")},
		{RepID: "repA", DepositAmount: dep("10")},
		{RepID: "repB", DepositAmount: dep("5")},
	}

	lb := ComputeContestLeaderboard(contest, signups)
	require.Len(t, lb.Entries, 2)
	assert.Equal(t, "c1", lb.ContestID)
	assert.Equal(t, "repA", lb.Entries[0].RepID)
	assert.Equal(t, 2, lb.Entries[0].SignupCount)
	assert.True(t, lb.Entries[0].TotalRevenue.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, 1, lb.Entries[0].Rank)
	assert.Equal(t, "repB", lb.Entries[1].RepID)
	assert.True(t, lb.Entries[1].TotalRevenue.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, 2, lb.TotalParticipants)
	assert.Equal(t, 3, lb.TotalSignups)
}

func TestComputeContestLeaderboardTieBreaks(t *testing.T) {
	signups := []*Signup{
		{RepID: "repC", DepositAmount: dep("10")},
		{RepID: "repD", DepositAmount: dep("25.5")},
		{RepID: "repE", DepositAmount: dep("10.00")},
		{RepID: "repF", DepositAmount: nil},
		{RepID: "repG", DepositAmount: dep("not-a-number")},
	}

	first := ComputeContestLeaderboard(nil, signups)
	second := ComputeContestLeaderboard(nil, signups)
	assert.Equal(t, first.Entries, second.Entries)

	var order []string
	for _, e := range first.Entries {
		order = append(order, e.RepID)
	}
	// 收入相同时保持出现顺序
	assert.Equal(t, []string{"repD", "repC", "repE", "repF", "repG"}, order)
	assert.True(t, first.Entries[4].TotalRevenue.IsZero())
}

func TestComputeContestLeaderboardEmpty(t *testing.T) {
	lb := ComputeContestLeaderboard(&Contest{ID: "c"}, nil)
	assert.Empty(t, lb.Entries)
	assert.Equal(t, 0, lb.TotalParticipants)
	assert.Equal(t, 0, lb.TotalSignups)
}

func TestSignupStateMachine(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	s, err := NewSignup("s1", "rep", PlatformBovada, "Jane", "Jane@Example.com", time.Time{}, now)
	require.NoError(t, err)
	assert.Equal(t, SignupPending, s.Status)
	assert.Equal(t, now, s.SignupDate)
	assert.Equal(t, "jane@example.com", s.CustomerEmail)

	require.NoError(t, s.Qualify(now))
	assert.Equal(t, SignupQualified, s.Status)
	require.NotNil(t, s.QualifiedAt)

	assert.ErrorIs(t, s.Qualify(now), ErrInvalidTransition)
	assert.ErrorIs(t, s.Reject("late", now), ErrInvalidTransition)
	assert.ErrorIs(t, s.RecordDeposit("10", now), ErrInvalidTransition)

	r, err := NewSignup("s2", "rep", PlatformChalkboard, "Joe", "", now, now)
	require.NoError(t, err)
	require.NoError(t, r.Reject(" duplicate customer ", now))
	assert.Equal(t, "duplicate customer", r.RejectionReason)
	assert.ErrorIs(t, r.Qualify(now), ErrInvalidTransition)

	_, err = NewSignup("s3", "rep", Platform("other"), "X", "", now, now)
	assert.ErrorIs(t, err, ErrInvalidPlatform)
}

func TestDuplicateMilestoneErrorMessage(t *testing.T) {
	err := &DuplicateMilestoneError{Milestone: 50}
	assert.ErrorIs(t, err, ErrDuplicateMilestoneBonus)
	assert.Equal(t, "Milestone bonus for 50 signups has already been awarded to this rep", err.Error())
}
