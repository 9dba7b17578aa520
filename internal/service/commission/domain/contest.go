package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Contest 是限时竞赛，只用于计算排行榜。
type Contest struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	StartDate        time.Time       `json:"start_date"`
	EndDate          time.Time       `json:"end_date"`
	PrizeDescription string          `json:"prize_description"`
	PrizeValue       decimal.Decimal `json:"prize_value"`
	Active           bool            `json:"active"`
	CreatedAt        time.Time       `json:"created_at"`
}

func NewContest(id, name string, start, end time.Time, prizeDescription string, prizeValue decimal.Decimal, now time.Time) (*Contest, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, InvalidInputf("contest name is required")
	}
	if start.IsZero() || end.IsZero() {
		return nil, InvalidInputf("contest start and end dates are required")
	}
	if end.Before(start) {
		return nil, InvalidInputf("contest end date precedes start date")
	}
	if prizeValue.IsNegative() {
		return nil, ErrInvalidAmount
	}
	return &Contest{
		ID:               id,
		Name:             name,
		StartDate:        start,
		EndDate:          end,
		PrizeDescription: strings.TrimSpace(prizeDescription),
		PrizeValue:       prizeValue,
		Active:           true,
		CreatedAt:        now,
	}, nil
}

// LeaderboardEntry 是排行榜中的一行
type LeaderboardEntry struct {
	Rank         int             `json:"rank"`
	RepID        string          `json:"rep_id"`
	SignupCount  int             `json:"signup_count"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// Leaderboard 是某次竞赛的排名快照
type Leaderboard struct {
	ContestID         string             `json:"contest_id"`
	Entries           []LeaderboardEntry `json:"entries"`
	TotalParticipants int                `json:"total_participants"`
	TotalSignups      int                `json:"total_signups"`
	GeneratedAt       time.Time          `json:"generated_at"`
}
