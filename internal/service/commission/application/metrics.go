package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics 是佣金服务的业务指标
type Metrics struct {
	CommissionsCreated *prometheus.CounterVec
	BonusesAwarded     *prometheus.CounterVec
	BonusRejections    *prometheus.CounterVec
	LeaderboardCache   *prometheus.CounterVec
	Payouts            prometheus.Counter
}

// NewMetrics 在 reg 上注册指标，reg 为 nil 时注册到默认 registry。
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		CommissionsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "commissions_created_total",
			Help: "Commissions created on signup qualification.",
		}, []string{"platform", "first_signup"}),
		BonusesAwarded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bonuses_awarded_total",
			Help: "Bonuses awarded, by bonus type.",
		}, []string{"type"}),
		BonusRejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bonus_rejections_total",
			Help: "Milestone bonus requests rejected by the rules engine.",
		}, []string{"reason"}),
		LeaderboardCache: f.NewCounterVec(prometheus.CounterOpts{
			Name: "leaderboard_cache_requests_total",
			Help: "Leaderboard cache lookups, by result.",
		}, []string{"result"}),
		Payouts: f.NewCounter(prometheus.CounterOpts{
			Name: "payouts_recorded_total",
			Help: "Payouts recorded.",
		}),
	}
}
