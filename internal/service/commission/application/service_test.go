package application_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"affiliatehub/internal/service/commission/application"
	"affiliatehub/internal/service/commission/domain"
	"affiliatehub/internal/service/commission/domain/port"
	"affiliatehub/internal/service/commission/infrastructure"
	"affiliatehub/internal/service/commission/infrastructure/lock"
	"affiliatehub/internal/service/commission/infrastructure/rule"
	"affiliatehub/internal/service/commission/infrastructure/sqlitetest"
)

var baseTime = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

type harness struct {
	svc   *application.CommissionService
	store domain.Store
	pub   *fakePublisher
	cache *fakeCache
	admin *domain.SalesRep
	ctx   context.Context
}

func newHarness(t *testing.T, opts ...func(*application.Deps)) *harness {
	t.Helper()
	store := infrastructure.NewGormStore(sqlitetest.Open(t))
	engine, err := rule.NewCELQualificationEngine(map[string]string{
		"bovada":     "deposit_amount >= 5.0",
		"chalkboard": "deposit_amount >= 5.0",
	})
	require.NoError(t, err)

	h := &harness{store: store, pub: &fakePublisher{}, cache: newFakeCache(), ctx: context.Background()}
	deps := application.Deps{
		Store:      store,
		Authorizer: infrastructure.NewRepRoleAuthorizer(store),
		Locker:     lock.NewLocalRepLocker(),
		Publisher:  h.pub,
		Cache:      h.cache,
		Rules:      engine,
		Tracer:     noop.NewTracerProvider().Tracer("test"),
		Metrics:    application.NewMetrics(prometheus.NewRegistry()),
		Now:        func() time.Time { return baseTime },
	}
	for _, opt := range opts {
		opt(&deps)
	}
	h.svc = application.NewCommissionService(deps)
	h.store = deps.Store
	h.admin = h.seedRep(t, domain.RoleAdmin)
	return h
}

func (h *harness) seedRep(t *testing.T, role domain.Role) *domain.SalesRep {
	t.Helper()
	id := uuid.NewString()
	rep, err := domain.NewSalesRep(id, "User "+id[:4], id[:8]+"@example.com", role, baseTime, baseTime)
	require.NoError(t, err)
	require.NoError(t, h.store.Reps().Insert(h.ctx, rep))
	return rep
}

func (h *harness) signup(t *testing.T, repID string, platform domain.Platform) *domain.Signup {
	t.Helper()
	s, err := h.svc.RecordSignup(h.ctx, repID, &application.RecordSignupRequest{
		RepID:        repID,
		Platform:     string(platform),
		CustomerName: "Customer",
	})
	require.NoError(t, err)
	return s
}

func (h *harness) qualify(t *testing.T, repID string, platform domain.Platform) *application.QualifyResult {
	t.Helper()
	res, err := h.svc.QualifySignup(h.ctx, h.signup(t, repID, platform).ID)
	require.NoError(t, err)
	return res
}

func TestQualifySignupCommissionSequence(t *testing.T) {
	h := newHarness(t)
	repA := h.seedRep(t, domain.RoleSalesRep)

	first := h.qualify(t, repA.ID, domain.PlatformBovada)
	assert.True(t, first.Commission.Amount.Equal(decimal.NewFromInt(80)))
	assert.True(t, first.Commission.IsFirstSignup)
	assert.Equal(t, domain.SignupQualified, first.Signup.Status)

	chalk := h.qualify(t, repA.ID, domain.PlatformChalkboard)
	assert.True(t, chalk.Commission.Amount.Equal(decimal.NewFromInt(30)))
	assert.False(t, chalk.Commission.IsFirstSignup)

	second := h.qualify(t, repA.ID, domain.PlatformBovada)
	assert.True(t, second.Commission.Amount.Equal(decimal.NewFromInt(40)))
	assert.False(t, second.Commission.IsFirstSignup)

	// 另一个销售的第一笔 Bovada 仍然是首单
	repB := h.seedRep(t, domain.RoleSalesRep)
	other := h.qualify(t, repB.ID, domain.PlatformBovada)
	assert.True(t, other.Commission.IsFirstSignup)

	stored, err := h.store.Commissions().FindBySignupID(h.ctx, first.Signup.ID)
	require.NoError(t, err)
	assert.True(t, stored.Amount.Equal(decimal.NewFromInt(80)))

	assert.Equal(t, []string{
		domain.EventCommissionCreated, domain.EventCommissionCreated,
		domain.EventCommissionCreated, domain.EventCommissionCreated,
	}, h.pub.types())
	assert.Equal(t, int64(4), h.cache.version)
}

func TestQualifySignupOnlyFromPending(t *testing.T) {
	h := newHarness(t)
	rep := h.seedRep(t, domain.RoleSalesRep)
	res := h.qualify(t, rep.ID, domain.PlatformBovada)

	_, err := h.svc.QualifySignup(h.ctx, res.Signup.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = h.svc.RejectSignup(h.ctx, res.Signup.ID, "fraud")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	rejected := h.signup(t, rep.ID, domain.PlatformChalkboard)
	got, err := h.svc.RejectSignup(h.ctx, rejected.ID, "duplicate customer")
	require.NoError(t, err)
	assert.Equal(t, domain.SignupRejected, got.Status)
	_, err = h.svc.QualifySignup(h.ctx, rejected.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = h.store.Commissions().FindBySignupID(h.ctx, rejected.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = h.svc.QualifySignup(h.ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordSignupRules(t *testing.T) {
	h := newHarness(t)
	rep := h.seedRep(t, domain.RoleSalesRep)
	other := h.seedRep(t, domain.RoleSalesRep)

	_, err := h.svc.RecordSignup(h.ctx, rep.ID, &application.RecordSignupRequest{RepID: rep.ID, Platform: "draftkings", CustomerName: "X"})
	assert.ErrorIs(t, err, domain.ErrInvalidPlatform)

	_, err = h.svc.RecordSignup(h.ctx, other.ID, &application.RecordSignupRequest{RepID: rep.ID, Platform: "bovada", CustomerName: "X"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	s, err := h.svc.RecordSignup(h.ctx, h.admin.ID, &application.RecordSignupRequest{RepID: rep.ID, Platform: "bovada", CustomerName: "X"})
	require.NoError(t, err)
	assert.Equal(t, domain.SignupPending, s.Status)

	_, err = h.svc.DeactivateRep(h.ctx, h.admin.ID, rep.ID)
	require.NoError(t, err)
	_, err = h.svc.RecordSignup(h.ctx, rep.ID, &application.RecordSignupRequest{RepID: rep.ID, Platform: "bovada", CustomerName: "X"})
	assert.ErrorIs(t, err, domain.ErrRepInactive)
}

func TestAwardMilestoneBonus(t *testing.T) {
	h := newHarness(t)
	repB := h.seedRep(t, domain.RoleSalesRep)
	for i := 0; i < 24; i++ {
		platform := domain.PlatformChalkboard
		if i%2 == 0 {
			platform = domain.PlatformBovada
		}
		h.qualify(t, repB.ID, platform)
	}
	// pending 和 rejected 不计入
	h.signup(t, repB.ID, domain.PlatformBovada)

	_, err := h.svc.AwardMilestoneBonus(h.ctx, h.admin.ID, repB.ID, 25)
	require.ErrorIs(t, err, domain.ErrMilestoneNotReached)
	var notReached *domain.MilestoneNotReachedError
	require.True(t, errors.As(err, &notReached))
	assert.Equal(t, int64(24), notReached.Actual)
	assert.Equal(t, 25, notReached.Required)

	h.qualify(t, repB.ID, domain.PlatformChalkboard)

	bonus, err := h.svc.AwardMilestoneBonus(h.ctx, h.admin.ID, repB.ID, 25)
	require.NoError(t, err)
	assert.True(t, bonus.Amount.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, "25 Signups Milestone", bonus.Description)
	require.NotNil(t, bonus.Milestone)
	assert.Equal(t, 25, *bonus.Milestone)
	assert.Equal(t, domain.BonusMilestone, bonus.Type)
	assert.Equal(t, h.admin.ID, bonus.AwardedBy)

	_, err = h.svc.AwardMilestoneBonus(h.ctx, h.admin.ID, repB.ID, 25)
	assert.ErrorIs(t, err, domain.ErrDuplicateMilestoneBonus)
	assert.EqualError(t, err, "Milestone bonus for 25 signups has already been awarded to this rep")

	// 低一档的门槛仍可领取
	_, err = h.svc.AwardMilestoneBonus(h.ctx, h.admin.ID, repB.ID, 10)
	require.NoError(t, err)

	assert.Contains(t, h.pub.types(), domain.EventBonusAwarded)
}

func TestAwardMilestoneBonusRejections(t *testing.T) {
	h := newHarness(t)
	rep := h.seedRep(t, domain.RoleSalesRep)

	// 不在门槛表中的值在任何存储访问之前被拒绝，即使调用方不是管理员
	_, err := h.svc.AwardMilestoneBonus(h.ctx, rep.ID, rep.ID, 37)
	assert.ErrorIs(t, err, domain.ErrUnknownMilestone)
	_, err = h.svc.AwardMilestoneBonus(h.ctx, h.admin.ID, rep.ID, 37)
	assert.ErrorIs(t, err, domain.ErrUnknownMilestone)

	_, err = h.svc.AwardMilestoneBonus(h.ctx, rep.ID, rep.ID, 10)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	finance := h.seedRep(t, domain.RoleFinance)
	_, err = h.svc.AwardMilestoneBonus(h.ctx, finance.ID, rep.ID, 10)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = h.svc.AwardMilestoneBonus(h.ctx, h.admin.ID, "missing", 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAwardMilestoneBonusUniqueIndexBackstop(t *testing.T) {
	h := newHarness(t, func(d *application.Deps) {
		d.Store = blindBonusStore{d.Store}
	})
	rep := h.seedRep(t, domain.RoleSalesRep)
	for i := 0; i < 10; i++ {
		h.qualify(t, rep.ID, domain.PlatformChalkboard)
	}

	_, err := h.svc.AwardMilestoneBonus(h.ctx, h.admin.ID, rep.ID, 10)
	require.NoError(t, err)
	_, err = h.svc.AwardMilestoneBonus(h.ctx, h.admin.ID, rep.ID, 10)
	assert.ErrorIs(t, err, domain.ErrDuplicateMilestoneBonus)
}

func TestAwardMilestoneBonusConcurrent(t *testing.T) {
	h := newHarness(t)
	rep := h.seedRep(t, domain.RoleSalesRep)
	for i := 0; i < 10; i++ {
		h.qualify(t, rep.ID, domain.PlatformBovada)
	}

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = h.svc.AwardMilestoneBonus(h.ctx, h.admin.ID, rep.ID, 10)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrDuplicateMilestoneBonus)
	}
	assert.Equal(t, 1, succeeded)
}

func TestAwardCustomBonus(t *testing.T) {
	h := newHarness(t)
	rep := h.seedRep(t, domain.RoleSalesRep)

	req := func(amount int64, desc string) *application.AwardCustomBonusRequest {
		return &application.AwardCustomBonusRequest{RepID: rep.ID, Type: "contest", Amount: decimal.NewFromInt(amount), Description: desc}
	}

	// 非管理员先被拒绝，拿不到校验细节
	_, err := h.svc.AwardCustomBonus(h.ctx, rep.ID, req(0, ""))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = h.svc.AwardCustomBonus(h.ctx, h.admin.ID, req(0, "March"))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	_, err = h.svc.AwardCustomBonus(h.ctx, h.admin.ID, req(-10, "March"))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	_, err = h.svc.AwardCustomBonus(h.ctx, h.admin.ID, req(100, ""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = h.svc.AwardCustomBonus(h.ctx, rep.ID, req(100, "March"))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	missing := "missing"
	withContest := req(100, "March")
	withContest.ContestID = &missing
	_, err = h.svc.AwardCustomBonus(h.ctx, h.admin.ID, withContest)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// 手动发放不做资格检查，同一类型可以多次发放
	for i := 0; i < 2; i++ {
		b, err := h.svc.AwardCustomBonus(h.ctx, h.admin.ID, &application.AwardCustomBonusRequest{
			RepID: rep.ID, Type: "milestone", Amount: decimal.NewFromInt(250), Description: "Manual milestone",
		})
		require.NoError(t, err)
		assert.Nil(t, b.Milestone)
		assert.Equal(t, domain.BonusMilestone, b.Type)
	}
}

func TestContestLeaderboard(t *testing.T) {
	h := newHarness(t)
	repA := h.seedRep(t, domain.RoleSalesRep)
	repB := h.seedRep(t, domain.RoleSalesRep)

	contest, err := h.svc.CreateContest(h.ctx, h.admin.ID, &application.CreateContestRequest{
		Name:       "March Madness",
		StartDate:  baseTime.Add(-24 * time.Hour),
		EndDate:    baseTime.Add(24 * time.Hour),
		PrizeValue: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)

	for _, c := range []struct {
		rep     string
		deposit string
	}{{repA.ID, "20"}, {repA.ID, "10"}, {repB.ID, "5"}} {
		s := h.signup(t, c.rep, domain.PlatformBovada)
		require.NoError(t, h.svc.HandlePlatformActivity(h.ctx, domain.PlatformActivityEvent{
			EventID: uuid.NewString(), SignupID: s.ID, Platform: domain.PlatformBovada, DepositAmount: c.deposit,
		}))
	}

	lb, err := h.svc.ContestLeaderboard(h.ctx, contest.ID)
	require.NoError(t, err)
	require.Len(t, lb.Entries, 2)
	assert.Equal(t, repA.ID, lb.Entries[0].RepID)
	assert.Equal(t, 2, lb.Entries[0].SignupCount)
	assert.True(t, lb.Entries[0].TotalRevenue.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, repB.ID, lb.Entries[1].RepID)
	assert.True(t, lb.Entries[1].TotalRevenue.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, 2, lb.TotalParticipants)
	assert.Equal(t, 3, lb.TotalSignups)
	assert.Equal(t, 1, h.cache.sets)

	again, err := h.svc.ContestLeaderboard(h.ctx, contest.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, h.cache.hits)
	assert.Equal(t, lb, again)

	// 新的 qualify 让缓存失效
	h.qualify(t, repB.ID, domain.PlatformChalkboard)
	h.qualify(t, repB.ID, domain.PlatformChalkboard)
	fresh, err := h.svc.ContestLeaderboard(h.ctx, contest.ID)
	require.NoError(t, err)
	assert.Equal(t, repB.ID, fresh.Entries[0].RepID)
	assert.Equal(t, 3, fresh.Entries[0].SignupCount)
	assert.Equal(t, 5, fresh.TotalSignups)

	_, err = h.svc.ContestLeaderboard(h.ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestContestLeaderboardSurvivesCacheOutage(t *testing.T) {
	h := newHarness(t, func(d *application.Deps) {
		var cache port.LeaderboardCache = brokenCache{}
		d.Cache = cache
	})
	rep := h.seedRep(t, domain.RoleSalesRep)
	h.qualify(t, rep.ID, domain.PlatformBovada)

	contest, err := h.svc.CreateContest(h.ctx, h.admin.ID, &application.CreateContestRequest{
		Name: "Spring", StartDate: baseTime, EndDate: baseTime,
	})
	require.NoError(t, err)

	lb, err := h.svc.ContestLeaderboard(h.ctx, contest.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, lb.TotalSignups)

	_, err = h.svc.CreateContest(h.ctx, h.admin.ID, &application.CreateContestRequest{
		Name: "Backwards", StartDate: baseTime, EndDate: baseTime.Add(-time.Hour),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHandlePlatformActivity(t *testing.T) {
	h := newHarness(t)
	rep := h.seedRep(t, domain.RoleSalesRep)
	s := h.signup(t, rep.ID, domain.PlatformBovada)

	evt := domain.PlatformActivityEvent{EventID: "e1", SignupID: s.ID, DepositAmount: "2.50"}
	require.NoError(t, h.svc.HandlePlatformActivity(h.ctx, evt))
	got, err := h.store.Signups().FindByID(h.ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SignupPending, got.Status)
	require.NotNil(t, got.DepositAmount)
	assert.Equal(t, "2.50", *got.DepositAmount)

	evt.DepositAmount = "50"
	require.NoError(t, h.svc.HandlePlatformActivity(h.ctx, evt))
	got, err = h.store.Signups().FindByID(h.ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SignupQualified, got.Status)

	// 重复投递不会再生成佣金
	require.NoError(t, h.svc.HandlePlatformActivity(h.ctx, evt))
	assert.Equal(t, []string{domain.EventCommissionCreated}, h.pub.types())

	other := h.signup(t, rep.ID, domain.PlatformChalkboard)
	err = h.svc.HandlePlatformActivity(h.ctx, domain.PlatformActivityEvent{SignupID: other.ID, Platform: domain.PlatformBovada, DepositAmount: "50"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = h.svc.HandlePlatformActivity(h.ctx, domain.PlatformActivityEvent{SignupID: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHandlePlatformActivityUsesStoredDeposit(t *testing.T) {
	engine, err := rule.NewCELQualificationEngine(map[string]string{
		"bovada": "deposit_amount >= 20.0 && verified",
	})
	require.NoError(t, err)
	h := newHarness(t, func(d *application.Deps) { d.Rules = engine })
	rep := h.seedRep(t, domain.RoleSalesRep)
	s := h.signup(t, rep.ID, domain.PlatformBovada)

	require.NoError(t, h.svc.HandlePlatformActivity(h.ctx, domain.PlatformActivityEvent{
		EventID: "deposit", SignupID: s.ID, DepositAmount: "50",
	}))
	got, err := h.store.Signups().FindByID(h.ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SignupPending, got.Status)

	// KYC 回传不带入金字段
	require.NoError(t, h.svc.HandlePlatformActivity(h.ctx, domain.PlatformActivityEvent{
		EventID: "kyc", SignupID: s.ID, Verified: true,
	}))
	got, err = h.store.Signups().FindByID(h.ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SignupQualified, got.Status)
	require.NotNil(t, got.DepositAmount)
	assert.Equal(t, "50", *got.DepositAmount)
	assert.Equal(t, []string{domain.EventCommissionCreated}, h.pub.types())
}

func TestContestLeaderboardIgnoresCallerCancellation(t *testing.T) {
	h := newHarness(t)
	rep := h.seedRep(t, domain.RoleSalesRep)
	contest, err := h.svc.CreateContest(h.ctx, h.admin.ID, &application.CreateContestRequest{
		Name: "Spring", StartDate: baseTime.Add(-time.Hour), EndDate: baseTime.Add(time.Hour),
	})
	require.NoError(t, err)
	h.qualify(t, rep.ID, domain.PlatformChalkboard)

	ctx, cancel := context.WithCancel(h.ctx)
	cancel()
	lb, err := h.svc.ContestLeaderboard(ctx, contest.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, lb.TotalSignups)

	// 计算结果照常写回缓存
	_, err = h.svc.ContestLeaderboard(h.ctx, contest.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, h.cache.hits)
}

func TestRepStatsAndPayout(t *testing.T) {
	h := newHarness(t)
	rep := h.seedRep(t, domain.RoleSalesRep)
	finance := h.seedRep(t, domain.RoleFinance)
	stranger := h.seedRep(t, domain.RoleSalesRep)

	h.qualify(t, rep.ID, domain.PlatformBovada)
	h.qualify(t, rep.ID, domain.PlatformBovada)
	h.qualify(t, rep.ID, domain.PlatformChalkboard)
	_, err := h.svc.AwardCustomBonus(h.ctx, h.admin.ID, &application.AwardCustomBonusRequest{
		RepID: rep.ID, Type: "contest", Amount: decimal.NewFromInt(100), Description: "Weekly winner",
	})
	require.NoError(t, err)

	stats, err := h.svc.RepStats(h.ctx, rep.ID, rep.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.QualifiedByPlatform[domain.PlatformBovada])
	assert.Equal(t, int64(1), stats.QualifiedByPlatform[domain.PlatformChalkboard])
	assert.Equal(t, int64(3), stats.TotalQualified)
	assert.True(t, stats.UnpaidCommissions.Equal(decimal.NewFromInt(150)))
	assert.True(t, stats.UnpaidBonuses.Equal(decimal.NewFromInt(100)))
	require.NotNil(t, stats.NextMilestone)
	assert.Equal(t, 10, *stats.NextMilestone)
	assert.Equal(t, int64(7), stats.RemainingToNext)

	_, err = h.svc.RepStats(h.ctx, stranger.ID, rep.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = h.svc.RepStats(h.ctx, finance.ID, rep.ID)
	require.NoError(t, err)

	_, err = h.svc.RecordPayout(h.ctx, rep.ID, rep.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	payout, err := h.svc.RecordPayout(h.ctx, finance.ID, rep.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, payout.CommissionCount)
	assert.Equal(t, 1, payout.BonusCount)
	assert.True(t, payout.Total.Equal(decimal.NewFromInt(250)))

	_, err = h.svc.RecordPayout(h.ctx, h.admin.ID, rep.ID)
	assert.ErrorIs(t, err, domain.ErrNothingToPay)

	stats, err = h.svc.RepStats(h.ctx, h.admin.ID, rep.ID)
	require.NoError(t, err)
	assert.True(t, stats.UnpaidCommissions.IsZero())
	assert.True(t, stats.UnpaidBonuses.IsZero())
	assert.Contains(t, h.pub.types(), domain.EventPayoutRecorded)
}

func TestCreateAndDeactivateRep(t *testing.T) {
	h := newHarness(t)
	rep := h.seedRep(t, domain.RoleSalesRep)

	_, err := h.svc.CreateRep(h.ctx, rep.ID, &application.CreateRepRequest{Name: "New", Email: "new@example.com", Role: "sales_rep"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	created, err := h.svc.CreateRep(h.ctx, h.admin.ID, &application.CreateRepRequest{Name: "New", Email: "New@Example.com", Role: "manager"})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", created.Email)
	assert.True(t, created.Active)

	_, err = h.svc.CreateRep(h.ctx, h.admin.ID, &application.CreateRepRequest{Name: "Dup", Email: "new@example.com", Role: "sales_rep"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	deactivated, err := h.svc.DeactivateRep(h.ctx, h.admin.ID, created.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.Active)

	// 停用的管理员失去权限
	_, err = h.svc.DeactivateRep(h.ctx, h.admin.ID, h.admin.ID)
	require.NoError(t, err)
	_, err = h.svc.CreateRep(h.ctx, h.admin.ID, &application.CreateRepRequest{Name: "Late", Email: "late@example.com", Role: "sales_rep"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
