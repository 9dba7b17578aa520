package application

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"affiliatehub/internal/pkg/logger"
	"affiliatehub/internal/service/commission/domain"
	"affiliatehub/internal/service/commission/domain/port"
)

// Deps 是 CommissionService 的依赖。Store、Authorizer、Tracer 必填，其余可为 nil。
type Deps struct {
	Store      domain.Store
	Authorizer port.Authorizer
	Locker     port.RepLocker
	Publisher  port.EventPublisher
	Cache      port.LeaderboardCache
	Rules      port.QualificationRuleEngine
	Tracer     trace.Tracer
	Metrics    *Metrics
	Now        func() time.Time
	NewID      func() string
}

// CommissionService 定义了佣金与奖金的全部业务用例
type CommissionService struct {
	store     domain.Store
	authz     port.Authorizer
	locker    port.RepLocker
	publisher port.EventPublisher
	cache     port.LeaderboardCache
	rules     port.QualificationRuleEngine
	tracer    trace.Tracer
	metrics   *Metrics
	now       func() time.Time
	newID     func() string

	flight singleflight.Group
}

func NewCommissionService(d Deps) *CommissionService {
	s := &CommissionService{
		store:     d.Store,
		authz:     d.Authorizer,
		locker:    d.Locker,
		publisher: d.Publisher,
		cache:     d.Cache,
		rules:     d.Rules,
		tracer:    d.Tracer,
		metrics:   d.Metrics,
		now:       d.Now,
		newID:     d.NewID,
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}
	return s
}

// RequireAdmin 调用方不是在职管理员时返回 ErrUnauthorized
func (s *CommissionService) RequireAdmin(ctx context.Context, callerID string) error {
	if callerID == "" {
		return domain.ErrUnauthorized
	}
	ok, err := s.authz.IsAdmin(ctx, callerID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrUnauthorized
	}
	return nil
}

// loadCaller 读取调用方，调用方不存在或已停用视为未授权
func (s *CommissionService) loadCaller(ctx context.Context, callerID string) (*domain.SalesRep, error) {
	if callerID == "" {
		return nil, domain.ErrUnauthorized
	}
	caller, err := s.store.Reps().FindByID(ctx, callerID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if !caller.Active {
		return nil, domain.ErrUnauthorized
	}
	return caller, nil
}

// lockRep 跨实例串行化同一销售的写操作，未配置 locker 时只依赖数据库行锁
func (s *CommissionService) lockRep(ctx context.Context, repID string) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}
	return s.locker.LockRep(ctx, repID)
}

// publish 在事务提交之后调用，失败只记录日志
func (s *CommissionService) publish(ctx context.Context, evt domain.Event) {
	if s.publisher == nil {
		return
	}
	evt.ID = s.newID()
	evt.OccurredAt = s.now()
	if err := s.publisher.Publish(ctx, evt); err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("event_type", evt.Type).Str("rep_id", evt.RepID).Msg("failed to publish event")
	}
}

// CreateRep 新增后台用户，仅管理员可用
func (s *CommissionService) CreateRep(ctx context.Context, callerID string, req *CreateRepRequest) (*domain.SalesRep, error) {
	ctx, span := s.tracer.Start(ctx, "service.CreateRep")
	defer span.End()

	if err := s.RequireAdmin(ctx, callerID); err != nil {
		span.RecordError(err)
		return nil, err
	}
	now := s.now()
	hireDate := now
	if req.HireDate != nil {
		hireDate = req.HireDate.UTC()
	}
	rep, err := domain.NewSalesRep(s.newID(), req.Name, req.Email, domain.Role(req.Role), hireDate, now)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := s.store.Reps().Insert(ctx, rep); err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("rep.id", rep.ID))
	logger.Ctx(ctx).Info().Str("rep_id", rep.ID).Str("role", string(rep.Role)).Msg("sales rep created")
	return rep, nil
}

// DeactivateRep 软删除销售，历史数据保留
func (s *CommissionService) DeactivateRep(ctx context.Context, callerID, repID string) (*domain.SalesRep, error) {
	ctx, span := s.tracer.Start(ctx, "service.DeactivateRep")
	defer span.End()
	span.SetAttributes(attribute.String("rep.id", repID))

	if err := s.RequireAdmin(ctx, callerID); err != nil {
		span.RecordError(err)
		return nil, err
	}
	rep, err := s.store.Reps().FindByID(ctx, repID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !rep.Active {
		return rep, nil
	}
	rep.Deactivate(s.now())
	if err := s.store.Reps().Update(ctx, rep); err != nil {
		span.RecordError(err)
		return nil, err
	}
	logger.Ctx(ctx).Info().Str("rep_id", rep.ID).Msg("sales rep deactivated")
	return rep, nil
}

// RecordSignup 登记一个 pending signup，调用方必须是销售本人或管理员
func (s *CommissionService) RecordSignup(ctx context.Context, callerID string, req *RecordSignupRequest) (*domain.Signup, error) {
	ctx, span := s.tracer.Start(ctx, "service.RecordSignup")
	defer span.End()
	span.SetAttributes(attribute.String("rep.id", req.RepID), attribute.String("signup.platform", req.Platform))

	platform, err := domain.ParsePlatform(req.Platform)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if callerID != req.RepID {
		if err := s.RequireAdmin(ctx, callerID); err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	rep, err := s.store.Reps().FindByID(ctx, req.RepID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !rep.Active {
		span.RecordError(domain.ErrRepInactive)
		return nil, domain.ErrRepInactive
	}

	now := s.now()
	signupDate := now
	if req.SignupDate != nil {
		signupDate = req.SignupDate.UTC()
	}
	signup, err := domain.NewSignup(s.newID(), rep.ID, platform, req.CustomerName, req.CustomerEmail, signupDate, now)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := s.store.Signups().Insert(ctx, signup); err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("signup.id", signup.ID))
	logger.Ctx(ctx).Info().Str("signup_id", signup.ID).Str("rep_id", rep.ID).Str("platform", string(platform)).Msg("signup recorded")
	return signup, nil
}

// QualifySignup 将 signup 置为 qualified 并生成佣金。
// 行锁、状态转换、计数和佣金写入在同一个事务内完成，计数包含本次 signup。
func (s *CommissionService) QualifySignup(ctx context.Context, signupID string) (*QualifyResult, error) {
	ctx, span := s.tracer.Start(ctx, "service.QualifySignup")
	defer span.End()
	span.SetAttributes(attribute.String("signup.id", signupID))

	pending, err := s.store.Signups().FindByID(ctx, signupID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	unlock, err := s.lockRep(ctx, pending.RepID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	defer unlock()

	var result QualifyResult
	err = s.store.Transaction(ctx, func(tx domain.Store) error {
		if _, err := tx.Reps().LockForUpdate(ctx, pending.RepID); err != nil {
			return err
		}
		signup, err := tx.Signups().FindByID(ctx, signupID)
		if err != nil {
			return err
		}
		now := s.now()
		if err := signup.Qualify(now); err != nil {
			return err
		}
		if err := tx.Signups().UpdateStatus(ctx, signup, domain.SignupPending); err != nil {
			return err
		}

		platform := signup.Platform
		count, err := tx.Signups().CountQualified(ctx, signup.RepID, &platform)
		if err != nil {
			return err
		}
		amount, isFirst, err := domain.ComputeCommission(platform, count-1)
		if err != nil {
			return err
		}
		commission := &domain.Commission{
			ID:            s.newID(),
			SignupID:      signup.ID,
			RepID:         signup.RepID,
			Platform:      platform,
			Amount:        amount,
			IsFirstSignup: isFirst,
			CreatedAt:     now,
		}
		if err := tx.Commissions().Insert(ctx, commission); err != nil {
			return err
		}
		result = QualifyResult{Signup: signup, Commission: commission}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	c := result.Commission
	span.SetAttributes(
		attribute.String("rep.id", c.RepID),
		attribute.String("commission.amount", c.Amount.String()),
		attribute.Bool("commission.first_signup", c.IsFirstSignup),
	)
	s.metrics.CommissionsCreated.WithLabelValues(string(c.Platform), strconv.FormatBool(c.IsFirstSignup)).Inc()
	logger.Ctx(ctx).Info().
		Str("signup_id", signupID).
		Str("rep_id", c.RepID).
		Str("amount", c.Amount.String()).
		Bool("first_signup", c.IsFirstSignup).
		Msg("signup qualified, commission created")

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Msg("failed to invalidate leaderboard cache")
		}
	}
	s.publish(ctx, domain.Event{
		Type:     domain.EventCommissionCreated,
		RepID:    c.RepID,
		SignupID: c.SignupID,
		Platform: c.Platform,
		Amount:   c.Amount,
		IsFirst:  c.IsFirstSignup,
	})
	return &result, nil
}

// RejectSignup 将 pending signup 置为 rejected
func (s *CommissionService) RejectSignup(ctx context.Context, signupID, reason string) (*domain.Signup, error) {
	ctx, span := s.tracer.Start(ctx, "service.RejectSignup")
	defer span.End()
	span.SetAttributes(attribute.String("signup.id", signupID))

	signup, err := s.store.Signups().FindByID(ctx, signupID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := signup.Reject(reason, s.now()); err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := s.store.Signups().UpdateStatus(ctx, signup, domain.SignupPending); err != nil {
		span.RecordError(err)
		return nil, err
	}
	logger.Ctx(ctx).Info().Str("signup_id", signupID).Str("reason", signup.RejectionReason).Msg("signup rejected")
	s.publish(ctx, domain.Event{
		Type:     domain.EventSignupRejected,
		RepID:    signup.RepID,
		SignupID: signup.ID,
		Platform: signup.Platform,
		Amount:   decimal.Zero,
		Reason:   signup.RejectionReason,
	})
	return signup, nil
}

// AwardMilestoneBonus 按门槛表发放奖金。
// 门槛校验不访问存储；资格和重复检查在锁住销售行的事务内执行，
// 并发插入由唯一索引兜底，冲突同样返回 ErrDuplicateMilestoneBonus。
func (s *CommissionService) AwardMilestoneBonus(ctx context.Context, callerID, repID string, threshold int) (*domain.Bonus, error) {
	ctx, span := s.tracer.Start(ctx, "service.AwardMilestoneBonus")
	defer span.End()
	span.SetAttributes(attribute.String("rep.id", repID), attribute.Int("bonus.milestone", threshold))

	bonus, err := s.awardMilestoneBonus(ctx, callerID, repID, threshold)
	if err != nil {
		span.RecordError(err)
		s.metrics.BonusRejections.WithLabelValues(rejectionReason(err)).Inc()
		logger.Ctx(ctx).Info().Err(err).Str("rep_id", repID).Int("milestone", threshold).Msg("milestone bonus rejected")
		return nil, err
	}

	s.metrics.BonusesAwarded.WithLabelValues(string(bonus.Type)).Inc()
	logger.Ctx(ctx).Info().Str("rep_id", repID).Int("milestone", threshold).Str("bonus_id", bonus.ID).Msg("milestone bonus awarded")
	s.publish(ctx, domain.Event{
		Type:      domain.EventBonusAwarded,
		RepID:     bonus.RepID,
		BonusID:   bonus.ID,
		Amount:    bonus.Amount,
		Milestone: bonus.Milestone,
	})
	return bonus, nil
}

func (s *CommissionService) awardMilestoneBonus(ctx context.Context, callerID, repID string, threshold int) (*domain.Bonus, error) {
	milestone, err := domain.LookupMilestone(threshold)
	if err != nil {
		return nil, err
	}
	if err := s.RequireAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	unlock, err := s.lockRep(ctx, repID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	bonus := domain.NewMilestoneBonus(s.newID(), repID, milestone, callerID)
	err = s.store.Transaction(ctx, func(tx domain.Store) error {
		if _, err := tx.Reps().LockForUpdate(ctx, repID); err != nil {
			return err
		}
		count, err := tx.Signups().CountQualified(ctx, repID, nil)
		if err != nil {
			return err
		}
		if err := domain.CheckMilestoneEligibility(milestone, count); err != nil {
			return err
		}
		_, err = tx.Bonuses().FindMilestoneBonus(ctx, repID, milestone.Threshold)
		switch {
		case err == nil:
			return &domain.DuplicateMilestoneError{Milestone: milestone.Threshold}
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}
		bonus.CreatedAt = s.now()
		return tx.Bonuses().Insert(ctx, bonus)
	})
	if err != nil {
		return nil, err
	}
	return bonus, nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnknownMilestone):
		return "unknown_milestone"
	case errors.Is(err, domain.ErrMilestoneNotReached):
		return "not_reached"
	case errors.Is(err, domain.ErrDuplicateMilestoneBonus):
		return "duplicate"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	}
	return "error"
}

// AwardCustomBonus 是管理员手动发奖，不做资格推导
func (s *CommissionService) AwardCustomBonus(ctx context.Context, callerID string, req *AwardCustomBonusRequest) (*domain.Bonus, error) {
	ctx, span := s.tracer.Start(ctx, "service.AwardCustomBonus")
	defer span.End()
	span.SetAttributes(attribute.String("rep.id", req.RepID), attribute.String("bonus.type", req.Type))

	if err := s.RequireAdmin(ctx, callerID); err != nil {
		span.RecordError(err)
		return nil, err
	}
	typ, err := domain.ParseBonusType(req.Type)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	bonus, err := domain.NewCustomBonus(s.newID(), req.RepID, typ, req.Amount, req.Description, callerID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if _, err := s.store.Reps().FindByID(ctx, req.RepID); err != nil {
		span.RecordError(err)
		return nil, err
	}
	if req.ContestID != nil && *req.ContestID != "" {
		if _, err := s.store.Contests().FindByID(ctx, *req.ContestID); err != nil {
			span.RecordError(err)
			return nil, err
		}
		bonus.ContestID = req.ContestID
	}
	bonus.CreatedAt = s.now()
	if err := s.store.Bonuses().Insert(ctx, bonus); err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.metrics.BonusesAwarded.WithLabelValues(string(bonus.Type)).Inc()
	logger.Ctx(ctx).Info().Str("rep_id", bonus.RepID).Str("bonus_id", bonus.ID).Str("amount", bonus.Amount.String()).Msg("custom bonus awarded")
	s.publish(ctx, domain.Event{
		Type:    domain.EventBonusAwarded,
		RepID:   bonus.RepID,
		BonusID: bonus.ID,
		Amount:  bonus.Amount,
	})
	return bonus, nil
}

// CreateContest 创建竞赛，仅管理员可用
func (s *CommissionService) CreateContest(ctx context.Context, callerID string, req *CreateContestRequest) (*domain.Contest, error) {
	ctx, span := s.tracer.Start(ctx, "service.CreateContest")
	defer span.End()

	if err := s.RequireAdmin(ctx, callerID); err != nil {
		span.RecordError(err)
		return nil, err
	}
	contest, err := domain.NewContest(s.newID(), req.Name, req.StartDate.UTC(), req.EndDate.UTC(), req.PrizeDescription, req.PrizeValue, s.now())
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := s.store.Contests().Insert(ctx, contest); err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("contest.id", contest.ID))
	logger.Ctx(ctx).Info().Str("contest_id", contest.ID).Msg("contest created")
	return contest, nil
}

// RepStats 返回销售的业绩概览，本人或非销售角色可查看
func (s *CommissionService) RepStats(ctx context.Context, callerID, repID string) (*RepStats, error) {
	ctx, span := s.tracer.Start(ctx, "service.RepStats")
	defer span.End()
	span.SetAttributes(attribute.String("rep.id", repID))

	caller, err := s.loadCaller(ctx, callerID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if caller.ID != repID && caller.Role == domain.RoleSalesRep {
		span.RecordError(domain.ErrUnauthorized)
		return nil, domain.ErrUnauthorized
	}
	if _, err := s.store.Reps().FindByID(ctx, repID); err != nil {
		span.RecordError(err)
		return nil, err
	}

	stats := &RepStats{
		RepID:               repID,
		QualifiedByPlatform: make(map[domain.Platform]int64, 2),
		UnpaidCommissions:   decimal.Zero,
		UnpaidBonuses:       decimal.Zero,
	}
	for _, p := range []domain.Platform{domain.PlatformBovada, domain.PlatformChalkboard} {
		platform := p
		n, err := s.store.Signups().CountQualified(ctx, repID, &platform)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		stats.QualifiedByPlatform[p] = n
		stats.TotalQualified += n
	}

	commissions, err := s.store.Commissions().ListUnpaid(ctx, repID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	for _, c := range commissions {
		stats.UnpaidCommissions = stats.UnpaidCommissions.Add(c.Amount)
	}
	bonuses, err := s.store.Bonuses().ListUnpaid(ctx, repID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	for _, b := range bonuses {
		stats.UnpaidBonuses = stats.UnpaidBonuses.Add(b.Amount)
	}

	if next, ok := domain.NextMilestone(stats.TotalQualified); ok {
		threshold := next.Threshold
		stats.NextMilestone = &threshold
		stats.RemainingToNext = int64(threshold) - stats.TotalQualified
	}
	return stats, nil
}

// RecordPayout 把销售所有未结算的佣金和奖金标记为已支付，仅管理员和财务可用
func (s *CommissionService) RecordPayout(ctx context.Context, callerID, repID string) (*PayoutResult, error) {
	ctx, span := s.tracer.Start(ctx, "service.RecordPayout")
	defer span.End()
	span.SetAttributes(attribute.String("rep.id", repID))

	caller, err := s.loadCaller(ctx, callerID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !caller.CanManagePayouts() {
		span.RecordError(domain.ErrUnauthorized)
		return nil, domain.ErrUnauthorized
	}

	unlock, err := s.lockRep(ctx, repID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	defer unlock()

	result := &PayoutResult{RepID: repID, Total: decimal.Zero, PaidAt: s.now()}
	err = s.store.Transaction(ctx, func(tx domain.Store) error {
		if _, err := tx.Reps().LockForUpdate(ctx, repID); err != nil {
			return err
		}
		commissions, err := tx.Commissions().ListUnpaid(ctx, repID)
		if err != nil {
			return err
		}
		bonuses, err := tx.Bonuses().ListUnpaid(ctx, repID)
		if err != nil {
			return err
		}
		if len(commissions) == 0 && len(bonuses) == 0 {
			return domain.ErrNothingToPay
		}

		commissionIDs := make([]string, 0, len(commissions))
		for _, c := range commissions {
			commissionIDs = append(commissionIDs, c.ID)
			result.Total = result.Total.Add(c.Amount)
		}
		bonusIDs := make([]string, 0, len(bonuses))
		for _, b := range bonuses {
			bonusIDs = append(bonusIDs, b.ID)
			result.Total = result.Total.Add(b.Amount)
		}
		result.CommissionCount = len(commissionIDs)
		result.BonusCount = len(bonusIDs)

		if err := tx.Commissions().MarkPaid(ctx, commissionIDs, result.PaidAt); err != nil {
			return err
		}
		return tx.Bonuses().MarkPaid(ctx, bonusIDs, result.PaidAt)
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.metrics.Payouts.Inc()
	logger.Ctx(ctx).Info().Str("rep_id", repID).Str("total", result.Total.String()).Str("paid_by", callerID).Msg("payout recorded")
	s.publish(ctx, domain.Event{
		Type:   domain.EventPayoutRecorded,
		RepID:  repID,
		Amount: result.Total,
	})
	return result, nil
}

// HandlePlatformActivity 处理合作平台回传的客户活动：记录入金，满足规则时自动 qualify。
// 已经不是 pending 的 signup 直接跳过，重复投递是安全的。
func (s *CommissionService) HandlePlatformActivity(ctx context.Context, evt domain.PlatformActivityEvent) error {
	ctx, span := s.tracer.Start(ctx, "service.HandlePlatformActivity")
	defer span.End()
	span.SetAttributes(attribute.String("signup.id", evt.SignupID), attribute.String("event.id", evt.EventID))
	log := logger.Ctx(ctx).With().Str("signup_id", evt.SignupID).Str("event_id", evt.EventID).Logger()

	if evt.SignupID == "" {
		err := domain.InvalidInputf("signup_id is required")
		span.RecordError(err)
		return err
	}
	signup, err := s.store.Signups().FindByID(ctx, evt.SignupID)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if signup.Status != domain.SignupPending {
		log.Debug().Str("status", string(signup.Status)).Msg("signup already settled, skipping activity")
		return nil
	}
	if evt.Platform == "" {
		evt.Platform = signup.Platform
	}
	if evt.Platform != signup.Platform {
		err := domain.InvalidInputf("activity platform %s does not match signup platform %s", evt.Platform, signup.Platform)
		span.RecordError(err)
		return err
	}

	if evt.DepositAmount != "" {
		if err := s.store.Signups().UpdateDeposit(ctx, signup.ID, evt.DepositAmount); err != nil {
			if errors.Is(err, domain.ErrInvalidTransition) {
				return nil
			}
			span.RecordError(err)
			return err
		}
	} else if signup.DepositAmount != nil {
		// 入金和 KYC 可能分开回传，规则按已记录的入金判断
		evt.DepositAmount = *signup.DepositAmount
	}

	if s.rules == nil {
		return nil
	}
	passed, err := s.rules.Evaluate(ctx, evt)
	if err != nil {
		span.RecordError(err)
		return err
	}
	span.SetAttributes(attribute.Bool("rule.passed", passed))
	if !passed {
		log.Debug().Msg("qualification rule not satisfied yet")
		return nil
	}

	if _, err := s.QualifySignup(ctx, signup.ID); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			return nil
		}
		span.RecordError(err)
		return err
	}
	log.Info().Msg("signup auto-qualified from platform activity")
	return nil
}
