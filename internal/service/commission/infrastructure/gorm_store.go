package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"affiliatehub/internal/service/commission/domain"
)

// GormStore 是 domain.Store 的 GORM 实现，db 可能是普通连接也可能是事务。
type GormStore struct {
	db *gorm.DB
}

// NewGormStore 创建一个新的 GORM 仓储集合
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Reps() domain.RepRepository               { return &gormRepRepo{db: s.db} }
func (s *GormStore) Signups() domain.SignupRepository         { return &gormSignupRepo{db: s.db} }
func (s *GormStore) Commissions() domain.CommissionRepository { return &gormCommissionRepo{db: s.db} }
func (s *GormStore) Bonuses() domain.BonusRepository          { return &gormBonusRepo{db: s.db} }
func (s *GormStore) Contests() domain.ContestRepository       { return &gormContestRepo{db: s.db} }

// Transaction 在一个数据库事务中执行 fn，fn 的错误原样返回，提交失败归为持久化错误。
func (s *GormStore) Transaction(ctx context.Context, fn func(tx domain.Store) error) error {
	var fnErr error
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(&GormStore{db: tx})
		return fnErr
	})
	if err != nil && fnErr == nil {
		return wrapDBErr(err, "transaction")
	}
	return err
}

// wrapDBErr 把驱动错误归类为 ErrPersistenceUnavailable，同时保留原始原因。
func wrapDBErr(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%w: %w", domain.ErrPersistenceUnavailable, pkgerrors.Wrap(err, op))
}

// isDuplicateKey 识别唯一键冲突。TranslateError 打开时 GORM 会转换为 ErrDuplicatedKey，
// 这里再兜底识别 MySQL 1062 和 SQLite 的原始错误。
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

type gormRepRepo struct {
	db *gorm.DB
}

func (r *gormRepRepo) Insert(ctx context.Context, rep *domain.SalesRep) error {
	if err := r.db.WithContext(ctx).Create(FromDomainRep(rep)).Error; err != nil {
		if isDuplicateKey(err) {
			return domain.InvalidInputf("email %s is already registered", rep.Email)
		}
		return wrapDBErr(err, "insert sales rep")
	}
	return nil
}

func (r *gormRepRepo) FindByID(ctx context.Context, id string) (*domain.SalesRep, error) {
	var m SalesRepModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, wrapDBErr(err, "find sales rep")
	}
	return ToDomainRep(&m), nil
}

func (r *gormRepRepo) Update(ctx context.Context, rep *domain.SalesRep) error {
	res := r.db.WithContext(ctx).Model(&SalesRepModel{}).Where("id = ?", rep.ID).Updates(map[string]interface{}{
		"name":       rep.Name,
		"role":       rep.Role,
		"active":     rep.Active,
		"updated_at": rep.UpdatedAt,
	})
	if res.Error != nil {
		return wrapDBErr(res.Error, "update sales rep")
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LockForUpdate 对 MySQL 生成 SELECT ... FOR UPDATE；SQLite 方言会忽略锁子句。
func (r *gormRepRepo) LockForUpdate(ctx context.Context, id string) (*domain.SalesRep, error) {
	var m SalesRepModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		return nil, wrapDBErr(err, "lock sales rep")
	}
	return ToDomainRep(&m), nil
}

type gormSignupRepo struct {
	db *gorm.DB
}

func (r *gormSignupRepo) Insert(ctx context.Context, s *domain.Signup) error {
	if err := r.db.WithContext(ctx).Create(FromDomainSignup(s)).Error; err != nil {
		return wrapDBErr(err, "insert signup")
	}
	return nil
}

func (r *gormSignupRepo) FindByID(ctx context.Context, id string) (*domain.Signup, error) {
	var m SignupModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, wrapDBErr(err, "find signup")
	}
	return ToDomainSignup(&m), nil
}

// UpdateStatus 以 from 作为条件做乐观更新，防止并发请求重复转换状态。
func (r *gormSignupRepo) UpdateStatus(ctx context.Context, s *domain.Signup, from domain.SignupStatus) error {
	res := r.db.WithContext(ctx).Model(&SignupModel{}).
		Where("id = ? AND status = ?", s.ID, from).
		Updates(map[string]interface{}{
			"status":           s.Status,
			"qualified_at":     toNullTime(s.QualifiedAt),
			"rejected_at":      toNullTime(s.RejectedAt),
			"rejection_reason": s.RejectionReason,
			"updated_at":       s.UpdatedAt,
		})
	if res.Error != nil {
		return wrapDBErr(res.Error, "update signup status")
	}
	if res.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, s.ID); err != nil {
			return err
		}
		return domain.ErrInvalidTransition
	}
	return nil
}

func (r *gormSignupRepo) UpdateDeposit(ctx context.Context, id string, amount string) error {
	res := r.db.WithContext(ctx).Model(&SignupModel{}).
		Where("id = ? AND status = ?", id, domain.SignupPending).
		Updates(map[string]interface{}{
			"deposit_amount": amount,
			"updated_at":     time.Now().UTC(),
		})
	if res.Error != nil {
		return wrapDBErr(res.Error, "update signup deposit")
	}
	if res.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrInvalidTransition
	}
	return nil
}

func (r *gormSignupRepo) CountQualified(ctx context.Context, repID string, platform *domain.Platform) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&SignupModel{}).
		Where("rep_id = ? AND status = ?", repID, domain.SignupQualified)
	if platform != nil {
		q = q.Where("platform = ?", *platform)
	}
	if err := q.Count(&n).Error; err != nil {
		return 0, wrapDBErr(err, "count qualified signups")
	}
	return n, nil
}

func (r *gormSignupRepo) ListQualifiedInPeriod(ctx context.Context, start, end time.Time) ([]*domain.Signup, error) {
	var models []SignupModel
	err := r.db.WithContext(ctx).
		Where("status = ? AND signup_date >= ? AND signup_date <= ?", domain.SignupQualified, start, end).
		Order("signup_date ASC").Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, wrapDBErr(err, "list qualified signups")
	}
	out := make([]*domain.Signup, 0, len(models))
	for i := range models {
		out = append(out, ToDomainSignup(&models[i]))
	}
	return out, nil
}

type gormCommissionRepo struct {
	db *gorm.DB
}

func (r *gormCommissionRepo) Insert(ctx context.Context, c *domain.Commission) error {
	if err := r.db.WithContext(ctx).Create(FromDomainCommission(c)).Error; err != nil {
		if isDuplicateKey(err) {
			return domain.ErrInvalidTransition
		}
		return wrapDBErr(err, "insert commission")
	}
	return nil
}

func (r *gormCommissionRepo) FindBySignupID(ctx context.Context, signupID string) (*domain.Commission, error) {
	var m CommissionModel
	if err := r.db.WithContext(ctx).Where("signup_id = ?", signupID).First(&m).Error; err != nil {
		return nil, wrapDBErr(err, "find commission")
	}
	return ToDomainCommission(&m), nil
}

func (r *gormCommissionRepo) ListUnpaid(ctx context.Context, repID string) ([]*domain.Commission, error) {
	var models []CommissionModel
	err := r.db.WithContext(ctx).
		Where("rep_id = ? AND paid_at IS NULL", repID).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, wrapDBErr(err, "list unpaid commissions")
	}
	out := make([]*domain.Commission, 0, len(models))
	for i := range models {
		out = append(out, ToDomainCommission(&models[i]))
	}
	return out, nil
}

func (r *gormCommissionRepo) MarkPaid(ctx context.Context, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Model(&CommissionModel{}).
		Where("id IN ? AND paid_at IS NULL", ids).
		Update("paid_at", at).Error
	return wrapDBErr(err, "mark commissions paid")
}

type gormBonusRepo struct {
	db *gorm.DB
}

// Insert 依赖 (rep_id, type, milestone) 唯一索引，并发插入时后到者得到 ErrDuplicateMilestoneBonus。
func (r *gormBonusRepo) Insert(ctx context.Context, b *domain.Bonus) error {
	if err := r.db.WithContext(ctx).Create(FromDomainBonus(b)).Error; err != nil {
		if isDuplicateKey(err) {
			if b.Milestone != nil {
				return &domain.DuplicateMilestoneError{Milestone: *b.Milestone}
			}
			return domain.ErrDuplicateMilestoneBonus
		}
		return wrapDBErr(err, "insert bonus")
	}
	return nil
}

func (r *gormBonusRepo) FindMilestoneBonus(ctx context.Context, repID string, milestone int) (*domain.Bonus, error) {
	var m BonusModel
	err := r.db.WithContext(ctx).
		Where("rep_id = ? AND type = ? AND milestone = ?", repID, domain.BonusMilestone, milestone).
		First(&m).Error
	if err != nil {
		return nil, wrapDBErr(err, "find milestone bonus")
	}
	return ToDomainBonus(&m), nil
}

func (r *gormBonusRepo) ListUnpaid(ctx context.Context, repID string) ([]*domain.Bonus, error) {
	var models []BonusModel
	err := r.db.WithContext(ctx).
		Where("rep_id = ? AND paid_at IS NULL", repID).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, wrapDBErr(err, "list unpaid bonuses")
	}
	out := make([]*domain.Bonus, 0, len(models))
	for i := range models {
		out = append(out, ToDomainBonus(&models[i]))
	}
	return out, nil
}

func (r *gormBonusRepo) MarkPaid(ctx context.Context, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Model(&BonusModel{}).
		Where("id IN ? AND paid_at IS NULL", ids).
		Update("paid_at", at).Error
	return wrapDBErr(err, "mark bonuses paid")
}

type gormContestRepo struct {
	db *gorm.DB
}

func (r *gormContestRepo) Insert(ctx context.Context, c *domain.Contest) error {
	if err := r.db.WithContext(ctx).Create(FromDomainContest(c)).Error; err != nil {
		return wrapDBErr(err, "insert contest")
	}
	return nil
}

func (r *gormContestRepo) FindByID(ctx context.Context, id string) (*domain.Contest, error) {
	var m ContestModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, wrapDBErr(err, "find contest")
	}
	return ToDomainContest(&m), nil
}
