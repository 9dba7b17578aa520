package infrastructure

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"affiliatehub/internal/service/commission/domain"
)

// SalesRepModel 对应 sales_reps 表
type SalesRepModel struct {
	ID        string      `gorm:"primaryKey;size:36"`
	Name      string      `gorm:"size:128;not null"`
	Email     string      `gorm:"size:191;uniqueIndex;not null"`
	Role      domain.Role `gorm:"size:16;not null;default:sales_rep"`
	Active    bool        `gorm:"not null;default:true"`
	HireDate  time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (SalesRepModel) TableName() string {
	return "sales_reps"
}

// SignupModel 对应 signups 表
type SignupModel struct {
	ID              string              `gorm:"primaryKey;size:36"`
	RepID           string              `gorm:"size:36;not null;index:idx_signup_rep_status,priority:1"`
	Platform        domain.Platform     `gorm:"size:16;not null"`
	CustomerName    string              `gorm:"size:128;not null"`
	CustomerEmail   string              `gorm:"size:191"`
	DepositAmount   sql.NullString      `gorm:"size:32"`
	Status          domain.SignupStatus `gorm:"size:16;not null;default:pending;index:idx_signup_rep_status,priority:2"`
	SignupDate      time.Time           `gorm:"not null;index"`
	QualifiedAt     sql.NullTime
	RejectedAt      sql.NullTime
	RejectionReason string `gorm:"size:255"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (SignupModel) TableName() string {
	return "signups"
}

// CommissionModel 对应 commissions 表，signup_id 唯一保证一对一
type CommissionModel struct {
	ID            string          `gorm:"primaryKey;size:36"`
	SignupID      string          `gorm:"size:36;not null;uniqueIndex"`
	RepID         string          `gorm:"size:36;not null;index"`
	Platform      domain.Platform `gorm:"size:16;not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IsFirstSignup bool            `gorm:"not null;default:false"`
	CreatedAt     time.Time
	PaidAt        sql.NullTime
}

func (CommissionModel) TableName() string {
	return "commissions"
}

// BonusModel 对应 bonuses 表。
// milestone 为 NULL 的行不受唯一索引约束，手动奖金因此不会互相冲突。
type BonusModel struct {
	ID          string           `gorm:"primaryKey;size:36"`
	RepID       string           `gorm:"size:36;not null;uniqueIndex:uk_bonus_rep_type_milestone,priority:1"`
	Type        domain.BonusType `gorm:"size:16;not null;uniqueIndex:uk_bonus_rep_type_milestone,priority:2"`
	Milestone   sql.NullInt64    `gorm:"uniqueIndex:uk_bonus_rep_type_milestone,priority:3"`
	Amount      decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	Description string           `gorm:"size:255;not null"`
	ContestID   sql.NullString   `gorm:"size:36"`
	AwardedBy   string           `gorm:"size:36"`
	CreatedAt   time.Time
	PaidAt      sql.NullTime
}

func (BonusModel) TableName() string {
	return "bonuses"
}

// ContestModel 对应 contests 表
type ContestModel struct {
	ID               string          `gorm:"primaryKey;size:36"`
	Name             string          `gorm:"size:128;not null"`
	StartDate        time.Time       `gorm:"not null"`
	EndDate          time.Time       `gorm:"not null"`
	PrizeDescription string          `gorm:"size:255"`
	PrizeValue       decimal.Decimal `gorm:"type:decimal(12,2)"`
	Active           bool            `gorm:"not null;default:true"`
	CreatedAt        time.Time
}

func (ContestModel) TableName() string {
	return "contests"
}

// AllModels 供 AutoMigrate 使用
func AllModels() []interface{} {
	return []interface{}{
		&SalesRepModel{},
		&SignupModel{},
		&CommissionModel{},
		&BonusModel{},
		&ContestModel{},
	}
}
