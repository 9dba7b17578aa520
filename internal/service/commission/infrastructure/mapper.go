package infrastructure

import (
	"database/sql"
	"time"

	"affiliatehub/internal/service/commission/domain"
)

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func fromNullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func ToDomainRep(m *SalesRepModel) *domain.SalesRep {
	if m == nil {
		return nil
	}
	return &domain.SalesRep{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Role:      m.Role,
		Active:    m.Active,
		HireDate:  m.HireDate,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func FromDomainRep(r *domain.SalesRep) *SalesRepModel {
	return &SalesRepModel{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Role:      r.Role,
		Active:    r.Active,
		HireDate:  r.HireDate,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func ToDomainSignup(m *SignupModel) *domain.Signup {
	if m == nil {
		return nil
	}
	return &domain.Signup{
		ID:              m.ID,
		RepID:           m.RepID,
		Platform:        m.Platform,
		CustomerName:    m.CustomerName,
		CustomerEmail:   m.CustomerEmail,
		DepositAmount:   fromNullString(m.DepositAmount),
		Status:          m.Status,
		SignupDate:      m.SignupDate,
		QualifiedAt:     fromNullTime(m.QualifiedAt),
		RejectedAt:      fromNullTime(m.RejectedAt),
		RejectionReason: m.RejectionReason,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func FromDomainSignup(s *domain.Signup) *SignupModel {
	return &SignupModel{
		ID:              s.ID,
		RepID:           s.RepID,
		Platform:        s.Platform,
		CustomerName:    s.CustomerName,
		CustomerEmail:   s.CustomerEmail,
		DepositAmount:   toNullString(s.DepositAmount),
		Status:          s.Status,
		SignupDate:      s.SignupDate,
		QualifiedAt:     toNullTime(s.QualifiedAt),
		RejectedAt:      toNullTime(s.RejectedAt),
		RejectionReason: s.RejectionReason,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func ToDomainCommission(m *CommissionModel) *domain.Commission {
	if m == nil {
		return nil
	}
	return &domain.Commission{
		ID:            m.ID,
		SignupID:      m.SignupID,
		RepID:         m.RepID,
		Platform:      m.Platform,
		Amount:        m.Amount,
		IsFirstSignup: m.IsFirstSignup,
		CreatedAt:     m.CreatedAt,
		PaidAt:        fromNullTime(m.PaidAt),
	}
}

func FromDomainCommission(c *domain.Commission) *CommissionModel {
	return &CommissionModel{
		ID:            c.ID,
		SignupID:      c.SignupID,
		RepID:         c.RepID,
		Platform:      c.Platform,
		Amount:        c.Amount,
		IsFirstSignup: c.IsFirstSignup,
		CreatedAt:     c.CreatedAt,
		PaidAt:        toNullTime(c.PaidAt),
	}
}

func ToDomainBonus(m *BonusModel) *domain.Bonus {
	if m == nil {
		return nil
	}
	b := &domain.Bonus{
		ID:          m.ID,
		RepID:       m.RepID,
		Type:        m.Type,
		Amount:      m.Amount,
		Description: m.Description,
		ContestID:   fromNullString(m.ContestID),
		AwardedBy:   m.AwardedBy,
		CreatedAt:   m.CreatedAt,
		PaidAt:      fromNullTime(m.PaidAt),
	}
	if m.Milestone.Valid {
		v := int(m.Milestone.Int64)
		b.Milestone = &v
	}
	return b
}

func FromDomainBonus(b *domain.Bonus) *BonusModel {
	m := &BonusModel{
		ID:          b.ID,
		RepID:       b.RepID,
		Type:        b.Type,
		Amount:      b.Amount,
		Description: b.Description,
		ContestID:   toNullString(b.ContestID),
		AwardedBy:   b.AwardedBy,
		CreatedAt:   b.CreatedAt,
		PaidAt:      toNullTime(b.PaidAt),
	}
	if b.Milestone != nil {
		m.Milestone = sql.NullInt64{Int64: int64(*b.Milestone), Valid: true}
	}
	return m
}

func ToDomainContest(m *ContestModel) *domain.Contest {
	if m == nil {
		return nil
	}
	return &domain.Contest{
		ID:               m.ID,
		Name:             m.Name,
		StartDate:        m.StartDate,
		EndDate:          m.EndDate,
		PrizeDescription: m.PrizeDescription,
		PrizeValue:       m.PrizeValue,
		Active:           m.Active,
		CreatedAt:        m.CreatedAt,
	}
}

func FromDomainContest(c *domain.Contest) *ContestModel {
	return &ContestModel{
		ID:               c.ID,
		Name:             c.Name,
		StartDate:        c.StartDate,
		EndDate:          c.EndDate,
		PrizeDescription: c.PrizeDescription,
		PrizeValue:       c.PrizeValue,
		Active:           c.Active,
		CreatedAt:        c.CreatedAt,
	}
}
