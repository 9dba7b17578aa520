package domain

import (
	"strings"
	"time"
)

// Role 是后台用户的角色
type Role string

const (
	RoleSalesRep Role = "sales_rep"
	RoleAdmin    Role = "admin"
	RoleFinance  Role = "finance"
	RoleManager  Role = "manager"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSalesRep, RoleAdmin, RoleFinance, RoleManager:
		return true
	}
	return false
}

// SalesRep 是后台用户。销售与管理员共用一张表，从不物理删除。
type SalesRep struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Active    bool      `json:"active"`
	HireDate  time.Time `json:"hire_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSalesRep 校验并创建一个在职用户。
func NewSalesRep(id, name, email string, role Role, hireDate, now time.Time) (*SalesRep, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" {
		return nil, InvalidInputf("name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, InvalidInputf("email %q is invalid", email)
	}
	if !role.Valid() {
		return nil, InvalidInputf("role %q is invalid", role)
	}
	if hireDate.IsZero() {
		hireDate = now
	}
	return &SalesRep{
		ID:        id,
		Name:      name,
		Email:     email,
		Role:      role,
		Active:    true,
		HireDate:  hireDate,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Deactivate 软删除
func (r *SalesRep) Deactivate(now time.Time) {
	r.Active = false
	r.UpdatedAt = now
}

// CanManagePayouts 管理员和财务可以发放佣金
func (r *SalesRep) CanManagePayouts() bool {
	return r.Active && (r.Role == RoleAdmin || r.Role == RoleFinance)
}
