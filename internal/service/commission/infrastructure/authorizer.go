package infrastructure

import (
	"context"
	"errors"

	"affiliatehub/internal/service/commission/domain"
)

// RepRoleAuthorizer 以数据库中的角色为准判断管理员身份，token 里的角色只用于展示。
type RepRoleAuthorizer struct {
	store domain.Store
}

func NewRepRoleAuthorizer(store domain.Store) *RepRoleAuthorizer {
	return &RepRoleAuthorizer{store: store}
}

func (a *RepRoleAuthorizer) IsAdmin(ctx context.Context, callerID string) (bool, error) {
	rep, err := a.store.Reps().FindByID(ctx, callerID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return rep.Active && rep.Role == domain.RoleAdmin, nil
}
