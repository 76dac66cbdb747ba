package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/restoflow/leads-api/internal/entity"
)

// ResolveUser turns an opaque session token into a User, or nil. Auth errors
// never cross this boundary: any failure to resolve an identity is treated
// as "not signed in" and the guards redirect.
type ResolveUser struct {
	Identity IdentityProvider
	Roles    entity.RoleRepositoryInterface
	Logger   *zap.Logger
}

func NewResolveUser(identity IdentityProvider, roles entity.RoleRepositoryInterface, logger *zap.Logger) *ResolveUser {
	return &ResolveUser{
		Identity: identity,
		Roles:    roles,
		Logger:   logger,
	}
}

func (uc *ResolveUser) Execute(ctx context.Context, accessToken string) *entity.User {
	if accessToken == "" || uc.Identity == nil {
		return nil
	}

	identity, err := uc.Identity.GetIdentity(ctx, accessToken)
	if err != nil || identity == nil || identity.ID == "" {
		if err != nil {
			uc.Logger.Debug("identity resolution failed", zap.Error(err))
		}
		return nil
	}

	// Missing role row defaults to affiliate. Intentional fail-safe: a new
	// user never gains admin by accident, but a provisioning miss silently
	// downgrades an intended admin, hence the warn.
	role := entity.RoleAffiliate
	if uc.Roles != nil {
		r, err := uc.Roles.FindByUserID(ctx, identity.ID)
		switch {
		case err != nil:
			uc.Logger.Warn("role lookup failed, defaulting to affiliate",
				zap.String("user_id", identity.ID),
				zap.Error(err),
			)
		case r == "":
			uc.Logger.Warn("no role row for user, defaulting to affiliate",
				zap.String("user_id", identity.ID),
			)
		default:
			role = r
		}
	}

	return &entity.User{
		ID:    identity.ID,
		Email: identity.Email,
		Role:  role,
	}
}
