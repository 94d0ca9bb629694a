// Package access decides whether a request may act under a required role.
// Route guards and handlers call the evaluator instead of inspecting
// sessions themselves.
package access

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/campuseventhub/internal/auth"
	"anoa.com/campuseventhub/internal/entity"
	userRepo "anoa.com/campuseventhub/internal/modules/user/repository"
	"anoa.com/campuseventhub/pkg/apperror"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Decision int

const (
	// Deny is a definitive refusal: no session, unknown profile, role
	// mismatch, or a pending society account.
	Deny Decision = iota
	Allow
	// Unknown means the profile store could not answer. Callers should
	// surface a retry, not a redirect.
	Unknown
)

type Evaluator struct {
	profiles userRepo.ProfileRepository
	revoker  auth.Revoker
	logger   *zap.Logger
}

func NewEvaluator(profiles userRepo.ProfileRepository, revoker auth.Revoker, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{
		profiles: profiles,
		revoker:  revoker,
		logger:   logger,
	}
}

// Evaluate resolves an auth context against a required role. On Allow with
// a real session the matched profile is returned; the local override
// carries no profile. A pending society is denied and its session revoked,
// so an admin approval always requires a fresh login to take effect.
func (e *Evaluator) Evaluate(ctx context.Context, ac auth.Context, required entity.Role) (*entity.Profile, Decision, error) {
	if ac == nil {
		return nil, Deny, apperror.ErrUnauthorized
	}

	switch v := ac.(type) {
	case auth.LocalOverride:
		if required == entity.RoleAdmin {
			return nil, Allow, nil
		}
		return nil, Deny, apperror.ErrForbidden

	case auth.Session:
		profile, err := e.profiles.FindByID(ctx, v.ProfileID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, Deny, apperror.ErrUnauthorized
			}
			return nil, Unknown, fmt.Errorf("%w: %v", apperror.ErrUnavailable, err)
		}

		if profile.Role != required {
			return nil, Deny, apperror.ErrForbidden
		}

		if profile.Role == entity.RoleSociety && profile.Status == entity.StatusPending {
			if err := e.revoker.Revoke(ctx, &v); err != nil {
				e.logger.Warn("failed to revoke pending society session",
					zap.String("profile_id", v.ProfileID.String()),
					zap.Error(err))
			}
			return nil, Deny, apperror.ErrPendingApproval
		}

		return profile, Allow, nil

	default:
		return nil, Deny, apperror.ErrUnauthorized
	}
}
