package service

import (
	"context"
	"errors"

	"github.com/cuckooblock/vendor-portal/internal/app/model"
	"github.com/cuckooblock/vendor-portal/internal/app/repository"
	"github.com/cuckooblock/vendor-portal/internal/app/workflow"
	"github.com/cuckooblock/vendor-portal/pkg/logger"
)

var (
	ErrRoleLookup = errors.New("role lookup failed")
	ErrNotAdmin   = workflow.ErrNotAdmin
)

// RoleLookupError carries the store's message when a caller's profile could
// not be read. Error returns that message unchanged.
type RoleLookupError struct {
	Err error
}

func (e *RoleLookupError) Error() string        { return e.Err.Error() }
func (e *RoleLookupError) Unwrap() error        { return e.Err }
func (e *RoleLookupError) Is(target error) bool { return target == ErrRoleLookup }

type AccessService interface {
	// ResolveRole always returns a usable role. On failure it is RoleVendor
	// and the error is a *RoleLookupError.
	ResolveRole(ctx context.Context, userID string) (workflow.Role, error)
	RequireAdmin(ctx context.Context, userID string) error
	PromoteToAdmin(ctx context.Context, userID string) error
}

type accessService struct {
	profileRepo repository.ProfileRepository
}

func NewAccessService(profileRepo repository.ProfileRepository) AccessService {
	return &accessService{profileRepo: profileRepo}
}

func (s *accessService) ResolveRole(ctx context.Context, userID string) (workflow.Role, error) {
	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		return workflow.RoleVendor, &RoleLookupError{Err: err}
	}
	return workflow.ParseRole(profile.Role), nil
}

func (s *accessService) RequireAdmin(ctx context.Context, userID string) error {
	role, err := s.ResolveRole(ctx, userID)
	if err != nil {
		return err
	}
	if err := workflow.Authorize(role, workflow.RoleAdmin); err != nil {
		logger.Warn("Admin access denied", map[string]interface{}{
			"user_id": userID,
			"role":    role,
		})
		return err
	}
	return nil
}

func (s *accessService) PromoteToAdmin(ctx context.Context, userID string) error {
	if err := s.profileRepo.Upsert(ctx, &model.UserProfile{ID: userID, Role: string(workflow.RoleAdmin)}); err != nil {
		return err
	}
	logger.Info("Account promoted to admin", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}
