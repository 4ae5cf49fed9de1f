package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mrezan/sms-dashboard/internal/authz"
	"github.com/mrezan/sms-dashboard/internal/model"
	"github.com/mrezan/sms-dashboard/internal/repository"
	"github.com/mrezan/sms-dashboard/pkg/logger"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrForbidden       = errors.New("operation not permitted for this role")
	ErrSelfDelete      = errors.New("cannot delete your own account")
)

type ProfileRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	List(ctx context.Context) ([]*model.Profile, error)
	Create(ctx context.Context, p *model.Profile) (*model.Profile, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProfileService struct {
	profileRepo ProfileRepository
}

func NewProfileService(profileRepo ProfileRepository) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
	}
}

// Get looks up a single profile by its provider-assigned id.
func (s *ProfileService) Get(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	p, err := s.profileRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return p, nil
}

// Ensure creates the profile row for an authenticated account if it does
// not exist yet. Repeated calls for the same id return the existing row
// untouched, so the dashboard can call this on every login.
func (s *ProfileService) Ensure(ctx context.Context, p model.ProfileCreateRequest) (*model.Profile, bool, error) {
	if err := p.Validate(); err != nil {
		return nil, false, err
	}

	existing, err := s.profileRepo.Get(ctx, p.UserID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrProfileNotFound) {
		return nil, false, err
	}

	created, err := s.profileRepo.Create(ctx, &model.Profile{
		ID:    p.UserID,
		Name:  p.Name,
		Email: p.Email,
		Role:  p.Role,
	})
	if err != nil {
		return nil, false, err
	}
	logger.Info("profile created", "user_id", p.UserID.String(), "role", string(p.Role))
	return created, true, nil
}

// List returns every account, oldest first. Only admins and superadmins
// may see the list.
func (s *ProfileService) List(ctx context.Context, actor model.Role) ([]*model.Profile, error) {
	if !authz.CanViewUsers(actor) {
		return nil, ErrForbidden
	}
	return s.profileRepo.List(ctx)
}

// UpdateRole changes target's role on behalf of actor. The actor's own
// role decides reach: admins may only touch plain users, and only a
// superadmin can mint another superadmin.
func (s *ProfileService) UpdateRole(ctx context.Context, actor model.Role, targetID uuid.UUID, role model.Role) error {
	target, err := s.profileRepo.Get(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return ErrProfileNotFound
		}
		return err
	}

	if !authz.CanEditUser(actor, target.Role) {
		return ErrForbidden
	}
	if !authz.CanAssignRole(actor, role) {
		return ErrForbidden
	}

	if err := s.profileRepo.UpdateRole(ctx, targetID, role); err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return ErrProfileNotFound
		}
		return err
	}
	logger.Info("role updated", "user_id", targetID.String(), "role", string(role))
	return nil
}

// Delete removes target's account on behalf of actor. A superadmin
// account is never deletable, not even by another superadmin, and no
// one may delete themselves.
func (s *ProfileService) Delete(ctx context.Context, actorID uuid.UUID, actor model.Role, targetID uuid.UUID) error {
	if actorID == targetID {
		return ErrSelfDelete
	}

	target, err := s.profileRepo.Get(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return ErrProfileNotFound
		}
		return err
	}

	if !authz.CanDeleteUser(actor, target.Role) {
		return ErrForbidden
	}

	if err := s.profileRepo.Delete(ctx, targetID); err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return ErrProfileNotFound
		}
		return err
	}
	logger.Info("profile deleted", "user_id", targetID.String())
	return nil
}
