package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/explore-taroudant/explore-api/internal/core/domain"
	"github.com/explore-taroudant/explore-api/internal/core/ports"
)

// GuideService manages the caller's own guide profile.
type GuideService struct {
	guides ports.GuideProfileRepository
	logger zerolog.Logger
}

func NewGuideService(guides ports.GuideProfileRepository, logger zerolog.Logger) *GuideService {
	return &GuideService{guides: guides, logger: logger}
}

func (s *GuideService) Profile(ctx context.Context, actor *domain.User) (*domain.GuideProfile, error) {
	if actor == nil || actor.Role != domain.RoleGuide {
		return nil, domain.ErrForbidden
	}
	return s.guides.FindByUserID(ctx, actor.ID)
}

func (s *GuideService) UpdateProfile(ctx context.Context, actor *domain.User, bio, languages string) (*domain.GuideProfile, error) {
	profile, err := s.Profile(ctx, actor)
	if err != nil {
		return nil, err
	}
	profile.Bio = bio
	profile.Languages = languages
	profile.UpdatedAt = nowFunc().UTC()
	if err := s.guides.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("update guide profile: %w", err)
	}
	s.logger.Info().Str("user", actor.ID).Msg("guide profile updated")
	return profile, nil
}

// AccountService is the administrator's view of user accounts.
type AccountService struct {
	users  ports.UserRepository
	guides ports.GuideProfileRepository
	logger zerolog.Logger
}

func NewAccountService(users ports.UserRepository, guides ports.GuideProfileRepository, logger zerolog.Logger) *AccountService {
	return &AccountService{users: users, guides: guides, logger: logger}
}

// List returns every account, or only those holding role when it is set.
func (s *AccountService) List(ctx context.Context, admin *domain.User, role string) ([]*domain.User, error) {
	if !admin.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if role == "" {
		return s.users.FindAll(ctx)
	}
	r, ok := domain.ParseRole(strings.ToUpper(role))
	if !ok {
		return nil, domain.Invalid("unknown role " + role)
	}
	return s.users.FindByRole(ctx, r)
}

// SetGuideStatus activates or suspends a guide account.
func (s *AccountService) SetGuideStatus(ctx context.Context, admin *domain.User, guideID string, status domain.AccountStatus) (*domain.User, error) {
	if !admin.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	switch status {
	case domain.AccountActive, domain.AccountSuspended, domain.AccountPending:
	default:
		return nil, domain.ErrInvalidStatusValue
	}

	user, err := s.findWithRole(ctx, guideID, domain.RoleGuide)
	if err != nil {
		return nil, err
	}
	user.Status = status
	user.UpdatedAt = nowFunc().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("set guide status: %w", err)
	}
	s.logger.Info().Str("guide", guideID).Str("status", string(status)).Str("admin", admin.ID).Msg("guide status updated")
	return user, nil
}

// DeleteGuide removes a guide account together with its profile.
func (s *AccountService) DeleteGuide(ctx context.Context, admin *domain.User, guideID string) error {
	if !admin.IsAdmin() {
		return domain.ErrForbidden
	}
	if _, err := s.findWithRole(ctx, guideID, domain.RoleGuide); err != nil {
		return err
	}
	if err := s.guides.DeleteByUserID(ctx, guideID); err != nil && !errors.Is(err, domain.ErrProfileMissing) {
		return fmt.Errorf("delete guide profile: %w", err)
	}
	if err := s.users.Delete(ctx, guideID); err != nil {
		return fmt.Errorf("delete guide: %w", err)
	}
	s.logger.Info().Str("guide", guideID).Str("admin", admin.ID).Msg("guide deleted")
	return nil
}

func (s *AccountService) DeleteTourist(ctx context.Context, admin *domain.User, touristID string) error {
	if !admin.IsAdmin() {
		return domain.ErrForbidden
	}
	if _, err := s.findWithRole(ctx, touristID, domain.RoleTourist); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, touristID); err != nil {
		return fmt.Errorf("delete tourist: %w", err)
	}
	s.logger.Info().Str("tourist", touristID).Str("admin", admin.ID).Msg("tourist deleted")
	return nil
}

// findWithRole loads id and requires it to hold role; a mismatch reads as
// not found.
func (s *AccountService) findWithRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role != role {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}
