package ports

import (
	"context"

	"github.com/explore-taroudant/explore-api/internal/core/domain"
)

// UserRepository persists accounts. FindBy* return domain.ErrUserNotFound
// when nothing matches; Create returns domain.ErrEmailTaken on a duplicate email.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
}

// GuideProfileRepository persists guide profiles. A missing profile is
// reported as domain.ErrProfileMissing.
type GuideProfileRepository interface {
	FindByUserID(ctx context.Context, userID string) (*domain.GuideProfile, error)
	Save(ctx context.Context, profile *domain.GuideProfile) error
	DeleteByUserID(ctx context.Context, userID string) error
}
