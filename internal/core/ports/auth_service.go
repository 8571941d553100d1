package ports

import (
	"context"

	"github.com/explore-taroudant/explore-api/internal/core/domain"
)

// RegisterInput carries a self-registration request. Bio and Languages seed
// the guide profile of a GUIDE account.
type RegisterInput struct {
	FullName  string
	Email     string
	Password  string
	Phone     string
	Role      string
	Bio       string
	Languages string
}

// ProfileUpdate carries the self-editable account fields. Empty fields are
// left unchanged.
type ProfileUpdate struct {
	FullName string
	Email    string
	Phone    string
	Password string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*domain.User, error)
}

type GuideService interface {
	Profile(ctx context.Context, actor *domain.User) (*domain.GuideProfile, error)
	UpdateProfile(ctx context.Context, actor *domain.User, bio, languages string) (*domain.GuideProfile, error)
}

// AccountService is the administrative view of user accounts.
type AccountService interface {
	List(ctx context.Context, admin *domain.User, role string) ([]*domain.User, error)
	SetGuideStatus(ctx context.Context, admin *domain.User, guideID string, status domain.AccountStatus) (*domain.User, error)
	DeleteGuide(ctx context.Context, admin *domain.User, guideID string) error
	DeleteTourist(ctx context.Context, admin *domain.User, touristID string) error
}
