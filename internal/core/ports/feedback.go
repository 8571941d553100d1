package ports

import (
	"context"

	"github.com/explore-taroudant/explore-api/internal/core/domain"
)

type ReportRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Report, error)
	FindAll(ctx context.Context) ([]*domain.Report, error)
	Save(ctx context.Context, r *domain.Report) error
}

type ReviewRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Review, error)
	FindByPlace(ctx context.Context, placeID string) ([]*domain.Review, error)
	FindByUser(ctx context.Context, userID string) ([]*domain.Review, error)
	Save(ctx context.Context, r *domain.Review) error
	Delete(ctx context.Context, id string) error
	// Summary aggregates the ratings of a place. A place without reviews
	// yields a zero summary.
	Summary(ctx context.Context, placeID string) (*domain.RatingSummary, error)
}

type ReportService interface {
	Submit(ctx context.Context, actor *domain.User, reportType, description string) (*domain.Report, error)
	List(ctx context.Context, admin *domain.User) ([]*domain.Report, error)
	SetStatus(ctx context.Context, admin *domain.User, id string, status string) (*domain.Report, error)
}

type ReviewService interface {
	Create(ctx context.Context, actor *domain.User, placeID string, rating int, comment string) (*domain.Review, error)
	Update(ctx context.Context, actor *domain.User, id string, rating int, comment string) (*domain.Review, error)
	Delete(ctx context.Context, actor *domain.User, id string) error
	Get(ctx context.Context, id string) (*domain.Review, error)
	ByPlace(ctx context.Context, placeID string) ([]*domain.Review, error)
	ByUser(ctx context.Context, userID string) ([]*domain.Review, error)
	Average(ctx context.Context, placeID string) (*domain.RatingSummary, error)
}
