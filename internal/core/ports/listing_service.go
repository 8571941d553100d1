package ports

import (
	"context"

	"github.com/explore-taroudant/explore-api/internal/core/domain"
)

// ListingService is the use-case surface shared by every listing kind.
// viewer may be nil for anonymous reads.
type ListingService[T any] interface {
	Get(ctx context.Context, viewer *domain.User, id string) (*T, error)
	ListActive(ctx context.Context) ([]*T, error)
	ListPending(ctx context.Context, actor *domain.User) ([]*T, error)
	ListAll(ctx context.Context, actor *domain.User) ([]*T, error)
	ListMine(ctx context.Context, actor *domain.User) ([]*T, error)
	Create(ctx context.Context, actor *domain.User, draft *T) (*T, error)
	Update(ctx context.Context, actor *domain.User, id string, changes *T) (*T, error)
	Validate(ctx context.Context, actor *domain.User, id string) (*T, error)
	Delete(ctx context.Context, actor *domain.User, id string) error
}

type PlaceService interface {
	ListingService[domain.Place]
	Search(ctx context.Context, query string) ([]*domain.Place, error)
	ByCity(ctx context.Context, city string) ([]*domain.Place, error)
}

type ActivityService interface {
	ListingService[domain.Activity]
	ByPlace(ctx context.Context, placeID string) ([]*domain.Activity, error)
	ByGuide(ctx context.Context, guideID string) ([]*domain.Activity, error)
}

type CircuitService interface {
	ListingService[domain.Circuit]
}

type EventService interface {
	ListingService[domain.Event]
	Upcoming(ctx context.Context) ([]*domain.Event, error)
}

type ArtisanService interface {
	ListingService[domain.Artisan]
}
