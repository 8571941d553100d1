package ports

import (
	"context"
	"time"

	"github.com/explore-taroudant/explore-api/internal/core/domain"
)

// ListingStore is the persistence contract shared by every listing kind.
// FindByID returns the kind's not-found error when id does not resolve.
// Multi-row finders return newest first. Save inserts or replaces by id.
type ListingStore[T any] interface {
	FindByID(ctx context.Context, id string) (*T, error)
	FindAll(ctx context.Context) ([]*T, error)
	FindByStatus(ctx context.Context, status domain.ModerationStatus) ([]*T, error)
	FindByProposer(ctx context.Context, proposerID string) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id string) error
}

type PlaceRepository interface {
	ListingStore[domain.Place]
	// Search matches query case-insensitively against name or city.
	Search(ctx context.Context, query string, status domain.ModerationStatus) ([]*domain.Place, error)
	FindByCity(ctx context.Context, city string, status domain.ModerationStatus) ([]*domain.Place, error)
}

type ActivityRepository interface {
	ListingStore[domain.Activity]
	FindByPlace(ctx context.Context, placeID string, status domain.ModerationStatus) ([]*domain.Activity, error)
}

type CircuitRepository interface {
	ListingStore[domain.Circuit]
}

type EventRepository interface {
	ListingStore[domain.Event]
	// FindEndingFrom returns events whose end date is on or after day,
	// ordered by start date ascending. An empty status matches any status.
	FindEndingFrom(ctx context.Context, day time.Time, status domain.ModerationStatus) ([]*domain.Event, error)
}

type ArtisanRepository interface {
	ListingStore[domain.Artisan]
}
