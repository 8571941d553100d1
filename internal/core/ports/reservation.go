package ports

import (
	"context"
	"time"

	"github.com/explore-taroudant/explore-api/internal/core/domain"
)

// ReservationRepository persists reservations. FindByID returns
// domain.ErrReservationNotFound when id does not resolve.
type ReservationRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Reservation, error)
	// FindByUser returns the user's reservations, latest reservation date
	// first. An empty status matches any status.
	FindByUser(ctx context.Context, userID string, status domain.ReservationStatus) ([]*domain.Reservation, error)
	// FindByTargets returns reservations booking any of the given activities or circuits.
	FindByTargets(ctx context.Context, activityIDs, circuitIDs []string) ([]*domain.Reservation, error)
	FindAll(ctx context.Context) ([]*domain.Reservation, error)
	Save(ctx context.Context, r *domain.Reservation) error
	Delete(ctx context.Context, id string) error
}

// IdempotencyStore maps a client request key to the reservation it produced.
// A key is claimed before the booking is written, so concurrent requests
// carrying the same key cannot both book.
type IdempotencyStore interface {
	// Claim reserves key for a new request. When the key is already taken it
	// reports claimed=false with the stored reservation id, which is empty
	// while the first request is still in flight.
	Claim(ctx context.Context, actorID, key string) (claimed bool, reservationID string, err error)
	// Complete records the reservation created under a claimed key.
	Complete(ctx context.Context, actorID, key, reservationID string) error
	// Release drops a claim whose request failed so the client may retry.
	Release(ctx context.Context, actorID, key string) error
}

// CreateReservationInput is the booking request. Exactly one of ActivityID
// and CircuitID must be set. Date is interpreted as a UTC calendar day.
type CreateReservationInput struct {
	ActivityID     string
	CircuitID      string
	Date           time.Time
	IdempotencyKey string
}

// ReservationResult wraps a reservation returned by Create.
type ReservationResult struct {
	Reservation *domain.Reservation
	// AlreadyExisted is true when the idempotency key replayed an earlier booking.
	AlreadyExisted bool
}

type ReservationService interface {
	Create(ctx context.Context, actorID string, in CreateReservationInput) (*ReservationResult, error)
	Cancel(ctx context.Context, actorID, reservationID string) (*domain.Reservation, error)
	UpdateStatus(ctx context.Context, admin *domain.User, reservationID string, status domain.ReservationStatus) (*domain.Reservation, error)
	Delete(ctx context.Context, actor *domain.User, reservationID string) error
	Mine(ctx context.Context, actorID string, status domain.ReservationStatus) ([]*domain.Reservation, error)
	ForGuide(ctx context.Context, actor *domain.User) ([]*domain.Reservation, error)
	All(ctx context.Context, admin *domain.User) ([]*domain.Reservation, error)
}
