package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/explore-taroudant/explore-api/internal/core/domain"
	"github.com/explore-taroudant/explore-api/internal/core/ports"
)

type ReservationService struct {
	repo       ports.ReservationRepository
	users      ports.UserRepository
	activities ports.ActivityRepository
	circuits   ports.CircuitRepository
	guides     ports.GuideProfileRepository
	idem       ports.IdempotencyStore
	logger     zerolog.Logger
}

// NewReservationService returns the reservation engine. idem may be nil, in
// which case idempotency keys are ignored.
func NewReservationService(
	repo ports.ReservationRepository,
	users ports.UserRepository,
	activities ports.ActivityRepository,
	circuits ports.CircuitRepository,
	guides ports.GuideProfileRepository,
	idem ports.IdempotencyStore,
	logger zerolog.Logger,
) *ReservationService {
	return &ReservationService{
		repo:       repo,
		users:      users,
		activities: activities,
		circuits:   circuits,
		guides:     guides,
		idem:       idem,
		logger:     logger,
	}
}

// Create books a published activity or circuit for actorID. Nothing is
// written unless every check passes. A repeated request carrying the same
// idempotency key returns the reservation created the first time.
func (s *ReservationService) Create(ctx context.Context, actorID string, in ports.CreateReservationInput) (*ports.ReservationResult, error) {
	// 1. Resolve the acting user.
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrActorNotFound
		}
		return nil, fmt.Errorf("create reservation: %w", err)
	}

	// 2. Claim the key, or replay the request that claimed it first.
	claimed, existing, err := s.claim(ctx, actor.ID, in.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &ports.ReservationResult{Reservation: existing, AlreadyExisted: true}, nil
	}
	completed := false
	if claimed {
		defer func() {
			if !completed {
				s.release(ctx, actor.ID, in.IdempotencyKey)
			}
		}()
	}

	// 3. Exactly one target.
	switch {
	case in.ActivityID != "" && in.CircuitID != "":
		return nil, domain.ErrAmbiguousTarget
	case in.ActivityID == "" && in.CircuitID == "":
		return nil, domain.ErrNoTargetSpecified
	}

	// 4. The target must exist and be published.
	if err := s.checkBookable(ctx, in.ActivityID, in.CircuitID); err != nil {
		return nil, err
	}

	// 5. Today or later, compared by UTC calendar day.
	if in.Date.IsZero() {
		return nil, domain.ErrInvalidDate
	}
	day := domain.Day(in.Date)
	now := nowFunc().UTC()
	if day.Before(domain.Day(now)) {
		return nil, domain.ErrInvalidDate
	}

	r := &domain.Reservation{
		ID:              newID(),
		UserID:          actor.ID,
		ActivityID:      in.ActivityID,
		CircuitID:       in.CircuitID,
		ReservationDate: day,
		Status:          domain.ReservationConfirmed,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Save(ctx, r); err != nil {
		s.logger.Error().Err(err).Str("user", actor.ID).Msg("failed to create reservation")
		return nil, fmt.Errorf("create reservation: %w", err)
	}

	// 6. Bind the key to the booking (non-fatal on failure).
	if claimed {
		if err := s.idem.Complete(ctx, actor.ID, in.IdempotencyKey, r.ID); err != nil {
			s.logger.Warn().Err(err).Str("reservation", r.ID).Msg("failed to store idempotency key")
		}
		completed = true
	}

	s.logger.Info().
		Str("reservation", r.ID).
		Str("user", actor.ID).
		Str("activity", r.ActivityID).
		Str("circuit", r.CircuitID).
		Time("date", r.ReservationDate).
		Msg("reservation created")

	return &ports.ReservationResult{Reservation: r}, nil
}

// claim reserves key for this request. It returns the earlier reservation
// when the key already produced one, and ErrRequestInProgress while the
// request holding the key has not finished. A store failure disables the
// key for this request.
func (s *ReservationService) claim(ctx context.Context, actorID, key string) (bool, *domain.Reservation, error) {
	if key == "" || s.idem == nil {
		return false, nil, nil
	}
	claimed, id, err := s.idem.Claim(ctx, actorID, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency claim failed, processing anyway")
		return false, nil, nil
	}
	if claimed {
		return true, nil, nil
	}
	if id == "" {
		return false, nil, domain.ErrRequestInProgress
	}

	existing, err := s.find(ctx, id)
	if err != nil {
		return false, nil, err
	}
	s.logger.Info().Str("idempotency_key", key).Str("reservation", existing.ID).Msg("idempotent replay")
	return false, existing, nil
}

func (s *ReservationService) release(ctx context.Context, actorID, key string) {
	if err := s.idem.Release(context.WithoutCancel(ctx), actorID, key); err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("failed to release idempotency key")
	}
}

func (s *ReservationService) checkBookable(ctx context.Context, activityID, circuitID string) error {
	var (
		status   domain.ModerationStatus
		err      error
		notFound error
	)
	if activityID != "" {
		var a *domain.Activity
		a, err = s.activities.FindByID(ctx, activityID)
		notFound = domain.ErrActivityNotFound
		if err == nil {
			status = a.Status
		}
	} else {
		var c *domain.Circuit
		c, err = s.circuits.FindByID(ctx, circuitID)
		notFound = domain.ErrCircuitNotFound
		if err == nil {
			status = c.Status
		}
	}

	switch {
	case errors.Is(err, notFound):
		return domain.ErrTargetNotBookable
	case err != nil:
		return fmt.Errorf("resolve reservation target: %w", err)
	case status != domain.StatusActive:
		return domain.ErrTargetNotBookable
	}
	return nil
}

func (s *ReservationService) find(ctx context.Context, id string) (*domain.Reservation, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrReservationNotFound) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, fmt.Errorf("find reservation: %w", err)
	}
	return r, nil
}

// Cancel moves the caller's own reservation to CANCELLED. CANCELLED is terminal.
func (s *ReservationService) Cancel(ctx context.Context, actorID, reservationID string) (*domain.Reservation, error) {
	r, err := s.find(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if r.UserID != actorID {
		s.logger.Warn().Str("reservation", reservationID).Str("actor", actorID).Msg("cancel denied")
		return nil, domain.ErrNotOwner
	}
	if r.Status == domain.ReservationCancelled {
		return nil, domain.ErrAlreadyCancelled
	}

	r.Status = domain.ReservationCancelled
	r.UpdatedAt = nowFunc().UTC()
	if err := s.repo.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("cancel reservation: %w", err)
	}

	s.logger.Info().Str("reservation", r.ID).Str("user", actorID).Msg("reservation cancelled")
	return r, nil
}

// UpdateStatus is the administrative override: any status may be written
// over any other, with no transition check.
func (s *ReservationService) UpdateStatus(ctx context.Context, admin *domain.User, reservationID string, status domain.ReservationStatus) (*domain.Reservation, error) {
	if !admin.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if _, ok := domain.ParseReservationStatus(string(status)); !ok {
		return nil, domain.ErrInvalidStatusValue
	}

	r, err := s.find(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	from := r.Status
	r.Status = status
	r.UpdatedAt = nowFunc().UTC()
	if err := s.repo.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("update reservation status: %w", err)
	}

	s.logger.Info().
		Str("reservation", r.ID).
		Str("admin", admin.ID).
		Str("from", string(from)).
		Str("to", string(status)).
		Msg("reservation status overridden")
	return r, nil
}

// Delete removes a reservation on request of its owner or an ADMIN.
func (s *ReservationService) Delete(ctx context.Context, actor *domain.User, reservationID string) error {
	r, err := s.find(ctx, reservationID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && r.UserID != actor.ID {
		return domain.ErrNotOwner
	}
	if err := s.repo.Delete(ctx, r.ID); err != nil {
		return fmt.Errorf("delete reservation: %w", err)
	}
	s.logger.Info().Str("reservation", r.ID).Str("actor", actor.ID).Msg("reservation deleted")
	return nil
}

// Mine lists the caller's reservations, latest date first. An empty status
// matches every status.
func (s *ReservationService) Mine(ctx context.Context, actorID string, status domain.ReservationStatus) ([]*domain.Reservation, error) {
	return s.repo.FindByUser(ctx, actorID, status)
}

// ForGuide lists the reservations made on activities and circuits owned by
// the calling guide.
func (s *ReservationService) ForGuide(ctx context.Context, actor *domain.User) ([]*domain.Reservation, error) {
	if actor == nil || actor.Role != domain.RoleGuide {
		return nil, domain.ErrForbidden
	}
	profile, err := s.guides.FindByUserID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	activities, err := s.activities.FindByProposer(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("guide activities: %w", err)
	}
	circuits, err := s.circuits.FindByProposer(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("guide circuits: %w", err)
	}
	if len(activities) == 0 && len(circuits) == 0 {
		return []*domain.Reservation{}, nil
	}

	activityIDs := make([]string, 0, len(activities))
	for _, a := range activities {
		activityIDs = append(activityIDs, a.ID)
	}
	circuitIDs := make([]string, 0, len(circuits))
	for _, c := range circuits {
		circuitIDs = append(circuitIDs, c.ID)
	}
	return s.repo.FindByTargets(ctx, activityIDs, circuitIDs)
}

func (s *ReservationService) All(ctx context.Context, admin *domain.User) ([]*domain.Reservation, error) {
	if !admin.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.repo.FindAll(ctx)
}
