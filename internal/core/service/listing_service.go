package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/explore-taroudant/explore-api/internal/core/domain"
	"github.com/explore-taroudant/explore-api/internal/core/moderation"
	"github.com/explore-taroudant/explore-api/internal/core/ports"
)

// nowFunc is the service clock. Tests replace it.
var nowFunc = time.Now

func newID() string { return uuid.NewString() }

var (
	_ ports.PlaceService       = (*PlaceService)(nil)
	_ ports.ActivityService    = (*ActivityService)(nil)
	_ ports.CircuitService     = (*CircuitService)(nil)
	_ ports.EventService       = (*EventService)(nil)
	_ ports.ArtisanService     = (*ArtisanService)(nil)
	_ ports.ReservationService = (*ReservationService)(nil)
	_ ports.AuthService        = (*AuthService)(nil)
	_ ports.GuideService       = (*GuideService)(nil)
	_ ports.AccountService     = (*AccountService)(nil)
	_ ports.ReportService      = (*ReportService)(nil)
	_ ports.ReviewService      = (*ReviewService)(nil)
)

// moderated constrains P to a pointer to T carrying the embedded listing.
type moderated[T any] interface {
	*T
	domain.Moderated
}

// listingService implements ports.ListingService once for every kind.
// Kind services embed it and add their own lookups.
type listingService[T any, P moderated[T]] struct {
	kind     domain.Kind
	store    ports.ListingStore[T]
	engine   *moderation.Engine
	audit    ports.AuditLog
	log      zerolog.Logger
	notFound error

	// check validates a draft or edited entity before it is stored.
	check func(ctx context.Context, entity *T) error
	// assign copies the editable fields of src into dst.
	assign func(dst, src *T)
}

func (s *listingService[T, P]) find(ctx context.Context, id string) (*T, error) {
	entity, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, s.notFound) {
			return nil, s.notFound
		}
		return nil, fmt.Errorf("find %s: %w", s.kind, err)
	}
	return entity, nil
}

// Get returns the entity when viewer may see it. PENDING entries are
// reported as not found to anyone but ADMIN and their owner.
func (s *listingService[T, P]) Get(ctx context.Context, viewer *domain.User, id string) (*T, error) {
	entity, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.engine.Visible(ctx, viewer, P(entity)) {
		return nil, s.notFound
	}
	return entity, nil
}

func (s *listingService[T, P]) ListActive(ctx context.Context) ([]*T, error) {
	return s.store.FindByStatus(ctx, domain.StatusActive)
}

func (s *listingService[T, P]) ListPending(ctx context.Context, actor *domain.User) ([]*T, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.store.FindByStatus(ctx, domain.StatusPending)
}

func (s *listingService[T, P]) ListAll(ctx context.Context, actor *domain.User) ([]*T, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.store.FindAll(ctx)
}

// ListMine returns every entry proposed under the actor's owner identity.
func (s *listingService[T, P]) ListMine(ctx context.Context, actor *domain.User) ([]*T, error) {
	owner, err := s.ownerOf(ctx, actor)
	if err != nil {
		return nil, err
	}
	if owner == "" {
		return []*T{}, nil
	}
	return s.store.FindByProposer(ctx, owner)
}

func (s *listingService[T, P]) ownerOf(ctx context.Context, actor *domain.User) (string, error) {
	if actor == nil {
		return "", domain.ErrActorNotFound
	}
	if actor.Role == domain.RoleTourist {
		return "", domain.ErrForbidden
	}
	return s.engine.OwnerOf(ctx, actor)
}

// Create stamps draft through the moderation engine and stores it.
func (s *listingService[T, P]) Create(ctx context.Context, actor *domain.User, draft *T) (*T, error) {
	entity := P(draft)
	if err := s.engine.Propose(ctx, actor, entity); err != nil {
		return nil, err
	}
	if s.check != nil {
		if err := s.check(ctx, draft); err != nil {
			return nil, err
		}
	}

	l := entity.Base()
	l.ID = newID()
	if err := s.store.Save(ctx, draft); err != nil {
		s.log.Error().Err(err).Str("kind", string(s.kind)).Msg("failed to store listing")
		return nil, fmt.Errorf("create %s: %w", s.kind, err)
	}

	s.record(ctx, l, domain.ActionProposed, actor, "", l.Status)
	s.log.Info().
		Str("kind", string(s.kind)).
		Str("id", l.ID).
		Str("actor", actor.ID).
		Str("status", string(l.Status)).
		Msg("listing proposed")

	return draft, nil
}

// Update applies the editable fields of changes to the stored entity.
// Owner edits send the entity back to review; admin edits publish it.
func (s *listingService[T, P]) Update(ctx context.Context, actor *domain.User, id string, changes *T) (*T, error) {
	current, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	entity := P(current)
	from := entity.Base().Status

	edited := *current
	access, err := s.engine.ApplyEdit(ctx, actor, P(&edited), func() { s.assign(&edited, changes) })
	if err != nil {
		s.denied(actor, id, "update", err)
		return nil, err
	}
	if s.check != nil {
		if err := s.check(ctx, &edited); err != nil {
			return nil, err
		}
	}

	if err := s.store.Save(ctx, &edited); err != nil {
		return nil, fmt.Errorf("update %s: %w", s.kind, err)
	}

	l := P(&edited).Base()
	s.record(ctx, l, domain.ActionEdited, actor, from, l.Status)
	s.log.Info().
		Str("kind", string(s.kind)).
		Str("id", id).
		Str("access", access.String()).
		Str("status", string(l.Status)).
		Msg("listing edited")

	return &edited, nil
}

func (s *listingService[T, P]) Validate(ctx context.Context, actor *domain.User, id string) (*T, error) {
	if !actor.IsAdmin() {
		s.denied(actor, id, "validate", domain.ErrForbidden)
		return nil, domain.ErrForbidden
	}

	entity, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	l := P(entity).Base()
	from := l.Status
	if err := s.engine.Validate(actor, P(entity)); err != nil {
		return nil, err
	}
	if from == l.Status {
		return entity, nil
	}

	if err := s.store.Save(ctx, entity); err != nil {
		return nil, fmt.Errorf("validate %s: %w", s.kind, err)
	}

	s.record(ctx, l, domain.ActionValidated, actor, from, l.Status)
	s.log.Info().Str("kind", string(s.kind)).Str("id", id).Str("admin", actor.ID).Msg("listing validated")
	return entity, nil
}

func (s *listingService[T, P]) Delete(ctx context.Context, actor *domain.User, id string) error {
	entity, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.engine.AuthorizeDelete(ctx, actor, P(entity)); err != nil {
		s.denied(actor, id, "delete", err)
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete %s: %w", s.kind, err)
	}

	l := P(entity).Base()
	s.record(ctx, l, domain.ActionDeleted, actor, l.Status, "")
	s.log.Info().Str("kind", string(s.kind)).Str("id", id).Str("actor", actor.ID).Msg("listing deleted")
	return nil
}

// activeOnly keeps the ACTIVE entries of list.
func activeOnly[T any, P moderated[T]](list []*T) []*T {
	out := make([]*T, 0, len(list))
	for _, e := range list {
		if P(e).Base().IsActive() {
			out = append(out, e)
		}
	}
	return out
}

func (s *listingService[T, P]) denied(actor *domain.User, id, op string, err error) {
	if !errors.Is(err, domain.ErrForbidden) {
		return
	}
	ev := s.log.Warn().Str("kind", string(s.kind)).Str("id", id).Str("op", op)
	if actor != nil {
		ev = ev.Str("actor", actor.ID).Str("role", string(actor.Role))
	}
	ev.Msg("mutation denied")
}

// record appends to the audit trail. Failures are logged, not returned.
func (s *listingService[T, P]) record(ctx context.Context, l *domain.Listing, action domain.ModerationAction, actor *domain.User, from, to domain.ModerationStatus) {
	if s.audit == nil {
		return
	}
	ev := &domain.ModerationEvent{
		Kind:       s.kind,
		ListingID:  l.ID,
		Action:     action,
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		FromStatus: from,
		ToStatus:   to,
		Timestamp:  nowFunc().UTC(),
	}
	if err := s.audit.Record(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("kind", string(s.kind)).Str("id", l.ID).Msg("failed to record moderation event")
	}
}
