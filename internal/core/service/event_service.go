package service

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/explore-taroudant/explore-api/internal/core/domain"
	"github.com/explore-taroudant/explore-api/internal/core/moderation"
	"github.com/explore-taroudant/explore-api/internal/core/ports"
)

type EventService struct {
	*listingService[domain.Event, *domain.Event]
	repo ports.EventRepository
}

func NewEventService(repo ports.EventRepository, audit ports.AuditLog, logger zerolog.Logger) *EventService {
	return &EventService{
		listingService: &listingService[domain.Event, *domain.Event]{
			kind:     domain.KindEvent,
			store:    repo,
			engine:   moderation.NewEngine(domain.KindEvent, moderation.ByActor{}),
			audit:    audit,
			log:      logger,
			notFound: domain.ErrEventNotFound,
			check:    checkEvent,
			assign: func(dst, src *domain.Event) {
				dst.Title = src.Title
				dst.Description = src.Description
				dst.StartDate = src.StartDate
				dst.EndDate = src.EndDate
				dst.Location = src.Location
			},
		},
		repo: repo,
	}
}

func checkEvent(_ context.Context, e *domain.Event) error {
	if strings.TrimSpace(e.Title) == "" {
		return domain.Invalid("title is required")
	}
	if e.StartDate.IsZero() || e.EndDate.IsZero() {
		return domain.Invalid("start and end dates are required")
	}
	if e.EndDate.Before(e.StartDate) {
		return domain.ErrInvalidDateRange
	}
	return nil
}

// ListActive returns published events that have not ended yet, soonest first.
func (s *EventService) ListActive(ctx context.Context) ([]*domain.Event, error) {
	return s.repo.FindEndingFrom(ctx, domain.Day(nowFunc()), domain.StatusActive)
}

// Upcoming is the public agenda: published events ending today or later,
// ordered by start date.
func (s *EventService) Upcoming(ctx context.Context) ([]*domain.Event, error) {
	return s.ListActive(ctx)
}

// ListAll returns every event, latest start date first.
func (s *EventService) ListAll(ctx context.Context, actor *domain.User) ([]*domain.Event, error) {
	list, err := s.listingService.ListAll(ctx, actor)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].StartDate.After(list[j].StartDate)
	})
	return list, nil
}
