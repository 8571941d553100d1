package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/explore-taroudant/explore-api/internal/core/domain"
	"github.com/explore-taroudant/explore-api/internal/core/moderation"
	"github.com/explore-taroudant/explore-api/internal/core/ports"
)

type ActivityService struct {
	*listingService[domain.Activity, *domain.Activity]
	repo   ports.ActivityRepository
	places ports.PlaceRepository
}

func NewActivityService(
	repo ports.ActivityRepository,
	places ports.PlaceRepository,
	guides ports.GuideProfileRepository,
	audit ports.AuditLog,
	logger zerolog.Logger,
) *ActivityService {
	s := &ActivityService{repo: repo, places: places}
	s.listingService = &listingService[domain.Activity, *domain.Activity]{
		kind:     domain.KindActivity,
		store:    repo,
		engine:   moderation.NewEngine(domain.KindActivity, moderation.ByGuide{Profiles: guides}),
		audit:    audit,
		log:      logger,
		notFound: domain.ErrActivityNotFound,
		check:    s.checkActivity,
		assign: func(dst, src *domain.Activity) {
			dst.PlaceID = src.PlaceID
			dst.Title = src.Title
			dst.Description = src.Description
			dst.Price = src.Price
			dst.Duration = src.Duration
		},
	}
	return s
}

// checkActivity requires a title, a non-negative price and an existing place.
func (s *ActivityService) checkActivity(ctx context.Context, a *domain.Activity) error {
	if strings.TrimSpace(a.Title) == "" {
		return domain.Invalid("title is required")
	}
	if a.Price < 0 {
		return domain.Invalid("price must not be negative")
	}
	if a.PlaceID == "" {
		return domain.ErrPlaceNotFound
	}
	if _, err := s.places.FindByID(ctx, a.PlaceID); err != nil {
		if errors.Is(err, domain.ErrPlaceNotFound) {
			return domain.ErrPlaceNotFound
		}
		return fmt.Errorf("resolve place: %w", err)
	}
	return nil
}

func (s *ActivityService) ByPlace(ctx context.Context, placeID string) ([]*domain.Activity, error) {
	return s.repo.FindByPlace(ctx, placeID, domain.StatusActive)
}

// ByGuide lists the published activities proposed by the guide profile guideID.
func (s *ActivityService) ByGuide(ctx context.Context, guideID string) ([]*domain.Activity, error) {
	list, err := s.repo.FindByProposer(ctx, guideID)
	if err != nil {
		return nil, err
	}
	return activeOnly[domain.Activity, *domain.Activity](list), nil
}
