package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/explore-taroudant/explore-api/internal/core/domain"
	"github.com/explore-taroudant/explore-api/internal/core/moderation"
	"github.com/explore-taroudant/explore-api/internal/core/ports"
)

type PlaceService struct {
	*listingService[domain.Place, *domain.Place]
	repo ports.PlaceRepository
}

func NewPlaceService(repo ports.PlaceRepository, audit ports.AuditLog, logger zerolog.Logger) *PlaceService {
	return &PlaceService{
		listingService: &listingService[domain.Place, *domain.Place]{
			kind:     domain.KindPlace,
			store:    repo,
			engine:   moderation.NewEngine(domain.KindPlace, moderation.ByActor{}),
			audit:    audit,
			log:      logger,
			notFound: domain.ErrPlaceNotFound,
			check:    checkPlace,
			assign: func(dst, src *domain.Place) {
				dst.Name = src.Name
				dst.Description = src.Description
				dst.City = src.City
				dst.Latitude = src.Latitude
				dst.Longitude = src.Longitude
				dst.ImageURL = src.ImageURL
			},
		},
		repo: repo,
	}
}

func checkPlace(_ context.Context, p *domain.Place) error {
	if strings.TrimSpace(p.Name) == "" {
		return domain.Invalid("name is required")
	}
	if p.Latitude < -90 || p.Latitude > 90 || p.Longitude < -180 || p.Longitude > 180 {
		return domain.Invalid("coordinates out of range")
	}
	return nil
}

// Search matches query against the name or city of published places.
// A blank query returns every published place.
func (s *PlaceService) Search(ctx context.Context, query string) ([]*domain.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.ListActive(ctx)
	}
	return s.repo.Search(ctx, query, domain.StatusActive)
}

func (s *PlaceService) ByCity(ctx context.Context, city string) ([]*domain.Place, error) {
	return s.repo.FindByCity(ctx, strings.TrimSpace(city), domain.StatusActive)
}
