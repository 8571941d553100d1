package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/explore-taroudant/explore-api/internal/core/domain"
	"github.com/explore-taroudant/explore-api/internal/core/moderation"
	"github.com/explore-taroudant/explore-api/internal/core/ports"
)

type ArtisanService struct {
	*listingService[domain.Artisan, *domain.Artisan]
}

func NewArtisanService(repo ports.ArtisanRepository, guides ports.GuideProfileRepository, audit ports.AuditLog, logger zerolog.Logger) *ArtisanService {
	return &ArtisanService{
		listingService: &listingService[domain.Artisan, *domain.Artisan]{
			kind:     domain.KindArtisan,
			store:    repo,
			engine:   moderation.NewEngine(domain.KindArtisan, moderation.ByGuide{Profiles: guides}),
			audit:    audit,
			log:      logger,
			notFound: domain.ErrArtisanNotFound,
			check: func(_ context.Context, a *domain.Artisan) error {
				if strings.TrimSpace(a.Name) == "" {
					return domain.Invalid("name is required")
				}
				return nil
			},
			assign: func(dst, src *domain.Artisan) {
				dst.Name = src.Name
				dst.Speciality = src.Speciality
				dst.Phone = src.Phone
				dst.City = src.City
			},
		},
	}
}
