package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/explore-taroudant/explore-api/internal/core/domain"
	"github.com/explore-taroudant/explore-api/internal/core/moderation"
	"github.com/explore-taroudant/explore-api/internal/core/ports"
)

type CircuitService struct {
	*listingService[domain.Circuit, *domain.Circuit]
}

func NewCircuitService(repo ports.CircuitRepository, guides ports.GuideProfileRepository, audit ports.AuditLog, logger zerolog.Logger) *CircuitService {
	return &CircuitService{
		listingService: &listingService[domain.Circuit, *domain.Circuit]{
			kind:     domain.KindCircuit,
			store:    repo,
			engine:   moderation.NewEngine(domain.KindCircuit, moderation.ByGuide{Profiles: guides}),
			audit:    audit,
			log:      logger,
			notFound: domain.ErrCircuitNotFound,
			check: func(_ context.Context, c *domain.Circuit) error {
				if strings.TrimSpace(c.Title) == "" {
					return domain.Invalid("title is required")
				}
				if c.Price < 0 {
					return domain.Invalid("price must not be negative")
				}
				return nil
			},
			assign: func(dst, src *domain.Circuit) {
				dst.Title = src.Title
				dst.Description = src.Description
				dst.Duration = src.Duration
				dst.Price = src.Price
			},
		},
	}
}

