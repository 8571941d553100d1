package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/explore-taroudant/explore-api/internal/core/domain"
	"github.com/explore-taroudant/explore-api/internal/core/ports"
)

type ReportService struct {
	repo   ports.ReportRepository
	logger zerolog.Logger
}

func NewReportService(repo ports.ReportRepository, logger zerolog.Logger) *ReportService {
	return &ReportService{repo: repo, logger: logger}
}

// Submit files a report from any authenticated actor. Reports start OPEN.
func (s *ReportService) Submit(ctx context.Context, actor *domain.User, reportType, description string) (*domain.Report, error) {
	if actor == nil {
		return nil, domain.ErrActorNotFound
	}
	if strings.TrimSpace(reportType) == "" || strings.TrimSpace(description) == "" {
		return nil, domain.Invalid("report type and description are required")
	}

	now := nowFunc().UTC()
	r := &domain.Report{
		ID:          newID(),
		ReportType:  strings.TrimSpace(reportType),
		Description: description,
		Status:      domain.ReportOpen,
		ReporterID:  actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("submit report: %w", err)
	}
	s.logger.Info().Str("report", r.ID).Str("reporter", actor.ID).Str("type", r.ReportType).Msg("report submitted")
	return r, nil
}

func (s *ReportService) List(ctx context.Context, admin *domain.User) ([]*domain.Report, error) {
	if !admin.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.repo.FindAll(ctx)
}

func (s *ReportService) SetStatus(ctx context.Context, admin *domain.User, id string, status string) (*domain.Report, error) {
	if !admin.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	st, ok := domain.ParseReportStatus(strings.ToUpper(status))
	if !ok {
		return nil, domain.ErrInvalidStatusValue
	}

	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.Status = st
	r.UpdatedAt = nowFunc().UTC()
	if err := s.repo.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("set report status: %w", err)
	}
	s.logger.Info().Str("report", id).Str("status", string(st)).Str("admin", admin.ID).Msg("report status updated")
	return r, nil
}

type ReviewService struct {
	repo   ports.ReviewRepository
	places ports.PlaceRepository
	logger zerolog.Logger
}

func NewReviewService(repo ports.ReviewRepository, places ports.PlaceRepository, logger zerolog.Logger) *ReviewService {
	return &ReviewService{repo: repo, places: places, logger: logger}
}

func checkRating(rating int) error {
	if rating < domain.MinRating || rating > domain.MaxRating {
		return domain.ErrInvalidRating
	}
	return nil
}

func (s *ReviewService) Create(ctx context.Context, actor *domain.User, placeID string, rating int, comment string) (*domain.Review, error) {
	if actor == nil {
		return nil, domain.ErrActorNotFound
	}
	if err := checkRating(rating); err != nil {
		return nil, err
	}
	// Only published places take reviews; a pending one reads as missing.
	place, err := s.places.FindByID(ctx, placeID)
	if err != nil {
		if errors.Is(err, domain.ErrPlaceNotFound) {
			return nil, domain.ErrPlaceNotFound
		}
		return nil, fmt.Errorf("resolve place: %w", err)
	}
	if !place.IsActive() {
		return nil, domain.ErrPlaceNotFound
	}

	now := nowFunc().UTC()
	r := &domain.Review{
		ID:        newID(),
		UserID:    actor.ID,
		PlaceID:   placeID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	s.logger.Info().Str("review", r.ID).Str("place", placeID).Int("rating", rating).Msg("review created")
	return r, nil
}

// Update edits the caller's own review.
func (s *ReviewService) Update(ctx context.Context, actor *domain.User, id string, rating int, comment string) (*domain.Review, error) {
	if err := checkRating(rating); err != nil {
		return nil, err
	}
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor == nil || r.UserID != actor.ID {
		return nil, domain.ErrNotOwner
	}

	r.Rating = rating
	r.Comment = comment
	r.UpdatedAt = nowFunc().UTC()
	if err := s.repo.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}
	return r, nil
}

// Delete removes a review on request of its author or an ADMIN.
func (s *ReviewService) Delete(ctx context.Context, actor *domain.User, id string) error {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if actor == nil || (!actor.IsAdmin() && r.UserID != actor.ID) {
		return domain.ErrNotOwner
	}
	return s.repo.Delete(ctx, id)
}

func (s *ReviewService) Get(ctx context.Context, id string) (*domain.Review, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ReviewService) ByPlace(ctx context.Context, placeID string) ([]*domain.Review, error) {
	return s.repo.FindByPlace(ctx, placeID)
}

func (s *ReviewService) ByUser(ctx context.Context, userID string) ([]*domain.Review, error) {
	return s.repo.FindByUser(ctx, userID)
}

func (s *ReviewService) Average(ctx context.Context, placeID string) (*domain.RatingSummary, error) {
	return s.repo.Summary(ctx, placeID)
}
