package handler

import (
	"strings"

	"github.com/explore-taroudant/explore-api/internal/core/domain"
)

// --- Request → entity draft ---
//
// Moderation fields (id, status, proposer, timestamps) are never taken from
// the request.

func toPlace(r placeRequest) *domain.Place {
	return &domain.Place{
		Name:        strings.TrimSpace(r.Name),
		Description: r.Description,
		City:        strings.TrimSpace(r.City),
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		ImageURL:    r.ImageURL,
	}
}

func toActivity(r activityRequest) *domain.Activity {
	return &domain.Activity{
		PlaceID:     r.PlaceID,
		Title:       strings.TrimSpace(r.Title),
		Description: r.Description,
		Price:       r.Price,
		Duration:    r.Duration,
	}
}

func toCircuit(r circuitRequest) *domain.Circuit {
	return &domain.Circuit{
		Title:       strings.TrimSpace(r.Title),
		Description: r.Description,
		Duration:    r.Duration,
		Price:       r.Price,
	}
}

func toEvent(r eventRequest) *domain.Event {
	return &domain.Event{
		Title:       strings.TrimSpace(r.Title),
		Description: r.Description,
		StartDate:   r.StartDate.UTC(),
		EndDate:     r.EndDate.UTC(),
		Location:    r.Location,
	}
}

func toArtisan(r artisanRequest) *domain.Artisan {
	return &domain.Artisan{
		Name:       strings.TrimSpace(r.Name),
		Speciality: r.Speciality,
		Phone:      r.Phone,
		City:       r.City,
	}
}
