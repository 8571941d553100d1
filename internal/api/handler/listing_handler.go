package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/explore-taroudant/explore-api/internal/api/metrics"
	"github.com/explore-taroudant/explore-api/internal/core/domain"
	"github.com/explore-taroudant/explore-api/internal/core/ports"
)

// ListingRoutes is the route surface every listing kind exposes.
type ListingRoutes interface {
	List(c echo.Context) error
	Get(c echo.Context) error
	Pending(c echo.Context) error
	All(c echo.Context) error
	Mine(c echo.Context) error
	Create(c echo.Context) error
	Update(c echo.Context) error
	Validate(c echo.Context) error
	Delete(c echo.Context) error
}

type moderated[T any] interface {
	*T
	domain.Moderated
}

// listingHandler serves the shared moderation routes of one kind. R is the
// kind's request schema, mapped to the entity by toEntity.
type listingHandler[T any, P moderated[T], R any] struct {
	kind     domain.Kind
	service  ports.ListingService[T]
	toEntity func(R) *T
}

func (h *listingHandler[T, P, R]) List(c echo.Context) error {
	items, err := h.service.ListActive(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Get answers 404 for a pending entry the viewer may not see.
func (h *listingHandler[T, P, R]) Get(c echo.Context) error {
	item, err := h.service.Get(c.Request().Context(), viewer(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

func (h *listingHandler[T, P, R]) Pending(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	items, err := h.service.ListPending(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *listingHandler[T, P, R]) All(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	items, err := h.service.ListAll(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *listingHandler[T, P, R]) Mine(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	items, err := h.service.ListMine(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *listingHandler[T, P, R]) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req R
	if err := bindValid(c, &req); err != nil {
		return err
	}

	created, err := h.service.Create(c.Request().Context(), actor, h.toEntity(req))
	if err != nil {
		return err
	}
	metrics.ListingsProposedTotal.WithLabelValues(string(h.kind), string(P(created).Base().Status)).Inc()
	return c.JSON(http.StatusCreated, created)
}

// Update replaces the editable fields. An owner's edit sends the entry back
// to PENDING; an administrator's edit leaves it ACTIVE.
func (h *listingHandler[T, P, R]) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req R
	if err := bindValid(c, &req); err != nil {
		return err
	}

	updated, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), h.toEntity(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *listingHandler[T, P, R]) Validate(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	validated, err := h.service.Validate(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	metrics.ListingsValidatedTotal.WithLabelValues(string(h.kind)).Inc()
	return c.JSON(http.StatusOK, validated)
}

func (h *listingHandler[T, P, R]) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// --- Per-kind handlers ---

type PlaceHandler struct {
	*listingHandler[domain.Place, *domain.Place, placeRequest]
	places ports.PlaceService
}

func NewPlaceHandler(service ports.PlaceService) *PlaceHandler {
	return &PlaceHandler{
		listingHandler: &listingHandler[domain.Place, *domain.Place, placeRequest]{
			kind: domain.KindPlace, service: service, toEntity: toPlace,
		},
		places: service,
	}
}

// Search handles GET /places/search?q=.
//
// @Summary      Search active places by name or city
// @Tags         places
// @Produce      json
// @Param        q    query     string  false  "Case-insensitive substring"
// @Success      200  {array}   domain.Place
// @Router       /places/search [get]
func (h *PlaceHandler) Search(c echo.Context) error {
	items, err := h.places.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// ByCity handles GET /places/city/:city.
//
// @Summary      Active places in a city
// @Tags         places
// @Produce      json
// @Param        city  path      string  true  "City name"
// @Success      200   {array}   domain.Place
// @Router       /places/city/{city} [get]
func (h *PlaceHandler) ByCity(c echo.Context) error {
	items, err := h.places.ByCity(c.Request().Context(), c.Param("city"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

type ActivityHandler struct {
	*listingHandler[domain.Activity, *domain.Activity, activityRequest]
	activities ports.ActivityService
}

func NewActivityHandler(service ports.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		listingHandler: &listingHandler[domain.Activity, *domain.Activity, activityRequest]{
			kind: domain.KindActivity, service: service, toEntity: toActivity,
		},
		activities: service,
	}
}

// ByPlace handles GET /activities/place/:placeId.
//
// @Summary      Active activities at a place
// @Tags         activities
// @Produce      json
// @Param        placeId  path      string  true  "Place id"
// @Success      200      {array}   domain.Activity
// @Router       /activities/place/{placeId} [get]
func (h *ActivityHandler) ByPlace(c echo.Context) error {
	items, err := h.activities.ByPlace(c.Request().Context(), c.Param("placeId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// ByGuide handles GET /activities/guide/:guideId.
//
// @Summary      Active activities offered by a guide profile
// @Tags         activities
// @Produce      json
// @Param        guideId  path      string  true  "Guide profile id"
// @Success      200      {array}   domain.Activity
// @Router       /activities/guide/{guideId} [get]
func (h *ActivityHandler) ByGuide(c echo.Context) error {
	items, err := h.activities.ByGuide(c.Request().Context(), c.Param("guideId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

type CircuitHandler struct {
	*listingHandler[domain.Circuit, *domain.Circuit, circuitRequest]
}

func NewCircuitHandler(service ports.CircuitService) *CircuitHandler {
	return &CircuitHandler{&listingHandler[domain.Circuit, *domain.Circuit, circuitRequest]{
		kind: domain.KindCircuit, service: service, toEntity: toCircuit,
	}}
}

type EventHandler struct {
	*listingHandler[domain.Event, *domain.Event, eventRequest]
	events ports.EventService
}

func NewEventHandler(service ports.EventService) *EventHandler {
	return &EventHandler{
		listingHandler: &listingHandler[domain.Event, *domain.Event, eventRequest]{
			kind: domain.KindEvent, service: service, toEntity: toEvent,
		},
		events: service,
	}
}

// Upcoming handles GET /events/upcoming.
//
// @Summary      Active events that have not ended, soonest first
// @Tags         events
// @Produce      json
// @Success      200  {array}  domain.Event
// @Router       /events/upcoming [get]
func (h *EventHandler) Upcoming(c echo.Context) error {
	items, err := h.events.Upcoming(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

type ArtisanHandler struct {
	*listingHandler[domain.Artisan, *domain.Artisan, artisanRequest]
}

func NewArtisanHandler(service ports.ArtisanService) *ArtisanHandler {
	return &ArtisanHandler{&listingHandler[domain.Artisan, *domain.Artisan, artisanRequest]{
		kind: domain.KindArtisan, service: service, toEntity: toArtisan,
	}}
}
