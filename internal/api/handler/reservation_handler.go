package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/explore-taroudant/explore-api/internal/api/metrics"
	"github.com/explore-taroudant/explore-api/internal/core/domain"
	"github.com/explore-taroudant/explore-api/internal/core/ports"
)

const headerIdempotencyKey = "Idempotency-Key"

// ReservationHandler handles HTTP requests for reservation operations.
type ReservationHandler struct {
	service ports.ReservationService
}

func NewReservationHandler(service ports.ReservationService) *ReservationHandler {
	return &ReservationHandler{service: service}
}

// parseDay accepts a calendar date (2006-01-02) or a full RFC 3339 timestamp.
func parseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, domain.Invalid("reservation_date must be a date (YYYY-MM-DD)")
	}
	return t, nil
}

// Create handles POST /reservations.
//
// @Summary      Book an activity or a circuit
// @Tags         reservations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string              false  "Replays the first reservation created with this key"
// @Param        body             body      reservationRequest  true   "Exactly one of activity_id and circuit_id"
// @Success      201              {object}  domain.Reservation
// @Success      200              {object}  domain.Reservation  "Replayed"
// @Failure      409              {object}  errorResponse       "Same key still in flight"
// @Failure      422              {object}  errorResponse
// @Router       /reservations [post]
func (h *ReservationHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req reservationRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	day, err := parseDay(req.ReservationDate)
	if err != nil {
		return err
	}

	result, err := h.service.Create(c.Request().Context(), actor.ID, ports.CreateReservationInput{
		ActivityID:     strings.TrimSpace(req.ActivityID),
		CircuitID:      strings.TrimSpace(req.CircuitID),
		Date:           day,
		IdempotencyKey: c.Request().Header.Get(headerIdempotencyKey),
	})
	if err != nil {
		return err
	}

	if result.AlreadyExisted {
		metrics.ReservationsTotal.WithLabelValues("replayed").Inc()
		return c.JSON(http.StatusOK, result.Reservation)
	}
	metrics.ReservationsTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, result.Reservation)
}

// Mine handles GET /reservations/my?status=.
//
// @Summary      Own reservations, latest date first
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "PENDING, CONFIRMED or CANCELLED"
// @Success      200     {array}   domain.Reservation
// @Router       /reservations/my [get]
func (h *ReservationHandler) Mine(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var status domain.ReservationStatus
	if q := c.QueryParam("status"); q != "" {
		st, ok := domain.ParseReservationStatus(strings.ToUpper(q))
		if !ok {
			return domain.ErrInvalidStatusValue
		}
		status = st
	}

	items, err := h.service.Mine(c.Request().Context(), actor.ID, status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Cancel handles PUT /reservations/:id/cancel.
//
// @Summary      Cancel own reservation
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Reservation id"
// @Success      200  {object}  domain.Reservation
// @Failure      403  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /reservations/{id}/cancel [put]
func (h *ReservationHandler) Cancel(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	r, err := h.service.Cancel(c.Request().Context(), actor.ID, c.Param("id"))
	if err != nil {
		return err
	}
	metrics.ReservationsTotal.WithLabelValues("cancelled").Inc()
	return c.JSON(http.StatusOK, r)
}

// UpdateStatus handles PUT /reservations/:id/status.
//
// @Summary      Override a reservation status
// @Tags         reservations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Reservation id"
// @Param        body  body      statusRequest  true  "New status"
// @Success      200   {object}  domain.Reservation
// @Router       /reservations/{id}/status [put]
func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req statusRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	status, ok := domain.ParseReservationStatus(strings.ToUpper(req.Status))
	if !ok {
		return domain.ErrInvalidStatusValue
	}

	r, err := h.service.UpdateStatus(c.Request().Context(), actor, c.Param("id"), status)
	if err != nil {
		return err
	}
	metrics.ReservationsTotal.WithLabelValues("overridden").Inc()
	return c.JSON(http.StatusOK, r)
}

// Delete handles DELETE /reservations/:id.
//
// @Summary      Remove a reservation
// @Tags         reservations
// @Security     BearerAuth
// @Param        id  path  string  true  "Reservation id"
// @Success      204
// @Router       /reservations/{id} [delete]
func (h *ReservationHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	metrics.ReservationsTotal.WithLabelValues("deleted").Inc()
	return c.NoContent(http.StatusNoContent)
}

// ForGuide handles GET /reservations/guide.
//
// @Summary      Reservations of the caller's activities and circuits
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Reservation
// @Router       /reservations/guide [get]
func (h *ReservationHandler) ForGuide(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	items, err := h.service.ForGuide(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// All handles GET /reservations/all.
//
// @Summary      Every reservation
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Reservation
// @Router       /reservations/all [get]
func (h *ReservationHandler) All(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	items, err := h.service.All(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}
