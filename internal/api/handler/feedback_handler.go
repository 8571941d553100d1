package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/explore-taroudant/explore-api/internal/api/metrics"
	"github.com/explore-taroudant/explore-api/internal/core/ports"
)

type ReportHandler struct {
	service ports.ReportService
}

func NewReportHandler(service ports.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// Submit handles POST /reports.
//
// @Summary      File a report
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      reportRequest  true  "Report"
// @Success      201   {object}  domain.Report
// @Router       /reports [post]
func (h *ReportHandler) Submit(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req reportRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	r, err := h.service.Submit(c.Request().Context(), actor, req.ReportType, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, r)
}

// List handles GET /reports.
//
// @Summary      All reports
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Report
// @Router       /reports [get]
func (h *ReportHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	items, err := h.service.List(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// SetStatus handles PUT /reports/:id/status.
//
// @Summary      Change the status of a report
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Report id"
// @Param        body  body      statusRequest  true  "OPEN, IN_PROGRESS, RESOLVED or CLOSED"
// @Success      200   {object}  domain.Report
// @Router       /reports/{id}/status [put]
func (h *ReportHandler) SetStatus(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req statusRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	r, err := h.service.SetStatus(c.Request().Context(), actor, c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

type ReviewHandler struct {
	service ports.ReviewService
}

func NewReviewHandler(service ports.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// Create handles POST /reviews.
//
// @Summary      Review a place
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      reviewRequest  true  "Rating 1..5"
// @Success      201   {object}  domain.Review
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /reviews [post]
func (h *ReviewHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req reviewRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	r, err := h.service.Create(c.Request().Context(), actor, req.PlaceID, req.Rating, req.Comment)
	if err != nil {
		return err
	}
	metrics.ReviewsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, r)
}

// Update handles PUT /reviews/:id.
//
// @Summary      Edit own review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Review id"
// @Param        body  body      reviewUpdateRequest  true  "Rating 1..5"
// @Success      200   {object}  domain.Review
// @Router       /reviews/{id} [put]
func (h *ReviewHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req reviewUpdateRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	r, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), req.Rating, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

// Delete handles DELETE /reviews/:id.
//
// @Summary      Delete a review
// @Tags         reviews
// @Security     BearerAuth
// @Param        id  path  string  true  "Review id"
// @Success      204
// @Router       /reviews/{id} [delete]
func (h *ReviewHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Get handles GET /reviews/:id.
//
// @Summary      A single review
// @Tags         reviews
// @Produce      json
// @Param        id   path      string  true  "Review id"
// @Success      200  {object}  domain.Review
// @Router       /reviews/{id} [get]
func (h *ReviewHandler) Get(c echo.Context) error {
	r, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

// ByPlace handles GET /reviews/place/:placeId.
//
// @Summary      Reviews of a place
// @Tags         reviews
// @Produce      json
// @Param        placeId  path      string  true  "Place id"
// @Success      200      {array}   domain.Review
// @Router       /reviews/place/{placeId} [get]
func (h *ReviewHandler) ByPlace(c echo.Context) error {
	items, err := h.service.ByPlace(c.Request().Context(), c.Param("placeId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Average handles GET /reviews/place/:placeId/average.
//
// @Summary      Average rating of a place
// @Tags         reviews
// @Produce      json
// @Param        placeId  path      string  true  "Place id"
// @Success      200      {object}  domain.RatingSummary
// @Router       /reviews/place/{placeId}/average [get]
func (h *ReviewHandler) Average(c echo.Context) error {
	sum, err := h.service.Average(c.Request().Context(), c.Param("placeId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sum)
}

// ByUser handles GET /reviews/user/:userId.
//
// @Summary      Reviews written by a user
// @Tags         reviews
// @Produce      json
// @Param        userId  path      string  true  "User id"
// @Success      200     {array}   domain.Review
// @Router       /reviews/user/{userId} [get]
func (h *ReviewHandler) ByUser(c echo.Context) error {
	items, err := h.service.ByUser(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}
