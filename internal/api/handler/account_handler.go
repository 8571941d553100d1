package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/explore-taroudant/explore-api/internal/core/domain"
	"github.com/explore-taroudant/explore-api/internal/core/ports"
)

// GuideHandler serves the caller's own guide profile.
type GuideHandler struct {
	service ports.GuideService
}

func NewGuideHandler(service ports.GuideService) *GuideHandler {
	return &GuideHandler{service: service}
}

// Profile handles GET /guide/profile.
//
// @Summary      Own guide profile
// @Tags         guide
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.GuideProfile
// @Failure      403  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /guide/profile [get]
func (h *GuideHandler) Profile(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	p, err := h.service.Profile(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// UpdateProfile handles PUT /guide/profile.
//
// @Summary      Update own guide profile
// @Tags         guide
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      guideProfileRequest  true  "Profile fields"
// @Success      200   {object}  domain.GuideProfile
// @Router       /guide/profile [put]
func (h *GuideHandler) UpdateProfile(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req guideProfileRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	p, err := h.service.UpdateProfile(c.Request().Context(), actor, req.Bio, req.Languages)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// AdminHandler exposes account administration.
type AdminHandler struct {
	service ports.AccountService
}

func NewAdminHandler(service ports.AccountService) *AdminHandler {
	return &AdminHandler{service: service}
}

// Users handles GET /admin/users?role=.
//
// @Summary      List accounts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        role  query     string  false  "TOURIST, GUIDE or ADMIN"
// @Success      200   {array}   domain.User
// @Router       /admin/users [get]
func (h *AdminHandler) Users(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	users, err := h.service.List(c.Request().Context(), actor, c.QueryParam("role"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// SetGuideStatus handles PUT /admin/guides/:id/status.
//
// @Summary      Activate or suspend a guide
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Guide user id"
// @Param        body  body      accountStatusRequest  true  "New status"
// @Success      200   {object}  domain.User
// @Failure      404   {object}  errorResponse
// @Router       /admin/guides/{id}/status [put]
func (h *AdminHandler) SetGuideStatus(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req accountStatusRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	user, err := h.service.SetGuideStatus(c.Request().Context(), actor, c.Param("id"), domain.AccountStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteGuide handles DELETE /admin/guides/:id.
//
// @Summary      Delete a guide account
// @Tags         admin
// @Security     BearerAuth
// @Param        id  path  string  true  "Guide user id"
// @Success      204
// @Router       /admin/guides/{id} [delete]
func (h *AdminHandler) DeleteGuide(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteGuide(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteTourist handles DELETE /admin/tourists/:id.
//
// @Summary      Delete a tourist account
// @Tags         admin
// @Security     BearerAuth
// @Param        id  path  string  true  "Tourist user id"
// @Success      204
// @Router       /admin/tourists/{id} [delete]
func (h *AdminHandler) DeleteTourist(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteTourist(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
