package handler

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/explore-taroudant/explore-api/internal/api/middleware"
	"github.com/explore-taroudant/explore-api/internal/core/domain"
)

func newTestContext(method, target, body string, actor *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if actor != nil {
		c.Set(middleware.KeyActor, actor)
		c.Set(middleware.KeyUserID, actor.ID)
		c.Set(middleware.KeyRole, string(actor.Role))
	}
	return c, rec
}

func withParam(c echo.Context, name, value string) echo.Context {
	c.SetParamNames(name)
	c.SetParamValues(value)
	return c
}

func assertHTTPStatus(t *testing.T, err error, want int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected echo.HTTPError %d, got %v", want, err)
	}
	if he.Code != want {
		t.Fatalf("expected status %d, got %d (%v)", want, he.Code, he.Message)
	}
}

var (
	testTourist = &domain.User{ID: "u-tourist", Role: domain.RoleTourist, Status: domain.AccountActive}
	testGuide   = &domain.User{ID: "u-guide", Role: domain.RoleGuide, Status: domain.AccountActive}
	testAdmin   = &domain.User{ID: "u-admin", Role: domain.RoleAdmin, Status: domain.AccountActive}
)
