package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/explore-taroudant/explore-api/internal/core/domain"
)

// stubPlaceService records the last call and answers with canned values.
type stubPlaceService struct {
	created    *domain.Place
	lastActor  *domain.User
	lastViewer *domain.User
	lastID     string
	lastQuery  string
	err        error
}

func (s *stubPlaceService) Get(_ context.Context, viewer *domain.User, id string) (*domain.Place, error) {
	s.lastViewer, s.lastID = viewer, id
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Place{Listing: domain.Listing{ID: id, Status: domain.StatusActive}, Name: "Kasbah"}, nil
}

func (s *stubPlaceService) ListActive(context.Context) ([]*domain.Place, error) {
	return []*domain.Place{{Name: "Kasbah"}}, s.err
}

func (s *stubPlaceService) ListPending(_ context.Context, actor *domain.User) ([]*domain.Place, error) {
	s.lastActor = actor
	return nil, s.err
}

func (s *stubPlaceService) ListAll(_ context.Context, actor *domain.User) ([]*domain.Place, error) {
	s.lastActor = actor
	return nil, s.err
}

func (s *stubPlaceService) ListMine(_ context.Context, actor *domain.User) ([]*domain.Place, error) {
	s.lastActor = actor
	return nil, s.err
}

func (s *stubPlaceService) Create(_ context.Context, actor *domain.User, draft *domain.Place) (*domain.Place, error) {
	s.lastActor = actor
	if s.err != nil {
		return nil, s.err
	}
	draft.ID = "p1"
	draft.Status = domain.StatusPending
	if actor.IsAdmin() {
		draft.Status = domain.StatusActive
	}
	s.created = draft
	return draft, nil
}

func (s *stubPlaceService) Update(_ context.Context, actor *domain.User, id string, changes *domain.Place) (*domain.Place, error) {
	s.lastActor, s.lastID = actor, id
	if s.err != nil {
		return nil, s.err
	}
	changes.ID = id
	return changes, nil
}

func (s *stubPlaceService) Validate(_ context.Context, actor *domain.User, id string) (*domain.Place, error) {
	s.lastActor, s.lastID = actor, id
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Place{Listing: domain.Listing{ID: id, Status: domain.StatusActive}}, nil
}

func (s *stubPlaceService) Delete(_ context.Context, actor *domain.User, id string) error {
	s.lastActor, s.lastID = actor, id
	return s.err
}

func (s *stubPlaceService) Search(_ context.Context, query string) ([]*domain.Place, error) {
	s.lastQuery = query
	return []*domain.Place{}, s.err
}

func (s *stubPlaceService) ByCity(_ context.Context, city string) ([]*domain.Place, error) {
	s.lastQuery = city
	return []*domain.Place{}, s.err
}

func TestListingHandler_CreateMapsRequest(t *testing.T) {
	svc := &stubPlaceService{}
	h := NewPlaceHandler(svc)

	c, rec := newTestContext(http.MethodPost, "/places",
		`{"name":"  Kasbah  ","city":" Taroudant ","latitude":30.47,"longitude":-8.87,"status":"ACTIVE","proposer_id":"forged"}`, testGuide)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if svc.created.Name != "Kasbah" || svc.created.City != "Taroudant" {
		t.Fatalf("expected trimmed fields, got %+v", svc.created)
	}
	if svc.lastActor != testGuide {
		t.Fatal("expected the loaded actor to be passed through")
	}

	var resp domain.Place
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Status != domain.StatusPending || resp.ProposerID == "forged" {
		t.Fatalf("moderation fields must come from the service, got %+v", resp.Listing)
	}
}

func TestListingHandler_CreateValidation(t *testing.T) {
	h := NewPlaceHandler(&stubPlaceService{})

	cases := map[string]string{
		"missing name":  `{"city":"Taroudant"}`,
		"bad latitude":  `{"name":"A","city":"T","latitude":120}`,
		"bad image url": `{"name":"A","city":"T","image_url":"not a url"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := newTestContext(http.MethodPost, "/places", body, testGuide)
			assertHTTPStatus(t, h.Create(c), http.StatusUnprocessableEntity)
		})
	}
}

func TestListingHandler_CreateRequiresActor(t *testing.T) {
	h := NewPlaceHandler(&stubPlaceService{})
	c, _ := newTestContext(http.MethodPost, "/places", `{"name":"A","city":"T"}`, nil)
	assertHTTPStatus(t, h.Create(c), http.StatusUnauthorized)
}

func TestListingHandler_GetPassesViewer(t *testing.T) {
	svc := &stubPlaceService{}
	h := NewPlaceHandler(svc)

	c, rec := newTestContext(http.MethodGet, "/places/p1", "", nil)
	if err := h.Get(withParam(c, "id", "p1")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || svc.lastID != "p1" || svc.lastViewer != nil {
		t.Fatalf("unexpected call: code=%d id=%s viewer=%v", rec.Code, svc.lastID, svc.lastViewer)
	}

	c, _ = newTestContext(http.MethodGet, "/places/p1", "", testAdmin)
	_ = h.Get(withParam(c, "id", "p1"))
	if svc.lastViewer != testAdmin {
		t.Fatal("expected the admin viewer to be forwarded")
	}
}

func TestListingHandler_PropagatesDomainErrors(t *testing.T) {
	svc := &stubPlaceService{err: domain.ErrPlaceNotFound}
	h := NewPlaceHandler(svc)

	c, _ := newTestContext(http.MethodPut, "/places/p9/validate", "", testAdmin)
	err := h.Validate(withParam(c, "id", "p9"))
	if !errors.Is(err, domain.ErrPlaceNotFound) {
		t.Fatalf("expected ErrPlaceNotFound, got %v", err)
	}

	svc.err = domain.ErrNotOwner
	c, _ = newTestContext(http.MethodDelete, "/places/p9", "", testGuide)
	if err := h.Delete(withParam(c, "id", "p9")); !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestListingHandler_DeleteNoContent(t *testing.T) {
	svc := &stubPlaceService{}
	h := NewPlaceHandler(svc)

	c, rec := newTestContext(http.MethodDelete, "/places/p1", "", testAdmin)
	if err := h.Delete(withParam(c, "id", "p1")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent || svc.lastID != "p1" {
		t.Fatalf("expected 204 for p1, got %d %s", rec.Code, svc.lastID)
	}
}

func TestPlaceHandler_Search(t *testing.T) {
	svc := &stubPlaceService{}
	h := NewPlaceHandler(svc)

	c, rec := newTestContext(http.MethodGet, "/places/search?q=kas", "", nil)
	if err := h.Search(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if svc.lastQuery != "kas" || rec.Body.String() != "[]\n" {
		t.Fatalf("unexpected search: q=%q body=%q", svc.lastQuery, rec.Body.String())
	}
}

func TestToEvent_NormalisesDates(t *testing.T) {
	var req eventRequest
	if err := json.Unmarshal([]byte(`{"title":" Moussem ","start_date":"2026-11-01T10:00:00+01:00","end_date":"2026-11-03T18:00:00+01:00"}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	ev := toEvent(req)
	if ev.Title != "Moussem" {
		t.Fatalf("expected trimmed title, got %q", ev.Title)
	}
	if ev.StartDate.Location().String() != "UTC" || ev.StartDate.Hour() != 9 {
		t.Fatalf("expected UTC start, got %v", ev.StartDate)
	}
}
