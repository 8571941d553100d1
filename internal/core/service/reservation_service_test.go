package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/explore-taroudant/explore-api/internal/core/domain"
	"github.com/explore-taroudant/explore-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var today = time.Date(2026, 4, 15, 14, 30, 0, 0, time.UTC)

type reservationFixture struct {
	svc         *ReservationService
	repo        *stubReservationRepo
	activities  *memActivities
	circuits    *memCircuits
	idempotency *stubIdempotency
}

func newReservationFixture(t *testing.T) *reservationFixture {
	t.Helper()
	fixedClock(t, today)

	f := &reservationFixture{
		repo:        newStubReservationRepo(),
		activities:  newMemActivities(),
		circuits:    newMemCircuits(),
		idempotency: newStubIdempotency(),
	}
	f.activities.rows["act-active"] = &domain.Activity{Listing: domain.Listing{ID: "act-active", Status: domain.StatusActive, ProposerID: "profile-1"}, Title: "Souk walk"}
	f.activities.rows["act-pending"] = &domain.Activity{Listing: domain.Listing{ID: "act-pending", Status: domain.StatusPending, ProposerID: "profile-1"}, Title: "Draft"}
	f.circuits.rows["circ-active"] = &domain.Circuit{Listing: domain.Listing{ID: "circ-active", Status: domain.StatusActive, ProposerID: "profile-1"}, Title: "Desert Trek"}
	f.circuits.rows["circ-other"] = &domain.Circuit{Listing: domain.Listing{ID: "circ-other", Status: domain.StatusActive, ProposerID: "profile-2"}, Title: "Coast"}

	users := newStubUserRepo(adminUser, guideUser, otherGuide, touristUser)
	f.svc = NewReservationService(f.repo, users, f.activities, f.circuits, seededGuides(), f.idempotency, discardLogger)
	return f
}

func tomorrow() time.Time { return today.AddDate(0, 0, 1) }

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestReservationService_Create_CircuitConfirmed(t *testing.T) {
	f := newReservationFixture(t)

	res, err := f.svc.Create(context.Background(), touristUser.ID, ports.CreateReservationInput{CircuitID: "circ-active", Date: tomorrow()})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	r := res.Reservation
	if r.Status != domain.ReservationConfirmed {
		t.Errorf("status = %s, want CONFIRMED", r.Status)
	}
	if r.UserID != touristUser.ID || r.CircuitID != "circ-active" || r.ActivityID != "" {
		t.Errorf("unexpected reservation: %+v", r)
	}
	if !r.ReservationDate.Equal(time.Date(2026, 4, 16, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date not truncated to day: %v", r.ReservationDate)
	}
	if len(f.repo.rows) != 1 {
		t.Errorf("expected 1 stored reservation, got %d", len(f.repo.rows))
	}
}

func TestReservationService_Create_PendingTargetNotBookable(t *testing.T) {
	f := newReservationFixture(t)

	_, err := f.svc.Create(context.Background(), touristUser.ID, ports.CreateReservationInput{ActivityID: "act-pending", Date: tomorrow()})
	if !errors.Is(err, domain.ErrTargetNotBookable) {
		t.Fatalf("expected ErrTargetNotBookable, got %v", err)
	}
	if len(f.repo.rows) != 0 {
		t.Fatalf("no reservation should be stored")
	}
}

func TestReservationService_Create_TargetChecks(t *testing.T) {
	cases := []struct {
		name string
		in   ports.CreateReservationInput
		want error
	}{
		{"no target", ports.CreateReservationInput{Date: tomorrow()}, domain.ErrNoTargetSpecified},
		{"both targets", ports.CreateReservationInput{ActivityID: "act-active", CircuitID: "circ-active", Date: tomorrow()}, domain.ErrAmbiguousTarget},
		{"unknown activity", ports.CreateReservationInput{ActivityID: "missing", Date: tomorrow()}, domain.ErrTargetNotBookable},
		{"unknown circuit", ports.CreateReservationInput{CircuitID: "missing", Date: tomorrow()}, domain.ErrTargetNotBookable},
		{"missing date", ports.CreateReservationInput{ActivityID: "act-active"}, domain.ErrInvalidDate},
		{"yesterday", ports.CreateReservationInput{ActivityID: "act-active", Date: today.AddDate(0, 0, -1)}, domain.ErrInvalidDate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newReservationFixture(t)
			_, err := f.svc.Create(context.Background(), touristUser.ID, tc.in)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if len(f.repo.rows) != 0 {
				t.Fatalf("failed create must not persist")
			}
		})
	}
}

func TestReservationService_Create_DateKindsAreInvalidInput(t *testing.T) {
	f := newReservationFixture(t)

	_, err := f.svc.Create(context.Background(), touristUser.ID, ports.CreateReservationInput{ActivityID: "act-active", Date: today.AddDate(0, 0, -3)})
	if !domain.IsDomainError(err, domain.ErrCodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestReservationService_Create_TodayIsAccepted(t *testing.T) {
	f := newReservationFixture(t)

	// Earlier the same day still counts as today.
	earlier := time.Date(2026, 4, 15, 0, 5, 0, 0, time.UTC)
	if _, err := f.svc.Create(context.Background(), touristUser.ID, ports.CreateReservationInput{ActivityID: "act-active", Date: earlier}); err != nil {
		t.Fatalf("Create for today: %v", err)
	}
}

func TestReservationService_Create_UnknownActor(t *testing.T) {
	f := newReservationFixture(t)

	_, err := f.svc.Create(context.Background(), "ghost", ports.CreateReservationInput{ActivityID: "act-active", Date: tomorrow()})
	if !errors.Is(err, domain.ErrActorNotFound) {
		t.Fatalf("expected ErrActorNotFound, got %v", err)
	}
}

func TestReservationService_Create_IdempotentReplay(t *testing.T) {
	f := newReservationFixture(t)
	in := ports.CreateReservationInput{ActivityID: "act-active", Date: tomorrow(), IdempotencyKey: "key-1"}

	first, err := f.svc.Create(context.Background(), touristUser.ID, in)
	if err != nil {
		t.Fatalf("first Create: %v", err)
	}
	second, err := f.svc.Create(context.Background(), touristUser.ID, in)
	if err != nil {
		t.Fatalf("second Create: %v", err)
	}
	if !second.AlreadyExisted || second.Reservation.ID != first.Reservation.ID {
		t.Fatalf("expected replay of %s, got %+v", first.Reservation.ID, second)
	}
	if len(f.repo.rows) != 1 {
		t.Fatalf("replay must not create a second row, got %d", len(f.repo.rows))
	}
}

func TestReservationService_Create_IdempotencyStoreDown(t *testing.T) {
	f := newReservationFixture(t)
	f.idempotency.claimErr = errors.New("redis down")

	_, err := f.svc.Create(context.Background(), touristUser.ID, ports.CreateReservationInput{ActivityID: "act-active", Date: tomorrow(), IdempotencyKey: "k"})
	if err != nil {
		t.Fatalf("store failure should not fail the booking: %v", err)
	}
}

func TestReservationService_Create_ConcurrentSameKeyBooksOnce(t *testing.T) {
	f := newReservationFixture(t)
	in := ports.CreateReservationInput{CircuitID: "circ-active", Date: tomorrow(), IdempotencyKey: "k1"}

	const callers = 8
	var (
		wg      sync.WaitGroup
		start   = make(chan struct{})
		results = make([]*ports.ReservationResult, callers)
		errs    = make([]error, callers)
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i], errs[i] = f.svc.Create(context.Background(), touristUser.ID, in)
		}(i)
	}
	close(start)
	wg.Wait()

	if n := f.repo.count(); n != 1 {
		t.Fatalf("expected one reservation for one key, got %d", n)
	}
	created := 0
	for i := 0; i < callers; i++ {
		switch {
		case errs[i] != nil:
			if !errors.Is(errs[i], domain.ErrRequestInProgress) {
				t.Fatalf("caller %d: unexpected error %v", i, errs[i])
			}
		case !results[i].AlreadyExisted:
			created++
		}
	}
	if created != 1 {
		t.Fatalf("expected exactly one caller to create, got %d", created)
	}
}

func TestReservationService_Create_KeyInFlightConflicts(t *testing.T) {
	f := newReservationFixture(t)
	claimed, _, _ := f.idempotency.Claim(context.Background(), touristUser.ID, "k1")
	if !claimed {
		t.Fatal("setup: expected to claim the key")
	}

	_, err := f.svc.Create(context.Background(), touristUser.ID, ports.CreateReservationInput{ActivityID: "act-active", Date: tomorrow(), IdempotencyKey: "k1"})
	if !errors.Is(err, domain.ErrRequestInProgress) {
		t.Fatalf("expected ErrRequestInProgress, got %v", err)
	}
	if len(f.repo.rows) != 0 {
		t.Fatalf("no reservation may be written, got %d", len(f.repo.rows))
	}
}

func TestReservationService_Create_FailedRequestReleasesKey(t *testing.T) {
	f := newReservationFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, touristUser.ID, ports.CreateReservationInput{ActivityID: "act-pending", Date: tomorrow(), IdempotencyKey: "k1"})
	if !errors.Is(err, domain.ErrTargetNotBookable) {
		t.Fatalf("expected ErrTargetNotBookable, got %v", err)
	}
	if _, held := f.idempotency.held(touristUser.ID, "k1"); held {
		t.Fatal("a failed request must release its key")
	}

	res, err := f.svc.Create(ctx, touristUser.ID, ports.CreateReservationInput{ActivityID: "act-active", Date: tomorrow(), IdempotencyKey: "k1"})
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if id, _ := f.idempotency.held(touristUser.ID, "k1"); id != res.Reservation.ID {
		t.Fatalf("expected key bound to %s, got %q", res.Reservation.ID, id)
	}
}

// ---------------------------------------------------------------------------
// Cancel / status override / delete
// ---------------------------------------------------------------------------

func TestReservationService_Cancel_Lifecycle(t *testing.T) {
	f := newReservationFixture(t)
	ctx := context.Background()

	res, err := f.svc.Create(ctx, touristUser.ID, ports.CreateReservationInput{CircuitID: "circ-active", Date: tomorrow()})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := res.Reservation.ID

	if _, err := f.svc.Cancel(ctx, guideUser.ID, id); !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("foreign cancel: expected ErrNotOwner, got %v", err)
	}

	cancelled, err := f.svc.Cancel(ctx, touristUser.ID, id)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Status != domain.ReservationCancelled {
		t.Fatalf("status = %s, want CANCELLED", cancelled.Status)
	}

	_, err = f.svc.Cancel(ctx, touristUser.ID, id)
	if !errors.Is(err, domain.ErrAlreadyCancelled) {
		t.Fatalf("second cancel: expected ErrAlreadyCancelled, got %v", err)
	}
	if !domain.IsDomainError(err, domain.ErrCodeTerminalState) {
		t.Fatalf("expected TERMINAL_STATE code, got %v", domain.CodeOf(err))
	}
	if _, ok := f.repo.rows[id]; !ok {
		t.Fatalf("cancellation must keep the row")
	}
}

func TestReservationService_Cancel_NotFound(t *testing.T) {
	f := newReservationFixture(t)
	if _, err := f.svc.Cancel(context.Background(), touristUser.ID, "nope"); !errors.Is(err, domain.ErrReservationNotFound) {
		t.Fatalf("expected ErrReservationNotFound, got %v", err)
	}
}

func TestReservationService_UpdateStatus_AdminOverride(t *testing.T) {
	f := newReservationFixture(t)
	ctx := context.Background()
	f.repo.rows["r1"] = &domain.Reservation{ID: "r1", UserID: touristUser.ID, ActivityID: "act-active", Status: domain.ReservationCancelled}

	if _, err := f.svc.UpdateStatus(ctx, touristUser, "r1", domain.ReservationConfirmed); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// Any status may be written over any other.
	r, err := f.svc.UpdateStatus(ctx, adminUser, "r1", domain.ReservationPending)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if r.Status != domain.ReservationPending {
		t.Fatalf("status = %s, want PENDING", r.Status)
	}

	if _, err := f.svc.UpdateStatus(ctx, adminUser, "r1", "ARCHIVED"); !errors.Is(err, domain.ErrInvalidStatusValue) {
		t.Fatalf("expected ErrInvalidStatusValue, got %v", err)
	}
}

func TestReservationService_Delete(t *testing.T) {
	f := newReservationFixture(t)
	ctx := context.Background()
	f.repo.rows["r1"] = &domain.Reservation{ID: "r1", UserID: touristUser.ID}
	f.repo.rows["r2"] = &domain.Reservation{ID: "r2", UserID: touristUser.ID}

	if err := f.svc.Delete(ctx, guideUser, "r1"); !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := f.svc.Delete(ctx, touristUser, "r1"); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if err := f.svc.Delete(ctx, adminUser, "r2"); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if len(f.repo.rows) != 0 {
		t.Fatalf("expected both reservations removed")
	}
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

func TestReservationService_Mine_NewestFirst(t *testing.T) {
	f := newReservationFixture(t)
	d := func(day int) time.Time { return time.Date(2026, 5, day, 0, 0, 0, 0, time.UTC) }
	f.repo.rows["r1"] = &domain.Reservation{ID: "r1", UserID: touristUser.ID, ReservationDate: d(1), Status: domain.ReservationConfirmed}
	f.repo.rows["r2"] = &domain.Reservation{ID: "r2", UserID: touristUser.ID, ReservationDate: d(9), Status: domain.ReservationCancelled}
	f.repo.rows["r3"] = &domain.Reservation{ID: "r3", UserID: guideUser.ID, ReservationDate: d(5), Status: domain.ReservationConfirmed}

	got, err := f.svc.Mine(context.Background(), touristUser.ID, "")
	if err != nil {
		t.Fatalf("Mine: %v", err)
	}
	if len(got) != 2 || got[0].ID != "r2" || got[1].ID != "r1" {
		t.Fatalf("unexpected order: %+v", got)
	}

	confirmed, _ := f.svc.Mine(context.Background(), touristUser.ID, domain.ReservationConfirmed)
	if len(confirmed) != 1 || confirmed[0].ID != "r1" {
		t.Fatalf("status filter not applied: %+v", confirmed)
	}
}

func TestReservationService_ForGuide(t *testing.T) {
	f := newReservationFixture(t)
	ctx := context.Background()
	f.repo.rows["r1"] = &domain.Reservation{ID: "r1", UserID: touristUser.ID, ActivityID: "act-active"}
	f.repo.rows["r2"] = &domain.Reservation{ID: "r2", UserID: touristUser.ID, CircuitID: "circ-active"}
	f.repo.rows["r3"] = &domain.Reservation{ID: "r3", UserID: touristUser.ID, CircuitID: "circ-other"}

	got, err := f.svc.ForGuide(ctx, guideUser)
	if err != nil {
		t.Fatalf("ForGuide: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 reservations on the guide's content, got %d", len(got))
	}
	for _, r := range got {
		if r.ID == "r3" {
			t.Fatalf("reservation on another guide's circuit returned")
		}
	}

	if _, err := f.svc.ForGuide(ctx, touristUser); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("tourist: expected ErrForbidden, got %v", err)
	}
}

func TestReservationService_All_AdminOnly(t *testing.T) {
	f := newReservationFixture(t)
	if _, err := f.svc.All(context.Background(), guideUser); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.All(context.Background(), adminUser); err != nil {
		t.Fatalf("All: %v", err)
	}
}

// ---------------------------------------------------------------------------
// End to end: propose, validate, book, cancel
// ---------------------------------------------------------------------------

func TestModerationAndReservation_EndToEnd(t *testing.T) {
	fixedClock(t, today)
	ctx := context.Background()

	circuits := newMemCircuits()
	activities := newMemActivities()
	guides := seededGuides()
	users := newStubUserRepo(adminUser, guideUser, touristUser)
	circuitSvc := NewCircuitService(circuits, guides, nil, discardLogger)
	reservations := NewReservationService(newStubReservationRepo(), users, activities, circuits, guides, nil, discardLogger)

	c, err := circuitSvc.Create(ctx, guideUser, &domain.Circuit{Title: "Desert Trek", Price: 100, Duration: "2 days"})
	if err != nil {
		t.Fatalf("create circuit: %v", err)
	}

	_, err = reservations.Create(ctx, touristUser.ID, ports.CreateReservationInput{CircuitID: c.ID, Date: tomorrow()})
	if !errors.Is(err, domain.ErrTargetNotBookable) {
		t.Fatalf("pending circuit: expected ErrTargetNotBookable, got %v", err)
	}

	if _, err := circuitSvc.Validate(ctx, adminUser, c.ID); err != nil {
		t.Fatalf("validate: %v", err)
	}

	res, err := reservations.Create(ctx, touristUser.ID, ports.CreateReservationInput{CircuitID: c.ID, Date: tomorrow()})
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if _, err := reservations.Cancel(ctx, touristUser.ID, res.Reservation.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := reservations.Cancel(ctx, touristUser.ID, res.Reservation.ID); !errors.Is(err, domain.ErrAlreadyCancelled) {
		t.Fatalf("expected ErrAlreadyCancelled, got %v", err)
	}

	// An owner edit sends the circuit back to review and closes booking.
	if _, err := circuitSvc.Update(ctx, guideUser, c.ID, &domain.Circuit{Title: "Desert Trek", Price: 110}); err != nil {
		t.Fatalf("owner edit: %v", err)
	}
	_, err = reservations.Create(ctx, touristUser.ID, ports.CreateReservationInput{CircuitID: c.ID, Date: tomorrow()})
	if !errors.Is(err, domain.ErrTargetNotBookable) {
		t.Fatalf("re-review circuit: expected ErrTargetNotBookable, got %v", err)
	}
}
