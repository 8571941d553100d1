package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/explore-taroudant/explore-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Generic in-memory listing store
// ---------------------------------------------------------------------------

type memStore[T any, P moderated[T]] struct {
	rows     map[string]*T
	notFound error
	saveErr  error
	saves    int
}

func newMemStore[T any, P moderated[T]](notFound error) *memStore[T, P] {
	return &memStore[T, P]{rows: make(map[string]*T), notFound: notFound}
}

func (m *memStore[T, P]) clone(e *T) *T {
	c := *e
	return &c
}

func (m *memStore[T, P]) FindByID(_ context.Context, id string) (*T, error) {
	e, ok := m.rows[id]
	if !ok {
		return nil, m.notFound
	}
	return m.clone(e), nil
}

func (m *memStore[T, P]) filter(keep func(l *domain.Listing) bool) []*T {
	out := []*T{}
	for _, e := range m.rows {
		if keep(P(e).Base()) {
			out = append(out, m.clone(e))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return P(out[i]).Base().CreatedAt.After(P(out[j]).Base().CreatedAt)
	})
	return out
}

func (m *memStore[T, P]) FindAll(_ context.Context) ([]*T, error) {
	return m.filter(func(*domain.Listing) bool { return true }), nil
}

func (m *memStore[T, P]) FindByStatus(_ context.Context, status domain.ModerationStatus) ([]*T, error) {
	return m.filter(func(l *domain.Listing) bool { return l.Status == status }), nil
}

func (m *memStore[T, P]) FindByProposer(_ context.Context, proposerID string) ([]*T, error) {
	return m.filter(func(l *domain.Listing) bool { return l.ProposerID == proposerID }), nil
}

func (m *memStore[T, P]) Save(_ context.Context, e *T) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.rows[P(e).Base().ID] = m.clone(e)
	return nil
}

func (m *memStore[T, P]) Delete(_ context.Context, id string) error {
	if _, ok := m.rows[id]; !ok {
		return m.notFound
	}
	delete(m.rows, id)
	return nil
}

type memPlaces struct {
	*memStore[domain.Place, *domain.Place]
}

func newMemPlaces() *memPlaces {
	return &memPlaces{newMemStore[domain.Place, *domain.Place](domain.ErrPlaceNotFound)}
}

func (m *memPlaces) Search(_ context.Context, query string, status domain.ModerationStatus) ([]*domain.Place, error) {
	q := strings.ToLower(query)
	return m.filterPlaces(status, func(p *domain.Place) bool {
		return strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.City), q)
	}), nil
}

func (m *memPlaces) FindByCity(_ context.Context, city string, status domain.ModerationStatus) ([]*domain.Place, error) {
	c := strings.ToLower(city)
	return m.filterPlaces(status, func(p *domain.Place) bool {
		return strings.Contains(strings.ToLower(p.City), c)
	}), nil
}

func (m *memPlaces) filterPlaces(status domain.ModerationStatus, keep func(*domain.Place) bool) []*domain.Place {
	out := []*domain.Place{}
	for _, p := range m.rows {
		if p.Status == status && keep(p) {
			c := *p
			out = append(out, &c)
		}
	}
	return out
}

type memActivities struct {
	*memStore[domain.Activity, *domain.Activity]
}

func newMemActivities() *memActivities {
	return &memActivities{newMemStore[domain.Activity, *domain.Activity](domain.ErrActivityNotFound)}
}

func (m *memActivities) FindByPlace(_ context.Context, placeID string, status domain.ModerationStatus) ([]*domain.Activity, error) {
	out := []*domain.Activity{}
	for _, a := range m.rows {
		if a.PlaceID == placeID && a.Status == status {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

type memCircuits struct {
	*memStore[domain.Circuit, *domain.Circuit]
}

func newMemCircuits() *memCircuits {
	return &memCircuits{newMemStore[domain.Circuit, *domain.Circuit](domain.ErrCircuitNotFound)}
}

type memEvents struct {
	*memStore[domain.Event, *domain.Event]
}

func newMemEvents() *memEvents {
	return &memEvents{newMemStore[domain.Event, *domain.Event](domain.ErrEventNotFound)}
}

func (m *memEvents) FindEndingFrom(_ context.Context, day time.Time, status domain.ModerationStatus) ([]*domain.Event, error) {
	out := []*domain.Event{}
	for _, e := range m.rows {
		if e.EndDate.Before(day) {
			continue
		}
		if status != "" && e.Status != status {
			continue
		}
		c := *e
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

type memArtisans struct {
	*memStore[domain.Artisan, *domain.Artisan]
}

func newMemArtisans() *memArtisans {
	return &memArtisans{newMemStore[domain.Artisan, *domain.Artisan](domain.ErrArtisanNotFound)}
}

// ---------------------------------------------------------------------------
// Accounts
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users     map[string]*domain.User
	createErr error
}

func newStubUserRepo(seed ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]*domain.User)}
	for _, u := range seed {
		c := *u
		r.users[u.ID] = &c
	}
	return r
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByRole(_ context.Context, role domain.Role) ([]*domain.User, error) {
	out := []*domain.User{}
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]*domain.User, error) {
	out := []*domain.User{}
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type stubGuideRepo struct {
	byUser  map[string]*domain.GuideProfile
	saveErr error
}

func newStubGuideRepo(seed ...*domain.GuideProfile) *stubGuideRepo {
	r := &stubGuideRepo{byUser: make(map[string]*domain.GuideProfile)}
	for _, p := range seed {
		c := *p
		r.byUser[p.UserID] = &c
	}
	return r
}

func (r *stubGuideRepo) FindByUserID(_ context.Context, userID string) (*domain.GuideProfile, error) {
	p, ok := r.byUser[userID]
	if !ok {
		return nil, domain.ErrProfileMissing
	}
	c := *p
	return &c, nil
}

func (r *stubGuideRepo) Save(_ context.Context, p *domain.GuideProfile) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	c := *p
	r.byUser[p.UserID] = &c
	return nil
}

func (r *stubGuideRepo) DeleteByUserID(_ context.Context, userID string) error {
	if _, ok := r.byUser[userID]; !ok {
		return domain.ErrProfileMissing
	}
	delete(r.byUser, userID)
	return nil
}

// ---------------------------------------------------------------------------
// Reservations, audit, idempotency
// ---------------------------------------------------------------------------

type stubReservationRepo struct {
	mu      sync.Mutex
	rows    map[string]*domain.Reservation
	saveErr error
}

func newStubReservationRepo() *stubReservationRepo {
	return &stubReservationRepo{rows: make(map[string]*domain.Reservation)}
}

func (r *stubReservationRepo) FindByID(_ context.Context, id string) (*domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrReservationNotFound
	}
	c := *res
	return &c, nil
}

func (r *stubReservationRepo) FindByUser(_ context.Context, userID string, status domain.ReservationStatus) ([]*domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Reservation{}
	for _, res := range r.rows {
		if res.UserID != userID || (status != "" && res.Status != status) {
			continue
		}
		c := *res
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReservationDate.After(out[j].ReservationDate) })
	return out, nil
}

func (r *stubReservationRepo) FindByTargets(_ context.Context, activityIDs, circuitIDs []string) ([]*domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := make(map[string]bool)
	for _, id := range activityIDs {
		want["a:"+id] = true
	}
	for _, id := range circuitIDs {
		want["c:"+id] = true
	}
	out := []*domain.Reservation{}
	for _, res := range r.rows {
		if (res.ActivityID != "" && want["a:"+res.ActivityID]) || (res.CircuitID != "" && want["c:"+res.CircuitID]) {
			c := *res
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *stubReservationRepo) FindAll(_ context.Context) ([]*domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Reservation{}
	for _, res := range r.rows {
		c := *res
		out = append(out, &c)
	}
	return out, nil
}

func (r *stubReservationRepo) Save(_ context.Context, res *domain.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	c := *res
	r.rows[res.ID] = &c
	return nil
}

func (r *stubReservationRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return domain.ErrReservationNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *stubReservationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// stubIdempotency mirrors the SETNX claim of the Redis store. An empty value
// marks a claim that has not been completed.
type stubIdempotency struct {
	mu       sync.Mutex
	keys     map[string]string
	claimErr error
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]string)}
}

func (s *stubIdempotency) Claim(_ context.Context, actorID, key string) (bool, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.claimErr != nil {
		return false, "", s.claimErr
	}
	if id, taken := s.keys[actorID+":"+key]; taken {
		return false, id, nil
	}
	s.keys[actorID+":"+key] = ""
	return true, "", nil
}

func (s *stubIdempotency) Complete(_ context.Context, actorID, key, reservationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[actorID+":"+key] = reservationID
	return nil
}

func (s *stubIdempotency) Release(_ context.Context, actorID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, actorID+":"+key)
	return nil
}

func (s *stubIdempotency) held(actorID, key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.keys[actorID+":"+key]
	return id, ok
}

type stubAudit struct {
	events []*domain.ModerationEvent
	err    error
}

func (a *stubAudit) Record(_ context.Context, e *domain.ModerationEvent) error {
	if a.err != nil {
		return a.err
	}
	a.events = append(a.events, e)
	return nil
}

// ---------------------------------------------------------------------------
// Feedback
// ---------------------------------------------------------------------------

type stubReportRepo struct {
	rows map[string]*domain.Report
}

func (r *stubReportRepo) FindByID(_ context.Context, id string) (*domain.Report, error) {
	rep, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrReportNotFound
	}
	c := *rep
	return &c, nil
}

func (r *stubReportRepo) FindAll(_ context.Context) ([]*domain.Report, error) {
	out := []*domain.Report{}
	for _, rep := range r.rows {
		c := *rep
		out = append(out, &c)
	}
	return out, nil
}

func (r *stubReportRepo) Save(_ context.Context, rep *domain.Report) error {
	c := *rep
	r.rows[rep.ID] = &c
	return nil
}

type stubReviewRepo struct {
	rows map[string]*domain.Review
}

func (r *stubReviewRepo) FindByID(_ context.Context, id string) (*domain.Review, error) {
	rev, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrReviewNotFound
	}
	c := *rev
	return &c, nil
}

func (r *stubReviewRepo) list(keep func(*domain.Review) bool) []*domain.Review {
	out := []*domain.Review{}
	for _, rev := range r.rows {
		if keep(rev) {
			c := *rev
			out = append(out, &c)
		}
	}
	return out
}

func (r *stubReviewRepo) FindByPlace(_ context.Context, placeID string) ([]*domain.Review, error) {
	return r.list(func(rev *domain.Review) bool { return rev.PlaceID == placeID }), nil
}

func (r *stubReviewRepo) FindByUser(_ context.Context, userID string) ([]*domain.Review, error) {
	return r.list(func(rev *domain.Review) bool { return rev.UserID == userID }), nil
}

func (r *stubReviewRepo) Save(_ context.Context, rev *domain.Review) error {
	c := *rev
	r.rows[rev.ID] = &c
	return nil
}

func (r *stubReviewRepo) Delete(_ context.Context, id string) error {
	delete(r.rows, id)
	return nil
}

func (r *stubReviewRepo) Summary(_ context.Context, placeID string) (*domain.RatingSummary, error) {
	sum := &domain.RatingSummary{PlaceID: placeID}
	total := 0
	for _, rev := range r.rows {
		if rev.PlaceID == placeID {
			total += rev.Rating
			sum.Count++
		}
	}
	if sum.Count > 0 {
		sum.Average = float64(total) / float64(sum.Count)
	}
	return sum, nil
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

var (
	adminUser   = &domain.User{ID: "admin-1", Role: domain.RoleAdmin, Status: domain.AccountActive, Email: "admin@example.com"}
	guideUser   = &domain.User{ID: "guide-1", Role: domain.RoleGuide, Status: domain.AccountActive, Email: "g1@example.com"}
	otherGuide  = &domain.User{ID: "guide-2", Role: domain.RoleGuide, Status: domain.AccountActive, Email: "g2@example.com"}
	bareGuide   = &domain.User{ID: "guide-3", Role: domain.RoleGuide, Status: domain.AccountActive, Email: "g3@example.com"}
	touristUser = &domain.User{ID: "tourist-1", Role: domain.RoleTourist, Status: domain.AccountActive, Email: "t1@example.com"}
)

func seededGuides() *stubGuideRepo {
	return newStubGuideRepo(
		&domain.GuideProfile{ID: "profile-1", UserID: guideUser.ID},
		&domain.GuideProfile{ID: "profile-2", UserID: otherGuide.ID},
	)
}

// fixedClock pins nowFunc for the duration of a test.
func fixedClock(t interface{ Cleanup(func()) }, at time.Time) {
	prev := nowFunc
	nowFunc = func() time.Time { return at }
	t.Cleanup(func() { nowFunc = prev })
}
