package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/explore-taroudant/explore-api/internal/core/domain"
	"github.com/explore-taroudant/explore-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
	meFn       func(ctx context.Context, userID string) (*domain.User, error)
	updateFn   func(ctx context.Context, userID string, in ports.ProfileUpdate) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.meFn(ctx, userID)
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, userID string, in ports.ProfileUpdate) (*domain.User, error) {
	return s.updateFn(ctx, userID, in)
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*domain.User, error) {
			if in.Email != "amina@example.com" || in.Role != "GUIDE" || in.Bio != "Souk walks" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: "u1", FullName: in.FullName, Email: in.Email, Role: domain.RoleGuide, Status: domain.AccountPending}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/auth/register",
		`{"full_name":"Amina","email":"amina@example.com","password":"secret1","role":"GUIDE","bio":"Souk walks"}`, nil)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response: %s", rec.Body.String())
	}
	if user["role"] != "GUIDE" || user["status"] != "PENDING" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatal("password hash must not be serialised")
	}
	if _, ok := resp["token"]; ok {
		t.Fatal("register must not issue a token")
	}
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	})

	cases := map[string]string{
		"missing email":  `{"full_name":"A","password":"secret1"}`,
		"short password": `{"full_name":"A","email":"a@example.com","password":"123"}`,
		"admin role":     `{"full_name":"A","email":"a@example.com","password":"secret1","role":"ADMIN"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := newTestContext(http.MethodPost, "/auth/register", body, nil)
			assertHTTPStatus(t, h.Register(c), http.StatusUnprocessableEntity)
		})
	}
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrEmailTaken
		},
	})

	c, _ := newTestContext(http.MethodPost, "/auth/register",
		`{"full_name":"A","email":"a@example.com","password":"secret1"}`, nil)
	err := h.Register(c)
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthHandler_Register_BadPayload(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})
	c, _ := newTestContext(http.MethodPost, "/auth/register", `{"email":`, nil)
	assertHTTPStatus(t, h.Register(c), http.StatusBadRequest)
}

func TestAuthHandler_Login(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(_ context.Context, email, password string) (string, *domain.User, error) {
			if password != "secret1" {
				return "", nil, domain.ErrInvalidCredentials
			}
			return "tok", &domain.User{ID: "u1", Email: email, Role: domain.RoleTourist}, nil
		},
	})

	c, rec := newTestContext(http.MethodPost, "/auth/login", `{"email":"a@example.com","password":"secret1"}`, nil)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["token"] != "tok" {
		t.Fatalf("expected token, got %s", rec.Body.String())
	}

	c, _ = newTestContext(http.MethodPost, "/auth/login", `{"email":"a@example.com","password":"wrong"}`, nil)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Me_RequiresActor(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})
	c, _ := newTestContext(http.MethodGet, "/auth/me", "", nil)
	assertHTTPStatus(t, h.Me(c), http.StatusUnauthorized)
}

func TestAuthHandler_UpdateProfile(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		updateFn: func(_ context.Context, userID string, in ports.ProfileUpdate) (*domain.User, error) {
			if userID != testTourist.ID || in.Phone != "0600" {
				t.Fatalf("unexpected update %s %+v", userID, in)
			}
			return &domain.User{ID: userID, Phone: in.Phone}, nil
		},
	})

	c, rec := newTestContext(http.MethodPut, "/auth/profile", `{"phone":"0600"}`, testTourist)
	if err := h.UpdateProfile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
