package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/explore-taroudant/explore-api/internal/core/domain"
	"github.com/explore-taroudant/explore-api/internal/core/ports"
)

const minPasswordLength = 6

// AuthService implements registration, login and self-service profile edits.
type AuthService struct {
	users     ports.UserRepository
	guides    ports.GuideProfileRepository
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(users ports.UserRepository, guides ports.GuideProfileRepository, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{users: users, guides: guides, jwtSecret: jwtSecret, tokenTTL: tokenTTL, logger: logger}
}

// Register creates a TOURIST or GUIDE account. Guides start PENDING until an
// administrator activates them and get their guide profile immediately.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || strings.TrimSpace(in.FullName) == "" {
		return nil, domain.Invalid("full name and email are required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, domain.Invalid(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	role := domain.RoleTourist
	if in.Role != "" {
		r, ok := domain.ParseRole(strings.ToUpper(in.Role))
		if !ok || r == domain.RoleAdmin {
			return nil, domain.Invalid("role must be TOURIST or GUIDE")
		}
		role = r
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := nowFunc().UTC()
	user := &domain.User{
		ID:           newID(),
		FullName:     strings.TrimSpace(in.FullName),
		Email:        email,
		PasswordHash: string(hash),
		Phone:        in.Phone,
		Role:         role,
		Status:       domain.AccountActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if role == domain.RoleGuide {
		user.Status = domain.AccountPending
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if role == domain.RoleGuide {
		profile := &domain.GuideProfile{
			ID:        newID(),
			UserID:    user.ID,
			Bio:       in.Bio,
			Languages: in.Languages,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.guides.Save(ctx, profile); err != nil {
			if delErr := s.users.Delete(ctx, user.ID); delErr != nil {
				s.logger.Error().Err(delErr).Str("user", user.ID).Msg("failed to roll back guide registration")
			}
			return nil, fmt.Errorf("register guide profile: %w", err)
		}
	}

	s.logger.Info().Str("user", user.ID).Str("role", string(role)).Msg("user registered")
	return user, nil
}

// Login checks the credentials of an ACTIVE account and issues a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	if user.Status != domain.AccountActive {
		return "", nil, domain.ErrAccountInactive
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrActorNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile edits the caller's own account. Role and status are not
// self-editable.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in ports.ProfileUpdate) (*domain.User, error) {
	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.FullName); name != "" {
		user.FullName = name
	}
	if in.Phone != "" {
		user.Phone = in.Phone
	}
	if email := normalizeEmail(in.Email); email != "" && email != user.Email {
		other, err := s.users.FindByEmail(ctx, email)
		switch {
		case err == nil && other.ID != user.ID:
			return nil, domain.ErrEmailTaken
		case err != nil && !errors.Is(err, domain.ErrUserNotFound):
			return nil, fmt.Errorf("update profile: %w", err)
		}
		user.Email = email
	}
	if in.Password != "" {
		if len(in.Password) < minPasswordLength {
			return nil, domain.Invalid(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	user.UpdatedAt = nowFunc().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// EnsureAdmin creates the bootstrap administrator when no account uses email.
func (s *AuthService) EnsureAdmin(ctx context.Context, fullName, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := nowFunc().UTC()
	admin := &domain.User{
		ID:           newID(),
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		Status:       domain.AccountActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, admin); err != nil && !errors.Is(err, domain.ErrEmailTaken) {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	s.logger.Info().Str("email", email).Msg("bootstrap admin ensured")
	return nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := nowFunc()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  string(user.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
