package moderation

import (
	"context"
	"errors"
	"fmt"

	"github.com/explore-taroudant/explore-api/internal/core/domain"
)

// OwnerResolver maps an actor to the owner identity a listing kind records
// as its proposer. An empty identity with a nil error means the actor has no
// owner identity for the kind and can never match a proposer.
type OwnerResolver interface {
	OwnerID(ctx context.Context, actor *domain.User) (string, error)
}

// ByActor is the resolver for kinds owned directly by the user (places, events).
type ByActor struct{}

func (ByActor) OwnerID(_ context.Context, actor *domain.User) (string, error) {
	return actor.ID, nil
}

// GuideProfileFinder looks up the guide profile attached to a user.
// A missing profile is reported as domain.ErrProfileMissing.
type GuideProfileFinder interface {
	FindByUserID(ctx context.Context, userID string) (*domain.GuideProfile, error)
}

// ByGuide is the resolver for kinds owned through a guide profile
// (activities, circuits, artisans).
type ByGuide struct {
	Profiles GuideProfileFinder
}

// OwnerID returns the guide profile id of a GUIDE actor. Other roles have no
// guide identity. A GUIDE without a profile yields domain.ErrProfileMissing.
func (g ByGuide) OwnerID(ctx context.Context, actor *domain.User) (string, error) {
	if actor.Role != domain.RoleGuide {
		return "", nil
	}
	profile, err := g.Profiles.FindByUserID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileMissing) {
			return "", domain.ErrProfileMissing
		}
		return "", fmt.Errorf("resolve guide profile: %w", err)
	}
	return profile.ID, nil
}
