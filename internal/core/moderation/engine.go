// Package moderation implements the publication policy shared by every
// listing kind: initial status on creation, validation, ownership checks and
// the status consequence of an edit.
//
// The engine only reads and stamps the embedded domain.Listing of an entity;
// persistence and kind-specific fields stay with the caller.
package moderation

import (
	"context"
	"errors"
	"time"

	"github.com/explore-taroudant/explore-api/internal/core/domain"
)

// Access is the outcome of an ownership check.
type Access int

const (
	AccessNone Access = iota
	AccessOwner
	AccessAdmin
)

func (a Access) String() string {
	switch a {
	case AccessAdmin:
		return "admin"
	case AccessOwner:
		return "owner"
	default:
		return "none"
	}
}

// Engine applies the moderation policy for one listing kind.
type Engine struct {
	kind   domain.Kind
	owners OwnerResolver
	now    func() time.Time
}

// NewEngine returns an engine for kind whose owner identity is computed by owners.
func NewEngine(kind domain.Kind, owners OwnerResolver) *Engine {
	return &Engine{kind: kind, owners: owners, now: time.Now}
}

func (e *Engine) Kind() domain.Kind { return e.kind }

// OwnerOf returns the owner identity actor holds for this kind.
func (e *Engine) OwnerOf(ctx context.Context, actor *domain.User) (string, error) {
	return e.owners.OwnerID(ctx, actor)
}

// Propose stamps a new entity: ADMIN proposals are published immediately,
// GUIDE proposals wait for validation. TOURIST actors cannot propose.
func (e *Engine) Propose(ctx context.Context, actor *domain.User, entity domain.Moderated) error {
	if actor == nil {
		return domain.ErrActorNotFound
	}

	l := entity.Base()
	switch actor.Role {
	case domain.RoleAdmin:
		l.Status = domain.StatusActive
	case domain.RoleGuide:
		l.Status = domain.StatusPending
	default:
		return domain.ErrForbidden
	}

	owner, err := e.owners.OwnerID(ctx, actor)
	if err != nil {
		return err
	}

	now := e.now().UTC()
	l.ProposerID = owner
	l.CreatedAt = now
	l.UpdatedAt = now
	return nil
}

// Validate publishes entity. Only ADMIN may validate; validating an ACTIVE
// entity is a no-op.
func (e *Engine) Validate(actor *domain.User, entity domain.Moderated) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	l := entity.Base()
	if l.Status == domain.StatusActive {
		return nil
	}
	l.Status = domain.StatusActive
	l.UpdatedAt = e.now().UTC()
	return nil
}

// Authorize reports how actor may mutate entity. It fails with
// domain.ErrForbidden when actor is neither ADMIN nor the recorded proposer.
// An empty proposer never matches.
func (e *Engine) Authorize(ctx context.Context, actor *domain.User, entity domain.Moderated) (Access, error) {
	if actor == nil {
		return AccessNone, domain.ErrForbidden
	}
	if actor.IsAdmin() {
		return AccessAdmin, nil
	}

	owner, err := e.owners.OwnerID(ctx, actor)
	if err != nil {
		if errors.Is(err, domain.ErrProfileMissing) {
			return AccessNone, domain.ErrForbidden
		}
		return AccessNone, err
	}

	proposer := entity.Base().ProposerID
	if owner != "" && proposer != "" && owner == proposer {
		return AccessOwner, nil
	}
	return AccessNone, domain.ErrForbidden
}

// AuthorizeDelete applies the same rule as Authorize.
func (e *Engine) AuthorizeDelete(ctx context.Context, actor *domain.User, entity domain.Moderated) (Access, error) {
	return e.Authorize(ctx, actor, entity)
}

// ApplyEdit authorizes actor, runs apply to copy the editable fields, and
// settles the status: ADMIN edits end ACTIVE, owner edits end PENDING.
// Identity and proposer fields are restored after apply.
func (e *Engine) ApplyEdit(ctx context.Context, actor *domain.User, entity domain.Moderated, apply func()) (Access, error) {
	access, err := e.Authorize(ctx, actor, entity)
	if err != nil {
		return access, err
	}

	l := entity.Base()
	id, proposer, created := l.ID, l.ProposerID, l.CreatedAt

	if apply != nil {
		apply()
	}

	l.ID, l.ProposerID, l.CreatedAt = id, proposer, created
	if access == AccessAdmin {
		l.Status = domain.StatusActive
	} else {
		l.Status = domain.StatusPending
	}
	l.UpdatedAt = e.now().UTC()
	return access, nil
}

// Visible reports whether viewer may see entity. ACTIVE entities are public;
// PENDING ones are visible to ADMIN and to their owner only.
func (e *Engine) Visible(ctx context.Context, viewer *domain.User, entity domain.Moderated) bool {
	if entity.Base().IsActive() {
		return true
	}
	if viewer == nil {
		return false
	}
	_, err := e.Authorize(ctx, viewer, entity)
	return err == nil
}
