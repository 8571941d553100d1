package ports

import (
	"context"

	"github.com/explore-taroudant/explore-api/internal/core/domain"
)

// AuditLog appends moderation decisions to the audit trail.
type AuditLog interface {
	Record(ctx context.Context, event *domain.ModerationEvent) error
}
