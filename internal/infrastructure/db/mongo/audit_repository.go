package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/explore-taroudant/explore-api/internal/core/domain"
	"github.com/explore-taroudant/explore-api/internal/core/ports"
)

// AuditRepository implements ports.AuditLog on the moderation_events collection.
type AuditRepository struct {
	col *mongo.Collection
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) ports.AuditLog {
	return &AuditRepository{col: db.Collection(collectionAudit)}
}

// Record appends a moderation decision. Entries are never updated.
func (r *AuditRepository) Record(ctx context.Context, event *domain.ModerationEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"kind":         string(event.Kind),
		"listing_id":   event.ListingID,
		"action":       string(event.Action),
		"actor_id":     event.ActorID,
		"actor_role":   string(event.ActorRole),
		"timestamp":    event.Timestamp.UTC(),
		"processed_at": time.Now().UTC(),
	}
	if event.FromStatus != "" {
		doc["from_status"] = string(event.FromStatus)
	}
	if event.ToStatus != "" {
		doc["to_status"] = string(event.ToStatus)
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert moderation event: %w", err)
	}
	return nil
}
