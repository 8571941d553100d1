package domain

import "time"

// ModerationAction names a state change recorded in the audit trail.
type ModerationAction string

const (
	ActionProposed  ModerationAction = "proposed"
	ActionValidated ModerationAction = "validated"
	ActionEdited    ModerationAction = "edited"
	ActionDeleted   ModerationAction = "deleted"
)

// ModerationEvent records a single moderation decision on a listing.
type ModerationEvent struct {
	Kind       Kind             `bson:"kind"`
	ListingID  string           `bson:"listing_id"`
	Action     ModerationAction `bson:"action"`
	ActorID    string           `bson:"actor_id"`
	ActorRole  Role             `bson:"actor_role"`
	FromStatus ModerationStatus `bson:"from_status,omitempty"`
	ToStatus   ModerationStatus `bson:"to_status,omitempty"`
	Timestamp  time.Time        `bson:"timestamp"`
}
