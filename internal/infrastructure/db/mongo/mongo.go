package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultTimeout = 10 * time.Second

const (
	collectionUsers         = "users"
	collectionGuideProfiles = "guide_profiles"
	collectionPlaces        = "places"
	collectionActivities    = "activities"
	collectionCircuits      = "circuits"
	collectionEvents        = "events"
	collectionArtisans      = "artisans"
	collectionReservations  = "reservations"
	collectionReports       = "reports"
	collectionReviews       = "reviews"
	collectionAudit         = "moderation_events"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// Pinger adapts a client to the readiness probe.
type Pinger struct {
	Client *mongo.Client
}

func (p Pinger) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return p.Client.Ping(ctx, readpref.Primary())
}

// EnsureIndexes creates the secondary indexes of every collection.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	listing := func(extra ...mongo.IndexModel) []mongo.IndexModel {
		return append([]mongo.IndexModel{
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "proposer_id", Value: 1}}},
		}, extra...)
	}

	specs := map[string][]mongo.IndexModel{
		collectionUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "role", Value: 1}}},
		},
		collectionGuideProfiles: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collectionPlaces:     listing(mongo.IndexModel{Keys: bson.D{{Key: "city", Value: 1}}}),
		collectionActivities: listing(mongo.IndexModel{Keys: bson.D{{Key: "place_id", Value: 1}}}),
		collectionCircuits:   listing(),
		collectionEvents:     listing(mongo.IndexModel{Keys: bson.D{{Key: "end_date", Value: 1}, {Key: "start_date", Value: 1}}}),
		collectionArtisans:   listing(),
		collectionReservations: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "reservation_date", Value: -1}}},
			{Keys: bson.D{{Key: "activity_id", Value: 1}}},
			{Keys: bson.D{{Key: "circuit_id", Value: 1}}},
		},
		collectionReviews: {
			{Keys: bson.D{{Key: "place_id", Value: 1}}},
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
		collectionAudit: {
			{Keys: bson.D{{Key: "kind", Value: 1}, {Key: "listing_id", Value: 1}, {Key: "timestamp", Value: 1}}},
		},
	}

	for name, models := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
