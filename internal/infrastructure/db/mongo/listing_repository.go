package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/explore-taroudant/explore-api/internal/core/domain"
	"github.com/explore-taroudant/explore-api/internal/core/ports"
)

type listingDoc[T any] interface {
	*T
	domain.Moderated
}

// listingCollection stores one listing kind per collection. The embedded
// domain.Listing is inlined, so status and proposer_id are top-level fields.
type listingCollection[T any, P listingDoc[T]] struct {
	col      *mongo.Collection
	notFound error
}

func newListingCollection[T any, P listingDoc[T]](db *mongo.Database, name string, notFound error) *listingCollection[T, P] {
	return &listingCollection[T, P]{col: db.Collection(name), notFound: notFound}
}

func (r *listingCollection[T, P]) FindByID(ctx context.Context, id string) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var entity T
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&entity); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, r.notFound
		}
		return nil, fmt.Errorf("find %s: %w", r.col.Name(), err)
	}
	return &entity, nil
}

func (r *listingCollection[T, P]) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if len(opts) == 0 {
		opts = []*options.FindOptions{newestFirst}
	}
	cur, err := r.col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", r.col.Name(), err)
	}
	out := []*T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.col.Name(), err)
	}
	return out, nil
}

func (r *listingCollection[T, P]) FindAll(ctx context.Context) ([]*T, error) {
	return r.find(ctx, bson.M{})
}

func (r *listingCollection[T, P]) FindByStatus(ctx context.Context, status domain.ModerationStatus) ([]*T, error) {
	return r.find(ctx, bson.M{"status": status})
}

func (r *listingCollection[T, P]) FindByProposer(ctx context.Context, proposerID string) ([]*T, error) {
	return r.find(ctx, bson.M{"proposer_id": proposerID})
}

// Save replaces the document with the entity's id, inserting it when absent.
func (r *listingCollection[T, P]) Save(ctx context.Context, entity *T) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id := P(entity).Base().ID
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": id}, entity, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save %s %s: %w", r.col.Name(), id, err)
	}
	return nil
}

func (r *listingCollection[T, P]) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", r.col.Name(), id, err)
	}
	if res.DeletedCount == 0 {
		return r.notFound
	}
	return nil
}

func withStatus(filter bson.M, status domain.ModerationStatus) bson.M {
	if status != "" {
		filter["status"] = status
	}
	return filter
}

func containsFold(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

type PlaceRepository struct {
	*listingCollection[domain.Place, *domain.Place]
}

var _ ports.PlaceRepository = (*PlaceRepository)(nil)

func NewPlaceRepository(db *mongo.Database) *PlaceRepository {
	return &PlaceRepository{newListingCollection[domain.Place, *domain.Place](db, collectionPlaces, domain.ErrPlaceNotFound)}
}

func (r *PlaceRepository) Search(ctx context.Context, query string, status domain.ModerationStatus) ([]*domain.Place, error) {
	rx := containsFold(query)
	return r.find(ctx, withStatus(bson.M{
		"$or": bson.A{bson.M{"name": rx}, bson.M{"city": rx}},
	}, status))
}

func (r *PlaceRepository) FindByCity(ctx context.Context, city string, status domain.ModerationStatus) ([]*domain.Place, error) {
	return r.find(ctx, withStatus(bson.M{"city": containsFold(city)}, status))
}

type ActivityRepository struct {
	*listingCollection[domain.Activity, *domain.Activity]
}

var _ ports.ActivityRepository = (*ActivityRepository)(nil)

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{newListingCollection[domain.Activity, *domain.Activity](db, collectionActivities, domain.ErrActivityNotFound)}
}

func (r *ActivityRepository) FindByPlace(ctx context.Context, placeID string, status domain.ModerationStatus) ([]*domain.Activity, error) {
	return r.find(ctx, withStatus(bson.M{"place_id": placeID}, status))
}

type CircuitRepository struct {
	*listingCollection[domain.Circuit, *domain.Circuit]
}

var _ ports.CircuitRepository = (*CircuitRepository)(nil)

func NewCircuitRepository(db *mongo.Database) *CircuitRepository {
	return &CircuitRepository{newListingCollection[domain.Circuit, *domain.Circuit](db, collectionCircuits, domain.ErrCircuitNotFound)}
}

type EventRepository struct {
	*listingCollection[domain.Event, *domain.Event]
}

var _ ports.EventRepository = (*EventRepository)(nil)

func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{newListingCollection[domain.Event, *domain.Event](db, collectionEvents, domain.ErrEventNotFound)}
}

func (r *EventRepository) FindEndingFrom(ctx context.Context, day time.Time, status domain.ModerationStatus) ([]*domain.Event, error) {
	byStart := options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}})
	return r.find(ctx, withStatus(bson.M{"end_date": bson.M{"$gte": day.UTC()}}, status), byStart)
}

type ArtisanRepository struct {
	*listingCollection[domain.Artisan, *domain.Artisan]
}

var _ ports.ArtisanRepository = (*ArtisanRepository)(nil)

func NewArtisanRepository(db *mongo.Database) *ArtisanRepository {
	return &ArtisanRepository{newListingCollection[domain.Artisan, *domain.Artisan](db, collectionArtisans, domain.ErrArtisanNotFound)}
}
