package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/explore-taroudant/explore-api/internal/core/domain"
	"github.com/explore-taroudant/explore-api/internal/core/ports"
)

type ReservationRepository struct {
	col *mongo.Collection
}

var _ ports.ReservationRepository = (*ReservationRepository)(nil)

func NewReservationRepository(db *mongo.Database) *ReservationRepository {
	return &ReservationRepository{col: db.Collection(collectionReservations)}
}

func (r *ReservationRepository) FindByID(ctx context.Context, id string) (*domain.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var res domain.Reservation
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&res); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

func (r *ReservationRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query reservations: %w", err)
	}
	out := []*domain.Reservation{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode reservations: %w", err)
	}
	return out, nil
}

// FindByUser returns the user's reservations, latest reservation date first.
// When status is empty every status matches.
func (r *ReservationRepository) FindByUser(ctx context.Context, userID string, status domain.ReservationStatus) ([]*domain.Reservation, error) {
	filter := bson.M{"user_id": userID}
	if status != "" {
		filter["status"] = status
	}
	byDate := options.Find().SetSort(bson.D{{Key: "reservation_date", Value: -1}, {Key: "created_at", Value: -1}})
	return r.find(ctx, filter, byDate)
}

func (r *ReservationRepository) FindByTargets(ctx context.Context, activityIDs, circuitIDs []string) ([]*domain.Reservation, error) {
	or := bson.A{}
	if len(activityIDs) > 0 {
		or = append(or, bson.M{"activity_id": bson.M{"$in": activityIDs}})
	}
	if len(circuitIDs) > 0 {
		or = append(or, bson.M{"circuit_id": bson.M{"$in": circuitIDs}})
	}
	if len(or) == 0 {
		return []*domain.Reservation{}, nil
	}
	return r.find(ctx, bson.M{"$or": or}, newestFirst)
}

func (r *ReservationRepository) FindAll(ctx context.Context) ([]*domain.Reservation, error) {
	return r.find(ctx, bson.M{}, newestFirst)
}

func (r *ReservationRepository) Save(ctx context.Context, res *domain.Reservation) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": res.ID}, res, options.Replace().SetUpsert(true))
	return err
}

func (r *ReservationRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	out, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if out.DeletedCount == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}
