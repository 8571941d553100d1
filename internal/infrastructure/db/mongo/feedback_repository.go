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

type ReportRepository struct {
	col *mongo.Collection
}

var _ ports.ReportRepository = (*ReportRepository)(nil)

func NewReportRepository(db *mongo.Database) *ReportRepository {
	return &ReportRepository{col: db.Collection(collectionReports)}
}

func (r *ReportRepository) FindByID(ctx context.Context, id string) (*domain.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rep domain.Report
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&rep); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrReportNotFound
		}
		return nil, err
	}
	return &rep, nil
}

func (r *ReportRepository) FindAll(ctx context.Context) ([]*domain.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, newestFirst)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	out := []*domain.Report{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode reports: %w", err)
	}
	return out, nil
}

func (r *ReportRepository) Save(ctx context.Context, rep *domain.Report) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": rep.ID}, rep, options.Replace().SetUpsert(true))
	return err
}

type ReviewRepository struct {
	col *mongo.Collection
}

var _ ports.ReviewRepository = (*ReviewRepository)(nil)

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{col: db.Collection(collectionReviews)}
}

func (r *ReviewRepository) FindByID(ctx context.Context, id string) (*domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rev domain.Review
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&rev); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrReviewNotFound
		}
		return nil, err
	}
	return &rev, nil
}

func (r *ReviewRepository) find(ctx context.Context, filter bson.M) ([]*domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, newestFirst)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	out := []*domain.Review{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}
	return out, nil
}

func (r *ReviewRepository) FindByPlace(ctx context.Context, placeID string) ([]*domain.Review, error) {
	return r.find(ctx, bson.M{"place_id": placeID})
}

func (r *ReviewRepository) FindByUser(ctx context.Context, userID string) ([]*domain.Review, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *ReviewRepository) Save(ctx context.Context, rev *domain.Review) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": rev.ID}, rev, options.Replace().SetUpsert(true))
	return err
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

// Summary averages the ratings of placeID server-side.
func (r *ReviewRepository) Summary(ctx context.Context, placeID string) (*domain.RatingSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "place_id", Value: placeID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$place_id"},
			{Key: "average", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate ratings: %w", err)
	}
	defer cur.Close(ctx)

	sum := &domain.RatingSummary{PlaceID: placeID}
	if cur.Next(ctx) {
		if err := cur.Decode(sum); err != nil {
			return nil, fmt.Errorf("decode rating summary: %w", err)
		}
	}
	return sum, cur.Err()
}
