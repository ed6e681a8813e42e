package mongodb

import (
	"context"
	"errors"

	"Skirmish/internal/battle/entity"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const defaultCollectionName = "match_reports"

type ReportRepository struct {
	coll *mongo.Collection
}

// NewReportRepository collection 为空时用默认集合名。战报以 match id 作为 _id，
// 按结束时间倒序查看最近对局需要先调 EnsureIndexes。
func NewReportRepository(db *mongo.Database, collection string) *ReportRepository {
	if collection == "" {
		collection = defaultCollectionName
	}
	return &ReportRepository{
		coll: db.Collection(collection),
	}
}

func (r *ReportRepository) EnsureIndexes(ctx context.Context) error {
	if r == nil || r.coll == nil {
		return errors.New("mongodb report collection is nil")
	}
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "ended_at", Value: -1}},
		Options: options.Index().SetName("ended_at_desc"),
	})
	return err
}

func (r *ReportRepository) Save(ctx context.Context, report *entity.MatchReport) error {
	if report == nil {
		return nil
	}
	if r == nil || r.coll == nil {
		return errors.New("mongodb report collection is nil")
	}

	_, err := r.coll.ReplaceOne(
		ctx,
		bson.M{"_id": report.MatchID},
		report,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (r *ReportRepository) Get(ctx context.Context, id entity.MatchID) (*entity.MatchReport, error) {
	if r == nil || r.coll == nil {
		return nil, errors.New("mongodb report collection is nil")
	}

	var report entity.MatchReport
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&report)
	switch {
	case err == nil:
		return &report, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, entity.ErrReportNotFound
	default:
		return nil, err
	}
}
