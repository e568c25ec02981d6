package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lungscreen/internal/model"
)

// ReportRepo handles MongoDB operations for finished screening reports
type ReportRepo interface {
	Save(ctx context.Context, report *model.Report) error
	GetBySessionID(ctx context.Context, sessionID string) (*model.Report, error)
	List(ctx context.Context, limit int64) ([]*model.Report, error)
}

type reportRepo struct {
	collection *mongo.Collection
}

// NewReportRepo creates a new report repository
func NewReportRepo(db *mongo.Database) ReportRepo {
	return &reportRepo{collection: db.Collection("screening_reports")}
}

// Save upserts by session ID so a re-finished interview replaces its report
func (r *reportRepo) Save(ctx context.Context, report *model.Report) error {
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now()
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"sessionId": report.SessionID}, report, opts)
	return err
}

func (r *reportRepo) GetBySessionID(ctx context.Context, sessionID string) (*model.Report, error) {
	var report model.Report
	err := r.collection.FindOne(ctx, bson.M{"sessionId": sessionID}).Decode(&report)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepo) List(ctx context.Context, limit int64) ([]*model.Report, error) {
	if limit <= 0 {
		limit = 20
	}
	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reports []*model.Report
	if err = cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}
