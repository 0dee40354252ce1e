package repository

import (
	"context"
	"fmt"
	"time"

	"civic-issues-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const msPerDay = 1000 * 60 * 60 * 24

// MongoAnalyticsRepository runs the dashboard aggregations. Nothing is cached.
type MongoAnalyticsRepository struct {
	issues      *mongo.Collection
	assignments *mongo.Collection
}

func NewAnalyticsRepository(db *mongo.Database) *MongoAnalyticsRepository {
	return &MongoAnalyticsRepository{
		issues:      db.Collection(IssuesCollection),
		assignments: db.Collection(AssignmentsCollection),
	}
}

func (r *MongoAnalyticsRepository) Overview(ctx context.Context, since time.Time) (models.Overview, error) {
	var o models.Overview
	counts := []struct {
		dst    *int64
		filter bson.M
	}{
		{&o.TotalIssues, bson.M{}},
		{&o.RecentIssues, bson.M{"createdAt": bson.M{"$gte": since}}},
		{&o.ResolvedIssues, bson.M{"status": models.StatusResolved}},
		{&o.PendingIssues, bson.M{"status": models.StatusPending}},
		{&o.InProgressIssues, bson.M{"status": models.StatusInProgress}},
	}
	for _, c := range counts {
		n, err := r.issues.CountDocuments(ctx, c.filter)
		if err != nil {
			return models.Overview{}, fmt.Errorf("count issues: %w", err)
		}
		*c.dst = n
	}
	return o, nil
}

func groupCountPipeline(field string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
	}
}

func (r *MongoAnalyticsRepository) CountBy(ctx context.Context, field string) ([]models.GroupCount, error) {
	out := []models.GroupCount{}
	if err := aggregate(ctx, r.issues, groupCountPipeline(field), &out); err != nil {
		return nil, fmt.Errorf("count issues by %s: %w", field, err)
	}
	return out, nil
}

func resolutionTimePipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "status", Value: models.StatusResolved},
			{Key: "resolvedAt", Value: bson.D{{Key: "$exists", Value: true}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "resolutionTime", Value: bson.D{{Key: "$divide", Value: bson.A{
				bson.D{{Key: "$subtract", Value: bson.A{"$resolvedAt", "$createdAt"}}},
				msPerDay,
			}}}},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "avgResolutionTime", Value: bson.D{{Key: "$avg", Value: "$resolutionTime"}}},
			{Key: "minResolutionTime", Value: bson.D{{Key: "$min", Value: "$resolutionTime"}}},
			{Key: "maxResolutionTime", Value: bson.D{{Key: "$max", Value: "$resolutionTime"}}},
		}}},
	}
}

// ResolutionTime returns zeros when no issue has been resolved.
func (r *MongoAnalyticsRepository) ResolutionTime(ctx context.Context) (models.ResolutionTime, error) {
	var rows []models.ResolutionTime
	if err := aggregate(ctx, r.issues, resolutionTimePipeline(), &rows); err != nil {
		return models.ResolutionTime{}, fmt.Errorf("resolution time: %w", err)
	}
	if len(rows) == 0 {
		return models.ResolutionTime{}, nil
	}
	return rows[0], nil
}

func monthlyTrendPipeline(since time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "createdAt", Value: bson.D{{Key: "$gte", Value: since}}}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "year", Value: bson.D{{Key: "$year", Value: "$createdAt"}}},
				{Key: "month", Value: bson.D{{Key: "$month", Value: "$createdAt"}}},
			}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "resolved", Value: bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$eq", Value: bson.A{"$status", models.StatusResolved}}}, 1, 0,
			}}}}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id.year", Value: 1}, {Key: "_id.month", Value: 1}}}},
	}
}

func (r *MongoAnalyticsRepository) MonthlyTrend(ctx context.Context, since time.Time) ([]models.MonthlyPoint, error) {
	out := []models.MonthlyPoint{}
	if err := aggregate(ctx, r.issues, monthlyTrendPipeline(since), &out); err != nil {
		return nil, fmt.Errorf("monthly trend: %w", err)
	}
	return out, nil
}

func topWorkersPipeline(limit int64) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "status", Value: models.AssignmentCompleted}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$assignedTo"},
			{Key: "completedCount", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "completedCount", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: UsersCollection},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "worker"},
		}}},
		{{Key: "$unwind", Value: "$worker"}},
		{{Key: "$project", Value: bson.D{
			{Key: "workerName", Value: "$worker.name"},
			{Key: "workerEmail", Value: "$worker.email"},
			{Key: "completedCount", Value: 1},
		}}},
	}
}

func (r *MongoAnalyticsRepository) TopWorkers(ctx context.Context, limit int64) ([]models.WorkerStat, error) {
	out := []models.WorkerStat{}
	if err := aggregate(ctx, r.assignments, topWorkersPipeline(limit), &out); err != nil {
		return nil, fmt.Errorf("top workers: %w", err)
	}
	return out, nil
}

func (r *MongoAnalyticsRepository) Locations(ctx context.Context) ([]models.LocationPoint, error) {
	opts := options.Find().SetProjection(bson.M{"location": 1, "category": 1, "status": 1})
	cursor, err := r.issues.Find(ctx, bson.M{"location": bson.M{"$exists": true}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find locations: %w", err)
	}
	defer cursor.Close(ctx)

	out := []models.LocationPoint{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode locations: %w", err)
	}
	return out, nil
}

func aggregate(ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline, out interface{}) error {
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}
