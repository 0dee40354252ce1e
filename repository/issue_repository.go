package repository

import (
	"context"
	"errors"
	"fmt"

	"civic-issues-be/apperrors"
	"civic-issues-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const earthRadiusKm = 6378.1

// SortableIssueFields are the fields listings may be ordered by.
var SortableIssueFields = map[string]bool{
	"createdAt": true,
	"updatedAt": true,
	"priority":  true,
	"status":    true,
	"title":     true,
}

type MongoIssueRepository struct {
	coll *mongo.Collection
}

func NewIssueRepository(db *mongo.Database) *MongoIssueRepository {
	return &MongoIssueRepository{coll: db.Collection(IssuesCollection)}
}

func (r *MongoIssueRepository) Create(ctx context.Context, issue *models.Issue) error {
	if issue.ID.IsZero() {
		issue.ID = primitive.NewObjectID()
	}
	// $push needs arrays, never null.
	if issue.Photos == nil {
		issue.Photos = []string{}
	}
	if issue.Upvotes == nil {
		issue.Upvotes = []models.Upvote{}
	}
	if issue.Feedback == nil {
		issue.Feedback = []models.Feedback{}
	}
	if _, err := r.coll.InsertOne(ctx, issue); err != nil {
		return fmt.Errorf("insert issue: %w", err)
	}
	return nil
}

func (r *MongoIssueRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Issue, error) {
	var issue models.Issue
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&issue); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("Issue")
		}
		return nil, fmt.Errorf("find issue: %w", err)
	}
	return &issue, nil
}

func (r *MongoIssueRepository) FindBriefs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.IssueBrief, error) {
	out := make(map[primitive.ObjectID]*models.IssueBrief, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	opts := options.Find().SetProjection(bson.M{
		"title": 1, "description": 1, "category": 1, "status": 1, "createdAt": 1,
	})
	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find issue briefs: %w", err)
	}
	defer cursor.Close(ctx)

	var briefs []*models.IssueBrief
	if err := cursor.All(ctx, &briefs); err != nil {
		return nil, fmt.Errorf("decode issue briefs: %w", err)
	}
	for _, b := range briefs {
		out[b.ID] = b
	}
	return out, nil
}

// buildIssueFilters returns the find filter and the count filter. They differ
// only for proximity queries: $near orders by distance but cannot be counted,
// so the count uses the equivalent $geoWithin sphere.
func buildIssueFilters(f IssueFilter) (bson.M, bson.M) {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Priority != "" {
		filter["priority"] = f.Priority
	}
	if f.CreatedBy != nil {
		filter["createdBy"] = *f.CreatedBy
	}
	if f.AssignedTo != nil {
		filter["assignedTo"] = *f.AssignedTo
	}

	count := bson.M{}
	for k, v := range filter {
		count[k] = v
	}

	if f.Near != nil {
		point := bson.A{f.Near.Longitude, f.Near.Latitude}
		filter["location"] = bson.M{
			"$near": bson.M{
				"$geometry":    bson.M{"type": "Point", "coordinates": point},
				"$maxDistance": f.Near.RadiusKm * 1000,
			},
		}
		count["location"] = bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{point, f.Near.RadiusKm / earthRadiusKm},
			},
		}
	}
	return filter, count
}

func (r *MongoIssueRepository) List(ctx context.Context, f IssueFilter) ([]*models.Issue, int64, error) {
	filter, countFilter := buildIssueFilters(f)

	total, err := r.coll.CountDocuments(ctx, countFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("count issues: %w", err)
	}

	sortBy := f.SortBy
	if !SortableIssueFields[sortBy] {
		sortBy = "createdAt"
	}
	order := -1
	if f.SortAsc {
		order = 1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortBy, Value: order}}).
		SetSkip(f.Skip)
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find issues: %w", err)
	}
	defer cursor.Close(ctx)

	issues := []*models.Issue{}
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, 0, fmt.Errorf("decode issues: %w", err)
	}
	return issues, total, nil
}

func (r *MongoIssueRepository) UpdateDetails(ctx context.Context, issue *models.Issue) error {
	update := bson.M{"$set": bson.M{
		"title":       issue.Title,
		"description": issue.Description,
		"category":    issue.Category,
		"priority":    issue.Priority,
		"photos":      issue.Photos,
		"updatedAt":   issue.UpdatedAt,
	}}
	return r.updateOne(ctx, issue.ID, update)
}

func (r *MongoIssueRepository) UpdateLifecycle(ctx context.Context, issue *models.Issue) error {
	set := bson.D{
		{Key: "status", Value: issue.Status},
		{Key: "updatedAt", Value: issue.UpdatedAt},
	}
	if issue.AssignedTo != nil {
		set = append(set, bson.E{Key: "assignedTo", Value: *issue.AssignedTo})
	}
	if issue.ResolutionNotes != "" {
		// Pipeline stages evaluate "$..." strings as field paths.
		set = append(set, bson.E{Key: "resolutionNotes", Value: bson.M{"$literal": issue.ResolutionNotes}})
	}
	if issue.ResolvedAt != nil {
		set = append(set, bson.E{Key: "resolvedAt", Value: bson.M{
			"$ifNull": bson.A{"$resolvedAt", *issue.ResolvedAt},
		}})
	}

	pipeline := mongo.Pipeline{{{Key: "$set", Value: set}}}
	return r.updateOne(ctx, issue.ID, pipeline)
}

func (r *MongoIssueRepository) updateOne(ctx context.Context, id primitive.ObjectID, update interface{}) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("update issue: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("Issue")
	}
	return nil
}

func (r *MongoIssueRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete issue: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFound("Issue")
	}
	return nil
}

func (r *MongoIssueRepository) AddUpvote(ctx context.Context, issueID primitive.ObjectID, upvote models.Upvote) (bool, error) {
	filter := bson.M{"_id": issueID, "upvotes.user": bson.M{"$ne": upvote.User}}
	update := bson.M{
		"$push": bson.M{"upvotes": upvote},
		"$set":  bson.M{"updatedAt": upvote.CreatedAt},
	}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("add upvote: %w", err)
	}
	return res.MatchedCount == 1, nil
}

func (r *MongoIssueRepository) RemoveUpvote(ctx context.Context, issueID, userID primitive.ObjectID) error {
	update := bson.M{"$pull": bson.M{"upvotes": bson.M{"user": userID}}}
	return r.updateOne(ctx, issueID, update)
}

func (r *MongoIssueRepository) AddFeedback(ctx context.Context, issueID primitive.ObjectID, feedback models.Feedback) (bool, error) {
	filter := bson.M{
		"_id":           issueID,
		"status":        models.StatusResolved,
		"feedback.user": bson.M{"$ne": feedback.User},
	}
	update := bson.M{
		"$push": bson.M{"feedback": feedback},
		"$set":  bson.M{"updatedAt": feedback.CreatedAt},
	}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("add feedback: %w", err)
	}
	return res.MatchedCount == 1, nil
}
