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

type MongoAssignmentRepository struct {
	coll *mongo.Collection
}

func NewAssignmentRepository(db *mongo.Database) *MongoAssignmentRepository {
	return &MongoAssignmentRepository{coll: db.Collection(AssignmentsCollection)}
}

func (r *MongoAssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID.IsZero() {
		assignment.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, assignment); err != nil {
		return fmt.Errorf("insert assignment: %w", err)
	}
	return nil
}

func (r *MongoAssignmentRepository) FindLatestByIssue(ctx context.Context, issueID primitive.ObjectID) (*models.Assignment, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var assignment models.Assignment
	if err := r.coll.FindOne(ctx, bson.M{"issue": issueID}, opts).Decode(&assignment); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("Assignment")
		}
		return nil, fmt.Errorf("find assignment: %w", err)
	}
	return &assignment, nil
}

func (r *MongoAssignmentRepository) UpdateStatus(ctx context.Context, assignment *models.Assignment) error {
	set := bson.D{
		{Key: "status", Value: assignment.Status},
		{Key: "updatedAt", Value: assignment.UpdatedAt},
	}
	if assignment.ActualCompletionDate != nil {
		set = append(set, bson.E{Key: "actualCompletionDate", Value: bson.M{
			"$ifNull": bson.A{"$actualCompletionDate", *assignment.ActualCompletionDate},
		}})
	}

	pipeline := mongo.Pipeline{{{Key: "$set", Value: set}}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": assignment.ID}, pipeline)
	if err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("Assignment")
	}
	return nil
}

func (r *MongoAssignmentRepository) List(ctx context.Context, f AssignmentFilter) ([]*models.Assignment, int64, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.AssignedTo != nil {
		filter["assignedTo"] = *f.AssignedTo
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count assignments: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(f.Skip)
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find assignments: %w", err)
	}
	defer cursor.Close(ctx)

	assignments := []*models.Assignment{}
	if err := cursor.All(ctx, &assignments); err != nil {
		return nil, 0, fmt.Errorf("decode assignments: %w", err)
	}
	return assignments, total, nil
}
