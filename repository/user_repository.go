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

type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(UsersCollection)}
}

func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Conflict("User already exists with this email")
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("User")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"phone": phone})
}

func (r *MongoUserRepository) FindByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"verificationToken": token})
}

func (r *MongoUserRepository) FindByResetToken(ctx context.Context, token string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"resetPasswordToken": token})
}

// Update writes the mutable account fields; cleared tokens are unset.
func (r *MongoUserRepository) Update(ctx context.Context, user *models.User) error {
	set := bson.M{
		"name":       user.Name,
		"password":   user.Password,
		"isVerified": user.IsVerified,
		"updatedAt":  user.UpdatedAt,
	}
	unset := bson.M{}

	if user.Phone != "" {
		set["phone"] = user.Phone
	} else {
		unset["phone"] = ""
	}
	if user.VerificationToken != "" {
		set["verificationToken"] = user.VerificationToken
	} else {
		unset["verificationToken"] = ""
	}
	if user.ResetPasswordToken != "" && user.ResetPasswordExpires != nil {
		set["resetPasswordToken"] = user.ResetPasswordToken
		set["resetPasswordExpires"] = *user.ResetPasswordExpires
	} else {
		unset["resetPasswordToken"] = ""
		unset["resetPasswordExpires"] = ""
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": user.ID}, update)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("User")
	}
	return nil
}

func (r *MongoUserRepository) FindSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.UserSummary, error) {
	out := make(map[primitive.ObjectID]*models.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	opts := options.Find().SetProjection(bson.M{"name": 1, "email": 1, "phone": 1, "role": 1})
	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find user summaries: %w", err)
	}
	defer cursor.Close(ctx)

	var summaries []*models.UserSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("decode user summaries: %w", err)
	}
	for _, s := range summaries {
		out[s.ID] = s
	}
	return out, nil
}

func (r *MongoUserRepository) ListByRole(ctx context.Context, role models.Role) ([]*models.User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetProjection(bson.M{"name": 1, "email": 1, "phone": 1, "role": 1, "isVerified": 1, "createdAt": 1, "updatedAt": 1})

	cursor, err := r.coll.Find(ctx, bson.M{"role": role}, opts)
	if err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	defer cursor.Close(ctx)

	users := []*models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}
