package db

import (
	"context"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *MongoStore) CreateUser(ctx context.Context, user *model.User) error {
	return s.insert(ctx, UsersCollection, user)
}

func (s *MongoStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := s.findOne(ctx, UsersCollection, bson.M{"_id": id}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := s.findOne(ctx, UsersCollection, bson.M{"email": email}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoStore) UpdateUser(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now().UTC()
	return s.replaceByID(ctx, UsersCollection, user.ID, user)
}

func (s *MongoStore) DeleteUser(ctx context.Context, id string) error {
	return s.deleteByID(ctx, UsersCollection, id)
}

func (s *MongoStore) ListUsersExcludingRole(ctx context.Context, role string) ([]model.User, error) {
	opts := options.Find().SetSort(sortBy("created_at", false))
	return findAll[model.User](ctx, s.coll(UsersCollection), bson.M{"role": bson.M{"$ne": role}}, opts)
}

func (s *MongoStore) CreatePasswordReset(ctx context.Context, reset *model.PasswordReset) error {
	return s.insert(ctx, PasswordResetsCollection, reset)
}

func (s *MongoStore) GetPasswordReset(ctx context.Context, id string) (*model.PasswordReset, error) {
	var reset model.PasswordReset
	if err := s.findOne(ctx, PasswordResetsCollection, bson.M{"_id": id}, &reset); err != nil {
		return nil, err
	}
	return &reset, nil
}

func (s *MongoStore) MarkPasswordResetUsed(ctx context.Context, id string) error {
	res, err := s.coll(PasswordResetsCollection).UpdateOne(ctx,
		bson.M{"_id": id, "used": false},
		bson.M{"$set": bson.M{"used": true}})
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
