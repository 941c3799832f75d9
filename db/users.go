package db

import (
	"context"
	"errors"
	"fmt"

	"eventspark/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserStore struct {
	coll *mongo.Collection
}

func NewUserStore(coll *mongo.Collection) *UserStore {
	return &UserStore{coll: coll}
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M) (models.User, error) {
	var u models.User
	err := s.coll.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, models.ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetUser(ctx context.Context, userID string) (models.User, error) {
	return s.findOne(ctx, bson.M{"userid": userID})
}

func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

// GetUsers loads the users with the given ids, keyed by id.
func (s *UserStore) GetUsers(ctx context.Context, userIDs []string) (map[string]models.User, error) {
	out := make(map[string]models.User, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	cursor, err := s.coll.Find(ctx, bson.M{"userid": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	for _, u := range users {
		out[u.UserID] = u
	}
	return out, nil
}

func (s *UserStore) InsertUser(ctx context.Context, u models.User) error {
	_, err := s.coll.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrUserExists
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// ListUsers returns users newest first. An empty role lists everyone.
func (s *UserStore) ListUsers(ctx context.Context, role models.Role) ([]models.User, error) {
	filter := bson.M{}
	if role != "" {
		filter["role"] = role
	}
	cursor, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (s *UserStore) SetRole(ctx context.Context, email string, role models.Role) (models.User, error) {
	var u models.User
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"role": role}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, models.ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("update role: %w", err)
	}
	return u, nil
}
