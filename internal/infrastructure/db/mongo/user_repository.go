package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/TANADADaisuke/kinder-closet-app/internal/core/domain"
)

type userRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

type userDoc struct {
	ID      int64  `bson:"_id"`
	Auth0ID string `bson:"auth0_id"`
	Email   string `bson:"e_mail"`
	Address string `bson:"address"`
	Role    string `bson:"role"`
}

func (d userDoc) toDomain() domain.User {
	return domain.User{
		ID:      d.ID,
		Auth0ID: d.Auth0ID,
		Email:   d.Email,
		Address: d.Address,
		Role:    domain.Role(d.Role),
	}
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	out := make([]domain.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *userRepository) Get(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id}, id)
}

func (r *userRepository) GetByAuth0ID(ctx context.Context, auth0ID string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"auth0_id": auth0ID}, auth0ID)
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M, key any) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d userDoc
	if err := r.col.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound.WithDescription("user %v not found", key)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	u := d.toDomain()
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextID(ctx, r.db, collectionUsers)
	if err != nil {
		return err
	}
	doc := userDoc{ID: id, Auth0ID: u.Auth0ID, Email: u.Email, Address: u.Address, Role: string(u.Role)}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID = id
	return nil
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": u.ID}, bson.M{"$set": bson.M{
		"auth0_id": u.Auth0ID,
		"e_mail":   u.Email,
		"address":  u.Address,
		"role":     string(u.Role),
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound.WithDescription("user %d not found", u.ID)
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.db.Collection(collectionReservations).CountDocuments(ctx, bson.M{"user_id": id})
	if err != nil {
		return fmt.Errorf("count reservations: %w", err)
	}
	if n > 0 {
		return domain.ErrUserHasReservations.WithDescription("user %d holds reservations", id)
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound.WithDescription("user %d not found", id)
	}
	return nil
}
