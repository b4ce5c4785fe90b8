package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/TANADADaisuke/kinder-closet-app/internal/core/domain"
)

type reservationRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

type reservationDoc struct {
	ID        int64 `bson:"_id"`
	ClothesID int64 `bson:"clothes_id"`
	UserID    int64 `bson:"user_id"`
}

// Create inserts a reservation. MongoDB has no foreign keys, so the referenced
// documents are checked inside the same transaction.
func (r *reservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	for name, id := range map[string]int64{collectionClothes: res.ClothesID, collectionUsers: res.UserID} {
		n, err := r.db.Collection(name).CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return fmt.Errorf("count %s: %w", name, err)
		}
		if n == 0 {
			return domain.ErrUnprocessable.WithDescription("reservation references a missing clothes or user")
		}
	}

	id, err := nextID(ctx, r.db, collectionReservations)
	if err != nil {
		return err
	}
	doc := reservationDoc{ID: id, ClothesID: res.ClothesID, UserID: res.UserID}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyReserved.WithDescription("clothes %d is already reserved", res.ClothesID)
		}
		return fmt.Errorf("insert reservation: %w", err)
	}
	res.ID = id
	return nil
}

func (r *reservationRepository) FindByClothes(ctx context.Context, clothesID int64) ([]domain.Reservation, error) {
	return r.find(ctx, bson.M{"clothes_id": clothesID})
}

func (r *reservationRepository) FindByUser(ctx context.Context, userID int64) ([]domain.Reservation, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *reservationRepository) find(ctx context.Context, filter bson.M) ([]domain.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find reservations: %w", err)
	}
	var docs []reservationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode reservations: %w", err)
	}

	var out []domain.Reservation
	for _, d := range docs {
		out = append(out, domain.Reservation{ID: d.ID, ClothesID: d.ClothesID, UserID: d.UserID})
	}
	return out, nil
}

func (r *reservationRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete reservation: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrReservationNotFound.WithDescription("reservation %d not found", id)
	}
	return nil
}
