package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/TANADADaisuke/kinder-closet-app/internal/core/domain"
)

type clothesRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

type clothesDoc struct {
	ID         int64     `bson:"_id"`
	Type       string    `bson:"type"`
	Size       float64   `bson:"size"`
	Registered time.Time `bson:"registered_time"`
	Status     string    `bson:"status"`
}

func (d clothesDoc) toDomain() domain.Clothes {
	return domain.Clothes{
		ID:         d.ID,
		Type:       d.Type,
		Size:       d.Size,
		Registered: d.Registered.UTC(),
		Status:     domain.ClothesStatus(d.Status),
	}
}

func (r *clothesRepository) List(ctx context.Context) ([]domain.Clothes, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find clothes: %w", err)
	}
	var docs []clothesDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode clothes: %w", err)
	}

	out := make([]domain.Clothes, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *clothesRepository) Get(ctx context.Context, id int64) (*domain.Clothes, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d clothesDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrClothesNotFound.WithDescription("clothes %d not found", id)
		}
		return nil, fmt.Errorf("find clothes: %w", err)
	}
	c := d.toDomain()
	return &c, nil
}

func (r *clothesRepository) Create(ctx context.Context, c *domain.Clothes) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextID(ctx, r.db, collectionClothes)
	if err != nil {
		return err
	}
	doc := clothesDoc{ID: id, Type: c.Type, Size: c.Size, Registered: c.Registered, Status: string(c.Status)}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert clothes: %w", err)
	}
	c.ID = id
	return nil
}

func (r *clothesRepository) Update(ctx context.Context, c *domain.Clothes) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": c.ID}, bson.M{"$set": bson.M{
		"type":            c.Type,
		"size":            c.Size,
		"status":          string(c.Status),
		"registered_time": c.Registered,
	}})
	if err != nil {
		return fmt.Errorf("update clothes: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrClothesNotFound.WithDescription("clothes %d not found", c.ID)
	}
	return nil
}

func (r *clothesRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.db.Collection(collectionReservations).CountDocuments(ctx, bson.M{"clothes_id": id})
	if err != nil {
		return fmt.Errorf("count reservations: %w", err)
	}
	if n > 0 {
		return domain.ErrClothesReserved.WithDescription("clothes %d is reserved", id)
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete clothes: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrClothesNotFound.WithDescription("clothes %d not found", id)
	}
	return nil
}

func (r *clothesRepository) SetStatus(ctx context.Context, id int64, from, to domain.ClothesStatus, at time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": string(from)},
		bson.M{"$set": bson.M{"status": string(to), "registered_time": at}},
	)
	if err != nil {
		return false, fmt.Errorf("set clothes status: %w", err)
	}
	return res.MatchedCount == 1, nil
}
