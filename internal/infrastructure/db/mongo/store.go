package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/TANADADaisuke/kinder-closet-app/internal/core/ports"
)

const (
	collectionClothes      = "clothes"
	collectionUsers        = "users"
	collectionReservations = "reserves"
	collectionCounters     = "counters"
)

// Store implements ports.Transactor on top of multi-document transactions.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewStore(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{client: client, db: db}
}

// WithinTx runs fn inside a session transaction. The driver may re-run fn on
// transient transaction errors, so fn must not have side effects outside the
// repositories it is given.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos ports.Repositories) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("mongo start session: %w", err)
	}
	defer session.EndSession(ctx)

	repos := ports.Repositories{
		Clothes:      &clothesRepository{db: s.db, col: s.db.Collection(collectionClothes)},
		Users:        &userRepository{db: s.db, col: s.db.Collection(collectionUsers)},
		Reservations: &reservationRepository{db: s.db, col: s.db.Collection(collectionReservations)},
	}
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc, repos)
	})
	return err
}

// Ping reports whether the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// EnsureIndexes creates the unique indexes the ledger relies on. The unique
// clothes_id index is what rejects a second reservation of the same item.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*defaultTimeout)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		collectionUsers: {
			{Keys: bson.D{{Key: "auth0_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "e_mail", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collectionReservations: {
			{Keys: bson.D{{Key: "clothes_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
	}
	for name, models := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("mongo indexes on %s: %w", name, err)
		}
	}
	return nil
}

// nextID hands out sequential int64 ids per collection so both storage
// adapters expose the same identifiers.
func nextID(ctx context.Context, db *mongo.Database, name string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := db.Collection(collectionCounters).FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", name, err)
	}
	return counter.Seq, nil
}
