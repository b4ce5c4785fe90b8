package mongo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/TANADADaisuke/kinder-closet-app/internal/core/domain"
	"github.com/TANADADaisuke/kinder-closet-app/internal/core/ports"
)

func TestClothesDocToDomain(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.FixedZone("JST", 9*3600))
	got := clothesDoc{ID: 3, Type: "shirt", Size: 100, Registered: at, Status: "reserved"}.toDomain()

	if got.ID != 3 || got.Type != "shirt" || got.Size != 100 {
		t.Errorf("unexpected fields: %+v", got)
	}
	if !got.Reserved() {
		t.Error("expected reserved status")
	}
	if got.Registered.Location() != time.UTC || !got.Registered.Equal(at) {
		t.Errorf("expected UTC instant equal to %v, got %v", at, got.Registered)
	}
}

func TestOperationTimeoutFitsConnectTimeout(t *testing.T) {
	if defaultTimeout <= 0 || defaultTimeout >= connectTimeout {
		t.Errorf("per-call timeout %v must be positive and shorter than the connect timeout %v", defaultTimeout, connectTimeout)
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	if deadline, ok := ctx.Deadline(); !ok || time.Until(deadline) > defaultTimeout {
		t.Errorf("unexpected deadline %v", deadline)
	}
}

// newTestStore connects to the replica set named by CLOSET_TEST_MONGO_URI and
// uses a throwaway database. Tests are skipped without it.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("CLOSET_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("CLOSET_TEST_MONGO_URI not set")
	}

	ctx := context.Background()
	client, db, err := Connect(ctx, Config{URI: uri, Database: fmt.Sprintf("closet_test_%s", uuid.NewString()[:8])})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	s := NewStore(client, db)
	if err := s.EnsureIndexes(ctx); err != nil {
		t.Fatalf("indexes: %v", err)
	}
	return s
}

func TestReservationUniquePerClothes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := &domain.Clothes{Type: "shirt", Size: 100, Registered: time.Now().UTC()}
	u := &domain.User{Auth0ID: "auth0|alice", Email: "alice@example.com", Role: domain.RoleUser}
	err := s.WithinTx(ctx, func(ctx context.Context, r ports.Repositories) error {
		if err := r.Clothes.Create(ctx, c); err != nil {
			return err
		}
		return r.Users.Create(ctx, u)
	})
	if err != nil {
		t.Fatalf("seeding: %v", err)
	}

	create := func() error {
		return s.WithinTx(ctx, func(ctx context.Context, r ports.Repositories) error {
			return r.Reservations.Create(ctx, &domain.Reservation{ClothesID: c.ID, UserID: u.ID})
		})
	}
	if err := create(); err != nil {
		t.Fatalf("first reservation: %v", err)
	}
	if err := create(); !errors.Is(err, domain.ErrAlreadyReserved) {
		t.Fatalf("expected ErrAlreadyReserved, got %v", err)
	}
}

func TestWithinTxRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithinTx(ctx, func(ctx context.Context, r ports.Repositories) error {
		if err := r.Clothes.Create(ctx, &domain.Clothes{Type: "coat", Size: 110, Registered: time.Now().UTC()}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	err = s.WithinTx(ctx, func(ctx context.Context, r ports.Repositories) error {
		all, err := r.Clothes.List(ctx)
		if err != nil {
			return err
		}
		if len(all) != 0 {
			t.Errorf("expected rollback, found %d clothes", len(all))
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}
